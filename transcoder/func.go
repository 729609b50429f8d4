package transcoder

import (
	"reflect"
	"sync/atomic"

	"github.com/wippyai/reql/errors"
	"github.com/wippyai/reql/ql2"
)

var (
	nextVarID atomic.Int64
	exprType  = reflect.TypeOf((*Expr)(nil))
	errorType = reflect.TypeOf((*error)(nil)).Elem()
)

// BuildFunc turns a Go func into a FUNC term.
//
// Each parameter receives a fresh VAR expression, so parameters must accept
// *Expr (any, Value and *Expr all do). The func returns the body as any
// encodable value, optionally followed by an error:
//
//	func(row *transcoder.Expr) any
//	func(a, b *transcoder.Expr) (any, error)
//
// The result is FUNC(MAKE_ARRAY(ids...), body). opts apply to encoding the
// body.
func BuildFunc(c Callable, origin Origin, opts ...EncodeOption) (*ql2.Term, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return buildFunc(c, origin, cfg)
}

func buildFunc(c Callable, origin Origin, cfg encodeConfig) (*ql2.Term, error) {
	fv := reflect.ValueOf(c.Fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, errors.UnsupportedValue(c.Fn)
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return nil, errors.New(errors.PhaseEncode, errors.KindDriver).
			GoType(ft.String()).
			Detail("variadic functions cannot be encoded: %s", ft).
			Build()
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, errors.New(errors.PhaseEncode, errors.KindDriver).
			GoType(ft.String()).
			Detail("function must return a body value and optionally an error: %s", ft).
			Build()
	}

	ids := make([]*ql2.Term, ft.NumIn())
	in := make([]reflect.Value, ft.NumIn())
	for i := range in {
		if !exprType.AssignableTo(ft.In(i)) {
			return nil, errors.New(errors.PhaseEncode, errors.KindDriver).
				GoType(ft.String()).
				Detail("parameter %d of type %s cannot receive a query variable", i, ft.In(i)).
				Build()
		}
		id := nextVarID.Add(1)
		ids[i] = ql2.DatumTerm(ql2.NumDatum(float64(id)))
		in[i] = reflect.ValueOf(Var(id))
	}

	out := fv.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindDriver, out[1].Interface().(error), "function body failed")
	}

	body, err := exprOf(out[0].Interface(), origin, cfg)
	if err != nil {
		return nil, err
	}

	return &ql2.Term{
		Type: ql2.FUNC,
		Args: []*ql2.Term{
			{Type: ql2.MAKE_ARRAY, Args: ids},
			body.term,
		},
	}, nil
}
