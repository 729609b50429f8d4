package transcoder

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/reql/errors"
	"github.com/wippyai/reql/ql2"
)

// DefaultMaxNesting caps literal nesting depth for the JSON fallback.
const DefaultMaxNesting = 500

type encodeConfig struct {
	maxNesting   int
	allowRawJSON bool
}

func defaultConfig() encodeConfig {
	return encodeConfig{maxNesting: DefaultMaxNesting}
}

// EncodeOption configures a single encode call.
type EncodeOption func(*encodeConfig)

// WithRawJSON lets Expr-free literals come back unchanged so they can be
// serialized later in bulk.
func WithRawJSON(allow bool) EncodeOption {
	return func(c *encodeConfig) { c.allowRawJSON = allow }
}

// WithMaxNesting overrides DefaultMaxNesting. Values below 1 are ignored.
func WithMaxNesting(n int) EncodeOption {
	return func(c *encodeConfig) {
		if n > 0 {
			c.maxNesting = n
		}
	}
}

// Encoder turns one Go value into an expression. Once it has produced an
// Expr it is bound and refuses further use.
type Encoder struct {
	bound *Expr
	opts  []EncodeOption
}

// NewEncoder creates an encoder. opts apply to every call and may be
// overridden per call.
func NewEncoder(opts ...EncodeOption) *Encoder {
	return &Encoder{opts: opts}
}

// Bound returns the expression the encoder produced, or nil.
func (e *Encoder) Bound() *Expr {
	return e.bound
}

// Encode converts v. The result is either an *Expr or, when raw JSON is
// allowed and v contains no Expr, v itself.
func (e *Encoder) Encode(v any, opts ...EncodeOption) (any, error) {
	if e.bound != nil {
		return nil, errors.AlreadyBound()
	}
	cfg := e.config(opts)
	s := &encodeState{cfg: cfg, origin: Capture(1)}

	val, err := Classify(v, cfg.maxNesting)
	if err != nil {
		return nil, err
	}
	res, err := s.fast(val, nil)
	if err != nil {
		return nil, err
	}
	if x, ok := res.(*Expr); ok {
		e.bound = x
		return x, nil
	}
	return v, nil
}

// Expr converts v and always returns an expression; deferred literals are
// wrapped in a JSON term.
func (e *Encoder) Expr(v any, opts ...EncodeOption) (*Expr, error) {
	if e.bound != nil {
		return nil, errors.AlreadyBound()
	}
	x, err := exprOf(v, Capture(1), e.config(opts))
	if err != nil {
		return nil, err
	}
	e.bound = x
	return x, nil
}

func (e *Encoder) config(opts []EncodeOption) encodeConfig {
	cfg := defaultConfig()
	for _, o := range e.opts {
		o(&cfg)
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// ExprOf is the one-shot form of NewEncoder().Expr(v, opts...).
func ExprOf(v any, opts ...EncodeOption) (*Expr, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return exprOf(v, Capture(1), cfg)
}

func exprOf(v any, origin Origin, cfg encodeConfig) (*Expr, error) {
	if x, ok := v.(*Expr); ok && x != nil {
		return x, nil
	}
	val, err := Classify(v, cfg.maxNesting)
	if err != nil {
		return nil, err
	}
	s := &encodeState{cfg: cfg, origin: origin}
	res, err := s.fast(val, nil)
	if err != nil {
		return nil, err
	}
	if x, ok := res.(*Expr); ok {
		return x, nil
	}
	t, err := s.anyToTerm(res, nil)
	if err != nil {
		return nil, err
	}
	return newExpr(t, origin), nil
}

type encodeState struct {
	origin Origin
	cfg    encodeConfig
}

// fast returns an *Expr, or v unchanged when it may stay a raw literal.
func (s *encodeState) fast(v Value, path []string) (Value, error) {
	switch x := v.(type) {
	case *Expr:
		return x, nil

	case Int, Float, Str, Symbol, Bool, Null:
		if s.cfg.allowRawJSON {
			return x, nil
		}
		if i, ok := x.(Int); ok && !isSafeInteger(int64(i)) {
			Logger().Debug("integer literal exceeds double precision",
				zap.Int64("value", int64(i)),
				zap.Strings("path", path))
		}
		t, err := DatumTerm(x)
		if err != nil {
			return nil, err
		}
		return newExpr(t, s.origin), nil

	case Seq:
		args := make([]Value, len(x))
		hasExpr := false
		for i, item := range x {
			r, err := s.fast(item, appendPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			if _, ok := r.(*Expr); ok {
				hasExpr = true
			}
			args[i] = r
		}
		if s.cfg.allowRawJSON && !hasExpr {
			return x, nil
		}
		t := &ql2.Term{Type: ql2.MAKE_ARRAY, Args: make([]*ql2.Term, len(args))}
		for i, a := range args {
			at, err := s.anyToTerm(a, appendPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			t.Args[i] = at
		}
		return newExpr(t, s.origin), nil

	case Map:
		vals := make([]Value, len(x))
		deferred := s.cfg.allowRawJSON
		for i, p := range x {
			r, err := s.fast(p.Val, appendPath(path, keyPath(p.Key)))
			if err != nil {
				return nil, err
			}
			if _, isStr := keyString(p.Key); !isStr {
				deferred = false
			}
			if _, ok := r.(*Expr); ok {
				deferred = false
			}
			vals[i] = r
		}
		if deferred {
			return x, nil
		}
		t := &ql2.Term{Type: ql2.MAKE_OBJ, OptArgs: make([]ql2.TermPair, len(x))}
		for i, p := range x {
			k, ok := keyString(p.Key)
			if !ok {
				err := errors.InvalidKey(p.Key)
				err.Path = path
				return nil, err
			}
			vt, err := s.anyToTerm(vals[i], appendPath(path, k))
			if err != nil {
				return nil, err
			}
			t.OptArgs[i] = ql2.TermPair{Key: k, Val: vt}
		}
		return newExpr(t, s.origin), nil

	case Callable:
		t, err := buildFunc(x, s.origin, s.cfg)
		if err != nil {
			return nil, err
		}
		return newExpr(t, s.origin), nil

	default:
		err := errors.UnsupportedValue(v)
		err.Path = path
		return nil, err
	}
}

// anyToTerm uses an Expr's term directly and wraps raw literals as JSON.
func (s *encodeState) anyToTerm(v Value, path []string) (*ql2.Term, error) {
	if x, ok := v.(*Expr); ok {
		return x.term, nil
	}
	Logger().Debug("wrapping literal as JSON", zap.Strings("path", path))
	return JSONTerm(v, s.cfg.maxNesting)
}

func keyPath(k any) string {
	if s, ok := keyString(k); ok {
		return s
	}
	return errors.TypeName(k)
}
