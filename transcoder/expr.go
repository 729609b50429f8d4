package transcoder

import (
	"github.com/wippyai/reql/pretty"
	"github.com/wippyai/reql/ql2"
)

// Expr is a built query term together with the call site that built it.
// The term must not be mutated once wrapped.
type Expr struct {
	term   *ql2.Term
	origin Origin
}

func newExpr(t *ql2.Term, origin Origin) *Expr {
	return &Expr{term: t, origin: origin}
}

// Term returns the wire term. Callers must treat it as read-only.
func (x *Expr) Term() *ql2.Term { return x.term }

// Origin returns where the expression was built.
func (x *Expr) Origin() Origin { return x.origin }

// String renders the term in query-language form.
func (x *Expr) String() string { return pretty.Term(x.term) }

// NewExpr builds a term of type tt whose arguments are encoded from args.
func NewExpr(tt ql2.TermType, args ...any) (*Expr, error) {
	origin := Capture(1)
	t := &ql2.Term{Type: tt, Args: make([]*ql2.Term, len(args))}
	for i, a := range args {
		x, err := exprOf(a, origin, defaultConfig())
		if err != nil {
			return nil, err
		}
		t.Args[i] = x.term
	}
	return newExpr(t, origin), nil
}

// WithOptArg returns a copy of x with the named argument key set to v.
// x itself is left unchanged.
func (x *Expr) WithOptArg(key string, v any) (*Expr, error) {
	val, err := exprOf(v, x.origin, defaultConfig())
	if err != nil {
		return nil, err
	}
	t := *x.term
	t.OptArgs = make([]ql2.TermPair, len(x.term.OptArgs), len(x.term.OptArgs)+1)
	copy(t.OptArgs, x.term.OptArgs)
	t.OptArgs = append(t.OptArgs, ql2.TermPair{Key: key, Val: val.term})
	return newExpr(&t, x.origin), nil
}

// Var returns a reference to function parameter id.
func Var(id int64) *Expr {
	return newExpr(&ql2.Term{
		Type: ql2.VAR,
		Args: []*ql2.Term{ql2.DatumTerm(ql2.NumDatum(float64(id)))},
	}, Origin{})
}
