package transcoder

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/reql/errors"
	"github.com/wippyai/reql/ql2"
)

func TestBuildFunc(t *testing.T) {
	x := mustExpr(t, func(row *Expr) any {
		body, err := NewExpr(ql2.GETATTR, row, "age")
		if err != nil {
			t.Fatal(err)
		}
		return body
	})

	term := x.Term()
	if term.Type != ql2.FUNC || len(term.Args) != 2 {
		t.Fatalf("term = %s", x)
	}
	params := term.Args[0]
	if params.Type != ql2.MAKE_ARRAY || len(params.Args) != 1 {
		t.Fatalf("params = %+v", params)
	}
	id := params.Args[0].Datum.Num

	body := term.Args[1]
	if body.Type != ql2.GETATTR {
		t.Fatalf("body = %+v", body)
	}
	v := body.Args[0]
	if v.Type != ql2.VAR || v.Args[0].Datum.Num != id {
		t.Errorf("body variable %+v does not reference parameter %v", v, id)
	}
}

func TestBuildFunc_Shapes(t *testing.T) {
	t.Run("two params with error result", func(t *testing.T) {
		x := mustExpr(t, func(a, b *Expr) (any, error) {
			return []any{a, b}, nil
		})
		params := x.Term().Args[0].Args
		if len(params) != 2 || params[0].Datum.Num == params[1].Datum.Num {
			t.Errorf("params = %+v, want two distinct ids", params)
		}
		if x.Term().Args[1].Type != ql2.MAKE_ARRAY {
			t.Errorf("body = %+v", x.Term().Args[1])
		}
	})

	t.Run("any param", func(t *testing.T) {
		x := mustExpr(t, func(v any) any { return v })
		if x.Term().Args[1].Type != ql2.VAR {
			t.Errorf("body = %+v", x.Term().Args[1])
		}
	})

	t.Run("literal body", func(t *testing.T) {
		x := mustExpr(t, func() any { return map[string]any{"ok": true} })
		if got := x.String(); got != `func() { {"ok": true} }` {
			t.Errorf("String() = %q", got)
		}
	})

	t.Run("nested in object", func(t *testing.T) {
		x := mustExpr(t, map[string]any{"f": func(r *Expr) any { return r }})
		if x.Term().OptArg("f").Type != ql2.FUNC {
			t.Errorf("term = %s", x)
		}
	})
}

func TestBuildFunc_Errors(t *testing.T) {
	tests := []struct {
		name string
		fn   any
		want string
	}{
		{"variadic", func(args ...*Expr) any { return nil }, "variadic"},
		{"no result", func(*Expr) {}, "must return"},
		{"bad second result", func(*Expr) (any, int) { return nil, 0 }, "must return"},
		{"bad param", func(int) any { return nil }, "cannot receive"},
		{"body error", func(*Expr) (any, error) { return nil, stderrors.New("nope") }, "nope"},
		{"unsupported body", func() any { return make(chan int) }, "r.expr can't handle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExprOf(tt.fn)
			if !stderrors.Is(err, errors.ErrDriver) {
				t.Fatalf("err = %v, want driver error", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestBuildFunc_BodyUsesCallerOptions(t *testing.T) {
	fn := func(r *Expr) any { return []any{r, nested(4)} }

	_, err := ExprOf(fn, WithRawJSON(true), WithMaxNesting(3))
	if !stderrors.Is(err, errors.ErrDriver) || !strings.Contains(err.Error(), "too deep") {
		t.Errorf("ExprOf err = %v, want depth error from the body", err)
	}
	if _, err := ExprOf(fn, WithRawJSON(true), WithMaxNesting(4)); err != nil {
		t.Errorf("ExprOf within cap: %v", err)
	}

	_, err = BuildFunc(Callable{Fn: fn}, Origin{}, WithRawJSON(true), WithMaxNesting(3))
	if !stderrors.Is(err, errors.ErrDriver) {
		t.Errorf("BuildFunc err = %v, want driver error", err)
	}
	term, err := BuildFunc(Callable{Fn: fn}, Origin{})
	if err != nil {
		t.Fatalf("BuildFunc with defaults: %v", err)
	}
	if term.Args[1].Type != ql2.MAKE_ARRAY {
		t.Errorf("body = %+v", term.Args[1])
	}
}
