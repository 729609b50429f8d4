package transcoder

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/wippyai/reql/errors"
	"github.com/wippyai/reql/pretty"
	"github.com/wippyai/reql/ql2"
)

func errResponse(rt ql2.ResponseType, msg string, frames ...ql2.Frame) *ql2.Response {
	r := &ql2.Response{Type: rt, Response: []*ql2.Datum{ql2.StrDatum(msg)}}
	if frames != nil {
		r.Backtrace = &ql2.Backtrace{Frames: frames}
	}
	return r
}

// 1.add("x")
func addQuery(t *testing.T) *Expr {
	t.Helper()
	x, err := NewExpr(ql2.ADD, 1, "x")
	if err != nil {
		t.Fatal(err)
	}
	return x
}

func TestDecode_Success(t *testing.T) {
	tests := []struct {
		name string
		resp *ql2.Response
		want any
	}{
		{
			name: "atom integral",
			resp: &ql2.Response{Type: ql2.SUCCESS_ATOM, Response: []*ql2.Datum{ql2.NumDatum(4.0)}},
			want: int64(4),
		},
		{
			name: "atom object",
			resp: &ql2.Response{Type: ql2.SUCCESS_ATOM, Response: []*ql2.Datum{
				ql2.ObjectDatum(ql2.DatumPair{Key: "a", Val: ql2.NumDatum(1)}, ql2.DatumPair{Key: "a", Val: ql2.NumDatum(2.5)}),
			}},
			want: map[string]any{"a": 2.5},
		},
		{
			name: "sequence",
			resp: &ql2.Response{Type: ql2.SUCCESS_SEQUENCE, Response: []*ql2.Datum{
				ql2.NumDatum(1), ql2.StrDatum("b"), ql2.NullDatum(),
			}},
			want: []any{int64(1), "b", nil},
		},
		{
			name: "partial decodes like sequence",
			resp: &ql2.Response{Type: ql2.SUCCESS_PARTIAL, Response: []*ql2.Datum{ql2.BoolDatum(true), ql2.NumDatum(0.5)}},
			want: []any{true, 0.5},
		},
		{
			name: "empty sequence",
			resp: &ql2.Response{Type: ql2.SUCCESS_SEQUENCE},
			want: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDecoder().Decode(tt.resp, addQuery(t))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecode_ErrorKinds(t *testing.T) {
	tests := []struct {
		rt   ql2.ResponseType
		want *errors.Error
		kind errors.Kind
	}{
		{ql2.RUNTIME_ERROR, errors.ErrRuntime, errors.KindRuntime},
		{ql2.COMPILE_ERROR, errors.ErrCompile, errors.KindCompile},
		{ql2.CLIENT_ERROR, errors.ErrDriver, errors.KindDriver},
	}

	for _, tt := range tests {
		t.Run(tt.rt.String(), func(t *testing.T) {
			_, err := NewDecoder().Decode(errResponse(tt.rt, "boom"), addQuery(t))
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Kind != tt.kind {
				t.Fatalf("err = %#v", err)
			}
			if !strings.HasPrefix(e.Message, "boom\nBacktrace:\n") {
				t.Errorf("Message = %q", e.Message)
			}
		})
	}
}

func TestDecode_RuntimeErrorWithBacktrace(t *testing.T) {
	orig := addQuery(t)
	before := pretty.Term(orig.Term())
	d := NewDecoder()

	_, err := d.Decode(errResponse(ql2.RUNTIME_ERROR, "boom", ql2.Frame{Type: ql2.POS, Pos: 0}), orig)

	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindRuntime {
		t.Fatalf("err = %v, want runtime error", err)
	}
	want := "boom\nBacktrace:\n1.add(\"x\")\n^"
	if e.Message != want {
		t.Errorf("Message = %q, want %q", e.Message, want)
	}
	if strings.Join(e.Path, ".") != "0" {
		t.Errorf("Path = %v", e.Path)
	}

	if after := pretty.Term(orig.Term()); after != before {
		t.Errorf("originating expression changed: %q -> %q", before, after)
	}
	if e.Term == nil || e.Term == orig.Term() {
		t.Error("error should carry a private annotated copy")
	}
	if d.LastAnnotated() != e.Term {
		t.Error("LastAnnotated should hold the same annotated copy")
	}
}

func TestDecode_NamedFrame(t *testing.T) {
	table, err := NewExpr(ql2.TABLE, "users")
	if err != nil {
		t.Fatal(err)
	}
	orig, err := table.WithOptArg("use_outdated", "maybe")
	if err != nil {
		t.Fatal(err)
	}

	_, err = DecodeResponse(errResponse(ql2.COMPILE_ERROR, "expected bool", ql2.Frame{Type: ql2.OPT, Opt: "use_outdated"}), orig)

	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("err = %v", err)
	}
	lines := strings.Split(e.Message, "\n")
	if len(lines) != 4 {
		t.Fatalf("Message = %q", e.Message)
	}
	if lines[2] != `r.table("users", use_outdated: "maybe")` {
		t.Errorf("render = %q", lines[2])
	}
	idx := strings.Index(lines[2], `"maybe"`)
	if lines[3] != strings.Repeat(" ", idx)+"^^^^^^^" {
		t.Errorf("carets = %q", lines[3])
	}
}

func TestDecode_NoBacktrace(t *testing.T) {
	_, err := NewDecoder().Decode(errResponse(ql2.RUNTIME_ERROR, "boom"), addQuery(t))
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("err = %v", err)
	}
	if e.Message != "boom\nBacktrace:\n1.add(\"x\")" {
		t.Errorf("Message = %q", e.Message)
	}
	if len(e.Path) != 0 {
		t.Errorf("Path = %v, want empty", e.Path)
	}
}

func TestDecode_NoOriginatingExpression(t *testing.T) {
	_, err := NewDecoder().Decode(errResponse(ql2.RUNTIME_ERROR, "boom", ql2.Frame{Type: ql2.POS, Pos: 0}), nil)
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("err = %v", err)
	}
	if e.Message != "boom" || e.Term != nil {
		t.Errorf("err = %+v, want plain message", e)
	}
}

func TestDecode_Unexpected(t *testing.T) {
	resp := &ql2.Response{Type: ql2.ResponseType(99), Token: 3, Response: []*ql2.Datum{ql2.NumDatum(1)}}
	_, err := NewDecoder().Decode(resp, addQuery(t))
	if !stderrors.Is(err, errors.ErrRuntime) {
		t.Fatalf("err = %v, want runtime error", err)
	}
	var e *errors.Error
	stderrors.As(err, &e)
	if !strings.HasPrefix(e.Message, "Unexpected response: Response{type: ResponseType(99), token: 3") {
		t.Errorf("Message = %q", e.Message)
	}
	if !strings.Contains(e.Message, "\nBacktrace:\n") {
		t.Errorf("unexpected responses should be augmented too: %q", e.Message)
	}
}

func TestDecode_MalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		resp *ql2.Response
		want string
	}{
		{"atom without datum", &ql2.Response{Type: ql2.SUCCESS_ATOM}, "carries no datum"},
		{"error without message", &ql2.Response{Type: ql2.RUNTIME_ERROR}, "carries no message"},
		{"non-string message", &ql2.Response{Type: ql2.CLIENT_ERROR, Response: []*ql2.Datum{ql2.NumDatum(1)}}, "not a string"},
		{"unknown datum tag", &ql2.Response{Type: ql2.SUCCESS_SEQUENCE, Response: []*ql2.Datum{{Type: 99}}}, "Unimplemented"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder().Decode(tt.resp, addQuery(t))
			if !stderrors.Is(err, errors.ErrRuntime) {
				t.Fatalf("err = %v, want runtime error", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err %q should contain %q", err, tt.want)
			}
		})
	}

	if _, err := NewDecoder().Decode(nil, nil); !stderrors.Is(err, errors.ErrDriver) {
		t.Errorf("nil response err = %v", err)
	}
}

func TestDecoder_ConcurrentUse(t *testing.T) {
	d := NewDecoder()
	orig := addQuery(t)
	resp := errResponse(ql2.RUNTIME_ERROR, "boom", ql2.Frame{Type: ql2.POS, Pos: 1})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.Decode(resp, orig); err == nil {
				t.Error("expected error")
			}
			_ = d.LastAnnotated()
		}()
	}
	wg.Wait()

	if d.LastAnnotated() == nil {
		t.Error("LastAnnotated should be set")
	}
	if d.ID() == NewDecoder().ID() {
		t.Error("decoders should have distinct ids")
	}
}
