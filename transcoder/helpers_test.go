package transcoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/wippyai/reql/ql2"
)

// evalLiteral reduces a literal term tree to the datum a server would
// produce for it.
func evalLiteral(t *ql2.Term) (*ql2.Datum, error) {
	switch t.Type {
	case ql2.DATUM:
		return t.Datum, nil
	case ql2.MAKE_ARRAY:
		out := ql2.ArrayDatum()
		for _, a := range t.Args {
			d, err := evalLiteral(a)
			if err != nil {
				return nil, err
			}
			out.Array = append(out.Array, d)
		}
		return out, nil
	case ql2.MAKE_OBJ:
		out := ql2.ObjectDatum()
		for _, p := range t.OptArgs {
			d, err := evalLiteral(p.Val)
			if err != nil {
				return nil, err
			}
			out.Object = append(out.Object, ql2.DatumPair{Key: p.Key, Val: d})
		}
		return out, nil
	case ql2.JSON:
		dec := json.NewDecoder(bytes.NewReader([]byte(t.Args[0].Datum.Str)))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return jsonToDatum(v)
	}
	return nil, fmt.Errorf("not a literal term: %s", t.Type)
}

func jsonToDatum(v any) (*ql2.Datum, error) {
	switch x := v.(type) {
	case nil:
		return ql2.NullDatum(), nil
	case bool:
		return ql2.BoolDatum(x), nil
	case string:
		return ql2.StrDatum(x), nil
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return nil, err
		}
		return ql2.NumDatum(f), nil
	case []any:
		out := ql2.ArrayDatum()
		for _, item := range x {
			d, err := jsonToDatum(item)
			if err != nil {
				return nil, err
			}
			out.Array = append(out.Array, d)
		}
		return out, nil
	case map[string]any:
		out := ql2.ObjectDatum()
		for k, item := range x {
			d, err := jsonToDatum(item)
			if err != nil {
				return nil, err
			}
			out.Object = append(out.Object, ql2.DatumPair{Key: k, Val: d})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unexpected JSON value %T", v)
}

// roundTrip encodes v, evaluates the literal term and decodes the result.
func roundTrip(t *testing.T, v any, opts ...EncodeOption) any {
	t.Helper()
	x, err := ExprOf(v, opts...)
	if err != nil {
		t.Fatalf("ExprOf(%v): %v", v, err)
	}
	d, err := evalLiteral(x.Term())
	if err != nil {
		t.Fatalf("evalLiteral: %v", err)
	}
	got, err := DecodeDatum(d)
	if err != nil {
		t.Fatalf("DecodeDatum: %v", err)
	}
	return got
}

func nested(depth int) any {
	var v any = 1
	for i := 0; i < depth; i++ {
		v = []any{v}
	}
	return v
}
