package transcoder

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/reql/errors"
	"github.com/wippyai/reql/transcoder/internal/abi"
)

// Value is the closed set of shapes the encoder understands.
type Value interface {
	isValue()
}

type (
	Int    int64
	Float  float64
	Str    string
	Symbol string // identifier-like string; encoded as a plain string
	Bool   bool
	Null   struct{}
	Seq    []Value
	Map    []Pair
)

// Pair is one entry of a Map. Key keeps the caller's original key so a
// non-string key can be reported precisely.
type Pair struct {
	Key any
	Val Value
}

// Callable is a Go func whose parameters accept *Expr. See BuildFunc.
type Callable struct {
	Fn any
}

func (Int) isValue()      {}
func (Float) isValue()    {}
func (Str) isValue()      {}
func (Symbol) isValue()   {}
func (Bool) isValue()     {}
func (Null) isValue()     {}
func (Seq) isValue()      {}
func (Map) isValue()      {}
func (Callable) isValue() {}
func (*Expr) isValue()    {}

// keyString returns the string form of a string-like map key.
func keyString(k any) (string, bool) {
	switch s := k.(type) {
	case string:
		return s, true
	case Symbol:
		return string(s), true
	case Str:
		return string(s), true
	}
	return "", false
}

// classifyDepth bounds how deep Classify descends, so self-referencing
// structures fail instead of exhausting the stack.
const classifyDepth = 10000

// Classify maps an arbitrary Go value onto Value. Strings must be valid
// UTF-8. Container nesting is bounded by the larger of maxNesting and an
// internal cycle guard; the maxNesting cap itself applies to literals
// wrapped as JSON (see MarshalJSON).
func Classify(v any, maxNesting int) (Value, error) {
	return classify(v, 0, max(maxNesting, classifyDepth), nil)
}

func classify(v any, depth, limit int, path []string) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case *Expr:
		if x == nil {
			return Null{}, nil
		}
		return x, nil
	case Str:
		return x, checkUTF8(string(x), path)
	case Symbol:
		return x, checkUTF8(string(x), path)
	case Int, Float, Bool, Null, Callable:
		return x.(Value), nil
	case string:
		return Str(x), checkUTF8(x, path)
	case bool:
		return Bool(x), nil
	case Seq:
		return classifySeq(len(x), func(i int) any { return x[i] }, depth, limit, path)
	case Map:
		if depth >= limit {
			return nil, tooDeep(limit, path)
		}
		out := make(Map, len(x))
		for i, p := range x {
			if k, ok := keyString(p.Key); ok {
				if err := checkUTF8(k, path); err != nil {
					return nil, err
				}
			}
			val, err := classify(p.Val, depth+1, limit, appendPath(path, fmt.Sprint(p.Key)))
			if err != nil {
				return nil, err
			}
			out[i] = Pair{Key: p.Key, Val: val}
		}
		return out, nil
	case []any:
		return classifySeq(len(x), func(i int) any { return x[i] }, depth, limit, path)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if depth >= limit {
			return nil, tooDeep(limit, path)
		}
		out := make(Map, len(keys))
		for i, k := range keys {
			if err := checkUTF8(k, path); err != nil {
				return nil, err
			}
			val, err := classify(x[k], depth+1, limit, appendPath(path, k))
			if err != nil {
				return nil, err
			}
			out[i] = Pair{Key: k, Val: val}
		}
		return out, nil
	}

	if n, ok := abi.CoerceNumber(v); ok {
		if n.Integral {
			return Int(n.Int), nil
		}
		return Float(n.Float), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return Str(rv.String()), checkUTF8(rv.String(), path)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Seq{}, nil
		}
		return classifySeq(rv.Len(), func(i int) any { return rv.Index(i).Interface() }, depth, limit, path)
	case reflect.Array:
		return classifySeq(rv.Len(), func(i int) any { return rv.Index(i).Interface() }, depth, limit, path)
	case reflect.Map:
		return classifyMap(rv, depth, limit, path)
	case reflect.Func:
		if rv.IsNil() {
			return Null{}, nil
		}
		return Callable{Fn: v}, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		if depth >= limit {
			return nil, tooDeep(limit, path)
		}
		return classify(rv.Elem().Interface(), depth+1, limit, path)
	}

	err := errors.UnsupportedValue(v)
	err.Path = path
	return nil, err
}

func classifySeq(n int, at func(int) any, depth, limit int, path []string) (Value, error) {
	if depth >= limit {
		return nil, tooDeep(limit, path)
	}
	out := make(Seq, n)
	for i := 0; i < n; i++ {
		item, err := classify(at(i), depth+1, limit, appendPath(path, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

// classifyMap orders entries by the printable form of their keys, then by
// key type name, since Go map iteration order is unspecified.
func classifyMap(rv reflect.Value, depth, limit int, path []string) (Value, error) {
	if depth >= limit {
		return nil, tooDeep(limit, path)
	}
	keys := rv.MapKeys()
	printed := make([]string, len(keys))
	types := make([]string, len(keys))
	for i, k := range keys {
		ki := k.Interface()
		printed[i] = fmt.Sprint(ki)
		types[i] = errors.TypeName(ki)
		if s, ok := keyString(ki); ok {
			if err := checkUTF8(s, path); err != nil {
				return nil, err
			}
		}
	}
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if printed[ia] != printed[ib] {
			return printed[ia] < printed[ib]
		}
		return types[ia] < types[ib]
	})

	out := make(Map, len(keys))
	for i, j := range idx {
		k := keys[j]
		val, err := classify(rv.MapIndex(k).Interface(), depth+1, limit, appendPath(path, printed[j]))
		if err != nil {
			return nil, err
		}
		out[i] = Pair{Key: k.Interface(), Val: val}
	}
	return out, nil
}

// maxReportedSteps caps how much of a path a depth error prints.
const maxReportedSteps = 4

func tooDeep(limit int, path []string) *errors.Error {
	err := errors.TooDeep(limit)
	if len(path) > maxReportedSteps {
		path = append(path[:maxReportedSteps:maxReportedSteps], "...")
	}
	err.Path = path
	return err
}

// checkUTF8 rejects strings that JSON text cannot carry unchanged.
func checkUTF8(s string, path []string) error {
	if utf8.ValidString(s) {
		return nil
	}
	err := errors.InvalidUTF8(s)
	err.Path = path
	return err
}

// maxPathSteps bounds recorded error paths; deeper steps collapse into "...".
const maxPathSteps = 32

func appendPath(path []string, elem string) []string {
	if len(path) > maxPathSteps {
		return path
	}
	if len(path) == maxPathSteps {
		elem = "..."
	}
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}
