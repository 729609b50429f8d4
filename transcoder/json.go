package transcoder

import (
	"encoding/json"
	"strconv"

	"github.com/wippyai/reql/errors"
	"github.com/wippyai/reql/ql2"
)

// MarshalJSON serializes a raw (Expr-free) Value as JSON text. Containers
// nested deeper than maxNesting, counted from v, fail before any text is
// produced. Strings must be valid UTF-8.
func MarshalJSON(v Value, maxNesting int) (string, error) {
	plain, err := toPlain(v, 0, maxNesting, nil)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(plain)
	if err != nil {
		return "", errors.Wrap(errors.PhaseEncode, errors.KindDriver, err, "JSON literal encoding failed")
	}
	return string(data), nil
}

// JSONTerm wraps a raw Value as JSON(DATUM(text)).
func JSONTerm(v Value, maxNesting int) (*ql2.Term, error) {
	text, err := MarshalJSON(v, maxNesting)
	if err != nil {
		return nil, err
	}
	return &ql2.Term{
		Type: ql2.JSON,
		Args: []*ql2.Term{ql2.DatumTerm(ql2.StrDatum(text))},
	}, nil
}

// orderedObject marshals Map pairs in their original order.
type orderedObject struct {
	keys []string
	vals []any
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, k := range o.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		val, err := json.Marshal(o.vals[i])
		if err != nil {
			return nil, err
		}
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

func toPlain(v Value, depth, limit int, path []string) (any, error) {
	switch x := v.(type) {
	case Int:
		return int64(x), nil
	case Float:
		return float64(x), nil
	case Str:
		return string(x), checkUTF8(string(x), path)
	case Symbol:
		return string(x), checkUTF8(string(x), path)
	case Bool:
		return bool(x), nil
	case Null:
		return nil, nil
	case Seq:
		if depth >= limit {
			return nil, tooDeep(limit, path)
		}
		out := make([]any, len(x))
		for i, item := range x {
			p, err := toPlain(item, depth+1, limit, appendPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	case Map:
		if depth >= limit {
			return nil, tooDeep(limit, path)
		}
		obj := orderedObject{keys: make([]string, len(x)), vals: make([]any, len(x))}
		for i, pair := range x {
			k, ok := keyString(pair.Key)
			if !ok {
				err := errors.InvalidKey(pair.Key)
				err.Path = path
				return nil, err
			}
			if err := checkUTF8(k, path); err != nil {
				return nil, err
			}
			p, err := toPlain(pair.Val, depth+1, limit, appendPath(path, k))
			if err != nil {
				return nil, err
			}
			obj.keys[i] = k
			obj.vals[i] = p
		}
		return obj, nil
	default:
		// Exprs and callables never reach the JSON path.
		return nil, errors.Unreachable(v)
	}
}
