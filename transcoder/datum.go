package transcoder

import (
	"strconv"

	"github.com/wippyai/reql/errors"
	"github.com/wippyai/reql/ql2"
	"github.com/wippyai/reql/transcoder/internal/abi"
)

// EncodeScalar converts a scalar Value into a Datum. Callers filter to
// scalars first; anything else is an internal error.
func EncodeScalar(v Value) (*ql2.Datum, error) {
	switch x := v.(type) {
	case Int:
		return ql2.NumDatum(float64(x)), nil
	case Float:
		return ql2.NumDatum(float64(x)), nil
	case Str:
		return ql2.StrDatum(string(x)), nil
	case Symbol:
		return ql2.StrDatum(string(x)), nil
	case Bool:
		return ql2.BoolDatum(bool(x)), nil
	case Null:
		return ql2.NullDatum(), nil
	default:
		return nil, errors.Unreachable(v)
	}
}

// DatumTerm wraps a scalar Value into a DATUM term.
func DatumTerm(v Value) (*ql2.Term, error) {
	d, err := EncodeScalar(v)
	if err != nil {
		return nil, err
	}
	return ql2.DatumTerm(d), nil
}

// DecodeDatum converts a wire datum into a Go value.
//
// Numbers equal to their truncation decode as int64, others as float64.
// Objects decode to map[string]any; on repeated keys the last pair wins.
func DecodeDatum(d *ql2.Datum) (any, error) {
	return decodeDatum(d, nil)
}

func decodeDatum(d *ql2.Datum, path []string) (any, error) {
	if d == nil {
		return nil, errors.InvalidData(errors.PhaseDecode, path, "missing datum")
	}

	switch d.Type {
	case ql2.R_NUM:
		if i, ok := abi.IntegralValue(d.Num); ok {
			return i, nil
		}
		return d.Num, nil

	case ql2.R_STR:
		return d.Str, nil

	case ql2.R_BOOL:
		return d.Bool, nil

	case ql2.R_NULL:
		return nil, nil

	case ql2.R_ARRAY:
		out := make([]any, len(d.Array))
		for i, item := range d.Array {
			v, err := decodeDatum(item, appendPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case ql2.R_OBJECT:
		out := make(map[string]any, len(d.Object))
		for _, p := range d.Object {
			v, err := decodeDatum(p.Val, appendPath(path, p.Key))
			if err != nil {
				return nil, err
			}
			out[p.Key] = v
		}
		return out, nil

	default:
		err := errors.Unimplemented(d.Type)
		err.Path = path
		return nil, err
	}
}

// isSafeInteger reports whether i survives a round trip through a double.
func isSafeInteger(i int64) bool {
	const maxSafe = 1<<53 - 1
	return i >= -maxSafe && i <= maxSafe
}
