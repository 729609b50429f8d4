package transcoder

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/reql/errors"
	"github.com/wippyai/reql/pretty"
	"github.com/wippyai/reql/ql2"
)

// Decoder interprets server responses.
type Decoder struct {
	log  *zap.Logger
	last *ql2.Term
	id   uuid.UUID
	mu   sync.Mutex
}

// NewDecoder creates a decoder with its own id and annotation slot.
func NewDecoder() *Decoder {
	id := uuid.New()
	return &Decoder{
		id:  id,
		log: Logger().With(zap.Stringer("decoder", id)),
	}
}

// ID identifies the decoder in log output.
func (d *Decoder) ID() uuid.UUID {
	return d.id
}

// LastAnnotated returns the annotated copy of the query behind the most
// recent error, or nil. Each error also carries its own copy in Error.Term.
func (d *Decoder) LastAnnotated() *ql2.Term {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Decode converts resp into a Go value, or into an *errors.Error for error
// responses. orig is the query that produced resp; when set, errors carry a
// rendering of it with the backtrace location underlined. orig is never
// modified.
//
//	SUCCESS_ATOM                       → decoded first datum
//	SUCCESS_SEQUENCE, SUCCESS_PARTIAL  → []any of all datums
//	RUNTIME_ERROR                      → KindRuntime
//	COMPILE_ERROR                      → KindCompile
//	CLIENT_ERROR                       → KindDriver
func (d *Decoder) Decode(resp *ql2.Response, orig *Expr) (any, error) {
	if resp == nil {
		return nil, errors.Driver(errors.PhaseResponse, "nil response")
	}

	val, err := d.dispatch(resp)
	if err == nil {
		return val, nil
	}
	if orig == nil || orig.term == nil {
		return nil, err
	}

	path := pretty.PathFromBacktrace(resp.Backtrace)
	annotated := pretty.Annotate(orig.term.Clone(), path)
	aug := err.Augment(pretty.Render(annotated), annotated.Root)
	if len(path) > 0 {
		aug.Path = path.Strings()
	}

	d.mu.Lock()
	d.last = annotated.Root
	d.mu.Unlock()

	d.log.Debug("response error",
		zap.Stringer("type", resp.Type),
		zap.String("kind", string(aug.Kind)),
		zap.Strings("backtrace", path.Strings()))
	return nil, aug
}

func (d *Decoder) dispatch(resp *ql2.Response) (any, *errors.Error) {
	switch resp.Type {
	case ql2.SUCCESS_ATOM:
		if len(resp.Response) == 0 {
			return nil, errors.InvalidData(errors.PhaseResponse, nil, "SUCCESS_ATOM response carries no datum")
		}
		return decodeResult(resp.Response[0])

	case ql2.SUCCESS_SEQUENCE, ql2.SUCCESS_PARTIAL:
		out := make([]any, len(resp.Response))
		for i, datum := range resp.Response {
			v, err := decodeResult(datum)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case ql2.RUNTIME_ERROR:
		msg, err := errorMessage(resp)
		if err != nil {
			return nil, err
		}
		return nil, errors.Runtime(errors.PhaseResponse, msg)

	case ql2.COMPILE_ERROR:
		msg, err := errorMessage(resp)
		if err != nil {
			return nil, err
		}
		return nil, errors.Compile(errors.PhaseResponse, msg)

	case ql2.CLIENT_ERROR:
		msg, err := errorMessage(resp)
		if err != nil {
			return nil, err
		}
		return nil, errors.Driver(errors.PhaseResponse, msg)

	default:
		d.log.Warn("unexpected response type", zap.Stringer("type", resp.Type))
		return nil, errors.UnexpectedResponse(resp)
	}
}

func decodeResult(datum *ql2.Datum) (any, *errors.Error) {
	v, err := DecodeDatum(datum)
	if err != nil {
		return nil, asError(err)
	}
	return v, nil
}

func errorMessage(resp *ql2.Response) (string, *errors.Error) {
	if len(resp.Response) == 0 {
		return "", errors.InvalidData(errors.PhaseResponse, nil, resp.Type.String()+" response carries no message")
	}
	v, err := DecodeDatum(resp.Response[0])
	if err != nil {
		return "", asError(err)
	}
	msg, ok := v.(string)
	if !ok {
		return "", errors.New(errors.PhaseResponse, errors.KindRuntime).
			GoType(errors.TypeName(v)).
			Value(v).
			Detail("%s message is not a string", resp.Type).
			Build()
	}
	return msg, nil
}

func asError(err error) *errors.Error {
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	return errors.Wrap(errors.PhaseDecode, errors.KindRuntime, err, "decode failed")
}

// DecodeResponse decodes resp with a fresh Decoder.
func DecodeResponse(resp *ql2.Response, orig *Expr) (any, error) {
	return NewDecoder().Decode(resp, orig)
}
