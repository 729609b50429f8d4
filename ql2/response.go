package ql2

import (
	"strconv"
	"strings"
)

// ResponseType tags a server response envelope.
type ResponseType uint8

const (
	SUCCESS_ATOM     ResponseType = 1
	SUCCESS_SEQUENCE ResponseType = 2
	SUCCESS_PARTIAL  ResponseType = 3
	CLIENT_ERROR     ResponseType = 16
	COMPILE_ERROR    ResponseType = 17
	RUNTIME_ERROR    ResponseType = 18
)

func (t ResponseType) String() string {
	switch t {
	case SUCCESS_ATOM:
		return "SUCCESS_ATOM"
	case SUCCESS_SEQUENCE:
		return "SUCCESS_SEQUENCE"
	case SUCCESS_PARTIAL:
		return "SUCCESS_PARTIAL"
	case CLIENT_ERROR:
		return "CLIENT_ERROR"
	case COMPILE_ERROR:
		return "COMPILE_ERROR"
	case RUNTIME_ERROR:
		return "RUNTIME_ERROR"
	default:
		return "ResponseType(" + strconv.Itoa(int(t)) + ")"
	}
}

// IsError reports whether t is one of the error response tags.
func (t ResponseType) IsError() bool {
	return t == CLIENT_ERROR || t == COMPILE_ERROR || t == RUNTIME_ERROR
}

// FrameType distinguishes positional from named backtrace steps.
type FrameType uint8

const (
	POS FrameType = 1
	OPT FrameType = 2
)

func (t FrameType) String() string {
	switch t {
	case POS:
		return "POS"
	case OPT:
		return "OPT"
	default:
		return "FrameType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Frame is one step into a Term tree: Pos indexes Args, Opt names an OptArg.
type Frame struct {
	Opt  string
	Pos  int64
	Type FrameType
}

func (f Frame) String() string {
	if f.Type == OPT {
		return strconv.Quote(f.Opt)
	}
	return strconv.FormatInt(f.Pos, 10)
}

// Backtrace locates the failing node of a query, root first.
type Backtrace struct {
	Frames []Frame
}

// Response is the envelope the server returns for one query.
type Response struct {
	Backtrace *Backtrace
	Response  []*Datum
	Token     int64
	Type      ResponseType
}

// String dumps r for diagnostics.
func (r *Response) String() string {
	if r == nil {
		return "<nil response>"
	}
	var b strings.Builder
	b.WriteString("Response{type: ")
	b.WriteString(r.Type.String())
	b.WriteString(", token: ")
	b.WriteString(strconv.FormatInt(r.Token, 10))
	b.WriteString(", response: [")
	for i, d := range r.Response {
		if i > 0 {
			b.WriteString(", ")
		}
		d.writeTo(&b)
	}
	b.WriteByte(']')
	if r.Backtrace != nil {
		b.WriteString(", backtrace: [")
		for i, f := range r.Backtrace.Frames {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.String())
		}
		b.WriteByte(']')
	}
	b.WriteByte('}')
	return b.String()
}
