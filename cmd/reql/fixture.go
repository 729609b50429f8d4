package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/wippyai/reql/ql2"
	"github.com/wippyai/reql/transcoder"
)

// responseFixture is a server response written as YAML:
//
//	type: RUNTIME_ERROR
//	response: ["Cannot perform get_field on a non-object"]
//	backtrace: [1, "age"]
//
// Integer backtrace steps are positional, strings are named.
type responseFixture struct {
	Type      string        `yaml:"type"`
	Token     int64         `yaml:"token"`
	Response  []interface{} `yaml:"response"`
	Backtrace []interface{} `yaml:"backtrace"`
}

var responseTypes = map[string]ql2.ResponseType{
	"SUCCESS_ATOM":     ql2.SUCCESS_ATOM,
	"SUCCESS_SEQUENCE": ql2.SUCCESS_SEQUENCE,
	"SUCCESS_PARTIAL":  ql2.SUCCESS_PARTIAL,
	"CLIENT_ERROR":     ql2.CLIENT_ERROR,
	"COMPILE_ERROR":    ql2.COMPILE_ERROR,
	"RUNTIME_ERROR":    ql2.RUNTIME_ERROR,
}

func loadResponse(path string) (*ql2.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return parseResponse(data)
}

func parseResponse(data []byte) (*ql2.Response, error) {
	var f responseFixture
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	rt, ok := responseTypes[strings.ToUpper(f.Type)]
	if !ok {
		var n int
		if _, err := fmt.Sscanf(f.Type, "%d", &n); err != nil {
			return nil, fmt.Errorf("unknown response type %q", f.Type)
		}
		rt = ql2.ResponseType(n)
	}

	resp := &ql2.Response{Type: rt, Token: f.Token}
	for i, v := range f.Response {
		d, err := toDatum(v)
		if err != nil {
			return nil, fmt.Errorf("response[%d]: %w", i, err)
		}
		resp.Response = append(resp.Response, d)
	}

	if f.Backtrace != nil {
		resp.Backtrace = &ql2.Backtrace{}
		for i, step := range f.Backtrace {
			switch s := step.(type) {
			case int:
				resp.Backtrace.Frames = append(resp.Backtrace.Frames, ql2.Frame{Type: ql2.POS, Pos: int64(s)})
			case string:
				resp.Backtrace.Frames = append(resp.Backtrace.Frames, ql2.Frame{Type: ql2.OPT, Opt: s})
			default:
				return nil, fmt.Errorf("backtrace[%d]: want int or string, got %T", i, step)
			}
		}
	}
	return resp, nil
}

// toDatum builds the datum a server would send for a YAML value.
func toDatum(v any) (*ql2.Datum, error) {
	val, err := transcoder.Classify(v, transcoder.DefaultMaxNesting)
	if err != nil {
		return nil, err
	}
	return valueDatum(val)
}

func valueDatum(v transcoder.Value) (*ql2.Datum, error) {
	switch x := v.(type) {
	case transcoder.Seq:
		out := ql2.ArrayDatum()
		for _, item := range x {
			d, err := valueDatum(item)
			if err != nil {
				return nil, err
			}
			out.Array = append(out.Array, d)
		}
		return out, nil
	case transcoder.Map:
		out := ql2.ObjectDatum()
		for _, p := range x {
			d, err := valueDatum(p.Val)
			if err != nil {
				return nil, err
			}
			key, ok := p.Key.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v: want string, got %T", p.Key, p.Key)
			}
			out.Object = append(out.Object, ql2.DatumPair{Key: key, Val: d})
		}
		return out, nil
	default:
		return transcoder.EncodeScalar(v)
	}
}
