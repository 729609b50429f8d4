package main

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/wippyai/reql/errors"
	"github.com/wippyai/reql/transcoder"
)

func TestParseDocument(t *testing.T) {
	doc, err := parseDocument([]byte(`{"name": "ada", "tags": [1, 2]}`))
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}
	x, err := transcoder.ExprOf(doc)
	if err != nil {
		t.Fatalf("ExprOf: %v", err)
	}
	if got, want := x.String(), `{"name": "ada", "tags": [1, 2]}`; got != want {
		t.Errorf("rendered = %s, want %s", got, want)
	}

	if _, err := parseDocument([]byte("{a: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestParseDocumentIntKey(t *testing.T) {
	doc, err := parseDocument([]byte("{1: one}"))
	if err != nil {
		t.Fatalf("parseDocument: %v", err)
	}
	_, err = transcoder.NewEncoder().Encode(doc)
	if !stderrors.Is(err, errors.ErrDriver) {
		t.Fatalf("err = %v, want driver error", err)
	}
	if !strings.Contains(err.Error(), "Object keys must be strings") {
		t.Errorf("err = %v", err)
	}
}

func TestRun(t *testing.T) {
	doc := writeFile(t, "doc.yaml", "{name: ada, age: 30}\n")
	atom := writeFile(t, "atom.yaml", "type: SUCCESS_ATOM\nresponse: [4.0]\n")
	failure := writeFile(t, "fail.yaml", "type: RUNTIME_ERROR\nresponse: [boom]\nbacktrace: [age]\n")

	t.Run("encode only", func(t *testing.T) {
		var buf bytes.Buffer
		if err := run(&buf, defaultConfig(), doc, "", false, zap.NewNop()); err != nil {
			t.Fatalf("run: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "Term: MAKE_OBJ") {
			t.Errorf("output missing term type:\n%s", out)
		}
		if !strings.Contains(out, `Query: {"age": 30, "name": "ada"}`) {
			t.Errorf("output missing query:\n%s", out)
		}
		if strings.Contains(out, "Built at:") {
			t.Errorf("call site printed without verbose:\n%s", out)
		}
	})

	t.Run("verbose", func(t *testing.T) {
		var buf bytes.Buffer
		if err := run(&buf, defaultConfig(), doc, "", true, zap.NewNop()); err != nil {
			t.Fatalf("run: %v", err)
		}
		if !strings.Contains(buf.String(), "Built at:") {
			t.Errorf("output missing call site:\n%s", buf.String())
		}
	})

	t.Run("raw json", func(t *testing.T) {
		conf := defaultConfig()
		conf.Encode.RawJSON = true
		var buf bytes.Buffer
		if err := run(&buf, conf, doc, "", false, zap.NewNop()); err != nil {
			t.Fatalf("run: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "Deferred") || !strings.Contains(out, "Term: JSON") {
			t.Errorf("raw literal not deferred:\n%s", out)
		}
	})

	t.Run("success response", func(t *testing.T) {
		var buf bytes.Buffer
		if err := run(&buf, defaultConfig(), doc, atom, false, zap.NewNop()); err != nil {
			t.Fatalf("run: %v", err)
		}
		if !strings.HasSuffix(buf.String(), "Result:\n4\n") {
			t.Errorf("output:\n%s", buf.String())
		}
	})

	t.Run("error response", func(t *testing.T) {
		var buf bytes.Buffer
		err := run(&buf, defaultConfig(), doc, failure, false, zap.NewNop())
		if !stderrors.Is(err, errors.ErrRuntime) {
			t.Fatalf("err = %v, want runtime error", err)
		}
		if !strings.Contains(err.Error(), "boom\nBacktrace:\n") || !strings.Contains(err.Error(), "^") {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		var buf bytes.Buffer
		if err := run(&buf, defaultConfig(), doc+".missing", "", false, zap.NewNop()); err == nil {
			t.Error("expected error")
		}
	})
}
