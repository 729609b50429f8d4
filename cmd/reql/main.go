package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/wippyai/reql/errors"
	"github.com/wippyai/reql/pretty"
	"github.com/wippyai/reql/transcoder"
)

func main() {
	var (
		configFile  = flag.String("config", "", "YAML config file")
		inFile      = flag.String("in", "", "YAML/JSON document to encode (- for stdin)")
		respFile    = flag.String("response", "", "YAML response fixture to decode against the encoded query")
		rawJSON     = flag.Bool("raw", false, "Defer Expr-free literals to JSON text")
		maxNesting  = flag.Int("max-nesting", 0, "Maximum literal nesting depth (default 500)")
		logFile     = flag.String("log-file", "", "Write logs to a rotated file")
		verbose     = flag.Bool("v", false, "Debug logging and call-site output")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	conf, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "raw":
			conf.Encode.RawJSON = *rawJSON
		case "max-nesting":
			conf.Encode.MaxNesting = *maxNesting
		case "log-file":
			conf.Logging.File = *logFile
		case "v":
			if *verbose {
				conf.Logging.Level = "debug"
			}
		}
	})

	log, err := newLogger(conf.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	transcoder.SetLogger(log)

	if *interactive {
		if err := runInteractive(conf); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: reql -in <doc.yaml> [-raw] [-max-nesting n] [-response resp.yaml]")
		fmt.Fprintln(os.Stderr, "       reql -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(os.Stdout, conf, *inFile, *respFile, *verbose, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var highlightStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FF6B6B"))

func run(w io.Writer, conf config, inFile, respFile string, verbose bool, log *zap.Logger) error {
	doc, err := readDocument(inFile)
	if err != nil {
		return err
	}

	enc := transcoder.NewEncoder(conf.encodeOptions()...)
	res, err := enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	query, isExpr := res.(*transcoder.Expr)
	if !isExpr {
		fmt.Fprintln(w, "Deferred: literal contains no expressions")
		query, err = transcoder.ExprOf(res, conf.encodeOptions()...)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	fmt.Fprintf(w, "Term: %s\n", query.Term().Type)
	fmt.Fprintf(w, "Query: %s\n", query)
	if verbose {
		fmt.Fprintf(w, "Built at: %s\n", query.Origin())
	}

	if respFile == "" {
		return nil
	}
	resp, err := loadResponse(respFile)
	if err != nil {
		return err
	}
	log.Debug("decoding response", zap.Stringer("type", resp.Type), zap.Int("datums", len(resp.Response)))

	val, err := transcoder.NewDecoder().Decode(resp, query)
	if err != nil {
		var e *errors.Error
		if colorEnabled(w) && stderrors.As(err, &e) && e.Term != nil {
			msg, _, _ := strings.Cut(e.Message, "\nBacktrace:\n")
			path := pretty.PathFromBacktrace(resp.Backtrace)
			styled := pretty.RenderStyled(pretty.Annotate(e.Term, path), func(s string) string { return highlightStyle.Render(s) })
			return fmt.Errorf("%s error: %s\nBacktrace:\n%s", e.Kind, msg, styled)
		}
		return err
	}

	out, err := yaml.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Fprintf(w, "Result:\n%s", out)
	return nil
}

func readDocument(path string) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return parseDocument(data)
}

// parseDocument accepts YAML, and therefore JSON. Mapping keys keep their
// YAML types, so a non-string key is reported by the encoder.
func parseDocument(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
