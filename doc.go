// Package reql converts between Go values and the ReQL wire representation
// used by RethinkDB drivers.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	reql/
//	├── ql2/          Wire shapes: Datum, Term, Response, Backtrace
//	├── transcoder/   Go values to Terms, Datums to Go values, response decoding
//	├── pretty/       Term rendering with backtrace highlighting
//	├── errors/       Structured error types (runtime, compile, driver)
//	└── cmd/reql/     Encode documents and decode response fixtures from the shell
//
// # Quick Start
//
// Build a query literal:
//
//	x, err := transcoder.ExprOf(map[string]any{"name": "ada", "tags": []any{1, 2}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(x) // {"name": "ada", "tags": [1, 2]}
//
// Decode what the server sent back:
//
//	val, err := transcoder.NewDecoder().Decode(resp, x)
//	if errors.Is(err, errors.ErrRuntime) {
//	    fmt.Println(err) // message, then the query with the failing term underlined
//	}
//
// # Raw JSON
//
// With transcoder.WithRawJSON(true), literals that hold no expressions are
// returned unchanged by Encoder.Encode and travel as JSON text instead of
// nested MAKE_ARRAY and MAKE_OBJ terms.
//
// # Thread Safety
//
// Decoder is safe for concurrent use. Encoder binds to the first expression
// it produces and should not be shared.
package reql
