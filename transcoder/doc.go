// Package transcoder converts between Go values and ReQL wire terms.
//
// This package handles bidirectional conversion between native Go values
// and the ql2 protocol shapes:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│ Go value → [Encoder] → Term tree          (query building)   │
//	│ Response → [Decoder] → Go value | *errors.Error (results)    │
//	└──────────────────────────────────────────────────────────────┘
//
// # Key Types
//
//	Value    - closed variant of encodable input (Int, Float, Str, ...)
//	Expr     - an immutable, already-built Term plus its call-site Origin
//	Encoder  - one-shot builder turning a Go value into an Expr
//	Decoder  - interprets response envelopes, renders error backtraces
//
// # Encoding Flow
//
//  1. Classify(v) maps arbitrary Go input onto Value
//  2. scalars become DATUM terms, slices MAKE_ARRAY, maps MAKE_OBJ,
//     funcs FUNC, and an *Expr is returned as is
//
// With WithRawJSON(true) literal subtrees that contain no Expr are returned
// unchanged so a later pass can serialize them in bulk. Raw values that end
// up inside a built term are wrapped as JSON(DATUM(text)).
//
// # Type Mapping
//
//	Go                         Datum      decoded as
//	──────────────────────────────────────────────────
//	int*, uint*                R_NUM      int64
//	float32, float64           R_NUM      int64 if integral, else float64
//	string, Symbol             R_STR      string
//	bool                       R_BOOL     bool
//	nil                        R_NULL     nil
//	slices, arrays, Seq        R_ARRAY    []any
//	maps, Map                  R_OBJECT   map[string]any
//
// # Limits
//
// Literal nesting is capped by WithMaxNesting (DefaultMaxNesting = 500).
// The cap also bounds classification of self-referencing Go structures.
//
// # Thread Safety
//
// Encoder is single-use and not safe for concurrent use. Decoder may be
// shared; its LastAnnotated slot is guarded by a mutex.
package transcoder
