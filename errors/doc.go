// Package errors provides the error taxonomy of the ReQL conversion layer.
//
// Every error is an *Error carrying one of three kinds:
//
//	KindDriver   client misuse: unsupported value, bad object key, reused encoder
//	KindRuntime  server runtime failure, or an internal codec gap
//	KindCompile  server compile failure (legacy response tag)
//
// and the Phase in which it was detected (encode, decode, response).
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindDriver).
//		Value(k).
//		GoType("int").
//		Detail("Object keys must be strings or symbols.").
//		Build()
//
// or the convenience constructors for the common cases:
//
//	err := errors.InvalidKey(k)
//	err := errors.Runtime(errors.PhaseResponse, "boom")
//
// Errors reported by the server can be re-raised with a rendered backtrace
// via Augment, which keeps the kind and returns a new value. All errors
// implement the standard error interface and support errors.Is/As.
package errors
