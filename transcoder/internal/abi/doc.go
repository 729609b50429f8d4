// Package abi provides internal numeric helpers for the transcoder.
//
// # Contents
//
//   - coerce.go: classification of Go numeric values and the integral
//     normalization rule applied to decoded wire numbers
//
// This package is internal to the transcoder.
package abi
