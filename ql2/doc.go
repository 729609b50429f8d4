// Package ql2 defines the wire shapes exchanged with a ReQL server.
//
// The types mirror the ql2 protocol messages field for field:
//
//	Term     { type, datum?, args[], optargs[] }
//	Datum    { type, r_num, r_str, r_bool, r_array[], r_object[] }
//	Response { type, token, response[], backtrace? }
//	Frame    { type, pos, opt }
//
// Serialization to bytes belongs to the transport and is not handled here.
// Values in this package are plain data: build them, hand them to the
// transport, and discard them. Nothing here is safe for concurrent mutation.
package ql2
