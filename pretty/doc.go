// Package pretty renders query terms for error reports.
//
// A server error carries a backtrace: a path of positional and named steps
// from the root of the query to the failing node. Annotate follows that path
// on a private copy of the query and Render prints the query with a caret
// line under the failing node:
//
//	r.table("users").filter({"age": r.row.getattr("age").gt("x")})
//	                                ^^^^^^^^^^^^^^^^^^^^^^^^^^^^
//
// Rendering is single-line. An empty path renders the query without carets.
package pretty
