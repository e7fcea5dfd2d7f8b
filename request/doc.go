// Package request provides a fluent, order-preserving request builder.
//
// Header insertion order is preserved verbatim, including duplicate
// names: submitting A, B, A yields exactly A, B, A. Builder setters
// accumulate the first validation error and become no-ops afterwards,
// so a caller can chain the whole construction and check once at Build.
package request
