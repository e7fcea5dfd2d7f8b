// Package body provides the payload abstraction shared by requests and
// responses: either an in-memory byte buffer or a readable stream with
// an optionally known length.
//
// A Body is immutable once constructed. Buffered bodies are cheap to
// clone and always report a definite length; stream bodies are consumed
// once and cannot be cloned.
package body
