// Package handle provides an arena mapping opaque integer handles to
// owned values. Foreign callers hold the integer; the arena keeps the
// value alive until Release. Handle zero is never issued.
package handle
