// Package engine defines the contract between the client and the
// underlying asynchronous URL-request engine.
//
// The engine is an opaque collaborator: it owns DNS, TLS, and HTTP
// framing, and drives lifecycle callbacks on its own goroutines. For a
// single request events arrive in the sequence
//
//	[OnRedirectReceived]* → OnResponseStarted → [OnReadCompleted]* →
//	OnSucceeded | OnFailed | OnCanceled
//
// with exactly one terminal event. Callbacks must tolerate delivery
// from an arbitrary goroutine; the engine delivers one event at a time
// per request but the delivering goroutine may differ between events.
//
// The default implementation lives in the nethttp subpackage.
package engine
