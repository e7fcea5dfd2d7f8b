package engine

import "context"

// Header is a single name/value pair. Header sequences are ordered and
// may contain duplicate names; order is preserved end to end.
type Header struct {
	Name  string
	Value string
}

// ResponseInfo is the response metadata snapshot handed to callbacks.
// During a redirect it describes the 3xx response itself.
type ResponseInfo struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status text, without the leading code.
	Status string
	// URL is the URL that produced this response.
	URL string
	// Headers is the ordered header list as received.
	Headers []Header
	// WasCached reports whether the response came from the engine cache.
	WasCached bool
	// NegotiatedProtocol is the protocol spoken on the wire, e.g. "HTTP/2.0".
	NegotiatedProtocol string
}

// StartResult is the synchronous outcome of dispatching a request.
// Anything other than StartOK means the request never went asynchronous
// and no callbacks will be delivered.
type StartResult int

const (
	// StartOK indicates the request was dispatched; the outcome arrives
	// via callbacks.
	StartOK StartResult = iota
	// StartErrAlreadyStarted indicates Start was called twice.
	StartErrAlreadyStarted
	// StartErrEngineClosed indicates the engine has been shut down.
	StartErrEngineClosed
	// StartErrInternal indicates an unexpected dispatch failure.
	StartErrInternal
)

// String returns the result name.
func (r StartResult) String() string {
	switch r {
	case StartOK:
		return "ok"
	case StartErrAlreadyStarted:
		return "already_started"
	case StartErrEngineClosed:
		return "engine_closed"
	case StartErrInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Callbacks receives the lifecycle events of a single request.
type Callbacks interface {
	// OnRedirectReceived is delivered when the engine receives a 3xx
	// with a Location. The receiver either calls req.FollowRedirect to
	// continue, or leaves the redirect unfollowed (typically cancelling
	// the request after snapshotting info).
	OnRedirectReceived(req Request, info *ResponseInfo, newLocation string)
	// OnResponseStarted is delivered once the final response headers
	// are available. The receiver must call req.Read to start the body
	// read loop.
	OnResponseStarted(req Request, info *ResponseInfo)
	// OnReadCompleted is delivered after each req.Read. Exactly the
	// first bytesRead bytes of buf are valid.
	OnReadCompleted(req Request, info *ResponseInfo, buf []byte, bytesRead int)
	// OnSucceeded is delivered after the body is fully consumed.
	OnSucceeded(req Request, info *ResponseInfo)
	// OnFailed is delivered on a transport or protocol failure.
	OnFailed(req Request, info *ResponseInfo, err error)
	// OnCanceled is delivered after a cancellation took effect.
	OnCanceled(req Request, info *ResponseInfo)
}

// Request is a live request handle.
type Request interface {
	// Start dispatches the request. Non-StartOK results are synchronous
	// failures; no callbacks follow them.
	Start() StartResult
	// FollowRedirect resumes a request paused in OnRedirectReceived.
	FollowRedirect()
	// Read asks the engine to fill buf with the next chunk of response
	// body. Exactly one OnReadCompleted (or a terminal event) answers
	// each Read.
	Read(buf []byte)
	// Cancel requests cancellation. It may be called from any
	// goroutine and is idempotent.
	Cancel()
}

// UploadSink receives the outcome of UploadProvider operations. The
// provider must invoke exactly one sink method per Read or Rewind.
type UploadSink interface {
	// OnReadSucceeded reports bytesRead bytes copied into the buffer.
	// finalChunk marks the end of the body.
	OnReadSucceeded(bytesRead int, finalChunk bool)
	// OnReadError reports a failed read.
	OnReadError(err error)
	// OnRewindSucceeded reports the body was reset to its start.
	OnRewindSucceeded()
	// OnRewindError reports the body cannot be replayed.
	OnRewindError(err error)
}

// UploadProvider supplies a request body to the engine, pull-based.
// Read and Rewind may be invoked from engine goroutines.
type UploadProvider interface {
	// Length returns the total body length, or a negative value when
	// unknown (chunked transfer).
	Length() int64
	// Read copies the next chunk into buf and reports via sink.
	Read(sink UploadSink, buf []byte)
	// Rewind resets the body to the start for a replay, if supported.
	Rewind(sink UploadSink)
	// Close releases body resources.
	Close() error
}

// RequestParams carries engine-agnostic request construction data.
type RequestParams struct {
	// Method is the HTTP method; empty means GET.
	Method string
	// Headers is the ordered header sequence, duplicates allowed.
	Headers []Header
	// Upload is the outbound body source; nil for bodyless requests.
	Upload UploadProvider
	// DisableCache bypasses the engine cache for this request.
	DisableCache bool
}

// Engine creates requests and owns the shared network resources.
type Engine interface {
	// NewRequest builds a request against url delivering events to cb.
	// The request does nothing until Start is called.
	NewRequest(url string, cb Callbacks, params RequestParams) (Request, error)
	// Shutdown releases engine resources gracefully.
	Shutdown(ctx context.Context) error
}
