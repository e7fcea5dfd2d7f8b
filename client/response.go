package client

import (
	"net/http"

	"github.com/kbukum/fetchkit/body"
	"github.com/kbukum/fetchkit/engine"
)

// Response is the result of a completed request. Immutable after
// construction.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status text, without the leading code.
	Status string
	// URL is the final URL after any followed redirects. When a
	// redirect was blocked it is the URL that produced the 3xx.
	URL string
	// Headers maps canonical header names to their values in arrival
	// order; duplicate names keep every value.
	Headers map[string][]string
	// Body is the fully materialized response payload.
	Body *body.Body
	// WasCached reports whether the response came from the engine cache.
	WasCached bool
	// Protocol is the negotiated wire protocol, e.g. "HTTP/2.0".
	Protocol string
}

// Header returns the first value for name, or "".
func (r *Response) Header(name string) string {
	vs := r.Headers[http.CanonicalHeaderKey(name)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Bytes returns the response body bytes. Bodies produced by the client
// are always buffered.
func (r *Response) Bytes() []byte {
	if r.Body == nil {
		return nil
	}
	data, _ := r.Body.AsBytes()
	return data
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the status code is 3xx, which happens
// when the redirect policy declined to follow.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// headerMultimap folds an ordered header list into a per-name value
// multimap, preserving arrival order of duplicate names.
func headerMultimap(list []engine.Header) map[string][]string {
	m := make(map[string][]string, len(list))
	for _, h := range list {
		name := http.CanonicalHeaderKey(h.Name)
		m[name] = append(m[name], h.Value)
	}
	return m
}
