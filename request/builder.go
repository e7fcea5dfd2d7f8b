package request

import (
	"fmt"

	"github.com/kbukum/fetchkit/body"
	"github.com/kbukum/fetchkit/engine"
)

// Defaults applied by Build when the builder leaves a field unset.
const (
	DefaultMethod = "GET"
	DefaultURI    = "/"
	DefaultProto  = "HTTP/1.1"
)

// OrderedRequest is an immutable request description with an ordered
// header sequence.
type OrderedRequest struct {
	method  string
	uri     string
	proto   string
	headers []engine.Header
	body    *body.Body
}

// Method returns the HTTP method.
func (r *OrderedRequest) Method() string { return r.method }

// URI returns the request URI.
func (r *OrderedRequest) URI() string { return r.uri }

// Proto returns the HTTP version string.
func (r *OrderedRequest) Proto() string { return r.proto }

// Body returns the request payload, possibly nil.
func (r *OrderedRequest) Body() *body.Body { return r.body }

// Headers returns a copy of the ordered header sequence.
func (r *OrderedRequest) Headers() []engine.Header {
	out := make([]engine.Header, len(r.headers))
	copy(out, r.headers)
	return out
}

// Builder assembles an OrderedRequest. Once a setter records a
// validation error, every later setter is a no-op and Build fails.
type Builder struct {
	req OrderedRequest
	err error
}

// NewBuilder creates a builder with all fields unset.
func NewBuilder() *Builder {
	return &Builder{}
}

// Method sets the HTTP method.
func (b *Builder) Method(m string) *Builder {
	if b.err != nil {
		return b
	}
	if m == "" {
		b.err = fmt.Errorf("method is empty")
		return b
	}
	b.req.method = m
	return b
}

// URI sets the request URI.
func (b *Builder) URI(uri string) *Builder {
	if b.err != nil {
		return b
	}
	if uri == "" {
		b.err = fmt.Errorf("uri is empty")
		return b
	}
	b.req.uri = uri
	return b
}

// Proto sets the HTTP version string, e.g. "HTTP/1.1".
func (b *Builder) Proto(proto string) *Builder {
	if b.err != nil {
		return b
	}
	if proto == "" {
		b.err = fmt.Errorf("proto is empty")
		return b
	}
	b.req.proto = proto
	return b
}

// Header appends one header pair at the end of the sequence.
// Duplicate names are kept, in position.
func (b *Builder) Header(name, value string) *Builder {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.err = fmt.Errorf("header name is empty")
		return b
	}
	b.req.headers = append(b.req.headers, engine.Header{Name: name, Value: value})
	return b
}

// Body sets the request payload.
func (b *Builder) Body(payload *body.Body) *Builder {
	if b.err != nil {
		return b
	}
	b.req.body = payload
	return b
}

// Err returns the first recorded validation error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the immutable request, or the first validation error
// recorded by a setter. Unset fields take the package defaults.
func (b *Builder) Build() (*OrderedRequest, error) {
	if b.err != nil {
		return nil, fmt.Errorf("request: build: %w", b.err)
	}
	out := b.req
	out.headers = make([]engine.Header, len(b.req.headers))
	copy(out.headers, b.req.headers)
	if out.method == "" {
		out.method = DefaultMethod
	}
	if out.uri == "" {
		out.uri = DefaultURI
	}
	if out.proto == "" {
		out.proto = DefaultProto
	}
	return &out, nil
}
