package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/kbukum/fetchkit/body"
	"github.com/kbukum/fetchkit/client"
	"github.com/kbukum/fetchkit/engine"
	"github.com/kbukum/fetchkit/handle"
)

var clients = handle.NewRegistry[*client.Client]()

// NewClient creates a client from cfg and returns its handle.
func NewClient(cfg client.Config) (uint64, error) {
	c, err := client.New(cfg)
	if err != nil {
		return 0, err
	}
	return clients.Put(c), nil
}

// CloseClient releases the handle and closes the client.
func CloseClient(h uint64) error {
	c, ok := clients.Release(h)
	if !ok {
		return fmt.Errorf("export: unknown client handle %d", h)
	}
	return c.Close(context.Background())
}

// LiveClients returns the number of registered clients.
func LiveClients() int {
	return clients.Len()
}

// RawRequest is the flat request shape accepted from foreign callers.
type RawRequest struct {
	// URL is the absolute request URL.
	URL string
	// Method is the HTTP method; empty means GET.
	Method string
	// Body is the request body text. Empty means no body.
	Body string
	// Headers holds one "Name: Value" header per line.
	Headers string
	// BodyBase64 marks Body as base64-encoded.
	BodyBase64 bool
	// HeadersBase64 marks Headers as base64-encoded.
	HeadersBase64 bool
}

// Record is the flat response shape handed back to foreign callers,
// with the request echoed for inspection.
type Record struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status text.
	Status string
	// Protocol is the negotiated wire protocol.
	Protocol string
	// URL is the final URL.
	URL string
	// Headers are the response headers, values in arrival order.
	Headers map[string][]string
	// Body is the response payload.
	Body []byte
	// RequestHeaders echoes the decoded, ordered request headers.
	RequestHeaders []engine.Header
	// RequestBody echoes the decoded request body.
	RequestBody []byte
}

// Fetch runs one request on the client behind h and returns the flat
// record. Base64-flagged fields are decoded before the request runs.
func Fetch(h uint64, raw RawRequest) (*Record, error) {
	c, ok := clients.Get(h)
	if !ok {
		return nil, fmt.Errorf("export: unknown client handle %d", h)
	}

	bodyBytes, err := decodeField(raw.Body, raw.BodyBase64, "body")
	if err != nil {
		return nil, err
	}
	headerBytes, err := decodeField(raw.Headers, raw.HeadersBase64, "headers")
	if err != nil {
		return nil, err
	}
	headers, err := parseHeaderLines(string(headerBytes))
	if err != nil {
		return nil, err
	}

	req := client.Request{
		URL:     raw.URL,
		Method:  raw.Method,
		Headers: headers,
	}
	if len(bodyBytes) > 0 {
		req.Body = body.FromBytes(bodyBytes)
	}

	resp, err := c.Send(req)
	if err != nil {
		return nil, err
	}

	return &Record{
		StatusCode:     resp.StatusCode,
		Status:         resp.Status,
		Protocol:       resp.Protocol,
		URL:            resp.URL,
		Headers:        resp.Headers,
		Body:           resp.Bytes(),
		RequestHeaders: headers,
		RequestBody:    bodyBytes,
	}, nil
}

func decodeField(value string, encoded bool, name string) ([]byte, error) {
	if !encoded {
		return []byte(value), nil
	}
	out, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("export: decode %s: %w", name, err)
	}
	return out, nil
}

// parseHeaderLines parses "Name: Value" lines, preserving order and
// duplicate names. Blank lines are skipped.
func parseHeaderLines(text string) ([]engine.Header, error) {
	var out []engine.Header
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("export: malformed header line %q", line)
		}
		out = append(out, engine.Header{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return out, nil
}
