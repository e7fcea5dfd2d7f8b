package client

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/kbukum/fetchkit/body"
	"github.com/kbukum/fetchkit/engine"
	"github.com/kbukum/fetchkit/logger"
	"github.com/kbukum/fetchkit/request"
	"github.com/kbukum/fetchkit/resilience"
	"github.com/kbukum/fetchkit/version"
)

const tracerName = "github.com/kbukum/fetchkit/client"

// cancelAckWait bounds how long a timed-out Send waits for the engine
// to acknowledge the cancellation before returning anyway.
const cancelAckWait = time.Second

// Request describes an outbound request.
type Request struct {
	// URL is the absolute request URL.
	URL string
	// Method is the HTTP method; empty means GET.
	Method string
	// Headers is the ordered header sequence, duplicates allowed.
	Headers []engine.Header
	// Body is the request payload; nil for bodyless requests. The
	// client disposes it when the call returns.
	Body *body.Body
}

// FromOrdered converts a built request.OrderedRequest into a client
// Request, preserving header order.
func FromOrdered(or *request.OrderedRequest) Request {
	return Request{
		URL:     or.URI(),
		Method:  or.Method(),
		Headers: or.Headers(),
		Body:    or.Body(),
	}
}

// Client sends requests through one engine instance. See the package
// documentation for the concurrency recommendation.
type Client struct {
	cfg      Config
	eng      engine.Engine
	log      *logger.Logger
	limiter  *rate.Limiter
	disposed atomic.Bool
}

// New creates a client from cfg. A nil cfg.Engine selects the default
// net/http engine via DefaultEngine.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	eng := cfg.Engine
	if eng == nil {
		var err error
		eng, err = DefaultEngine(cfg.Logger)
		if err != nil {
			return nil, err
		}
	}

	c := &Client{
		cfg: cfg,
		eng: eng,
		log: cfg.Logger.WithComponent("client"),
	}
	if cfg.RateLimit != nil {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	}
	return c, nil
}

// Send executes req, blocking until a response, a failure, or the
// configured timeout. On timeout the in-flight request is cancelled,
// the engine gets a bounded grace period to acknowledge, and the
// timeout error is returned regardless: the deadline is authoritative.
func (c *Client) Send(req Request) (*Response, error) {
	return c.Do(context.Background(), req)
}

// Do executes req with cooperative cancellation: when ctx is done the
// call stops waiting and returns a cancellation error immediately,
// even if the engine has not yet acknowledged. The network operation
// may continue briefly in the background.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.disposed.Load() {
		return nil, NewDisposedError()
	}
	if req.URL == "" {
		return nil, NewValidationError("request URL is empty")
	}

	if c.cfg.Retry != nil && replayable(req.Body) {
		return resilience.Retry(ctx, *c.cfg.Retry, func() (*Response, error) {
			return c.doOnce(ctx, req)
		})
	}
	return c.doOnce(ctx, req)
}

// Get issues a blocking GET.
func (c *Client) Get(url string, headers ...engine.Header) (*Response, error) {
	return c.Send(Request{URL: url, Method: http.MethodGet, Headers: headers})
}

// Post issues a blocking POST with b as the request body.
func (c *Client) Post(url string, b *body.Body, headers ...engine.Header) (*Response, error) {
	return c.Send(Request{URL: url, Method: http.MethodPost, Headers: headers, Body: b})
}

// GetContext issues a GET with cooperative cancellation.
func (c *Client) GetContext(ctx context.Context, url string, headers ...engine.Header) (*Response, error) {
	return c.Do(ctx, Request{URL: url, Method: http.MethodGet, Headers: headers})
}

// PostContext issues a POST with cooperative cancellation.
func (c *Client) PostContext(ctx context.Context, url string, b *body.Body, headers ...engine.Header) (*Response, error) {
	return c.Do(ctx, Request{URL: url, Method: http.MethodPost, Headers: headers, Body: b})
}

// Close shuts the engine down. If the graceful shutdown fails the
// engine is force-closed anyway; either way the client is marked
// disposed and subsequent calls fail fast.
func (c *Client) Close(ctx context.Context) error {
	if !c.disposed.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.eng.Shutdown(ctx); err != nil {
		c.log.WithError(err).Error("graceful engine shutdown failed, forcing")
		if f, ok := c.eng.(interface{ ForceClose() }); ok {
			f.ForceClose()
		}
		return err
	}
	return nil
}

// doOnce runs one request attempt end to end.
func (c *Client) doOnce(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, NewCancelError(err)
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	reqID := uuid.NewString()
	log := c.log.WithFields(map[string]interface{}{
		logger.FieldRequestID: reqID,
		"method":              method,
		"url":                 req.URL,
	})

	var span trace.Span
	if c.cfg.Tracing {
		ctx, span = otel.Tracer(tracerName).Start(ctx, "fetch.request",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.request.method", method),
				attribute.String("url.full", req.URL),
				attribute.String("request.id", reqID),
			))
		defer span.End()
	}

	params := engine.RequestParams{
		Method:       method,
		Headers:      c.requestHeaders(req),
		DisableCache: c.cfg.DisableCache,
	}

	var streamer *UploadStreamer
	if req.Body != nil {
		if n, known := req.Body.Length(); !known || n > 0 {
			streamer = NewUploadStreamer(req.Body)
			params.Upload = streamer
		}
	}
	defer func() {
		if streamer != nil {
			_ = streamer.Close()
		}
	}()

	bridge := newLifecycleBridge(c.cfg.FollowRedirect, c.cfg.ChunkSize, log)

	ereq, err := c.eng.NewRequest(req.URL, bridge, params)
	if err != nil {
		return c.finish(span, log, nil, NewEngineError(req.URL, engine.StartErrInternal, err))
	}

	start := time.Now()
	if res := ereq.Start(); res != engine.StartOK {
		return c.finish(span, log, nil, NewEngineError(req.URL, res, nil))
	}

	select {
	case <-bridge.done:
	case <-time.After(c.cfg.Timeout):
		ereq.Cancel()
		select {
		case <-bridge.done:
		case <-time.After(cancelAckWait):
		}
		log.Warn("request timed out", map[string]interface{}{"timeout": c.cfg.Timeout.String()})
		return c.finish(span, log, nil, NewTimeoutError(req.URL, c.cfg.Timeout))
	case <-ctx.Done():
		ereq.Cancel()
		return c.finish(span, log, nil, NewCancelError(ctx.Err()))
	}

	resp, err := bridge.result()
	if err != nil {
		return c.finish(span, log, nil, err)
	}

	log.Debug("request completed", map[string]interface{}{
		"status":      resp.StatusCode,
		"proto":       resp.Protocol,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return c.finish(span, log, resp, nil)
}

// requestHeaders assembles the ordered header sequence: client
// defaults first, then auth, then the request's own headers. A
// User-Agent is added unless the caller set one.
func (c *Client) requestHeaders(req Request) []engine.Header {
	headers := make([]engine.Header, 0, len(c.cfg.Headers)+len(req.Headers)+2)
	headers = append(headers, c.cfg.Headers...)
	if h, ok := c.cfg.Auth.header(); ok {
		headers = append(headers, h)
	}
	headers = append(headers, req.Headers...)
	if !hasHeader(headers, "User-Agent") {
		headers = append(headers, engine.Header{Name: "User-Agent", Value: version.UserAgent()})
	}
	return headers
}

func hasHeader(headers []engine.Header, name string) bool {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}

// finish records the outcome on the span, if any, and passes it through.
func (c *Client) finish(span trace.Span, log *logger.Logger, resp *Response, err error) (*Response, error) {
	if span != nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		}
	}
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, err
	}
	return resp, nil
}

// replayable reports whether a retry could replay the request body.
func replayable(b *body.Body) bool {
	if b == nil {
		return true
	}
	_, buffered := b.AsBytes()
	return buffered
}
