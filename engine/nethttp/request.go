package nethttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/kbukum/fetchkit/engine"
)

// request is a single live request. One goroutine (run) owns the
// connection; the Read/FollowRedirect channels are buffered so command
// calls made from inside a callback do not deadlock against the
// goroutine delivering it.
type request struct {
	eng    *Engine
	url    string
	cb     engine.Callbacks
	params engine.RequestParams

	ctx    context.Context
	cancel context.CancelFunc

	started  atomic.Bool
	canceled atomic.Bool

	followCh chan struct{}
	readCh   chan []byte
}

var _ engine.Request = (*request)(nil)

func newRequest(e *Engine, rawURL string, cb engine.Callbacks, params engine.RequestParams) *request {
	ctx, cancel := context.WithCancel(context.Background())
	return &request{
		eng:      e,
		url:      rawURL,
		cb:       cb,
		params:   params,
		ctx:      ctx,
		cancel:   cancel,
		followCh: make(chan struct{}, 1),
		readCh:   make(chan []byte, 1),
	}
}

// Start dispatches the request on its own goroutine.
func (r *request) Start() engine.StartResult {
	if r.eng.closed.Load() {
		return engine.StartErrEngineClosed
	}
	if !r.started.CompareAndSwap(false, true) {
		return engine.StartErrAlreadyStarted
	}
	go r.run()
	return engine.StartOK
}

// FollowRedirect resumes a request paused in OnRedirectReceived.
func (r *request) FollowRedirect() {
	select {
	case r.followCh <- struct{}{}:
	default:
	}
}

// Read posts a read command; the run goroutine answers with exactly one
// OnReadCompleted or a terminal event.
func (r *request) Read(buf []byte) {
	select {
	case r.readCh <- buf:
	case <-r.ctx.Done():
	}
}

// Cancel requests cancellation. Idempotent, any goroutine.
func (r *request) Cancel() {
	if r.canceled.CompareAndSwap(false, true) {
		r.cancel()
	}
}

func (r *request) run() {
	req, err := r.buildRequest()
	if err != nil {
		r.cb.OnFailed(r, nil, err)
		return
	}

	client := &http.Client{
		Transport:     r.eng.transport,
		CheckRedirect: r.checkRedirect,
	}

	resp, err := client.Do(req)
	if err != nil {
		if r.canceled.Load() || r.ctx.Err() != nil {
			r.cb.OnCanceled(r, nil)
			return
		}
		r.cb.OnFailed(r, nil, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	// A cancellation issued while paused on a redirect resolves Do via
	// ErrUseLastResponse; the 3xx comes back as the final response.
	if r.canceled.Load() {
		r.cb.OnCanceled(r, responseInfo(resp))
		return
	}

	info := responseInfo(resp)
	r.eng.log.Debug("response started", map[string]interface{}{
		"url": info.URL, "status": info.StatusCode, "proto": info.NegotiatedProtocol,
	})
	r.cb.OnResponseStarted(r, info)
	r.readLoop(resp, info)
}

// readLoop serves Read commands until the body is exhausted, fails, or
// the request is canceled. The engine, not the callback receiver,
// decides when callbacks stop.
func (r *request) readLoop(resp *http.Response, info *engine.ResponseInfo) {
	for {
		select {
		case buf := <-r.readCh:
			n, err := resp.Body.Read(buf)
			if n > 0 {
				r.cb.OnReadCompleted(r, info, buf, n)
				if err != nil && !errors.Is(err, io.EOF) {
					// Deliver the partial chunk, surface the failure on
					// the next command.
					continue
				}
				continue
			}
			switch {
			case err == nil:
				r.cb.OnReadCompleted(r, info, buf, 0)
			case errors.Is(err, io.EOF):
				r.cb.OnSucceeded(r, info)
				return
			default:
				if r.canceled.Load() || r.ctx.Err() != nil {
					r.cb.OnCanceled(r, info)
					return
				}
				r.cb.OnFailed(r, info, err)
				return
			}
		case <-r.ctx.Done():
			r.cb.OnCanceled(r, info)
			return
		}
	}
}

// checkRedirect pauses the transfer, hands the decision to the
// callback receiver, and waits for FollowRedirect or cancellation.
func (r *request) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > r.eng.maxRedirects {
		return fmt.Errorf("nethttp: stopped after %d redirects", r.eng.maxRedirects)
	}

	r.cb.OnRedirectReceived(r, redirectInfo(req), req.URL.String())

	select {
	case <-r.followCh:
		return nil
	case <-r.ctx.Done():
		// Unfollowed: hand the 3xx itself back as the final response.
		return http.ErrUseLastResponse
	}
}

func (r *request) buildRequest() (*http.Request, error) {
	if _, err := url.ParseRequestURI(r.url); err != nil {
		return nil, fmt.Errorf("nethttp: parse url: %w", err)
	}

	method := r.params.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if r.params.Upload != nil {
		bodyReader = newUploadReader(r.params.Upload)
	}

	req, err := http.NewRequestWithContext(r.ctx, method, r.url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("nethttp: build request: %w", err)
	}

	if up := r.params.Upload; up != nil {
		req.ContentLength = up.Length()
		req.GetBody = func() (io.ReadCloser, error) {
			ur := newUploadReader(up)
			if err := ur.rewind(); err != nil {
				return nil, err
			}
			return io.NopCloser(ur), nil
		}
	}

	for _, h := range r.params.Headers {
		req.Header.Add(h.Name, h.Value)
	}
	if r.params.DisableCache {
		req.Header.Set("Cache-Control", "no-cache")
	}

	return req, nil
}

// responseInfo maps a final response onto the engine metadata snapshot.
func responseInfo(resp *http.Response) *engine.ResponseInfo {
	return &engine.ResponseInfo{
		StatusCode:         resp.StatusCode,
		Status:             statusText(resp),
		URL:                resp.Request.URL.String(),
		Headers:            headerList(resp.Header),
		WasCached:          false,
		NegotiatedProtocol: resp.Proto,
	}
}

// redirectInfo describes the 3xx response that triggered a redirect.
// Its URL is the URL that was requested, not the redirect target.
func redirectInfo(next *http.Request) *engine.ResponseInfo {
	resp := next.Response
	return &engine.ResponseInfo{
		StatusCode:         resp.StatusCode,
		Status:             statusText(resp),
		URL:                resp.Request.URL.String(),
		Headers:            headerList(resp.Header),
		NegotiatedProtocol: resp.Proto,
	}
}

// headerList flattens an http.Header into an ordered pair list. Names
// are emitted in sorted order for determinism; per-name value order is
// preserved as received.
func headerList(h http.Header) []engine.Header {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []engine.Header
	for _, name := range names {
		for _, v := range h[name] {
			out = append(out, engine.Header{Name: name, Value: v})
		}
	}
	return out
}

func statusText(resp *http.Response) string {
	return strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" ")
}
