package client

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/kbukum/fetchkit/body"
	"github.com/kbukum/fetchkit/engine"
	"github.com/kbukum/fetchkit/logger"
)

// outcome is the terminal state of a request.
type outcome int

const (
	outcomePending outcome = iota
	outcomeSuccess
	outcomeCanceled
	outcomeError
)

// lifecycleBridge converts the engine's push callbacks into one
// awaitable result. It is a one-shot cell with try-set semantics: the
// first resolution wins, later resolutions are silently dropped, and
// every callback arriving after resolution is a no-op.
type lifecycleBridge struct {
	follow    func(string) bool
	chunkSize int
	log       *logger.Logger

	done chan struct{}

	mu    sync.Mutex // guards the fields below
	state outcome
	resp  *Response
	err   error

	info *engine.ResponseInfo
	buf  bytes.Buffer
}

var _ engine.Callbacks = (*lifecycleBridge)(nil)

func newLifecycleBridge(follow func(string) bool, chunkSize int, log *logger.Logger) *lifecycleBridge {
	return &lifecycleBridge{
		follow:    follow,
		chunkSize: chunkSize,
		log:       log,
		done:      make(chan struct{}),
	}
}

// resolve transitions the bridge to a terminal state exactly once.
func (b *lifecycleBridge) resolve(state outcome, resp *Response, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != outcomePending {
		return
	}
	b.state = state
	b.resp = resp
	b.err = err
	close(b.done)
}

func (b *lifecycleBridge) resolved() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state != outcomePending
}

// result returns the terminal outcome. Only valid after done is closed.
func (b *lifecycleBridge) result() (*Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case outcomeSuccess:
		return b.resp, nil
	case outcomeCanceled:
		if b.err != nil {
			return nil, b.err
		}
		return nil, NewCancelError(nil)
	default:
		return nil, b.err
	}
}

// guard runs a handler, converting a panic into a Failed resolution.
// Nothing may escape into the engine's dispatch goroutine.
func (b *lifecycleBridge) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("lifecycle handler panicked", map[string]interface{}{"panic": fmt.Sprint(r)})
			b.resolve(outcomeError, nil, NewTransportError("", fmt.Errorf("lifecycle handler panic: %v", r)))
		}
	}()
	fn()
}

// OnRedirectReceived applies the redirect policy. A blocked redirect
// resolves with the 3xx snapshot as the final response, then cancels
// the live request so the engine unwinds; the resulting OnCanceled is
// absorbed by the already-resolved cell.
func (b *lifecycleBridge) OnRedirectReceived(req engine.Request, info *engine.ResponseInfo, newLocation string) {
	b.guard(func() {
		if b.resolved() {
			return
		}
		if b.follow(newLocation) {
			b.log.Debug("following redirect", map[string]interface{}{"location": newLocation})
			req.FollowRedirect()
			return
		}
		b.log.Debug("redirect blocked", map[string]interface{}{"location": newLocation})
		b.resolve(outcomeSuccess, b.buildResponse(info, nil), nil)
		req.Cancel()
	})
}

// OnResponseStarted records the response metadata and issues the first
// read to keep the pipeline flowing.
func (b *lifecycleBridge) OnResponseStarted(req engine.Request, info *engine.ResponseInfo) {
	b.guard(func() {
		if b.resolved() {
			return
		}
		b.mu.Lock()
		b.info = info
		b.mu.Unlock()
		req.Read(make([]byte, b.chunkSize))
	})
}

// OnReadCompleted appends exactly bytesRead bytes of buf, then issues
// the next read. A zero-byte read is a continuation, not an error or
// completion.
func (b *lifecycleBridge) OnReadCompleted(req engine.Request, _ *engine.ResponseInfo, buf []byte, bytesRead int) {
	b.guard(func() {
		if b.resolved() {
			return
		}
		if bytesRead > 0 {
			b.mu.Lock()
			b.buf.Write(buf[:bytesRead])
			b.mu.Unlock()
		}
		req.Read(make([]byte, b.chunkSize))
	})
}

// OnSucceeded finalizes the accumulated bytes into the response body.
// When the engine passes no metadata, the snapshot recorded at
// OnResponseStarted serves instead.
func (b *lifecycleBridge) OnSucceeded(_ engine.Request, info *engine.ResponseInfo) {
	b.guard(func() {
		b.mu.Lock()
		if info == nil {
			info = b.info
		}
		data := append([]byte(nil), b.buf.Bytes()...)
		b.mu.Unlock()
		b.resolve(outcomeSuccess, b.buildResponse(info, data), nil)
	})
}

// OnFailed wraps the engine error and resolves.
func (b *lifecycleBridge) OnFailed(_ engine.Request, info *engine.ResponseInfo, err error) {
	b.guard(func() {
		url := ""
		if info != nil {
			url = info.URL
		}
		b.resolve(outcomeError, nil, NewTransportError(url, err))
	})
}

// OnCanceled resolves with a cancellation outcome.
func (b *lifecycleBridge) OnCanceled(engine.Request, *engine.ResponseInfo) {
	b.guard(func() {
		b.resolve(outcomeCanceled, nil, NewCancelError(nil))
	})
}

func (b *lifecycleBridge) buildResponse(info *engine.ResponseInfo, data []byte) *Response {
	respBody := body.Empty()
	if len(data) > 0 {
		respBody = body.FromBytes(data)
	}
	return &Response{
		StatusCode: info.StatusCode,
		Status:     info.Status,
		URL:        info.URL,
		Headers:    headerMultimap(info.Headers),
		Body:       respBody,
		WasCached:  info.WasCached,
		Protocol:   info.NegotiatedProtocol,
	}
}
