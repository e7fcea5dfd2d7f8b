// Package nethttp implements engine.Engine on top of net/http with an
// HTTP/2-enabled transport.
//
// Each started request is owned by one goroutine that runs the
// connection lifecycle and delivers callbacks; Read, FollowRedirect and
// Cancel post commands to it. Upload providers are adapted to the
// io.Reader pull model net/http expects, with GetBody wired to the
// provider's Rewind for transport-internal replays.
//
// The engine never closes an upload provider: disposal stays with
// whoever created it.
package nethttp

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"golang.org/x/net/http2"

	"github.com/kbukum/fetchkit/engine"
	"github.com/kbukum/fetchkit/logger"
)

// Config configures the engine transport.
type Config struct {
	// Transport overrides the default transport entirely.
	Transport http.RoundTripper
	// DisableHTTP2 keeps the default transport on HTTP/1.1.
	DisableHTTP2 bool
	// MaxRedirects caps how many redirects a single request may follow.
	// Defaults to 10.
	MaxRedirects int
	// Logger receives engine debug logs.
	Logger *logger.Logger
}

const defaultMaxRedirects = 10

// Engine is the default URL-request engine backed by net/http.
type Engine struct {
	transport    http.RoundTripper
	maxRedirects int
	log          *logger.Logger
	closed       atomic.Bool
}

var _ engine.Engine = (*Engine)(nil)

// New creates an engine with a default HTTP/2-enabled transport.
func New() (*Engine, error) {
	return NewWithConfig(Config{})
}

// NewWithConfig creates an engine from cfg.
func NewWithConfig(cfg Config) (*Engine, error) {
	rt := cfg.Transport
	if rt == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if !cfg.DisableHTTP2 {
			if err := http2.ConfigureTransport(t); err != nil {
				return nil, fmt.Errorf("nethttp: configure http2: %w", err)
			}
		}
		rt = t
	}

	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}

	log := cfg.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	return &Engine{
		transport:    rt,
		maxRedirects: maxRedirects,
		log:          log.WithComponent("engine"),
	}, nil
}

// NewRequest builds a request against url. The request is inert until
// Start is called.
func (e *Engine) NewRequest(url string, cb engine.Callbacks, params engine.RequestParams) (engine.Request, error) {
	if e.closed.Load() {
		return nil, fmt.Errorf("nethttp: engine is shut down")
	}
	if cb == nil {
		return nil, fmt.Errorf("nethttp: callbacks must not be nil")
	}
	return newRequest(e, url, cb, params), nil
}

// Shutdown releases idle connections and marks the engine closed.
// In-flight requests are left to finish on their own.
func (e *Engine) Shutdown(_ context.Context) error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	e.closeIdle()
	e.log.Debug("engine shut down")
	return nil
}

// ForceClose closes idle connections regardless of engine state. Used
// as the fallback when a graceful shutdown fails.
func (e *Engine) ForceClose() {
	e.closed.Store(true)
	e.closeIdle()
}

func (e *Engine) closeIdle() {
	if t, ok := e.transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
}
