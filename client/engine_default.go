package client

import (
	"github.com/kbukum/fetchkit/engine"
	"github.com/kbukum/fetchkit/engine/nethttp"
	"github.com/kbukum/fetchkit/logger"
)

// DefaultEngine builds the default net/http engine with an
// HTTP/2-enabled transport.
func DefaultEngine(log *logger.Logger) (engine.Engine, error) {
	return nethttp.NewWithConfig(nethttp.Config{Logger: log})
}
