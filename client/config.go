package client

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/fetchkit/engine"
	"github.com/kbukum/fetchkit/logger"
	"github.com/kbukum/fetchkit/resilience"
)

const (
	defaultTimeout = 30 * time.Second

	// defaultChunkSize trades callback frequency for per-request memory;
	// raise it for large responses.
	defaultChunkSize = 512
)

// FollowAll is the default redirect policy: every redirect is followed.
func FollowAll(string) bool { return true }

// FollowNone blocks every redirect; the 3xx itself becomes the final
// response.
func FollowNone(string) bool { return false }

// RateLimitConfig configures request rate limiting.
type RateLimitConfig struct {
	// RPS is the sustained requests-per-second budget.
	RPS float64 `yaml:"rps" mapstructure:"rps" validate:"gt=0"`
	// Burst is the burst allowance. Defaults to 1.
	Burst int `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
}

// Config configures the client.
type Config struct {
	// Engine overrides the underlying URL-request engine. Nil selects
	// the default net/http engine.
	Engine engine.Engine `yaml:"-" mapstructure:"-"`

	// Timeout bounds each request end to end. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// ChunkSize is the response read-buffer size in bytes. Defaults to 512.
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size" validate:"gte=0"`

	// FollowRedirect decides per redirect target whether to follow it.
	// Defaults to FollowAll. Always an explicit field, never shared
	// mutable state.
	FollowRedirect func(url string) bool `yaml:"-" mapstructure:"-"`

	// Headers are default headers prepended, in order, to every request.
	Headers []engine.Header `yaml:"-" mapstructure:"-"`

	// Auth configures authentication applied to all requests.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// Retry configures retry behavior. Nil disables retry. Requests
	// whose body cannot be replayed are never retried.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// RateLimit configures request rate limiting. Nil disables it.
	RateLimit *RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`

	// DisableCache bypasses the engine cache on every request.
	DisableCache bool `yaml:"disable_cache" mapstructure:"disable_cache"`

	// Tracing enables an OpenTelemetry span per request, using the
	// globally registered tracer provider.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`

	// Logger receives client logs. Defaults to the global logger.
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`
}

var validate = validator.New()

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.FollowRedirect == nil {
		c.FollowRedirect = FollowAll
	}
	if c.Logger == nil {
		c.Logger = logger.GetGlobalLogger()
	}
	if c.RateLimit != nil && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 1
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return NewValidationError(fmt.Sprintf("config: %v", err))
	}
	if c.Timeout <= 0 {
		return NewValidationError("config: timeout must be positive")
	}
	return nil
}

// DefaultRetryConfig returns a retry config suitable for this client:
// transport failures and timeouts retry, everything else does not.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = func(err error) bool {
		return IsTransport(err) || IsTimeout(err)
	}
	return &cfg
}
