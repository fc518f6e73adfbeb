package engine

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	FetchTimeout         time.Duration
	MaxBodyBytes         int64
	FetchRPS             float64 // 0 = no outbound rate limit
	FetchBurst           int
	CacheTTL             time.Duration // 0 = tool-layer cache disabled
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client // nil = newFetchClient()
}

const (
	defaultMaxBodyBytes = 8 << 20
	defaultFetchTimeout = 15 * time.Second
)

var cfg Config

// Cfg exposes the engine configuration for sub-packages (ytchannel, ytserver).
// Always points to the current cfg value.
var Cfg = &cfg

// limiter throttles outbound page fetches; nil when FetchRPS is 0.
var limiter *rate.Limiter

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = newFetchClient()
	}
	cfg = c
	Cfg = &cfg

	limiter = nil
	if c.FetchRPS > 0 {
		burst := c.FetchBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(c.FetchRPS), burst)
	}
}
