package offmeta

import (
	"net/http"
	"os"
	"time"

	"github.com/ninesl/offmeta/internal/client"
)

const (
	// DefaultMaxPages is the most result pages one search ever fetches.
	DefaultMaxPages = 5

	// DefaultDebounce is how long a Session waits after the last input change before searching.
	DefaultDebounce = 500 * time.Millisecond
)

// Config configures an Explorer. Zero fields take their defaults.
type Config struct {
	APIURL       string       // default "https://api.scryfall.com"
	AppUserAgent string       // default "OffMeta/1.0"
	Accept       string       // default "application/json;q=0.9,*/*;q=0.8"
	ProxyURL     string       // optional HTTP proxy
	HTTPClient   *http.Client // optional, a client with a 30s timeout otherwise

	// RequestInterval is the minimum spacing between requests. 0 uses 100ms,
	// a negative value disables rate limiting.
	RequestInterval time.Duration

	MaxPages int           // lowers the page cap; values outside 1..DefaultMaxPages use DefaultMaxPages
	Debounce time.Duration // default DefaultDebounce

	Logger  *Logger          // default text logger at info level
	Metrics MetricsCollector // default NoopMetricsCollector
}

// DefaultConfig returns the configuration used by the package-level functions.
// The SCRYFALL_PROXY_URL environment variable sets ProxyURL.
func DefaultConfig() Config {
	return Config{
		APIURL:          client.APIBaseURL,
		AppUserAgent:    client.DefaultUserAgent,
		Accept:          client.DefaultAccept,
		ProxyURL:        os.Getenv("SCRYFALL_PROXY_URL"),
		RequestInterval: client.DefaultRequestInterval,
		MaxPages:        DefaultMaxPages,
		Debounce:        DefaultDebounce,
	}
}

func (c Config) withDefaults() Config {
	if c.APIURL == "" {
		c.APIURL = client.APIBaseURL
	}
	if c.AppUserAgent == "" {
		c.AppUserAgent = client.DefaultUserAgent
	}
	if c.Accept == "" {
		c.Accept = client.DefaultAccept
	}
	switch {
	case c.RequestInterval == 0:
		c.RequestInterval = client.DefaultRequestInterval
	case c.RequestInterval < 0:
		c.RequestInterval = 0
	}
	if c.MaxPages <= 0 || c.MaxPages > DefaultMaxPages {
		c.MaxPages = DefaultMaxPages
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.Logger == nil {
		c.Logger = NewLogger(nil)
	}
	if c.Metrics == nil {
		c.Metrics = NoopMetricsCollector{}
	}
	return c
}

func (c Config) clientOptions() client.ClientOptions {
	return client.ClientOptions{
		APIURL:          c.APIURL,
		UserAgent:       c.AppUserAgent,
		Accept:          c.Accept,
		Client:          c.HTTPClient,
		ProxyURL:        c.ProxyURL,
		RequestInterval: c.RequestInterval,
	}
}
