// Package geocode standardizes addresses via the U.S. Census Geocoder.
package geocode

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client resolves a free-text address to its standardized form and
// coordinates.
type Client interface {
	// Geocode looks up a single one-line address.
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the geocoding output for one address. A no-match from the
// service is a valid outcome, reported with Matched=false and a nil error.
type Result struct {
	MatchedAddress string
	Latitude       float64
	Longitude      float64
	Matched        bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client for Census requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithBaseURL overrides the Census one-line endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		g.baseURL = u
	}
}

// WithBenchmark sets the Census benchmark dataset version.
func WithBenchmark(b string) Option {
	return func(g *geocoder) {
		g.benchmark = b
	}
}

// WithPause sets the fixed spacing between consecutive Census calls.
// A zero or negative duration disables pacing.
func WithPause(d time.Duration) Option {
	return func(g *geocoder) {
		g.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithCache attaches a persistent result cache. Cache hits skip both the
// network call and the inter-call pause.
func WithCache(c *Cache) Option {
	return func(g *geocoder) {
		g.cache = c
	}
}

type geocoder struct {
	httpClient *http.Client
	baseURL    string
	benchmark  string
	limiter    *rate.Limiter
	cache      *Cache
}

// NewClient creates a Census geocoding client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    censusOneLineURL,
		benchmark:  censusBenchmark,
		limiter:    rate.NewLimiter(rate.Every(DefaultPause), 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode resolves one address, consulting the cache first when configured.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	if g.cache != nil {
		hit, err := g.cache.Lookup(ctx, address)
		if err != nil {
			zap.L().Warn("geocode cache lookup failed", zap.Error(err))
		} else if hit != nil {
			return hit, nil
		}
	}

	result, err := g.geocodeCensus(ctx, address)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if err := g.cache.Store(ctx, address, result); err != nil {
			zap.L().Warn("geocode cache store failed", zap.Error(err))
		}
	}
	return result, nil
}
