package fitbit

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vickgarcia/fitpull/internal/version"
	"golang.org/x/oauth2"
)

const (
	defaultMaxRetries    = 3
	defaultBackoffFactor = 1.5
)

// Client talks to the Fitbit Web API. Requests are issued one at a time; the
// shared QuotaTracker is refreshed from every response and consulted by
// admission control before a batch starts.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	quota    *QuotaTracker
	counters *Counters

	maxRetries    int
	backoffFactor float64

	// sleep is swapped out in tests to avoid real waits.
	sleep func(time.Duration)
}

func New(tokenSource oauth2.TokenSource, opts ...Option) *Client {
	const baseURL = "https://api.fitbit.com"

	cfg := &clientConfig{
		baseURL:       baseURL,
		tokenSource:   tokenSource,
		logger:        slog.Default(),
		maxRetries:    defaultMaxRetries,
		backoffFactor: defaultBackoffFactor,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	quota := cfg.quota
	if quota == nil {
		quota = NewQuotaTracker()
	}

	transport := &fitbitTransport{
		base:        http.DefaultTransport,
		tokenSource: cfg.tokenSource,
	}

	return &Client{
		baseURL:       cfg.baseURL,
		httpClient:    &http.Client{Transport: transport, Timeout: cfg.timeout},
		logger:        cfg.logger,
		quota:         quota,
		counters:      NewCounters(),
		maxRetries:    cfg.maxRetries,
		backoffFactor: cfg.backoffFactor,
		sleep:         time.Sleep,
	}
}

type clientConfig struct {
	baseURL       string
	tokenSource   oauth2.TokenSource
	logger        *slog.Logger
	quota         *QuotaTracker
	timeout       time.Duration
	maxRetries    int
	backoffFactor float64
}

type Option func(*clientConfig)

func WithBaseURL(baseURL string) Option {
	return func(cfg *clientConfig) { cfg.baseURL = baseURL }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

// WithQuotaTracker shares an externally owned tracker, enabling per-account
// quota bookkeeping across clients.
func WithQuotaTracker(quota *QuotaTracker) Option {
	return func(cfg *clientConfig) { cfg.quota = quota }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

func WithMaxRetries(n int) Option {
	return func(cfg *clientConfig) { cfg.maxRetries = n }
}

func WithBackoffFactor(f float64) Option {
	return func(cfg *clientConfig) { cfg.backoffFactor = f }
}

func (c *Client) Quota() Quota { return c.quota.Snapshot() }

func (c *Client) Counters() *Counters { return c.counters }

type fitbitTransport struct {
	base        http.RoundTripper
	tokenSource oauth2.TokenSource
}

var _ http.RoundTripper = (*fitbitTransport)(nil)

func (t *fitbitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fitpull/"+version.Get())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return resp, nil
}
