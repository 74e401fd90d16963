package spacex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public SpaceX v4 API.
const DefaultBaseURL = "https://api.spacexdata.com/v4"

const (
	defaultRetryInterval = 250 * time.Millisecond
	maxRetryElapsed      = 10 * time.Second
	maxErrorBody         = 4 << 10
)

// Client issues requests against the SpaceX API.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        *zap.Logger
	metrics       *metrics
	attempts      int
	retryInterval time.Duration
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient    *http.Client
	logger        *zap.Logger
	timeout       time.Duration
	attempts      int
	retryInterval time.Duration
	registerer    prometheus.Registerer
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("spacex: baseURL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("spacex: invalid baseURL: %w", err)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	cfg := &clientConfig{attempts: 1, retryInterval: defaultRetryInterval}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{}
	if cfg.httpClient != nil {
		c := *cfg.httpClient
		httpClient = &c
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m, err := newMetrics(cfg.registerer)
	if err != nil {
		return nil, fmt.Errorf("spacex: register metrics: %w", err)
	}

	return &Client{
		baseURL:       baseURL,
		httpClient:    httpClient,
		logger:        logger,
		metrics:       m,
		attempts:      cfg.attempts,
		retryInterval: cfg.retryInterval,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a per-request timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		if d < 0 {
			return fmt.Errorf("spacex: negative timeout %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithRetry allows up to maxAttempts tries per request with exponential
// backoff. Only transport failures and 429/5xx responses are retried.
// The default is a single attempt.
func WithRetry(maxAttempts int) Option {
	return func(cfg *clientConfig) error {
		if maxAttempts < 1 {
			return fmt.Errorf("spacex: retry attempts must be at least 1, got %d", maxAttempts)
		}
		cfg.attempts = maxAttempts
		return nil
	}
}

// WithRetryInterval sets the first backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.retryInterval = d
		return nil
	}
}

// WithMetrics registers request counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(cfg *clientConfig) error {
		cfg.registerer = reg
		return nil
	}
}

// PastLaunches returns every launch that has already happened.
func (c *Client) PastLaunches(ctx context.Context) ([]Launch, error) {
	return getList(ctx, c, "/launches/past", "get past launches", launchJSON.record)
}

// UpcomingLaunches returns every scheduled launch.
func (c *Client) UpcomingLaunches(ctx context.Context) ([]Launch, error) {
	return getList(ctx, c, "/launches/upcoming", "get upcoming launches", launchJSON.record)
}

// Launch returns a single launch by its identifier.
func (c *Client) Launch(ctx context.Context, id string) (*Launch, error) {
	return getOne(ctx, c, "/launches/"+url.PathEscape(id), "get launch", launchJSON.record)
}

// Rocket returns a single rocket by its identifier.
func (c *Client) Rocket(ctx context.Context, id string) (*Rocket, error) {
	return getOne(ctx, c, "/rockets/"+url.PathEscape(id), "get rocket", rocketJSON.record)
}

// Rockets returns the unfiltered rocket listing.
func (c *Client) Rockets(ctx context.Context) ([]Rocket, error) {
	return getList(ctx, c, "/rockets", "list rockets", rocketJSON.record)
}

// Payload returns a single payload by its identifier.
func (c *Client) Payload(ctx context.Context, id string) (*Payload, error) {
	return getOne(ctx, c, "/payloads/"+url.PathEscape(id), "get payload", payloadJSON.record)
}

// Payloads returns the unfiltered payload listing.
func (c *Client) Payloads(ctx context.Context) ([]Payload, error) {
	return getList(ctx, c, "/payloads", "list payloads", payloadJSON.record)
}

func getOne[W any, R any](ctx context.Context, c *Client, path, operation string, conv func(W) R) (*R, error) {
	body, err := c.get(ctx, path, operation)
	if err != nil {
		return nil, err
	}
	rec, err := decodeOne(operation, body, conv)
	if err != nil {
		c.metrics.requests.WithLabelValues(operation, outcomeDecode).Inc()
		return nil, err
	}
	c.metrics.requests.WithLabelValues(operation, outcomeSuccess).Inc()
	return &rec, nil
}

func getList[W any, R any](ctx context.Context, c *Client, path, operation string, conv func(W) R) ([]R, error) {
	body, err := c.get(ctx, path, operation)
	if err != nil {
		return nil, err
	}
	recs, err := decodeList(operation, body, conv)
	if err != nil {
		c.metrics.requests.WithLabelValues(operation, outcomeDecode).Inc()
		return nil, err
	}
	c.metrics.requests.WithLabelValues(operation, outcomeSuccess).Inc()
	return recs, nil
}

// get performs a GET with the configured retry policy and returns the raw body
// of a 2xx response.
func (c *Client) get(ctx context.Context, path, operation string) ([]byte, error) {
	u := c.baseURL + path
	requestID := uuid.NewString()
	start := time.Now()
	defer func() {
		c.metrics.latency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	attempt := 0
	var body []byte
	op := func() error {
		attempt++
		b, err := c.do(ctx, u, operation, requestID)
		if err != nil {
			if !retryable(ctx, err) {
				return backoff.Permanent(err)
			}
			c.logger.Debug("API request failed",
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		body = b
		return nil
	}

	var err error
	if c.attempts <= 1 {
		err = op()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
	} else {
		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = c.retryInterval
		policy.MaxElapsedTime = maxRetryElapsed
		err = backoff.Retry(op, backoff.WithContext(
			backoff.WithMaxRetries(policy, uint64(c.attempts-1)), ctx))
	}

	if err != nil {
		outcome := outcomeTransport
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			outcome = outcomeAPIError
		}
		c.metrics.requests.WithLabelValues(operation, outcome).Inc()
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, u, operation, requestID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("API request",
		zap.String("operation", operation),
		zap.String("url", u),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("API response",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = resp.Status
		}
		return nil, newAPIError(operation, resp.StatusCode, msg)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", operation, err)
	}
	return body, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}
