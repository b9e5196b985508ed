// Package fetch provides the rate-limited HTTP client shared by all
// metadata providers. Calls are paced through a token-bucket limiter;
// throttling (429) and transient server errors (503) are retried with
// exponential backoff before a failure is surfaced. Failures are
// ordinary errors for the caller to absorb, never aborts.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit paces calls at roughly one per 150ms, the
	// politeness interval both Crossref and OpenAlex tolerate
	// without an API key.
	DefaultRateLimit = 1000.0 / 150.0

	// DefaultMaxAttempts bounds retries on throttling responses.
	DefaultMaxAttempts = 4

	// DefaultBaseDelay is the first backoff delay; it doubles on
	// each subsequent attempt.
	DefaultBaseDelay = 500 * time.Millisecond
)

// Client is a rate-limited HTTP client with bounded retry.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseDelay   time.Duration
	userAgent   string
	sleep       func(context.Context, time.Duration) error
	jitter      func() float64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the sustained request rate in requests/second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxAttempts sets the retry budget for throttled calls.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithSleeper replaces the backoff sleep function (for testing).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// WithJitter replaces the jitter source (for testing). The function
// must return values in [0, 1).
func WithJitter(jitter func() float64) Option {
	return func(c *Client) {
		c.jitter = jitter
	}
}

// NewClient creates a rate-limited client with default pacing.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       sleepContext,
		jitter:      rand.Float64,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get fetches a URL, retrying on 429/503 up to the attempt budget.
// Any other failure is surfaced immediately.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	delay := c.baseDelay
	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		body, retryable, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retryable || attempt >= c.maxAttempts {
			return nil, err
		}

		// Bounded jitter keeps concurrent retries from re-colliding.
		jittered := time.Duration(float64(delay) * (0.5 + c.jitter()))
		if serr := c.sleep(ctx, jittered); serr != nil {
			return nil, serr
		}
		delay *= 2
	}
}

// get performs a single request. The second return value reports
// whether the failure is worth retrying.
func (c *Client) get(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w: %s", ErrRateLimited, url)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, true, &APIError{StatusCode: resp.StatusCode, URL: url}
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode >= 400:
		return nil, false, &APIError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("reading response: %w", err)
	}
	return body, false, nil
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
