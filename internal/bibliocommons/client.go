// Package bibliocommons resolves book availability against a
// BiblioCommons-driven library catalog through its undocumented search and
// full-record APIs.
package bibliocommons

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lepinkainen/stacks/internal/book"
	"github.com/lepinkainen/stacks/internal/errors"
	"github.com/lepinkainen/stacks/internal/ratelimit"
)

const (
	defaultMaxAttempts   = 3
	defaultRatePerSecond = 2 // polite ceiling for an undocumented API
	defaultTimeout       = 10 * time.Second
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to one catalog, identified by its bibliocommons.com
// subdomain (seattle, sfpl, vpl, ...).
type Client struct {
	baseURL       string
	httpClient    HTTPDoer
	rateLimiter   *ratelimit.Limiter
	retryAttempts int
	logger        *slog.Logger
}

// New creates a client for the catalog at <subdomain>.bibliocommons.com.
func New(subdomain string, opts ...Option) *Client {
	client := &Client{
		baseURL:       fmt.Sprintf("https://%s.bibliocommons.com", subdomain),
		httpClient:    &http.Client{Timeout: defaultTimeout},
		rateLimiter:   ratelimit.For("BiblioCommons", defaultRatePerSecond),
		retryAttempts: defaultMaxAttempts,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL overrides the catalog base URL, ignoring the subdomain.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

// WithRetryAttempts sets the number of retry attempts for failed requests.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) {
		if logger != nil {
			client.logger = logger
		}
	}
}

// Search runs one custom query through the catalog's RSS search feed and
// returns the partial records it describes.
//
// The search API is only open to library employees; as of 2011 it was
// going to be public "soon". The RSS feed is the next best thing.
func (c *Client) Search(ctx context.Context, query string) ([]book.Record, error) {
	params := url.Values{"custom_query": {query}}
	endpoint := fmt.Sprintf("%s/search/rss?%s", c.baseURL, params.Encode())
	c.logger.Debug("Searching catalog via RSS", "url", endpoint)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return parseFeed(resp.Body, c.logger)
}

// FetchCallNumber resolves the call number for one catalog item through
// the full-record endpoint.
func (c *Client) FetchCallNumber(ctx context.Context, itemID int64) (string, error) {
	endpoint := fmt.Sprintf("%s/item/full_record/%d", c.baseURL, itemID)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("full record fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var record fullRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return "", NewUnstableAPIError(fmt.Sprintf("full record envelope changed: %v", err))
	}

	return parseCallNumber(record.HTML)
}

// get issues a rate-limited GET with retries on transient failures.
func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		resp, err := c.doGet(ctx, endpoint)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == c.retryAttempts {
			return nil, err
		}
		select {
		case <-time.After(backoffDelay(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) doGet(ctx context.Context, endpoint string) (*http.Response, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		_ = resp.Body.Close()
		return nil, errors.NewRateLimitError("catalog rate limit reached")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	return resp, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("catalog: unexpected status %d: %s", e.code, e.body)
}

func isRetryable(err error) bool {
	var urlErr *url.Error
	if stdErrors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		// Network errors (connection resets etc.)
		if strings.Contains(urlErr.Error(), "connection") {
			return true
		}
	}

	var status *statusError
	if stdErrors.As(err, &status) {
		return status.code >= 500
	}

	return errors.IsRateLimitError(err)
}

func backoffDelay(attempt int) time.Duration {
	// exponential backoff capped at 10 seconds
	delay := time.Duration(1<<uint(attempt-1)) * time.Second
	if delay > 10*time.Second {
		return 10 * time.Second
	}
	return delay
}
