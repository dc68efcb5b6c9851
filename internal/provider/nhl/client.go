// Package nhl provides an HTTP client for the public NHL web API
// (api-web.nhle.com) and normalizes its responses into provider types.
//
// Requests are rate limited with a token bucket, bounded by a client
// timeout, and never retried: a failed call is reported as
// provider.ErrUnavailable and the caller degrades to curated data.
package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/hockey-explainer/internal/provider"
)

// DefaultBaseURL is the public NHL web API.
const DefaultBaseURL = "https://api-web.nhle.com"

// Client is the shared HTTP client for all NHL endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient creates an NHL client. timeout bounds every request.
func NewClient(baseURL string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 120
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 4),
		logger:     logger,
		now:        time.Now,
	}
}

// localized is the NHL API's {"default": "..."} string wrapper.
type localized struct {
	Default string `json:"default"`
}

// get performs a rate-limited GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit wait: %v", provider.ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hockey-explainer/1.0")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", provider.ErrUnavailable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", provider.ErrUnavailable, path, err)
	}
	c.logger.Debug("NHL API request", "path", path, "status", resp.StatusCode, "duration", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: NHL %s returned %d: %s", provider.ErrUnavailable, path, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", provider.ErrUnavailable, path, err)
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
