// =============================================================================
// Catalog Feed Converter - JSON Fetcher
// =============================================================================
//
// Best-effort GET helper for pulling JSON from catalog-related endpoints.
// It never returns an error: HTTP error statuses, connection failures,
// timeouts and undecodable bodies are logged and produce a nil result.
// There are no retries.
//
// =============================================================================

package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a request when Options.Timeout is zero.
const DefaultTimeout = 3 * time.Second

// Options holds the optional parts of a request.
type Options struct {
	// Headers are set on the request.
	Headers map[string]string

	// Params are added to the URL query, replacing any existing value.
	Params map[string]string

	// Timeout bounds the whole request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client performs GET requests.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Get fetches rawURL and decodes the JSON body.
//
// RETURNS:
//   - The decoded body (map[string]any, []any, string, float64, bool) on a
//     2xx response.
//   - nil on any failure; the failure is logged.
func (c *Client) Get(ctx context.Context, rawURL string, opts Options) any {
	body, err := c.get(ctx, rawURL, opts)
	if err != nil {
		c.logger.Error("fetch failed", "url", rawURL, "error", err)
		return nil
	}
	return body
}

func (c *Client) get(ctx context.Context, rawURL string, opts Options) (any, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target, err := buildURL(rawURL, opts.Params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("fetched", "url", target, "status", resp.StatusCode)
	return body, nil
}

// buildURL merges params into the query of rawURL.
func buildURL(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid url %q: scheme and host required", rawURL)
	}
	if len(params) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
