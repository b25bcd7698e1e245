// Package httpclient provides an HTTP client with bounded retries used by
// every outbound call in the application.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"tagline/internal/infrastructure/config"
)

// ErrExhausted marks a request that failed on every retry attempt.
var ErrExhausted = errors.New("all retry attempts failed")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Response holds a completed response body.
type Response struct {
	StatusCode  int
	Body        []byte
	contentType string
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	return strings.Contains(strings.ToLower(r.contentType), "application/json")
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// Client issues HTTP requests with bounded retries. Transient failures
// (network errors, 5xx, 429) are retried with a delay that grows linearly
// with the attempt number; other non-2xx statuses fail immediately.
type Client struct {
	http       *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// New creates a retrying client from the shared HTTP configuration.
func New(cfg config.HTTPConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout()},
		maxRetries: maxRetries,
		retryDelay: cfg.RetryDelay(),
		logger:     logger,
	}
}

// Request issues one HTTP request, retrying transient failures up to the
// configured bound. It returns the first successful response, or an error
// wrapping ErrExhausted (transient failures all the way through) or a
// terminal *StatusError.
func (c *Client) Request(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.do(ctx, method, url, headers, body)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !retryableStatus(statusErr.StatusCode) {
			return nil, err
		}

		c.logger.Warn("request attempt failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.maxRetries),
			zap.Error(err),
		)

		if attempt < c.maxRetries {
			// Linear backoff, bounded by the attempt count.
			delay := time.Duration(attempt) * c.retryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	c.logger.Error("all request attempts failed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("attempts", c.maxRetries),
		zap.Error(lastErr),
	)
	return nil, fmt.Errorf("%w: %s %s after %d attempts: %w", ErrExhausted, method, url, c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       string(data),
		}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		Body:        data,
		contentType: resp.Header.Get("Content-Type"),
	}, nil
}

// retryableStatus reports whether a status code is worth retrying.
func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}
