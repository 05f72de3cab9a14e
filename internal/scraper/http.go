package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when the API kept answering 429 until retries ran out.
var ErrRateLimited = errors.New("rate limited")

type HTTPConfig struct {
	BaseURL        string
	RateLimiter    *rate.Limiter
	RequestTimeout time.Duration

	// MaxRetries is the number of attempts per request, including the first.
	MaxRetries int

	// RetryDelay is the pause after a failed attempt.
	RetryDelay time.Duration

	// RateLimitBackoff is the pause after a 429.
	RateLimitBackoff time.Duration

	// Headers are added to every request.
	Headers http.Header

	// Breaker, when set, guards whole GetJSON calls (all retries included).
	Breaker *CircuitBreaker
}

func DefaultHTTPConfig(baseURL string, requestsPerSecond float64) *HTTPConfig {
	return &HTTPConfig{
		BaseURL:          baseURL,
		RateLimiter:      rate.NewLimiter(rate.Limit(requestsPerSecond), 10),
		RequestTimeout:   10 * time.Second,
		MaxRetries:       3,
		RetryDelay:       2 * time.Second,
		RateLimitBackoff: 60 * time.Second,
		Headers:          http.Header{},
	}
}

// Client performs rate limited JSON GETs with retry.
type Client struct {
	config *HTTPConfig
	http   *http.Client
	logger *slog.Logger
}

func NewClient(config *HTTPConfig, logger *slog.Logger) *Client {
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.RequestTimeout},
		logger: logger,
	}
}

// GetJSON fetches BaseURL+path and decodes the body into out.
// Numbers are decoded as json.Number so they keep their exact text.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c.config.Breaker == nil {
		return c.getJSON(ctx, path, query, out)
	}
	return c.config.Breaker.Execute(ctx, func() error {
		return c.getJSON(ctx, path, query, out)
	})
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retry", "attempt", attempt, "url", endpoint, "error", lastErr)
		}

		if c.config.RateLimiter != nil {
			if err := c.config.RateLimiter.Wait(ctx); err != nil {
				return err
			}
		}

		status, body, err := c.get(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if err := sleep(ctx, c.config.RetryDelay); err != nil {
				return err
			}
			continue
		}

		if status == http.StatusTooManyRequests {
			c.logger.Warn("Rate limited, waiting", "backoff", c.config.RateLimitBackoff)
			lastErr = ErrRateLimited
			if err := sleep(ctx, c.config.RateLimitBackoff); err != nil {
				return err
			}
			continue
		}

		if status != http.StatusOK {
			lastErr = fmt.Errorf("status %d", status)
			if err := sleep(ctx, c.config.RetryDelay); err != nil {
				return err
			}
			continue
		}

		if err := decodeJSON(body, out); err != nil {
			// A malformed body will not get better on retry.
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded for %s: %w", path, lastErr)
}

func (c *Client) get(ctx context.Context, endpoint string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range c.config.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func decodeJSON(body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(out)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
