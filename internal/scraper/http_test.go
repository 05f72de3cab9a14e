package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(baseURL string) *HTTPConfig {
	config := DefaultHTTPConfig(baseURL, 1000)
	config.RetryDelay = time.Millisecond
	config.RateLimitBackoff = time.Millisecond
	return config
}

func TestDefaultHTTPConfig(t *testing.T) {
	baseURL := "https://api.example.com"
	config := DefaultHTTPConfig(baseURL, 10.0)

	if config.BaseURL != baseURL {
		t.Errorf("Expected BaseURL '%s', got '%s'", baseURL, config.BaseURL)
	}
	if config.RateLimiter == nil {
		t.Error("Expected RateLimiter to be initialized")
	}
	if config.MaxRetries != 3 {
		t.Errorf("Expected 3 retries, got %d", config.MaxRetries)
	}
}

func TestGetJSONRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			if r.URL.Query().Get("page") != "2" {
				t.Errorf("Expected page=2, got %q", r.URL.RawQuery)
			}
			w.Write([]byte(`{"price": 123.4500}`))
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	var out struct {
		Price json.Number `json:"price"`
	}
	if err := client.GetJSON(context.Background(), "/x", url.Values{"page": {"2"}}, &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Price.String() != "123.4500" {
		t.Errorf("Expected number text to be kept, got %s", out.Price)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 calls, got %d", calls.Load())
	}
}

func TestGetJSONGivesUp(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	var out map[string]any
	err := client.GetJSON(context.Background(), "/x", nil, &out)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 calls, got %d", calls.Load())
	}
}

func TestGetJSONMalformedBody(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), testLogger())

	var out map[string]any
	if err := client.GetJSON(context.Background(), "/x", nil, &out); err == nil {
		t.Error("Expected decode error")
	}
	if calls.Load() != 1 {
		t.Errorf("Expected no retry on malformed body, got %d calls", calls.Load())
	}
}

func TestGetJSONSendsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("Expected api key header, got %q", r.Header.Get("x-api-key"))
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.Headers.Set("x-api-key", "secret")
	client := NewClient(config, testLogger())

	var out map[string]any
	if err := client.GetJSON(context.Background(), "/", nil, &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestGetJSONCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.RetryDelay = time.Hour
	client := NewClient(config, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out map[string]any
	err := client.GetJSON(ctx, "/", nil, &out)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}
