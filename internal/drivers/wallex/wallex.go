// Package wallex reads market and currency snapshots from the Wallex public API.
package wallex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/navid-fn/radar/internal/models"
	"github.com/navid-fn/radar/internal/scraper"
)

const (
	DefaultBaseURL    = "https://api.wallex.ir"
	RateLimitBackoff  = 30 * time.Second
	DefaultRetryDelay = 2 * time.Second
)

// Config holds the Wallex client settings.
type Config struct {
	BaseURL           string
	RequestsPerSecond float64
	MaxRetries        int
	RequestTimeout    time.Duration
	RetryDelay        time.Duration
}

// Client implements scraper.PairSource and scraper.GlobalStatsSource.
// Each endpoint has its own circuit breaker; they share one rate limiter.
type Client struct {
	markets *scraper.Client
	stats   *scraper.Client
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}

	httpConfig := scraper.DefaultHTTPConfig(cfg.BaseURL, cfg.RequestsPerSecond)
	httpConfig.RateLimitBackoff = RateLimitBackoff
	httpConfig.RetryDelay = DefaultRetryDelay
	if cfg.RetryDelay > 0 {
		httpConfig.RetryDelay = cfg.RetryDelay
	}
	if cfg.MaxRetries > 0 {
		httpConfig.MaxRetries = cfg.MaxRetries
	}
	if cfg.RequestTimeout > 0 {
		httpConfig.RequestTimeout = cfg.RequestTimeout
	}

	logger = logger.With("source", "wallex")
	return &Client{
		markets: newEndpointClient(*httpConfig, "wallex-markets", logger),
		stats:   newEndpointClient(*httpConfig, "wallex-currency-stats", logger),
		logger:  logger,
	}
}

func newEndpointClient(config scraper.HTTPConfig, name string, logger *slog.Logger) *scraper.Client {
	config.Breaker = scraper.NewCircuitBreaker(scraper.BreakerConfig{Name: name}, logger)
	return scraper.NewClient(&config, logger)
}

func (c *Client) Name() string { return "wallex" }

// FetchPairs returns every listed market keyed by symbol (e.g. "BTCTMN").
// Markets listed without stats map to nil.
func (c *Client) FetchPairs(ctx context.Context) (map[string]*models.PairQuote, error) {
	var data apiMarketResponse
	if err := c.markets.GetJSON(ctx, marketsPath, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}
	if !data.Success {
		return nil, fmt.Errorf("fetch markets: unsuccessful response: %s", data.Message)
	}

	pairs := make(map[string]*models.PairQuote, len(data.Result.Symbols))
	for key, m := range data.Result.Symbols {
		symbol := m.Symbol
		if symbol == "" {
			symbol = key
		}
		symbol = cleanSymbol(symbol)
		pairs[symbol] = m.toQuote(symbol)
	}

	c.logger.Debug("Fetched markets", "count", len(pairs))
	return pairs, nil
}

// FetchGlobalStats returns Wallex's global reference stats keyed by asset.
func (c *Client) FetchGlobalStats(ctx context.Context) (map[string]models.GlobalAssetStat, error) {
	var data apiCurrenciesResponse
	if err := c.stats.GetJSON(ctx, currenciesStatsPath, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch currency stats: %w", err)
	}
	if !data.Success {
		return nil, fmt.Errorf("fetch currency stats: unsuccessful response: %s", data.Message)
	}

	stats := make(map[string]models.GlobalAssetStat, len(data.Result))
	for _, cs := range data.Result {
		key := cleanSymbol(cs.Key)
		if key == "" {
			continue
		}
		if _, seen := stats[key]; seen {
			continue
		}
		stats[key] = cs.toGlobal()
	}

	c.logger.Debug("Fetched currency stats", "count", len(stats))
	return stats, nil
}
