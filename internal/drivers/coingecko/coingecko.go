// Package coingecko reads global per-asset reference stats from CoinGecko.
package coingecko

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/navid-fn/radar/internal/models"
	"github.com/navid-fn/radar/internal/scraper"
)

const (
	BaseURL          = "https://api.coingecko.com/api/v3"
	marketsPath      = "/coins/markets"
	perPage          = 250
	RequestTimeout   = 30 * time.Second
	RateLimitBackoff = 60 * time.Second // Wait 60 seconds when rate limited
	requestsPerSec   = 0.5              // 30 requests per minute on the public tier
)

// Config holds the CoinGecko client settings.
type Config struct {
	BaseURL string

	// APIKey is sent as x-cg-demo-api-key when set.
	APIKey string

	// Pages is the number of market-cap ordered pages read per fetch.
	Pages int

	MaxRetries     int
	RequestTimeout time.Duration
	RetryDelay     time.Duration

	// RateLimitBackoff is the pause after a 429. Defaults to one minute.
	RateLimitBackoff time.Duration

	// RequestsPerSecond overrides the public tier limit.
	RequestsPerSecond float64
}

// Client implements scraper.GlobalStatsSource.
type Client struct {
	http   *scraper.Client
	logger *slog.Logger
	pages  int
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Pages < 1 {
		cfg.Pages = 1
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = requestsPerSec
	}

	httpConfig := scraper.DefaultHTTPConfig(cfg.BaseURL, cfg.RequestsPerSecond)
	httpConfig.RequestTimeout = RequestTimeout
	httpConfig.RateLimitBackoff = RateLimitBackoff
	if cfg.RequestTimeout > 0 {
		httpConfig.RequestTimeout = cfg.RequestTimeout
	}
	if cfg.MaxRetries > 0 {
		httpConfig.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		httpConfig.RetryDelay = cfg.RetryDelay
	}
	if cfg.RateLimitBackoff > 0 {
		httpConfig.RateLimitBackoff = cfg.RateLimitBackoff
	}
	if cfg.APIKey != "" {
		httpConfig.Headers.Set("x-cg-demo-api-key", cfg.APIKey)
	}

	logger = logger.With("source", "coingecko")
	httpConfig.Breaker = scraper.NewCircuitBreaker(scraper.BreakerConfig{Name: "coingecko"}, logger)
	return &Client{
		http:   scraper.NewClient(httpConfig, logger),
		logger: logger,
		pages:  cfg.Pages,
	}
}

func (c *Client) Name() string { return "coingecko" }

// FetchGlobalStats reads coins ordered by market cap and keys them by
// upper-case symbol. Symbols are not unique on CoinGecko; the coin with the
// larger market cap (seen first) wins.
func (c *Client) FetchGlobalStats(ctx context.Context) (map[string]models.GlobalAssetStat, error) {
	stats := make(map[string]models.GlobalAssetStat, c.pages*perPage)

	for page := 1; page <= c.pages; page++ {
		coins, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, coin := range coins {
			symbol := scraper.NormalizeSymbol("coingecko", coin.Symbol)
			if symbol == "" {
				continue
			}
			if _, seen := stats[symbol]; seen {
				continue
			}
			stats[symbol] = coin.toGlobal()
		}

		c.logger.Debug("Fetched page", "page", page, "coins", len(coins))

		// Check if this is the last page
		if len(coins) < perPage {
			break
		}
	}

	return stats, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]coinMarket, error) {
	query := url.Values{
		"vs_currency": {"usd"},
		"order":       {"market_cap_desc"},
		"per_page":    {strconv.Itoa(perPage)},
		"page":        {strconv.Itoa(page)},
	}

	var coins []coinMarket
	if err := c.http.GetJSON(ctx, marketsPath, query, &coins); err != nil {
		return nil, fmt.Errorf("fetch coins page %d: %w", page, err)
	}
	return coins, nil
}
