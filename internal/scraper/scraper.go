// Package scraper holds the plumbing shared by the exchange drivers: the
// source interfaces the monitor depends on and a rate limited JSON client.
package scraper

import (
	"context"

	"github.com/navid-fn/radar/internal/models"
)

// PairSource returns the current snapshot of every trading pair, keyed by
// exchange symbol. A nil value means the pair is listed without stats.
type PairSource interface {
	FetchPairs(ctx context.Context) (map[string]*models.PairQuote, error)
	Name() string
}

// GlobalStatsSource returns exchange-independent stats keyed by asset symbol.
type GlobalStatsSource interface {
	FetchGlobalStats(ctx context.Context) (map[string]models.GlobalAssetStat, error)
	Name() string
}
