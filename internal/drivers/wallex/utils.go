package wallex

import (
	"github.com/navid-fn/radar/internal/models"
	"github.com/navid-fn/radar/internal/numeric"
	"github.com/navid-fn/radar/internal/scraper"
)

const (
	marketsPath         = "/v1/markets"
	currenciesStatsPath = "/v1/currencies/stats"
)

// Stat fields arrive as numbers, numeric strings, "-" or null depending on
// the market, so they stay untyped until numeric.Coerce sees them.
type marketStats struct {
	LastPrice      any `json:"lastPrice"`
	BidPrice       any `json:"bidPrice"`
	AskPrice       any `json:"askPrice"`
	Volume24h      any `json:"24h_volume"`
	QuoteVolume24h any `json:"24h_quoteVolume"`
}

type market struct {
	Symbol     string       `json:"symbol"`
	BaseAsset  string       `json:"baseAsset"`
	QuoteAsset string       `json:"quoteAsset"`
	Stats      *marketStats `json:"stats"`
}

type apiMarketResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Symbols map[string]market `json:"symbols"`
	} `json:"result"`
	Message string `json:"message"`
}

type currencyStats struct {
	Key              string `json:"key"`
	Price            any    `json:"price"`
	Volume24h        any    `json:"volume_24h"`
	MarketCap        any    `json:"market_cap"`
	PercentChange24h any    `json:"percent_change_24h"`
}

type apiCurrenciesResponse struct {
	Success bool            `json:"success"`
	Result  []currencyStats `json:"result"`
	Message string          `json:"message"`
}

func (m market) toQuote(symbol string) *models.PairQuote {
	if m.Stats == nil {
		return nil
	}
	return &models.PairQuote{
		Symbol:         symbol,
		LastPrice:      numeric.Coerce(m.Stats.LastPrice),
		BidPrice:       numeric.Coerce(m.Stats.BidPrice),
		AskPrice:       numeric.Coerce(m.Stats.AskPrice),
		Volume24h:      numeric.Coerce(m.Stats.Volume24h),
		QuoteVolume24h: numeric.Coerce(m.Stats.QuoteVolume24h),
	}
}

func (c currencyStats) toGlobal() models.GlobalAssetStat {
	return models.GlobalAssetStat{
		Price:            numeric.Coerce(c.Price),
		Volume24h:        numeric.Coerce(c.Volume24h),
		MarketCap:        numeric.Coerce(c.MarketCap),
		PercentChange24h: numeric.Coerce(c.PercentChange24h),
	}
}

func cleanSymbol(s string) string {
	return scraper.NormalizeSymbol("wallex", s)
}
