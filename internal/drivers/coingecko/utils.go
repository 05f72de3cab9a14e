package coingecko

import (
	"github.com/navid-fn/radar/internal/models"
	"github.com/navid-fn/radar/internal/numeric"
)

// coinMarket is one entry of /coins/markets. Numbers can be null for
// freshly listed coins.
type coinMarket struct {
	ID                       string `json:"id"`
	Symbol                   string `json:"symbol"`
	CurrentPrice             any    `json:"current_price"`
	MarketCap                any    `json:"market_cap"`
	TotalVolume              any    `json:"total_volume"`
	PriceChangePercentage24h any    `json:"price_change_percentage_24h"`
}

func (c coinMarket) toGlobal() models.GlobalAssetStat {
	return models.GlobalAssetStat{
		Price:            numeric.Coerce(c.CurrentPrice),
		Volume24h:        numeric.Coerce(c.TotalVolume),
		MarketCap:        numeric.Coerce(c.MarketCap),
		PercentChange24h: numeric.Coerce(c.PriceChangePercentage24h),
	}
}
