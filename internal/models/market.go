// Package models defines the domain models shared by drivers, the analyzer
// and the report sinks.
package models

import "github.com/shopspring/decimal"

// PairQuote is one trading pair's market snapshot as reported by the exchange.
// Every field is optional; a quote without LastPrice cannot be bridged.
type PairQuote struct {
	// Symbol is the exchange pair symbol, base followed by quote (e.g. "BTCUSDT").
	Symbol string `json:"symbol"`

	LastPrice decimal.NullDecimal `json:"last_price"`
	BidPrice  decimal.NullDecimal `json:"bid_price"`
	AskPrice  decimal.NullDecimal `json:"ask_price"`

	// Volume24h is traded base-asset volume over the last 24h.
	Volume24h decimal.NullDecimal `json:"volume_24h"`

	// QuoteVolume24h is the same volume denominated in the quote currency.
	// Used as the liquidity proxy.
	QuoteVolume24h decimal.NullDecimal `json:"quote_volume_24h"`
}

// GlobalAssetStat is exchange-independent reference data for one asset.
type GlobalAssetStat struct {
	Price            decimal.NullDecimal `json:"price"`
	Volume24h        decimal.NullDecimal `json:"volume_24h"`
	MarketCap        decimal.NullDecimal `json:"market_cap"`
	PercentChange24h decimal.NullDecimal `json:"percent_change_24h"`
}
