package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalysisRecord is the result computed for one asset in one cycle.
// It is only built when both the USDT and the TMN last prices are known.
type AnalysisRecord struct {
	// Timestamp is the capture instant of the cycle.
	Timestamp time.Time `json:"timestamp"`

	// Symbol is the base asset (e.g. "BTC").
	Symbol string `json:"symbol"`

	USDTPrice       decimal.NullDecimal `json:"usdt_price"`
	USDTBid         decimal.NullDecimal `json:"usdt_bid"`
	USDTAsk         decimal.NullDecimal `json:"usdt_ask"`
	USDTVolume      decimal.NullDecimal `json:"usdt_volume"`
	USDTQuoteVolume decimal.NullDecimal `json:"usdt_quote_volume"`

	TMNPrice       decimal.NullDecimal `json:"tmn_price"`
	TMNBid         decimal.NullDecimal `json:"tmn_bid"`
	TMNAsk         decimal.NullDecimal `json:"tmn_ask"`
	TMNVolume      decimal.NullDecimal `json:"tmn_volume"`
	TMNQuoteVolume decimal.NullDecimal `json:"tmn_quote_volume"`

	// BridgedPrice is the USDT price converted to TMN through the reference rate.
	BridgedPrice decimal.Decimal `json:"bridged_price"`

	// PriceDifference is BridgedPrice minus the direct TMN price.
	PriceDifference decimal.Decimal `json:"price_difference"`

	// PercentageDifference is PriceDifference relative to the direct TMN
	// price, in percent. Zero when the TMN price is zero.
	PercentageDifference decimal.Decimal `json:"percentage_difference"`

	GlobalPrice            decimal.NullDecimal `json:"global_price"`
	GlobalVolume24h        decimal.NullDecimal `json:"global_volume_24h"`
	GlobalMarketCap        decimal.NullDecimal `json:"global_market_cap"`
	GlobalPercentChange24h decimal.NullDecimal `json:"global_percent_change_24h"`
}

// Opportunity is the part of an AnalysisRecord that passed the deviation and
// liquidity gates.
type Opportunity struct {
	Timestamp            time.Time       `json:"timestamp"`
	Symbol               string          `json:"symbol"`
	USDTPrice            decimal.Decimal `json:"usdt_price"`
	BridgedPrice         decimal.Decimal `json:"bridged_price"`
	TMNPrice             decimal.Decimal `json:"tmn_price"`
	PriceDifference      decimal.Decimal `json:"price_difference"`
	PercentageDifference decimal.Decimal `json:"percentage_difference"`
	USDTQuoteVolume      decimal.Decimal `json:"usdt_quote_volume"`
	TMNQuoteVolume       decimal.Decimal `json:"tmn_quote_volume"`
}
