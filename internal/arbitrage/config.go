package arbitrage

import "github.com/shopspring/decimal"

const (
	DefaultStableQuote             = "USDT"
	DefaultFiatQuote               = "TMN"
	DefaultMinPercentageDifference = 0.1
	DefaultMinStableQuoteVolume    = 1000
	DefaultMinFiatQuoteVolume      = 50_000_000
)

// Config holds the thresholds and quote currencies of one analysis.
type Config struct {
	// StableQuote is the stablecoin quote suffix (e.g. "USDT").
	StableQuote string

	// FiatQuote is the local fiat quote suffix (e.g. "TMN").
	FiatQuote string

	// ReferenceSymbol is the pair whose last price bridges StableQuote to
	// FiatQuote. Defaults to StableQuote+FiatQuote.
	ReferenceSymbol string

	// MinPercentageDifference must be strictly exceeded to flag an opportunity.
	MinPercentageDifference decimal.Decimal

	// MinStableQuoteVolume and MinFiatQuoteVolume are inclusive liquidity floors.
	MinStableQuoteVolume decimal.Decimal
	MinFiatQuoteVolume   decimal.Decimal
}

// DefaultConfig returns the USDT/TMN configuration used in production.
func DefaultConfig() Config {
	return Config{
		StableQuote:             DefaultStableQuote,
		FiatQuote:               DefaultFiatQuote,
		MinPercentageDifference: decimal.NewFromFloat(DefaultMinPercentageDifference),
		MinStableQuoteVolume:    decimal.NewFromInt(DefaultMinStableQuoteVolume),
		MinFiatQuoteVolume:      decimal.NewFromInt(DefaultMinFiatQuoteVolume),
	}
}

// NewConfig builds a Config from plain float thresholds as read from the
// environment.
func NewConfig(stableQuote, fiatQuote, referenceSymbol string, minPct, minStableVolume, minFiatVolume float64) Config {
	return Config{
		StableQuote:             stableQuote,
		FiatQuote:               fiatQuote,
		ReferenceSymbol:         referenceSymbol,
		MinPercentageDifference: decimal.NewFromFloat(minPct),
		MinStableQuoteVolume:    decimal.NewFromFloat(minStableVolume),
		MinFiatQuoteVolume:      decimal.NewFromFloat(minFiatVolume),
	}
}

func (c Config) referenceSymbol() string {
	if c.ReferenceSymbol != "" {
		return c.ReferenceSymbol
	}
	return c.StableQuote + c.FiatQuote
}
