// Package arbitrage reconciles stablecoin-quoted and fiat-quoted prices of the
// same asset and scores the deviation as a candidate arbitrage signal.
//
// Everything here is pure: no I/O, no logging, no state kept between calls.
package arbitrage

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/navid-fn/radar/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoPairs means the snapshot was empty, so there was nothing to analyze.
	ErrNoPairs = errors.New("no pairs to analyze")

	// ErrNoReferenceRate means the stablecoin/fiat pair had no usable last
	// price, so no asset can be bridged this cycle.
	ErrNoReferenceRate = errors.New("reference rate unavailable")
)

var hundred = decimal.NewFromInt(100)

// Analyze builds one AnalysisRecord per asset quoted in both currencies and
// returns, alongside, the records that qualify as opportunities.
//
// A nil or missing PairQuote and an unavailable last price on either side
// skip the asset. The only errors are ErrNoPairs and ErrNoReferenceRate, in
// which case both slices are nil. Records are returned in ascending pair
// symbol order.
func Analyze(
	pairs map[string]*models.PairQuote,
	globals map[string]models.GlobalAssetStat,
	now time.Time,
	cfg Config,
) ([]models.AnalysisRecord, []models.Opportunity, error) {
	if len(pairs) == 0 {
		return nil, nil, ErrNoPairs
	}

	refSymbol := cfg.referenceSymbol()
	rate, ok := lastPrice(pairs[refSymbol])
	if !ok {
		return nil, nil, ErrNoReferenceRate
	}

	symbols := make([]string, 0, len(pairs))
	for symbol := range pairs {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var (
		records       []models.AnalysisRecord
		opportunities []models.Opportunity
	)

	for _, symbol := range symbols {
		if symbol == refSymbol || !strings.HasSuffix(symbol, cfg.StableQuote) {
			continue
		}
		base := strings.TrimSuffix(symbol, cfg.StableQuote)
		if base == "" {
			continue
		}

		stable := pairs[symbol]
		stableLast, ok := lastPrice(stable)
		if !ok {
			continue
		}

		fiat := pairs[base+cfg.FiatQuote]
		fiatLast, ok := lastPrice(fiat)
		if !ok {
			continue
		}

		bridged := stableLast.Mul(rate)
		diff := bridged.Sub(fiatLast)

		record := models.AnalysisRecord{
			Timestamp:            now,
			Symbol:               base,
			USDTPrice:            stable.LastPrice,
			USDTBid:              stable.BidPrice,
			USDTAsk:              stable.AskPrice,
			USDTVolume:           stable.Volume24h,
			USDTQuoteVolume:      stable.QuoteVolume24h,
			TMNPrice:             fiat.LastPrice,
			TMNBid:               fiat.BidPrice,
			TMNAsk:               fiat.AskPrice,
			TMNVolume:            fiat.Volume24h,
			TMNQuoteVolume:       fiat.QuoteVolume24h,
			BridgedPrice:         bridged,
			PriceDifference:      diff,
			PercentageDifference: PercentageDifference(diff, fiatLast),
		}

		if g, ok := globals[base]; ok {
			record.GlobalPrice = g.Price
			record.GlobalVolume24h = g.Volume24h
			record.GlobalMarketCap = g.MarketCap
			record.GlobalPercentChange24h = g.PercentChange24h
		}

		records = append(records, record)

		if opp, ok := Qualify(record, cfg); ok {
			opportunities = append(opportunities, opp)
		}
	}

	return records, opportunities, nil
}

// PercentageDifference returns diff relative to base in percent.
// A zero base yields zero rather than an error or infinity.
func PercentageDifference(diff, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return diff.Div(base).Mul(hundred)
}

// Qualify applies the opportunity gate to a record: the percentage difference
// must strictly exceed the minimum and both quote volumes must be present and
// at or above their floors.
func Qualify(r models.AnalysisRecord, cfg Config) (models.Opportunity, bool) {
	if !r.PercentageDifference.GreaterThan(cfg.MinPercentageDifference) {
		return models.Opportunity{}, false
	}
	if !r.USDTQuoteVolume.Valid || r.USDTQuoteVolume.Decimal.LessThan(cfg.MinStableQuoteVolume) {
		return models.Opportunity{}, false
	}
	if !r.TMNQuoteVolume.Valid || r.TMNQuoteVolume.Decimal.LessThan(cfg.MinFiatQuoteVolume) {
		return models.Opportunity{}, false
	}

	return models.Opportunity{
		Timestamp:            r.Timestamp,
		Symbol:               r.Symbol,
		USDTPrice:            r.USDTPrice.Decimal,
		BridgedPrice:         r.BridgedPrice,
		TMNPrice:             r.TMNPrice.Decimal,
		PriceDifference:      r.PriceDifference,
		PercentageDifference: r.PercentageDifference,
		USDTQuoteVolume:      r.USDTQuoteVolume.Decimal,
		TMNQuoteVolume:       r.TMNQuoteVolume.Decimal,
	}, true
}

func lastPrice(q *models.PairQuote) (decimal.Decimal, bool) {
	if q == nil || !q.LastPrice.Valid {
		return decimal.Decimal{}, false
	}
	return q.LastPrice.Decimal, true
}
