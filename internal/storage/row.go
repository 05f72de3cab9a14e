package storage

import (
	"time"

	"github.com/navid-fn/radar/internal/models"
	"github.com/navid-fn/radar/internal/numeric"
	"github.com/shopspring/decimal"
)

// recordRow is the column layout of arbitrage_record. Optional values map
// to Nullable(Float64) columns.
type recordRow struct {
	CapturedAt time.Time
	Symbol     string

	USDTPrice       *float64
	USDTBid         *float64
	USDTAsk         *float64
	USDTVolume      *float64
	USDTQuoteVolume *float64

	TMNPrice       *float64
	TMNBid         *float64
	TMNAsk         *float64
	TMNVolume      *float64
	TMNQuoteVolume *float64

	BridgedPrice         float64
	PriceDifference      float64
	PercentageDifference float64

	GlobalPrice            *float64
	GlobalVolume24h        *float64
	GlobalMarketCap        *float64
	GlobalPercentChange24h *float64
}

func toRow(r models.AnalysisRecord) recordRow {
	return recordRow{
		CapturedAt:             r.Timestamp,
		Symbol:                 r.Symbol,
		USDTPrice:              numeric.ToFloat(r.USDTPrice),
		USDTBid:                numeric.ToFloat(r.USDTBid),
		USDTAsk:                numeric.ToFloat(r.USDTAsk),
		USDTVolume:             numeric.ToFloat(r.USDTVolume),
		USDTQuoteVolume:        numeric.ToFloat(r.USDTQuoteVolume),
		TMNPrice:               numeric.ToFloat(r.TMNPrice),
		TMNBid:                 numeric.ToFloat(r.TMNBid),
		TMNAsk:                 numeric.ToFloat(r.TMNAsk),
		TMNVolume:              numeric.ToFloat(r.TMNVolume),
		TMNQuoteVolume:         numeric.ToFloat(r.TMNQuoteVolume),
		BridgedPrice:           r.BridgedPrice.InexactFloat64(),
		PriceDifference:        r.PriceDifference.InexactFloat64(),
		PercentageDifference:   r.PercentageDifference.InexactFloat64(),
		GlobalPrice:            numeric.ToFloat(r.GlobalPrice),
		GlobalVolume24h:        numeric.ToFloat(r.GlobalVolume24h),
		GlobalMarketCap:        numeric.ToFloat(r.GlobalMarketCap),
		GlobalPercentChange24h: numeric.ToFloat(r.GlobalPercentChange24h),
	}
}

func (row recordRow) toRecord() models.AnalysisRecord {
	return models.AnalysisRecord{
		Timestamp:              row.CapturedAt,
		Symbol:                 row.Symbol,
		USDTPrice:              numeric.FromFloat(row.USDTPrice),
		USDTBid:                numeric.FromFloat(row.USDTBid),
		USDTAsk:                numeric.FromFloat(row.USDTAsk),
		USDTVolume:             numeric.FromFloat(row.USDTVolume),
		USDTQuoteVolume:        numeric.FromFloat(row.USDTQuoteVolume),
		TMNPrice:               numeric.FromFloat(row.TMNPrice),
		TMNBid:                 numeric.FromFloat(row.TMNBid),
		TMNAsk:                 numeric.FromFloat(row.TMNAsk),
		TMNVolume:              numeric.FromFloat(row.TMNVolume),
		TMNQuoteVolume:         numeric.FromFloat(row.TMNQuoteVolume),
		BridgedPrice:           decimal.NewFromFloat(row.BridgedPrice),
		PriceDifference:        decimal.NewFromFloat(row.PriceDifference),
		PercentageDifference:   decimal.NewFromFloat(row.PercentageDifference),
		GlobalPrice:            numeric.FromFloat(row.GlobalPrice),
		GlobalVolume24h:        numeric.FromFloat(row.GlobalVolume24h),
		GlobalMarketCap:        numeric.FromFloat(row.GlobalMarketCap),
		GlobalPercentChange24h: numeric.FromFloat(row.GlobalPercentChange24h),
	}
}

// values returns the column values in insert order.
func (row recordRow) values() []any {
	return []any{
		row.CapturedAt, row.Symbol,
		row.USDTPrice, row.USDTBid, row.USDTAsk, row.USDTVolume, row.USDTQuoteVolume,
		row.TMNPrice, row.TMNBid, row.TMNAsk, row.TMNVolume, row.TMNQuoteVolume,
		row.BridgedPrice, row.PriceDifference, row.PercentageDifference,
		row.GlobalPrice, row.GlobalVolume24h, row.GlobalMarketCap, row.GlobalPercentChange24h,
	}
}

// targets returns scan destinations in select order.
func (row *recordRow) targets() []any {
	return []any{
		&row.CapturedAt, &row.Symbol,
		&row.USDTPrice, &row.USDTBid, &row.USDTAsk, &row.USDTVolume, &row.USDTQuoteVolume,
		&row.TMNPrice, &row.TMNBid, &row.TMNAsk, &row.TMNVolume, &row.TMNQuoteVolume,
		&row.BridgedPrice, &row.PriceDifference, &row.PercentageDifference,
		&row.GlobalPrice, &row.GlobalVolume24h, &row.GlobalMarketCap, &row.GlobalPercentChange24h,
	}
}
