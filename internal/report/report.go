// Package report renders analysis records for people: a spreadsheet per
// cycle and structured console lines.
package report

import (
	"context"

	"github.com/navid-fn/radar/internal/models"
	"github.com/shopspring/decimal"
)

// Sink persists the full record set of one cycle. A write is all-or-nothing.
type Sink interface {
	Write(ctx context.Context, records []models.AnalysisRecord) error
	Name() string
}

// Highlight is the visual class of a Difference % cell.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightNeutral
	HighlightHighPositive
	HighlightHighNegative
)

func (h Highlight) String() string {
	switch h {
	case HighlightNeutral:
		return "neutral"
	case HighlightHighPositive:
		return "high positive"
	case HighlightHighNegative:
		return "high negative"
	default:
		return "none"
	}
}

// Classify buckets a percentage difference: >= highPositive, <= highNegative,
// or neutral in between. Absent values get no class.
func Classify(value decimal.NullDecimal, highPositive, highNegative decimal.Decimal) Highlight {
	if !value.Valid {
		return HighlightNone
	}
	switch {
	case value.Decimal.GreaterThanOrEqual(highPositive):
		return HighlightHighPositive
	case value.Decimal.LessThanOrEqual(highNegative):
		return HighlightHighNegative
	default:
		return HighlightNeutral
	}
}
