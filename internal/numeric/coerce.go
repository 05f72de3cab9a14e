// Package numeric turns loosely typed exchange fields into optional decimals.
//
// Exchange payloads mix JSON numbers, numeric strings, empty strings, nulls
// and a "-" placeholder for the same field. Every one of them goes through
// Coerce before any arithmetic, so callers only ever see a valid decimal or
// an unavailable one.
package numeric

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Placeholder is what exchanges return for a stat that has no value yet.
const Placeholder = "-"

// Unavailable is the zero NullDecimal.
var Unavailable = decimal.NullDecimal{}

// Coerce converts a raw field value into an optional decimal.
// nil, "", "-" and anything unparseable are reported as unavailable.
func Coerce(raw any) decimal.NullDecimal {
	switch v := raw.(type) {
	case nil:
		return Unavailable
	case string:
		return fromString(v)
	case json.Number:
		return fromString(v.String())
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case int:
		return Valid(decimal.NewFromInt(int64(v)))
	case int64:
		return Valid(decimal.NewFromInt(v))
	case decimal.Decimal:
		return Valid(v)
	case decimal.NullDecimal:
		return v
	default:
		return Unavailable
	}
}

// Valid wraps d as an available value.
func Valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ToFloat returns nil for unavailable values.
func ToFloat(n decimal.NullDecimal) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Decimal.InexactFloat64()
	return &f
}

// FromFloat is the inverse of ToFloat.
func FromFloat(f *float64) decimal.NullDecimal {
	if f == nil {
		return Unavailable
	}
	return fromFloat(*f)
}

func fromString(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" || s == Placeholder {
		return Unavailable
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Unavailable
	}
	return Valid(d)
}

func fromFloat(f float64) decimal.NullDecimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Unavailable
	}
	return Valid(decimal.NewFromFloat(f))
}
