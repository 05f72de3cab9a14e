package scraper

import "strings"

// SymbolRule defines a transformation rule for normalizing exchange-specific symbols.
// Exchanges spell the same asset differently: "btc", " BTC", "USDT_TMN".
type SymbolRule struct {
	// Old is the exchange-specific spelling.
	Old string

	// New is the normalized spelling.
	New string
}

// DefaultSymbolRules maps sources to their normalization rules.
// Rules run after trimming and upper-casing.
var DefaultSymbolRules = map[string][]SymbolRule{
	"wallex": {
		{Old: "_", New: ""}, // Some endpoints separate base and quote with an underscore
		{Old: "-", New: ""},
	},
	"coingecko": {
		{Old: "/", New: ""},
	},
}

// NormalizeSymbol converts a source-specific symbol to the upper-case form
// used as map key by the analyzer.
// Example: ("coingecko", "btc") -> "BTC"
// Example: ("wallex", "usdt_tmn") -> "USDTTMN"
func NormalizeSymbol(source, symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, rule := range DefaultSymbolRules[source] {
		s = strings.ReplaceAll(s, rule.Old, rule.New)
	}
	return s
}
