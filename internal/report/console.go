package report

import (
	"log/slog"

	"github.com/navid-fn/radar/internal/models"
	"github.com/navid-fn/radar/internal/numeric"
	"github.com/shopspring/decimal"
)

// Console prints cycle results as structured log lines.
type Console struct {
	logger *slog.Logger
}

func NewConsole(logger *slog.Logger) *Console {
	return &Console{logger: logger.With("sink", "console")}
}

// Records logs one line per record and a summary.
func (c *Console) Records(records []models.AnalysisRecord) {
	for _, r := range records {
		c.logger.Info("Record",
			"symbol", r.Symbol,
			"usdt_price", display(r.USDTPrice),
			"bridged_price", r.BridgedPrice.String(),
			"tmn_price", display(r.TMNPrice),
			"difference", r.PriceDifference.String(),
			"difference_pct", r.PercentageDifference.StringFixed(2),
			"global_price", display(r.GlobalPrice),
		)
	}
	c.logger.Info("Analysis complete", "records", len(records))
}

// Opportunities logs the ranked opportunities, best first.
func (c *Console) Opportunities(ops []models.Opportunity) {
	if len(ops) == 0 {
		c.logger.Info("No arbitrage opportunities found")
		return
	}

	c.logger.Info("Arbitrage opportunities found", "count", len(ops))
	for i, op := range ops {
		c.logger.Info("Opportunity",
			"rank", i+1,
			"symbol", op.Symbol,
			"usdt_price", op.USDTPrice.String(),
			"bridged_price", op.BridgedPrice.StringFixed(0),
			"tmn_price", op.TMNPrice.String(),
			"difference_pct", op.PercentageDifference.StringFixed(2),
			"usdt_quote_volume", op.USDTQuoteVolume.StringFixed(0),
			"tmn_quote_volume", op.TMNQuoteVolume.StringFixed(0),
		)
	}
}

func display(n decimal.NullDecimal) string {
	if !n.Valid {
		return numeric.Placeholder
	}
	return n.Decimal.String()
}
