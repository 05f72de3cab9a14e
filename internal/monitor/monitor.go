// Package monitor runs the periodic fetch, analyze, report and alert cycle.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/navid-fn/radar/internal/alert"
	"github.com/navid-fn/radar/internal/arbitrage"
	"github.com/navid-fn/radar/internal/models"
	"github.com/navid-fn/radar/internal/report"
	"github.com/navid-fn/radar/internal/scraper"
)

// Config holds the loop settings.
type Config struct {
	Arbitrage arbitrage.Config

	// TopN is how many ranked opportunities are logged and notified.
	TopN int

	// Interval is the pause between two cycles.
	Interval time.Duration

	// CycleTimeout bounds the fetches of one cycle. Zero means no bound.
	CycleTimeout time.Duration
}

// CycleResult is what one cycle produced.
type CycleResult struct {
	Records []models.AnalysisRecord

	// Top holds the best ranked opportunities, at most Config.TopN.
	Top []models.Opportunity

	// Err is the analysis error, if any.
	Err error
}

// Monitor owns no per-cycle state; every cycle starts from fresh snapshots.
type Monitor struct {
	cfg       Config
	pairs     scraper.PairSource
	globals   scraper.GlobalStatsSource
	sinks     []report.Sink
	notifiers []alert.Notifier
	console   *report.Console
	logger    *slog.Logger
	now       func() time.Time
}

func New(
	cfg Config,
	pairs scraper.PairSource,
	globals scraper.GlobalStatsSource,
	sinks []report.Sink,
	notifiers []alert.Notifier,
	logger *slog.Logger,
) *Monitor {
	if cfg.TopN < 1 {
		cfg.TopN = 10
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	logger = logger.With("component", "monitor")
	return &Monitor{
		cfg:       cfg,
		pairs:     pairs,
		globals:   globals,
		sinks:     sinks,
		notifiers: notifiers,
		console:   report.NewConsole(logger),
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one cycle right away and then one per interval until ctx is
// cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("Starting monitor",
		"pairs", m.pairs.Name(),
		"globals", m.globalsName(),
		"interval", m.cfg.Interval,
		"sinks", len(m.sinks),
		"notifiers", len(m.notifiers),
	)

	m.RunCycle(ctx, m.now())

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			m.RunCycle(ctx, m.now())
		}
	}
}

// RunCycle performs a single cycle captured at now. Fetch and sink failures
// are logged and never abort the cycle.
func (m *Monitor) RunCycle(ctx context.Context, now time.Time) CycleResult {
	start := time.Now()

	pairs, globals := m.fetch(ctx)

	records, ops, err := arbitrage.Analyze(pairs, globals, now, m.cfg.Arbitrage)
	switch {
	case errors.Is(err, arbitrage.ErrNoReferenceRate):
		m.logger.Warn("Cannot perform analysis without rate",
			"stable", m.cfg.Arbitrage.StableQuote,
			"fiat", m.cfg.Arbitrage.FiatQuote,
		)
	case errors.Is(err, arbitrage.ErrNoPairs):
		m.logger.Warn("No pairs to analyze")
	}

	top := arbitrage.Rank(ops).Top(m.cfg.TopN)
	result := CycleResult{Records: records, Top: top, Err: err}

	m.console.Records(records)
	m.console.Opportunities(top)

	if ctx.Err() != nil {
		m.logger.Info("Cycle abandoned", "error", ctx.Err())
		return result
	}

	if len(records) > 0 {
		m.write(ctx, records)
	}
	if len(top) > 0 {
		m.notify(ctx, top)
	}

	m.logger.Info("Cycle finished",
		"records", len(records),
		"opportunities", len(ops),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result
}

func (m *Monitor) fetch(ctx context.Context) (map[string]*models.PairQuote, map[string]models.GlobalAssetStat) {
	fetchCtx := ctx
	if m.cfg.CycleTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, m.cfg.CycleTimeout)
		defer cancel()
	}

	pairs, err := m.pairs.FetchPairs(fetchCtx)
	if err != nil {
		m.logger.Error("Failed to fetch pairs", "source", m.pairs.Name(), "error", err)
		pairs = nil
	}

	var globals map[string]models.GlobalAssetStat
	if m.globals != nil {
		globals, err = m.globals.FetchGlobalStats(fetchCtx)
		if err != nil {
			m.logger.Error("Failed to fetch global stats", "source", m.globals.Name(), "error", err)
			globals = nil
		}
	}

	return pairs, globals
}

func (m *Monitor) write(ctx context.Context, records []models.AnalysisRecord) {
	for _, sink := range m.sinks {
		if err := sink.Write(ctx, records); err != nil {
			m.logger.Error("Failed to write report", "sink", sink.Name(), "error", err)
		}
	}
}

func (m *Monitor) notify(ctx context.Context, top []models.Opportunity) {
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, top); err != nil {
			m.logger.Error("Failed to send alert", "notifier", n.Name(), "error", err)
		}
	}
}

func (m *Monitor) globalsName() string {
	if m.globals == nil {
		return "none"
	}
	return m.globals.Name()
}
