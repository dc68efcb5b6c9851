// Package maintenance runs periodic background tasks as Go tickers: pruning
// the lookup log and reporting the queries users search for that the
// knowledge base cannot answer.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/hockey-explainer/internal/lookuplog"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	PruneInterval  time.Duration // delete lookup events past Retention
	ReportInterval time.Duration // log the top unresolved queries
	Retention      time.Duration
	ReportLimit    int
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig(retentionDays int) Config {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return Config{
		PruneInterval:  6 * time.Hour,
		ReportInterval: 24 * time.Hour,
		Retention:      time.Duration(retentionDays) * 24 * time.Hour,
		ReportLimit:    10,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, db lookuplog.DB, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"prune", cfg.PruneInterval,
		"report", cfg.ReportInterval,
		"retention", cfg.Retention)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.PruneInterval > 0 {
		t := time.NewTicker(cfg.PruneInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { prune(ctx, db, cfg.Retention, logger) })
	}

	if cfg.ReportInterval > 0 {
		t := time.NewTicker(cfg.ReportInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { reportUnresolved(ctx, db, cfg.ReportInterval, cfg.ReportLimit, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// prune removes lookup events older than the retention window.
func prune(ctx context.Context, db lookuplog.DB, retention time.Duration, logger *slog.Logger) int64 {
	n, err := lookuplog.Prune(ctx, db, time.Now().Add(-retention))
	if err != nil {
		logger.Warn("Prune: failed to delete old lookup events", "error", err)
		return 0
	}
	if n > 0 {
		logger.Info("Prune: deleted old lookup events", "count", n)
	}
	return n
}

// reportUnresolved logs the most frequent not-found queries of the last
// window so curators know what to add.
func reportUnresolved(ctx context.Context, db lookuplog.DB, window time.Duration, limit int, logger *slog.Logger) []lookuplog.QueryCount {
	since := time.Now().Add(-window)
	if counts, err := lookuplog.OutcomeCounts(ctx, db, since); err == nil {
		logger.Info("Lookup outcomes",
			"resolved", counts[lookuplog.Resolved],
			"fallback", counts[lookuplog.Fallback],
			"not_found", counts[lookuplog.NotFound])
	}
	top, err := lookuplog.TopUnresolved(ctx, db, since, limit)
	if err != nil {
		logger.Warn("Report: failed to load unresolved queries", "error", err)
		return nil
	}
	for i, q := range top {
		logger.Info("Unresolved query", "rank", i+1, "domain", q.Domain, "query", q.Query, "count", q.Count)
	}
	return top
}
