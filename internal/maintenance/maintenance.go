// Package maintenance runs periodic background tasks as Go tickers.
// Replaces pg_cron — the API server is already a persistent process, so
// scheduled work is driven from Go.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rosterguru/rosterguru-data/internal/cache"
	"github.com/rosterguru/rosterguru-data/internal/config"
	"github.com/rosterguru/rosterguru-data/internal/seed"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	RankRefreshInterval time.Duration // Recompute overall_rank from stored scores
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		RankRefreshInterval: 6 * time.Hour,
	}
}

// Start launches the configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, pool *pgxpool.Pool, appCache *cache.Cache, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started", "rank_refresh", cfg.RankRefreshInterval)

	tickers := make([]*time.Ticker, 0, 1)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Rank refresh: reconcile overall_rank with stored composite scores.
	// Ingest runs can land between API restarts, so ranks are treated as a
	// derived column that this sweep keeps consistent.
	if cfg.RankRefreshInterval > 0 {
		t := time.NewTicker(cfg.RankRefreshInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { refreshRanks(ctx, pool, appCache, logger) })
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

// refreshRanks sweeps every stat table and stored season, rewriting any
// overall_rank that disagrees with the composite score ordering. Tables
// that changed get their cached rankings invalidated.
func refreshRanks(ctx context.Context, pool *pgxpool.Pool, appCache *cache.Cache, logger *slog.Logger) {
	for _, table := range config.StatTables() {
		seasons, err := storedSeasons(ctx, pool, table)
		if err != nil {
			logger.Warn("Rank refresh: failed to list seasons", "table", table, "error", err)
			continue
		}

		changed := 0
		for _, season := range seasons {
			updated, _, err := seed.UpdateRanks(ctx, pool, table, season, false)
			if err != nil {
				logger.Warn("Rank refresh: failed", "table", table, "season", season, "error", err)
				continue
			}
			changed += updated
		}

		if changed > 0 {
			dropped := appCache.InvalidatePrefix("rankings:" + table + ":")
			logger.Info("Rank refresh: ranks updated",
				"table", table, "rows", changed, "cache_dropped", dropped)
		}
	}
}

func storedSeasons(ctx context.Context, pool *pgxpool.Pool, table string) ([]string, error) {
	rows, err := pool.Query(ctx, fmt.Sprintf("SELECT DISTINCT season FROM %s ORDER BY season DESC", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seasons = append(seasons, s)
	}
	return seasons, rows.Err()
}
