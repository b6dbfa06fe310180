// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rosterguru/rosterguru-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// RankingsStmt returns the prepared statement name serving ranked rows for
// a stat table.
func RankingsStmt(table string) string { return "rankings_" + table }

// PlayerStatsStmt returns the prepared statement name serving one player's
// season rows from a stat table.
func PlayerStatsStmt(table string) string { return "player_stats_" + table }

// SeasonsStmt returns the prepared statement name listing the seasons
// present in a stat table.
func SeasonsStmt(table string) string { return "seasons_" + table }

// registerPreparedStatements registers all statements the API and ingestion
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// API: player profile lookup
		"player_profile": "SELECT json_agg(row_to_json(p)) FROM players p WHERE p.nba_player_id = $1",
	}

	// The three stat tables share a schema, so the API queries are stamped
	// out per table. Postgres returns complete JSON; handlers pass it
	// through untouched.
	for _, table := range config.StatTables() {
		stmts[RankingsStmt(table)] = fmt.Sprintf(
			`SELECT json_agg(row_to_json(s) ORDER BY s.overall_rank)
			 FROM (SELECT t.*, p.player_name, p.positions, p.team_abbreviation
			       FROM %s t JOIN players p ON p.nba_player_id = t.player_id
			       WHERE t.season = $1 AND t.overall_rank IS NOT NULL
			       ORDER BY t.overall_rank LIMIT $2) s`, table)
		stmts[PlayerStatsStmt(table)] = fmt.Sprintf(
			`SELECT json_agg(row_to_json(t) ORDER BY t.season DESC)
			 FROM %s t WHERE t.player_id = $1`, table)
		stmts[SeasonsStmt(table)] = fmt.Sprintf(
			`SELECT json_agg(DISTINCT season ORDER BY season DESC) FROM %s`, table)
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
