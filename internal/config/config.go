// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Stat-mode registry — one entry per normalization basis the pipeline
// collects, scores, and stores
// --------------------------------------------------------------------------

// StatMode describes one normalization basis for counting stats.
type StatMode struct {
	ID      string // pipeline identifier, e.g. "per_game"
	Table   string // Postgres table holding this mode's rows
	PerMode string // stats.nba.com PerMode parameter value
}

var StatModes = map[string]StatMode{
	"per_game": {ID: "per_game", Table: PerGameStatsTable, PerMode: "PerGame"},
	"per_36":   {ID: "per_36", Table: Per36StatsTable, PerMode: "Per36"},
	"total":    {ID: "total", Table: TotalStatsTable, PerMode: "Totals"},
}

// StatModeIDs returns the mode identifiers in pipeline order. Per-game
// comes first because its qualification filters gate the other modes.
func StatModeIDs() []string {
	return []string{"per_game", "per_36", "total"}
}

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	PlayersTable      = "players"
	PerGameStatsTable = "per_game_stats"
	Per36StatsTable   = "per_36_stats"
	TotalStatsTable   = "total_stats"
)

// StatTables returns the stat table names in pipeline order.
func StatTables() []string {
	return []string{PerGameStatsTable, Per36StatsTable, TotalStatsTable}
}

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// NBA stats API
	Season            string
	SeasonType        string
	APITimeout        time.Duration
	RequestSpacing    time.Duration
	HistoricalSeasons []string

	// Player qualification filters
	MinGamesPlayed    float64
	MinMinutesPerGame float64

	// CSV import/export
	DataDir string

	// Cache
	CacheEnabled bool

	// Maintenance
	RankRefreshInterval time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults.
func Load() (*Config, error) {
	dbURL := envOr("SUPABASE_DB_URL", envOr("DATABASE_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("SUPABASE_DB_URL or DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		Season:         envOr("NBA_SEASON", "2024-25"),
		SeasonType:     envOr("NBA_SEASON_TYPE", "Regular Season"),
		APITimeout:     time.Duration(envInt("NBA_API_TIMEOUT_SECONDS", 30)) * time.Second,
		RequestSpacing: time.Duration(envInt("NBA_API_DELAY_MS", 500)) * time.Millisecond,
		HistoricalSeasons: envList("HISTORICAL_SEASONS", []string{
			"2024-25", "2023-24", "2022-23", "2021-22", "2020-21",
			"2019-20", "2018-19", "2017-18", "2016-17", "2015-16",
		}),

		MinGamesPlayed:    envFloat("MIN_GAMES_PLAYED", 10),
		MinMinutesPerGame: envFloat("MIN_MINUTES_PER_GAME", 10),

		DataDir: envOr("DATA_DIR", "data"),

		CacheEnabled: envBool("CACHE_ENABLED", true),

		RankRefreshInterval: time.Duration(envInt("RANK_REFRESH_MINUTES", 360)) * time.Minute,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
