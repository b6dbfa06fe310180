// Command ingest is the RosterGuru data ingestion CLI.
//
// Usage:
//
//	rosterguru-ingest collect --season 2024-25
//	rosterguru-ingest collect --all-seasons
//	rosterguru-ingest zscores --season 2024-25 --mode per_game
//	rosterguru-ingest ranks --season 2024-25 --mode per_game --dry-run
//	rosterguru-ingest export --season 2024-25 --mode per_game
//	rosterguru-ingest import --file data/per_game_2024-25.csv --mode per_game
//	rosterguru-ingest summary --season 2024-25 --mode per_game
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rosterguru/rosterguru-data/internal/config"
	"github.com/rosterguru/rosterguru-data/internal/csvio"
	"github.com/rosterguru/rosterguru-data/internal/db"
	"github.com/rosterguru/rosterguru-data/internal/provider/espn"
	"github.com/rosterguru/rosterguru-data/internal/provider/nbastats"
	"github.com/rosterguru/rosterguru-data/internal/seed"
	"github.com/rosterguru/rosterguru-data/internal/zscore"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "rosterguru-ingest",
		Short: "RosterGuru data ingestion CLI",
	}

	root.AddCommand(collectCmd())
	root.AddCommand(zscoresCmd())
	root.AddCommand(ranksCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(importCmd())
	root.AddCommand(summaryCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// collect command
// --------------------------------------------------------------------------

func collectCmd() *cobra.Command {
	var (
		season     string
		allSeasons bool
	)
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect, score, and store season stats from the NBA and ESPN APIs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				nba := nbastats.NewClient(cfg.APITimeout, cfg.RequestSpacing, logger)
				rosters := espn.NewClient(cfg.APITimeout, logger)
				calc := zscore.New(zscore.DefaultConfig(), logger)

				seasons := []string{cfg.Season}
				if season != "" {
					seasons = []string{season}
				}
				if allSeasons {
					seasons = cfg.HistoricalSeasons
				}

				var total seed.Result
				start := time.Now()
				for _, s := range seasons {
					result := seed.SeedSeason(ctx, pool.Pool, nba, rosters, calc, cfg, s, logger)
					total.Add(result)
					if ctx.Err() != nil {
						break
					}
				}
				logger.Info("Collect finished",
					"seasons", len(seasons),
					"duration", time.Since(start).Round(time.Second),
					"summary", total.Summary())
				logErrors(total.Errors)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season label, e.g. 2024-25 (default: configured season)")
	cmd.Flags().BoolVar(&allSeasons, "all-seasons", false, "Collect every configured historical season")
	return cmd
}

// --------------------------------------------------------------------------
// zscores command
// --------------------------------------------------------------------------

func zscoresCmd() *cobra.Command {
	var season, mode string
	cmd := &cobra.Command{
		Use:   "zscores",
		Short: "Rescore a stored season from its raw stats, without refetching",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				table, err := resolveTable(mode)
				if err != nil {
					return err
				}
				if season == "" {
					season = cfg.Season
				}
				calc := zscore.New(zscore.DefaultConfig(), logger)

				start := time.Now()
				result := seed.RescoreSeason(ctx, pool.Pool, calc, table, season, logger)
				logger.Info("Rescore finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				logErrors(result.Errors)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season label (default: configured season)")
	cmd.Flags().StringVar(&mode, "mode", "per_game", "Stat mode (per_game, per_36, total)")
	return cmd
}

// --------------------------------------------------------------------------
// ranks command
// --------------------------------------------------------------------------

func ranksCmd() *cobra.Command {
	var (
		season, mode string
		dryRun       bool
	)
	cmd := &cobra.Command{
		Use:   "ranks",
		Short: "Reconcile overall_rank with stored composite scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				table, err := resolveTable(mode)
				if err != nil {
					return err
				}
				if season == "" {
					season = cfg.Season
				}

				updated, total, err := seed.UpdateRanks(ctx, pool.Pool, table, season, dryRun)
				if err != nil {
					return err
				}
				logger.Info("Ranks finished",
					"table", table, "season", season,
					"changed", updated, "ranked", total, "dry_run", dryRun)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season label (default: configured season)")
	cmd.Flags().StringVar(&mode, "mode", "per_game", "Stat mode (per_game, per_36, total)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	return cmd
}

// --------------------------------------------------------------------------
// export / import commands
// --------------------------------------------------------------------------

func exportCmd() *cobra.Command {
	var season, mode, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored season to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				table, err := resolveTable(mode)
				if err != nil {
					return err
				}
				if season == "" {
					season = cfg.Season
				}
				if out == "" {
					out = filepath.Join(cfg.DataDir, fmt.Sprintf("%s_%s.csv", mode, season))
				}

				records, err := seed.FetchSeasonStats(ctx, pool.Pool, table, season)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					return fmt.Errorf("no rows in %s for season %s", table, season)
				}

				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()

				if err := csvio.Export(f, records); err != nil {
					return err
				}
				logger.Info("Export finished", "file", out, "rows", len(records))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season label (default: configured season)")
	cmd.Flags().StringVar(&mode, "mode", "per_game", "Stat mode (per_game, per_36, total)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: <data-dir>/<mode>_<season>.csv)")
	return cmd
}

func importCmd() *cobra.Command {
	var file, mode string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV backfill into a stat table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				table, err := resolveTable(mode)
				if err != nil {
					return err
				}

				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open %s: %w", file, err)
				}
				defer f.Close()

				records, err := csvio.Import(f)
				if err != nil {
					return fmt.Errorf("parse %s: %w", file, err)
				}

				var result seed.Result
				count := 0
				for _, rec := range records {
					if err := seed.UpsertSeasonStats(ctx, pool.Pool, table, rec); err != nil {
						result.AddErrorf("upsert player %d season %s: %v", rec.PlayerID, rec.Season, err)
					} else {
						count++
					}
				}
				logger.Info("Import finished", "file", file, "table", table,
					"rows", count, "errors", len(result.Errors))
				logErrors(result.Errors)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file to import")
	cmd.Flags().StringVar(&mode, "mode", "per_game", "Stat mode (per_game, per_36, total)")
	return cmd
}

// --------------------------------------------------------------------------
// summary command
// --------------------------------------------------------------------------

func summaryCmd() *cobra.Command {
	var season, mode string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print score distribution statistics for a stored season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				table, err := resolveTable(mode)
				if err != nil {
					return err
				}
				if season == "" {
					season = cfg.Season
				}

				records, err := seed.FetchSeasonStats(ctx, pool.Pool, table, season)
				if err != nil {
					return err
				}
				calc := zscore.New(zscore.DefaultConfig(), logger)
				s := calc.Summarize(records)

				fmt.Printf("%s %s: %d players\n", mode, season, s.TotalPlayers)
				if s.Composite != nil {
					fmt.Printf("composite: mean=%.3f std=%.3f min=%.3f max=%.3f top10=%.3f\n",
						s.Composite.Mean, s.Composite.StdDev,
						s.Composite.Min, s.Composite.Max, s.Composite.Top10Threshold)
				}
				for cat, cs := range s.Categories {
					fmt.Printf("%-28s mean=%+.3f std=%.3f min=%+.3f max=%+.3f median=%+.3f\n",
						cat, cs.Mean, cs.StdDev, cs.Min, cs.Max, cs.Median)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season label (default: configured season)")
	cmd.Flags().StringVar(&mode, "mode", "per_game", "Stat mode (per_game, per_36, total)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runWithDB handles config loading, DB connection, and context cancellation.
func runWithDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

func resolveTable(mode string) (string, error) {
	m, ok := config.StatModes[mode]
	if !ok {
		return "", fmt.Errorf("unknown mode %q (want per_game, per_36, or total)", mode)
	}
	return m.Table, nil
}

func logErrors(errs []string) {
	for _, e := range errs {
		logger.Error("ingest error", "error", e)
	}
}
