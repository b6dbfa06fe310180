package seed

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rosterguru/rosterguru-data/internal/config"
	"github.com/rosterguru/rosterguru-data/internal/provider"
	"github.com/rosterguru/rosterguru-data/internal/provider/espn"
	"github.com/rosterguru/rosterguru-data/internal/provider/nbastats"
	"github.com/rosterguru/rosterguru-data/internal/zscore"
)

// defaultPosition is assigned when neither source reports a position.
const defaultPosition = "F"

// SeedSeason runs the full ingest flow for one season: players with
// positions, then every stat mode collected, scored, ranked, and upserted.
// The per-game qualification filters gate the other modes so all three
// tables score the same player population.
func SeedSeason(ctx context.Context, pool *pgxpool.Pool, nba *nbastats.Client, rosters *espn.Client, calc *zscore.Calculator, cfg *config.Config, season string, logger *slog.Logger) Result {
	var result Result

	// 1. Player identities. NBA is the identity source; ESPN contributes
	// positions and injury status, merged by normalized name.
	logger.Info("Seeding players...", "season", season)
	profiles, err := nba.Players(ctx, season)
	if err != nil {
		result.AddErrorf("fetch players: %v", err)
		return result
	}

	espnByName := make(map[string]provider.PlayerProfile)
	espnPlayers, err := rosters.PlayersWithPositions(ctx)
	if err != nil {
		// Positions degrade to the default; stats still load.
		logger.Warn("ESPN rosters unavailable, positions default", "error", err)
		result.AddErrorf("fetch ESPN rosters: %v", err)
	}
	for _, p := range espnPlayers {
		espnByName[normalizeName(p.Name)] = p
	}

	positionOf := make(map[int]string, len(profiles))
	for _, p := range profiles {
		if e, ok := espnByName[normalizeName(p.Name)]; ok {
			p.ESPNPlayerID = e.ESPNPlayerID
			p.FirstName = e.FirstName
			p.LastName = e.LastName
			p.Positions = e.Positions
			p.InjuryStatus = e.InjuryStatus
		}
		if len(p.Positions) == 0 {
			p.Positions = []string{defaultPosition}
		}
		positionOf[p.NBAPlayerID] = p.Positions[0]

		if err := UpsertPlayer(ctx, pool, p); err != nil {
			result.AddErrorf("upsert player %d: %v", p.NBAPlayerID, err)
		} else {
			result.PlayersUpserted++
		}
	}
	logger.Info("Players done", "count", result.PlayersUpserted)

	// 2. Per-game stats carry the qualification filters and the advanced
	// measures. The qualified set gates per-36 and totals.
	filters := &nbastats.Filters{
		MinGamesPlayed:    cfg.MinGamesPlayed,
		MinMinutesPerGame: cfg.MinMinutesPerGame,
	}
	perGame, err := nba.SeasonStats(ctx, season, nbastats.PerModeGame, cfg.SeasonType, filters)
	if err != nil {
		result.AddErrorf("fetch per-game stats: %v", err)
		return result
	}

	advanced, err := nba.AdvancedStats(ctx, season, nbastats.PerModeGame, cfg.SeasonType)
	if err != nil {
		result.AddErrorf("fetch advanced stats: %v", err)
	}
	for i := range perGame {
		if adv, ok := advanced[perGame[i].NBAPlayerID]; ok {
			perGame[i].Stats["true_shooting_percentage"] = adv.TrueShootingPct
			perGame[i].Stats["usage_percentage"] = adv.UsagePct
		}
	}

	qualified := make(map[int]bool, len(perGame))
	for _, s := range perGame {
		qualified[s.NBAPlayerID] = true
	}

	// 3. Score and store each mode.
	for _, modeID := range config.StatModeIDs() {
		mode := config.StatModes[modeID]

		var lines []provider.SeasonStats
		if modeID == "per_game" {
			lines = perGame
		} else {
			all, err := nba.SeasonStats(ctx, season, mode.PerMode, cfg.SeasonType, nil)
			if err != nil {
				result.AddErrorf("fetch %s stats: %v", modeID, err)
				continue
			}
			for _, s := range all {
				if qualified[s.NBAPlayerID] {
					lines = append(lines, s)
				}
			}
		}

		records := buildRecords(lines, season, positionOf)
		scored := ScoreRecords(calc, records)

		count := 0
		for _, rec := range scored {
			if err := UpsertSeasonStats(ctx, pool, mode.Table, rec); err != nil {
				result.AddErrorf("upsert %s player %d: %v", mode.Table, rec.PlayerID, err)
			} else {
				count++
			}
		}
		result.addStats(mode.Table, count)
		logger.Info("Stat mode done", "mode", modeID, "season", season, "rows", count)
	}

	logger.Info("Season seed complete", "season", season, "summary", result.Summary())
	return result
}

// RescoreSeason recomputes scores and ranks for one stored mode without
// touching the raw stat columns.
func RescoreSeason(ctx context.Context, pool *pgxpool.Pool, calc *zscore.Calculator, table, season string, logger *slog.Logger) Result {
	var result Result

	records, err := FetchSeasonStats(ctx, pool, table, season)
	if err != nil {
		result.AddErrorf("fetch %s season %s: %v", table, season, err)
		return result
	}
	if len(records) == 0 {
		result.AddErrorf("no rows in %s for season %s", table, season)
		return result
	}

	scored := ScoreRecords(calc, records)
	count := 0
	for _, rec := range scored {
		if err := UpdateZScores(ctx, pool, table, rec); err != nil {
			result.AddErrorf("update scores %s player %d: %v", table, rec.PlayerID, err)
		} else {
			count++
		}
	}
	result.addStats(table, count)

	updated, total, err := UpdateRanks(ctx, pool, table, season, false)
	if err != nil {
		result.AddErrorf("update ranks %s: %v", table, err)
	}
	result.RanksUpdated = updated

	logger.Info("Rescore complete", "table", table, "season", season,
		"scored", count, "ranks_updated", updated, "ranked", total)
	return result
}

// ScoreRecords runs the full scoring chain: z-scores, overall rankings,
// and percentiles.
func ScoreRecords(calc *zscore.Calculator, records []zscore.Record) []zscore.Record {
	scored := calc.CalculateZScores(records)
	scored = calc.OverallRankings(scored)
	return calc.CalculatePercentiles(scored)
}

func buildRecords(lines []provider.SeasonStats, season string, positionOf map[int]string) []zscore.Record {
	records := make([]zscore.Record, 0, len(lines))
	for _, s := range lines {
		pos := positionOf[s.NBAPlayerID]
		if pos == "" {
			pos = defaultPosition
		}
		records = append(records, zscore.Record{
			PlayerID: s.NBAPlayerID,
			Name:     s.Name,
			Team:     s.Team,
			Position: pos,
			Season:   season,
			Stats:    s.Stats,
		})
	}
	return records
}

// normalizeName folds case and punctuation so the NBA and ESPN spellings
// of the same player collide.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, cut := range []string{".", "'", "-"} {
		name = strings.ReplaceAll(name, cut, "")
	}
	return strings.Join(strings.Fields(name), " ")
}
