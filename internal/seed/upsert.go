package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rosterguru/rosterguru-data/internal/config"
	"github.com/rosterguru/rosterguru-data/internal/provider"
	"github.com/rosterguru/rosterguru-data/internal/zscore"
)

// ScoreColumns maps the engine's score keys to their database columns.
// Legacy column names predate the canonical category names, hence the
// renames for rebounds and the shooting percentages.
var ScoreColumns = []struct {
	Key    string
	Column string
}{
	{zscore.ScoreKey("points"), "zscore_points"},
	{zscore.ScoreKey("total_rebounds"), "zscore_rebounds"},
	{zscore.ScoreKey("assists"), "zscore_assists"},
	{zscore.ScoreKey("steals"), "zscore_steals"},
	{zscore.ScoreKey("blocks"), "zscore_blocks"},
	{zscore.ScoreKey("turnovers"), "zscore_turnovers"},
	{zscore.ScoreKey("field_goal_percentage"), "zscore_fg_pct"},
	{zscore.ScoreKey("free_throw_percentage"), "zscore_ft_pct"},
	{zscore.ScoreKey("three_pointers_made"), "zscore_three_pm"},
	{zscore.TotalScoreKey, "zscore_total"},
}

// UpsertPlayer writes a canonical player profile to the players table.
// COALESCE keeps previously known fields when a source omits them.
func UpsertPlayer(ctx context.Context, pool *pgxpool.Pool, p provider.PlayerProfile) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO `+config.PlayersTable+` (
			nba_player_id, espn_player_id, player_name, first_name,
			last_name, team_abbreviation, positions, is_active, injury_status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (nba_player_id) DO UPDATE SET
			espn_player_id = COALESCE(EXCLUDED.espn_player_id, `+config.PlayersTable+`.espn_player_id),
			player_name = EXCLUDED.player_name,
			first_name = COALESCE(EXCLUDED.first_name, `+config.PlayersTable+`.first_name),
			last_name = COALESCE(EXCLUDED.last_name, `+config.PlayersTable+`.last_name),
			team_abbreviation = COALESCE(EXCLUDED.team_abbreviation, `+config.PlayersTable+`.team_abbreviation),
			positions = COALESCE(EXCLUDED.positions, `+config.PlayersTable+`.positions),
			is_active = EXCLUDED.is_active,
			injury_status = COALESCE(EXCLUDED.injury_status, `+config.PlayersTable+`.injury_status),
			updated_at = NOW()`,
		p.NBAPlayerID, nilEmpty(p.ESPNPlayerID), p.Name, nilEmpty(p.FirstName),
		nilEmpty(p.LastName), nilEmpty(p.Team), nilSlice(p.Positions),
		p.IsActive, nilEmpty(p.InjuryStatus),
	)
	return err
}

// UpsertSeasonStats writes one scored season row to a stat table. Stats
// the source never reported persist as NULL rather than 0.
func UpsertSeasonStats(ctx context.Context, pool *pgxpool.Pool, table string, rec zscore.Record) error {
	cols := []string{"player_id", "season"}
	args := []interface{}{rec.PlayerID, rec.Season}

	for _, field := range provider.StatFields {
		cols = append(cols, field)
		args = append(args, nullableVal(rec.Stats, field))
	}
	for _, sc := range ScoreColumns {
		cols = append(cols, sc.Column)
		args = append(args, nullableVal(rec.Scores, sc.Key))
	}
	cols = append(cols, "overall_rank")
	args = append(args, nullableRank(rec.Ranks, "overall_rank"))

	_, err := pool.Exec(ctx, upsertSQL(table, cols), args...)
	return err
}

// UpdateZScores rewrites only the score columns of an existing row, used
// when rescoring a season without refetching raw stats.
func UpdateZScores(ctx context.Context, pool *pgxpool.Pool, table string, rec zscore.Record) error {
	var sets []string
	var args []interface{}
	for _, sc := range ScoreColumns {
		args = append(args, nullableVal(rec.Scores, sc.Key))
		sets = append(sets, fmt.Sprintf("%s = $%d", sc.Column, len(args)))
	}
	args = append(args, rec.PlayerID, rec.Season)

	sql := fmt.Sprintf("UPDATE %s SET %s, updated_at = NOW() WHERE player_id = $%d AND season = $%d",
		table, strings.Join(sets, ", "), len(args)-1, len(args))
	_, err := pool.Exec(ctx, sql, args...)
	return err
}

// UpdateRanks recomputes overall_rank for one season of a stat table from
// the stored composite scores, writing only the rows whose rank changed.
// With dryRun set it reports what would change without writing.
func UpdateRanks(ctx context.Context, pool *pgxpool.Pool, table, season string, dryRun bool) (updated, total int, err error) {
	rows, err := pool.Query(ctx, fmt.Sprintf(
		`SELECT player_id, overall_rank FROM %s
		 WHERE season = $1 AND zscore_total IS NOT NULL
		 ORDER BY zscore_total DESC, player_id`, table), season)
	if err != nil {
		return 0, 0, fmt.Errorf("query %s ranks: %w", table, err)
	}

	type rankedRow struct {
		playerID int
		rank     *int
	}
	var ranked []rankedRow
	for rows.Next() {
		var r rankedRow
		if err := rows.Scan(&r.playerID, &r.rank); err != nil {
			rows.Close()
			return 0, 0, fmt.Errorf("scan %s rank row: %w", table, err)
		}
		ranked = append(ranked, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, 0, fmt.Errorf("iterate %s rank rows: %w", table, err)
	}

	for i, r := range ranked {
		want := i + 1
		if r.rank != nil && *r.rank == want {
			continue
		}
		updated++
		if dryRun {
			continue
		}
		_, err := pool.Exec(ctx, fmt.Sprintf(
			"UPDATE %s SET overall_rank = $1, updated_at = NOW() WHERE player_id = $2 AND season = $3",
			table), want, r.playerID, season)
		if err != nil {
			return updated, len(ranked), fmt.Errorf("update rank for player %d: %w", r.playerID, err)
		}
	}
	return updated, len(ranked), nil
}

// FetchSeasonStats reads one season of a stat table back into engine
// records, joining player identity from the players table. NULL stat
// columns stay absent from the Stats map.
func FetchSeasonStats(ctx context.Context, pool *pgxpool.Pool, table, season string) ([]zscore.Record, error) {
	cols := make([]string, 0, len(provider.StatFields)+len(ScoreColumns))
	for _, f := range provider.StatFields {
		cols = append(cols, "t."+f)
	}
	for _, sc := range ScoreColumns {
		cols = append(cols, "t."+sc.Column)
	}

	sql := fmt.Sprintf(
		`SELECT t.player_id, p.player_name, p.team_abbreviation, p.positions, t.overall_rank, %s
		 FROM %s t JOIN %s p ON p.nba_player_id = t.player_id
		 WHERE t.season = $1 ORDER BY t.player_id`,
		strings.Join(cols, ", "), table, config.PlayersTable)

	rows, err := pool.Query(ctx, sql, season)
	if err != nil {
		return nil, fmt.Errorf("query %s season %s: %w", table, season, err)
	}
	defer rows.Close()

	var records []zscore.Record
	for rows.Next() {
		var (
			playerID  int
			name      string
			team      *string
			positions []string
			rank      *int
		)
		statPtrs := make([]*float64, len(provider.StatFields))
		scorePtrs := make([]*float64, len(ScoreColumns))

		dest := []interface{}{&playerID, &name, &team, &positions, &rank}
		for i := range statPtrs {
			dest = append(dest, &statPtrs[i])
		}
		for i := range scorePtrs {
			dest = append(dest, &scorePtrs[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}

		rec := zscore.Record{
			PlayerID: playerID,
			Name:     name,
			Season:   season,
			Stats:    make(map[string]float64),
		}
		if team != nil {
			rec.Team = *team
		}
		if len(positions) > 0 {
			rec.Position = positions[0]
		}
		for i, p := range statPtrs {
			if p != nil {
				rec.Stats[provider.StatFields[i]] = *p
			}
		}
		for i, p := range scorePtrs {
			if p != nil {
				if rec.Scores == nil {
					rec.Scores = make(map[string]float64)
				}
				rec.Scores[ScoreColumns[i].Key] = *p
			}
		}
		if rank != nil {
			rec.Ranks = map[string]int{"overall_rank": *rank}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", table, err)
	}
	return records, nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func upsertSQL(table string, cols []string) string {
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	sets := make([]string, 0, len(cols)-2)
	for _, col := range cols[2:] { // skip the conflict key columns
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (player_id, season) DO UPDATE SET %s, updated_at = NOW()",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(sets, ", "))
}

// nilEmpty returns nil for empty strings (maps to SQL NULL).
func nilEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nilSlice returns nil for empty slices so COALESCE can keep the stored
// value.
func nilSlice(s []string) interface{} {
	if len(s) == 0 {
		return nil
	}
	return s
}

// nullableVal returns the map value or nil when the key is absent.
func nullableVal(m map[string]float64, key string) interface{} {
	if m == nil {
		return nil
	}
	if v, ok := m[key]; ok {
		return v
	}
	return nil
}

func nullableRank(m map[string]int, key string) interface{} {
	if m == nil {
		return nil
	}
	if v, ok := m[key]; ok {
		return v
	}
	return nil
}
