package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rosterguru/rosterguru-data/internal/provider"
	"github.com/rosterguru/rosterguru-data/internal/zscore"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, normalizeName("P.J. Washington Jr."), normalizeName("PJ Washington Jr"))
	assert.Equal(t, normalizeName("De'Aaron Fox"), normalizeName("DeAaron  Fox"))
	assert.Equal(t, normalizeName("Karl-Anthony Towns"), normalizeName("KarlAnthony Towns"))
	assert.NotEqual(t, normalizeName("Jalen Williams"), normalizeName("Jaylin Williams"))
}

func TestUpsertSQLShape(t *testing.T) {
	sql := upsertSQL("per_game_stats", []string{"player_id", "season", "points", "zscore_total"})

	assert.Contains(t, sql, "INSERT INTO per_game_stats (player_id, season, points, zscore_total)")
	assert.Contains(t, sql, "VALUES ($1, $2, $3, $4)")
	assert.Contains(t, sql, "ON CONFLICT (player_id, season)")
	assert.Contains(t, sql, "points = EXCLUDED.points")
	assert.NotContains(t, sql, "player_id = EXCLUDED.player_id")
}

func TestScoreColumnsCoverConfiguredCategories(t *testing.T) {
	cfg := zscore.DefaultConfig()
	columns := make(map[string]string, len(ScoreColumns))
	for _, sc := range ScoreColumns {
		columns[sc.Key] = sc.Column
	}

	for _, cat := range cfg.Categories {
		assert.Contains(t, columns, zscore.ScoreKey(cat), "category %s has no column", cat)
	}
	assert.Equal(t, "zscore_total", columns[zscore.TotalScoreKey])
	assert.Equal(t, "zscore_rebounds", columns[zscore.ScoreKey("total_rebounds")])
	assert.Equal(t, "zscore_fg_pct", columns[zscore.ScoreKey("field_goal_percentage")])
}

func TestBuildRecordsDefaultsPosition(t *testing.T) {
	lines := []provider.SeasonStats{
		{NBAPlayerID: 1, Name: "Known Guard", Team: "BOS", Stats: map[string]float64{"points": 20}},
		{NBAPlayerID: 2, Name: "Unknown Rookie", Team: "UTA", Stats: map[string]float64{"points": 5}},
	}
	records := buildRecords(lines, "2024-25", map[int]string{1: "PG"})

	assert.Equal(t, "PG", records[0].Position)
	assert.Equal(t, defaultPosition, records[1].Position)
	assert.Equal(t, "2024-25", records[1].Season)
}

func TestResultSummary(t *testing.T) {
	var r Result
	r.PlayersUpserted = 3
	r.addStats("per_game_stats", 2)
	r.addStats("total_stats", 1)
	r.AddErrorf("upsert player %d: boom", 7)

	assert.Equal(t, "players=3 per_game_stats=2 total_stats=1 ranks=0 errors=1", r.Summary())
}
