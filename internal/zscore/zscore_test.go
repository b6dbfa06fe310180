package zscore

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var positions = []string{"PG", "SG", "SF", "PF", "C"}

// testBatch builds n synthetic players with skill rising monotonically by
// index: the last player leads every counting category and commits the
// fewest turnovers.
func testBatch(n int) []Record {
	records := make([]Record, n)
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		records[i] = Record{
			PlayerID: 1000 + i,
			Name:     fmt.Sprintf("Player %d", i),
			Position: positions[i%len(positions)],
			Season:   "2024-25",
			Stats: map[string]float64{
				"points":                5 + 25*f,
				"total_rebounds":        2 + 10*f,
				"assists":               1 + 9*f,
				"steals":                3 * f,
				"blocks":                3 * f,
				"turnovers":             5 - 4*f,
				"field_goal_percentage": 0.40 + 0.15*f,
				"field_goals_attempted": 4 + 14*f,
				"free_throw_percentage": 0.70 + 0.20*f,
				"free_throws_attempted": 1 + 9*f,
				"three_pointers_made":   4 * f,
			},
		}
	}
	return records
}

// uniformBatch builds n players that are identical in every category
// except those overridden per index by vary.
func uniformBatch(n int, vary func(i int, stats map[string]float64)) []Record {
	records := make([]Record, n)
	for i := 0; i < n; i++ {
		stats := map[string]float64{
			"points":                15,
			"total_rebounds":        6,
			"assists":               4,
			"steals":                1,
			"blocks":                1,
			"turnovers":             2,
			"field_goal_percentage": 0.46,
			"field_goals_attempted": 10,
			"free_throw_percentage": 0.80,
			"free_throws_attempted": 4,
			"three_pointers_made":   1.5,
		}
		if vary != nil {
			vary(i, stats)
		}
		records[i] = Record{
			PlayerID: 2000 + i,
			Name:     fmt.Sprintf("Player %d", i),
			Position: positions[i%len(positions)],
			Season:   "2024-25",
			Stats:    stats,
		}
	}
	return records
}

func TestSmallBatchPassThrough(t *testing.T) {
	calc := New(DefaultConfig(), nil)
	records := testBatch(5)

	scored := calc.CalculateZScores(records)

	require.Len(t, scored, 5)
	for i := range scored {
		assert.Nil(t, scored[i].Scores, "no zscore fields should be added below the minimum sample size")
		assert.Equal(t, records[i].PlayerID, scored[i].PlayerID)
	}
}

func TestScoredBatchShape(t *testing.T) {
	cfg := DefaultConfig()
	calc := New(cfg, nil)
	records := testBatch(25)

	scored := calc.CalculateZScores(records)

	require.Len(t, scored, len(records), "scoring must not drop players")
	for i := range scored {
		require.NotNil(t, scored[i].Scores)
		for _, cat := range cfg.Categories {
			z, ok := scored[i].Scores[ScoreKey(cat)]
			require.True(t, ok, "missing score for %s", cat)
			assert.False(t, math.IsNaN(z) || math.IsInf(z, 0), "%s must be finite", cat)
		}
		total := scored[i].Score(TotalScoreKey)
		assert.False(t, math.IsNaN(total) || math.IsInf(total, 0))
	}
	// Input records stay unscored.
	assert.Nil(t, records[0].Scores)
}

func TestZeroVarianceCategoryScoresZero(t *testing.T) {
	calc := New(DefaultConfig(), nil)
	records := testBatch(25)
	for i := range records {
		records[i].Stats["steals"] = 2.0
	}

	scored := calc.CalculateZScores(records)

	for i := range scored {
		z := scored[i].Score(ScoreKey("steals"))
		assert.Equal(t, 0.0, z)
		assert.False(t, math.IsNaN(scored[i].Score(TotalScoreKey)))
	}
}

func TestMissingValuesScoredAsZero(t *testing.T) {
	calc := New(DefaultConfig(), nil)
	records := testBatch(25)
	delete(records[3].Stats, "points")

	scored := calc.CalculateZScores(records)

	// The player is scored as if they recorded 0 points — below everyone
	// else in the batch, not excluded.
	z3 := scored[3].Score(ScoreKey("points"))
	assert.False(t, math.IsNaN(z3))
	for i := range scored {
		if i == 3 {
			continue
		}
		assert.Less(t, z3, scored[i].Score(ScoreKey("points")))
	}
}

func TestTurnoverInversion(t *testing.T) {
	calc := New(DefaultConfig(), nil)
	// Identical players except turnovers rise with index.
	records := uniformBatch(25, func(i int, stats map[string]float64) {
		stats["turnovers"] = 1 + 0.15*float64(i)
	})

	scored := calc.CalculateZScores(records)

	key := ScoreKey("turnovers")
	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Score(key), scored[i].Score(key),
			"fewer turnovers must never score worse")
	}
	assert.Greater(t, scored[0].Score(key), scored[len(scored)-1].Score(key))
}

func TestRateStatImpactWeighting(t *testing.T) {
	calc := New(DefaultConfig(), nil)
	// League of 24 average shooters plus two probes with the same
	// percentage but different volume, and one invalid zero-attempt player.
	records := uniformBatch(27, func(i int, stats map[string]float64) {
		stats["field_goal_percentage"] = 0.45
		stats["field_goals_attempted"] = 10
		switch i {
		case 25:
			stats["field_goal_percentage"] = 0.50
			stats["field_goals_attempted"] = 3
		case 26:
			stats["field_goal_percentage"] = 0.50
			stats["field_goals_attempted"] = 15
		case 0:
			stats["field_goal_percentage"] = 0
			stats["field_goals_attempted"] = 0
		}
	})

	scored := calc.CalculateZScores(records)

	key := ScoreKey("field_goal_percentage")
	lowVolume := scored[25].Score(key)
	highVolume := scored[26].Score(key)

	assert.Greater(t, lowVolume, 0.0)
	assert.Greater(t, highVolume, lowVolume,
		"same percentage on more attempts must score higher")
	assert.Greater(t, math.Abs(highVolume), math.Abs(lowVolume))
	assert.Equal(t, 0.0, scored[0].Score(key), "zero-attempt player is invalid and scores 0")
}

func TestCompositeWeightSensitivity(t *testing.T) {
	// Only points vary across the batch, so zscore_total differences come
	// entirely from the points column.
	build := func() []Record {
		return uniformBatch(25, func(i int, stats map[string]float64) {
			stats["points"] = 10 + 0.8*float64(i)
		})
	}

	baseCfg := DefaultConfig()
	boosted := DefaultConfig()
	boosted.Weights["points"] = 2.0

	base := New(baseCfg, nil).CalculateZScores(build())
	heavy := New(boosted, nil).CalculateZScores(build())

	baseSpread := base[24].Score(TotalScoreKey) - base[0].Score(TotalScoreKey)
	heavySpread := heavy[24].Score(TotalScoreKey) - heavy[0].Score(TotalScoreKey)

	assert.Greater(t, baseSpread, 0.0)
	assert.Greater(t, heavySpread, baseSpread,
		"a heavier points weight must widen the composite gap")
}

func TestZeroTotalWeightComposite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = map[string]float64{}
	calc := New(cfg, nil)

	scored := calc.CalculateZScores(testBatch(25))

	for i := range scored {
		assert.Equal(t, 0.0, scored[i].Score(TotalScoreKey))
	}
}

func TestEndToEndRanking(t *testing.T) {
	calc := New(DefaultConfig(), nil)
	records := testBatch(25)

	scored := calc.CalculateZScores(records)
	ranked := calc.OverallRankings(scored)

	require.Len(t, ranked, 25)
	// The player leading every category with the fewest turnovers is #1.
	assert.Equal(t, 1024, ranked[0].PlayerID)
	assert.Equal(t, 1, ranked[0].Ranks["overall_rank"])
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score(TotalScoreKey), ranked[i].Score(TotalScoreKey),
			"composite must be non-increasing down the ranked list")
	}
}
