package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterguru/rosterguru-data/internal/zscore"
)

func TestExportBlankCellsForMissingValues(t *testing.T) {
	records := []zscore.Record{
		{
			PlayerID: 203999, Name: "Nikola Jokic", Team: "DEN", Position: "C", Season: "2024-25",
			Stats:  map[string]float64{"points": 26.4, "total_rebounds": 12.4},
			Scores: map[string]float64{zscore.TotalScoreKey: 2.1},
			Ranks:  map[string]int{"overall_rank": 1},
		},
		{
			PlayerID: 12345, Name: "Bench Player", Team: "BOS", Position: "SG", Season: "2024-25",
			Stats: map[string]float64{"points": 1.1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Header(), ","), lines[0])

	// The unscored player has blank score and rank cells, not zeros.
	assert.Contains(t, lines[1], "203999,Nikola Jokic")
	assert.Contains(t, lines[2], ",,")
	assert.True(t, strings.HasSuffix(lines[2], ","), "rank and percentile cells stay blank")
}

func TestImportRoundTripsMissingness(t *testing.T) {
	in := []zscore.Record{{
		PlayerID: 1629029, Name: "Luka Doncic", Team: "DAL", Position: "PG", Season: "2023-24",
		Stats: map[string]float64{"points": 32.4, "free_throws_attempted": 8.8},
		Scores: map[string]float64{
			zscore.ScoreKey("points"): 2.5,
			zscore.TotalScoreKey:      1.9,
		},
		Ranks:       map[string]int{"overall_rank": 2},
		Percentiles: map[string]float64{"overall_percentile": 99.5},
	}}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, in))
	out, err := Import(&buf)
	require.NoError(t, err)
	require.Len(t, out, 1)

	rec := out[0]
	assert.Equal(t, 1629029, rec.PlayerID)
	assert.Equal(t, "2023-24", rec.Season)
	assert.Equal(t, 32.4, rec.Stats["points"])
	_, hasFTPct := rec.Stats["free_throw_percentage"]
	assert.False(t, hasFTPct, "a blank cell must stay missing")
	assert.Equal(t, 2.5, rec.Scores[zscore.ScoreKey("points")])
	assert.Equal(t, 2, rec.Ranks["overall_rank"])
	assert.Equal(t, 99.5, rec.Percentiles["overall_percentile"])
}

func TestImportMatchesColumnsByName(t *testing.T) {
	csv := "season,player_id,points,zscore_total,extra\n" +
		"2024-25,77,11.5,0.3,ignored\n"

	out, err := Import(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 77, out[0].PlayerID)
	assert.Equal(t, 11.5, out[0].Stats["points"])
	assert.Equal(t, 0.3, out[0].Scores[zscore.TotalScoreKey])
}

func TestImportRejectsBadRows(t *testing.T) {
	_, err := Import(strings.NewReader("player_id,season\nnot-a-number,2024-25\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player_id")

	_, err = Import(strings.NewReader("player_name\nSomeone\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player_id")
}
