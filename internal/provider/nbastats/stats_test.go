package nbastats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashboardFixture = `{
	"resource": "leaguedashplayerstats",
	"resultSets": [{
		"name": "LeagueDashPlayerStats",
		"headers": ["PLAYER_ID", "PLAYER_NAME", "TEAM_ABBREVIATION", "GP", "MIN", "PTS", "REB", "AST", "TOV", "FG_PCT", "FGA", "FT_PCT", "FTA"],
		"rowSet": [
			[203999, "Nikola Jokic", "DEN", 70, 34.6, 26.4, 12.4, 9.0, 3.0, 0.583, 17.3, 0.821, 6.1],
			[1629029, "Luka Doncic", "DAL", 66, 36.2, 32.4, 8.6, 9.1, 4.0, 0.454, 21.6, null, 8.8],
			[12345, "Bench Player", "BOS", 6, 4.2, 1.1, 0.5, 0.2, 0.1, 0.333, 0.9, 0.5, 0.2]
		]
	}]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(5*time.Second, time.Millisecond, nil)
	c.baseURL = srv.URL
	return c
}

func TestSeasonStatsParsesResultSet(t *testing.T) {
	var gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "Base", r.URL.Query().Get("MeasureType"))
		assert.Equal(t, "PerGame", r.URL.Query().Get("PerMode"))
		w.Write([]byte(dashboardFixture))
	})

	stats, err := c.SeasonStats(context.Background(), "2024-25", PerModeGame, "Regular Season", nil)
	require.NoError(t, err)
	assert.Equal(t, "/leaguedashplayerstats", gotPath)
	require.Len(t, stats, 3)

	jokic := stats[0]
	assert.Equal(t, 203999, jokic.NBAPlayerID)
	assert.Equal(t, "Nikola Jokic", jokic.Name)
	assert.Equal(t, "DEN", jokic.Team)
	assert.Equal(t, 26.4, jokic.Stats["points"])
	assert.Equal(t, 12.4, jokic.Stats["total_rebounds"])

	// A null cell stays missing rather than becoming 0.
	_, hasFTPct := stats[1].Stats["free_throw_percentage"]
	assert.False(t, hasFTPct)
	assert.Equal(t, 8.8, stats[1].Stats["free_throws_attempted"])
}

func TestSeasonStatsAppliesFilters(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(dashboardFixture))
	})

	stats, err := c.SeasonStats(context.Background(), "2024-25", PerModeGame, "Regular Season",
		&Filters{MinGamesPlayed: 10, MinMinutesPerGame: 10})
	require.NoError(t, err)

	require.Len(t, stats, 2, "the six-game bench player is filtered out")
	for _, s := range stats {
		assert.GreaterOrEqual(t, s.Stats["games_played"], 10.0)
	}
}

func TestGetRejectsNonOKStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := c.SeasonStats(context.Background(), "2024-25", PerModeGame, "Regular Season", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
