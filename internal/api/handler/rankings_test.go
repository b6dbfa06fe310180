package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/rosterguru/rosterguru-data/internal/cache"
	"github.com/rosterguru/rosterguru-data/internal/config"
)

func testHandler() *Handler {
	return New(nil, cache.New(false), &config.Config{Season: "2024-25"})
}

// request builds a chi-routed request so URLParam resolves.
func request(target string, params map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetRankingsRejectsUnknownMode(t *testing.T) {
	w := httptest.NewRecorder()
	testHandler().GetRankings(w, request("/api/v1/rankings/per_quarter", map[string]string{"mode": "per_quarter"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_MODE")
}

func TestGetRankingsRejectsMalformedSeason(t *testing.T) {
	w := httptest.NewRecorder()
	testHandler().GetRankings(w, request("/api/v1/rankings/per_game?season=2024", map[string]string{"mode": "per_game"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_SEASON")
}

func TestGetRankingsRejectsBadLimit(t *testing.T) {
	w := httptest.NewRecorder()
	testHandler().GetRankings(w, request("/api/v1/rankings/per_game?limit=0", map[string]string{"mode": "per_game"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_LIMIT")
}

func TestGetPlayerProfileRejectsBadID(t *testing.T) {
	w := httptest.NewRecorder()
	testHandler().GetPlayerProfile(w, request("/api/v1/players/jokic",
		map[string]string{"playerID": "jokic"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
}

func TestGetPlayerStatsRejectsBadID(t *testing.T) {
	w := httptest.NewRecorder()
	testHandler().GetPlayerStats(w, request("/api/v1/players/jokic/stats/total",
		map[string]string{"mode": "total", "playerID": "jokic"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
}

func TestValidSeason(t *testing.T) {
	assert.True(t, validSeason("2024-25"))
	assert.True(t, validSeason("2015-16"))
	assert.False(t, validSeason("2024"))
	assert.False(t, validSeason("2024/25"))
	assert.False(t, validSeason("season7"))
}
