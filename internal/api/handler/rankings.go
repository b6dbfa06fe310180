package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rosterguru/rosterguru-data/internal/api/respond"
	"github.com/rosterguru/rosterguru-data/internal/cache"
	"github.com/rosterguru/rosterguru-data/internal/config"
	"github.com/rosterguru/rosterguru-data/internal/db"
)

const (
	defaultRankingsLimit = 200
	maxRankingsLimit     = 500
)

// GetRankings returns ranked players for one stat mode and season, ordered
// by composite z-score rank.
func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.statMode(w, r)
	if !ok {
		return
	}

	season := r.URL.Query().Get("season")
	if season == "" {
		season = h.cfg.Season
	}
	if !validSeason(season) {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_SEASON",
			"season must look like 2024-25")
		return
	}

	limit := defaultRankingsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		if n > maxRankingsLimit {
			n = maxRankingsLimit
		}
		limit = n
	}

	ttl := cache.TTLHistorical
	if season == h.cfg.Season {
		ttl = cache.TTLCurrentSeason
	}
	cacheKey := fmt.Sprintf("rankings:%s:%s:%d", mode.Table, season, limit)

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	var raw []byte
	err := h.pool.QueryRow(r.Context(), db.RankingsStmt(mode.Table), season, limit).Scan(&raw)
	if err != nil || raw == nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("no %s rankings for season %s", mode.ID, season))
		return
	}

	etag := h.cache.Set(cacheKey, raw, ttl)
	respond.WriteJSON(w, raw, etag, ttl, false)
}

// GetPlayerStats returns every stored season for one player in one stat
// mode, newest first.
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.statMode(w, r)
	if !ok {
		return
	}

	playerID, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "player ID must be an integer")
		return
	}

	ttl := cache.TTLPlayerStats
	cacheKey := fmt.Sprintf("player_stats:%s:%d", mode.Table, playerID)

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	var raw []byte
	err = h.pool.QueryRow(r.Context(), db.PlayerStatsStmt(mode.Table), playerID).Scan(&raw)
	if err != nil || raw == nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("no %s stats for player %d", mode.ID, playerID))
		return
	}

	etag := h.cache.Set(cacheKey, raw, ttl)
	respond.WriteJSON(w, raw, etag, ttl, false)
}

// GetSeasons lists the seasons stored for one stat mode, newest first.
func (h *Handler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	mode, ok := h.statMode(w, r)
	if !ok {
		return
	}

	ttl := cache.TTLSeasonList
	cacheKey := "seasons:" + mode.Table

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	var raw []byte
	err := h.pool.QueryRow(r.Context(), db.SeasonsStmt(mode.Table)).Scan(&raw)
	if err != nil || raw == nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("no seasons stored for %s", mode.ID))
		return
	}

	etag := h.cache.Set(cacheKey, raw, ttl)
	respond.WriteJSON(w, raw, etag, ttl, false)
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// statMode resolves the {mode} path parameter, writing a 400 on unknown
// modes.
func (h *Handler) statMode(w http.ResponseWriter, r *http.Request) (config.StatMode, bool) {
	id := chi.URLParam(r, "mode")
	mode, ok := config.StatModes[id]
	if !ok {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_MODE",
			"mode must be one of per_game, per_36, total")
		return config.StatMode{}, false
	}
	return mode, true
}

// validSeason accepts NBA season labels like "2024-25".
func validSeason(s string) bool {
	if len(s) != 7 || s[4] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
