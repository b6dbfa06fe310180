package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rosterguru/rosterguru-data/internal/api/respond"
	"github.com/rosterguru/rosterguru-data/internal/cache"
)

// GetPlayerProfile returns one player's identity row: name, team,
// position eligibility, and injury status.
func (h *Handler) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "player ID must be an integer")
		return
	}

	ttl := cache.TTLPlayerProfile
	cacheKey := fmt.Sprintf("profile:%d", playerID)

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	var raw []byte
	err = h.pool.QueryRow(r.Context(), "player_profile", playerID).Scan(&raw)
	if err != nil || raw == nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("no player with ID %d", playerID))
		return
	}

	etag := h.cache.Set(cacheKey, raw, ttl)
	respond.WriteJSON(w, raw, etag, ttl, false)
}
