// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// StandingsHandler handles league table requests.
type StandingsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps Dependencies, maxLimit int) *StandingsHandler {
	return &StandingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetStandings handles GET /standings?limit=N requests. The limit is
// optional; without it the full table is returned.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	table, err := h.deps.Standings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if limit > 0 && limit < len(table) {
		table = table[:limit]
	}
	writeJSON(w, http.StatusOK, table)
}
