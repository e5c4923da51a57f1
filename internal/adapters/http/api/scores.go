// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// ScoresHandler handles per-event score requests.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleGetScores handles GET /scores?event_id=X requests.
func (h *ScoresHandler) HandleGetScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scores"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	eventID := strings.TrimSpace(r.URL.Query().Get("event_id"))
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	scores, err := h.deps.ScoresForEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, scores)
}
