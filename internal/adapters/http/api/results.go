// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prixsix/engine/internal/adapters/docstore"
	service "github.com/prixsix/engine/internal/app"
)

// ResultsHandler handles result submission and lookup requests.
type ResultsHandler struct {
	deps Dependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandlePostResult handles POST /results requests.
func (h *ResultsHandler) HandlePostResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_result"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	eventID, err := req.resolveEventID()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	outcome, err := h.deps.SubmitResult(r.Context(), SubmitRequest{
		EventID:     eventID,
		Order:       req.Order,
		SubmitterID: req.SubmitterID,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resultResponse{
			EventID:            outcome.EventID,
			ScoresWritten:      outcome.ScoresWritten,
			CarriedTeams:       outcome.CarriedTeams,
			Standings:          outcome.Standings,
			StandingsAvailable: true,
		})
	case errors.Is(err, service.ErrStandingsUnavailable):
		// The result committed; only the refreshed table is missing.
		writeJSON(w, http.StatusOK, resultResponse{
			EventID:       outcome.EventID,
			ScoresWritten: outcome.ScoresWritten,
			CarriedTeams:  outcome.CarriedTeams,
		})
	case errors.Is(err, service.ErrInvalidResultOrder),
		errors.Is(err, service.ErrMissingEventID),
		errors.Is(err, service.ErrMissingSubmitter):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// HandleGetResult handles GET /results/{eventId} requests.
func (h *ResultsHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_result"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	eventID := strings.TrimPrefix(r.URL.Path, "/results/")
	if eventID == "" || strings.Contains(eventID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	result, err := h.deps.ResultForEvent(r.Context(), eventID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, docstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
