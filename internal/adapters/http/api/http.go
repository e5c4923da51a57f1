// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/prixsix/engine/internal/app"
	"github.com/prixsix/engine/internal/domain/eventkey"
	"github.com/prixsix/engine/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitResult records an official result and scores every team.
	SubmitResult(ctx context.Context, req SubmitRequest) (SubmitOutcome, error)

	// Read operations expose scoring data.
	Standings(ctx context.Context) ([]model.StandingEntry, error)
	ScoresForEvent(ctx context.Context, eventID string) ([]model.Score, error)
	ResultForEvent(ctx context.Context, eventID string) (model.RaceResult, error)
}

// SubmitRequest and SubmitOutcome mirror the coordinator shapes.
type (
	SubmitRequest = service.SubmitRequest
	SubmitOutcome = service.SubmitOutcome
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	resultsHandler   *ResultsHandler
	standingsHandler *StandingsHandler
	scoresHandler    *ScoresHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxStandingsLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		resultsHandler:   NewResultsHandler(deps),
		standingsHandler: NewStandingsHandler(deps, maxStandingsLimit),
		scoresHandler:    NewScoresHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/results", MetricsMiddleware(s.resultsHandler.HandlePostResult, "results"))
	mux.HandleFunc("/results/", MetricsMiddleware(s.resultsHandler.HandleGetResult, "result"))
	mux.HandleFunc("/standings", MetricsMiddleware(s.standingsHandler.HandleGetStandings, "standings"))
	mux.HandleFunc("/scores", MetricsMiddleware(s.scoresHandler.HandleGetScores, "scores"))
}

// resultRequest is the POST /results body. Callers either address the event
// by its canonical id or by a human-readable name plus session, which the
// server normalizes into the id.
type resultRequest struct {
	EventID     string   `json:"event_id"`
	EventName   string   `json:"event_name"`
	Session     string   `json:"session"`
	Order       []string `json:"order"`
	SubmitterID string   `json:"submitter_id"`
}

// resolveEventID returns the canonical event id for the request.
func (r resultRequest) resolveEventID() (string, error) {
	if id := strings.TrimSpace(r.EventID); id != "" {
		return id, nil
	}
	session, err := eventkey.ParseSession(r.Session)
	if err != nil {
		return "", err
	}
	return eventkey.Normalize(r.EventName, session)
}

func (r resultRequest) validate() error {
	switch {
	case strings.TrimSpace(r.EventID) == "" && strings.TrimSpace(r.EventName) == "":
		return errors.New("missing event_id or event_name")
	case strings.TrimSpace(r.SubmitterID) == "":
		return errors.New("missing submitter_id")
	case len(r.Order) != model.SlotCount:
		return errors.New("order must list exactly six competitors")
	}
	return nil
}

type resultResponse struct {
	EventID       string                `json:"event_id"`
	ScoresWritten int                   `json:"scores_written"`
	CarriedTeams  int                   `json:"carried_teams"`
	Standings     []model.StandingEntry `json:"standings,omitempty"`

	// StandingsAvailable is false when the result committed but the
	// refreshed table could not be computed.
	StandingsAvailable bool `json:"standings_available"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
