package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prixsix/engine/internal/adapters/docstore"
	"github.com/prixsix/engine/internal/adapters/http/api"
	service "github.com/prixsix/engine/internal/app"
	"github.com/prixsix/engine/internal/domain/model"
	"github.com/prixsix/engine/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// Mock implementations for testing
type mockDependencies struct {
	submitted    []api.SubmitRequest
	outcome      api.SubmitOutcome
	submitErr    error
	standings    []model.StandingEntry
	standingsErr error
	scores       []model.Score
	scoresErr    error
	result       model.RaceResult
	resultErr    error
}

func (m *mockDependencies) SubmitResult(ctx context.Context, req api.SubmitRequest) (api.SubmitOutcome, error) {
	m.submitted = append(m.submitted, req)
	return m.outcome, m.submitErr
}

func (m *mockDependencies) Standings(ctx context.Context) ([]model.StandingEntry, error) {
	return m.standings, m.standingsErr
}

func (m *mockDependencies) ScoresForEvent(ctx context.Context, eventID string) ([]model.Score, error) {
	return m.scores, m.scoresErr
}

func (m *mockDependencies) ResultForEvent(ctx context.Context, eventID string) (model.RaceResult, error) {
	return m.result, m.resultErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

const validResult = `{
	"event_id": "monaco-gp",
	"order": ["VER", "NOR", "LEC", "PIA", "HAM", "RUS"],
	"submitter_id": "admin"
}`

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{
			outcome: api.SubmitOutcome{EventID: "monaco-gp", ScoresWritten: 2},
		}
		statsProvider := &mockStatsProvider{}
		server := api.NewServer(deps, statsProvider, 100)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then the health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("Then the stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("Then the results endpoint should accept submissions", func() {
				req := httptest.NewRequest("POST", "/results", strings.NewReader(validResult))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("Then the standings endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/standings", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("Then the scores endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/scores?event_id=monaco-gp", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("Then unknown routes should return not found", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestResultsHandler_HandlePostResult(t *testing.T) {
	Convey("Given a results handler", t, func() {
		deps := &mockDependencies{
			outcome: api.SubmitOutcome{
				EventID:       "monaco-gp",
				ScoresWritten: 2,
				CarriedTeams:  1,
				Standings: []model.StandingEntry{
					{Rank: 1, TeamID: "team-a", TeamName: "Scuderia Sofa", TotalPoints: 46},
				},
			},
		}
		handler := api.NewResultsHandler(deps)

		Convey("When handling a valid submission", func() {
			req := httptest.NewRequest("POST", "/results", strings.NewReader(validResult))
			w := httptest.NewRecorder()
			handler.HandlePostResult(w, req)

			Convey("Then it should return the outcome with standings", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response struct {
					EventID            string                `json:"event_id"`
					ScoresWritten      int                   `json:"scores_written"`
					Standings          []model.StandingEntry `json:"standings"`
					StandingsAvailable bool                  `json:"standings_available"`
				}
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.EventID, ShouldEqual, "monaco-gp")
				So(response.ScoresWritten, ShouldEqual, 2)
				So(response.StandingsAvailable, ShouldBeTrue)
				So(response.Standings, ShouldHaveLength, 1)
			})
		})

		Convey("When the event is addressed by name and session", func() {
			body := `{
				"event_name": "Monaco Grand Prix",
				"session": "sprint",
				"order": ["VER", "NOR", "LEC", "PIA", "HAM", "RUS"],
				"submitter_id": "admin"
			}`
			req := httptest.NewRequest("POST", "/results", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePostResult(w, req)

			Convey("Then the name is normalized into the canonical id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.submitted, ShouldHaveLength, 1)
				So(deps.submitted[0].EventID, ShouldEqual, "monaco-grand-prix-sprint")
			})
		})

		Convey("When the session name is unknown", func() {
			body := `{
				"event_name": "Monaco Grand Prix",
				"session": "qualifying",
				"order": ["VER", "NOR", "LEC", "PIA", "HAM", "RUS"],
				"submitter_id": "admin"
			}`
			req := httptest.NewRequest("POST", "/results", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePostResult(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When handling an invalid JSON request", func() {
			req := httptest.NewRequest("POST", "/results", strings.NewReader(`{invalid json`))
			w := httptest.NewRecorder()
			handler.HandlePostResult(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the order has the wrong length", func() {
			body := `{"event_id": "monaco-gp", "order": ["VER"], "submitter_id": "admin"}`
			req := httptest.NewRequest("POST", "/results", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePostResult(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.submitted, ShouldBeEmpty)
		})

		Convey("When the coordinator rejects the order", func() {
			deps.submitErr = fmt.Errorf("%w: duplicate competitor", service.ErrInvalidResultOrder)
			req := httptest.NewRequest("POST", "/results", strings.NewReader(validResult))
			w := httptest.NewRecorder()
			handler.HandlePostResult(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When standings are unavailable after commit", func() {
			deps.submitErr = fmt.Errorf("%w: store gone", service.ErrStandingsUnavailable)
			deps.outcome.Standings = nil
			req := httptest.NewRequest("POST", "/results", strings.NewReader(validResult))
			w := httptest.NewRecorder()
			handler.HandlePostResult(w, req)

			Convey("Then the submission still reports success without a table", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response struct {
					ScoresWritten      int  `json:"scores_written"`
					StandingsAvailable bool `json:"standings_available"`
				}
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.ScoresWritten, ShouldEqual, 2)
				So(response.StandingsAvailable, ShouldBeFalse)
			})
		})

		Convey("When the coordinator fails", func() {
			deps.submitErr = fmt.Errorf("store unavailable")
			req := httptest.NewRequest("POST", "/results", strings.NewReader(validResult))
			w := httptest.NewRecorder()
			handler.HandlePostResult(w, req)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/results", nil)
			w := httptest.NewRecorder()
			handler.HandlePostResult(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestResultsHandler_HandleGetResult(t *testing.T) {
	Convey("Given a results handler with a recorded result", t, func() {
		deps := &mockDependencies{
			result: model.RaceResult{
				EventID: "monaco-gp",
				Order:   []string{"VER", "NOR", "LEC", "PIA", "HAM", "RUS"},
			},
		}
		handler := api.NewResultsHandler(deps)

		Convey("When requesting an existing result", func() {
			req := httptest.NewRequest("GET", "/results/monaco-gp", nil)
			w := httptest.NewRecorder()
			handler.HandleGetResult(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var response model.RaceResult
			So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
			So(response.EventID, ShouldEqual, "monaco-gp")
		})

		Convey("When the event has no result", func() {
			deps.resultErr = docstore.ErrNotFound
			req := httptest.NewRequest("GET", "/results/suzuka-gp", nil)
			w := httptest.NewRecorder()
			handler.HandleGetResult(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the path carries no event id", func() {
			req := httptest.NewRequest("GET", "/results/", nil)
			w := httptest.NewRecorder()
			handler.HandleGetResult(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestStandingsHandler_HandleGetStandings(t *testing.T) {
	Convey("Given a standings handler", t, func() {
		deps := &mockDependencies{
			standings: []model.StandingEntry{
				{Rank: 1, TeamID: "team-a", TeamName: "Scuderia Sofa", TotalPoints: 92},
				{Rank: 1, TeamID: "team-b", TeamName: "Box Box Box", TotalPoints: 92},
				{Rank: 3, TeamID: "team-c", TeamName: "Dark Horse", TotalPoints: 40},
			},
		}
		handler := api.NewStandingsHandler(deps, 100)

		Convey("When requesting the full table", func() {
			req := httptest.NewRequest("GET", "/standings", nil)
			w := httptest.NewRecorder()
			handler.HandleGetStandings(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var response []model.StandingEntry
			So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
			So(response, ShouldHaveLength, 3)
			So(response[1].Rank, ShouldEqual, 1)
			So(response[2].Rank, ShouldEqual, 3)
		})

		Convey("When requesting a truncated table", func() {
			req := httptest.NewRequest("GET", "/standings?limit=2", nil)
			w := httptest.NewRecorder()
			handler.HandleGetStandings(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var response []model.StandingEntry
			So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
			So(response, ShouldHaveLength, 2)
		})

		Convey("When the limit is not a number", func() {
			req := httptest.NewRequest("GET", "/standings?limit=abc", nil)
			w := httptest.NewRecorder()
			handler.HandleGetStandings(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit exceeds the maximum", func() {
			req := httptest.NewRequest("GET", "/standings?limit=1000", nil)
			w := httptest.NewRecorder()
			handler.HandleGetStandings(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When aggregation fails", func() {
			deps.standingsErr = fmt.Errorf("store unavailable")
			req := httptest.NewRequest("GET", "/standings", nil)
			w := httptest.NewRecorder()
			handler.HandleGetStandings(w, req)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestScoresHandler_HandleGetScores(t *testing.T) {
	Convey("Given a scores handler", t, func() {
		deps := &mockDependencies{
			scores: []model.Score{
				{EventID: "monaco-gp", TeamID: "team-a", Total: 46},
				{EventID: "monaco-gp", TeamID: "team-b", Total: 26, CarryForward: true},
			},
		}
		handler := api.NewScoresHandler(deps)

		Convey("When requesting scores for an event", func() {
			req := httptest.NewRequest("GET", "/scores?event_id=monaco-gp", nil)
			w := httptest.NewRecorder()
			handler.HandleGetScores(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var response []model.Score
			So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
			So(response, ShouldHaveLength, 2)
			So(response[1].CarryForward, ShouldBeTrue)
		})

		Convey("When the event id is missing", func() {
			req := httptest.NewRequest("GET", "/scores", nil)
			w := httptest.NewRecorder()
			handler.HandleGetScores(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the read fails", func() {
			deps.scoresErr = fmt.Errorf("store unavailable")
			req := httptest.NewRequest("GET", "/scores?event_id=monaco-gp", nil)
			w := httptest.NewRecorder()
			handler.HandleGetScores(w, req)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"resultsTotal":    3,
				"teamsRegistered": 12,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling a stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			handler.HandleStats(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			var response map[string]interface{}
			So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
			So(response["resultsTotal"], ShouldEqual, 3)
			So(response["teamsRegistered"], ShouldEqual, 12)
		})
	})
}
