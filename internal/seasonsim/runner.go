// Package seasonsim drives the scoring engine through a full simulated
// season: registering teams, submitting predictions, recording results, and
// verifying the standings invariants hold after every round.
package seasonsim

import (
	"context"
	"fmt"
	"time"

	"github.com/prixsix/engine/internal/adapters/docstore"
	service "github.com/prixsix/engine/internal/app"
	"github.com/prixsix/engine/pkg/logger"
)

// Run executes the complete season simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting season simulation",
		logger.Int("teams", config.Teams),
		logger.Int("events", config.Events),
		logger.Any("skipRate", config.SkipRate),
		logger.Any("seed", config.Seed),
		logger.Int("workers", config.Workers))

	gen := newGenerator(config.Seed)

	// Step 1: Build an in-memory engine
	store := docstore.NewMemStore(ctx)
	defer func() { _ = store.Close() }()

	svc := service.New(
		service.WithStore(store),
		service.WithWorkerCount(config.Workers),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("service start failed: %w", err)
	}
	defer svc.Stop()

	// Step 2: Register teams
	teams := gen.teams(config.Teams)
	batch := store.Batch()
	for _, t := range teams {
		batch.PutTeam(t)
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("team registration failed: %w", err)
	}
	stats.TeamsRegistered = len(teams)

	// Step 3: Play the season round by round
	events := gen.eventIDs(config.Events)
	raceDay := time.Now().UTC()

	for _, eventID := range events {
		// Predictions arrive ahead of the session; some teams sit out.
		predictions := store.Batch()
		staged := 0
		for _, t := range teams {
			if gen.skips(config.SkipRate) {
				continue
			}
			predictions.PutPrediction(gen.prediction(t.TeamID, eventID, raceDay.Add(-time.Hour)))
			staged++
		}
		if staged > 0 {
			if err := predictions.Commit(ctx); err != nil {
				return fmt.Errorf("prediction submission failed for %s: %w", eventID, err)
			}
		}
		stats.PredictionsMade += staged

		outcome, err := svc.SubmitResult(ctx, service.SubmitRequest{
			EventID:     eventID,
			Order:       gen.topSix(),
			SubmitterID: "seasonsim",
		})
		if err != nil {
			return fmt.Errorf("result submission failed for %s: %w", eventID, err)
		}
		stats.EventsRun++
		stats.ScoresWritten += outcome.ScoresWritten
		stats.CarriedForward += outcome.CarriedTeams

		if err := verifyStandings(outcome.Standings); err != nil {
			return fmt.Errorf("standings verification failed after %s: %w", eventID, err)
		}

		if config.Verbose {
			logger.Get().Info(ctx, "round complete",
				logger.String("eventID", eventID),
				logger.Int("scoresWritten", outcome.ScoresWritten),
				logger.Int("carriedForward", outcome.CarriedTeams))
		}

		raceDay = raceDay.Add(7 * 24 * time.Hour)
	}

	// Step 4: Verify re-submission is idempotent
	if len(events) > 0 {
		if err := verifyResubmission(ctx, svc, events[len(events)-1], gen); err != nil {
			return fmt.Errorf("re-submission verification failed: %w", err)
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "season simulation completed successfully")
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("teamsRegistered", stats.TeamsRegistered),
		logger.Int("eventsRun", stats.EventsRun),
		logger.Int("predictionsMade", stats.PredictionsMade),
		logger.Int("scoresWritten", stats.ScoresWritten),
		logger.Int("carriedForward", stats.CarriedForward),
		logger.String("duration", stats.Duration.String()))
}
