package seasonsim

import (
	"context"
	"fmt"

	service "github.com/prixsix/engine/internal/app"
	"github.com/prixsix/engine/internal/domain/model"
)

// verifyStandings checks the league table invariants: totals descend, ranks
// never precede their position, and tied totals share a rank.
func verifyStandings(table []model.StandingEntry) error {
	for i, entry := range table {
		if entry.TeamName == "" {
			return fmt.Errorf("entry %d has no team name", i)
		}
		if i == 0 {
			if entry.Rank != 1 {
				return fmt.Errorf("first entry has rank %d", entry.Rank)
			}
			continue
		}
		prev := table[i-1]
		if entry.TotalPoints > prev.TotalPoints {
			return fmt.Errorf("totals not descending at entry %d", i)
		}
		switch {
		case entry.TotalPoints == prev.TotalPoints && entry.Rank != prev.Rank:
			return fmt.Errorf("tied totals with differing ranks at entry %d", i)
		case entry.TotalPoints < prev.TotalPoints && entry.Rank != i+1:
			return fmt.Errorf("rank %d at entry %d, want %d", entry.Rank, i, i+1)
		}
	}
	return nil
}

// verifyResubmission replays the last event's result twice and checks the
// engine lands on identical standings both times.
func verifyResubmission(ctx context.Context, svc *service.Service, eventID string, gen *generator) error {
	order := gen.topSix()

	first, err := svc.SubmitResult(ctx, service.SubmitRequest{
		EventID:     eventID,
		Order:       order,
		SubmitterID: "seasonsim",
	})
	if err != nil {
		return err
	}

	second, err := svc.SubmitResult(ctx, service.SubmitRequest{
		EventID:     eventID,
		Order:       order,
		SubmitterID: "seasonsim",
	})
	if err != nil {
		return err
	}

	if first.ScoresWritten != second.ScoresWritten {
		return fmt.Errorf("scores written diverged: %d then %d", first.ScoresWritten, second.ScoresWritten)
	}
	if len(first.Standings) != len(second.Standings) {
		return fmt.Errorf("standings length diverged: %d then %d", len(first.Standings), len(second.Standings))
	}
	for i := range first.Standings {
		a, b := first.Standings[i], second.Standings[i]
		if a.TeamID != b.TeamID || a.Rank != b.Rank || a.TotalPoints != b.TotalPoints {
			return fmt.Errorf("standings diverged at entry %d: %+v then %+v", i, a, b)
		}
	}
	return nil
}
