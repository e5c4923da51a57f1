// Package standings derives the league table from the full score history.
// Standings are computed fresh on every call and never persisted.
package standings

import (
	"context"
	"sort"

	"github.com/prixsix/engine/internal/domain/model"
)

// NameLookup attaches display names to standings rows. A missing mapping
// must degrade to a placeholder, never an error.
type NameLookup interface {
	TeamName(ctx context.Context, teamID string) string
}

// Aggregator sums score documents per team and assigns tie-aware ranks.
type Aggregator struct{}

// New constructs an Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Aggregate sums total points per team across every score ever written and
// returns rows ordered by points descending. Ranks follow standard
// competition ranking: tied totals share a rank and the sequence skips
// values after a tie (1, 1, 3). Equal totals are ordered by team id so the
// output is deterministic.
func (a *Aggregator) Aggregate(ctx context.Context, scores []model.Score, names NameLookup) []model.StandingEntry {
	totals := make(map[string]int)
	for _, s := range scores {
		totals[s.TeamID] += s.Total
	}

	entries := make([]model.StandingEntry, 0, len(totals))
	for teamID, points := range totals {
		entries = append(entries, model.StandingEntry{
			TeamID:      teamID,
			TotalPoints: points,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].TeamID < entries[j].TeamID
	})

	for i := range entries {
		if i > 0 && entries[i].TotalPoints == entries[i-1].TotalPoints {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
		if names != nil {
			entries[i].TeamName = names.TeamName(ctx, entries[i].TeamID)
		}
	}

	return entries
}
