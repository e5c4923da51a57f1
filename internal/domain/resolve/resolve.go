// Package resolve computes the effective prediction for every team ahead of
// scoring, falling back to a team's most recent prior prediction when none
// exists for the target event.
package resolve

import (
	"context"

	"github.com/prixsix/engine/internal/domain/model"
	"github.com/prixsix/engine/pkg/logger"
	"github.com/prixsix/engine/pkg/metrics"
)

// Resolved is the single prediction used as scoring input for one team.
type Resolved struct {
	TeamID        string
	Slots         [model.SlotCount]string
	CarryForward  bool
	SourceEventID string
}

// Resolver groups, deduplicates, and carries forward stored predictions.
type Resolver struct {
	logger logger.Logger
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger for the resolver.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New constructs a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logger.Get().Named("resolver")
	}

	return r
}

// candidate is a validated prediction kept during resolution.
type candidate struct {
	pred  model.Prediction
	slots [model.SlotCount]string
	index int // position in the input set, stable tie-break for re-submissions
}

// Resolve returns the effective prediction per team for targetEventID.
//
// A team with a live prediction for the target event uses it directly. A
// team with predictions only for other events carries forward the one with
// the latest submission time. A team with no valid predictions at all is
// excluded. Malformed stored predictions are skipped and logged; one team's
// bad data must never block every other team's score.
func (r *Resolver) Resolve(ctx context.Context, predictions []model.Prediction, targetEventID string) map[string]Resolved {
	// Latest valid prediction per (team, event), deduplicating re-submissions.
	latest := make(map[string]map[string]candidate)

	for i, p := range predictions {
		slots, err := p.NormalizedSlots()
		if err != nil {
			metrics.RecordResolutionAnomaly()
			r.logger.Warn(ctx, "skipping malformed stored prediction",
				logger.String("teamID", p.TeamID),
				logger.String("eventID", p.EventID),
				logger.Error(err),
			)
			continue
		}

		byEvent, ok := latest[p.TeamID]
		if !ok {
			byEvent = make(map[string]candidate)
			latest[p.TeamID] = byEvent
		}

		c := candidate{pred: p, slots: slots, index: i}
		prev, exists := byEvent[p.EventID]
		if !exists || newerSubmission(c, prev) {
			byEvent[p.EventID] = c
		}
	}

	resolved := make(map[string]Resolved, len(latest))
	for teamID, byEvent := range latest {
		if c, ok := byEvent[targetEventID]; ok {
			// A synthesized carry-forward record stored for the target event
			// keeps its flag, so re-scoring an event reproduces identical
			// score documents.
			resolved[teamID] = Resolved{
				TeamID:        teamID,
				Slots:         c.slots,
				CarryForward:  c.pred.CarryForward,
				SourceEventID: targetEventID,
			}
			continue
		}

		c, ok := latestFallback(byEvent)
		if !ok {
			// Team never predicted anything usable; excluded from this event.
			continue
		}
		resolved[teamID] = Resolved{
			TeamID:        teamID,
			Slots:         c.slots,
			CarryForward:  true,
			SourceEventID: c.pred.EventID,
		}
	}

	return resolved
}

// newerSubmission reports whether a should replace b as the authoritative
// prediction for one (team, event) key. Submission-time collisions keep the
// later entry of the input set, a stable deterministic order.
func newerSubmission(a, b candidate) bool {
	if !a.pred.SubmittedAt.Equal(b.pred.SubmittedAt) {
		return a.pred.SubmittedAt.After(b.pred.SubmittedAt)
	}
	return a.index > b.index
}

// latestFallback picks the carry-forward source among a team's predictions
// for other events: latest submission time wins, with ties broken by the
// lexicographically greatest event id.
func latestFallback(byEvent map[string]candidate) (candidate, bool) {
	var best candidate
	found := false
	for eventID, c := range byEvent {
		if !found {
			best = c
			found = true
			continue
		}
		switch {
		case c.pred.SubmittedAt.After(best.pred.SubmittedAt):
			best = c
		case c.pred.SubmittedAt.Equal(best.pred.SubmittedAt) && eventID > best.pred.EventID:
			best = c
		}
	}
	return best, found
}
