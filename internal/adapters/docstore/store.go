// Package docstore defines the transactional document store contract the
// engine runs against: keyed documents, collection-wide scans, and atomic
// multi-document batch commits.
package docstore

import (
	"context"

	"github.com/prixsix/engine/internal/domain/model"
)

// Store provides read access to the engine's collections and batch staging
// for writes. Reads may be shared freely across concurrent invocations; all
// mutation goes through a Batch.
type Store interface {
	// Predictions scans the predictions collection across all teams and
	// events, including every stored submission version.
	Predictions(ctx context.Context) ([]model.Prediction, error)

	// Scores scans every score document ever written.
	Scores(ctx context.Context) ([]model.Score, error)

	// ScoresByEvent returns the score documents for one event.
	ScoresByEvent(ctx context.Context, eventID string) ([]model.Score, error)

	// Result returns the official result for an event.
	// Returns ErrNotFound if the event has not been scored.
	Result(ctx context.Context, eventID string) (model.RaceResult, error)

	// Teams scans the team directory collection.
	Teams(ctx context.Context) ([]model.Team, error)

	// Audits scans the audit collection.
	Audits(ctx context.Context) ([]model.AuditRecord, error)

	// Batch starts staging a new atomic write set.
	Batch() Batch

	// Close releases the underlying resources.
	Close() error
}

// Batch stages keyed upserts and commits them atomically: either every
// staged document becomes visible together, or none do. Staged writes are
// idempotent by key, so retrying a failed commit is safe.
type Batch interface {
	PutPrediction(p model.Prediction)
	PutScore(s model.Score)
	PutResult(r model.RaceResult)
	PutAudit(a model.AuditRecord)
	PutTeam(t model.Team)

	// Commit applies all staged writes as one atomic unit.
	Commit(ctx context.Context) error
}
