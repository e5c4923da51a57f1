// Package directory resolves team identifiers to display names. Lookups are
// read-only and must degrade to a placeholder when a mapping is missing.
package directory

import (
	"context"
	"fmt"

	"github.com/prixsix/engine/internal/domain/model"
	"github.com/prixsix/engine/pkg/logger"
)

// Reader is the slice of the document store the directory needs.
type Reader interface {
	Teams(ctx context.Context) ([]model.Team, error)
}

// Directory reads team names from the store.
type Directory struct {
	reader Reader
	logger logger.Logger
}

// Option applies a configuration option to the Directory.
type Option func(*Directory)

// WithLogger sets a custom logger for the directory.
func WithLogger(l logger.Logger) Option {
	return func(d *Directory) {
		if l != nil {
			d.logger = l
		}
	}
}

// New constructs a Directory backed by reader.
func New(reader Reader, opts ...Option) *Directory {
	d := &Directory{reader: reader}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.Get().Named("directory")
	}

	return d
}

// Snapshot loads the full team directory once. The snapshot is scoped to a
// single coordinator invocation; there is no cross-request cache.
func (d *Directory) Snapshot(ctx context.Context) (Snapshot, error) {
	teams, err := d.reader.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("load team directory: %w", err)
	}
	snap := make(Snapshot, len(teams))
	for _, t := range teams {
		snap[t.TeamID] = t.Name
	}
	return snap, nil
}

// Snapshot is an immutable view of the team directory taken at read time.
type Snapshot map[string]string

// TeamName returns the display name for teamID, or a placeholder when the
// directory has no mapping. It never fails.
func (s Snapshot) TeamName(_ context.Context, teamID string) string {
	if name, ok := s[teamID]; ok && name != "" {
		return name
	}
	return "Team " + teamID
}
