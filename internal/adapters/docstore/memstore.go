package docstore

import (
	"context"
	"sync"

	"github.com/prixsix/engine/internal/domain/model"
)

// predKey identifies one stored prediction version. Re-submissions land
// under a new SubmittedAt and coexist with earlier versions.
type predKey struct {
	teamID      string
	eventID     string
	submittedAt int64
}

// scoreKey is the composite score document key.
type scoreKey struct {
	eventID string
	teamID  string
}

// MemStore is the in-memory Store implementation. It is the default store
// and the test double; all collections live behind one RWMutex so a batch
// commit is atomic with respect to every reader.
type MemStore struct {
	mu          sync.RWMutex
	closed      bool
	predictions map[predKey]model.Prediction
	scores      map[scoreKey]model.Score
	results     map[string]model.RaceResult
	audits      map[string]model.AuditRecord
	teams       map[string]model.Team
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{
		predictions: make(map[predKey]model.Prediction),
		scores:      make(map[scoreKey]model.Score),
		results:     make(map[string]model.RaceResult),
		audits:      make(map[string]model.AuditRecord),
		teams:       make(map[string]model.Team),
	}
}

// Predictions returns every stored prediction version.
func (m *MemStore) Predictions(ctx context.Context) ([]model.Prediction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]model.Prediction, 0, len(m.predictions))
	for _, p := range m.predictions {
		p.Slots = append([]string(nil), p.Slots...)
		out = append(out, p)
	}
	return out, nil
}

// Scores returns every score document ever written.
func (m *MemStore) Scores(ctx context.Context) ([]model.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]model.Score, 0, len(m.scores))
	for _, s := range m.scores {
		out = append(out, s)
	}
	return out, nil
}

// ScoresByEvent returns the score documents for one event.
func (m *MemStore) ScoresByEvent(ctx context.Context, eventID string) ([]model.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	var out []model.Score
	for key, s := range m.scores {
		if key.eventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

// Result returns the official result for an event.
func (m *MemStore) Result(ctx context.Context, eventID string) (model.RaceResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return model.RaceResult{}, ErrClosed
	}
	r, ok := m.results[eventID]
	if !ok {
		return model.RaceResult{}, ErrNotFound
	}
	r.Order = append([]string(nil), r.Order...)
	return r, nil
}

// Teams returns the team directory collection.
func (m *MemStore) Teams(ctx context.Context) ([]model.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]model.Team, 0, len(m.teams))
	for _, t := range m.teams {
		out = append(out, t)
	}
	return out, nil
}

// Audits returns the audit collection.
func (m *MemStore) Audits(ctx context.Context) ([]model.AuditRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]model.AuditRecord, 0, len(m.audits))
	for _, a := range m.audits {
		out = append(out, a)
	}
	return out, nil
}

// Batch starts staging a new atomic write set.
func (m *MemStore) Batch() Batch {
	return &memBatch{store: m}
}

// Close marks the store closed; subsequent reads and commits fail.
func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// memBatch stages writes and applies them under the store lock in one step.
type memBatch struct {
	store       *MemStore
	predictions []model.Prediction
	scores      []model.Score
	results     []model.RaceResult
	audits      []model.AuditRecord
	teams       []model.Team
}

func (b *memBatch) PutPrediction(p model.Prediction) {
	p.Slots = append([]string(nil), p.Slots...)
	b.predictions = append(b.predictions, p)
}

func (b *memBatch) PutScore(s model.Score) {
	b.scores = append(b.scores, s)
}

func (b *memBatch) PutResult(r model.RaceResult) {
	r.Order = append([]string(nil), r.Order...)
	b.results = append(b.results, r)
}

func (b *memBatch) PutAudit(a model.AuditRecord) {
	a.Order = append([]string(nil), a.Order...)
	b.audits = append(b.audits, a)
}

func (b *memBatch) PutTeam(t model.Team) {
	b.teams = append(b.teams, t)
}

// Commit applies all staged writes while holding the write lock, so readers
// observe either none of the batch or all of it.
func (b *memBatch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	if b.store.closed {
		return ErrClosed
	}

	for _, p := range b.predictions {
		b.store.predictions[predKey{p.TeamID, p.EventID, p.SubmittedAt.UnixNano()}] = p
	}
	for _, s := range b.scores {
		b.store.scores[scoreKey{s.EventID, s.TeamID}] = s
	}
	for _, r := range b.results {
		b.store.results[r.EventID] = r
	}
	for _, a := range b.audits {
		b.store.audits[a.ID] = a
	}
	for _, t := range b.teams {
		b.store.teams[t.TeamID] = t
	}

	return nil
}
