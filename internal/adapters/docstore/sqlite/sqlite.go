// Package sqlite implements the document store contract on an embedded
// SQLite database. Batch commits map onto one SQL transaction, which is
// what gives the engine its all-or-nothing write guarantee.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver registration

	"github.com/prixsix/engine/internal/adapters/docstore"
	"github.com/prixsix/engine/internal/domain/model"
	"github.com/prixsix/engine/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	team_id       TEXT    NOT NULL,
	event_id      TEXT    NOT NULL,
	submitted_at  INTEGER NOT NULL,
	carry_forward INTEGER NOT NULL DEFAULT 0,
	slots         TEXT    NOT NULL,
	PRIMARY KEY (team_id, event_id, submitted_at)
);
CREATE TABLE IF NOT EXISTS scores (
	event_id      TEXT    NOT NULL,
	team_id       TEXT    NOT NULL,
	per_slot      TEXT    NOT NULL,
	bonus         INTEGER NOT NULL,
	total         INTEGER NOT NULL,
	carry_forward INTEGER NOT NULL DEFAULT 0,
	calculated_at INTEGER NOT NULL,
	PRIMARY KEY (event_id, team_id)
);
CREATE TABLE IF NOT EXISTS results (
	event_id     TEXT PRIMARY KEY,
	race_order   TEXT    NOT NULL,
	submitted_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS audits (
	id           TEXT PRIMARY KEY,
	event_id     TEXT    NOT NULL,
	race_order   TEXT    NOT NULL,
	submitter_id TEXT    NOT NULL,
	teams_scored INTEGER NOT NULL,
	created_at   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS teams (
	team_id   TEXT PRIMARY KEY,
	name      TEXT    NOT NULL,
	owner_id  TEXT    NOT NULL DEFAULT '',
	secondary INTEGER NOT NULL DEFAULT 0
);
`

// Store is the SQLite-backed document store.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open opens (or creates) the database at path and ensures the schema
// exists. Use ":memory:" for an ephemeral store.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("sqlite")
	}

	s.logger.Info(ctx, "sqlite store opened", logger.String("path", path))
	return s, nil
}

// Predictions scans every stored prediction version, normalizing legacy
// slot shapes at the read boundary.
func (s *Store) Predictions(ctx context.Context) ([]model.Prediction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT team_id, event_id, submitted_at, carry_forward, slots FROM predictions")
	if err != nil {
		return nil, fmt.Errorf("scan predictions: %w", err)
	}
	defer rows.Close()

	var out []model.Prediction
	for rows.Next() {
		var p model.Prediction
		var submittedAt int64
		var rawSlots []byte
		if err := rows.Scan(&p.TeamID, &p.EventID, &submittedAt, &p.CarryForward, &rawSlots); err != nil {
			return nil, fmt.Errorf("scan prediction row: %w", err)
		}
		slots, err := docstore.DecodeSlots(rawSlots)
		if err != nil {
			// Undecodable rows surface downstream as resolution anomalies.
			s.logger.Warn(ctx, "undecodable prediction document",
				logger.String("teamID", p.TeamID),
				logger.String("eventID", p.EventID),
				logger.Error(err),
			)
			slots = nil
		}
		p.Slots = slots
		p.SubmittedAt = time.Unix(0, submittedAt).UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan predictions: %w", err)
	}
	return out, nil
}

// Scores scans every score document ever written.
func (s *Store) Scores(ctx context.Context) ([]model.Score, error) {
	return s.queryScores(ctx,
		"SELECT event_id, team_id, per_slot, bonus, total, carry_forward, calculated_at FROM scores")
}

// ScoresByEvent returns the score documents for one event.
func (s *Store) ScoresByEvent(ctx context.Context, eventID string) ([]model.Score, error) {
	return s.queryScores(ctx,
		"SELECT event_id, team_id, per_slot, bonus, total, carry_forward, calculated_at FROM scores WHERE event_id = ?",
		eventID)
}

func (s *Store) queryScores(ctx context.Context, query string, args ...any) ([]model.Score, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan scores: %w", err)
	}
	defer rows.Close()

	var out []model.Score
	for rows.Next() {
		var sc model.Score
		var calculatedAt int64
		var rawPerSlot []byte
		if err := rows.Scan(&sc.EventID, &sc.TeamID, &rawPerSlot, &sc.Bonus, &sc.Total, &sc.CarryForward, &calculatedAt); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		if err := decodePerSlot(rawPerSlot, &sc.PerSlot); err != nil {
			return nil, fmt.Errorf("decode score breakdown: %w", err)
		}
		sc.CalculatedAt = time.Unix(0, calculatedAt).UTC()
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan scores: %w", err)
	}
	return out, nil
}

// Result returns the official result for an event.
func (s *Store) Result(ctx context.Context, eventID string) (model.RaceResult, error) {
	var r model.RaceResult
	var submittedAt int64
	var rawOrder []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT event_id, race_order, submitted_at FROM results WHERE event_id = ?", eventID).
		Scan(&r.EventID, &rawOrder, &submittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RaceResult{}, docstore.ErrNotFound
	}
	if err != nil {
		return model.RaceResult{}, fmt.Errorf("read result: %w", err)
	}
	order, err := docstore.DecodeSlots(rawOrder)
	if err != nil {
		return model.RaceResult{}, fmt.Errorf("decode result order: %w", err)
	}
	r.Order = order
	r.SubmittedAt = time.Unix(0, submittedAt).UTC()
	return r, nil
}

// Teams scans the team directory collection.
func (s *Store) Teams(ctx context.Context) ([]model.Team, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT team_id, name, owner_id, secondary FROM teams")
	if err != nil {
		return nil, fmt.Errorf("scan teams: %w", err)
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.TeamID, &t.Name, &t.OwnerID, &t.Secondary); err != nil {
			return nil, fmt.Errorf("scan team row: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan teams: %w", err)
	}
	return out, nil
}

// Audits scans the audit collection.
func (s *Store) Audits(ctx context.Context) ([]model.AuditRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, event_id, race_order, submitter_id, teams_scored, created_at FROM audits")
	if err != nil {
		return nil, fmt.Errorf("scan audits: %w", err)
	}
	defer rows.Close()

	var out []model.AuditRecord
	for rows.Next() {
		var a model.AuditRecord
		var createdAt int64
		var rawOrder []byte
		if err := rows.Scan(&a.ID, &a.EventID, &rawOrder, &a.SubmitterID, &a.TeamsScored, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		order, err := docstore.DecodeSlots(rawOrder)
		if err != nil {
			return nil, fmt.Errorf("decode audit order: %w", err)
		}
		a.Order = order
		a.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan audits: %w", err)
	}
	return out, nil
}

// Batch starts staging a new atomic write set.
func (s *Store) Batch() docstore.Batch {
	return &sqlBatch{store: s}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite store: %w", err)
	}
	return nil
}

// sqlBatch stages documents and commits them inside one transaction.
type sqlBatch struct {
	store       *Store
	predictions []model.Prediction
	scores      []model.Score
	results     []model.RaceResult
	audits      []model.AuditRecord
	teams       []model.Team
}

func (b *sqlBatch) PutPrediction(p model.Prediction) { b.predictions = append(b.predictions, p) }
func (b *sqlBatch) PutScore(s model.Score)           { b.scores = append(b.scores, s) }
func (b *sqlBatch) PutResult(r model.RaceResult)     { b.results = append(b.results, r) }
func (b *sqlBatch) PutAudit(a model.AuditRecord)     { b.audits = append(b.audits, a) }
func (b *sqlBatch) PutTeam(t model.Team)             { b.teams = append(b.teams, t) }

// Commit applies every staged upsert inside a single transaction. Any
// failure rolls the whole batch back.
func (b *sqlBatch) Commit(ctx context.Context) error {
	tx, err := b.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	if err := b.apply(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (b *sqlBatch) apply(ctx context.Context, tx *sql.Tx) error {
	for _, p := range b.predictions {
		slots, err := docstore.EncodeSlots(p.Slots)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO predictions (team_id, event_id, submitted_at, carry_forward, slots) VALUES (?, ?, ?, ?, ?)",
			p.TeamID, p.EventID, p.SubmittedAt.UnixNano(), p.CarryForward, slots)
		if err != nil {
			return fmt.Errorf("stage prediction: %w", err)
		}
	}

	for _, sc := range b.scores {
		perSlot, err := encodePerSlot(sc.PerSlot)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO scores (event_id, team_id, per_slot, bonus, total, carry_forward, calculated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			sc.EventID, sc.TeamID, perSlot, sc.Bonus, sc.Total, sc.CarryForward, sc.CalculatedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("stage score: %w", err)
		}
	}

	for _, r := range b.results {
		order, err := docstore.EncodeSlots(r.Order)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO results (event_id, race_order, submitted_at) VALUES (?, ?, ?)",
			r.EventID, order, r.SubmittedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("stage result: %w", err)
		}
	}

	for _, a := range b.audits {
		order, err := docstore.EncodeSlots(a.Order)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO audits (id, event_id, race_order, submitter_id, teams_scored, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			a.ID, a.EventID, order, a.SubmitterID, a.TeamsScored, a.CreatedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("stage audit: %w", err)
		}
	}

	for _, t := range b.teams {
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO teams (team_id, name, owner_id, secondary) VALUES (?, ?, ?, ?)",
			t.TeamID, t.Name, t.OwnerID, t.Secondary)
		if err != nil {
			return fmt.Errorf("stage team: %w", err)
		}
	}

	return nil
}
