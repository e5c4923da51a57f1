// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prixsix/engine/internal/adapters/directory"
	"github.com/prixsix/engine/internal/adapters/docstore"
	"github.com/prixsix/engine/internal/domain/model"
	"github.com/prixsix/engine/internal/domain/resolve"
	"github.com/prixsix/engine/internal/domain/scoring"
	"github.com/prixsix/engine/internal/domain/standings"
	"github.com/prixsix/engine/pkg/logger"
	"github.com/prixsix/engine/pkg/metrics"
)

// SubmitRequest is a validated-on-entry race result submission.
type SubmitRequest struct {
	EventID     string
	Order       []string
	SubmitterID string
}

// SubmitOutcome reports what a successful submission produced. Standings is
// nil when the submission committed but the table could not be aggregated;
// callers see that case as ErrStandingsUnavailable.
type SubmitOutcome struct {
	EventID       string
	ScoresWritten int
	CarriedTeams  int
	Standings     []model.StandingEntry
}

// Service implements the API dependencies for the scoring engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      docstore.Store
	directory  *directory.Directory
	resolver   *resolve.Resolver
	engine     *scoring.Engine
	aggregator *standings.Aggregator

	// Configuration
	workerCount int
	ownsStore   bool

	// State
	started      bool
	resultsTotal int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the document store backing the service. The caller keeps
// ownership and must close it; without this option the service runs on an
// in-memory store it manages itself.
func WithStore(store docstore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.ownsStore = false
		}
	}
}

// WithScoringEngine sets a custom scoring engine.
func WithScoringEngine(engine *scoring.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithWorkerCount sets the number of goroutines scoring teams in parallel
// during a submission.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		ownsStore:   true,
		logger:      nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scoring engine service...")

	// Initialize components
	if s.store == nil {
		s.store = docstore.NewMemStore(ctx)
		s.ownsStore = true
		s.logger.Info(ctx, "using in-memory document store")
	}
	s.directory = directory.New(s.store, directory.WithLogger(s.logger.Named("directory")))
	s.resolver = resolve.New(resolve.WithLogger(s.logger.Named("resolver")))
	if s.engine == nil {
		s.engine = scoring.NewEngine()
	}
	s.aggregator = standings.New()

	s.started = true
	s.logger.Info(ctx, "scoring engine service started",
		logger.Int("workers", s.workerCount),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping scoring engine service...")

	if s.ownsStore && s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "scoring engine service stopped")
}

// SubmitResult records the official result for an event, scores every team
// against it, and returns the refreshed standings.
//
// All writes land in a single atomic batch: the per-team scores, a
// carry-forward prediction for each team scored off a prior event, the
// result document, and an audit record. Validation failures reject the
// submission before anything is staged. Re-submitting a corrected result for
// the same event overwrites the previous scores by key.
func (s *Service) SubmitResult(ctx context.Context, req SubmitRequest) (SubmitOutcome, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return SubmitOutcome{}, ErrNotStarted
	}

	if req.EventID == "" {
		return SubmitOutcome{}, ErrMissingEventID
	}
	if req.SubmitterID == "" {
		return SubmitOutcome{}, ErrMissingSubmitter
	}
	order, err := model.ValidateOrder(req.Order)
	if err != nil {
		return SubmitOutcome{}, fmt.Errorf("%w: %w", ErrInvalidResultOrder, err)
	}

	readStart := time.Now()
	predictions, err := s.store.Predictions(ctx)
	if err != nil {
		metrics.RecordStoreError()
		return SubmitOutcome{}, fmt.Errorf("read predictions: %w", err)
	}
	metrics.RecordStoreReadLatency(float64(time.Since(readStart).Milliseconds()))

	resolved := s.resolver.Resolve(ctx, predictions, req.EventID)
	breakdowns := s.scoreAll(resolved, order)

	now := time.Now().UTC()
	batch := s.store.Batch()

	carried := 0
	perfect := 0
	teamIDs := make([]string, 0, len(resolved))
	for teamID := range resolved {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Strings(teamIDs)

	for _, teamID := range teamIDs {
		r := resolved[teamID]
		b := breakdowns[teamID]

		batch.PutScore(model.Score{
			EventID:      req.EventID,
			TeamID:       teamID,
			PerSlot:      b.PerSlot,
			Bonus:        b.Bonus,
			Total:        b.Total,
			CarryForward: r.CarryForward,
			CalculatedAt: now,
		})

		if b.PerfectSet() {
			perfect++
		}

		// Teams scored off a prior event get a concrete prediction document
		// for this event, so the fallback chain never has to walk more than
		// one event back.
		if r.SourceEventID != req.EventID {
			batch.PutPrediction(model.Prediction{
				TeamID:       teamID,
				EventID:      req.EventID,
				Slots:        r.Slots[:],
				SubmittedAt:  now,
				CarryForward: true,
			})
			carried++
		}
	}

	batch.PutResult(model.RaceResult{
		EventID:     req.EventID,
		Order:       order[:],
		SubmittedAt: now,
	})
	batch.PutAudit(model.AuditRecord{
		ID:          uuid.NewString(),
		EventID:     req.EventID,
		Order:       order[:],
		SubmitterID: req.SubmitterID,
		TeamsScored: len(teamIDs),
		CreatedAt:   now,
	})

	commitStart := time.Now()
	if err := batch.Commit(ctx); err != nil {
		metrics.RecordBatchCommitError()
		return SubmitOutcome{}, fmt.Errorf("commit result batch: %w", err)
	}
	metrics.RecordBatchCommitLatency(float64(time.Since(commitStart).Milliseconds()))

	metrics.RecordResultSubmitted()
	metrics.RecordScoresWritten(len(teamIDs))
	for i := 0; i < carried; i++ {
		metrics.RecordCarryForward()
	}
	for i := 0; i < perfect; i++ {
		metrics.RecordPerfectSet()
	}

	s.mu.Lock()
	s.resultsTotal++
	s.mu.Unlock()

	s.logger.Info(ctx, "result recorded",
		logger.String("eventID", req.EventID),
		logger.String("submitterID", req.SubmitterID),
		logger.Int("teamsScored", len(teamIDs)),
		logger.Int("carriedForward", carried),
	)

	outcome := SubmitOutcome{
		EventID:       req.EventID,
		ScoresWritten: len(teamIDs),
		CarriedTeams:  carried,
	}

	table, err := s.Standings(ctx)
	if err != nil {
		// The batch is durable at this point; surface the partial outcome.
		s.logger.Warn(ctx, "standings aggregation failed after commit",
			logger.String("eventID", req.EventID),
			logger.Error(err),
		)
		return outcome, fmt.Errorf("%w: %w", ErrStandingsUnavailable, err)
	}
	outcome.Standings = table

	return outcome, nil
}

// scoreAll fans resolved predictions out across the worker pool and collects
// one breakdown per team. Scoring is pure CPU work, so workers need no
// cancellation plumbing.
func (s *Service) scoreAll(resolved map[string]resolve.Resolved, order [model.SlotCount]string) map[string]scoring.Breakdown {
	type scored struct {
		teamID    string
		breakdown scoring.Breakdown
	}

	jobs := make(chan resolve.Resolved)
	results := make(chan scored, len(resolved))

	var wg sync.WaitGroup
	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range jobs {
				results <- scored{teamID: r.TeamID, breakdown: s.engine.Score(r.Slots, order)}
			}
		}()
	}

	for _, r := range resolved {
		jobs <- r
	}
	close(jobs)
	wg.Wait()
	close(results)

	breakdowns := make(map[string]scoring.Breakdown, len(resolved))
	for sc := range results {
		breakdowns[sc.teamID] = sc.breakdown
	}
	return breakdowns
}

// Standings aggregates the league table across every score ever written.
func (s *Service) Standings(ctx context.Context) ([]model.StandingEntry, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	start := time.Now()

	scores, err := s.store.Scores(ctx)
	if err != nil {
		metrics.RecordStoreError()
		metrics.RecordStandingsError()
		return nil, fmt.Errorf("read scores: %w", err)
	}

	snap, err := s.directory.Snapshot(ctx)
	if err != nil {
		metrics.RecordStandingsError()
		return nil, err
	}

	table := s.aggregator.Aggregate(ctx, scores, snap)

	metrics.RecordStandingsLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateTeamsRanked(len(table))

	return table, nil
}

// ScoresForEvent returns the score documents written for one event, ordered
// by total descending with team id breaking ties.
func (s *Service) ScoresForEvent(ctx context.Context, eventID string) ([]model.Score, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	if eventID == "" {
		return nil, ErrMissingEventID
	}

	scores, err := s.store.ScoresByEvent(ctx, eventID)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("read scores for event: %w", err)
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Total != scores[j].Total {
			return scores[i].Total > scores[j].Total
		}
		return scores[i].TeamID < scores[j].TeamID
	})

	return scores, nil
}

// ResultForEvent returns the official result recorded for one event.
// Returns docstore.ErrNotFound when the event has not been scored.
func (s *Service) ResultForEvent(ctx context.Context, eventID string) (model.RaceResult, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return model.RaceResult{}, ErrNotStarted
	}
	if eventID == "" {
		return model.RaceResult{}, ErrMissingEventID
	}

	return s.store.Result(ctx, eventID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"resultsTotal": s.resultsTotal,
	}

	if s.started {
		ctx := context.Background()
		if teams, err := s.store.Teams(ctx); err == nil {
			stats["teamsRegistered"] = len(teams)
		}
		if audits, err := s.store.Audits(ctx); err == nil {
			stats["auditRecords"] = len(audits)
		}
	}

	return stats
}
