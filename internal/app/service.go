// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/matchmaker/internal/adapters/repository"
	"github.com/okian/matchmaker/internal/domain/dedupe"
	"github.com/okian/matchmaker/internal/domain/matching"
	"github.com/okian/matchmaker/internal/domain/model"
	"github.com/okian/matchmaker/internal/domain/pairing"
	"github.com/okian/matchmaker/internal/domain/scoring"
	"github.com/okian/matchmaker/internal/domain/types"
	"github.com/okian/matchmaker/pkg/logger"
	"github.com/okian/matchmaker/pkg/metrics"
)

const warningOverCapacity = "provider over capacity"

// Service owns one matching session: the roster, the relationships built on
// it and the audit of the last assignment run. Every mutation holds mu, so
// loads read for scoring cannot change underneath an operation.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper
	scorer  scoring.Scorer

	// Configuration
	defaultThreshold int
	dedupeSize       int
	rng              *rand.Rand
	newID            func() string
	now              func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// ManualRequest asks for a hand-made pairing. RequestID is optional; a
// repeated non-empty RequestID returns the relationship created the first time.
type ManualRequest struct {
	ProviderID    string
	SeekerID      string
	Justification string
	RequestID     string
}

// ManualResult is the created (or replayed) relationship plus the capacity
// context for the operator warning.
type ManualResult struct {
	Relationship model.Relationship
	Load         int
	Capacity     int
	OverCapacity bool
	Warning      string
	Duplicate    bool
}

// AuditFilter narrows the audit trail. Empty fields match everything.
type AuditFilter struct {
	SeekerID   string
	ProviderID string
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultThreshold: 40,
		dedupeSize:       10_000,
		scorer:           scoring.Default,
		newID:            uuid.NewString,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // tie-breaking only
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))

	s.started = true
	s.logger.Info(ctx, "matchmaker service started",
		logger.Int("defaultThreshold", s.defaultThreshold),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop marks the service stopped. Session state is kept.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "matchmaker service stopped")
}

// LoadRoster validates and replaces both populations. Existing relationships
// are kept so newly added seekers can be assigned on the next run.
func (s *Service) LoadRoster(ctx context.Context, roster types.Roster) error {
	if err := roster.Validate(); err != nil {
		metrics.RecordErrorByComponent("service", "invalid_roster")
		return err
	}
	providers, seekers := roster.ToModel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}

	s.store.ReplaceRoster(ctx, providers, seekers)
	s.logger.Info(ctx, "roster loaded",
		logger.Int("providers", len(providers)),
		logger.Int("seekers", len(seekers)),
	)
	return nil
}

// Roster returns the current populations in wire form.
func (s *Service) Roster(ctx context.Context) (types.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.Roster{}, ErrNotStarted
	}

	providers, seekers := s.store.Roster(ctx)
	out := types.Roster{
		Providers: make([]types.Provider, len(providers)),
		Seekers:   make([]types.Seeker, len(seekers)),
	}
	for i, p := range providers {
		out.Providers[i] = types.FromProvider(p)
	}
	for i, sk := range seekers {
		out.Seekers[i] = types.FromSeeker(sk)
	}
	return out, nil
}

// RunAssignment runs the greedy pass over seekers that have no relationship
// yet. Provider loads start from ExistingLoad plus stored relationships. The
// new relationships are appended and the audit is replaced by this run's.
// A nil threshold uses the configured default.
func (s *Service) RunAssignment(ctx context.Context, threshold *int) (matching.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return matching.Outcome{}, ErrNotStarted
	}

	th := s.defaultThreshold
	if threshold != nil {
		th = *threshold
	}

	start := time.Now()
	providers, seekers := s.store.Roster(ctx)
	current := s.store.Relationships(ctx)
	roster := s.roster(providers, seekers)

	out := matching.Assign(providers, unpaired(seekers, current), th,
		matching.WithRand(s.rng),
		matching.WithScorer(s.scorer),
		matching.WithExistingLoads(roster.Loads(current)),
		matching.WithIDGenerator(s.newID),
		matching.WithClock(s.now),
	)

	if err := s.store.AddRelationships(ctx, out.Relationships...); err != nil {
		metrics.RecordErrorByComponent("service", "store")
		return matching.Outcome{}, fmt.Errorf("store relationships: %w", err)
	}
	s.store.SetAudit(ctx, out.Audit)

	for _, rel := range out.Relationships {
		metrics.RecordRelationshipCreated(string(rel.Origin), rel.Score)
	}
	elapsed := time.Since(start)
	metrics.RecordAssignmentRun(float64(elapsed.Nanoseconds())/1e6, len(out.Audit), len(out.Unmatched))

	s.logger.Info(ctx, "assignment run completed",
		logger.Int("threshold", th),
		logger.Int("created", len(out.Relationships)),
		logger.Int("unmatched", len(out.Unmatched)),
		logger.Int("scored", len(out.Audit)),
		logger.Duration("duration", elapsed),
	)
	if len(out.Unmatched) > 0 {
		s.logger.Debug(ctx, "seekers left unmatched", logger.Strings("unmatchedIDs", out.Unmatched))
	}
	return out, nil
}

// Swap moves a relationship to another provider and rescores it.
func (s *Service) Swap(ctx context.Context, relID, providerID string) (model.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return model.Relationship{}, ErrNotStarted
	}

	rel, err := s.store.Relationship(ctx, relID)
	if err != nil {
		return model.Relationship{}, err
	}
	providers, seekers := s.store.Roster(ctx)
	current := s.store.Relationships(ctx)

	updated, err := s.roster(providers, seekers).Swap(rel, providerID, current)
	if err != nil {
		metrics.RecordErrorByComponent("pairing", "swap")
		return model.Relationship{}, err
	}
	if err := s.store.UpdateRelationship(ctx, updated); err != nil {
		return model.Relationship{}, err
	}

	metrics.RecordSwap(updated.Score)
	s.logger.Info(ctx, "relationship swapped",
		logger.String("relationshipID", rel.ID),
		logger.String("from", rel.ProviderID),
		logger.String("to", updated.ProviderID),
		logger.Int("score", updated.Score),
	)
	return updated, nil
}

// SwapCandidates lists the providers a relationship may be moved to.
func (s *Service) SwapCandidates(ctx context.Context, relID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	rel, err := s.store.Relationship(ctx, relID)
	if err != nil {
		return nil, err
	}
	providers, seekers := s.store.Roster(ctx)
	return s.roster(providers, seekers).SwapCandidates(rel, s.store.Relationships(ctx))
}

// CreateManual pairs a provider and seeker by hand. A full provider does not
// block creation; the result carries a warning instead.
func (s *Service) CreateManual(ctx context.Context, req ManualRequest) (ManualResult, error) {
	req.ProviderID = strings.TrimSpace(req.ProviderID)
	req.SeekerID = strings.TrimSpace(req.SeekerID)
	if req.ProviderID == "" || req.SeekerID == "" {
		return ManualResult{}, fmt.Errorf("%w: provider_id and seeker_id are required", ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ManualResult{}, ErrNotStarted
	}

	if req.RequestID != "" {
		if s.deduper.SeenAndRecord(ctx, req.RequestID) {
			return s.replay(ctx, req.RequestID)
		}
	}

	providers, seekers := s.store.Roster(ctx)
	current := s.store.Relationships(ctx)
	res, err := s.roster(providers, seekers).CreateManual(req.ProviderID, req.SeekerID, current, req.Justification)
	if err == nil {
		err = s.store.AddRelationships(ctx, res.Relationship)
	}
	if err != nil {
		if req.RequestID != "" {
			s.deduper.Unrecord(ctx, req.RequestID)
		}
		metrics.RecordErrorByComponent("pairing", "manual")
		return ManualResult{}, err
	}
	if req.RequestID != "" {
		s.deduper.Bind(ctx, req.RequestID, res.Relationship.ID)
	}

	out := ManualResult{
		Relationship: res.Relationship,
		Load:         res.Load,
		Capacity:     res.Capacity,
		OverCapacity: res.OverCapacity,
	}
	metrics.RecordRelationshipCreated(string(model.OriginManual), res.Relationship.Score)
	if res.OverCapacity {
		out.Warning = warningOverCapacity
		metrics.RecordManualOverCapacity()
		s.logger.Warn(ctx, "manual pairing exceeds provider capacity",
			logger.String("providerID", req.ProviderID),
			logger.String("seekerID", req.SeekerID),
			logger.Int("load", res.Load),
			logger.Int("capacity", res.Capacity),
			logger.String("justification", req.Justification),
		)
	} else {
		s.logger.Info(ctx, "manual pairing created",
			logger.String("relationshipID", res.Relationship.ID),
			logger.String("providerID", req.ProviderID),
			logger.String("seekerID", req.SeekerID),
			logger.Bool("hasJustification", strings.TrimSpace(req.Justification) != ""),
		)
	}
	return out, nil
}

// replay returns the relationship bound to a repeated request ID. Must be
// called with mu held.
func (s *Service) replay(ctx context.Context, requestID string) (ManualResult, error) {
	metrics.RecordDuplicateRequest()
	s.logger.Debug(ctx, "duplicate manual pairing request", logger.String("requestID", requestID))

	relID, ok := s.deduper.Result(ctx, requestID)
	if !ok {
		return ManualResult{Duplicate: true}, nil
	}
	rel, err := s.store.Relationship(ctx, relID)
	if err != nil {
		// Dropped by a reset since; report the replay without a body.
		return ManualResult{Duplicate: true}, nil
	}
	return ManualResult{Relationship: rel, Duplicate: true}, nil
}

// UpdateStatus sets a relationship's status directly.
func (s *Service) UpdateStatus(ctx context.Context, relID, status string) (model.Relationship, error) {
	st, err := model.ParseStatus(status)
	if err != nil {
		return model.Relationship{}, err
	}
	return s.mutateStatus(ctx, relID, func(rel *model.Relationship) error {
		return rel.SetStatus(st)
	})
}

// AdvanceStatus moves a relationship one step along its lifecycle.
func (s *Service) AdvanceStatus(ctx context.Context, relID string) (model.Relationship, error) {
	return s.mutateStatus(ctx, relID, func(rel *model.Relationship) error {
		return rel.Advance()
	})
}

func (s *Service) mutateStatus(ctx context.Context, relID string, apply func(*model.Relationship) error) (model.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return model.Relationship{}, ErrNotStarted
	}

	rel, err := s.store.Relationship(ctx, relID)
	if err != nil {
		return model.Relationship{}, err
	}
	from := rel.Status
	if err := apply(&rel); err != nil {
		return model.Relationship{}, err
	}
	rel.UpdatedAt = s.now()
	if err := s.store.UpdateRelationship(ctx, rel); err != nil {
		return model.Relationship{}, err
	}

	metrics.RecordStatusTransition(string(from), string(rel.Status))
	s.logger.Debug(ctx, "relationship status changed",
		logger.String("relationshipID", rel.ID),
		logger.String("from", string(from)),
		logger.String("to", string(rel.Status)),
	)
	return rel, nil
}

// Relationships returns all relationships in creation order.
func (s *Service) Relationships(ctx context.Context) ([]model.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store.Relationships(ctx), nil
}

// Relationship returns one relationship by ID.
func (s *Service) Relationship(ctx context.Context, id string) (model.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.Relationship{}, ErrNotStarted
	}
	return s.store.Relationship(ctx, id)
}

// Audit returns the last run's score records matching filter.
func (s *Service) Audit(ctx context.Context, filter AuditFilter) ([]model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	records := s.store.Audit(ctx)
	if filter.SeekerID == "" && filter.ProviderID == "" {
		return records, nil
	}
	out := make([]model.ScoreRecord, 0)
	for _, rec := range records {
		if filter.SeekerID != "" && rec.SeekerID != filter.SeekerID {
			continue
		}
		if filter.ProviderID != "" && rec.ProviderID != filter.ProviderID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Unmatched lists roster seekers without any relationship, in roster order.
func (s *Service) Unmatched(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	_, seekers := s.store.Roster(ctx)
	return matching.Unmatched(seekers, s.store.Relationships(ctx)), nil
}

// Score previews a pair's score. A nil load uses the provider's current load.
func (s *Service) Score(ctx context.Context, providerID, seekerID string, load *int) (types.ScoreBreakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.ScoreBreakdown{}, ErrNotStarted
	}

	providers, seekers := s.store.Roster(ctx)
	roster := s.roster(providers, seekers)
	var n int
	if load != nil {
		n = *load
	} else {
		n = roster.Loads(s.store.Relationships(ctx))[providerID]
	}
	res, err := roster.Score(providerID, seekerID, n)
	if err != nil {
		return types.ScoreBreakdown{}, err
	}
	return types.ScoreBreakdown{
		ProviderID:   res.ProviderID,
		SeekerID:     res.SeekerID,
		Load:         n,
		Score:        res.Score,
		Factors:      res.Factors,
		Explanations: res.Explanations(),
	}, nil
}

// Reset drops all relationships and the audit. The roster is kept.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	dropped := s.store.Count(ctx)
	s.store.Reset(ctx)
	s.logger.Info(ctx, "session reset", logger.Int("dropped", dropped))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"defaultThreshold": s.defaultThreshold,
		"dedupeSize":       s.dedupeSize,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	providers, seekers := s.store.Roster(ctx)
	rels := s.store.Relationships(ctx)
	byStatus := map[string]int{
		string(model.StatusNotContacted): 0,
		string(model.StatusContacted):    0,
		string(model.StatusConfirmed):    0,
	}
	manual := 0
	for _, rel := range rels {
		byStatus[string(rel.Status)]++
		if rel.Origin == model.OriginManual {
			manual++
		}
	}

	stats["providers"] = len(providers)
	stats["seekers"] = len(seekers)
	stats["relationships"] = len(rels)
	stats["manualRelationships"] = manual
	stats["unmatched"] = len(matching.Unmatched(seekers, rels))
	stats["byStatus"] = byStatus
	stats["auditSize"] = len(s.store.Audit(ctx))
	stats["seenRequests"] = s.deduper.Size()
	return stats
}

func (s *Service) roster(providers []model.Provider, seekers []model.Seeker) *pairing.Roster {
	return pairing.NewRoster(providers, seekers,
		pairing.WithScorer(s.scorer),
		pairing.WithIDGenerator(s.newID),
		pairing.WithClock(s.now),
	)
}

// unpaired keeps seekers with no relationship, preserving order.
func unpaired(seekers []model.Seeker, rels []model.Relationship) []model.Seeker {
	ids := matching.Unmatched(seekers, rels)
	if len(ids) == len(seekers) {
		return seekers
	}
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := make([]model.Seeker, 0, len(ids))
	for _, sk := range seekers {
		if _, ok := keep[sk.ID]; ok {
			out = append(out, sk)
		}
	}
	return out
}
