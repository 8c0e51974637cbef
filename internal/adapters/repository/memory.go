package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/matchmaker/internal/domain/model"
	"github.com/okian/matchmaker/pkg/metrics"
)

// MemoryStore is an in-memory Store guarded by a RWMutex.
type MemoryStore struct {
	mu        sync.RWMutex
	providers []model.Provider
	seekers   []model.Seeker
	rels      []model.Relationship
	byID      map[string]int // relationship id -> index in rels
	audit     []model.ScoreRecord
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]int)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) ReplaceRoster(_ context.Context, providers []model.Provider, seekers []model.Seeker) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.providers = append([]model.Provider(nil), providers...)
	s.seekers = append([]model.Seeker(nil), seekers...)
	metrics.UpdateRosterSize(len(s.providers), len(s.seekers))
	metrics.RecordRepositoryUpdateLatency(sinceMs(start))
}

func (s *MemoryStore) Roster(_ context.Context) ([]model.Provider, []model.Seeker) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.Provider(nil), s.providers...), append([]model.Seeker(nil), s.seekers...)
}

func (s *MemoryStore) Relationships(_ context.Context) []model.Relationship {
	start := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Relationship, len(s.rels))
	copy(out, s.rels)
	metrics.RecordRepositoryQueryLatency(sinceMs(start))
	return out
}

func (s *MemoryStore) Relationship(_ context.Context, id string) (model.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return model.Relationship{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s.rels[i], nil
}

func (s *MemoryStore) AddRelationships(_ context.Context, rels ...model.Relationship) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(rels))
	for _, r := range rels {
		_, stored := s.byID[r.ID]
		_, repeated := batch[r.ID]
		if stored || repeated {
			return fmt.Errorf("%w: %q", ErrDuplicateID, r.ID)
		}
		batch[r.ID] = struct{}{}
	}
	for _, r := range rels {
		s.byID[r.ID] = len(s.rels)
		s.rels = append(s.rels, r)
	}
	metrics.UpdateRelationshipsTotal(len(s.rels))
	metrics.RecordRepositoryUpdateLatency(sinceMs(start))
	return nil
}

func (s *MemoryStore) UpdateRelationship(_ context.Context, rel model.Relationship) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[rel.ID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, rel.ID)
	}
	s.rels[i] = rel
	metrics.RecordRepositoryUpdateLatency(sinceMs(start))
	return nil
}

func (s *MemoryStore) SetAudit(_ context.Context, records []model.ScoreRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audit = append([]model.ScoreRecord(nil), records...)
}

func (s *MemoryStore) Audit(_ context.Context) []model.ScoreRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.ScoreRecord(nil), s.audit...)
}

func (s *MemoryStore) Reset(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rels = nil
	s.byID = make(map[string]int)
	s.audit = nil
	metrics.UpdateRelationshipsTotal(0)
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rels)
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
