package service

import (
	"math/rand"
	"time"

	repository "github.com/okian/matchmaker/internal/adapters/repository"
	"github.com/okian/matchmaker/internal/domain/scoring"
	"github.com/okian/matchmaker/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultThreshold sets the threshold used when a run does not pass one.
func WithDefaultThreshold(threshold int) Option {
	return func(s *Service) {
		s.defaultThreshold = threshold
	}
}

// WithSeed seeds the equal-priority shuffle. Zero keeps the clock seed.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		if seed != 0 {
			s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // tie-breaking only
		}
	}
}

// WithRand sets the random source used by assignment runs.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithDedupeSize sets the size of the manual-pairing request ID cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStore replaces the in-memory session store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScorer replaces the weighted scorer for runs and mutations alike.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithClock sets the time source for relationship timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithIDGenerator sets the relationship ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}
