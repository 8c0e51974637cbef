package matching

import (
	"math/rand"
	"time"

	"github.com/okian/matchmaker/internal/domain/scoring"
)

// Option applies a configuration option to an Assign call.
type Option func(*options)

type options struct {
	rng           *rand.Rand
	scorer        scoring.Scorer
	existingLoads map[string]int
	newID         func() string
	now           func() time.Time
}

// WithRand sets the random source used to break priority ties.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// WithSeed seeds a fresh random source for tie-breaking. Equal seeds give
// identical outcomes for identical inputs.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // tie-breaking only
	}
}

// WithScorer replaces the default weighted scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(o *options) {
		if s != nil {
			o.scorer = s
		}
	}
}

// WithExistingLoads seeds provider loads by ID. An entry here overrides the
// provider's own ExistingLoad.
func WithExistingLoads(loads map[string]int) Option {
	return func(o *options) {
		o.existingLoads = loads
	}
}

// WithIDGenerator sets the relationship ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithClock sets the time source for relationship timestamps.
func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		if fn != nil {
			o.now = fn
		}
	}
}
