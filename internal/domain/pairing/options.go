package pairing

import (
	"time"

	"github.com/okian/matchmaker/internal/domain/scoring"
)

// Option applies a configuration option to a Roster.
type Option func(*Roster)

// WithScorer replaces the default weighted scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(r *Roster) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithIDGenerator sets the relationship ID generator for manual pairings.
func WithIDGenerator(fn func() string) Option {
	return func(r *Roster) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// WithClock sets the time source for relationship timestamps.
func WithClock(fn func() time.Time) Option {
	return func(r *Roster) {
		if fn != nil {
			r.now = fn
		}
	}
}
