// Package repository holds the session state the matching engine works on:
// the current roster, relationships and the last assignment audit.
package repository

import "github.com/okian/matchmaker/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithInitialCapacity preallocates room for n relationships.
func WithInitialCapacity(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.rels = make([]model.Relationship, 0, n)
		}
	}
}
