// Package repository holds the session state the matching engine works on:
// the current roster, relationships and the last assignment audit.
package repository

import (
	"context"

	"github.com/okian/matchmaker/internal/domain/model"
)

// Store provides read/write access to session state. Implementations return
// copies so callers cannot mutate stored state by accident.
type Store interface {
	// ReplaceRoster swaps in new populations. Relationships and audit are kept;
	// call Reset to drop them.
	ReplaceRoster(ctx context.Context, providers []model.Provider, seekers []model.Seeker)
	// Roster returns the current populations.
	Roster(ctx context.Context) ([]model.Provider, []model.Seeker)

	// Relationships returns all relationships in creation order.
	Relationships(ctx context.Context) []model.Relationship
	// Relationship returns one relationship or ErrNotFound.
	Relationship(ctx context.Context, id string) (model.Relationship, error)
	// AddRelationships appends relationships. Returns ErrDuplicateID if any ID exists.
	AddRelationships(ctx context.Context, rels ...model.Relationship) error
	// UpdateRelationship replaces a stored relationship by ID or returns ErrNotFound.
	UpdateRelationship(ctx context.Context, rel model.Relationship) error

	// SetAudit replaces the audit trail of the last assignment pass.
	SetAudit(ctx context.Context, records []model.ScoreRecord)
	// Audit returns the audit trail of the last assignment pass.
	Audit(ctx context.Context) []model.ScoreRecord

	// Reset drops relationships and audit, keeping the roster.
	Reset(ctx context.Context)
	// Count returns the number of stored relationships.
	Count(ctx context.Context) int
}
