// Package pairing holds the operator mutations applied after an assignment
// pass: moving a relationship to another provider and creating a pairing by
// hand. Both rescore with the same scorer the assignment uses.
//
// A provider's load is its ExistingLoad plus the relationships counted
// against it in the caller-supplied set. Nothing here locks; callers that
// mutate concurrently must serialize per provider.
package pairing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/matchmaker/internal/domain/model"
	"github.com/okian/matchmaker/internal/domain/scoring"
)

// Roster indexes the two populations by ID.
type Roster struct {
	providers []model.Provider
	seekers   []model.Seeker
	byProv    map[string]int
	bySeeker  map[string]int

	scorer scoring.Scorer
	newID  func() string
	now    func() time.Time
}

// NewRoster builds a roster. When IDs repeat, the last entry wins lookups.
func NewRoster(providers []model.Provider, seekers []model.Seeker, opts ...Option) *Roster {
	r := &Roster{
		providers: providers,
		seekers:   seekers,
		byProv:    make(map[string]int, len(providers)),
		bySeeker:  make(map[string]int, len(seekers)),
		scorer:    scoring.Default,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for i, p := range providers {
		r.byProv[p.ID] = i
	}
	for i, s := range seekers {
		r.bySeeker[s.ID] = i
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers returns the providers in roster order.
func (r *Roster) Providers() []model.Provider { return r.providers }

// Seekers returns the seekers in roster order.
func (r *Roster) Seekers() []model.Seeker { return r.seekers }

// Provider looks up a provider by ID.
func (r *Roster) Provider(id string) (model.Provider, error) {
	i, ok := r.byProv[id]
	if !ok {
		return model.Provider{}, fmt.Errorf("%w %q", ErrUnknownProvider, id)
	}
	return r.providers[i], nil
}

// Seeker looks up a seeker by ID.
func (r *Roster) Seeker(id string) (model.Seeker, error) {
	i, ok := r.bySeeker[id]
	if !ok {
		return model.Seeker{}, fmt.Errorf("%w %q", ErrUnknownSeeker, id)
	}
	return r.seekers[i], nil
}

// LoadsFrom counts relationships per provider.
func LoadsFrom(rels []model.Relationship) map[string]int {
	loads := make(map[string]int)
	for _, rel := range rels {
		loads[rel.ProviderID]++
	}
	return loads
}

// Loads returns ExistingLoad plus counted relationships for every provider
// in the roster.
func (r *Roster) Loads(current []model.Relationship) map[string]int {
	counted := LoadsFrom(current)
	loads := make(map[string]int, len(r.providers))
	for _, p := range r.providers {
		loads[p.ID] = p.ExistingLoad + counted[p.ID]
	}
	return loads
}

// loadExcluding counts the provider's load without the relationship with
// ID skip. An empty skip excludes nothing.
func loadExcluding(p model.Provider, current []model.Relationship, skip string) int {
	load := p.ExistingLoad
	for _, rel := range current {
		if rel.ProviderID == p.ID && (skip == "" || rel.ID != skip) {
			load++
		}
	}
	return load
}

// Score scores a provider/seeker pair by ID at the given load.
func (r *Roster) Score(providerID, seekerID string, load int) (scoring.Result, error) {
	p, err := r.Provider(providerID)
	if err != nil {
		return scoring.Result{}, err
	}
	s, err := r.Seeker(seekerID)
	if err != nil {
		return scoring.Result{}, err
	}
	return r.scorer.Score(p, s, load), nil
}

// Swap moves rel to newProviderID and rescores it. The load of the new
// provider excludes rel itself, so swapping to the same provider refills the
// vacated slot instead of adding to it. Capacity is not enforced; use
// SwapCandidates to pre-filter.
func (r *Roster) Swap(rel model.Relationship, newProviderID string, current []model.Relationship) (model.Relationship, error) {
	p, err := r.Provider(newProviderID)
	if err != nil {
		return rel, err
	}
	s, err := r.Seeker(rel.SeekerID)
	if err != nil {
		return rel, err
	}
	res := r.scorer.Score(p, s, loadExcluding(p, current, rel.ID))

	rel.ProviderID = p.ID
	rel.Score = res.Score
	rel.Factors = res.Factors
	rel.UpdatedAt = r.now()
	return rel, nil
}

// SwapCandidates lists providers rel could move to: those with room once rel
// is discounted, plus its current provider, in roster order.
func (r *Roster) SwapCandidates(rel model.Relationship, current []model.Relationship) ([]string, error) {
	if _, err := r.Seeker(rel.SeekerID); err != nil {
		return nil, err
	}
	var out []string
	for _, p := range r.providers {
		if p.ID == rel.ProviderID || loadExcluding(p, current, rel.ID) < p.Capacity {
			out = append(out, p.ID)
		}
	}
	return out, nil
}

// ManualResult is a hand-made pairing plus the capacity context the caller
// needs to warn the operator.
type ManualResult struct {
	Relationship model.Relationship
	// Load is the provider's load before this pairing.
	Load     int
	Capacity int
	// OverCapacity is set when the provider was already at or over capacity.
	OverCapacity bool
}

// CreateManual pairs providerID with seekerID outside the algorithm. The
// score is informational: neither a full provider nor an already paired
// seeker blocks creation.
func (r *Roster) CreateManual(providerID, seekerID string, current []model.Relationship, justification string) (ManualResult, error) {
	p, err := r.Provider(providerID)
	if err != nil {
		return ManualResult{}, err
	}
	s, err := r.Seeker(seekerID)
	if err != nil {
		return ManualResult{}, err
	}
	load := loadExcluding(p, current, "")
	res := r.scorer.Score(p, s, load)

	now := r.now()
	return ManualResult{
		Relationship: model.Relationship{
			ID:            r.newID(),
			ProviderID:    p.ID,
			SeekerID:      s.ID,
			Score:         res.Score,
			Status:        model.StatusNotContacted,
			Factors:       res.Factors,
			Origin:        model.OriginManual,
			Justification: justification,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		Load:         load,
		Capacity:     p.Capacity,
		OverCapacity: load >= p.Capacity,
	}, nil
}
