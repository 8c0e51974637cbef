// Package matching assigns seekers to providers with a single greedy pass.
//
// Seekers are visited in priority order (random within a priority band) and
// each one takes the highest-scoring provider that still has room and clears
// the threshold. A seeker's match is final once made, so a later seeker may
// find its best provider already full. The result is not a global optimum.
package matching

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okian/matchmaker/internal/domain/model"
	"github.com/okian/matchmaker/internal/domain/scoring"
)

// Outcome is the result of one assignment pass.
type Outcome struct {
	// Relationships created by this pass, in seeker processing order.
	Relationships []model.Relationship
	// Audit holds one record per provider/seeker pair evaluated.
	Audit []model.ScoreRecord
	// Unmatched lists seekers left without a provider, in processing order.
	Unmatched []string
	// Loads is the final per-provider load after the pass.
	Loads map[string]int
}

// Assign runs the greedy pass. A provider is eligible for a seeker when its
// load is below capacity and the pair scores at least threshold. Thresholds
// outside 0..100 are used as given: above 100 nothing matches, at or below 0
// only capacity limits matches.
func Assign(providers []model.Provider, seekers []model.Seeker, threshold int, opts ...Option) Outcome {
	o := options{
		scorer: scoring.Default,
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // tie-breaking only
	}

	loads := seedLoads(providers, o.existingLoads)
	order := orderSeekers(seekers, o.rng)

	out := Outcome{
		Audit: make([]model.ScoreRecord, 0, len(providers)*len(seekers)),
		Loads: loads,
	}
	for _, s := range order {
		best := -1
		var bestRes scoring.Result
		for i, p := range providers {
			res := o.scorer.Score(p, s, loads[p.ID])
			out.Audit = append(out.Audit, res.Record())
			if loads[p.ID] >= p.Capacity || res.Score < threshold {
				continue
			}
			if best < 0 || res.Score > bestRes.Score {
				best, bestRes = i, res
			}
		}
		if best < 0 {
			out.Unmatched = append(out.Unmatched, s.ID)
			continue
		}
		now := o.now()
		out.Relationships = append(out.Relationships, model.Relationship{
			ID:         o.newID(),
			ProviderID: providers[best].ID,
			SeekerID:   s.ID,
			Score:      bestRes.Score,
			Status:     model.StatusNotContacted,
			Factors:    bestRes.Factors,
			Origin:     model.OriginAlgorithm,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		loads[providers[best].ID]++
	}
	return out
}

func seedLoads(providers []model.Provider, existing map[string]int) map[string]int {
	loads := make(map[string]int, len(providers))
	for _, p := range providers {
		loads[p.ID] = p.ExistingLoad
		if n, ok := existing[p.ID]; ok {
			loads[p.ID] = n
		}
	}
	return loads
}

// orderSeekers sorts a copy of seekers by priority descending, then shuffles
// each run of equal priority.
func orderSeekers(seekers []model.Seeker, rng *rand.Rand) []model.Seeker {
	order := make([]model.Seeker, len(seekers))
	copy(order, seekers)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].EffectivePriority() > order[j].EffectivePriority()
	})
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && order[end].EffectivePriority() == order[start].EffectivePriority() {
			end++
		}
		band := order[start:end]
		rng.Shuffle(len(band), func(i, j int) { band[i], band[j] = band[j], band[i] })
		start = end
	}
	return order
}

// Unmatched returns the IDs of seekers with no relationship in rels, in
// input order.
func Unmatched(seekers []model.Seeker, rels []model.Relationship) []string {
	paired := make(map[string]struct{}, len(rels))
	for _, r := range rels {
		paired[r.SeekerID] = struct{}{}
	}
	var out []string
	for _, s := range seekers {
		if _, ok := paired[s.ID]; !ok {
			out = append(out, s.ID)
		}
	}
	return out
}
