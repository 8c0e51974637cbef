// Package scoring computes provider/seeker compatibility scores.
//
// Scores are a weighted sum of five factors, scaled to 0..100 and rounded.
// The computation is pure: the same provider, seeker and load always yield
// the same result.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/matchmaker/internal/domain/model"
)

// Factor names as they appear in the audit trail.
const (
	FactorSkill        = "skill_match"
	FactorInterest     = "interest_match"
	FactorAvailability = "availability_overlap"
	FactorLocation     = "location_match"
	FactorCapacity     = "capacity_fitness"
)

// Factor weights. They sum to 1.0.
const (
	WeightSkill        = 0.40
	WeightInterest     = 0.20
	WeightAvailability = 0.20
	WeightLocation     = 0.10
	WeightCapacity     = 0.10
)

// Capacity fitness values.
const (
	capacityOpen = 1.0
	capacityFull = 0.2
	capacityOver = 0.0
)

const (
	minScoreValue = 0
	maxScoreValue = 100
	scoreScale    = 100
	// Sums are snapped to this precision before rounding so float error
	// cannot push an exact .5 total below the boundary.
	sumPrecision  = 1e6
)

// Result contains the computed score for a provider/seeker pair.
type Result struct {
	ProviderID string
	SeekerID   string
	Score      int
	Factors    []model.Factor
}

// Record converts the result into an audit entry.
func (r Result) Record() model.ScoreRecord {
	return model.ScoreRecord{
		ProviderID: r.ProviderID,
		SeekerID:   r.SeekerID,
		Score:      r.Score,
		Factors:    r.Factors,
	}
}

// Explanations returns the per-factor explanation strings in factor order.
func (r Result) Explanations() []string {
	out := make([]string, len(r.Factors))
	for i, f := range r.Factors {
		out[i] = f.Explanation
	}
	return out
}

// Scorer computes a score for a provider/seeker pair given the provider's
// current load.
type Scorer interface {
	Score(p model.Provider, s model.Seeker, load int) Result
}

// Func adapts a plain function to Scorer.
type Func func(p model.Provider, s model.Seeker, load int) Result

// Score calls f.
func (f Func) Score(p model.Provider, s model.Seeker, load int) Result { return f(p, s, load) }

// Default is the weighted five-factor scorer.
var Default Scorer = Func(Score)

// Score computes the compatibility of p and s when p already holds load seekers.
func Score(p model.Provider, s model.Seeker, load int) Result {
	factors := []model.Factor{
		skillFactor(p, s),
		interestFactor(p, s),
		availabilityFactor(p, s),
		locationFactor(p, s),
		capacityFactor(p, load),
	}

	var total float64
	for i := range factors {
		factors[i].Contribution = factors[i].Value * factors[i].Weight * scoreScale
		total += factors[i].Contribution
	}

	return Result{
		ProviderID: p.ID,
		SeekerID:   s.ID,
		Score:      clamp(roundTotal(total)),
		Factors:    factors,
	}
}

// Jaccard returns |a ∩ b| / |a ∪ b|. Two empty sets score 0 so that
// missing data never inflates a match.
func Jaccard(a, b model.TagSet) float64 {
	union := a.UnionLen(b)
	if union == 0 {
		return 0
	}
	return float64(len(a.Intersect(b))) / float64(union)
}

func skillFactor(p model.Provider, s model.Seeker) model.Factor {
	f := model.Factor{Name: FactorSkill, Weight: WeightSkill}
	if p.OfferedSkills.Len() == 0 && s.WantedSkills.Len() == 0 {
		f.Explanation = "no skills listed on either side"
		return f
	}
	f.Value = Jaccard(p.OfferedSkills, s.WantedSkills)
	shared := p.OfferedSkills.Intersect(s.WantedSkills)
	f.Explanation = fmt.Sprintf("%d%% skill overlap", percent(f.Value))
	if len(shared) > 0 {
		f.Explanation += " (" + strings.Join(shared, ", ") + ")"
	}
	return f
}

func interestFactor(p model.Provider, s model.Seeker) model.Factor {
	f := model.Factor{Name: FactorInterest, Weight: WeightInterest}
	if p.Interests.Len() == 0 && s.Interests.Len() == 0 {
		f.Explanation = "no interests listed on either side"
		return f
	}
	f.Value = Jaccard(p.Interests, s.Interests)
	shared := p.Interests.Intersect(s.Interests)
	f.Explanation = fmt.Sprintf("%d%% interest overlap", percent(f.Value))
	if len(shared) > 0 {
		f.Explanation += " (" + strings.Join(shared, ", ") + ")"
	}
	return f
}

func availabilityFactor(p model.Provider, s model.Seeker) model.Factor {
	f := model.Factor{Name: FactorAvailability, Weight: WeightAvailability}
	shared := p.Availability.Intersect(s.Availability)
	if len(shared) == 0 {
		f.Explanation = "no shared availability"
		return f
	}
	f.Value = 1
	f.Explanation = "shared availability: " + strings.Join(shared, ", ")
	return f
}

func locationFactor(p model.Provider, s model.Seeker) model.Factor {
	f := model.Factor{Name: FactorLocation, Weight: WeightLocation}
	pl, sl := normalizedLocation(p.Location), normalizedLocation(s.Location)
	switch {
	case pl == "" || sl == "":
		f.Explanation = "location unknown"
	case pl == sl:
		f.Value = 1
		f.Explanation = "same location: " + pl
	default:
		f.Explanation = "different locations"
	}
	return f
}

func capacityFactor(p model.Provider, load int) model.Factor {
	f := model.Factor{Name: FactorCapacity, Weight: WeightCapacity}
	switch {
	case load < p.Capacity:
		f.Value = capacityOpen
		f.Explanation = fmt.Sprintf("open capacity (%d of %d used)", load, p.Capacity)
	case load == p.Capacity:
		f.Value = capacityFull
		f.Explanation = fmt.Sprintf("at capacity (%d of %d used)", load, p.Capacity)
	default:
		f.Value = capacityOver
		f.Explanation = fmt.Sprintf("over capacity (%d of %d used)", load, p.Capacity)
	}
	return f
}

func normalizedLocation(loc *string) string {
	if loc == nil {
		return ""
	}
	return model.NormalizeLabel(*loc)
}

func roundTotal(total float64) int {
	return int(math.Round(math.Round(total*sumPrecision) / sumPrecision))
}

func percent(v float64) int {
	return int(math.Round(v * scoreScale))
}

func clamp(score int) int {
	return max(minScoreValue, min(maxScoreValue, score))
}
