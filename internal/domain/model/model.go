// Package model contains domain models passed between layers.
package model

import "time"

// Provider is a capacity-bounded helper that can hold several seekers.
type Provider struct {
	ID            string
	OfferedSkills TagSet
	Interests     TagSet
	Capacity      int // max concurrent seekers
	Availability  TagSet
	Location      *string // nil when unknown
	ExistingLoad  int     // assignments held before the current pass
}

// Seeker is a capacity-1 requester.
type Seeker struct {
	ID           string
	WantedSkills TagSet
	Interests    TagSet
	Availability TagSet
	Location     *string
	Priority     *int // nil means default priority
}

// DefaultPriority applies to seekers without an explicit priority.
const DefaultPriority = 0

// EffectivePriority returns the seeker priority or DefaultPriority when unset.
func (s Seeker) EffectivePriority() int {
	if s.Priority == nil {
		return DefaultPriority
	}
	return *s.Priority
}

// Origin records which path created a relationship.
type Origin string

// Relationship origins.
const (
	OriginAlgorithm Origin = "algorithm"
	OriginManual    Origin = "manual"
)

// Factor is one weighted term of a compatibility score.
type Factor struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`        // raw factor value in [0,1]
	Weight       float64 `json:"weight"`       // fixed share of the score scale
	Contribution float64 `json:"contribution"` // Value * Weight * 100
	Explanation  string  `json:"explanation"`
}

// ScoreRecord is one audit entry: a provider/seeker pair and how it scored.
type ScoreRecord struct {
	ProviderID string   `json:"provider_id"`
	SeekerID   string   `json:"seeker_id"`
	Score      int      `json:"score"`
	Factors    []Factor `json:"factors"`
}

// Relationship links one provider to one seeker.
type Relationship struct {
	ID            string    `json:"id"`
	ProviderID    string    `json:"provider_id"`
	SeekerID      string    `json:"seeker_id"`
	Score         int       `json:"score"`
	Status        Status    `json:"status"`
	Factors       []Factor  `json:"factors,omitempty"`
	Origin        Origin    `json:"origin"`
	Justification string    `json:"justification,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
