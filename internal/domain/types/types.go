// Package types contains the wire shapes shared by the HTTP API and the CLI.
package types

import (
	"fmt"
	"strings"

	"github.com/okian/matchmaker/internal/domain/model"
)

// Provider is the external form of model.Provider.
type Provider struct {
	ID            string   `json:"id" yaml:"id"`
	OfferedSkills []string `json:"offered_skills" yaml:"offered_skills"`
	Interests     []string `json:"interests" yaml:"interests"`
	Capacity      int      `json:"capacity" yaml:"capacity"`
	Availability  []string `json:"availability" yaml:"availability"`
	Location      *string  `json:"location,omitempty" yaml:"location,omitempty"`
	ExistingLoad  int      `json:"existing_load,omitempty" yaml:"existing_load,omitempty"`
}

// Seeker is the external form of model.Seeker.
type Seeker struct {
	ID           string   `json:"id" yaml:"id"`
	WantedSkills []string `json:"wanted_skills" yaml:"wanted_skills"`
	Interests    []string `json:"interests" yaml:"interests"`
	Availability []string `json:"availability" yaml:"availability"`
	Location     *string  `json:"location,omitempty" yaml:"location,omitempty"`
	Priority     *int     `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Roster is a full import of both populations.
type Roster struct {
	Providers []Provider `json:"providers" yaml:"providers"`
	Seekers   []Seeker   `json:"seekers" yaml:"seekers"`
}

// Outcome is the external form of an assignment pass.
type Outcome struct {
	Relationships []model.Relationship `json:"relationships"`
	Unmatched     []string             `json:"unmatched"`
	AuditSize     int                  `json:"audit_size"`
	Audit         []model.ScoreRecord  `json:"audit,omitempty"`
}

// ToModel converts to the domain type.
func (p Provider) ToModel() model.Provider {
	return model.Provider{
		ID:            strings.TrimSpace(p.ID),
		OfferedSkills: model.NewTagSet(p.OfferedSkills...),
		Interests:     model.NewTagSet(p.Interests...),
		Capacity:      p.Capacity,
		Availability:  model.NewTagSet(p.Availability...),
		Location:      p.Location,
		ExistingLoad:  p.ExistingLoad,
	}
}

// ToModel converts to the domain type.
func (s Seeker) ToModel() model.Seeker {
	return model.Seeker{
		ID:           strings.TrimSpace(s.ID),
		WantedSkills: model.NewTagSet(s.WantedSkills...),
		Interests:    model.NewTagSet(s.Interests...),
		Availability: model.NewTagSet(s.Availability...),
		Location:     s.Location,
		Priority:     s.Priority,
	}
}

// FromProvider converts a domain provider to its wire form.
func FromProvider(p model.Provider) Provider {
	return Provider{
		ID:            p.ID,
		OfferedSkills: p.OfferedSkills.Values(),
		Interests:     p.Interests.Values(),
		Capacity:      p.Capacity,
		Availability:  p.Availability.Values(),
		Location:      p.Location,
		ExistingLoad:  p.ExistingLoad,
	}
}

// FromSeeker converts a domain seeker to its wire form.
func FromSeeker(s model.Seeker) Seeker {
	return Seeker{
		ID:           s.ID,
		WantedSkills: s.WantedSkills.Values(),
		Interests:    s.Interests.Values(),
		Availability: s.Availability.Values(),
		Location:     s.Location,
		Priority:     s.Priority,
	}
}

// Validate checks the structural rules the engine relies on: non-empty
// unique IDs per population, positive capacity and non-negative load.
func (r Roster) Validate() error {
	seen := make(map[string]struct{}, len(r.Providers))
	for i, p := range r.Providers {
		id := strings.TrimSpace(p.ID)
		switch {
		case id == "":
			return fmt.Errorf("%w: provider #%d has no id", ErrInvalidRoster, i)
		case p.Capacity < 1:
			return fmt.Errorf("%w: provider %q capacity must be positive", ErrInvalidRoster, id)
		case p.ExistingLoad < 0:
			return fmt.Errorf("%w: provider %q existing_load must not be negative", ErrInvalidRoster, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate provider id %q", ErrInvalidRoster, id)
		}
		seen[id] = struct{}{}
	}
	seen = make(map[string]struct{}, len(r.Seekers))
	for i, s := range r.Seekers {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return fmt.Errorf("%w: seeker #%d has no id", ErrInvalidRoster, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate seeker id %q", ErrInvalidRoster, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ToModel converts both populations.
func (r Roster) ToModel() ([]model.Provider, []model.Seeker) {
	providers := make([]model.Provider, len(r.Providers))
	for i, p := range r.Providers {
		providers[i] = p.ToModel()
	}
	seekers := make([]model.Seeker, len(r.Seekers))
	for i, s := range r.Seekers {
		seekers[i] = s.ToModel()
	}
	return providers, seekers
}

// ScoreBreakdown is the external form of a single score preview.
type ScoreBreakdown struct {
	ProviderID   string         `json:"provider_id"`
	SeekerID     string         `json:"seeker_id"`
	Load         int            `json:"load"`
	Score        int            `json:"score"`
	Factors      []model.Factor `json:"factors"`
	Explanations []string       `json:"explanations"`
}
