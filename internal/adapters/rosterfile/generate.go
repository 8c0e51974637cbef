package rosterfile

import (
	"fmt"
	"math/rand"

	"github.com/okian/matchmaker/internal/domain/types"
)

// Label pools for synthetic rosters.
var (
	skillPool    = []string{"python", "go", "java", "react", "sql", "kubernetes", "design", "writing", "statistics", "rust"}
	interestPool = []string{"ai", "music", "hiking", "chess", "startups", "gaming", "travel", "cooking"}
	dayPool      = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	cityPool     = []string{"Berlin", "Lisbon", "Toronto", "Nairobi", "Seoul"}
)

// Distribution knobs.
const (
	maxSkillsPerEntity    = 3
	maxInterestsPerEntity = 3
	maxDaysPerEntity      = 4
	maxCapacity           = 4
	maxPriority           = 3
	remoteOneIn           = 4
	noPriorityOneIn       = 3
)

// GenerateOptions sizes a synthetic roster.
type GenerateOptions struct {
	Providers int
	Seekers   int
}

// Generate builds a valid roster of the requested size. Output is fully
// determined by rng. About one entity in four has no location and one seeker
// in three has no priority, so the defaulting paths get exercised.
func Generate(rng *rand.Rand, opts GenerateOptions) (types.Roster, error) {
	if opts.Providers < 0 || opts.Seekers < 0 {
		return types.Roster{}, fmt.Errorf("generate roster: negative size (providers=%d seekers=%d)", opts.Providers, opts.Seekers)
	}

	roster := types.Roster{
		Providers: make([]types.Provider, opts.Providers),
		Seekers:   make([]types.Seeker, opts.Seekers),
	}
	for i := range roster.Providers {
		roster.Providers[i] = types.Provider{
			ID:            fmt.Sprintf("p-%04d", i+1),
			OfferedSkills: pick(rng, skillPool, maxSkillsPerEntity),
			Interests:     pick(rng, interestPool, maxInterestsPerEntity),
			Capacity:      1 + rng.Intn(maxCapacity),
			Availability:  pick(rng, dayPool, maxDaysPerEntity),
			Location:      location(rng),
		}
	}
	for i := range roster.Seekers {
		s := types.Seeker{
			ID:           fmt.Sprintf("s-%04d", i+1),
			WantedSkills: pick(rng, skillPool, maxSkillsPerEntity),
			Interests:    pick(rng, interestPool, maxInterestsPerEntity),
			Availability: pick(rng, dayPool, maxDaysPerEntity),
			Location:     location(rng),
		}
		if rng.Intn(noPriorityOneIn) != 0 {
			p := rng.Intn(maxPriority + 1)
			s.Priority = &p
		}
		roster.Seekers[i] = s
	}
	return roster, nil
}

// pick returns between 1 and limit distinct labels from pool.
func pick(rng *rand.Rand, pool []string, limit int) []string {
	n := 1 + rng.Intn(limit)
	idx := rng.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

func location(rng *rand.Rand) *string {
	if rng.Intn(remoteOneIn) == 0 {
		return nil
	}
	city := cityPool[rng.Intn(len(cityPool))]
	return &city
}
