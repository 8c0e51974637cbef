package scoring_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/okian/matchmaker/internal/domain/model"
	scoring "github.com/okian/matchmaker/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func strPtr(s string) *string { return &s }

func factorByName(res scoring.Result, name string) model.Factor {
	for _, f := range res.Factors {
		if f.Name == name {
			return f
		}
	}
	return model.Factor{}
}

func TestScore(t *testing.T) {
	Convey("Given a provider offering python and react on Monday", t, func() {
		provider := model.Provider{
			ID:            "A",
			OfferedSkills: model.NewTagSet("python", "react"),
			Capacity:      1,
			Availability:  model.NewTagSet("Mon"),
		}
		seeker := model.Seeker{
			ID:           "s1",
			WantedSkills: model.NewTagSet("Python"),
			Availability: model.NewTagSet(" mon "),
		}

		Convey("When scoring against a seeker wanting python on Monday", func() {
			res := scoring.Score(provider, seeker, 0)

			Convey("Then skill, availability and capacity add up to 50", func() {
				So(res.Score, ShouldEqual, 50)
				So(res.ProviderID, ShouldEqual, "A")
				So(res.SeekerID, ShouldEqual, "s1")
				So(factorByName(res, scoring.FactorSkill).Value, ShouldEqual, 0.5)
				So(factorByName(res, scoring.FactorSkill).Contribution, ShouldAlmostEqual, 20, 1e-9)
				So(factorByName(res, scoring.FactorAvailability).Contribution, ShouldAlmostEqual, 20, 1e-9)
				So(factorByName(res, scoring.FactorCapacity).Contribution, ShouldAlmostEqual, 10, 1e-9)
				So(factorByName(res, scoring.FactorInterest).Contribution, ShouldEqual, 0)
				So(factorByName(res, scoring.FactorLocation).Contribution, ShouldEqual, 0)
			})

			Convey("And factors come in fixed order with explanations", func() {
				names := make([]string, len(res.Factors))
				for i, f := range res.Factors {
					names[i] = f.Name
					So(f.Explanation, ShouldNotBeBlank)
				}
				So(names, ShouldResemble, []string{
					scoring.FactorSkill,
					scoring.FactorInterest,
					scoring.FactorAvailability,
					scoring.FactorLocation,
					scoring.FactorCapacity,
				})
				So(res.Explanations(), ShouldHaveLength, 5)
				So(res.Explanations()[0], ShouldContainSubstring, "50% skill overlap")
			})
		})

		Convey("When the provider is exactly at capacity", func() {
			res := scoring.Score(provider, seeker, 1)

			Convey("Then capacity fitness drops to 0.2", func() {
				So(factorByName(res, scoring.FactorCapacity).Value, ShouldEqual, 0.2)
				So(res.Score, ShouldEqual, 42)
			})
		})

		Convey("When the provider is over capacity", func() {
			res := scoring.Score(provider, seeker, 2)

			Convey("Then capacity fitness is 0", func() {
				So(factorByName(res, scoring.FactorCapacity).Value, ShouldEqual, 0)
				So(res.Score, ShouldEqual, 40)
			})
		})
	})

	Convey("Given a provider and seeker with no tags at all", t, func() {
		provider := model.Provider{ID: "p", Capacity: 2}
		seeker := model.Seeker{ID: "s"}

		Convey("When scoring", func() {
			res := scoring.Score(provider, seeker, 0)

			Convey("Then empty sets contribute exactly 0", func() {
				So(factorByName(res, scoring.FactorSkill).Value, ShouldEqual, 0)
				So(factorByName(res, scoring.FactorInterest).Value, ShouldEqual, 0)
				So(math.IsNaN(factorByName(res, scoring.FactorSkill).Value), ShouldBeFalse)
				So(res.Score, ShouldEqual, 10)
			})
		})
	})

	Convey("Given locations", t, func() {
		provider := model.Provider{ID: "p", Capacity: 1}
		seeker := model.Seeker{ID: "s"}

		Convey("When both match ignoring case and whitespace", func() {
			provider.Location = strPtr(" Berlin")
			seeker.Location = strPtr("berlin ")
			So(factorByName(scoring.Score(provider, seeker, 0), scoring.FactorLocation).Value, ShouldEqual, 1)
		})

		Convey("When one side is missing", func() {
			provider.Location = strPtr("Berlin")
			So(factorByName(scoring.Score(provider, seeker, 0), scoring.FactorLocation).Value, ShouldEqual, 0)
			So(factorByName(scoring.Score(provider, seeker, 0), scoring.FactorLocation).Explanation, ShouldEqual, "location unknown")
		})

		Convey("When one side is blank", func() {
			provider.Location = strPtr("  ")
			seeker.Location = strPtr("  ")
			So(factorByName(scoring.Score(provider, seeker, 0), scoring.FactorLocation).Value, ShouldEqual, 0)
		})

		Convey("When they differ", func() {
			provider.Location = strPtr("Berlin")
			seeker.Location = strPtr("Paris")
			So(factorByName(scoring.Score(provider, seeker, 0), scoring.FactorLocation).Value, ShouldEqual, 0)
		})
	})

	Convey("Given a perfect match", t, func() {
		provider := model.Provider{
			ID:            "p",
			OfferedSkills: model.NewTagSet("go"),
			Interests:     model.NewTagSet("chess"),
			Availability:  model.NewTagSet("tue"),
			Location:      strPtr("Oslo"),
			Capacity:      3,
		}
		seeker := model.Seeker{
			ID:           "s",
			WantedSkills: model.NewTagSet("GO"),
			Interests:    model.NewTagSet("Chess"),
			Availability: model.NewTagSet("TUE"),
			Location:     strPtr("oslo"),
		}

		Convey("Then the score is the full 100", func() {
			So(scoring.Score(provider, seeker, 0).Score, ShouldEqual, 100)
		})
	})
}

func TestScoreBounds(t *testing.T) {
	Convey("Given randomly generated providers and seekers", t, func() {
		rng := rand.New(rand.NewSource(7))
		pool := []string{"go", "python", "java", "rust", "mon", "tue", "wed", "x", "y"}
		pick := func() model.TagSet {
			set := model.NewTagSet()
			for i := 0; i < rng.Intn(5); i++ {
				set.Add(pool[rng.Intn(len(pool))])
			}
			return set
		}

		Convey("Then every score stays within 0..100", func() {
			for i := 0; i < 500; i++ {
				p := model.Provider{ID: "p", OfferedSkills: pick(), Interests: pick(), Availability: pick(), Capacity: rng.Intn(4)}
				s := model.Seeker{ID: "s", WantedSkills: pick(), Interests: pick(), Availability: pick()}
				res := scoring.Score(p, s, rng.Intn(6)-1)
				So(res.Score, ShouldBeBetweenOrEqual, 0, 100)
			}
		})
	})

	Convey("Given the factor weights", t, func() {
		sum := scoring.WeightSkill + scoring.WeightInterest + scoring.WeightAvailability +
			scoring.WeightLocation + scoring.WeightCapacity

		Convey("Then they sum to 1", func() {
			So(sum, ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}

func TestScoreRoundsHalfUp(t *testing.T) {
	Convey("Given factors summing to exactly 30.5", t, func() {
		// skill 7/10 gives 27.999999999999996 in floats; interest 1/8 gives 2.5.
		provider := model.Provider{
			ID:            "P",
			OfferedSkills: model.NewTagSet("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"),
			Interests:     model.NewTagSet("i1", "i2", "i3", "i4", "i5", "i6", "i7", "i8"),
			Capacity:      1,
		}
		seeker := model.Seeker{
			ID:           "S",
			WantedSkills: model.NewTagSet("a", "b", "c", "d", "e", "f", "g"),
			Interests:    model.NewTagSet("i1"),
		}

		Convey("When the provider is over capacity", func() {
			res := scoring.Score(provider, seeker, 2)

			Convey("Then the half rounds up to 31", func() {
				So(factorByName(res, scoring.FactorSkill).Value, ShouldEqual, 0.7)
				So(factorByName(res, scoring.FactorInterest).Value, ShouldEqual, 0.125)
				So(factorByName(res, scoring.FactorCapacity).Value, ShouldEqual, 0.0)
				So(res.Score, ShouldEqual, 31)
			})
		})
	})
}

func TestJaccard(t *testing.T) {
	Convey("Given tag sets", t, func() {
		So(scoring.Jaccard(nil, nil), ShouldEqual, 0)
		So(scoring.Jaccard(model.NewTagSet("a"), nil), ShouldEqual, 0)
		So(scoring.Jaccard(model.NewTagSet("a", "b"), model.NewTagSet("A", "B")), ShouldEqual, 1)
		So(scoring.Jaccard(model.NewTagSet("a", "b", "c"), model.NewTagSet("c", "d")), ShouldEqual, 0.25)
	})
}

func TestDefaultScorer(t *testing.T) {
	Convey("Given the default scorer", t, func() {
		p := model.Provider{ID: "p", Capacity: 1}
		s := model.Seeker{ID: "s"}

		Convey("Then it matches the package-level function", func() {
			So(scoring.Default.Score(p, s, 0), ShouldResemble, scoring.Score(p, s, 0))
		})
	})
}
