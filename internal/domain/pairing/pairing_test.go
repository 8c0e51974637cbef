package pairing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/matchmaker/internal/domain/model"
	"github.com/okian/matchmaker/internal/domain/pairing"
	"github.com/okian/matchmaker/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newRoster() *pairing.Roster {
	providers := []model.Provider{
		{ID: "A", OfferedSkills: model.NewTagSet("python", "react"), Capacity: 1, Availability: model.NewTagSet("mon")},
		{ID: "B", OfferedSkills: model.NewTagSet("python"), Capacity: 2, Availability: model.NewTagSet("mon")},
		{ID: "C", OfferedSkills: model.NewTagSet("java"), Capacity: 1},
	}
	seekers := []model.Seeker{
		{ID: "s1", WantedSkills: model.NewTagSet("python"), Availability: model.NewTagSet("mon")},
		{ID: "s2", WantedSkills: model.NewTagSet("java")},
	}
	return pairing.NewRoster(providers, seekers,
		pairing.WithClock(func() time.Time { return fixedNow }),
		pairing.WithIDGenerator(func() string { return "manual-1" }),
	)
}

func rel(id, provider, seeker string) model.Relationship {
	return model.Relationship{ID: id, ProviderID: provider, SeekerID: seeker, Status: model.StatusContacted, Origin: model.OriginAlgorithm}
}

func factor(rel model.Relationship, name string) model.Factor {
	for _, f := range rel.Factors {
		if f.Name == name {
			return f
		}
	}
	return model.Factor{}
}

func TestSwap(t *testing.T) {
	Convey("Given s1 paired with A", t, func() {
		roster := newRoster()
		r1 := rel("r1", "A", "s1")
		current := []model.Relationship{r1}

		Convey("When swapping to the same provider", func() {
			updated, err := roster.Swap(r1, "A", current)

			Convey("Then the vacated slot is refilled, not added to", func() {
				So(err, ShouldBeNil)
				So(factor(updated, scoring.FactorCapacity).Value, ShouldEqual, 1.0)
				So(updated.Score, ShouldEqual, 50)
			})
		})

		Convey("When swapping to B", func() {
			updated, err := roster.Swap(r1, "B", current)

			Convey("Then provider and score change in place", func() {
				So(err, ShouldBeNil)
				So(updated.ID, ShouldEqual, "r1")
				So(updated.ProviderID, ShouldEqual, "B")
				So(updated.SeekerID, ShouldEqual, "s1")
				So(updated.Score, ShouldEqual, 70)
				So(updated.Status, ShouldEqual, model.StatusContacted)
				So(updated.UpdatedAt, ShouldEqual, fixedNow)
			})

			Convey("And loads move from A to B without double counting", func() {
				before := roster.Loads(current)
				after := roster.Loads([]model.Relationship{updated})
				So(before["A"], ShouldEqual, 1)
				So(before["B"], ShouldEqual, 0)
				So(after["A"], ShouldEqual, 0)
				So(after["B"], ShouldEqual, 1)
			})
		})

		Convey("When the target provider is already full", func() {
			others := append(current, rel("r2", "C", "s2"))
			updated, err := roster.Swap(r1, "C", others)

			Convey("Then the swap still applies and the score shows it", func() {
				So(err, ShouldBeNil)
				So(updated.ProviderID, ShouldEqual, "C")
				So(factor(updated, scoring.FactorCapacity).Value, ShouldEqual, 0.2)
			})
		})

		Convey("When the target provider does not exist", func() {
			_, err := roster.Swap(r1, "Z", current)

			Convey("Then an unknown provider error is returned", func() {
				So(errors.Is(err, pairing.ErrUnknownProvider), ShouldBeTrue)
				So(errors.Is(err, pairing.ErrUnknownEntity), ShouldBeTrue)
			})
		})

		Convey("When the relationship's seeker is unknown", func() {
			_, err := roster.Swap(rel("r9", "A", "ghost"), "B", current)
			So(errors.Is(err, pairing.ErrUnknownSeeker), ShouldBeTrue)
		})
	})
}

func TestSwapCandidates(t *testing.T) {
	Convey("Given A and C full and B with room", t, func() {
		roster := newRoster()
		r1 := rel("r1", "A", "s1")
		current := []model.Relationship{r1, rel("r2", "C", "s2")}

		Convey("Then candidates are A (current) and B", func() {
			ids, err := roster.SwapCandidates(r1, current)
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []string{"A", "B"})
		})
	})
}

func TestCreateManual(t *testing.T) {
	Convey("Given provider A already at capacity", t, func() {
		roster := newRoster()
		current := []model.Relationship{rel("r1", "A", "s1")}

		Convey("When pairing s2 with A by hand", func() {
			res, err := roster.CreateManual("A", "s2", current, "mentor requested")

			Convey("Then the relationship is created anyway and flagged", func() {
				So(err, ShouldBeNil)
				So(res.OverCapacity, ShouldBeTrue)
				So(res.Load, ShouldEqual, 1)
				So(res.Capacity, ShouldEqual, 1)
				So(res.Relationship.ID, ShouldEqual, "manual-1")
				So(res.Relationship.Status, ShouldEqual, model.StatusNotContacted)
				So(res.Relationship.Origin, ShouldEqual, model.OriginManual)
				So(res.Relationship.Justification, ShouldEqual, "mentor requested")
				So(res.Relationship.CreatedAt, ShouldEqual, fixedNow)
				So(factor(res.Relationship, scoring.FactorCapacity).Value, ShouldEqual, 0.2)
			})
		})

		Convey("When pairing an already paired seeker with B", func() {
			res, err := roster.CreateManual("B", "s1", current, "")

			Convey("Then it is allowed and not over capacity", func() {
				So(err, ShouldBeNil)
				So(res.OverCapacity, ShouldBeFalse)
				So(res.Relationship.Score, ShouldEqual, 70)
			})
		})

		Convey("When the seeker does not exist", func() {
			_, err := roster.CreateManual("A", "nobody", current, "x")
			So(errors.Is(err, pairing.ErrUnknownSeeker), ShouldBeTrue)
			So(errors.Is(err, pairing.ErrUnknownProvider), ShouldBeFalse)
		})

		Convey("When the provider does not exist", func() {
			_, err := roster.CreateManual("nobody", "s1", current, "x")
			So(errors.Is(err, pairing.ErrUnknownProvider), ShouldBeTrue)
		})
	})

	Convey("Given a provider with an external existing load", t, func() {
		roster := pairing.NewRoster(
			[]model.Provider{{ID: "P", Capacity: 2, ExistingLoad: 2}},
			[]model.Seeker{{ID: "S"}},
		)

		Convey("Then the external load counts toward capacity", func() {
			res, err := roster.CreateManual("P", "S", nil, "")
			So(err, ShouldBeNil)
			So(res.Load, ShouldEqual, 2)
			So(res.OverCapacity, ShouldBeTrue)
			So(res.Relationship.ID, ShouldNotBeBlank)
		})
	})
}

func TestRosterScore(t *testing.T) {
	Convey("Given a roster", t, func() {
		roster := newRoster()

		Convey("Then scoring by ID matches the scorer", func() {
			res, err := roster.Score("A", "s1", 0)
			So(err, ShouldBeNil)
			So(res.Score, ShouldEqual, 50)
		})

		Convey("And unknown IDs fail", func() {
			_, err := roster.Score("A", "nope", 0)
			So(errors.Is(err, pairing.ErrUnknownEntity), ShouldBeTrue)
		})
	})
}
