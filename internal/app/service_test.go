package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	repository "github.com/okian/matchmaker/internal/adapters/repository"
	service "github.com/okian/matchmaker/internal/app"
	"github.com/okian/matchmaker/internal/domain/model"
	"github.com/okian/matchmaker/internal/domain/pairing"
	"github.com/okian/matchmaker/internal/domain/types"
	"github.com/okian/matchmaker/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var fixedNow = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

// scenarioRoster is two single-slot providers and one python seeker.
func scenarioRoster() types.Roster {
	return types.Roster{
		Providers: []types.Provider{
			{ID: "A", OfferedSkills: []string{"python", "react"}, Capacity: 1, Availability: []string{"Mon"}},
			{ID: "B", OfferedSkills: []string{"java"}, Capacity: 1, Availability: []string{"Mon"}},
		},
		Seekers: []types.Seeker{
			{ID: "s1", WantedSkills: []string{"python"}, Availability: []string{"Mon"}},
		},
	}
}

func newStartedService(opts ...service.Option) *service.Service {
	n := 0
	base := []service.Option{
		service.WithSeed(1),
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithIDGenerator(func() string { n++; return fmt.Sprintf("rel-%d", n) }),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("Then operations fail before it is started", func() {
			_, err := svc.RunAssignment(ctx, nil)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["relationships"], ShouldEqual, 0)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_LoadRoster(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()

		Convey("When loading a valid roster", func() {
			So(svc.LoadRoster(ctx, scenarioRoster()), ShouldBeNil)

			Convey("Then it is returned in canonical form", func() {
				roster, err := svc.Roster(ctx)
				So(err, ShouldBeNil)
				So(roster.Providers, ShouldHaveLength, 2)
				So(roster.Providers[0].Availability, ShouldResemble, []string{"mon"})
				So(roster.Seekers[0].ID, ShouldEqual, "s1")
			})
		})

		Convey("When loading a roster with a zero-capacity provider", func() {
			roster := scenarioRoster()
			roster.Providers[0].Capacity = 0

			Convey("Then it is rejected", func() {
				err := svc.LoadRoster(ctx, roster)
				So(errors.Is(err, types.ErrInvalidRoster), ShouldBeTrue)
			})
		})
	})
}

func TestService_RunAssignment(t *testing.T) {
	Convey("Given the two-provider scenario", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()
		So(svc.LoadRoster(ctx, scenarioRoster()), ShouldBeNil)

		Convey("When running with threshold 40", func() {
			out, err := svc.RunAssignment(ctx, intPtr(40))

			Convey("Then s1 is paired with A at 50 and stored", func() {
				So(err, ShouldBeNil)
				So(out.Relationships, ShouldHaveLength, 1)
				So(out.Relationships[0].ProviderID, ShouldEqual, "A")
				So(out.Relationships[0].Score, ShouldEqual, 50)
				So(out.Relationships[0].CreatedAt, ShouldEqual, fixedNow)

				rels, _ := svc.Relationships(ctx)
				So(rels, ShouldHaveLength, 1)
				audit, _ := svc.Audit(ctx, service.AuditFilter{})
				So(audit, ShouldHaveLength, 2)
			})

			Convey("And a second run skips already paired seekers", func() {
				again, err := svc.RunAssignment(ctx, intPtr(40))
				So(err, ShouldBeNil)
				So(again.Relationships, ShouldBeEmpty)
				So(again.Audit, ShouldBeEmpty)
				rels, _ := svc.Relationships(ctx)
				So(rels, ShouldHaveLength, 1)
			})
		})

		Convey("When running with threshold 60", func() {
			out, err := svc.RunAssignment(ctx, intPtr(60))

			Convey("Then nothing is created and s1 is unmatched", func() {
				So(err, ShouldBeNil)
				So(out.Relationships, ShouldBeEmpty)
				So(out.Unmatched, ShouldResemble, []string{"s1"})
				unmatched, _ := svc.Unmatched(ctx)
				So(unmatched, ShouldResemble, []string{"s1"})
			})
		})

		Convey("When running without a threshold", func() {
			svc := newStartedService(service.WithDefaultThreshold(60))
			So(svc.LoadRoster(ctx, scenarioRoster()), ShouldBeNil)
			out, err := svc.RunAssignment(ctx, nil)

			Convey("Then the configured default applies", func() {
				So(err, ShouldBeNil)
				So(out.Relationships, ShouldBeEmpty)
			})
		})

		Convey("When a new seeker joins after a run", func() {
			_, err := svc.RunAssignment(ctx, intPtr(0))
			So(err, ShouldBeNil)

			roster := scenarioRoster()
			roster.Seekers = append(roster.Seekers, types.Seeker{ID: "s2", WantedSkills: []string{"python"}})
			So(svc.LoadRoster(ctx, roster), ShouldBeNil)
			out, err := svc.RunAssignment(ctx, intPtr(0))

			Convey("Then stored relationships count toward provider loads", func() {
				So(err, ShouldBeNil)
				So(out.Relationships, ShouldHaveLength, 1)
				So(out.Relationships[0].SeekerID, ShouldEqual, "s2")
				So(out.Relationships[0].ProviderID, ShouldEqual, "B")
			})
		})
	})
}

func TestService_Audit(t *testing.T) {
	Convey("Given a completed run", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()
		So(svc.LoadRoster(ctx, scenarioRoster()), ShouldBeNil)
		_, err := svc.RunAssignment(ctx, intPtr(40))
		So(err, ShouldBeNil)

		Convey("When filtering by provider", func() {
			records, err := svc.Audit(ctx, service.AuditFilter{ProviderID: "B"})

			Convey("Then only that provider's records are returned", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].Score, ShouldEqual, 30)
			})
		})

		Convey("When filtering by an unknown seeker", func() {
			records, err := svc.Audit(ctx, service.AuditFilter{SeekerID: "nobody"})
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})
	})
}

func TestService_Swap(t *testing.T) {
	Convey("Given s1 paired with A", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()
		So(svc.LoadRoster(ctx, scenarioRoster()), ShouldBeNil)
		_, err := svc.RunAssignment(ctx, intPtr(40))
		So(err, ShouldBeNil)

		Convey("When listing candidates", func() {
			ids, err := svc.SwapCandidates(ctx, "rel-1")
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []string{"A", "B"})
		})

		Convey("When swapping to B", func() {
			rel, err := svc.Swap(ctx, "rel-1", "B")

			Convey("Then the stored relationship is rescored", func() {
				So(err, ShouldBeNil)
				So(rel.ProviderID, ShouldEqual, "B")
				So(rel.Score, ShouldEqual, 30)

				stored, _ := svc.Relationship(ctx, "rel-1")
				So(stored.ProviderID, ShouldEqual, "B")
			})
		})

		Convey("When swapping back to the same provider", func() {
			rel, err := svc.Swap(ctx, "rel-1", "A")
			So(err, ShouldBeNil)
			So(rel.Score, ShouldEqual, 50)
		})

		Convey("When the relationship does not exist", func() {
			_, err := svc.Swap(ctx, "missing", "B")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When the provider does not exist", func() {
			_, err := svc.Swap(ctx, "rel-1", "Z")
			So(errors.Is(err, pairing.ErrUnknownProvider), ShouldBeTrue)
		})
	})
}

func TestService_CreateManual(t *testing.T) {
	Convey("Given A already at capacity", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()
		roster := scenarioRoster()
		roster.Seekers = append(roster.Seekers, types.Seeker{ID: "s2", WantedSkills: []string{"react"}})
		So(svc.LoadRoster(ctx, roster), ShouldBeNil)
		_, err := svc.CreateManual(ctx, service.ManualRequest{ProviderID: "A", SeekerID: "s1"})
		So(err, ShouldBeNil)

		Convey("When pairing s2 with A by hand", func() {
			res, err := svc.CreateManual(ctx, service.ManualRequest{
				ProviderID:    "A",
				SeekerID:      "s2",
				Justification: "requested by coordinator",
				RequestID:     "req-1",
			})

			Convey("Then it is created with an over-capacity warning", func() {
				So(err, ShouldBeNil)
				So(res.OverCapacity, ShouldBeTrue)
				So(res.Warning, ShouldEqual, "provider over capacity")
				So(res.Relationship.Origin, ShouldEqual, model.OriginManual)
				So(res.Relationship.Status, ShouldEqual, model.StatusNotContacted)
				So(res.Relationship.Justification, ShouldEqual, "requested by coordinator")
			})

			Convey("And a retry with the same request ID replays it", func() {
				again, err := svc.CreateManual(ctx, service.ManualRequest{ProviderID: "A", SeekerID: "s2", RequestID: "req-1"})
				So(err, ShouldBeNil)
				So(again.Duplicate, ShouldBeTrue)
				So(again.Relationship.ID, ShouldEqual, res.Relationship.ID)

				rels, _ := svc.Relationships(ctx)
				So(rels, ShouldHaveLength, 2)
			})
		})

		Convey("When the seeker is unknown", func() {
			_, err := svc.CreateManual(ctx, service.ManualRequest{ProviderID: "A", SeekerID: "ghost", RequestID: "req-2"})

			Convey("Then the error is returned and the request ID can be retried", func() {
				So(errors.Is(err, pairing.ErrUnknownEntity), ShouldBeTrue)

				roster.Seekers = append(roster.Seekers, types.Seeker{ID: "ghost"})
				So(svc.LoadRoster(ctx, roster), ShouldBeNil)
				res, err := svc.CreateManual(ctx, service.ManualRequest{ProviderID: "B", SeekerID: "ghost", RequestID: "req-2"})
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeFalse)
			})
		})

		Convey("When IDs are missing", func() {
			_, err := svc.CreateManual(ctx, service.ManualRequest{ProviderID: " "})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
		})
	})
}

func TestService_Status(t *testing.T) {
	Convey("Given a fresh relationship", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()
		So(svc.LoadRoster(ctx, scenarioRoster()), ShouldBeNil)
		_, err := svc.RunAssignment(ctx, intPtr(40))
		So(err, ShouldBeNil)

		Convey("When advancing twice", func() {
			first, err := svc.AdvanceStatus(ctx, "rel-1")
			So(err, ShouldBeNil)
			So(first.Status, ShouldEqual, model.StatusContacted)
			second, err := svc.AdvanceStatus(ctx, "rel-1")
			So(err, ShouldBeNil)
			So(second.Status, ShouldEqual, model.StatusConfirmed)

			Convey("Then a third advance fails at the terminal state", func() {
				_, err := svc.AdvanceStatus(ctx, "rel-1")
				So(errors.Is(err, model.ErrTerminalStatus), ShouldBeTrue)
			})
		})

		Convey("When setting a status directly", func() {
			rel, err := svc.UpdateStatus(ctx, "rel-1", "confirmed")
			So(err, ShouldBeNil)
			So(rel.Status, ShouldEqual, model.StatusConfirmed)

			stats := svc.GetStats()
			So(stats["byStatus"].(map[string]int)["CONFIRMED"], ShouldEqual, 1)
		})

		Convey("When setting an unknown status", func() {
			_, err := svc.UpdateStatus(ctx, "rel-1", "ghosted")
			So(errors.Is(err, model.ErrInvalidStatus), ShouldBeTrue)
		})
	})
}

func TestService_ScoreAndReset(t *testing.T) {
	Convey("Given s1 paired with A", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()
		So(svc.LoadRoster(ctx, scenarioRoster()), ShouldBeNil)
		_, err := svc.RunAssignment(ctx, intPtr(40))
		So(err, ShouldBeNil)

		Convey("When previewing A/s1 at the current load", func() {
			res, err := svc.Score(ctx, "A", "s1", nil)

			Convey("Then the capacity factor sees A as full", func() {
				So(err, ShouldBeNil)
				So(res.Load, ShouldEqual, 1)
				So(res.Score, ShouldEqual, 42)
				So(res.Explanations, ShouldHaveLength, 5)
			})
		})

		Convey("When previewing with an explicit load", func() {
			res, err := svc.Score(ctx, "A", "s1", intPtr(0))
			So(err, ShouldBeNil)
			So(res.Score, ShouldEqual, 50)
		})

		Convey("When resetting", func() {
			So(svc.Reset(ctx), ShouldBeNil)

			Convey("Then relationships and audit are gone but the roster remains", func() {
				rels, _ := svc.Relationships(ctx)
				So(rels, ShouldBeEmpty)
				audit, _ := svc.Audit(ctx, service.AuditFilter{})
				So(audit, ShouldBeEmpty)
				roster, _ := svc.Roster(ctx)
				So(roster.Providers, ShouldHaveLength, 2)
			})
		})
	})
}

func TestService_Logging(t *testing.T) {
	Convey("Given a service logging JSON at debug level", t, func() {
		var buf bytes.Buffer
		So(logger.InitWithWriter(&buf, logger.FormatJSON), ShouldBeNil)
		So(logger.SetLevelString("debug"), ShouldBeNil)
		Reset(func() {
			_ = logger.Init()
		})

		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()
		So(svc.LoadRoster(ctx, scenarioRoster()), ShouldBeNil)

		Convey("When a run leaves a seeker unmatched", func() {
			_, err := svc.RunAssignment(ctx, intPtr(60))

			Convey("Then the run duration and the unmatched IDs are logged", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, `"msg":"assignment run completed"`)
				So(buf.String(), ShouldContainSubstring, `"duration":`)
				So(buf.String(), ShouldContainSubstring, `"unmatchedIDs":["s1"]`)
			})
		})

		Convey("When pairing by hand with a justification", func() {
			_, err := svc.CreateManual(ctx, service.ManualRequest{ProviderID: "A", SeekerID: "s1", Justification: "mentor request"})

			Convey("Then the log records that a justification was given", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, `"hasJustification":true`)
			})
		})
	})
}
