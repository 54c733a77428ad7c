package dwell_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/sortie/internal/domain/dwell"
	"github.com/okian/sortie/internal/domain/eventlog"
	"github.com/okian/sortie/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func enter(id string, ms int64) model.Event {
	return model.Event{Kind: model.EventTargetEnter, TargetID: id, TimestampMs: ms}
}

func exit(id string, ms int64) model.Event {
	return model.Event{Kind: model.EventTargetExit, TargetID: id, TimestampMs: ms}
}

func TestBuild(t *testing.T) {
	Convey("Given the single sortie log", t, func() {
		events := eventlog.Parse([]string{
			"1000 - INFO: TAKEOFF DETECTED",
			"1100 - INFO: IN TARGET 7 (1) (DSA)",
			"1150 - INFO: OUT TARGET 7 (1) (DSA)",
			"1200 - INFO: LANDING DETECTED",
		})

		Convey("When building windows", func() {
			w := dwell.Build(events)

			Convey("Then target 7 should have one 50 second interval", func() {
				So(w.For("7"), ShouldResemble, []model.DwellInterval{
					{TargetID: "7", EntryMs: 1100000, ExitMs: 1150000, DurationSeconds: 50},
				})
				So(w.Total("7"), ShouldEqual, 50)
			})

			Convey("And the mission should last 200 seconds", func() {
				So(w.MissionSeconds, ShouldEqual, 200)
				So(w.Flights, ShouldHaveLength, 1)
				So(w.FlightStartMs, ShouldEqual, 1000000)
				So(w.FlightEndMs, ShouldEqual, 1200000)
			})
		})
	})

	Convey("Given unbalanced enters and exits", t, func() {
		events := []model.Event{
			enter("1", 1000), enter("1", 3000), enter("1", 5000),
			exit("1", 2000), exit("1", 4000),
			exit("2", 7000), exit("2", 9000),
			enter("2", 8000),
			enter("3", 1000),
		}

		Convey("When building windows", func() {
			w := dwell.Build(events)

			Convey("Then interval counts should be the minimum of enters and exits", func() {
				So(w.For("1"), ShouldHaveLength, 2)
				So(w.For("2"), ShouldHaveLength, 1)
				So(w.For("3"), ShouldBeEmpty)
			})

			Convey("And pairing should be positional even when it goes backwards", func() {
				iv := w.For("2")[0]
				So(iv.EntryMs, ShouldEqual, 8000)
				So(iv.ExitMs, ShouldEqual, 7000)
				So(iv.DurationSeconds, ShouldEqual, -1)
			})

			Convey("And a target without pairs should total zero", func() {
				So(w.Total("3"), ShouldEqual, 0)
				So(w.Total("missing"), ShouldEqual, 0)
			})

			Convey("And targets should keep first-seen order", func() {
				So(w.Targets(), ShouldResemble, []string{"1", "2", "3"})
				So(w.Intervals[0].TargetID, ShouldEqual, "1")
				So(w.Intervals[2].TargetID, ShouldEqual, "2")
			})

			Convey("And enter counts should include unpaired enters", func() {
				So(w.EnterCounts(), ShouldResemble, map[string]int{"1": 3, "2": 1, "3": 1})
				So(w.Unmatched()["1"], ShouldResemble, [2]int{1, 0})
				So(w.Unmatched()["2"], ShouldResemble, [2]int{0, 1})
			})
		})
	})

	Convey("Given intervals with sub-second precision", t, func() {
		events := []model.Event{enter("9", 1_000_250), exit("9", 1_003_999)}

		Convey("Then the duration should be the exact millisecond difference", func() {
			w := dwell.Build(events)
			So(w.For("9")[0].DurationSeconds, ShouldEqual, float64(1_003_999-1_000_250)/1000)
		})
	})

	Convey("Given several sorties", t, func() {
		events := []model.Event{
			{Kind: model.EventTakeoff, TimestampMs: 0},
			{Kind: model.EventLanding, TimestampMs: 60_000},
			{Kind: model.EventTakeoff, TimestampMs: 100_000},
			{Kind: model.EventLanding, TimestampMs: 130_000},
			{Kind: model.EventTakeoff, TimestampMs: 200_000},
		}

		Convey("Then mission duration should sum the paired flights only", func() {
			w := dwell.Build(events)
			So(w.Flights, ShouldHaveLength, 2)
			So(w.MissionSeconds, ShouldEqual, 90)
			So(w.FlightStartMs, ShouldEqual, 0)
			So(w.FlightEndMs, ShouldEqual, 130_000)
		})
	})

	Convey("Given no events", t, func() {
		w := dwell.Build(nil)

		Convey("Then everything should be empty and zero", func() {
			So(w.Intervals, ShouldBeEmpty)
			So(w.Flights, ShouldBeEmpty)
			So(w.MissionSeconds, ShouldEqual, 0)
			So(w.Targets(), ShouldBeEmpty)
		})

		Convey("And collections should encode as empty arrays", func() {
			So(w.Intervals, ShouldNotBeNil)
			So(w.Flights, ShouldNotBeNil)
			b, err := json.Marshal(w)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"intervals":[]`)
			So(string(b), ShouldContainSubstring, `"flights":[]`)
		})
	})
}
