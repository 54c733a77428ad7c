package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/sortie/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEventKind(t *testing.T) {
	convey.Convey("Given the event kinds", t, func() {
		convey.Convey("Then each kind should have a stable name", func() {
			convey.So(model.EventTakeoff.String(), convey.ShouldEqual, "takeoff")
			convey.So(model.EventLanding.String(), convey.ShouldEqual, "landing")
			convey.So(model.EventTargetEnter.String(), convey.ShouldEqual, "target_enter")
			convey.So(model.EventTargetExit.String(), convey.ShouldEqual, "target_exit")
			convey.So(model.EventKind(0).String(), convey.ShouldEqual, "unknown")
		})

		convey.Convey("When an event is encoded as JSON", func() {
			b, err := json.Marshal(model.Event{Kind: model.EventTargetEnter, TargetID: "7", TimestampMs: 1100000})

			convey.Convey("Then the kind should be rendered by name", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldEqual, `{"kind":"target_enter","target_id":"7","timestamp_ms":1100000}`)
			})

			convey.Convey("And it should decode back to the same event", func() {
				var ev model.Event
				convey.So(json.Unmarshal(b, &ev), convey.ShouldBeNil)
				convey.So(ev.Kind, convey.ShouldEqual, model.EventTargetEnter)
				convey.So(ev.IsTargetEvent(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestDwellIntervalContains(t *testing.T) {
	convey.Convey("Given a dwell interval", t, func() {
		iv := model.DwellInterval{TargetID: "7", EntryMs: 1000, ExitMs: 2000}

		convey.Convey("Then both bounds should be inside", func() {
			convey.So(iv.Contains(1000), convey.ShouldBeTrue)
			convey.So(iv.Contains(2000), convey.ShouldBeTrue)
			convey.So(iv.Contains(1500), convey.ShouldBeTrue)
		})

		convey.Convey("Then values outside should be excluded", func() {
			convey.So(iv.Contains(999), convey.ShouldBeFalse)
			convey.So(iv.Contains(2001), convey.ShouldBeFalse)
		})
	})
}
