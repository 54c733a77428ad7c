package correlate_test

import (
	"testing"

	"github.com/okian/sortie/internal/domain/catalog"
	"github.com/okian/sortie/internal/domain/correlate"
	"github.com/okian/sortie/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func unknownResolver() correlate.NameResolver {
	return correlate.ResolverFunc(func(string) string { return "unknown" })
}

func TestCorrelate(t *testing.T) {
	Convey("Given the interval of target 7", t, func() {
		intervals := []model.DwellInterval{{TargetID: "7", EntryMs: 1100000, ExitMs: 1150000, DurationSeconds: 50}}

		Convey("When a detection falls inside it", func() {
			points := []model.DetectionPoint{{TimestampMs: 1120000, Lat: 1, Lon: 1}}
			dets := correlate.Correlate(intervals, points, unknownResolver())

			Convey("Then exactly one correlated detection should be tagged 7", func() {
				So(dets, ShouldResemble, []model.CorrelatedDetection{
					{TargetID: "7", TargetName: "unknown", Lat: 1, Lon: 1, TimestampMs: 1120000},
				})
			})
		})

		Convey("When detections sit on and just outside the bounds", func() {
			points := []model.DetectionPoint{
				{TimestampMs: 1099999, Lat: 0, Lon: 0},
				{TimestampMs: 1100000, Lat: 1, Lon: 1},
				{TimestampMs: 1150000, Lat: 2, Lon: 2},
				{TimestampMs: 1150001, Lat: 3, Lon: 3},
			}
			dets := correlate.Correlate(intervals, points, unknownResolver())

			Convey("Then the bounds should be included and the rest excluded", func() {
				So(dets, ShouldHaveLength, 2)
				So(dets[0].TimestampMs, ShouldEqual, 1100000)
				So(dets[1].TimestampMs, ShouldEqual, 1150000)
			})
		})
	})

	Convey("Given overlapping intervals of two targets", t, func() {
		records := []catalog.Record{{Shape: catalog.ShapeFlat, Name: "North"}, {Shape: catalog.ShapeFlat, Name: "South"}}
		c := catalog.New(records)
		intervals := []model.DwellInterval{
			{TargetID: "0", EntryMs: 0, ExitMs: 100},
			{TargetID: "1", EntryMs: 50, ExitMs: 150},
			{TargetID: "9", EntryMs: 60, ExitMs: 70},
		}
		points := []model.DetectionPoint{{TimestampMs: 65, Lat: 1, Lon: 2}}

		Convey("When correlating", func() {
			dets := correlate.Correlate(intervals, points, c)

			Convey("Then the detection should be emitted for each containing interval", func() {
				So(dets, ShouldHaveLength, 3)
				So(dets[0].TargetName, ShouldEqual, "North")
				So(dets[1].TargetName, ShouldEqual, "South")
				So(dets[2].TargetName, ShouldEqual, catalog.DefaultUnknownName)
			})

			Convey("And running again should give the same result", func() {
				So(correlate.Correlate(intervals, points, c), ShouldResemble, dets)
			})
		})
	})

	Convey("Given no intervals or no points", t, func() {
		Convey("Then there should be no correlated detections", func() {
			So(correlate.Correlate(nil, []model.DetectionPoint{{TimestampMs: 1}}, unknownResolver()), ShouldBeEmpty)
			So(correlate.Correlate([]model.DwellInterval{{EntryMs: 0, ExitMs: 10}}, nil, unknownResolver()), ShouldBeEmpty)
		})
	})

	Convey("Given no name resolver", t, func() {
		intervals := []model.DwellInterval{{TargetID: "7", EntryMs: 0, ExitMs: 10}}
		points := []model.DetectionPoint{{TimestampMs: 5, Lat: 1, Lon: 2}}

		Convey("Then targets should fall back to the unknown name", func() {
			var dets []model.CorrelatedDetection
			So(func() { dets = correlate.Correlate(intervals, points, nil) }, ShouldNotPanic)
			So(dets, ShouldHaveLength, 1)
			So(dets[0].TargetName, ShouldEqual, catalog.DefaultUnknownName)
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given correlated detections of two targets", t, func() {
		dets := []model.CorrelatedDetection{
			{TargetID: "2", TargetName: "B", Lat: 10, Lon: 20, TimestampMs: 300},
			{TargetID: "1", TargetName: "A", Lat: 0, Lon: 0, TimestampMs: 100},
			{TargetID: "2", TargetName: "B", Lat: 20, Lon: 40, TimestampMs: 200},
		}

		Convey("When summarising", func() {
			sums := correlate.Summarize(dets)

			Convey("Then targets should appear in first-seen order with centroids", func() {
				So(sums, ShouldHaveLength, 2)
				So(sums[0].TargetID, ShouldEqual, "2")
				So(sums[0].Count, ShouldEqual, 2)
				So(sums[0].CentroidLat, ShouldEqual, 15)
				So(sums[0].CentroidLon, ShouldEqual, 30)
				So(sums[0].FirstMs, ShouldEqual, 200)
				So(sums[0].LastMs, ShouldEqual, 300)
				So(sums[1].Count, ShouldEqual, 1)
			})
		})
	})
}
