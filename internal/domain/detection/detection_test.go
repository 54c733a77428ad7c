package detection_test

import (
	"math"
	"testing"

	"github.com/okian/sortie/internal/domain/detection"
	"github.com/okian/sortie/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecodeAndIngest(t *testing.T) {
	Convey("Given a detection export with mixed quality", t, func() {
		data := []byte(`[
			{"timestamp": 1120000, "lat": 1, "lon": 1},
			{"timestamp": "1130000", "lat": "2.5", "lon": 3},
			{"timestamp": null, "lat": 1, "lon": 1},
			{"lat": 1, "lon": 1},
			{"timestamp": "soon", "lat": 1, "lon": 1},
			{"timestamp": 1140000.6, "lat": 4, "lon": 4},
			{"timestamp": 1150000, "lat": 4}
		]`)

		Convey("When decoding and ingesting", func() {
			raw, err := detection.Decode(data)
			So(err, ShouldBeNil)
			points, stats := detection.Ingest(raw)

			Convey("Then only complete numeric records should be kept", func() {
				So(points, ShouldResemble, []model.DetectionPoint{
					{TimestampMs: 1120000, Lat: 1, Lon: 1},
					{TimestampMs: 1130000, Lat: 2.5, Lon: 3},
					{TimestampMs: 1140001, Lat: 4, Lon: 4},
				})
			})

			Convey("And the rest should be counted as excluded", func() {
				So(stats.Records, ShouldEqual, 7)
				So(stats.Accepted, ShouldEqual, 3)
				So(stats.Excluded, ShouldEqual, 4)
			})
		})
	})

	Convey("Given in-memory records with non-finite values", t, func() {
		raw := []detection.Raw{
			{Timestamp: detection.Float(math.NaN()), Lat: detection.Float(1), Lon: detection.Float(1)},
			{Timestamp: detection.Float(math.Inf(1)), Lat: detection.Float(1), Lon: detection.Float(1)},
			{Timestamp: detection.Float(1000), Lat: detection.Float(math.NaN()), Lon: detection.Float(1)},
			{Timestamp: detection.Float(1000), Lat: detection.Float(1), Lon: detection.Float(1)},
		}

		Convey("Then they should be excluded", func() {
			points, stats := detection.Ingest(raw)
			So(points, ShouldHaveLength, 1)
			So(stats.Excluded, ShouldEqual, 3)
		})
	})

	Convey("Given empty input", t, func() {
		Convey("Then decoding and ingesting should yield nothing", func() {
			raw, err := detection.Decode(nil)
			So(err, ShouldBeNil)
			points, stats := detection.Ingest(raw)
			So(points, ShouldBeEmpty)
			So(stats.Records, ShouldEqual, 0)
		})
	})

	Convey("Given an array with elements that are not objects", t, func() {
		data := []byte(`[
			{"timestamp": 1120000, "lat": 1, "lon": 1},
			"garbage",
			42,
			[1, 2, 3],
			null,
			{"timestamp": 1130000, "lat": 2, "lon": 2}
		]`)

		Convey("When decoding and ingesting", func() {
			raw, err := detection.Decode(data)
			So(err, ShouldBeNil)
			points, stats := detection.Ingest(raw)

			Convey("Then only the bad elements should be excluded", func() {
				So(points, ShouldResemble, []model.DetectionPoint{
					{TimestampMs: 1120000, Lat: 1, Lon: 1},
					{TimestampMs: 1130000, Lat: 2, Lon: 2},
				})
				So(stats.Records, ShouldEqual, 6)
				So(stats.Excluded, ShouldEqual, 4)
			})
		})
	})

	Convey("Given a payload that is not an array", t, func() {
		Convey("Then decoding should fail", func() {
			_, err := detection.Decode([]byte(`{"timestamp":1}`))
			So(err, ShouldNotBeNil)
		})
	})
}
