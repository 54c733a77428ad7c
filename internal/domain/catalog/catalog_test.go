package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/sortie/internal/domain/catalog"
	"github.com/okian/sortie/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rawRecords(items ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(items))
	for i, s := range items {
		out[i] = json.RawMessage(s)
	}
	return out
}

func TestAssignIDs(t *testing.T) {
	Convey("Given records named A, A, B", t, func() {
		records, _ := catalog.Decode(rawRecords(`{"name":"A"}`, `{"name":"A"}`, `{"name":"B"}`))

		Convey("When assigning ids", func() {
			targets := catalog.AssignIDs(records)

			Convey("Then A should be 0 and B should be 1", func() {
				So(targets, ShouldResemble, []model.Target{{ID: "0", Name: "A"}, {ID: "1", Name: "B"}})
			})

			Convey("And a second assignment should be identical", func() {
				So(catalog.AssignIDs(records), ShouldResemble, targets)
			})
		})

		Convey("When taking unique records by name", func() {
			unique := catalog.UniqueByName(records)

			Convey("Then there should be one record per name", func() {
				So(unique, ShouldHaveLength, 2)
				So(unique[0].Name, ShouldEqual, "A")
				So(unique[1].Name, ShouldEqual, "B")
			})
		})
	})

	Convey("Given records where the first of a name differs from later ones", t, func() {
		records := []catalog.Record{
			{Shape: catalog.ShapeFlat, Name: "X", Position: &model.Vertex{Lat: 1, Lon: 1}},
			{Shape: catalog.ShapeFlat, Name: "Y"},
			{Shape: catalog.ShapeFlat, Name: "X", Position: &model.Vertex{Lat: 2, Lon: 2}},
		}

		Convey("Then UniqueByName should keep the first one", func() {
			unique := catalog.UniqueByName(records)
			So(unique, ShouldHaveLength, 2)
			So(unique[0].Position.Lat, ShouldEqual, 1)
		})
	})
}

func TestCatalogLookup(t *testing.T) {
	Convey("Given a catalog of mixed shapes", t, func() {
		records, stats := catalog.Decode(rawRecords(
			`{"name":"Bridge","lat":45.0,"lon":9.0}`,
			`{"name":"Depot","vertices":[{"lat":45.1,"lon":9.1},{"lat":"45.2","lon":9.2},{"lat":null,"lon":9.3}]}`,
			`{"name":"Bridge","lat":45.001,"lon":9.0}`,
			`{"lat":1,"lon":2}`,
			`[1,2,3]`,
			`{"name":"   "}`,
		))
		c := catalog.New(records, catalog.WithUnknownName("n/a"))

		Convey("Then shapes should be resolved once at decode", func() {
			So(stats.Flat, ShouldEqual, 2)
			So(stats.Nested, ShouldEqual, 1)
			So(stats.Rejected, ShouldEqual, 3)
			So(records[1].Shape, ShouldEqual, catalog.ShapeNested)
			So(records[1].Vertices, ShouldHaveLength, 2)
		})

		Convey("Then names and ids should map both ways", func() {
			id, ok := c.ID("Depot")
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, "1")
			name, ok := c.Name("0")
			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "Bridge")
			So(c.Len(), ShouldEqual, 2)
		})

		Convey("Then unknown ids should resolve to the sentinel", func() {
			So(c.Resolve("42"), ShouldEqual, "n/a")
			So(c.Resolve("1"), ShouldEqual, "Depot")
		})

		Convey("Then groups should collect every position per name", func() {
			groups := c.Groups()
			So(groups, ShouldHaveLength, 2)
			So(groups[0].Points, ShouldResemble, []model.Vertex{{Lat: 45.0, Lon: 9.0}, {Lat: 45.001, Lon: 9.0}})
			So(groups[1].Points, ShouldHaveLength, 2)
		})

		Convey("Then nested targets should expose their vertices", func() {
			So(c.Targets()[1].Vertices, ShouldHaveLength, 2)
			So(c.Targets()[0].Vertices, ShouldBeEmpty)
		})
	})

	Convey("Given a custom flat layout", t, func() {
		flat := catalog.FlatExtractor{NameField: "targetname", LatField: "latitude", LonField: "longitude"}
		records, stats := catalog.DecodeJSON([]byte(`[{"targetname":"T1","latitude":1,"longitude":2}]`), flat)

		Convey("Then the configured fields should be used", func() {
			So(stats.Flat, ShouldEqual, 1)
			So(records[0].Name, ShouldEqual, "T1")
			So(*records[0].Position, ShouldResemble, model.Vertex{Lat: 1, Lon: 2})
		})
	})

	Convey("Given a payload that is not an array", t, func() {
		records, _ := catalog.DecodeJSON([]byte(`{"name":"A"}`))

		Convey("Then no records should be produced", func() {
			So(records, ShouldBeEmpty)
			So(catalog.New(records).Len(), ShouldEqual, 0)
		})
	})
}
