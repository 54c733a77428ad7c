package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/okian/sortie/internal/domain/model"
)

// Shape tags which raw layout a target record was decoded from.
type Shape int

// Known raw target layouts.
const (
	ShapeFlat   Shape = iota + 1 // {name, lat, lon}
	ShapeNested                  // {name, vertices: [{lat, lon}, ...]}
)

// String implements fmt.Stringer.
func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeNested:
		return "nested"
	default:
		return "unknown"
	}
}

// Record is a raw target after its shape has been resolved. Position is set
// for flat records that carry valid coordinates; Vertices for nested ones.
type Record struct {
	Shape    Shape
	Name     string
	Position *model.Vertex
	Vertices []model.Vertex
}

// Points returns the record's positions in order: the flat position if any,
// then the vertices.
func (r Record) Points() []model.Vertex {
	pts := make([]model.Vertex, 0, len(r.Vertices)+1)
	if r.Position != nil {
		pts = append(pts, *r.Position)
	}
	return append(pts, r.Vertices...)
}

// Fields is a decoded JSON object keyed by property name.
type Fields map[string]json.RawMessage

// Extractor turns one raw record layout into a Record.
type Extractor interface {
	// Match reports whether the fields look like this extractor's shape.
	Match(f Fields) bool
	// Extract builds the record; ok is false when the record is unusable.
	Extract(f Fields) (Record, bool)
}

// FlatExtractor reads {name, lat, lon} records. Missing or invalid
// coordinates leave Position nil; the name is still catalogued.
type FlatExtractor struct {
	NameField string
	LatField  string
	LonField  string
}

// NewFlatExtractor returns a FlatExtractor with the default field names.
func NewFlatExtractor() FlatExtractor {
	return FlatExtractor{NameField: "name", LatField: "lat", LonField: "lon"}
}

// Match accepts any record with a name field.
func (e FlatExtractor) Match(f Fields) bool {
	_, ok := f[e.NameField]
	return ok
}

// Extract implements Extractor.
func (e FlatExtractor) Extract(f Fields) (Record, bool) {
	name, ok := stringField(f, e.NameField)
	if !ok {
		return Record{}, false
	}
	r := Record{Shape: ShapeFlat, Name: name}
	lat, latOK := floatField(f, e.LatField)
	lon, lonOK := floatField(f, e.LonField)
	if latOK && lonOK {
		r.Position = &model.Vertex{Lat: lat, Lon: lon}
	}
	return r, true
}

// NestedExtractor reads {name, vertices: [{lat, lon}, ...]} records.
// Vertices with invalid coordinates are dropped individually.
type NestedExtractor struct {
	NameField     string
	VerticesField string
	LatField      string
	LonField      string
}

// NewNestedExtractor returns a NestedExtractor with the default field names.
func NewNestedExtractor() NestedExtractor {
	return NestedExtractor{NameField: "name", VerticesField: "vertices", LatField: "lat", LonField: "lon"}
}

// Match accepts records carrying both a name and a vertex array.
func (e NestedExtractor) Match(f Fields) bool {
	_, hasName := f[e.NameField]
	raw, hasVerts := f[e.VerticesField]
	return hasName && hasVerts && strings.HasPrefix(strings.TrimSpace(string(raw)), "[")
}

// Extract implements Extractor.
func (e NestedExtractor) Extract(f Fields) (Record, bool) {
	name, ok := stringField(f, e.NameField)
	if !ok {
		return Record{}, false
	}
	var raws []Fields
	if err := json.Unmarshal(f[e.VerticesField], &raws); err != nil {
		return Record{}, false
	}
	r := Record{Shape: ShapeNested, Name: name, Vertices: make([]model.Vertex, 0, len(raws))}
	for _, v := range raws {
		lat, latOK := floatField(v, e.LatField)
		lon, lonOK := floatField(v, e.LonField)
		if latOK && lonOK {
			r.Vertices = append(r.Vertices, model.Vertex{Lat: lat, Lon: lon})
		}
	}
	return r, true
}

// DefaultExtractors tries the nested layout before the flat one, since a
// nested record also satisfies the flat matcher.
func DefaultExtractors() []Extractor {
	return []Extractor{NewNestedExtractor(), NewFlatExtractor()}
}

// DecodeStats counts records accepted per shape and records rejected.
type DecodeStats struct {
	Flat     int `json:"flat"`
	Nested   int `json:"nested"`
	Rejected int `json:"rejected"`
}

// Decode resolves every raw record with the first matching extractor.
// Records that are not objects, match no extractor, fail extraction or have
// a blank name are counted as rejected. With no extractors the defaults are used.
func Decode(raw []json.RawMessage, extractors ...Extractor) ([]Record, DecodeStats) {
	if len(extractors) == 0 {
		extractors = DefaultExtractors()
	}
	var stats DecodeStats
	out := make([]Record, 0, len(raw))
	for _, msg := range raw {
		var f Fields
		if err := json.Unmarshal(msg, &f); err != nil || f == nil {
			stats.Rejected++
			continue
		}
		rec, ok := extract(f, extractors)
		if !ok || strings.TrimSpace(rec.Name) == "" {
			stats.Rejected++
			continue
		}
		switch rec.Shape {
		case ShapeNested:
			stats.Nested++
		default:
			stats.Flat++
		}
		out = append(out, rec)
	}
	return out, stats
}

// DecodeJSON decodes a JSON array of raw target records. A payload that is
// not an array yields no records.
func DecodeJSON(data []byte, extractors ...Extractor) ([]Record, DecodeStats) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, DecodeStats{}
	}
	return Decode(raw, extractors...)
}

func extract(f Fields, extractors []Extractor) (Record, bool) {
	for _, e := range extractors {
		if e.Match(f) {
			return e.Extract(f)
		}
	}
	return Record{}, false
}

func stringField(f Fields, key string) (string, bool) {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	// Numeric names are kept in their literal form.
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func floatField(f Fields, key string) (float64, bool) {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		if v, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
