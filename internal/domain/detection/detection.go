// Package detection normalises raw sensor detection records into typed
// points keyed by epoch milliseconds.
package detection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/sortie/internal/domain/model"
)

// Number is a JSON value that may arrive as a number or a numeric string.
// Absent, null, or unparsable values leave it unset.
type Number struct {
	Value float64
	Set   bool
}

// Float returns a set Number.
func Float(v float64) Number { return Number{Value: v, Set: true} }

// UnmarshalJSON implements json.Unmarshaler. It never fails, so one bad
// field cannot abort decoding of the whole array.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err == nil {
		*n = Number{Value: v, Set: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		*n = Number{Value: v, Set: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n Number) finite() (float64, bool) {
	if !n.Set || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return 0, false
	}
	return n.Value, true
}

// Raw is one detection record as delivered by the sensor export:
// {timestamp: unix ms, lat, lon}.
type Raw struct {
	Timestamp Number `json:"timestamp"`
	Lat       Number `json:"lat"`
	Lon       Number `json:"lon"`
}

// Stats counts accepted and excluded detections.
type Stats struct {
	Records  int `json:"records"`
	Accepted int `json:"accepted"`
	Excluded int `json:"excluded"`
}

// Decode parses a JSON array of raw detections one element at a time. An
// element that is not a detection object decodes to an empty Raw, which
// Ingest excludes. Only a payload that is not an array is an error.
func Decode(data []byte) ([]Raw, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("decode detections: %w", err)
	}
	raw := make([]Raw, len(elems))
	for i, elem := range elems {
		if err := json.Unmarshal(elem, &raw[i]); err != nil {
			raw[i] = Raw{}
		}
	}
	return raw, nil
}

// Ingest keeps records whose timestamp, lat and lon are all finite numbers.
// Timestamps are rounded to the nearest millisecond; order is preserved.
func Ingest(raw []Raw) ([]model.DetectionPoint, Stats) {
	stats := Stats{Records: len(raw)}
	out := make([]model.DetectionPoint, 0, len(raw))
	for _, r := range raw {
		p, ok := normalize(r)
		if !ok {
			stats.Excluded++
			continue
		}
		out = append(out, p)
		stats.Accepted++
	}
	return out, stats
}

func normalize(r Raw) (model.DetectionPoint, bool) {
	ts, ok := r.Timestamp.finite()
	if !ok || ts >= math.MaxInt64 || ts < math.MinInt64 {
		return model.DetectionPoint{}, false
	}
	lat, ok := r.Lat.finite()
	if !ok {
		return model.DetectionPoint{}, false
	}
	lon, ok := r.Lon.finite()
	if !ok {
		return model.DetectionPoint{}, false
	}
	return model.DetectionPoint{TimestampMs: int64(math.Round(ts)), Lat: lat, Lon: lon}, true
}
