// Package track parses navigation tracks and measures distances along them.
package track

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/sortie/internal/domain/model"
)

// Field layout of a track line.
const (
	fieldSep  = ";"
	minFields = 7
	latField  = 4
	lonField  = 5
	altField  = 6
)

// Stats counts valid samples and dropped lines.
type Stats struct {
	Lines   int `json:"lines"`
	Samples int `json:"samples"`
	Dropped int `json:"dropped"`
}

// Parse splits raw track text into lines and parses them. Blank lines are
// ignored without being counted.
func Parse(text string) []model.TrackPoint {
	pts, _ := ParseWithStats(text)
	return pts
}

// ParseWithStats is Parse plus line accounting.
func ParseWithStats(text string) ([]model.TrackPoint, Stats) {
	return ParseLines(strings.Split(text, "\n"))
}

// ParseLines parses already split track lines, preserving order.
func ParseLines(lines []string) ([]model.TrackPoint, Stats) {
	var stats Stats
	pts := make([]model.TrackPoint, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Lines++
		p, ok := ParseLine(line)
		if !ok {
			stats.Dropped++
			continue
		}
		pts = append(pts, p)
		stats.Samples++
	}
	return pts, stats
}

// ParseLine parses one `;` separated record. Lines with fewer than seven
// fields, or with a lat/lon/altitude that is not a finite number, are
// rejected.
func ParseLine(line string) (model.TrackPoint, bool) {
	fields := strings.Split(line, fieldSep)
	if len(fields) < minFields {
		return model.TrackPoint{}, false
	}
	lat, ok := parseFinite(fields[latField])
	if !ok {
		return model.TrackPoint{}, false
	}
	lon, ok := parseFinite(fields[lonField])
	if !ok {
		return model.TrackPoint{}, false
	}
	alt, ok := parseFinite(fields[altField])
	if !ok {
		return model.TrackPoint{}, false
	}
	return model.TrackPoint{Lat: lat, Lon: lon, Altitude: alt}, true
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
