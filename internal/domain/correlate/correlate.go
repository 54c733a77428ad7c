// Package correlate attributes detection points to targets by temporal
// containment in their dwell intervals.
package correlate

import (
	"github.com/okian/sortie/internal/domain/catalog"
	"github.com/okian/sortie/internal/domain/model"
	"gonum.org/v1/gonum/stat"
)

// NameResolver maps a target id to a display name. Implementations return
// a sentinel for ids they do not know.
type NameResolver interface {
	Resolve(targetID string) string
}

// ResolverFunc adapts a function to NameResolver.
type ResolverFunc func(targetID string) string

// Resolve implements NameResolver.
func (f ResolverFunc) Resolve(targetID string) string { return f(targetID) }

// Correlate emits one CorrelatedDetection for every (interval, point) pair
// where the point's timestamp lies within [EntryMs, ExitMs]. Output follows
// interval order, then point order. A point inside overlapping intervals is
// emitted once per interval. Inputs are not modified. A nil resolver names
// every target catalog.DefaultUnknownName.
func Correlate(intervals []model.DwellInterval, points []model.DetectionPoint, names NameResolver) []model.CorrelatedDetection {
	out := make([]model.CorrelatedDetection, 0)
	if len(intervals) == 0 || len(points) == 0 {
		return out
	}
	cache := make(map[string]string)
	for _, iv := range intervals {
		name, ok := cache[iv.TargetID]
		if !ok {
			name = catalog.DefaultUnknownName
			if names != nil {
				name = names.Resolve(iv.TargetID)
			}
			cache[iv.TargetID] = name
		}
		for _, p := range points {
			if !iv.Contains(p.TimestampMs) {
				continue
			}
			out = append(out, model.CorrelatedDetection{
				TargetID:    iv.TargetID,
				TargetName:  name,
				Lat:         p.Lat,
				Lon:         p.Lon,
				TimestampMs: p.TimestampMs,
			})
		}
	}
	return out
}

// Summary aggregates the correlated detections of one target.
type Summary struct {
	TargetID    string  `json:"target_id"`
	TargetName  string  `json:"target_name"`
	Count       int     `json:"count"`
	CentroidLat float64 `json:"centroid_lat"`
	CentroidLon float64 `json:"centroid_lon"`
	FirstMs     int64   `json:"first_ms"`
	LastMs      int64   `json:"last_ms"`
}

// Summarize groups correlated detections by target id in first-seen order
// and reports count, mean position and time span per target.
func Summarize(dets []model.CorrelatedDetection) []Summary {
	type acc struct {
		sum      Summary
		lat, lon []float64
	}
	var order []string
	byID := make(map[string]*acc)
	for _, d := range dets {
		a, ok := byID[d.TargetID]
		if !ok {
			a = &acc{sum: Summary{TargetID: d.TargetID, TargetName: d.TargetName, FirstMs: d.TimestampMs, LastMs: d.TimestampMs}}
			byID[d.TargetID] = a
			order = append(order, d.TargetID)
		}
		a.sum.Count++
		a.lat = append(a.lat, d.Lat)
		a.lon = append(a.lon, d.Lon)
		a.sum.FirstMs = min(a.sum.FirstMs, d.TimestampMs)
		a.sum.LastMs = max(a.sum.LastMs, d.TimestampMs)
	}

	out := make([]Summary, 0, len(order))
	for _, id := range order {
		a := byID[id]
		a.sum.CentroidLat = stat.Mean(a.lat, nil)
		a.sum.CentroidLon = stat.Mean(a.lon, nil)
		out = append(out, a.sum)
	}
	return out
}
