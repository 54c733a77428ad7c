package track

import (
	"github.com/okian/sortie/internal/domain/catalog"
	"github.com/okian/sortie/internal/domain/geo"
	"github.com/okian/sortie/internal/domain/model"
)

// GroupDistance is the spread of one named target's recorded positions.
type GroupDistance struct {
	TargetID   string  `json:"target_id"`
	Name       string  `json:"name"`
	PointCount int     `json:"point_count"`
	Km         float64 `json:"km"`
}

// TotalKm returns the flown length of the track in kilometres.
func TotalKm(points []model.TrackPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	var meters float64
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		meters += geo.DistanceMeters(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return meters / 1000
}

// PathKm returns the summed consecutive distance of an ordered vertex list
// in kilometres.
func PathKm(points []model.Vertex) float64 {
	if len(points) < 2 {
		return 0
	}
	var meters float64
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		meters += geo.DistanceMeters(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return meters / 1000
}

// GroupDistancesKm measures each catalog group as an ordered path.
func GroupDistancesKm(groups []catalog.Group) []GroupDistance {
	out := make([]GroupDistance, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupDistance{
			TargetID:   g.TargetID,
			Name:       g.Name,
			PointCount: len(g.Points),
			Km:         PathKm(g.Points),
		})
	}
	return out
}
