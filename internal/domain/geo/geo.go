// Package geo holds the great-circle math shared by track and target analytics.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the Haversine formula.
const EarthRadiusMeters = 6_371_000.0

const degToRad = math.Pi / 180.0

// DistanceMeters returns the Haversine distance between two lat/lon points
// given in degrees.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad
	lat1r := lat1 * degToRad
	lat2r := lat2 * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// DistanceKm is DistanceMeters scaled to kilometres.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceMeters(lat1, lon1, lat2, lon2) / 1000
}
