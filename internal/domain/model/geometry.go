package model

// TrackPoint is one navigation sample; slice index is sample order.
type TrackPoint struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Altitude float64 `json:"altitude"`
}

// DetectionPoint is a sensor hit, independent of any target until correlated.
type DetectionPoint struct {
	TimestampMs int64   `json:"timestamp_ms"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Vertex is a plain lat/lon pair used by target geometry.
type Vertex struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Target is a catalogued named target.
type Target struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Vertices []Vertex `json:"vertices,omitempty"`
}

// CorrelatedDetection is a detection attributed to a target whose dwell
// interval contains its timestamp.
type CorrelatedDetection struct {
	TargetID    string  `json:"target_id"`
	TargetName  string  `json:"target_name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	TimestampMs int64   `json:"timestamp_ms"`
}
