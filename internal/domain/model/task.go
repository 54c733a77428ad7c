package model

// Waypoint is one node of a task route. NextID links to the following
// waypoint; coordinates may be missing in the source export.
type Waypoint struct {
	ID     string   `json:"wp_id"`
	NextID string   `json:"next_wp_id,omitempty"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	AltASL *float64 `json:"alt_asl"`
}

// Task is a planned route flown against a named target.
type Task struct {
	ID         string     `json:"task_id"`
	Name       string     `json:"task_name"`
	TargetName string     `json:"target_name"`
	Waypoints  []Waypoint `json:"waypoints"`
	// Legs is the number of waypoint-to-waypoint hops along the route.
	Legs int `json:"legs"`
}

// TargetLegs sums the legs of every task flown against one target.
type TargetLegs struct {
	TargetName string `json:"target_name"`
	Tasks      int    `json:"tasks"`
	Legs       int    `json:"legs"`
}
