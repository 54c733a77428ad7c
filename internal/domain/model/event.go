// Package model contains domain models passed between layers.
package model

import "strings"

// EventKind classifies a parsed mission log line.
type EventKind int

// Recognised event kinds.
const (
	EventTakeoff EventKind = iota + 1
	EventLanding
	EventTargetEnter
	EventTargetExit
)

// String returns the log vocabulary name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventTakeoff:
		return "takeoff"
	case EventLanding:
		return "landing"
	case EventTargetEnter:
		return "target_enter"
	case EventTargetExit:
		return "target_exit"
	default:
		return "unknown"
	}
}

// MarshalText lets kinds render as names in JSON reports.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText is the inverse of MarshalText. Unknown names map to zero.
func (k *EventKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "takeoff":
		*k = EventTakeoff
	case "landing":
		*k = EventLanding
	case "target_enter":
		*k = EventTargetEnter
	case "target_exit":
		*k = EventTargetExit
	default:
		*k = 0
	}
	return nil
}

// Event is a single recognised line of the mission event log.
// Events keep file order; nothing downstream re-sorts them.
type Event struct {
	Kind        EventKind `json:"kind"`
	TargetID    string    `json:"target_id,omitempty"` // set only for enter/exit
	TimestampMs int64     `json:"timestamp_ms"`
}

// IsTargetEvent reports whether the event carries a target id.
func (e Event) IsTargetEvent() bool {
	return e.Kind == EventTargetEnter || e.Kind == EventTargetExit
}

// DwellInterval is one paired enter/exit window for a target.
type DwellInterval struct {
	TargetID        string  `json:"target_id"`
	EntryMs         int64   `json:"entry_ms"`
	ExitMs          int64   `json:"exit_ms"`
	DurationSeconds float64 `json:"duration_seconds"` // (ExitMs-EntryMs)/1000, may be negative
}

// Contains reports whether ts falls inside the window, bounds included.
func (d DwellInterval) Contains(ts int64) bool {
	return ts >= d.EntryMs && ts <= d.ExitMs
}

// Flight is one positional takeoff/landing pair.
type Flight struct {
	TakeoffMs       int64   `json:"takeoff_ms"`
	LandingMs       int64   `json:"landing_ms"`
	DurationSeconds float64 `json:"duration_seconds"`
}
