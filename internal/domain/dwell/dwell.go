// Package dwell pairs target enter/exit events into dwell intervals and
// takeoff/landing events into flights.
//
// Pairing is positional: the i-th enter of a target goes with the i-th exit
// of the same target, and unmatched trailing events are dropped. Intervals
// whose exit precedes the entry are kept with a negative duration.
package dwell

import (
	"math"

	"github.com/okian/sortie/internal/domain/model"
)

// Windows is the result of pairing one mission's events.
type Windows struct {
	// Intervals lists every interval, grouped by target in first-seen
	// order and positional within a target.
	Intervals []model.DwellInterval `json:"intervals"`
	// Flights lists positional takeoff/landing pairs.
	Flights []model.Flight `json:"flights"`
	// MissionSeconds is the summed duration of all flights.
	MissionSeconds float64 `json:"mission_seconds"`
	// FlightStartMs is the first takeoff, FlightEndMs the last landing.
	FlightStartMs int64 `json:"flight_start_ms"`
	FlightEndMs   int64 `json:"flight_end_ms"`

	order   []string
	targets map[string]*targetWindows
}

type targetWindows struct {
	enters    []int64
	exits     []int64
	intervals []model.DwellInterval
	total     float64
}

// Build pairs the events of a single mission.
func Build(events []model.Event) Windows {
	w := Windows{
		Intervals: make([]model.DwellInterval, 0),
		targets:   make(map[string]*targetWindows),
	}

	var takeoffs, landings []int64
	for _, ev := range events {
		switch ev.Kind {
		case model.EventTakeoff:
			takeoffs = append(takeoffs, ev.TimestampMs)
		case model.EventLanding:
			landings = append(landings, ev.TimestampMs)
		case model.EventTargetEnter:
			tw := w.target(ev.TargetID)
			tw.enters = append(tw.enters, ev.TimestampMs)
		case model.EventTargetExit:
			tw := w.target(ev.TargetID)
			tw.exits = append(tw.exits, ev.TimestampMs)
		}
	}

	for _, id := range w.order {
		tw := w.targets[id]
		n := min(len(tw.enters), len(tw.exits))
		tw.intervals = make([]model.DwellInterval, 0, n)
		for i := 0; i < n; i++ {
			iv := model.DwellInterval{
				TargetID:        id,
				EntryMs:         tw.enters[i],
				ExitMs:          tw.exits[i],
				DurationSeconds: seconds(tw.enters[i], tw.exits[i]),
			}
			tw.intervals = append(tw.intervals, iv)
			tw.total = finite(tw.total + iv.DurationSeconds)
		}
		w.Intervals = append(w.Intervals, tw.intervals...)
	}

	n := min(len(takeoffs), len(landings))
	w.Flights = make([]model.Flight, 0, n)
	for i := 0; i < n; i++ {
		f := model.Flight{
			TakeoffMs:       takeoffs[i],
			LandingMs:       landings[i],
			DurationSeconds: seconds(takeoffs[i], landings[i]),
		}
		w.Flights = append(w.Flights, f)
		w.MissionSeconds = finite(w.MissionSeconds + f.DurationSeconds)
	}
	if len(takeoffs) > 0 {
		w.FlightStartMs = takeoffs[0]
	}
	if len(landings) > 0 {
		w.FlightEndMs = landings[len(landings)-1]
	}
	return w
}

func (w *Windows) target(id string) *targetWindows {
	tw, ok := w.targets[id]
	if !ok {
		tw = &targetWindows{}
		w.targets[id] = tw
		w.order = append(w.order, id)
	}
	return tw
}

// Targets returns every target id seen in an enter or exit event, in
// first-seen order.
func (w Windows) Targets() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// For returns the intervals of one target. Unknown ids yield nil.
func (w Windows) For(targetID string) []model.DwellInterval {
	tw, ok := w.targets[targetID]
	if !ok || len(tw.intervals) == 0 {
		return nil
	}
	out := make([]model.DwellInterval, len(tw.intervals))
	copy(out, tw.intervals)
	return out
}

// Total returns the summed dwell of one target in seconds; 0 when the target
// has no matched pair or is unknown.
func (w Windows) Total(targetID string) float64 {
	if tw, ok := w.targets[targetID]; ok {
		return tw.total
	}
	return 0
}

// EnterCounts returns how many enter events each target produced,
// including enters that were never paired.
func (w Windows) EnterCounts() map[string]int {
	out := make(map[string]int, len(w.targets))
	for id, tw := range w.targets {
		out[id] = len(tw.enters)
	}
	return out
}

// Unmatched reports, per target, how many enters and exits were dropped by
// positional truncation. Targets with nothing dropped are omitted.
func (w Windows) Unmatched() map[string][2]int {
	out := make(map[string][2]int)
	for id, tw := range w.targets {
		n := len(tw.intervals)
		if len(tw.enters) > n || len(tw.exits) > n {
			out[id] = [2]int{len(tw.enters) - n, len(tw.exits) - n}
		}
	}
	return out
}

func seconds(fromMs, toMs int64) float64 {
	return finite(float64(toMs-fromMs) / 1000)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
