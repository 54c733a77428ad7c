// Package task decodes mission task plans and counts the legs flown along
// their waypoint chains.
//
// A task record looks like
//
//	{"taskId": "T1", "taskName": "sweep", "targetName": "A",
//	 "waypoints": [{"WPid": "1", "nextWPid": "2", "lat": 45, "lon": 9, "alt_asl": 120}, ...]}
//
// Ids may be JSON strings or numbers.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/sortie/internal/domain/model"
)

// Stats counts accepted and rejected task records.
type Stats struct {
	Records  int `json:"records"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// id is a JSON string or number carried as a string. Other values leave it
// empty.
type id string

func (v *id) UnmarshalJSON(b []byte) error {
	*v = ""
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = id(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*v = id(n.String())
	}
	return nil
}

// coord is an optional finite number; null, strings that do not parse and
// non-finite values stay nil.
type coord struct{ v *float64 }

func (c *coord) UnmarshalJSON(b []byte) error {
	c.v = nil
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		var s string
		if json.Unmarshal(b, &s) != nil {
			return nil
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return nil
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	c.v = &f
	return nil
}

type rawWaypoint struct {
	ID     id    `json:"WPid"`
	NextID id    `json:"nextWPid"`
	Lat    coord `json:"lat"`
	Lon    coord `json:"lon"`
	AltASL coord `json:"alt_asl"`
}

type rawTask struct {
	ID         id                `json:"taskId"`
	Name       string            `json:"taskName"`
	TargetName string            `json:"targetName"`
	Waypoints  []json.RawMessage `json:"waypoints"`
}

// Decode parses a JSON array of task records one element at a time.
// Elements that are not objects, or carry neither a task id nor a name, are
// rejected; waypoints that are not objects or lack an id are dropped. Only
// a payload that is not an array is an error.
func Decode(data []byte) ([]model.Task, Stats, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, Stats{}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, Stats{}, fmt.Errorf("decode tasks: %w", err)
	}

	stats := Stats{Records: len(elems)}
	out := make([]model.Task, 0, len(elems))
	for _, elem := range elems {
		t, ok := decodeTask(elem)
		if !ok {
			stats.Rejected++
			continue
		}
		out = append(out, t)
		stats.Accepted++
	}
	return out, stats, nil
}

func decodeTask(elem json.RawMessage) (model.Task, bool) {
	var rt rawTask
	if err := json.Unmarshal(elem, &rt); err != nil {
		return model.Task{}, false
	}
	t := model.Task{
		ID:         string(rt.ID),
		Name:       strings.TrimSpace(rt.Name),
		TargetName: strings.TrimSpace(rt.TargetName),
		Waypoints:  make([]model.Waypoint, 0, len(rt.Waypoints)),
	}
	if t.ID == "" && t.Name == "" {
		return model.Task{}, false
	}
	for _, raw := range rt.Waypoints {
		var rw rawWaypoint
		if err := json.Unmarshal(raw, &rw); err != nil || rw.ID == "" {
			continue
		}
		t.Waypoints = append(t.Waypoints, model.Waypoint{
			ID:     string(rw.ID),
			NextID: string(rw.NextID),
			Lat:    rw.Lat.v,
			Lon:    rw.Lon.v,
			AltASL: rw.AltASL.v,
		})
	}
	t.Legs = CountLegs(t.Waypoints)
	return t, true
}

// CountLegs walks every nextWPid chain and counts the hops that land on a
// known waypoint. Walks start at chain heads (waypoints no other waypoint
// points to) in input order, then at any waypoint still unvisited, which
// covers closed loops. A hop onto an already visited waypoint counts and
// ends the walk, so every waypoint contributes at most one leg. Duplicate
// ids keep their first entry; self links and dangling links are not legs.
func CountLegs(wps []model.Waypoint) int {
	if len(wps) < 2 {
		return 0
	}
	next := make(map[string]string, len(wps))
	order := make([]string, 0, len(wps))
	targeted := make(map[string]bool, len(wps))
	for _, wp := range wps {
		if _, dup := next[wp.ID]; dup {
			continue
		}
		next[wp.ID] = wp.NextID
		order = append(order, wp.ID)
		if wp.NextID != "" && wp.NextID != wp.ID {
			targeted[wp.NextID] = true
		}
	}

	starts := make([]string, 0, len(order))
	for _, wpID := range order {
		if !targeted[wpID] {
			starts = append(starts, wpID)
		}
	}
	starts = append(starts, order...)

	legs := 0
	visited := make(map[string]bool, len(order))
	for _, head := range starts {
		if visited[head] {
			continue
		}
		visited[head] = true
		for cur := head; ; {
			nxt := next[cur]
			if _, known := next[nxt]; !known || nxt == cur {
				break
			}
			legs++
			if visited[nxt] {
				break
			}
			visited[nxt] = true
			cur = nxt
		}
	}
	return legs
}

// TotalLegs sums the legs of every task.
func TotalLegs(tasks []model.Task) int {
	total := 0
	for _, t := range tasks {
		total += t.Legs
	}
	return total
}

// LegsPerTarget groups tasks by target name in first-seen order. Tasks
// without a target name are grouped under unknownName.
func LegsPerTarget(tasks []model.Task, unknownName string) []model.TargetLegs {
	var out []model.TargetLegs
	index := make(map[string]int)
	for _, t := range tasks {
		name := t.TargetName
		if name == "" {
			name = unknownName
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, model.TargetLegs{TargetName: name})
		}
		out[i].Tasks++
		out[i].Legs += t.Legs
	}
	if out == nil {
		out = make([]model.TargetLegs, 0)
	}
	return out
}
