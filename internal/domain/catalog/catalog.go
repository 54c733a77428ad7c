// Package catalog deduplicates raw target records by name and assigns each
// distinct name a stable, progressive id.
package catalog

import (
	"strconv"

	"github.com/okian/sortie/internal/domain/model"
)

// DefaultUnknownName is the name reported for ids the catalog cannot resolve.
const DefaultUnknownName = "unknown"

// Group is the ordered set of positions recorded under one target name.
type Group struct {
	TargetID string         `json:"target_id"`
	Name     string         `json:"name"`
	Points   []model.Vertex `json:"points"`
}

// Catalog is an immutable name<->id index built from one run's records.
type Catalog struct {
	targets     []model.Target
	groups      []Group
	byName      map[string]int
	byID        map[string]int
	unknownName string
}

// Option applies a configuration option to the Catalog.
type Option func(*Catalog)

// WithUnknownName sets the sentinel returned by Resolve for unknown ids.
func WithUnknownName(name string) Option {
	return func(c *Catalog) {
		if name != "" {
			c.unknownName = name
		}
	}
}

// New indexes records. Ids follow first-seen order of names starting at 0.
func New(records []Record, opts ...Option) *Catalog {
	c := &Catalog{
		byName:      make(map[string]int),
		byID:        make(map[string]int),
		unknownName: DefaultUnknownName,
	}
	for _, opt := range opts {
		opt(c)
	}

	reg := newRegistry()
	for _, r := range records {
		idx, fresh := reg.seenAndRecord(r.Name)
		if fresh {
			id := strconv.Itoa(idx)
			c.targets = append(c.targets, model.Target{ID: id, Name: r.Name})
			c.groups = append(c.groups, Group{TargetID: id, Name: r.Name})
			c.byName[r.Name] = idx
			c.byID[id] = idx
		}
		c.groups[idx].Points = append(c.groups[idx].Points, r.Points()...)
		if len(r.Vertices) > 0 && len(c.targets[idx].Vertices) == 0 {
			c.targets[idx].Vertices = append([]model.Vertex(nil), r.Vertices...)
		}
	}
	return c
}

// AssignIDs returns the distinct target names of records in first-seen
// order with ids "0", "1", ... . Calling it twice on the same input yields
// the same assignment.
func AssignIDs(records []Record) []model.Target {
	return New(records).Targets()
}

// UniqueByName returns the first record seen for each distinct name.
func UniqueByName(records []Record) []Record {
	reg := newRegistry()
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if _, fresh := reg.seenAndRecord(r.Name); fresh {
			out = append(out, r)
		}
	}
	return out
}

// Targets returns the catalogued targets in id order.
func (c *Catalog) Targets() []model.Target {
	out := make([]model.Target, len(c.targets))
	copy(out, c.targets)
	return out
}

// Groups returns per-name position groups in id order.
func (c *Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	copy(out, c.groups)
	return out
}

// Len returns the number of distinct names.
func (c *Catalog) Len() int { return len(c.targets) }

// ID returns the id assigned to name.
func (c *Catalog) ID(name string) (string, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return "", false
	}
	return c.targets[idx].ID, true
}

// Name returns the name catalogued under id.
func (c *Catalog) Name(id string) (string, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return "", false
	}
	return c.targets[idx].Name, true
}

// Resolve is Name with the sentinel for unknown ids.
func (c *Catalog) Resolve(id string) string {
	if name, ok := c.Name(id); ok {
		return name
	}
	return c.unknownName
}

// UnknownName returns the sentinel used by Resolve.
func (c *Catalog) UnknownName() string { return c.unknownName }
