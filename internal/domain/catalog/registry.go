package catalog

// registry records names in first-seen order. It is private to a single
// catalog build and never shared, so it needs no locking.
type registry struct {
	seen map[string]int
}

func newRegistry() *registry {
	return &registry{seen: make(map[string]int)}
}

// seenAndRecord returns the index of name and whether it was recorded by
// this call. New names get the next progressive index.
func (r *registry) seenAndRecord(name string) (int, bool) {
	if idx, ok := r.seen[name]; ok {
		return idx, false
	}
	idx := len(r.seen)
	r.seen[name] = idx
	return idx, true
}
