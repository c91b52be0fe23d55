// Package padding tracks per-mark padding requests and aggregates them into
// one effective padding per scale.
//
// Marks sharing a scale each request an inset (for example a point radius) so
// their glyphs are not clipped at the plot-area edge. The registry keeps one
// bucket per scale id holding every mark's request; the effective padding of
// a scale is the maximum over its bucket. The maximum never decays below the
// largest live request, so transient dips in one mark's padding do not make
// the layout flicker. Only removing the contributing entry lowers it.
//
// A registry covers a single orientation. Figures hold one per axis.
//
// A Registry is not safe for concurrent use. Use [Registry.Snapshot] to hand
// an immutable copy of the aggregate to other goroutines.
package padding

import (
	"maps"
	"slices"
)

// Registry is the padding bookkeeping for one orientation.
type Registry struct {
	buckets   map[string]map[string]float64
	effective map[string]float64
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		buckets:   make(map[string]map[string]float64),
		effective: make(map[string]float64),
	}
}

// Register upserts the padding a mark requests on a scale.
// Negative values are stored as 0.
func (r *Registry) Register(scaleID, markID string, pixels float64) {
	r.put(scaleID, markID, pixels)
	r.rebuild()
}

// Unregister removes a mark's entry on a scale. An emptied bucket is dropped.
// Unknown entries are ignored.
func (r *Registry) Unregister(scaleID, markID string) {
	if r.drop(scaleID, markID) {
		r.rebuild()
	}
}

// Rebind moves a mark's entry from one scale to another in a single step.
func (r *Registry) Rebind(markID, oldScaleID, newScaleID string, pixels float64) {
	r.drop(oldScaleID, markID)
	r.put(newScaleID, markID, pixels)
	r.rebuild()
}

// Purge removes every entry held by a mark and returns how many were removed.
func (r *Registry) Purge(markID string) int {
	n := 0
	for scaleID := range r.buckets {
		if r.drop(scaleID, markID) {
			n++
		}
	}
	if n > 0 {
		r.rebuild()
	}
	return n
}

// Effective returns the aggregated padding for a scale, 0 when it has no bucket.
func (r *Registry) Effective(scaleID string) float64 {
	return r.effective[scaleID]
}

// Has reports whether a scale currently has a bucket.
func (r *Registry) Has(scaleID string) bool {
	_, ok := r.buckets[scaleID]
	return ok
}

// Lookup returns a mark's entry on a scale.
func (r *Registry) Lookup(scaleID, markID string) (float64, bool) {
	v, ok := r.buckets[scaleID][markID]
	return v, ok
}

// Buckets returns the number of scales with at least one entry.
func (r *Registry) Buckets() int { return len(r.buckets) }

// Entries returns the total number of (scale, mark) entries.
func (r *Registry) Entries() int {
	n := 0
	for _, b := range r.buckets {
		n += len(b)
	}
	return n
}

// Scales returns the ids of all scales with a bucket, sorted.
func (r *Registry) Scales() []string {
	return slices.Sorted(maps.Keys(r.buckets))
}

// Snapshot returns a copy of the effective padding map.
func (r *Registry) Snapshot() map[string]float64 {
	return maps.Clone(r.effective)
}

func (r *Registry) put(scaleID, markID string, pixels float64) {
	if !(pixels > 0) {
		pixels = 0
	}
	b, ok := r.buckets[scaleID]
	if !ok {
		b = make(map[string]float64)
		r.buckets[scaleID] = b
	}
	b[markID] = pixels
}

func (r *Registry) drop(scaleID, markID string) bool {
	b, ok := r.buckets[scaleID]
	if !ok {
		return false
	}
	if _, ok := b[markID]; !ok {
		return false
	}
	delete(b, markID)
	if len(b) == 0 {
		delete(r.buckets, scaleID)
	}
	return true
}

// rebuild recomputes the effective map from scratch so it is always a pure
// function of the bucket contents.
func (r *Registry) rebuild() {
	clear(r.effective)
	for scaleID, b := range r.buckets {
		m := 0.0
		for _, v := range b {
			m = max(m, v)
		}
		r.effective[scaleID] = m
	}
}
