package figure

import (
	"slices"
	"sync"

	"github.com/matzehuels/figlayout/pkg/legend"
)

// Bus fans typed events out to subscribers.
// Publish calls handlers synchronously on the publishing goroutine, outside
// the bus lock, so handlers may subscribe, unsubscribe or publish again.
type Bus[E any] struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(E)
	ids  []int
}

// Subscribe registers fn and returns a function that removes it.
// The returned function is idempotent.
func (b *Bus[E]) Subscribe(fn func(E)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(E))
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	b.ids = append(b.ids, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			b.ids = slices.DeleteFunc(b.ids, func(v int) bool { return v == id })
		})
	}
}

// Publish delivers e to every current subscriber in subscription order.
func (b *Bus[E]) Publish(e E) {
	b.mu.RLock()
	fns := make([]func(E), 0, len(b.ids))
	for _, id := range b.ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Len returns the number of subscribers.
func (b *Bus[E]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.ids)
}

// =============================================================================
// Model change events
// =============================================================================

// Change is a model property change. Each setter on [Model] publishes exactly
// one Change carrying the new value.
type Change interface {
	change()
}

type (
	// MarginChanged is published by [Model.SetMargin].
	MarginChanged struct{ Margin Margin }
	// AspectRatioChanged is published by [Model.SetAspectRatio].
	AspectRatioChanged struct{ Min, Max float64 }
	// PaddingChanged is published by [Model.SetPadding] with the padding fractions.
	PaddingChanged struct{ X, Y float64 }
	// TitleChanged is published by [Model.SetTitle].
	TitleChanged struct{ Title string }
	// TitleStyleChanged is published by [Model.SetTitleStyle].
	TitleStyleChanged struct{ Style Style }
	// BackgroundStyleChanged is published by [Model.SetBackgroundStyle].
	BackgroundStyleChanged struct{ Style Style }
	// LegendLocationChanged is published by [Model.SetLegendLocation].
	LegendLocationChanged struct{ Location legend.Location }
	// LayoutChanged is published by [Model.SetLayoutMin].
	LayoutChanged struct{ MinWidth, MinHeight float64 }
	// MarksChanged carries the full declared mark list after any mark edit.
	MarksChanged struct{ Marks []Mark }
	// AxesChanged is published by [Model.SetAxes].
	AxesChanged struct{ Axes []Axis }
	// InteractionChanged is published by [Model.SetInteraction]; nil removes it.
	InteractionChanged struct{ Interaction Interaction }
)

func (MarginChanged) change()          {}
func (AspectRatioChanged) change()     {}
func (PaddingChanged) change()         {}
func (TitleChanged) change()           {}
func (TitleStyleChanged) change()      {}
func (BackgroundStyleChanged) change() {}
func (LegendLocationChanged) change()  {}
func (LayoutChanged) change()          {}
func (MarksChanged) change()           {}
func (AxesChanged) change()            {}
func (InteractionChanged) change()     {}

// =============================================================================
// Figure notifications
// =============================================================================

// Notification is emitted by a figure to its subscribers.
type Notification interface {
	notification()
}

// MarginUpdated is emitted after every relayout and every padding
// recomputation. Consumers re-read ranges and geometry.
type MarginUpdated struct {
	Geometry Geometry
}

// LegendUpdated is emitted after the legend block was redrawn.
type LegendUpdated struct {
	Legend legend.Result
}

func (MarginUpdated) notification() {}
func (LegendUpdated) notification() {}
