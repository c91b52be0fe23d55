package figure

import (
	"context"
	"slices"
)

// reconcileAxes applies a new declared axis list with the same prefix rule
// as marks. Axes are appended to the axes group as they complete.
func (f *Figure) reconcileAxes(axes []Axis) {
	keep := commonPrefix(f.axes, axes, Axis.ID)
	for _, e := range f.axes[keep:] {
		f.removeEntity(e)
	}

	next := slices.Clone(f.axes[:keep])
	for _, a := range axes[keep:] {
		e := newEntity(kindAxis, PrefixAxis, a.ID())
		factory := f.axisFactory
		f.materialize(e, func(ctx context.Context) (View, error) {
			if factory == nil {
				return nil, errNoFactory
			}
			return factory(ctx, f, a)
		})
		next = append(next, e)
	}
	f.axes = next
}

// setInteraction replaces the current interaction. An in-flight one is
// superseded: its view is discarded when it arrives.
func (f *Figure) setInteraction(i Interaction) {
	if f.interaction != nil {
		f.removeEntity(f.interaction)
		f.interaction = nil
	}
	if i == nil {
		return
	}

	e := newEntity(kindInteraction, PrefixInteraction, i.ID())
	factory := f.interactionFactory
	f.interaction = e
	f.materialize(e, func(ctx context.Context) (View, error) {
		if factory == nil {
			return nil, errNoFactory
		}
		return factory(ctx, f, i)
	})
}
