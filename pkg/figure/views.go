package figure

import (
	"context"
	"fmt"

	"github.com/matzehuels/figlayout/pkg/scale"
	"github.com/matzehuels/figlayout/pkg/scene"
)

// Mark is a declared visual series.
type Mark interface {
	// ID identifies the declaration. Reconciliation compares IDs to decide
	// which instances survive a list change.
	ID() string

	// Scales returns the scales the mark is bound to. A nil scale means the
	// figure's default scale for that orientation.
	Scales() (x, y scale.Scale)

	// DisplayLegend reports whether the mark contributes legend rows.
	DisplayLegend() bool
}

// View is a materialized renderable.
type View interface {
	// Node is the view's root node. The figure inserts it into its scene.
	Node() *scene.Node

	// Remove releases the view's resources. The figure detaches Node first.
	Remove()
}

// MarkView is a materialized mark.
type MarkView interface {
	View

	// Padding is the mark's requested padding in pixels per orientation.
	Padding() (x, y float64)

	// DrawLegend draws the mark's legend rows into g, the first row at
	// (x, y) and each following row rowStep lower. It returns the number of
	// rows drawn and the widest label in em.
	DrawLegend(g *scene.Node, x, y, rowStep float64) (rows int, labelWidth float64)
}

// Displayer is implemented by views that want to know when they become
// visible. Displayed is called once, after the figure's first display.
type Displayer interface {
	Displayed()
}

// Axis is a declared axis.
type Axis interface {
	ID() string
	Orientation() scale.Orientation
	// Scale returns the axis scale, nil for the figure default.
	Scale() scale.Scale
}

// Interaction is a declared interaction (selection, zoom, tooltip ...).
type Interaction interface {
	ID() string
}

// MarkFactory materializes a mark. It runs on its own goroutine; ctx is
// cancelled when the mark is removed before it finished.
type MarkFactory func(ctx context.Context, host *MarkHost, m Mark) (MarkView, error)

// AxisFactory materializes an axis.
type AxisFactory func(ctx context.Context, f *Figure, a Axis) (View, error)

// InteractionFactory materializes an interaction.
type InteractionFactory func(ctx context.Context, f *Figure, i Interaction) (View, error)

// State is the lifecycle state of a mark, axis or interaction instance.
type State int

const (
	StateDeclared State = iota
	StateMaterializing
	StateActive
	StateRemoved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDeclared:
		return "declared"
	case StateMaterializing:
		return "materializing"
	case StateActive:
		return "active"
	case StateRemoved:
		return "removed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for c := StateDeclared; c <= StateFailed; c++ {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// MarkHost is the handle a mark view uses to talk back to its figure.
// Calls made after the instance was removed are dropped.
type MarkHost struct {
	fig   *Figure
	e     *entity
	token string
}

// Token returns the instance's opaque identity.
func (h *MarkHost) Token() string { return h.token }

// Figure returns the owning figure.
func (h *MarkHost) Figure() *Figure { return h.fig }

// PaddingChanged reports a new requested padding on the current scales.
func (h *MarkHost) PaddingChanged(x, y float64) {
	h.fig.push(markPaddingMsg{e: h.e, pad: [2]float64{x, y}})
}

// ScalesChanged reports that the mark is now bound to other scales.
// A nil scale means the figure default.
func (h *MarkHost) ScalesChanged(x, y scale.Scale) {
	h.fig.push(markScalesMsg{e: h.e, scales: [2]scale.Scale{x, y}})
}

// LegendChanged reports that the mark's legend rows changed.
func (h *MarkHost) LegendChanged() {
	h.fig.push(markLegendMsg{e: h.e})
}
