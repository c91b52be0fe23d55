package marks

import (
	"context"
	"sync"

	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/scene"
)

// Crosshair is an interaction that overlays the plot area with guide lines.
type Crosshair struct {
	id string
}

// NewCrosshair declares a crosshair interaction.
func NewCrosshair(id string) *Crosshair { return &Crosshair{id: id} }

func (c *Crosshair) ID() string { return c.id }

type crosshairView struct {
	fig  *figure.Figure
	node *scene.Node

	mu        sync.Mutex
	unsub     func()
	displayed bool
}

func newCrosshairView(ctx context.Context, f *figure.Figure, c *Crosshair) (*crosshairView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := &crosshairView{
		fig:  f,
		node: scene.New("g").SetAttr("class", "crosshair").SetAttr("data-id", c.id),
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.unsub = f.Subscribe(func(n figure.Notification) {
		if _, ok := n.(figure.MarginUpdated); ok {
			v.draw()
		}
	})
	v.drawLocked()
	return v, nil
}

func (v *crosshairView) Node() *scene.Node { return v.node }

// Displayed makes the overlay visible.
func (v *crosshairView) Displayed() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.displayed = true
	v.drawLocked()
}

func (v *crosshairView) Remove() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
}

func (v *crosshairView) draw() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drawLocked()
}

func (v *crosshairView) drawLocked() {
	g := v.fig.Geometry()
	w, h := max(g.PlotWidth, 0), max(g.PlotHeight, 0)

	v.node.Clear()
	if v.displayed {
		v.node.SetStyle("visibility", "")
	} else {
		v.node.SetStyle("visibility", "hidden")
	}
	v.node.Append(scene.New("rect").
		SetAttr("class", "overlay").
		SetAttrf("width", w).
		SetAttrf("height", h).
		SetStyle("fill", "none").
		SetStyle("pointer-events", "all"))
	v.node.Append(scene.New("line").
		SetAttr("class", "crosshair_x").
		SetAttrf("x1", w/2).SetAttrf("x2", w/2).
		SetAttrf("y1", 0).SetAttrf("y2", h))
	v.node.Append(scene.New("line").
		SetAttr("class", "crosshair_y").
		SetAttrf("x1", 0).SetAttrf("x2", w).
		SetAttrf("y1", h/2).SetAttrf("y2", h/2))
}

var (
	_ figure.View      = (*crosshairView)(nil)
	_ figure.Displayer = (*crosshairView)(nil)
)
