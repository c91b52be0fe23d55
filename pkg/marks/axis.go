package marks

import (
	"context"
	"strconv"
	"sync"

	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/scale"
	"github.com/matzehuels/figlayout/pkg/scene"
)

// DefaultTicks is the tick count of an axis without an explicit one.
const DefaultTicks = 5

// Axis is an axis declaration.
type Axis struct {
	id     string
	orient scale.Orientation
	scale  scale.Scale
	ticks  int
	label  string
}

// NewAxis declares an axis. A nil scale uses the figure default for the
// orientation; ticks below 2 use [DefaultTicks].
func NewAxis(id string, o scale.Orientation, s scale.Scale, ticks int, label string) *Axis {
	if ticks < 2 {
		ticks = DefaultTicks
	}
	return &Axis{id: id, orient: o, scale: s, ticks: ticks, label: label}
}

func (a *Axis) ID() string                     { return a.id }
func (a *Axis) Orientation() scale.Orientation { return a.orient }
func (a *Axis) Scale() scale.Scale             { return a.scale }

type axisView struct {
	axis *Axis
	fig  *figure.Figure
	node *scene.Node

	mu    sync.Mutex
	unsub func()
}

func newAxisView(ctx context.Context, f *figure.Figure, a *Axis) (*axisView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := &axisView{
		axis: a,
		fig:  f,
		node: scene.New("g").SetAttr("class", "axis axis_"+a.orient.String()).SetAttr("data-id", a.id),
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

func (v *axisView) Node() *scene.Node { return v.node }

func (v *axisView) Remove() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unsub != nil {
		v.unsub()
		v.unsub = nil
	}
}

func (v *axisView) draw() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drawLocked()
}

// drawLocked draws the baseline and ticks along the unpadded range. The
// horizontal axis sits at the bottom of the plot area, the vertical one at
// its left edge.
func (v *axisView) drawLocked() {
	o := v.axis.orient
	r := v.fig.UnpaddedRange(o)
	g := v.fig.Geometry()

	v.node.Clear()
	if o == scale.X {
		v.node.SetAttr("transform", scene.Translate(0, g.PlotHeight))
	} else {
		v.node.SetAttr("transform", scene.Translate(0, 0))
	}

	line := scene.New("line").SetAttr("class", "domain")
	if o == scale.X {
		line.SetAttrf("x1", r[0]).SetAttrf("x2", r[1]).SetAttrf("y1", 0).SetAttrf("y2", 0)
	} else {
		line.SetAttrf("x1", 0).SetAttrf("x2", 0).SetAttrf("y1", r[0]).SetAttrf("y2", r[1])
	}
	v.node.Append(line)

	lo, hi := domain(v.axis.scale, v.fig, o)
	n := v.axis.ticks
	for i := range n {
		t := float64(i) / float64(n-1)
		pos := r.Lerp(t)
		label := strconv.FormatFloat(lo+t*(hi-lo), 'g', 4, 64)

		tick := v.node.Append(scene.New("text").SetAttr("class", "tick"))
		tick.Text = label
		if o == scale.X {
			tick.SetAttrf("x", pos).SetAttrf("y", 6).SetAttr("dy", "1em").SetAttr("text-anchor", "middle")
		} else {
			tick.SetAttrf("x", -6).SetAttrf("y", pos).SetAttr("dy", ".3em").SetAttr("text-anchor", "end")
		}
	}

	if v.axis.label != "" {
		lbl := v.node.Append(scene.New("text").SetAttr("class", "axislabel").SetAttr("text-anchor", "middle"))
		lbl.Text = v.axis.label
		if o == scale.X {
			lbl.SetAttrf("x", g.PlotWidth/2).SetAttrf("y", g.Margin.Bottom-10)
		} else {
			lbl.SetAttrf("x", -g.Margin.Left+10).SetAttrf("y", g.PlotHeight/2)
		}
	}
}

type domained interface {
	Domain() (min, max float64)
}

func domain(s scale.Scale, f *figure.Figure, o scale.Orientation) (lo, hi float64) {
	if s == nil {
		x, y := f.Model().Scales()
		s = x
		if o == scale.Y {
			s = y
		}
	}
	if d, ok := s.(domained); ok {
		return d.Domain()
	}
	return 0, 1
}

var _ figure.View = (*axisView)(nil)
