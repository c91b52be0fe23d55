package marks

import (
	"context"
	"sync"

	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/scale"
	"github.com/matzehuels/figlayout/pkg/scene"
)

// DefaultRadius is the point radius of a scatter without an explicit one.
const DefaultRadius = 4.0

// Point is a data point.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Scatter is a point mark. Its exported setters are safe for concurrent use
// and are forwarded to every live view of the mark.
type Scatter struct {
	id string

	mu      sync.RWMutex
	label   string
	points  []Point
	radius  float64
	fill    string
	scales  [2]scale.Scale
	legend  bool
	changes figure.Bus[scatterChange]
}

type scatterChange int

const (
	radiusChanged scatterChange = iota
	scalesChanged
	labelChanged
)

// ScatterOption configures a [Scatter].
type ScatterOption func(*Scatter)

// WithLabel sets the legend label.
func WithLabel(label string) ScatterOption { return func(s *Scatter) { s.label = label } }

// WithRadius sets the point radius.
func WithRadius(r float64) ScatterOption { return func(s *Scatter) { s.radius = r } }

// WithFill sets the point colour.
func WithFill(fill string) ScatterOption { return func(s *Scatter) { s.fill = fill } }

// WithScales binds the mark to non-default scales. nil keeps the default.
func WithScales(x, y scale.Scale) ScatterOption {
	return func(s *Scatter) { s.scales = [2]scale.Scale{x, y} }
}

// WithLegend toggles the legend contribution.
func WithLegend(on bool) ScatterOption { return func(s *Scatter) { s.legend = on } }

// NewScatter creates a scatter mark. It shows in the legend unless disabled.
func NewScatter(id string, points []Point, opts ...ScatterOption) *Scatter {
	s := &Scatter{
		id:     id,
		label:  id,
		points: points,
		radius: DefaultRadius,
		fill:   "steelblue",
		legend: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the model id the mark was declared with.
func (s *Scatter) ID() string { return s.id }

// Scales returns the bound scales; nil means the figure default.
func (s *Scatter) Scales() (x, y scale.Scale) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scales[scale.X], s.scales[scale.Y]
}

// DisplayLegend reports whether the mark contributes a legend row.
func (s *Scatter) DisplayLegend() bool { return s.legend }

// Radius returns the point radius, which is also the requested padding.
func (s *Scatter) Radius() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.radius
}

// Label returns the legend label.
func (s *Scatter) Label() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.label
}

// SetRadius changes the point radius and with it the requested padding.
func (s *Scatter) SetRadius(r float64) {
	s.mu.Lock()
	s.radius = max(r, 0)
	s.mu.Unlock()
	s.changes.Publish(radiusChanged)
}

// SetScales rebinds the mark. nil means the figure default.
func (s *Scatter) SetScales(x, y scale.Scale) {
	s.mu.Lock()
	s.scales = [2]scale.Scale{x, y}
	s.mu.Unlock()
	s.changes.Publish(scalesChanged)
}

// SetLabel changes the legend label.
func (s *Scatter) SetLabel(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
	s.changes.Publish(labelChanged)
}

type scatterView struct {
	mark *Scatter
	host *figure.MarkHost
	node *scene.Node

	mu    sync.Mutex
	unsub []func()
}

func newScatterView(ctx context.Context, host *figure.MarkHost, m *Scatter) (*scatterView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v := &scatterView{
		mark: m,
		host: host,
		node: scene.New("g").
			SetAttr("class", "mark scatter").
			SetAttr("data-id", m.ID()).
			SetAttr("data-token", host.Token()),
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.unsub = append(v.unsub,
		host.Figure().Subscribe(func(n figure.Notification) {
			if _, ok := n.(figure.MarginUpdated); ok {
				v.draw()
			}
		}),
		m.changes.Subscribe(v.onChange),
	)
	v.drawLocked()
	return v, nil
}

func (v *scatterView) onChange(c scatterChange) {
	switch c {
	case radiusChanged:
		r := v.mark.Radius()
		v.host.PaddingChanged(r, r)
	case scalesChanged:
		x, y := v.mark.Scales()
		v.host.ScalesChanged(x, y)
	case labelChanged:
		v.host.LegendChanged()
	}
}

func (v *scatterView) Node() *scene.Node { return v.node }

func (v *scatterView) Padding() (x, y float64) {
	r := v.mark.Radius()
	return r, r
}

func (v *scatterView) Remove() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, fn := range v.unsub {
		fn()
	}
	v.unsub = nil
}

func (v *scatterView) draw() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drawLocked()
}

func (v *scatterView) drawLocked() {
	fig := v.host.Figure()
	xs, ys := resolve(fig, v.mark)
	xr := fig.PaddedRange(scale.X, xs)
	yr := fig.PaddedRange(scale.Y, ys)

	v.mark.mu.RLock()
	points, radius, fill := v.mark.points, v.mark.radius, v.mark.fill
	v.mark.mu.RUnlock()

	nx, ny := normalizer(xs, points, func(p Point) float64 { return p.X }),
		normalizer(ys, points, func(p Point) float64 { return p.Y })

	v.node.Clear()
	for _, p := range points {
		v.node.Append(scene.New("circle").
			SetAttr("class", "dot").
			SetAttrf("cx", xr.Lerp(nx(p.X))).
			SetAttrf("cy", yr.Lerp(ny(p.Y))).
			SetAttrf("r", radius).
			SetStyle("fill", fill))
	}
}

// DrawLegend draws one row: a dot and the label.
func (v *scatterView) DrawLegend(g *scene.Node, x, y, rowStep float64) (int, float64) {
	label, radius := v.mark.Label(), v.mark.Radius()
	v.mark.mu.RLock()
	fill := v.mark.fill
	v.mark.mu.RUnlock()

	row := g.Append(scene.New("g").
		SetAttr("class", "legend").
		SetAttr("transform", scene.Translate(x, y)))
	row.Append(scene.New("circle").
		SetAttrf("cx", legend.RowHeight/2).
		SetAttrf("cy", 0).
		SetAttrf("r", min(radius, legend.RowHeight/2)).
		SetStyle("fill", fill))
	row.Append(scene.New("text").
		SetAttr("class", "legendtext").
		SetAttrf("x", legend.RowHeight+4).
		SetAttr("dy", "0.35em")).Text = label

	return 1, LabelWidth(label)
}

// resolve returns the mark's scales with nil replaced by the figure defaults.
func resolve(fig *figure.Figure, m *Scatter) (x, y scale.Scale) {
	x, y = m.Scales()
	dx, dy := fig.Model().Scales()
	if x == nil {
		x = dx
	}
	if y == nil {
		y = dy
	}
	return x, y
}

type normalizing interface {
	Normalize(v float64) float64
}

// normalizer maps data to [0, 1] through the scale when it can, otherwise
// across the data extent.
func normalizer(s scale.Scale, points []Point, get func(Point) float64) func(float64) float64 {
	if n, ok := s.(normalizing); ok {
		return n.Normalize
	}
	if len(points) == 0 {
		return func(float64) float64 { return 0.5 }
	}
	lo, hi := get(points[0]), get(points[0])
	for _, p := range points[1:] {
		lo, hi = min(lo, get(p)), max(hi, get(p))
	}
	if lo == hi {
		return func(float64) float64 { return 0.5 }
	}
	return func(v float64) float64 { return (v - lo) / (hi - lo) }
}

var _ figure.MarkView = (*scatterView)(nil)
