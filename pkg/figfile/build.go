package figfile

import (
	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/marks"
	"github.com/matzehuels/figlayout/pkg/scale"
)

// Built is a document turned into live objects.
type Built struct {
	Model  *figure.Model
	Scales map[string]*scale.Linear
	// Marks holds the scatter marks by id, for callers that change them later.
	Marks map[string]*marks.Scatter
}

// Build creates the model, scales and marks of a validated document.
func (d *Document) Build() (*Built, error) {
	b := &Built{
		Scales: make(map[string]*scale.Linear, len(d.Scales)),
		Marks:  make(map[string]*marks.Scatter, len(d.Marks)),
	}
	for _, s := range d.Scales {
		var opts []scale.LinearOption
		if s.AllowPadding != nil && !*s.AllowPadding {
			opts = append(opts, scale.WithoutPadding())
		}
		b.Scales[s.ID] = scale.NewLinear(s.ID, s.Min, s.Max, opts...)
	}

	m := figure.NewModel(b.Scales[d.XScale], b.Scales[d.YScale])
	if d.Margin != nil {
		m.SetMargin(*d.Margin)
	}
	m.SetAspectRatio(d.Aspect.Min, d.Aspect.Max)
	m.SetPadding(deref(d.PaddingX), deref(d.PaddingY))
	m.SetTitle(d.Title)
	if d.TitleStyle != nil {
		m.SetTitleStyle(d.TitleStyle)
	}
	if d.BackgroundStyle != nil {
		m.SetBackgroundStyle(d.BackgroundStyle)
	}
	loc, err := legend.ParseLocation(d.LegendLocation)
	if err != nil {
		return nil, err
	}
	m.SetLegendLocation(loc)
	m.SetLayoutMin(d.MinWidth, d.MinHeight)

	declared := make([]figure.Mark, 0, len(d.Marks))
	for _, mk := range d.Marks {
		opts := []marks.ScatterOption{
			marks.WithScales(b.scale(mk.X), b.scale(mk.Y)),
		}
		if mk.Label != "" {
			opts = append(opts, marks.WithLabel(mk.Label))
		}
		if mk.Radius > 0 {
			opts = append(opts, marks.WithRadius(mk.Radius))
		}
		if mk.Fill != "" {
			opts = append(opts, marks.WithFill(mk.Fill))
		}
		if mk.Legend != nil {
			opts = append(opts, marks.WithLegend(*mk.Legend))
		}
		s := marks.NewScatter(mk.ID, mk.Points, opts...)
		b.Marks[mk.ID] = s
		declared = append(declared, s)
	}
	m.SetMarks(declared...)

	axes := make([]figure.Axis, 0, len(d.Axes))
	for _, a := range d.Axes {
		o, _ := scale.ParseOrientation(a.Orientation)
		axes = append(axes, marks.NewAxis(a.ID, o, b.scale(a.Scale), a.Ticks, a.Label))
	}
	m.SetAxes(axes...)

	if d.Interaction != nil {
		m.SetInteraction(marks.NewCrosshair(d.Interaction.ID))
	}

	b.Model = m
	return b, nil
}

// Open builds the document and starts a figure for it with the factories of
// package marks. When the document has a size the figure is displayed at it.
func (d *Document) Open(opts ...figure.Option) (*figure.Figure, *Built, error) {
	b, err := d.Build()
	if err != nil {
		return nil, nil, err
	}
	fig := figure.New(b.Model, append(marks.Options(), opts...)...)
	if d.Width > 0 || d.Height > 0 {
		fig.Display(d.Width, d.Height)
	}
	return fig, b, nil
}

// scale returns the named scale, or a nil interface for "" so marks fall back
// to the figure default.
func (b *Built) scale(id string) scale.Scale {
	if s, ok := b.Scales[id]; ok && id != "" {
		return s
	}
	return nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
