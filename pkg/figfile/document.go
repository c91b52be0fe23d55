// Package figfile reads declarative figure documents.
//
// A document describes one figure: its size, margin, aspect-ratio bounds,
// padding fractions, title, legend location, scales, marks, axes and
// interaction. Documents are written in TOML or JSON:
//
//	title = "Iris"
//	width = 800
//	height = 600
//	legend_location = "bottom-right"
//
//	[[scales]]
//	id = "x"
//	min = 4
//	max = 8
//
//	[[marks]]
//	id = "setosa"
//	type = "scatter"
//	points = [{x = 5.1, y = 3.5}, {x = 4.9, y = 3.0}]
//
// [Document.SetDefaults] fills missing values, [Document.Validate] checks the
// result and [Document.Open] turns it into a live [figure.Figure].
package figfile

import (
	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/marks"
)

// Default values applied by [Document.SetDefaults].
const (
	DefaultXScale    = "x"
	DefaultYScale    = "y"
	DefaultMinAspect = 0.01
	DefaultMaxAspect = 100.0
	DefaultPaddingY  = 0.025
	DefaultMarkType  = "scatter"
)

// Document is a declarative figure.
type Document struct {
	Title           string            `json:"title,omitempty" toml:"title"`
	Width           float64           `json:"width,omitempty" toml:"width"`
	Height          float64           `json:"height,omitempty" toml:"height"`
	MinWidth        float64           `json:"min_width,omitempty" toml:"min_width"`
	MinHeight       float64           `json:"min_height,omitempty" toml:"min_height"`
	Margin          *figure.Margin    `json:"margin,omitempty" toml:"margin"`
	Aspect          Aspect            `json:"aspect,omitzero" toml:"aspect"`
	PaddingX        *float64          `json:"padding_x,omitempty" toml:"padding_x"`
	PaddingY        *float64          `json:"padding_y,omitempty" toml:"padding_y"`
	LegendLocation  string            `json:"legend_location,omitempty" toml:"legend_location"`
	TitleStyle      map[string]string `json:"title_style,omitempty" toml:"title_style"`
	BackgroundStyle map[string]string `json:"background_style,omitempty" toml:"background_style"`
	XScale          string            `json:"x_scale,omitempty" toml:"x_scale"`
	YScale          string            `json:"y_scale,omitempty" toml:"y_scale"`
	Scales          []Scale           `json:"scales,omitempty" toml:"scales"`
	Marks           []Mark            `json:"marks,omitempty" toml:"marks"`
	Axes            []Axis            `json:"axes,omitempty" toml:"axes"`
	Interaction     *Interaction      `json:"interaction,omitempty" toml:"interaction"`
}

// Aspect bounds the figure's width/height ratio.
type Aspect struct {
	Min float64 `json:"min,omitempty" toml:"min"`
	Max float64 `json:"max,omitempty" toml:"max"`
}

// Scale declares a linear scale.
type Scale struct {
	ID           string  `json:"id" toml:"id"`
	Min          float64 `json:"min" toml:"min"`
	Max          float64 `json:"max" toml:"max"`
	AllowPadding *bool   `json:"allow_padding,omitempty" toml:"allow_padding"`
}

// Mark declares a mark. X and Y name scales; empty means the figure default.
type Mark struct {
	ID     string        `json:"id" toml:"id"`
	Type   string        `json:"type,omitempty" toml:"type"`
	Label  string        `json:"label,omitempty" toml:"label"`
	X      string        `json:"x,omitempty" toml:"x"`
	Y      string        `json:"y,omitempty" toml:"y"`
	Radius float64       `json:"radius,omitempty" toml:"radius"`
	Fill   string        `json:"fill,omitempty" toml:"fill"`
	Legend *bool         `json:"legend,omitempty" toml:"legend"`
	Points []marks.Point `json:"points,omitempty" toml:"points"`
}

// Axis declares an axis along one orientation.
type Axis struct {
	ID          string `json:"id" toml:"id"`
	Orientation string `json:"orientation" toml:"orientation"`
	Scale       string `json:"scale,omitempty" toml:"scale"`
	Ticks       int    `json:"ticks,omitempty" toml:"ticks"`
	Label       string `json:"label,omitempty" toml:"label"`
}

// Interaction declares the figure interaction.
type Interaction struct {
	ID   string `json:"id" toml:"id"`
	Type string `json:"type,omitempty" toml:"type"`
}

// SetDefaults fills zero values. Missing default scales are declared with a
// domain spanning the points of the marks bound to them.
func (d *Document) SetDefaults() {
	if d.Margin == nil {
		m := figure.DefaultMargin()
		d.Margin = &m
	}
	if d.Aspect.Min == 0 {
		d.Aspect.Min = DefaultMinAspect
	}
	if d.Aspect.Max == 0 {
		d.Aspect.Max = DefaultMaxAspect
	}
	if d.PaddingX == nil {
		d.PaddingX = ptr(0.0)
	}
	if d.PaddingY == nil {
		d.PaddingY = ptr(DefaultPaddingY)
	}
	if d.LegendLocation == "" {
		d.LegendLocation = string(legend.DefaultLocation)
	}
	if d.XScale == "" {
		d.XScale = DefaultXScale
	}
	if d.YScale == "" {
		d.YScale = DefaultYScale
	}
	for i := range d.Marks {
		if d.Marks[i].Type == "" {
			d.Marks[i].Type = DefaultMarkType
		}
	}
	if d.Interaction != nil && d.Interaction.Type == "" {
		d.Interaction.Type = "crosshair"
	}

	d.defaultScale(d.XScale, func(m Mark) string { return m.X }, func(p marks.Point) float64 { return p.X })
	d.defaultScale(d.YScale, func(m Mark) string { return m.Y }, func(p marks.Point) float64 { return p.Y })
}

func (d *Document) defaultScale(id string, bound func(Mark) string, get func(marks.Point) float64) {
	if d.scale(id) != nil {
		return
	}
	s := Scale{ID: id, Min: 0, Max: 1}
	first := true
	for _, m := range d.Marks {
		if b := bound(m); b != "" && b != id {
			continue
		}
		for _, p := range m.Points {
			v := get(p)
			if first {
				s.Min, s.Max, first = v, v, false
				continue
			}
			s.Min, s.Max = min(s.Min, v), max(s.Max, v)
		}
	}
	d.Scales = append(d.Scales, s)
}

func (d *Document) scale(id string) *Scale {
	for i := range d.Scales {
		if d.Scales[i].ID == id {
			return &d.Scales[i]
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
