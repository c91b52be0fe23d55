package figure

import "github.com/matzehuels/figlayout/pkg/scale"

// Margin is the inset of the plot area inside the figure.
type Margin struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// DefaultMargin is the margin of a new model.
func DefaultMargin() Margin {
	return Margin{Top: 60, Right: 60, Bottom: 60, Left: 60}
}

// Geometry is the figure size and the plot area derived from it.
// Build it with [NewGeometry] so the plot area is never stale.
type Geometry struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Margin     Margin  `json:"margin"`
	PlotWidth  float64 `json:"plot_width"`
	PlotHeight float64 `json:"plot_height"`
}

// NewGeometry derives the plot area from a figure size and margin.
func NewGeometry(width, height float64, m Margin) Geometry {
	return Geometry{
		Width:      width,
		Height:     height,
		Margin:     m,
		PlotWidth:  width - m.Left - m.Right,
		PlotHeight: height - m.Top - m.Bottom,
	}
}

// PlotSize returns the plot-area extent along an orientation.
func (g Geometry) PlotSize(o scale.Orientation) float64 {
	if o == scale.Y {
		return g.PlotHeight
	}
	return g.PlotWidth
}
