// Package scale defines the scale contract the figure drives and the
// binding that keeps the two figure scales in sync with the plot area.
//
// A scale maps a data domain onto a pixel range. The figure never touches
// the mapping itself; it only assigns ranges through [Scale.SetRange]. The
// horizontal range runs left to right, [0, width]. The vertical range is
// inverted, [height, 0], so data grows upwards on a top-left-origin surface.
package scale

import "fmt"

// Orientation selects one of the two figure axes.
type Orientation int

const (
	// X is the horizontal orientation.
	X Orientation = iota
	// Y is the vertical orientation.
	Y
)

// Orientations lists both orientations in index order.
var Orientations = [2]Orientation{X, Y}

// String returns "x" or "y".
func (o Orientation) String() string {
	switch o {
	case X:
		return "x"
	case Y:
		return "y"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// ParseOrientation parses "x"/"horizontal" or "y"/"vertical".
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "x", "horizontal":
		return X, true
	case "y", "vertical":
		return Y, true
	}
	return X, false
}

// Range is a pixel interval [start, end]. Start may exceed end.
type Range [2]float64

// Span returns the absolute length of the range.
func (r Range) Span() float64 {
	if r[1] > r[0] {
		return r[1] - r[0]
	}
	return r[0] - r[1]
}

// Lerp maps t in [0, 1] onto the range.
func (r Range) Lerp(t float64) float64 {
	return r[0] + t*(r[1]-r[0])
}

// Scale is an externally owned domain-to-range mapping.
//
// Implementations must be safe for concurrent use: the figure assigns ranges
// from its own goroutine while marks read them while drawing.
type Scale interface {
	// ID is a stable identity used as the padding bucket key.
	ID() string

	// SetRange assigns the output pixel range.
	SetRange(Range)

	// Range returns the current output pixel range.
	Range() Range

	// AllowPadding reports whether marks may inset this scale. When false
	// the padded range degrades to the unpadded one.
	AllowPadding() bool

	// SetClamp toggles clamping of out-of-domain input to the range bounds.
	SetClamp(bool)
}

// Unpadded returns the raw range for an orientation and plot-area size.
func Unpadded(o Orientation, width, height float64) Range {
	if o == Y {
		return Range{height, 0}
	}
	return Range{0, width}
}
