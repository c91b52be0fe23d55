// Package aspect sizes a figure inside a container under aspect-ratio bounds.
//
// [ComputeSize] takes the size a host suggests (a measured container, or the
// declared layout minimums before the first display) and returns the figure
// size to use. Space is used in full whenever its ratio is already inside
// [min, max]; otherwise the binding dimension is kept and the other one is
// derived from the violated bound.
//
//	w, h := aspect.ComputeSize(1000, 100, 0.5, 2) // 200, 100
package aspect

import "math"

const (
	// FallbackWidth is used when neither dimension is defined.
	FallbackWidth = 640.0

	// FallbackHeight is used when neither dimension is defined.
	FallbackHeight = 480.0
)

// fallbackRatio derives a missing dimension when no lower bound is known.
const fallbackRatio = FallbackWidth / FallbackHeight

// Defined reports whether v is a usable dimension: a number greater than zero.
func Defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// ComputeSize returns the figure width and height for a suggested size.
//
// A dimension that is NaN or not positive is undefined. With both undefined
// the 640×480 fallback is used; with one undefined it is derived from the
// other through minRatio. A ratio bound that is NaN or not positive is
// treated as absent. The result is always a positive pair.
func ComputeSize(width, height, minRatio, maxRatio float64) (float64, float64) {
	lo, hi := bounds(minRatio, maxRatio)

	derive := lo
	if derive == 0 {
		derive = fallbackRatio
	}

	wOK, hOK := Defined(width), Defined(height)
	switch {
	case !wOK && !hOK:
		width, height = FallbackWidth, FallbackHeight
	case !hOK:
		height = width / derive
	case !wOK:
		width = height * derive
	}

	ratio := width / height
	switch {
	case ratio > hi:
		// Too wide: keep the height.
		return height * hi, height
	case ratio < lo:
		// Too tall: keep the width.
		return width, width / lo
	default:
		return width, height
	}
}

func bounds(minRatio, maxRatio float64) (lo, hi float64) {
	lo, hi = minRatio, maxRatio
	if math.IsNaN(lo) || lo <= 0 || math.IsInf(lo, 0) {
		lo = 0
	}
	if math.IsNaN(hi) || hi <= 0 {
		hi = math.Inf(1)
	}
	if lo > hi {
		// Inverted bounds collapse to the lower one.
		hi = lo
	}
	return lo, hi
}
