package errors

import (
	"math"
	"regexp"
	"unicode"
)

// maxIDLength bounds scale, mark and axis identifiers.
const maxIDLength = 128

// idRegex matches identifiers usable as scale, mark and axis ids.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateID validates a scale, mark or axis identifier from a figure document.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_', ':' and '-' only, starting alphanumeric
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid control characters", kind)
		}
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid %s id: %q", kind, id)
	}
	return nil
}

// ValidateAspectRatio checks an aspect-ratio pair: both positive and finite, min ≤ max.
func ValidateAspectRatio(minRatio, maxRatio float64) error {
	if !positiveFinite(minRatio) || !positiveFinite(maxRatio) {
		return New(ErrCodeInvalidFigure, "aspect ratios must be positive and finite (got %g, %g)", minRatio, maxRatio)
	}
	if minRatio > maxRatio {
		return New(ErrCodeInvalidFigure, "min aspect ratio %g exceeds max aspect ratio %g", minRatio, maxRatio)
	}
	return nil
}

// ValidateFraction checks a figure padding fraction lies in [0, 1).
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v >= 1 {
		return New(ErrCodeInvalidFigure, "%s must be in [0, 1) (got %g)", name, v)
	}
	return nil
}

// ValidateNonNegative checks a pixel quantity such as a margin or padding.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidInput, "%s must be a non-negative number (got %g)", name, v)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
