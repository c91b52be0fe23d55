package scale

import "sync"

// Linear is a continuous linear scale.
type Linear struct {
	id string

	mu           sync.RWMutex
	min, max     float64
	rng          Range
	clamp        bool
	allowPadding bool
}

// LinearOption configures a [Linear] scale.
type LinearOption func(*Linear)

// WithoutPadding disables padding allowance for the scale.
func WithoutPadding() LinearOption { return func(s *Linear) { s.allowPadding = false } }

// NewLinear creates a linear scale over the domain [min, max].
// Padding is allowed unless [WithoutPadding] is given.
func NewLinear(id string, min, max float64, opts ...LinearOption) *Linear {
	s := &Linear{id: id, min: min, max: max, rng: Range{0, 1}, allowPadding: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Linear) ID() string { return s.id }

func (s *Linear) SetRange(r Range) {
	s.mu.Lock()
	s.rng = r
	s.mu.Unlock()
}

func (s *Linear) Range() Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rng
}

func (s *Linear) AllowPadding() bool { return s.allowPadding }

func (s *Linear) SetClamp(on bool) {
	s.mu.Lock()
	s.clamp = on
	s.mu.Unlock()
}

// Clamped reports whether clamping is enabled.
func (s *Linear) Clamped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clamp
}

// Domain returns the data domain.
func (s *Linear) Domain() (min, max float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.min, s.max
}

// SetDomain replaces the data domain.
func (s *Linear) SetDomain(min, max float64) {
	s.mu.Lock()
	s.min, s.max = min, max
	s.mu.Unlock()
}

// Normalize maps v to [0, 1] across the domain; clamped when clamping is on.
// A degenerate domain maps everything to 0.5.
func (s *Linear) Normalize(v float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.max == s.min {
		return 0.5
	}
	t := (v - s.min) / (s.max - s.min)
	if s.clamp {
		t = min(max(t, 0), 1)
	}
	return t
}

// Map maps v onto the current range.
func (s *Linear) Map(v float64) float64 {
	return s.Range().Lerp(s.Normalize(v))
}

var _ Scale = (*Linear)(nil)
