package scale

// Binding holds the figure's horizontal and vertical scales and assigns
// their ranges from the plot-area size. It is not safe for concurrent use;
// the figure mutates it from a single goroutine.
type Binding struct {
	scales        [2]Scale
	width, height float64
}

// NewBinding clamps both scales and assigns their initial ranges.
func NewBinding(x, y Scale, width, height float64) *Binding {
	b := &Binding{scales: [2]Scale{x, y}}
	for _, s := range b.scales {
		if s != nil {
			s.SetClamp(true)
		}
	}
	b.Resize(width, height)
	return b
}

// Resize reassigns both ranges for a new plot-area size.
func (b *Binding) Resize(width, height float64) {
	b.width, b.height = width, height
	for _, o := range Orientations {
		if s := b.scales[o]; s != nil {
			s.SetRange(b.Range(o))
		}
	}
}

// Scale returns the scale bound to an orientation.
func (b *Binding) Scale(o Orientation) Scale { return b.scales[o] }

// Range returns the unpadded range for an orientation.
func (b *Binding) Range(o Orientation) Range {
	return Unpadded(o, b.width, b.height)
}

// Size returns the plot-area size the ranges were derived from.
func (b *Binding) Size() (width, height float64) { return b.width, b.height }
