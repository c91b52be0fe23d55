package figure

import (
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/scale"
)

// Style is a set of inline style properties.
type Style map[string]string

// Model is the declarative property set of a figure.
//
// Every setter stores the value and publishes one [Change] carrying it.
// Models are safe for concurrent use; setters may be called from
// notification handlers.
type Model struct {
	mu sync.RWMutex

	margin         Margin
	minAspect      float64
	maxAspect      float64
	padding        [2]float64
	title          string
	titleStyle     Style
	bgStyle        Style
	legendLocation legend.Location
	minWidth       float64
	minHeight      float64
	scales         [2]scale.Scale
	marks          []Mark
	axes           []Axis
	interaction    Interaction

	bus Bus[Change]
}

// NewModel returns a model with default properties bound to the given
// default scales.
func NewModel(x, y scale.Scale) *Model {
	return &Model{
		margin:         DefaultMargin(),
		minAspect:      0.01,
		maxAspect:      100,
		padding:        [2]float64{0, 0.025},
		legendLocation: legend.DefaultLocation,
		scales:         [2]scale.Scale{x, y},
	}
}

// Subscribe registers fn for every property change.
func (m *Model) Subscribe(fn func(Change)) (unsubscribe func()) {
	return m.bus.Subscribe(fn)
}

// Scales returns the default scales.
func (m *Model) Scales() (x, y scale.Scale) {
	return m.scales[scale.X], m.scales[scale.Y]
}

func (m *Model) Margin() Margin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.margin
}

func (m *Model) SetMargin(v Margin) {
	m.mu.Lock()
	m.margin = v
	m.mu.Unlock()
	m.bus.Publish(MarginChanged{Margin: v})
}

// AspectRatio returns the minimum and maximum width/height ratio.
func (m *Model) AspectRatio() (min, max float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.minAspect, m.maxAspect
}

func (m *Model) SetAspectRatio(min, max float64) {
	m.mu.Lock()
	m.minAspect, m.maxAspect = min, max
	m.mu.Unlock()
	m.bus.Publish(AspectRatioChanged{Min: min, Max: max})
}

// Padding returns the figure padding fractions. Each is the share of the plot
// area left empty on both sides of the data.
func (m *Model) Padding() (x, y float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.padding[scale.X], m.padding[scale.Y]
}

// SetPadding sets the figure padding fractions. Values outside [0, 1) are
// stored as 0.
func (m *Model) SetPadding(x, y float64) {
	x, y = fraction(x), fraction(y)
	m.mu.Lock()
	m.padding = [2]float64{x, y}
	m.mu.Unlock()
	m.bus.Publish(PaddingChanged{X: x, Y: y})
}

func (m *Model) Title() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.title
}

func (m *Model) SetTitle(v string) {
	m.mu.Lock()
	m.title = v
	m.mu.Unlock()
	m.bus.Publish(TitleChanged{Title: v})
}

func (m *Model) TitleStyle() Style {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.titleStyle)
}

func (m *Model) SetTitleStyle(v Style) {
	v = maps.Clone(v)
	m.mu.Lock()
	m.titleStyle = v
	m.mu.Unlock()
	m.bus.Publish(TitleStyleChanged{Style: maps.Clone(v)})
}

func (m *Model) BackgroundStyle() Style {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.bgStyle)
}

func (m *Model) SetBackgroundStyle(v Style) {
	v = maps.Clone(v)
	m.mu.Lock()
	m.bgStyle = v
	m.mu.Unlock()
	m.bus.Publish(BackgroundStyleChanged{Style: maps.Clone(v)})
}

func (m *Model) LegendLocation() legend.Location {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.legendLocation
}

func (m *Model) SetLegendLocation(v legend.Location) {
	m.mu.Lock()
	m.legendLocation = v
	m.mu.Unlock()
	m.bus.Publish(LegendLocationChanged{Location: v})
}

// LayoutMin returns the declared minimum size used before the figure is
// first displayed. Zero means unset.
func (m *Model) LayoutMin() (width, height float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.minWidth, m.minHeight
}

func (m *Model) SetLayoutMin(width, height float64) {
	m.mu.Lock()
	m.minWidth, m.minHeight = width, height
	m.mu.Unlock()
	m.bus.Publish(LayoutChanged{MinWidth: width, MinHeight: height})
}

// Marks returns the declared marks in order.
func (m *Model) Marks() []Mark {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.marks)
}

// SetMarks replaces the declared mark list.
func (m *Model) SetMarks(marks ...Mark) {
	marks = slices.Clone(marks)
	m.mu.Lock()
	m.marks = marks
	m.mu.Unlock()
	m.bus.Publish(MarksChanged{Marks: slices.Clone(marks)})
}

// AddMark appends a mark to the declared list.
func (m *Model) AddMark(mark Mark) {
	m.mu.Lock()
	m.marks = append(slices.Clip(m.marks), mark)
	marks := slices.Clone(m.marks)
	m.mu.Unlock()
	m.bus.Publish(MarksChanged{Marks: marks})
}

// RemoveMark drops the first mark with the given id. It reports whether a
// mark was removed; nothing is published otherwise.
func (m *Model) RemoveMark(id string) bool {
	m.mu.Lock()
	i := slices.IndexFunc(m.marks, func(mk Mark) bool { return mk.ID() == id })
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	m.marks = slices.Delete(slices.Clone(m.marks), i, i+1)
	marks := slices.Clone(m.marks)
	m.mu.Unlock()
	m.bus.Publish(MarksChanged{Marks: marks})
	return true
}

func (m *Model) Axes() []Axis {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.axes)
}

func (m *Model) SetAxes(axes ...Axis) {
	axes = slices.Clone(axes)
	m.mu.Lock()
	m.axes = axes
	m.mu.Unlock()
	m.bus.Publish(AxesChanged{Axes: slices.Clone(axes)})
}

func (m *Model) Interaction() Interaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.interaction
}

// SetInteraction replaces the interaction. nil removes it.
func (m *Model) SetInteraction(i Interaction) {
	m.mu.Lock()
	m.interaction = i
	m.mu.Unlock()
	m.bus.Publish(InteractionChanged{Interaction: i})
}

func fraction(v float64) float64 {
	if math.IsNaN(v) || v < 0 || v >= 1 {
		return 0
	}
	return v
}
