package figure

import (
	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/scale"
)

// snapshot is the immutable derived state published after every message.
type snapshot struct {
	geom      Geometry
	fraction  [2]float64
	effective [2]map[string]float64
	legend    legend.Result
	marks     []MarkInfo
	stats     Stats
}

// MarkInfo describes one mark instance.
type MarkInfo struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	State State  `json:"state"`
}

// Stats summarizes a figure's state.
type Stats struct {
	Marks          int    `json:"marks"`
	Active         int    `json:"active"`
	Materializing  int    `json:"materializing"`
	Failed         int    `json:"failed"`
	Axes           int    `json:"axes"`
	Interaction    bool   `json:"interaction"`
	InFlight       int    `json:"in_flight"`
	CohortPending  bool   `json:"cohort_pending"`
	Displayed      bool   `json:"displayed"`
	Relayouts      uint64 `json:"relayouts"`
	PaddingEntries [2]int `json:"padding_entries"`
	PaddingBuckets [2]int `json:"padding_buckets"`
}

func (f *Figure) publish() {
	s := &snapshot{
		geom:     f.geom,
		fraction: f.fraction,
		legend:   f.legend,
		marks:    make([]MarkInfo, 0, len(f.marks)),
		stats: Stats{
			Marks:         len(f.marks),
			Axes:          len(f.axes),
			Interaction:   f.interaction != nil && f.interaction.state == StateActive,
			InFlight:      f.inflight,
			CohortPending: f.cohortOpen,
			Displayed:     f.displayed,
			Relayouts:     f.relayouts,
		},
	}
	for _, o := range scale.Orientations {
		s.effective[o] = f.pads[o].Snapshot()
		s.stats.PaddingEntries[o] = f.pads[o].Entries()
		s.stats.PaddingBuckets[o] = f.pads[o].Buckets()
	}
	for _, e := range f.marks {
		s.marks = append(s.marks, MarkInfo{ID: e.modelID, Token: e.token, State: e.state})
		switch e.state {
		case StateActive:
			s.stats.Active++
		case StateMaterializing:
			s.stats.Materializing++
		case StateFailed:
			s.stats.Failed++
		}
	}
	f.snap.Store(s)
}

// Geometry returns the current figure geometry.
func (f *Figure) Geometry() Geometry { return f.snap.Load().geom }

// Legend returns the last legend layout.
func (f *Figure) Legend() legend.Result { return f.snap.Load().legend }

// Stats returns a summary of the figure's state.
func (f *Figure) Stats() Stats { return f.snap.Load().stats }

// Marks returns the mark instances in declared order.
func (f *Figure) Marks() []MarkInfo {
	marks := f.snap.Load().marks
	out := make([]MarkInfo, len(marks))
	copy(out, marks)
	return out
}

// PaddingFraction returns the figure padding fraction for an orientation.
func (f *Figure) PaddingFraction(o scale.Orientation) float64 {
	return f.snap.Load().fraction[o]
}

// EffectivePadding returns the aggregated mark padding of a scale.
func (f *Figure) EffectivePadding(o scale.Orientation, scaleID string) float64 {
	return f.snap.Load().effective[o][scaleID]
}

// UnpaddedRange returns the raw plot-area range for an orientation:
// [0, plot width] horizontally and [plot height, 0] vertically. Axes use it.
func (f *Figure) UnpaddedRange(o scale.Orientation) scale.Range {
	g := f.snap.Load().geom
	return scale.Unpadded(o, g.PlotWidth, g.PlotHeight)
}

// PaddedRange returns the range a mark bound to s should draw into. It is the
// plot area inset by the figure padding fraction and the effective padding of
// s. Scales that do not allow padding get the unpadded range. A nil scale
// means the figure default for o.
func (f *Figure) PaddedRange(o scale.Orientation, s scale.Scale) scale.Range {
	if s == nil {
		s = f.defaults[o]
	}
	snap := f.snap.Load()
	g := snap.geom
	if s == nil || !s.AllowPadding() {
		return scale.Unpadded(o, g.PlotWidth, g.PlotHeight)
	}

	fig := g.PlotSize(o) * snap.fraction[o]
	pad := snap.effective[o][s.ID()]
	if o == scale.Y {
		return scale.Range{g.PlotHeight - pad - fig, pad + fig}
	}
	return scale.Range{fig + pad, g.PlotWidth - fig - pad}
}

// MarkPlotareaExtent returns the plot-area extent along o left to a mark
// bound to s once padding is taken out. Marks that size themselves to the
// plot area use it.
func (f *Figure) MarkPlotareaExtent(o scale.Orientation, s scale.Scale) float64 {
	if s == nil {
		s = f.defaults[o]
	}
	snap := f.snap.Load()
	size := snap.geom.PlotSize(o)
	if s == nil || !s.AllowPadding() {
		return size
	}
	return size*(1-snap.fraction[o]) - 2*snap.effective[o][s.ID()]
}
