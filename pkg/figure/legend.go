package figure

import (
	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/observability"
)

// refreshLegend redraws the legend from the active marks in declared order.
// While a cohort is open the refresh is skipped; the cohort redraws it once
// every mark has settled.
func (f *Figure) refreshLegend() {
	if f.cohortOpen {
		return
	}

	items := make([]legend.Item, 0, len(f.marks))
	for _, e := range f.marks {
		if e.state != StateActive {
			continue
		}
		items = append(items, legend.Item{
			ID:      e.token,
			Display: e.mark.DisplayLegend(),
			Drawer:  e.markView(),
		})
	}

	f.legend = legend.Layout(f.nodes.legend, items, legend.Options{
		Location:   f.legendLocation,
		PlotWidth:  f.geom.PlotWidth,
		PlotHeight: f.geom.PlotHeight,
	})
	f.publish()
	f.notify.Publish(LegendUpdated{Legend: f.legend})
	observability.Figure().OnLegend(f.ctx, f.id, f.legend.Rows)
}
