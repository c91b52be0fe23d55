package figure

import (
	"time"

	"github.com/matzehuels/figlayout/pkg/aspect"
	"github.com/matzehuels/figlayout/pkg/observability"
	"github.com/matzehuels/figlayout/pkg/scene"
)

func (f *Figure) buildScene(title string, titleStyle, bgStyle Style) {
	n := &f.nodes
	n.root = scene.New("svg").SetAttr("class", "figure").SetAttr("id", f.id)

	clip := n.root.Append(scene.New("defs")).
		Append(scene.New("clipPath").SetAttr("id", clipPathID(f.id)))
	n.clipRect = clip.Append(scene.New("rect").SetAttrf("x", 0).SetAttrf("y", 0))

	n.fig = n.root.Append(scene.New("g").SetAttr("class", "fig"))
	n.background = n.fig.Append(scene.New("rect").
		SetAttr("class", "plotarea_background").
		SetAttrf("x", 0).
		SetAttrf("y", 0))
	n.background.ReplaceStyle(bgStyle)

	n.axes = n.fig.Append(scene.New("g").SetAttr("class", "axes"))
	n.marks = n.fig.Append(scene.New("g").
		SetAttr("class", "marks").
		SetAttr("clip-path", "url(#"+clipPathID(f.id)+")"))
	n.legend = n.fig.Append(scene.New("g").SetAttr("class", "g_legend"))
	n.interaction = n.fig.Append(scene.New("g").SetAttr("class", "interaction"))

	n.title = n.fig.Append(scene.New("text").
		SetAttr("class", "mainheading").
		SetAttr("text-anchor", "middle").
		SetAttr("dy", "1em"))
	n.title.Text = title
	n.title.ReplaceStyle(titleStyle)
}

// relayout is the coordinated layout pass: figure size, plot area, scale
// ranges, static elements, then the margin notification and the legend.
// It does not depend on any mark having materialized.
func (f *Figure) relayout() {
	start := time.Now()

	src := f.container
	if !f.displayed {
		src = f.layoutMin
	}
	width, height := aspect.ComputeSize(src[0], src[1], f.minAspect, f.maxAspect)

	f.geom = NewGeometry(width, height, f.margin)
	f.binding.Resize(f.geom.PlotWidth, f.geom.PlotHeight)
	f.placeStatic()
	f.relayouts++

	f.publish()
	f.emitMargin()
	f.refreshLegend()

	f.logger.Debug("relayout",
		"width", width, "height", height,
		"plot_width", f.geom.PlotWidth, "plot_height", f.geom.PlotHeight)
	observability.Figure().OnRelayout(f.ctx, f.id, width, height, time.Since(start))
}

func (f *Figure) placeStatic() {
	g, n := f.geom, &f.nodes
	plotW, plotH := max(g.PlotWidth, 0), max(g.PlotHeight, 0)

	n.root.SetAttrf("width", g.Width).SetAttrf("height", g.Height)
	n.fig.SetAttr("transform", scene.Translate(g.Margin.Left, g.Margin.Top))
	n.title.SetAttrf("x", 0.5*g.PlotWidth).SetAttrf("y", -0.5*g.Margin.Top)
	n.background.SetAttrf("width", plotW).SetAttrf("height", plotH)
	n.clipRect.SetAttrf("width", plotW).SetAttrf("height", plotH)
}
