package figure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/scale"
	"github.com/matzehuels/figlayout/pkg/scene"
)

func TestNewUsesFallbackSize(t *testing.T) {
	model, x, y := newTestModel()
	f := New(model)
	defer f.Close()
	settle(t, f)

	want := NewGeometry(640, 480, DefaultMargin())
	if got := f.Geometry(); got != want {
		t.Errorf("Geometry() = %+v, want %+v", got, want)
	}
	if got := x.Range(); got != (scale.Range{0, 520}) {
		t.Errorf("x range = %v, want [0 520]", got)
	}
	if got := y.Range(); got != (scale.Range{360, 0}) {
		t.Errorf("y range = %v, want [360 0]", got)
	}
	if !x.Clamped() || !y.Clamped() {
		t.Error("figure scales should be clamped")
	}
}

func TestNewUsesLayoutMinimums(t *testing.T) {
	model, _, _ := newTestModel()
	model.SetLayoutMin(300, 200)
	f := New(model)
	defer f.Close()
	settle(t, f)

	if g := f.Geometry(); g.Width != 300 || g.Height != 200 {
		t.Errorf("size = %gx%g, want 300x200", g.Width, g.Height)
	}
}

func TestDisplay(t *testing.T) {
	model, _, _ := newTestModel()
	f := New(model)
	defer f.Close()

	f.Display(800, 600)
	settle(t, f)

	g := f.Geometry()
	if g.Width != 800 || g.Height != 600 {
		t.Errorf("size = %gx%g, want 800x600", g.Width, g.Height)
	}
	if g.PlotWidth != 680 || g.PlotHeight != 480 {
		t.Errorf("plot = %gx%g, want 680x480", g.PlotWidth, g.PlotHeight)
	}
	if !f.Stats().Displayed {
		t.Error("Stats().Displayed = false after Display")
	}
}

func TestAspectRatioConstraint(t *testing.T) {
	model, _, _ := newTestModel()
	model.SetAspectRatio(0.5, 2)
	f := New(model)
	defer f.Close()

	f.Display(1000, 100)
	settle(t, f)
	if g := f.Geometry(); g.Width != 200 || g.Height != 100 {
		t.Errorf("too wide: size = %gx%g, want 200x100", g.Width, g.Height)
	}

	f.Resize(100, 1000)
	settle(t, f)
	if g := f.Geometry(); g.Width != 100 || g.Height != 200 {
		t.Errorf("too tall: size = %gx%g, want 100x200", g.Width, g.Height)
	}
}

func TestRelayoutIdempotent(t *testing.T) {
	model, x, _ := newTestModel()
	f := New(model)
	defer f.Close()
	f.Display(900, 500)
	settle(t, f)

	first, firstRange := f.Geometry(), x.Range()
	before := f.Stats().Relayouts

	f.Relayout()
	settle(t, f)
	f.Relayout()
	settle(t, f)

	if got := f.Geometry(); got != first {
		t.Errorf("Geometry() changed: %+v, want %+v", got, first)
	}
	if got := x.Range(); got != firstRange {
		t.Errorf("x range changed: %v, want %v", got, firstRange)
	}
	if got := f.Stats().Relayouts; got != before+2 {
		t.Errorf("Relayouts = %d, want %d", got, before+2)
	}
}

func TestMarginChangeRelayouts(t *testing.T) {
	model, x, _ := newTestModel()
	f := New(model)
	defer f.Close()
	f.Display(800, 600)
	settle(t, f)

	model.SetMargin(Margin{Top: 10, Right: 20, Bottom: 30, Left: 40})
	settle(t, f)

	g := f.Geometry()
	if g.PlotWidth != 740 || g.PlotHeight != 560 {
		t.Errorf("plot = %gx%g, want 740x560", g.PlotWidth, g.PlotHeight)
	}
	if got := x.Range(); got != (scale.Range{0, 740}) {
		t.Errorf("x range = %v, want [0 740]", got)
	}

	var transform string
	f.Scene(context.Background(), func(root *scene.Node) {
		transform, _ = root.FindClass("fig")[0].Attr("transform")
	})
	if transform != scene.Translate(40, 10) {
		t.Errorf("fig transform = %q, want %q", transform, scene.Translate(40, 10))
	}
}

func TestResizeCoalesces(t *testing.T) {
	model, _, _ := newTestModel()
	f := New(model)
	defer f.Close()
	f.Display(800, 600)
	settle(t, f)

	var n notifications
	defer f.Subscribe(n.handle)()
	before := f.Stats().Relayouts

	entered, release := make(chan struct{}), make(chan struct{})
	go f.Scene(context.Background(), func(*scene.Node) {
		close(entered)
		<-release
	})
	<-entered
	for i := range 10 {
		f.Resize(float64(500+i*10), 400)
	}
	close(release)
	settle(t, f)

	if got := f.Stats().Relayouts; got != before+1 {
		t.Errorf("Relayouts = %d, want %d", got, before+1)
	}
	if margins, _ := n.counts(); margins != 1 {
		t.Errorf("MarginUpdated count = %d, want 1", margins)
	}
	if g := f.Geometry(); g.Width != 590 {
		t.Errorf("Width = %g, want 590 (last resize)", g.Width)
	}
}

func TestPaddingFractionEmitsMarginWithoutRelayout(t *testing.T) {
	model, x, y := newTestModel()
	f := New(model)
	defer f.Close()
	f.Display(800, 600)
	settle(t, f)

	var n notifications
	defer f.Subscribe(n.handle)()
	before := f.Stats().Relayouts

	model.SetPadding(0.25, 0.125)
	settle(t, f)

	if got := f.Stats().Relayouts; got != before {
		t.Errorf("Relayouts = %d, want %d", got, before)
	}
	if margins, _ := n.counts(); margins != 1 {
		t.Errorf("MarginUpdated count = %d, want 1", margins)
	}
	if got := f.PaddedRange(scale.X, x); got != (scale.Range{170, 510}) {
		t.Errorf("PaddedRange(X) = %v, want [170 510]", got)
	}
	if got := f.PaddedRange(scale.Y, y); got != (scale.Range{420, 60}) {
		t.Errorf("PaddedRange(Y) = %v, want [420 60]", got)
	}
	if got := f.PaddingFraction(scale.X); got != 0.25 {
		t.Errorf("PaddingFraction(X) = %g, want 0.25", got)
	}
}

func TestUnpaddedRange(t *testing.T) {
	model, _, _ := newTestModel()
	f := New(model)
	defer f.Close()
	f.Display(800, 600)
	settle(t, f)

	if got := f.UnpaddedRange(scale.X); got != (scale.Range{0, 680}) {
		t.Errorf("UnpaddedRange(X) = %v", got)
	}
	if got := f.UnpaddedRange(scale.Y); got != (scale.Range{480, 0}) {
		t.Errorf("UnpaddedRange(Y) = %v", got)
	}
}

func TestTitleAndStyles(t *testing.T) {
	model, _, _ := newTestModel()
	model.SetTitle("before")
	f := New(model)
	defer f.Close()

	model.SetTitle("after")
	model.SetTitleStyle(Style{"font-size": "20px"})
	model.SetBackgroundStyle(Style{"fill": "#eee"})
	settle(t, f)

	var title, size, fill string
	f.Scene(context.Background(), func(root *scene.Node) {
		tn := root.FindClass("mainheading")[0]
		title, size = tn.Text, tn.Style("font-size")
		fill = root.FindClass("plotarea_background")[0].Style("fill")
	})
	if title != "after" || size != "20px" || fill != "#eee" {
		t.Errorf("title=%q size=%q fill=%q", title, size, fill)
	}
}

func TestSceneSkeleton(t *testing.T) {
	model, _, _ := newTestModel()
	f := New(model)
	defer f.Close()
	settle(t, f)

	var clipID, clipRef string
	var order []string
	f.Scene(context.Background(), func(root *scene.Node) {
		clipID, _ = root.FindTag("clipPath")[0].Attr("id")
		clipRef, _ = root.FindClass("marks")[0].Attr("clip-path")
		for _, c := range root.FindClass("fig")[0].Children() {
			class, _ := c.Attr("class")
			order = append(order, class)
		}
	})

	if clipID != "clip_path_"+f.ID() {
		t.Errorf("clip id = %q", clipID)
	}
	if clipRef != "url(#"+clipID+")" {
		t.Errorf("clip-path = %q", clipRef)
	}
	want := []string{"plotarea_background", "axes", "marks", "g_legend", "interaction", "mainheading"}
	if len(order) != len(want) {
		t.Fatalf("fig children = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("fig child %d = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestClose(t *testing.T) {
	model, _, _ := newTestModel()
	rec := newRecorder()
	model.SetMarks(&testMark{id: "a"})
	f := New(model, WithMarkFactory(rec.factory))
	settle(t, f)

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !rec.view("a").removed.Load() {
		t.Error("Close should remove views")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := f.Settle(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Settle after Close = %v, want ErrClosed", err)
	}

	// model changes after close are ignored
	model.SetTitle("ignored")
}

func TestLegendLocationChange(t *testing.T) {
	model, _, _ := newTestModel()
	rec := newRecorder()
	model.SetMarks(&testMark{id: "a", legend: true, rows: 1, label: 4})
	f := New(model, WithMarkFactory(rec.factory))
	defer f.Close()
	f.Display(800, 600)
	settle(t, f)

	var n notifications
	defer f.Subscribe(n.handle)()

	model.SetLegendLocation(legend.BottomLeft)
	settle(t, f)

	res := f.Legend()
	if res.Location != legend.BottomLeft {
		t.Errorf("Location = %q, want bottom-left", res.Location)
	}
	if res.X != 0 || res.Y != 480-res.Height {
		t.Errorf("anchor = (%g, %g), want (0, %g)", res.X, res.Y, 480-res.Height)
	}
	margins, legends := n.counts()
	if legends != 1 || margins != 0 {
		t.Errorf("notifications: margins=%d legends=%d, want 0/1", margins, legends)
	}
}
