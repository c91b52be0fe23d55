package marks

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/scale"
	"github.com/matzehuels/figlayout/pkg/scene"
)

type otherMark struct{}

func (otherMark) ID() string                 { return "other" }
func (otherMark) Scales() (x, y scale.Scale) { return nil, nil }
func (otherMark) DisplayLegend() bool        { return false }

func newFigure(t *testing.T, marks ...figure.Mark) (*figure.Figure, *figure.Model) {
	t.Helper()
	model := figure.NewModel(scale.NewLinear("x", 0, 10), scale.NewLinear("y", 0, 10))
	model.SetMarks(marks...)
	fig := figure.New(model, Options()...)
	t.Cleanup(func() { fig.Close() })
	fig.Display(800, 600)
	settle(t, fig)
	return fig, model
}

func settle(t *testing.T, fig *figure.Figure) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fig.Settle(ctx); err != nil {
		t.Fatalf("Settle: %v", err)
	}
}

func inScene(t *testing.T, fig *figure.Figure, fn func(root *scene.Node)) {
	t.Helper()
	if err := fig.Scene(context.Background(), fn); err != nil {
		t.Fatalf("Scene: %v", err)
	}
}

func TestLabelWidth(t *testing.T) {
	tests := []struct {
		label string
		want  float64
	}{
		{"", 0},
		{"ab", 14.0 / 16},
		{"abcdefghijklmnop", 7},
	}
	for _, tt := range tests {
		if got := LabelWidth(tt.label); got != tt.want {
			t.Errorf("LabelWidth(%q) got %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestScatterDrawsIntoPaddedRange(t *testing.T) {
	s := NewScatter("s1", []Point{{0, 0}, {10, 10}})
	fig, _ := newFigure(t, s)

	if got := fig.EffectivePadding(scale.X, "x"); got != DefaultRadius {
		t.Errorf("effective x padding got %v, want %v", got, DefaultRadius)
	}

	// plot 680x480, radius 4, y fraction 0.025 of 480 = 12
	inScene(t, fig, func(root *scene.Node) {
		dots := root.FindClass("dot")
		if len(dots) != 2 {
			t.Fatalf("dots got %d, want 2", len(dots))
		}
		want := [][2]float64{{4, 464}, {676, 16}}
		for i, d := range dots {
			got := [2]float64{d.AttrFloat("cx"), d.AttrFloat("cy")}
			if got != want[i] {
				t.Errorf("dot %d got %v, want %v", i, got, want[i])
			}
		}
	})
}

func TestScatterSetRadius(t *testing.T) {
	s := NewScatter("s1", []Point{{0, 0}})
	fig, _ := newFigure(t, s)

	s.SetRadius(10)
	settle(t, fig)

	if got := fig.EffectivePadding(scale.Y, "y"); got != 10 {
		t.Errorf("effective y padding got %v, want 10", got)
	}
	inScene(t, fig, func(root *scene.Node) {
		d := root.FindClass("dot")[0]
		if got := d.AttrFloat("cx"); got != 10 {
			t.Errorf("cx got %v, want 10", got)
		}
		if got := d.AttrFloat("r"); got != 10 {
			t.Errorf("r got %v, want 10", got)
		}
	})
}

func TestScatterSetScales(t *testing.T) {
	s := NewScatter("s1", []Point{{1, 1}}, WithRadius(6))
	fig, _ := newFigure(t, s)

	other := scale.NewLinear("x2", 0, 1)
	s.SetScales(other, nil)
	settle(t, fig)

	if got := fig.EffectivePadding(scale.X, "x"); got != 0 {
		t.Errorf("old scale padding got %v, want 0", got)
	}
	if got := fig.EffectivePadding(scale.X, "x2"); got != 6 {
		t.Errorf("new scale padding got %v, want 6", got)
	}
}

func TestScatterLegend(t *testing.T) {
	a := NewScatter("a", nil, WithLabel("alpha"))
	b := NewScatter("b", nil, WithLegend(false))
	fig, _ := newFigure(t, a, b)

	res := fig.Legend()
	if len(res.Entries) != 1 {
		t.Fatalf("entries got %d, want 1", len(res.Entries))
	}
	if got, want := res.Entries[0].ID, fig.Marks()[0].Token; got != want {
		t.Errorf("entry id got %q, want %q", got, want)
	}
	if got, want := res.Entries[0].LabelWidth, LabelWidth("alpha"); got != want {
		t.Errorf("label width got %v, want %v", got, want)
	}

	a.SetLabel("a much longer label")
	settle(t, fig)
	if got, want := fig.Legend().MaxLabelWidth, LabelWidth("a much longer label"); got != want {
		t.Errorf("max label width got %v, want %v", got, want)
	}

	inScene(t, fig, func(root *scene.Node) {
		texts := root.FindClass("legendtext")
		if len(texts) != 1 || texts[0].Text != "a much longer label" {
			t.Errorf("legend texts got %d, want the new label", len(texts))
		}
	})
}

func TestScatterRemovedStopsListening(t *testing.T) {
	s := NewScatter("s1", nil)
	fig, model := newFigure(t, s)

	model.SetMarks()
	settle(t, fig)
	s.SetRadius(20)
	settle(t, fig)

	if got := fig.EffectivePadding(scale.X, "x"); got != 0 {
		t.Errorf("padding after removal got %v, want 0", got)
	}
	if got := s.changes.Len(); got != 0 {
		t.Errorf("subscribers got %d, want 0", got)
	}
}

func TestAxisTicks(t *testing.T) {
	model := figure.NewModel(scale.NewLinear("x", 0, 10), scale.NewLinear("y", 0, 1))
	model.SetAxes(NewAxis("ax", scale.X, nil, 0, "time"), NewAxis("ay", scale.Y, nil, 3, ""))
	fig := figure.New(model, Options()...)
	defer fig.Close()
	fig.Display(800, 600)
	settle(t, fig)

	inScene(t, fig, func(root *scene.Node) {
		ax := root.FindClass("axis_x")
		if len(ax) != 1 {
			t.Fatalf("x axes got %d, want 1", len(ax))
		}
		if got, _ := ax[0].Attr("transform"); got != "translate(0, 480)" {
			t.Errorf("x axis transform got %q, want translate(0, 480)", got)
		}
		ticks := ax[0].FindClass("tick")
		if len(ticks) != DefaultTicks {
			t.Fatalf("x ticks got %d, want %d", len(ticks), DefaultTicks)
		}
		if got := ticks[2].AttrFloat("x"); got != 340 {
			t.Errorf("middle tick x got %v, want 340", got)
		}
		if got := ticks[1].Text; got != "2.5" {
			t.Errorf("tick label got %q, want 2.5", got)
		}
		if got := len(ax[0].FindClass("axislabel")); got != 1 {
			t.Errorf("axis labels got %d, want 1", got)
		}

		ay := root.FindClass("axis_y")[0]
		ticks = ay.FindClass("tick")
		if len(ticks) != 3 {
			t.Fatalf("y ticks got %d, want 3", len(ticks))
		}
		if got := ticks[0].AttrFloat("y"); got != 480 {
			t.Errorf("first y tick got %v, want 480", got)
		}
	})

	fig.Resize(1000, 600)
	settle(t, fig)
	inScene(t, fig, func(root *scene.Node) {
		ticks := root.FindClass("axis_x")[0].FindClass("tick")
		if got := ticks[4].AttrFloat("x"); got != 880 {
			t.Errorf("last tick after resize got %v, want 880", got)
		}
	})
}

func TestCrosshairDisplayed(t *testing.T) {
	model := figure.NewModel(scale.NewLinear("x", 0, 10), scale.NewLinear("y", 0, 10))
	model.SetInteraction(NewCrosshair("hair"))
	fig := figure.New(model, Options()...)
	defer fig.Close()
	settle(t, fig)

	visibility := func() string {
		var v string
		inScene(t, fig, func(root *scene.Node) {
			nodes := root.FindClass("crosshair")
			if len(nodes) != 1 {
				t.Fatalf("crosshairs got %d, want 1", len(nodes))
			}
			v = nodes[0].Style("visibility")
		})
		return v
	}
	if got := visibility(); got != "hidden" {
		t.Errorf("before display got %q, want hidden", got)
	}

	fig.Display(800, 600)
	settle(t, fig)
	if got := visibility(); got != "" {
		t.Errorf("after display got %q, want visible", got)
	}
	inScene(t, fig, func(root *scene.Node) {
		r := root.FindClass("overlay")[0]
		if got := r.AttrFloat("width"); got != 680 {
			t.Errorf("overlay width got %v, want 680", got)
		}
	})
}

func TestFactoriesRejectUnknownTypes(t *testing.T) {
	_, err := MarkFactory(context.Background(), nil, otherMark{})
	if !errors.Is(err, errors.ErrCodeInvalidMark) {
		t.Errorf("MarkFactory error got %v, want %s", err, errors.ErrCodeInvalidMark)
	}
}

func TestFactoryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	model := figure.NewModel(scale.NewLinear("x", 0, 1), scale.NewLinear("y", 0, 1))
	fig := figure.New(model)
	defer fig.Close()

	if _, err := AxisFactory(ctx, fig, NewAxis("a", scale.X, nil, 0, "")); err == nil {
		t.Error("AxisFactory with cancelled context got nil error")
	}
}
