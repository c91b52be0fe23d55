package legend

import (
	"testing"

	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/scene"
)

type fakeDrawer struct {
	rows  int
	label float64
	calls []float64
}

func (d *fakeDrawer) DrawLegend(g *scene.Node, x, y, step float64) (int, float64) {
	d.calls = append(d.calls, y)
	for i := range d.rows {
		g.Append(scene.New("text").SetAttrf("y", y+float64(i)*step))
	}
	return d.rows, d.label
}

func TestAnchor(t *testing.T) {
	const w, h, bw, bh, d = 500.0, 300.0, 24.0, 48.0, 10.0

	tests := []struct {
		loc  Location
		x, y float64
	}{
		{Top, w/2 - bw, 0},
		{TopRight, w - d, 0},
		{Right, w - d, h/2 - bh},
		{BottomRight, w - d, h - bh},
		{Bottom, w/2 - bw, h - bh},
		{BottomLeft, 0, h - bh},
		{Left, 0, h/2 - bh},
		{TopLeft, 0, 0},
		{Location("nowhere"), 0, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.loc), func(t *testing.T) {
			x, y := Anchor(tt.loc, w, h, bw, bh, d)
			if x != tt.x || y != tt.y {
				t.Errorf("Anchor = (%g, %g), want (%g, %g)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestLayoutBottomRight(t *testing.T) {
	g := scene.New("g")
	a := &fakeDrawer{rows: 1, label: 3}
	b := &fakeDrawer{rows: 2, label: 5}

	res := Layout(g, []Item{
		{ID: "a", Display: true, Drawer: a},
		{ID: "hidden", Display: false, Drawer: &fakeDrawer{rows: 9, label: 40}},
		{ID: "b", Display: true, Drawer: b},
	}, Options{Location: BottomRight, PlotWidth: 400, PlotHeight: 300})

	if res.Rows != 3 {
		t.Errorf("Rows = %d, want 3", res.Rows)
	}
	if want := 5 * RowStep; res.Height != want {
		t.Errorf("Height = %g, want %g", res.Height, want)
	}
	if res.X != 400 || res.Y != 300-res.Height {
		t.Errorf("anchor = (%g, %g), want (400, %g)", res.X, res.Y, 300-res.Height)
	}
	if want := 400 - (5+2)*EM; res.TranslateX != want {
		t.Errorf("TranslateX = %g, want %g", res.TranslateX, want)
	}
	if !res.Bordered {
		t.Error("block with rows should be bordered")
	}

	if len(a.calls) != 1 || a.calls[0] != RowStep {
		t.Errorf("a drawn at %v, want [%g]", a.calls, RowStep)
	}
	if len(b.calls) != 1 || b.calls[0] != 2*RowStep {
		t.Errorf("b drawn at %v, want [%g]", b.calls, 2*RowStep)
	}
	if len(res.Entries) != 2 || res.Entries[1].ID != "b" || res.Entries[1].Index != 2 {
		t.Errorf("Entries = %+v", res.Entries)
	}

	rects := g.FindTag("rect")
	if len(rects) != 1 {
		t.Fatalf("border rects = %d, want 1", len(rects))
	}
	if got := rects[0].AttrFloat("width"); got != 7*EM {
		t.Errorf("border width = %g, want %g", got, 7*EM)
	}
	if got := rects[0].AttrFloat("height"); got != 4*RowStep {
		t.Errorf("border height = %g, want %g", got, 4*RowStep)
	}
}

func TestLayoutEmpty(t *testing.T) {
	g := scene.New("g")
	g.Append(scene.New("text"))

	res := Layout(g, nil, Options{Location: TopLeft, PlotWidth: 100, PlotHeight: 100})

	if res.Bordered || res.Rows != 0 {
		t.Errorf("empty legend: Bordered=%v Rows=%d", res.Bordered, res.Rows)
	}
	if g.Len() != 0 {
		t.Errorf("container should be cleared, has %d children", g.Len())
	}
	if res.Height != 2*RowStep {
		t.Errorf("Height = %g, want %g", res.Height, 2*RowStep)
	}
	if res.TranslateX != EM {
		t.Errorf("TranslateX = %g, want %g", res.TranslateX, EM)
	}
}

func TestLayoutIgnoresZeroLabel(t *testing.T) {
	res := Layout(scene.New("g"), []Item{
		{ID: "a", Display: true, Drawer: &fakeDrawer{rows: 1}},
	}, Options{Location: Top})

	if res.MaxLabelWidth != 1 {
		t.Errorf("MaxLabelWidth = %g, want 1", res.MaxLabelWidth)
	}
}

func TestParseLocation(t *testing.T) {
	for _, l := range Locations {
		got, err := ParseLocation(string(l))
		if err != nil || got != l {
			t.Errorf("ParseLocation(%q) = %q, %v", l, got, err)
		}
	}
	if got, _ := ParseLocation(" Bottom-Left "); got != BottomLeft {
		t.Errorf("ParseLocation normalizes case: got %q", got)
	}
	_, err := ParseLocation("center")
	if !errors.Is(err, errors.ErrCodeInvalidLocation) {
		t.Errorf("ParseLocation(center) error = %v, want INVALID_LOCATION", err)
	}
}
