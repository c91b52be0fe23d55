package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/figlayout/pkg/figfile"
	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/pipeline"
)

const watchDoc = `
width = 800
height = 600
legend_location = "top-right"

[[marks]]
id = "a"
label = "Series A"
radius = 4
points = [{x = 0, y = 0}, {x = 1, y = 1}]
`

func openWatchModel(t *testing.T) watchModel {
	t.Helper()
	doc, err := figfile.Parse([]byte(watchDoc), figfile.FormatTOML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts := pipeline.Options{}
	opts.SetDefaults()
	fig, built, err := pipeline.Open(context.Background(), doc, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { fig.Close() })
	return newWatchModel("fig.toml", fig, built)
}

func settle(t *testing.T, f *figure.Figure) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.Settle(ctx); err != nil {
		t.Fatalf("Settle: %v", err)
	}
}

func key(k string) tea.KeyMsg {
	switch k {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestWatchKeys(t *testing.T) {
	m := openWatchModel(t)

	m.Update(key("right"))
	settle(t, m.fig)
	if got := m.fig.Geometry().Width; got != 820 {
		t.Errorf("width after right got %v, want 820", got)
	}

	m.Update(key("down"))
	settle(t, m.fig)
	if got := m.fig.Geometry().Height; got != 580 {
		t.Errorf("height after down got %v, want 580", got)
	}

	m.Update(key("l"))
	settle(t, m.fig)
	if got := m.built.Model.LegendLocation(); got != legend.Right {
		t.Errorf("legend location got %s, want %s", got, legend.Right)
	}

	m.Update(key("+"))
	if got := m.built.Marks["a"].Radius(); got != 5 {
		t.Errorf("radius after + got %v, want 5", got)
	}

	m.Update(key("p"))
	if x, y := m.built.Model.Padding(); x != watchPadding || y != watchPadding {
		t.Errorf("padding got %v,%v, want %v", x, y, watchPadding)
	}
	m.Update(key("p"))
	if x, y := m.built.Model.Padding(); x != 0 || y != 0 {
		t.Errorf("padding after second p got %v,%v, want 0,0", x, y)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return the quit command")
	}
}

func TestWatchNotifications(t *testing.T) {
	m := openWatchModel(t)
	g := figure.NewGeometry(1000, 500, figure.Margin{})

	next, cmd := m.Update(notificationMsg{figure.MarginUpdated{Geometry: g}})
	wm := next.(watchModel)
	if wm.geom != g {
		t.Errorf("geometry got %+v, want %+v", wm.geom, g)
	}
	if len(wm.log) != 1 {
		t.Errorf("event log got %d lines, want 1", len(wm.log))
	}
	if cmd == nil {
		t.Error("notifications should re-arm the wait command")
	}

	for i := 0; i < watchEventLog+3; i++ {
		wm.record("x")
	}
	if len(wm.log) != watchEventLog {
		t.Errorf("event log got %d lines, want %d", len(wm.log), watchEventLog)
	}
	if wm.View() == "" {
		t.Error("View should not be empty")
	}
}
