package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/figlayout/pkg/cache"
	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/figfile"
)

const doc = `
title = "Demo"
width = 800
height = 600

[[marks]]
id = "a"
label = "Series A"
radius = 5
points = [{x = 0, y = 0}, {x = 10, y = 5}]

[[axes]]
id = "bottom"
orientation = "x"
`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"dot", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats(" SVG, json,svg,")
	if err != nil {
		t.Fatalf("ParseFormats: %v", err)
	}
	if strings.Join(got, ",") != "svg,json" {
		t.Errorf("ParseFormats got %v, want [svg json]", got)
	}
	if _, err := ParseFormats("svg,gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormats(gif) got %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if o.Format != figfile.FormatTOML {
		t.Errorf("Format got %q, want toml", o.Format)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("Formats got %v, want [svg]", o.Formats)
	}
	if o.SettleTimeout != DefaultSettleTimeout {
		t.Errorf("SettleTimeout got %v, want %v", o.SettleTimeout, DefaultSettleTimeout)
	}
	if err := o.Validate(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Validate without document got %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestOptionsSize(t *testing.T) {
	d := &figfile.Document{Width: 300, Height: 200}
	tests := []struct {
		name  string
		opts  Options
		doc   *figfile.Document
		wantW float64
		wantH float64
	}{
		{"options win", Options{Width: 500, Height: 400}, d, 500, 400},
		{"document", Options{}, d, 300, 200},
		{"defaults", Options{}, &figfile.Document{}, DefaultWidth, DefaultHeight},
	}
	for _, tt := range tests {
		w, h := tt.opts.size(tt.doc)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("%s: got %vx%v, want %vx%v", tt.name, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Document: []byte(doc),
		Formats:  []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	g := res.Layout.Geometry
	if g.PlotWidth != 680 || g.PlotHeight != 480 {
		t.Errorf("plot got %vx%v, want 680x480", g.PlotWidth, g.PlotHeight)
	}
	if got := res.Layout.Padding["x"]; got != 5 {
		t.Errorf("x padding got %v, want 5", got)
	}
	if got := res.Layout.Ranges["x"].Padded; got[0] != 5 || got[1] != 675 {
		t.Errorf("x padded range got %v, want [5 675]", got)
	}
	if res.Layout.Legend.Rows != 1 {
		t.Errorf("legend rows got %d, want 1", res.Layout.Legend.Rows)
	}
	if res.Stats.MarkCount != 1 {
		t.Errorf("mark count got %d, want 1", res.Stats.MarkCount)
	}

	svg := string(res.Artifacts[FormatSVG])
	for _, want := range []string{"<svg", "Demo", "Series A", "<circle"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if !bytes.HasPrefix(res.Artifacts[FormatDOT], []byte("digraph")) {
		t.Errorf("dot artifact got %.20q, want digraph", res.Artifacts[FormatDOT])
	}

	l, err := UnmarshalLayout(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if l.Geometry != res.Layout.Geometry {
		t.Errorf("json geometry got %+v, want %+v", l.Geometry, res.Layout.Geometry)
	}
	if len(l.Marks) != 1 || l.Marks[0].State.String() != "active" {
		t.Errorf("json marks got %+v, want one active mark", l.Marks)
	}
}

func TestExecuteCaches(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	opts := Options{Document: []byte(doc), Formats: []string{FormatSVG}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.RenderHit || !second.CacheInfo.LayoutHit {
		t.Errorf("second run cache info got %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}

	opts.Refresh = false
	opts.Width = 1000
	fourth, _ := r.Execute(context.Background(), opts)
	if fourth.CacheInfo.RenderHit {
		t.Error("a different size should miss the cache")
	}
}

func TestLayout(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	l, hit, err := r.Layout(context.Background(), Options{Document: []byte(doc), Width: 1000, Height: 500})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if hit {
		t.Error("null cache should never hit")
	}
	if l.Geometry.Width != 1000 || l.Geometry.Height != 500 {
		t.Errorf("size got %vx%v, want 1000x500", l.Geometry.Width, l.Geometry.Height)
	}
	if l.Ranges["y"].Orientation != "y" {
		t.Errorf("y orientation got %q, want y", l.Ranges["y"].Orientation)
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Document: []byte(`legend_location = "nowhere"`)})
	if !errors.Is(err, errors.ErrCodeInvalidLocation) {
		t.Errorf("got %v, want %s", err, errors.ErrCodeInvalidLocation)
	}
}
