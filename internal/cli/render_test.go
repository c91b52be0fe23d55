package cli

import (
	"reflect"
	"testing"

	"github.com/matzehuels/figlayout/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"empty defaults to svg", "", []string{"svg"}, false},
		{"single format", "dot", []string{"dot"}, false},
		{"multiple formats", "svg,json,dot", []string{"svg", "json", "dot"}, false},
		{"invalid", "svg,png", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFormats(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFormats(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "figs/iris.toml", "figs/iris"},
		{"out/plot.svg", "iris.toml", "out/plot"},
		{"out/plot.png", "iris.toml", "out/plot.png"},
		{"out/plot", "iris.toml", "out/plot"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) got %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths("iris.toml", "plot.svg", []string{pipeline.FormatSVG})
	if got[pipeline.FormatSVG] != "plot.svg" {
		t.Errorf("single format got %q, want plot.svg", got[pipeline.FormatSVG])
	}

	got = outputPaths("iris.toml", "", []string{pipeline.FormatSVG, pipeline.FormatJSON})
	want := map[string]string{"svg": "iris.svg", "json": "iris.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("multiple formats got %v, want %v", got, want)
	}
}
