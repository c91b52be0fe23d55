package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fig.json")
	if err := os.WriteFile(path, []byte(`{"title":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	data, format, err := readDocument(path)
	if err != nil {
		t.Fatalf("readDocument: %v", err)
	}
	if string(data) != `{"title":"x"}` || format != "json" {
		t.Errorf("got %q/%s, want the file contents as json", data, format)
	}
	if _, _, err := readDocument(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file should fail")
	}
}
