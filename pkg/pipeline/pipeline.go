// Package pipeline provides the figure pipeline shared by the CLI and the
// server.
//
// The pipeline has three stages:
//
//  1. Parse: decode, default and validate a figure document
//  2. Layout: open a live figure, display it and wait until it settles
//  3. Render: serialize the settled figure (SVG, layout JSON, scene DOT)
//
// Layouts and artifacts are cached by document hash, so re-rendering an
// unchanged document never opens a figure.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Document: data,
//	    Format:   figfile.FormatTOML,
//	    Formats:  []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figlayout/pkg/cache"
	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/figfile"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the container width used when neither the options nor
	// the document give one.
	DefaultWidth = 800.0

	// DefaultHeight is the container height used when neither the options
	// nor the document give one.
	DefaultHeight = 600.0

	// DefaultSettleTimeout bounds how long a figure may take to settle.
	DefaultSettleTimeout = 10 * time.Second
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the figure pipeline.
type Options struct {
	// Parse options
	Document []byte         `json:"-"`
	Format   figfile.Format `json:"format,omitempty"`

	// Layout options. Zero sizes fall back to the document, then to the
	// defaults.
	Width         float64       `json:"width,omitempty"`
	Height        float64       `json:"height,omitempty"`
	SettleTimeout time.Duration `json:"-"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Refresh ignores cached entries but still writes fresh ones.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocHash is the content hash of the raw document.
	DocHash string

	// Layout is the settled geometry, legend and mark states.
	Layout Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	MarkCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out, ValidateFormats(out)
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults applies defaults that do not depend on the document.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = figfile.FormatTOML
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.SettleTimeout == 0 {
		o.SettleTimeout = DefaultSettleTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options after SetDefaults.
func (o *Options) Validate() error {
	if len(o.Document) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	if _, err := figfile.ParseFormat(string(o.Format)); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("height", o.Height); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// size resolves the container size: options, then document, then defaults.
func (o *Options) size(doc *figfile.Document) (w, h float64) {
	w, h = o.Width, o.Height
	if w == 0 && h == 0 {
		w, h = doc.Width, doc.Height
	}
	if w == 0 && h == 0 {
		w, h = DefaultWidth, DefaultHeight
	}
	return w, h
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(doc *figfile.Document) cache.LayoutKeyOpts {
	w, h := o.size(doc)
	return cache.LayoutKeyOpts{Width: w, Height: h}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(doc *figfile.Document, format string) cache.ArtifactKeyOpts {
	w, h := o.size(doc)
	return cache.ArtifactKeyOpts{Format: format, Width: w, Height: h}
}
