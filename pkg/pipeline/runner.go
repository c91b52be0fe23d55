package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figlayout/pkg/cache"
	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/figfile"
	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
// When every requested artifact is cached no figure is opened.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		DocHash:   cache.Hash(opts.Document),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	doc, err := Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.MarkCount = len(doc.Marks)

	r.Logger.Debug("parsed document",
		"marks", len(doc.Marks),
		"axes", len(doc.Axes),
		"duration", result.Stats.ParseTime)

	layoutKey := r.Keyer.LayoutKey(result.DocHash, opts.LayoutKeyOpts(doc))
	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, result.DocHash, doc, opts); ok {
			if l, ok := r.cachedLayout(ctx, layoutKey); ok {
				result.Layout = l
				result.Artifacts = artifacts
				result.CacheInfo = CacheInfo{LayoutHit: true, RenderHit: true}
				r.Logger.Debug("served from cache", "formats", opts.Formats)
				return result, nil
			}
		}
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	fig, built, err := Open(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	defer fig.Close()

	result.Layout = Capture(fig, built)
	result.Stats.LayoutTime = time.Since(layoutStart)
	if data, err := MarshalLayout(result.Layout); err == nil {
		r.set(ctx, "layout", layoutKey, data, cache.TTLLayout)
	}

	g := result.Layout.Geometry
	r.Logger.Debug("settled layout",
		"width", g.Width,
		"height", g.Height,
		"legend_rows", result.Layout.Legend.Rows,
		"duration", result.Stats.LayoutTime)

	if failed := result.Layout.Stats.Failed; failed > 0 {
		r.Logger.Warn("some marks failed to materialize", "failed", failed)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.RenderFigure(ctx, fig, result.Layout, opts.Formats)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(result.DocHash, opts.ArtifactKeyOpts(doc, format))
		r.set(ctx, "artifact", key, data, cache.TTLArtifact)
	}

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout runs parse and layout only and returns the settled layout. The
// layout is cached like in Execute.
func (r *Runner) Layout(ctx context.Context, opts Options) (Layout, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Layout{}, false, err
	}
	doc, err := Parse(ctx, opts)
	if err != nil {
		return Layout{}, false, err
	}

	key := r.Keyer.LayoutKey(cache.Hash(opts.Document), opts.LayoutKeyOpts(doc))
	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, key); ok {
			return l, true, nil
		}
	}

	fig, built, err := Open(ctx, doc, opts)
	if err != nil {
		return Layout{}, false, err
	}
	defer fig.Close()

	l := Capture(fig, built)
	if data, err := MarshalLayout(l); err == nil {
		r.set(ctx, "layout", key, data, cache.TTLLayout)
	}
	return l, false, nil
}

// RenderFigure renders an already settled figure.
func (r *Runner) RenderFigure(ctx context.Context, fig *figure.Figure, l Layout, formats []string) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()
	artifacts, err := Render(ctx, fig, l, formats)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, docHash string, doc *figfile.Document, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(doc, format))
		data, ok := r.get(ctx, "artifact", key)
		if !ok {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (Layout, bool) {
	data, ok := r.get(ctx, "layout", key)
	if !ok {
		return Layout{}, false
	}
	l, err := UnmarshalLayout(data)
	if err != nil {
		r.Logger.Debug("discarding unreadable cached layout", "err", err)
		return Layout{}, false
	}
	return l, true
}

func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key_type", keyType, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// IsTimeout reports whether a pipeline error is a settle timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, errors.ErrCodeTimeout)
}
