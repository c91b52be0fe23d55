// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional: libraries call the registered hooks, and the
// defaults do nothing. Applications register their own implementations at
// startup to forward events to a metrics or tracing backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFigureHooks(&myFigureHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... relayout ...
//	observability.Figure().OnRelayout(ctx, figureID, width, height, time.Since(start))
//
// Hooks are called from figure goroutines and request handlers and must be
// safe for concurrent use. They must not block.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Figure Hooks
// =============================================================================

// FigureHooks receives events from live figures.
type FigureHooks interface {
	// OnRelayout records a completed relayout pass and the resulting figure size.
	OnRelayout(ctx context.Context, figureID string, width, height float64, duration time.Duration)

	// OnMaterialize records the completion of a mark, axis or interaction
	// view. kind is "mark", "axis" or "interaction".
	OnMaterialize(ctx context.Context, figureID, kind, token string, duration time.Duration, err error)

	// OnCohortSettled records that every materialization of a mark-list
	// change has completed.
	OnCohortSettled(ctx context.Context, figureID string, size int, duration time.Duration)

	// OnLegend records a legend refresh.
	OnLegend(ctx context.Context, figureID string, rows int)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the document-to-artifact pipeline.
type PipelineHooks interface {
	OnParseStart(ctx context.Context, format string, size int)
	OnParseComplete(ctx context.Context, format string, marks int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, marks int)
	OnLayoutComplete(ctx context.Context, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFigureHooks is a no-op implementation of FigureHooks.
type NoopFigureHooks struct{}

func (NoopFigureHooks) OnRelayout(context.Context, string, float64, float64, time.Duration) {}
func (NoopFigureHooks) OnMaterialize(context.Context, string, string, string, time.Duration, error) {
}
func (NoopFigureHooks) OnCohortSettled(context.Context, string, int, time.Duration) {}
func (NoopFigureHooks) OnLegend(context.Context, string, int)                      {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                 {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, time.Duration, error)             {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	figureHooks   FigureHooks   = NoopFigureHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetFigureHooks registers custom figure hooks.
// This should be called once at application startup before any figure is created.
func SetFigureHooks(h FigureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		figureHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Figure returns the registered figure hooks.
func Figure() FigureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return figureHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	figureHooks = NoopFigureHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
