package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Figure hooks
	f := NoopFigureHooks{}
	f.OnRelayout(ctx, "fig", 640, 480, time.Millisecond)
	f.OnMaterialize(ctx, "fig", "mark", "mark_01", time.Millisecond, nil)
	f.OnCohortSettled(ctx, "fig", 3, time.Millisecond)
	f.OnLegend(ctx, "fig", 2)

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "toml", 512)
	p.OnParseComplete(ctx, "toml", 3, time.Second, nil)
	p.OnLayoutStart(ctx, 3)
	p.OnLayoutComplete(ctx, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/layout", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Figure().(NoopFigureHooks); !ok {
		t.Error("Figure() should return NoopFigureHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customFigure := &testFigureHooks{}
	SetFigureHooks(customFigure)
	if Figure() != customFigure {
		t.Error("SetFigureHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Figure().(NoopFigureHooks); !ok {
		t.Error("Reset() should restore NoopFigureHooks")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testFigureHooks{}
	SetFigureHooks(custom)
	SetFigureHooks(nil)

	if Figure() != custom {
		t.Error("SetFigureHooks(nil) should be ignored")
	}

	Reset()
}

type testFigureHooks struct{ NoopFigureHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
