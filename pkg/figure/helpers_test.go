package figure

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/figlayout/pkg/scale"
	"github.com/matzehuels/figlayout/pkg/scene"
)

type testMark struct {
	id     string
	x, y   scale.Scale
	pad    [2]float64
	rows   int
	label  float64
	legend bool
}

func (m *testMark) ID() string                 { return m.id }
func (m *testMark) Scales() (x, y scale.Scale) { return m.x, m.y }
func (m *testMark) DisplayLegend() bool        { return m.legend }

type testView struct {
	node      *scene.Node
	mark      *testMark
	removed   atomic.Bool
	displayed atomic.Int32
}

func newTestView(m *testMark) *testView {
	return &testView{node: scene.New("g").SetAttr("id", m.id), mark: m}
}

func (v *testView) Node() *scene.Node       { return v.node }
func (v *testView) Padding() (x, y float64) { return v.mark.pad[0], v.mark.pad[1] }
func (v *testView) Remove()                 { v.removed.Store(true) }
func (v *testView) Displayed()              { v.displayed.Add(1) }

func (v *testView) DrawLegend(g *scene.Node, x, y, step float64) (int, float64) {
	for i := range v.mark.rows {
		g.Append(scene.New("text").SetAttrf("y", y+float64(i)*step)).Text = v.mark.id
	}
	return v.mark.rows, v.mark.label
}

// recorder is a factory that completes immediately and remembers what it built.
type recorder struct {
	mu    sync.Mutex
	views map[string]*testView
	hosts map[string]*MarkHost
}

func newRecorder() *recorder {
	return &recorder{views: make(map[string]*testView), hosts: make(map[string]*MarkHost)}
}

func (r *recorder) factory(_ context.Context, host *MarkHost, m Mark) (MarkView, error) {
	tm := m.(*testMark)
	v := newTestView(tm)
	r.mu.Lock()
	r.views[tm.id] = v
	r.hosts[tm.id] = host
	r.mu.Unlock()
	return v, nil
}

func (r *recorder) view(id string) *testView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[id]
}

func (r *recorder) host(id string) *MarkHost {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hosts[id]
}

// gate is a factory whose completions are released by the test.
type gate struct {
	ignoreCtx bool
	started   chan string

	mu    sync.Mutex
	chans map[string]chan struct{}
	views map[string]*testView
}

func newGate() *gate {
	return &gate{
		started: make(chan string, 64),
		chans:   make(map[string]chan struct{}),
		views:   make(map[string]*testView),
	}
}

func (g *gate) ch(id string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.chans[id]
	if !ok {
		c = make(chan struct{})
		g.chans[id] = c
	}
	return c
}

func (g *gate) open(id string) { close(g.ch(id)) }

func (g *gate) view(id string) *testView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.views[id]
}

func (g *gate) factory(ctx context.Context, _ *MarkHost, m Mark) (MarkView, error) {
	tm := m.(*testMark)
	release := g.ch(tm.id)
	g.started <- tm.id

	if g.ignoreCtx {
		<-release
	} else {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	v := newTestView(tm)
	g.mu.Lock()
	g.views[tm.id] = v
	g.mu.Unlock()
	return v, nil
}

func (g *gate) waitStarted(t *testing.T, n int) {
	t.Helper()
	for range n {
		select {
		case <-g.started:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for factory start")
		}
	}
}

func failingFactory(context.Context, *MarkHost, Mark) (MarkView, error) {
	return nil, errors.New("boom")
}

func newTestModel() (*Model, *scale.Linear, *scale.Linear) {
	x := scale.NewLinear("x", 0, 10)
	y := scale.NewLinear("y", 0, 10)
	return NewModel(x, y), x, y
}

func settle(t *testing.T, f *Figure) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.Settle(ctx); err != nil {
		t.Fatalf("Settle: %v", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// markOrder returns the ids of the marks group children, "_" for placeholders.
func markOrder(t *testing.T, f *Figure) string {
	t.Helper()
	var ids []string
	err := f.Scene(context.Background(), func(root *scene.Node) {
		for _, c := range root.FindClass("marks")[0].Children() {
			if c.HasClass("placeholder") {
				ids = append(ids, "_")
				continue
			}
			id, _ := c.Attr("id")
			ids = append(ids, id)
		}
	})
	if err != nil {
		t.Fatalf("Scene: %v", err)
	}
	return strings.Join(ids, ",")
}

type notifications struct {
	mu      sync.Mutex
	margins int
	legends int
	last    Geometry
}

func (n *notifications) handle(e Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	switch e := e.(type) {
	case MarginUpdated:
		n.margins++
		n.last = e.Geometry
	case LegendUpdated:
		n.legends++
	}
}

func (n *notifications) counts() (margins, legends int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.margins, n.legends
}

func (n *notifications) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.margins, n.legends = 0, 0
}
