package figure

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/padding"
	"github.com/matzehuels/figlayout/pkg/scale"
	"github.com/matzehuels/figlayout/pkg/scene"
)

// ErrClosed is returned by calls on a closed figure.
var ErrClosed = errors.New("figure: closed")

// Figure is a live figure. See the package documentation.
type Figure struct {
	id     string
	model  *Model
	logger *log.Logger

	markFactory        MarkFactory
	axisFactory        AxisFactory
	interactionFactory InteractionFactory

	defaults [2]scale.Scale

	box    *mailbox
	quit   chan struct{}
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	unsub  func()

	notify Bus[Notification]
	snap   atomic.Pointer[snapshot]

	// Everything below is owned by the run goroutine.

	container      [2]float64
	displayed      bool
	margin         Margin
	minAspect      float64
	maxAspect      float64
	fraction       [2]float64
	layoutMin      [2]float64
	legendLocation legend.Location

	geom    Geometry
	binding *scale.Binding
	pads    [2]*padding.Registry
	legend  legend.Result

	marks           []*entity
	axes            []*entity
	interaction     *entity
	interactionDecl Interaction

	inflight     int
	cohortGen    uint64
	cohortOpen   bool
	cohortReady  bool
	framePending bool
	relayouts    uint64

	pendingDisplayed []*entity
	settleWaiters    []chan struct{}

	nodes sceneNodes
}

type sceneNodes struct {
	root        *scene.Node
	clipRect    *scene.Node
	fig         *scene.Node
	background  *scene.Node
	axes        *scene.Node
	marks       *scene.Node
	legend      *scene.Node
	interaction *scene.Node
	title       *scene.Node
}

// internal messages
type (
	resizeMsg   struct{ w, h float64 }
	displayMsg  struct{ w, h float64 }
	attachMsg   struct{}
	relayoutMsg struct{}
	settleMsg   struct{ ch chan struct{} }
	callMsg     struct {
		fn   func(root *scene.Node)
		done chan struct{}
	}
	materializedMsg struct {
		e    *entity
		view View
		err  error
	}
	cohortDoneMsg struct {
		gen     uint64
		size    int
		started time.Time
	}
	markPaddingMsg struct {
		e   *entity
		pad [2]float64
	}
	markScalesMsg struct {
		e      *entity
		scales [2]scale.Scale
	}
	markLegendMsg struct{ e *entity }
)

// New creates a figure for model and starts its goroutine. The figure lays
// itself out from the model's layout minimums right away and starts
// materializing the declared marks and axes. Call [Figure.Close] to stop it.
func New(model *Model, opts ...Option) *Figure {
	f := &Figure{
		id:     newFigureID(),
		model:  model,
		logger: discardLogger(),
		box:    newMailbox(),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.ctx, f.cancel = context.WithCancel(context.Background())
	f.logger = f.logger.With("figure", shortID(f.id))

	// Subscribe before reading so no change is lost; changes that race the
	// reads below are queued and re-applied in order.
	f.unsub = model.Subscribe(func(c Change) { f.push(c) })

	x, y := model.Scales()
	f.defaults = [2]scale.Scale{x, y}
	f.margin = model.Margin()
	f.minAspect, f.maxAspect = model.AspectRatio()
	f.fraction[scale.X], f.fraction[scale.Y] = model.Padding()
	f.layoutMin[0], f.layoutMin[1] = model.LayoutMin()
	f.legendLocation = model.LegendLocation()
	f.pads = [2]*padding.Registry{padding.New(), padding.New()}
	f.interactionDecl = model.Interaction()

	f.buildScene(model.Title(), model.TitleStyle(), model.BackgroundStyle())
	f.binding = scale.NewBinding(x, y, 0, 0)
	f.relayout()

	f.reconcileMarks(model.Marks())
	f.reconcileAxes(model.Axes())
	f.publish()

	go f.run()
	return f
}

// ID returns the figure id.
func (f *Figure) ID() string { return f.id }

// Model returns the figure's model.
func (f *Figure) Model() *Model { return f.model }

// Subscribe registers fn for margin and legend notifications. Handlers run on
// the figure goroutine.
func (f *Figure) Subscribe(fn func(Notification)) (unsubscribe func()) {
	return f.notify.Subscribe(fn)
}

// Display performs the first display cycle with the measured container size:
// it lays the figure out and then fires pending Displayed callbacks. Later
// calls behave like [Figure.Resize].
func (f *Figure) Display(width, height float64) { f.push(displayMsg{width, height}) }

// Attach marks the figure as displayed without laying it out again.
func (f *Figure) Attach() { f.push(attachMsg{}) }

// Resize reports a new measured container size. The relayout runs once
// pending messages are processed.
func (f *Figure) Resize(width, height float64) { f.push(resizeMsg{width, height}) }

// Relayout requests a relayout pass. It is idempotent.
func (f *Figure) Relayout() { f.push(relayoutMsg{}) }

// Settle blocks until no materialization is in flight, the current cohort has
// been applied and no relayout is pending.
func (f *Figure) Settle(ctx context.Context) error {
	ch := make(chan struct{})
	if !f.push(settleMsg{ch: ch}) {
		return ErrClosed
	}
	select {
	case <-ch:
		return nil
	case <-f.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Scene runs fn against the scene graph on the figure goroutine.
func (f *Figure) Scene(ctx context.Context, fn func(root *scene.Node)) error {
	done := make(chan struct{})
	if !f.push(callMsg{fn: fn, done: done}) {
		return ErrClosed
	}
	select {
	case <-done:
		return nil
	case <-f.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the figure, cancels pending materializations and removes all
// views. It is safe to call more than once.
func (f *Figure) Close() error {
	f.once.Do(func() {
		f.unsub()
		f.cancel()
		close(f.quit)
	})
	<-f.done
	return nil
}

func (f *Figure) push(m any) bool {
	return f.box.push(m)
}

func (f *Figure) run() {
	defer close(f.done)
	for {
		for {
			select {
			case <-f.quit:
				f.shutdown()
				return
			default:
			}
			m, ok := f.box.pop()
			if !ok {
				break
			}
			f.dispatch(m)
			f.publish()
		}

		if f.framePending {
			f.framePending = false
			f.relayout()
			f.publish()
			continue
		}
		f.releaseSettled()

		select {
		case <-f.box.ready:
		case <-f.quit:
			f.shutdown()
			return
		}
	}
}

func (f *Figure) dispatch(m any) {
	switch m := m.(type) {
	case Change:
		f.applyChange(m)
	case resizeMsg:
		f.container = [2]float64{m.w, m.h}
		f.framePending = true
	case displayMsg:
		f.container = [2]float64{m.w, m.h}
		if f.displayed {
			f.framePending = true
			return
		}
		f.framePending = false
		f.displayed = true
		f.relayout()
		f.firePendingDisplayed()
	case attachMsg:
		if !f.displayed {
			f.displayed = true
			f.firePendingDisplayed()
		}
	case relayoutMsg:
		f.framePending = true
	case settleMsg:
		f.settleWaiters = append(f.settleWaiters, m.ch)
	case callMsg:
		m.fn(f.nodes.root)
		close(m.done)
	case materializedMsg:
		f.onMaterialized(m)
	case cohortDoneMsg:
		f.onCohortDone(m)
	case markPaddingMsg:
		f.onMarkPadding(m.e, m.pad)
	case markScalesMsg:
		f.onMarkScales(m.e, m.scales)
	case markLegendMsg:
		if m.e.state != StateActive {
			f.logger.Debug("dropped legend change", "token", m.e.token, "state", m.e.state)
			return
		}
		f.refreshLegend()
	default:
		f.logger.Warn("unknown message", "type", fmt.Sprintf("%T", m))
	}
}

func (f *Figure) applyChange(c Change) {
	switch c := c.(type) {
	case MarginChanged:
		f.margin = c.Margin
		f.framePending = true
	case AspectRatioChanged:
		f.minAspect, f.maxAspect = c.Min, c.Max
		f.framePending = true
	case LayoutChanged:
		f.layoutMin = [2]float64{c.MinWidth, c.MinHeight}
		f.framePending = true
	case PaddingChanged:
		f.fraction = [2]float64{c.X, c.Y}
		f.publish()
		f.emitMargin()
	case TitleChanged:
		f.nodes.title.Text = c.Title
	case TitleStyleChanged:
		f.nodes.title.ReplaceStyle(c.Style)
	case BackgroundStyleChanged:
		f.nodes.background.ReplaceStyle(c.Style)
	case LegendLocationChanged:
		f.legendLocation = c.Location
		f.refreshLegend()
	case MarksChanged:
		f.reconcileMarks(c.Marks)
	case AxesChanged:
		f.reconcileAxes(c.Axes)
	case InteractionChanged:
		f.interactionDecl = c.Interaction
		if f.cohortReady {
			f.setInteraction(c.Interaction)
		}
	}
}

func (f *Figure) firePendingDisplayed() {
	pending := f.pendingDisplayed
	f.pendingDisplayed = nil
	for _, e := range pending {
		if e.state == StateActive {
			displayed(e.view)
		}
	}
}

func (f *Figure) settled() bool {
	return f.inflight == 0 && !f.cohortOpen && !f.framePending
}

func (f *Figure) releaseSettled() {
	if len(f.settleWaiters) == 0 || !f.settled() {
		return
	}
	for _, ch := range f.settleWaiters {
		close(ch)
	}
	f.settleWaiters = nil
}

func (f *Figure) shutdown() {
	for _, m := range f.box.close() {
		if mm, ok := m.(materializedMsg); ok && mm.view != nil {
			mm.view.Node().Remove()
			mm.view.Remove()
		}
	}
	for _, e := range f.marks {
		f.removeEntity(e)
	}
	for _, e := range f.axes {
		f.removeEntity(e)
	}
	if f.interaction != nil {
		f.removeEntity(f.interaction)
	}
	f.marks, f.axes, f.interaction = nil, nil, nil
	f.publish()
	f.logger.Debug("closed")
}

func (f *Figure) emitMargin() {
	f.notify.Publish(MarginUpdated{Geometry: f.geom})
}

func displayed(v View) {
	if d, ok := v.(Displayer); ok {
		d.Displayed()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
