package figure

import (
	"context"
	"errors"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/figlayout/pkg/observability"
	"github.com/matzehuels/figlayout/pkg/scale"
	"github.com/matzehuels/figlayout/pkg/scene"
)

var (
	errNoFactory = errors.New("no factory configured")
	errNilView   = errors.New("factory returned no view")
)

type kind int

const (
	kindMark kind = iota
	kindAxis
	kindInteraction
)

func (k kind) String() string {
	switch k {
	case kindMark:
		return "mark"
	case kindAxis:
		return "axis"
	default:
		return "interaction"
	}
}

// entity is one materialized (or materializing) instance of a declared mark,
// axis or interaction. Only the run goroutine touches its fields; factory
// goroutines only close settled.
type entity struct {
	kind    kind
	token   string
	modelID string
	state   State
	started time.Time

	mark        Mark
	placeholder *scene.Node
	view        View
	cancel      context.CancelFunc
	settled     chan struct{}

	scales  [2]scale.Scale
	padding [2]float64
}

func newEntity(k kind, prefix, modelID string) *entity {
	return &entity{
		kind:    k,
		token:   newToken(prefix),
		modelID: modelID,
		state:   StateDeclared,
		settled: make(chan struct{}),
	}
}

func (e *entity) markView() MarkView {
	mv, _ := e.view.(MarkView)
	return mv
}

// reconcileMarks applies a new declared list. Instances of the unchanged
// prefix survive; everything after the first difference is removed and
// recreated with fresh tokens. A new cohort is opened in every case.
func (f *Figure) reconcileMarks(marks []Mark) {
	keep := commonPrefix(f.marks, marks, Mark.ID)
	for _, e := range f.marks[keep:] {
		f.removeEntity(e)
	}

	next := slices.Clone(f.marks[:keep])
	for _, m := range marks[keep:] {
		next = append(next, f.startMark(m))
	}
	f.marks = next
	f.openCohort()
}

func commonPrefix[T any](have []*entity, want []T, id func(T) string) int {
	n := 0
	for n < len(have) && n < len(want) &&
		have[n].modelID == id(want[n]) &&
		have[n].state != StateFailed {
		n++
	}
	return n
}

func (f *Figure) startMark(m Mark) *entity {
	e := newEntity(kindMark, PrefixMark, m.ID())
	e.mark = m
	e.placeholder = f.nodes.marks.Append(scene.New("g").
		SetAttr("class", "placeholder").
		SetAttr("data-token", e.token))

	host := &MarkHost{fig: f, e: e, token: e.token}
	factory := f.markFactory
	f.materialize(e, func(ctx context.Context) (View, error) {
		if factory == nil {
			return nil, errNoFactory
		}
		mv, err := factory(ctx, host, m)
		if mv == nil {
			return nil, err
		}
		return mv, err
	})
	return e
}

// materialize runs fn on its own goroutine and delivers the result to the
// mailbox before marking the instance settled, so a cohort waiting on settled
// is always processed after the result.
func (f *Figure) materialize(e *entity, fn func(ctx context.Context) (View, error)) {
	ctx, cancel := context.WithCancel(f.ctx)
	e.cancel = cancel
	e.state = StateMaterializing
	e.started = time.Now()
	f.inflight++

	go func() {
		defer close(e.settled)
		view, err := fn(ctx)
		if !f.push(materializedMsg{e: e, view: view, err: err}) && view != nil {
			view.Node().Remove()
			view.Remove()
		}
	}()
}

func (f *Figure) onMaterialized(m materializedMsg) {
	e := m.e
	f.inflight--

	if e.state == StateRemoved {
		if m.view != nil {
			m.view.Node().Remove()
			m.view.Remove()
		}
		f.logger.Debug("discarded view of removed instance", "kind", e.kind, "token", e.token)
		return
	}

	err := m.err
	if err == nil && m.view == nil {
		err = errNilView
	}
	observability.Figure().OnMaterialize(f.ctx, f.id, e.kind.String(), e.token, time.Since(e.started), err)

	if err != nil {
		if m.view != nil {
			m.view.Remove()
		}
		if e.placeholder != nil {
			e.placeholder.Remove()
			e.placeholder = nil
		}
		e.cancel()
		e.state = StateFailed
		f.logger.Error("materialization failed", "kind", e.kind, "id", e.modelID, "token", e.token, "err", err)
		return
	}

	e.view = m.view
	e.state = StateActive

	switch e.kind {
	case kindMark:
		f.activateMark(e)
	case kindAxis:
		f.nodes.axes.Append(e.view.Node())
	case kindInteraction:
		f.nodes.interaction.Append(e.view.Node())
	}

	if f.displayed {
		displayed(e.view)
	} else {
		f.pendingDisplayed = append(f.pendingDisplayed, e)
	}
	f.logger.Debug("materialized", "kind", e.kind, "id", e.modelID, "token", e.token)
}

// activateMark swaps the placeholder for the real node in place and seeds the
// padding registries.
func (f *Figure) activateMark(e *entity) {
	node := e.view.Node()
	if err := f.nodes.marks.Replace(node, e.placeholder); err != nil {
		f.nodes.marks.Append(node)
	}
	e.placeholder = nil

	x, y := e.mark.Scales()
	e.scales = f.bind(x, y)
	if mv := e.markView(); mv != nil {
		px, py := mv.Padding()
		e.padding = [2]float64{px, py}
	}
	for _, o := range scale.Orientations {
		if s := e.scales[o]; s != nil {
			f.pads[o].Register(s.ID(), e.token, e.padding[o])
		}
	}
}

// bind resolves nil scales to the figure defaults.
func (f *Figure) bind(x, y scale.Scale) [2]scale.Scale {
	out := [2]scale.Scale{x, y}
	for _, o := range scale.Orientations {
		if out[o] == nil {
			out[o] = f.defaults[o]
		}
	}
	return out
}

func (f *Figure) removeEntity(e *entity) {
	prev := e.state
	e.state = StateRemoved
	if e.cancel != nil {
		e.cancel()
	}
	if e.placeholder != nil {
		e.placeholder.Remove()
		e.placeholder = nil
	}
	if prev != StateActive {
		return
	}
	if e.kind == kindMark {
		n := f.pads[scale.X].Purge(e.token) + f.pads[scale.Y].Purge(e.token)
		f.logger.Debug("purged padding", "token", e.token, "entries", n)
	}
	e.view.Node().Remove()
	e.view.Remove()
}

// openCohort waits, off the figure goroutine, for every current mark to
// settle and then posts a cohort-done message. Only the newest cohort is
// applied.
func (f *Figure) openCohort() {
	f.cohortGen++
	f.cohortOpen = true
	gen := f.cohortGen
	start := time.Now()

	waits := make([]<-chan struct{}, 0, len(f.marks))
	for _, e := range f.marks {
		waits = append(waits, e.settled)
	}

	go func() {
		g, ctx := errgroup.WithContext(f.ctx)
		for _, ch := range waits {
			g.Go(func() error {
				select {
				case <-ch:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}
		if err := g.Wait(); err != nil {
			return
		}
		f.push(cohortDoneMsg{gen: gen, size: len(waits), started: start})
	}()
}

func (f *Figure) onCohortDone(m cohortDoneMsg) {
	if m.gen != f.cohortGen {
		f.logger.Debug("stale cohort", "gen", m.gen, "current", f.cohortGen)
		return
	}
	f.cohortOpen = false

	f.publish()
	f.emitMargin()
	f.refreshLegend()

	if !f.cohortReady {
		f.cohortReady = true
		f.setInteraction(f.interactionDecl)
	}

	f.logger.Debug("cohort settled", "gen", m.gen, "marks", m.size)
	observability.Figure().OnCohortSettled(f.ctx, f.id, m.size, time.Since(m.started))
}

func (f *Figure) onMarkPadding(e *entity, pad [2]float64) {
	if e.state != StateActive {
		f.logger.Debug("dropped padding change", "token", e.token, "state", e.state)
		return
	}
	e.padding = pad
	for _, o := range scale.Orientations {
		if s := e.scales[o]; s != nil {
			f.pads[o].Register(s.ID(), e.token, pad[o])
		}
	}
	f.publish()
	f.emitMargin()
}

func (f *Figure) onMarkScales(e *entity, scales [2]scale.Scale) {
	if e.state != StateActive {
		f.logger.Debug("dropped scale change", "token", e.token, "state", e.state)
		return
	}
	next := f.bind(scales[scale.X], scales[scale.Y])
	for _, o := range scale.Orientations {
		prev, cur := e.scales[o], next[o]
		switch {
		case prev != nil && cur != nil:
			f.pads[o].Rebind(e.token, prev.ID(), cur.ID(), e.padding[o])
		case prev != nil:
			f.pads[o].Unregister(prev.ID(), e.token)
		case cur != nil:
			f.pads[o].Register(cur.ID(), e.token, e.padding[o])
		}
	}
	e.scales = next
	f.publish()
	f.emitMargin()
}
