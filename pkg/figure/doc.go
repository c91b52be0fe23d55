// Package figure is the layout and padding-coordination engine of a figure.
//
// A [Figure] turns a declarative [Model] (margins, aspect-ratio bounds,
// padding fractions, title, legend location, marks, axes and an interaction)
// into a consistent pixel geometry and keeps it consistent while the model
// and the hosting container change:
//
//   - The figure size obeys the model's aspect-ratio bounds (see package aspect).
//   - The plot area is the figure size minus the margin; both figure scales get
//     their ranges from it (see package scale).
//   - Marks sharing a scale request padding; the figure aggregates the requests
//     per scale (see package padding) and exposes padded ranges to marks.
//   - Marks with a legend contribution are stacked into one anchored block
//     (see package legend).
//
// # Materialization
//
// Marks, axes and the interaction are declared on the model and turned into
// views by factories ([MarkFactory], [AxisFactory], [InteractionFactory]).
// Factories run on their own goroutines and may take arbitrarily long. While a
// mark materializes, a placeholder node holds its position in the marks group,
// so the final scene order always matches the declared order no matter in
// which order factories finish.
//
// Every change of the mark list opens a cohort. Padding aggregation and the
// legend are recomputed only once every mark of the current cohort has
// settled, so a bulk replacement never shows a partial intermediate state.
//
// # Concurrency
//
// Each figure runs one goroutine that owns all of its mutable state. Model
// changes, container sizes and view notifications are delivered to it as
// messages through an unbounded mailbox, so senders never block. Relayout
// requests only set a flag; the pass runs once the mailbox is drained, which
// coalesces bursts of resizes into a single recompute.
//
// Derived state (geometry, effective paddings, the legend) is published as an
// immutable snapshot after every message. [Figure.PaddedRange],
// [Figure.Geometry] and the other readers never block and may be called from
// any goroutine, including notification handlers. Notification handlers run on
// the figure goroutine and must not call [Figure.Settle] or [Figure.Scene].
//
// # Example
//
//	x := scale.NewLinear("x", 0, 10)
//	y := scale.NewLinear("y", 0, 1)
//	model := figure.NewModel(x, y)
//	fig := figure.New(model, marks.Options()...)
//	defer fig.Close()
//
//	fig.Display(800, 600)
//	model.SetMarks(marks.NewScatter("s1", points))
//	if err := fig.Settle(ctx); err != nil {
//	    return err
//	}
//	lo := fig.PaddedRange(scale.X, x)
package figure
