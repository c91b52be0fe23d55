// Package marks provides concrete marks, axes and interactions for figures.
//
// The figure engine treats views as opaque collaborators. This package
// supplies a small set that exercises every contract the engine exposes:
//
//   - [Scatter] draws points into the padded range of its scales and requests
//     its point radius as padding. Changing its radius, scales or label at
//     runtime is reported back to the figure through its [figure.MarkHost].
//   - [Axis] draws a baseline and ticks along the unpadded range.
//   - [Crosshair] is an interaction overlay covering the plot area.
//
// Use [MarkFactory], [AxisFactory] and [InteractionFactory] with
// [figure.WithMarkFactory] and friends.
//
// Views redraw whenever the figure emits [figure.MarginUpdated]; those
// notifications arrive on the figure goroutine, which also owns the scene.
package marks
