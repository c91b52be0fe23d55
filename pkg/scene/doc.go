// Package scene provides the retained scene graph figures render into.
//
// A [Node] is an element with a tag, ordered attributes, inline style, optional
// text and ordered children. The figure builds its static skeleton (root, clip
// path, background, groups for axes, marks, legend and interaction, title) out
// of nodes and splices mark views in and out as they materialize.
//
// # Sinks
//
// [RenderSVG] writes a tree as an SVG document using [github.com/ajstarks/svgo].
// [ToDOT] describes the tree structure in Graphviz DOT format, and [RenderDOT]
// renders that description in-process with [github.com/goccy/go-graphviz].
// The DOT view is a debugging aid: it shows which groups hold which views.
//
// # Concurrency
//
// Nodes are not safe for concurrent use. A figure mutates its tree only from
// its own goroutine; use figure.Figure.Scene to run code against it.
package scene
