// Package cli implements the figlayout command-line interface.
//
// Commands load a figure document (TOML or JSON), open a live figure, wait
// for it to settle and then print, render or interactively drive it. The CLI
// is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - layout: print the settled geometry, scale ranges and legend
//   - render: write SVG, JSON or DOT artifacts (cached)
//   - scene: dump the retained scene graph as DOT or Graphviz SVG
//   - watch: resize and restyle a figure interactively in the terminal
//   - serve: run the HTTP and websocket server
//   - cache: manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which includes
// the figure's relayout and materialization events. The logger is attached
// to the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat prints wall time with centiseconds, e.g. "14:32:01.45".
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress logs a completion message with the time elapsed since it was
// created, e.g. "Rendered iris.toml (12ms)". Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

// withLogger attaches l to ctx. Commands that outlive their *CLI, such as
// the watch program, read it back with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the attached logger or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
