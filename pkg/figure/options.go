package figure

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option configures a [Figure].
type Option func(*Figure)

// WithLogger sets the logger. Figures log at debug level; the default logger
// discards everything.
func WithLogger(l *log.Logger) Option {
	return func(f *Figure) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithMarkFactory sets the factory that materializes marks.
func WithMarkFactory(fn MarkFactory) Option {
	return func(f *Figure) { f.markFactory = fn }
}

// WithAxisFactory sets the factory that materializes axes.
func WithAxisFactory(fn AxisFactory) Option {
	return func(f *Figure) { f.axisFactory = fn }
}

// WithInteractionFactory sets the factory that materializes interactions.
func WithInteractionFactory(fn InteractionFactory) Option {
	return func(f *Figure) { f.interactionFactory = fn }
}

// WithID overrides the generated figure id.
func WithID(id string) Option {
	return func(f *Figure) {
		if id != "" {
			f.id = id
		}
	}
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
