package marks

import (
	"context"

	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/figure"
)

// MarkFactory materializes the marks of this package.
func MarkFactory(ctx context.Context, host *figure.MarkHost, m figure.Mark) (figure.MarkView, error) {
	switch m := m.(type) {
	case *Scatter:
		return newScatterView(ctx, host, m)
	default:
		return nil, errors.New(errors.ErrCodeInvalidMark, "unsupported mark type %T", m)
	}
}

// AxisFactory materializes [Axis] declarations.
func AxisFactory(ctx context.Context, f *figure.Figure, a figure.Axis) (figure.View, error) {
	switch a := a.(type) {
	case *Axis:
		return newAxisView(ctx, f, a)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported axis type %T", a)
	}
}

// InteractionFactory materializes [Crosshair] declarations.
func InteractionFactory(ctx context.Context, f *figure.Figure, i figure.Interaction) (figure.View, error) {
	switch i := i.(type) {
	case *Crosshair:
		return newCrosshairView(ctx, f, i)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported interaction type %T", i)
	}
}

// Options returns the figure options wiring all three factories.
func Options() []figure.Option {
	return []figure.Option{
		figure.WithMarkFactory(MarkFactory),
		figure.WithAxisFactory(AxisFactory),
		figure.WithInteractionFactory(InteractionFactory),
	}
}
