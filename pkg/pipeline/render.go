package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/scene"
)

// Render serializes a settled figure in the requested formats. layout is
// used for the JSON artifact.
func Render(ctx context.Context, fig *figure.Figure, layout Layout, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data, err = renderScene(ctx, fig, func(root *scene.Node) ([]byte, error) {
				var buf bytes.Buffer
				err := scene.RenderSVG(&buf, root)
				return buf.Bytes(), err
			})
		case FormatDOT:
			data, err = renderScene(ctx, fig, func(root *scene.Node) ([]byte, error) {
				return []byte(scene.ToDOT(root)), nil
			})
		case FormatJSON:
			data, err = MarshalLayout(layout)
		default:
			err = errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderScene runs fn on the figure goroutine.
func renderScene(ctx context.Context, fig *figure.Figure, fn func(*scene.Node) ([]byte, error)) ([]byte, error) {
	var (
		data  []byte
		fnErr error
	)
	if err := fig.Scene(ctx, func(root *scene.Node) {
		data, fnErr = fn(root)
	}); err != nil {
		return nil, err
	}
	return data, fnErr
}
