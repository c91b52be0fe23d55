package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/figlayout/pkg/figfile"
	"github.com/matzehuels/figlayout/pkg/observability"
)

// Parse decodes, defaults and validates the options' document.
func Parse(ctx context.Context, opts Options) (*figfile.Document, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, string(opts.Format), len(opts.Document))
	start := time.Now()

	doc, err := figfile.Parse(opts.Document, opts.Format)
	marks := 0
	if doc != nil {
		marks = len(doc.Marks)
	}
	hooks.OnParseComplete(ctx, string(opts.Format), marks, time.Since(start), err)
	return doc, err
}
