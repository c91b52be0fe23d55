package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/figfile"
	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/observability"
	"github.com/matzehuels/figlayout/pkg/scale"
)

// Layout is the serializable state of a settled figure.
type Layout struct {
	Geometry figure.Geometry    `json:"geometry"`
	Ranges   map[string]Ranges  `json:"ranges"`
	Legend   legend.Result      `json:"legend"`
	Marks    []figure.MarkInfo  `json:"marks"`
	Stats    figure.Stats       `json:"stats"`
	Padding  map[string]float64 `json:"padding"`
}

// Ranges are the pixel ranges of one scale.
type Ranges struct {
	Orientation string      `json:"orientation"`
	Unpadded    scale.Range `json:"unpadded"`
	Padded      scale.Range `json:"padded"`
	Extent      float64     `json:"extent"`
}

// Open builds the document into a figure, displays it at the resolved size
// and waits for it to settle. The caller closes the figure.
func Open(ctx context.Context, doc *figfile.Document, opts Options) (*figure.Figure, *figfile.Built, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(doc.Marks))
	start := time.Now()

	fig, built, err := openSettled(ctx, doc, opts)
	hooks.OnLayoutComplete(ctx, time.Since(start), err)
	return fig, built, err
}

func openSettled(ctx context.Context, doc *figfile.Document, opts Options) (*figure.Figure, *figfile.Built, error) {
	fig, built, err := doc.Open(figure.WithLogger(opts.Logger))
	if err != nil {
		return nil, nil, err
	}
	fig.Display(opts.size(doc))

	ctx, cancel := context.WithTimeout(ctx, opts.SettleTimeout)
	defer cancel()
	if err := fig.Settle(ctx); err != nil {
		fig.Close()
		return nil, nil, errors.Wrap(errors.ErrCodeTimeout, err, "figure did not settle")
	}
	return fig, built, nil
}

// Capture reads the layout of a figure. Scales are the document's scales.
func Capture(fig *figure.Figure, built *figfile.Built) Layout {
	l := Layout{
		Geometry: fig.Geometry(),
		Ranges:   make(map[string]Ranges, len(built.Scales)),
		Legend:   fig.Legend(),
		Marks:    fig.Marks(),
		Stats:    fig.Stats(),
		Padding:  make(map[string]float64),
	}
	x, y := built.Model.Scales()
	for id, s := range built.Scales {
		o := scale.X
		if s == y {
			o = scale.Y
		} else if s != x {
			o = orientationOf(built, id)
		}
		l.Ranges[id] = Ranges{
			Orientation: o.String(),
			Unpadded:    fig.UnpaddedRange(o),
			Padded:      fig.PaddedRange(o, s),
			Extent:      fig.MarkPlotareaExtent(o, s),
		}
		if p := fig.EffectivePadding(o, id); p > 0 {
			l.Padding[id] = p
		}
	}
	return l
}

// orientationOf finds the orientation a non-default scale is used in.
func orientationOf(built *figfile.Built, id string) scale.Orientation {
	for _, m := range built.Marks {
		x, y := m.Scales()
		if y != nil && y.ID() == id {
			return scale.Y
		}
		if x != nil && x.ID() == id {
			return scale.X
		}
	}
	return scale.X
}

// MarshalLayout encodes a layout as indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout decodes a layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	err := json.Unmarshal(data, &l)
	return l, err
}
