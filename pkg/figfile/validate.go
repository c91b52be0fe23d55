package figfile

import (
	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/scale"
)

// Validate checks a document after [Document.SetDefaults]. The first problem
// found is returned as an *errors.Error carrying its code.
func (d *Document) Validate() error {
	sizes := []field{
		{"width", d.Width}, {"height", d.Height},
		{"min_width", d.MinWidth}, {"min_height", d.MinHeight},
	}
	if m := d.Margin; m != nil {
		sizes = append(sizes,
			field{"margin.top", m.Top}, field{"margin.right", m.Right},
			field{"margin.bottom", m.Bottom}, field{"margin.left", m.Left})
	}
	for _, f := range sizes {
		if err := errors.ValidateNonNegative(f.name, f.value); err != nil {
			return err
		}
	}
	if err := errors.ValidateAspectRatio(d.Aspect.Min, d.Aspect.Max); err != nil {
		return err
	}
	if d.PaddingX != nil {
		if err := errors.ValidateFraction("padding_x", *d.PaddingX); err != nil {
			return err
		}
	}
	if d.PaddingY != nil {
		if err := errors.ValidateFraction("padding_y", *d.PaddingY); err != nil {
			return err
		}
	}
	if d.LegendLocation != "" {
		if _, err := legend.ParseLocation(d.LegendLocation); err != nil {
			return err
		}
	}

	scales := make(map[string]bool, len(d.Scales))
	for _, s := range d.Scales {
		if err := errors.ValidateID("scale", s.ID); err != nil {
			return err
		}
		if scales[s.ID] {
			return errors.New(errors.ErrCodeInvalidScale, "duplicate scale %q", s.ID)
		}
		scales[s.ID] = true
	}
	for _, id := range []string{d.XScale, d.YScale} {
		if !scales[id] {
			return errors.New(errors.ErrCodeInvalidScale, "default scale %q is not declared", id)
		}
	}
	if d.XScale == d.YScale {
		return errors.New(errors.ErrCodeInvalidScale, "x and y default scales must differ (both %q)", d.XScale)
	}

	ids := make(map[string]bool, len(d.Marks))
	for _, m := range d.Marks {
		if err := errors.ValidateID("mark", m.ID); err != nil {
			return err
		}
		if ids[m.ID] {
			return errors.New(errors.ErrCodeInvalidMark, "duplicate mark %q", m.ID)
		}
		ids[m.ID] = true
		if m.Type != "scatter" {
			return errors.New(errors.ErrCodeInvalidMark, "mark %q: unsupported type %q", m.ID, m.Type)
		}
		if err := errors.ValidateNonNegative("mark "+m.ID+" radius", m.Radius); err != nil {
			return err
		}
		for _, ref := range []string{m.X, m.Y} {
			if ref != "" && !scales[ref] {
				return errors.New(errors.ErrCodeInvalidScale, "mark %q: unknown scale %q", m.ID, ref)
			}
		}
	}

	axes := make(map[string]bool, len(d.Axes))
	for _, a := range d.Axes {
		if err := errors.ValidateID("axis", a.ID); err != nil {
			return err
		}
		if axes[a.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate axis %q", a.ID)
		}
		axes[a.ID] = true
		if _, ok := scale.ParseOrientation(a.Orientation); !ok {
			return errors.New(errors.ErrCodeInvalidInput, "axis %q: unknown orientation %q", a.ID, a.Orientation)
		}
		if a.Scale != "" && !scales[a.Scale] {
			return errors.New(errors.ErrCodeInvalidScale, "axis %q: unknown scale %q", a.ID, a.Scale)
		}
	}

	if i := d.Interaction; i != nil {
		if err := errors.ValidateID("interaction", i.ID); err != nil {
			return err
		}
		if i.Type != "crosshair" {
			return errors.New(errors.ErrCodeUnsupported, "interaction %q: unsupported type %q", i.ID, i.Type)
		}
	}
	return nil
}

type field struct {
	name  string
	value float64
}
