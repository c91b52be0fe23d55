package marks

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/figlayout/pkg/legend"
)

// LabelWidth returns the rendered width of a legend label in em.
func LabelWidth(label string) float64 {
	if label == "" {
		return 0
	}
	return float64(font.MeasureString(basicfont.Face7x13, label).Ceil()) / legend.EM
}
