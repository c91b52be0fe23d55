// Package legend stacks per-mark legend rows into one block and anchors the
// block inside the plot area.
//
// Marks draw their own rows through [Drawer]; this package only decides where
// each mark starts, how large the block is and where the block goes. Row
// geometry is fixed: rows are [RowHeight] pixels tall with a [Gap] between
// them, and label widths reported by marks are measured in em units of [EM]
// pixels.
package legend

import (
	"strings"

	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/scene"
)

const (
	// RowHeight is the height of one legend row in pixels.
	RowHeight = 14.0
	// Gap separates consecutive rows.
	Gap = 2.0
	// RowStep is the vertical distance between row origins.
	RowStep = RowHeight + Gap
	// BlockWidth is the nominal block width used to centre top and bottom anchors.
	BlockWidth = 24.0
	// EM converts label widths in em to pixels.
	EM = 16.0
	// Displacement offsets right-family anchors from the right edge.
	Displacement = 0.0
)

// Location names an anchor position inside the plot area.
type Location string

const (
	TopLeft     Location = "top-left"
	Top         Location = "top"
	TopRight    Location = "top-right"
	Right       Location = "right"
	BottomRight Location = "bottom-right"
	Bottom      Location = "bottom"
	BottomLeft  Location = "bottom-left"
	Left        Location = "left"
)

// DefaultLocation is used by new figures.
const DefaultLocation = TopRight

// Locations lists every recognised location.
var Locations = []Location{TopLeft, Top, TopRight, Right, BottomRight, Bottom, BottomLeft, Left}

// ParseLocation validates a location name.
func ParseLocation(s string) (Location, error) {
	loc := Location(strings.ToLower(strings.TrimSpace(s)))
	for _, l := range Locations {
		if l == loc {
			return l, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidLocation, "unknown legend location %q", s)
}

// RightFamily reports whether the block is aligned against the right edge.
func (l Location) RightFamily() bool {
	return l == TopRight || l == Right || l == BottomRight
}

// Anchor returns the block origin for a location, relative to the plot area.
// Unknown locations resolve to the top-left corner.
func Anchor(loc Location, plotW, plotH, width, height, disp float64) (x, y float64) {
	switch loc {
	case Top:
		return plotW*0.5 - width, 0
	case TopRight:
		return plotW - disp, 0
	case Right:
		return plotW - disp, plotH*0.5 - height
	case BottomRight:
		return plotW - disp, plotH - height
	case Bottom:
		return plotW*0.5 - width, plotH - height
	case BottomLeft:
		return 0, plotH - height
	case Left:
		return 0, plotH*0.5 - height
	default:
		return 0, 0
	}
}

// Drawer draws a mark's legend rows into g, the first row at (x, y) and each
// following row rowStep lower. It reports how many rows it drew and its widest
// label in em.
type Drawer interface {
	DrawLegend(g *scene.Node, x, y, rowStep float64) (rows int, labelWidth float64)
}

// Item is one mark's contribution candidate, in declared order.
type Item struct {
	ID      string
	Display bool
	Drawer  Drawer
}

// Options positions the block.
type Options struct {
	Location   Location
	PlotWidth  float64
	PlotHeight float64
}

// Entry records where a mark's rows landed.
type Entry struct {
	ID         string  `json:"id"`
	Index      int     `json:"index"`
	Rows       int     `json:"rows"`
	LabelWidth float64 `json:"label_width"`
}

// Result describes a laid out legend block.
type Result struct {
	Location      Location `json:"location"`
	Entries       []Entry  `json:"entries"`
	Rows          int      `json:"rows"`
	MaxLabelWidth float64  `json:"max_label_width"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	Displacement  float64  `json:"displacement"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	TranslateX    float64  `json:"translate_x"`
	TranslateY    float64  `json:"translate_y"`
	Bordered      bool     `json:"bordered"`
}

// Layout clears g and redraws the legend block from items.
//
// Items with Display unset are skipped. Row numbering starts at 1 so the
// first row sits one step below the block origin. The border is drawn only
// when at least one row exists. Right-family blocks are shifted left by the
// widest label plus two em so the text stays inside the plot area; every
// other block is shifted right by one em.
func Layout(g *scene.Node, items []Item, opts Options) Result {
	g.Clear()
	g.SetAttr("class", "g_legend")

	res := Result{Location: opts.Location, Displacement: Displacement}
	count := 1
	maxLabel := 1.0

	for _, it := range items {
		if !it.Display || it.Drawer == nil {
			continue
		}
		rows, label := it.Drawer.DrawLegend(g, 0, float64(count)*RowStep, RowStep)
		rows = max(rows, 0)
		res.Entries = append(res.Entries, Entry{ID: it.ID, Index: count, Rows: rows, LabelWidth: label})
		count += rows
		if label > 0 {
			maxLabel = max(maxLabel, label)
		}
	}

	res.Rows = count - 1
	res.MaxLabelWidth = maxLabel
	res.Width = (maxLabel + 2) * EM
	res.Height = float64(count+1) * RowStep
	res.X, res.Y = Anchor(opts.Location, opts.PlotWidth, opts.PlotHeight, BlockWidth, res.Height, Displacement)

	if count != 1 {
		res.Bordered = true
		border := g.Append(scene.New("g").SetAttr("class", "axis"))
		border.Append(scene.New("rect").
			SetAttrf("x", -0.5*RowStep).
			SetAttrf("y", RowStep/2).
			SetAttrf("width", res.Width).
			SetAttrf("height", float64(count)*RowStep).
			SetStyle("fill", "none"))
	}

	shift := 1.0
	if opts.Location.RightFamily() {
		shift = -(maxLabel + 2)
	}
	res.TranslateX = res.X + shift*EM
	res.TranslateY = res.Y
	g.SetAttr("transform", scene.Translate(res.TranslateX, res.TranslateY))
	return res
}
