package scene

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// geometry attributes consumed as positional svgo arguments per tag.
var positional = map[string][]string{
	"svg":    {"width", "height"},
	"rect":   {"x", "y", "width", "height"},
	"circle": {"cx", "cy", "r"},
	"text":   {"x", "y"},
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

// RenderSVG writes the tree rooted at root as an SVG document.
// The root is expected to be an "svg" node; other roots are wrapped in one
// sized from their width and height attributes.
func RenderSVG(w io.Writer, root *Node) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	if root.Tag != "svg" {
		canvas.Start(px(root.AttrFloat("width")), px(root.AttrFloat("height")))
		renderNode(canvas, root)
		canvas.End()
		return ew.err
	}

	canvas.Start(px(root.AttrFloat("width")), px(root.AttrFloat("height")), extras(root)...)
	for _, c := range root.children {
		renderNode(canvas, c)
	}
	canvas.End()
	return ew.err
}

func renderNode(canvas *svg.SVG, n *Node) {
	a := extras(n)
	switch n.Tag {
	case "g":
		canvas.Group(a...)
		renderChildren(canvas, n)
		canvas.Gend()
	case "defs":
		canvas.Def()
		renderChildren(canvas, n)
		canvas.DefEnd()
	case "clipPath":
		canvas.ClipPath(a...)
		renderChildren(canvas, n)
		canvas.ClipEnd()
	case "rect":
		canvas.Rect(px(n.AttrFloat("x")), px(n.AttrFloat("y")),
			px(n.AttrFloat("width")), px(n.AttrFloat("height")), a...)
	case "circle":
		canvas.Circle(px(n.AttrFloat("cx")), px(n.AttrFloat("cy")), px(n.AttrFloat("r")), a...)
	case "text":
		canvas.Text(px(n.AttrFloat("x")), px(n.AttrFloat("y")), n.Text, a...)
	default:
		fmt.Fprintf(canvas.Writer, "<%s", n.Tag)
		for _, s := range a {
			fmt.Fprintf(canvas.Writer, " %s", s)
		}
		if len(n.children) == 0 && n.Text == "" {
			fmt.Fprint(canvas.Writer, "/>\n")
			return
		}
		fmt.Fprint(canvas.Writer, ">")
		fmt.Fprint(canvas.Writer, attrEscaper.Replace(n.Text))
		renderChildren(canvas, n)
		fmt.Fprintf(canvas.Writer, "</%s>\n", n.Tag)
	}
}

func renderChildren(canvas *svg.SVG, n *Node) {
	for _, c := range n.children {
		renderNode(canvas, c)
	}
}

// extras returns the attributes not passed positionally, formatted as
// key="value" strings for svgo, with inline style last.
func extras(n *Node) []string {
	skip := positional[n.Tag]
	out := make([]string, 0, len(n.attrs)+1)
	for _, at := range n.attrs {
		if slices.Contains(skip, at.key) {
			continue
		}
		out = append(out, at.key+`="`+attrEscaper.Replace(at.value)+`"`)
	}
	if s := n.StyleString(); s != "" {
		out = append(out, `style="`+attrEscaper.Replace(s)+`"`)
	}
	return out
}

func px(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, nil
}
