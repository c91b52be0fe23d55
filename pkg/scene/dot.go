package scene

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT describes the tree rooted at root as a Graphviz digraph. Each node is
// labelled with its tag plus its id and class attributes when present.
func ToDOT(root *Node) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	ids := make(map[*Node]int)
	var order []*Node
	root.Walk(func(n *Node, _ int) bool {
		ids[n] = len(order)
		order = append(order, n)
		return true
	})

	for _, n := range order {
		attrs := []string{fmt.Sprintf("label=%q", dotLabel(n))}
		if n.HasClass("placeholder") {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", ids[n], strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range order {
		for _, c := range n.children {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", ids[n], ids[c])
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n *Node) string {
	parts := []string{n.Tag}
	if id, ok := n.Attr("id"); ok {
		parts = append(parts, "#"+id)
	}
	if class, ok := n.Attr("class"); ok {
		parts = append(parts, "."+strings.ReplaceAll(class, " ", "."))
	}
	if n.Text != "" {
		parts = append(parts, fmt.Sprintf("%q", n.Text))
	}
	return strings.Join(parts, "\n")
}

// RenderDOT renders a DOT description to SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
