package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/extract"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the class, node ID and cost in node labels.
	// When false, only the operator label is shown.
	Detailed bool
}

// ToDOT converts the program selected by sel to Graphviz DOT format. Each
// class reachable from roots becomes one box, drawn once however many
// parents share it, with an edge to each operand in order.
//
// Root classes are drawn with a bold outline. Missing choices and cycles do
// not abort the drawing: missing classes appear as dashed placeholders and
// back edges are drawn in red.
func ToDOT(g *egraph.Graph, sel *extract.Selection, roots []egraph.ClassID, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	isRoot := make(map[egraph.ClassID]bool, len(roots))
	for _, r := range roots {
		isRoot[r] = true
	}

	var (
		edges   []string
		missing = make(map[egraph.ClassID]bool)
		back    = make(map[[2]egraph.ClassID]bool)
	)
	w := extract.Walker{
		Enter: func(class egraph.ClassID, n *egraph.Node) error {
			attrs := []string{fmt.Sprintf("label=%q", fmtLabel(class, n, opts.Detailed))}
			if isRoot[class] {
				attrs = append(attrs, "penwidth=3")
			}
			if n.Op.IsVar() {
				attrs = append(attrs, "fillcolor=lightyellow")
			}
			fmt.Fprintf(&buf, "  %q [%s];\n", class, strings.Join(attrs, ", "))
			return nil
		},
		Leave: func(class egraph.ClassID, n *egraph.Node) error {
			for _, child := range n.Children {
				to := g.ClassOf(child)
				attr := ""
				if back[[2]egraph.ClassID{class, to}] {
					attr = " [color=red]"
				}
				edges = append(edges, fmt.Sprintf("  %q -> %q%s;\n", class, to, attr))
			}
			return nil
		},
		Missing: func(class egraph.ClassID, _ egraph.NodeID) error {
			if !missing[class] {
				missing[class] = true
				fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,dashed\"];\n", class, "unknown_"+string(class))
			}
			return nil
		},
		Cycle: func(path []egraph.ClassID) error {
			back[[2]egraph.ClassID{path[len(path)-2], path[len(path)-1]}] = true
			return nil
		},
	}
	_ = w.Walk(g, sel, roots)

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(class egraph.ClassID, n *egraph.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\nclass: %s\nnode: %s\ncost: %s", n.Label, class, n.ID, egraph.FormatCost(n.Cost))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the drawing scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
