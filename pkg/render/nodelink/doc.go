// Package nodelink draws a selected e-graph program as a node-link diagram.
//
// # Usage
//
// Convert a selection to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(g, sel, g.Roots(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Each selected class is a single box, so shared sub-terms are visibly
// shared: the drawing is the DAG whose cost is reported as DAG cost.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, labels add the class, node ID and own cost.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
