package render

import (
	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/extract"
)

// Assign renders sel in single-assignment form. Classes are emitted in post
// order from the roots, children left to right, so every name on a right-hand
// side is either a substituted variable or was assigned on an earlier line.
// Each class is emitted at most once and later references reuse its name.
//
// Variable leaves produce no line. A RootNode with a quoted output name
// assigns to that name, and later references use it.
func Assign(g *egraph.Graph, sel *extract.Selection, roots []egraph.ClassID) []string {
	var lines []string
	names := make(map[egraph.ClassID]string, sel.Len())
	placeholders := make(map[egraph.ClassID]string)

	nameOf := func(class egraph.ClassID) string {
		if name, ok := names[class]; ok {
			return name
		}
		if name, ok := placeholders[class]; ok {
			return name
		}
		return unknownName(class)
	}

	w := extract.Walker{
		Leave: func(class egraph.ClassID, n *egraph.Node) error {
			args := make([]string, len(n.Children))
			for i, child := range n.Children {
				args[i] = nameOf(g.ClassOf(child))
			}
			synthetic := n.Op.Symbol(string(n.ID))
			if stmt, ok := n.Op.Statement(synthetic, args); ok {
				lines = append(lines, stmt)
			}
			names[class] = n.Op.Target(synthetic)
			return nil
		},
		Missing: func(class egraph.ClassID, _ egraph.NodeID) error {
			placeholders[class] = unknownName(class)
			return nil
		},
		Cycle: func(path []egraph.ClassID) error {
			class := path[len(path)-1]
			placeholders[class] = cycleName(class)
			return nil
		},
	}
	// Hooks never fail, so neither does the walk.
	_ = w.Walk(g, sel, roots)
	return lines
}
