package render

import (
	"strings"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/extract"
)

type treeFrame struct {
	class egraph.ClassID
	node  *egraph.Node
	next  int
	parts []string
}

// Tree renders one S-expression per root. A leaf prints as its raw label and
// an internal node as (label child1 child2 ...). Nothing is memoized, so a
// class reachable along several paths is printed in full at each of them and
// the output grows with the tree cost rather than the DAG cost.
func Tree(g *egraph.Graph, sel *extract.Selection, roots []egraph.ClassID) []string {
	lines := make([]string, 0, len(roots))
	for _, root := range roots {
		lines = append(lines, treeLine(g, sel, root))
	}
	return lines
}

func treeLine(g *egraph.Graph, sel *extract.Selection, root egraph.ClassID) string {
	onPath := make(map[egraph.ClassID]bool)
	var (
		stack []treeFrame
		out   string
	)

	// emit hands a finished term to the enclosing frame, or to out at the top.
	emit := func(s string) {
		if len(stack) == 0 {
			out = s
			return
		}
		top := &stack[len(stack)-1]
		top.parts = append(top.parts, s)
	}

	visit := func(class egraph.ClassID) {
		if onPath[class] {
			emit(cycleName(class))
			return
		}
		id, ok := sel.Choice(class)
		if !ok {
			emit(unknownName(class))
			return
		}
		n, ok := g.Node(id)
		if !ok {
			emit(unknownName(class))
			return
		}
		if n.IsLeaf() {
			emit(n.Label)
			return
		}
		onPath[class] = true
		stack = append(stack, treeFrame{class: class, node: n, parts: []string{n.Label}})
	}

	visit(root)
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.Children) {
			child := g.ClassOf(top.node.Children[top.next])
			top.next++
			visit(child)
			continue
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		delete(onPath, f.class)
		emit("(" + strings.Join(f.parts, " ") + ")")
	}
	return out
}
