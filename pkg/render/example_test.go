package render_test

import (
	"fmt"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/extract"
	"github.com/matzehuels/extractgym/pkg/render"
)

func ExampleAssign() {
	g := egraph.New()
	_ = g.AddNode(egraph.Node{ID: "x", Label: `Var("x")`, Class: "c0", Cost: 1})
	_ = g.AddNode(egraph.Node{ID: "n1", Label: "Add", Class: "c1", Cost: 1, Children: []egraph.NodeID{"x", "x"}})
	_ = g.AddNode(egraph.Node{ID: "n2", Label: "Mul(_, Num(3))", Class: "c2", Cost: 1, Children: []egraph.NodeID{"n1"}})
	_ = g.AddNode(egraph.Node{ID: "r", Label: `RootNode("y")`, Class: "c3", Children: []egraph.NodeID{"n2"}})
	g.SetRoots([]egraph.ClassID{"c3"})
	_ = g.Validate()

	sel := extract.NewSelection()
	for _, c := range g.Classes() {
		sel.Choose(c.ID, c.Nodes[0])
	}

	for _, line := range render.Assign(g, sel, g.Roots()) {
		fmt.Println(line)
	}
	// Output:
	// n1 = x + x
	// n2 = n1 * 3
	// y = n2
}

func ExampleTree() {
	g := egraph.New()
	_ = g.AddNode(egraph.Node{ID: "a", Label: "a", Class: "ca", Cost: 1})
	_ = g.AddNode(egraph.Node{ID: "sq", Label: "Mul", Class: "cs", Cost: 1, Children: []egraph.NodeID{"a", "a"}})
	g.SetRoots([]egraph.ClassID{"cs"})
	_ = g.Validate()

	sel := extract.NewSelection()
	sel.Choose("ca", "a")
	sel.Choose("cs", "sq")

	fmt.Println(render.Tree(g, sel, g.Roots())[0])
	// Output:
	// (Mul a a)
}
