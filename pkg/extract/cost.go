package extract

import "github.com/matzehuels/extractgym/pkg/egraph"

// DagCost returns the sum of own costs over the distinct classes reachable
// from roots, counting every class once no matter how many parents share it.
//
// sel must have passed [Check]; otherwise the result is egraph.Infinity.
func DagCost(g *egraph.Graph, sel *Selection, roots []egraph.ClassID) egraph.Cost {
	var total egraph.Cost
	w := Walker{
		Enter: func(_ egraph.ClassID, n *egraph.Node) error {
			total += n.Cost
			return nil
		},
	}
	if err := w.Walk(g, sel, roots); err != nil {
		return egraph.Infinity
	}
	return total
}

// TreeCost returns the cost of the program with all sharing unrolled: a class
// reached along k distinct paths contributes its subtree k times, and a root
// listed twice is counted twice.
//
// Subtree totals are computed once per class in post-order, so the unrolled
// sum is obtained in time linear in the selected DAG.
//
// sel must have passed [Check]; otherwise the result is egraph.Infinity.
func TreeCost(g *egraph.Graph, sel *Selection, roots []egraph.ClassID) egraph.Cost {
	subtree := make(map[egraph.ClassID]egraph.Cost, sel.Len())
	w := Walker{
		Leave: func(class egraph.ClassID, n *egraph.Node) error {
			c := n.Cost
			for _, child := range n.Children {
				c += subtree[g.ClassOf(child)]
			}
			subtree[class] = c
			return nil
		},
	}
	if err := w.Walk(g, sel, roots); err != nil {
		return egraph.Infinity
	}

	var total egraph.Cost
	for _, r := range roots {
		total += subtree[r]
	}
	return total
}
