package extract

import "github.com/matzehuels/extractgym/pkg/egraph"

// Check verifies that sel describes a well-formed program for the roots of g:
//
//  1. every class reachable from a root has a choice ([*MissingChoiceError])
//  2. every chosen node belongs to the class it was chosen for
//     ([*InconsistentChoiceError])
//  3. the classes reachable from the roots form no cycle ([*CycleError])
//
// Classes that are not reachable from any root are not inspected. Check is a
// pure predicate and never modifies its inputs.
func Check(g *egraph.Graph, sel *Selection) error {
	return CheckRoots(g, sel, g.Roots())
}

// CheckRoots is like Check but starts from the given roots.
func CheckRoots(g *egraph.Graph, sel *Selection, roots []egraph.ClassID) error {
	w := Walker{
		Enter: func(class egraph.ClassID, n *egraph.Node) error {
			if n.Class != class {
				return &InconsistentChoiceError{Class: class, Node: n.ID, Actual: n.Class}
			}
			return nil
		},
	}
	return w.Walk(g, sel, roots)
}
