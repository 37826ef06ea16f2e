// Package extract validates and costs the selections produced by e-graph
// extractors.
//
// # Selections
//
// A [Selection] maps equivalence classes to the node chosen to represent
// them. Following a chosen node's children (mapped to their classes) yields
// a program, usually with shared sub-terms.
//
// # Validation
//
// [Check] proves a selection is total over the classes reachable from the
// roots, that each choice belongs to its class, and that the induced graph is
// acyclic. Anything that costs or renders a selection assumes Check passed:
//
//	if err := extract.Check(g, sel); err != nil {
//	    return err // *CycleError, *MissingChoiceError or *InconsistentChoiceError
//	}
//	tree := extract.TreeCost(g, sel, g.Roots())
//	dag := extract.DagCost(g, sel, g.Roots())
//
// # Costs
//
// [DagCost] counts each reachable class once; [TreeCost] counts every
// occurrence as if the program were a tree. DagCost never exceeds TreeCost,
// and they are equal exactly when no class is reachable along two different
// paths.
//
// # Traversal
//
// Check, the cost functions and the assignment renderer share [Walker], an
// iterative depth-first walk with unvisited/in-progress/done marks.
//
// # Extractors
//
// Algorithms that produce selections implement [Extractor]. The bottomup and
// greedydag subpackages provide the stock implementations.
package extract
