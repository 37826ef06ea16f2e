// Package egraph provides the read-only term graph consumed by extraction.
//
// # Overview
//
// An e-graph groups interchangeable operation instances (nodes) into
// equivalence classes. Every [Node] belongs to exactly one class, has an
// operator label, an ordered list of child nodes and a non-negative cost.
// The graph also carries an ordered list of root classes: the outputs an
// extractor must cover.
//
// Children are stored as node identifiers; the class a child stands for is
// obtained through [Graph.ClassOf]. An extractor picks one node per class, so
// a child edge is really an edge to the child's class.
//
// # Operators
//
// Labels such as Var("x"), Mul(_, Num(3)) or RootNode("out") encode an
// operator family plus embedded literals. [DecodeOp] turns a label into a
// closed [Op] variant once, when the node is added, so renderers never
// re-scan label text.
//
// # Building
//
// Graphs are usually read from JSON with the io package. Programmatic
// construction goes through [New], [Graph.AddNode] and [Graph.SetRoots],
// followed by [Graph.Validate] to check that every child and root refers to
// something that exists:
//
//	g := egraph.New()
//	_ = g.AddNode(egraph.Node{ID: "x", Label: `Var("x")`, Class: "c0", Cost: 1})
//	_ = g.AddNode(egraph.Node{ID: "n", Label: "Not", Class: "c1", Cost: 1, Children: []egraph.NodeID{"x"}})
//	g.SetRoots([]egraph.ClassID{"c1"})
//	if err := g.Validate(); err != nil {
//	    return err
//	}
//
// A Graph is never mutated once loaded and may be shared between goroutines
// for reading.
package egraph
