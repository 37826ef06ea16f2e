package egraph

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrInvalidClassID is returned by [Graph.AddNode] when the node has no class.
	// Every node must belong to exactly one equivalence class.
	ErrInvalidClassID = errors.New("class ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrNegativeCost is returned by [Graph.AddNode] for negative or NaN costs.
	ErrNegativeCost = errors.New("node cost must be non-negative")

	// ErrUnknownChild is returned by [Graph.Validate] when a node lists a child
	// that is not part of the graph.
	ErrUnknownChild = errors.New("unknown child node")

	// ErrUnknownRoot is returned by [Graph.Validate] when a root class has no
	// member nodes.
	ErrUnknownRoot = errors.New("unknown root class")
)

// NodeID identifies one operation instance.
type NodeID string

// ClassID identifies an equivalence class.
type ClassID string

// Node is a single operation instance inside an equivalence class.
//
// The zero value is not usable - ID and Class must be set before adding to a Graph.
type Node struct {
	ID       NodeID   // Unique identifier
	Label    string   // Raw operator label, e.g. `Mul(_, Num(3))`
	Children []NodeID // Ordered operands
	Class    ClassID  // Owning equivalence class
	Cost     Cost     // Own cost, excluding children

	// Op is the decoded form of Label. It is filled in by AddNode.
	Op Op
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Class is an equivalence class together with its member nodes in insertion order.
type Class struct {
	ID    ClassID
	Nodes []NodeID
}

// Graph is an immutable e-graph: nodes, class membership and ordered roots.
//
// The zero value is not usable - use New to create a Graph.
// A Graph is safe for concurrent reads once it is fully built.
type Graph struct {
	nodes      map[NodeID]*Node
	order      []NodeID
	classes    map[ClassID]*Class
	classOrder []ClassID
	parents    map[ClassID][]NodeID // class -> nodes that have a child in it
	roots      []ClassID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[NodeID]*Node),
		classes: make(map[ClassID]*Class),
		parents: make(map[ClassID][]NodeID),
	}
}

// AddNode adds a node, registers it with its class and decodes its label.
// Children may reference nodes that are added later; [Graph.Validate]
// checks them once the graph is complete.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if n.Class == "" {
		return ErrInvalidClassID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Cost < 0 || math.IsNaN(n.Cost) {
		return ErrNegativeCost
	}
	n.Children = slices.Clone(n.Children)
	n.Op = DecodeOp(n.Label, len(n.Children))

	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)

	c, ok := g.classes[node.Class]
	if !ok {
		c = &Class{ID: node.Class}
		g.classes[node.Class] = c
		g.classOrder = append(g.classOrder, node.Class)
	}
	c.Nodes = append(c.Nodes, node.ID)
	return nil
}

// SetRoots replaces the ordered list of root classes.
func (g *Graph) SetRoots(roots []ClassID) { g.roots = slices.Clone(roots) }

// Roots returns the requested output classes in order.
// The returned slice should not be modified.
func (g *Graph) Roots() []ClassID { return g.roots }

// Validate checks that every child and every root refers to something in the
// graph, and builds the parent index used by extractors.
//
// Returns an error wrapping ErrUnknownChild or ErrUnknownRoot.
func (g *Graph) Validate() error {
	parents := make(map[ClassID][]NodeID, len(g.classes))
	for _, id := range g.order {
		n := g.nodes[id]
		for _, child := range n.Children {
			c, ok := g.nodes[child]
			if !ok {
				return fmt.Errorf("node %s: %w %s", id, ErrUnknownChild, child)
			}
			parents[c.Class] = append(parents[c.Class], id)
		}
	}
	for _, r := range g.roots {
		if _, ok := g.classes[r]; !ok {
			return fmt.Errorf("%w %s", ErrUnknownRoot, r)
		}
	}
	g.parents = parents
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not found.
// The returned pointer refers to the graph's own node and must not be modified.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// ClassOf returns the class that owns node id, or "" if the node is unknown.
func (g *Graph) ClassOf(id NodeID) ClassID {
	if n, ok := g.nodes[id]; ok {
		return n.Class
	}
	return ""
}

// Class returns the class with the given ID and true, or nil and false if not found.
func (g *Graph) Class(id ClassID) (*Class, bool) {
	c, ok := g.classes[id]
	return c, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Classes returns all classes in order of first appearance.
func (g *Graph) Classes() []*Class {
	classes := make([]*Class, len(g.classOrder))
	for i, id := range g.classOrder {
		classes[i] = g.classes[id]
	}
	return classes
}

// Parents returns the nodes that have at least one child in class id, once
// per child occurrence. It is populated by [Graph.Validate].
func (g *Graph) Parents(id ClassID) []NodeID { return g.parents[id] }

// ChildClasses maps the children of n to their owning classes.
func (g *Graph) ChildClasses(n *Node) []ClassID {
	out := make([]ClassID, len(n.Children))
	for i, c := range n.Children {
		out[i] = g.ClassOf(c)
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// ClassCount returns the number of distinct classes in the graph.
func (g *Graph) ClassCount() int { return len(g.classes) }
