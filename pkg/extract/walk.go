package extract

import (
	"slices"

	"github.com/matzehuels/extractgym/pkg/egraph"
)

type mark uint8

const (
	unvisited mark = iota
	inProgress
	done
)

type frame struct {
	class egraph.ClassID
	node  *egraph.Node
	next  int // index of the next child to visit
}

// Walker traverses the program induced by a selection: roots in order,
// children left to right, each class entered once. It keeps an explicit
// stack, so depth is bounded by memory rather than the goroutine stack.
//
// All hooks are optional.
type Walker struct {
	// Enter is called on the first visit to a class, before its children.
	Enter func(class egraph.ClassID, n *egraph.Node) error

	// Leave is called once every child of the class has been walked.
	Leave func(class egraph.ClassID, n *egraph.Node) error

	// Missing is called when a class cannot be resolved to a node: node is
	// empty when the class has no choice, otherwise it is the unknown node
	// that was chosen. Returning nil skips the class without marking it,
	// so it is reported again on every later reference. When nil, the walk
	// fails with MissingChoiceError or InconsistentChoiceError.
	Missing func(class egraph.ClassID, node egraph.NodeID) error

	// Cycle is called when a class is reached while it is still being
	// walked. Returning nil skips the edge. When nil, the walk fails with
	// CycleError.
	Cycle func(path []egraph.ClassID) error
}

// Walk visits every class reachable from roots. It stops at the first error
// returned by a hook.
func (w Walker) Walk(g *egraph.Graph, sel *Selection, roots []egraph.ClassID) error {
	state := make(map[egraph.ClassID]mark, sel.Len())
	var stack []frame

	push := func(class egraph.ClassID) error {
		switch state[class] {
		case done:
			return nil
		case inProgress:
			return w.cycle(cyclePath(stack, class))
		}
		id, ok := sel.Choice(class)
		if !ok {
			return w.missing(class, "")
		}
		n, ok := g.Node(id)
		if !ok {
			return w.missing(class, id)
		}
		if w.Enter != nil {
			if err := w.Enter(class, n); err != nil {
				return err
			}
		}
		state[class] = inProgress
		stack = append(stack, frame{class: class, node: n})
		return nil
	}

	for _, root := range roots {
		if err := push(root); err != nil {
			return err
		}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.node.Children) {
				child := g.ClassOf(top.node.Children[top.next])
				top.next++
				if err := push(child); err != nil {
					return err
				}
				continue
			}

			f := *top
			stack = stack[:len(stack)-1]
			state[f.class] = done
			if w.Leave != nil {
				if err := w.Leave(f.class, f.node); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w Walker) missing(class egraph.ClassID, node egraph.NodeID) error {
	if w.Missing != nil {
		return w.Missing(class, node)
	}
	if node == "" {
		return &MissingChoiceError{Class: class}
	}
	return &InconsistentChoiceError{Class: class, Node: node}
}

func (w Walker) cycle(path []egraph.ClassID) error {
	if w.Cycle != nil {
		return w.Cycle(path)
	}
	return &CycleError{Path: path}
}

// cyclePath returns the classes on the stack from the first occurrence of
// class to the top, closed by class itself.
func cyclePath(stack []frame, class egraph.ClassID) []egraph.ClassID {
	start := slices.IndexFunc(stack, func(f frame) bool { return f.class == class })
	if start < 0 {
		return []egraph.ClassID{class, class}
	}
	path := make([]egraph.ClassID, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.class)
	}
	return append(path, class)
}
