// Package greedydag implements a DAG-aware greedy extractor.
//
// Every class keeps a cost set: the classes (with their own cost) that the
// current choice pulls in. The cost of a candidate node is the sum over the
// union of its children's cost sets plus itself, so a sub-term shared by two
// children is paid for once. The result is usually cheaper in DAG cost than
// bottom-up extraction but carries no optimality guarantee.
package greedydag

import (
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/extract"
	"github.com/matzehuels/extractgym/pkg/extract/internal/queue"
)

const cancelCheckInterval = 1024

type costSet struct {
	costs  map[egraph.ClassID]egraph.Cost
	total  egraph.Cost
	choice egraph.NodeID
}

// Extractor is the worklist form of the greedy DAG extractor.
type Extractor struct{}

// Extract implements extract.Extractor. Choices are emitted in graph class
// order so the selection is deterministic.
func (Extractor) Extract(ctx context.Context, g *egraph.Graph, _ []egraph.ClassID) (*extract.Selection, error) {
	pending := queue.New[egraph.NodeID]()
	for _, n := range g.Nodes() {
		if n.IsLeaf() {
			pending.Push(n.ID)
		}
	}

	sets := make(map[egraph.ClassID]*costSet, g.ClassCount())
	for steps := 0; ; steps++ {
		if steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		id, ok := pending.Pop()
		if !ok {
			break
		}
		n, _ := g.Node(id)
		if !childrenSettled(g, n, sets) {
			continue
		}

		prev := egraph.Infinity
		if s, ok := sets[n.Class]; ok {
			prev = s.total
		}
		cs := candidate(g, n, sets, prev)
		if cs.total < prev {
			sets[n.Class] = cs
			for _, p := range g.Parents(n.Class) {
				pending.Push(p)
			}
		}
	}

	sel := extract.NewSelection()
	for _, c := range g.Classes() {
		if s, ok := sets[c.ID]; ok {
			sel.Choose(c.ID, s.choice)
		}
	}
	return sel, nil
}

func childrenSettled(g *egraph.Graph, n *egraph.Node, sets map[egraph.ClassID]*costSet) bool {
	for _, child := range n.Children {
		if _, ok := sets[g.ClassOf(child)]; !ok {
			return false
		}
	}
	return true
}

// candidate computes the cost set of choosing n for its class. Nodes that
// would depend on their own class, or single-child nodes that already cost
// more than best, get an infinite total.
func candidate(g *egraph.Graph, n *egraph.Node, sets map[egraph.ClassID]*costSet, best egraph.Cost) *costSet {
	if n.IsLeaf() {
		return &costSet{
			costs:  map[egraph.ClassID]egraph.Cost{n.Class: n.Cost},
			total:  n.Cost,
			choice: n.ID,
		}
	}

	children := g.ChildClasses(n)
	slices.Sort(children)
	children = slices.Compact(children)

	junk := &costSet{total: egraph.Infinity, choice: n.ID}
	if slices.Contains(children, n.Class) {
		return junk
	}
	if len(children) == 1 && n.Cost+sets[children[0]].total > best {
		return junk
	}

	// Start from the largest child set and merge the rest into it.
	biggest := slices.MaxFunc(children, func(a, b egraph.ClassID) int {
		return len(sets[a].costs) - len(sets[b].costs)
	})
	merged := maps.Clone(sets[biggest].costs)
	for _, c := range children {
		if c == biggest {
			continue
		}
		maps.Copy(merged, sets[c].costs)
	}

	_, cyclic := merged[n.Class]
	merged[n.Class] = n.Cost
	if cyclic {
		return &costSet{costs: merged, total: egraph.Infinity, choice: n.ID}
	}

	var total egraph.Cost
	for _, c := range merged {
		total += c
	}
	return &costSet{costs: merged, total: total, choice: n.ID}
}
