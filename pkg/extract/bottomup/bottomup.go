// Package bottomup implements tree-cost extractors that settle class costs
// from the leaves upward.
//
// Both extractors minimise, per class, the node cost plus the best cost of
// each child class, which is the tree cost of the resulting term. Shared
// sub-terms are not rewarded; see the greedydag package for that.
package bottomup

import (
	"context"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/extract"
	"github.com/matzehuels/extractgym/pkg/extract/internal/queue"
)

// cancelCheckInterval is how many worklist steps run between context checks.
const cancelCheckInterval = 1024

// Extractor repeatedly sweeps every class in graph order, adopting any node
// that is strictly cheaper than the current choice, until a sweep changes
// nothing.
type Extractor struct{}

// Extract implements extract.Extractor. Roots are not consulted: every class
// that can be given a finite cost receives a choice.
func (Extractor) Extract(ctx context.Context, g *egraph.Graph, _ []egraph.ClassID) (*extract.Selection, error) {
	sel := extract.NewSelection()
	costs := make(map[egraph.ClassID]egraph.Cost, g.ClassCount())

	for changed := true; changed; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		changed = false
		for _, c := range g.Classes() {
			for _, id := range c.Nodes {
				n, _ := g.Node(id)
				cost := extract.NodeSumCost(g, n, costs)
				if cost < bestCost(costs, c.ID) {
					sel.Choose(c.ID, id)
					costs[c.ID] = cost
					changed = true
				}
			}
		}
	}
	return sel, nil
}

// Faster computes the same fixpoint as Extractor with a worklist: it starts
// from the leaves and only re-examines nodes whose child classes improved.
type Faster struct{}

// Extract implements extract.Extractor.
func (Faster) Extract(ctx context.Context, g *egraph.Graph, _ []egraph.ClassID) (*extract.Selection, error) {
	sel := extract.NewSelection()
	costs := make(map[egraph.ClassID]egraph.Cost, g.ClassCount())

	pending := queue.New[egraph.NodeID]()
	for _, n := range g.Nodes() {
		if n.IsLeaf() {
			pending.Push(n.ID)
		}
	}

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
		cost := extract.NodeSumCost(g, n, costs)
		if cost < bestCost(costs, n.Class) {
			sel.Choose(n.Class, id)
			costs[n.Class] = cost
			for _, p := range g.Parents(n.Class) {
				pending.Push(p)
			}
		}
	}
	return sel, nil
}

func bestCost(costs map[egraph.ClassID]egraph.Cost, c egraph.ClassID) egraph.Cost {
	if best, ok := costs[c]; ok {
		return best
	}
	return egraph.Infinity
}
