package extract

import (
	"context"

	"github.com/matzehuels/extractgym/pkg/egraph"
)

// Extractor picks one node for every class needed by roots.
// Implementations must not modify g and should return ctx.Err() when the
// context is cancelled.
type Extractor interface {
	Extract(ctx context.Context, g *egraph.Graph, roots []egraph.ClassID) (*Selection, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, g *egraph.Graph, roots []egraph.ClassID) (*Selection, error)

// Extract calls f(ctx, g, roots).
func (f ExtractorFunc) Extract(ctx context.Context, g *egraph.Graph, roots []egraph.ClassID) (*Selection, error) {
	return f(ctx, g, roots)
}

// NodeSumCost returns the cost of n plus the best known cost of each child
// class. A child class without a known cost makes the result egraph.Infinity.
func NodeSumCost(g *egraph.Graph, n *egraph.Node, costs map[egraph.ClassID]egraph.Cost) egraph.Cost {
	total := n.Cost
	for _, child := range n.Children {
		c, ok := costs[g.ClassOf(child)]
		if !ok {
			return egraph.Infinity
		}
		total += c
	}
	return total
}
