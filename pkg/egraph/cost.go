package egraph

import (
	"math"
	"strconv"
)

// Cost is a non-negative node or selection cost.
type Cost = float64

// Infinity marks an unrepresentable cost. It compares greater than every
// finite cost and is never the cost of a valid selection.
var Infinity Cost = math.Inf(1)

// IsInfinite reports whether c is the Infinity sentinel.
func IsInfinite(c Cost) bool { return math.IsInf(c, 1) }

// FormatCost renders c with the fewest digits that round-trip ("12", "2.5").
func FormatCost(c Cost) string {
	if IsInfinite(c) {
		return "inf"
	}
	return strconv.FormatFloat(c, 'f', -1, 64)
}
