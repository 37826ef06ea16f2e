package extract

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/extractgym/pkg/egraph"
)

// Selection maps each chosen class to its representative node.
// Iteration order is insertion order; choosing a class again replaces its
// node but keeps its position.
//
// The zero value is not usable - use NewSelection.
type Selection struct {
	order   []egraph.ClassID
	choices map[egraph.ClassID]egraph.NodeID
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{choices: make(map[egraph.ClassID]egraph.NodeID)}
}

// Choose records node as the representative of class.
func (s *Selection) Choose(class egraph.ClassID, node egraph.NodeID) {
	if _, exists := s.choices[class]; !exists {
		s.order = append(s.order, class)
	}
	s.choices[class] = node
}

// Choice returns the node chosen for class.
func (s *Selection) Choice(class egraph.ClassID) (egraph.NodeID, bool) {
	n, ok := s.choices[class]
	return n, ok
}

// Classes returns the chosen classes in insertion order.
func (s *Selection) Classes() []egraph.ClassID { return slices.Clone(s.order) }

// Len returns the number of entries.
func (s *Selection) Len() int { return len(s.order) }

type choiceJSON struct {
	Class egraph.ClassID `json:"class"`
	Node  egraph.NodeID  `json:"node"`
}

// MarshalJSON encodes the selection as an ordered array of class/node pairs.
func (s *Selection) MarshalJSON() ([]byte, error) {
	out := make([]choiceJSON, len(s.order))
	for i, c := range s.order {
		out[i] = choiceJSON{Class: c, Node: s.choices[c]}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the array form written by MarshalJSON.
func (s *Selection) UnmarshalJSON(data []byte) error {
	var in []choiceJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.order = nil
	s.choices = make(map[egraph.ClassID]egraph.NodeID, len(in))
	for _, c := range in {
		if c.Class == "" {
			return fmt.Errorf("selection entry without class (node %q)", c.Node)
		}
		s.Choose(c.Class, c.Node)
	}
	return nil
}
