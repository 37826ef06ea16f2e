package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/extractgym/pkg/egraph"
)

var (
	// ErrCycle matches a [*CycleError] with errors.Is.
	ErrCycle = errors.New("selection contains a cycle")

	// ErrMissingChoice matches a [*MissingChoiceError] with errors.Is.
	ErrMissingChoice = errors.New("reachable class has no choice")

	// ErrInconsistentChoice matches an [*InconsistentChoiceError] with errors.Is.
	ErrInconsistentChoice = errors.New("chosen node does not belong to its class")
)

// CycleError reports a directed cycle among reachable classes. Path starts
// and ends with the class that was re-entered.
type CycleError struct {
	Path []egraph.ClassID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, c := range e.Path {
		parts[i] = string(c)
	}
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(parts, " -> "))
}

// Is reports whether target is ErrCycle.
func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// MissingChoiceError reports a reachable class without an entry in the selection.
type MissingChoiceError struct {
	Class egraph.ClassID
}

func (e *MissingChoiceError) Error() string {
	return fmt.Sprintf("%v: class %s", ErrMissingChoice, e.Class)
}

// Is reports whether target is ErrMissingChoice.
func (e *MissingChoiceError) Is(target error) bool { return target == ErrMissingChoice }

// InconsistentChoiceError reports a choice whose node is owned by another
// class. Actual is empty when the node does not exist at all.
type InconsistentChoiceError struct {
	Class  egraph.ClassID
	Node   egraph.NodeID
	Actual egraph.ClassID
}

func (e *InconsistentChoiceError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("%v: class %s chose unknown node %s", ErrInconsistentChoice, e.Class, e.Node)
	}
	return fmt.Sprintf("%v: class %s chose node %s of class %s", ErrInconsistentChoice, e.Class, e.Node, e.Actual)
}

// Is reports whether target is ErrInconsistentChoice.
func (e *InconsistentChoiceError) Is(target error) bool { return target == ErrInconsistentChoice }
