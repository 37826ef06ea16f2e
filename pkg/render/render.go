package render

import (
	"strings"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/errors"
	"github.com/matzehuels/extractgym/pkg/extract"
)

// Mode selects a renderer.
type Mode string

// Supported render modes.
const (
	ModeTable  Mode = "table"
	ModeTree   Mode = "tree"
	ModeAssign Mode = "assign"
)

// DefaultMode is used when no mode is configured.
const DefaultMode = ModeAssign

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeTable, ModeTree, ModeAssign}

// Func is the common signature of all renderers.
type Func func(g *egraph.Graph, sel *extract.Selection, roots []egraph.ClassID) []string

var funcs = map[Mode]Func{
	ModeTable:  Table,
	ModeTree:   Tree,
	ModeAssign: Assign,
}

// ParseMode converts a mode name to a Mode. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := funcs[m]; !ok {
		return "", errors.New(errors.ErrCodeInvalidMode, "unknown mode %q (want one of %s)", s, ModeNames())
	}
	return m, nil
}

// ModeNames returns the supported mode names joined for help text.
func ModeNames() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Render runs the renderer for mode.
func Render(mode Mode, g *egraph.Graph, sel *extract.Selection, roots []egraph.ClassID) ([]string, error) {
	fn, ok := funcs[mode]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q", mode)
	}
	return fn(g, sel, roots), nil
}

func unknownName(class egraph.ClassID) string { return "unknown_" + string(class) }

func cycleName(class egraph.ClassID) string { return "cycle_" + string(class) }
