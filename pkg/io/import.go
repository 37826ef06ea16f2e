package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/errors"
)

// defaultCost is the own cost of a node whose "cost" field is absent.
const defaultCost = 1.0

type node struct {
	Op       string          `json:"op"`
	Children []egraph.NodeID `json:"children"`
	EClass   egraph.ClassID  `json:"eclass"`
	Cost     *float64        `json:"cost,omitempty"`
}

// ReadGraph decodes an egraph-serialize JSON document from r.
//
// The input must be a JSON object with a "nodes" object and an optional
// "root_eclasses" array:
//
//	{
//	  "nodes": {
//	    "x":   {"op": "Var(\"x\")", "children": [],    "eclass": "c1", "cost": 1},
//	    "neg": {"op": "Not",        "children": ["x"], "eclass": "c2"}
//	  },
//	  "root_eclasses": ["c2"]
//	}
//
// Nodes are added in the order they appear in the file, which fixes the
// class order seen by extractors and renderers. A missing "cost" means 1.
// Every other top-level key, including "class_data", is skipped.
//
// ReadGraph returns an INVALID_GRAPH error if:
//   - The JSON is malformed or "nodes" is missing
//   - A node or class ID is empty or contains control characters
//   - A node ID repeats or a cost is negative
//   - A child or root refers to something not in the graph
//
// ReadGraph does not close r.
func ReadGraph(r io.Reader) (*egraph.Graph, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, invalid(err)
	}

	g := egraph.New()
	var (
		roots     []egraph.ClassID
		seenNodes bool
	)
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, invalid(err)
		}
		switch key {
		case "nodes":
			if err := readNodes(dec, g); err != nil {
				return nil, err
			}
			seenNodes = true
		case "root_eclasses":
			if err := dec.Decode(&roots); err != nil {
				return nil, invalid(fmt.Errorf("root_eclasses: %w", err))
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, invalid(fmt.Errorf("%s: %w", key, err))
			}
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, invalid(err)
	}
	if !seenNodes {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "missing \"nodes\" object")
	}

	for _, root := range roots {
		if err := errors.ValidateID("root class", string(root)); err != nil {
			return nil, err
		}
	}
	g.SetRoots(roots)
	if err := g.Validate(); err != nil {
		return nil, invalid(err)
	}
	return g, nil
}

// readNodes streams the "nodes" object so that node order survives decoding.
func readNodes(dec *json.Decoder, g *egraph.Graph) error {
	if err := expectDelim(dec, '{'); err != nil {
		return invalid(fmt.Errorf("nodes: %w", err))
	}
	for dec.More() {
		id, err := readKey(dec)
		if err != nil {
			return invalid(fmt.Errorf("nodes: %w", err))
		}
		if err := errors.ValidateID("node", id); err != nil {
			return err
		}

		var n node
		if err := dec.Decode(&n); err != nil {
			return invalid(fmt.Errorf("node %s: %w", id, err))
		}
		if err := errors.ValidateID("class", string(n.EClass)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %s", id)
		}

		cost := defaultCost
		if n.Cost != nil {
			cost = *n.Cost
		}
		err = g.AddNode(egraph.Node{
			ID:       egraph.NodeID(id),
			Label:    n.Op,
			Children: n.Children,
			Class:    n.EClass,
			Cost:     cost,
		})
		if err != nil {
			return invalid(fmt.Errorf("node %s: %w", id, err))
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return invalid(fmt.Errorf("nodes: %w", err))
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func invalid(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
}

// ImportGraph reads an egraph-serialize JSON file at path.
//
// ImportGraph validates path, opens the file, decodes it using [ReadGraph],
// and closes the file. A missing file yields a FILE_NOT_FOUND error; decoding
// failures carry the same codes as [ReadGraph].
func ImportGraph(path string) (*egraph.Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadGraph(f)
}
