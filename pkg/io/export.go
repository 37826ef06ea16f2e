package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/extract"
)

// WriteGraph encodes g as egraph-serialize JSON and writes it to w.
//
// Nodes are written in insertion order, so the output can be re-imported
// with [ReadGraph] and yields an identical graph. The encoding is also
// canonical: two graphs with the same nodes, order and roots produce the
// same bytes, which makes it suitable as a cache fingerprint.
func WriteGraph(g *egraph.Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(`{"nodes":{`)
	for i, n := range g.Nodes() {
		if i > 0 {
			bw.WriteByte(',')
		}
		id, err := json.Marshal(n.ID)
		if err != nil {
			return fmt.Errorf("encode node %s: %w", n.ID, err)
		}
		cost := n.Cost
		body, err := json.Marshal(node{
			Op:       n.Label,
			Children: nonNil(n.Children),
			EClass:   n.Class,
			Cost:     &cost,
		})
		if err != nil {
			return fmt.Errorf("encode node %s: %w", n.ID, err)
		}
		bw.Write(id)
		bw.WriteByte(':')
		bw.Write(body)
	}
	bw.WriteString(`},"root_eclasses":`)
	roots, err := json.Marshal(nonNil(g.Roots()))
	if err != nil {
		return fmt.Errorf("encode roots: %w", err)
	}
	bw.Write(roots)
	bw.WriteString("}\n")
	return bw.Flush()
}

// MarshalGraph returns the [WriteGraph] encoding of g.
func MarshalGraph(g *egraph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportGraph writes g to a JSON file at path.
// This is a convenience wrapper around [WriteGraph] for file-based output.
func ExportGraph(g *egraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// WriteSelection encodes sel as an indented JSON array of
// {"class", "node"} pairs in selection order.
func WriteSelection(sel *extract.Selection, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sel); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadSelection decodes a selection written by [WriteSelection].
func ReadSelection(r io.Reader) (*extract.Selection, error) {
	sel := extract.NewSelection()
	if err := json.NewDecoder(r).Decode(sel); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return sel, nil
}

// ExportSelection writes sel to a JSON file at path.
func ExportSelection(sel *extract.Selection, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSelection(sel, f)
}

// ImportSelection reads a selection JSON file at path.
func ImportSelection(path string) (*extract.Selection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSelection(f)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
