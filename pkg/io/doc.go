// Package io provides JSON import and export for e-graphs and selections.
//
// # Graph Format
//
// Graphs use the egraph-serialize layout produced by egg and egglog:
//
//	{
//	  "nodes": {
//	    "n0": {"op": "Var(\"x\")", "children": [],           "eclass": "c0", "cost": 1},
//	    "n1": {"op": "Num(3)",     "children": [],           "eclass": "c1", "cost": 1},
//	    "n2": {"op": "Mul",        "children": ["n0", "n1"], "eclass": "c2", "cost": 4}
//	  },
//	  "root_eclasses": ["c2"],
//	  "class_data": {}
//	}
//
// Required:
//   - nodes: object keyed by node ID; each entry names its operator label,
//     ordered children (node IDs) and owning class
//
// Optional:
//   - cost: own cost of the node (defaults to 1)
//   - root_eclasses: the output classes, in order
//
// Any other key is ignored. Node order in the file is preserved: classes are
// numbered by first appearance, and extractors and the table renderer follow
// that order.
//
// # Import
//
// Use [ImportGraph] to read a graph from a file path, or [ReadGraph] to read
// from any io.Reader:
//
//	g, err := io.ImportGraph("examples/mul.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Malformed input is reported as an INVALID_GRAPH error from pkg/errors;
// a missing file as FILE_NOT_FOUND.
//
// # Export
//
// [WriteGraph] and [MarshalGraph] write the same format back out with node
// order intact. The bytes are canonical for a given graph and double as the
// graph fingerprint for selection caching.
//
// Selections are stored as an ordered array of class/node pairs with
// [WriteSelection] / [ReadSelection] (and the file variants
// [ExportSelection] / [ImportSelection]):
//
//	[
//	  {"class": "c0", "node": "n0"},
//	  {"class": "c2", "node": "n2"}
//	]
//
// # Concurrency
//
// All functions in this package are safe to call concurrently. Graphs
// returned by [ReadGraph] are independent of the input reader.
package io
