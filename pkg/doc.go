// Package pkg provides the libraries behind extractgym.
//
// # Overview
//
// extractgym takes a serialized e-graph, asks an extractor to choose one node
// per equivalence class, checks that the choice describes a finite program,
// and prints that program with its costs. The pkg directory is organized as:
//
//  1. [egraph] - Graph model, node costs and operator decoding
//  2. [extract] - Selections, validation, costing and the extractors
//  3. [render] - Table, S-expression and assignment renderers (plus [render/nodelink])
//  4. [io] - egraph-serialize JSON loading and selection files
//  5. [pipeline] - Orchestration (extract → validate → cost → render) with caching
//  6. [cache], [config], [server], [observability] - Infrastructure
//
// # Architecture
//
//	egraph-serialize JSON
//	         ↓
//	    [io] package (ordered loader)
//	         ↓
//	    [extract] extractor (bottom-up, faster-bottom-up, faster-greedy-dag)
//	         ↓
//	    [extract.Check] (complete, consistent, acyclic)
//	         ↓
//	    [extract.TreeCost] / [extract.DagCost] and [render]
//
// # Quick Start
//
//	g, err := io.ImportGraph("rewrites.json")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, g, pipeline.Options{Mode: render.ModeAssign})
//	if err != nil {
//	    return err
//	}
//	for _, line := range res.Report() {
//	    fmt.Println(line)
//	}
package pkg
