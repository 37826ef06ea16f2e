// Package pipeline runs the extract → validate → cost → render pipeline.
//
// The CLI, the HTTP API and the compare command all go through a [Runner],
// which adds selection caching and observability hooks around the core
// packages, so every entry point reports the same lines and costs for the
// same input.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Extractor: "faster-greedy-dag",
//	    Mode:      render.ModeAssign,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, line := range result.Lines {
//	    fmt.Println(line)
//	}
//
// Run individual stages:
//
//	// Extract and validate only
//	sel, err := runner.Extract(ctx, g, opts)
//
//	// Render an existing selection
//	lines, err := runner.Render(ctx, g, sel, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/extract"
	"github.com/matzehuels/extractgym/pkg/render"
)

// DefaultMode is the default render mode.
const DefaultMode = render.DefaultMode

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Extractor string      `json:"extractor,omitempty"`
	Mode      render.Mode `json:"mode,omitempty"`

	// Refresh skips the cache lookup; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Selection is the validated choice per class.
	Selection *extract.Selection

	// GraphHash is the fingerprint of the input graph used for caching.
	GraphHash string

	// Lines is the rendered report.
	Lines []string

	TreeCost egraph.Cost
	DagCost  egraph.Cost

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the selection came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount       int
	ClassCount      int
	SelectedClasses int
	ExtractTime     time.Duration
	RenderTime      time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the extractor and mode and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForExtract(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForExtract sets the default extractor and checks that it can run.
func (o *Options) ValidateForExtract() error {
	if o.Extractor == "" {
		o.Extractor = DefaultExtractor
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	_, err := LookupExtractor(o.Extractor)
	return err
}

// ValidateForRender sets the default mode and checks that it is known.
func (o *Options) ValidateForRender() error {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	m, err := render.ParseMode(string(o.Mode))
	if err != nil {
		return err
	}
	o.Mode = m
	return nil
}

// CostLines returns the two cost lines printed after every report.
func (r *Result) CostLines() []string {
	return []string{
		"Tree cost: " + egraph.FormatCost(r.TreeCost),
		"DAG cost: " + egraph.FormatCost(r.DagCost),
	}
}

// Report returns the rendered lines followed by the cost lines.
func (r *Result) Report() []string {
	out := make([]string, 0, len(r.Lines)+2)
	out = append(out, r.Lines...)
	return append(out, r.CostLines()...)
}
