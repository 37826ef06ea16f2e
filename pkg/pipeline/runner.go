package pipeline

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/extractgym/pkg/cache"
	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/errors"
	"github.com/matzehuels/extractgym/pkg/extract"
	graphio "github.com/matzehuels/extractgym/pkg/io"
	"github.com/matzehuels/extractgym/pkg/observability"
	"github.com/matzehuels/extractgym/pkg/render"
)

const keyTypeSelection = "selection"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long selections stay cached. Zero uses cache.TTLSelection.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs extraction, validation, costing and rendering for g.
func (r *Runner) Execute(ctx context.Context, g *egraph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.ClassCount = g.ClassCount()

	// Stage 1: Extract + validate
	start := time.Now()
	sel, hit, hash, err := r.extract(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Selection = sel
	result.GraphHash = hash
	result.CacheHit = hit
	result.Stats.ExtractTime = time.Since(start)
	result.Stats.SelectedClasses = sel.Len()

	r.Logger.Info("extracted",
		"extractor", opts.Extractor,
		"classes", sel.Len(),
		"cached", hit,
		"duration", result.Stats.ExtractTime)

	// Stage 2: Cost
	roots := g.Roots()
	result.TreeCost = extract.TreeCost(g, sel, roots)
	result.DagCost = extract.DagCost(g, sel, roots)

	// Stage 3: Render
	start = time.Now()
	lines, err := r.Render(ctx, g, sel, opts)
	if err != nil {
		return nil, err
	}
	result.Lines = lines
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Debug("rendered",
		"mode", opts.Mode,
		"lines", len(lines),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ExtractWithCacheInfo returns a validated selection for g, from the cache
// when possible, and reports whether the cache was hit.
//
// A cached selection that no longer passes validation is discarded and
// recomputed. A freshly extracted selection that fails validation is an
// INVALID_SELECTION error; its table dump is logged at debug level.
func (r *Runner) ExtractWithCacheInfo(ctx context.Context, g *egraph.Graph, opts Options) (*extract.Selection, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForExtract(); err != nil {
		return nil, false, err
	}
	sel, hit, _, err := r.extract(ctx, g, opts)
	return sel, hit, err
}

// Extract is a convenience wrapper that calls ExtractWithCacheInfo and discards the cache hit info.
func (r *Runner) Extract(ctx context.Context, g *egraph.Graph, opts Options) (*extract.Selection, error) {
	sel, _, err := r.ExtractWithCacheInfo(ctx, g, opts)
	return sel, err
}

func (r *Runner) extract(ctx context.Context, g *egraph.Graph, opts Options) (*extract.Selection, bool, string, error) {
	ex, err := LookupExtractor(opts.Extractor)
	if err != nil {
		return nil, false, "", err
	}

	graphData, err := graphio.MarshalGraph(g)
	if err != nil {
		return nil, false, "", errors.Wrap(errors.ErrCodeInternal, err, "fingerprint graph")
	}
	hash := cache.Hash(graphData)
	key := r.Keyer.SelectionKey(hash, opts.Extractor)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if sel, ok := r.cached(ctx, g, key); ok {
			return sel, true, hash, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnExtractStart(ctx, opts.Extractor, g.NodeCount())
	start := time.Now()
	sel, err := ex.Extract(ctx, g, g.Roots())
	classes := 0
	if sel != nil {
		classes = sel.Len()
	}
	hooks.OnExtractComplete(ctx, opts.Extractor, classes, time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, "", err
		}
		return nil, false, "", errors.Wrap(errors.ErrCodeInternal, err, "extractor %s", opts.Extractor)
	}

	err = extract.Check(g, sel)
	hooks.OnValidate(ctx, opts.Extractor, err)
	if err != nil {
		opts.Logger.Debug("rejected selection\n" + strings.Join(render.Table(g, sel, g.Roots()), "\n"))
		return nil, false, "", errors.Wrap(errors.ErrCodeInvalidSelection, err, "extractor %s produced an invalid selection", opts.Extractor)
	}

	r.store(ctx, key, sel)
	return sel, false, hash, nil
}

// cached returns the selection stored under key if it is still valid for g.
func (r *Runner) cached(ctx context.Context, g *egraph.Graph, key string) (*extract.Selection, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeSelection)
		return nil, false
	}

	sel, err := graphio.ReadSelection(bytes.NewReader(data))
	if err == nil {
		err = extract.Check(g, sel)
	}
	if err != nil {
		r.Logger.Debug("discarding cached selection", "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyTypeSelection)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeSelection)
	return sel, true
}

func (r *Runner) store(ctx context.Context, key string, sel *extract.Selection) {
	data, err := sel.MarshalJSON()
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLSelection
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeSelection, len(data))
}

// Render renders a validated selection in opts.Mode.
func (r *Runner) Render(ctx context.Context, g *egraph.Graph, sel *extract.Selection, opts Options) ([]string, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(opts.Mode))
	start := time.Now()
	lines, err := render.Render(opts.Mode, g, sel, g.Roots())
	hooks.OnRenderComplete(ctx, string(opts.Mode), len(lines), time.Since(start))
	return lines, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
