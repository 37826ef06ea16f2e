package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/extractgym/pkg/cache"
	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/errors"
	"github.com/matzehuels/extractgym/pkg/extract"
	graphio "github.com/matzehuels/extractgym/pkg/io"
	"github.com/matzehuels/extractgym/pkg/observability"
	"github.com/matzehuels/extractgym/pkg/render"
)

// Class c2 has two candidates; the shift is cheaper than the multiply.
const testGraph = `{
  "nodes": {
    "x":  {"op": "Var(\"x\")", "children": [], "eclass": "c0", "cost": 1},
    "n1": {"op": "Add", "children": ["x", "x"], "eclass": "c1", "cost": 1},
    "n2": {"op": "Mul(_, Num(3))", "children": ["n1"], "eclass": "c2", "cost": 2},
    "n3": {"op": "Shl(_,1)", "children": ["n1"], "eclass": "c2", "cost": 1},
    "r":  {"op": "RootNode(\"y\")", "children": ["n2"], "eclass": "c3", "cost": 0}
  },
  "root_eclasses": ["c3"]
}`

func loadGraph(t *testing.T) *egraph.Graph {
	t.Helper()
	g, err := graphio.ReadGraph(strings.NewReader(testGraph))
	if err != nil {
		t.Fatalf("ReadGraph() error: %v", err)
	}
	return g
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	return NewRunner(c, nil, nil)
}

func TestLookupExtractor(t *testing.T) {
	tests := []struct {
		name     string
		wantCode errors.Code
	}{
		{ExtractorGreedyDag, ""},
		{ExtractorFasterBottomUp, ""},
		{ExtractorBottomUp, ""},
		{ExtractorILP, errors.ErrCodeUnsupported},
		{ExtractorILPTimeout, errors.ErrCodeUnsupported},
		{"greedy", errors.ErrCodeInvalidExtractor},
		{"", errors.ErrCodeInvalidExtractor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := LookupExtractor(tt.name)
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("LookupExtractor(%q) code = %q, want %q (err: %v)", tt.name, got, tt.wantCode, err)
			}
			if err == nil && ex == nil {
				t.Errorf("LookupExtractor(%q) returned nil extractor", tt.name)
			}
		})
	}
}

func TestExtractors(t *testing.T) {
	names := Extractors()
	if names[0] != DefaultExtractor {
		t.Errorf("Extractors()[0] = %q, want default %q", names[0], DefaultExtractor)
	}
	names[0] = "mutated"
	if Extractors()[0] != DefaultExtractor {
		t.Error("Extractors() should return a copy")
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Extractor != DefaultExtractor {
		t.Errorf("Extractor = %q, want %q", opts.Extractor, DefaultExtractor)
	}
	if opts.Mode != DefaultMode {
		t.Errorf("Mode = %q, want %q", opts.Mode, DefaultMode)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	bad := Options{Mode: "dot"}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("ValidateAndSetDefaults(mode=dot) error = %v, want INVALID_MODE", err)
	}

	upper := Options{Mode: "TREE"}
	if err := upper.ValidateAndSetDefaults(); err != nil || upper.Mode != render.ModeTree {
		t.Errorf("ValidateAndSetDefaults(mode=TREE) = %q, %v; want tree", upper.Mode, err)
	}
}

func TestExecute(t *testing.T) {
	want := []string{"n1 = x + x", "n3 = n1 << 1", "y = n3", "Tree cost: 4", "DAG cost: 3"}

	for _, name := range Extractors() {
		t.Run(name, func(t *testing.T) {
			r := NewRunner(nil, nil, nil)
			res, err := r.Execute(context.Background(), loadGraph(t), Options{Extractor: name, Mode: render.ModeAssign})
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if diff := cmp.Diff(want, res.Report()); diff != "" {
				t.Errorf("Report() mismatch (-want +got):\n%s", diff)
			}
			if res.DagCost > res.TreeCost {
				t.Errorf("DagCost %v > TreeCost %v", res.DagCost, res.TreeCost)
			}
			if res.Stats.NodeCount != 5 || res.Stats.ClassCount != 4 {
				t.Errorf("Stats = %+v", res.Stats)
			}
		})
	}
}

func TestExecuteModes(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	g := loadGraph(t)

	res, err := r.Execute(context.Background(), g, Options{Mode: render.ModeTree})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if diff := cmp.Diff([]string{`(RootNode("y") (Shl(_,1) (Add Var("x") Var("x"))))`}, res.Lines); diff != "" {
		t.Errorf("tree lines mismatch (-want +got):\n%s", diff)
	}

	res, err = r.Execute(context.Background(), g, Options{Mode: render.ModeTable})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(res.Lines) != res.Selection.Len() {
		t.Errorf("table has %d lines, selection has %d entries", len(res.Lines), res.Selection.Len())
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	defer r.Close()
	g := loadGraph(t)
	opts := Options{Extractor: ExtractorBottomUp}

	first, err := r.Execute(ctx, g, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(ctx, g, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if diff := cmp.Diff(first.Report(), second.Report()); diff != "" {
		t.Errorf("cached report differs (-first +second):\n%s", diff)
	}
	if first.GraphHash == "" || first.GraphHash != second.GraphHash {
		t.Errorf("GraphHash = %q / %q, want equal and non-empty", first.GraphHash, second.GraphHash)
	}

	refreshed, err := r.Execute(ctx, g, Options{Extractor: ExtractorBottomUp, Refresh: true})
	if err != nil {
		t.Fatalf("Execute(refresh) error: %v", err)
	}
	if refreshed.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	other, err := r.Execute(ctx, g, Options{Extractor: ExtractorGreedyDag})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if other.CacheHit {
		t.Error("a different extractor should not share the cache entry")
	}
}

func TestExecuteStaleCacheEntry(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	g := loadGraph(t)

	data, _ := graphio.MarshalGraph(g)
	key := r.Keyer.SelectionKey(cache.Hash(data), DefaultExtractor)
	if err := r.Cache.Set(ctx, key, []byte(`[{"class":"c3","node":"r"}]`), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	res, err := r.Execute(ctx, g, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.CacheHit {
		t.Error("an incomplete cached selection should be discarded")
	}
	if res.DagCost != 3 {
		t.Errorf("DagCost = %v, want 3", res.DagCost)
	}
}

func TestExecuteInvalidSelection(t *testing.T) {
	extractors["broken"] = extract.ExtractorFunc(func(context.Context, *egraph.Graph, []egraph.ClassID) (*extract.Selection, error) {
		sel := extract.NewSelection()
		sel.Choose("c3", "r")
		return sel, nil
	})
	t.Cleanup(func() { delete(extractors, "broken") })

	ctx := context.Background()
	r := newFileRunner(t)
	g := loadGraph(t)

	_, err := r.Execute(ctx, g, Options{Extractor: "broken"})
	if !errors.Is(err, errors.ErrCodeInvalidSelection) {
		t.Fatalf("Execute() error = %v, want INVALID_SELECTION", err)
	}
	var missing *extract.MissingChoiceError
	if !asError(err, &missing) || missing.Class != "c2" {
		t.Errorf("Execute() error = %v, want missing choice for c2", err)
	}

	// nothing was cached
	data, _ := graphio.MarshalGraph(g)
	if _, hit, _ := r.Cache.Get(ctx, r.Keyer.SelectionKey(cache.Hash(data), "broken")); hit {
		t.Error("an invalid selection must not be cached")
	}
}

func TestExampleGraphs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "egraphs", "*.json"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("no example graphs found: %v", err)
	}

	r := NewRunner(nil, nil, nil)
	for _, path := range paths {
		g, err := graphio.ImportGraph(path)
		if err != nil {
			t.Fatalf("ImportGraph(%s) error: %v", path, err)
		}
		for _, name := range Extractors() {
			t.Run(filepath.Base(path)+"/"+name, func(t *testing.T) {
				res, err := r.Execute(context.Background(), g, Options{Extractor: name})
				if err != nil {
					t.Fatalf("Execute() error: %v", err)
				}
				if res.DagCost > res.TreeCost {
					t.Errorf("DagCost %v > TreeCost %v", res.DagCost, res.TreeCost)
				}
				if len(res.Lines) == 0 {
					t.Error("expected a non-empty report")
				}
			})
		}
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil).Execute(ctx, loadGraph(t), Options{})
	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestExecuteHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	r := newFileRunner(t)
	g := loadGraph(t)
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(ctx, g, Options{}); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
	}

	if got := h.extracts.Load(); got != 1 {
		t.Errorf("extracts = %d, want 1", got)
	}
	if got := h.hits.Load(); got != 1 {
		t.Errorf("cache hits = %d, want 1", got)
	}
	if got := h.misses.Load(); got != 1 {
		t.Errorf("cache misses = %d, want 1", got)
	}
	if got := h.renders.Load(); got != 2 {
		t.Errorf("renders = %d, want 2", got)
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	extracts, renders, hits, misses atomic.Int32
}

func (h *countingHooks) OnExtractStart(context.Context, string, int) { h.extracts.Add(1) }
func (h *countingHooks) OnRenderStart(context.Context, string)       { h.renders.Add(1) }
func (h *countingHooks) OnCacheHit(context.Context, string)          { h.hits.Add(1) }
func (h *countingHooks) OnCacheMiss(context.Context, string)         { h.misses.Add(1) }
