package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	graphio "github.com/matzehuels/extractgym/pkg/io"
	"github.com/matzehuels/extractgym/pkg/observability"
	"github.com/matzehuels/extractgym/pkg/pipeline"
	"github.com/matzehuels/extractgym/pkg/render"
)

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

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)
	return New(pipeline.NewRunner(nil, nil, logger), logger).Handler()
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(newTestHandler(t))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, query, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/extract"+query, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestExtract(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts, "?extractor=bottom-up&mode=assign", testGraph)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[ExtractResponse](t, resp)

	if diff := cmp.Diff([]string{"n1 = x + x", "n3 = n1 << 1", "y = n3"}, body.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if body.TreeCost == nil || *body.TreeCost != 4 {
		t.Errorf("tree_cost = %v, want 4", body.TreeCost)
	}
	if body.DagCost == nil || *body.DagCost != 3 {
		t.Errorf("dag_cost = %v, want 3", body.DagCost)
	}
	if body.Extractor != "bottom-up" || body.Mode != "assign" {
		t.Errorf("extractor/mode = %q/%q", body.Extractor, body.Mode)
	}
	if body.RequestID == "" || body.RequestID != resp.Header.Get(HeaderRequestID) {
		t.Errorf("request_id = %q, header = %q", body.RequestID, resp.Header.Get(HeaderRequestID))
	}
	if body.Stats == nil || body.Stats.Nodes != 5 || body.Stats.Classes != 4 {
		t.Errorf("stats = %+v", body.Stats)
	}
}

func TestExtractMatchesPipeline(t *testing.T) {
	ts := newTestServer(t)

	for _, name := range pipeline.Extractors() {
		for _, mode := range render.Modes {
			t.Run(name+"/"+string(mode), func(t *testing.T) {
				g, err := graphio.ReadGraph(strings.NewReader(testGraph))
				if err != nil {
					t.Fatal(err)
				}
				want, err := pipeline.NewRunner(nil, nil, nil).Execute(context.Background(), g, pipeline.Options{Extractor: name, Mode: mode})
				if err != nil {
					t.Fatal(err)
				}

				resp := post(t, ts, "?extractor="+name+"&mode="+string(mode), testGraph)
				body := decode[ExtractResponse](t, resp)
				if diff := cmp.Diff(want.Lines, body.Lines); diff != "" {
					t.Errorf("lines mismatch (-pipeline +api):\n%s", diff)
				}
			})
		}
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"unknown extractor", "?extractor=simplex", testGraph, http.StatusBadRequest, "INVALID_EXTRACTOR"},
		{"ilp extractor", "?extractor=ilp-cbc", testGraph, http.StatusNotImplemented, "UNSUPPORTED"},
		{"unknown mode", "?mode=dot", testGraph, http.StatusBadRequest, "INVALID_MODE"},
		{"malformed body", "", `{"nodes":`, http.StatusBadRequest, "INVALID_GRAPH"},
		{"dangling child", "", `{"nodes":{"a":{"op":"F","children":["b"],"eclass":"c"}},"root_eclasses":["c"]}`, http.StatusBadRequest, "INVALID_GRAPH"},
	}

	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.query, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body := decode[errorBody](t, resp)
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q (message %q)", body.Error.Code, tt.wantCode, body.Error.Message)
			}
			if body.Error.Message == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ts := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, "trace-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != "trace-42" {
		t.Errorf("X-Request-ID = %q, want trace-42", got)
	}

	// net/http clients refuse control characters, so serve the request directly.
	bad := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	bad.Header.Set(HeaderRequestID, "bad\x01id")
	rec := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rec, bad)
	got := rec.Header().Get(HeaderRequestID)
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("X-Request-ID = %q, want a fresh UUID", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthAndExtractors(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	health := decode[map[string]any](t, resp)
	if health["status"] != "ok" {
		t.Errorf("healthz = %v", health)
	}

	resp2, err := http.Get(ts.URL + "/v1/extractors")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	list := decode[struct {
		Default    string   `json:"default"`
		Extractors []string `json:"extractors"`
	}](t, resp2)
	if list.Default != pipeline.DefaultExtractor {
		t.Errorf("default = %q", list.Default)
	}
	if diff := cmp.Diff(pipeline.Extractors(), list.Extractors); diff != "" {
		t.Errorf("extractors mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetHTTPHooks(h)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	post(t, ts, "?extractor=nope", testGraph)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.requests != 1 {
		t.Errorf("requests = %d, want 1", h.requests)
	}
	if h.lastStatus != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", h.lastStatus)
	}
}

type recordingHooks struct {
	mu         sync.Mutex
	requests   int
	lastStatus int
}

func (h *recordingHooks) OnRequest(context.Context, string, string, string) {
	h.mu.Lock()
	h.requests++
	h.mu.Unlock()
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	h.lastStatus = status
	h.mu.Unlock()
}
