// Package server exposes the extraction pipeline over HTTP.
//
// Routes:
//
//	POST /v1/extract?extractor=NAME&mode=MODE   body: egraph-serialize JSON
//	GET  /v1/extractors
//	GET  /healthz
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// with the error code and message; the status follows errors.HTTPStatus.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/extractgym/pkg/buildinfo"
	"github.com/matzehuels/extractgym/pkg/egraph"
	"github.com/matzehuels/extractgym/pkg/errors"
	graphio "github.com/matzehuels/extractgym/pkg/io"
	"github.com/matzehuels/extractgym/pkg/pipeline"
	"github.com/matzehuels/extractgym/pkg/render"
)

// MaxBodyBytes caps the size of an uploaded graph.
const MaxBodyBytes = 64 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the pipeline API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router

	// Defaults apply when a request names no extractor or mode.
	Defaults pipeline.Options
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/extractors", s.handleExtractors)
		r.Post("/extract", s.handleExtract)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// ExtractResponse is the body of a successful POST /v1/extract.
type ExtractResponse struct {
	RequestID string   `json:"request_id"`
	Extractor string   `json:"extractor"`
	Mode      string   `json:"mode"`
	Lines     []string `json:"lines"`

	// Costs are null when infinite.
	TreeCost *float64 `json:"tree_cost"`
	DagCost  *float64 `json:"dag_cost"`

	CacheHit bool   `json:"cache_hit"`
	Stats    *Stats `json:"stats"`
}

// Stats summarises a run.
type Stats struct {
	Nodes     int   `json:"nodes"`
	Classes   int   `json:"classes"`
	Selected  int   `json:"selected"`
	ExtractMS int64 `json:"extract_ms"`
	RenderMS  int64 `json:"render_ms"`
}

type errorBody struct {
	RequestID string    `json:"request_id,omitempty"`
	Error     errorInfo `json:"error"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts := pipeline.Options{
		Extractor: s.Defaults.Extractor,
		Mode:      s.Defaults.Mode,
		Logger:    s.logger,
	}
	q := r.URL.Query()
	if v := q.Get("extractor"); v != "" {
		opts.Extractor = v
	}
	if v := q.Get("mode"); v != "" {
		opts.Mode = render.Mode(v)
	}
	opts.Refresh = q.Get("refresh") == "true"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := graphio.ReadGraph(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(ctx, g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ExtractResponse{
		RequestID: RequestID(ctx),
		Extractor: opts.Extractor,
		Mode:      string(opts.Mode),
		Lines:     nonNil(res.Lines),
		TreeCost:  finite(res.TreeCost),
		DagCost:   finite(res.DagCost),
		CacheHit:  res.CacheHit,
		Stats: &Stats{
			Nodes:     res.Stats.NodeCount,
			Classes:   res.Stats.ClassCount,
			Selected:  res.Stats.SelectedClasses,
			ExtractMS: res.Stats.ExtractTime.Milliseconds(),
			RenderMS:  res.Stats.RenderTime.Milliseconds(),
		},
	})
}

func (s *Server) handleExtractors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default":    pipeline.DefaultExtractor,
		"extractors": pipeline.Extractors(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	var maxErr *http.MaxBytesError
	if asMaxBytes(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestID(r.Context()), "err", err)
	} else {
		s.logger.Debug("request rejected", "request_id", RequestID(r.Context()), "err", err)
	}

	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, status, errorBody{
		RequestID: RequestID(r.Context()),
		Error:     errorInfo{Code: code, Message: errors.UserMessage(err)},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func finite(c egraph.Cost) *float64 {
	if egraph.IsInfinite(c) {
		return nil
	}
	return &c
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}
