package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug log line. It implements all hook
// interfaces, so one value can be registered for each category.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that write to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnExtractStart(_ context.Context, extractor string, nodeCount int) {
	h.logger.Debug("extract start", "extractor", extractor, "nodes", nodeCount)
}

func (h *LogHooks) OnExtractComplete(_ context.Context, extractor string, classCount int, d time.Duration, err error) {
	h.logger.Debug("extract done", "extractor", extractor, "classes", classCount, "duration", d, "err", err)
}

func (h *LogHooks) OnValidate(_ context.Context, extractor string, err error) {
	h.logger.Debug("validate", "extractor", extractor, "err", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, mode string) {
	h.logger.Debug("render start", "mode", mode)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, mode string, lines int, d time.Duration) {
	h.logger.Debug("render done", "mode", mode, "lines", lines, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.logger.Debug("request", "id", requestID, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, requestID, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "id", requestID, "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
