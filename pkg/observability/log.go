package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level events to a
// charmbracelet logger.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger. A nil logger uses log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

// Register installs h as pipeline, cache and HTTP hooks.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnParseStart(_ context.Context, name string) {
	h.logger.Debug("parse start", "graph", name)
}

func (h *LogHooks) OnParseComplete(_ context.Context, name string, vertices, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "graph", name, "error", err)
		return
	}
	h.logger.Debug("parsed", "graph", name, "vertices", vertices, "edges", edges, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnSolveStart(_ context.Context, name string, vertices int) {
	h.logger.Debug("solve start", "graph", name, "vertices", vertices)
}

func (h *LogHooks) OnSolveComplete(_ context.Context, name string, width, contractions int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("solve failed", "graph", name, "error", err)
		return
	}
	h.logger.Debug("solved", "graph", name, "width", width, "contractions", contractions, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnVerifyComplete(_ context.Context, name string, width int, err error) {
	if err != nil {
		h.logger.Debug("verify failed", "graph", name, "error", err)
		return
	}
	h.logger.Debug("verified", "graph", name, "width", width)
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

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
