package sdftext

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/sdftext/internal/gpu"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

// live tracks open renderers so SetLogger reaches their font atlases.
var (
	liveMu sync.Mutex
	live   = make(map[*Renderer]struct{})
)

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for sdftext and all its sub-packages.
// By default, sdftext produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by sdftext:
//   - [slog.LevelDebug]: glyph generation, atlas pages, evictions, GPU objects
//   - [slog.LevelWarn]: characters drawn with a fallback or placeholder glyph
//
// Example:
//
//	sdftext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)

	liveMu.Lock()
	defer liveMu.Unlock()
	for r := range live {
		r.setLogger(l)
	}
}

// Logger returns the current logger used by sdftext.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func register(r *Renderer) {
	liveMu.Lock()
	live[r] = struct{}{}
	liveMu.Unlock()
}

func unregister(r *Renderer) {
	liveMu.Lock()
	delete(live, r)
	liveMu.Unlock()
}
