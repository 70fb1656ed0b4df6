package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// attendHandler is a slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<sessionID>\t<message>\t<key=value ...>
//
// Records below min are dropped.
type attendHandler struct {
	w         io.Writer
	min       slog.Level
	sessionID string
	attrs     []slog.Attr
}

func (h *attendHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *attendHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")

	if _, err := fmt.Fprintf(h.w, "%s\t%s\t%s\t%s", ts, r.Level, h.sessionID, r.Message); err != nil {
		return err
	}
	for _, a := range h.attrs {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
		return true
	})

	_, err := fmt.Fprintln(h.w)
	return err
}

func (h *attendHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &attendHandler{
		w:         h.w,
		min:       h.min,
		sessionID: h.sessionID,
		attrs:     append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *attendHandler) WithGroup(string) slog.Handler { return h }

// teeHandler sends each record to every handler that accepts its level.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

// newLogger creates a logger writing every level to logDir/attend.log and
// warnings (or everything, when verbose) to stderr. The stderr copy keeps the
// interactive menu readable. It returns the open log file for cleanup.
func newLogger(logDir, sessionID string, verbose bool) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, "attend.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	stderrMin := slog.LevelWarn
	if verbose {
		stderrMin = slog.LevelDebug
	}
	handler := teeHandler{
		&attendHandler{w: f, min: slog.LevelDebug, sessionID: sessionID},
		&attendHandler{w: os.Stderr, min: stderrMin, sessionID: sessionID},
	}
	return slog.New(handler), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy attend.Logger.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
