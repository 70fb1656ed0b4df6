package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAttendHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			level:   slog.LevelInfo,
			message: "recognition started",
			want:    "2024-06-15T14:30:45Z\tINFO\tsess-1\trecognition started\n",
		},
		{
			name:    "warn level",
			level:   slog.LevelWarn,
			message: "capture ended early",
			want:    "2024-06-15T14:30:45Z\tWARN\tsess-1\tcapture ended early\n",
		},
		{
			name:    "with record attrs",
			level:   slog.LevelInfo,
			message: "attendance marked",
			attrs:   []slog.Attr{slog.String("student_id", "STU001"), slog.Int("photos", 10)},
			want:    "2024-06-15T14:30:45Z\tINFO\tsess-1\tattendance marked\tstudent_id=STU001\tphotos=10\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &attendHandler{w: &buf, sessionID: "sess-1"}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestAttendHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &attendHandler{w: &buf, sessionID: "s", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "ledger")}).(*attendHandler)
	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "write", 0)
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "a=1\tcomponent=ledger") {
		t.Errorf("expected both pre-set attrs, got: %q", got)
	}
}

func TestAttendHandler_Enabled(t *testing.T) {
	h := &attendHandler{min: slog.LevelWarn}
	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestTeeHandler(t *testing.T) {
	var all, warn bytes.Buffer
	logger := slog.New(teeHandler{
		&attendHandler{w: &all, min: slog.LevelDebug, sessionID: "s"},
		&attendHandler{w: &warn, min: slog.LevelWarn, sessionID: "s"},
	})

	logger.Info("student registered", "student_id", "STU001")
	logger.Warn("camera closed")

	if n := strings.Count(all.String(), "\n"); n != 2 {
		t.Errorf("debug sink got %d lines, want 2", n)
	}
	if got := warn.String(); strings.Contains(got, "student registered") || !strings.Contains(got, "camera closed") {
		t.Errorf("warn sink = %q, want only the warning", got)
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(dir, "test-session", false)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Debug("written to file only")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, "attend.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "\tDEBUG\ttest-session\twritten to file only") {
		t.Errorf("log file = %q", data)
	}
}
