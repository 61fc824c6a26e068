package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treetable/pkg/observability"
)

var (
	_ observability.TreeHooks    = (*logHooks)(nil)
	_ observability.GestureHooks = (*logHooks)(nil)
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("x") }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("x") }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("x") }, true},
		{log.WarnLevel, func(l *log.Logger) { l.Info("x") }, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.emit(newLogger(&buf, tt.level))
		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("level %s: wrote output = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestTimed(t *testing.T) {
	var buf bytes.Buffer
	done := timed(newLogger(&buf, log.InfoLevel))
	done("loaded", "rows", 3)

	out := buf.String()
	for _, want := range []string{"loaded", "rows=3", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("timed() output = %q, want %q", out, want)
		}
	}
}

func TestLogHooks(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(h *logHooks)
		want  string
	}{
		{"orphan", log.InfoLevel, func(h *logHooks) { h.OnOrphanPromoted("a", "ghost") }, "ghost"},
		{"cycle", log.InfoLevel, func(h *logHooks) { h.OnCycleBroken("a", "b") }, "cycle"},
		{"duplicate", log.InfoLevel, func(h *logHooks) { h.OnDuplicateID("a") }, "duplicate"},
		{"committed drop", log.InfoLevel, func(h *logHooks) { h.OnDrop("a", "b", "below", true) }, "row moved"},
		{"blocked drop hidden", log.InfoLevel, func(h *logHooks) { h.OnDrop("a", "b", "", false) }, ""},
		{"blocked drop verbose", log.DebugLevel, func(h *logHooks) { h.OnDrop("a", "b", "", false) }, "drop blocked"},
		{"cancel verbose", log.DebugLevel, func(h *logHooks) { h.OnCancel("a") }, "drag cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(&logHooks{logger: newLogger(&buf, tt.level)})
			got := buf.String()
			if tt.want == "" {
				if got != "" {
					t.Errorf("output = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
