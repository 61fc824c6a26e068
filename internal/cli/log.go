// Package cli implements the treetable command line.
//
// Commands:
//   - build: convert a document between flat and nested layouts
//   - nodes: print the node map of a document
//   - drop: decide, and optionally apply, a single drop
//   - render: draw the node map as DOT, SVG or PNG
//   - tui: reorder rows interactively from the keyboard
//   - serve: host documents over HTTP
//   - cache: manage remembered UI state
//
// Diagnostics go to stderr through a charmbracelet/log logger; pass
// --verbose for debug output. Tree assembly warnings (orphans, cycles,
// duplicate ids) and gesture outcomes reach it via [logHooks].
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, with short wall-clock
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// timed starts a clock. The returned func logs msg at info level with the
// elapsed time appended as a "took" field.
func timed(l *log.Logger) func(msg string, keyvals ...any) {
	start := time.Now()
	return func(msg string, keyvals ...any) {
		took := time.Since(start).Round(time.Millisecond)
		l.Info(msg, append(keyvals, "took", took)...)
	}
}

// =============================================================================
// Hooks
// =============================================================================

// logHooks forwards tree and gesture events to the logger.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnOrphanPromoted(id, parentID string) {
	h.logger.Warn("parent not found, row promoted to root", "id", id, "parent", parentID)
}

func (h *logHooks) OnCycleBroken(id, parentID string) {
	h.logger.Warn("parent cycle broken, row promoted to root", "id", id, "parent", parentID)
}

func (h *logHooks) OnDuplicateID(id string) {
	h.logger.Warn("duplicate id skipped", "id", id)
}

func (h *logHooks) OnDrop(sourceID, targetID, position string, committed bool) {
	if !committed {
		h.logger.Debug("drop blocked", "source", sourceID, "target", targetID)
		return
	}
	h.logger.Info("row moved", "source", sourceID, "target", targetID, "position", position)
}

func (h *logHooks) OnCancel(sourceID string) {
	h.logger.Debug("drag cancelled", "source", sourceID)
}
