package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	pkgio "github.com/matzehuels/treetable/pkg/io"
	"github.com/matzehuels/treetable/pkg/tree/nodemap"
)

const tuiRows = `[
  {"id": "A", "parentId": null, "name": "alpha"},
  {"id": "A1", "parentId": "A"},
  {"id": "B", "parentId": null},
  {"id": "C", "parentId": null}
]`

func writeRows(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.json")
	if err := os.WriteFile(path, []byte(tuiRows), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestModel(t *testing.T, expanded ...string) tableModel {
	t.Helper()
	path := writeRows(t)
	doc, err := pkgio.ImportFile(path, pkgio.Options{})
	if err != nil {
		t.Fatalf("ImportFile() error: %v", err)
	}
	return newTableModel(path, doc, nodemap.NewExpanded(expanded...))
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(t *testing.T, m tableModel, keys ...tea.KeyMsg) tableModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(tableModel)
	}
	return m
}

func rootIDs(m tableModel) []string {
	var ids []string
	for _, n := range m.state.doc.Roots {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestTableModelDragAbove(t *testing.T) {
	m := newTestModel(t)

	// Visible: A, B, C. Pick up C and hover the top half of B.
	m = press(t, m, keyDown, keyDown, keyEnter)
	if !m.dragging() {
		t.Fatal("dragging() = false after grab")
	}
	m = press(t, m, keyUp)
	if ind, ok := m.state.ctrl.Store().Get(); ok {
		t.Errorf("indicator over own slot below B = %+v, want none (no-op)", ind)
	}

	m = press(t, m, keyUp)
	ind, ok := m.state.ctrl.Store().Get()
	if !ok || ind.RowID != "B" || ind.Kind != "above" {
		t.Fatalf("indicator = %+v, %v, want B above", ind, ok)
	}
	if !strings.Contains(m.View(), "drop above") {
		t.Error("View() does not show the drop line")
	}

	m = press(t, m, keyEnter)
	if m.dragging() {
		t.Error("dragging() = true after drop")
	}
	if got, want := rootIDs(m), []string{"A", "C", "B"}; !slices.Equal(got, want) {
		t.Errorf("roots = %v, want %v", got, want)
	}
	if !m.state.dirty || m.state.moves != 1 {
		t.Errorf("dirty = %v, moves = %d, want true, 1", m.state.dirty, m.state.moves)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (on C)", m.cursor)
	}
	if _, ok := m.state.ctrl.Store().Get(); ok {
		t.Error("indicator still set after drop")
	}
}

func TestTableModelMakeChild(t *testing.T) {
	m := newTestModel(t, "A")

	// Visible: A, A1, B, C. Pick up A1 and hover B: one level up means make-child.
	m = press(t, m, keyDown, keyEnter, keyDown, keyDown)
	ind, ok := m.state.ctrl.Store().Get()
	if !ok || ind.RowID != "B" || ind.Kind != "make-child" {
		t.Fatalf("indicator = %+v, %v, want B make-child", ind, ok)
	}
	if !strings.Contains(m.View(), "make child") {
		t.Error("View() does not mark the make-child target")
	}

	m = press(t, m, keyEnter)
	roots := m.state.doc.Roots
	if len(roots[0].Children) != 0 {
		t.Errorf("A children = %d, want 0", len(roots[0].Children))
	}
	if len(roots[1].Children) != 1 || roots[1].Children[0].ID != "A1" {
		t.Errorf("B children = %+v, want [A1]", roots[1].Children)
	}
	if !m.state.expanded.Has("B") {
		t.Error("B not expanded after make-child drop")
	}
}

func TestTableModelCancel(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, keyDown, keyDown, keyEnter, keyUp, keyUp, keyEsc)
	if m.dragging() {
		t.Error("dragging() = true after esc")
	}
	if _, ok := m.state.ctrl.Store().Get(); ok {
		t.Error("indicator still set after cancel")
	}
	if got, want := rootIDs(m), []string{"A", "B", "C"}; !slices.Equal(got, want) {
		t.Errorf("roots = %v, want %v", got, want)
	}
}

func TestTableModelToggle(t *testing.T) {
	m := newTestModel(t)
	var saved [][]string
	m.persist = func(ids []string) error {
		saved = append(saved, ids)
		return nil
	}

	if n := len(m.nodes().Visible()); n != 3 {
		t.Fatalf("visible rows = %d, want 3", n)
	}
	m = press(t, m, keySpace)
	if got := m.nodes().Visible(); !slices.Equal(got, []string{"A", "A1", "B", "C"}) {
		t.Errorf("visible after expand = %v", got)
	}
	m = press(t, m, keySpace)
	if n := len(m.nodes().Visible()); n != 3 {
		t.Errorf("visible after collapse = %d, want 3", n)
	}

	if len(saved) != 2 || !slices.Equal(saved[0], []string{"A"}) || len(saved[1]) != 0 {
		t.Errorf("persisted = %v, want [[A] []]", saved)
	}

	m = press(t, m, runeKey('e'))
	if !m.state.expanded.Has("A") {
		t.Error("expand all did not expand A")
	}
	m = press(t, m, runeKey('c'))
	if m.state.expanded.Has("A") {
		t.Error("collapse all left A expanded")
	}
}

func TestTableModelSave(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, keyDown, keyDown, keyEnter, keyUp, keyUp, keyEnter, runeKey('s'))
	if m.state.dirty {
		t.Error("dirty = true after save")
	}

	doc, err := pkgio.ImportFile(m.path, pkgio.Options{})
	if err != nil {
		t.Fatalf("ImportFile() after save error: %v", err)
	}
	var got []string
	for _, n := range doc.Roots {
		got = append(got, n.ID)
	}
	if want := []string{"A", "C", "B"}; !slices.Equal(got, want) {
		t.Errorf("saved roots = %v, want %v", got, want)
	}
	if doc.Layout != pkgio.LayoutFlat {
		t.Errorf("saved layout = %s, want flat", doc.Layout)
	}
}
