package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treetable/pkg/cache"
	"github.com/matzehuels/treetable/pkg/dnd"
	"github.com/matzehuels/treetable/pkg/dnd/gesture"
	pkgio "github.com/matzehuels/treetable/pkg/io"
	"github.com/matzehuels/treetable/pkg/reorder"
	"github.com/matzehuels/treetable/pkg/tree"
	"github.com/matzehuels/treetable/pkg/tree/nodemap"
)

// tuiCommand creates the interactive reorder command.
func (c *CLI) tuiCommand() *cobra.Command {
	var noState bool

	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Reorder rows interactively",
		Long: `Tui opens a document as an interactive tree table.

Press enter to pick up a row, move the pointer with the arrow keys (each row
has a top and a bottom half), and press enter again to drop. The row that
would receive the drop shows the indicator. Press s to save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			doc, err := c.loadDocument(path)
			if err != nil {
				return err
			}

			store, err := c.newCache(c.config.TUI.PersistState && !noState)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			docKey := cache.DocumentKey(path)
			expanded := c.expansion(doc.Roots, false, nil)
			if ids, ok, err := cache.LoadExpanded(ctx, store, docKey); err != nil {
				c.Logger.Warn("could not restore expanded rows", "error", err)
			} else if ok {
				expanded = nodemap.NewExpanded(ids...)
				c.Logger.Debug("restored expanded rows", "count", len(ids))
			}

			m := newTableModel(path, doc, expanded)
			m.persist = func(ids []string) error {
				return cache.SaveExpanded(ctx, store, docKey, ids)
			}

			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			return reportSession(c.Logger, final.(tableModel))
		},
	}

	cmd.Flags().BoolVar(&noState, "no-state", false, "do not restore or remember expanded rows")

	return cmd
}

func reportSession(logger *log.Logger, m tableModel) error {
	switch {
	case m.state.dirty:
		printWarning("%d unsaved move(s) discarded", m.state.moves)
	case m.state.moves > 0:
		printSuccess("Saved %d move(s)", m.state.moves)
		printFile(m.path)
	}
	logger.Debug("tui closed", "moves", m.state.moves)
	return nil
}

// =============================================================================
// Key Bindings
// =============================================================================

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Grab        key.Binding
	Cancel      key.Binding
	Save        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "tab"), key.WithHelp("space", "expand/collapse")),
		ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse all")),
		Grab:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "grab/drop")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Save:        key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) helpLine(dragging bool) string {
	bindings := []key.Binding{k.Up, k.Down, k.Toggle, k.Grab, k.Save, k.Quit}
	if dragging {
		bindings = []key.Binding{k.Up, k.Down, k.Grab, k.Cancel}
	}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = h.Key + " " + h.Desc
	}
	return strings.Join(parts, "  ")
}

// =============================================================================
// Table State
// =============================================================================

// tableState is the mutable document behind a tableModel. The gesture
// controller calls apply for every committed drop.
type tableState struct {
	doc      *pkgio.Document
	expanded nodemap.Expanded
	ctrl     *gesture.Controller
	rows     map[string]pkgio.Row
	dirty    bool
	moves    int
	lastErr  error
}

func (s *tableState) rebuild() {
	s.ctrl.SetNodes(nodemap.Build(s.doc.Roots, s.expanded))
	s.rows = make(map[string]pkgio.Row, len(s.rows))
	tree.Walk(s.doc.Roots, func(n tree.Node[pkgio.Row], _ int, _ string) bool {
		s.rows[n.ID] = n.Data
		return true
	})
}

func (s *tableState) apply(ev dnd.ReorderEvent) {
	roots, err := reorder.Apply(s.doc.Roots, ev)
	if err != nil {
		s.lastErr = err
		return
	}
	s.doc.Roots = roots
	s.dirty = true
	s.moves++
	if ev.Position == dnd.PositionMakeChild {
		s.expanded[ev.TargetID] = struct{}{}
	}
	s.rebuild()
}

// =============================================================================
// Table Model
// =============================================================================

var (
	styleRow       = lipgloss.NewStyle().Foreground(colorWhite)
	styleCursor    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleSource    = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	styleDropLine  = lipgloss.NewStyle().Foreground(colorBlue)
	styleDropChild = lipgloss.NewStyle().Foreground(colorBlue).Bold(true).Underline(true)
	styleColumns   = lipgloss.NewStyle().Foreground(colorGray)
)

// tableModel is the bubbletea model of the tui command.
type tableModel struct {
	path    string
	state   *tableState
	keys    keyMap
	persist func(ids []string) error

	cursor int // index into the visible rows
	slot   int // pointer while dragging: row slot/2, top half when even
	offset int
	height int

	status string
}

func newTableModel(path string, doc *pkgio.Document, expanded nodemap.Expanded) tableModel {
	state := &tableState{doc: doc, expanded: expanded}
	state.ctrl = gesture.New(gesture.Config{
		OnReorder: state.apply,
		Hooks:     statusHooks{},
	})
	state.rebuild()
	return tableModel{
		path:   path,
		state:  state,
		keys:   defaultKeyMap(),
		height: 20,
	}
}

// statusHooks keeps gesture events off the terminal while the alternate
// screen is active; the model reports outcomes in its status line.
type statusHooks struct{}

func (statusHooks) OnDrop(string, string, string, bool) {}
func (statusHooks) OnCancel(string)                     {}

func (m tableModel) Init() tea.Cmd { return nil }

func (m tableModel) nodes() *nodemap.Map { return m.state.ctrl.Nodes() }

func (m tableModel) dragging() bool {
	_, ok := m.state.ctrl.Source()
	return ok
}

func (m tableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-5, 3)
		return m.scrolled(), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m tableModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.nodes().Visible()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state.ctrl.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.dragging() {
			m.slot = max(m.slot-1, 0)
			m = m.hover(visible)
		} else {
			m.cursor = max(m.cursor-1, 0)
		}

	case key.Matches(msg, m.keys.Down):
		if m.dragging() {
			m.slot = min(m.slot+1, 2*len(visible)-1)
			m = m.hover(visible)
		} else {
			m.cursor = max(min(m.cursor+1, len(visible)-1), 0)
		}

	case key.Matches(msg, m.keys.Grab):
		if len(visible) == 0 {
			break
		}
		if m.dragging() {
			m = m.drop(visible)
			break
		}
		src, err := m.state.ctrl.Begin(visible[m.cursor])
		if err != nil {
			m.status = err.Error()
			break
		}
		m.slot = 2 * m.cursor
		m.status = "dragging " + src.ID
		m = m.hover(visible)

	case key.Matches(msg, m.keys.Cancel):
		if m.dragging() {
			m.state.ctrl.Cancel()
			m.status = "drag cancelled"
		}

	case m.dragging():
		// Structure changes are locked while a row is held.

	case key.Matches(msg, m.keys.Toggle):
		if len(visible) == 0 {
			break
		}
		if meta, _ := m.nodes().Get(visible[m.cursor]); meta.HasChildren {
			m.state.expanded.Toggle(meta.ID)
			m = m.expansionChanged(meta.ID)
		}

	case key.Matches(msg, m.keys.ExpandAll):
		m.state.expanded = nodemap.ExpandAll(m.state.doc.Roots)
		m = m.expansionChanged(m.cursorID(visible))

	case key.Matches(msg, m.keys.CollapseAll):
		m.state.expanded = nodemap.NewExpanded()
		m = m.expansionChanged("")

	case key.Matches(msg, m.keys.Save):
		if err := pkgio.ExportFile(m.path, m.state.doc.Roots, m.state.doc.Layout, m.state.doc.Options); err != nil {
			m.status = "save failed: " + err.Error()
			break
		}
		m.state.dirty = false
		m.status = "saved " + m.path
	}

	return m.scrolled(), nil
}

// hover moves the virtual pointer to the row and half under slot.
func (m tableModel) hover(visible []string) tableModel {
	if len(visible) == 0 {
		return m
	}
	row := m.slot / 2
	if _, err := m.state.ctrl.Move(visible[row], slotEdge(m.slot)); err != nil {
		m.status = err.Error()
	}
	m.cursor = row
	return m
}

func (m tableModel) drop(visible []string) tableModel {
	src, _ := m.state.ctrl.Source()
	res, err := m.state.ctrl.Drop(visible[m.slot/2], slotEdge(m.slot))
	switch {
	case err != nil:
		m.status = err.Error()
		return m
	case m.state.lastErr != nil:
		m.status = "move failed: " + m.state.lastErr.Error()
		m.state.lastErr = nil
		return m
	case res.Blocked():
		m.status = "drop blocked"
		return m
	}
	m.status = fmt.Sprintf("moved %s %s %s", res.Event.SourceID, res.Event.Position, res.Event.TargetID)
	visible = m.nodes().Visible()
	if i := slices.Index(visible, src.ID); i >= 0 {
		m.cursor = i
	}
	m.cursor = max(min(m.cursor, len(visible)-1), 0)
	return m.persistExpanded()
}

// expansionChanged rebuilds the node map, keeps the cursor on keepID when it
// is still visible and remembers the expanded set.
func (m tableModel) expansionChanged(keepID string) tableModel {
	m.state.rebuild()
	visible := m.nodes().Visible()
	if i := slices.Index(visible, keepID); i >= 0 {
		m.cursor = i
	}
	m.cursor = max(min(m.cursor, len(visible)-1), 0)
	return m.persistExpanded()
}

func (m tableModel) persistExpanded() tableModel {
	if m.persist == nil {
		return m
	}
	if err := m.persist(m.state.expanded.IDs()); err != nil {
		m.status = "could not remember expanded rows: " + err.Error()
	}
	return m
}

func (m tableModel) cursorID(visible []string) string {
	if m.cursor < len(visible) {
		return visible[m.cursor]
	}
	return ""
}

func (m tableModel) scrolled() tableModel {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m
}

func slotEdge(slot int) dnd.Edge {
	if slot%2 == 0 {
		return dnd.EdgeTop
	}
	return dnd.EdgeBottom
}

func (m tableModel) View() string {
	var b strings.Builder

	title := styleTitle.Render(appName) + "  " + styleValue.Render(m.path)
	if m.state.dirty {
		title += "  " + styleWarn.Render("modified")
	}
	b.WriteString(title + "\n\n")

	nodes := m.nodes()
	visible := nodes.Visible()
	src, dragging := m.state.ctrl.Source()
	store := m.state.ctrl.Store()

	end := min(m.offset+m.height, len(visible))
	for i := m.offset; i < end; i++ {
		meta, _ := nodes.Get(visible[i])
		indent := strings.Repeat("  ", meta.Level)
		kind, hinted := store.ForRow(meta.ID)

		if hinted && kind.Edge() == dnd.EdgeTop {
			b.WriteString("  " + indent + styleDropLine.Render("──── drop above") + "\n")
		}

		marker := "  "
		switch {
		case meta.HasChildren && meta.IsExpanded:
			marker = "▾ "
		case meta.HasChildren:
			marker = "▸ "
		}
		line := indent + marker + meta.ID
		if cols := rowColumns(m.state, meta.ID); cols != "" {
			line += "  " + styleColumns.Render(cols)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		style := styleRow
		switch {
		case dragging && meta.ID == src.ID:
			style = styleSource
		case hinted && kind == dnd.PositionMakeChild:
			style = styleDropChild
			line += "  ⤷ make child"
		case i == m.cursor:
			style = styleCursor
		}
		b.WriteString(cursor + style.Render(line) + "\n")

		if hinted && kind.Edge() == dnd.EdgeBottom {
			b.WriteString("  " + indent + styleDropLine.Render("──── drop below") + "\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(styleMuted.Render(m.status) + "\n")
	}
	b.WriteString(styleMuted.Render(m.keys.helpLine(dragging)))
	return b.String()
}

// rowColumns formats the first few columns of a row as "key=value".
func rowColumns(s *tableState, id string) string {
	data := s.rows[id]
	if len(data) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(data))
	if len(keys) > 3 {
		keys = keys[:3]
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, data[k])
	}
	return strings.Join(parts, " ")
}
