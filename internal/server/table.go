package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/treetable/pkg/dnd"
	"github.com/matzehuels/treetable/pkg/dnd/gesture"
	pkgio "github.com/matzehuels/treetable/pkg/io"
	"github.com/matzehuels/treetable/pkg/reorder"
	"github.com/matzehuels/treetable/pkg/tree/nodemap"
)

// table is one uploaded document and its drag state.
type table struct {
	id     uuid.UUID
	ctrl   *gesture.Controller
	logger *log.Logger

	mu       sync.Mutex // guards doc, expanded and version
	doc      *pkgio.Document
	expanded nodemap.Expanded
	version  int
}

func newTable(id uuid.UUID, doc *pkgio.Document, expandAll bool, logger *log.Logger) *table {
	t := &table{
		id:       id,
		doc:      doc,
		expanded: nodemap.NewExpanded(),
		logger:   logger.With("table", id.String()[:8]),
	}
	if expandAll {
		t.expanded = nodemap.ExpandAll(doc.Roots)
	}
	t.ctrl = gesture.New(gesture.Config{
		Nodes:     nodemap.Build(doc.Roots, t.expanded),
		OnReorder: t.apply,
	})
	return t
}

// apply commits a reorder event. It runs after the controller has released
// its lock, so it may rebuild the node map. Another drop may have replaced
// the map since ev was decided; ev is skipped unless the current map still
// yields it.
func (t *table) apply(ev dnd.ReorderEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !dnd.Recheck(ev, t.ctrl.Nodes()) {
		t.logger.Warn("stale move skipped", "source", ev.SourceID, "target", ev.TargetID, "position", ev.Position)
		return
	}
	roots, err := reorder.Apply(t.doc.Roots, ev)
	if err != nil {
		t.logger.Warn("move not applied", "source", ev.SourceID, "target", ev.TargetID, "error", err)
		return
	}
	t.doc.Roots = roots
	if ev.Position == dnd.PositionMakeChild {
		t.expanded[ev.TargetID] = struct{}{}
	}
	t.version++
	t.ctrl.SetNodes(nodemap.Build(t.doc.Roots, t.expanded))
}

// setExpanded replaces the expanded ids and rebuilds the node map.
func (t *table) setExpanded(ids []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expanded = nodemap.NewExpanded(ids...)
	t.ctrl.SetNodes(nodemap.Build(t.doc.Roots, t.expanded))
}

// tableView is the JSON body of GET /tables/{id}.
type tableView struct {
	ID        uuid.UUID       `json:"id"`
	Layout    pkgio.Layout    `json:"layout"`
	Version   int             `json:"version"`
	Rows      int             `json:"rows"`
	Expanded  []string        `json:"expanded"`
	Visible   []string        `json:"visible"`
	Nodes     []nodemap.Meta  `json:"nodes"`
	Dragging  *gesture.Source `json:"dragging"`
	Indicator *dnd.Indicator  `json:"indicator"`
}

func (t *table) view(allNodes bool) tableView {
	t.mu.Lock()
	v := tableView{
		ID:       t.id,
		Layout:   t.doc.Layout,
		Version:  t.version,
		Expanded: t.expanded.IDs(),
	}
	t.mu.Unlock()

	m := t.ctrl.Nodes()
	v.Rows = m.Len()
	v.Visible = m.Visible()
	ids := v.Visible
	if allNodes {
		ids = m.IDs()
	}
	v.Nodes = make([]nodemap.Meta, 0, len(ids))
	for _, id := range ids {
		meta, _ := m.Get(id)
		v.Nodes = append(v.Nodes, meta)
	}
	if src, ok := t.ctrl.Source(); ok {
		v.Dragging = &src
	}
	if ind, ok := t.ctrl.Store().Get(); ok {
		v.Indicator = &ind
	}
	return v
}
