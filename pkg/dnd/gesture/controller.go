package gesture

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/treetable/pkg/dnd"
	"github.com/matzehuels/treetable/pkg/dnd/indicator"
	"github.com/matzehuels/treetable/pkg/observability"
	"github.com/matzehuels/treetable/pkg/tree/nodemap"
)

var (
	// ErrNoGesture is returned when Move or Drop is called with no drag in
	// progress.
	ErrNoGesture = errors.New("no drag in progress")

	// ErrUnknownSource is returned by [Controller.Begin] when the row is not
	// in the current node map.
	ErrUnknownSource = errors.New("unknown drag source")
)

// Source is the drag payload captured when a gesture starts.
type Source struct {
	ID       string `json:"id"`
	Index    int    `json:"index"`
	Level    int    `json:"level"`
	ParentID string `json:"parentId"`
}

// Config holds the dependencies of a [Controller].
type Config struct {
	// Nodes is the initial node map snapshot.
	Nodes *nodemap.Map

	// Store receives the indicator. A new store is created when nil.
	Store *indicator.Store

	// OnReorder is called with the event of every committed drop. It runs
	// after the controller has released its lock and may call SetNodes.
	OnReorder func(dnd.ReorderEvent)

	// Hooks receives gesture outcomes. When nil, the hooks registered with
	// [observability.SetGestureHooks] are used.
	Hooks observability.GestureHooks
}

// Controller runs drag gestures for one tree table.
//
// All methods are safe for concurrent use. Store listeners must not call
// back into the controller.
type Controller struct {
	nodes     atomic.Pointer[nodemap.Map]
	store     *indicator.Store
	onReorder func(dnd.ReorderEvent)
	hooks     observability.GestureHooks

	mu     sync.Mutex
	source *Source
}

// New returns a controller with no gesture in progress.
func New(cfg Config) *Controller {
	c := &Controller{
		store:     cfg.Store,
		onReorder: cfg.OnReorder,
		hooks:     cfg.Hooks,
	}
	if c.store == nil {
		c.store = indicator.New()
	}
	c.nodes.Store(cfg.Nodes)
	return c
}

// Store returns the indicator store the controller writes to.
func (c *Controller) Store() *indicator.Store { return c.store }

// Nodes returns the current node map snapshot.
func (c *Controller) Nodes() *nodemap.Map { return c.nodes.Load() }

// SetNodes replaces the node map snapshot. A gesture in progress keeps its
// captured source and sees the new map on its next Move or Drop.
func (c *Controller) SetNodes(m *nodemap.Map) { c.nodes.Store(m) }

// Begin starts a gesture dragging sourceID, replacing any gesture in
// progress, and returns the captured payload.
func (c *Controller) Begin(sourceID string) (Source, error) {
	meta, ok := c.Nodes().Get(sourceID)
	if !ok {
		return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, sourceID)
	}
	src := Source{
		ID:       meta.ID,
		Index:    meta.IndexAmongSiblings,
		Level:    meta.Level,
		ParentID: meta.ParentID,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = &src
	c.store.Clear()
	return src, nil
}

// Source returns the payload of the gesture in progress.
func (c *Controller) Source() (Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return Source{}, false
	}
	return *c.source, true
}

// Move handles the pointer entering or moving over targetID near edge. The
// indicator is updated to the computed result, or cleared when the position
// carries no instruction or the drop is blocked.
func (c *Controller) Move(targetID string, edge dnd.Edge) (dnd.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return dnd.Result{}, ErrNoGesture
	}
	res := c.compute(*c.source, targetID, edge)
	c.store.Set(res.Indicator)
	return res, nil
}

// Leave handles the pointer leaving the hovered row.
func (c *Controller) Leave() {
	c.store.Clear()
}

// Cancel ends the gesture without a drop.
func (c *Controller) Cancel() {
	c.mu.Lock()
	src := c.source
	c.source = nil
	c.store.Clear()
	c.mu.Unlock()

	if src != nil {
		c.gestureHooks().OnCancel(src.ID)
	}
}

// Drop ends the gesture over targetID near edge. The indicator is cleared
// first; when the drop is not blocked its event is passed to OnReorder.
func (c *Controller) Drop(targetID string, edge dnd.Edge) (dnd.Result, error) {
	c.mu.Lock()
	if c.source == nil {
		c.mu.Unlock()
		return dnd.Result{}, ErrNoGesture
	}
	src := *c.source
	c.source = nil
	c.store.Clear()
	res := c.compute(src, targetID, edge)
	c.mu.Unlock()

	committed := !res.Blocked()
	pos := ""
	if committed {
		pos = string(res.Event.Position)
	}
	c.gestureHooks().OnDrop(src.ID, targetID, pos, committed)
	if committed && c.onReorder != nil {
		c.onReorder(*res.Event)
	}
	return res, nil
}

func (c *Controller) compute(src Source, targetID string, edge dnd.Edge) dnd.Result {
	m := c.Nodes()
	target, ok := m.Get(targetID)
	if !ok {
		return dnd.Result{}
	}
	instr, ok := Classify(src.Level, target.Level, edge)
	if !ok {
		return dnd.Result{}
	}
	return dnd.Compute(src.ID, targetID, instr, m)
}

func (c *Controller) gestureHooks() observability.GestureHooks {
	if c.hooks != nil {
		return c.hooks
	}
	return observability.Gesture()
}
