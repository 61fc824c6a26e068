// Package observability carries recoverable warnings and gesture outcomes
// from library code to whatever host is running it.
//
// The tree builder reports orphans, parent cycles and duplicate ids; the
// gesture controller reports drops and cancels. Both default to no-ops.
// A host registers its own implementation once at startup:
//
//	observability.SetTreeHooks(hooks)
//	observability.SetGestureHooks(hooks)
//
// Code that takes an explicit hooks value (for example [tree.Options.Hooks])
// uses the registered one only when that value is nil.
//
// [tree.Options.Hooks]: github.com/matzehuels/treetable/pkg/tree#Options
package observability

import "sync"

// =============================================================================
// Tree Hooks
// =============================================================================

// TreeHooks receives structural anomalies found while building a tree from
// flat records. Every event is recoverable: the builder has already applied
// its recovery policy when the hook is called.
type TreeHooks interface {
	// OnOrphanPromoted records a record whose declared parent does not exist.
	// The record became a root node.
	OnOrphanPromoted(id, parentID string)

	// OnCycleBroken records a record whose parent chain loops back on itself.
	// The record became a root node, cutting its link to parentID.
	OnCycleBroken(id, parentID string)

	// OnDuplicateID records a record that reuses an id seen earlier in the
	// input. The later record was skipped.
	OnDuplicateID(id string)
}

// =============================================================================
// Gesture Hooks
// =============================================================================

// GestureHooks receives the terminal outcome of drag gestures.
type GestureHooks interface {
	// OnDrop records a drop. committed is false when the drop was blocked
	// (illegal or no-op) and no reorder event was emitted.
	OnDrop(sourceID, targetID, position string, committed bool)

	// OnCancel records a gesture that ended without a drop.
	OnCancel(sourceID string)
}

// NoopTreeHooks discards every event.
type NoopTreeHooks struct{}

func (NoopTreeHooks) OnOrphanPromoted(string, string) {}
func (NoopTreeHooks) OnCycleBroken(string, string)    {}
func (NoopTreeHooks) OnDuplicateID(string)            {}

// NoopGestureHooks discards every event.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnDrop(string, string, string, bool) {}
func (NoopGestureHooks) OnCancel(string)                     {}

var (
	mu           sync.RWMutex
	treeHooks    TreeHooks    = NoopTreeHooks{}
	gestureHooks GestureHooks = NoopGestureHooks{}
)

// SetTreeHooks replaces the registered tree hooks. nil is ignored.
func SetTreeHooks(h TreeHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h != nil {
		treeHooks = h
	}
}

// SetGestureHooks replaces the registered gesture hooks. nil is ignored.
func SetGestureHooks(h GestureHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h != nil {
		gestureHooks = h
	}
}

// Tree returns the registered tree hooks.
func Tree() TreeHooks {
	mu.RLock()
	defer mu.RUnlock()
	return treeHooks
}

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks {
	mu.RLock()
	defer mu.RUnlock()
	return gestureHooks
}

// Reset puts the no-op hooks back. Tests call it in cleanup.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	treeHooks = NoopTreeHooks{}
	gestureHooks = NoopGestureHooks{}
}
