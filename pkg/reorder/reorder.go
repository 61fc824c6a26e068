// Package reorder applies drop results to nested tree data.
//
// The drop engine in [dnd] only describes a move. Hosts that keep their rows
// in memory use [Apply] to carry the move out: the source row, together with
// its subtree, is detached from its parent and inserted above, below or as
// the last child of the target.
//
//	roots, err = reorder.Apply(roots, *result.Event)
//
// Apply returns a new forest and leaves the input untouched, so the caller
// can keep the previous snapshot for undo or diffing. After applying, build a
// fresh [nodemap.Map] from the returned forest.
//
// [nodemap.Map]: github.com/matzehuels/treetable/pkg/tree/nodemap#Map
package reorder

import (
	"errors"
	"fmt"

	"github.com/matzehuels/treetable/pkg/dnd"
	"github.com/matzehuels/treetable/pkg/tree"
)

var (
	// ErrUnknownNode is returned by [Apply] when the source or target of the
	// event is not in the forest.
	ErrUnknownNode = errors.New("unknown node")

	// ErrCycle is returned by [Apply] when the event would move a node onto
	// itself or into its own subtree.
	ErrCycle = errors.New("move would create a cycle")

	// ErrUnknownPosition is returned by [Apply] for positions other than
	// above, below and make-child.
	ErrUnknownPosition = errors.New("unknown position")
)

// Apply moves ev.SourceID relative to ev.TargetID and returns the new forest.
//
// The moved node's ParentID is set to its new structural parent (empty at
// the top level). Every other node keeps its fields. Sibling order is
// preserved apart from the moved node.
func Apply[T any](roots []tree.Node[T], ev dnd.ReorderEvent) ([]tree.Node[T], error) {
	switch ev.Position {
	case dnd.PositionAbove, dnd.PositionBelow, dnd.PositionMakeChild:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPosition, ev.Position)
	}

	source, ok := find(roots, ev.SourceID)
	if !ok {
		return nil, fmt.Errorf("%w: source %q", ErrUnknownNode, ev.SourceID)
	}
	if _, ok := find(roots, ev.TargetID); !ok {
		return nil, fmt.Errorf("%w: target %q", ErrUnknownNode, ev.TargetID)
	}
	if ev.SourceID == ev.TargetID {
		return nil, fmt.Errorf("%w: %q onto itself", ErrCycle, ev.SourceID)
	}
	if _, inside := find(source.Children, ev.TargetID); inside {
		return nil, fmt.Errorf("%w: %q into its own subtree", ErrCycle, ev.SourceID)
	}

	rest := detach(roots, ev.SourceID)
	placed := false
	return attach(rest, "", source, ev, &placed), nil
}

// find returns the first node with id in pre-order.
func find[T any](nodes []tree.Node[T], id string) (tree.Node[T], bool) {
	var found tree.Node[T]
	var ok bool
	tree.Walk(nodes, func(n tree.Node[T], _ int, _ string) bool {
		if ok {
			return false
		}
		if n.ID == id {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// detach copies nodes without the first node named id.
func detach[T any](nodes []tree.Node[T], id string) []tree.Node[T] {
	out := make([]tree.Node[T], 0, len(nodes))
	removed := false
	for _, n := range nodes {
		if !removed && n.ID == id {
			removed = true
			continue
		}
		if len(n.Children) > 0 {
			n.Children = detach(n.Children, id)
			if len(n.Children) == 0 {
				n.Children = nil
			}
		}
		out = append(out, n)
	}
	return out
}

// attach copies nodes with source inserted next to or under the target.
func attach[T any](nodes []tree.Node[T], parentID string, source tree.Node[T], ev dnd.ReorderEvent, placed *bool) []tree.Node[T] {
	out := make([]tree.Node[T], 0, len(nodes)+1)
	for _, n := range nodes {
		if *placed || n.ID != ev.TargetID {
			if !*placed && len(n.Children) > 0 {
				n.Children = attach(n.Children, n.ID, source, ev, placed)
			}
			out = append(out, n)
			continue
		}
		*placed = true
		switch ev.Position {
		case dnd.PositionAbove:
			source.ParentID = parentID
			out = append(out, source, n)
		case dnd.PositionBelow:
			source.ParentID = parentID
			out = append(out, n, source)
		case dnd.PositionMakeChild:
			source.ParentID = n.ID
			children := make([]tree.Node[T], 0, len(n.Children)+1)
			n.Children = append(append(children, n.Children...), source)
			out = append(out, n)
		}
	}
	return out
}
