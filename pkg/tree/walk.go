package tree

import (
	"github.com/matzehuels/treetable/pkg/errors"
)

// Walk visits every node of the forest in depth-first pre-order.
//
// fn receives the node, its depth (roots are at depth 0) and the ID of its
// structural parent (empty for roots). When fn returns false the node's
// children are not visited; its following siblings still are.
func Walk[T any](roots []Node[T], fn func(n Node[T], depth int, parentID string) bool) {
	type frame struct {
		nodes    []Node[T]
		depth    int
		parentID string
	}
	stack := []frame{{nodes: roots}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.nodes) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.nodes[0]
		top.nodes = top.nodes[1:]
		depth := top.depth
		if fn(n, depth, top.parentID) && len(n.Children) > 0 {
			stack = append(stack, frame{nodes: n.Children, depth: depth + 1, parentID: n.ID})
		}
	}
}

// Flatten converts a forest into records in depth-first pre-order.
// Each record's ParentID is the node's structural parent, so FromFlat on the
// result reproduces the forest.
func Flatten[T any](roots []Node[T]) []Record[T] {
	var out []Record[T]
	Walk(roots, func(n Node[T], _ int, parentID string) bool {
		out = append(out, Record[T]{ID: n.ID, ParentID: parentID, Data: n.Data})
		return true
	})
	return out
}

// Count returns the number of nodes in the forest.
func Count[T any](roots []Node[T]) int {
	total := 0
	Walk(roots, func(Node[T], int, string) bool {
		total++
		return true
	})
	return total
}

// Validate checks that every node ID in the forest is a valid, unique key.
// It returns an [errors.ErrCodeInvalidRecord] or [errors.ErrCodeDuplicateID]
// error for the first offending node in pre-order.
func Validate[T any](roots []Node[T]) error {
	seen := make(map[string]bool)
	var err error
	Walk(roots, func(n Node[T], _ int, _ string) bool {
		if err != nil {
			return false
		}
		if verr := errors.ValidateNodeID(n.ID); verr != nil {
			err = verr
			return false
		}
		if seen[n.ID] {
			err = errors.New(errors.ErrCodeDuplicateID, "duplicate node id %q", n.ID)
			return false
		}
		seen[n.ID] = true
		return true
	})
	return err
}
