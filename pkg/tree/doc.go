// Package tree provides the generic row model of a hierarchical table and
// the conversion from flat parent-linked records into nested nodes.
//
// # Overview
//
// A tree table is fed either with nested rows (each row carries its
// children) or with a flat list of rows that name their parent. This
// package defines both shapes over a caller-chosen payload type:
//
//   - [Record]: a flat row with an ID, an optional ParentID and a payload
//   - [Node]: a nested row with an ID, its declared ParentID, a payload and
//     its Children in display order
//
// The payload type is free. Hosts that ingest documents with arbitrary extra
// columns use map[string]any; applications with a fixed schema use their own
// struct. Only the ID, ParentID and Children fields are ever inspected.
//
// # Flat to Tree
//
// [FromFlat] nests records by their ParentID:
//
//	roots := tree.FromFlat(records, tree.Options{})
//
// Records whose ParentID is empty (or equals [Options.RootParentID]) become
// roots in input order, and children are appended to their parent in input
// order. No sorting is imposed and the input slice is never modified.
//
// Malformed input degrades instead of failing:
//   - A record whose parent does not exist is promoted to a root (orphan)
//   - A parent chain that loops is cut once per loop, at the member that
//     appears first in the input, and that member becomes a root
//   - A record that repeats an earlier ID is skipped
//
// Each recovery is reported to [observability.TreeHooks], either the value
// passed in [Options.Hooks] or the globally registered hooks.
//
// # Traversal
//
// [Walk] visits nodes in depth-first pre-order, [Flatten] turns a forest back
// into records whose ParentID reflects the current structure, and [Validate]
// checks that IDs are non-empty and unique before a forest enters the
// reorder engine.
//
// [observability.TreeHooks]: github.com/matzehuels/treetable/pkg/observability#TreeHooks
package tree
