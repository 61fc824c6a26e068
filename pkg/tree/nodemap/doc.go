// Package nodemap flattens a nested tree into an id-indexed snapshot.
//
// # Overview
//
// A [Map] holds one [Meta] entry per node: its depth, its parent, its
// children and its position among its siblings. Drop decisions only ever
// look rows up by id, so the map is the single structure the decision
// engine consumes.
//
// The map is complete regardless of expansion state. Collapsed subtrees are
// still indexed so that ancestry checks and no-op checks work for rows that
// are not currently rendered. [Meta.IsExpanded] records whether a row is open
// but never hides its descendants from the map.
//
// # Building
//
// [Build] walks the forest in depth-first pre-order starting at level 0:
//
//	expanded := nodemap.NewExpanded("1")
//	m := nodemap.Build(roots, expanded)
//	meta, ok := m.Get("2")
//
// A Map is immutable once built. When the data or the expanded set changes,
// build a new one; there is no incremental update.
//
// # Storage
//
// Entries live in a slice in pre-order with a separate id to index table.
// Parent links are ids, not pointers, so walking towards the root is a
// sequence of lookups and a Map can be shared between goroutines without
// copying.
//
// # Queries
//
// Besides [Map.Get], the map answers the structural questions the drop
// engine asks: [Map.IsAncestor], [Map.AncestorAtLevel] and
// [Map.LastVisibleDescendant]. [Map.Visible] lists the rows a table would
// render for the current expansion state.
package nodemap
