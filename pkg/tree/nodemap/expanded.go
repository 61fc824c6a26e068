package nodemap

import (
	"maps"
	"slices"

	"github.com/matzehuels/treetable/pkg/tree"
)

// Expanded is the set of row ids whose children are shown.
//
// A nil Expanded is valid and contains nothing.
type Expanded map[string]struct{}

// NewExpanded returns a set containing ids.
func NewExpanded(ids ...string) Expanded {
	e := make(Expanded, len(ids))
	for _, id := range ids {
		e[id] = struct{}{}
	}
	return e
}

// ExpandAll returns a set containing every node of roots that has children.
func ExpandAll[T any](roots []tree.Node[T]) Expanded {
	e := make(Expanded)
	tree.Walk(roots, func(n tree.Node[T], _ int, _ string) bool {
		if n.HasChildren() {
			e[n.ID] = struct{}{}
		}
		return true
	})
	return e
}

// Has reports whether id is in the set.
func (e Expanded) Has(id string) bool {
	_, ok := e[id]
	return ok
}

// Toggle flips the membership of id and reports whether it is now expanded.
func (e Expanded) Toggle(id string) bool {
	if e.Has(id) {
		delete(e, id)
		return false
	}
	e[id] = struct{}{}
	return true
}

// IDs returns the members in sorted order.
func (e Expanded) IDs() []string {
	return slices.Sorted(maps.Keys(e))
}

// Clone returns an independent copy of the set.
func (e Expanded) Clone() Expanded {
	if e == nil {
		return make(Expanded)
	}
	return maps.Clone(e)
}
