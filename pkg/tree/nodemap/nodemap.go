package nodemap

import (
	"slices"

	"github.com/matzehuels/treetable/pkg/tree"
)

// Meta describes one node of the tree.
//
// The slices are shared with the [Map] and with sibling entries; callers
// must not modify them.
type Meta struct {
	ID                 string   `json:"id"`                 // Unique row key
	Level              int      `json:"level"`              // Depth from the root set (roots are 0)
	ParentID           string   `json:"parentId,omitempty"` // Structural parent, empty for roots
	ChildIDs           []string `json:"childIds"`           // Immediate children in order, populated when collapsed
	HasChildren        bool     `json:"hasChildren"`        // len(ChildIDs) > 0
	IsExpanded         bool     `json:"isExpanded"`         // HasChildren and the id is in the expanded set
	IndexAmongSiblings int      `json:"indexAmongSiblings"` // Position of ID within SiblingIDs
	SiblingIDs         []string `json:"siblingIds"`         // All ids sharing ParentID, including ID, in order
}

// IsRoot reports whether the node sits at the top level.
func (m Meta) IsRoot() bool { return m.ParentID == "" }

// LastChildID returns the id of the last child, or "" for a leaf.
func (m Meta) LastChildID() string {
	if len(m.ChildIDs) == 0 {
		return ""
	}
	return m.ChildIDs[len(m.ChildIDs)-1]
}

// Map is an immutable id-indexed snapshot of a forest.
//
// The zero value and a nil *Map are empty maps.
type Map struct {
	metas []Meta
	index map[string]int
	roots []string
}

// Build indexes every node reachable from roots.
//
// Nodes are visited in depth-first pre-order and the walk always descends
// into children, whatever the expansion state. When an id occurs more than
// once the first occurrence in pre-order wins and the later node, together
// with its subtree, is left out of the map.
func Build[T any](roots []tree.Node[T], expanded Expanded) *Map {
	type frame struct {
		nodes    []tree.Node[T]
		level    int
		parentID string
		group    int
	}

	m := &Map{index: make(map[string]int)}
	groups := [][]string{nil}
	var siblingGroup, childGroup []int

	stack := []frame{{nodes: roots}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.nodes) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.nodes[0]
		top.nodes = top.nodes[1:]
		level, parentID, g := top.level, top.parentID, top.group

		if _, dup := m.index[n.ID]; dup {
			continue
		}
		i := len(m.metas)
		m.index[n.ID] = i
		m.metas = append(m.metas, Meta{
			ID:                 n.ID,
			Level:              level,
			ParentID:           parentID,
			IndexAmongSiblings: len(groups[g]),
		})
		groups[g] = append(groups[g], n.ID)
		siblingGroup = append(siblingGroup, g)
		childGroup = append(childGroup, -1)

		if len(n.Children) > 0 {
			cg := len(groups)
			groups = append(groups, nil)
			childGroup[i] = cg
			stack = append(stack, frame{nodes: n.Children, level: level + 1, parentID: n.ID, group: cg})
		}
	}

	for g := range groups {
		groups[g] = slices.Clip(groups[g])
	}
	for i := range m.metas {
		meta := &m.metas[i]
		meta.SiblingIDs = groups[siblingGroup[i]]
		if cg := childGroup[i]; cg >= 0 {
			meta.ChildIDs = groups[cg]
		}
		meta.HasChildren = len(meta.ChildIDs) > 0
		meta.IsExpanded = meta.HasChildren && expanded.Has(meta.ID)
	}
	m.roots = groups[0]
	return m
}

// Get returns the entry for id.
func (m *Map) Get(id string) (Meta, bool) {
	if m == nil {
		return Meta{}, false
	}
	i, ok := m.index[id]
	if !ok {
		return Meta{}, false
	}
	return m.metas[i], true
}

// Has reports whether id is in the map.
func (m *Map) Has(id string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[id]
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.metas)
}

// IDs returns every id in depth-first pre-order.
func (m *Map) IDs() []string {
	if m == nil {
		return nil
	}
	ids := make([]string, len(m.metas))
	for i, meta := range m.metas {
		ids[i] = meta.ID
	}
	return ids
}

// Roots returns the ids of the top-level nodes in order.
func (m *Map) Roots() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.roots)
}

// Visible returns, in pre-order, the ids of the rows a table renders: every
// root, and every node whose ancestors are all expanded.
func (m *Map) Visible() []string {
	if m == nil {
		return nil
	}
	shown := make([]bool, len(m.metas))
	var ids []string
	for i, meta := range m.metas {
		if !meta.IsRoot() {
			p := m.index[meta.ParentID]
			if !shown[p] || !m.metas[p].IsExpanded {
				continue
			}
		}
		shown[i] = true
		ids = append(ids, meta.ID)
	}
	return ids
}

// IsAncestor reports whether ancestorID is a strict ancestor of id.
func (m *Map) IsAncestor(ancestorID, id string) bool {
	meta, ok := m.Get(id)
	for ok && meta.ParentID != "" {
		if meta.ParentID == ancestorID {
			return true
		}
		meta, ok = m.Get(meta.ParentID)
	}
	return false
}

// AncestorAtLevel returns the node at the given level on the path from the
// root to id. That node is id itself when id sits at level.
func (m *Map) AncestorAtLevel(id string, level int) (string, bool) {
	meta, ok := m.Get(id)
	for ok && meta.Level > level {
		meta, ok = m.Get(meta.ParentID)
	}
	if !ok || meta.Level != level {
		return "", false
	}
	return meta.ID, true
}

// LastVisibleDescendant follows the last-child chain from id for as long as
// each node is expanded with children and returns the node it stops at. For a
// collapsed node or a leaf that is id itself. Unknown ids are returned as is.
func (m *Map) LastVisibleDescendant(id string) string {
	meta, ok := m.Get(id)
	for ok && meta.IsExpanded {
		id = meta.LastChildID()
		meta, ok = m.Get(id)
	}
	return id
}
