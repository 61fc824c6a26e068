package tree

import (
	"github.com/matzehuels/treetable/pkg/observability"
)

// Record is a flat row that names its parent.
//
// An empty ParentID means the row has no parent (the "null" parent).
// Row ids are never empty; see [Validate].
type Record[T any] struct {
	ID       string // Unique row key
	ParentID string // Declared parent key, empty for root rows
	Data     T      // Caller payload (extra columns)
}

// Node is a nested row.
//
// ParentID holds the parent the row declared when it was ingested. For
// promoted orphans this differs from the node's structural position; use
// [Flatten] to obtain records that reflect the structure.
type Node[T any] struct {
	ID       string    // Unique row key
	ParentID string    // Declared parent key, empty for root rows
	Data     T         // Caller payload (extra columns)
	Children []Node[T] // Child rows in display order
}

// HasChildren reports whether the node has at least one child.
func (n Node[T]) HasChildren() bool { return len(n.Children) > 0 }

// Options configures [FromFlat].
type Options struct {
	// RootParentID is an additional ParentID value that marks a root row,
	// for sources that use a sentinel such as "0" or "root" instead of an
	// empty parent. Empty ParentIDs are always roots.
	RootParentID string

	// Hooks receives recoverable anomalies. When nil, the hooks registered
	// with [observability.SetTreeHooks] are used.
	Hooks observability.TreeHooks
}

func (o Options) isRoot(parentID string) bool {
	return parentID == "" || (o.RootParentID != "" && parentID == o.RootParentID)
}

func (o Options) hooks() observability.TreeHooks {
	if o.Hooks != nil {
		return o.Hooks
	}
	return observability.Tree()
}

// FromFlat nests flat records into a forest.
//
// Roots and children keep their input order. A record whose parent is
// missing becomes a root, a record that repeats an earlier ID is skipped, and
// every loop of parent links is broken by promoting the loop member that
// appears first in the input. Each of these is reported to the hooks and
// processing continues; FromFlat never fails.
//
// The returned nodes are new values; records is not modified.
func FromFlat[T any](records []Record[T], opts Options) []Node[T] {
	hooks := opts.hooks()
	n := len(records)

	index := make(map[string]int, n)
	skip := make([]bool, n)
	for i, r := range records {
		if _, dup := index[r.ID]; dup {
			skip[i] = true
			hooks.OnDuplicateID(r.ID)
			continue
		}
		index[r.ID] = i
	}

	root := make([]bool, n)
	parent := make([]int, n)
	children := make([][]int, n)
	for i, r := range records {
		parent[i] = -1
		if skip[i] {
			continue
		}
		if opts.isRoot(r.ParentID) {
			root[i] = true
			continue
		}
		p, ok := index[r.ParentID]
		if !ok {
			root[i] = true
			hooks.OnOrphanPromoted(r.ID, r.ParentID)
			continue
		}
		parent[i] = p
		children[p] = append(children[p], i)
	}

	placed := make([]bool, n)
	mark := func(start int) {
		stack := []int{start}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			placed[i] = true
			for _, c := range children[i] {
				if !root[c] && !placed[c] {
					stack = append(stack, c)
				}
			}
		}
	}
	for i := range records {
		if root[i] && !skip[i] {
			mark(i)
		}
	}

	// Anything still unplaced hangs off a loop of parent links.
	for i := range records {
		if skip[i] || placed[i] {
			continue
		}
		c := loopEntry(i, parent)
		root[c] = true
		hooks.OnCycleBroken(records[c].ID, records[c].ParentID)
		mark(c)
	}

	var build func(i int) Node[T]
	build = func(i int) Node[T] {
		r := records[i]
		node := Node[T]{ID: r.ID, ParentID: r.ParentID, Data: r.Data}
		for _, c := range children[i] {
			if root[c] {
				continue
			}
			node.Children = append(node.Children, build(c))
		}
		return node
	}

	var roots []Node[T]
	for i := range records {
		if root[i] && !skip[i] {
			roots = append(roots, build(i))
		}
	}
	return roots
}

// loopEntry follows parent links from start until an index repeats and
// returns the loop member with the smallest input index.
func loopEntry(start int, parent []int) int {
	seen := make(map[int]bool)
	i := start
	for !seen[i] {
		seen[i] = true
		i = parent[i]
	}
	first := i
	for j := parent[i]; j != i; j = parent[j] {
		if j < first {
			first = j
		}
	}
	return first
}
