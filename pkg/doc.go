// Package pkg provides the libraries behind treetable, a reorder engine for
// hierarchical tables.
//
// # Overview
//
// A tree table shows nested rows that users expand, collapse and rearrange
// by dragging. The libraries split that job into a pure core and a set of
// adapters:
//
//  1. [tree] - row model and flat-to-nested conversion
//  2. [tree/nodemap] - id-indexed metadata snapshot of a forest
//  3. [dnd] - the drop decision engine
//  4. [dnd/indicator] - observable drop indicator state
//  5. [dnd/gesture] - pointer and keyboard gesture classification
//  6. [reorder] - applies reorder events to a forest
//  7. [io] - JSON and YAML documents, flat or nested
//  8. [render/nodelink] - Graphviz diagrams of a node map
//  9. [cache] - small persistent state such as expanded rows
//
// # Architecture
//
// The typical data flow:
//
//	JSON/YAML document
//	         ↓
//	    [io] package (decode, validate keys, nest flat rows)
//	         ↓
//	    [tree/nodemap] package (levels, siblings, visibility)
//	         ↓
//	    [dnd/gesture] → [dnd] (source, target, raw instruction → result)
//	         ↓
//	    [dnd/indicator] (preview)   [reorder] (commit)
//
// The engine never mutates the tree. Hosts receive a reorder event, apply
// it (with [reorder.Apply] or their own storage) and rebuild the node map.
//
// # Quick Start
//
//	doc, _ := io.ImportFile("rows.json", io.Options{})
//	m := nodemap.Build(doc.Roots, nodemap.ExpandAll(doc.Roots))
//
//	res := dnd.Compute("C", "A", dnd.InstructionMakeChild, m)
//	if !res.Blocked() {
//	    doc.Roots, _ = reorder.Apply(doc.Roots, *res.Event)
//	}
//
// [tree]: github.com/matzehuels/treetable/pkg/tree
// [tree/nodemap]: github.com/matzehuels/treetable/pkg/tree/nodemap
// [dnd]: github.com/matzehuels/treetable/pkg/dnd
// [dnd/indicator]: github.com/matzehuels/treetable/pkg/dnd/indicator
// [dnd/gesture]: github.com/matzehuels/treetable/pkg/dnd/gesture
// [reorder]: github.com/matzehuels/treetable/pkg/reorder
// [reorder.Apply]: github.com/matzehuels/treetable/pkg/reorder#Apply
// [io]: github.com/matzehuels/treetable/pkg/io
// [render/nodelink]: github.com/matzehuels/treetable/pkg/render/nodelink
// [cache]: github.com/matzehuels/treetable/pkg/cache
package pkg
