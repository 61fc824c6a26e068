// Package nodelink renders tree tables as node-link diagrams.
//
// # Overview
//
// Each row becomes a box and each parent-child link an arrow, laid out top
// to bottom with siblings in table order. The diagram is built from a
// [nodemap.Map], so it reflects exactly what the drop engine sees.
//
// # Usage
//
// Convert a node map to DOT, then render it:
//
//	dot := nodelink.ToDOT(m, nodelink.Options{VisibleOnly: true})
//	svg, err := nodelink.Render(ctx, dot, nodelink.SVG)
//
// # Styling
//
// Collapsed rows that have children are drawn dashed with a "+" marker.
// The row named by [Options.Indicator] is highlighted and marked with the
// edge the hint sits on (an arrow above or below the label, or a thick
// outline for make-child). [Options.SourceID] greys out the dragged row.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no Graphviz installation is needed.
//
// [nodemap.Map]: github.com/matzehuels/treetable/pkg/tree/nodemap#Map
package nodelink
