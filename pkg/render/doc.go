// Package render draws tree tables as diagrams.
//
// # Overview
//
// Rendering is for inspection: it shows the structure a node map sees,
// which rows are collapsed, and where a pending drop would land. The
// [nodelink] subpackage produces Graphviz node-link diagrams:
//
//	dot := nodelink.ToDOT(m, nodelink.Options{Indicator: &ind})
//	svg, err := nodelink.Render(ctx, dot, nodelink.SVG)
//
// [nodelink]: github.com/matzehuels/treetable/pkg/render/nodelink
package render
