package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treetable/pkg/dnd"
	"github.com/matzehuels/treetable/pkg/tree/nodemap"
)

// Options selects what a diagram shows.
type Options struct {
	// Detailed adds the level and any Columns to node labels.
	Detailed bool

	// Labels overrides the display label of rows by id.
	Labels map[string]string

	// Columns holds extra label lines per row id, shown when Detailed.
	Columns map[string]map[string]any

	// VisibleOnly limits the diagram to rows visible in the current
	// expansion state.
	VisibleOnly bool

	// Indicator highlights the row showing a drop hint.
	Indicator *dnd.Indicator

	// SourceID marks the row being dragged.
	SourceID string
}

// ToDOT converts a node map to Graphviz DOT format.
// The result can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(m *nodemap.Map, opts Options) string {
	ids := m.IDs()
	if opts.VisibleOnly {
		ids = m.Visible()
	}
	shown := make(map[string]bool, len(ids))
	for _, id := range ids {
		shown[id] = true
	}

	var b strings.Builder
	b.WriteString("digraph G {\n")
	for _, stmt := range graphDefaults {
		fmt.Fprintf(&b, "  %s;\n", stmt)
	}

	var edges []string
	for _, id := range ids {
		meta, _ := m.Get(id)
		fmt.Fprintf(&b, "  %q [%s];\n", id, strings.Join(fmtAttrs(meta, fmtLabel(meta, opts), opts), ", "))
		for _, c := range meta.ChildIDs {
			if shown[c] {
				edges = append(edges, fmt.Sprintf("  %q -> %q;\n", id, c))
			}
		}
	}
	for _, e := range edges {
		b.WriteString(e)
	}
	b.WriteString("}\n")
	return b.String()
}

// graphDefaults lay rows out top to bottom with children kept in sibling
// order.
var graphDefaults = []string{
	"rankdir=TB",
	"ordering=out",
	`bgcolor="transparent"`,
	`node [shape=box, style="rounded,filled", fillcolor=white, fontsize=24, margin="0.2,0.1"]`,
	"ranksep=0.5",
	"nodesep=0.3",
}

func fmtLabel(meta nodemap.Meta, opts Options) string {
	label := meta.ID
	if l, ok := opts.Labels[meta.ID]; ok && l != "" {
		label = l
	}
	if meta.HasChildren && !meta.IsExpanded {
		label += " +"
	}

	if opts.Detailed {
		parts := []string{fmt.Sprintf("level: %d", meta.Level)}
		cols := opts.Columns[meta.ID]
		for _, k := range slices.Sorted(maps.Keys(cols)) {
			parts = append(parts, fmt.Sprintf("%s: %v", k, cols[k]))
		}
		label += "\n" + strings.Join(parts, "\n")
	}

	if ind := opts.Indicator; ind != nil && ind.RowID == meta.ID {
		switch ind.Kind.Edge() {
		case dnd.EdgeTop:
			label = "▲ drop above\n" + label
		case dnd.EdgeBottom:
			label += "\n▼ drop below"
		}
	}
	return label
}

const dashed = `style="rounded,filled,dashed"`

func fmtAttrs(meta nodemap.Meta, label string, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case meta.ID == opts.SourceID:
		attrs = append(attrs, dashed, "fillcolor=lightgrey")
	case meta.HasChildren && !meta.IsExpanded:
		attrs = append(attrs, dashed)
	}
	if ind := opts.Indicator; ind != nil && ind.RowID == meta.ID {
		attrs = append(attrs, "color=dodgerblue")
		if ind.Kind == dnd.PositionMakeChild {
			attrs = append(attrs, "penwidth=6")
		} else {
			attrs = append(attrs, "penwidth=3")
		}
	}
	return attrs
}

// Format is an output format of [Render].
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// Render lays out a DOT graph with the embedded Graphviz and encodes it.
// SVG output is resized to its view box so it scales in a browser.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case SVG:
		gvFormat = graphviz.SVG
	case PNG:
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("start graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	defer g.Close()

	var out bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &out); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	if format == SVG {
		return fitViewBox(out.Bytes()), nil
	}
	return out.Bytes(), nil
}

var (
	svgOpenTag = regexp.MustCompile(`<svg[^>]*>`)
	svgViewBox = regexp.MustCompile(`viewBox="[0-9.]+\s+[0-9.]+\s+([0-9.]+)\s+([0-9.]+)"`)
)

// fitViewBox replaces the opening svg tag with one whose width and height
// match the view box, dropping Graphviz's point units.
func fitViewBox(svg []byte) []byte {
	m := svgViewBox.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[1]), 64)
	h, _ := strconv.ParseFloat(string(m[2]), 64)
	if w <= 0 || h <= 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgOpenTag.ReplaceAll(svg, []byte(tag))
}
