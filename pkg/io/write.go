package io

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treetable/pkg/errors"
	"github.com/matzehuels/treetable/pkg/tree"
)

// WriteTree encodes roots in the nested layout and writes them to w.
func WriteTree(w io.Writer, roots []tree.Node[Row], format Format, opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	return encode(w, format, nestedRows(roots, opts))
}

// WriteRecords encodes roots in the flat layout, in pre-order, and writes
// them to w. Root rows get a null parent, or RootParentID when it is set.
func WriteRecords(w io.Writer, roots []tree.Node[Row], format Format, opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	records := tree.Flatten(roots)
	rows := make([]orderedRow, len(records))
	for i, r := range records {
		var parent any
		switch {
		case r.ParentID != "":
			parent = r.ParentID
		case opts.RootParentID != "":
			parent = opts.RootParentID
		}
		row := orderedRow{{opts.IDKey, r.ID}, {opts.ParentIDKey, parent}}
		rows[i] = appendColumns(row, r.Data)
	}
	return encode(w, format, rows)
}

// Write encodes the document's roots in its own layout.
func (d *Document) Write(w io.Writer, format Format) error {
	if d.Layout == LayoutNested {
		return WriteTree(w, d.Roots, format, d.Options)
	}
	return WriteRecords(w, d.Roots, format, d.Options)
}

// ExportFile writes roots to path in the given layout, inferring the format
// from the extension.
func ExportFile(path string, roots []tree.Node[Row], layout Layout, opts Options) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if layout == LayoutNested {
		return WriteTree(f, roots, format, opts)
	}
	return WriteRecords(f, roots, format, opts)
}

func nestedRows(nodes []tree.Node[Row], opts Options) []orderedRow {
	rows := make([]orderedRow, len(nodes))
	for i, n := range nodes {
		row := appendColumns(orderedRow{{opts.IDKey, n.ID}}, n.Data)
		if len(n.Children) > 0 {
			row = append(row, field{opts.ChildrenKey, nestedRows(n.Children, opts)})
		}
		rows[i] = row
	}
	return rows
}

// field is one key of an encoded row.
type field struct {
	key   string
	value any
}

// orderedRow encodes as an object whose keys keep their order: id, then
// parent, then the columns sorted by name, then children.
type orderedRow []field

func appendColumns(row orderedRow, data Row) orderedRow {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		row = append(row, field{k, data[k]})
	}
	return row
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r orderedRow) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r {
		var v yaml.Node
		if err := v.Encode(f.value); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key}, &v)
	}
	return node, nil
}

func encode(w io.Writer, format Format, rows []orderedRow) error {
	switch format {
	case FormatJSON:
		raw, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		buf.WriteByte('\n')
		_, err = buf.WriteTo(w)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
}
