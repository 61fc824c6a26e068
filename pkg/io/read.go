package io

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treetable/pkg/errors"
	"github.com/matzehuels/treetable/pkg/tree"
)

// Row holds the columns of a row other than its id, parent and children.
type Row = map[string]any

// Document is a decoded tree table.
type Document struct {
	Roots   []tree.Node[Row] // Rows as a forest
	Layout  Layout           // Layout the rows were read in
	Options Options          // Field keys the rows were read with
}

// ReadDocument decodes a document in the given format from r.
//
// Errors carry codes from [errors]: ErrCodeInvalidInput for bad options,
// ErrCodeInvalidFormat when the input is not valid JSON or YAML, and
// ErrCodeInvalidRecord or ErrCodeDuplicateID when a row is malformed.
// ReadDocument does not close r.
func ReadDocument(r io.Reader, format Format, opts Options) (*Document, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	var raw any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		err = dec.Decode(&raw)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&raw)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	if err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s document", format)
	}

	rows, err := rowList(raw)
	if err != nil {
		return nil, err
	}
	doc := &Document{Options: opts, Layout: LayoutFlat}
	if isNested(rows, opts) {
		doc.Layout = LayoutNested
		doc.Roots, err = nestedNodes(rows, "", "rows", opts)
		if err != nil {
			return nil, err
		}
		if err := tree.Validate(doc.Roots); err != nil {
			return nil, err
		}
		return doc, nil
	}

	records, err := flatRecords(rows, opts)
	if err != nil {
		return nil, err
	}
	doc.Roots = tree.FromFlat(records, tree.Options{RootParentID: opts.RootParentID, Hooks: opts.Hooks})
	return doc, nil
}

// ImportFile reads the document at path, inferring the format from its
// extension. A missing file is an [errors.ErrCodeFileNotFound] error.
func ImportFile(path string, opts Options) (*Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f, format, opts)
}

// rowList accepts either a list of rows or an object with a "rows" list.
func rowList(raw any) ([]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	case map[string]any:
		rows, ok := v["rows"]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "document object has no \"rows\" field")
		}
		if rows == nil {
			return nil, nil
		}
		list, ok := rows.([]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "\"rows\" must be a list, got %s", typeName(rows))
		}
		return list, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "document must be a list of rows, got %s", typeName(raw))
}

// isNested reports whether some row has a non-empty children list. Rows
// with a null or empty children value say nothing about the layout.
func isNested(rows []any, opts Options) bool {
	for _, r := range rows {
		if obj, ok := r.(map[string]any); ok {
			if children, ok := obj[opts.ChildrenKey].([]any); ok && len(children) > 0 {
				return true
			}
		}
	}
	return false
}

func flatRecords(rows []any, opts Options) ([]tree.Record[Row], error) {
	records := make([]tree.Record[Row], 0, len(rows))
	for i, r := range rows {
		where := fmt.Sprintf("rows[%d]", i)
		obj, ok := r.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidRecord, "%s: expected an object, got %s", where, typeName(r))
		}
		id, err := rowID(obj, where, opts)
		if err != nil {
			return nil, err
		}
		parent, err := optionalKey(obj[opts.ParentIDKey])
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidRecord, "%s: %s %v", where, opts.ParentIDKey, err)
		}
		switch children := obj[opts.ChildrenKey].(type) {
		case nil, []any:
		default:
			return nil, errors.New(errors.ErrCodeInvalidRecord, "%s: %s must be a list, got %s",
				where, opts.ChildrenKey, typeName(children))
		}
		records = append(records, tree.Record[Row]{ID: id, ParentID: parent, Data: columns(obj, opts)})
	}
	return records, nil
}

func nestedNodes(rows []any, parentID, where string, opts Options) ([]tree.Node[Row], error) {
	nodes := make([]tree.Node[Row], 0, len(rows))
	for i, r := range rows {
		at := fmt.Sprintf("%s[%d]", where, i)
		obj, ok := r.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidRecord, "%s: expected an object, got %s", at, typeName(r))
		}
		id, err := rowID(obj, at, opts)
		if err != nil {
			return nil, err
		}
		if err := nestedParent(obj, parentID, at, opts); err != nil {
			return nil, err
		}
		n := tree.Node[Row]{ID: id, ParentID: parentID, Data: columns(obj, opts)}
		switch children := obj[opts.ChildrenKey].(type) {
		case nil:
		case []any:
			if len(children) > 0 {
				n.Children, err = nestedNodes(children, id, at+"."+opts.ChildrenKey, opts)
				if err != nil {
					return nil, err
				}
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidRecord, "%s: %s must be a list, got %s",
				at, opts.ChildrenKey, typeName(children))
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// nestedParent rejects a parent id that disagrees with where the row sits
// in a nested document. Roots may carry the configured root parent id.
func nestedParent(obj map[string]any, parentID, at string, opts Options) error {
	parent, err := optionalKey(obj[opts.ParentIDKey])
	if err != nil {
		return errors.New(errors.ErrCodeInvalidRecord, "%s: %s %v", at, opts.ParentIDKey, err)
	}
	if parent == "" || parent == parentID || (parentID == "" && parent == opts.RootParentID) {
		return nil
	}
	if parentID == "" {
		return errors.New(errors.ErrCodeInvalidRecord,
			"%s: %s %q on a top-level row of a nested document", at, opts.ParentIDKey, parent)
	}
	return errors.New(errors.ErrCodeInvalidRecord,
		"%s: %s %q but nested under %q", at, opts.ParentIDKey, parent, parentID)
}

func rowID(obj map[string]any, where string, opts Options) (string, error) {
	v, ok := obj[opts.IDKey]
	if !ok || v == nil {
		return "", errors.New(errors.ErrCodeInvalidRecord, "%s: missing %s", where, opts.IDKey)
	}
	id, err := optionalKey(v)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidRecord, "%s: %s %v", where, opts.IDKey, err)
	}
	if err := errors.ValidateNodeID(id); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRecord, err, "%s", where)
	}
	return id, nil
}

// optionalKey converts an id value to a string; nil becomes "".
func optionalKey(v any) (string, error) {
	switch k := v.(type) {
	case nil:
		return "", nil
	case string:
		return k, nil
	case json.Number:
		if i, err := k.Int64(); err == nil {
			return strconv.FormatInt(i, 10), nil
		}
		return "", fmt.Errorf("must be a string or integer, got %s", k)
	case int:
		return strconv.Itoa(k), nil
	case int64:
		return strconv.FormatInt(k, 10), nil
	case uint64:
		return strconv.FormatUint(k, 10), nil
	case float64:
		if k == math.Trunc(k) && math.Abs(k) < 1<<53 {
			return strconv.FormatInt(int64(k), 10), nil
		}
		return "", fmt.Errorf("must be a string or integer, got %v", k)
	}
	return "", fmt.Errorf("must be a string or integer, got %s", typeName(v))
}

// columns copies obj without the structural keys, normalizing numbers.
func columns(obj map[string]any, opts Options) Row {
	row := make(Row, len(obj))
	for k, v := range obj {
		if k == opts.IDKey || k == opts.ParentIDKey || k == opts.ChildrenKey {
			continue
		}
		row[k] = normalize(v)
	}
	return row
}

// normalize replaces JSON numbers with int64 or float64 so rows encode the
// same way in both formats.
func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	}
	return v
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	case json.Number, int, int64, uint64, float64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
