package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/treetable/pkg/errors"
	"github.com/matzehuels/treetable/pkg/observability"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a name such as "yml" into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported format %q (want json or yaml)", s)
}

// FormatFromPath infers the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeUnsupported, "cannot infer format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Layout is the shape of a document's rows.
type Layout string

const (
	LayoutFlat   Layout = "flat"
	LayoutNested Layout = "nested"
)

// ParseLayout converts "flat" or "nested" into a Layout.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(s)); l {
	case LayoutFlat, LayoutNested:
		return l, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported layout %q (want flat or nested)", s)
}

// Default field keys.
const (
	DefaultIDKey       = "id"
	DefaultParentIDKey = "parentId"
	DefaultChildrenKey = "children"
)

// Options configures how rows are read and written.
// Zero fields take the defaults.
type Options struct {
	IDKey        string // Field holding the row id (default "id")
	ParentIDKey  string // Field holding the parent id in flat rows (default "parentId")
	ChildrenKey  string // Field holding child rows in nested rows (default "children")
	RootParentID string // Extra parent value that marks a root row

	// Hooks receives warnings while flat rows are assembled. When nil, the
	// registered tree hooks are used.
	Hooks observability.TreeHooks
}

// withDefaults fills empty keys and validates the result.
func (o Options) withDefaults() (Options, error) {
	if o.IDKey == "" {
		o.IDKey = DefaultIDKey
	}
	if o.ParentIDKey == "" {
		o.ParentIDKey = DefaultParentIDKey
	}
	if o.ChildrenKey == "" {
		o.ChildrenKey = DefaultChildrenKey
	}
	for _, k := range []string{o.IDKey, o.ParentIDKey, o.ChildrenKey} {
		if err := errors.ValidateFieldKey(k); err != nil {
			return o, err
		}
	}
	if o.IDKey == o.ParentIDKey || o.IDKey == o.ChildrenKey || o.ParentIDKey == o.ChildrenKey {
		return o, errors.New(errors.ErrCodeInvalidInput,
			"field keys must differ (id=%q parent=%q children=%q)", o.IDKey, o.ParentIDKey, o.ChildrenKey)
	}
	return o, nil
}
