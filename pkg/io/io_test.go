package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/treetable/pkg/errors"
	"github.com/matzehuels/treetable/pkg/observability"
	"github.com/matzehuels/treetable/pkg/tree"
)

var quiet = observability.NoopTreeHooks{}

// outline renders roots as "id(child child)".
func outline(nodes []tree.Node[Row]) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n.ID)
		if len(n.Children) > 0 {
			b.WriteString("(" + outline(n.Children) + ")")
		}
	}
	return b.String()
}

func TestReadDocument(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		opts    Options
		layout  Layout
		outline string
	}{
		{
			name:    "flat json with orphan",
			format:  FormatJSON,
			input:   `[{"id":1,"parentId":null},{"id":2,"parentId":1},{"id":3,"parentId":"missing"}]`,
			layout:  LayoutFlat,
			outline: "1(2) 3",
		},
		{
			name:    "flat rows object",
			format:  FormatJSON,
			input:   `{"rows":[{"id":"a"},{"id":"b","parentId":"a"}]}`,
			layout:  LayoutFlat,
			outline: "a(b)",
		},
		{
			name:    "nested json",
			format:  FormatJSON,
			input:   `[{"id":"a","children":[{"id":"a1"},{"id":"a2","children":[]}]},{"id":"b"}]`,
			layout:  LayoutNested,
			outline: "a(a1 a2) b",
		},
		{
			name:    "flat rows with empty children values",
			format:  FormatJSON,
			input:   `[{"id":"1","parentId":null,"children":[]},{"id":"2","parentId":"1","children":null}]`,
			layout:  LayoutFlat,
			outline: "1(2)",
		},
		{
			name:    "nested row repeating its parent id",
			format:  FormatJSON,
			input:   `[{"id":"a","parentId":null,"children":[{"id":"a1","parentId":"a"}]}]`,
			layout:  LayoutNested,
			outline: "a(a1)",
		},
		{
			name:   "flat yaml with custom keys and sentinel",
			format: FormatYAML,
			input: `
- key: 10
  manager: 0
- key: 11
  manager: 10
- key: 12
  manager: 10
`,
			opts:    Options{IDKey: "key", ParentIDKey: "manager", RootParentID: "0"},
			layout:  LayoutFlat,
			outline: "10(11 12)",
		},
		{
			name:   "nested yaml with custom children key",
			format: FormatYAML,
			input: `
rows:
  - id: ceo
    reports:
      - id: cto
        reports:
          - id: dev
      - id: cfo
`,
			opts:    Options{ChildrenKey: "reports"},
			layout:  LayoutNested,
			outline: "ceo(cto(dev) cfo)",
		},
		{
			name:   "empty list",
			format: FormatJSON,
			input:  `[]`,
			layout: LayoutFlat,
		},
		{
			name:   "empty input",
			format: FormatYAML,
			input:  ``,
			layout: LayoutFlat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Hooks = quiet
			doc, err := ReadDocument(strings.NewReader(tt.input), tt.format, tt.opts)
			if err != nil {
				t.Fatalf("ReadDocument() error = %v", err)
			}
			if doc.Layout != tt.layout {
				t.Errorf("Layout = %v, want %v", doc.Layout, tt.layout)
			}
			if got := outline(doc.Roots); got != tt.outline {
				t.Errorf("Roots = %q, want %q", got, tt.outline)
			}
		})
	}
}

func TestReadDocumentColumns(t *testing.T) {
	input := `[{"id":"1","parentId":null,"name":"John","age":32,"score":1.5,"tags":["a"]}]`
	doc, err := ReadDocument(strings.NewReader(input), FormatJSON, Options{Hooks: quiet})
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}

	want := Row{"name": "John", "age": int64(32), "score": 1.5, "tags": []any{"a"}}
	if got := doc.Roots[0].Data; !reflect.DeepEqual(got, want) {
		t.Errorf("Data = %#v, want %#v", got, want)
	}
}

func TestReadDocumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		opts   Options
		code   errors.Code
	}{
		{"malformed json", FormatJSON, `[{"id":`, Options{}, errors.ErrCodeInvalidFormat},
		{"malformed yaml", FormatYAML, "- id: [", Options{}, errors.ErrCodeInvalidFormat},
		{"scalar document", FormatJSON, `42`, Options{}, errors.ErrCodeInvalidFormat},
		{"object without rows", FormatJSON, `{"data":[]}`, Options{}, errors.ErrCodeInvalidFormat},
		{"row not an object", FormatJSON, `["a"]`, Options{}, errors.ErrCodeInvalidRecord},
		{"missing id", FormatJSON, `[{"name":"x"}]`, Options{}, errors.ErrCodeInvalidRecord},
		{"empty id", FormatJSON, `[{"id":""}]`, Options{}, errors.ErrCodeInvalidRecord},
		{"boolean id", FormatJSON, `[{"id":true}]`, Options{}, errors.ErrCodeInvalidRecord},
		{"fractional id", FormatJSON, `[{"id":1.5}]`, Options{}, errors.ErrCodeInvalidRecord},
		{"object parent", FormatJSON, `[{"id":"a","parentId":{}}]`, Options{}, errors.ErrCodeInvalidRecord},
		{"children not a list", FormatJSON, `[{"id":"a","children":"b"}]`, Options{}, errors.ErrCodeInvalidRecord},
		{"parent id on nested root", FormatJSON, `[{"id":"a","children":[{"id":"a1"}]},{"id":"b","parentId":"a"}]`, Options{}, errors.ErrCodeInvalidRecord},
		{"parent id disagrees with nesting", FormatJSON, `[{"id":"a","children":[{"id":"a1","parentId":"b"}]},{"id":"b"}]`, Options{}, errors.ErrCodeInvalidRecord},
		{"nested duplicate", FormatJSON, `[{"id":"a","children":[{"id":"a"}]}]`, Options{}, errors.ErrCodeDuplicateID},
		{"blank key", FormatJSON, `[]`, Options{IDKey: " "}, errors.ErrCodeInvalidInput},
		{"clashing keys", FormatJSON, `[]`, Options{ParentIDKey: "id"}, errors.ErrCodeInvalidInput},
		{"unknown format", Format("xml"), `<a/>`, Options{}, errors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Hooks = quiet
			_, err := ReadDocument(strings.NewReader(tt.input), tt.format, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadDocument() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestReadDocumentReportsOrphans(t *testing.T) {
	hooks := &orphanHooks{}
	input := `[{"id":"1"},{"id":"2","parentId":"gone"}]`
	if _, err := ReadDocument(strings.NewReader(input), FormatJSON, Options{Hooks: hooks}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(hooks.orphans, []string{"2"}) {
		t.Errorf("orphans = %v, want [2]", hooks.orphans)
	}
}

type orphanHooks struct {
	observability.NoopTreeHooks
	orphans []string
}

func (h *orphanHooks) OnOrphanPromoted(id, _ string) { h.orphans = append(h.orphans, id) }

func TestWriteRecords(t *testing.T) {
	roots := []tree.Node[Row]{
		{ID: "1", Data: Row{"name": "John"}, Children: []tree.Node[Row]{{ID: "2", Data: Row{"name": "Jim"}}}},
	}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, roots, FormatJSON, Options{}); err != nil {
		t.Fatalf("WriteRecords() error = %v", err)
	}
	want := `[
  {
    "id": "1",
    "parentId": null,
    "name": "John"
  },
  {
    "id": "2",
    "parentId": "1",
    "name": "Jim"
  }
]
`
	if buf.String() != want {
		t.Errorf("WriteRecords() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteTreeYAML(t *testing.T) {
	roots := []tree.Node[Row]{
		{ID: "a", Children: []tree.Node[Row]{{ID: "a1"}}},
		{ID: "b"},
	}

	var buf bytes.Buffer
	if err := WriteTree(&buf, roots, FormatYAML, Options{ChildrenKey: "kids"}); err != nil {
		t.Fatalf("WriteTree() error = %v", err)
	}
	want := `- id: a
  kids:
    - id: a1
- id: b
`
	if buf.String() != want {
		t.Errorf("WriteTree() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []struct {
		name   string
		format Format
		input  string
		opts   Options
	}{
		{"flat json", FormatJSON, `[{"id":"1","v":1},{"id":"2","parentId":"1","v":2},{"id":"3","parentId":"1"}]`, Options{}},
		{"nested json", FormatJSON, `[{"id":"a","children":[{"id":"b","x":true}]}]`, Options{}},
		{"flat yaml sentinel", FormatYAML, "- {id: a, p: root}\n- {id: b, p: a}\n", Options{ParentIDKey: "p", RootParentID: "root"}},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Hooks = quiet
			doc, err := ReadDocument(strings.NewReader(tt.input), tt.format, tt.opts)
			if err != nil {
				t.Fatalf("ReadDocument() error = %v", err)
			}
			var buf bytes.Buffer
			if err := doc.Write(&buf, tt.format); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			again, err := ReadDocument(&buf, tt.format, tt.opts)
			if err != nil {
				t.Fatalf("ReadDocument() of output error = %v", err)
			}
			if again.Layout != doc.Layout {
				t.Errorf("Layout = %v, want %v", again.Layout, doc.Layout)
			}
			if !reflect.DeepEqual(again.Roots, doc.Roots) {
				t.Errorf("Roots = %+v, want %+v", again.Roots, doc.Roots)
			}
		})
	}
}

func TestImportExportFile(t *testing.T) {
	dir := t.TempDir()
	roots := []tree.Node[Row]{{ID: "a", Data: Row{}, Children: []tree.Node[Row]{{ID: "b", ParentID: "a", Data: Row{}}}}}

	for _, name := range []string{"tree.json", "tree.yaml", "tree.yml"} {
		path := filepath.Join(dir, name)
		if err := ExportFile(path, roots, LayoutNested, Options{}); err != nil {
			t.Fatalf("ExportFile(%s) error = %v", name, err)
		}
		doc, err := ImportFile(path, Options{Hooks: quiet})
		if err != nil {
			t.Fatalf("ImportFile(%s) error = %v", name, err)
		}
		if !reflect.DeepEqual(doc.Roots, roots) {
			t.Errorf("ImportFile(%s) = %+v, want %+v", name, doc.Roots, roots)
		}
	}
}

func TestImportFileErrors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "rows.txt")
	if err := os.WriteFile(txt, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		code errors.Code
	}{
		{filepath.Join(dir, "missing.json"), errors.ErrCodeFileNotFound},
		{txt, errors.ErrCodeUnsupported},
		{filepath.Join(dir, "noext"), errors.ErrCodeUnsupported},
		{"", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		if _, err := ImportFile(tt.path, Options{}); !errors.Is(err, tt.code) {
			t.Errorf("ImportFile(%q) error = %v, want code %v", tt.path, err, tt.code)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"json", FormatJSON, true},
		{"YAML", FormatYAML, true},
		{"yml", FormatYAML, true},
		{"toml", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
