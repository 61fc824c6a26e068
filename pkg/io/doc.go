// Package io reads and writes tree table data as JSON or YAML documents.
//
// # Overview
//
// This package is the ingestion boundary of the module. Rows arrive as
// loosely typed documents; everything past this package works with
// [tree.Node] values whose ids are validated strings. Extra columns travel
// along untouched in each node's [Row] payload.
//
// # Layouts
//
// A document is a list of row objects, either at the top level or under a
// "rows" key. Two layouts are accepted:
//
// Flat rows name their parent:
//
//	[
//	  {"id": "1", "parentId": null, "name": "John Brown"},
//	  {"id": "2", "parentId": "1", "name": "Jim Green"},
//	  {"id": "3", "parentId": "missing", "name": "Joe Black"}
//	]
//
// Nested rows carry their children:
//
//	[
//	  {"id": "1", "name": "John Brown", "children": [
//	    {"id": "2", "name": "Jim Green"}
//	  ]},
//	  {"id": "3", "name": "Joe Black"}
//	]
//
// A document is nested when any top-level row has a non-empty children
// list. A null or empty list leaves a flat row flat. In a nested document a
// row's parent id, when present, must match the row it sits under.
// Flat documents are assembled with [tree.FromFlat]: rows with a missing
// parent become roots and duplicate ids are skipped, both reported to the
// tree hooks. Nested documents are taken as they are and rejected when an
// id repeats.
//
// # Field Keys
//
// Sources rarely agree on column names. [Options] renames the id, parent and
// children fields and sets an extra root sentinel for parents such as "0":
//
//	doc, err := io.ImportFile("org.yaml", io.Options{
//	    ParentIDKey:  "manager",
//	    ChildrenKey:  "reports",
//	    RootParentID: "0",
//	})
//
// Ids may be strings or integers; integers are converted to their decimal
// form. Anything else is an [errors.ErrCodeInvalidRecord] error naming the
// offending row.
//
// # Formats
//
// [FormatJSON] documents are decoded with github.com/goccy/go-json and
// [FormatYAML] documents with gopkg.in/yaml.v3. [ImportFile] and
// [ExportFile] pick the format from the file extension.
//
// # Export
//
// [WriteTree] writes the nested layout and [WriteRecords] the flat one,
// using the same field keys the document was read with, so a file can be
// imported, reordered and written back without changing its shape.
//
// [errors.ErrCodeInvalidRecord]: github.com/matzehuels/treetable/pkg/errors#ErrCodeInvalidRecord
package io
