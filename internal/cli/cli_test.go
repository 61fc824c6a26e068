package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	terrors "github.com/matzehuels/treetable/pkg/errors"
	pkgio "github.com/matzehuels/treetable/pkg/io"
	"github.com/matzehuels/treetable/pkg/observability"
)

// execute runs the root command with args and returns what the command
// wrote to its output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBuildNestsFlatRows(t *testing.T) {
	out, err := execute(t, "build", writeRows(t))
	if err != nil {
		t.Fatalf("build error: %v", err)
	}

	var rows []struct {
		ID       string `json:"id"`
		Children []struct {
			ID string `json:"id"`
		} `json:"children"`
	}
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 3 || rows[0].ID != "A" || len(rows[0].Children) != 1 || rows[0].Children[0].ID != "A1" {
		t.Errorf("build output = %s", out)
	}
}

func TestBuildToYAMLFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "tree.yaml")
	if _, err := execute(t, "build", writeRows(t), "-o", dst); err != nil {
		t.Fatalf("build error: %v", err)
	}
	doc, err := pkgio.ImportFile(dst, pkgio.Options{})
	if err != nil {
		t.Fatalf("ImportFile(%s) error: %v", dst, err)
	}
	if doc.Layout != pkgio.LayoutNested {
		t.Errorf("layout = %s, want nested", doc.Layout)
	}
}

func TestNodesJSON(t *testing.T) {
	out, err := execute(t, "nodes", writeRows(t), "--json")
	if err != nil {
		t.Fatalf("nodes error: %v", err)
	}
	var metas []struct {
		ID    string `json:"id"`
		Level int    `json:"level"`
	}
	if err := json.Unmarshal([]byte(out), &metas); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	var ids []string
	for _, m := range metas {
		ids = append(ids, m.ID)
	}
	if want := []string{"A", "A1", "B", "C"}; !slices.Equal(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if metas[1].Level != 1 {
		t.Errorf("A1 level = %d, want 1", metas[1].Level)
	}
}

func TestDropJSON(t *testing.T) {
	out, err := execute(t, "drop", writeRows(t), "C", "A", "below", "--json")
	if err != nil {
		t.Fatalf("drop error: %v", err)
	}
	// A is expanded by default, so the hint sits under its last visible row.
	want := `{"indicator":{"rowId":"A1","kind":"below"},"event":{"sourceId":"C","targetId":"A","position":"below"}}`
	var got, exp any
	_ = json.Unmarshal([]byte(out), &got)
	_ = json.Unmarshal([]byte(want), &exp)
	gotJSON, _ := json.Marshal(got)
	expJSON, _ := json.Marshal(exp)
	if !bytes.Equal(gotJSON, expJSON) {
		t.Errorf("drop output = %s, want %s", gotJSON, expJSON)
	}
}

func TestDropApply(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "moved.json")
	if _, err := execute(t, "drop", writeRows(t), "C", "A", "above", "--apply", "-o", dst); err != nil {
		t.Fatalf("drop --apply error: %v", err)
	}
	doc, err := pkgio.ImportFile(dst, pkgio.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, n := range doc.Roots {
		ids = append(ids, n.ID)
	}
	if want := []string{"C", "A", "B"}; !slices.Equal(ids, want) {
		t.Errorf("roots = %v, want %v", ids, want)
	}
}

func TestDropErrors(t *testing.T) {
	rows := writeRows(t)
	tests := []struct {
		name string
		args []string
		code terrors.Code
	}{
		{"blocked apply", []string{"drop", rows, "B", "A", "below", "--apply"}, terrors.ErrCodeIllegalMove},
		{"unknown row", []string{"drop", rows, "Z", "A", "below"}, terrors.ErrCodeNotFound},
		{"bad instruction", []string{"drop", rows, "B", "A", "inside"}, terrors.ErrCodeInvalidInstruction},
		{"missing file", []string{"drop", "nope.json", "B", "A", "below"}, terrors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if got := terrors.GetCode(err); got != tt.code {
				t.Errorf("error code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestRenderDOT(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	if _, err := execute(t, "render", writeRows(t), "-f", "dot", "-o", base+".dot", "--preview", "C,A,above"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	for _, want := range []string{"digraph G", `"A" -> "A1"`, "drop above", "dodgerblue"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q", want)
		}
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, err := execute(t, "render", writeRows(t), "-f", "pdf", "-o", filepath.Join(t.TempDir(), "x"))
	if !terrors.Is(err, terrors.ErrCodeUnsupported) {
		t.Errorf("render -f pdf error = %v, want UNSUPPORTED", err)
	}
}

func TestConfigFlagMissing(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.toml"), "nodes", writeRows(t))
	if !terrors.Is(err, terrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(out, "treetable") {
				t.Errorf("completion %s output does not mention treetable", shell)
			}
		})
	}
}
