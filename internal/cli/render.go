package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treetable/pkg/dnd"
	terrors "github.com/matzehuels/treetable/pkg/errors"
	pkgio "github.com/matzehuels/treetable/pkg/io"
	"github.com/matzehuels/treetable/pkg/render/nodelink"
	"github.com/matzehuels/treetable/pkg/tree"
	"github.com/matzehuels/treetable/pkg/tree/nodemap"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // base output path; extension replaced per format
	formats     []string // "dot", "svg", "png"
	detailed    bool     // show level and columns in labels
	visibleOnly bool     // only rows visible in the expansion state
	expand      []string // expanded row ids
	all         bool     // expand every parent
	preview     string   // "source,target,instruction" drop to highlight
}

// renderCommand creates the render command for node-link diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a tree table as a node-link diagram",
		Long: `Render draws the node map of a document with Graphviz.

Collapsed rows are dashed and marked with "+". With --preview the indicator of
a drop is highlighted on its row, the same hint an interactive table would show.`,
		Example: `  treetable render rows.json -f svg,png
  treetable render rows.json --preview C,A,make-child -o preview.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default: input name)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", formatSVG, "output formats: dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show level and columns in labels")
	cmd.Flags().BoolVar(&opts.visibleOnly, "visible", false, "only draw rows visible in the expansion state")
	cmd.Flags().StringSliceVar(&opts.expand, "expand", nil, "ids of expanded rows")
	cmd.Flags().BoolVar(&opts.all, "all", false, "expand every row with children")
	cmd.Flags().StringVar(&opts.preview, "preview", "", "highlight a drop: source,target,instruction")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	doc, err := c.loadDocument(input)
	if err != nil {
		return err
	}
	m := nodemap.Build(doc.Roots, c.expansion(doc.Roots, opts.all, opts.expand))

	dotOpts := nodelink.Options{
		Detailed:    opts.detailed,
		VisibleOnly: opts.visibleOnly,
		Columns:     columnsByID(doc.Roots),
	}
	if opts.preview != "" {
		source, res, err := previewDrop(opts.preview, m)
		if err != nil {
			return err
		}
		dotOpts.SourceID = source
		dotOpts.Indicator = res.Indicator
		if res.Blocked() {
			printWarning("Preview drop is blocked, no indicator drawn")
		}
	}

	dot := nodelink.ToDOT(m, dotOpts)
	base := basePath(opts.output, input)

	done := timed(c.Logger)
	var paths []string
	for _, f := range opts.formats {
		data, err := renderFormat(ctx, dot, f)
		if err != nil {
			return err
		}
		path := base + "." + f
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	done("rendered", "rows", m.Len(), "formats", len(paths))

	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

func renderFormat(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case formatDOT:
		return []byte(dot), nil
	case formatSVG:
		return nodelink.Render(ctx, dot, nodelink.SVG)
	case formatPNG:
		return nodelink.Render(ctx, dot, nodelink.PNG)
	}
	return nil, terrors.New(terrors.ErrCodeUnsupported, "unsupported render format %q", format)
}

// previewDrop parses "source,target,instruction" and computes the drop.
func previewDrop(arg string, m *nodemap.Map) (string, dnd.Result, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 3 {
		return "", dnd.Result{}, terrors.New(terrors.ErrCodeInvalidInput,
			"preview must be source,target,instruction, got %q", arg)
	}
	instr, err := dnd.ParseInstruction(strings.TrimSpace(parts[2]))
	if err != nil {
		return "", dnd.Result{}, err
	}
	source, target := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	return source, dnd.Compute(source, target, instr, m), nil
}

// columnsByID collects row columns for detailed labels.
func columnsByID(roots []tree.Node[pkgio.Row]) map[string]map[string]any {
	cols := make(map[string]map[string]any)
	tree.Walk(roots, func(n tree.Node[pkgio.Row], _ int, _ string) bool {
		if len(n.Data) > 0 {
			cols[n.ID] = n.Data
		}
		return true
	})
	return cols
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath strips the extension from output, or derives a base from input.
func basePath(output, input string) string {
	if output == "" {
		output = input
	}
	return strings.TrimSuffix(output, filepath.Ext(output))
}
