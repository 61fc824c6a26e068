package cli

import (
	"io"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/treetable/pkg/io"
	"github.com/matzehuels/treetable/pkg/tree"
)

// buildCommand creates the build command, which converts a document between
// flat and nested layouts.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output string
		layout string
		format string
	)

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Convert a tree table between flat and nested layouts",
		Long: `Build reads a tree table and writes it back in the other layout.

Flat rows are nested by their parent ids. Orphans and rows caught in parent
cycles become roots (a warning is logged for each). Nested rows are flattened
in display order.`,
		Example: `  # Nest flat rows, print YAML
  treetable build rows.json --format yaml

  # Flatten a nested document into a file
  treetable build tree.yaml -o rows.json --layout flat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadDocument(args[0])
			if err != nil {
				return err
			}

			target := pkgio.LayoutNested
			if doc.Layout == pkgio.LayoutNested {
				target = pkgio.LayoutFlat
			}
			if layout != "" {
				if target, err = pkgio.ParseLayout(layout); err != nil {
					return err
				}
			}

			if output != "" {
				if err := pkgio.ExportFile(output, doc.Roots, target, doc.Options); err != nil {
					return err
				}
				printSuccess("Wrote %s layout", target)
				printFile(output)
				return nil
			}

			f, err := outputFormat(format, args[0])
			if err != nil {
				return err
			}
			return writeLayout(cmd.OutOrStdout(), doc.Roots, target, f, doc.Options)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (format from extension; default stdout)")
	cmd.Flags().StringVar(&layout, "layout", "", "output layout: flat or nested (default: the other one)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "stdout format: json or yaml (default: input format)")

	return cmd
}

// outputFormat resolves the stdout format from a flag, falling back to the
// format of the input file.
func outputFormat(flag, input string) (pkgio.Format, error) {
	if flag != "" {
		return pkgio.ParseFormat(flag)
	}
	return pkgio.FormatFromPath(input)
}

func writeLayout(w io.Writer, roots []tree.Node[pkgio.Row], layout pkgio.Layout, format pkgio.Format, opts pkgio.Options) error {
	if layout == pkgio.LayoutNested {
		return pkgio.WriteTree(w, roots, format, opts)
	}
	return pkgio.WriteRecords(w, roots, format, opts)
}

// saveDocument writes the document to output when given, back to input when
// inPlace is set, and to stdout in the input's format otherwise. The layout
// of the input is kept.
func saveDocument(cmd *cobra.Command, doc *pkgio.Document, input, output string, inPlace bool) error {
	switch {
	case output != "":
		if err := pkgio.ExportFile(output, doc.Roots, doc.Layout, doc.Options); err != nil {
			return err
		}
		printFile(output)
		return nil
	case inPlace:
		if err := pkgio.ExportFile(input, doc.Roots, doc.Layout, doc.Options); err != nil {
			return err
		}
		printFile(input)
		return nil
	}
	f, err := pkgio.FormatFromPath(input)
	if err != nil {
		return err
	}
	return doc.Write(cmd.OutOrStdout(), f)
}
