package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treetable/pkg/tree/nodemap"
)

// nodesCommand creates the nodes command, which prints the node map of a
// document: level, parent, siblings and expansion per row.
func (c *CLI) nodesCommand() *cobra.Command {
	var (
		expand      []string
		all         bool
		visibleOnly bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "nodes [file]",
		Short: "Print the node map of a tree table",
		Example: `  treetable nodes rows.json
  treetable nodes rows.json --expand A,B --visible
  treetable nodes tree.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadDocument(args[0])
			if err != nil {
				return err
			}
			m := nodemap.Build(doc.Roots, c.expansion(doc.Roots, all, expand))

			ids := m.IDs()
			if visibleOnly {
				ids = m.Visible()
			}

			if asJSON {
				metas := make([]nodemap.Meta, 0, len(ids))
				for _, id := range ids {
					meta, _ := m.Get(id)
					metas = append(metas, meta)
				}
				data, err := json.MarshalIndent(metas, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), nodeTable(m, ids))
			printStats(m.Len(), len(m.Roots()), len(m.Visible()))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&expand, "expand", nil, "ids of expanded rows")
	cmd.Flags().BoolVar(&all, "all", false, "expand every row with children")
	cmd.Flags().BoolVar(&visibleOnly, "visible", false, "only list rows visible in the expansion state")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print metadata as JSON")

	return cmd
}

// nodeTable renders one row per id, indented by level.
func nodeTable(m *nodemap.Map, ids []string) string {
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		meta, _ := m.Get(id)
		expanded := ""
		switch {
		case meta.HasChildren && meta.IsExpanded:
			expanded = "▾"
		case meta.HasChildren:
			expanded = "▸"
		}
		parent := meta.ParentID
		if parent == "" {
			parent = "—"
		}
		rows = append(rows, []string{
			strings.Repeat("  ", meta.Level) + meta.ID,
			strconv.Itoa(meta.Level),
			parent,
			strconv.Itoa(meta.IndexAmongSiblings),
			strconv.Itoa(len(meta.ChildIDs)),
			expanded,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Row", "Level", "Parent", "Index", "Children", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorGray)
		}).
		String()
}
