package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treetable/pkg/dnd"
	terrors "github.com/matzehuels/treetable/pkg/errors"
	"github.com/matzehuels/treetable/pkg/reorder"
	"github.com/matzehuels/treetable/pkg/tree/nodemap"
)

// dropCommand creates the drop command, which runs the decision engine for
// one drop and optionally applies the resulting move.
func (c *CLI) dropCommand() *cobra.Command {
	var (
		expand  []string
		all     bool
		apply   bool
		inPlace bool
		output  string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "drop [file] [source] [target] [instruction]",
		Short: "Decide where a dragged row lands",
		Long: `Drop computes the outcome of dropping source on target with a raw instruction
(above, below, make-child or below-ancestor).

A blocked drop (illegal, or a no-op that changes nothing) prints no event.
With --apply the move is applied and the document is written to stdout,
to --output, or back to the input file with --in-place.`,
		Example: `  treetable drop rows.json C A make-child
  treetable drop rows.json A2 A1 above --apply -o moved.json`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, sourceID, targetID := args[0], args[1], args[2]
			instr, err := dnd.ParseInstruction(args[3])
			if err != nil {
				return err
			}

			doc, err := c.loadDocument(path)
			if err != nil {
				return err
			}
			m := nodemap.Build(doc.Roots, c.expansion(doc.Roots, all, expand))
			for _, id := range []string{sourceID, targetID} {
				if !m.Has(id) {
					return terrors.New(terrors.ErrCodeNotFound, "row %q not found", id)
				}
			}

			res := dnd.Compute(sourceID, targetID, instr, m)
			c.Logger.Debug("drop computed", "source", sourceID, "target", targetID,
				"instruction", instr, "blocked", res.Blocked())

			if !apply {
				if asJSON {
					data, err := json.MarshalIndent(res, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				}
				printResult(res)
				if !res.Blocked() {
					printNextStep("Apply it", fmt.Sprintf("%s drop %s %s %s %s --apply", appName, path, sourceID, targetID, instr))
				}
				return nil
			}

			if res.Blocked() {
				return terrors.New(terrors.ErrCodeIllegalMove,
					"dropping %s on %s (%s) is blocked", sourceID, targetID, instr)
			}
			if doc.Roots, err = reorder.Apply(doc.Roots, *res.Event); err != nil {
				return terrors.Wrap(terrors.ErrCodeIllegalMove, err, "apply move")
			}
			c.Logger.Info("row moved", "source", res.Event.SourceID,
				"target", res.Event.TargetID, "position", res.Event.Position)
			return saveDocument(cmd, doc, path, output, inPlace)
		},
	}

	cmd.Flags().StringSliceVar(&expand, "expand", nil, "ids of expanded rows")
	cmd.Flags().BoolVar(&all, "all", false, "expand every row with children")
	cmd.Flags().BoolVar(&apply, "apply", false, "apply the move and write the document")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "with --apply, overwrite the input file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "with --apply, write to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// printResult prints the indicator and event of a drop.
func printResult(res dnd.Result) {
	if res.Blocked() {
		printWarning("Drop blocked")
		printDetail("illegal target or no change to the order")
		return
	}
	printSuccess("Drop allowed")
	printKeyValue("Indicator", fmt.Sprintf("%s (%s, %s edge)", res.Indicator.RowID, res.Indicator.Kind, res.Indicator.Kind.Edge()))
	printKeyValue("Move", fmt.Sprintf("%s %s %s", res.Event.SourceID, res.Event.Position, res.Event.TargetID))
}
