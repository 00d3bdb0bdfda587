package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/orbit/internal/cli/formatter"
	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var (
		strategy   layout.Strategy
		cols, rows int
		tree       bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Draw the board",
		Long: `Draw the board with the configured layout (ring or slots).

A ring pass seeds positions for campaigns that have none and pulls
off-board campaigns back inside; those positions are saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strategy == nil {
				strategy = app.strategy()
			}
			s := app.Board.Current()
			out := cmd.OutOrStdout()

			if tree {
				if len(s.Campaigns) == 0 {
					fmt.Fprintln(out, "The board is empty.")
					return nil
				}
				fmt.Fprint(out, formatter.FormatBoardTree(s))
				return nil
			}

			placement, err := app.Board.Layout(cmd.Context(), strategy, app.Config.Canvas())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(placement)
			}

			s = app.Board.Current()
			fmt.Fprintln(out, formatter.RenderPlacement(s, placement, cols, rows))
			fmt.Fprintln(out, formatter.FormatSummary(s))
			return nil
		},
	}

	cmd.Flags().Var(newStrategyValue(&strategy), "layout", "Layout strategy: ring or slots (default from config)")
	cmd.Flags().IntVar(&cols, "width", 72, "Canvas width in columns (ring layout)")
	cmd.Flags().IntVar(&rows, "height", 22, "Canvas height in rows (ring layout)")
	cmd.Flags().BoolVar(&tree, "tree", false, "List campaigns and their projects instead of drawing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the placement as JSON")

	return cmd
}

func newLayoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Manage stored campaign positions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget every campaign position so the next ring pass re-seeds them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.Board.ResetLayout(cmd.Context())
			return report(cmd.OutOrStdout(), err, "Cleared campaign positions.")
		},
	})

	return cmd
}
