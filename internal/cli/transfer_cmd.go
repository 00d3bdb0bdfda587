package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alexanderramin/orbit/internal/cli/formatter"
	"github.com/alexanderramin/orbit/internal/service"
	"github.com/alexanderramin/orbit/internal/transfer"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the board as an orbit-board JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" || out == "-" {
				data, _, err := app.Transfer.Export(cmd.Context())
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			summary, err := app.Transfer.ExportFile(cmd.Context(), out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", describeSummary(summary), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the board with an exported file (use - for stdin)",
		Long: `Replace the board with an exported file.

The current board is backed up into history first; 'orbit history' lists
backups and 'orbit restore SEQ' brings one back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				res *service.ImportResult
				err error
			)
			if args[0] == "-" {
				data, readErr := io.ReadAll(cmd.InOrStdin())
				if readErr != nil {
					return fmt.Errorf("reading stdin: %w", readErr)
				}
				res, err = app.Transfer.Import(cmd.Context(), data)
			} else {
				res, err = app.Transfer.ImportFile(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Imported %s\n", describeSummary(res.Summary))
			if res.BackupSeq > 0 {
				fmt.Fprintln(w, formatter.Dim(fmt.Sprintf("Previous board saved as #%d; undo with 'orbit restore %d'", res.BackupSeq, res.BackupSeq)))
			}
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List boards replaced by import or restore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Transfer.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(entries, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries to show (0 for all)")

	return cmd
}

func newRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore SEQ",
		Short: "Bring back a board from history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || seq <= 0 {
				return fmt.Errorf("invalid history entry %q", args[0])
			}
			res, err := app.Transfer.Restore(cmd.Context(), seq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored #%d: %s\n", seq, describeSummary(res.Summary))
			return nil
		},
	}
}

func describeSummary(s transfer.Summary) string {
	return fmt.Sprintf("%d campaign(s) and %d project(s)", s.CampaignCount, s.ProjectCount)
}
