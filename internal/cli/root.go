package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/orbit/internal/cli/formatter"
	"github.com/alexanderramin/orbit/internal/config"
	"github.com/alexanderramin/orbit/internal/layout"
	"github.com/alexanderramin/orbit/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings CLI commands run against.
type App struct {
	Board    service.BoardService
	Transfer service.TransferService
	Config   config.Config
	Logger   *slog.Logger
	Version  string

	// IsInteractive reports whether stdin is a terminal. Forms and the board
	// view are only offered when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// strategy returns the configured layout strategy, falling back to the ring.
func (a *App) strategy() layout.Strategy {
	if s, ok := layout.Lookup(a.Config.Layout); ok {
		return s
	}
	return layout.Ring{}
}

// NewRootCmd creates the top-level "orbit" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "orbit",
		Short:         "Personal context board: campaigns, missions and the projects around them",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCampaignCmd(app),
		newProjectCmd(app),
		newBoardCmd(app),
		newLayoutCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newHistoryCmd(app),
		newRestoreCmd(app),
		newViewCmd(app),
		newMCPCmd(app),
	)

	return root
}

// report prints the outcome of an edit. A redundant edit is not an error
// on the command line; it is reported and the command succeeds.
func report(w io.Writer, err error, format string, args ...any) error {
	if errors.Is(err, service.ErrUnchanged) {
		fmt.Fprintln(w, formatter.Dim("Nothing to change."))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, format+"\n", args...)
	return nil
}
