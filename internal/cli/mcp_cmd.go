package cli

import (
	"github.com/alexanderramin/orbit/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the board to MCP clients over stdio",
		Long: `Serve the board to MCP clients over stdio.

Register 'orbit mcp' as a stdio server in your assistant's MCP settings.
Tools read and edit the same database as the CLI; edits made elsewhere
are picked up before every call.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcpserver.New(app.Board, app.Version,
				mcpserver.WithViewport(app.Config.Canvas()),
				mcpserver.WithStrategy(app.strategy()),
				mcpserver.WithLogger(app.Logger),
			)
			return srv.Serve(cmd.Context())
		},
	}
}
