package main

import (
	"github.com/spf13/cobra"

	"github.com/yougen/yougen/internal/mcp"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server for yougen on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(a *app) error {
				server := mcp.NewServer(a.store, a.library, version, a.logger)
				return server.Run(cmd.Context())
			})
		},
	}

	return cmd
}
