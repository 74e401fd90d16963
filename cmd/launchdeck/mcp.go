package main

import (
	"github.com/spf13/cobra"

	"github.com/vault-md/launchdeck/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server for launchdeck on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			server := mcp.NewServer(s.dashboard, version, s.logger)
			return server.Run(cmd.Context())
		},
	}

	return cmd
}
