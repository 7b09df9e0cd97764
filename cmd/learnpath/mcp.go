package main

import (
	"github.com/spf13/cobra"

	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/mcp"
	"github.com/spetersoncode/learnpath/tool"
	"github.com/spetersoncode/learnpath/youtube"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the YouTube tools to MCP clients over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdio carries the protocol; the consent flow cannot prompt here
			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			registry := tool.NewRegistry()
			if err := registry.RegisterAll(youtube.Tools(a.youtube)...); err != nil {
				return err
			}
			if err := registry.Validate(); err != nil {
				return ai.NewConfigError("invalid tool set", err)
			}
			a.logger.Info("serving MCP over stdio", "tools", registry.Names())
			return mcp.ServeStdio(registry, mcp.WithName("learnpath"), mcp.WithVersion(version))
		},
	}
}
