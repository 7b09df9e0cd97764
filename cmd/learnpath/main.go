// Command learnpath turns a learning goal into a YouTube playlist and a
// day-by-day plan.
//
// Usage:
//
//	learnpath serve                      # web UI on :8501
//	learnpath generate "learn go in 5 days"
//	learnpath auth login                 # one-time YouTube consent
//	learnpath auth encode                # base64 secrets for headless hosts
//	learnpath mcp                        # YouTube tools over MCP stdio
//
// Configuration comes from a .env file and the environment; see the config
// package for the variables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "learnpath",
		Short:         "Generate learning paths from YouTube videos",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), generateCmd(), authCmd(), mcpCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
