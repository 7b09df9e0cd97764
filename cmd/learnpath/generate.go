package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/learnpath/pathgen"
	"github.com/spetersoncode/learnpath/progress"
)

func generateCmd() *cobra.Command {
	var (
		notionURL string
		all       bool
	)
	cmd := &cobra.Command{
		Use:   "generate <goal>",
		Short: "Generate a learning path in the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			req := pathgen.Request{Goal: strings.Join(args, " "), NotionURL: notionURL}
			if err := pathgen.ValidateRequest(req); err != nil {
				return err
			}

			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			res, err := a.runner.Run(ctx, req, progressPrinter(out))
			if err != nil {
				var agentErr *pathgen.AgentError
				if errors.As(err, &agentErr) {
					return fmt.Errorf("%w\n%s", err, agentErr.Hint())
				}
				return err
			}
			if !all {
				fmt.Fprintf(out, "\n%s\n", res.Summary)
				return nil
			}
			for _, text := range res.Output() {
				fmt.Fprintf(out, "\n%s\n", text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&notionURL, "notion-url", "", "Notion MCP endpoint")
	cmd.Flags().BoolVar(&all, "all", false, "print every assistant message, not just the final answer")
	return cmd
}

// progressPrinter writes a phase header on each transition followed by the
// message with its progress bullet.
func progressPrinter(w io.Writer) func(string) {
	tracker := progress.NewTracker()
	return func(msg string) {
		u := tracker.Observe(msg)
		if u.PhaseChanged {
			fmt.Fprintf(w, "\n### %s\n", u.Phase)
		}
		fmt.Fprintf(w, "%s %s (%.0f%%)\n", u.Prefix(), u.Message, u.Progress*100)
	}
}
