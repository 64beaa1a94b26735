package main

import (
	"context"
	"fmt"
	"io"

	"agora/pkg/archive"
	"agora/pkg/debate"

	"github.com/spf13/cobra"
)

// listOptions holds flag values for the list command.
type listOptions struct {
	limit  int
	status string
}

// newListCmd creates the "agora list" subcommand.
func newListCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived debates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ResolvePaths()
			if err != nil {
				return fmt.Errorf("resolve paths: %w", err)
			}

			reader, err := openReader(paths)
			if err != nil {
				return err
			}
			defer reader.Close()

			return printDebates(cmd.Context(), reader, cmd.OutOrStdout(), archive.ListOpts{
				Status: opts.status,
				Limit:  opts.limit,
			})
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 20, "number of debates to show")
	cmd.Flags().StringVar(&opts.status, "status", "", "filter by status (running, completed, ended_early)")

	return cmd
}

// printDebates lists archived debates, newest first.
func printDebates(ctx context.Context, reader *archive.Reader, w io.Writer, opts archive.ListOpts) error {
	debates, err := reader.ListDebates(ctx, opts)
	if err != nil {
		return err
	}

	if len(debates) == 0 {
		fmt.Fprintln(w, "no debates found")
		return nil
	}

	for _, d := range debates {
		formatDebate(w, d)
	}
	return nil
}

// formatDebate writes a single debate in a one-line format.
func formatDebate(w io.Writer, d debate.DebateRow) {
	// Format: short-id | started | status | rounds | topic
	fmt.Fprintf(w, "%s | %s | %-11s | %2d/%d rounds | %s\n",
		shortID(d.ID), d.StartedAt, d.Status, d.RoundsCompleted, d.MaxRounds, d.Topic)
}

// shortID truncates a debate UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
