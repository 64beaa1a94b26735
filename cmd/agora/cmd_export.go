package main

import (
	"context"
	"fmt"
	"io"

	"agora/pkg/archive"
	"agora/pkg/export"

	"github.com/spf13/cobra"
)

// exportOptions holds flag values for the export command.
type exportOptions struct {
	out string
}

// newExportCmd creates the "agora export" subcommand.
func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export <debate-id>",
		Short: "Export an archived debate as Markdown",
		Args:  cobra.ExactArgs(1),
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

			return runExport(cmd.Context(), reader, cmd.OutOrStdout(), args[0], opts.out)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default debate-<id>.md)")

	return cmd
}

// runExport fetches one debate and writes its Markdown rendering. debateID
// may be a unique prefix; the resolved id drives the statement query.
func runExport(ctx context.Context, reader *archive.Reader, w io.Writer, debateID, outPath string) error {
	d, err := reader.Debate(ctx, debateID)
	if err != nil {
		return err
	}

	statements, err := reader.Statements(ctx, d.ID, archive.StatementOpts{})
	if err != nil {
		return err
	}

	written, err := export.Write(outPath, d, statements)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Exported %s (%d statements) to %s\n", d.Topic, len(statements), written)
	return nil
}
