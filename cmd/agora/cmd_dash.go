package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// newDashCmd creates the "agora dash" subcommand.
func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Launch interactive dashboard",
		Long:  "Opens the agora dashboard TUI for watching live debates and browsing the archive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Execute agora-dash binary
			dashCmd := exec.CommandContext(cmd.Context(), "agora-dash")
			dashCmd.Stdin = os.Stdin
			dashCmd.Stdout = os.Stdout
			dashCmd.Stderr = os.Stderr

			if err := dashCmd.Run(); err != nil {
				return fmt.Errorf("run agora-dash: %w", err)
			}

			return nil
		},
	}
}
