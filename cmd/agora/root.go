package main

import (
	"fmt"

	"agora/internal/appversion"

	"github.com/spf13/cobra"
)

// newRootCmd creates the root agora command with all subcommands attached.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "agora",
		Short:         "AI panel debate simulator",
		Long:          "agora runs moderated panel debates between AI personas.\nDebates are archived to SQLite for listing, export, and the live dashboard.",
		Version:       fmt.Sprintf("agora %s", appversion.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(
		newRunCmd(),
		newPersonasCmd(),
		newListCmd(),
		newExportCmd(),
		newDashCmd(),
	)

	return cmd
}
