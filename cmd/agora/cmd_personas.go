package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"agora/pkg/backend"
	"agora/pkg/config"
	"agora/pkg/debate"
	"agora/pkg/moderator"
	"agora/pkg/panel"

	"github.com/spf13/cobra"
)

// personasOptions holds flag values for the personas command.
type personasOptions struct {
	configPath string
	count      int
	write      bool
}

// newPersonasCmd creates the "agora personas" subcommand.
func newPersonasCmd() *cobra.Command {
	var opts personasOptions

	cmd := &cobra.Command{
		Use:   "personas <topic>",
		Short: "Generate panel personas for a topic",
		Long:  "Asks the backend for debate personas suited to a topic, falling back to\nthe built-in panel when generation fails. --write saves the result as the\ndefault roster used by future runs.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")

			paths, err := ResolvePaths()
			if err != nil {
				return fmt.Errorf("resolve paths: %w", err)
			}

			configPath := opts.configPath
			if configPath == "" {
				configPath = paths.ConfigPath
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			b, err := backend.New(cfg.BackendConfig())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			roster := resolveRoster(cmd.Context(), moderator.NewEngine(b), w, topic, opts.count)
			printPersonas(w, roster)

			if opts.write {
				if err := bootstrapAgoraDir(paths.AgoraHome); err != nil {
					return err
				}
				if err := config.SavePersonas(paths.PersonasPath, roster); err != nil {
					return err
				}
				fmt.Fprintf(w, "Wrote %s\n", paths.PersonasPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default $AGORA_HOME/config.toml)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 4, "number of personas to generate")
	cmd.Flags().BoolVar(&opts.write, "write", false, "save the roster to personas.yaml")

	return cmd
}

// personaSource generates a roster for a topic. The moderator engine
// implements it.
type personaSource interface {
	GeneratePersonas(ctx context.Context, topic string, n int) ([]debate.Panelist, error)
}

// resolveRoster generates personas for the topic, falling back to the
// built-in panel when generation fails.
func resolveRoster(ctx context.Context, src personaSource, w io.Writer, topic string, count int) []debate.Panelist {
	roster, err := src.GeneratePersonas(ctx, topic, count)
	if err != nil {
		fmt.Fprintln(w, "persona generation failed, using the default panel")
		return panel.DefaultPanel()
	}
	return roster
}

// printPersonas renders a roster in the persona block format.
func printPersonas(w io.Writer, roster []debate.Panelist) {
	for _, p := range roster {
		fmt.Fprintf(w, "Name: %s\n", p.Name)
		if p.Expertise != "" {
			fmt.Fprintf(w, "Expertise: %s\n", p.Expertise)
		}
		if p.Background != "" {
			fmt.Fprintf(w, "Background: %s\n", p.Background)
		}
		if p.Perspective != "" {
			fmt.Fprintf(w, "Perspective: %s\n", p.Perspective)
		}
		if p.Style != "" {
			fmt.Fprintf(w, "Style: %s\n", p.Style)
		}
		fmt.Fprintln(w)
	}
}
