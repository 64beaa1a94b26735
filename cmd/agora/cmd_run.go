package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"agora/pkg/archive"
	"agora/pkg/backend"
	"agora/pkg/config"
	"agora/pkg/debate"
	"agora/pkg/dispatcher"
	"agora/pkg/moderator"
	"agora/pkg/panel"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// runOptions holds flag values for the run command.
type runOptions struct {
	configPath string
	rounds     int
	human      bool
	name       string
}

// newRunCmd creates the "agora run" subcommand.
func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <topic>",
		Short: "Run a panel debate on a topic",
		Long:  "Runs a moderated panel debate: the panel speaks in rounds while an analyzer\nsteers the format, and every statement is archived for later export.",
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

			roster, err := config.LoadPersonas(paths.PersonasPath)
			if err != nil {
				return err
			}
			if len(roster) == 0 {
				roster = panel.DefaultPanel()
			}

			b, err := backend.New(cfg.BackendConfig())
			if err != nil {
				return err
			}

			store, err := openStore(paths)
			if err != nil {
				return err
			}
			defer store.Close()

			rc := runConfig{
				out:         cmd.OutOrStdout(),
				stdin:       cmd.InOrStdin(),
				cfg:         cfg,
				topic:       topic,
				rounds:      opts.rounds,
				human:       opts.human,
				humanName:   opts.name,
				interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
				roster:      roster,
				store:       store,
				backend:     b,
				randInt:     rand.Intn,
			}
			return runDebate(cmd.Context(), rc)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default $AGORA_HOME/config.toml)")
	cmd.Flags().IntVar(&opts.rounds, "rounds", 0, "run a static debate with exactly N rounds")
	cmd.Flags().BoolVar(&opts.human, "human", false, "join the panel yourself (requires a terminal)")
	cmd.Flags().StringVar(&opts.name, "name", "You", "panelist name used with --human")

	return cmd
}

// runConfig carries the assembled dependencies for one debate run. The
// RunE closure fills it from flags, config, and the environment; tests
// substitute any piece.
type runConfig struct {
	out         io.Writer
	stdin       io.Reader
	cfg         config.Config
	topic       string
	rounds      int // >0 forces a static debate with exactly that many rounds
	human       bool
	humanName   string
	interactive bool
	roster      []debate.Panelist
	store       *archive.Store
	backend     backend.Backend
	randInt     func(int) int
}

// runDebate wires the engine together and drives one debate to the end.
func runDebate(ctx context.Context, rc runConfig) error {
	roster := rc.roster
	humanName := rc.humanName
	if humanName == "" {
		humanName = "You"
	}

	if rc.human {
		if !rc.interactive {
			return fmt.Errorf("--human needs an interactive terminal")
		}
		var seat int
		roster, seat = panel.InsertHuman(roster, debate.Panelist{Name: humanName, IsHuman: true}, rc.randInt)
		fmt.Fprintf(rc.out, "You join the panel in seat %d as %s.\n\n", seat+1, humanName)
	}

	eng := moderator.NewEngine(rc.backend)
	var resp dispatcher.Responder = eng
	if rc.human {
		resp = panel.NewHumanBridge(eng, rc.stdin, rc.out)
	}

	static := rc.rounds > 0 || rc.cfg.Mode == "static"
	mode := "dynamic"
	if static {
		mode = "static"
	}

	id, err := rc.store.CreateDebate(ctx, archive.CreateParams{
		Topic:     rc.topic,
		Mode:      mode,
		MinRounds: rc.cfg.Rounds.Min,
		MaxRounds: rc.cfg.Rounds.Max,
	})
	if err != nil {
		return err
	}
	rec := rc.store.Recorder(id)
	if rc.human {
		_ = rec.RecordEvent(ctx, debate.EventHumanJoined, 0, fmt.Sprintf(`{"name":%q}`, humanName))
	}

	d := dispatcher.New(rc.cfg.EngineConfig(), roster, eng, resp, eng, &consoleSink{w: rc.out}, rec)

	if static {
		err = d.RunStaticDebate(ctx, rc.topic, rc.rounds)
	} else {
		err = d.RunDynamicDebate(ctx, rc.topic)
	}

	// Close out the archive row even when the run was cut short; the
	// statements spoken so far are already persisted.
	finishCtx := context.Background()
	_ = rc.store.SetRoundsCompleted(finishCtx, id, d.State().CurrentRound)
	status := debate.StatusCompleted
	if err != nil {
		status = debate.StatusEndedEarly
	}
	_ = rc.store.FinishDebate(finishCtx, id, status)

	if err != nil {
		return fmt.Errorf("debate aborted: %w", err)
	}

	fmt.Fprintf(rc.out, "Archived debate %s\n", id)
	return nil
}

// consoleSink prints statements as they are spoken.
type consoleSink struct {
	w io.Writer
}

func (c *consoleSink) Say(st debate.Statement) {
	fmt.Fprintf(c.w, "%s: %s\n\n", st.Speaker, st.Content)
}
