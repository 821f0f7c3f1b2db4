package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/color-runner/internal/core"
	"github.com/vovakirdan/color-runner/internal/game"
	"github.com/vovakirdan/color-runner/internal/platform/tui"
	"github.com/vovakirdan/color-runner/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start Color Runner in the current terminal.

Controls:
  Space/Up/W/Enter/Click - Jump (also starts and restarts a run)
  Ctrl+S                 - Save a text screenshot
  Q/Ctrl+C               - Quit

Examples:
  colorrun play
  colorrun play --fps 30
  colorrun play --config ./my-colorrun.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, closer, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	opts := tui.Options{
		Game: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Logger: logger,
	}

	// Continue without storage if the database is unavailable.
	var keeper *storage.HighScoreKeeper
	if store := openStore(logger); store != nil {
		defer store.Close()
		keeper = storage.NewHighScoreKeeper(store, storage.GameID, logger)
		opts.Store = store
		opts.HighScores = keeper
	} else {
		opts.HighScores = game.NewMemoryHighScores(0)
	}

	runErr := tui.Run(opts)

	// Flush the high score before the store closes.
	if keeper != nil {
		keeper.Close()
	}

	if runErr != nil {
		return fmt.Errorf("error running game: %w", runErr)
	}
	return nil
}
