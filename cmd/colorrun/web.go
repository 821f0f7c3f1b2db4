package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/color-runner/internal/game"
	"github.com/vovakirdan/color-runner/internal/platform/web"
	"github.com/vovakirdan/color-runner/internal/storage"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the Color Runner WebSocket server",
	Long: `Serve the game to browsers.

Endpoints:
  GET /config   - Playfield size, entity sizes, palette and high score
  GET /healthz  - Liveness probe
  /play         - WebSocket; send {"type":"jump"}, receive game snapshots

Each WebSocket connection plays its own game. All players share the high
score and run history stored in --db.

Examples:
  colorrun web
  colorrun web --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
}

func runWeb(_ *cobra.Command, _ []string) error {
	logger, closer, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closer.Close()

	gameCfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	var highScores game.HighScoreStore = game.NewMemoryHighScores(0)
	store := openStore(logger)
	if store != nil {
		defer store.Close()
		keeper := storage.NewHighScoreKeeper(store, storage.GameID, logger)
		defer keeper.Close()
		highScores = keeper
	}

	server := web.NewServer(web.Config{
		Addr:     flagWebAddr,
		TickRate: flagFPS,
		Game:     gameCfg,
	}, highScores, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting Color Runner web server on %s\n", flagWebAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
