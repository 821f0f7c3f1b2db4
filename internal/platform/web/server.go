// Package web serves Color Runner to browsers. Each WebSocket connection on
// /play gets its own game; the server streams snapshots as JSON and accepts
// jump messages.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/websocket"

	"github.com/vovakirdan/color-runner/internal/config"
	"github.com/vovakirdan/color-runner/internal/game"
	"github.com/vovakirdan/color-runner/internal/storage"
)

// Config holds the web server settings.
type Config struct {
	Addr     string
	TickRate int
	Game     config.Config
}

// DefaultConfig returns a config listening on :8080 at 60 frames per second.
func DefaultConfig() Config {
	return Config{
		Addr:     ":8080",
		TickRate: 60,
		Game:     config.Default(),
	}
}

// Server hosts the HTTP endpoints and game sessions.
type Server struct {
	cfg        Config
	highScores game.HighScoreStore
	store      *storage.Store
	logger     *log.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	sessions atomic.Int64

	// mu guards closed and the transition of wg from zero.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewServer creates a server. highScores and store may be nil; runs are
// then kept in memory only.
func NewServer(cfg Config, highScores game.HighScoreStore, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if highScores == nil {
		highScores = game.NewMemoryHighScores(0)
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:        cfg,
		highScores: highScores,
		store:      store,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /config", s.HandleConfig())
	mux.HandleFunc("GET /healthz", s.HandleHealth())
	mux.Handle("/play", websocket.Handler(s.HandlePlay()))
	return mux
}

// Sessions returns the number of connected players.
func (s *Server) Sessions() int {
	return int(s.sessions.Load())
}

// ListenAndServe serves until ctx is cancelled, then shuts down and ends
// every open session.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		s.wg.Wait()
		if err != nil {
			return fmt.Errorf("web: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)

	// Shutdown does not track hijacked WebSocket connections.
	s.wg.Wait()
	return err
}

// Close ends all game sessions and refuses new ones.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Wait blocks until every session handler has returned.
func (s *Server) Wait() {
	s.wg.Wait()
}

// acquire registers a session, failing once the server is closed.
func (s *Server) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

// ClientConfig is what a browser needs to draw the playfield.
type ClientConfig struct {
	Width          float64  `json:"width"`
	Height         float64  `json:"height"`
	BallSize       float64  `json:"ballSize"`
	ObstacleHeight float64  `json:"obstacleHeight"`
	GapWidth       float64  `json:"gapWidth"`
	SwitcherSize   float64  `json:"switcherSize"`
	Palette        []string `json:"palette"`
	TickRate       int      `json:"tickRate"`
	HighScore      int      `json:"highScore"`
}

// HandleConfig reports playfield geometry, palette and the high score.
func (s *Server) HandleConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := s.cfg.Game
		writeJSON(w, s.logger, ClientConfig{
			Width:          g.Playfield.Width,
			Height:         g.Playfield.Height,
			BallSize:       g.Ball.Size,
			ObstacleHeight: g.Obstacles.Height,
			GapWidth:       g.Obstacles.GapWidth,
			SwitcherSize:   g.Switchers.Size,
			Palette:        g.Palette,
			TickRate:       s.cfg.TickRate,
			HighScore:      s.highScores.HighScore(),
		})
	}
}

// HandleHealth answers liveness probes.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	}
}

func writeJSON(w http.ResponseWriter, logger *log.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("cannot write response", "err", err)
	}
}
