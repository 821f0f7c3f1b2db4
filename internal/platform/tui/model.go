package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/color-runner/internal/config"
	"github.com/vovakirdan/color-runner/internal/core"
	"github.com/vovakirdan/color-runner/internal/game"
	"github.com/vovakirdan/color-runner/internal/storage"
)

// Options configures a play session.
type Options struct {
	Game    config.Config
	Runtime core.RuntimeConfig

	// HighScores persists the best score. Defaults to an in-memory store.
	HighScores game.HighScoreStore

	// Store records every finished run. Optional.
	Store *storage.Store

	// ScreenshotDir receives ctrl+s dumps. Defaults to ~/.colorrun/screenshots.
	ScreenshotDir string

	// Remote disables features that act on the host filesystem, such as
	// screenshots, for sessions served over SSH.
	Remote bool

	Logger *log.Logger
}

// Model is the Bubble Tea model for one play session. The bottom terminal
// row holds key help or the last status message.
type Model struct {
	machine  *game.Machine
	loop     *game.FrameLoop
	recorder *storage.RunRecorder
	painter  *Painter
	screen   *core.Screen
	keys     KeyMap
	help     help.Model

	screenshotDir string
	logger        *log.Logger
	config        core.RuntimeConfig

	inputFrame core.InputFrame
	status     string
	quitting   bool
}

// NewModel creates a session in the Waiting phase.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cfg := opts.Runtime
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.ScreenW, cfg.ScreenH = def.ScreenW, def.ScreenH
	}

	gameOpts := []game.Option{game.WithSeed(cfg.Seed), game.WithLogger(logger)}
	if opts.HighScores != nil {
		gameOpts = append(gameOpts, game.WithHighScores(opts.HighScores))
	}

	keys := DefaultKeyMap()
	if opts.Remote {
		keys.Screenshot.SetEnabled(false)
	}

	loop := game.NewFrameLoop()
	machine := game.NewMachine(opts.Game, loop, gameOpts...)
	recorder := storage.NewRunRecorder(opts.Store, storage.GameID, logger)
	machine.Subscribe(recorder.Observe)

	return Model{
		machine:       machine,
		loop:          loop,
		recorder:      recorder,
		painter:       NewPainter(opts.Game),
		screen:        core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		keys:          keys,
		help:          help.New(),
		screenshotDir: opts.ScreenshotDir,
		logger:        logger,
		config:        cfg,
		inputFrame:    core.NewInputFrame(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.keys.MapKeyToFrame(msg, &m.inputFrame)
		return m.applyInput()

	case tea.MouseMsg:
		if m.keys.MapMouse(msg) == core.ActionJump {
			m.inputFrame.Set(core.ActionJump)
		}
		return m.applyInput()

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// applyInput applies pending actions immediately so a jump lands before the
// next frame reads the ball.
func (m Model) applyInput() (tea.Model, tea.Cmd) {
	defer m.inputFrame.Clear()

	if m.inputFrame.Has(core.ActionQuit) {
		m.quitting = true
		m.machine.Close()
		return m, tea.Quit
	}
	if m.inputFrame.Has(core.ActionScreenshot) {
		m.saveScreenshot()
	}
	if m.inputFrame.Has(core.ActionJump) {
		m.status = ""
		m.machine.Jump()
	}
	return m, nil
}

// handleTick fires the pending frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.loop.Fire()
	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.painter.Draw(m.screen, m.machine.Snapshot())

	dir := m.screenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.logger.Warn("cannot resolve screenshot directory", "err", err)
			return
		}
		dir = filepath.Join(home, ".colorrun", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "dir", dir, "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("colorrun_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "path", path, "err", err)
		return
	}
	m.status = "saved " + filepath.Base(path)
	m.logger.Info("screenshot saved", "path", path)
}

// Snapshot returns the current game state.
func (m Model) Snapshot() game.Snapshot {
	return m.machine.Snapshot()
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.painter.Draw(m.screen, m.machine.Snapshot())

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = m.status
	}
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(1)
	return RenderScreen(m.screen) + "\n" + footerStyle.Render(footer)
}

// Run starts the Bubble Tea program in the current terminal.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.Close()
	} else {
		model.Close()
	}
	return err
}

// Close stops the game and flushes recorded runs. Call it once the program
// driving the model has exited.
func (m Model) Close() {
	m.machine.Close()
	m.recorder.Close()
}
