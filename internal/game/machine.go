package game

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/color-runner/internal/config"
)

// Machine owns the game lifecycle: it applies jump events, runs the physics
// step once per scheduled frame while a run is in progress, and records high
// scores when a run ends.
//
//	Waiting  --jump--> Playing (reset)
//	Playing  --jump--> Playing (velocity = jump impulse)
//	Playing  --tick--> Playing | GameOver
//	GameOver --jump--> Playing (reset)
//
// Machine is not safe for concurrent use. Platforms deliver jumps and fire
// the scheduler from a single goroutine.
type Machine struct {
	cfg       config.Config
	picker    *Picker
	spawner   *Spawner
	physics   *Physics
	scheduler Scheduler
	store     HighScoreStore
	logger    *log.Logger

	phase     Phase
	world     World
	highScore int
	run       int
	frame     int
	endedBy   Outcome
	pending   FrameHandle

	subs    map[int]func(Snapshot)
	lastSub int
}

// Option configures a Machine.
type Option func(*Machine)

// WithSeed seeds the color RNG for reproducible runs. Without it the
// current time is used.
func WithSeed(seed int64) Option {
	return func(m *Machine) {
		m.picker.rng = rand.New(rand.NewSource(seed))
	}
}

// WithHighScores sets the high score store. The stored value is read once,
// when the Machine is created.
func WithHighScores(store HighScoreStore) Option {
	return func(m *Machine) {
		m.store = store
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *log.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMachine creates a game in the Waiting phase. cfg must be valid.
func NewMachine(cfg config.Config, scheduler Scheduler, opts ...Option) *Machine {
	picker := NewPicker(cfg.Palette, rand.New(rand.NewSource(time.Now().UnixNano())))
	m := &Machine{
		cfg:       cfg,
		picker:    picker,
		scheduler: scheduler,
		store:     NewMemoryHighScores(0),
		logger:    log.New(io.Discard),
		subs:      make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.spawner = NewSpawner(cfg, m.picker)
	m.physics = NewPhysics(cfg, m.picker, m.spawner)
	m.highScore = max(m.store.HighScore(), 0)
	m.world = World{Ball: Ball{Y: cfg.BallStart(), Color: m.picker.palette[0]}}
	return m
}

// Phase returns the current lifecycle phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Physics exposes the step, mainly for its span helpers.
func (m *Machine) Physics() *Physics {
	return m.physics
}

// Jump applies the single player input: it starts a run from Waiting or
// GameOver, and sets the ball's velocity to the jump impulse while playing.
// Jumps replace the velocity; they do not stack.
func (m *Machine) Jump() {
	switch m.phase {
	case PhaseWaiting, PhaseGameOver:
		m.start()
	case PhasePlaying:
		m.world.Ball.Velocity = m.cfg.Ball.JumpImpulse
	}
	m.notify()
}

// Tick runs one frame. It does nothing unless a run is in progress.
// The scheduler calls Tick; calling it directly replaces the pending frame
// rather than adding a second one.
func (m *Machine) Tick() {
	if m.phase != PhasePlaying {
		return
	}
	m.cancelPending()

	world, outcome := m.physics.Step(m.world)
	m.world = world
	m.frame++

	if outcome.Terminal() {
		m.finish(outcome)
	} else {
		m.pending = m.scheduler.Schedule(m.Tick)
	}
	m.notify()
}

// Close deregisters the pending frame and drops all subscribers.
// The Machine must not be used afterwards.
func (m *Machine) Close() {
	m.cancelPending()
	clear(m.subs)
}

// Subscribe registers fn to receive a snapshot after every change.
// The returned function removes the subscription.
func (m *Machine) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	m.lastSub++
	id := m.lastSub
	m.subs[id] = fn
	return func() { delete(m.subs, id) }
}

// Snapshot returns a copy of the presentation-relevant state.
func (m *Machine) Snapshot() Snapshot {
	w := m.world.Clone()
	snap := Snapshot{
		Phase:     m.phase,
		Run:       m.run,
		Frame:     m.frame,
		BallY:     w.Ball.Y,
		BallColor: w.Ball.Color,
		Obstacles: w.Obstacles,
		Switchers: w.Switchers,
		Score:     w.Score,
		HighScore: m.highScore,
	}
	if snap.Obstacles == nil {
		snap.Obstacles = []Obstacle{}
	}
	if snap.Switchers == nil {
		snap.Switchers = []Switcher{}
	}
	if m.phase == PhaseGameOver {
		snap.EndedBy = m.endedBy.String()
	}
	return snap
}

// start resets the world and begins stepping.
func (m *Machine) start() {
	color := m.picker.Pick(NoColor)
	m.world = World{
		Ball: Ball{Y: m.cfg.BallStart(), Color: color},
	}
	m.world.Obstacles = []Obstacle{m.spawner.Obstacle(color)}
	sw := m.spawner.Switcher()
	m.world.Switchers = []Switcher{sw}
	m.world.Trail = Trail{Y: sw.Y, Set: true}

	m.run++
	m.frame = 0
	m.phase = PhasePlaying
	m.cancelPending()
	m.pending = m.scheduler.Schedule(m.Tick)

	m.logger.Debug("run started", "run", m.run, "color", color)
}

// finish moves to GameOver and records a new high score.
func (m *Machine) finish(outcome Outcome) {
	m.phase = PhaseGameOver
	m.endedBy = outcome
	m.cancelPending()

	score := m.world.Score
	m.logger.Debug("run ended", "run", m.run, "score", score, "cause", outcome, "frames", m.frame)

	if score > m.highScore {
		m.highScore = score
		m.store.SetHighScore(score)
		m.logger.Info("new high score", "score", score)
	}
}

func (m *Machine) cancelPending() {
	if m.pending != 0 {
		m.scheduler.Cancel(m.pending)
		m.pending = 0
	}
}

func (m *Machine) notify() {
	if len(m.subs) == 0 {
		return
	}
	snap := m.Snapshot()
	for _, fn := range m.subs {
		fn(snap)
	}
}
