package game

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/color-runner/internal/config"
)

func newTestMachine(t *testing.T, opts ...Option) (*Machine, *FrameLoop) {
	t.Helper()
	loop := NewFrameLoop()
	opts = append([]Option{WithSeed(1)}, opts...)
	m := NewMachine(config.Default(), loop, opts...)
	t.Cleanup(m.Close)
	return m, loop
}

// crash puts the ball on the floor so the next frame ends the run.
func crash(m *Machine, loop *FrameLoop) {
	m.world.Ball.Y = 0
	loop.Fire()
}

func TestMachineStartsWaiting(t *testing.T) {
	m, loop := newTestMachine(t)

	if m.Phase() != PhaseWaiting {
		t.Fatalf("phase = %v, expected waiting", m.Phase())
	}
	m.Tick()
	if snap := m.Snapshot(); snap.Frame != 0 || snap.Phase != PhaseWaiting {
		t.Errorf("tick while waiting must be a no-op, got %+v", snap)
	}
	if loop.Pending() {
		t.Error("nothing should be scheduled while waiting")
	}
}

func TestMachineJumpStartsRun(t *testing.T) {
	m, loop := newTestMachine(t)
	m.Jump()

	assertFreshRun(t, m)
	if !loop.Pending() {
		t.Error("starting a run should schedule the first frame")
	}
}

func assertFreshRun(t *testing.T, m *Machine) {
	t.Helper()
	snap := m.Snapshot()
	if snap.Phase != PhasePlaying {
		t.Errorf("phase = %v, expected playing", snap.Phase)
	}
	if snap.Score != 0 {
		t.Errorf("score = %d, expected 0", snap.Score)
	}
	if len(snap.Obstacles) != 1 || len(snap.Switchers) != 1 {
		t.Errorf("expected one obstacle and one switcher, got %d and %d", len(snap.Obstacles), len(snap.Switchers))
	}
	if snap.BallY != 175 || m.world.Ball.Velocity != 0 {
		t.Errorf("ball should start at 175 at rest, got y=%v v=%v", snap.BallY, m.world.Ball.Velocity)
	}
	if snap.Obstacles[0].Color == snap.BallColor {
		t.Error("seeded obstacle must not match the ball")
	}
	if snap.Frame != 0 {
		t.Errorf("frame = %d, expected 0", snap.Frame)
	}
}

func TestMachineJumpOverridesVelocity(t *testing.T) {
	m, loop := newTestMachine(t)
	m.Jump()

	for i := 0; i < 5; i++ {
		loop.Fire()
	}
	if m.world.Ball.Velocity <= 0 {
		t.Fatalf("ball should be falling after a few frames, v=%v", m.world.Ball.Velocity)
	}

	m.Jump()
	m.Jump()
	m.Jump()
	if m.world.Ball.Velocity != -10 {
		t.Errorf("jumps should set velocity to -10 without stacking, got %v", m.world.Ball.Velocity)
	}

	y := m.world.Ball.Y
	loop.Fire()
	if m.world.Ball.Velocity != -9.5 || m.world.Ball.Y != y+9.5 {
		t.Errorf("frame after jump: y=%v v=%v, expected y=%v v=-9.5", m.world.Ball.Y, m.world.Ball.Velocity, y+9.5)
	}
}

func TestMachineOneStepPerFrame(t *testing.T) {
	m, loop := newTestMachine(t)
	m.Jump()

	for i := 1; i <= 10; i++ {
		if !loop.Fire() {
			t.Fatalf("frame %d was not scheduled", i)
		}
		if got := m.Snapshot().Frame; got != i {
			t.Fatalf("after %d fires, frame = %d", i, got)
		}
	}

	// A direct tick replaces the pending frame instead of adding one.
	m.Tick()
	loop.Fire()
	if !loop.Pending() || m.Snapshot().Frame != 12 {
		t.Errorf("frame = %d, expected 12 with one pending registration", m.Snapshot().Frame)
	}
}

func TestMachineFallsToGameOver(t *testing.T) {
	m, loop := newTestMachine(t)
	m.Jump()

	for i := 0; i < 1000 && m.Phase() == PhasePlaying; i++ {
		loop.Fire()
	}

	snap := m.Snapshot()
	if snap.Phase != PhaseGameOver {
		t.Fatalf("an idle ball should hit the floor, phase = %v", snap.Phase)
	}
	if snap.EndedBy != "boundary" {
		t.Errorf("EndedBy = %q, expected boundary", snap.EndedBy)
	}
	if loop.Pending() {
		t.Error("no frame may be scheduled after game over")
	}

	frame := snap.Frame
	m.Tick()
	if m.Snapshot().Frame != frame {
		t.Error("tick after game over must be a no-op")
	}
}

func TestMachineFloorEndsRunWithoutEntityLogic(t *testing.T) {
	m, loop := newTestMachine(t)
	m.Jump()

	before := m.Snapshot()
	m.world.Ball.Velocity = -10
	crash(m, loop)

	after := m.Snapshot()
	if after.Phase != PhaseGameOver {
		t.Fatalf("ball on the floor should end the run, phase = %v", after.Phase)
	}
	if !reflect.DeepEqual(after.Obstacles, before.Obstacles) || !reflect.DeepEqual(after.Switchers, before.Switchers) {
		t.Error("entities must not move on a boundary hit")
	}
}

func TestMachineRestartFromGameOver(t *testing.T) {
	m, loop := newTestMachine(t)
	m.Jump()
	m.world.Score = 4
	crash(m, loop)

	m.Jump()
	assertFreshRun(t, m)
	if m.Snapshot().Run != 2 {
		t.Errorf("run = %d, expected 2", m.Snapshot().Run)
	}
	if !loop.Pending() {
		t.Error("restart should schedule a frame")
	}
}

func TestMachineHighScore(t *testing.T) {
	store := NewMemoryHighScores(5)
	m, loop := newTestMachine(t, WithHighScores(store))

	if got := m.Snapshot().HighScore; got != 5 {
		t.Fatalf("high score should load from the store, got %d", got)
	}

	// Equal score: no update.
	m.Jump()
	m.world.Score = 5
	crash(m, loop)
	if store.Writes() != 0 {
		t.Fatal("a score equal to the high score must not be persisted")
	}

	// Better score.
	m.Jump()
	m.world.Score = 7
	crash(m, loop)
	if store.HighScore() != 7 || store.Writes() != 1 {
		t.Fatalf("store = %d after %d writes, expected 7 after 1", store.HighScore(), store.Writes())
	}
	if m.Snapshot().HighScore != 7 {
		t.Errorf("snapshot high score = %d", m.Snapshot().HighScore)
	}

	// Worse score never lowers it.
	m.Jump()
	m.world.Score = 2
	crash(m, loop)
	if store.HighScore() != 7 || m.Snapshot().HighScore != 7 {
		t.Error("high score must never decrease")
	}
}

func TestMachineSharedHighScoreNeverDecreases(t *testing.T) {
	store := NewMemoryHighScores(0)
	a, loopA := newTestMachine(t, WithHighScores(store))
	b, loopB := newTestMachine(t, WithHighScores(store))

	b.Jump()
	b.world.Score = 10
	crash(b, loopB)
	if store.HighScore() != 10 {
		t.Fatalf("store = %d, expected 10", store.HighScore())
	}

	// a still caches 0 and reports its lower score.
	a.Jump()
	a.world.Score = 3
	crash(a, loopA)
	if store.HighScore() != 10 {
		t.Fatalf("shared high score dropped from 10 to %d", store.HighScore())
	}
}

func TestMachineSubscribe(t *testing.T) {
	m, loop := newTestMachine(t)

	var got []Snapshot
	unsubscribe := m.Subscribe(func(s Snapshot) { got = append(got, s) })

	m.Jump()
	loop.Fire()
	m.Jump()
	if len(got) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(got))
	}
	if got[0].Phase != PhasePlaying || got[1].Frame != 1 {
		t.Errorf("unexpected notifications: %+v", got[:2])
	}

	unsubscribe()
	loop.Fire()
	if len(got) != 3 {
		t.Error("unsubscribed callback was still called")
	}
}

func TestMachineSnapshotIsACopy(t *testing.T) {
	m, _ := newTestMachine(t)
	m.Jump()

	snap := m.Snapshot()
	snap.Obstacles[0].Y = 12345
	snap.Switchers[0].Y = 12345

	fresh := m.Snapshot()
	if fresh.Obstacles[0].Y == 12345 || fresh.Switchers[0].Y == 12345 {
		t.Error("mutating a snapshot must not affect the game")
	}
}

func TestMachineCloseCancelsFrame(t *testing.T) {
	m, loop := newTestMachine(t)
	m.Jump()
	m.Close()

	if loop.Pending() {
		t.Error("Close should deregister the pending frame")
	}
	if loop.Fire() {
		t.Error("no step may run after Close")
	}
}

func TestMachineDeterminism(t *testing.T) {
	play := func() Snapshot {
		m, loop := newTestMachine(t, WithSeed(99))
		m.Jump()
		for i := 0; i < 2000 && m.Phase() == PhasePlaying; i++ {
			if i%14 == 0 {
				m.Jump()
			}
			loop.Fire()
		}
		return m.Snapshot()
	}

	a, b := play(), play()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed and inputs diverged:\n%+v\n%+v", a, b)
	}
}

// Every frame obeys v' = v + g, y' = y - v', with jumps resetting v first.
func TestMachineIntegrationProperty(t *testing.T) {
	m, loop := newTestMachine(t)
	rng := rand.New(rand.NewSource(5))
	m.Jump()

	for i := 0; i < 500 && m.Phase() == PhasePlaying; i++ {
		if rng.Intn(12) == 0 {
			m.Jump()
			if m.world.Ball.Velocity != -10 {
				t.Fatalf("jump left velocity at %v", m.world.Ball.Velocity)
			}
		}
		y, v := m.world.Ball.Y, m.world.Ball.Velocity
		loop.Fire()
		if m.world.Ball.Velocity != v+0.5 || m.world.Ball.Y != y-(v+0.5) {
			t.Fatalf("frame %d: (y=%v, v=%v) -> (y=%v, v=%v)", i, y, v, m.world.Ball.Y, m.world.Ball.Velocity)
		}
	}
}

// Passed flips at most once per gate and each flip is worth one point.
// With a one-color palette every gate matches the ball.
func TestMachineScoreMatchesPassedGates(t *testing.T) {
	cfg := config.Default()
	cfg.Palette = cfg.Palette[:1]
	loop := NewFrameLoop()
	m := NewMachine(cfg, loop, WithSeed(3))
	t.Cleanup(m.Close)
	m.Jump()

	passed := make(map[EntityID]bool)
	for i := 0; i < 5000 && m.Phase() == PhasePlaying; i++ {
		// Keep the ball near its start height.
		if m.world.Ball.Y < 175 && m.world.Ball.Velocity > 0 {
			m.Jump()
		}
		loop.Fire()

		for _, o := range m.world.Obstacles {
			if o.Passed {
				passed[o.ID] = true
			} else if passed[o.ID] {
				t.Fatalf("gate %d went from passed back to not passed", o.ID)
			}
		}
		if m.world.Score != len(passed) {
			t.Fatalf("score %d != %d passed gates", m.world.Score, len(passed))
		}
	}
	if m.world.Score < 3 {
		t.Fatalf("score = %d after the loop, expected several matching gates passed", m.world.Score)
	}
}
