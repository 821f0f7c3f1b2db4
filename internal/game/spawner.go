package game

import "github.com/vovakirdan/color-runner/internal/config"

// Spawner creates obstacles and switchers above the visible playfield and
// decides when the next one is due.
type Spawner struct {
	obstacles config.Obstacles
	switchers config.Switchers
	picker    *Picker
	lastID    EntityID
}

// NewSpawner creates a spawner using the given configuration and color picker.
func NewSpawner(cfg config.Config, picker *Picker) *Spawner {
	return &Spawner{
		obstacles: cfg.Obstacles,
		switchers: cfg.Switchers,
		picker:    picker,
	}
}

func (s *Spawner) nextID() EntityID {
	s.lastID++
	return s.lastID
}

// Obstacle returns a new gate above the top edge whose color differs from
// the ball's, so a fresh gate is always a mismatch.
func (s *Spawner) Obstacle(ball Color) Obstacle {
	return Obstacle{
		ID:    s.nextID(),
		Y:     -s.obstacles.SpawnOffset,
		Color: s.picker.Pick(ball),
	}
}

// Switcher returns a new switcher above the top edge.
func (s *Spawner) Switcher() Switcher {
	return Switcher{
		ID: s.nextID(),
		Y:  -s.switchers.SpawnOffset,
	}
}

// ObstacleDue reports whether the trailing gate has travelled far enough
// into the playfield for the next one. An empty collection is always due.
func (s *Spawner) ObstacleDue(obstacles []Obstacle) bool {
	if len(obstacles) == 0 {
		return true
	}
	return obstacles[len(obstacles)-1].Y > s.obstacles.SpawnDistance
}

// SwitcherDue reports whether the next switcher should spawn.
// The reference is the most recently spawned switcher, tracked by trail even
// after it was collected; before any switcher exists it falls back to the
// trailing gate, and with neither present a switcher is due at once.
func (s *Spawner) SwitcherDue(t Trail, obstacles []Obstacle) bool {
	switch {
	case t.Set:
		return t.Y > s.switchers.SpawnDistance
	case len(obstacles) > 0:
		return obstacles[len(obstacles)-1].Y > s.switchers.SpawnDistance
	default:
		return true
	}
}

// Trail follows the position of the most recently spawned switcher.
type Trail struct {
	Y   float64
	Set bool
}

func (t Trail) advance(dy float64) Trail {
	if t.Set {
		t.Y += dy
	}
	return t
}
