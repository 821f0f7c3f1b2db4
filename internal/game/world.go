package game

import (
	"github.com/vovakirdan/color-runner/internal/config"
	"github.com/vovakirdan/color-runner/internal/core"
)

// World is the complete simulation state of one run.
type World struct {
	Ball      Ball
	Obstacles []Obstacle // Spawn order, oldest first
	Switchers []Switcher // Spawn order, oldest first
	Score     int
	Trail     Trail // Most recently spawned switcher
}

// Clone returns a deep copy of the world.
func (w World) Clone() World {
	w.Obstacles = append([]Obstacle(nil), w.Obstacles...)
	w.Switchers = append([]Switcher(nil), w.Switchers...)
	return w
}

// Outcome is the result of one physics step.
type Outcome int

const (
	OutcomeContinue Outcome = iota // Run goes on
	OutcomeBoundary                // Ball touched the floor or the ceiling
	OutcomeGate                    // Ball hit a gate of another color
)

// Terminal reports whether the outcome ends the run.
func (o Outcome) Terminal() bool {
	return o != OutcomeContinue
}

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeBoundary:
		return "boundary"
	case OutcomeGate:
		return "gate"
	default:
		return "unknown"
	}
}

// Physics advances a World by one frame.
type Physics struct {
	cfg     config.Config
	picker  *Picker
	spawner *Spawner
}

// NewPhysics creates the per-frame step over the given collaborators.
func NewPhysics(cfg config.Config, picker *Picker, spawner *Spawner) *Physics {
	return &Physics{cfg: cfg, picker: picker, spawner: spawner}
}

// BallSpan returns the vertical band the ball occupies, in the same
// top-down coordinates as obstacles and switchers.
func (p *Physics) BallSpan(y float64) core.Span {
	return core.SpanOf(p.cfg.Playfield.Height-y-p.cfg.Ball.Size, p.cfg.Ball.Size)
}

// ObstacleSpan returns the vertical band of a gate.
func (p *Physics) ObstacleSpan(o Obstacle) core.Span {
	return core.SpanOf(o.Y, p.cfg.Obstacles.Height)
}

// SwitcherSpan returns the vertical band of a switcher.
func (p *Physics) SwitcherSpan(s Switcher) core.Span {
	return core.SpanOf(s.Y, p.cfg.Switchers.Size)
}

// Step runs one frame against prev and returns the next world. prev is not
// modified; the returned world shares no slices with it.
//
// A terminal outcome short-circuits the rest of the frame: a boundary hit
// leaves every entity where it was, a gate hit keeps the advanced gates but
// awards no score and skips the switchers.
func (p *Physics) Step(prev World) (World, Outcome) {
	next := prev.Clone()

	// Integrate: gravity raises velocity, velocity lowers height.
	onFloor := prev.Ball.Y <= 0
	next.Ball.Velocity = prev.Ball.Velocity + p.cfg.Ball.Gravity
	next.Ball.Y = prev.Ball.Y - next.Ball.Velocity

	ceiling := p.cfg.Playfield.Height - p.cfg.Ball.Size
	if onFloor || next.Ball.Y < 0 || next.Ball.Y > ceiling {
		return next, OutcomeBoundary
	}

	ball := p.BallSpan(next.Ball.Y)
	speed := p.cfg.Obstacles.Speed
	exit := p.cfg.Playfield.Height + p.cfg.Obstacles.DespawnMargin

	next.Obstacles = next.Obstacles[:0]
	for _, o := range prev.Obstacles {
		o.Y += speed
		if o.Y < exit {
			next.Obstacles = append(next.Obstacles, o)
		}
	}

	// Decide first, then apply: a mismatch anywhere wins over scoring.
	var cleared []int
	for i, o := range next.Obstacles {
		if !ball.Overlaps(p.ObstacleSpan(o)) {
			continue
		}
		if o.Color != next.Ball.Color {
			return next, OutcomeGate
		}
		if !o.Passed {
			cleared = append(cleared, i)
		}
	}
	for _, i := range cleared {
		next.Obstacles[i].Passed = true
		next.Score++
	}

	if p.spawner.ObstacleDue(next.Obstacles) {
		next.Obstacles = append(next.Obstacles, p.spawner.Obstacle(next.Ball.Color))
	}

	next.Trail = next.Trail.advance(speed)
	moved := next.Switchers[:0]
	for _, s := range prev.Switchers {
		s.Y += speed
		if s.Y < exit {
			moved = append(moved, s)
		}
	}

	collected := make(map[EntityID]bool)
	for _, s := range moved {
		if ball.Overlaps(p.SwitcherSpan(s)) {
			collected[s.ID] = true
		}
	}
	next.Switchers = make([]Switcher, 0, len(moved)+1)
	for _, s := range moved {
		if collected[s.ID] {
			next.Ball.Color = p.picker.Pick(next.Ball.Color)
			continue
		}
		next.Switchers = append(next.Switchers, s)
	}

	if p.spawner.SwitcherDue(next.Trail, next.Obstacles) {
		s := p.spawner.Switcher()
		next.Switchers = append(next.Switchers, s)
		next.Trail = Trail{Y: s.Y, Set: true}
	}

	return next, OutcomeContinue
}
