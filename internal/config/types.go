// Package config provides YAML-based configuration loading for Color Runner.
// Every tunable of the simulation lives here; the game package never reads
// files or globals.
package config

// Config contains all configuration for the game.
type Config struct {
	Playfield Playfield `yaml:"playfield"`
	Ball      Ball      `yaml:"ball"`
	Obstacles Obstacles `yaml:"obstacles"`
	Switchers Switchers `yaml:"switchers"`
	Palette   []string  `yaml:"palette"` // Hex colors, e.g. "#FF6384"
}

// Playfield defines the bounded region the simulation runs in, in length units.
type Playfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Ball defines ball size and physics.
type Ball struct {
	Size        float64 `yaml:"size"`
	Gravity     float64 `yaml:"gravity"`      // Added to velocity every frame
	JumpImpulse float64 `yaml:"jump_impulse"` // Velocity set by a jump (negative = up)
	StartHeight float64 `yaml:"start_height"` // Distance from floor at reset; 0 = a quarter of the playfield
}

// Obstacles defines gate geometry, movement and spawning.
type Obstacles struct {
	Height        float64 `yaml:"height"`
	GapWidth      float64 `yaml:"gap_width"`
	Speed         float64 `yaml:"speed"`          // Units per frame toward the bottom edge
	SpawnOffset   float64 `yaml:"spawn_offset"`   // Spawned this far above the top edge
	SpawnDistance float64 `yaml:"spawn_distance"` // Trailing gate must pass this y before the next spawns
	DespawnMargin float64 `yaml:"despawn_margin"` // Dropped once this far below the bottom edge
}

// Switchers defines color switcher geometry and spawning.
// Switchers move at the obstacle speed.
type Switchers struct {
	Size          float64 `yaml:"size"`
	SpawnOffset   float64 `yaml:"spawn_offset"`
	SpawnDistance float64 `yaml:"spawn_distance"`
}

// BallStart returns the ball's starting height above the floor.
func (c Config) BallStart() float64 {
	if c.Ball.StartHeight > 0 {
		return c.Ball.StartHeight
	}
	return c.Playfield.Height / 4
}
