package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// LocalPath is the project-relative config location checked after the user directory.
const LocalPath = "configs/colorrun.yaml"

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Load loads the game configuration.
// Search order: customPath -> ~/.colorrun/config.yaml -> ./configs/colorrun.yaml -> embedded default.
// A custom path that cannot be read or parsed is an error; the other
// locations are skipped silently when missing or malformed.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return Config{}, err
		}
		if err := cfg.Validate(); err != nil {
			return Config{}, fmt.Errorf("config: invalid %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(), LocalPath} {
		if path == "" {
			continue
		}
		if cfg, err := loadFile(path); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil || cfg.Validate() != nil {
		return Default(), nil
	}
	return cfg, nil
}

// loadFile reads a YAML file over the built-in defaults, so partial files
// only override the keys they name.
func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".colorrun", "config.yaml")
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	positive("playfield.width", c.Playfield.Width)
	positive("playfield.height", c.Playfield.Height)
	positive("ball.size", c.Ball.Size)
	positive("ball.gravity", c.Ball.Gravity)
	positive("obstacles.height", c.Obstacles.Height)
	positive("obstacles.speed", c.Obstacles.Speed)
	positive("obstacles.spawn_distance", c.Obstacles.SpawnDistance)
	positive("switchers.size", c.Switchers.Size)
	positive("switchers.spawn_distance", c.Switchers.SpawnDistance)

	if c.Ball.JumpImpulse >= 0 {
		errs = append(errs, fmt.Errorf("ball.jump_impulse must be negative, got %v", c.Ball.JumpImpulse))
	}
	if c.Ball.Size >= c.Playfield.Height {
		errs = append(errs, fmt.Errorf("ball.size %v does not fit playfield height %v", c.Ball.Size, c.Playfield.Height))
	}
	if start := c.BallStart(); start > c.Playfield.Height-c.Ball.Size {
		errs = append(errs, fmt.Errorf("ball.start_height %v is above the ceiling", start))
	}
	if c.Obstacles.GapWidth < 0 || c.Obstacles.GapWidth > c.Playfield.Width {
		errs = append(errs, fmt.Errorf("obstacles.gap_width must be within [0, %v], got %v", c.Playfield.Width, c.Obstacles.GapWidth))
	}
	if c.Obstacles.SpawnOffset < 0 || c.Switchers.SpawnOffset < 0 || c.Obstacles.DespawnMargin < 0 {
		errs = append(errs, errors.New("spawn offsets and despawn margin must not be negative"))
	}

	if len(c.Palette) == 0 {
		errs = append(errs, errors.New("palette must contain at least one color"))
	}
	seen := make(map[string]bool, len(c.Palette))
	for _, col := range c.Palette {
		if !hexColor.MatchString(col) {
			errs = append(errs, fmt.Errorf("palette color %q is not #RRGGBB", col))
		}
		if seen[col] {
			errs = append(errs, fmt.Errorf("palette color %q is listed twice", col))
		}
		seen[col] = true
	}

	return errors.Join(errs...)
}
