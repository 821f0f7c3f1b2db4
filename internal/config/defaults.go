package config

import (
	_ "embed"
)

//go:embed defaults/colorrun.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
// It mirrors defaults/colorrun.yaml and is used if the embedded file fails to parse.
func Default() Config {
	return Config{
		Playfield: Playfield{
			Width:  400,
			Height: 700,
		},
		Ball: Ball{
			Size:        30,
			Gravity:     0.5,
			JumpImpulse: -10,
		},
		Obstacles: Obstacles{
			Height:        25,
			GapWidth:      100,
			Speed:         2.5,
			SpawnOffset:   200,
			SpawnDistance: 300,
			DespawnMargin: 50,
		},
		Switchers: Switchers{
			Size:          20,
			SpawnOffset:   350,
			SpawnDistance: 500,
		},
		Palette: []string{"#FF6384", "#36A2EB", "#FFCD56", "#4BC0C0"},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
