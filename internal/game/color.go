// Package game implements the Color Runner simulation: a ball kept aloft by
// jumps must pass through gates of its own color while color switchers
// repaint it. The package is pure logic; timing, input devices, rendering and
// storage are supplied by the platform through small interfaces.
package game

import (
	"math/rand"
)

// Color is a palette entry, a "#RRGGBB" hex string.
type Color string

// NoColor excludes nothing when passed to Picker.Pick.
const NoColor Color = ""

// Picker draws random colors from a fixed palette.
type Picker struct {
	palette []Color
	rng     *rand.Rand
}

// NewPicker creates a picker over the given hex colors.
// The palette must not be empty; config validation guarantees this.
func NewPicker(hex []string, rng *rand.Rand) *Picker {
	palette := make([]Color, len(hex))
	for i, h := range hex {
		palette[i] = Color(h)
	}
	return &Picker{palette: palette, rng: rng}
}

// Palette returns a copy of the palette.
func (p *Picker) Palette() []Color {
	out := make([]Color, len(p.palette))
	copy(out, p.palette)
	return out
}

// Pick returns a uniformly random palette color different from avoid.
// With a one-color palette there is no alternative and that color is
// returned even if it equals avoid. Exactly one random draw is made.
func (p *Picker) Pick(avoid Color) Color {
	others := 0
	for _, c := range p.palette {
		if c != avoid {
			others++
		}
	}
	if others == 0 {
		return p.palette[0]
	}

	k := p.rng.Intn(others)
	for _, c := range p.palette {
		if c == avoid {
			continue
		}
		if k == 0 {
			return c
		}
		k--
	}
	return p.palette[0] // unreachable
}
