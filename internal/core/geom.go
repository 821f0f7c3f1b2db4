// Package core provides fundamental types and utilities shared by the game
// and its presentation layers. It contains no external dependencies (especially
// no Bubble Tea) to keep game logic pure and testable.
package core

// Rect represents an axis-aligned cell rectangle used for drawing.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Encloses reports whether other lies entirely inside r.
func (r Rect) Encloses(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Span is a half-open interval [Lo, Hi) on a single axis.
// Collision between the ball and gates or switchers is tested on the vertical
// axis only, so a Span is all a hitbox needs.
type Span struct {
	Lo, Hi float64
}

// SpanOf returns the span starting at lo with the given length.
func SpanOf(lo, length float64) Span {
	return Span{Lo: lo, Hi: lo + length}
}

// Overlaps reports whether two spans share any interior point.
// Touching at a boundary is not an overlap.
func (s Span) Overlaps(other Span) bool {
	return s.Lo < other.Hi && other.Lo < s.Hi
}

// Len returns the length of the span.
func (s Span) Len() float64 {
	return s.Hi - s.Lo
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
