package game

// EntityID identifies an obstacle or switcher. IDs increase monotonically
// across runs of one Machine and are never reused.
type EntityID uint64

// Ball is the player. Y is the distance from the floor to the bottom of the
// ball; a positive Velocity means falling.
type Ball struct {
	Y        float64 `json:"y"`
	Velocity float64 `json:"velocity"`
	Color    Color   `json:"color"`
}

// Obstacle is a gate: two wall segments of one color with a gap between them.
// Y is the top edge measured from the top of the playfield and grows as the
// gate scrolls toward the ball.
type Obstacle struct {
	ID     EntityID `json:"id"`
	Y      float64  `json:"y"`
	Color  Color    `json:"color"`
	Passed bool     `json:"passed"`
}

// Switcher repaints the ball on contact and is consumed.
type Switcher struct {
	ID EntityID `json:"id"`
	Y  float64  `json:"y"`
}
