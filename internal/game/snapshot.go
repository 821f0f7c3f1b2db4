package game

import "fmt"

// Phase is the lifecycle state of the game.
type Phase int

const (
	PhaseWaiting  Phase = iota // Before the first run
	PhasePlaying               // A run is in progress
	PhaseGameOver              // The last run ended; a jump restarts
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	if p < PhaseWaiting || p > PhaseGameOver {
		return nil, fmt.Errorf("game: invalid phase %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "waiting":
		*p = PhaseWaiting
	case "playing":
		*p = PhasePlaying
	case "game_over":
		*p = PhaseGameOver
	default:
		return fmt.Errorf("game: unknown phase %q", text)
	}
	return nil
}

// Snapshot is a read-only copy of everything a presentation layer draws.
// It shares no memory with the live game.
type Snapshot struct {
	Phase     Phase      `json:"phase"`
	Run       int        `json:"run"`   // Runs started so far
	Frame     int        `json:"frame"` // Frames stepped in the current run
	BallY     float64    `json:"ballY"`
	BallColor Color      `json:"ballColor"`
	Obstacles []Obstacle `json:"obstacles"`
	Switchers []Switcher `json:"switchers"`
	Score     int        `json:"score"`
	HighScore int        `json:"highScore"`
	EndedBy   string     `json:"endedBy,omitempty"` // Outcome of the last run in PhaseGameOver
}
