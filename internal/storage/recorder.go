package storage

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/color-runner/internal/game"
)

// RunRecorder writes each finished run to the history exactly once.
// Pass Observe to game.Machine.Subscribe and Close the recorder when the
// session ends. A nil store records nothing.
type RunRecorder struct {
	store  *Store
	gameID string
	logger *log.Logger
	queue  *writeQueue[game.Snapshot]

	// last is only touched by Observe, on the frame goroutine.
	last int
}

// NewRunRecorder creates a recorder for gameID. A nil logger discards output.
func NewRunRecorder(store *Store, gameID string, logger *log.Logger) *RunRecorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &RunRecorder{store: store, gameID: gameID, logger: logger}
	if store != nil {
		r.queue = newWriteQueue(16, r.write)
	}
	return r
}

// Observe queues snap if it is the first snapshot of a finished run.
func (r *RunRecorder) Observe(snap game.Snapshot) {
	if snap.Phase != game.PhaseGameOver || snap.Run == r.last {
		return
	}
	r.last = snap.Run
	if r.queue == nil {
		return
	}
	if !r.queue.push(snap) {
		r.logger.Warn("run record dropped", "run", snap.Run, "score", snap.Score)
	}
}

// Close waits for queued records to be written. It is safe to call more
// than once; runs observed afterwards are dropped.
func (r *RunRecorder) Close() {
	if r.queue != nil {
		r.queue.close()
	}
}

func (r *RunRecorder) write(snap game.Snapshot) {
	if _, err := r.store.SaveScore(r.gameID, snap.Score); err != nil {
		r.logger.Warn("cannot record run", "run", snap.Run, "score", snap.Score, "err", err)
	}
}
