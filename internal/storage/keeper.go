package storage

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/color-runner/internal/game"
)

// Ensure HighScoreKeeper implements game.HighScoreStore
var _ game.HighScoreStore = (*HighScoreKeeper)(nil)

// HighScoreKeeper exposes one game's high score in a Store as a
// game.HighScoreStore. Reads go straight to the database; writes are queued
// to a background goroutine so the frame loop never waits on disk.
type HighScoreKeeper struct {
	store  *Store
	gameID string
	logger *log.Logger
	queue  *writeQueue[int]
}

// NewHighScoreKeeper starts the writer goroutine. Call Close to flush
// queued writes and stop it. A nil logger discards output.
func NewHighScoreKeeper(store *Store, gameID string, logger *log.Logger) *HighScoreKeeper {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	k := &HighScoreKeeper{
		store:  store,
		gameID: gameID,
		logger: logger,
	}
	k.queue = newWriteQueue(16, k.write)
	return k
}

// HighScore returns the stored high score, or 0 if it cannot be read.
func (k *HighScoreKeeper) HighScore() int {
	score, err := k.store.HighScore(k.gameID)
	if err != nil {
		k.logger.Warn("cannot read high score", "game", k.gameID, "err", err)
		return 0
	}
	return score
}

// SetHighScore queues score for writing and returns immediately.
// The write is dropped if the queue is full or the keeper is closed.
func (k *HighScoreKeeper) SetHighScore(score int) {
	if !k.queue.push(score) {
		k.logger.Warn("high score write dropped", "game", k.gameID, "score", score)
	}
}

// Close waits for queued writes to finish. It is safe to call more than once.
func (k *HighScoreKeeper) Close() {
	k.queue.close()
}

func (k *HighScoreKeeper) write(score int) {
	if err := k.store.SetHighScore(k.gameID, score); err != nil {
		k.logger.Warn("cannot save high score", "game", k.gameID, "score", score, "err", err)
		return
	}
	k.logger.Debug("high score saved", "game", k.gameID, "score", score)
}
