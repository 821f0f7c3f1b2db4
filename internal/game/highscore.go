package game

import "sync"

// HighScoreStore persists the best score across runs and processes.
// HighScore must return 0 when nothing is stored or the stored value is
// unreadable. SetHighScore must not block the frame loop; implementations
// backed by slow storage should write in the background.
type HighScoreStore interface {
	HighScore() int
	SetHighScore(score int)
}

// MemoryHighScores is an in-process HighScoreStore.
type MemoryHighScores struct {
	mu     sync.Mutex
	value  int
	writes int
}

// NewMemoryHighScores creates a store holding the given initial value.
func NewMemoryHighScores(initial int) *MemoryHighScores {
	return &MemoryHighScores{value: initial}
}

// HighScore returns the stored value.
func (m *MemoryHighScores) HighScore() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// SetHighScore stores score if it beats the stored value. Machines sharing
// the store cache their own copy, so a stale lower score is ignored.
func (m *MemoryHighScores) SetHighScore(score int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if score > m.value {
		m.value = score
	}
}

// Writes returns how many times SetHighScore was called.
func (m *MemoryHighScores) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
