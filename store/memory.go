package store

import (
	"fmt"
	"sync"
)

// Memory is a process local store. The zero value is ready to use.
type Memory struct {
	mu     sync.Mutex
	score  int
	events []Recordable
}

func NewMemory(highScore int) *Memory {
	return &Memory{score: max(0, highScore)}
}

func (m *Memory) HighScore() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score, nil
}

func (m *Memory) SetHighScore(score int) error {
	if score < 0 {
		return fmt.Errorf("negative high score: %d", score)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.score = max(m.score, score)
	return nil
}

func (m *Memory) Save(r Recordable) (Recordable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r = r.SetId(int64(len(m.events) + 1))
	m.events = append(m.events, r)
	return r, nil
}

// Read returns the n most recent events, oldest first.
func (m *Memory) Read(n int) ([]Recordable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n = min(max(n, 0), len(m.events))
	out := make([]Recordable, n)
	copy(out, m.events[len(m.events)-n:])
	return out, nil
}
