package blokfall

import (
	"time"

	"github.com/ghthor/shapesboom/store"
)

func init() {
	store.Register(RowsClearedEvent{})
	store.Register(HighScoreEvent{})
	store.Register(GameOverEvent{})
}

// RowsClearedEvent is recorded every time a lock clears at least one row.
type RowsClearedEvent struct {
	At      time.Time
	Session string
	Rows    int
	Score   int

	recId int64
}

func (e RowsClearedEvent) TypeName() string { return "blokfall.RowsCleared" }
func (e RowsClearedEvent) Ts() time.Time    { return e.At }
func (e RowsClearedEvent) RecordId() int64  { return e.recId }

func (e RowsClearedEvent) SetId(id int64) store.Recordable {
	e.recId = id
	return e
}

// HighScoreEvent is recorded when a session beats the stored high score.
type HighScoreEvent struct {
	At       time.Time
	Session  string
	Score    int
	Previous int

	recId int64
}

func (e HighScoreEvent) TypeName() string { return "blokfall.HighScore" }
func (e HighScoreEvent) Ts() time.Time    { return e.At }
func (e HighScoreEvent) RecordId() int64  { return e.recId }

func (e HighScoreEvent) SetId(id int64) store.Recordable {
	e.recId = id
	return e
}

// GameOverEvent is recorded when a spawned piece no longer fits.
type GameOverEvent struct {
	At      time.Time
	Session string
	Score   int

	recId int64
}

func (e GameOverEvent) TypeName() string { return "blokfall.GameOver" }
func (e GameOverEvent) Ts() time.Time    { return e.At }
func (e GameOverEvent) RecordId() int64  { return e.recId }

func (e GameOverEvent) SetId(id int64) store.Recordable {
	e.recId = id
	return e
}
