package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS high_score (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		score INTEGER NOT NULL CHECK (score >= 0),
		ts DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY,
		ts DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		event JSON NOT NULL CHECK (json_valid(event))
	);`,
}

// Sqlite persists the high score and the event log in a single sqlite file.
// It is safe for use by many sessions at once.
type Sqlite struct {
	ctx context.Context
	db  *sql.DB
}

func OpenSqlite(ctx context.Context, filename string) (*Sqlite, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", filename))
	if err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err = db.ExecContext(ctx, stmt); err != nil {
			return nil, errors.Join(
				fmt.Errorf("error initializing sqlite schema: %w", err),
				db.Close(),
			)
		}
	}

	return &Sqlite{
		ctx: ctx,
		db:  db,
	}, nil
}

func (s *Sqlite) Close() error {
	return s.db.Close()
}

// HighScore returns the stored high score, 0 when none has been stored yet.
func (s *Sqlite) HighScore() (int, error) {
	var score int
	err := s.db.QueryRowContext(s.ctx, `SELECT score FROM high_score WHERE id = 1`).Scan(&score)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("high score query error: %w", err)
	}
	return score, nil
}

// SetHighScore stores score unless a higher one is already stored, so
// concurrent sessions can only ever raise it.
func (s *Sqlite) SetHighScore(score int) error {
	if score < 0 {
		return fmt.Errorf("negative high score: %d", score)
	}

	_, err := s.db.ExecContext(s.ctx, `
INSERT INTO high_score(id, score, ts) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET score = excluded.score, ts = excluded.ts
WHERE excluded.score > high_score.score
`, score, time.Now())
	if err != nil {
		return fmt.Errorf("error saving high score: %w", err)
	}
	return nil
}

// Save appends r to the event log and returns it with its row id set.
func (s *Sqlite) Save(r Recordable) (Recordable, error) {
	b, err := Encode(r)
	if err != nil {
		return nil, fmt.Errorf("error marshaling event: %w", err)
	}

	ts := r.Ts()
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := s.db.ExecContext(s.ctx, `INSERT INTO events(ts, event) VALUES (?, ?)`, ts, string(b))
	if err != nil {
		return nil, fmt.Errorf("error saving event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading last insert id: %w", err)
	}

	return r.SetId(id), nil
}

// Read returns the n most recent events, oldest first.
func (s *Sqlite) Read(n int) ([]Recordable, error) {
	rows, err := s.db.QueryContext(s.ctx, `
SELECT id, event
FROM events
ORDER BY ts DESC, id DESC
LIMIT ?
`, n)
	if err != nil {
		return nil, fmt.Errorf("events query error: %w", err)
	}

	events := make([]Recordable, 0, n)
	for rows.Next() {
		var (
			id  int64
			raw string
		)
		if err = rows.Scan(&id, &raw); err != nil {
			break
		}

		var r Recordable
		r, err = Decode([]byte(raw))
		if err != nil {
			err = fmt.Errorf("event %d decoding error: %w", id, err)
			break
		}
		events = append(events, r.SetId(id))
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("rows close error: %w", closeErr)
	}
	if err != nil {
		return nil, fmt.Errorf("rows scan error: %w", err)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows unexpected error: %w", rows.Err())
	}

	slices.Reverse(events)

	return events, nil
}
