package blokfall

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ghthor/shapesboom/store"
	"github.com/ghthor/shapesboom/unsafering"
)

// State of the piece lifecycle.
type State int

const (
	Spawning State = iota
	Falling
	Locking
	Clearing
	GameOver
)

func (s State) String() string {
	switch s {
	case Spawning:
		return "spawning"
	case Falling:
		return "falling"
	case Locking:
		return "locking"
	case Clearing:
		return "clearing"
	case GameOver:
		return "game-over"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// HighScoreStore persists the single high score value.
type HighScoreStore interface {
	// HighScore returns 0 when nothing has been stored yet.
	HighScore() (int, error)
	SetHighScore(int) error
}

// Recorder appends game events to a log.
type Recorder interface {
	Save(store.Recordable) (store.Recordable, error)
}

// Observer is told about score changes. Calls are made synchronously from
// the goroutine driving the Session and must not call back into it.
type Observer interface {
	ScoreChanged(score int)
	HighScoreChanged(score int)
	GameOver(finalScore int)
}

type Option func(*Session)

func WithLibrary(l *Library) Option         { return func(s *Session) { s.lib = l } }
func WithRand(r *rand.Rand) Option          { return func(s *Session) { s.rand = r } }
func WithStore(hs HighScoreStore) Option    { return func(s *Session) { s.store = hs } }
func WithRecorder(r Recorder) Option        { return func(s *Session) { s.recorder = r } }
func WithLogger(l *log.Logger) Option       { return func(s *Session) { s.log = l } }
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }
func WithID(id string) Option               { return func(s *Session) { s.id = id } }
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// WithSeed makes shape selection deterministic.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// Session owns a grid, the active piece and the score of one game. It is not
// safe for concurrent use; a single goroutine drives Update and Handle.
type Session struct {
	id  string
	cfg Config

	lib  *Library
	rand *rand.Rand
	now  func() time.Time
	log  *log.Logger

	grid  *Grid
	piece *Piece
	next  *unsafering.Buffer[Shape]
	drop  dropClock

	state     State
	score     int
	highScore int

	store     HighScoreStore
	recorder  Recorder
	observers []Observer
}

func New(cfg Config, opts ...Option) *Session {
	cfg = cfg.withDefaults()

	s := &Session{
		cfg:  cfg,
		lib:  DefaultLibrary(),
		now:  time.Now,
		grid: NewGrid(cfg.Width, cfg.Height),
		next: unsafering.New[Shape](cfg.Preview),
		drop: dropClock{interval: cfg.DropInterval},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.rand == nil {
		s.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.id == "" {
		// not from s.rand, seeded sessions still need distinct ids
		s.id = fmt.Sprintf("%08x", rand.Uint32())
	}
	if s.log == nil {
		s.log = log.Default()
	}
	s.log = s.log.With("session", s.id)

	return s
}

func (s *Session) ID() string        { return s.id }
func (s *Session) Config() Config    { return s.cfg }
func (s *Session) State() State      { return s.state }
func (s *Session) Score() int        { return s.score }
func (s *Session) HighScore() int    { return s.highScore }
func (s *Session) Library() *Library { return s.lib }

// Grid exposes the playfield for reading. Callers must not mutate it.
func (s *Session) Grid() *Grid { return s.grid }

// Piece returns a copy of the active piece, nil before Start.
func (s *Session) Piece() *Piece {
	if s.piece == nil {
		return nil
	}
	return s.piece.Clone()
}

// Next returns the upcoming shapes, soonest first.
func (s *Session) Next() []Shape {
	next := make([]Shape, 0, s.next.Len())
	for shape := range s.next.All() {
		next = append(next, shape)
	}
	return next
}

// Start loads the high score, fills the preview queue and spawns the first
// piece.
func (s *Session) Start() {
	s.highScore = s.loadHighScore()

	s.next.Reset()
	for s.next.Len() < s.next.Cap() {
		s.next.Push(s.lib.Random(s.rand))
	}

	s.log.Debug("session start", "width", s.cfg.Width, "height", s.cfg.Height, "highScore", s.highScore)
	s.spawn()
}

func (s *Session) loadHighScore() int {
	if s.store == nil {
		return 0
	}

	hs, err := s.store.HighScore()
	if err != nil {
		s.log.Warn("high score unavailable, defaulting to 0", "error", err)
		return 0
	}
	return max(0, hs)
}

// Update advances the drop clock by elapsed and applies gravity when the drop
// interval has passed. Reports whether a drop happened.
func (s *Session) Update(elapsed time.Duration) bool {
	if s.piece == nil {
		return false
	}

	if s.drop.Advance(elapsed) {
		s.Drop()
		return true
	}
	return false
}

// Handle applies a single input. Unknown input is ignored. Reports whether
// the session changed.
func (s *Session) Handle(in Input) bool {
	if s.piece == nil {
		return false
	}

	switch in {
	case MoveLeft:
		return s.Move(-1)
	case MoveRight:
		return s.Move(1)
	case SoftDrop:
		s.Drop()
		return true
	case RotateCW:
		return s.Rotate(CW)
	case RotateCCW:
		return s.Rotate(CCW)
	case HardDrop:
		s.HardDrop()
		return true
	}
	return false
}

// Move shifts the active piece dx columns, reverting when the new pose
// collides.
func (s *Session) Move(dx int) bool {
	if s.piece == nil {
		return false
	}

	s.piece.X += dx
	if s.grid.Collides(s.piece) {
		s.piece.X -= dx
		return false
	}
	return true
}

// Rotate turns the active piece with a wall kick search. A rotation that
// cannot be placed leaves the piece untouched.
func (s *Session) Rotate(dir Direction) bool {
	if s.piece == nil {
		return false
	}
	return Kick(s.grid, s.piece, dir)
}

// Drop moves the active piece down one row, locking it when it cannot move.
// The drop clock is reset either way. Reports whether the piece locked.
func (s *Session) Drop() bool {
	defer s.drop.Reset()
	if s.piece == nil {
		return false
	}

	s.piece.Y++
	if !s.grid.Collides(s.piece) {
		return false
	}

	s.piece.Y--
	s.lock()
	return true
}

// HardDrop moves the active piece as far down as it goes and locks it.
// Returns the number of rows it fell.
func (s *Session) HardDrop() int {
	defer s.drop.Reset()
	if s.piece == nil {
		return 0
	}

	rows := 0
	for {
		s.piece.Y++
		if s.grid.Collides(s.piece) {
			s.piece.Y--
			break
		}
		rows++
	}
	s.lock()
	return rows
}

func (s *Session) lock() {
	s.state = Locking
	s.grid.Merge(s.piece)

	s.state = Clearing
	if rows := s.grid.ClearRows(); rows > 0 {
		s.scoreRows(rows)
	}

	s.spawn()
}

func (s *Session) spawn() {
	s.state = Spawning

	shape, ok := s.next.Cycle(s.lib.Random(s.rand))
	if !ok {
		shape = s.lib.Random(s.rand)
	}
	s.piece = NewPiece(shape, s.cfg.Width/2-1, 0)

	if s.grid.Collides(s.piece) {
		s.gameOver()
	}
	s.state = Falling
}

func (s *Session) gameOver() {
	s.state = GameOver
	final := s.score

	s.log.Info("game over", "score", final, "highScore", s.highScore)
	s.record(GameOverEvent{
		At:      s.now(),
		Session: s.id,
		Score:   final,
	})

	s.grid.Reset()
	s.score = 0

	for _, o := range s.observers {
		o.GameOver(final)
		o.ScoreChanged(s.score)
	}
}

func (s *Session) scoreRows(rows int) {
	s.score += rows * s.cfg.ScorePerRow

	s.log.Debug("rows cleared", "rows", rows, "score", s.score)
	s.record(RowsClearedEvent{
		At:      s.now(),
		Session: s.id,
		Rows:    rows,
		Score:   s.score,
	})
	for _, o := range s.observers {
		o.ScoreChanged(s.score)
	}

	// other sessions sharing the store may have raised it since Start
	s.refreshHighScore()
	if s.score > s.highScore {
		s.setHighScore(s.score)
	}
}

func (s *Session) refreshHighScore() {
	if s.store == nil {
		return
	}

	hs, err := s.store.HighScore()
	if err != nil {
		s.log.Warn("high score unavailable, keeping cached value", "highScore", s.highScore, "error", err)
		return
	}
	s.highScore = max(s.highScore, hs)
}

func (s *Session) setHighScore(score int) {
	prev := s.highScore
	s.highScore = score

	if s.store != nil {
		if err := s.store.SetHighScore(score); err != nil {
			s.log.Warn("failed to persist high score", "score", score, "error", err)
		}
	}

	s.record(HighScoreEvent{
		At:       s.now(),
		Session:  s.id,
		Score:    score,
		Previous: prev,
	})
	for _, o := range s.observers {
		o.HighScoreChanged(score)
	}
}

func (s *Session) record(e store.Recordable) {
	if s.recorder == nil {
		return
	}
	if _, err := s.recorder.Save(e); err != nil {
		s.log.Warn("failed to record event", "type", e.TypeName(), "error", err)
	}
}

// Frame snapshots the session for rendering.
func (s *Session) Frame() Frame {
	f := Frame{
		Width:     s.grid.Width,
		Height:    s.grid.Height,
		Grid:      s.grid.Rows(),
		Next:      s.Next(),
		Score:     s.score,
		HighScore: s.highScore,
		State:     s.state,
	}
	if s.piece != nil {
		f.Piece = s.piece.Matrix.Clone()
		f.PieceX, f.PieceY = s.piece.X, s.piece.Y
		f.PieceShape = s.piece.Shape
		f.PieceVisible = true
	}
	return f
}
