package blokfall

import "time"

const (
	DefaultWidth        = 10
	DefaultHeight       = 20
	DefaultDropInterval = 1000 * time.Millisecond
	DefaultScorePerRow  = 10
	DefaultPreview      = 3
)

// Config is fixed for the lifetime of a Session.
type Config struct {
	Width, Height int

	// DropInterval is how long the active piece hangs before gravity pulls it
	// down a row.
	DropInterval time.Duration

	ScorePerRow int

	// Preview is the number of upcoming shapes kept in the queue.
	Preview int
}

func DefaultConfig() Config {
	return Config{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		DropInterval: DefaultDropInterval,
		ScorePerRow:  DefaultScorePerRow,
		Preview:      DefaultPreview,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.DropInterval <= 0 {
		c.DropInterval = d.DropInterval
	}
	if c.ScorePerRow <= 0 {
		c.ScorePerRow = d.ScorePerRow
	}
	if c.Preview <= 0 {
		c.Preview = d.Preview
	}
	return c
}

// dropClock accumulates elapsed time between gravity drops.
type dropClock struct {
	interval time.Duration
	counter  time.Duration
}

// Advance adds elapsed and reports whether a drop is due.
func (c *dropClock) Advance(elapsed time.Duration) bool {
	if elapsed > 0 {
		c.counter += elapsed
	}
	return c.counter > c.interval
}

func (c *dropClock) Reset() {
	c.counter = 0
}
