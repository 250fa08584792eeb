package blokfall

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

// gridFrom builds a grid from rows of '.' and digits, top row first.
func gridFrom(t *testing.T, rows ...string) *Grid {
	t.Helper()

	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		require.Len(t, row, g.Width, "row %d", y)
		for x, ch := range row {
			if ch != '.' {
				g.cells[y][x] = Cell(ch - '0')
			}
		}
	}
	return g
}

func gridString(rows ...string) string {
	return strings.Join(rows, "\n")
}

func shapeNamed(t *testing.T, name string) Shape {
	t.Helper()

	s, ok := DefaultLibrary().ByName(name)
	require.True(t, ok, "shape %s", name)
	return s
}

func libraryOf(t *testing.T, names ...string) *Library {
	t.Helper()

	shapes := make([]Shape, 0, len(names))
	for _, n := range names {
		shapes = append(shapes, shapeNamed(t, n))
	}
	lib, err := NewLibrary(shapes...)
	require.NoError(t, err)
	return lib
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

type observed struct {
	scores     []int
	highScores []int
	gameOvers  []int
}

func (o *observed) ScoreChanged(score int)     { o.scores = append(o.scores, score) }
func (o *observed) HighScoreChanged(score int) { o.highScores = append(o.highScores, score) }
func (o *observed) GameOver(finalScore int)    { o.gameOvers = append(o.gameOvers, finalScore) }
