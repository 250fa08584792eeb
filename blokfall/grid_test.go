package blokfall

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridCollides(t *testing.T) {
	g := gridFrom(t,
		"..........",
		"..........",
		"..........",
		"....1.....",
	)
	o := shapeNamed(t, "O")
	i := shapeNamed(t, "I")

	cases := []struct {
		name  string
		piece *Piece
		want  bool
	}{
		{"open space", NewPiece(o, 4, 0), false},
		{"left of the grid", NewPiece(o, -1, 0), true},
		{"right of the grid", NewPiece(o, 9, 0), true},
		{"above the grid", NewPiece(o, 4, -1), true},
		{"below the grid", NewPiece(o, 0, 3), true},
		{"resting on the floor", NewPiece(o, 0, 2), false},
		{"overlapping a cell", NewPiece(o, 3, 2), true},
		{"next to a cell", NewPiece(o, 5, 2), false},
		{"empty padding may hang outside", NewPiece(i, -1, 0), false},
		{"empty padding past the right wall", NewPiece(i, 8, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.Collides(tc.piece))
		})
	}
}

func TestGridCollidesMatchesDefinition(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	lib := DefaultLibrary()

	for range 500 {
		g := NewGrid(10, 20)
		for y := range g.Height {
			for x := range g.Width {
				if r.IntN(4) == 0 {
					g.cells[y][x] = Cell(1 + r.IntN(7))
				}
			}
		}
		p := NewPiece(lib.Random(r), r.IntN(14)-2, r.IntN(24)-2)

		want := false
		for y, row := range p.Matrix {
			for x, c := range row {
				if c == Empty {
					continue
				}
				gx, gy := p.X+x, p.Y+y
				if gx < 0 || gx >= g.Width || gy < 0 || gy >= g.Height || g.cells[gy][gx] != Empty {
					want = true
				}
			}
		}
		require.Equal(t, want, g.Collides(p), "piece %v at (%d,%d)\n%s", p.Shape, p.X, p.Y, g)
	}
}

func TestGridMergeThenCollides(t *testing.T) {
	lib := DefaultLibrary()
	for i := range lib.Len() {
		s := lib.At(i)
		t.Run(s.Name(), func(t *testing.T) {
			g := NewGrid(10, 20)
			p := NewPiece(s, 3, 10)
			require.False(t, g.Collides(p))

			g.Merge(p)
			require.True(t, g.Collides(p))

			for y, row := range p.Matrix {
				for x, c := range row {
					if c != Empty {
						require.Equal(t, s.ID(), g.At(p.X+x, p.Y+y))
					}
				}
			}
		})
	}
}

func TestGridClearRows(t *testing.T) {
	t.Run("no full rows is a no-op", func(t *testing.T) {
		rows := []string{
			"....",
			"1...",
			"11.1",
			".111",
		}
		g := gridFrom(t, rows...)

		require.Equal(t, 0, g.ClearRows())
		require.Equal(t, gridString(rows...), g.String())
		require.Equal(t, 0, g.ClearRows())
		require.Equal(t, gridString(rows...), g.String())
	})

	t.Run("bottom row", func(t *testing.T) {
		g := NewGrid(10, 20)
		for x := range g.Width {
			g.cells[19][x] = 1
		}
		g.cells[18][3] = 4
		bottom := g.cells[19]

		require.Equal(t, 1, g.ClearRows())
		require.Equal(t, Cell(4), g.At(3, 19))
		for x := range g.Width {
			require.Equal(t, Empty, g.At(x, 0))
		}
		// the cleared row is recycled as the new top row
		require.Same(t, &bottom[0], &g.cells[0][0])
	})

	t.Run("separated full rows", func(t *testing.T) {
		g := gridFrom(t,
			"....",
			"1...",
			"1111",
			".11.",
			"1111",
		)

		require.Equal(t, 2, g.ClearRows())
		require.Equal(t, gridString(
			"....",
			"....",
			"....",
			"1...",
			".11.",
		), g.String())
	})

	t.Run("adjacent full rows are both cleared", func(t *testing.T) {
		g := gridFrom(t,
			"....",
			"2...",
			"3333",
			"4444",
			"5555",
		)

		require.Equal(t, 3, g.ClearRows())
		require.Equal(t, gridString(
			"....",
			"....",
			"....",
			"....",
			"2...",
		), g.String())
	})

	t.Run("result has no full rows and keeps its size", func(t *testing.T) {
		r := rand.New(rand.NewPCG(3, 4))
		for range 200 {
			g := NewGrid(6, 12)
			for y := range g.Height {
				full := r.IntN(3) == 0
				for x := range g.Width {
					if full || r.IntN(2) == 0 {
						g.cells[y][x] = 1
					}
				}
			}

			g.ClearRows()
			require.Len(t, g.cells, 12)
			for y := range g.Height {
				require.Len(t, g.cells[y], 6)
				require.False(t, g.rowFull(y), "row %d is full\n%s", y, g)
			}
		}
	})
}

func TestGridReset(t *testing.T) {
	g := gridFrom(t,
		"12",
		"34",
	)
	g.Reset()
	require.Equal(t, gridString("..", ".."), g.String())
}
