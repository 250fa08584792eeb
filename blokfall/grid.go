package blokfall

import "strings"

// Cell is 0 for an empty cell, otherwise the id of the shape that filled it.
type Cell uint8

const (
	Empty Cell = 0
)

// Matrix is a row major cell matrix, Matrix[y][x].
type Matrix [][]Cell

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for y := range m {
		c[y] = make([]Cell, len(m[y]))
		copy(c[y], m[y])
	}
	return c
}

// Width is the length of the first row, the bound used by the kick search.
func (m Matrix) Width() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

func (m Matrix) String() string {
	var b strings.Builder
	for y, row := range m {
		for _, c := range row {
			if c == Empty {
				b.WriteByte('.')
			} else {
				b.WriteByte('0' + byte(c%10))
			}
		}
		if y+1 != len(m) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Grid is the playfield. Cells[y][x], y grows downward.
type Grid struct {
	Width, Height int

	cells Matrix
}

func NewGrid(w, h int) *Grid {
	cells := make(Matrix, h)
	for i := range cells {
		cells[i] = make([]Cell, w)
	}
	return &Grid{
		Width: w, Height: h,
		cells: cells,
	}
}

// At returns the cell at (x, y), out of bounds reads are Empty.
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Empty
	}
	return g.cells[y][x]
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Rows returns a copy of the cell matrix.
func (g *Grid) Rows() Matrix {
	return g.cells.Clone()
}

// Collides reports whether any occupied cell of p lies outside the grid or on
// top of an occupied grid cell.
func (g *Grid) Collides(p *Piece) bool {
	for y, row := range p.Matrix {
		for x, c := range row {
			if c == Empty {
				continue
			}
			gx, gy := p.X+x, p.Y+y
			if !g.InBounds(gx, gy) {
				return true
			}
			if g.cells[gy][gx] != Empty {
				return true
			}
		}
	}
	return false
}

// Merge writes the occupied cells of p into the grid. The caller is expected
// to have checked Collides first.
func (g *Grid) Merge(p *Piece) {
	for y, row := range p.Matrix {
		for x, c := range row {
			if c == Empty {
				continue
			}
			gx, gy := p.X+x, p.Y+y
			if g.InBounds(gx, gy) {
				g.cells[gy][gx] = c
			}
		}
	}
}

// ClearRows removes every full row, shifting the rows above it down and
// inserting an empty row at the top. Returns the number of rows removed.
func (g *Grid) ClearRows() int {
	cleared := 0

	// iterate from bottom to top
	for y := g.Height - 1; y >= 0; {
		if !g.rowFull(y) {
			y--
			continue
		}

		row := g.cells[y]
		copy(g.cells[1:y+1], g.cells[:y])
		clear(row)
		g.cells[0] = row
		cleared++
		// the row shifted into y has not been tested yet
	}

	return cleared
}

func (g *Grid) rowFull(y int) bool {
	if g.Width == 0 {
		return false
	}
	for _, c := range g.cells[y] {
		if c == Empty {
			return false
		}
	}
	return true
}

// Reset empties every cell.
func (g *Grid) Reset() {
	for y := range g.cells {
		clear(g.cells[y])
	}
}

func (g *Grid) String() string {
	return g.cells.String()
}
