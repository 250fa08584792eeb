package blokfall

// Frame is a read-only snapshot of a Session for renderers. Mutating it has
// no effect on the session.
type Frame struct {
	Width, Height int

	Grid Matrix

	Piece        Matrix
	PieceX       int
	PieceY       int
	PieceShape   Cell
	PieceVisible bool

	Next []Shape

	Score     int
	HighScore int
	State     State
}

// At returns the cell drawn at (x, y): the active piece over the grid.
func (f Frame) At(x, y int) Cell {
	if f.PieceVisible {
		py, px := y-f.PieceY, x-f.PieceX
		if py >= 0 && py < len(f.Piece) && px >= 0 && px < len(f.Piece[py]) {
			if c := f.Piece[py][px]; c != Empty {
				return c
			}
		}
	}
	if y < 0 || y >= len(f.Grid) || x < 0 || x >= len(f.Grid[y]) {
		return Empty
	}
	return f.Grid[y][x]
}
