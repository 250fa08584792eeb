package blokfall

import "slices"

// Direction of a quarter turn, CW > 0 and CCW < 0.
type Direction int

const (
	CW  Direction = 1
	CCW Direction = -1
)

func (d Direction) Reverse() Direction { return -d }

func (d Direction) String() string {
	switch {
	case d > 0:
		return "cw"
	case d < 0:
		return "ccw"
	default:
		return "none"
	}
}

// Piece is the active, falling instance of a Shape. It owns its matrix so
// rotating it never touches the template.
type Piece struct {
	Shape  Cell
	Matrix Matrix
	X, Y   int // grid position of Matrix[0][0]
}

func NewPiece(s Shape, x, y int) *Piece {
	return &Piece{
		Shape:  s.ID(),
		Matrix: s.Matrix(),
		X:      x, Y: y,
	}
}

func (p *Piece) Clone() *Piece {
	c := *p
	c.Matrix = p.Matrix.Clone()
	return &c
}

func (p *Piece) Translate(dx, dy int) {
	p.X += dx
	p.Y += dy
}

func (p *Piece) Rotate(dir Direction) {
	Rotate(p.Matrix, dir)
}

// Rotate turns a square matrix a quarter turn in place: transpose, then
// reverse each row for CW or the row order for CCW.
func Rotate(m Matrix, dir Direction) {
	for y := range m {
		for x := range y {
			m[x][y], m[y][x] = m[y][x], m[x][y]
		}
	}

	if dir > 0 {
		for _, row := range m {
			slices.Reverse(row)
		}
	} else {
		slices.Reverse(m)
	}
}
