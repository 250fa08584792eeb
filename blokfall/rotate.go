package blokfall

// Kick rotates p in place and, when the rotated pose collides, searches for a
// free column by shifting X by +1, -2, +3, -4, ... until the next offset would
// exceed the width of the matrix. If no pose fits, p is restored to exactly
// its previous orientation and column and Kick reports false.
func Kick(g *Grid, p *Piece, dir Direction) bool {
	x := p.X
	offset := 1

	p.Rotate(dir)
	for g.Collides(p) {
		p.X += offset
		offset = -(offset + sign(offset))
		if offset > p.Matrix.Width() {
			p.Rotate(dir.Reverse())
			p.X = x
			return false
		}
	}
	return true
}

// KickOffsets lists the cumulative X shifts Kick tries for a matrix of the
// given width, in order.
func KickOffsets(width int) []int {
	var (
		shifts []int
		dx     int
		offset = 1
	)
	for {
		dx += offset
		offset = -(offset + sign(offset))
		if offset > width {
			return shifts
		}
		shifts = append(shifts, dx)
	}
}

func sign(n int) int {
	if n > 0 {
		return 1
	}
	return -1
}
