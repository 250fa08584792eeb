package blokfall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotate(t *testing.T) {
	tee := shapeNamed(t, "T")

	m := tee.Matrix()
	Rotate(m, CW)
	require.Equal(t, gridString(
		".1.",
		".11",
		".1.",
	), m.String())

	m = tee.Matrix()
	Rotate(m, CCW)
	require.Equal(t, gridString(
		".1.",
		"11.",
		".1.",
	), m.String())
}

func TestRotateFullTurn(t *testing.T) {
	lib := DefaultLibrary()
	for i := range lib.Len() {
		s := lib.At(i)
		for _, dir := range []Direction{CW, CCW} {
			t.Run(s.Name()+" "+dir.String(), func(t *testing.T) {
				m := s.Matrix()
				for range 4 {
					Rotate(m, dir)
				}
				require.Equal(t, s.Matrix(), m)

				Rotate(m, dir)
				Rotate(m, dir.Reverse())
				require.Equal(t, s.Matrix(), m)
			})
		}
	}
}

func TestPieceOwnsItsMatrix(t *testing.T) {
	l := shapeNamed(t, "L")
	before := l.Matrix()

	a := NewPiece(l, 0, 0)
	b := NewPiece(l, 0, 0)
	a.Rotate(CW)

	assert.Equal(t, before, l.Matrix(), "template must not change")
	assert.Equal(t, before, b.Matrix, "other pieces must not change")
	assert.NotEqual(t, before, a.Matrix)

	c := a.Clone()
	c.Rotate(CW)
	c.Translate(1, 2)
	assert.NotEqual(t, c.Matrix, a.Matrix)
	assert.Equal(t, 0, a.X)
	assert.Equal(t, 0, a.Y)
}
