package blokfall

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLibrary(t *testing.T) {
	lib := DefaultLibrary()
	require.Equal(t, 7, lib.Len())

	expected := []struct {
		name string
		id   Cell
		size int
	}{
		{"T", 1, 3},
		{"O", 2, 2},
		{"L", 3, 3},
		{"S", 4, 3},
		{"Z", 5, 3},
		{"I", 6, 4},
		{"J", 7, 3},
	}
	for i, e := range expected {
		s := lib.At(i)
		assert.Equal(t, e.name, s.Name())
		assert.Equal(t, e.id, s.ID())
		assert.Equal(t, e.size, s.Size())
		assert.Equal(t, Palette[e.id], s.Color())

		byID, ok := lib.ByID(e.id)
		require.True(t, ok)
		assert.Equal(t, e.name, byID.Name())

		for y := range s.Size() {
			require.Len(t, s.Matrix()[y], s.Size(), "%s must be square", s.Name())
		}
	}

	require.Equal(t, gridString("22", "22"), shapeNamed(t, "O").Matrix().String())
}

func TestShapeMatrixIsACopy(t *testing.T) {
	o := shapeNamed(t, "O")
	m := o.Matrix()
	m[0][0] = 9
	require.Equal(t, Cell(2), o.At(0, 0))
	require.Equal(t, Empty, o.At(5, 5))
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape("bar", `
|...
|888
|...
`)
	require.NoError(t, err)
	require.Equal(t, Cell(8), s.ID())
	require.Equal(t, "", s.Color())

	cases := map[string]string{
		"not square":     "|11\n|11\n|11",
		"mixed ids":      "|12\n|11",
		"no cells":       "|..\n|..",
		"bad character":  "|1x\n|11",
		"no rows at all": "11",
	}
	for name, visual := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseShape(name, visual)
			require.Error(t, err)
		})
	}
}

func TestLibraryRandom(t *testing.T) {
	lib := DefaultLibrary()
	r := rand.New(rand.NewPCG(7, 7))

	counts := make(map[Cell]int, lib.Len())
	for range 7000 {
		counts[lib.Random(r).ID()]++
	}
	require.Len(t, counts, lib.Len())
	for id, n := range counts {
		assert.InDelta(t, 1000, n, 200, "shape %d", id)
	}
}

func TestNewLibraryRejectsBadCatalogs(t *testing.T) {
	o := shapeNamed(t, "O")
	other, err := ParseShape("square", "|22\n|22")
	require.NoError(t, err)

	_, err = NewLibrary(o, shapeNamed(t, "T"), other)
	require.ErrorContains(t, err, `shapes "O" and "square" share id 2`)

	_, err = NewLibrary()
	require.Error(t, err)

	_, err = NewLibrary(Shape{name: "blank"})
	require.Error(t, err)

	lib, err := NewLibrary(o, shapeNamed(t, "T"))
	require.NoError(t, err)
	got, ok := lib.ByID(o.ID())
	require.True(t, ok)
	require.Equal(t, "O", got.Name())
	_, ok = lib.ByID(7)
	require.False(t, ok)
}
