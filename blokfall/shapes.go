package blokfall

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/kamstrup/intmap"
)

// Shape is an immutable piece template. Its cells can only be read, the
// matrix handed to a Piece is always a fresh copy.
type Shape struct {
	id    Cell
	name  string
	color string
	cells Matrix
}

func (s Shape) ID() Cell       { return s.id }
func (s Shape) Name() string   { return s.name }
func (s Shape) Color() string  { return s.color }
func (s Shape) Size() int      { return len(s.cells) }
func (s Shape) String() string { return s.name }

// At returns the template cell at column x, row y.
func (s Shape) At(x, y int) Cell {
	if y < 0 || y >= len(s.cells) || x < 0 || x >= len(s.cells[y]) {
		return Empty
	}
	return s.cells[y][x]
}

// Matrix returns a deep copy of the template cells.
func (s Shape) Matrix() Matrix {
	return s.cells.Clone()
}

// Library is the ordered catalog of shapes pieces are spawned from.
type Library struct {
	shapes []Shape
	byID   *intmap.Map[Cell, Shape]
}

// NewLibrary catalogs shapes in order. Ids must be unique so a grid cell
// always names a single shape.
func NewLibrary(shapes ...Shape) (*Library, error) {
	if len(shapes) == 0 {
		return nil, fmt.Errorf("library needs at least one shape")
	}

	l := &Library{
		shapes: make([]Shape, 0, len(shapes)),
		byID:   intmap.New[Cell, Shape](len(shapes)),
	}
	for _, s := range shapes {
		if s.id == Empty {
			return nil, fmt.Errorf("shape %q has no id", s.name)
		}
		if dup, ok := l.byID.Get(s.id); ok {
			return nil, fmt.Errorf("shapes %q and %q share id %d", dup.name, s.name, s.id)
		}
		l.shapes = append(l.shapes, s)
		l.byID.Put(s.id, s)
	}
	return l, nil
}

func (l *Library) Len() int { return len(l.shapes) }

func (l *Library) At(i int) Shape { return l.shapes[i] }

func (l *Library) ByID(id Cell) (Shape, bool) {
	return l.byID.Get(id)
}

// ByName looks up a shape by its catalog name, e.g. "O".
func (l *Library) ByName(name string) (Shape, bool) {
	for _, s := range l.shapes {
		if s.name == name {
			return s, true
		}
	}
	return Shape{}, false
}

// Random picks a shape uniformly.
func (l *Library) Random(r *rand.Rand) Shape {
	return l.shapes[r.IntN(len(l.shapes))]
}

// Palette maps a cell value to the hex color it is drawn with. Index 0 is the
// empty cell and has no color.
var Palette = []string{
	"",
	"#FF0000", // red
	"#00FF00", // green
	"#0000FF", // blue
	"#FFA500", // orange
	"#FFFF00", // yellow
	"#800080", // purple
	"#00FFFF", // cyan
}

// ColorOf returns the palette entry for c, or "" when c is empty or unknown.
func ColorOf(c Cell) string {
	if int(c) >= len(Palette) {
		return ""
	}
	return Palette[c]
}

type shapeDef struct {
	name   string
	visual string
}

var shapeDefs = []shapeDef{
	{"T", `
|.1.
|111
|...
`},
	{"O", `
|22
|22
`},
	{"L", `
|.3.
|.3.
|.33
`},
	{"S", `
|.44
|44.
|...
`},
	{"Z", `
|55.
|.55
|...
`},
	{"I", `
|.6..
|.6..
|.6..
|.6..
`},
	{"J", `
|7..
|777
|...
`},
}

var defaultLibrary *Library

func init() {
	shapes := make([]Shape, 0, len(shapeDefs))
	for _, def := range shapeDefs {
		s, err := ParseShape(def.name, def.visual)
		if err != nil {
			panic(fmt.Sprintf("failed to parse visual for %s: %v", def.name, err))
		}
		shapes = append(shapes, s)
	}

	var err error
	defaultLibrary, err = NewLibrary(shapes...)
	if err != nil {
		panic(fmt.Sprintf("failed to build default library: %v", err))
	}
}

// DefaultLibrary returns the seven tetromino catalog.
func DefaultLibrary() *Library {
	return defaultLibrary
}

// ParseShape builds a Shape from a visual definition. Lines that begin with
// '|' are rows, '.' or ' ' is an empty cell and a digit is the piece type id.
// The matrix must be square and use a single id so rotation stays uniform.
func ParseShape(name, visual string) (Shape, error) {
	cells, err := parseVisual(visual)
	if err != nil {
		return Shape{}, err
	}
	if len(cells) == 0 {
		return Shape{}, fmt.Errorf("empty shape")
	}

	var id Cell
	for y, row := range cells {
		if len(row) != len(cells) {
			return Shape{}, fmt.Errorf("row %d has %d cells, shape must be %dx%d", y, len(row), len(cells), len(cells))
		}
		for _, c := range row {
			switch {
			case c == Empty:
			case id == Empty:
				id = c
			case c != id:
				return Shape{}, fmt.Errorf("mixed piece ids %d and %d", id, c)
			}
		}
	}
	if id == Empty {
		return Shape{}, fmt.Errorf("shape has no occupied cells")
	}

	return Shape{
		id:    id,
		name:  name,
		color: ColorOf(id),
		cells: cells,
	}, nil
}

func parseVisual(v string) (Matrix, error) {
	v = strings.TrimSpace(v)
	var m Matrix
	for ln := range strings.SplitSeq(v, "\n") {
		ln = strings.TrimSpace(ln)
		if !strings.HasPrefix(ln, "|") {
			continue
		}
		ln = ln[1:] // drop the '|' border char

		row := make([]Cell, 0, len(ln))
		for x, ch := range ln {
			switch {
			case ch == '.' || ch == ' ':
				row = append(row, Empty)
			case ch >= '1' && ch <= '9':
				row = append(row, Cell(ch-'0'))
			default:
				return nil, fmt.Errorf("unexpected %q at column %d", ch, x)
			}
		}
		m = append(m, row)
	}
	return m, nil
}
