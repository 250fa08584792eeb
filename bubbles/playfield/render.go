package playfield

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/ghthor/shapesboom/blokfall"
)

const (
	DefaultBlock = "  "
	DefaultEmpty = " ·"
)

var StyleEmpty = lipgloss.NewStyle().Faint(true)

// BoardRenderer draws each cell as a two column block colored from a
// palette indexed by cell value.
type BoardRenderer struct {
	Filled string
	Empty  string

	styles []lipgloss.Style
}

func NewBoardRenderer(palette []string) *BoardRenderer {
	styles := make([]lipgloss.Style, len(palette))
	for i, hex := range palette {
		if hex == "" {
			styles[i] = lipgloss.NewStyle()
			continue
		}
		styles[i] = lipgloss.NewStyle().Background(lipgloss.Color(hex))
	}
	return &BoardRenderer{
		Filled: DefaultBlock,
		Empty:  DefaultEmpty,
		styles: styles,
	}
}

// Render draws the frame. It only ever reads f.
func (r *BoardRenderer) Render(w io.Writer, f blokfall.Frame) {
	for y := range f.Height {
		for x := range f.Width {
			r.cell(w, f.At(x, y))
		}
		if y+1 != f.Height {
			fmt.Fprintln(w)
		}
	}
}

// RenderShape draws a shape's template, used for the preview.
func (r *BoardRenderer) RenderShape(w io.Writer, s blokfall.Shape) {
	for y := range s.Size() {
		for x := range s.Size() {
			if c := s.At(x, y); c != blokfall.Empty {
				r.cell(w, c)
			} else {
				fmt.Fprint(w, DefaultBlock)
			}
		}
		if y+1 != s.Size() {
			fmt.Fprintln(w)
		}
	}
}

func (r *BoardRenderer) cell(w io.Writer, c blokfall.Cell) {
	switch {
	case c == blokfall.Empty:
		fmt.Fprint(w, StyleEmpty.Render(r.Empty))
	case int(c) < len(r.styles):
		fmt.Fprint(w, r.styles[c].Render(r.Filled))
	default:
		fmt.Fprint(w, r.Filled)
	}
}
