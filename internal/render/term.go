package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/loaflang/loaf/internal/coord"
	"github.com/loaflang/loaf/internal/runtime"
	"github.com/loaflang/loaf/internal/state"
)

// glyphFor picks the rune drawn for a state: the first letter of its
// declared name, uppercased, falling back to '?' for an empty name.
func glyphFor(name string) rune {
	for _, r := range name {
		return []rune(strings.ToUpper(string(r)))[0]
	}
	return '?'
}

// TermSink writes one styled snapshot of the generation per tick to w, one
// line per lattice row. Unlike the teacher's interactive, scrolling Screen,
// this is a plain one-shot dump: no redraw loop, no keybindings,
// just a string written once per Render call.
type TermSink struct {
	bounds coord.Bounds
	w      io.Writer

	grid map[coord.Coordinate]state.Id
}

// NewTermSink builds a TermSink for a 2D runtime, writing each frame to w.
func NewTermSink(bounds coord.Bounds, w io.Writer) (*TermSink, error) {
	if err := require2D(bounds); err != nil {
		return nil, err
	}
	return &TermSink{bounds: bounds, w: w, grid: make(map[coord.Coordinate]state.Id)}, nil
}

// Render applies delta to the sink's running picture of the generation and
// writes the resulting grid to w as one lipgloss-styled glyph per cell,
// row-terminated with a newline, preceded by a "tick N" header line.
func (s *TermSink) Render(tick uint64, delta runtime.Delta, reg *state.Registry) error {
	for _, ch := range delta.Changes {
		if int(ch.State) < 0 || int(ch.State) >= reg.NumStates() {
			panic(fmt.Errorf("render: unknown state id %d in delta", ch.State))
		}
		s.grid[ch.Coord] = ch.State
	}

	xLow, xHigh := s.bounds.Range(coord.X)
	yLow, yHigh := s.bounds.Range(coord.Y)

	var out strings.Builder
	fmt.Fprintf(&out, "tick %d\n", tick)
	for y := yHigh; y >= yLow; y-- {
		var line strings.Builder
		for x := xLow; x <= xHigh; x++ {
			c := coord.New2D(x, y)
			id, ok := s.grid[c]
			if !ok {
				line.WriteRune(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(reg.Color(id))
			line.WriteString(style.Render(string(glyphFor(reg.Name(id)))))
		}
		out.WriteString(line.String())
		out.WriteByte('\n')
	}

	_, err := io.WriteString(s.w, out.String())
	return err
}
