// Package render implements the two output sinks driven once per tick from
// cmd/loaf: a PNG frame dump and a one-shot terminal snapshot. Both are
// 2D-only, per spec.md §6.
package render

import (
	"errors"
	"image/color"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/loaflang/loaf/internal/coord"
	"github.com/loaflang/loaf/internal/runtime"
	"github.com/loaflang/loaf/internal/state"
)

// ErrNot2D indicates a sink was constructed for a runtime whose bounds are
// not two-dimensional; both sinks in this package only know how to lay out
// a single plane.
var ErrNot2D = errors.New("render: sink requires a 2D runtime")

// Output is the per-tick rendering contract: given the tick number just
// completed, the delta it produced, and the state registry to resolve
// colors/names from, draw one frame.
type Output interface {
	Render(tick uint64, delta runtime.Delta, reg *state.Registry) error
}

func require2D(bounds coord.Bounds) error {
	if bounds.Dimensionality() != coord.TwoD {
		return ErrNot2D
	}
	return nil
}

// lipglossToColor parses a state's registered color — always either a
// "#RRGGBB" hex string or state.DefaultColor, never an unresolved keyword
// (those are warned on and substituted at registry build time) — into a
// standard library color.Color for the PNG rasterizer.
func lipglossToColor(c lipgloss.Color) color.Color {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) != 6 {
		return color.Gray{Y: 128}
	}
	r, err1 := strconv.ParseUint(s[0:2], 16, 8)
	g, err2 := strconv.ParseUint(s[2:4], 16, 8)
	b, err3 := strconv.ParseUint(s[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return color.Gray{Y: 128}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
