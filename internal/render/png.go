package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/loaflang/loaf/internal/coord"
	"github.com/loaflang/loaf/internal/runtime"
	"github.com/loaflang/loaf/internal/state"
)

// PNGSink writes one PNG file per tick: a solid CellWidth-square block per
// lattice cell, filled with the cell's registered color, over a configurable
// background for cells the delta has never touched.
type PNGSink struct {
	bounds     coord.Bounds
	dir        string
	name       string
	cellWidth  int
	background color.Color

	grid map[coord.Coordinate]state.Id
}

// NewPNGSink builds a PNGSink for a runtime whose bounds are 2D. dir is the
// output directory (created if missing); name prefixes each frame's
// filename. cellWidth <= 0 falls back to 8px; a nil background falls back
// to white.
func NewPNGSink(bounds coord.Bounds, dir, name string, cellWidth int, background color.Color) (*PNGSink, error) {
	if err := require2D(bounds); err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "loaf-frames"
	}
	if cellWidth <= 0 {
		cellWidth = 8
	}
	if background == nil {
		background = color.White
	}
	return &PNGSink{
		bounds:     bounds,
		dir:        dir,
		name:       name,
		cellWidth:  cellWidth,
		background: background,
		grid:       make(map[coord.Coordinate]state.Id),
	}, nil
}

// Render applies delta to the sink's running picture of the generation,
// then rasterizes the full bounds as one PNG file named
// "<name>_frame_<tick>.png" under dir.
func (s *PNGSink) Render(tick uint64, delta runtime.Delta, reg *state.Registry) error {
	for _, ch := range delta.Changes {
		if int(ch.State) < 0 || int(ch.State) >= reg.NumStates() {
			panic(fmt.Errorf("render: unknown state id %d in delta", ch.State))
		}
		s.grid[ch.Coord] = ch.State
	}

	xLow, xHigh := s.bounds.Range(coord.X)
	yLow, yHigh := s.bounds.Range(coord.Y)
	cols := int(xHigh - xLow + 1)
	rows := int(yHigh - yLow + 1)

	img := image.NewRGBA(image.Rect(0, 0, cols*s.cellWidth, rows*s.cellWidth))
	draw.Draw(img, img.Bounds(), image.NewUniform(s.background), image.Point{}, draw.Src)

	for c, id := range s.grid {
		if s.bounds.Outside(c) {
			continue
		}
		col := int(c.X() - xLow)
		// Row 0 of the image is the top of the frame; Y grows upward in the
		// lattice, so the highest y lands in the top row.
		row := int(yHigh - c.Y())
		rect := image.Rect(col*s.cellWidth, row*s.cellWidth, (col+1)*s.cellWidth, (row+1)*s.cellWidth)
		draw.Draw(img, rect, image.NewUniform(lipglossToColor(reg.Color(id))), image.Point{}, draw.Src)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("render: create output directory %s: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%s_frame_%d.png", s.name, tick))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	slog.Debug("wrote PNG frame", "tick", tick, "path", path)
	return nil
}
