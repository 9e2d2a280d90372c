package render

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loaflang/loaf/internal/coord"
	"github.com/loaflang/loaf/internal/runtime"
	"github.com/loaflang/loaf/internal/state"
)

func twoStateRegistry(t *testing.T) (*state.Registry, state.Id, state.Id) {
	t.Helper()
	reg, _, err := state.NewBuilder().
		Declare("dead", true, "#000000", true).
		Declare("alive", false, "#ffffff", true).
		Build()
	require.NoError(t, err)
	dead, _ := reg.NameToId("dead")
	alive, _ := reg.NameToId("alive")
	return reg, dead, alive
}

func TestNewPNGSinkRejectsNon2D(t *testing.T) {
	_, err := NewPNGSink(coord.NewBounds1D(0, 3), t.TempDir(), "frame", 4, nil)
	assert.ErrorIs(t, err, ErrNot2D)
}

func TestPNGSinkWritesFrameWithCellColors(t *testing.T) {
	reg, _, alive := twoStateRegistry(t)
	bounds := coord.NewBounds2D(0, 1, 0, 1)
	dir := t.TempDir()

	sink, err := NewPNGSink(bounds, dir, "frame", 2, color.Black)
	require.NoError(t, err)

	delta := runtime.Delta{Changes: []runtime.Change{
		{Coord: coord.New2D(0, 0), State: alive},
	}}
	require.NoError(t, sink.Render(0, delta, reg))

	path := filepath.Join(dir, "frame_frame_0.png")
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)

	bounds2 := img.Bounds()
	assert.Equal(t, 4, bounds2.Dx()) // 2 cols * cellWidth 2
	assert.Equal(t, 4, bounds2.Dy())

	// (0,0) is the bottom-left lattice cell (alive, white); with Y flipped
	// for the image, it lands in the bottom-left block of pixels.
	r, g, b, _ := img.At(0, 3).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)

	// (1,1), never touched by the delta, stays the configured background.
	r, g, b, _ = img.At(2, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0), b)
}

func TestPNGSinkPanicsOnUnknownStateID(t *testing.T) {
	reg, _, _ := twoStateRegistry(t)
	bounds := coord.NewBounds2D(0, 1, 0, 1)
	sink, err := NewPNGSink(bounds, t.TempDir(), "frame", 2, nil)
	require.NoError(t, err)

	delta := runtime.Delta{Changes: []runtime.Change{
		{Coord: coord.New2D(0, 0), State: state.Id(99)},
	}}
	assert.Panics(t, func() { _ = sink.Render(0, delta, reg) })
}
