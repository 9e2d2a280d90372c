package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blinkerProgram = `
boundary := infinite
environment := 2D::(x = 8, y = 8)
neighborhood := MOORE
state := {
  Dead::(color=black, default)
  Alive::(color=white)
}
rule := {
  from Dead to Alive := neighborhood(Alive) = 3
  from Alive to Dead := neighborhood(Alive) < 2
  from Alive to Dead := neighborhood(Alive) > 3
}
`

func writeProgram(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "blinker.loaf")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunWritesOneFramePerTick(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, blinkerProgram)
	outDir := filepath.Join(dir, "frames")

	rootCmd.SetArgs([]string{
		path,
		"--out", outDir,
		"--ticks", "2",
		"--cell-width", "2",
	})
	require.NoError(t, rootCmd.Execute())

	for tick := 1; tick <= 2; tick++ {
		name := filepath.Join(outDir, "blinker_frame_"+strconv.Itoa(tick)+".png")
		_, err := os.Stat(name)
		assert.NoError(t, err, "expected frame for tick %d", tick)
	}
}

func TestRunMissingFileIsError(t *testing.T) {
	rootCmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.loaf")})
	assert.Error(t, rootCmd.Execute())
}

func TestRunWrongArgCountIsError(t *testing.T) {
	rootCmd.SetArgs([]string{})
	assert.Error(t, rootCmd.Execute())
}

