// Command loaf parses and runs a .loaf cellular-automaton program.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loaflang/loaf/internal/lang"
	"github.com/loaflang/loaf/internal/obs"
	"github.com/loaflang/loaf/internal/render"
	"github.com/loaflang/loaf/internal/runtime"
	"github.com/loaflang/loaf/internal/state"
)

const (
	// DefaultTicks is the number of generations run when --ticks is unset.
	DefaultTicks = 1
	// DefaultOutDir is where PNG frames land when --out is unset.
	DefaultOutDir = "loaf-frames"
	// DefaultCellWidth is the pixel size of one rendered cell.
	DefaultCellWidth = 8
	// DefaultLogLevel and DefaultLogFormat mirror internal/obs's own
	// defaults, spelled out here so --help shows them explicitly.
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

var rootCmd = &cobra.Command{
	Use:   "loaf <path.loaf>",
	Short: "Run a declarative cellular automaton program",
	Long: `loaf parses a .loaf program, builds its runtime, and advances it tick by
tick, writing one PNG frame per tick completed (and, with --term, a
terminal snapshot alongside it).`,
	Args:          cobra.ExactArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().Int("ticks", DefaultTicks, "number of ticks to run")
	rootCmd.Flags().String("out", DefaultOutDir, "directory to write PNG frames into")
	rootCmd.Flags().Int("cell-width", DefaultCellWidth, "pixel width/height of one rendered cell")
	rootCmd.Flags().Bool("term", false, "also write a terminal snapshot to stdout per tick")
	rootCmd.Flags().String("log-level", DefaultLogLevel, "log level (debug/info/warn/error)")
	rootCmd.Flags().String("log-format", DefaultLogFormat, "log format (text/json)")
	rootCmd.Flags().String("log-file", "", "log file path (empty means stdout)")
}

func run(cmd *cobra.Command, args []string) error {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	logFile, _ := cmd.Flags().GetString("log-file")
	if err := obs.Init(logLevel, logFormat, logFile); err != nil {
		return err
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("loaf: open %s: %w", path, err)
	}
	defer f.Close()

	prog, err := lang.Parse(f)
	if err != nil {
		return err
	}

	rt, reg, warnings, err := lang.Build(prog)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		slog.Warn(w.String())
	}

	ticks, _ := cmd.Flags().GetInt("ticks")
	outDir, _ := cmd.Flags().GetString("out")
	cellWidth, _ := cmd.Flags().GetInt("cell-width")
	useTerm, _ := cmd.Flags().GetBool("term")

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sinks, err := buildSinks(rt, name, outDir, cellWidth, useTerm)
	if err != nil {
		return err
	}

	return runTicks(rt, reg, sinks, ticks)
}

func buildSinks(rt *runtime.Runtime, name, outDir string, cellWidth int, useTerm bool) ([]render.Output, error) {
	pngSink, err := render.NewPNGSink(rt.Bounds(), outDir, name, cellWidth, nil)
	if err != nil {
		return nil, err
	}
	sinks := []render.Output{pngSink}
	if useTerm {
		termSink, err := render.NewTermSink(rt.Bounds(), os.Stdout)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, termSink)
	}
	return sinks, nil
}

// runTicks advances rt one tick at a time — never all at once — so an
// Infinite boundary's per-tick cost stays proportional to the live frontier
// rather than ballooning across the whole run. A RuntimeFatal condition
// (the only thing internal/runtime, internal/coord, or internal/ruleexpr
// ever panics with once a program has built successfully) is recovered
// here, at the top of the only call chain that runs ticks, and reported
// like any other checked error.
func runTicks(rt *runtime.Runtime, reg *state.Registry, sinks []render.Output, ticks int) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok {
			err = fmt.Errorf("loaf: fatal: %w", e)
			return
		}
		panic(r)
	}()

	for i := 0; i < ticks; i++ {
		delta := rt.RunTick()
		for _, sink := range sinks {
			if err := sink.Render(rt.Tick(), delta, reg); err != nil {
				return err
			}
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
