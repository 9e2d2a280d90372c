// Package runtime implements the transition engine: the cell-state store,
// the per-tick scheduler, and the boundary-mediated neighborhood assembly
// that together advance a generation synchronously.
package runtime

import (
	"log/slog"

	"github.com/loaflang/loaf/internal/boundary"
	"github.com/loaflang/loaf/internal/coord"
	"github.com/loaflang/loaf/internal/neighborhood"
	"github.com/loaflang/loaf/internal/ruleexpr"
	"github.com/loaflang/loaf/internal/state"
)

// Generation is the sparse coordinate-to-state map §3 specifies: only cells
// differing from defaultState are present when one is defined, otherwise
// every inhabited cell is present.
type Generation map[coord.Coordinate]state.Id

// FatalError is the single typed value every RuntimeFatal condition panics
// with (§7): dimension mismatches panic as *coord.MismatchError, expression
// type/arithmetic errors panic as *ruleexpr.TypeError/*ruleexpr.ArithmeticError,
// and everything else the runtime itself detects — Infinite boundary absent
// a default state, most notably — panics as *FatalError. Callers recover it
// only at the top of main, per §7's propagation policy.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string { return "runtime: " + e.Reason }

// Change is one coordinate whose state differs from its prior generation.
// State is the resulting state even when it equals defaultState (the
// renderer still needs to know the cell returned to the background color),
// though such cells are not retained in the sparse Generation map itself.
type Change struct {
	Coord coord.Coordinate
	State state.Id
}

// Delta is the set of changes produced by one RunTick call, per the
// glossary's "set of coordinates whose state changed from the prior
// generation."
type Delta struct {
	Changes []Change
}

// Runtime owns one running simulation: the current and next generations,
// the immutable build-time configuration (bounds, boundary policy, rule
// table, neighborhood spec), and the tick counter.
type Runtime struct {
	current Generation
	next    Generation

	tickNumber uint64

	initialBounds coord.Bounds
	boundaryKind  boundary.Policy
	staticState   *state.Id
	defaultState  *state.Id

	rules        *ruleexpr.Table
	neighborhood *neighborhood.Spec
}

// New builds a Runtime. Per §4.7, an Infinite boundary requires a default
// state to exist; constructing one without it is a RuntimeFatal condition.
func New(
	initialBounds coord.Bounds,
	boundaryKind boundary.Policy,
	staticState *state.Id,
	defaultState *state.Id,
	rules *ruleexpr.Table,
	neighborhoodSpec *neighborhood.Spec,
) *Runtime {
	if !boundaryKind.Finite() && defaultState == nil {
		panic(&FatalError{Reason: "infinite boundary requires a default state"})
	}
	rt := &Runtime{
		current:       make(Generation),
		next:          make(Generation),
		initialBounds: initialBounds,
		boundaryKind:  boundaryKind,
		staticState:   staticState,
		defaultState:  defaultState,
		rules:         rules,
		neighborhood:  neighborhoodSpec,
	}
	slog.Debug("runtime constructed",
		"dimensionality", initialBounds.Dimensionality(),
		"boundary", boundaryKind.Kind,
		"has_default", defaultState != nil,
		"has_static", staticState != nil,
	)
	return rt
}

// SetCell writes state s at c into the current generation, returning the
// previously explicit state there, if any.
func (r *Runtime) SetCell(c coord.Coordinate, s state.Id) (state.Id, bool) {
	prev, had := r.current[c]
	r.current[c] = s
	return prev, had
}

// SetEnvironment replaces the current generation wholesale.
func (r *Runtime) SetEnvironment(env Generation) {
	next := make(Generation, len(env))
	for c, s := range env {
		next[c] = s
	}
	r.current = next
}

// GetEnvironment returns a defensive copy of the current generation; the
// caller's copy is never a live cursor into the runtime's state.
func (r *Runtime) GetEnvironment() Generation {
	out := make(Generation, len(r.current))
	for c, s := range r.current {
		out[c] = s
	}
	return out
}

// GetState returns the explicit state of c if present, else defaultState if
// one is defined, else (0, false).
func (r *Runtime) GetState(c coord.Coordinate) (state.Id, bool) {
	if s, ok := r.current[c]; ok {
		return s, true
	}
	if r.defaultState != nil {
		return *r.defaultState, true
	}
	return 0, false
}

// Tick returns the number of ticks completed so far.
func (r *Runtime) Tick() uint64 { return r.tickNumber }

// Bounds returns the runtime's initial bounds, the sole source a consumer
// (chiefly the renderer) has for the simulation's dimensionality and
// extent; under Infinite it remains the seed-region hint it was built with.
func (r *Runtime) Bounds() coord.Bounds { return r.initialBounds }

// RunTicks runs n ticks in sequence, discarding every intermediate delta.
func (r *Runtime) RunTicks(n int) {
	for i := 0; i < n; i++ {
		r.RunTick()
	}
}

// RunTick advances the simulation by one generation and returns the set of
// cells whose state changed. This is a direct translation of the source's
// naive run_tick algorithm, with two deliberate divergences: under Wrap, an
// out-of-bounds neighbor is mapped into the interior via initialBounds.Wrap
// before being treated as interior, rather than skipped like Void/Static (the
// source does not implement Wrap's remapping at all); and under a static
// boundary, a scheduled edge cell keeps its state instead of being evaluated
// against the rules.
func (r *Runtime) RunTick() Delta {
	schedule := make([]coord.Coordinate, 0, len(r.current))
	for c := range r.current {
		schedule = append(schedule, c)
	}

	// visited dedupes a coordinate pushed onto schedule more than once (two
	// live cells sharing a neighbor, under Infinite). Processing is a pure
	// function of the untouched current generation, so skipping repeats
	// changes nothing observable; it only avoids redundant work.
	visited := make(map[coord.Coordinate]bool, len(r.current))

	for len(schedule) > 0 {
		c := schedule[len(schedule)-1]
		schedule = schedule[:len(schedule)-1]
		if visited[c] {
			continue
		}
		visited[c] = true

		_, cExisted := r.current[c]

		var neighborhoodStates []state.Id
		for _, neighbor := range r.neighborhood.Neighbors(c) {
			resolved, ok := r.resolveNeighbor(neighbor, c, cExisted, &schedule)
			if !ok {
				continue
			}
			neighborhoodStates = append(neighborhoodStates, resolved)
		}

		cellState, ok := r.current[c]
		if !ok {
			if r.defaultState == nil {
				panic(&FatalError{Reason: "scheduled cell has no explicit state and no default state is defined"})
			}
			cellState = *r.defaultState
		}

		resultState := cellState
		// A seeded edge cell under a static boundary is pinned: the rules
		// never rewrite it, so it carries its state into the next generation.
		if pinned := r.staticState != nil && r.initialBounds.OnEdge(c); !pinned {
			if to, fired := r.rules.Evaluate(cellState, neighborhoodStates); fired {
				resultState = to
			}
		}

		if r.defaultState == nil || resultState != *r.defaultState {
			r.next[c] = resultState
		}
	}

	delta := r.computeDelta()

	r.current, r.next = r.next, make(Generation)
	r.tickNumber++

	slog.Debug("tick complete", "tick", r.tickNumber, "live_cells", len(r.current), "changed", len(delta.Changes))

	return delta
}

// resolveNeighbor implements one pass of §4.6 step 1 against a single
// neighbor coordinate of c, returning the state it contributes and whether
// it contributes at all.
func (r *Runtime) resolveNeighbor(neighbor, c coord.Coordinate, cExisted bool, schedule *[]coord.Coordinate) (state.Id, bool) {
	if r.boundaryKind.Finite() && r.initialBounds.Outside(neighbor) {
		if r.boundaryKind.Kind == boundary.Wrap {
			neighbor = r.initialBounds.Wrap(neighbor)
		} else {
			return 0, false
		}
	}

	if r.staticState != nil && r.initialBounds.OnEdge(neighbor) {
		return *r.staticState, true
	}

	if s, ok := r.current[neighbor]; ok {
		return s, true
	}

	if !r.boundaryKind.Finite() {
		// Infinite: the neighbor is an unawakened default-state cell. Wake it
		// only if c itself was a live cell before this tick, per the guard in
		// §4.6/§9 that keeps growth to one ring per live cell per tick.
		if cExisted {
			*schedule = append(*schedule, neighbor)
		}
		return *r.defaultState, true
	}

	// Finite (Void/Wrap/Static) and not on the static edge and not explicit:
	// the neighbor contributes nothing to the census. Only Infinite appends
	// defaultState for an unawakened neighbor; a finite boundary never
	// implicitly grows the census with it, per §4.6 step 1 and the
	// original's run_tick (src/lang/runtime/naive/mod.rs).
	return 0, false
}

// computeDelta compares r.next against r.current (the about-to-be-retired
// generation) and also surfaces cells present in current but absent from
// next (cells that fell back to defaultState and were suppressed from the
// sparse representation).
func (r *Runtime) computeDelta() Delta {
	var changes []Change
	for c, s := range r.next {
		if prev, ok := r.current[c]; !ok || prev != s {
			changes = append(changes, Change{Coord: c, State: s})
		}
	}
	for c := range r.current {
		if _, stillPresent := r.next[c]; !stillPresent {
			if r.defaultState == nil {
				continue
			}
			changes = append(changes, Change{Coord: c, State: *r.defaultState})
		}
	}
	return Delta{Changes: changes}
}
