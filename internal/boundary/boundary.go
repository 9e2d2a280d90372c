// Package boundary implements the four boundary regimes — Void, Wrap,
// Infinite, Static — as a small sum type consumed by the transition
// engine's neighbor-lookup step. Per design note §9 ("boundary as
// strategy"), every "is this boundary infinite/finite?" check lives here,
// not scattered through internal/runtime.
package boundary

// Kind tags a Policy's regime.
type Kind int

const (
	// Void: outside initialBounds there are no cells; neighbors outside
	// contribute nothing and are never scheduled.
	Void Kind = iota
	// Wrap: initialBounds is a torus; an out-of-bounds neighbor is mapped
	// modulo the bound's extent along each axis into the interior.
	Wrap
	// Infinite: initialBounds is only a seed hint; out-of-bounds neighbors
	// are default-state cells that get woken (requires a default state).
	Infinite
	// Static: initialBounds is finite; every edge cell is pinned to a
	// static state and never changed by a tick.
	Static
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Wrap:
		return "wrap"
	case Infinite:
		return "infinite"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// Policy is the built, immutable boundary configuration for a Runtime.
type Policy struct {
	Kind Kind
}

// NewVoid builds a Void policy.
func NewVoid() Policy { return Policy{Kind: Void} }

// NewWrap builds a Wrap policy.
func NewWrap() Policy { return Policy{Kind: Wrap} }

// NewInfinite builds an Infinite policy.
func NewInfinite() Policy { return Policy{Kind: Infinite} }

// NewStatic builds a Static policy. The actual pinned StateId is resolved
// by the caller (the DSL builder, against the StateRegistry) and stored
// separately on the Runtime, per the data model in spec.md §3.
func NewStatic() Policy { return Policy{Kind: Static} }

// Finite reports whether this policy treats initialBounds as an absolute
// limit on which coordinates may hold cells (Void, Wrap, Static) as
// opposed to Infinite, where initialBounds is only a seed hint.
func (p Policy) Finite() bool { return p.Kind != Infinite }
