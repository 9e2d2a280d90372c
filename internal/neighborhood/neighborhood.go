// Package neighborhood implements the neighborhood operator: given an
// origin coordinate, it produces the finite multiset of neighbor
// coordinates a declared rule set names.
package neighborhood

import (
	"errors"
	"fmt"

	"github.com/loaflang/loaf/internal/coord"
)

// Sentinel errors, raised at build time rather than at tick time.
var (
	// ErrEmptyCompound indicates a Compound rule with zero children (§9 open
	// question 2: reject at build time rather than panic at tick time).
	ErrEmptyCompound = errors.New("neighborhood: compound rule must have at least one child")
	// ErrUnimplementedRule indicates UndirectedCircle, reserved but
	// unimplemented per spec §3/§9 open question 2.
	ErrUnimplementedRule = errors.New("neighborhood: undirected circle rule is reserved and not implemented")
)

// Kind tags a Rule's variant, realized the same tagged-struct way as
// coord.Coordinate since Go has no closed sum types.
type Kind int

const (
	DirectedEdge Kind = iota
	UndirectedEdge
	UndirectedCircle // reserved; Build rejects it
	Compound
)

// Rule is one neighborhood-rule node. Axis/Magnitude apply to DirectedEdge,
// UndirectedEdge, and UndirectedCircle; Children applies to Compound.
type Rule struct {
	Kind      Kind
	Axis      coord.Axis
	Magnitude int64
	Children  []Rule
}

// Edge builds a DirectedEdge rule translating by magnitude along axis.
func Edge(axis coord.Axis, magnitude int64) Rule {
	return Rule{Kind: DirectedEdge, Axis: axis, Magnitude: magnitude}
}

// UndirectedEdgeRule builds an UndirectedEdge rule: both +magnitude and
// -magnitude along axis.
func UndirectedEdgeRule(axis coord.Axis, magnitude int64) Rule {
	return Rule{Kind: UndirectedEdge, Axis: axis, Magnitude: magnitude}
}

// CompoundRule builds a Compound rule from an ordered sequence of children.
func CompoundRule(children ...Rule) Rule {
	return Rule{Kind: Compound, Children: children}
}

// Spec is a built, ready-to-use neighborhood: an ordered sequence of rules
// applied in turn to produce the neighbor multiset for any origin.
type Spec struct {
	rules []Rule
}

// Build validates rules and returns a Spec, rejecting anything the runtime
// would otherwise have to reject mid-tick (empty Compound, UndirectedCircle).
func Build(rules []Rule) (*Spec, error) {
	for _, r := range rules {
		if err := validate(r); err != nil {
			return nil, err
		}
	}
	return &Spec{rules: rules}, nil
}

func validate(r Rule) error {
	switch r.Kind {
	case UndirectedCircle:
		return ErrUnimplementedRule
	case Compound:
		if len(r.Children) == 0 {
			return ErrEmptyCompound
		}
		for _, c := range r.Children {
			if err := validate(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Moore builds the Moore-preset rule sequence for the given dimensionality:
// every non-zero offset in {-1,0,1}^n, expanded to a fixed sequence of
// DirectedEdge (axis-aligned) and Compound (diagonal) rules at build time,
// per §4.4's "Presets ... expanded to fixed rule sequences at build time."
func Moore(dim coord.Dimensionality) []Rule {
	return offsetRules(dim, false)
}

// VonNeumann builds the preset rule sequence containing exactly the
// axis-aligned unit offsets (no diagonals): DirectedEdge{axis, ±1} for
// every axis the dimensionality has.
func VonNeumann(dim coord.Dimensionality) []Rule {
	return offsetRules(dim, true)
}

func axesFor(dim coord.Dimensionality) []coord.Axis {
	switch dim {
	case coord.OneD:
		return []coord.Axis{coord.X}
	case coord.TwoD:
		return []coord.Axis{coord.X, coord.Y}
	default:
		return []coord.Axis{coord.X, coord.Y, coord.Z}
	}
}

// offsetRules enumerates every combination of {-1, 0, 1} across the
// dimensionality's axes (excluding the all-zero offset), keeping only the
// axis-aligned ones when axisAlignedOnly is set (Von Neumann), or every
// non-zero combination (Moore). A combination touching exactly one axis is
// emitted as a plain DirectedEdge; anything touching more than one axis is
// wrapped in a Compound of per-axis DirectedEdges.
func offsetRules(dim coord.Dimensionality, axisAlignedOnly bool) []Rule {
	axes := axesFor(dim)
	offsets := make([]int64, len(axes))
	var rules []Rule

	var recurse func(i int)
	recurse = func(i int) {
		if i == len(axes) {
			nonZero := 0
			for _, o := range offsets {
				if o != 0 {
					nonZero++
				}
			}
			if nonZero == 0 {
				return
			}
			if axisAlignedOnly && nonZero > 1 {
				return
			}
			if nonZero == 1 {
				for ax, o := range offsets {
					if o != 0 {
						rules = append(rules, Edge(axes[ax], o))
					}
				}
				return
			}
			children := make([]Rule, 0, nonZero)
			for ax, o := range offsets {
				if o != 0 {
					children = append(children, Edge(axes[ax], o))
				}
			}
			rules = append(rules, CompoundRule(children...))
			return
		}
		for _, v := range []int64{-1, 0, 1} {
			offsets[i] = v
			recurse(i + 1)
		}
	}
	recurse(0)
	return rules
}

// Neighbors produces the multiset of neighbor coordinates of origin per
// the built rule sequence. Order is unspecified except for termination, as
// §4.4 allows; duplicates are preserved since Census counts occurrences.
func (s *Spec) Neighbors(origin coord.Coordinate) []coord.Coordinate {
	var out []coord.Coordinate
	for _, r := range s.rules {
		out = append(out, apply(r, origin)...)
	}
	return out
}

// apply evaluates a single rule against one coordinate, producing the
// coordinates it contributes.
func apply(r Rule, c coord.Coordinate) []coord.Coordinate {
	switch r.Kind {
	case DirectedEdge:
		if r.Axis == coord.All {
			return c.AddAll(r.Magnitude)
		}
		return []coord.Coordinate{c.AddAxis(r.Axis, r.Magnitude)}
	case UndirectedEdge:
		if r.Axis == coord.All {
			out := c.AddAll(r.Magnitude)
			return append(out, c.SubAll(r.Magnitude)...)
		}
		return []coord.Coordinate{
			c.AddAxis(r.Axis, r.Magnitude),
			c.AddAxis(r.Axis, -r.Magnitude),
		}
	case Compound:
		working := []coord.Coordinate{c}
		for _, child := range r.Children {
			var next []coord.Coordinate
			for _, wc := range working {
				next = append(next, apply(child, wc)...)
			}
			working = next
		}
		return working
	default:
		panic(fmt.Errorf("neighborhood: unreachable rule kind %d reached tick time (should have been rejected at Build)", r.Kind))
	}
}
