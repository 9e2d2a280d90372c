// Package state implements the bidirectional mapping between user-chosen
// cell state names and the dense small integers the runtime actually
// stores, plus each state's display color.
package state

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Sentinel errors for registry construction. Mirrors the one-var-block
// convention used throughout this module for package-level error values.
var (
	// ErrMultipleDefaultStates indicates more than one state was marked default.
	ErrMultipleDefaultStates = errors.New("state: at most one state may be marked default")
	// ErrDuplicateName indicates the same state name was declared twice.
	ErrDuplicateName = errors.New("state: duplicate state name")
	// ErrUnknownState indicates a name with no corresponding StateId.
	ErrUnknownState = errors.New("state: unknown state name")
)

// Id is a dense, non-negative identifier in [0, numStates), assigned in
// declaration order of the parsed states block.
type Id int

// UnknownColorWarning records a state whose declared color keyword did not
// resolve to a known color; build() falls back to DefaultColor for it and
// accumulates one of these per occurrence rather than failing the build.
type UnknownColorWarning struct {
	State Id
	Name  string
	Color string
}

func (w UnknownColorWarning) String() string {
	return fmt.Sprintf("state %q: unknown color %q, using default palette color", w.Name, w.Color)
}

// DefaultColor is substituted for any state whose declared color could not
// be resolved; the renderer never has to special-case a missing color.
const DefaultColor = lipgloss.Color("#808080")

// Registry is the immutable, build-time-constructed mapping from state
// name to Id, Id to display color, and the optional default state.
type Registry struct {
	names      []string
	nameToID   map[string]Id
	colors     []lipgloss.Color
	defaultID  *Id
}

// declaration is one parsed `state := { name ::(attr, ...) }` entry.
type declaration struct {
	Name       string
	IsDefault  bool
	Color      string // empty means "not declared"; parser surfaces `color=X` here
	ColorKnown bool   // false means Color was declared but did not resolve
}

// Builder accumulates declarations and warnings before producing a Registry.
type Builder struct {
	decls    []declaration
	warnings []UnknownColorWarning
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Declare adds one state to the registry under construction, in the order
// states should be assigned ids. color is a resolved lipgloss-compatible
// string (named color or "#RRGGBB"); pass "" if the state declared no
// color attribute. colorKnown distinguishes "no color attribute" (true,
// color "") from "color attribute present but unresolvable" (false).
func (b *Builder) Declare(name string, isDefault bool, color string, colorKnown bool) *Builder {
	b.decls = append(b.decls, declaration{Name: name, IsDefault: isDefault, Color: color, ColorKnown: colorKnown})
	if !colorKnown {
		b.warnings = append(b.warnings, UnknownColorWarning{Name: name, Color: color})
	}
	return b
}

// Build validates the accumulated declarations and produces an immutable
// Registry, along with any UnknownColor warnings accumulated along the way.
func (b *Builder) Build() (*Registry, []UnknownColorWarning, error) {
	reg := &Registry{
		nameToID: make(map[string]Id, len(b.decls)),
	}

	var defaultID *Id
	for i, d := range b.decls {
		if _, exists := reg.nameToID[d.Name]; exists {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateName, d.Name)
		}
		id := Id(i)
		reg.nameToID[d.Name] = id
		reg.names = append(reg.names, d.Name)

		col := DefaultColor
		if d.Color != "" && d.ColorKnown {
			col = lipgloss.Color(d.Color)
		}
		reg.colors = append(reg.colors, col)

		if d.IsDefault {
			if defaultID != nil {
				return nil, nil, ErrMultipleDefaultStates
			}
			idCopy := id
			defaultID = &idCopy
		}
	}
	reg.defaultID = defaultID

	// Resolve warnings against final ids now that every name has one.
	warnings := make([]UnknownColorWarning, 0, len(b.warnings))
	for _, w := range b.warnings {
		w.State = reg.nameToID[w.Name]
		warnings = append(warnings, w)
	}

	return reg, warnings, nil
}

// NameToId looks up the Id assigned to name, if any.
func (r *Registry) NameToId(name string) (Id, bool) {
	id, ok := r.nameToID[name]
	return id, ok
}

// MustNameToId looks up name and panics with ErrUnknownState if absent;
// for call sites (the rule and census builders) where an unresolved name is
// already a checked BuildError rather than a caller bug.
func (r *Registry) MustNameToId(name string) Id {
	id, ok := r.nameToID[name]
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownState, name))
	}
	return id
}

// Name returns the declared name for id.
func (r *Registry) Name(id Id) string { return r.names[id] }

// Color returns the display color for id.
func (r *Registry) Color(id Id) lipgloss.Color { return r.colors[id] }

// DefaultState returns the state marked default, if any.
func (r *Registry) DefaultState() (Id, bool) {
	if r.defaultID == nil {
		return 0, false
	}
	return *r.defaultID, true
}

// NumStates returns the number of declared states.
func (r *Registry) NumStates() int { return len(r.names) }
