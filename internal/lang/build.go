package lang

import (
	"errors"
	"fmt"

	"github.com/loaflang/loaf/internal/boundary"
	"github.com/loaflang/loaf/internal/coord"
	"github.com/loaflang/loaf/internal/neighborhood"
	"github.com/loaflang/loaf/internal/ruleexpr"
	"github.com/loaflang/loaf/internal/runtime"
	"github.com/loaflang/loaf/internal/state"
)

// Sentinel BuildError causes, in the style of one var block per package.
var (
	// ErrStaticRequiresState indicates `boundary := static` named no state
	// and the state block declared no default either.
	ErrStaticRequiresState = errors.New("lang: static boundary with no named state requires a default state")
	// ErrEmptyAtom indicates a malformed expression atom slipped past the
	// grammar (defensive; the grammar should make this unreachable).
	ErrEmptyAtom = errors.New("lang: empty expression atom")
)

// BuildWarning is a non-fatal condition accumulated during Build, surfaced
// to the caller rather than failing the build. Presently the only source
// is an unresolved color keyword.
type BuildWarning = state.UnknownColorWarning

// BuildError wraps a checked build-time failure (§7's BuildError category):
// multiple default states, an unknown state name referenced by a rule or a
// static boundary, or a static boundary with nothing to pin to.
type BuildError struct {
	err error
}

func (e *BuildError) Error() string { return "lang: build error: " + e.err.Error() }
func (e *BuildError) Unwrap() error { return e.err }

const defaultExtent = 16

// namedColors mirrors the source dialect's built-in color keyword table.
var namedColors = map[string]string{
	"black": "#000000",
	"white": "#ffffff",
	"grey":  "#f0f0f0",
	"gray":  "#f0f0f0",
	"red":   "#ff0000",
	"green": "#00ff00",
	"blue":  "#0000ff",
}

// Build walks a parsed Program into a ready-to-run runtime.Runtime, its
// backing state.Registry, and any accumulated warnings. Unknown state
// names encountered while resolving rules or census operands are raised as
// panics internally and converted into a returned *BuildError here; an
// unknown name for the static boundary's pinned state is returned as a
// *BuildError directly, without a panic. A genuine RuntimeFatal panic (raised
// only once runtime.New validates its inputs) is deliberately left to
// propagate past this function uncaught, per §7's propagation policy.
func Build(p *Program) (rt *runtime.Runtime, reg *state.Registry, warnings []BuildWarning, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch r.(type) {
		case *runtime.FatalError, *coord.MismatchError, *ruleexpr.TypeError, *ruleexpr.ArithmeticError:
			panic(r)
		}
		if e, ok := r.(error); ok {
			rt, reg, warnings, err = nil, nil, nil, &BuildError{err: e}
			return
		}
		panic(r)
	}()

	reg, warnings, err = buildRegistry(p.State)
	if err != nil {
		return nil, nil, nil, err
	}

	bounds := buildBounds(p.Environment)

	nhSpec, err := buildNeighborhood(p.Neighborhood, bounds.Dimensionality())
	if err != nil {
		return nil, nil, nil, err
	}

	table := buildRuleTable(p.Rule, reg)

	def, hasDefault := reg.DefaultState()
	var defaultStateID *state.Id
	if hasDefault {
		defaultStateID = &def
	}

	staticStateID, err := resolveStaticState(p.Boundary, reg, defaultStateID)
	if err != nil {
		return nil, nil, nil, err
	}

	policy := buildBoundaryPolicy(p.Boundary)

	rt = runtime.New(bounds, policy, staticStateID, defaultStateID, table, nhSpec)
	return rt, reg, warnings, nil
}

func buildRegistry(blk *StateBlock) (*state.Registry, []state.UnknownColorWarning, error) {
	b := state.NewBuilder()
	for _, decl := range blk.States {
		isDefault := false
		color := ""
		colorKnown := true
		for _, attr := range decl.Attributes {
			if attr.Default {
				isDefault = true
				continue
			}
			if attr.Color == nil {
				continue
			}
			switch {
			case attr.Color.Hex != nil:
				color, colorKnown = *attr.Color.Hex, true
			case attr.Color.Name != nil:
				if resolved, ok := namedColors[*attr.Color.Name]; ok {
					color, colorKnown = resolved, true
				} else {
					color, colorKnown = *attr.Color.Name, false
				}
			}
		}
		b.Declare(decl.Name, isDefault, color, colorKnown)
	}
	reg, warnings, err := b.Build()
	if err != nil {
		return nil, nil, &BuildError{err: err}
	}
	return reg, warnings, nil
}

func buildBounds(blk *EnvironmentBlock) coord.Bounds {
	switch blk.Dim {
	case "1D":
		x, _, _ := resolveExtents(1, blk.Dims)
		return coord.NewBounds1D(0, x-1)
	case "2D":
		x, y, _ := resolveExtents(2, blk.Dims)
		return coord.NewBounds2D(0, x-1, 0, y-1)
	default:
		x, y, z := resolveExtents(3, blk.Dims)
		return coord.NewBounds3D(0, x-1, 0, y-1, 0, z-1)
	}
}

func resolveExtents(numAxes int, dims []*DimAssign) (x, y, z int64) {
	x, y, z = defaultExtent, defaultExtent, defaultExtent
	for _, d := range dims {
		switch d.Axis {
		case "x":
			x = d.Extent
		case "y":
			y = d.Extent
		case "z":
			z = d.Extent
		case "*":
			x = d.Extent
			if numAxes >= 2 {
				y = d.Extent
			}
			if numAxes >= 3 {
				z = d.Extent
			}
		}
	}
	return x, y, z
}

func buildNeighborhood(blk *NeighborhoodBlock, dim coord.Dimensionality) (*neighborhood.Spec, error) {
	var rules []neighborhood.Rule
	switch {
	case blk.Moore:
		rules = neighborhood.Moore(dim)
	case blk.VonNeumann:
		rules = neighborhood.VonNeumann(dim)
	default:
		for _, node := range blk.Rules {
			axis := axisFromToken(node.Axis)
			switch {
			case node.Tail.Edge != nil:
				switch node.Tail.Edge.Sign {
				case "+":
					rules = append(rules, neighborhood.Edge(axis, node.Tail.Edge.Magnitude))
				case "-":
					rules = append(rules, neighborhood.Edge(axis, -node.Tail.Edge.Magnitude))
				default: // "+-"
					rules = append(rules, neighborhood.UndirectedEdgeRule(axis, node.Tail.Edge.Magnitude))
				}
			case node.Tail.Within != nil:
				rules = append(rules, neighborhood.Rule{
					Kind: neighborhood.UndirectedCircle, Axis: axis, Magnitude: *node.Tail.Within,
				})
			}
		}
	}
	spec, err := neighborhood.Build(rules)
	if err != nil {
		return nil, &BuildError{err: err}
	}
	return spec, nil
}

func axisFromToken(s string) coord.Axis {
	switch s {
	case "x":
		return coord.X
	case "y":
		return coord.Y
	case "z":
		return coord.Z
	default:
		return coord.All
	}
}

func buildRuleTable(blk *RuleBlock, reg *state.Registry) *ruleexpr.Table {
	table := ruleexpr.NewTable()
	for _, tr := range blk.Transitions {
		from := reg.MustNameToId(tr.From)
		to := reg.MustNameToId(tr.To)
		table.Add(from, buildOrExpr(tr.Expr, reg), to)
	}
	return table
}

func resolveStaticState(blk *BoundaryBlock, reg *state.Registry, defaultID *state.Id) (*state.Id, error) {
	if blk.Static == nil {
		return nil, nil
	}
	if blk.Static.Name != nil {
		id, ok := reg.NameToId(*blk.Static.Name)
		if !ok {
			return nil, &BuildError{err: fmt.Errorf("%w: %q", state.ErrUnknownState, *blk.Static.Name)}
		}
		return &id, nil
	}
	if defaultID != nil {
		id := *defaultID
		return &id, nil
	}
	return nil, &BuildError{err: ErrStaticRequiresState}
}

func buildBoundaryPolicy(blk *BoundaryBlock) boundary.Policy {
	switch {
	case blk.Wrap:
		return boundary.NewWrap()
	case blk.Infinite:
		return boundary.NewInfinite()
	case blk.Static != nil:
		return boundary.NewStatic()
	default:
		return boundary.NewVoid()
	}
}

func buildOrExpr(e *OrExpr, reg *state.Registry) *ruleexpr.Expr {
	left := buildEqExpr(e.Left, reg)
	for _, op := range e.Ops {
		right := buildEqExpr(op.Right, reg)
		o := ruleexpr.OpAnd
		if op.Op == "or" {
			o = ruleexpr.OpOr
		}
		left = ruleexpr.Binary(o, left, right)
	}
	return left
}

func buildEqExpr(e *EqExpr, reg *state.Registry) *ruleexpr.Expr {
	left := buildCmpExpr(e.Left, reg)
	for _, op := range e.Ops {
		right := buildCmpExpr(op.Right, reg)
		o := ruleexpr.OpEq
		if op.Op == "!=" {
			o = ruleexpr.OpNeq
		}
		left = ruleexpr.Binary(o, left, right)
	}
	return left
}

func buildCmpExpr(e *CmpExpr, reg *state.Registry) *ruleexpr.Expr {
	left := buildAddExpr(e.Left, reg)
	for _, op := range e.Ops {
		right := buildAddExpr(op.Right, reg)
		var o ruleexpr.Op
		switch op.Op {
		case "<=":
			o = ruleexpr.OpLte
		case ">=":
			o = ruleexpr.OpGte
		case "<":
			o = ruleexpr.OpLt
		default:
			o = ruleexpr.OpGt
		}
		left = ruleexpr.Binary(o, left, right)
	}
	return left
}

func buildAddExpr(e *AddExpr, reg *state.Registry) *ruleexpr.Expr {
	left := buildMulExpr(e.Left, reg)
	for _, op := range e.Ops {
		right := buildMulExpr(op.Right, reg)
		o := ruleexpr.OpAdd
		if op.Op == "-" {
			o = ruleexpr.OpSub
		}
		left = ruleexpr.Binary(o, left, right)
	}
	return left
}

func buildMulExpr(e *MulExpr, reg *state.Registry) *ruleexpr.Expr {
	left := buildAtom(e.Left, reg)
	for _, op := range e.Ops {
		right := buildAtom(op.Right, reg)
		o := ruleexpr.OpMul
		if op.Op == "/" {
			o = ruleexpr.OpDiv
		}
		left = ruleexpr.Binary(o, left, right)
	}
	return left
}

func buildAtom(a *Atom, reg *state.Registry) *ruleexpr.Expr {
	switch {
	case a.Integer != nil:
		return ruleexpr.Integer(*a.Integer)
	case a.Census != nil:
		return ruleexpr.Census(reg.MustNameToId(*a.Census))
	case a.Group != nil:
		return buildOrExpr(a.Group, reg)
	default:
		panic(ErrEmptyAtom)
	}
}
