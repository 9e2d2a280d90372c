package lang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Each fixture below mirrors a TryFrom<Pair> test snippet from the
// original block parsers, one block in isolation.

func TestParseBoundaryVariants(t *testing.T) {
	cases := []struct {
		src  string
		kind func(*BoundaryBlock) bool
	}{
		{"void", func(b *BoundaryBlock) bool { return b.Void }},
		{"wrap", func(b *BoundaryBlock) bool { return b.Wrap }},
		{"infinite", func(b *BoundaryBlock) bool { return b.Infinite }},
		{"static", func(b *BoundaryBlock) bool { return b.Static != nil && b.Static.Name == nil }},
		{"static::(Alive)", func(b *BoundaryBlock) bool {
			return b.Static != nil && b.Static.Name != nil && *b.Static.Name == "Alive"
		}},
	}
	for _, tc := range cases {
		prog := fullProgram(t, "boundary := "+tc.src+"\n")
		assert.True(t, tc.kind(prog.Boundary), "boundary := %s", tc.src)
	}
}

func TestParseEnvironmentDimensions(t *testing.T) {
	prog := fullProgram(t, "environment := 2D::(x = 1, y = 2)\n")
	require.Equal(t, "2D", prog.Environment.Dim)
	require.Len(t, prog.Environment.Dims, 2)
	assert.Equal(t, "x", prog.Environment.Dims[0].Axis)
	assert.Equal(t, int64(1), prog.Environment.Dims[0].Extent)
	assert.Equal(t, "y", prog.Environment.Dims[1].Axis)
	assert.Equal(t, int64(2), prog.Environment.Dims[1].Extent)
}

func TestParseEnvironmentBareDimension(t *testing.T) {
	prog := fullProgram(t, "environment := 1D\n")
	assert.Equal(t, "1D", prog.Environment.Dim)
	assert.Empty(t, prog.Environment.Dims)
}

func TestParseNeighborhoodPresets(t *testing.T) {
	prog := fullProgram(t, "neighborhood := MOORE\n")
	assert.True(t, prog.Neighborhood.Moore)

	prog = fullProgram(t, "neighborhood := VON_NEUMANN\n")
	assert.True(t, prog.Neighborhood.VonNeumann)
}

func TestParseNeighborhoodCustomRules(t *testing.T) {
	prog := fullProgram(t, "neighborhood := { x +- 1 }\n")
	require.Len(t, prog.Neighborhood.Rules, 1)
	r := prog.Neighborhood.Rules[0]
	assert.Equal(t, "x", r.Axis)
	require.NotNil(t, r.Tail.Edge)
	assert.Equal(t, "+-", r.Tail.Edge.Sign)
	assert.Equal(t, int64(1), r.Tail.Edge.Magnitude)
}

func TestParseNeighborhoodWithinRule(t *testing.T) {
	prog := fullProgram(t, "neighborhood := { x within 2 }\n")
	require.Len(t, prog.Neighborhood.Rules, 1)
	r := prog.Neighborhood.Rules[0]
	require.NotNil(t, r.Tail.Within)
	assert.Equal(t, int64(2), *r.Tail.Within)
}

func TestParseStateBlock(t *testing.T) {
	prog := fullProgram(t, "state := { A::(color=#010203, default) B::(color=white) }\n")
	require.Len(t, prog.State.States, 2)

	a := prog.State.States[0]
	assert.Equal(t, "A", a.Name)
	require.Len(t, a.Attributes, 2)
	assert.NotNil(t, a.Attributes[0].Color)
	assert.Equal(t, "010203", strings.TrimPrefix(*a.Attributes[0].Color.Hex, "#"))
	assert.True(t, a.Attributes[1].Default)

	b := prog.State.States[1]
	assert.Equal(t, "B", b.Name)
	require.Len(t, b.Attributes, 1)
	require.NotNil(t, b.Attributes[0].Color)
	assert.Equal(t, "white", *b.Attributes[0].Color.Name)
}

func TestParseRuleBlockTransition(t *testing.T) {
	prog := fullProgram(t, "rule := { from A to B := neighborhood(A) = 1 and neighborhood(B) = 2 }\n")
	require.Len(t, prog.Rule.Transitions, 1)
	tr := prog.Rule.Transitions[0]
	assert.Equal(t, "A", tr.From)
	assert.Equal(t, "B", tr.To)
	require.Len(t, tr.Expr.Ops, 1)
	assert.Equal(t, "and", tr.Expr.Ops[0].Op)
}

func TestParseExpressionPrecedence(t *testing.T) {
	// 1 + 2 * 3 = 7 must bind as Eq(Add(1, Mul(2, 3)), 7): `*` binds
	// tighter than `+`, which binds tighter than `=`.
	prog := fullProgram(t, "rule := { from A to A := 1 + 2 * 3 = 7 }\n")
	eq := prog.Rule.Transitions[0].Expr.Left // EqExpr
	require.Len(t, eq.Ops, 1)
	assert.Equal(t, "=", eq.Ops[0].Op)

	add := eq.Left.Left // CmpExpr.Left is *AddExpr
	require.Len(t, add.Ops, 1)
	assert.Equal(t, "+", add.Ops[0].Op)
	require.NotNil(t, add.Left.Left.Integer)
	assert.Equal(t, int64(1), *add.Left.Left.Integer)

	mul := add.Ops[0].Right
	require.Len(t, mul.Ops, 1)
	assert.Equal(t, "*", mul.Ops[0].Op)
	assert.Equal(t, int64(2), *mul.Left.Integer)
	assert.Equal(t, int64(3), *mul.Ops[0].Right.Integer)
}

func TestParseMissingBlockIsError(t *testing.T) {
	_, err := Parse(strings.NewReader("boundary := void\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBlock)
}

func TestParseGarbageIsParseError(t *testing.T) {
	_, err := Parse(strings.NewReader("boundary := not_a_keyword\n"))
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

// fullProgram parses a program consisting of src plus minimal stub blocks
// for whichever of the five src doesn't itself declare, so a single block
// under test can be exercised without tripping checkBlocksPresent.
func fullProgram(t *testing.T, src string) *Program {
	t.Helper()
	// Order matches the grammar's fixed block sequence; src is expected to
	// declare exactly one of these blocks and stand in for it in place.
	order := []string{"boundary", "environment", "neighborhood", "state", "rule"}
	stubs := map[string]string{
		"boundary":     "boundary := void\n",
		"environment":  "environment := 1D\n",
		"neighborhood": "neighborhood := MOORE\n",
		"state":        "state := { A::(default) }\n",
		"rule":         "rule := { from A to A := 0 = 0 }\n",
	}
	var b strings.Builder
	for _, name := range order {
		if strings.HasPrefix(src, name+" :=") {
			b.WriteString(src)
		} else {
			b.WriteString(stubs[name])
		}
	}
	prog, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	return prog
}
