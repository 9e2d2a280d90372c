// Package lang implements the `.loaf` domain-specific language: a lexer
// and participle/v2 grammar over the five-block program structure of
// spec.md §6, plus the builder that turns a parsed program into a running
// runtime.Runtime.
package lang

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var loafLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `\b(boundary|environment|neighborhood|state|rule|void|wrap|infinite|static|MOORE|VON_NEUMANN|default|color|from|to|within|and|or|x|y|z)\b`},
	{Name: "Dim", Pattern: `[123]D\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Hex", Pattern: `#[0-9a-fA-F]{6}`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Op", Pattern: `::|:=|!=|<=|>=|\+-`},
	{Name: "Punct", Pattern: `[(){}=,+\-*/<>:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Program is the root AST node: the five blocks in the fixed sequence
// spec.md §6's grammar prescribes (boundary, environment, neighborhood,
// state, rule), each optional at the grammar level so a missing block
// parses cleanly and is caught as ErrMissingBlock afterward, and each a
// single grammar position so a repeated block keyword is a syntax error
// rather than a silently-accepted duplicate.
type Program struct {
	Boundary     *BoundaryBlock     `parser:"(\"boundary\" \":=\" @@)?"`
	Environment  *EnvironmentBlock  `parser:"(\"environment\" \":=\" @@)?"`
	Neighborhood *NeighborhoodBlock `parser:"(\"neighborhood\" \":=\" @@)?"`
	State        *StateBlock        `parser:"(\"state\" \":=\" @@)?"`
	Rule         *RuleBlock         `parser:"(\"rule\" \":=\" @@)?"`
}

// BoundaryBlock is `void | wrap | infinite | static ["::(" ident ")"]`.
type BoundaryBlock struct {
	Void     bool            `parser:"  @\"void\""`
	Wrap     bool            `parser:"| @\"wrap\""`
	Infinite bool            `parser:"| @\"infinite\""`
	Static   *StaticBoundary `parser:"| \"static\" @@"`
}

// StaticBoundary is the optional `::(StateName)` suffix on `static`.
type StaticBoundary struct {
	Name *string `parser:"(\"::\" \"(\" @Ident \")\")?"`
}

// EnvironmentBlock is `("1D"|"2D"|"3D") ["::(" dim_assign ("," dim_assign)* ")"]`.
type EnvironmentBlock struct {
	Dim  string       `parser:"@Dim"`
	Dims []*DimAssign `parser:"(\"::\" \"(\" @@ (\",\" @@)* \")\")?"`
}

// DimAssign is one `axis = extent` pair.
type DimAssign struct {
	Axis   string `parser:"@(\"x\"|\"y\"|\"z\"|\"*\")"`
	Extent int64  `parser:"\"=\" @Int"`
}

// NeighborhoodBlock is `MOORE | VON_NEUMANN | "{" rule* "}"`.
type NeighborhoodBlock struct {
	Moore      bool                    `parser:"  @\"MOORE\""`
	VonNeumann bool                    `parser:"| @\"VON_NEUMANN\""`
	Rules      []*NeighborhoodRuleNode `parser:"| \"{\" @@* \"}\""`
}

// NeighborhoodRuleNode is `axis (("+"|"-"|"+-") int | "within" int)`.
type NeighborhoodRuleNode struct {
	Axis string           `parser:"@(\"x\"|\"y\"|\"z\"|\"*\")"`
	Tail NeighborhoodTail `parser:"@@"`
}

// NeighborhoodTail is the part of a neighborhood rule following the axis.
type NeighborhoodTail struct {
	Edge   *EdgeTail `parser:"  @@"`
	Within *int64    `parser:"| \"within\" @Int"`
}

// EdgeTail is `("+"|"-"|"+-") magnitude`.
type EdgeTail struct {
	Sign      string `parser:"@(\"+-\"|\"+\"|\"-\")"`
	Magnitude int64  `parser:"@Int"`
}

// StateBlock is `"{" state_decl* "}"`.
type StateBlock struct {
	States []*StateDecl `parser:"\"{\" @@* \"}\""`
}

// StateDecl is `ident ["::(" attr ("," attr)* ")"]`.
type StateDecl struct {
	Name       string       `parser:"@Ident"`
	Attributes []*StateAttr `parser:"(\"::\" \"(\" @@ (\",\" @@)* \")\")?"`
}

// StateAttr is `"default" | "color" "=" (ident | "#" hex6)`.
type StateAttr struct {
	Default bool        `parser:"  @\"default\""`
	Color   *ColorValue `parser:"| \"color\" \"=\" @@"`
}

// ColorValue is a color attribute's value: a named color or a #RRGGBB literal.
type ColorValue struct {
	Hex  *string `parser:"  @Hex"`
	Name *string `parser:"| @Ident"`
}

// RuleBlock is `"{" transition* "}"`.
type RuleBlock struct {
	Transitions []*Transition `parser:"\"{\" @@* \"}\""`
}

// Transition is `"from" ident "to" ident ":=" expr`.
type Transition struct {
	From string  `parser:"\"from\" @Ident"`
	To   string  `parser:"\"to\" @Ident"`
	Expr *OrExpr `parser:"\":=\" @@"`
}

// The expression grammar is precedence-climbed across five struct levels,
// highest precedence nested deepest, matching spec.md §4.5's table:
// {*, /} > {+, -} > {<, <=, >, >=} > {=, !=} > {and, or}. Each level is a
// left-associative fold: one mandatory operand followed by zero or more
// (operator, operand) pairs.

// OrExpr is the lowest-precedence level: `and`/`or`.
type OrExpr struct {
	Left *EqExpr      `parser:"@@"`
	Ops  []*OrExprOp  `parser:"@@*"`
}

// OrExprOp is one `and`/`or` application in an OrExpr chain.
type OrExprOp struct {
	Op    string  `parser:"@(\"and\"|\"or\")"`
	Right *EqExpr `parser:"@@"`
}

// EqExpr is `=`/`!=`.
type EqExpr struct {
	Left *CmpExpr      `parser:"@@"`
	Ops  []*EqExprOp   `parser:"@@*"`
}

// EqExprOp is one `=`/`!=` application in an EqExpr chain.
type EqExprOp struct {
	Op    string   `parser:"@(\"=\"|\"!=\")"`
	Right *CmpExpr `parser:"@@"`
}

// CmpExpr is `<`, `<=`, `>`, `>=`.
type CmpExpr struct {
	Left *AddExpr     `parser:"@@"`
	Ops  []*CmpExprOp `parser:"@@*"`
}

// CmpExprOp is one comparison application in a CmpExpr chain.
type CmpExprOp struct {
	Op    string   `parser:"@(\"<=\"|\">=\"|\"<\"|\">\")"`
	Right *AddExpr `parser:"@@"`
}

// AddExpr is `+`/`-`.
type AddExpr struct {
	Left *MulExpr     `parser:"@@"`
	Ops  []*AddExprOp `parser:"@@*"`
}

// AddExprOp is one `+`/`-` application in an AddExpr chain.
type AddExprOp struct {
	Op    string   `parser:"@(\"+\"|\"-\")"`
	Right *MulExpr `parser:"@@"`
}

// MulExpr is `*`/`/`, the highest-precedence binary level.
type MulExpr struct {
	Left *Atom        `parser:"@@"`
	Ops  []*MulExprOp `parser:"@@*"`
}

// MulExprOp is one `*`/`/` application in a MulExpr chain.
type MulExprOp struct {
	Op    string `parser:"@(\"*\"|\"/\")"`
	Right *Atom  `parser:"@@"`
}

// Atom is an integer literal, a census primitive, or a parenthesized
// sub-expression.
type Atom struct {
	Integer *int64  `parser:"  @Int"`
	Census  *string `parser:"| \"neighborhood\" \"(\" @Ident \")\""`
	Group   *OrExpr `parser:"| \"(\" @@ \")\""`
}

// Parser is the built, ready-to-use participle parser for a Program.
var Parser = participle.MustBuild[Program](
	participle.Lexer(loafLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)
