package ruleexpr

import (
	"github.com/loaflang/loaf/internal/state"
)

// Op enumerates the rule expression tree's operators plus its two leaf
// kinds. Per design note §9, dynamic dispatch is realized as a single
// closed tagged variant (one evaluator function per arm) rather than
// runtime-polymorphic node objects, so every operator is enumerable and
// foldable at build time.
type Op int

const (
	OpInteger Op = iota // leaf: literal integer
	OpCensus            // leaf: count of a state in the neighborhood
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

// precedence mirrors §4.5's fixed table, highest first: {*,/} > {+,-} >
// {<,<=,>,>=} > {=,!=} > {and,or}. The parser encodes precedence as AST
// shape at build time, so this table is documentation, not machinery the
// evaluator consults.
var precedence = map[Op]int{
	OpMul: 6, OpDiv: 6,
	OpAdd: 5, OpSub: 5,
	OpLt: 4, OpLte: 4, OpGt: 4, OpGte: 4,
	OpEq: 3, OpNeq: 3,
	OpAnd: 2, OpOr: 2,
}

// Precedence returns op's binding strength; higher binds tighter.
func Precedence(op Op) int { return precedence[op] }

// Expr is one node of the rule expression tree: a leaf (Integer or
// Census) or an internal binary-operator node over Left/Right.
type Expr struct {
	Op        Op
	Literal   int64     // valid when Op == OpInteger
	State     state.Id  // valid when Op == OpCensus
	Left, Right *Expr   // valid for binary operator nodes
}

// Integer builds an Integer literal leaf.
func Integer(n int64) *Expr { return &Expr{Op: OpInteger, Literal: n} }

// Census builds a Census leaf counting occurrences of s.
func Census(s state.Id) *Expr { return &Expr{Op: OpCensus, State: s} }

// Binary builds an internal binary-operator node.
func Binary(op Op, left, right *Expr) *Expr { return &Expr{Op: op, Left: left, Right: right} }

// Evaluate walks the tree against a neighborhood multiset (one state.Id
// per neighbor occurrence, duplicates meaningful) and produces a Value.
// Type mismatches, division by zero, and overflow all panic with a
// RuntimeFatal error (TypeError/ArithmeticError), per §7 — these are
// programmer errors, not part of ordinary control flow.
func (e *Expr) Evaluate(neighborhood []state.Id) Value {
	switch e.Op {
	case OpInteger:
		return Int(e.Literal)
	case OpCensus:
		var count int64
		for _, s := range neighborhood {
			if s == e.State {
				count++
			}
		}
		return Int(count)
	}

	lhs := e.Left.Evaluate(neighborhood)
	rhs := e.Right.Evaluate(neighborhood)

	switch e.Op {
	case OpAdd:
		return Int(checkedAdd(lhs, rhs))
	case OpSub:
		return Int(checkedSub(lhs, rhs))
	case OpMul:
		return Int(checkedMul(lhs, rhs))
	case OpDiv:
		return Int(checkedDiv(lhs, rhs))
	case OpEq:
		return Bool(valuesEqual(lhs, rhs))
	case OpNeq:
		return Bool(!valuesEqual(lhs, rhs))
	case OpLt:
		return Bool(lhs.Int() < rhs.Int())
	case OpLte:
		return Bool(lhs.Int() <= rhs.Int())
	case OpGt:
		return Bool(lhs.Int() > rhs.Int())
	case OpGte:
		return Bool(lhs.Int() >= rhs.Int())
	case OpAnd:
		return Bool(lhs.coerceBool() && rhs.coerceBool())
	case OpOr:
		return Bool(lhs.coerceBool() || rhs.coerceBool())
	default:
		panic(&TypeError{Op: "Evaluate", Got: lhs.kind})
	}
}

// valuesEqual implements `=`/`!=`: defined for any two values of the same
// kind; comparing an Integer to a Boolean is a fatal type error.
func valuesEqual(lhs, rhs Value) bool {
	if lhs.kind != rhs.kind {
		panic(&TypeError{Op: "=", Got: rhs.kind})
	}
	if lhs.kind == KindBoolean {
		return lhs.b == rhs.b
	}
	return lhs.i == rhs.i
}

func checkedAdd(lhs, rhs Value) int64 {
	a, b := mustInt(lhs), mustInt(rhs)
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		panic(&ArithmeticError{Op: "add", LHS: a, RHS: b})
	}
	return sum
}

func checkedSub(lhs, rhs Value) int64 {
	a, b := mustInt(lhs), mustInt(rhs)
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		panic(&ArithmeticError{Op: "sub", LHS: a, RHS: b})
	}
	return diff
}

func checkedMul(lhs, rhs Value) int64 {
	a, b := mustInt(lhs), mustInt(rhs)
	if a == 0 || b == 0 {
		return 0
	}
	if (a == minInt64 && b == -1) || (b == minInt64 && a == -1) {
		panic(&ArithmeticError{Op: "mul", LHS: a, RHS: b})
	}
	p := a * b
	if p/b != a {
		panic(&ArithmeticError{Op: "mul", LHS: a, RHS: b})
	}
	return p
}

func checkedDiv(lhs, rhs Value) int64 {
	a, b := mustInt(lhs), mustInt(rhs)
	if b == 0 {
		panic(&ArithmeticError{Op: "div", LHS: a, RHS: b})
	}
	if a == minInt64 && b == -1 {
		panic(&ArithmeticError{Op: "div", LHS: a, RHS: b})
	}
	return a / b
}

const minInt64 = -1 << 63

func mustInt(v Value) int64 {
	if v.kind != KindInteger {
		panic(&TypeError{Op: "arithmetic", Got: v.kind})
	}
	return v.i
}
