package ruleexpr

import "github.com/loaflang/loaf/internal/state"

// TransitionRule is one `from A to B := expr` declaration.
type TransitionRule struct {
	To   state.Id
	Expr *Expr
}

// Table maps a from-state to its ordered sequence of (expr, to) rules.
// Declaration order is preserved and is the sole tie-break §4.5 specifies:
// open question 3 resolves disjunction-on-shared-to as first-match-wins,
// not implicit OR.
type Table struct {
	rules map[state.Id][]TransitionRule
}

// NewTable builds an empty Table.
func NewTable() *Table {
	return &Table{rules: make(map[state.Id][]TransitionRule)}
}

// Add appends one transition rule for from, preserving call order.
func (t *Table) Add(from state.Id, expr *Expr, to state.Id) {
	t.rules[from] = append(t.rules[from], TransitionRule{To: to, Expr: expr})
}

// Evaluate scans the rules declared for from in declaration order and
// returns the `to` state of the first whose expression coerces to true.
// Returns (0, false) if none fire ("no change" per §4.5).
func (t *Table) Evaluate(from state.Id, neighborhood []state.Id) (state.Id, bool) {
	for _, r := range t.rules[from] {
		if r.Expr.Evaluate(neighborhood).coerceBool() {
			return r.To, true
		}
	}
	return 0, false
}
