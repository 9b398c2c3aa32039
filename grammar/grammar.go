// Package grammar compiles textual L-system rules into a rewritable
// structure and expands it generation by generation.
package grammar

import "github.com/piedoom/go-planty/token"

// Grammar is an immutable snapshot of an axiom and its production rules.
// Ids without a rule are terminal and rewrite to themselves.
type Grammar struct {
	axiom []token.ID
	rules map[token.ID][]token.ID
}

// Axiom returns a copy of the axiom sequence.
func (g *Grammar) Axiom() []token.ID {
	return append([]token.ID(nil), g.axiom...)
}

// Rule returns the production for id, if one exists.
func (g *Grammar) Rule(id token.ID) ([]token.ID, bool) {
	rhs, ok := g.rules[id]
	if !ok {
		return nil, false
	}
	return append([]token.ID(nil), rhs...), true
}

// NumRules returns the number of productions.
func (g *Grammar) NumRules() int {
	return len(g.rules)
}

// Expand rewrites the axiom for the given number of iterations and
// returns the resulting sequence. Zero iterations returns the axiom
// unchanged. Each generation is built into a fresh slice, so a rule
// application never consumes symbols produced in the same generation.
// Sequence length is unbounded; growth grammars are the caller's cost.
func (g *Grammar) Expand(iterations int) []token.ID {
	current := g.Axiom()
	for i := 0; i < iterations; i++ {
		current = g.step(current)
	}
	return current
}

// ExpandLimit is Expand with a cap on sequence length. It fails with a
// GrowthLimitError as soon as a generation exceeds max symbols.
func (g *Grammar) ExpandLimit(iterations, max int) ([]token.ID, error) {
	current := g.Axiom()
	if len(current) > max {
		return nil, &GrowthLimitError{Iteration: 0, Length: len(current), Limit: max}
	}
	for i := 0; i < iterations; i++ {
		current = g.step(current)
		if len(current) > max {
			return nil, &GrowthLimitError{Iteration: i + 1, Length: len(current), Limit: max}
		}
	}
	return current, nil
}

func (g *Grammar) step(current []token.ID) []token.ID {
	next := make([]token.ID, 0, len(current)*2)
	for _, id := range current {
		if rhs, ok := g.rules[id]; ok {
			next = append(next, rhs...)
		} else {
			next = append(next, id)
		}
	}
	return next
}
