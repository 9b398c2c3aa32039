package grammar

import (
	"fmt"
	"unicode"

	"github.com/piedoom/go-planty/token"
)

// Builder compiles human-authored axiom and rule text against a token
// registry. A builder instance must have a single writer; hand out fresh
// builders for concurrent edits.
type Builder struct {
	reg   *token.Registry
	axiom []token.ID
	rules map[token.ID][]token.ID
}

// NewBuilder creates a builder bound to the given registry.
func NewBuilder(reg *token.Registry) *Builder {
	return &Builder{
		reg:   reg,
		rules: make(map[token.ID][]token.ID),
	}
}

// Registry returns the registry this builder resolves symbols through.
func (b *Builder) Registry() *token.Registry {
	return b.reg
}

// ParseRule splits rule text of the form
//
//	<ws>* <symbol> <ws>* '=' <ws>* (<token><ws>*)*
//
// into its left-hand symbol and right-hand symbols. Symbols are not
// resolved against any registry here; this checks shape only.
func ParseRule(text string) (lhs rune, rhs []rune, err error) {
	runes := []rune(text)
	i := 0
	skipSpace := func() {
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
	}

	skipSpace()
	if i >= len(runes) || runes[i] == '=' {
		return 0, nil, &ParseError{Text: text, Reason: "empty left-hand symbol"}
	}
	lhs = runes[i]
	i++

	skipSpace()
	if i >= len(runes) || runes[i] != '=' {
		return 0, nil, &ParseError{Text: text, Reason: "expected '=' after left-hand symbol"}
	}
	i++

	for {
		skipSpace()
		if i >= len(runes) {
			break
		}
		rhs = append(rhs, runes[i])
		i++
	}
	return lhs, rhs, nil
}

// AddRule parses rule text and stages it, replacing any previous rule
// for the same symbol. Every symbol is resolved through the registry
// before the rule set is touched, so a failing rule is never partially
// applied.
func (b *Builder) AddRule(text string) error {
	lhs, rhs, err := ParseRule(text)
	if err != nil {
		return err
	}

	lhsEntry, err := b.reg.Lookup(lhs)
	if err != nil {
		return &UnknownTokenError{Symbol: lhs}
	}

	ids := make([]token.ID, 0, len(rhs))
	for _, sym := range rhs {
		e, err := b.reg.Lookup(sym)
		if err != nil {
			return &UnknownTokenError{Symbol: sym}
		}
		ids = append(ids, e.ID)
	}

	b.rules[lhsEntry.ID] = ids
	return nil
}

// SetRules clears all existing rules, then parses and adds each rule
// text in order. The first failure aborts the remaining rules; rules
// added earlier in the batch are retained.
func (b *Builder) SetRules(texts []string) error {
	b.ClearRules()
	for i, text := range texts {
		if err := b.AddRule(text); err != nil {
			return fmt.Errorf("rule %d (%q): %w", i, text, err)
		}
	}
	return nil
}

// ClearRules removes all staged rules.
func (b *Builder) ClearRules() {
	b.rules = make(map[token.ID][]token.ID)
}

// SetAxiom resolves each character of text through the registry.
// Unknown characters are silently dropped rather than failing the call;
// this intentionally differs from rule handling.
func (b *Builder) SetAxiom(text string) error {
	axiom := make([]token.ID, 0, len(text))
	for _, sym := range text {
		if e, err := b.reg.Lookup(sym); err == nil {
			axiom = append(axiom, e.ID)
		}
	}
	b.axiom = axiom
	return nil
}

// Build assembles the current axiom and rules into an immutable Grammar
// snapshot. It always succeeds; errors surface earlier at parse and
// resolve time.
func (b *Builder) Build() *Grammar {
	rules := make(map[token.ID][]token.ID, len(b.rules))
	for id, rhs := range b.rules {
		rules[id] = append([]token.ID(nil), rhs...)
	}
	return &Grammar{
		axiom: append([]token.ID(nil), b.axiom...),
		rules: rules,
	}
}
