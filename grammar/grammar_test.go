package grammar

import (
	"errors"
	"testing"
)

func buildGrammar(t *testing.T, axiom string, rules ...string) (*Grammar, *Builder) {
	t.Helper()
	b := NewBuilder(testRegistry())
	if err := b.SetRules(rules); err != nil {
		t.Fatalf("set rules: %v", err)
	}
	if err := b.SetAxiom(axiom); err != nil {
		t.Fatalf("set axiom: %v", err)
	}
	return b.Build(), b
}

func TestExpand_ZeroIterationsReturnsAxiom(t *testing.T) {
	g, b := buildGrammar(t, "XF", "X=F[+F]F")

	if got := sequenceString(t, b.Registry(), g.Expand(0)); got != "XF" {
		t.Errorf("expected axiom unchanged, got %q", got)
	}
}

func TestExpand_ConcreteScenario(t *testing.T) {
	g, b := buildGrammar(t, "X", "X=F[+F]F")

	if got := sequenceString(t, b.Registry(), g.Expand(1)); got != "F[+F]F" {
		t.Errorf("iteration 1: expected F[+F]F, got %q", got)
	}
}

func TestExpand_Deterministic(t *testing.T) {
	g, b := buildGrammar(t, "X", "X=F[+F]F", "F=FX")

	first := sequenceString(t, b.Registry(), g.Expand(4))
	second := sequenceString(t, b.Registry(), g.Expand(4))
	if first != second {
		t.Errorf("expansion not deterministic:\n%q\n%q", first, second)
	}
}

func TestExpand_TerminalSymbolsAreFixedPoints(t *testing.T) {
	g, b := buildGrammar(t, "+X+", "X=XX")

	got := sequenceString(t, b.Registry(), g.Expand(3))
	if len(got) != 2+8 {
		t.Fatalf("unexpected length %d: %q", len(got), got)
	}
	if got[0] != '+' || got[len(got)-1] != '+' {
		t.Errorf("terminal '+' did not survive unchanged: %q", got)
	}
	for _, c := range got[1 : len(got)-1] {
		if c != 'X' {
			t.Errorf("expected only X between terminals, got %q", got)
			break
		}
	}
}

func TestExpand_GenerationsNeverConsumeOwnOutput(t *testing.T) {
	// X=FX doubles per generation only if each generation is built
	// atomically. In-place rewriting would diverge or misorder.
	g, b := buildGrammar(t, "X", "X=FX")

	if got := sequenceString(t, b.Registry(), g.Expand(3)); got != "FFFX" {
		t.Errorf("expected FFFX after 3 iterations, got %q", got)
	}
}

func TestExpandLimit(t *testing.T) {
	g, _ := buildGrammar(t, "X", "X=XX")

	if _, err := g.ExpandLimit(3, 8); err != nil {
		t.Fatalf("within cap: %v", err)
	}

	_, err := g.ExpandLimit(4, 8)
	var gerr *GrowthLimitError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GrowthLimitError, got %v", err)
	}
	if gerr.Iteration != 4 || gerr.Length != 16 || gerr.Limit != 8 {
		t.Errorf("unexpected error detail: %+v", gerr)
	}
}

func TestExpand_EmptyProductionErasesSymbol(t *testing.T) {
	g, b := buildGrammar(t, "XFX", "X=")

	if got := sequenceString(t, b.Registry(), g.Expand(1)); got != "F" {
		t.Errorf("expected X erased, got %q", got)
	}
}
