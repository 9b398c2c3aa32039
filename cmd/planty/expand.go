package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/piedoom/go-planty/grammar"
	"github.com/piedoom/go-planty/token"
)

func expand(args []string) error {
	fs := flag.NewFlagSet("expand", flag.ExitOnError)
	iterations := fs.Int("iterations", 0, "Override iteration count")
	axiom := fs.String("axiom", "", "Override axiom")
	rules := fs.String("rules", "", "Override rules, semicolon separated")
	all := fs.Bool("all", false, "Print every generation, not just the last")
	maxLen := fs.Int("max", 0, "Abort when a generation exceeds this many symbols (0 = unlimited)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: planty expand [definition.json] [options]

Rewrite the axiom through the grammar and print the resulting symbol
string. Useful for inspecting a grammar without tracing geometry.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Watch a grammar grow generation by generation
  planty expand bush.json --iterations 4 --all

  # Guard against runaway growth
  planty expand bush.json --iterations 12 --max 100000
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := loadPlant(fs.Arg(0))
	if err != nil {
		return err
	}
	applyOverrides(p, *iterations, *axiom, *rules)

	b := grammar.NewBuilder(p.Registry())
	if err := b.SetAxiom(p.Options.Axiom); err != nil {
		return fmt.Errorf("axiom: %w", err)
	}
	if err := b.SetRules(p.Options.Rules); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	g := b.Build()

	expandOne := func(iters int) ([]token.ID, error) {
		if *maxLen > 0 {
			return g.ExpandLimit(iters, *maxLen)
		}
		return g.Expand(iters), nil
	}

	n := p.Options.Iterations
	if *all {
		for i := 0; i <= n; i++ {
			seq, err := expandOne(i)
			if err != nil {
				return err
			}
			fmt.Printf("%2d: %s\n", i, p.Text(seq))
		}
		return nil
	}

	seq, err := expandOne(n)
	if err != nil {
		return err
	}
	fmt.Println(p.Text(seq))
	return nil
}
