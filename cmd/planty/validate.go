package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/piedoom/go-planty/grammar"
)

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	quiet := fs.Bool("quiet", false, "Suppress the token table, only report errors")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: planty validate <definition.json> [options]

Compile a plant definition without building geometry. Reports unknown
symbols in rules, malformed rule text and invalid drawing options.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("definition file required")
	}

	p, err := loadPlant(fs.Arg(0))
	if err != nil {
		return err
	}

	if !*quiet {
		fmt.Printf("Tokens (%d):\n", p.Registry().Len())
		actions := p.Actions()
		for _, sym := range p.Registry().Symbols() {
			fmt.Printf("  %c  %s\n", sym, actions[sym])
		}
		fmt.Println()
	}

	failed := false
	b := grammar.NewBuilder(p.Registry())
	if err := b.SetAxiom(p.Options.Axiom); err != nil {
		fmt.Printf("✗ axiom %q: %v\n", p.Options.Axiom, err)
		failed = true
	}
	for i, text := range p.Options.Rules {
		if err := b.AddRule(text); err != nil {
			fmt.Printf("✗ rule %d %q: %v\n", i, text, err)
			failed = true
		} else if !*quiet {
			fmt.Printf("✓ rule %d %q\n", i, text)
		}
	}

	if failed {
		fmt.Println("\n✗ Validation FAILED")
		os.Exit(1)
	}
	fmt.Printf("\n✓ Validation PASSED (%d rules)\n", b.Build().NumRules())
	return nil
}
