package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/piedoom/go-planty/parser"
	"github.com/piedoom/go-planty/plant"
	"github.com/piedoom/go-planty/presets"
)

// resolvePlant picks between a preset name and a definition file.
func resolvePlant(path, preset string) (*plant.Plant, error) {
	if preset != "" {
		if path != "" {
			return nil, fmt.Errorf("cannot combine a definition file with --preset")
		}
		p, err := presets.New(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(presets.List(), ", "))
		}
		return p, nil
	}
	return loadPlant(path)
}

// loadPlant builds a plant from an optional definition file. An empty
// path yields the stock plant.
func loadPlant(path string) (*plant.Plant, error) {
	if path == "" {
		return plant.New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	p, err := parser.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	return p, nil
}

// applyOverrides folds command line flags over the definition values.
// Rules are semicolon separated, e.g. "X=F[+F]F;F=FF".
func applyOverrides(p *plant.Plant, iterations int, axiom, rules string) {
	if iterations > 0 {
		p.Options.Iterations = iterations
	}
	if axiom != "" {
		p.Options.Axiom = axiom
	}
	if rules != "" {
		p.Options.Rules = strings.Split(rules, ";")
	}
}
