// Package parser handles JSON import/export of plant definitions.
package parser

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/piedoom/go-planty/plant"
	"github.com/piedoom/go-planty/token"
)

// Definition is the serialized form of a plant: its symbol table, the
// grammar text and optional drawing overrides.
//
//	{
//	  "name": "bush",
//	  "symbols": {"X": "nothing", "F": "forward", "+": "rotate+x", "[": "push", "]": "pop"},
//	  "axiom": "X",
//	  "rules": ["X=F[+F]F"],
//	  "options": {"rotationAngle": 90, "segmentLength": 1, "iterations": 1}
//	}
//
// Symbols map single characters to action names; see token.ActionNames
// for the accepted set. When symbols is omitted the stock token set is
// used.
type Definition struct {
	Name    string            `json:"name,omitempty"`
	Symbols map[string]string `json:"symbols,omitempty"`
	Axiom   string            `json:"axiom,omitempty"`
	Rules   []string          `json:"rules,omitempty"`
	Options *OptionsOverride  `json:"options,omitempty"`
}

// OptionsOverride carries drawing parameters. Absent fields keep the
// plant defaults.
type OptionsOverride struct {
	RotationAngle *float64 `json:"rotationAngle,omitempty"`
	SegmentLength *float64 `json:"segmentLength,omitempty"`
	Iterations    *int     `json:"iterations,omitempty"`
	LineWidth     *float64 `json:"lineWidth,omitempty"`
	LineColor     *string  `json:"lineColor,omitempty"`
}

// FromJSON parses a plant definition from JSON bytes and builds a plant
// from it. The plant is configured but not yet rebuilt.
func FromJSON(data []byte) (*plant.Plant, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return FromDefinition(def)
}

// FromDefinition builds a plant from an in-memory definition.
func FromDefinition(def Definition) (*plant.Plant, error) {
	var p *plant.Plant
	if len(def.Symbols) == 0 {
		p = plant.New()
	} else {
		pairs := make([]token.Pair, 0, len(def.Symbols))
		for sym, name := range def.Symbols {
			r, size := utf8.DecodeRuneInString(sym)
			if r == utf8.RuneError || size != len(sym) {
				return nil, fmt.Errorf("symbol %q must be a single character", sym)
			}
			a, err := token.ParseAction(name)
			if err != nil {
				return nil, fmt.Errorf("symbol %q: %w", sym, err)
			}
			pairs = append(pairs, token.Pair{Symbol: r, Action: a})
		}
		p = plant.NewWithTokens(pairs)
	}

	p.Name = def.Name
	if def.Axiom != "" {
		p.Options.Axiom = def.Axiom
	}
	if def.Rules != nil {
		p.Options.Rules = def.Rules
	}
	if o := def.Options; o != nil {
		if o.RotationAngle != nil {
			p.Options.RotationAngle = *o.RotationAngle
		}
		if o.SegmentLength != nil {
			p.Options.SegmentLength = *o.SegmentLength
		}
		if o.Iterations != nil {
			p.Options.Iterations = *o.Iterations
		}
		if o.LineWidth != nil {
			p.Options.LineWidth = *o.LineWidth
		}
		if o.LineColor != nil {
			p.Options.LineColor = *o.LineColor
		}
	}

	if err := p.Options.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ToJSON serializes a plant back into definition form. All drawing
// options are written out so the result is self contained.
func ToJSON(p *plant.Plant) ([]byte, error) {
	symbols := make(map[string]string)
	for sym, a := range p.Actions() {
		symbols[string(sym)] = a.Name()
	}

	o := p.Options
	def := Definition{
		Name:    p.Name,
		Symbols: symbols,
		Axiom:   o.Axiom,
		Rules:   o.Rules,
		Options: &OptionsOverride{
			RotationAngle: &o.RotationAngle,
			SegmentLength: &o.SegmentLength,
			Iterations:    &o.Iterations,
			LineWidth:     &o.LineWidth,
			LineColor:     &o.LineColor,
		},
	}
	return json.MarshalIndent(def, "", "  ")
}
