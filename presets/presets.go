// Package presets provides well known plant grammars
package presets

import (
	"fmt"
	"sort"

	"github.com/piedoom/go-planty/plant"
)

// Preset is a named, ready to build grammar over the stock token set.
type Preset struct {
	Name        string
	Description string
	Options     plant.Options
}

// Registry holds all available presets
var Registry = map[string]Preset{
	"bush": {
		Name:        "bush",
		Description: "Dense four-way branching bush",
		Options:     plant.DefaultOptions(),
	},
	"fern": {
		Name:        "fern",
		Description: "Fern frond with alternating side shoots",
		Options: plant.Options{
			RotationAngle: 25,
			SegmentLength: 0.15,
			Iterations:    6,
			LineWidth:     6,
			LineColor:     "#2e8b57",
			Axiom:         "X",
			Rules: []string{
				"X=F[+X][-X]FX",
				"F=FF",
			},
		},
	},
	"tree": {
		Name:        "tree",
		Description: "Symmetric tree with paired branches",
		Options: plant.Options{
			RotationAngle: 26,
			SegmentLength: 0.3,
			Iterations:    4,
			LineWidth:     10,
			LineColor:     "#8b5a2b",
			Axiom:         "F",
			Rules: []string{
				"F=F[+F]F[-F]F",
			},
		},
	},
	"seaweed": {
		Name:        "seaweed",
		Description: "Wavy fronds drifting to one side",
		Options: plant.Options{
			RotationAngle: 20,
			SegmentLength: 0.2,
			Iterations:    5,
			LineWidth:     8,
			LineColor:     "#00a86b",
			Axiom:         "F",
			Rules: []string{
				"F=F[+F]F[-F][F]",
			},
		},
	},
}

// Get returns a preset by name
func Get(name string) (Preset, error) {
	p, ok := Registry[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset: %s", name)
	}
	return p, nil
}

// List returns all available preset names, sorted.
func List() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds a plant from a preset. The plant uses the stock token set.
func New(name string) (*plant.Plant, error) {
	preset, err := Get(name)
	if err != nil {
		return nil, err
	}
	p := plant.New()
	p.Name = preset.Name
	p.Options = preset.Options
	return p, nil
}
