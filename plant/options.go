package plant

import (
	"errors"

	"github.com/piedoom/go-planty/turtle"
)

var (
	ErrIterations = errors.New("plant: iteration count must be positive")
)

// Options is the editable per-plant configuration: grammar text plus
// drawing parameters.
type Options struct {
	RotationAngle float64
	SegmentLength float64
	Iterations    int
	LineWidth     float64
	LineColor     string
	Axiom         string
	Rules         []string
}

// DefaultOptions returns the settings a freshly spawned plant starts
// with: a bushy four-way branching grammar.
func DefaultOptions() Options {
	return Options{
		RotationAngle: 30,
		SegmentLength: 0.25,
		Iterations:    6,
		LineWidth:     10,
		LineColor:     "#00ff1a",
		Axiom:         "X",
		Rules: []string{
			"X=[+F][^F][-F][vF]FX",
			"F=FX",
		},
	}
}

// Validate checks the drawing configuration. Grammar text is validated
// later, at build time.
func (o Options) Validate() error {
	if o.Iterations <= 0 {
		return ErrIterations
	}
	return o.TurtleConfig().Validate()
}

// TurtleConfig extracts the interpreter configuration.
func (o Options) TurtleConfig() turtle.Config {
	return turtle.Config{
		SegmentLength: o.SegmentLength,
		RotationAngle: o.RotationAngle,
	}
}
