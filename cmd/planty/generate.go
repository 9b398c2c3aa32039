package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

func generate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	preset := fs.String("preset", "", "Build a named preset instead of a definition file")
	iterations := fs.Int("iterations", 0, "Override iteration count")
	axiom := fs.String("axiom", "", "Override axiom")
	rules := fs.String("rules", "", "Override rules, semicolon separated")
	sequence := fs.Bool("sequence", false, "Print the expanded symbol string")
	outputJSON := fs.Bool("json", false, "Output stats as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: planty generate [definition.json] [options]

Run the full pipeline: compile the grammar, expand it and trace the
turtle path. Without a definition file the stock plant is built.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Stock plant
  planty generate

  # Smaller plant from a definition
  planty generate bush.json --iterations 3

  # One-off grammar from the command line
  planty generate --axiom X --rules "X=F[+F]F" --iterations 2 --sequence

  # A named preset
  planty generate --preset fern
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := resolvePlant(fs.Arg(0), *preset)
	if err != nil {
		return err
	}
	applyOverrides(p, *iterations, *axiom, *rules)

	res, err := p.Rebuild()
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	if *outputJSON {
		data, err := json.MarshalIndent(map[string]any{
			"id":           p.ID,
			"name":         p.Name,
			"iterations":   res.Iterations,
			"sequence_len": res.SequenceLen,
			"vertex_count": res.VertexCount,
			"duration_ms":  float64(res.Duration.Microseconds()) / 1000,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else {
		name := p.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("Plant:      %s %s\n", p.ID, name)
		fmt.Printf("Iterations: %d\n", res.Iterations)
		fmt.Printf("Sequence:   %d symbols\n", res.SequenceLen)
		fmt.Printf("Vertices:   %d\n", res.VertexCount)
		fmt.Printf("Duration:   %s\n", res.Duration)
	}

	if *sequence {
		fmt.Println(p.Text(res.Sequence))
	}
	return nil
}
