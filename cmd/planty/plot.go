package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/piedoom/go-planty/plotter"
)

func plot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	preset := fs.String("preset", "", "Render a named preset instead of a definition file")
	iterations := fs.Int("iterations", 0, "Override iteration count")
	width := fs.Float64("width", 800, "SVG width in pixels")
	height := fs.Float64("height", 800, "SVG height in pixels")
	plane := fs.String("plane", "xy", "Projection plane: xy, xz or yz")
	title := fs.String("title", "", "Chart title (defaults to the plant name)")
	output := fs.String("output", "", "Write SVG to file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: planty plot [definition.json] [options]

Build a plant and render its traced path as an SVG line drawing.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Render the stock plant to a file
  planty plot --output plant.svg

  # Side view of a custom plant
  planty plot bush.json --plane yz --output side.svg

  # A named preset
  planty plot --preset seaweed --output seaweed.svg
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := resolvePlant(fs.Arg(0), *preset)
	if err != nil {
		return err
	}
	applyOverrides(p, *iterations, "", "")

	res, err := p.Rebuild()
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	var proj plotter.Plane
	switch *plane {
	case "xy":
		proj = plotter.PlaneXY
	case "xz":
		proj = plotter.PlaneXZ
	case "yz":
		proj = plotter.PlaneYZ
	default:
		return fmt.Errorf("unknown plane %q", *plane)
	}

	t := *title
	if t == "" {
		t = p.Name
	}
	svg := plotter.NewSVGPlotter(*width, *height).
		SetTitle(t).
		SetStroke(p.Options.LineColor, p.Options.LineWidth).
		SetPlane(proj).
		Render(res.Path)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(svg), 0644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "SVG written to %s (%d vertices)\n", *output, res.VertexCount)
		return nil
	}
	fmt.Println(svg)
	return nil
}
