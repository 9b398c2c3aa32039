// Package plotter renders turtle paths as SVG line drawings.
package plotter

import (
	"fmt"
	"math"
	"strings"

	"github.com/piedoom/go-planty/turtle"
)

// Plane selects the orthographic projection used for the 2D drawing.
type Plane int

const (
	// PlaneXY projects onto x/y; the plant grows up the page.
	PlaneXY Plane = iota
	// PlaneXZ projects onto x/z, a top-down view.
	PlaneXZ
	// PlaneYZ projects onto y/z, a side view.
	PlaneYZ
)

func (p Plane) project(v turtle.Vec3) (x, y float64) {
	switch p {
	case PlaneXZ:
		return v.X, v.Z
	case PlaneYZ:
		return v.Y, v.Z
	default:
		return v.X, v.Y
	}
}

// SVGPlotter creates SVG renderings with customizable styling.
type SVGPlotter struct {
	Width       float64
	Height      float64
	Margin      map[string]float64
	Title       string
	StrokeColor string
	StrokeWidth float64
	Background  string
	Plane       Plane
}

// NewSVGPlotter creates a plotter with the given dimensions and the
// stock plant styling.
func NewSVGPlotter(width, height float64) *SVGPlotter {
	return &SVGPlotter{
		Width:       width,
		Height:      height,
		Margin:      map[string]float64{"top": 40, "right": 30, "bottom": 30, "left": 30},
		StrokeColor: "#00ff1a",
		StrokeWidth: 2,
		Background:  "#00050d",
		Plane:       PlaneXY,
	}
}

// SetTitle sets the drawing title.
func (p *SVGPlotter) SetTitle(t string) *SVGPlotter {
	p.Title = t
	return p
}

// SetStroke sets the line color and width.
func (p *SVGPlotter) SetStroke(color string, width float64) *SVGPlotter {
	if color != "" {
		p.StrokeColor = color
	}
	if width > 0 {
		p.StrokeWidth = width
	}
	return p
}

// SetPlane sets the projection plane.
func (p *SVGPlotter) SetPlane(plane Plane) *SVGPlotter {
	p.Plane = plane
	return p
}

// Render generates the SVG string for a path. Every strip becomes its
// own polyline, so branch breaks never produce connecting segments.
func (p *SVGPlotter) Render(path turtle.Path) string {
	strips := path.Strips()

	// Compute projected data ranges.
	xmin := math.Inf(1)
	xmax := math.Inf(-1)
	ymin := math.Inf(1)
	ymax := math.Inf(-1)
	for _, strip := range strips {
		for _, v := range strip {
			x, y := p.Plane.project(v)
			if x < xmin {
				xmin = x
			}
			if x > xmax {
				xmax = x
			}
			if y < ymin {
				ymin = y
			}
			if y > ymax {
				ymax = y
			}
		}
	}
	if math.IsInf(xmin, 1) || math.IsInf(xmax, -1) {
		xmin, xmax = 0, 1
	}
	if math.IsInf(ymin, 1) || math.IsInf(ymax, -1) {
		ymin, ymax = 0, 1
	}
	if xmax-xmin == 0 {
		xmin -= 0.5
		xmax += 0.5
	}
	if ymax-ymin == 0 {
		ymin -= 0.5
		ymax += 0.5
	}

	// Padding keeps thick strokes inside the frame.
	xpad := (xmax - xmin) * 0.05
	ypad := (ymax - ymin) * 0.05
	xmin -= xpad
	xmax += xpad
	ymin -= ypad
	ymax += ypad

	plotWidth := p.Width - p.Margin["left"] - p.Margin["right"]
	plotHeight := p.Height - p.Margin["top"] - p.Margin["bottom"]

	// Scaling closures; SVG y grows downward, plants grow upward.
	sx := func(x float64) float64 {
		return p.Margin["left"] + ((x-xmin)/(xmax-xmin))*plotWidth
	}
	sy := func(y float64) float64 {
		return p.Margin["top"] + plotHeight - ((y-ymin)/(ymax-ymin))*plotHeight
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`,
		int(p.Width), int(p.Height)))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s" rx="8"/>`,
		int(p.Width), int(p.Height), p.Background))

	if p.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="25" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" fill="#eee">%s</text>`,
			p.Width/2, escape(p.Title)))
	}

	for _, strip := range strips {
		if len(strip) == 0 {
			continue
		}
		d := strings.Builder{}
		for i, v := range strip {
			x, y := p.Plane.project(v)
			if i == 0 {
				d.WriteString(fmt.Sprintf("M%f,%f", sx(x), sy(y)))
			} else {
				d.WriteString(fmt.Sprintf(" L%f,%f", sx(x), sy(y)))
			}
		}
		sb.WriteString(fmt.Sprintf(`<path d="%s" stroke="%s" stroke-width="%f" stroke-linecap="round" fill="none"/>`,
			d.String(), p.StrokeColor, p.StrokeWidth))
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// PlotPath is a convenience function to render a path with defaults.
func PlotPath(path turtle.Path, width, height float64, title string) string {
	plotter := NewSVGPlotter(width, height)
	if title != "" {
		plotter.SetTitle(title)
	}
	return plotter.Render(path)
}

func escape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}
