// Package export renders stored orbits as standalone SVG documents.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/planetsim/internal/analysis"
	"github.com/san-kum/planetsim/internal/storage"
)

type Options struct {
	Width, Height int
	Plane         analysis.Plane
	Stroke        string
	Background    string
}

func DefaultOptions() Options {
	return Options{Width: 600, Height: 600, Plane: analysis.PlaneXY, Stroke: "#3380ff", Background: "#1a1a33"}
}

// OrbitToSVG draws the orbiter path relative to the attractor. Both axes
// share one scale so circular orbits stay circular.
func OrbitToSVG(records []storage.Record, opts Options) string {
	if len(records) < 2 || opts.Width <= 0 || opts.Height <= 0 {
		return ""
	}
	ia, ib := opts.Plane.Axes()

	// Find bounds
	extent := 0.0
	for _, r := range records {
		p := r.OrbiterPos.Sub(r.AttractorPos)
		extent = max(extent, math.Abs(p[ia]), math.Abs(p[ib]))
	}
	if extent == 0 {
		extent = 1
	}
	// Add padding
	extent *= 1.1

	w, h := float64(opts.Width), float64(opts.Height)
	half := math.Min(w, h) / 2
	toPx := func(a, b float64) (float64, float64) {
		return w/2 + a/extent*half, h/2 - b/extent*half
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		opts.Width, opts.Height, opts.Width, opts.Height, opts.Background, opts.Stroke)

	for i, r := range records {
		p := r.OrbiterPos.Sub(r.AttractorPos)
		x, y := toPx(p[ia], p[ib])
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	cx, cy := toPx(0, 0)
	fmt.Fprintf(&sb, "<circle class=\"attractor\" cx=\"%.1f\" cy=\"%.1f\" r=\"6\" fill=\"#ffd700\"/>\n", cx, cy)
	last := records[len(records)-1]
	p := last.OrbiterPos.Sub(last.AttractorPos)
	ox, oy := toPx(p[ia], p[ib])
	fmt.Fprintf(&sb, "<circle class=\"orbiter\" cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", ox, oy, opts.Stroke)
	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteOrbitSVG writes OrbitToSVG output to w.
func WriteOrbitSVG(w io.Writer, records []storage.Record, opts Options) error {
	doc := OrbitToSVG(records, opts)
	if doc == "" {
		return fmt.Errorf("export: need at least 2 samples, got %d", len(records))
	}
	_, err := io.WriteString(w, doc)
	return err
}
