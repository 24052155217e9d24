// Package export renders stored cooling traces as standalone SVG plots.
package export

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/liisim/internal/storage"
	"github.com/san-kum/liisim/internal/viz"
)

var ErrTooShort = errors.New("export: need at least two finite points")

// Series is one polyline of a plot.
type Series struct {
	Label string
	X, Y  []float64
	// Stroke is a CSS color; empty uses the theme accent.
	Stroke string
}

type bounds struct{ minX, maxX, minY, maxY float64 }

func seriesBounds(series []Series) (bounds, int) {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	n := 0
	for _, s := range series {
		for i := range s.X {
			if i >= len(s.Y) || !finite(s.X[i]) || !finite(s.Y[i]) {
				continue
			}
			b.minX, b.maxX = math.Min(b.minX, s.X[i]), math.Max(b.maxX, s.X[i])
			b.minY, b.maxY = math.Min(b.minY, s.Y[i]), math.Max(b.maxY, s.Y[i])
			n++
		}
	}
	return b, n
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// SeriesToSVG draws the series on shared axes with 10% padding. Non-finite
// samples break the line instead of being drawn.
func SeriesToSVG(series []Series, width, height int) (string, error) {
	b, n := seriesBounds(series)
	if n < 2 {
		return "", ErrTooShort
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	rangeX = b.maxX - b.minX
	rangeY = b.maxY - b.minY

	theme := viz.CurrentTheme
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for k, s := range series {
		stroke := s.Stroke
		if stroke == "" {
			stroke = string(theme.Accent)
			if k > 0 {
				stroke = string(theme.Secondary)
			}
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
		pen := false
		for i := range s.X {
			if i >= len(s.Y) || !finite(s.X[i]) || !finite(s.Y[i]) {
				pen = false
				continue
			}
			x := (s.X[i] - b.minX) / rangeX * float64(width)
			y := float64(height) - (s.Y[i]-b.minY)/rangeY*float64(height)
			if pen {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " M%.1f,%.1f", x, y)
				pen = true
			}
		}
		sb.WriteString(`"/>` + "\n")
		if s.Label != "" {
			fmt.Fprintf(&sb, `<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>`+"\n",
				16*(k+1), stroke, escape(s.Label))
		}
	}

	fmt.Fprintf(&sb, `<text x="8" y="%d" fill="%s" font-family="monospace" font-size="10">%.4g .. %.4g</text>`+"\n",
		height-6, string(theme.Muted), b.minY+rangeY*0.1/1.2, b.maxY-rangeY*0.1/1.2)
	sb.WriteString("</svg>")
	return sb.String(), nil
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

// TraceToSVG plots temperature over time in ns, or diameter in nm when
// diameter is set.
func TraceToSVG(trace *storage.Trace, diameter bool, width, height int) (string, error) {
	xs := make([]float64, trace.Len())
	for i, t := range trace.Times {
		xs[i] = t * 1e9
	}
	s := Series{Label: "temperature [K] vs time [ns]", X: xs, Y: trace.Temperature}
	if diameter {
		ys := make([]float64, len(trace.Diameter))
		for i, d := range trace.Diameter {
			ys[i] = d * 1e9
		}
		s = Series{Label: "diameter [nm] vs time [ns]", X: xs, Y: ys}
	}
	return SeriesToSVG([]Series{s}, width, height)
}

// WriteTraceSVG renders the trace to path.
func WriteTraceSVG(path string, trace *storage.Trace, diameter bool, width, height int) error {
	svg, err := TraceToSVG(trace, diameter, width, height)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
