package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

const (
	DefaultPlotHeight = 12
	DefaultPlotWidth  = 80
)

// Downsample picks at most n evenly spaced points, always keeping the
// last one. Non-finite values are dropped.
func Downsample(values []float64, n int) []float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if n <= 0 || len(finite) <= n {
		return finite
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = finite[i*(len(finite)-1)/(n-1)]
	}
	return out
}

// Plot draws one series. An empty series renders as an empty string.
func Plot(values []float64, caption string, height, width int) string {
	data := Downsample(values, width)
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotMany overlays several series on shared axes.
func PlotMany(series [][]float64, caption string, height, width int) string {
	data := make([][]float64, 0, len(series))
	for _, s := range series {
		if d := Downsample(s, width); len(d) > 0 {
			data = append(data, d)
		}
	}
	if len(data) == 0 {
		return ""
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Scaled multiplies values by factor, e.g. to plot diameters in nm.
func Scaled(values []float64, factor float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out
}
