package pyrometry

import (
	"fmt"
	"math"

	"github.com/san-kum/liisim/internal/fit"
	"github.com/san-kum/liisim/internal/ode"
	"github.com/san-kum/liisim/internal/signal"
)

// SpectrumOptions configures CalcTemperatureFromSpectrum.
type SpectrumOptions struct {
	// Bandpass integrates the model over each channel's bandwidth.
	Bandpass bool
	// Weighted uses the signal standard deviations as fit weights when
	// every channel provides them.
	Weighted bool
	// CarryForward starts each sample's fit from the previous converged
	// result. It makes the samples sequential.
	CarryForward bool
	// AutoScale estimates the initial scaling factor from the peak of the
	// first channel at InitialTemperature.
	AutoScale bool

	InitialTemperature float64
	InitialScale       float64
	// MaxTemperatureStep bounds the temperature change per iteration; 0
	// means unlimited.
	MaxTemperatureStep float64
}

func DefaultSpectrumOptions() SpectrumOptions {
	return SpectrumOptions{
		Bandpass:           false,
		Weighted:           false,
		CarryForward:       false,
		AutoScale:          true,
		InitialTemperature: EmReferenceTemperature,
		InitialScale:       1,
		MaxTemperatureStep: 500,
	}
}

// fitBounds are wide on purpose: the result is clamped afterwards, and
// tight bounds trap the solver at the edge.
var (
	fitLower = []float64{100, 0}
	fitUpper = []float64{20000, math.Inf(1)}
)

// parallelChunk is the minimum number of samples per worker.
const parallelChunk = 16

// CalcTemperatureFromSpectrum fits {T, C} of Planck's law to all channels
// at every time sample. Configuration problems (too few channels, missing
// E(m)) are returned before any fit runs; per-sample failures yield the 0
// sentinel.
func (c *Calculator) CalcTemperatureFromSpectrum(set *signal.Set, opt SpectrumOptions) (*Temperature, error) {
	if err := checkSet(set); err != nil {
		return nil, err
	}
	if set.Len() < 2 {
		return nil, fmt.Errorf("%w: spectral fit needs 2, got %d", ErrTooFewChannels, set.Len())
	}
	if err := c.CheckEmSource(set.Channels); err != nil {
		return nil, err
	}
	aligned, err := set.Aligned()
	if err != nil {
		return nil, err
	}
	if opt.InitialTemperature <= 0 {
		opt.InitialTemperature = EmReferenceTemperature
	}

	scale := opt.InitialScale
	if opt.AutoScale {
		if s, ok := c.estimateScale(aligned, opt); ok {
			scale = s
		}
	}
	if !(scale > 0) {
		scale = 1
	}

	base := aligned.Signals[0]
	n := base.Len()
	fits := make([]Sample, n)
	start := []float64{opt.InitialTemperature, scale}

	if opt.CarryForward {
		guess := append([]float64(nil), start...)
		for i := 0; i < n; i++ {
			fits[i] = c.fitSample(aligned, i, guess, opt)
			if fits[i].Valid && fits[i].Converged {
				guess[0], guess[1] = fits[i].Temperature, fits[i].Scale
			}
		}
	} else {
		ode.ParallelFor(n, parallelChunk, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				fits[i] = c.fitSample(aligned, i, start, opt)
			}
		})
	}

	out := &signal.Signal{Start: base.Start, Dt: base.Dt, Data: make([]float64, n)}
	for i, f := range fits {
		if f.Valid {
			out.Data[i] = f.Temperature
		}
	}
	res := &Temperature{Method: "spectrum", Signal: out, Fits: fits}
	c.log.Debugw("spectral fit done", "samples", n, "valid", res.Valid(), "channels", set.Len())
	return res, nil
}

// model returns the fit model for channel wavelengths in nm.
func (c *Calculator) model(set *signal.Set, opt SpectrumOptions) fit.Model {
	half := make(map[float64]int, set.Len())
	for _, ch := range set.Channels {
		half[float64(ch.Wavelength)] = ch.HalfBandwidth()
	}
	return func(wl float64, p []float64) float64 {
		if opt.Bandpass {
			return c.PlanckBandpass(wl, half[wl], p[0], p[1])
		}
		return c.Planck(wl, p[0], p[1])
	}
}

// estimateScale averages observed over modeled intensity across channels at
// the peak of the first channel, assuming the initial temperature.
func (c *Calculator) estimateScale(set *signal.Set, opt SpectrumOptions) (float64, bool) {
	peak, _ := set.Signals[0].Peak()
	if peak < 0 {
		return 0, false
	}
	model := c.model(set, opt)
	sum, count := 0.0, 0
	for k, ch := range set.Channels {
		obs := set.Signals[k].Data[peak]
		mod := model(float64(ch.Wavelength), []float64{opt.InitialTemperature, 1})
		if obs > 0 && mod > 0 {
			sum += obs / mod
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

func (c *Calculator) fitSample(set *signal.Set, i int, guess []float64, opt SpectrumOptions) Sample {
	var xs, ys, sd []float64
	weighted := opt.Weighted
	for k, ch := range set.Channels {
		v := set.Signals[k].Data[i]
		if !(v > 0) {
			continue
		}
		xs = append(xs, float64(ch.Wavelength))
		ys = append(ys, v)
		s := set.Signals[k].StdevAt(i)
		if !(s > 0) {
			weighted = false
		}
		sd = append(sd, s)
	}
	if len(xs) < 2 {
		return Sample{}
	}

	prob := &fit.Problem{
		X:        xs,
		Y:        ys,
		Sigma:    sd,
		Model:    c.model(set, opt),
		Initial:  append([]float64(nil), guess...),
		Lower:    fitLower,
		Upper:    fitUpper,
		Weighted: weighted,
	}
	if opt.MaxTemperatureStep > 0 {
		prob.MaxStep = []float64{opt.MaxTemperatureStep, 0}
	}

	r, err := c.Solver.Fit(prob)
	if err != nil {
		return Sample{}
	}
	final := r.Final()
	T, dT := final.Param(0)
	C, dC := final.Param(1)
	smp := Sample{
		Temperature:    clampTemperature(T),
		TemperatureErr: dT,
		Scale:          C,
		ScaleErr:       dC,
		Chi2:           final.Chi2(),
		Converged:      r.Converged,
		Iterations:     r.Iterations,
	}
	smp.Valid = r.Converged && smp.Temperature > 0 && !math.IsNaN(C)
	if !smp.Valid {
		smp.Temperature = 0
	}
	return smp
}
