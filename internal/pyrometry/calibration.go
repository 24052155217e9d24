package pyrometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/liisim/internal/signal"
)

// CalcTemperatureFromSpectrumCalibrated fits one multiplicative factor per
// channel before the spectral fit. A first pass fits the raw signals; each
// channel's factor is then the least-squares scale mapping its observations
// onto the fitted model over all valid samples. Factors are normalised to a
// geometric mean of 1 so the overall intensity stays in the scaling factor.
// The calibrated signals are fitted again and returned with the factors.
func (c *Calculator) CalcTemperatureFromSpectrumCalibrated(set *signal.Set, opt SpectrumOptions) (*Temperature, error) {
	if err := checkSet(set); err != nil {
		return nil, err
	}
	if set.Len() < 3 {
		return nil, fmt.Errorf("%w: calibration needs 3, got %d", ErrTooFewChannels, set.Len())
	}
	aligned, err := set.Aligned()
	if err != nil {
		return nil, err
	}
	first, err := c.CalcTemperatureFromSpectrum(aligned, opt)
	if err != nil {
		return nil, err
	}
	if first.Valid() == 0 {
		return nil, fmt.Errorf("%w: %w", ErrCalibrationFailed, ErrNoValidSamples)
	}

	model := c.model(aligned, opt)
	factors := make([]float64, aligned.Len())
	logSum := 0.0
	for k, ch := range aligned.Channels {
		var obs, mod []float64
		for i, f := range first.Fits {
			v := aligned.Signals[k].Data[i]
			if !f.Valid || !(v > 0) {
				continue
			}
			obs = append(obs, v)
			mod = append(mod, model(float64(ch.Wavelength), []float64{f.Temperature, f.Scale}))
		}
		den := floats.Dot(obs, obs)
		if len(obs) == 0 || den == 0 {
			return nil, fmt.Errorf("%w: channel %d has no usable samples", ErrCalibrationFailed, ch.Wavelength)
		}
		factors[k] = floats.Dot(mod, obs) / den
		if !(factors[k] > 0) {
			return nil, fmt.Errorf("%w: channel %d factor %g", ErrCalibrationFailed, ch.Wavelength, factors[k])
		}
		logSum += math.Log(factors[k])
	}
	floats.Scale(math.Exp(-logSum/float64(len(factors))), factors)

	calibrated := &signal.Set{Channels: aligned.Channels, Signals: make([]*signal.Signal, aligned.Len())}
	for k, s := range aligned.Signals {
		cs := s.Clone()
		cs.Scale(factors[k])
		calibrated.Signals[k] = cs
	}

	res, err := c.CalcTemperatureFromSpectrum(calibrated, opt)
	if err != nil {
		return nil, err
	}
	res.Method = "spectrum calibrated"
	res.Calibration = factors
	c.log.Infow("channel calibration", "factors", factors)
	return res, nil
}
