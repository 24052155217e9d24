package pyrometry

import (
	"fmt"
	"math"

	"github.com/san-kum/liisim/internal/constants"
	"github.com/san-kum/liisim/internal/signal"
)

// TwoColor returns the ratio temperature for intensities v1, v2 measured at
// wavelengths l1, l2 (m) with absorption functions em1, em2:
//
//	T = c2 (1/l2 - 1/l1) / ln(v1/v2 * em2/em1 * (l1/l2)^6)
//
// Non-positive intensities or E(m) give the sentinel 0; everything else is
// clamped to [MinTemperature, MaxTemperature].
func TwoColor(v1, v2, l1, l2, em1, em2 float64) float64 {
	if !(v1 > 0) || !(v2 > 0) || !(em1 > 0) || !(em2 > 0) || l1 <= 0 || l2 <= 0 || l1 == l2 {
		return 0
	}
	r := l1 / l2
	denom := math.Log(v1 / v2 * em2 / em1 * r * r * r * r * r * r)
	return clampTemperature(constants.C2 * (1/l2 - 1/l1) / denom)
}

// TwoColor evaluates the ratio temperature for channel wavelengths wl1, wl2
// in nm, with E(m) taken at EmReferenceTemperature.
func (c *Calculator) TwoColor(v1, v2 float64, wl1, wl2 int) float64 {
	em1 := c.Em(float64(wl1), EmReferenceTemperature)
	em2 := c.Em(float64(wl2), EmReferenceTemperature)
	return TwoColor(v1, v2, float64(wl1)*1e-9, float64(wl2)*1e-9, em1, em2)
}

// CalcTemperatureFromTwoColor applies TwoColor sample by sample to channels
// i and j of set. Signals on different timebases are aligned first. When
// E(m) is unavailable for either channel the result is empty and the error
// says why.
func (c *Calculator) CalcTemperatureFromTwoColor(set *signal.Set, i, j int) (*Temperature, error) {
	if err := checkSet(set); err != nil {
		return nil, err
	}
	if i < 0 || j < 0 || i >= set.Len() || j >= set.Len() || i == j {
		return nil, fmt.Errorf("%w: %d, %d of %d", ErrChannelIndex, i, j, set.Len())
	}
	ch1, ch2 := set.Channels[i], set.Channels[j]
	method := fmt.Sprintf("two-color %d/%d", ch1.Wavelength, ch2.Wavelength)
	if err := c.CheckEmSource([]signal.Channel{ch1, ch2}); err != nil {
		return &Temperature{Method: method}, err
	}

	sigs, err := signal.Align(set.Signals[i], set.Signals[j])
	if err != nil {
		return &Temperature{Method: method}, err
	}
	s1, s2 := sigs[0], sigs[1]

	out := &signal.Signal{Start: s1.Start, Dt: s1.Dt, Data: make([]float64, s1.Len())}
	for k := range out.Data {
		out.Data[k] = c.TwoColor(s1.Data[k], s2.Data[k], ch1.Wavelength, ch2.Wavelength)
	}

	res := &Temperature{Method: method, Signal: out}
	c.log.Debugw("two-color pyrometry done", "channels", method, "samples", res.Len(), "valid", res.Valid())
	return res, nil
}
