package pyrometry

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/liisim/internal/constants"
)

// PlanckIntensity is the incandescence of particles with absorption
// function em at wavelength lambda (m) and temperature T, scaled by C:
//
//	I = C em/lambda * c1/lambda^5 / (exp(c2/(lambda T)) - 1)
func PlanckIntensity(lambda, T, C, em float64) float64 {
	if lambda <= 0 || T <= 0 {
		return 0
	}
	l5 := lambda * lambda * lambda * lambda * lambda
	return C * em / lambda * constants.C1 / l5 / math.Expm1(constants.C2/(lambda*T))
}

// Planck evaluates PlanckIntensity at wavelength wl in nm with the
// calculator's E(m).
func (c *Calculator) Planck(wl, T, C float64) float64 {
	return PlanckIntensity(wl*1e-9, T, C, c.Em(wl, T))
}

// PlanckBandpass integrates Planck over [wl-hb, wl+hb] nm in 1 nm steps
// with the trapezoid rule and divides by the sample count minus one, which
// is the band average. A zero half-bandwidth is the center value. When the
// calculator has a filter its transmission weights the integrand.
//
// Tabulated E(m) only exists at channel centers, so that value is held
// across the band; the other sources are evaluated per wavelength.
func (c *Calculator) PlanckBandpass(wl float64, hb int, T, C float64) float64 {
	if hb <= 0 {
		return c.Planck(wl, T, C) * c.Filter.At(wl)
	}
	center := c.Em(wl, T)
	n := 2*hb + 1
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		x := wl - float64(hb) + float64(i)
		em := center
		if c.Source != EmTabulated {
			em = c.Em(x, T)
		}
		xs[i] = x
		ys[i] = PlanckIntensity(x*1e-9, T, C, em) * c.Filter.At(x)
	}
	return integrate.Trapezoidal(xs, ys) / float64(n-1)
}
