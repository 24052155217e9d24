package metrics

import (
	"math"

	"github.com/san-kum/liisim/internal/ode"
)

type PeakTemperature struct {
	name string
	peak float64
	time float64
}

func NewPeakTemperature() *PeakTemperature {
	return &PeakTemperature{name: "peak_temperature"}
}

func (p *PeakTemperature) Name() string { return p.name }

func (p *PeakTemperature) Observe(x ode.State, t float64) {
	if x[0] > p.peak {
		p.peak = x[0]
		p.time = t
	}
}

func (p *PeakTemperature) Value() float64 { return p.peak }

// Time returns when the peak was observed.
func (p *PeakTemperature) Time() float64 { return p.time }

func (p *PeakTemperature) Reset() {
	p.peak = 0
	p.time = 0
}

// CoolingTime is the first time at which the excess temperature T - Tg has
// dropped to 1/e of its initial value. It is NaN until that happens.
type CoolingTime struct {
	name    string
	ambient float64
	start   float64
	t0      float64
	crossed float64
	samples int
}

func NewCoolingTime(ambient float64) *CoolingTime {
	return &CoolingTime{
		name:    "cooling_time",
		ambient: ambient,
		crossed: math.NaN(),
	}
}

func (c *CoolingTime) Name() string { return c.name }

func (c *CoolingTime) Observe(x ode.State, t float64) {
	excess := x[0] - c.ambient
	if c.samples == 0 {
		c.start = excess
		c.t0 = t
	}
	c.samples++
	if !math.IsNaN(c.crossed) || c.start <= 0 {
		return
	}
	if excess <= c.start/math.E {
		c.crossed = t - c.t0
	}
}

func (c *CoolingTime) Value() float64 { return c.crossed }

func (c *CoolingTime) Reset() {
	c.start = 0
	c.t0 = 0
	c.crossed = math.NaN()
	c.samples = 0
}

// Stability is the fraction of observed states that are finite and whose
// temperature lies within [Min, Max].
type Stability struct {
	name       string
	min, max   float64
	violations int
	samples    int
}

func NewStability(min, max float64) *Stability {
	return &Stability{
		name: "stability",
		min:  min,
		max:  max,
	}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(x ode.State, t float64) {
	s.samples++
	if !x.IsValid() || x[0] < s.min || x[0] > s.max {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
