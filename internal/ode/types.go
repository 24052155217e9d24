package ode

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is the right-hand side of dx/dt = f(x, t). Derive writes f(x, t)
// into dxdt, which has the same length as x, and must not retain either
// slice.
type System interface {
	Derive(x, dxdt State, t float64)
	Dim() int
}

type Stepper interface {
	Step(sys System, x State, t, dt float64) State
}

type AdaptiveStepper interface {
	Stepper
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, float64, error)
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

// DefaultConfig suits nanosecond-scale LII cooling curves.
func DefaultConfig() Config {
	return Config{
		Dt:            1e-10,
		Duration:      2e-6,
		Tolerance:     1e-6,
		MaxDt:         5e-9,
		MinDt:         1e-15,
		Adaptive:      false,
		ValidateState: true,
	}
}
