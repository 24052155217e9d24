package sim

import (
	"errors"

	"github.com/san-kum/liisim/internal/ode"
)

var ErrParticleGone = errors.New("sim: particle evaporated")

type Metric interface {
	Name() string
	Observe(x ode.State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x ode.State, t float64)
}

// Particle is implemented by systems whose state describes a nanoparticle.
type Particle interface {
	Diameter(x ode.State) float64
}

// Cloner is implemented by systems that must not be shared between
// concurrent runs.
type Cloner interface {
	CloneSystem() ode.System
}

type Result struct {
	Times       []float64
	States      []ode.State
	Temperature []float64
	Diameter    []float64
	Metrics     map[string]float64
	Errors      []error
	StepsTaken  int
	// Rejected counts adaptive steps that ended shorter than requested.
	Rejected int
}

// Final returns the last recorded state.
func (r *Result) Final() ode.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

func (r *Result) Err() error {
	return errors.Join(r.Errors...)
}
