package integrators

import "github.com/san-kum/liisim/internal/ode"

type Euler struct {
	dx ode.State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys ode.System, x ode.State, t, dt float64) ode.State {
	if len(e.dx) != len(x) {
		e.dx = make(ode.State, len(x))
	}
	sys.Derive(x, e.dx, t)
	result := make(ode.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*e.dx[i]
	}
	return result
}
