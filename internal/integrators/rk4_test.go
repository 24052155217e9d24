package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/liisim/internal/ode"
)

type oscillator struct{}

func (o *oscillator) Dim() int { return 2 }

func (o *oscillator) Derive(x, dxdt ode.State, t float64) {
	dxdt[0] = x[1]
	dxdt[1] = -x[0]
}

func (o *oscillator) Energy(x ode.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

// newtonCooling is dT/dt = -k (T - Ta), the shape of a conduction-dominated
// LII cooling curve.
type newtonCooling struct {
	k, ambient float64
}

func (n *newtonCooling) Dim() int { return 1 }

func (n *newtonCooling) Derive(x, dxdt ode.State, t float64) {
	dxdt[0] = -n.k * (x[0] - n.ambient)
}

func (n *newtonCooling) exact(T0, t float64) float64 {
	return n.ambient + (T0-n.ambient)*math.Exp(-n.k*t)
}

func TestRK4Accuracy(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	x := ode.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestCoolingCurve(t *testing.T) {
	dyn := &newtonCooling{k: 5e6, ambient: 300}
	dt := 1e-9
	steps := 400

	tests := []struct {
		name  string
		step  func(ode.System, ode.State, float64, float64) ode.State
		tol   float64
	}{
		{"euler", NewEuler().Step, 5.0},
		{"rk4", NewRK4().Step, 1e-6},
		{"rk45", NewRK45().Step, 1e-6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := ode.State{3500}
			for i := 0; i < steps; i++ {
				x = tt.step(dyn, x, float64(i)*dt, dt)
			}
			want := dyn.exact(3500, float64(steps)*dt)
			if math.Abs(x[0]-want) > tt.tol {
				t.Errorf("T = %.6f, want %.6f", x[0], want)
			}
		})
	}
}
