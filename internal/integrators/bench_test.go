package integrators

import (
	"testing"

	"github.com/san-kum/liisim/internal/ode"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	dyn := &oscillator{}
	x := ode.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn := &oscillator{}
	x := ode.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45()
	dyn := &oscillator{}
	x := ode.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkRK45_Adaptive(b *testing.B) {
	integrator := NewRK45()
	dyn := &newtonCooling{k: 5e6, ambient: 300}
	x := ode.State{3500}
	dt := 1e-9

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _, dt, _ = integrator.StepAdaptive(dyn, x, 0, dt, 1e-6)
		if x[0] < 301 {
			x[0] = 3500
		}
	}
}
