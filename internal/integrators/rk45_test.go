package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/liisim/internal/ode"
)

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &oscillator{}
	x0 := ode.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	finalEnergy := dyn.Energy(x)
	drift := math.Abs(finalEnergy-initialEnergy) / initialEnergy

	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &oscillator{}
	x0 := ode.State{1.0, 0.0}

	x, used, next, err := integrator.StepAdaptive(dyn, x0, 0, 0.1, 1e-8)
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if used <= 0 || used > 0.1 {
		t.Errorf("StepAdaptive used invalid dt: %g", used)
	}
	if next <= 0 {
		t.Errorf("StepAdaptive suggested invalid dt: %g", next)
	}
	if math.Abs(x[0]-math.Cos(used)) > 1e-7 {
		t.Errorf("x = %v, want %v", x[0], math.Cos(used))
	}
}

func TestRK45_AdaptiveShrinksOnStiffCooling(t *testing.T) {
	integrator := NewRK45()
	dyn := &newtonCooling{k: 1e9, ambient: 300}

	_, used, _, err := integrator.StepAdaptive(dyn, ode.State{3000}, 0, 1e-6, 1e-6)
	if err != nil {
		t.Fatalf("StepAdaptive: %v", err)
	}
	if used >= 1e-6 {
		t.Errorf("expected step to shrink, used %g", used)
	}
}

type blowUp struct{}

func (b *blowUp) Dim() int { return 1 }
func (b *blowUp) Derive(x, dxdt ode.State, t float64) {
	dxdt[0] = math.NaN()
}

func TestRK45_StepTooSmall(t *testing.T) {
	integrator := NewRK45().WithMinDt(1e-3)
	x0 := ode.State{1}

	x, used, _, err := integrator.StepAdaptive(&blowUp{}, x0, 0, 0.1, 1e-6)
	if !errors.Is(err, ode.ErrStepTooSmall) {
		t.Fatalf("expected ErrStepTooSmall, got %v", err)
	}
	if used != 0 || x[0] != 1 {
		t.Errorf("failed step must leave state unchanged: x=%v used=%g", x, used)
	}
}
