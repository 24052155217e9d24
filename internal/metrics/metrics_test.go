package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/liisim/internal/ode"
)

// sphere is a toy particle with energy proportional to (T - 300) d^3.
type sphere struct{}

func (sphere) Diameter(x ode.State) float64 { return x[1] }
func (sphere) Energy(x ode.State) float64   { return (x[0] - 300) * x[1] * x[1] * x[1] }
func (sphere) HeatLoss(T, d float64) float64 { return T - 300 }

func TestPeakTemperature(t *testing.T) {
	m := NewPeakTemperature()
	for i, T := range []float64{3000, 3500, 3200} {
		m.Observe(ode.State{T, 1}, float64(i))
	}
	if m.Value() != 3500 || m.Time() != 1 {
		t.Errorf("peak %g at %g, want 3500 at 1", m.Value(), m.Time())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestCoolingTime(t *testing.T) {
	m := NewCoolingTime(300)
	tau := 2.0
	for i := 0; i <= 100; i++ {
		ti := float64(i) * 0.1
		m.Observe(ode.State{300 + 3000*math.Exp(-ti/tau), 1}, ti)
	}
	if got := m.Value(); math.Abs(got-tau) > 0.1+1e-9 {
		t.Errorf("cooling time %g, want ~%g", got, tau)
	}

	m.Reset()
	m.Observe(ode.State{3000, 1}, 0)
	if !math.IsNaN(m.Value()) {
		t.Errorf("expected NaN before crossing, got %g", m.Value())
	}
}

func TestMassLoss(t *testing.T) {
	m := NewMassLoss(sphere{})
	m.Observe(ode.State{3000, 2}, 0)
	m.Observe(ode.State{3000, 1}, 1)
	if got := m.Value(); math.Abs(got-0.875) > 1e-12 {
		t.Errorf("mass loss %g, want 0.875", got)
	}

	m.Observe(ode.State{3000, -1}, 2)
	if m.Value() != 1 {
		t.Errorf("vanished particle should have lost everything, got %g", m.Value())
	}
}

func TestEnergyLoss(t *testing.T) {
	m := NewEnergyLoss(sphere{})
	m.Observe(ode.State{1300, 1}, 0)
	m.Observe(ode.State{800, 1}, 1)
	if got := m.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("energy loss %g, want 0.5", got)
	}
}

func TestMeanHeatLoss(t *testing.T) {
	m := NewMeanHeatLoss(sphere{})
	m.Observe(ode.State{400, 1}, 0)
	m.Observe(ode.State{600, 1}, 1)
	if m.Value() != 200 {
		t.Errorf("mean heat loss %g, want 200", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(150, 1e4)
	m.Observe(ode.State{3000, 1}, 0)
	m.Observe(ode.State{math.NaN(), 1}, 1)
	m.Observe(ode.State{2e4, 1}, 2)
	m.Observe(ode.State{2000, 1}, 3)
	if m.Value() != 0.5 {
		t.Errorf("stability %g, want 0.5", m.Value())
	}
}

func TestStandard(t *testing.T) {
	ms := Standard(sphere{}, 300)
	seen := map[string]bool{}
	for _, m := range ms {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(ms) != 6 {
		t.Errorf("got %d metrics", len(ms))
	}
}
