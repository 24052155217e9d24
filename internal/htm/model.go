package htm

import (
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/san-kum/liisim/internal/constants"
	"github.com/san-kum/liisim/internal/ode"
	"github.com/san-kum/liisim/internal/property"
)

// Model is the particle energy and mass balance of a variant. It implements
// ode.System; Derive is allocation free and safe to call concurrently as
// long as nobody mutates the bindings.
type Model struct {
	v Variant
	b *Base
}

func New(v Variant) *Model {
	return &Model{v: v, b: v.Bindings()}
}

func (m *Model) Variant() Variant { return m.v }

func (m *Model) Base() *Base { return m.b }

func (m *Model) Name() string { return m.b.Name }

func (m *Model) Kind() StateKind { return m.b.Kind }

func (m *Model) Dim() int { return 2 }

func (m *Model) Conduction(T, d float64) float64 {
	if !m.b.Flags.Conduction {
		return 0
	}
	return m.v.Conduction(T, d)
}

func (m *Model) Evaporation(T, d float64) float64 {
	if !m.b.Flags.Evaporation {
		return 0
	}
	return m.v.Evaporation(T, d)
}

func (m *Model) Radiation(T, d float64) float64 {
	if !m.b.Flags.Radiation {
		return 0
	}
	return m.v.Radiation(T, d)
}

func (m *Model) Oxidation(T, d float64) float64 {
	if !m.b.Flags.Oxidation {
		return 0
	}
	return m.v.Oxidation(T, d)
}

func (m *Model) Annealing(T, d float64) float64 {
	if !m.b.Flags.Annealing {
		return 0
	}
	if a, ok := m.v.(Annealer); ok {
		return a.Annealing(T, d)
	}
	return 0
}

func (m *Model) Thermionic(T, d float64) float64 {
	if !m.b.Flags.Thermionic {
		return 0
	}
	if e, ok := m.v.(ThermionicEmitter); ok {
		return e.Thermionic(T, d)
	}
	return 0
}

func (m *Model) EvaporationRate(T, d float64) float64 {
	if !m.b.Flags.Evaporation {
		return 0
	}
	return m.v.EvaporationRate(T, d)
}

func (m *Model) OxidationRate(T, d float64) float64 {
	if !m.b.Flags.Oxidation {
		return 0
	}
	return m.v.OxidationRate(T, d)
}

// HeatLoss is the sum of all enabled flux terms in W.
func (m *Model) HeatLoss(T, d float64) float64 {
	return m.Conduction(T, d) + m.Evaporation(T, d) + m.Radiation(T, d) +
		m.Oxidation(T, d) + m.Annealing(T, d) + m.Thermionic(T, d)
}

// MassRate is dm/dt in kg/s.
func (m *Model) MassRate(T, d float64) float64 {
	return m.EvaporationRate(T, d) + m.OxidationRate(T, d)
}

// Diameter returns the particle diameter for a state of this model's kind.
func (m *Model) Diameter(x ode.State) float64 {
	if m.b.Kind == TemperatureAndMass {
		return m.b.Diameter(x[0], x[1])
	}
	return x[1]
}

// InitialState builds the ODE state for temperature T and diameter d.
func (m *Model) InitialState(T, d float64) ode.State {
	if m.b.Kind == TemperatureAndMass {
		return ode.State{T, m.b.Mass(T, d)}
	}
	return ode.State{T, d}
}

// Derive writes dT/dt and dd/dt (or dm/dt) into dxdt. States without a
// particle (d <= 0, T <= 0 or NaN) have zero derivatives.
func (m *Model) Derive(x, dxdt ode.State, t float64) {
	T := x[0]
	d := m.Diameter(x)
	if !(T > 0) || !(d > 0) {
		dxdt[0], dxdt[1] = 0, 0
		return
	}

	heat := m.b.Mass(T, d) * m.b.Material.SpecificHeat(T)
	dTdt := 0.0
	if heat > 0 {
		dTdt = -m.HeatLoss(T, d) / heat
	}
	dxdt[0] = dTdt

	mdot := m.MassRate(T, d)
	if m.b.Kind == TemperatureAndMass {
		dxdt[1] = mdot
		return
	}
	rho := m.b.Material.Density.Eval(T)
	if rho <= 0 {
		dxdt[1] = 0
		return
	}
	dxdt[1] = 2 * mdot / (constants.Pi * rho * d * d)
}

// Clone returns a model over an independent copy of the variant. Substance
// records stay shared.
func (m *Model) Clone() *Model {
	return New(m.v.Clone())
}

// CloneSystem is Clone for callers that only know ode.System.
func (m *Model) CloneSystem() ode.System {
	return m.Clone()
}

// CheckAvailability reports every reason the model cannot be integrated as
// a single error; multierr.Errors splits it into one error per missing
// property. A variant declaring no variables yields ErrNoVariables alone.
func (m *Model) CheckAvailability() error {
	var errs error
	if m.b.Material == nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrNoMaterial, m.b.Name))
	}
	if m.b.Mixture == nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrNoMixture, m.b.Name))
	}
	if errs != nil {
		return errs
	}

	vars := m.v.Variables()
	if len(vars) == 0 {
		return fmt.Errorf("%w: %s", ErrNoVariables, m.b.Name)
	}
	vars = append(vars, &m.b.Material.Density)

	owner := "model " + m.b.Name
	seen := make(map[*property.Value]struct{}, len(vars))
	for _, v := range vars {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		if !v.Usable {
			errs = multierr.Append(errs, &property.MissingError{Owner: owner, Name: v.Name, InFile: v.InFile})
		}
	}
	errs = multierr.Append(errs, m.b.Mixture.Validate())
	errs = multierr.Append(errs, m.b.Process.Validate())
	return errs
}

// Available is CheckAvailability as a boolean.
func (m *Model) Available() bool {
	return m.CheckAvailability() == nil
}

// Energy returns the particle internal energy relative to the gas
// temperature, m c_p (T - Tg), for drift diagnostics.
func (m *Model) Energy(x ode.State) float64 {
	T := x[0]
	d := m.Diameter(x)
	if !(d > 0) || math.IsNaN(T) {
		return 0
	}
	return m.b.Mass(T, d) * m.b.Material.SpecificHeat(T) * (T - m.b.Process.GasTemperature)
}
