package substance

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/liisim/internal/property"
)

// FractionTolerance bounds |sum(x_i) - 1| accepted by Validate.
const FractionTolerance = 1e-6

var (
	ErrEmptyMixture = errors.New("substance: gas mixture has no components")
	ErrFractionSum  = errors.New("substance: mole fractions do not sum to 1")
)

var (
	SchemaMixThermCond    = property.Schema{Name: "therm_cond", Unit: "W/(m K)", Description: "mixture thermal conductivity override", Optional: true}
	SchemaMixMeanFreePath = property.Schema{Name: "L", Unit: "m", Description: "mean free path override at 1 bar", Optional: true}
	SchemaMixGamma        = property.Schema{Name: "gamma", Unit: "-", Description: "heat capacity ratio override", Optional: true}
)

// Component is one gas and its mole fraction within a mixture.
type Component struct {
	Gas      *Gas
	Fraction float64
}

// GasMixture is an ordered list of gases with mole fractions plus optional
// mixture-level override equations.
type GasMixture struct {
	Identity

	// MolarMass is derived from the components and updated on every change.
	MolarMass  float64
	Components []Component

	ThermCond    property.Value
	MeanFreePath property.Value
	Gamma        property.Value
}

// NewGasMixture resolves the optional override equations from records.
// Components are added afterwards with AddGas.
func NewGasMixture(id Identity, records property.Records) *GasMixture {
	r := property.NewResolver("gas mixture "+id.Name, records)
	return &GasMixture{
		Identity:     id,
		ThermCond:    r.Resolve(SchemaMixThermCond),
		MeanFreePath: r.Resolve(SchemaMixMeanFreePath),
		Gamma:        r.Resolve(SchemaMixGamma),
	}
}

// AddGas appends g with mole fraction x.
func (m *GasMixture) AddGas(g *Gas, x float64) {
	m.Components = append(m.Components, Component{Gas: g, Fraction: x})
	m.calculateMolarMass()
}

// RemoveGas drops every component referring to a gas named name and
// reports whether one was found.
func (m *GasMixture) RemoveGas(name string) bool {
	kept := m.Components[:0]
	found := false
	for _, c := range m.Components {
		if c.Gas.Name == name {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	m.Components = kept
	m.calculateMolarMass()
	return found
}

// Uses reports whether the mixture references a gas named name.
func (m *GasMixture) Uses(name string) bool {
	for _, c := range m.Components {
		if c.Gas.Name == name {
			return true
		}
	}
	return false
}

func (m *GasMixture) calculateMolarMass() {
	sum := 0.0
	for _, c := range m.Components {
		sum += c.Fraction * c.Gas.Molar()
	}
	m.MolarMass = sum
}

// FractionSum returns sum(x_i).
func (m *GasMixture) FractionSum() float64 {
	sum := 0.0
	for _, c := range m.Components {
		sum += c.Fraction
	}
	return sum
}

// Validate checks that the mixture has components and that their mole
// fractions sum to one. Fractions are never changed.
func (m *GasMixture) Validate() error {
	if len(m.Components) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyMixture, m.Name)
	}
	if sum := m.FractionSum(); math.Abs(sum-1) > FractionTolerance {
		return fmt.Errorf("%w: %s sums to %.6g", ErrFractionSum, m.Name, sum)
	}
	return nil
}

// Normalize rescales the mole fractions to sum to one.
func (m *GasMixture) Normalize() {
	sum := m.FractionSum()
	if sum <= 0 {
		return
	}
	for i := range m.Components {
		m.Components[i].Fraction /= sum
	}
	m.calculateMolarMass()
}

// MolarHeat returns C_p,mol = sum(x_i * C_p,mol,i(T)).
func (m *GasMixture) MolarHeat(T float64) float64 {
	sum := 0.0
	for _, c := range m.Components {
		sum += c.Fraction * c.Gas.MolarHeatAt(T)
	}
	return sum
}

// SpecificHeat returns c_p = C_p,mol(T) / M.
func (m *GasMixture) SpecificHeat(T float64) float64 {
	if m.MolarMass <= 0 {
		return 0
	}
	return m.MolarHeat(T) / m.MolarMass
}

// HeatCapacityRatio returns the override equation when usable, otherwise
// C_p / (C_p - R).
func (m *GasMixture) HeatCapacityRatio(T float64) float64 {
	if m.Gamma.Usable {
		return m.Gamma.Eval(T)
	}
	return heatCapacityRatio(m.MolarHeat(T))
}

// ThermalSpeed returns the mean molecular speed of the mixture.
func (m *GasMixture) ThermalSpeed(T float64) float64 {
	return ThermalSpeed(T, m.MolarMass)
}

// ThermalConductivity returns the override equation when usable, otherwise
// the mole-fraction weighted sum of the component conductivities.
func (m *GasMixture) ThermalConductivity(T float64) float64 {
	if m.ThermCond.Usable {
		return m.ThermCond.Eval(T)
	}
	sum := 0.0
	for _, c := range m.Components {
		sum += c.Fraction * c.Gas.ThermCond.Eval(T)
	}
	return sum
}

// MeanFreePathAt returns the gas mean free path at temperature T and
// pressure p. The override L is given at 1 bar and scaled by 1/p; otherwise
// the kinetic estimate lambda = 2 k (gamma-1) T / (f p c_tg) with the
// Eucken factor f is used.
func (m *GasMixture) MeanFreePathAt(T, p float64) float64 {
	if p <= 0 {
		return 0
	}
	if m.MeanFreePath.Usable {
		return m.MeanFreePath.Eval(T) * 1e5 / p
	}
	gamma := m.HeatCapacityRatio(T)
	c := m.ThermalSpeed(T)
	f := EuckenFactor(gamma)
	if c <= 0 || f <= 0 {
		return 0
	}
	return 2 * m.ThermalConductivity(T) * (gamma - 1) * T / (f * p * c)
}

// Variables returns the component properties the mixture formulas read.
func (m *GasMixture) Variables() []*property.Value {
	vars := make([]*property.Value, 0, 2*len(m.Components))
	for _, c := range m.Components {
		vars = append(vars, &c.Gas.MolarMass, &c.Gas.MolarHeat)
	}
	return vars
}

// ConductivityVariables returns the properties ThermalConductivity reads.
func (m *GasMixture) ConductivityVariables() []*property.Value {
	if m.ThermCond.Usable {
		return []*property.Value{&m.ThermCond}
	}
	vars := make([]*property.Value, 0, len(m.Components))
	for _, c := range m.Components {
		vars = append(vars, &c.Gas.ThermCond)
	}
	return vars
}

// Clone copies the component list; the referenced gases stay shared.
func (m *GasMixture) Clone() *GasMixture {
	c := *m
	c.Components = append([]Component(nil), m.Components...)
	return &c
}
