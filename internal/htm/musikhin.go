package htm

import (
	"github.com/san-kum/liisim/internal/constants"
	"github.com/san-kum/liisim/internal/property"
)

// Musikhin is the reference model for soot and metal particles in inert gas.
//
// Conduction is free-molecular with the heat capacity ratio taken at the gas
// temperature instead of averaged over the boundary layer. Mass loss is not
// modelled: evaporation heat and both mass rates are zero, so the vapor
// properties are not required. Radiation is the base Stefan-Boltzmann term.
type Musikhin struct {
	Base
}

func NewMusikhin(b Base) *Musikhin {
	if b.Name == "" {
		b.Name = "Musikhin"
	}
	if b.Ident == "" {
		b.Ident = "musikhin"
	}
	if b.Version == "" {
		b.Version = "1.0"
	}
	return &Musikhin{Base: b}
}

func (m *Musikhin) Variables() []*property.Value {
	vars := m.Material.HeatCapacityVariables()
	if m.Flags.Radiation {
		vars = append(vars, m.radiationVariables()...)
	}
	if m.Flags.Conduction {
		vars = append(vars, m.conductionVariables()...)
	}
	return vars
}

// Conduction: Q = alpha pi d^2 p c_tg(Tg) / 8 * (g+1)/(g-1) * (T/Tg - 1).
func (m *Musikhin) Conduction(T, d float64) float64 {
	Tg := m.Process.GasTemperature
	g := m.Mixture.HeatCapacityRatio(Tg)
	if g <= 1 || Tg <= 0 {
		return 0
	}
	alpha := m.Material.ThermalAccom.Eval(T)
	c := m.Mixture.ThermalSpeed(Tg)
	return alpha * constants.Pi * d * d * m.Process.Pressure * c / 8 * (g + 1) / (g - 1) * (T/Tg - 1)
}

func (m *Musikhin) Evaporation(T, d float64) float64 { return 0 }

func (m *Musikhin) Radiation(T, d float64) float64 {
	return m.StefanBoltzmann(T, d)
}

func (m *Musikhin) Oxidation(T, d float64) float64 { return 0 }

func (m *Musikhin) EvaporationRate(T, d float64) float64 { return 0 }

func (m *Musikhin) OxidationRate(T, d float64) float64 { return 0 }

func (m *Musikhin) Clone() Variant {
	c := *m
	return &c
}
