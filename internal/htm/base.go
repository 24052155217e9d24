package htm

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/liisim/internal/constants"
	"github.com/san-kum/liisim/internal/property"
	"github.com/san-kum/liisim/internal/substance"
)

// StateKind selects the second ODE state variable.
type StateKind int

const (
	TemperatureAndDiameter StateKind = iota
	TemperatureAndMass
)

func (k StateKind) String() string {
	switch k {
	case TemperatureAndDiameter:
		return "diameter"
	case TemperatureAndMass:
		return "mass"
	}
	return fmt.Sprintf("StateKind(%d)", int(k))
}

func ParseStateKind(s string) (StateKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "diameter", "d", "temperature_diameter":
		return TemperatureAndDiameter, nil
	case "mass", "m", "temperature_mass":
		return TemperatureAndMass, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStateKind, s)
}

// Process holds the ambient conditions of a measurement.
type Process struct {
	Pressure       float64 // Pa
	GasTemperature float64 // K
}

func (p Process) Validate() error {
	if p.Pressure <= 0 || math.IsNaN(p.Pressure) {
		return fmt.Errorf("%w: pressure %g Pa", ErrInvalidConditions, p.Pressure)
	}
	if p.GasTemperature <= 0 || math.IsNaN(p.GasTemperature) {
		return fmt.Errorf("%w: gas temperature %g K", ErrInvalidConditions, p.GasTemperature)
	}
	return nil
}

// Flags enable the individual flux terms. A disabled term contributes
// exactly zero.
type Flags struct {
	Conduction  bool
	Evaporation bool
	Radiation   bool
	Oxidation   bool
	Annealing   bool
	Thermionic  bool
}

func DefaultFlags() Flags {
	return Flags{Conduction: true, Evaporation: true, Radiation: true}
}

// Base carries what every variant shares: identity, process conditions and
// substance bindings. It also provides the substance-agnostic reference
// formulas variants build on.
type Base struct {
	Ident   string
	Name    string
	Version string

	Process Process
	Kind    StateKind
	Flags   Flags

	Material      *substance.Material
	Spectroscopic *substance.Material
	Mixture       *substance.GasMixture
}

// Bindings lets a variant embedding Base satisfy Variant.
func (b *Base) Bindings() *Base { return b }

// optics returns the material used for radiative properties.
func (b *Base) optics() *substance.Material {
	if b.Spectroscopic != nil {
		return b.Spectroscopic
	}
	return b.Material
}

func (b *Base) Mass(T, d float64) float64 {
	return b.Material.Mass(T, d)
}

func (b *Base) Diameter(T, m float64) float64 {
	return b.Material.Diameter(T, m)
}

// gammaSteps is the number of trapezoid intervals used to average
// 1/(gamma-1) between gas and particle temperature.
const gammaSteps = 16

// meanGammaTerm returns the mean of 1/(gamma(T')-1) over [Tg, T]. It returns
// false when gamma <= 1 anywhere on the interval.
func (b *Base) meanGammaTerm(T, Tg float64) (float64, bool) {
	if math.Abs(T-Tg) < 1e-9 {
		g := b.Mixture.HeatCapacityRatio(Tg)
		if g <= 1 {
			return 0, false
		}
		return 1 / (g - 1), true
	}
	h := (T - Tg) / gammaSteps
	sum := 0.0
	for i := 0; i <= gammaSteps; i++ {
		g := b.Mixture.HeatCapacityRatio(Tg + float64(i)*h)
		if g <= 1 {
			return 0, false
		}
		w := 1.0
		if i == 0 || i == gammaSteps {
			w = 0.5
		}
		sum += w / (g - 1)
	}
	return sum / gammaSteps, true
}

// FreeMolecularConduction is the kinetic-theory conduction loss
//
//	Q = alpha pi d^2 p c_tg(Tg) / (8 Tg) * (g*+1)/(g*-1) * (T - Tg)
//
// where 1/(g*-1) is the mean of 1/(gamma-1) between Tg and T (Eucken
// corrected heat capacity ratio).
func (b *Base) FreeMolecularConduction(T, d float64) float64 {
	Tg := b.Process.GasTemperature
	term, ok := b.meanGammaTerm(T, Tg)
	if !ok || Tg <= 0 {
		return 0
	}
	alpha := b.Material.ThermalAccom.Eval(T)
	c := b.Mixture.ThermalSpeed(Tg)
	return alpha * constants.Pi * d * d * b.Process.Pressure * c / (8 * Tg) * (1 + 2*term) * (T - Tg)
}

// ContinuumConduction is Fourier conduction to the surrounding gas with the
// conductivity evaluated at the mean film temperature.
func (b *Base) ContinuumConduction(T, d float64) float64 {
	Tg := b.Process.GasTemperature
	k := b.Mixture.ThermalConductivity(0.5 * (T + Tg))
	return 2 * constants.Pi * k * d * (T - Tg)
}

// HertzKnudsenRate is the evaporative mass change in kg/s (negative for
// mass loss):
//
//	dm/dt = -pi d^2 theta_e p_v(T) sqrt(M_v / (2 pi R T))
func (b *Base) HertzKnudsenRate(T, d float64) float64 {
	if T <= 0 {
		return 0
	}
	mv := b.Material.VaporMolarMass.Eval(T)
	if mv <= 0 {
		return 0
	}
	theta := b.Material.EvapCoeff.Eval(T)
	pv := b.Material.VaporPressureAt(T)
	return -constants.Pi * d * d * theta * pv * math.Sqrt(mv/(2*constants.Pi*constants.GasConstant*T))
}

// EvaporationHeat converts the Hertz-Knudsen mass flux into a heat loss
// using the evaporation enthalpy per kilogram of vapor.
func (b *Base) EvaporationHeat(T, d float64) float64 {
	mv := b.Material.VaporMolarMass.Eval(T)
	if mv <= 0 {
		return 0
	}
	return -b.Material.EvapEnthalpy.Eval(T) / mv * b.HertzKnudsenRate(T, d)
}

// StefanBoltzmann is the graybody radiation loss pi d^2 eps sigma (T^4 - Tg^4).
func (b *Base) StefanBoltzmann(T, d float64) float64 {
	Tg := b.Process.GasTemperature
	eps := b.optics().Emissivity.Eval(T)
	return constants.Pi * d * d * eps * constants.StefanBoltzmann * (T*T*T*T - Tg*Tg*Tg*Tg)
}

// RichardsonDushman is the heat carried away by thermionic electrons. The
// work function is in eV.
func (b *Base) RichardsonDushman(T, d float64) float64 {
	if T <= 0 {
		return 0
	}
	phi := b.Material.WorkFunction.Eval(T)
	kT := constants.Boltzmann * T / constants.ElementaryCharge
	j := constants.Richardson * T * T * math.Exp(-phi/kT)
	return constants.Pi * d * d * j * (phi + 2*kT)
}

// conductionVariables are the properties read by FreeMolecularConduction.
func (b *Base) conductionVariables() []*property.Value {
	vars := []*property.Value{&b.Material.ThermalAccom}
	if !b.Mixture.Gamma.Usable {
		vars = append(vars, b.Mixture.Variables()...)
	} else {
		for _, c := range b.Mixture.Components {
			vars = append(vars, &c.Gas.MolarMass)
		}
	}
	return vars
}

// evaporationVariables are the properties read by the Hertz-Knudsen terms.
func (b *Base) evaporationVariables() []*property.Value {
	vars := []*property.Value{
		&b.Material.EvapEnthalpy,
		&b.Material.EvapCoeff,
		&b.Material.VaporMolarMass,
	}
	return append(vars, b.Material.VaporPressureVariables()...)
}

func (b *Base) radiationVariables() []*property.Value {
	return []*property.Value{&b.optics().Emissivity}
}

func (b *Base) thermionicVariables() []*property.Value {
	return []*property.Value{&b.Material.WorkFunction}
}

// commonVariables returns the heat capacity properties plus the variables of
// the base terms selected by the enabled flags.
func (b *Base) commonVariables() []*property.Value {
	vars := b.Material.HeatCapacityVariables()
	if b.Flags.Evaporation {
		vars = append(vars, b.evaporationVariables()...)
	}
	if b.Flags.Radiation {
		vars = append(vars, b.radiationVariables()...)
	}
	return vars
}
