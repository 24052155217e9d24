package substance

import (
	"math"

	"github.com/san-kum/liisim/internal/constants"
	"github.com/san-kum/liisim/internal/property"
)

// Material property schema. Names follow the database files.
var (
	SchemaDensity          = property.Schema{Name: "rho_p", Unit: "kg/m^3", Description: "particle density"}
	SchemaMolarMass        = property.Schema{Name: "molar_mass", Unit: "kg/mol", Description: "molar mass of the particle material"}
	SchemaHeatCapacity     = property.Schema{Name: "c_p_kg", Unit: "J/(kg K)", Description: "specific heat capacity"}
	SchemaMolarHeat        = property.Schema{Name: "C_p_mol", Unit: "J/(mol K)", Description: "molar heat capacity", Optional: true}
	SchemaEvapEnthalpy     = property.Schema{Name: "H_v", Unit: "J/mol", Description: "evaporation enthalpy"}
	SchemaThermalAccom     = property.Schema{Name: "alpha_T_eff", Unit: "-", Description: "thermal accommodation coefficient"}
	SchemaEvapCoefficient  = property.Schema{Name: "theta_e", Unit: "-", Description: "evaporation coefficient"}
	SchemaEmissivity       = property.Schema{Name: "eps", Unit: "-", Description: "total emissivity"}
	SchemaVaporPressure    = property.Schema{Name: "p_v", Unit: "Pa", Description: "vapor pressure", Optional: true}
	SchemaVaporRefPressure = property.Schema{Name: "p_v_ref", Unit: "Pa", Description: "Clausius-Clapeyron reference pressure", Optional: true}
	SchemaVaporRefTemp     = property.Schema{Name: "T_v_ref", Unit: "K", Description: "Clausius-Clapeyron reference temperature", Optional: true}
	SchemaVaporMolarMass   = property.Schema{Name: "molar_mass_v", Unit: "kg/mol", Description: "molar mass of evaporated species"}
	SchemaEm               = property.Schema{Name: "Em", Unit: "-", Description: "absorption function E(m) per wavelength", Optional: true}
	SchemaEmFunc           = property.Schema{Name: "Em_func", Unit: "-", Description: "absorption function E(m) over wavelength in nm", Optional: true}
	SchemaPlasmaFrequency  = property.Schema{Name: "omega_p", Unit: "rad/s", Description: "Drude plasma frequency", Optional: true}
	SchemaRelaxationTime   = property.Schema{Name: "tau", Unit: "s", Description: "Drude relaxation time", Optional: true}
	SchemaWorkFunction     = property.Schema{Name: "phi", Unit: "eV", Description: "work function", Optional: true}
)

// Material is a particle substance.
type Material struct {
	Identity

	Density        property.Value
	MolarMass      property.Value
	HeatCapacity   property.Value
	MolarHeat      property.Value
	EvapEnthalpy   property.Value
	ThermalAccom   property.Value
	EvapCoeff      property.Value
	Emissivity     property.Value
	VaporPressure  property.Value
	VaporRefP      property.Value
	VaporRefT      property.Value
	VaporMolarMass property.Value

	Em              *property.Optical
	EmFunc          property.Value
	PlasmaFrequency property.Value
	RelaxationTime  property.Value
	WorkFunction    property.Value
}

// NewMaterial resolves the material schema against records. The material is
// always returned; the error lists every mandatory property that is missing
// so the loader can report them together.
func NewMaterial(id Identity, records property.Records) (*Material, error) {
	r := property.NewResolver("material "+id.Name, records)
	m := &Material{
		Identity:        id,
		Density:         r.Resolve(SchemaDensity),
		MolarMass:       r.Resolve(SchemaMolarMass),
		HeatCapacity:    r.Resolve(SchemaHeatCapacity),
		MolarHeat:       r.Resolve(SchemaMolarHeat),
		EvapEnthalpy:    r.Resolve(SchemaEvapEnthalpy),
		ThermalAccom:    r.Resolve(SchemaThermalAccom),
		EvapCoeff:       r.Resolve(SchemaEvapCoefficient),
		Emissivity:      r.Resolve(SchemaEmissivity),
		VaporPressure:   r.Resolve(SchemaVaporPressure),
		VaporRefP:       r.Resolve(SchemaVaporRefPressure),
		VaporRefT:       r.Resolve(SchemaVaporRefTemp),
		VaporMolarMass:  r.Resolve(SchemaVaporMolarMass),
		Em:              r.Optical(SchemaEm),
		EmFunc:          r.Resolve(SchemaEmFunc),
		PlasmaFrequency: r.Resolve(SchemaPlasmaFrequency),
		RelaxationTime:  r.Resolve(SchemaRelaxationTime),
		WorkFunction:    r.Resolve(SchemaWorkFunction),
	}
	return m, r.Err()
}

// Mass returns the particle mass for diameter d at temperature T:
// m = pi/6 * rho(T) * d^3.
func (m *Material) Mass(T, d float64) float64 {
	return constants.Pi / 6 * m.Density.Eval(T) * d * d * d
}

// Diameter is the inverse of Mass: d = cbrt(6m / (pi * rho(T))).
func (m *Material) Diameter(T, mass float64) float64 {
	rho := m.Density.Eval(T)
	if rho <= 0 {
		return 0
	}
	return math.Cbrt(6 * mass / (constants.Pi * rho))
}

// SpecificHeat returns c_p in J/(kg K), preferring the direct c_p_kg
// equation and falling back to C_p_mol / M.
func (m *Material) SpecificHeat(T float64) float64 {
	if m.HeatCapacity.Usable {
		return m.HeatCapacity.Eval(T)
	}
	M := m.MolarMass.Eval(T)
	if !m.MolarHeat.Usable || M <= 0 {
		return 0
	}
	return m.MolarHeat.Eval(T) / M
}

// HeatCapacityVariables returns the properties SpecificHeat depends on.
func (m *Material) HeatCapacityVariables() []*property.Value {
	if m.HeatCapacity.Usable || !m.MolarHeat.Usable {
		return []*property.Value{&m.HeatCapacity}
	}
	return []*property.Value{&m.MolarHeat, &m.MolarMass}
}

// VaporPressureAt returns the saturation vapor pressure in Pa. An explicit
// p_v equation wins; otherwise the Clausius-Clapeyron relation is used from
// the reference point. Without either the result is 0, which the
// availability check reports as a configuration error.
func (m *Material) VaporPressureAt(T float64) float64 {
	if m.VaporPressure.Usable {
		return m.VaporPressure.Eval(T)
	}
	if m.VaporRefP.Usable && m.VaporRefT.Usable && m.EvapEnthalpy.Usable {
		pRef := m.VaporRefP.Eval(T)
		tRef := m.VaporRefT.Eval(T)
		return pRef * math.Exp(-m.EvapEnthalpy.Eval(T)/constants.GasConstant*(1/T-1/tRef))
	}
	return 0
}

// VaporPressureVariables returns the properties VaporPressureAt depends on.
func (m *Material) VaporPressureVariables() []*property.Value {
	if m.VaporPressure.Usable {
		return []*property.Value{&m.VaporPressure}
	}
	return []*property.Value{&m.VaporRefP, &m.VaporRefT, &m.EvapEnthalpy}
}

// Clone returns a copy whose optical table is independent of m.
func (m *Material) Clone() *Material {
	c := *m
	if m.Em != nil {
		em := property.NewOptical(m.Em.Name, m.Em.Unit, m.Em.Description)
		for wl, v := range m.Em.Values {
			em.Set(wl, v)
		}
		c.Em = em
	}
	return &c
}
