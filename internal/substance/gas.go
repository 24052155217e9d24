package substance

import (
	"math"

	"github.com/san-kum/liisim/internal/constants"
	"github.com/san-kum/liisim/internal/property"
)

var (
	SchemaGasMolarMass = property.Schema{Name: "molar_mass", Unit: "kg/mol", Description: "molar mass"}
	SchemaGasMolarHeat = property.Schema{Name: "C_p_mol", Unit: "J/(mol K)", Description: "molar heat capacity at constant pressure"}
	SchemaThermCond    = property.Schema{Name: "therm_cond", Unit: "W/(m K)", Description: "thermal conductivity", Optional: true}
)

// Gas is a pure gas species.
type Gas struct {
	Identity

	MolarMass property.Value
	MolarHeat property.Value
	ThermCond property.Value
}

func NewGas(id Identity, records property.Records) (*Gas, error) {
	r := property.NewResolver("gas "+id.Name, records)
	g := &Gas{
		Identity:  id,
		MolarMass: r.Resolve(SchemaGasMolarMass),
		MolarHeat: r.Resolve(SchemaGasMolarHeat),
		ThermCond: r.Resolve(SchemaThermCond),
	}
	return g, r.Err()
}

// Molar returns the molar mass in kg/mol.
func (g *Gas) Molar() float64 {
	return g.MolarMass.Eval(0)
}

// MolarHeatAt returns C_p in J/(mol K).
func (g *Gas) MolarHeatAt(T float64) float64 {
	return g.MolarHeat.Eval(T)
}

// SpecificHeat returns c_p in J/(kg K).
func (g *Gas) SpecificHeat(T float64) float64 {
	M := g.Molar()
	if M <= 0 {
		return 0
	}
	return g.MolarHeatAt(T) / M
}

// HeatCapacityRatio returns gamma = C_p / (C_p - R).
func (g *Gas) HeatCapacityRatio(T float64) float64 {
	return heatCapacityRatio(g.MolarHeatAt(T))
}

// ThermalSpeed returns the mean molecular thermal speed.
func (g *Gas) ThermalSpeed(T float64) float64 {
	return ThermalSpeed(T, g.Molar())
}

// ThermalSpeed is the Maxwell-Boltzmann mean speed
// c_tg = sqrt(8 k_B T N_A / (pi M)).
func ThermalSpeed(T, molarMass float64) float64 {
	if molarMass <= 0 || T <= 0 {
		return 0
	}
	return math.Sqrt(8 * constants.Boltzmann * T * constants.Avogadro / (constants.Pi * molarMass))
}

func heatCapacityRatio(cp float64) float64 {
	cv := cp - constants.GasConstant
	if cv <= 0 {
		return 0
	}
	return cp / cv
}

// EuckenFactor returns f = (9 gamma - 5) / 4.
func EuckenFactor(gamma float64) float64 {
	return (9*gamma - 5) / 4
}
