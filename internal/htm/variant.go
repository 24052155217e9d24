package htm

import "github.com/san-kum/liisim/internal/property"

// Variant is a concrete heat transfer model. Flux terms are in W and
// positive when the particle loses energy; mass rates are in kg/s and
// negative when the particle loses mass. All methods take the particle
// temperature T in K and diameter d in m and must not mutate the variant.
type Variant interface {
	Bindings() *Base

	// Variables lists the properties the enabled terms read. The density is
	// always required and is added by the availability check.
	Variables() []*property.Value

	Conduction(T, d float64) float64
	Evaporation(T, d float64) float64
	Radiation(T, d float64) float64
	Oxidation(T, d float64) float64

	EvaporationRate(T, d float64) float64
	OxidationRate(T, d float64) float64

	Clone() Variant
}

// Annealer is implemented by variants with an annealing heat term.
type Annealer interface {
	Annealing(T, d float64) float64
}

// ThermionicEmitter is implemented by variants with thermionic cooling.
type ThermionicEmitter interface {
	Thermionic(T, d float64) float64
}
