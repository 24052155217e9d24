package htm

import "github.com/san-kum/liisim/internal/property"

// FreeMolecularKnudsen is the Knudsen number above which Liu skips the
// continuum limit and uses the free-molecular flux alone.
const FreeMolecularKnudsen = 100

// Liu covers the transition regime for soot in flames and high-pressure
// cells. Conduction is the harmonic combination of the base free-molecular
// flux and continuum conduction. Evaporation and its mass loss come from the
// base Hertz-Knudsen formulas. Oxidation is not modelled. Thermionic cooling
// uses the Richardson-Dushman equation when enabled.
type Liu struct {
	Base
}

func NewLiu(b Base) *Liu {
	if b.Name == "" {
		b.Name = "Liu"
	}
	if b.Ident == "" {
		b.Ident = "liu"
	}
	if b.Version == "" {
		b.Version = "1.0"
	}
	return &Liu{Base: b}
}

func (l *Liu) Variables() []*property.Value {
	vars := l.commonVariables()
	if l.Flags.Conduction {
		vars = append(vars, l.conductionVariables()...)
		vars = append(vars, l.Mixture.ConductivityVariables()...)
	}
	if l.Flags.Thermionic {
		vars = append(vars, l.thermionicVariables()...)
	}
	return vars
}

// Knudsen returns 2 lambda / d with the gas mean free path at process
// conditions.
func (l *Liu) Knudsen(d float64) float64 {
	if d <= 0 {
		return 0
	}
	return 2 * l.Mixture.MeanFreePathAt(l.Process.GasTemperature, l.Process.Pressure) / d
}

func (l *Liu) Conduction(T, d float64) float64 {
	fm := l.FreeMolecularConduction(T, d)
	if l.Knudsen(d) > FreeMolecularKnudsen {
		return fm
	}
	cont := l.ContinuumConduction(T, d)
	sum := fm + cont
	if sum == 0 {
		return 0
	}
	return fm * cont / sum
}

func (l *Liu) Evaporation(T, d float64) float64 {
	return l.EvaporationHeat(T, d)
}

func (l *Liu) Radiation(T, d float64) float64 {
	return l.StefanBoltzmann(T, d)
}

func (l *Liu) Oxidation(T, d float64) float64 { return 0 }

func (l *Liu) EvaporationRate(T, d float64) float64 {
	return l.HertzKnudsenRate(T, d)
}

func (l *Liu) OxidationRate(T, d float64) float64 { return 0 }

func (l *Liu) Thermionic(T, d float64) float64 {
	return l.RichardsonDushman(T, d)
}

func (l *Liu) Clone() Variant {
	c := *l
	return &c
}
