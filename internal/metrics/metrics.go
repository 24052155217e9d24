// Package metrics holds scalar summaries observed along an LII cooling run.
package metrics

import "github.com/san-kum/liisim/internal/sim"

// Particle is what the standard metric set needs from a heat transfer model.
type Particle interface {
	Energetic
	HeatLosser
}

// Standard returns the metrics reported for every run. ambient is the gas
// temperature.
func Standard(p Particle, ambient float64) []sim.Metric {
	return []sim.Metric{
		NewPeakTemperature(),
		NewCoolingTime(ambient),
		NewMassLoss(p),
		NewEnergyLoss(p),
		NewMeanHeatLoss(p),
		NewStability(ambient*0.5, 1e4),
	}
}
