package metrics

import (
	"math"

	"github.com/san-kum/liisim/internal/ode"
)

// Energetic reports the internal energy held in a state.
type Energetic interface {
	Energy(x ode.State) float64
}

// EnergyLoss is the fraction of the initial excess energy that has left the
// particle, 1 - E(t)/E(0).
type EnergyLoss struct {
	name    string
	sys     Energetic
	initial float64
	current float64
	samples int
}

func NewEnergyLoss(sys Energetic) *EnergyLoss {
	return &EnergyLoss{
		name: "energy_loss",
		sys:  sys,
	}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(x ode.State, t float64) {
	energy := e.sys.Energy(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.samples == 0 || e.initial == 0 {
		return 0
	}
	return 1 - e.current/e.initial
}

func (e *EnergyLoss) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}

// HeatLosser exposes the total heat flux of a particle model.
type HeatLosser interface {
	HeatLoss(T, d float64) float64
	Diameter(x ode.State) float64
}

// MeanHeatLoss averages the total heat loss in W over observed states.
type MeanHeatLoss struct {
	name    string
	sys     HeatLosser
	sum     float64
	samples int
}

func NewMeanHeatLoss(sys HeatLosser) *MeanHeatLoss {
	return &MeanHeatLoss{
		name: "mean_heat_loss",
		sys:  sys,
	}
}

func (h *MeanHeatLoss) Name() string { return h.name }

func (h *MeanHeatLoss) Observe(x ode.State, t float64) {
	q := h.sys.HeatLoss(x[0], h.sys.Diameter(x))
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return
	}
	h.sum += q
	h.samples++
}

func (h *MeanHeatLoss) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return h.sum / float64(h.samples)
}

func (h *MeanHeatLoss) Reset() {
	h.sum = 0
	h.samples = 0
}
