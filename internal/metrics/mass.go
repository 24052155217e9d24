package metrics

import (
	"math"

	"github.com/san-kum/liisim/internal/ode"
)

// Sizer maps a state to a particle diameter.
type Sizer interface {
	Diameter(x ode.State) float64
}

// MassLoss is the relative mass lost since the first observation,
// 1 - (d/d0)^3 at constant density.
type MassLoss struct {
	name    string
	sys     Sizer
	d0      float64
	d       float64
	samples int
}

func NewMassLoss(sys Sizer) *MassLoss {
	return &MassLoss{
		name: "mass_loss",
		sys:  sys,
	}
}

func (m *MassLoss) Name() string { return m.name }

func (m *MassLoss) Observe(x ode.State, t float64) {
	d := m.sys.Diameter(x)
	if m.samples == 0 {
		m.d0 = d
	}
	m.d = math.Max(d, 0)
	m.samples++
}

func (m *MassLoss) Value() float64 {
	if m.samples == 0 || !(m.d0 > 0) {
		return 0
	}
	r := m.d / m.d0
	return 1 - r*r*r
}

func (m *MassLoss) Reset() {
	m.d0 = 0
	m.d = 0
	m.samples = 0
}
