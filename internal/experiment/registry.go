package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/liisim/internal/htm"
	"github.com/san-kum/liisim/internal/integrators"
	"github.com/san-kum/liisim/internal/metrics"
	"github.com/san-kum/liisim/internal/ode"
	"github.com/san-kum/liisim/internal/sim"
)

type Registry struct {
	integrators map[string]func(minDt float64) ode.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(float64) ode.Stepper),
	}

	r.integrators["euler"] = func(float64) ode.Stepper { return integrators.NewEuler() }
	r.integrators["rk4"] = func(float64) ode.Stepper { return integrators.NewRK4() }
	r.integrators["rk45"] = func(minDt float64) ode.Stepper {
		s := integrators.NewRK45()
		if minDt > 0 {
			s.WithMinDt(minDt)
		}
		return s
	}

	return r
}

func (r *Registry) GetIntegrator(name string, minDt float64) (ode.Stepper, error) {
	newStepper, err := r.StepperFactory(name, minDt)
	if err != nil {
		return nil, err
	}
	return newStepper(), nil
}

// StepperFactory returns a constructor of fresh steppers for ensembles,
// where every worker needs its own integrator state.
func (r *Registry) StepperFactory(name string, minDt float64) (func() ode.Stepper, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return func() ode.Stepper { return fn(minDt) }, nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListModels() []string {
	return htm.Variants()
}

func (r *Registry) DefaultMetrics(m *htm.Model) []sim.Metric {
	return metrics.Standard(m, m.Base().Process.GasTemperature)
}
