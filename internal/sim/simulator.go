package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/liisim/internal/ode"
)

type Simulator struct {
	sys       ode.System
	stepper   ode.Stepper
	metrics   []Metric
	observers []Observer
}

func New(sys ode.System, stepper ode.Stepper) *Simulator {
	return &Simulator{
		sys:       sys,
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) System() ode.System { return s.sys }

func (s *Simulator) diameter(x ode.State) float64 {
	if p, ok := s.sys.(Particle); ok {
		return p.Diameter(x)
	}
	return math.NaN()
}

func (s *Simulator) record(r *Result, x ode.State, t float64) {
	r.States = append(r.States, x.Clone())
	r.Times = append(r.Times, t)
	r.Temperature = append(r.Temperature, x[0])
	r.Diameter = append(r.Diameter, s.diameter(x))
}

// Run integrates from x0 over cfg.Duration. Numerical failures and particle
// loss end the run early and are recorded in Result.Errors; the returned
// error is reserved for bad configuration and cancellation.
func (s *Simulator) Run(ctx context.Context, x0 ode.State, cfg ode.Config) (*Result, error) {
	if err := s.validateConfig(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		States:  make([]ode.State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt
	s.record(result, x, t)

	_, particle := s.sys.(Particle)

	for i := 0; t < cfg.Duration*(1-1e-12); i++ {
		if !cfg.Adaptive && i >= steps {
			break
		}
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		var newX ode.State
		used := dt
		if cfg.Adaptive {
			h := math.Min(dt, cfg.Duration-t)
			var next float64
			var err error
			newX, used, next, err = s.adaptiveStep(x, t, h, cfg)
			if err != nil {
				result.Errors = append(result.Errors, &ode.StepError{Step: i, Time: t, State: x.Clone(), Wrapped: err})
				break
			}
			if used < h {
				result.Rejected++
			}
			dt = next
			if cfg.MaxDt > 0 {
				dt = math.Min(dt, cfg.MaxDt)
			}
		} else {
			newX = s.stepper.Step(s.sys, x, t, dt)
		}

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, &ode.StepError{Step: i, Time: t, State: x.Clone(), Wrapped: ode.ErrInvalidState})
			break
		}

		x = newX
		t += used
		result.StepsTaken++
		s.record(result, x, t)

		if particle && !(s.diameter(x) > 0) {
			result.Errors = append(result.Errors, &ode.StepError{Step: i, Time: t, State: x.Clone(), Wrapped: ErrParticleGone})
			break
		}
	}

	for _, m := range s.metrics {
		m.Observe(x, t)
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(x0 ode.State, cfg ode.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	if len(x0) != s.sys.Dim() {
		return fmt.Errorf("%w: state has %d values, system %d", ode.ErrDimensionMismatch, len(x0), s.sys.Dim())
	}
	return nil
}

// adaptiveStep uses the stepper's own error control when it has one and
// step doubling otherwise. It returns the new state, the step taken and the
// suggested next step.
func (s *Simulator) adaptiveStep(x ode.State, t, dt float64, cfg ode.Config) (ode.State, float64, float64, error) {
	if adaptive, ok := s.stepper.(ode.AdaptiveStepper); ok {
		return adaptive.StepAdaptive(s.sys, x, t, dt, cfg.Tolerance)
	}

	for {
		x1 := s.stepper.Step(s.sys, x, t, dt)
		xHalf := s.stepper.Step(s.sys, x, t, dt/2)
		x2 := s.stepper.Step(s.sys, xHalf, t+dt/2, dt/2)

		scale := x.Norm() + 1e-30
		err := x1.Sub(x2).Norm() / scale

		if (err > cfg.Tolerance || math.IsNaN(err)) && dt/2 > cfg.MinDt {
			dt /= 2
			continue
		}
		if math.IsNaN(err) {
			return x, 0, dt, ode.ErrStepTooSmall
		}

		next := dt
		if err < cfg.Tolerance/10 {
			next = dt * 2
		}
		return x2, dt, next, nil
	}
}

// RunWithCallback streams states to callback without recording them. The
// callback may stop the run by returning false. States handed to callback
// are recycled after it returns.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 ode.State, cfg ode.Config, callback func(ode.State, float64) bool) error {
	if err := s.validateConfig(x0, cfg); err != nil {
		return err
	}

	pool := NewStatePool(len(x0))
	x := pool.GetAndCopy(x0)
	t := 0.0
	dt := cfg.Dt

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		next := s.stepper.Step(s.sys, x, t, dt)
		pool.Put(x)
		x = pool.GetAndCopy(next)
		t += dt

		if cfg.ValidateState && !x.IsValid() {
			return &ode.StepError{Time: t, State: x.Clone(), Wrapped: ode.ErrInvalidState}
		}
	}

	return nil
}
