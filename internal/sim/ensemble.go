package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/liisim/internal/ode"
)

// Ensemble runs one system from several initial states concurrently, for
// example a particle size distribution. Every run gets its own clone of the
// system (when it implements Cloner), its own stepper and its own metrics.
type Ensemble struct {
	sys        ode.System
	newStepper func() ode.Stepper
	newMetrics func() []Metric
	limit      int
}

func NewEnsemble(sys ode.System, newStepper func() ode.Stepper, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{
		sys:        sys,
		newStepper: newStepper,
		newMetrics: newMetrics,
		limit:      runtime.GOMAXPROCS(0),
	}
}

// WithLimit bounds the number of concurrent runs.
func (e *Ensemble) WithLimit(n int) *Ensemble {
	if n > 0 {
		e.limit = n
	}
	return e
}

func (e *Ensemble) system() ode.System {
	if c, ok := e.sys.(Cloner); ok {
		return c.CloneSystem()
	}
	return e.sys
}

// Run returns one result per initial state, in order. The first
// configuration error or cancellation stops the remaining runs.
func (e *Ensemble) Run(ctx context.Context, initial []ode.State, cfg ode.Config) ([]*Result, error) {
	results := make([]*Result, len(initial))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i, x0 := range initial {
		i, x0 := i, x0
		g.Go(func() error {
			s := New(e.system(), e.newStepper())
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}
			r, err := s.Run(ctx, x0, cfg)
			results[i] = r
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
