// Package optim searches run parameters, e.g. the gas pressure that
// reproduces a measured cooling time.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/liisim/internal/config"
	"github.com/san-kum/liisim/internal/experiment"
	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/substance"
)

var ErrNoResult = errors.New("optim: no grid point produced a finite objective")

// RunFunc simulates one parameter combination and returns its metrics.
type RunFunc func(ctx context.Context, params map[string]float64) (map[string]float64, error)

// Objective scores metrics; lower is better.
type Objective func(metrics map[string]float64) float64

// Minimize scores by the metric itself.
func Minimize(metric string) Objective {
	return func(m map[string]float64) float64 {
		v, ok := m[metric]
		if !ok {
			return math.NaN()
		}
		return v
	}
}

// Match scores by the distance of the metric from target.
func Match(metric string, target float64) Objective {
	return func(m map[string]float64) float64 {
		v, ok := m[metric]
		if !ok {
			return math.NaN()
		}
		return math.Abs(v - target)
	}
}

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every combination and returns the best point together
// with all points in evaluation order. Failed runs are kept with their error
// and never win.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, objective Objective) (Point, []Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Point{}, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := Point{Value: math.Inf(1)}
	var all []Point
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), run, objective, &best, &all); err != nil {
		return Point{}, all, err
	}
	if best.Params == nil {
		return Point{}, all, ErrNoResult
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run RunFunc,
	objective Objective,
	best *Point,
	all *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		p := Point{Params: current, Value: math.NaN()}
		metrics, err := run(ctx, current)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			p.Err = err
		} else {
			p.Value = objective(metrics)
		}
		*all = append(*all, p)

		if p.Err == nil && p.Value < best.Value {
			*best = p
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, run, objective, best, all); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// ExperimentRunner runs base with the grid parameters applied through
// config.SetParam.
func ExperimentRunner(base *config.Config, db *substance.Registry, log *logger.Logger) RunFunc {
	return func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg, db, log)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}
		if err := res.Err(); err != nil {
			return res.Metrics, err
		}
		return res.Metrics, nil
	}
}
