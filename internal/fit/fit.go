// Package fit provides the nonlinear least-squares solver used by spectral
// pyrometry.
package fit

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewPoints = errors.New("fit: fewer observations than parameters")
	ErrDimension    = errors.New("fit: dimension mismatch")
	ErrNoModel      = errors.New("fit: no model function")
)

// Model evaluates the fitted function at x for parameters p. It must not
// retain p and must return a finite value or NaN, never panic.
type Model func(x float64, p []float64) float64

// Problem is one curve fit.
type Problem struct {
	X, Y  []float64
	Sigma []float64 // per-observation standard deviation, used when Weighted

	Model   Model
	Initial []float64

	// Lower and Upper clamp each parameter when non-nil.
	Lower, Upper []float64
	// MaxStep limits the absolute change of each parameter per iteration
	// when non-nil; zero entries are unlimited.
	MaxStep []float64

	Weighted bool
}

func (p *Problem) validate() error {
	n := len(p.Initial)
	if p.Model == nil {
		return ErrNoModel
	}
	if len(p.X) != len(p.Y) {
		return fmt.Errorf("%w: %d x values, %d y values", ErrDimension, len(p.X), len(p.Y))
	}
	if p.Weighted && len(p.Sigma) != len(p.Y) {
		return fmt.Errorf("%w: %d sigmas for %d observations", ErrDimension, len(p.Sigma), len(p.Y))
	}
	for _, b := range [][]float64{p.Lower, p.Upper, p.MaxStep} {
		if b != nil && len(b) != n {
			return fmt.Errorf("%w: bound length %d for %d parameters", ErrDimension, len(b), n)
		}
	}
	if n == 0 || len(p.Y) < n {
		return fmt.Errorf("%w: %d observations, %d parameters", ErrTooFewPoints, len(p.Y), n)
	}
	return nil
}

// Iteration is one row of the fit history:
//
//	[iteration, chi2, p0, dp0, p1, dp1, ..., lambda]
//
// For a temperature fit p0 is the temperature and p1 the scaling factor, so
// slots 2 to 5 hold T, dT, C, dC.
type Iteration []float64

const (
	SlotIteration = 0
	SlotChi2      = 1
	SlotParams    = 2
)

// Param returns parameter i and its uncertainty.
func (it Iteration) Param(i int) (float64, float64) {
	j := SlotParams + 2*i
	if j+1 >= len(it) {
		return 0, 0
	}
	return it[j], it[j+1]
}

func (it Iteration) Chi2() float64 { return it[SlotChi2] }

func (it Iteration) Lambda() float64 { return it[len(it)-1] }

func newIteration(iter int, chi2 float64, p, dp []float64, lambda float64) Iteration {
	row := make(Iteration, 0, SlotParams+2*len(p)+1)
	row = append(row, float64(iter), chi2)
	for i := range p {
		row = append(row, p[i], dp[i])
	}
	return append(row, lambda)
}

type Result struct {
	Params     []float64
	Errors     []float64
	Chi2       float64
	Iterations []Iteration
	Converged  bool
}

// Final returns the last history row.
func (r *Result) Final() Iteration {
	if len(r.Iterations) == 0 {
		return nil
	}
	return r.Iterations[len(r.Iterations)-1]
}

// Solver fits a Problem. Errors are returned only for malformed problems;
// a fit that fails to converge reports Converged false.
type Solver interface {
	Fit(p *Problem) (*Result, error)
}
