package fit

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LevenbergMarquardt is a damped Gauss-Newton solver with a forward
// difference Jacobian.
type LevenbergMarquardt struct {
	MaxIter   int
	Tolerance float64 // relative chi2 decrease that counts as converged
	Lambda    float64 // initial damping
	MaxLambda float64
	RelStep   float64 // relative Jacobian step
}

func NewLevenbergMarquardt() *LevenbergMarquardt {
	return &LevenbergMarquardt{
		MaxIter:   100,
		Tolerance: 1e-10,
		Lambda:    1e-3,
		MaxLambda: 1e12,
		RelStep:   1e-7,
	}
}

type lmState struct {
	prob *Problem
	sw   []float64 // sqrt of weights
	jac  *mat.Dense
	res  *mat.VecDense
	step float64
}

func (s *lmState) residuals(p []float64, r *mat.VecDense) float64 {
	chi2 := 0.0
	for i, x := range s.prob.X {
		v := (s.prob.Y[i] - s.prob.Model(x, p)) * s.sw[i]
		r.SetVec(i, v)
		chi2 += v * v
	}
	return chi2
}

func (s *lmState) jacobian(p []float64) {
	q := append([]float64(nil), p...)
	for j := range p {
		h := s.step * math.Abs(p[j])
		if h == 0 {
			h = s.step
		}
		q[j] = p[j] + h
		for i, x := range s.prob.X {
			d := (s.prob.Model(x, q) - s.prob.Model(x, p)) / h
			if math.IsNaN(d) || math.IsInf(d, 0) {
				d = 0
			}
			s.jac.Set(i, j, d*s.sw[i])
		}
		q[j] = p[j]
	}
}

// uncertainties returns sqrt(diag((J^T J)^-1)), scaled by the reduced chi2
// when the fit is unweighted.
func (s *lmState) uncertainties(chi2 float64) []float64 {
	m, n := s.jac.Dims()
	out := make([]float64, n)
	var a, inv mat.Dense
	a.Mul(s.jac.T(), s.jac)
	if err := inv.Inverse(&a); !solved(err) || inv.IsEmpty() || !finite(inv.RawMatrix().Data) {
		return out
	}
	scale := 1.0
	if !s.prob.Weighted && m > n {
		scale = chi2 / float64(m-n)
	}
	for j := 0; j < n; j++ {
		if v := inv.At(j, j) * scale; v > 0 {
			out[j] = math.Sqrt(v)
		}
	}
	return out
}

func (lm *LevenbergMarquardt) Fit(prob *Problem) (*Result, error) {
	if err := prob.validate(); err != nil {
		return nil, err
	}
	m, n := len(prob.Y), len(prob.Initial)

	s := &lmState{
		prob: prob,
		sw:   make([]float64, m),
		jac:  mat.NewDense(m, n, nil),
		res:  mat.NewVecDense(m, nil),
		step: lm.RelStep,
	}
	for i := range s.sw {
		s.sw[i] = 1
		if prob.Weighted && prob.Sigma[i] > 0 {
			s.sw[i] = 1 / prob.Sigma[i]
		}
	}

	p := append([]float64(nil), prob.Initial...)
	clampParams(p, prob.Lower, prob.Upper)
	chi2 := s.residuals(p, s.res)
	s.jacobian(p)

	lambda := lm.Lambda
	res := &Result{}
	res.Iterations = append(res.Iterations, newIteration(0, chi2, p, s.uncertainties(chi2), lambda))

	var (
		a     mat.Dense
		g     mat.VecDense
		delta mat.VecDense
	)
	trial := make([]float64, n)
	trialRes := mat.NewVecDense(m, nil)
	damped := mat.NewDense(n, n, nil)

	for iter := 1; iter <= lm.MaxIter && !math.IsNaN(chi2); iter++ {
		if chi2 == 0 {
			res.Converged = true
			break
		}
		a.Mul(s.jac.T(), s.jac)
		g.MulVec(s.jac.T(), s.res)

		damped.Copy(&a)
		for j := 0; j < n; j++ {
			d := a.At(j, j)
			if d == 0 {
				d = 1
			}
			damped.Set(j, j, a.At(j, j)+lambda*d)
		}
		err := delta.SolveVec(damped, &g)
		if !solved(err) || delta.Len() != n || !finite(delta.RawVector().Data) {
			lambda *= 10
			if lambda > lm.MaxLambda {
				break
			}
			continue
		}

		small := true
		for j := 0; j < n; j++ {
			dj := delta.AtVec(j)
			if prob.MaxStep != nil && prob.MaxStep[j] > 0 && math.Abs(dj) > prob.MaxStep[j] {
				dj = math.Copysign(prob.MaxStep[j], dj)
			}
			trial[j] = p[j] + dj
			if math.Abs(dj) > lm.Tolerance*math.Max(math.Abs(p[j]), 1e-30) {
				small = false
			}
		}
		clampParams(trial, prob.Lower, prob.Upper)

		trialChi2 := s.residuals(trial, trialRes)
		if !(trialChi2 < chi2) {
			lambda *= 10
			if lambda > lm.MaxLambda {
				// No downhill step left: p is a minimum within precision.
				res.Converged = true
				break
			}
			continue
		}

		decrease := (chi2 - trialChi2) / chi2
		copy(p, trial)
		s.res.CopyVec(trialRes)
		chi2 = trialChi2
		s.jacobian(p)
		lambda = math.Max(lambda/10, 1e-15)

		res.Iterations = append(res.Iterations, newIteration(iter, chi2, p, s.uncertainties(chi2), lambda))
		if decrease < lm.Tolerance || small {
			res.Converged = true
			break
		}
	}

	final := res.Final()
	res.Params = make([]float64, n)
	res.Errors = make([]float64, n)
	for j := 0; j < n; j++ {
		res.Params[j], res.Errors[j] = final.Param(j)
	}
	res.Chi2 = final.Chi2()
	return res, nil
}

func clampParams(p, lower, upper []float64) {
	for j := range p {
		if lower != nil && p[j] < lower[j] {
			p[j] = lower[j]
		}
		if upper != nil && p[j] > upper[j] {
			p[j] = upper[j]
		}
	}
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// solved accepts ill-conditioned but completed solves.
func solved(err error) bool {
	if err == nil {
		return true
	}
	var c mat.Condition
	return errors.As(err, &c) && !math.IsInf(float64(c), 1)
}
