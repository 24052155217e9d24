package integrators

import (
	"math"

	"github.com/san-kum/liisim/internal/ode"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// maxRejects bounds the retries of one adaptive step.
const maxRejects = 50

type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
	minDt    float64

	k1, k2, k3, k4, k5, k6, k7 ode.State
	scratch                    ode.State
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		minDt:    1e-18,
	}
}

// WithMinDt sets the step size below which StepAdaptive gives up.
func (r *RK45) WithMinDt(minDt float64) *RK45 {
	r.minDt = minDt
	return r
}

func (r *RK45) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(ode.State, n)
		r.k2 = make(ode.State, n)
		r.k3 = make(ode.State, n)
		r.k4 = make(ode.State, n)
		r.k5 = make(ode.State, n)
		r.k6 = make(ode.State, n)
		r.k7 = make(ode.State, n)
		r.scratch = make(ode.State, n)
	}
}

func (r *RK45) Step(sys ode.System, x ode.State, t, dt float64) ode.State {
	xNew, _ := r.attempt(sys, x, t, dt, 1e-6)
	return xNew
}

// StepAdaptive advances x by at most dt, shrinking the step until the
// local error estimate is within tol. It returns the new state, the step
// actually taken, and the suggested next step.
func (r *RK45) StepAdaptive(sys ode.System, x ode.State, t, dt, tol float64) (ode.State, float64, float64, error) {
	for i := 0; i < maxRejects; i++ {
		xNew, errRatio := r.attempt(sys, x, t, dt, tol)

		if errRatio <= 1 && xNew.IsValid() {
			scale := r.maxScale
			if errRatio > 0 {
				scale = math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
			}
			return xNew, dt, dt * scale, nil
		}

		scale := r.minScale
		if errRatio > 0 && !math.IsInf(errRatio, 0) && !math.IsNaN(errRatio) {
			scale = math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		}
		dt *= scale
		if dt < r.minDt {
			break
		}
	}
	return x.Clone(), 0, dt, ode.ErrStepTooSmall
}

func (r *RK45) attempt(sys ode.System, x ode.State, t, dt, tol float64) (ode.State, float64) {
	n := len(x)
	r.ensureScratch(n)
	s := r.scratch

	sys.Derive(x, r.k1, t)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*b21*r.k1[i]
	}
	sys.Derive(s, r.k2, t+a2*dt)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b31*r.k1[i]+b32*r.k2[i])
	}
	sys.Derive(s, r.k3, t+a3*dt)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b41*r.k1[i]+b42*r.k2[i]+b43*r.k3[i])
	}
	sys.Derive(s, r.k4, t+a4*dt)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b51*r.k1[i]+b52*r.k2[i]+b53*r.k3[i]+b54*r.k4[i])
	}
	sys.Derive(s, r.k5, t+a5*dt)

	for i := 0; i < n; i++ {
		s[i] = x[i] + dt*(b61*r.k1[i]+b62*r.k2[i]+b63*r.k3[i]+b64*r.k4[i]+b65*r.k5[i])
	}
	sys.Derive(s, r.k6, t+dt)

	xNew := make(ode.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*r.k1[i]+c3*r.k3[i]+c4*r.k4[i]+c5*r.k5[i]+c6*r.k6[i])
	}

	sys.Derive(xNew, r.k7, t+dt)

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*r.k1[i] + dc3*r.k3[i] + dc4*r.k4[i] + dc5*r.k5[i] + dc6*r.k6[i] + dc7*r.k7[i])
		scale := math.Abs(x[i]) + math.Abs(dt*r.k1[i]) + 1e-30
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	return xNew, errMax / tol
}
