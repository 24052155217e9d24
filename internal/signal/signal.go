package signal

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmpty     = errors.New("signal: empty signal")
	ErrNoOverlap = errors.New("signal: signals do not overlap in time")
	ErrBadStep   = errors.New("signal: time step must be positive")
)

// Signal is a uniformly sampled time series. Stdev, when present, holds the
// per-sample standard deviation and has the same length as Data.
type Signal struct {
	Start float64
	Dt    float64
	Data  []float64
	Stdev []float64
}

func New(start, dt float64, data []float64) *Signal {
	return &Signal{Start: start, Dt: dt, Data: data}
}

func (s *Signal) Len() int { return len(s.Data) }

func (s *Signal) Time(i int) float64 { return s.Start + float64(i)*s.Dt }

// End is the time of the last sample.
func (s *Signal) End() float64 {
	if len(s.Data) == 0 {
		return s.Start
	}
	return s.Time(len(s.Data) - 1)
}

func (s *Signal) HasStdev() bool { return len(s.Stdev) == len(s.Data) && len(s.Data) > 0 }

// StdevAt returns the standard deviation of sample i, or 0 without one.
func (s *Signal) StdevAt(i int) float64 {
	if !s.HasStdev() {
		return 0
	}
	return s.Stdev[i]
}

func (s *Signal) Clone() *Signal {
	c := &Signal{Start: s.Start, Dt: s.Dt, Data: append([]float64(nil), s.Data...)}
	if s.Stdev != nil {
		c.Stdev = append([]float64(nil), s.Stdev...)
	}
	return c
}

// At linearly interpolates the signal at time t. Times outside
// [Start, End] report false.
func (s *Signal) At(t float64) (float64, bool) {
	v, _, ok := s.interp(t)
	return v, ok
}

func (s *Signal) interp(t float64) (float64, float64, bool) {
	n := len(s.Data)
	if n == 0 || s.Dt <= 0 {
		return 0, 0, false
	}
	pos := (t - s.Start) / s.Dt
	// Tolerate rounding at the edges.
	if pos < -1e-9 || pos > float64(n-1)+1e-9 {
		return 0, 0, false
	}
	i := int(math.Floor(pos))
	if i < 0 {
		i = 0
	}
	if i >= n-1 {
		return s.Data[n-1], s.StdevAt(n - 1), true
	}
	f := pos - float64(i)
	v := s.Data[i] + f*(s.Data[i+1]-s.Data[i])
	sd := 0.0
	if s.HasStdev() {
		sd = s.Stdev[i] + f*(s.Stdev[i+1]-s.Stdev[i])
	}
	return v, sd, true
}

// Resample returns n samples starting at start with step dt, linearly
// interpolated. Samples outside the signal are 0.
func (s *Signal) Resample(start, dt float64, n int) *Signal {
	out := &Signal{Start: start, Dt: dt, Data: make([]float64, n)}
	if s.HasStdev() {
		out.Stdev = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		v, sd, _ := s.interp(start + float64(i)*dt)
		out.Data[i] = v
		if out.Stdev != nil {
			out.Stdev[i] = sd
		}
	}
	return out
}

// Scale multiplies data and stdev by f in place.
func (s *Signal) Scale(f float64) {
	floats.Scale(f, s.Data)
	if s.Stdev != nil {
		floats.Scale(math.Abs(f), s.Stdev)
	}
}

// Peak returns the index and value of the largest sample.
func (s *Signal) Peak() (int, float64) {
	if len(s.Data) == 0 {
		return -1, 0
	}
	i := floats.MaxIdx(s.Data)
	return i, s.Data[i]
}

func (s *Signal) sameBase(o *Signal) bool {
	return s.Start == o.Start && s.Dt == o.Dt && len(s.Data) == len(o.Data)
}

// Align brings signals onto a common timebase: the latest start, the
// coarsest step and the earliest end. Signals already on that timebase are
// returned unchanged; the others are resampled.
func Align(sigs ...*Signal) ([]*Signal, error) {
	if len(sigs) == 0 {
		return nil, ErrEmpty
	}
	start, dt, end := math.Inf(-1), 0.0, math.Inf(1)
	same := true
	for i, s := range sigs {
		if s == nil || len(s.Data) == 0 {
			return nil, fmt.Errorf("%w: index %d", ErrEmpty, i)
		}
		if s.Dt <= 0 {
			return nil, fmt.Errorf("%w: index %d has dt %g", ErrBadStep, i, s.Dt)
		}
		start = math.Max(start, s.Start)
		dt = math.Max(dt, s.Dt)
		end = math.Min(end, s.End())
		if !s.sameBase(sigs[0]) {
			same = false
		}
	}
	if same {
		return sigs, nil
	}
	if end < start {
		return nil, ErrNoOverlap
	}
	n := int(math.Floor((end-start)/dt+1e-9)) + 1
	out := make([]*Signal, len(sigs))
	for i, s := range sigs {
		out[i] = s.Resample(start, dt, n)
	}
	return out, nil
}

// FromSamples resamples values taken at increasing, possibly uneven times
// onto a uniform grid with step dt, by linear interpolation.
func FromSamples(times, values []float64, dt float64) (*Signal, error) {
	if len(times) == 0 || len(times) != len(values) {
		return nil, ErrEmpty
	}
	if !(dt > 0) {
		return nil, ErrBadStep
	}
	start, end := times[0], times[len(times)-1]
	n := int(math.Floor((end-start)/dt+1e-9)) + 1
	out := &Signal{Start: start, Dt: dt, Data: make([]float64, n)}

	j := 0
	for i := range out.Data {
		t := start + float64(i)*dt
		for j < len(times)-2 && times[j+1] < t {
			j++
		}
		if j+1 >= len(times) || times[j+1] == times[j] {
			out.Data[i] = values[j]
			continue
		}
		w := (t - times[j]) / (times[j+1] - times[j])
		w = math.Min(math.Max(w, 0), 1)
		out.Data[i] = values[j] + w*(values[j+1]-values[j])
	}
	return out, nil
}
