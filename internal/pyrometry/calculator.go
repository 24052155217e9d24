package pyrometry

import (
	"github.com/san-kum/liisim/internal/fit"
	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/signal"
	"github.com/san-kum/liisim/internal/substance"
)

const (
	MinTemperature = 300.0
	MaxTemperature = 6000.0

	// EmReferenceTemperature is used for temperature-dependent E(m) entries
	// where the particle temperature is the unknown.
	EmReferenceTemperature = 3000.0
)

// Calculator converts channel signals into temperatures. It holds no state
// between calls and is safe for concurrent use once configured.
type Calculator struct {
	Material *substance.Material
	Source   EmSource
	Solver   fit.Solver
	// Filter weights the bandpass integration when set.
	Filter *signal.Filter

	log  *logger.Logger
	warn *logger.Logger
}

func NewCalculator(m *substance.Material, source EmSource, log *logger.Logger) *Calculator {
	log = log.OrNop()
	return &Calculator{
		Material: m,
		Source:   source,
		Solver:   fit.NewLevenbergMarquardt(),
		log:      log,
		warn:     log.Sampled(),
	}
}

// Sample is the fit outcome of one time sample.
type Sample struct {
	Temperature    float64
	TemperatureErr float64
	Scale          float64
	ScaleErr       float64
	Chi2           float64
	Converged      bool
	Valid          bool
	Iterations     []fit.Iteration
}

// Temperature is a temperature time series in K. Samples that could not be
// evaluated are exactly 0.
type Temperature struct {
	Method string
	Signal *signal.Signal
	// Fits is set for spectral fits, one entry per sample.
	Fits []Sample
	// Calibration holds the per-channel factors of a calibrated fit.
	Calibration []float64
}

func (t *Temperature) Len() int {
	if t == nil || t.Signal == nil {
		return 0
	}
	return t.Signal.Len()
}

// Valid counts the samples that are not the 0 sentinel.
func (t *Temperature) Valid() int {
	n := 0
	if t.Len() == 0 {
		return 0
	}
	for _, v := range t.Signal.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

// clampTemperature maps NaN to the 0 sentinel and saturates everything
// else into the physical bracket.
func clampTemperature(T float64) float64 {
	switch {
	case T != T:
		return 0
	case T < MinTemperature:
		return MinTemperature
	case T > MaxTemperature:
		return MaxTemperature
	}
	return T
}
