// Package experiment wires a run configuration to the substance database,
// a heat transfer model and the simulator.
package experiment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/san-kum/liisim/internal/config"
	"github.com/san-kum/liisim/internal/fit"
	"github.com/san-kum/liisim/internal/htm"
	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/ode"
	"github.com/san-kum/liisim/internal/pyrometry"
	"github.com/san-kum/liisim/internal/sim"
	"github.com/san-kum/liisim/internal/substance"
)

var ErrNotSetup = errors.New("experiment not setup")

type Experiment struct {
	cfg       *config.Config
	db        *substance.Registry
	registry  *Registry
	log       *logger.Logger
	model      *htm.Model
	simulator  *sim.Simulator
	newStepper func() ode.Stepper
}

func New(cfg *config.Config, db *substance.Registry, log *logger.Logger) *Experiment {
	return &Experiment{
		cfg:      cfg,
		db:       db,
		registry: NewRegistry(),
		log:      log.OrNop(),
	}
}

// BuildModel resolves the substances named in cfg and builds the heat
// transfer model. Every lookup failure is reported together.
func BuildModel(cfg *config.Config, db *substance.Registry) (*htm.Model, error) {
	var errs error

	material, err := db.Material(cfg.Material)
	errs = multierr.Append(errs, err)
	var spectroscopic *substance.Material
	if cfg.Spectroscopic != "" {
		spectroscopic, err = db.Material(cfg.Spectroscopic)
		errs = multierr.Append(errs, err)
	}
	mixture, err := db.Mixture(cfg.Mixture)
	errs = multierr.Append(errs, err)
	kind, err := htm.ParseStateKind(cfg.State)
	errs = multierr.Append(errs, err)
	if errs != nil {
		return nil, errs
	}

	base := htm.Base{
		Process: htm.Process{
			Pressure:       cfg.Process.Pressure,
			GasTemperature: cfg.Process.GasTemperature,
		},
		Kind:          kind,
		Flags:         Flags(cfg.Flags),
		Material:      material,
		Spectroscopic: spectroscopic,
		Mixture:       mixture,
	}
	v, err := htm.NewVariant(cfg.Model, base)
	if err != nil {
		return nil, err
	}
	return htm.New(v), nil
}

// Flags converts the YAML switches into model flags.
func Flags(f config.FlagsConfig) htm.Flags {
	return htm.Flags{
		Conduction:  f.Conduction,
		Evaporation: f.Evaporation,
		Radiation:   f.Radiation,
		Oxidation:   f.Oxidation,
		Annealing:   f.Annealing,
		Thermionic:  f.Thermionic,
	}
}

// ODEConfig converts the run settings into integrator settings.
func ODEConfig(cfg *config.Config) ode.Config {
	c := ode.DefaultConfig()
	c.Dt = cfg.Dt
	c.Duration = cfg.Duration
	c.Adaptive = cfg.Adaptive
	if cfg.Tolerance > 0 {
		c.Tolerance = cfg.Tolerance
	}
	if cfg.MaxDt > 0 {
		c.MaxDt = cfg.MaxDt
	}
	return c
}

// Setup validates the configuration, builds the model and checks that
// every property it needs is available before any integration starts.
func (e *Experiment) Setup(metrics ...sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	model, err := BuildModel(e.cfg, e.db)
	if err != nil {
		return err
	}
	if err := model.CheckAvailability(); err != nil {
		return fmt.Errorf("model %s unavailable: %w", e.cfg.Model, err)
	}

	odeCfg := ODEConfig(e.cfg)
	newStepper, err := e.registry.StepperFactory(e.cfg.Integrator, odeCfg.MinDt)
	if err != nil {
		return err
	}

	e.model = model
	e.newStepper = newStepper
	e.simulator = sim.New(model, newStepper())
	if len(metrics) == 0 {
		metrics = e.registry.DefaultMetrics(model)
	}
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}

	e.log.Debugw("experiment ready",
		"model", e.cfg.Model,
		"material", e.cfg.Material,
		"mixture", e.cfg.Mixture,
		"integrator", e.cfg.Integrator,
		"adaptive", e.cfg.Adaptive,
	)
	return nil
}

// Run integrates one particle from the configured initial state.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	x0 := e.model.InitialState(e.cfg.InitState.Temperature, e.cfg.InitState.Diameter)
	res, err := e.simulator.Run(ctx, x0, ODEConfig(e.cfg))
	if err != nil {
		return nil, err
	}
	if res.Err() != nil {
		e.log.Warnw("run ended early", "steps", res.StepsTaken, "err", res.Err())
	}
	return res, nil
}

// RunEnsemble integrates one particle per configured diameter, each on its
// own clone of the model.
func (e *Experiment) RunEnsemble(ctx context.Context) ([]*sim.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	diameters := e.cfg.InitState.Diameters
	if len(diameters) == 0 {
		diameters = []float64{e.cfg.InitState.Diameter}
	}
	initial := make([]ode.State, len(diameters))
	for i, d := range diameters {
		initial[i] = e.model.InitialState(e.cfg.InitState.Temperature, d)
	}

	ens := sim.NewEnsemble(e.model, e.newStepper, func() []sim.Metric {
		return e.registry.DefaultMetrics(e.model)
	})
	return ens.Run(ctx, initial, ODEConfig(e.cfg))
}

// Calculator builds a pyrometry calculator for the spectroscopic material.
func (e *Experiment) Calculator() (*pyrometry.Calculator, error) {
	return NewCalculator(e.cfg, e.db, e.log)
}

// NewCalculator builds a pyrometry calculator from the configuration.
func NewCalculator(cfg *config.Config, db *substance.Registry, log *logger.Logger) (*pyrometry.Calculator, error) {
	m, err := db.Material(cfg.SpectroscopicMaterial())
	if err != nil {
		return nil, err
	}
	source, err := pyrometry.ParseEmSource(cfg.Pyrometry.EmSource)
	if err != nil {
		return nil, err
	}
	c := pyrometry.NewCalculator(m, source, log)
	if cfg.Pyrometry.MaxIterations > 0 {
		if lm, ok := c.Solver.(*fit.LevenbergMarquardt); ok {
			lm.MaxIter = cfg.Pyrometry.MaxIterations
		}
	}
	return c, nil
}

// SpectrumOptions converts the pyrometry settings.
func SpectrumOptions(cfg *config.Config) pyrometry.SpectrumOptions {
	opt := pyrometry.DefaultSpectrumOptions()
	p := cfg.Pyrometry
	opt.Bandpass = p.Bandpass
	opt.Weighted = p.Weighted
	opt.CarryForward = p.CarryForward
	opt.AutoScale = p.AutoScale
	if p.InitialTemperature > 0 {
		opt.InitialTemperature = p.InitialTemperature
	}
	if p.MaxTemperatureStep > 0 {
		opt.MaxTemperatureStep = p.MaxTemperatureStep
	}
	return opt
}

func (e *Experiment) Model() *htm.Model { return e.model }

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
