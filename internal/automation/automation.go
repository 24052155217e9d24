// Package automation runs scripted sequences of cooling simulations:
// YAML scenarios, one-parameter sweeps, and Monte Carlo perturbations of
// the initial particle state.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/liisim/internal/config"
	"github.com/san-kum/liisim/internal/experiment"
	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/ode"
	"github.com/san-kum/liisim/internal/sim"
	"github.com/san-kum/liisim/internal/storage"
	"github.com/san-kum/liisim/internal/substance"
)

var ErrScenario = errors.New("automation: invalid scenario")

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. The configuration starts
// from the preset when one is named, otherwise from the defaults. Config
// is decoded on top of it, so only the keys it lists change. Params are
// applied last through config.SetParam.
type ScenarioStep struct {
	Name   string             `yaml:"name"`
	Model  string             `yaml:"model"`
	Preset string             `yaml:"preset"`
	Config yaml.Node          `yaml:"config"`
	Params map[string]float64 `yaml:"params"`
	Save   bool               `yaml:"save"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: %s has no steps", ErrScenario, path)
	}

	return &scenario, nil
}

// StepConfig builds the configuration of one step.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		model := step.Model
		if model == "" {
			model = cfg.Model
		}
		cfg = config.GetPreset(model, step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %s/%s", ErrScenario, model, step.Preset)
		}
	} else if step.Model != "" {
		cfg.Model = step.Model
	}

	if !step.Config.IsZero() {
		if err := step.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: config: %v", ErrScenario, err)
		}
	}
	for name, v := range step.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario. Steps marked save are
// written to st, which may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, db *substance.Registry, st *storage.Store, log *logger.Logger) ([]StepResult, error) {
	log = log.OrNop()
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		log.Infow("running scenario step", "scenario", scenario.Name, "step", name, "n", i+1, "of", len(scenario.Steps))

		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		exp := experiment.New(cfg, db, log)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("%s setup: %w", name, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s run: %w", name, err)
		}

		sr := StepResult{Name: name, Config: cfg, Result: result}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("%w: %s wants saving but no store is open", ErrScenario, name)
			}
			if sr.RunID, err = st.Save(storage.NewRunMetadata(cfg), result); err != nil {
				return results, fmt.Errorf("%s save: %w", name, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs simulations across a range of one config parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	FinalState ode.State
	Metrics    map[string]float64
	Err        error
}

// RunSweep executes a parameter sweep. A run that ends early keeps its
// partial result and records the reason in Err.
func RunSweep(ctx context.Context, sweep *ParameterSweep, db *substance.Registry, log *logger.Logger) ([]SweepResult, error) {
	log = log.OrNop()
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", ErrScenario)
	}
	if _, err := sweep.Base.Param(sweep.ParamName); err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp := experiment.New(cfg, db, log)
		if err := exp.Setup(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			FinalState: result.Final(),
			Metrics:    result.Metrics,
			Err:        result.Err(),
		})

		log.Debugw("sweep point done", "param", sweep.ParamName, "value", paramVal, "n", i+1, "of", sweep.NumSteps)
	}

	return results, nil
}

// MonteCarloConfig perturbs the initial temperature and diameter of Base.
// Spreads are relative standard deviations of a normal distribution.
type MonteCarloConfig struct {
	Base              *config.Config
	TemperatureSpread float64
	DiameterSpread    float64
	NumTrials         int
	Seed              int64
}

// MonteCarloResult holds one Monte Carlo trial.
type MonteCarloResult struct {
	TrialID     int
	Temperature float64
	Diameter    float64
	FinalState  ode.State
	Metrics     map[string]float64
	// Stable is false when the run ended early or its stability metric
	// flagged an out-of-range temperature.
	Stable bool
}

// RunMonteCarlo executes multiple trials with random perturbations
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, db *substance.Registry, log *logger.Logger) ([]MonteCarloResult, error) {
	log = log.OrNop()
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for trial := 0; trial < cfg.NumTrials; trial++ {
		expCfg := cfg.Base.Clone()
		is := &expCfg.InitState
		is.Temperature *= 1 + rng.NormFloat64()*cfg.TemperatureSpread
		is.Diameter *= 1 + rng.NormFloat64()*cfg.DiameterSpread
		is.Diameters = nil
		if is.Diameter <= 0 {
			is.Diameter = cfg.Base.InitState.Diameter
		}

		exp := experiment.New(expCfg, db, log)
		if err := exp.Setup(); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		stable := result.Err() == nil
		if v, ok := result.Metrics["stability"]; ok && v < 1 {
			stable = false
		}

		results = append(results, MonteCarloResult{
			TrialID:     trial,
			Temperature: is.Temperature,
			Diameter:    is.Diameter,
			FinalState:  result.Final(),
			Metrics:     result.Metrics,
			Stable:      stable,
		})

		if (trial+1)%10 == 0 {
			log.Infow("monte carlo progress", "trials", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// MetricStats returns the mean and sample standard deviation of a metric
// over the trials where it is finite, and how many trials that was.
func MetricStats(results []MonteCarloResult, metric string) (mean, std float64, n int) {
	var xs []float64
	for _, r := range results {
		if v, ok := r.Metrics[metric]; ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			xs = append(xs, v)
		}
	}
	switch len(xs) {
	case 0:
		return math.NaN(), math.NaN(), 0
	case 1:
		return xs[0], 0, 1
	}
	mean, std = stat.MeanStdDev(xs, nil)
	return mean, std, len(xs)
}
