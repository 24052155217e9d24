package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDatabase    = "data"
	DefaultDt          = 1e-10
	DefaultDuration    = 2e-6
	DefaultTolerance   = 1e-6
	DefaultMaxDt       = 5e-9
	DefaultPressure    = 1e5
	DefaultGasTemp     = 1500.0
	DefaultTemperature = 3500.0
	DefaultDiameter    = 20e-9
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Database      string          `yaml:"database"`
	Material      string          `yaml:"material"`
	Spectroscopic string          `yaml:"spectroscopic_material,omitempty"`
	Mixture       string          `yaml:"gas_mixture"`
	Model         string          `yaml:"model"`
	State         string          `yaml:"state"`
	Integrator    string          `yaml:"integrator"`
	Dt            float64         `yaml:"dt"`
	Duration      float64         `yaml:"duration"`
	Adaptive      bool            `yaml:"adaptive"`
	Tolerance     float64         `yaml:"tolerance"`
	MaxDt         float64         `yaml:"max_dt"`
	LogLevel      string          `yaml:"log_level,omitempty"`
	Process       ProcessConfig   `yaml:"process"`
	InitState     InitStateConfig `yaml:"init_state"`
	Flags         FlagsConfig     `yaml:"flags"`
	Pyrometry     PyrometryConfig `yaml:"pyrometry"`
}

type ProcessConfig struct {
	Pressure       float64 `yaml:"pressure"`
	GasTemperature float64 `yaml:"gas_temperature"`
}

type InitStateConfig struct {
	Temperature float64 `yaml:"temperature"`
	Diameter    float64 `yaml:"diameter"`
	// Diameters lists the initial sizes of an ensemble run.
	Diameters []float64 `yaml:"diameters,omitempty"`
}

type FlagsConfig struct {
	Conduction  bool `yaml:"conduction"`
	Evaporation bool `yaml:"evaporation"`
	Radiation   bool `yaml:"radiation"`
	Oxidation   bool `yaml:"oxidation"`
	Annealing   bool `yaml:"annealing"`
	Thermionic  bool `yaml:"thermionic"`
}

type PyrometryConfig struct {
	EmSource           string  `yaml:"em_source"`
	Bandpass           bool    `yaml:"bandpass"`
	Weighted           bool    `yaml:"weighted"`
	CarryForward       bool    `yaml:"carry_forward"`
	AutoScale          bool    `yaml:"auto_scale"`
	InitialTemperature float64 `yaml:"initial_temperature"`
	MaxTemperatureStep float64 `yaml:"max_temperature_step"`
	MaxIterations      int     `yaml:"max_iterations"`
}

func DefaultConfig() *Config {
	return &Config{
		Database:   DefaultDatabase,
		Material:   "soot",
		Mixture:    "argon",
		Model:      "musikhin",
		State:      "diameter",
		Integrator: "rk45",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Adaptive:   true,
		Tolerance:  DefaultTolerance,
		MaxDt:      DefaultMaxDt,
		LogLevel:   "info",
		Process: ProcessConfig{
			Pressure:       DefaultPressure,
			GasTemperature: DefaultGasTemp,
		},
		InitState: InitStateConfig{
			Temperature: DefaultTemperature,
			Diameter:    DefaultDiameter,
		},
		Flags: FlagsConfig{
			Conduction:  true,
			Evaporation: true,
			Radiation:   true,
		},
		Pyrometry: PyrometryConfig{
			EmSource:           "tabulated",
			AutoScale:          true,
			InitialTemperature: 3000,
			MaxTemperatureStep: 500,
			MaxIterations:      100,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every out-of-range value at once.
func (c *Config) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	check(c.Material != "", "material is empty")
	check(c.Mixture != "", "gas_mixture is empty")
	check(c.Dt > 0, "dt must be positive, got %g", c.Dt)
	check(c.Duration > 0, "duration must be positive, got %g", c.Duration)
	check(!c.Adaptive || c.Tolerance > 0, "tolerance must be positive for adaptive runs, got %g", c.Tolerance)
	check(c.Process.Pressure > 0, "process.pressure must be positive, got %g", c.Process.Pressure)
	check(c.Process.GasTemperature > 0, "process.gas_temperature must be positive, got %g", c.Process.GasTemperature)
	check(c.InitState.Temperature > 0, "init_state.temperature must be positive, got %g", c.InitState.Temperature)
	check(c.InitState.Diameter > 0, "init_state.diameter must be positive, got %g", c.InitState.Diameter)
	for i, d := range c.InitState.Diameters {
		check(d > 0, "init_state.diameters[%d] must be positive, got %g", i, d)
	}
	return errs
}

// SpectroscopicMaterial is the material used for E(m), defaulting to the
// particle material.
func (c *Config) SpectroscopicMaterial() string {
	if c.Spectroscopic != "" {
		return c.Spectroscopic
	}
	return c.Material
}

// Steps is the number of fixed steps covering the duration.
func (c *Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(c.Duration/c.Dt + 0.5)
}
