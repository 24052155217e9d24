package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownParam = errors.New("config: unknown parameter")

var params = map[string]func(c *Config) *float64{
	"pressure":        func(c *Config) *float64 { return &c.Process.Pressure },
	"gas_temperature": func(c *Config) *float64 { return &c.Process.GasTemperature },
	"temperature":     func(c *Config) *float64 { return &c.InitState.Temperature },
	"diameter":        func(c *Config) *float64 { return &c.InitState.Diameter },
	"dt":              func(c *Config) *float64 { return &c.Dt },
	"duration":        func(c *Config) *float64 { return &c.Duration },
	"tolerance":       func(c *Config) *float64 { return &c.Tolerance },
}

// SetParam sets a numeric parameter by its sweep name.
func (c *Config) SetParam(name string, v float64) error {
	p, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	*p(c) = v
	return nil
}

// Param returns a numeric parameter by its sweep name.
func (c *Config) Param(name string) (float64, error) {
	p, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return *p(c), nil
}

// Params lists the parameter names SetParam accepts.
func Params() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.InitState.Diameters = append([]float64(nil), c.InitState.Diameters...)
	return &cp
}
