// Package database loads material, gas, and gas mixture records from YAML
// files into a substance registry.
//
// Directory layout:
//
//	<dir>/gases/*.yaml
//	<dir>/mixtures/*.yaml
//	<dir>/materials/*.yaml
//
// Each file holds one entity: its identity, a list of property records, and
// for mixtures a list of gas components. Several records may share a name;
// tabulated absorption data uses that to list one "Em" record per
// wavelength with the wavelength in a0.
package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/liisim/internal/logger"
	"github.com/san-kum/liisim/internal/property"
	"github.com/san-kum/liisim/internal/substance"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	GasDir      = "gases"
	MixtureDir  = "mixtures"
	MaterialDir = "materials"
)

var ErrUnknownGas = errors.New("database: mixture references unknown gas")

// File is the on-disk shape of one entity.
type File struct {
	substance.Identity `yaml:",inline"`
	Properties         []property.Record `yaml:"properties"`
	Components         []ComponentFile   `yaml:"components,omitempty"`
}

type ComponentFile struct {
	Gas      string  `yaml:"gas"`
	Fraction float64 `yaml:"fraction"`
}

// Loader reads a database directory.
type Loader struct {
	Dir string
	Log *logger.Logger
}

func NewLoader(dir string, log *logger.Logger) *Loader {
	return &Loader{Dir: dir, Log: log.OrNop()}
}

// Load reads every entity. Missing mandatory properties are logged as
// warnings and the entity is still registered, so the availability check
// can report them in context. Unreadable files and unknown gas references
// are returned as errors.
func (l *Loader) Load() (*substance.Registry, error) {
	reg := substance.NewRegistry()
	var errs error

	gases, err := l.readDir(GasDir)
	errs = multierr.Append(errs, err)
	for _, f := range gases {
		g, err := substance.NewGas(f.Identity, property.NewRecords(f.Properties))
		l.warn(err)
		reg.AddGas(g)
	}

	mixtures, err := l.readDir(MixtureDir)
	errs = multierr.Append(errs, err)
	for _, f := range mixtures {
		mix := substance.NewGasMixture(f.Identity, property.NewRecords(f.Properties))
		for _, c := range f.Components {
			g, err := reg.Gas(c.Gas)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%w: %q in %s", ErrUnknownGas, c.Gas, f.Filename))
				continue
			}
			mix.AddGas(g, c.Fraction)
		}
		if err := mix.Validate(); err != nil {
			l.Log.Warnw("gas mixture invalid", "mixture", mix.Name, "err", err)
		}
		reg.AddMixture(mix)
	}

	materials, err := l.readDir(MaterialDir)
	errs = multierr.Append(errs, err)
	for _, f := range materials {
		m, err := substance.NewMaterial(f.Identity, property.NewRecords(f.Properties))
		l.warn(err)
		reg.AddMaterial(m)
	}

	l.Log.Debugw("database loaded",
		"dir", l.Dir,
		"gases", len(gases),
		"mixtures", len(mixtures),
		"materials", len(materials),
	)
	return reg, errs
}

func (l *Loader) warn(err error) {
	for _, e := range multierr.Errors(err) {
		l.Log.Warnw("database entry incomplete", "err", e)
	}
}

func (l *Loader) readDir(sub string) ([]File, error) {
	dir := filepath.Join(l.Dir, sub)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var files []File
	var errs error
	for _, name := range names {
		f, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		files = append(files, *f)
	}
	return files, errs
}

// ReadFile decodes one entity file. The entity name defaults to the file
// name without extension.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	f.Filename = path
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &f, nil
}

// WriteFile encodes f as YAML.
func WriteFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
