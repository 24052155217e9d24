package pyrometry

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"go.uber.org/multierr"

	"github.com/san-kum/liisim/internal/constants"
	"github.com/san-kum/liisim/internal/signal"
)

// EmSource selects where the absorption function E(m) comes from.
type EmSource int

const (
	EmTabulated EmSource = iota
	EmContinuous
	EmDrude
)

func (s EmSource) String() string {
	switch s {
	case EmTabulated:
		return "tabulated"
	case EmContinuous:
		return "continuous"
	case EmDrude:
		return "drude"
	}
	return fmt.Sprintf("EmSource(%d)", int(s))
}

func ParseEmSource(s string) (EmSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tabulated", "table":
		return EmTabulated, nil
	case "continuous", "function", "func":
		return EmContinuous, nil
	case "drude":
		return EmDrude, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEmSource, s)
}

func (s EmSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *EmSource) UnmarshalText(text []byte) error {
	v, err := ParseEmSource(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// CheckEmSource verifies that E(m) can be evaluated for every channel. All
// problems are reported together; multierr.Errors lists one error per
// missing channel.
func (c *Calculator) CheckEmSource(channels []signal.Channel) error {
	m := c.Material
	if m == nil {
		return ErrNoMaterial
	}
	switch c.Source {
	case EmTabulated:
		var errs error
		for i, ch := range channels {
			if v, ok := m.Em.Lookup(ch.Wavelength); !ok || !v.Usable {
				errs = multierr.Append(errs, &MissingEmError{Channel: i, Wavelength: ch.Wavelength})
			}
		}
		return errs
	case EmContinuous:
		if !m.EmFunc.Usable {
			return fmt.Errorf("%w: %s", ErrEmFunction, m.Name)
		}
		return nil
	case EmDrude:
		var errs error
		if !m.PlasmaFrequency.Usable {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s has no %s", ErrDrudeParameters, m.Name, m.PlasmaFrequency.Name))
		}
		if !m.RelaxationTime.Usable {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s has no %s", ErrDrudeParameters, m.Name, m.RelaxationTime.Name))
		}
		return errs
	}
	return fmt.Errorf("%w: %d", ErrUnknownEmSource, int(c.Source))
}

// Em evaluates the absorption function at wavelength wl (nm) and particle
// temperature T. Unavailable values are 0.
func (c *Calculator) Em(wl, T float64) float64 {
	m := c.Material
	if m == nil {
		return 0
	}
	switch c.Source {
	case EmTabulated:
		return m.Em.At(int(math.Round(wl)), T)
	case EmContinuous:
		return m.EmFunc.At(T, wl)
	case EmDrude:
		return c.drudeEm(wl, T)
	}
	return 0
}

func (c *Calculator) drudeEm(wl, T float64) float64 {
	m := c.Material
	if !m.PlasmaFrequency.Usable || !m.RelaxationTime.Usable {
		c.warn.Warnw("Drude parameters missing, E(m) set to 0", "material", m.Name)
		return 0
	}
	return DrudeEm(wl*1e-9, m.PlasmaFrequency.Eval(T), m.RelaxationTime.Eval(T))
}

// DrudeEm is the free-electron absorption function at wavelength lambda (m)
// for plasma frequency omegaP (rad/s) and relaxation time tau (s):
//
//	eps = 1 - wp^2 tau^2/(w^2 tau^2 + 1) + i wp^2 tau/(w (w^2 tau^2 + 1))
//	E(m) = Im((eps - 1)/(eps + 2))
func DrudeEm(lambda, omegaP, tau float64) float64 {
	if lambda <= 0 {
		return 0
	}
	w := 2 * constants.Pi * constants.SpeedOfLight / lambda
	den := w*w*tau*tau + 1
	eps := complex(1-omegaP*omegaP*tau*tau/den, omegaP*omegaP*tau/(w*den))
	v := imag((eps - 1) / (eps + 2))
	if cmplx.IsNaN(eps) || math.IsNaN(v) {
		return 0
	}
	return v
}
