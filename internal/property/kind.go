package property

import (
	"fmt"
	"strings"
)

// Kind selects the equation a Value evaluates.
type Kind int

const (
	KindUnset Kind = iota
	KindConst
	KindCase
	KindPoly
	KindPoly2
	KindPolyCase
	KindExp
	KindExpPoly
	KindPowX
	KindOpticsLambda
	KindOpticsExp
	KindOpticsTemp
	KindOpticsCase
)

var kindNames = map[Kind]string{
	KindUnset:        "unset",
	KindConst:        "const",
	KindCase:         "case",
	KindPoly:         "poly",
	KindPoly2:        "poly2",
	KindPolyCase:     "polycase",
	KindExp:          "exp",
	KindExpPoly:      "exppoly",
	KindPowX:         "powx",
	KindOpticsLambda: "optics_lambda",
	KindOpticsExp:    "optics_exp",
	KindOpticsTemp:   "optics_temp",
	KindOpticsCase:   "optics_case",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is a recognized equation kind other than unset.
func (k Kind) Valid() bool {
	return k > KindUnset && k <= KindOpticsCase
}

// UsesWavelength reports whether the equation reads the wavelength argument.
func (k Kind) UsesWavelength() bool {
	return k == KindOpticsLambda || k == KindOpticsExp
}

// Optics reports whether k is one of the optics_* kinds. For optics_temp and
// optics_case the coefficient a0 holds the wavelength key.
func (k Kind) Optics() bool {
	return k >= KindOpticsLambda && k <= KindOpticsCase
}

// ParseKind maps an equation tag to its Kind. An empty tag is KindUnset.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindUnset, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindUnset, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
