package property

import "math"

// NumCoeffs is the number of equation coefficients a Value carries.
const NumCoeffs = 9

// Value is a named physical property evaluated by its equation kind.
type Value struct {
	Name        string
	Kind        Kind
	Coeffs      [NumCoeffs]float64
	Unit        string
	Description string
	Source      string

	// InFile is true when any record with this name was loaded, even if
	// the record itself was not usable.
	InFile bool
	// Usable is true only when Kind is a recognized, non-unset kind.
	Usable bool
	// Optional properties do not count as configuration errors when missing.
	Optional bool
}

// NewValue returns a usable value of the given kind.
func NewValue(name string, kind Kind, coeffs ...float64) Value {
	v := Value{Name: name, Kind: kind, InFile: true, Usable: kind.Valid()}
	copy(v.Coeffs[:], coeffs)
	return v
}

// Constant is shorthand for a usable const value.
func Constant(name string, a0 float64) Value {
	return NewValue(name, KindConst, a0)
}

// Const returns a0 of a const value.
func (v Value) Const() (float64, error) {
	if v.Kind != KindConst || !v.Usable {
		return 0, ErrNotConst
	}
	return v.Coeffs[0], nil
}

// Eval evaluates v at temperature T. Wavelength-dependent kinds see a zero
// wavelength; use At for those.
func (v Value) Eval(T float64) float64 {
	return v.At(T, 0)
}

// At evaluates v at temperature T and wavelength lambda. Unusable values
// evaluate to 0, which callers must treat as a failed precondition rather
// than a legitimate zero.
func (v Value) At(T, lambda float64) float64 {
	if !v.Usable {
		return 0
	}
	a := &v.Coeffs

	switch v.Kind {
	case KindConst:
		return a[0]
	case KindCase:
		if T <= a[0] {
			return a[1]
		}
		return a[2]
	case KindPoly:
		return horner(a[:], T)
	case KindPoly2:
		return a[0] + a[1]*T + a[2]*T*T + a[3]*T*T*T + a[4]/T + a[5]/(T*T)
	case KindPolyCase:
		if T <= a[0] {
			return a[1] + a[2]*T + a[3]*T*T + a[4]*T*T*T
		}
		return a[5] + a[6]*T + a[7]*T*T + a[8]*T*T*T
	case KindExp:
		return a[0] + a[1]*math.Exp(a[2]+a[3]/T+a[4]*T)
	case KindExpPoly:
		return a[0] + a[1]*math.Exp(a[2]+T*(a[3]+T*(a[4]+T*(a[5]+T*(a[6]+T*a[7])))))
	case KindPowX:
		return a[0] + a[1]*math.Pow(a[2], a[3]+a[4]/T+a[5]*T)
	case KindOpticsLambda:
		return horner(a[:], lambda)
	case KindOpticsExp:
		return a[0] * math.Pow(lambda, 1-a[1])
	case KindOpticsTemp:
		return a[1] + a[2]*T + a[3]*T*T + a[4]*T*T*T
	case KindOpticsCase:
		if T <= a[1] {
			return a[2]
		}
		return a[3]
	}
	return 0
}

func horner(a []float64, x float64) float64 {
	sum := 0.0
	for i := len(a) - 1; i >= 0; i-- {
		sum = sum*x + a[i]
	}
	return sum
}
