package property

import "sort"

// Optical is a wavelength-indexed collection of values sharing one meaning,
// such as the tabulated absorption function E(m). Lookup is by exact
// integer wavelength in nm; there is no interpolation.
type Optical struct {
	Name        string
	Unit        string
	Description string
	Values      map[int]Value
}

func NewOptical(name, unit, description string) *Optical {
	return &Optical{
		Name:        name,
		Unit:        unit,
		Description: description,
		Values:      make(map[int]Value),
	}
}

// Set stores v under the wavelength key.
func (o *Optical) Set(wavelength int, v Value) {
	if o.Values == nil {
		o.Values = make(map[int]Value)
	}
	o.Values[wavelength] = v
}

// Lookup returns the entry for wavelength and whether one exists. A missing
// key never creates an entry.
func (o *Optical) Lookup(wavelength int) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.Values[wavelength]
	return v, ok
}

// Has reports whether a usable entry exists for wavelength.
func (o *Optical) Has(wavelength int) bool {
	v, ok := o.Lookup(wavelength)
	return ok && v.Usable
}

// At evaluates the entry for wavelength at temperature T. A missing or
// unusable entry evaluates to 0.
func (o *Optical) At(wavelength int, T float64) float64 {
	v, ok := o.Lookup(wavelength)
	if !ok {
		return 0
	}
	return v.At(T, float64(wavelength))
}

// Wavelengths returns the stored keys in ascending order.
func (o *Optical) Wavelengths() []int {
	if o == nil {
		return nil
	}
	keys := make([]int, 0, len(o.Values))
	for k := range o.Values {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Len is the number of stored wavelengths.
func (o *Optical) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Values)
}
