package property

import (
	"math"

	"go.uber.org/multierr"
)

// Record is one loaded property entry as it appears in a database file.
// Several records may share a name; optics tables rely on that.
type Record struct {
	Name        string    `yaml:"name"`
	Type        string    `yaml:"type"`
	Values      []float64 `yaml:"values"`
	Unit        string    `yaml:"unit,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Source      string    `yaml:"source,omitempty"`
}

// Records is a multimap of loaded records keyed by property name.
type Records map[string][]Record

// Add appends rec under its name.
func (r Records) Add(rec Record) {
	r[rec.Name] = append(r[rec.Name], rec)
}

// NewRecords indexes a flat record list by name.
func NewRecords(list []Record) Records {
	r := make(Records, len(list))
	for _, rec := range list {
		r.Add(rec)
	}
	return r
}

// Schema describes a requested property.
type Schema struct {
	Name        string
	Unit        string
	Description string
	Optional    bool
}

// Resolve merges the requested schema against the loaded records. An absent
// name yields an unusable value carrying the schema's unit and description;
// a present record with an unset or unknown kind is unusable but marked as
// found in the file.
func Resolve(s Schema, records Records) Value {
	v := Value{
		Name:        s.Name,
		Unit:        s.Unit,
		Description: s.Description,
		Optional:    s.Optional,
	}
	recs := records[s.Name]
	if len(recs) == 0 {
		return v
	}
	applyRecord(&v, recs[0])
	return v
}

func applyRecord(v *Value, rec Record) {
	v.InFile = true
	kind, err := ParseKind(rec.Type)
	if err != nil {
		kind = KindUnset
	}
	v.Kind = kind
	v.Usable = kind.Valid()
	copy(v.Coeffs[:], rec.Values)
	if rec.Unit != "" {
		v.Unit = rec.Unit
	}
	if rec.Description != "" {
		v.Description = rec.Description
	}
	v.Source = rec.Source
}

// Resolver resolves the properties of one owner (a material, gas, or
// mixture) and accumulates every missing mandatory property.
type Resolver struct {
	owner   string
	records Records
	errs    error
}

func NewResolver(owner string, records Records) *Resolver {
	if records == nil {
		records = Records{}
	}
	return &Resolver{owner: owner, records: records}
}

// Resolve resolves s, recording an error when s is mandatory and unusable.
func (r *Resolver) Resolve(s Schema) Value {
	v := Resolve(s, r.records)
	if !v.Usable && !s.Optional {
		r.errs = multierr.Append(r.errs, &MissingError{Owner: r.owner, Name: s.Name, InFile: v.InFile})
	}
	return v
}

// Required resolves s as a mandatory property.
func (r *Resolver) Required(s Schema) Value {
	s.Optional = false
	return r.Resolve(s)
}

// Optional resolves s as a property whose absence is not an error.
func (r *Resolver) Optional(s Schema) Value {
	s.Optional = true
	return r.Resolve(s)
}

// Optical gathers every record named s.Name into a wavelength table. Each
// record stores its wavelength key in a0. Records whose key is not a
// positive integer are skipped.
func (r *Resolver) Optical(s Schema) *Optical {
	o := NewOptical(s.Name, s.Unit, s.Description)
	for _, rec := range r.records[s.Name] {
		if len(rec.Values) == 0 {
			continue
		}
		key := rec.Values[0]
		if key <= 0 || key != math.Trunc(key) {
			continue
		}
		v := Value{Name: s.Name, Unit: s.Unit, Description: s.Description, Optional: s.Optional}
		applyRecord(&v, rec)
		o.Set(int(key), v)
	}
	if o.Len() == 0 && !s.Optional {
		r.errs = multierr.Append(r.errs, &MissingError{Owner: r.owner, Name: s.Name})
	}
	return o
}

// Err returns the aggregated missing-property error, or nil.
func (r *Resolver) Err() error {
	return r.errs
}
