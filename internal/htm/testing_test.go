package htm

import (
	"github.com/san-kum/liisim/internal/property"
	"github.com/san-kum/liisim/internal/substance"
)

func sootRecords() property.Records {
	return property.NewRecords([]property.Record{
		{Name: "rho_p", Type: "poly", Values: []float64{2303.2, -7.3106e-2}},
		{Name: "molar_mass", Type: "const", Values: []float64{0.012011}},
		{Name: "c_p_kg", Type: "const", Values: []float64{1900}},
		{Name: "H_v", Type: "const", Values: []float64{7.9e5}},
		{Name: "alpha_T_eff", Type: "const", Values: []float64{0.37}},
		{Name: "theta_e", Type: "const", Values: []float64{1}},
		{Name: "eps", Type: "const", Values: []float64{0.9}},
		{Name: "p_v_ref", Type: "const", Values: []float64{61460}},
		{Name: "T_v_ref", Type: "const", Values: []float64{3915}},
		{Name: "molar_mass_v", Type: "const", Values: []float64{0.036}},
		{Name: "phi", Type: "const", Values: []float64{4.6}},
	})
}

func testSoot() *substance.Material {
	m, err := substance.NewMaterial(substance.Identity{Name: "soot"}, sootRecords())
	if err != nil {
		panic(err)
	}
	return m
}

func testArgon() *substance.GasMixture {
	ar, err := substance.NewGas(substance.Identity{Name: "Ar"}, property.NewRecords([]property.Record{
		{Name: "molar_mass", Type: "const", Values: []float64{0.039948}},
		{Name: "C_p_mol", Type: "const", Values: []float64{20.786}},
		{Name: "therm_cond", Type: "poly", Values: []float64{0.00563, 4.2e-5}},
	}))
	if err != nil {
		panic(err)
	}
	mix := substance.NewGasMixture(substance.Identity{Name: "argon"}, nil)
	mix.AddGas(ar, 1)
	return mix
}

func testBase(kind StateKind) Base {
	return Base{
		Process:  Process{Pressure: 1e5, GasTemperature: 300},
		Kind:     kind,
		Flags:    DefaultFlags(),
		Material: testSoot(),
		Mixture:  testArgon(),
	}
}

// emptyVariant declares no variables.
type emptyVariant struct {
	Musikhin
}

func (e *emptyVariant) Variables() []*property.Value { return nil }

func (e *emptyVariant) Clone() Variant {
	c := *e
	return &c
}
