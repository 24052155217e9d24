package substance

import "github.com/san-kum/liisim/internal/property"

func testGas(name string, molar, cp float64) *Gas {
	g, _ := NewGas(Identity{Name: name}, property.NewRecords([]property.Record{
		{Name: "molar_mass", Type: "const", Values: []float64{molar}},
		{Name: "C_p_mol", Type: "const", Values: []float64{cp}},
		{Name: "therm_cond", Type: "poly", Values: []float64{0.005, 4e-5}},
	}))
	return g
}
