package substance

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/liisim/internal/constants"
	"github.com/san-kum/liisim/internal/property"
)

func TestMixtureMolarMass(t *testing.T) {
	mix := NewGasMixture(Identity{Name: "air"}, nil)
	mix.AddGas(testGas("A", 0.028, 29.1), 0.7)
	mix.AddGas(testGas("B", 0.032, 29.4), 0.3)

	if math.Abs(mix.MolarMass-0.0292) > 1e-12 {
		t.Errorf("MolarMass = %v, want 0.0292", mix.MolarMass)
	}

	mix.RemoveGas("B")
	if math.Abs(mix.MolarMass-0.7*0.028) > 1e-12 {
		t.Errorf("MolarMass after removal = %v", mix.MolarMass)
	}
}

func TestMixtureGammaMatchesPureGas(t *testing.T) {
	g := testGas("Ar", 0.039948, 20.786)
	mix := NewGasMixture(Identity{Name: "argon"}, nil)
	mix.AddGas(g, 1)

	T := 1500.0
	cp := g.MolarHeatAt(T)
	want := cp / (cp - constants.GasConstant)

	if got := mix.HeatCapacityRatio(T); math.Abs(got-want) > 1e-12 {
		t.Errorf("gamma = %v, want %v", got, want)
	}
	if got := g.HeatCapacityRatio(T); math.Abs(got-want) > 1e-12 {
		t.Errorf("gas gamma = %v, want %v", got, want)
	}
	if math.Abs(mix.SpecificHeat(T)-g.SpecificHeat(T)) > 1e-9 {
		t.Errorf("c_p mixture %v != gas %v", mix.SpecificHeat(T), g.SpecificHeat(T))
	}
}

func TestMixtureGammaOverride(t *testing.T) {
	mix := NewGasMixture(Identity{Name: "n2"}, property.NewRecords([]property.Record{
		{Name: "gamma", Type: "const", Values: []float64{1.4}},
	}))
	mix.AddGas(testGas("N2", 0.028, 29.1), 1)

	if got := mix.HeatCapacityRatio(300); got != 1.4 {
		t.Errorf("gamma override = %v", got)
	}
}

func TestMixtureValidate(t *testing.T) {
	mix := NewGasMixture(Identity{Name: "bad"}, nil)
	if err := mix.Validate(); !errors.Is(err, ErrEmptyMixture) {
		t.Errorf("expected ErrEmptyMixture, got %v", err)
	}

	mix.AddGas(testGas("A", 0.028, 29.1), 0.5)
	mix.AddGas(testGas("B", 0.032, 29.4), 0.3)
	if err := mix.Validate(); !errors.Is(err, ErrFractionSum) {
		t.Errorf("expected ErrFractionSum, got %v", err)
	}
	if mix.FractionSum() != 0.8 {
		t.Error("Validate must not alter fractions")
	}

	mix.Normalize()
	if err := mix.Validate(); err != nil {
		t.Errorf("normalized mixture invalid: %v", err)
	}
	if math.Abs(mix.MolarMass-(0.625*0.028+0.375*0.032)) > 1e-12 {
		t.Errorf("MolarMass not recomputed: %v", mix.MolarMass)
	}
}

func TestThermalSpeed(t *testing.T) {
	got := ThermalSpeed(293.15, 0.039948)
	want := math.Sqrt(8 * constants.GasConstant * 293.15 / (math.Pi * 0.039948))
	if math.Abs(got-want)/want > 1e-6 {
		t.Errorf("ThermalSpeed = %v, want %v", got, want)
	}
	if ThermalSpeed(300, 0) != 0 {
		t.Error("zero molar mass should give zero speed")
	}
}

func TestMeanFreePath(t *testing.T) {
	mix := NewGasMixture(Identity{Name: "argon"}, nil)
	mix.AddGas(testGas("Ar", 0.039948, 20.786), 1)

	lambda := mix.MeanFreePathAt(293.15, 1e5)
	if lambda < 1e-8 || lambda > 2e-7 {
		t.Errorf("mean free path %v m outside physical range", lambda)
	}
	if half := mix.MeanFreePathAt(293.15, 2e5); math.Abs(half-lambda/2) > 1e-15 {
		t.Errorf("mean free path should scale with 1/p: %v vs %v", half, lambda/2)
	}

	override := NewGasMixture(Identity{Name: "ar-l"}, property.NewRecords([]property.Record{
		{Name: "L", Type: "const", Values: []float64{68e-9}},
	}))
	override.AddGas(testGas("Ar", 0.039948, 20.786), 1)
	if got := override.MeanFreePathAt(293.15, 5e4); math.Abs(got-136e-9) > 1e-15 {
		t.Errorf("override mean free path = %v", got)
	}
}
