package viz

import (
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/san-kum/liisim/internal/pyrometry"
	"github.com/san-kum/liisim/internal/signal"
	"github.com/san-kum/liisim/internal/sim"
)

func TestDownsample(t *testing.T) {
	values := make([]float64, 101)
	for i := range values {
		values[i] = float64(i)
	}
	values[50] = math.NaN()

	got := Downsample(values, 11)
	if len(got) != 11 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0] != 0 || got[10] != 100 {
		t.Errorf("endpoints = %g, %g", got[0], got[10])
	}
	if len(Downsample(values[:5], 10)) != 5 {
		t.Error("short series should be kept")
	}
}

func TestPlot(t *testing.T) {
	if Plot(nil, "empty", 5, 20) != "" {
		t.Error("empty series should render nothing")
	}
	out := Plot([]float64{3500, 3000, 2600, 2300}, "temperature [K]", 5, 20)
	if !strings.Contains(out, "temperature [K]") {
		t.Errorf("caption missing:\n%s", out)
	}
	many := PlotMany([][]float64{{1, 2, 3}, {3, 2, 1}, nil}, "both", 5, 20)
	if !strings.Contains(many, "both") {
		t.Errorf("caption missing:\n%s", many)
	}
}

func TestAvailability(t *testing.T) {
	if out := Availability("musikhin", nil); !strings.Contains(out, "is available") {
		t.Errorf("unexpected output %q", out)
	}

	err := multierr.Combine(errors.New("c_p_kg missing"), errors.New("H_v missing"))
	out := Availability("musikhin", err)
	if !strings.Contains(out, "2 problems") || !strings.Contains(out, "H_v missing") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestMetricsSorted(t *testing.T) {
	out := Metrics(map[string]float64{"b": 2, "a": 1, "c": math.NaN()})
	ia, ib := strings.Index(out, "a"), strings.Index(out, "b")
	if ia < 0 || ib < 0 || ia > ib {
		t.Errorf("metrics not sorted:\n%s", out)
	}
	if !strings.Contains(out, "n/a") {
		t.Errorf("NaN not rendered as n/a:\n%s", out)
	}
}

func TestTemperatureReport(t *testing.T) {
	temp := &pyrometry.Temperature{
		Method: "spectrum",
		Signal: &signal.Signal{Dt: 1e-9, Data: []float64{0, 3200, 3000}},
		Fits: []pyrometry.Sample{
			{Converged: false},
			{Converged: true, Chi2: 2},
			{Converged: true, Chi2: 4},
		},
		Calibration: []float64{0.9, 1.1},
	}
	out := Temperature(temp)
	for _, want := range []string{"spectrum", "2/3", "3200", "calibration 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestEnsembleAndSummary(t *testing.T) {
	res := &sim.Result{
		Temperature: []float64{3500, 3000},
		StepsTaken:  1,
		Metrics:     map[string]float64{"mass_loss": 0.25},
	}
	out := Ensemble([]float64{20e-9}, []*sim.Result{res}, 10)
	if !strings.Contains(out, "20.0") || !strings.Contains(out, "25.0%") {
		t.Errorf("unexpected ensemble output:\n%s", out)
	}
	if !strings.Contains(RunSummary(res), "mass_loss") {
		t.Error("summary misses metrics")
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(ThemeIncandescent.Name)

	SetTheme("ocean")
	if CurrentTheme.Name != "ocean" {
		t.Errorf("theme = %s", CurrentTheme.Name)
	}
	SetTheme("nope")
	if CurrentTheme.Name != ThemeIncandescent.Name {
		t.Errorf("unknown theme should fall back, got %s", CurrentTheme.Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names incomplete")
	}
}

func TestHexRoundTrip(t *testing.T) {
	r, g, b := parseHex("#ff8c00")
	if hexColor(r, g, b) != "#ff8c00" {
		t.Errorf("got %s", hexColor(r, g, b))
	}
	if Banner("") != "" {
		t.Error("empty banner should be empty")
	}
}
