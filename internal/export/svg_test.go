package export

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/liisim/internal/storage"
)

func trace() *storage.Trace {
	return &storage.Trace{
		Times:       []float64{0, 1e-9, 2e-9, 3e-9},
		Temperature: []float64{3500, 3200, 2950, 2750},
		Diameter:    []float64{20e-9, 19.9e-9, 19.85e-9, 19.8e-9},
	}
}

func TestTraceToSVG(t *testing.T) {
	svg, err := TraceToSVG(trace(), false, 400, 200)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("not a complete svg document")
	}
	if strings.Count(svg, " L") != 3 || strings.Count(svg, " M") != 1 {
		t.Errorf("expected one path with four points:\n%s", svg)
	}
	if !strings.Contains(svg, "temperature [K]") {
		t.Error("missing label")
	}

	svg, err = TraceToSVG(trace(), true, 400, 200)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg, "diameter [nm]") {
		t.Error("missing diameter label")
	}
}

func TestSeriesToSVGBreaksOnNaN(t *testing.T) {
	s := Series{X: []float64{0, 1, 2, 3, 4}, Y: []float64{1, 2, math.NaN(), 4, 5}, Stroke: "#123456"}
	svg, err := SeriesToSVG([]Series{s}, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(svg, " M") != 2 {
		t.Errorf("NaN should split the line:\n%s", svg)
	}
	if !strings.Contains(svg, "#123456") {
		t.Error("explicit stroke ignored")
	}
}

func TestSeriesToSVGTooShort(t *testing.T) {
	_, err := SeriesToSVG([]Series{{X: []float64{1}, Y: []float64{1}}}, 10, 10)
	if !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}

func TestWriteTraceSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.svg")
	if err := WriteTraceSVG(path, trace(), false, 300, 150); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `width="300"`) {
		t.Error("width not written")
	}
}

func TestEscape(t *testing.T) {
	if got := escape("a<b & c>"); got != "a&lt;b &amp; c&gt;" {
		t.Errorf("escape = %q", got)
	}
}
