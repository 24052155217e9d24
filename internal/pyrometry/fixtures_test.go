package pyrometry

import (
	"github.com/san-kum/liisim/internal/property"
	"github.com/san-kum/liisim/internal/signal"
	"github.com/san-kum/liisim/internal/substance"
)

var testWavelengths = []int{450, 550, 650, 750}

// testScale puts soot intensities around 1 near 3000 K.
const testScale = 3e-18

func sootMaterial(extra ...property.Record) *substance.Material {
	recs := []property.Record{
		{Name: "rho_p", Type: "const", Values: []float64{1860}},
		{Name: "molar_mass", Type: "const", Values: []float64{0.012011}},
		{Name: "c_p_kg", Type: "const", Values: []float64{1900}},
		{Name: "H_v", Type: "const", Values: []float64{7.9e5}},
		{Name: "alpha_T_eff", Type: "const", Values: []float64{0.37}},
		{Name: "theta_e", Type: "const", Values: []float64{1}},
		{Name: "eps", Type: "const", Values: []float64{0.9}},
		{Name: "molar_mass_v", Type: "const", Values: []float64{0.036}},
		{Name: "Em", Type: "optics_temp", Values: []float64{450, 0.3}},
		{Name: "Em", Type: "optics_temp", Values: []float64{550, 0.3}},
		{Name: "Em", Type: "optics_temp", Values: []float64{650, 0.3}},
		{Name: "Em", Type: "optics_temp", Values: []float64{750, 0.3}},
	}
	m, _ := substance.NewMaterial(substance.Identity{Name: "soot"}, property.NewRecords(append(recs, extra...)))
	return m
}

// temperatureProfile cools linearly from hot to cold over n samples.
func temperatureProfile(n int, hot, cold float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = hot + (cold-hot)*float64(i)/float64(n-1)
	}
	return out
}

// synthesize renders Planck signals for the profile on every wavelength.
func synthesize(c *Calculator, temps []float64, wavelengths []int, scale float64) *signal.Set {
	set := &signal.Set{}
	for _, wl := range wavelengths {
		data := make([]float64, len(temps))
		for i, T := range temps {
			data[i] = c.Planck(float64(wl), T, scale)
		}
		set.Channels = append(set.Channels, signal.Channel{Wavelength: wl, Calibration: 1, PMTGain: 1})
		set.Signals = append(set.Signals, signal.New(0, 1e-9, data))
	}
	return set
}
