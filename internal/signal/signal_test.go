package signal

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestAtInterpolates(t *testing.T) {
	s := New(0, 1e-9, []float64{0, 10, 20})
	tests := []struct {
		t    float64
		want float64
		ok   bool
	}{
		{0, 0, true},
		{0.5e-9, 5, true},
		{2e-9, 20, true},
		{-1e-9, 0, false},
		{3e-9, 0, false},
	}
	for _, tt := range tests {
		got, ok := s.At(tt.t)
		if ok != tt.ok || math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("At(%g) = %g, %v; want %g, %v", tt.t, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAlignSameBaseUnchanged(t *testing.T) {
	a := New(0, 1, []float64{1, 2, 3})
	b := New(0, 1, []float64{4, 5, 6})
	out, err := Align(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != a || out[1] != b {
		t.Error("signals on a shared timebase should not be resampled")
	}
}

func TestAlignDifferentBases(t *testing.T) {
	a := New(0, 1, []float64{0, 1, 2, 3, 4, 5, 6})
	b := New(1, 2, []float64{10, 30, 50})

	out, err := Align(a, b)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range out {
		if s.Start != 1 || s.Dt != 2 || s.Len() != 3 {
			t.Fatalf("timebase = (%g, %g, %d)", s.Start, s.Dt, s.Len())
		}
	}
	want := []float64{1, 3, 5}
	for i, v := range out[0].Data {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("a[%d] = %g, want %g", i, v, want[i])
		}
	}
}

func TestAlignErrors(t *testing.T) {
	if _, err := Align(); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	_, err := Align(New(0, 1, []float64{1, 2}), New(5, 1, []float64{1, 2}))
	if !errors.Is(err, ErrNoOverlap) {
		t.Errorf("expected ErrNoOverlap, got %v", err)
	}
	_, err = Align(New(0, 0, []float64{1}), New(0, 1, []float64{1}))
	if !errors.Is(err, ErrBadStep) {
		t.Errorf("expected ErrBadStep, got %v", err)
	}
}

func TestScaleAndPeak(t *testing.T) {
	s := &Signal{Start: 0, Dt: 1, Data: []float64{1, 4, 2}, Stdev: []float64{0.1, 0.2, 0.1}}
	s.Scale(-2)
	if s.Data[1] != -8 || s.Stdev[1] != 0.4 {
		t.Errorf("scaled = %v / %v", s.Data, s.Stdev)
	}
	i, v := s.Peak()
	if i != 0 || v != -2 {
		t.Errorf("Peak = %d, %g", i, v)
	}
}

func TestChannelCorrect(t *testing.T) {
	c := Channel{Wavelength: 650, Calibration: 2, PMTGain: 4, Offset: 1}
	if got := c.Correct(5); got != 2 {
		t.Errorf("Correct(5) = %g, want 2", got)
	}
	if got := (Channel{}).Correct(3); got != 3 {
		t.Errorf("zero channel should pass values through, got %g", got)
	}
}

func TestFilter(t *testing.T) {
	f := NewFilter("bp", map[int]float64{440: 0.2, 450: 0.8, 460: 0.4})
	tests := []struct {
		wl, want float64
	}{
		{400, 0.2},
		{445, 0.5},
		{450, 0.8},
		{455, 0.6},
		{500, 0.4},
	}
	for _, tt := range tests {
		if got := f.At(tt.wl); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("At(%g) = %g, want %g", tt.wl, got, tt.want)
		}
	}
	var none *Filter
	if none.At(500) != 1 {
		t.Error("nil filter must transmit everything")
	}
}

const sample = `time,450,650,sd_650
0,1.0,2.0,0.1
1e-9,1.5,2.5,0.2
2e-9,2.0,3.0,0.3
`

func TestReadCSV(t *testing.T) {
	set, err := ReadCSV(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 2 || set.Channels[0].Wavelength != 450 || set.Channels[1].Wavelength != 650 {
		t.Fatalf("channels = %+v", set.Channels)
	}
	if set.Index(650) != 1 || set.Index(532) != -1 {
		t.Error("Index lookup failed")
	}
	s := set.Signals[1]
	if math.Abs(s.Dt-1e-9) > 1e-24 || s.Len() != 3 || s.Data[2] != 3 {
		t.Errorf("signal = %+v", s)
	}
	if !s.HasStdev() || s.Stdev[1] != 0.2 {
		t.Errorf("stdev = %v", s.Stdev)
	}
	if set.Signals[0].HasStdev() {
		t.Error("450 nm has no stdev column")
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name, in string
	}{
		{"no time", "t,450\n0,1\n1,2\n"},
		{"bad wavelength", "time,blue\n0,1\n1,2\n"},
		{"orphan stdev", "time,450,sd_650\n0,1,1\n1,2,1\n"},
		{"too short", "time,450\n0,1\n"},
		{"decreasing", "time,450\n1,1\n0,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.in)); !errors.Is(err, ErrFormat) {
				t.Errorf("expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	set, err := ReadCSV(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, set); err != nil {
		t.Fatal(err)
	}
	again, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := range set.Signals {
		for j, v := range set.Signals[i].Data {
			if again.Signals[i].Data[j] != v {
				t.Errorf("signal %d sample %d: %g != %g", i, j, again.Signals[i].Data[j], v)
			}
		}
	}
}

func TestCorrectedAndAligned(t *testing.T) {
	set := &Set{
		Channels: []Channel{{Wavelength: 450, Calibration: 2}, {Wavelength: 650}},
		Signals:  []*Signal{New(0, 1, []float64{1, 2, 3}), New(0, 2, []float64{1, 2})},
	}
	c := set.Corrected()
	if c.Signals[0].Data[2] != 6 || set.Signals[0].Data[2] != 3 {
		t.Error("Corrected must scale a copy")
	}
	a, err := c.Aligned()
	if err != nil {
		t.Fatal(err)
	}
	if a.Signals[0].Dt != 2 || a.Signals[0].Len() != 2 {
		t.Errorf("aligned timebase = %g/%d", a.Signals[0].Dt, a.Signals[0].Len())
	}
}

func TestFromSamples(t *testing.T) {
	times := []float64{0, 1, 3, 4}
	values := []float64{0, 10, 30, 40}

	s, err := FromSamples(times, values, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 9 {
		t.Fatalf("len = %d, want 9", s.Len())
	}
	for i, v := range s.Data {
		if want := 10 * s.Time(i); math.Abs(v-want) > 1e-12 {
			t.Errorf("sample %d = %g, want %g", i, v, want)
		}
	}

	if _, err := FromSamples(times, values, 0); !errors.Is(err, ErrBadStep) {
		t.Errorf("expected ErrBadStep, got %v", err)
	}
	if _, err := FromSamples(nil, nil, 1); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}
