package signal

import (
	"fmt"
	"math"
	"sort"
)

// Channel is one detector of a multi-wavelength LII setup.
type Channel struct {
	Wavelength  int     `yaml:"wavelength" json:"wavelength"` // nm
	Bandwidth   int     `yaml:"bandwidth" json:"bandwidth"`   // full width, nm
	Calibration float64 `yaml:"calibration" json:"calibration"`
	PMTGain     float64 `yaml:"pmt_gain" json:"pmt_gain"`
	Offset      float64 `yaml:"offset" json:"offset"`
}

// HalfBandwidth is the integration half-width in nm.
func (c Channel) HalfBandwidth() int { return c.Bandwidth / 2 }

// Correct converts a raw detector value to a calibrated intensity:
// (v - offset) * calibration / gain. Zero calibration or gain count as 1.
func (c Channel) Correct(v float64) float64 {
	cal, gain := c.Calibration, c.PMTGain
	if cal == 0 {
		cal = 1
	}
	if gain == 0 {
		gain = 1
	}
	return (v - c.Offset) * cal / gain
}

func (c Channel) String() string {
	return fmt.Sprintf("%d nm", c.Wavelength)
}

// Filter is an optical filter transmission table keyed by wavelength in nm.
type Filter struct {
	Name         string          `yaml:"name"`
	Transmission map[int]float64 `yaml:"transmission"`

	keys []int
}

func NewFilter(name string, transmission map[int]float64) *Filter {
	f := &Filter{Name: name, Transmission: transmission}
	f.keys = sortedKeys(transmission)
	return f
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// At returns the transmission at wl, linearly interpolated between table
// entries and held constant beyond the ends. A nil or empty filter
// transmits everything.
func (f *Filter) At(wl float64) float64 {
	if f == nil || len(f.Transmission) == 0 {
		return 1
	}
	keys := f.keys
	if len(keys) != len(f.Transmission) {
		keys = sortedKeys(f.Transmission)
	}
	if wl <= float64(keys[0]) {
		return f.Transmission[keys[0]]
	}
	last := keys[len(keys)-1]
	if wl >= float64(last) {
		return f.Transmission[last]
	}
	i := sort.Search(len(keys), func(i int) bool { return float64(keys[i]) >= wl })
	lo, hi := keys[i-1], keys[i]
	t := (wl - float64(lo)) / float64(hi-lo)
	return f.Transmission[lo] + t*(f.Transmission[hi]-f.Transmission[lo])
}

// Set is a measurement: one signal per channel, in channel order.
type Set struct {
	Channels []Channel
	Signals  []*Signal
}

func (s *Set) Len() int { return len(s.Channels) }

// Index returns the position of the channel at wavelength wl, or -1.
func (s *Set) Index(wl int) int {
	for i, c := range s.Channels {
		if c.Wavelength == wl {
			return i
		}
	}
	return -1
}

// Corrected returns a copy with every channel's correction applied.
func (s *Set) Corrected() *Set {
	out := &Set{Channels: append([]Channel(nil), s.Channels...), Signals: make([]*Signal, len(s.Signals))}
	for i, sig := range s.Signals {
		c := sig.Clone()
		ch := s.Channels[i]
		for j, v := range c.Data {
			c.Data[j] = ch.Correct(v)
		}
		if c.Stdev != nil {
			f := ch.Correct(1) - ch.Correct(0)
			for j := range c.Stdev {
				c.Stdev[j] *= math.Abs(f)
			}
		}
		out.Signals[i] = c
	}
	return out
}

// Aligned returns a copy whose signals share one timebase.
func (s *Set) Aligned() (*Set, error) {
	sigs, err := Align(s.Signals...)
	if err != nil {
		return nil, err
	}
	return &Set{Channels: append([]Channel(nil), s.Channels...), Signals: sigs}, nil
}
