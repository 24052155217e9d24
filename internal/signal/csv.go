package signal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrFormat = errors.New("signal: malformed csv")

const stdevPrefix = "sd_"

// ReadCSV parses a measurement with header `time,<nm>,<nm>,...` and
// optional `sd_<nm>` columns holding the per-sample standard deviation of
// the channel with that wavelength. Times must be uniformly spaced.
func ReadCSV(r io.Reader) (*Set, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 3 {
		return nil, fmt.Errorf("%w: need a header and at least two rows", ErrFormat)
	}

	header := records[0]
	if !strings.EqualFold(header[0], "time") {
		return nil, fmt.Errorf("%w: first column must be time, got %q", ErrFormat, header[0])
	}

	set := &Set{}
	dataCol := map[int]int{}
	sdCol := map[int]int{}
	for col, name := range header[1:] {
		name = strings.TrimSpace(name)
		isSD := strings.HasPrefix(name, stdevPrefix)
		wl, err := strconv.Atoi(strings.TrimPrefix(name, stdevPrefix))
		if err != nil || wl <= 0 {
			return nil, fmt.Errorf("%w: column %q is not a wavelength", ErrFormat, name)
		}
		if isSD {
			sdCol[wl] = col + 1
			continue
		}
		if _, dup := dataCol[wl]; dup {
			return nil, fmt.Errorf("%w: duplicate channel %d nm", ErrFormat, wl)
		}
		dataCol[wl] = col + 1
		set.Channels = append(set.Channels, Channel{Wavelength: wl, Calibration: 1, PMTGain: 1})
	}
	if len(set.Channels) == 0 {
		return nil, fmt.Errorf("%w: no channel columns", ErrFormat)
	}
	for wl := range sdCol {
		if _, ok := dataCol[wl]; !ok {
			return nil, fmt.Errorf("%w: %s%d without channel", ErrFormat, stdevPrefix, wl)
		}
	}

	rows := records[1:]
	times := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, want %d", ErrFormat, i+2, len(row), len(header))
		}
		if times[i], err = strconv.ParseFloat(strings.TrimSpace(row[0]), 64); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrFormat, i+2, err)
		}
	}
	dt := (times[len(times)-1] - times[0]) / float64(len(times)-1)
	if dt <= 0 {
		return nil, fmt.Errorf("%w: times must increase", ErrFormat)
	}

	for _, ch := range set.Channels {
		sig := &Signal{Start: times[0], Dt: dt, Data: make([]float64, len(rows))}
		sdIdx, hasSD := sdCol[ch.Wavelength]
		if hasSD {
			sig.Stdev = make([]float64, len(rows))
		}
		for i, row := range rows {
			if sig.Data[i], err = parseField(row[dataCol[ch.Wavelength]]); err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrFormat, i+2, err)
			}
			if hasSD {
				if sig.Stdev[i], err = parseField(row[sdIdx]); err != nil {
					return nil, fmt.Errorf("%w: row %d: %v", ErrFormat, i+2, err)
				}
			}
		}
		set.Signals = append(set.Signals, sig)
	}
	return set, nil
}

func parseField(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func ReadCSVFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes the set in the format ReadCSV accepts. Signals must share
// a timebase.
func WriteCSV(w io.Writer, set *Set) error {
	names := make([]string, len(set.Channels))
	for i, ch := range set.Channels {
		names[i] = strconv.Itoa(ch.Wavelength)
	}
	return WriteColumns(w, names, set.Signals)
}

// WriteColumns writes a time column followed by one column per signal and
// an sd_ column for every signal with a standard deviation. The timebase of
// the first signal is used.
func WriteColumns(w io.Writer, names []string, sigs []*Signal) error {
	if len(sigs) == 0 || len(names) != len(sigs) {
		return fmt.Errorf("%w: %d names for %d signals", ErrFormat, len(names), len(sigs))
	}
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, names...)
	for i, s := range sigs {
		if s.HasStdev() {
			header = append(header, stdevPrefix+names[i])
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	base := sigs[0]
	for i := 0; i < base.Len(); i++ {
		row := []string{strconv.FormatFloat(base.Time(i), 'g', -1, 64)}
		for _, s := range sigs {
			row = append(row, formatAt(s.Data, i))
		}
		for _, s := range sigs {
			if s.HasStdev() {
				row = append(row, formatAt(s.Stdev, i))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatAt(v []float64, i int) string {
	if i >= len(v) {
		return "0"
	}
	return strconv.FormatFloat(v[i], 'g', -1, 64)
}
