// Package storage keeps simulation runs on disk, one directory per run
// holding metadata.json and data.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/liisim/internal/config"
	"github.com/san-kum/liisim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	dataFile     = "data.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Model          string             `json:"model"`
	State          string             `json:"state"`
	Material       string             `json:"material"`
	Mixture        string             `json:"gas_mixture"`
	Timestamp      time.Time          `json:"timestamp"`
	Dt             float64            `json:"dt"`
	Duration       float64            `json:"duration"`
	Adaptive       bool               `json:"adaptive"`
	Integrator     string             `json:"integrator"`
	Pressure       float64            `json:"pressure"`
	GasTemperature float64            `json:"gas_temperature"`
	Temperature    float64            `json:"initial_temperature"`
	Diameter       float64            `json:"initial_diameter"`
	Steps          int                `json:"steps"`
	Metrics        map[string]float64 `json:"metrics"`
	Errors         []string           `json:"errors,omitempty"`
}

// NewRunMetadata fills the configuration part of the metadata.
func NewRunMetadata(cfg *config.Config) RunMetadata {
	return RunMetadata{
		Model:          cfg.Model,
		State:          cfg.State,
		Material:       cfg.Material,
		Mixture:        cfg.Mixture,
		Dt:             cfg.Dt,
		Duration:       cfg.Duration,
		Adaptive:       cfg.Adaptive,
		Integrator:     cfg.Integrator,
		Pressure:       cfg.Process.Pressure,
		GasTemperature: cfg.Process.GasTemperature,
		Temperature:    cfg.InitState.Temperature,
		Diameter:       cfg.InitState.Diameter,
	}
}

// Trace is the recorded time series of one run.
type Trace struct {
	Times       []float64
	Temperature []float64
	Diameter    []float64
}

func (t *Trace) Len() int { return len(t.Times) }

// finite drops metrics JSON cannot encode, such as a cooling time that was
// never reached.
func finite(metrics map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	for k, v := range metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Save writes result under a fresh run ID, filling the ID, timestamp,
// step count, metrics and errors of meta.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now()
	meta.Steps = result.StepsTaken
	meta.Metrics = finite(result.Metrics)
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, dataFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"time", "temperature", "diameter"}); err != nil {
		return "", err
	}
	for i := range result.Times {
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(result.Temperature[i]),
			formatFloat(result.Diameter[i]),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace reads data.csv of a run. Unparseable rows are skipped.
func (s *Store) LoadTrace(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, dataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	trace := &Trace{}
	if len(records) < 2 {
		return trace, nil
	}

	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		var vals [3]float64
		ok := true
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		trace.Times = append(trace.Times, vals[0])
		trace.Temperature = append(trace.Temperature, vals[1])
		trace.Diameter = append(trace.Diameter, vals[2])
	}

	return trace, nil
}
