package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/liisim/internal/sim"
)

type ExportData struct {
	Meta        RunMetadata        `json:"meta"`
	Times       []float64          `json:"times"`
	Temperature []float64          `json:"temperature"`
	Diameter    []float64          `json:"diameter"`
	States      [][]float64        `json:"states,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewExport builds the JSON document for a finished run.
func NewExport(meta RunMetadata, result *sim.Result) ExportData {
	meta.Steps = result.StepsTaken
	meta.Metrics = finite(result.Metrics)
	data := ExportData{
		Meta:        meta,
		Times:       result.Times,
		Temperature: result.Temperature,
		Diameter:    result.Diameter,
		States:      make([][]float64, len(result.States)),
		Metrics:     meta.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	return data
}

// ExportFromTrace builds the JSON document for a stored run.
func ExportFromTrace(meta RunMetadata, trace *Trace) ExportData {
	meta.Metrics = finite(meta.Metrics)
	return ExportData{
		Meta:        meta,
		Times:       trace.Times,
		Temperature: trace.Temperature,
		Diameter:    trace.Diameter,
		Metrics:     meta.Metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
