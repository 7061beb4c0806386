// Package export writes simulation results to disk.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/kilianp07/bessim/metrics"
)

// stepRow is the CSV projection of a step result.
type stepRow struct {
	Step          int     `csv:"step"`
	Elapsed       float64 `csv:"elapsed_s"`
	SoC           float64 `csv:"soc"`
	Voltage       float64 `csv:"voltage_v"`
	Current       float64 `csv:"current_a"`
	Power         float64 `csv:"power_w"`
	PowerSetpoint float64 `csv:"power_setpoint_w"`
	Loss          float64 `csv:"loss_w"`
	SoHQ          float64 `csv:"soh_q"`
	SoHR          float64 `csv:"soh_r"`
	Temp          float64 `csv:"temperature_k"`
	TotalFEC      float64 `csv:"total_fec"`
}

// CSVWriter streams step results to <dir>/steps.csv, writing the header once.
// It satisfies metrics.Sink so it can be composed with the other sinks.
type CSVWriter struct {
	file          *os.File
	headerWritten bool
}

// NewCSVWriter creates the output directory and opens the results file.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "steps.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating steps.csv: %w", err)
	}
	return &CSVWriter{file: f}, nil
}

// RecordStep appends one row, emitting the header on the first write.
func (w *CSVWriter) RecordStep(r metrics.StepResult) error {
	rows := []stepRow{{
		Step:          r.Step,
		Elapsed:       r.Elapsed,
		SoC:           r.SoC,
		Voltage:       r.Voltage,
		Current:       r.Current,
		Power:         r.Power,
		PowerSetpoint: r.PowerSetpoint,
		Loss:          r.Loss,
		SoHQ:          r.SoHQ,
		SoHR:          r.SoHR,
		Temp:          r.Temp,
		TotalFEC:      r.TotalFEC,
	}}
	if !w.headerWritten {
		if err := gocsv.Marshal(rows, w.file); err != nil {
			return fmt.Errorf("writing steps: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, w.file); err != nil {
		return fmt.Errorf("writing steps: %w", err)
	}
	return nil
}

// Close closes the results file.
func (w *CSVWriter) Close() error { return w.file.Close() }
