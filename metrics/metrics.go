// Package metrics records simulation step results for observability:
// Prometheus gauges for live scraping and InfluxDB points for time-series
// storage, composable through MultiSink.
package metrics

import "time"

// StepResult is the per-timestep observation emitted by the simulation loop.
type StepResult struct {
	RunID   string
	Step    int
	Elapsed float64 // simulated seconds since start
	Time    time.Time

	SoC           float64 // p.u.
	Voltage       float64 // V
	Current       float64 // A
	Power         float64 // W
	PowerSetpoint float64 // W
	Loss          float64 // W
	SoHQ          float64 // p.u.
	SoHR          float64 // p.u.
	Temp          float64 // K
	TotalFEC      float64

	ConverterPower float64 // W, zero when no converter is configured
	ConverterLoss  float64 // W
}

// Sink records step results for observability purposes.
type Sink interface {
	RecordStep(r StepResult) error
	Close() error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordStep(StepResult) error { return nil }
func (NopSink) Close() error                { return nil }

// MultiSink fans step results out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordStep forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordStep(r StepResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordStep(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all sinks, returning the first error encountered.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
