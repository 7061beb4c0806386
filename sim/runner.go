// Package sim drives a battery scenario timestep by timestep: profile ->
// converter (optional) -> battery -> thermal (optional), emitting one step
// record per timestep to the configured sinks.
package sim

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/bessim/core/battery"
	"github.com/kilianp07/bessim/core/converter"
	"github.com/kilianp07/bessim/core/degradation"
	"github.com/kilianp07/bessim/core/logger"
	"github.com/kilianp07/bessim/core/thermal"
	"github.com/kilianp07/bessim/metrics"
)

// Runner owns one scenario: a battery, its optional collaborators and the
// setpoint profile.
type Runner struct {
	Battery   *battery.Battery
	Converter *converter.Converter   // optional
	Thermal   *thermal.RoomModel     // optional
	Model     *degradation.Model     // optional, read for total FEC
	Profile   Profile
	DT        float64 // s
	Steps     int
	Sink      metrics.Sink
	Log       logger.Logger

	runID string
}

// Summary aggregates a finished run.
type Summary struct {
	RunID      string
	Steps      int
	Simulated  time.Duration
	FinalSoC   float64
	FinalSoHQ  float64
	FinalSoHR  float64
	FinalTemp  float64
	TotalFEC   float64
	EnergyIn   float64 // Wh absorbed at the battery terminals
	EnergyOut  float64 // Wh delivered at the battery terminals
	EnergyLoss float64 // Wh dissipated in the internal resistance
}

// Run executes the scenario until the step count is reached or the context
// is canceled. Step records are emitted after each timestep; a sink error is
// logged, not fatal.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r.Log == nil {
		r.Log = logger.Nop{}
	}
	if r.Sink == nil {
		r.Sink = metrics.NopSink{}
	}
	r.runID = uuid.NewString()
	r.Log.Infof("run %s: %d steps of %.0fs", r.runID, r.Steps, r.DT)

	start := time.Now()
	var sum Summary
	sum.RunID = r.runID

	for step := 0; step < r.Steps; step++ {
		if err := ctx.Err(); err != nil {
			r.Log.Warnf("run %s canceled after %d steps", r.runID, step)
			return r.finish(sum, step), err
		}

		elapsed := float64(step) * r.DT
		setpoint := r.Profile.Power(elapsed)

		if r.Converter != nil {
			r.Converter.Update(setpoint, r.DT)
		} else {
			r.Battery.Update(setpoint, r.DT)
		}
		if r.Thermal != nil {
			r.Thermal.Update(r.DT)
		}

		s := r.Battery.State
		stepHours := r.DT / 3600
		if s.Power > 0 {
			sum.EnergyIn += s.Power * stepHours
		} else {
			sum.EnergyOut -= s.Power * stepHours
		}
		sum.EnergyLoss += s.Loss * stepHours

		if err := r.Sink.RecordStep(r.record(step, elapsed+r.DT, setpoint, start)); err != nil {
			r.Log.Errorf("record step %d: %v", step, err)
		}
	}
	return r.finish(sum, r.Steps), nil
}

func (r *Runner) record(step int, elapsed, setpoint float64, start time.Time) metrics.StepResult {
	s := r.Battery.State
	rec := metrics.StepResult{
		RunID:         r.runID,
		Step:          step,
		Elapsed:       elapsed,
		Time:          start.Add(time.Duration(elapsed * float64(time.Second))),
		SoC:           s.SoC,
		Voltage:       s.V,
		Current:       s.I,
		Power:         s.Power,
		PowerSetpoint: setpoint,
		Loss:          s.Loss,
		SoHQ:          s.SoHQ,
		SoHR:          s.SoHR,
		Temp:          s.Temp,
	}
	if r.Model != nil {
		rec.TotalFEC = r.Model.Detector().TotalFEC()
	}
	if r.Converter != nil {
		rec.ConverterPower = r.Converter.State.Power
		rec.ConverterLoss = r.Converter.State.Loss
	}
	return rec
}

func (r *Runner) finish(sum Summary, steps int) Summary {
	s := r.Battery.State
	sum.Steps = steps
	sum.Simulated = time.Duration(float64(steps) * r.DT * float64(time.Second))
	sum.FinalSoC = s.SoC
	sum.FinalSoHQ = s.SoHQ
	sum.FinalSoHR = s.SoHR
	sum.FinalTemp = s.Temp
	if r.Model != nil {
		sum.TotalFEC = r.Model.Detector().TotalFEC()
	}
	r.Log.Infof("run %s finished: soc=%.4f soh_q=%.6f soh_r=%.6f fec=%.3f",
		r.runID, sum.FinalSoC, sum.FinalSoHQ, sum.FinalSoHR, sum.TotalFEC)
	return sum
}
