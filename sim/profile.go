package sim

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// Profile yields the AC power setpoint in W for a given elapsed simulation
// time in seconds.
type Profile interface {
	Power(elapsed float64) float64
}

// ConstantProfile requests the same power on every step.
type ConstantProfile float64

func (p ConstantProfile) Power(float64) float64 { return float64(p) }

// CycleProfile alternates between a charge and a discharge setpoint every
// half period. It reproduces the classic charge/discharge endurance pattern.
type CycleProfile struct {
	ChargePower    float64 // W
	DischargePower float64 // W, negative discharges
	HalfPeriod     float64 // s
}

func (p CycleProfile) Power(elapsed float64) float64 {
	if int(elapsed/p.HalfPeriod)%2 == 0 {
		return p.ChargePower
	}
	return p.DischargePower
}

// scheduleRow is one segment of a CSV schedule: the setpoint applies while
// elapsed < Until.
type scheduleRow struct {
	Until float64 `csv:"until_s"`
	Power float64 `csv:"power_w"`
}

// ScheduleProfile is a piecewise-constant setpoint sequence loaded from a
// CSV schedule. Past the last segment the setpoint is zero (rest).
type ScheduleProfile struct {
	segments []scheduleRow
}

// LoadScheduleProfile reads a schedule CSV with columns until_s,power_w.
// Segments must be ordered by ascending until_s.
func LoadScheduleProfile(path string) (*ScheduleProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()

	var rows []scheduleRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("schedule %s is empty", path)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Until <= rows[i-1].Until {
			return nil, fmt.Errorf("schedule %s is not ordered at row %d", path, i)
		}
	}
	return &ScheduleProfile{segments: rows}, nil
}

func (p *ScheduleProfile) Power(elapsed float64) float64 {
	for _, seg := range p.segments {
		if elapsed < seg.Until {
			return seg.Power
		}
	}
	return 0
}
