package converter

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// FixedEfficiency is a loss model with constant charge and discharge
// efficiencies.
type FixedEfficiency struct {
	EffCharge    float64 // p.u.
	EffDischarge float64 // p.u.
}

// NewFixedEfficiency creates a fixed-efficiency model. A zero discharge
// efficiency falls back to the charge efficiency.
func NewFixedEfficiency(effCharge, effDischarge float64) FixedEfficiency {
	if effDischarge == 0 {
		effDischarge = effCharge
	}
	return FixedEfficiency{EffCharge: effCharge, EffDischarge: effDischarge}
}

func (m FixedEfficiency) ACToDC(powerAC float64) float64 {
	if powerAC >= 0 {
		return powerAC * m.EffCharge
	}
	return powerAC / m.EffDischarge
}

func (m FixedEfficiency) DCToAC(powerDC float64) float64 {
	if powerDC >= 0 {
		return powerDC / m.EffCharge
	}
	return powerDC * m.EffDischarge
}

// Sinamics S120 loss fit parameters: constant/activation, linear and
// quadratic loss shares of rated power.
const (
	sinamicsK0 = 0.00601144
	sinamicsK1 = 0.00863612
	sinamicsK2 = 0.01195589
	sinamicsM0 = 97.0
)

// SinamicsS120 models the Siemens Sinamics S120 converter. The closed-form
// loss fit is sampled into piecewise-linear AC<->DC lookup tables spanning
// the full bidirectional power range.
type SinamicsS120 struct {
	maxPower float64
	acToDC   interp.PiecewiseLinear
	dcToAC   interp.PiecewiseLinear
}

// NewSinamicsS120 builds the lookup tables for the given power rating in W.
func NewSinamicsS120(maxPower float64) (*SinamicsS120, error) {
	if maxPower <= 0 {
		return nil, fmt.Errorf("sinamics: max power must be positive, got %v", maxPower)
	}

	const samples = 101
	loss := func(p float64) float64 {
		f := math.Abs(p) / maxPower
		return (sinamicsK0*(1-math.Exp(-sinamicsM0*f)) + sinamicsK1*f + sinamicsK2*f*f) * maxPower
	}

	// 201 knots from -maxPower to +maxPower; loss(0) is exactly zero so the
	// tables pass through the origin.
	in := make([]float64, 0, 2*samples-1)
	out := make([]float64, 0, 2*samples-1)
	for k := -(samples - 1); k <= samples-1; k++ {
		p := maxPower * float64(k) / float64(samples-1)
		in = append(in, p)
		out = append(out, p-loss(p))
	}

	m := &SinamicsS120{maxPower: maxPower}
	if err := m.acToDC.Fit(in, out); err != nil {
		return nil, fmt.Errorf("sinamics: fit ac->dc table: %w", err)
	}
	if err := m.dcToAC.Fit(out, in); err != nil {
		return nil, fmt.Errorf("sinamics: fit dc->ac table: %w", err)
	}
	return m, nil
}

func (m *SinamicsS120) ACToDC(powerAC float64) float64 { return m.acToDC.Predict(powerAC) }

func (m *SinamicsS120) DCToAC(powerDC float64) float64 { return m.dcToAC.Predict(powerDC) }
