package degradation

import (
	"math"

	"github.com/kilianp07/bessim/core/battery"
)

// Naumann et al. 2020 cycle aging coefficients for Sony/Murata LFP cells.
const (
	cycAQLoss = 0.0630
	cycBQLoss = 0.0971
	cycCQLoss = 4.0253
	cycDQLoss = 1.0923

	cycARInc = -0.0020
	cycBRInc = 0.0021
	cycCRInc = 6.8477
	cycDRInc = 0.9182
)

// SonyLFPCyclic is the cycle aging law for Sony/Murata LFP cells
// (Naumann 2020). Capacity loss grows with sqrt(FEC) under a linear C-rate
// factor and a cubic DOD factor, with virtual-FEC continuation; resistance
// increase is linear in FEC.
type SonyLFPCyclic struct {
	qLoss float64 // cumulative capacity loss in p.u.
	rInc  float64 // cumulative resistance increase in p.u.
}

// NewSonyLFPCyclic returns a fresh accumulator at beginning of life.
func NewSonyLFPCyclic() *SonyLFPCyclic { return &SonyLFPCyclic{} }

// Update computes the cyclic deltas for one completed half-cycle.
func (c *SonyLFPCyclic) Update(_ *battery.State, hc HalfCycle) (float64, float64) {
	if hc.FullEquivalentCycles == 0 {
		return 0, 0
	}

	kCRateQ := cycAQLoss*hc.CRate + cycBQLoss
	kDODQ := cycCQLoss*math.Pow(hc.DepthOfDischarge-0.6, 3) + cycDQLoss
	stressQ := kCRateQ * kDODQ

	var deltaQ float64
	if stressQ > 0 {
		// The fit expresses loss in percent; the accumulator stays in p.u.
		virtualFEC := (c.qLoss * 100 / stressQ) * (c.qLoss * 100 / stressQ)
		deltaQ = stressQ*math.Sqrt(virtualFEC+hc.FullEquivalentCycles)/100 - c.qLoss
	}
	c.qLoss += deltaQ

	kCRateR := cycARInc*hc.CRate + cycBRInc
	kDODR := cycCRInc*math.Pow(hc.DepthOfDischarge-0.5, 3) + cycDRInc
	deltaR := kCRateR * kDODR * hc.FullEquivalentCycles / 100
	c.rInc += deltaR

	return -deltaQ, deltaR
}

// CapacityLoss returns the cumulative cyclic capacity loss in p.u.
func (c *SonyLFPCyclic) CapacityLoss() float64 { return c.qLoss }

// ResistanceIncrease returns the cumulative resistance increase in p.u.
func (c *SonyLFPCyclic) ResistanceIncrease() float64 { return c.rInc }
