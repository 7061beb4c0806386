package degradation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarSigns(t *testing.T) {
	cal := NewSonyLFPCalendar()
	s := newState(0.5)

	dq, dr := cal.Update(s, 24*3600)
	assert.Less(t, dq, 0.0)
	assert.Greater(t, dr, 0.0)
	assert.Greater(t, cal.CapacityLoss(), 0.0)
	assert.Greater(t, cal.ResistanceIncrease(), 0.0)
}

func TestCalendarZeroDT(t *testing.T) {
	cal := NewSonyLFPCalendar()
	dq, dr := cal.Update(newState(0.5), 0)
	assert.Zero(t, dq)
	assert.Zero(t, dr)
	assert.Zero(t, cal.CapacityLoss())
}

func TestCalendarSqrtLaw(t *testing.T) {
	// Under constant stress, quadrupling the elapsed time doubles the loss.
	s := newState(0.5)

	a := NewSonyLFPCalendar()
	a.Update(s, 30*24*3600)

	b := NewSonyLFPCalendar()
	b.Update(s, 4*30*24*3600)

	assert.InEpsilon(t, 2.0, b.CapacityLoss()/a.CapacityLoss(), 0.01)
}

func TestCalendarSubstepContinuity(t *testing.T) {
	// Splitting an interval into many substeps must accumulate the same loss
	// as one big step; that is the point of the virtual-time continuation.
	s := newState(0.5)
	const total = 100 * 24 * 3600.0

	one := NewSonyLFPCalendar()
	one.Update(s, total)

	many := NewSonyLFPCalendar()
	for range 100 {
		many.Update(s, total/100)
	}

	assert.InEpsilon(t, one.CapacityLoss(), many.CapacityLoss(), 0.02)
	assert.InEpsilon(t, one.ResistanceIncrease(), many.ResistanceIncrease(), 0.02)
}

func TestCalendarTemperatureAcceleration(t *testing.T) {
	cold := NewSonyLFPCalendar()
	sc := newState(0.5)
	sc.Temp = 288.15
	cold.Update(sc, 24*3600)

	hot := NewSonyLFPCalendar()
	sh := newState(0.5)
	sh.Temp = 318.15
	hot.Update(sh, 24*3600)

	assert.Greater(t, hot.CapacityLoss(), cold.CapacityLoss())
}

func TestCalendarSoCDependence(t *testing.T) {
	low := NewSonyLFPCalendar()
	low.Update(newState(0.2), 24*3600)

	high := NewSonyLFPCalendar()
	high.Update(newState(1.0), 24*3600)

	// The cubic SoC factor makes storage at full charge age faster.
	assert.Greater(t, high.CapacityLoss(), low.CapacityLoss())
}

func TestCyclicSigns(t *testing.T) {
	cyc := NewSonyLFPCyclic()
	hc := HalfCycle{DepthOfDischarge: 0.8, MeanSoC: 0.5, CRate: 1.0, FullEquivalentCycles: 0.4}

	dq, dr := cyc.Update(newState(0.5), hc)
	assert.Less(t, dq, 0.0)
	assert.Greater(t, dr, 0.0)
}

func TestCyclicZeroFEC(t *testing.T) {
	cyc := NewSonyLFPCyclic()
	dq, dr := cyc.Update(newState(0.5), HalfCycle{})
	assert.Zero(t, dq)
	assert.Zero(t, dr)
	assert.Zero(t, cyc.CapacityLoss())
}

func TestCyclicSqrtLaw(t *testing.T) {
	// Quadrupling the cycled throughput doubles the loss under constant
	// stress factors.
	hc := HalfCycle{DepthOfDischarge: 0.8, CRate: 1.0, FullEquivalentCycles: 0.4}
	s := newState(0.5)

	a := NewSonyLFPCyclic()
	for range 100 {
		a.Update(s, hc)
	}

	b := NewSonyLFPCyclic()
	for range 400 {
		b.Update(s, hc)
	}

	require.Greater(t, a.CapacityLoss(), 0.0)
	assert.InEpsilon(t, 2.0, b.CapacityLoss()/a.CapacityLoss(), 0.01)
}

func TestCyclicDODDependence(t *testing.T) {
	s := newState(0.5)

	shallow := NewSonyLFPCyclic()
	// Same throughput in shallow cycles.
	for range 8 {
		shallow.Update(s, HalfCycle{DepthOfDischarge: 0.1, CRate: 1.0, FullEquivalentCycles: 0.05})
	}

	deep := NewSonyLFPCyclic()
	deep.Update(s, HalfCycle{DepthOfDischarge: 0.8, CRate: 1.0, FullEquivalentCycles: 0.4})

	assert.Greater(t, deep.CapacityLoss(), shallow.CapacityLoss())
}

func TestCyclicCRateDependence(t *testing.T) {
	s := newState(0.5)
	slow := NewSonyLFPCyclic()
	slow.Update(s, HalfCycle{DepthOfDischarge: 0.5, CRate: 0.5, FullEquivalentCycles: 0.25})

	fast := NewSonyLFPCyclic()
	fast.Update(s, HalfCycle{DepthOfDischarge: 0.5, CRate: 2.0, FullEquivalentCycles: 0.25})

	assert.Greater(t, fast.CapacityLoss(), slow.CapacityLoss())
}

func TestCyclicResistanceLinearInFEC(t *testing.T) {
	hc := HalfCycle{DepthOfDischarge: 0.6, CRate: 1.0, FullEquivalentCycles: 0.3}
	s := newState(0.5)

	a := NewSonyLFPCyclic()
	a.Update(s, hc)

	b := NewSonyLFPCyclic()
	for range 3 {
		b.Update(s, hc)
	}

	assert.InEpsilon(t, 3.0, b.ResistanceIncrease()/a.ResistanceIncrease(), 1e-9)
}
