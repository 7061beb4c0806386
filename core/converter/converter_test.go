package converter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perfectStorage absorbs any DC request exactly.
type perfectStorage struct {
	setpoint float64
}

func (s *perfectStorage) Update(p, _ float64) { s.setpoint = p }
func (s *perfectStorage) Power() float64      { return s.setpoint }

// cappedStorage curtails the DC request to a fixed magnitude.
type cappedStorage struct {
	cap   float64
	power float64
}

func (s *cappedStorage) Update(p, _ float64) {
	s.power = math.Min(math.Max(p, -s.cap), s.cap)
}
func (s *cappedStorage) Power() float64 { return s.power }

func TestConverterClampsToRating(t *testing.T) {
	st := &perfectStorage{}
	c := New(NewFixedEfficiency(0.95, 0.95), 1000, st)

	c.Update(5000, 60)
	assert.InDelta(t, 1000.0, c.State.Power, 1e-9)
	assert.InDelta(t, 1000*0.95, st.setpoint, 1e-9)

	c.Update(-5000, 60)
	assert.InDelta(t, -1000.0, c.State.Power, 1e-9)
	assert.InDelta(t, -1000/0.95, st.setpoint, 1e-9)
}

func TestConverterChargeLoss(t *testing.T) {
	st := &perfectStorage{}
	c := New(NewFixedEfficiency(0.9, 0.9), 10000, st)

	c.Update(1000, 60)
	assert.InDelta(t, 1000.0, c.State.Power, 1e-9)
	assert.InDelta(t, 900.0, st.setpoint, 1e-9)
	assert.InDelta(t, 100.0, c.State.Loss, 1e-9)
}

func TestConverterDischargeLoss(t *testing.T) {
	st := &perfectStorage{}
	c := New(NewFixedEfficiency(0.9, 0.9), 10000, st)

	// Delivering 900 W AC requires pulling 1000 W DC from the storage.
	c.Update(-900, 60)
	assert.InDelta(t, -900.0, c.State.Power, 1e-9)
	assert.InDelta(t, -1000.0, st.setpoint, 1e-9)
	assert.InDelta(t, 100.0, c.State.Loss, 1e-9)
}

func TestConverterZeroSetpoint(t *testing.T) {
	st := &perfectStorage{}
	c := New(NewFixedEfficiency(0.95, 0.95), 1000, st)

	c.Update(0, 60)
	assert.Zero(t, c.State.Power)
	assert.Zero(t, c.State.Loss)
}

func TestConverterCurtailmentFeedback(t *testing.T) {
	st := &cappedStorage{cap: 450}
	c := New(NewFixedEfficiency(0.9, 0.9), 10000, st)

	// 1000 W AC maps to 900 W DC but the storage absorbs only 450 W, so the
	// AC side is recomputed from what was actually absorbed.
	c.Update(1000, 60)
	assert.InDelta(t, 450.0, st.power, 1e-9)
	assert.InDelta(t, 450/0.9, c.State.Power, 1e-9)
	assert.InDelta(t, c.State.Power-450, c.State.Loss, 1e-9)
	assert.Equal(t, 1000.0, c.State.PowerSetpoint)
}

func TestConverterSmallDeviationKept(t *testing.T) {
	st := &cappedStorage{cap: 895.5} // 0.5% below the 900 W request
	c := New(NewFixedEfficiency(0.9, 0.9), 10000, st)

	c.Update(1000, 60)
	assert.InDelta(t, 1000.0, c.State.Power, 1e-9)
}

func TestFixedEfficiencyRoundTrip(t *testing.T) {
	m := NewFixedEfficiency(0.93, 0.97)
	for _, p := range []float64{-5000, -1, 0, 1, 5000} {
		assert.InDelta(t, p, m.DCToAC(m.ACToDC(p)), 1e-9)
	}
}

func TestFixedEfficiencyDischargeFallback(t *testing.T) {
	m := NewFixedEfficiency(0.9, 0)
	assert.Equal(t, 0.9, m.EffDischarge)
}

func TestSinamicsRejectsNonPositiveRating(t *testing.T) {
	_, err := NewSinamicsS120(0)
	assert.Error(t, err)
	_, err = NewSinamicsS120(-100)
	assert.Error(t, err)
}

func TestSinamicsZeroPower(t *testing.T) {
	m, err := NewSinamicsS120(10000)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, m.ACToDC(0), 1e-9)
	assert.InDelta(t, 0.0, m.DCToAC(0), 1e-9)
}

func TestSinamicsLossy(t *testing.T) {
	m, err := NewSinamicsS120(10000)
	require.NoError(t, err)

	// Charging: less DC comes out than AC goes in.
	dc := m.ACToDC(5000)
	assert.Less(t, dc, 5000.0)
	assert.Greater(t, dc, 4000.0)

	// Discharging: more DC must be drawn than AC is delivered.
	dc = m.ACToDC(-5000)
	assert.Less(t, dc, -5000.0)
}

func TestSinamicsRoundTrip(t *testing.T) {
	m, err := NewSinamicsS120(10000)
	require.NoError(t, err)
	for _, p := range []float64{-9000, -2500, -100, 100, 2500, 9000} {
		assert.InDelta(t, p, m.DCToAC(m.ACToDC(p)), 1.0)
	}
}

func TestSinamicsEfficiencyImprovesWithLoad(t *testing.T) {
	m, err := NewSinamicsS120(10000)
	require.NoError(t, err)

	// The activation term dominates at low load, so relative losses shrink
	// as the load grows toward roughly half rating.
	lowEff := m.ACToDC(500) / 500
	midEff := m.ACToDC(5000) / 5000
	assert.Greater(t, midEff, lowEff)
}
