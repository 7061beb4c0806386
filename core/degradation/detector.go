// Package degradation models battery aging: a streaming half-cycle detector
// extracts cycling stress factors from the SoC trace, and calendar/cyclic
// strategies turn elapsed time and stress factors into capacity and
// resistance deltas.
package degradation

// HalfCycle carries the stress factors of one monotonic SoC excursion
// between two direction reversals.
type HalfCycle struct {
	DepthOfDischarge     float64 // absolute SoC swing in p.u.
	MeanSoC              float64 // average SoC over the half-cycle in p.u.
	CRate                float64 // average rate in 1/h
	FullEquivalentCycles float64 // DepthOfDischarge / 2
}

// HalfCycleDetector is a state machine over a streaming SoC sequence. It
// finalizes a HalfCycle whenever the SoC direction reverses. Samples must
// arrive in strict timestep order; one detector instance serves exactly one
// battery.
type HalfCycleDetector struct {
	startSoC   float64
	prevSoC    float64
	direction  int // +1 charging, -1 discharging, 0 unknown
	elapsed    float64 // seconds of non-rest movement
	socSum     float64
	socSamples int
	totalFEC   float64
	lastCycle  HalfCycle
	hasCycle   bool
}

// NewHalfCycleDetector returns a detector seeded at the given SoC.
func NewHalfCycleDetector(initialSoC float64) *HalfCycleDetector {
	return &HalfCycleDetector{startSoC: initialSoC, prevSoC: initialSoC}
}

// Update feeds one SoC sample of dt seconds and reports whether a half-cycle
// was finalized on this call. Rest samples (unchanged SoC) are ignored: they
// neither count toward elapsed time nor toward the running mean.
func (d *HalfCycleDetector) Update(soc, dt float64) bool {
	delta := soc - d.prevSoC
	if delta == 0 {
		return false
	}

	direction := 1
	if delta < 0 {
		direction = -1
	}

	if d.direction == 0 || direction == d.direction {
		d.direction = direction
		d.elapsed += dt
		d.socSum += (d.prevSoC + soc) / 2
		d.socSamples++
		d.prevSoC = soc
		return false
	}

	// Reversal: the finalized half-cycle spans start SoC to the previous
	// sample; the reversed sample seeds the next one.
	d.lastCycle = d.finalize()
	d.hasCycle = true
	d.totalFEC += d.lastCycle.FullEquivalentCycles

	d.startSoC = d.prevSoC
	d.direction = direction
	d.elapsed = dt
	d.socSum = (d.prevSoC + soc) / 2
	d.socSamples = 1
	d.prevSoC = soc
	return true
}

// LastCycle returns the most recently finalized half-cycle; ok is false
// before the first reversal.
func (d *HalfCycleDetector) LastCycle() (hc HalfCycle, ok bool) {
	return d.lastCycle, d.hasCycle
}

// TotalFEC returns the running sum of all finalized half-cycles' full
// equivalent cycles. It is monotonically non-decreasing.
func (d *HalfCycleDetector) TotalFEC() float64 { return d.totalFEC }

func (d *HalfCycleDetector) finalize() HalfCycle {
	dod := d.prevSoC - d.startSoC
	if dod < 0 {
		dod = -dod
	}
	// Arithmetic mean of the interval midpoints, not a time-weighted
	// integral. Kept as-is for compatibility with reference numbers.
	meanSoC := d.startSoC
	if d.socSamples > 0 {
		meanSoC = d.socSum / float64(d.socSamples)
	}
	cRate := 0.0
	if d.elapsed > 0 {
		cRate = dod / (d.elapsed / 3600)
	}
	return HalfCycle{
		DepthOfDischarge:     dod,
		MeanSoC:              meanSoC,
		CRate:                cRate,
		FullEquivalentCycles: dod / 2,
	}
}
