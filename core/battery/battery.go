package battery

import "math"

// DegradationModel updates the state-of-health fields once per timestep.
// It is invoked with the post-update state.
type DegradationModel interface {
	Update(s *State, dt float64)
}

// Config describes how a Battery is assembled. Zero values fall back to a
// single-cell circuit, the full [0,1] SoC window and beginning-of-life SoH.
type Config struct {
	Circuit     Circuit
	SoCMin      float64
	SoCMax      float64
	StartSoC    float64 // p.u.
	StartTemp   float64 // K
	StartSoHQ   float64 // p.u., defaults to 1
	StartSoHR   float64 // p.u., defaults to 1
	Degradation DegradationModel
}

// Battery owns a mutable State and advances it one timestep at a time.
// Update solves the equivalent-circuit power equation, applies hard current
// limits and optional voltage derating, commits the electrical fields and
// finally delegates to the attached degradation model.
//
// A Battery instance is exclusively owned by a single driving loop; it is
// not safe for concurrent use.
type Battery struct {
	cell        Cell
	circuit     Circuit
	socMin      float64
	socMax      float64
	degradation DegradationModel

	elec   ElectricalProperties
	therm  ThermalProperties
	format Format

	State *State
}

// New assembles a battery around a cell model and primes the state with one
// zero-power evaluation so the OCV, hysteresis and resistance fields are
// populated before the first Update.
func New(cell Cell, cfg Config) *Battery {
	if cfg.Circuit.Serial == 0 && cfg.Circuit.Parallel == 0 {
		cfg.Circuit = Circuit{Serial: 1, Parallel: 1}
	}
	if cfg.SoCMin == 0 && cfg.SoCMax == 0 {
		cfg.SoCMax = 1
	}
	if cfg.StartSoHQ == 0 {
		cfg.StartSoHQ = 1
	}
	if cfg.StartSoHR == 0 {
		cfg.StartSoHR = 1
	}

	r := cell.Ratings()
	b := &Battery{
		cell:        cell,
		circuit:     cfg.Circuit,
		socMin:      cfg.SoCMin,
		socMax:      cfg.SoCMax,
		degradation: cfg.Degradation,
		elec:        r.Electrical,
		therm:       r.Thermal,
		format:      r.Format,
	}

	s := &State{
		SoC:      cfg.StartSoC,
		Temp:     cfg.StartTemp,
		SoHQ:     cfg.StartSoHQ,
		SoHR:     cfg.StartSoHR,
		IsCharge: true,
	}
	s.OCV = b.OpenCircuitVoltage(s)
	s.Hys = b.HysteresisVoltage(s)
	s.Rint = b.InternalResistance(s)
	s.V = s.OCV + s.Hys
	b.State = s
	return b
}

// NewFromRatings assembles a battery sized to a system nominal voltage (V)
// and energy capacity (Wh) instead of an explicit circuit.
func NewFromRatings(cell Cell, voltage, energyCapacity float64, cfg Config) *Battery {
	cfg.Circuit = CircuitForRatings(cell, voltage, energyCapacity)
	return New(cell, cfg)
}

// Update advances the state by one timestep of dt seconds towards the
// requested terminal power in W (positive charges the battery). It never
// fails for finite inputs; a setpoint beyond what the limits allow is
// silently curtailed. dt must be positive and the cell resistance must be
// positive; neither is guarded.
func (b *Battery) Update(powerSetpoint, dt float64) {
	s := b.State

	// Electrical quantities at the committed state, before the SoC moves.
	s.OCV = b.OpenCircuitVoltage(s)
	s.Hys = b.HysteresisVoltage(s)
	s.Rint = b.InternalResistance(s)

	i := b.equilibrium(s, powerSetpoint)
	iMaxCharge, iMaxDischarge := b.currentBounds(s, dt)
	if i > iMaxCharge {
		i = iMaxCharge
	}
	if i < iMaxDischarge {
		i = iMaxDischarge
	}
	i, iMaxCharge, iMaxDischarge = b.derate(s, i, iMaxCharge, iMaxDischarge)

	// Commit. The SoC clamp is defensive: the window limit above already
	// bounds the step, barring floating-point slack.
	soc := s.SoC + i*dt/(3600*b.Capacity(s))
	if soc > b.socMax {
		soc = b.socMax
	}
	if soc < b.socMin {
		soc = b.socMin
	}
	s.SoC = soc
	s.I = i
	if i != 0 {
		s.IsCharge = i > 0
	}
	s.V = s.OCV + s.Hys + s.Rint*i
	s.Power = s.V * i
	s.Loss = s.Rint * i * i
	s.PowerSetpoint = powerSetpoint
	s.IMaxCharge = iMaxCharge
	s.IMaxDischarge = iMaxDischarge

	if b.degradation != nil {
		b.degradation.Update(s, dt)
	}
}

// EquilibriumCurrent returns the current that would be committed for the
// given setpoint after hard limiting, without mutating the state. Derating
// is not applied.
func (b *Battery) EquilibriumCurrent(s *State, powerSetpoint, dt float64) float64 {
	i := b.equilibrium(s, powerSetpoint)
	iMaxCharge, iMaxDischarge := b.currentBounds(s, dt)
	if i > iMaxCharge {
		return iMaxCharge
	}
	if i < iMaxDischarge {
		return iMaxDischarge
	}
	return i
}

// equilibrium solves p = i*(ocv + hys + rint*i) for the root that is
// continuous at p = 0. A zero setpoint short-circuits to exactly zero
// current so a zero equilibrium voltage cannot produce 0/0.
func (b *Battery) equilibrium(s *State, p float64) float64 {
	if p == 0 {
		return 0
	}
	vEq := s.OCV + s.Hys
	disc := vEq*vEq + 4*s.Rint*p
	if disc < 0 {
		// Discharge setpoint beyond the maximum extractable power; the
		// closest achievable operating point is the peak-power current.
		return -vEq / (2 * s.Rint)
	}
	return -(vEq - math.Sqrt(disc)) / (2 * s.Rint)
}

// currentBounds computes the charge (>= 0) and discharge (<= 0) hard limits,
// each the most restrictive of the C-rate limit, the voltage limit and the
// SoC-window limit for this timestep.
func (b *Battery) currentBounds(s *State, dt float64) (iMaxCharge, iMaxDischarge float64) {
	q := b.Capacity(s)
	vEq := s.OCV + s.Hys

	iMaxCharge = b.MaxChargeCurrent()
	if iv := (b.MaxVoltage() - vEq) / s.Rint; iv < iMaxCharge {
		iMaxCharge = iv
	}
	if isoc := (b.socMax - s.SoC) * q * 3600 / dt; isoc < iMaxCharge {
		iMaxCharge = isoc
	}
	if iMaxCharge < 0 {
		iMaxCharge = 0
	}

	iMaxDischarge = -b.MaxDischargeCurrent()
	if iv := (b.MinVoltage() - vEq) / s.Rint; iv > iMaxDischarge {
		iMaxDischarge = iv
	}
	if isoc := (b.socMin - s.SoC) * q * 3600 / dt; isoc > iMaxDischarge {
		iMaxDischarge = isoc
	}
	if iMaxDischarge > 0 {
		iMaxDischarge = 0
	}
	return iMaxCharge, iMaxDischarge
}

// derate applies the optional linear voltage derating to the clamped current.
// The reported bounds are only overwritten when derating actually reduced the
// current, so they reflect the binding constraint.
func (b *Battery) derate(s *State, i, iMaxCharge, iMaxDischarge float64) (float64, float64, float64) {
	v := s.OCV + s.Hys + s.Rint*i

	if i > 0 && b.elec.ChargeDerateVoltage != nil {
		vStart := *b.elec.ChargeDerateVoltage * b.circuit.Serial
		vMax := b.MaxVoltage()
		if v > vStart && vMax > vStart {
			scale := (vMax - v) / (vMax - vStart)
			if scale < 0 {
				scale = 0
			}
			if scale < 1 {
				i *= scale
				if i < iMaxCharge {
					iMaxCharge = i
				}
			}
		}
	}

	if i < 0 && b.elec.DischargeDerateVoltage != nil {
		vStart := *b.elec.DischargeDerateVoltage * b.circuit.Serial
		vMin := b.MinVoltage()
		if v < vStart && vMin < vStart {
			scale := (vMin - v) / (vMin - vStart)
			if scale < 0 {
				scale = 0
			}
			if scale < 1 {
				i *= scale
				if i > iMaxDischarge {
					iMaxDischarge = i
				}
			}
		}
	}
	return i, iMaxCharge, iMaxDischarge
}

// Electrical properties, scaled from the cell to the system level.

// OpenCircuitVoltage returns the system open-circuit voltage in V.
func (b *Battery) OpenCircuitVoltage(s *State) float64 {
	return b.cell.OpenCircuitVoltage(s) * b.circuit.Serial
}

// HysteresisVoltage returns the system hysteresis voltage in V.
func (b *Battery) HysteresisVoltage(s *State) float64 {
	return b.cell.HysteresisVoltage(s) * b.circuit.Serial
}

// InternalResistance returns the SoH-scaled system resistance in ohm.
func (b *Battery) InternalResistance(s *State) float64 {
	return b.cell.InternalResistance(s) * b.circuit.Serial / b.circuit.Parallel * s.SoHR
}

// Capacity returns the SoH-scaled system capacity in Ah.
func (b *Battery) Capacity(s *State) float64 {
	return b.NominalCapacity() * s.SoHQ
}

// NominalCapacity returns the beginning-of-life system capacity in Ah.
func (b *Battery) NominalCapacity() float64 {
	return b.elec.NominalCapacity * b.circuit.Parallel
}

// NominalEnergyCapacity returns the beginning-of-life energy content in Wh.
func (b *Battery) NominalEnergyCapacity() float64 {
	return b.NominalCapacity() * b.NominalVoltage()
}

// NominalVoltage returns the system nominal voltage in V.
func (b *Battery) NominalVoltage() float64 {
	return b.elec.NominalVoltage * b.circuit.Serial
}

// MinVoltage returns the system minimum voltage in V.
func (b *Battery) MinVoltage() float64 {
	return b.elec.MinVoltage * b.circuit.Serial
}

// MaxVoltage returns the system maximum voltage in V.
func (b *Battery) MaxVoltage() float64 {
	return b.elec.MaxVoltage * b.circuit.Serial
}

// MaxChargeCurrent returns the C-rate charge limit in A as a magnitude.
func (b *Battery) MaxChargeCurrent() float64 {
	return b.elec.NominalCapacity * b.elec.MaxChargeRate * b.circuit.Parallel
}

// MaxDischargeCurrent returns the C-rate discharge limit in A as a magnitude.
func (b *Battery) MaxDischargeCurrent() float64 {
	return b.elec.NominalCapacity * b.elec.MaxDischargeRate * b.circuit.Parallel
}

// CoulombEfficiency returns the cell coulomb efficiency in p.u.
func (b *Battery) CoulombEfficiency() float64 {
	return b.elec.CoulombEfficiency
}

// ChargeDerateVoltageStart returns the per-cell charge derate threshold, or
// nil when charge derating is disabled.
func (b *Battery) ChargeDerateVoltageStart() *float64 {
	return b.elec.ChargeDerateVoltage
}

// DischargeDerateVoltageStart returns the per-cell discharge derate
// threshold, or nil when discharge derating is disabled.
func (b *Battery) DischargeDerateVoltageStart() *float64 {
	return b.elec.DischargeDerateVoltage
}

// Power returns the terminal power of the last committed step in W. It lets
// a converter read back how much of its DC request was fulfilled.
func (b *Battery) Power() float64 { return b.State.Power }

// Thermal node contract consumed by the thermal model.

// Temperature returns the current battery temperature in K.
func (b *Battery) Temperature() float64 { return b.State.Temp }

// SetTemperature writes the battery temperature in K. Reserved for the
// thermal model.
func (b *Battery) SetTemperature(t float64) { b.State.Temp = t }

// HeatLoss returns the current heat generation in W.
func (b *Battery) HeatLoss() float64 { return b.State.Loss }

// ThermalCapacity returns the lumped thermal capacity in J/K.
func (b *Battery) ThermalCapacity() float64 {
	return b.therm.SpecificHeat * b.therm.Mass * b.circuit.Serial * b.circuit.Parallel
}

// ThermalResistance returns the lumped convection resistance in K/W.
func (b *Battery) ThermalResistance() float64 {
	return 1 / (b.therm.ConvectionCoefficient * b.Area())
}

// MinTemperature returns the minimum allowed cell temperature in K.
func (b *Battery) MinTemperature() float64 { return b.therm.MinTemperature }

// MaxTemperature returns the maximum allowed cell temperature in K.
func (b *Battery) MaxTemperature() float64 { return b.therm.MaxTemperature }

// Area returns the total outer cell surface in m2.
func (b *Battery) Area() float64 {
	return b.format.Area * b.circuit.Serial * b.circuit.Parallel
}

// Volume returns the total cell volume in m3.
func (b *Battery) Volume() float64 {
	return b.format.Volume * b.circuit.Serial * b.circuit.Parallel
}
