package battery

import "math"

// ElectricalProperties holds the static electrical ratings of a single cell.
type ElectricalProperties struct {
	NominalCapacity   float64 // Ah
	NominalVoltage    float64 // V
	MinVoltage        float64 // V
	MaxVoltage        float64 // V
	MaxChargeRate     float64 // 1/h (C-rate)
	MaxDischargeRate  float64 // 1/h (C-rate)
	SelfDischargeRate float64 // p.u. SoC loss per day
	CoulombEfficiency float64 // p.u.

	// ChargeDerateVoltage and DischargeDerateVoltage enable linear current
	// derating once the cell terminal voltage crosses the threshold. A nil
	// value disables derating on that side.
	ChargeDerateVoltage    *float64 // V per cell
	DischargeDerateVoltage *float64 // V per cell
}

// ThermalProperties holds the static thermal ratings of a single cell.
type ThermalProperties struct {
	MinTemperature        float64 // K
	MaxTemperature        float64 // K
	Mass                  float64 // kg
	SpecificHeat          float64 // J/(kg*K)
	ConvectionCoefficient float64 // W/(m2*K)
}

// Format describes the outer geometry of a single cell.
type Format struct {
	Volume float64 // m3
	Area   float64 // m2
}

// PrismaticFormat computes the geometry of a rectangular cell.
// Dimensions are in mm.
func PrismaticFormat(height, width, length float64) Format {
	return Format{
		Volume: height * width * length * 1e-9,
		Area:   2 * (length*height + length*width + width*height) * 1e-6,
	}
}

// RoundFormat computes the geometry of a cylindrical cell.
// Dimensions are in mm.
func RoundFormat(diameter, length float64) Format {
	r := diameter / 2
	return Format{
		Volume: math.Pi * r * r * length * 1e-9,
		Area:   (math.Pi*diameter*length + math.Pi*r*r) * 1e-6,
	}
}

// Round18650 returns the geometry of an 18650 cell.
func Round18650() Format { return RoundFormat(18, 65) }

// Round26650 returns the geometry of a 26650 cell.
func Round26650() Format { return RoundFormat(26, 65) }

// Ratings bundles the static properties of a cell model.
type Ratings struct {
	Electrical ElectricalProperties
	Thermal    ThermalProperties
	Format     Format
}

// Cell is the capability contract a battery consumes from a concrete cell
// model. The voltage and resistance methods are functions of the current
// state (SoC, temperature, current direction) and return single-cell
// quantities; InternalResistance returns the beginning-of-life value before
// SoH scaling.
type Cell interface {
	Ratings() Ratings
	OpenCircuitVoltage(s *State) float64
	HysteresisVoltage(s *State) float64
	InternalResistance(s *State) float64
}

// BaseCell carries a cell model's static ratings and provides the default
// zero hysteresis voltage. Concrete cell models embed it.
type BaseCell struct {
	Spec Ratings
}

func (c BaseCell) Ratings() Ratings { return c.Spec }

// HysteresisVoltage is zero unless the concrete model overrides it.
func (c BaseCell) HysteresisVoltage(*State) float64 { return 0 }
