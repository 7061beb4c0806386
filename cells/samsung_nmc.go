package cells

import (
	"math"

	"github.com/kilianp07/bessim/core/battery"
)

// Samsung94AhNMC models the Samsung SDI 94Ah prismatic NMC cell with a
// sigmoid OCV fit and a constant internal resistance.
type Samsung94AhNMC struct {
	battery.BaseCell
}

// NewSamsung94AhNMC returns the cell model.
func NewSamsung94AhNMC() *Samsung94AhNMC {
	return &Samsung94AhNMC{
		BaseCell: battery.BaseCell{Spec: battery.Ratings{
			Electrical: battery.ElectricalProperties{
				NominalCapacity:   94.0, // Ah
				NominalVoltage:    3.68, // V
				MinVoltage:        2.7,  // V
				MaxVoltage:        4.15, // V
				MaxChargeRate:     2.0,  // 1/h
				MaxDischargeRate:  2.0,  // 1/h
				CoulombEfficiency: 1.0,  // p.u.
			},
			Thermal: battery.ThermalProperties{
				MinTemperature:        233.15, // K
				MaxTemperature:        333.15, // K
				Mass:                  2.1,    // kg
				SpecificHeat:          1000,   // J/(kg*K)
				ConvectionCoefficient: 15,     // W/(m2*K)
			},
			Format: battery.PrismaticFormat(125, 45, 173),
		}},
	}
}

// OpenCircuitVoltage evaluates the OCV fit at the state's SoC.
func (c *Samsung94AhNMC) OpenCircuitVoltage(s *battery.State) float64 {
	const (
		a1 = 3.3479
		a2 = -6.7241
		a3 = 2.5958
		a4 = -61.9684
		b1 = 0.6350
		b2 = 1.4376
		k0 = 4.5868
		k1 = 3.1768
		k2 = -3.8418
		k3 = -4.6932
		k4 = 0.3618
		k5 = 0.9949
	)
	soc := s.SoC
	return k0 +
		k1/(1+math.Exp(a1*(soc-b1))) +
		k2/(1+math.Exp(a2*(soc-b2))) +
		k3/(1+math.Exp(a3*(soc-1))) +
		k4/(1+math.Exp(a4*soc)) +
		k5*soc
}

// InternalResistance returns the beginning-of-life resistance in ohm.
func (c *Samsung94AhNMC) InternalResistance(*battery.State) float64 {
	return 0.75e-3
}
