// Package cells provides concrete cell models consumed by core/battery.
// Each model combines static ratings with state-dependent open-circuit
// voltage and internal-resistance functions.
package cells

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/kilianp07/bessim/core/battery"
)

//go:embed data/sony_lfp_rint.csv
var sonyLFPRintCSV []byte

// SonyLFP models the Sony/Murata US26650FTC1 LiFePO4 cell. The OCV is a
// 12-parameter sigmoid fit over SoC; the internal resistance comes from
// charge/discharge lookup tables over SoC and temperature.
//
// Ratings and fit from the product specification and Naumann, "Techno-economic
// evaluation of stationary lithium-ion energy storage systems", TU Munich 2018.
type SonyLFP struct {
	battery.BaseCell
	rint *rintTable
}

// NewSonyLFP parses the embedded resistance tables and returns the cell model.
func NewSonyLFP() (*SonyLFP, error) {
	table, err := loadRintTable(sonyLFPRintCSV)
	if err != nil {
		return nil, fmt.Errorf("sony lfp: %w", err)
	}
	return &SonyLFP{
		BaseCell: battery.BaseCell{Spec: battery.Ratings{
			Electrical: battery.ElectricalProperties{
				NominalCapacity:   3.0,  // Ah
				NominalVoltage:    3.2,  // V
				MinVoltage:        2.0,  // V
				MaxVoltage:        3.6,  // V
				MaxChargeRate:     1.0,  // 1/h
				MaxDischargeRate:  6.6,  // 1/h
				CoulombEfficiency: 1.0,  // p.u.
			},
			Thermal: battery.ThermalProperties{
				MinTemperature:        273.15, // K
				MaxTemperature:        333.15, // K
				Mass:                  0.07,   // kg
				SpecificHeat:          1001,   // J/(kg*K)
				ConvectionCoefficient: 15,     // W/(m2*K)
			},
			Format: battery.Round26650(),
		}},
		rint: table,
	}, nil
}

// OpenCircuitVoltage evaluates the OCV fit at the state's SoC.
func (c *SonyLFP) OpenCircuitVoltage(s *battery.State) float64 {
	const (
		a1 = -116.2064
		a2 = -22.4512
		a3 = 358.9072
		a4 = 499.9994
		b1 = -0.1572
		b2 = -0.0944
		k0 = 2.0020
		k1 = -3.3160
		k2 = 4.9996
		k3 = -0.4574
		k4 = -1.3646
		k5 = 0.1251
	)
	soc := s.SoC
	return k0 +
		k1/(1+math.Exp(a1*(soc-b1))) +
		k2/(1+math.Exp(a2*(soc-b2))) +
		k3/(1+math.Exp(a3*(soc-1))) +
		k4/(1+math.Exp(a4*soc)) +
		k5*soc
}

// InternalResistance looks up the beginning-of-life resistance for the
// state's SoC, temperature and current direction.
func (c *SonyLFP) InternalResistance(s *battery.State) float64 {
	return c.rint.at(s.SoC, s.Temp, s.IsCharge)
}
