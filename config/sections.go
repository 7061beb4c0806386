package config

import "fmt"

// Cell model names accepted by BatteryConfig.Cell.
const (
	CellSonyLFP        = "sony_lfp"
	CellSamsung94AhNMC = "samsung_nmc"
)

// BatteryConfig sizes the battery and sets its starting state. The circuit
// is given either as explicit serial/parallel counts or derived from a
// system voltage and energy capacity.
type BatteryConfig struct {
	Cell string `json:"cell"`

	Serial   float64 `json:"serial"`
	Parallel float64 `json:"parallel"`
	// Alternative sizing: nominal system voltage (V) and energy capacity (Wh).
	Voltage        float64 `json:"voltage_v"`
	EnergyCapacity float64 `json:"energy_capacity_wh"`

	SoCMin    float64 `json:"soc_min"`
	SoCMax    float64 `json:"soc_max"`
	StartSoC  float64 `json:"start_soc"`
	StartTemp float64 `json:"start_temp_k"`
	StartSoHQ float64 `json:"start_soh_q"`
	StartSoHR float64 `json:"start_soh_r"`

	// Optional per-cell derate-start voltages; omitted disables derating.
	ChargeDerateVoltage    *float64 `json:"charge_derate_voltage_v"`
	DischargeDerateVoltage *float64 `json:"discharge_derate_voltage_v"`
}

func (c *BatteryConfig) SetDefaults() {
	if c.Cell == "" {
		c.Cell = CellSonyLFP
	}
	if c.SoCMin == 0 && c.SoCMax == 0 {
		c.SoCMax = 1
	}
	if c.StartTemp == 0 {
		c.StartTemp = 298.15
	}
	if c.StartSoHQ == 0 {
		c.StartSoHQ = 1
	}
	if c.StartSoHR == 0 {
		c.StartSoHR = 1
	}
}

func (c BatteryConfig) Validate() error {
	if c.Cell != CellSonyLFP && c.Cell != CellSamsung94AhNMC {
		return fmt.Errorf("unknown cell model %q", c.Cell)
	}
	explicit := c.Serial > 0 && c.Parallel > 0
	derived := c.Voltage > 0 && c.EnergyCapacity > 0
	if !explicit && !derived {
		return fmt.Errorf("either serial/parallel or voltage_v/energy_capacity_wh must be set")
	}
	if c.SoCMin < 0 || c.SoCMax > 1 || c.SoCMin >= c.SoCMax {
		return fmt.Errorf("soc window [%v, %v] is invalid", c.SoCMin, c.SoCMax)
	}
	if c.StartSoC < c.SoCMin || c.StartSoC > c.SoCMax {
		return fmt.Errorf("start_soc %v outside window [%v, %v]", c.StartSoC, c.SoCMin, c.SoCMax)
	}
	return nil
}

// Degradation modes.
const (
	DegradationNone     = "none"
	DegradationCalendar = "calendar"
	DegradationCyclic   = "cyclic"
	DegradationFull     = "full"
)

// DegradationConfig selects which aging components run.
type DegradationConfig struct {
	Mode string `json:"mode"`
}

func (c *DegradationConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = DegradationNone
	}
}

func (c DegradationConfig) Validate() error {
	switch c.Mode {
	case DegradationNone, DegradationCalendar, DegradationCyclic, DegradationFull:
		return nil
	}
	return fmt.Errorf("unknown mode %q", c.Mode)
}

// ThermalConfig enables the room thermal model.
type ThermalConfig struct {
	Enabled bool    `json:"enabled"`
	Ambient float64 `json:"ambient_k"`
}

func (c *ThermalConfig) SetDefaults() {
	if c.Ambient == 0 {
		c.Ambient = 298.15
	}
}

// Converter loss model names.
const (
	ConverterFixed    = "fixed"
	ConverterSinamics = "sinamics"
)

// ConverterConfig enables the AC/DC converter in front of the battery.
type ConverterConfig struct {
	Enabled      bool    `json:"enabled"`
	Model        string  `json:"model"`
	MaxPower     float64 `json:"max_power_w"`
	EffCharge    float64 `json:"eff_charge"`
	EffDischarge float64 `json:"eff_discharge"`
}

func (c *ConverterConfig) SetDefaults() {
	if c.Model == "" {
		c.Model = ConverterFixed
	}
	if c.EffCharge == 0 {
		c.EffCharge = 0.95
	}
}

func (c ConverterConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Model != ConverterFixed && c.Model != ConverterSinamics {
		return fmt.Errorf("unknown model %q", c.Model)
	}
	if c.MaxPower <= 0 {
		return fmt.Errorf("max_power_w must be positive")
	}
	if c.EffCharge <= 0 || c.EffCharge > 1 {
		return fmt.Errorf("eff_charge %v out of (0, 1]", c.EffCharge)
	}
	return nil
}

// Power profile types.
const (
	ProfileConstant = "constant"
	ProfileCycle    = "cycle"
	ProfileCSV      = "csv"
)

// ProfileConfig selects the power setpoint sequence driving the run.
type ProfileConfig struct {
	Type string `json:"type"`
	// constant
	Power float64 `json:"power_w"`
	// cycle: alternate charge/discharge every half period
	ChargePower    float64 `json:"charge_power_w"`
	DischargePower float64 `json:"discharge_power_w"`
	HalfPeriod     float64 `json:"half_period_s"`
	// csv schedule
	Path string `json:"path"`
}

// SimConfig sets the timestep grid.
type SimConfig struct {
	DT      float64       `json:"dt_s"`
	Steps   int           `json:"steps"`
	Profile ProfileConfig `json:"profile"`
}

func (c *SimConfig) SetDefaults() {
	if c.DT == 0 {
		c.DT = 60
	}
	if c.Profile.Type == "" {
		c.Profile.Type = ProfileConstant
	}
}

func (c SimConfig) Validate() error {
	if c.DT <= 0 {
		return fmt.Errorf("dt_s must be positive")
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}
	switch c.Profile.Type {
	case ProfileConstant:
	case ProfileCycle:
		if c.Profile.HalfPeriod <= 0 {
			return fmt.Errorf("half_period_s must be positive for a cycle profile")
		}
	case ProfileCSV:
		if c.Profile.Path == "" {
			return fmt.Errorf("path is required for a csv profile")
		}
	default:
		return fmt.Errorf("unknown profile type %q", c.Profile.Type)
	}
	return nil
}

// OutputConfig enables CSV result export. An empty dir disables it.
type OutputConfig struct {
	Dir string `json:"dir"`
}
