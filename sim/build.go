package sim

import (
	"fmt"

	"github.com/kilianp07/bessim/cells"
	"github.com/kilianp07/bessim/config"
	"github.com/kilianp07/bessim/core/battery"
	"github.com/kilianp07/bessim/core/converter"
	"github.com/kilianp07/bessim/core/degradation"
	"github.com/kilianp07/bessim/core/logger"
	"github.com/kilianp07/bessim/core/thermal"
	"github.com/kilianp07/bessim/metrics"
)

// Build assembles a Runner from a validated configuration.
func Build(cfg *config.Config, sink metrics.Sink, log logger.Logger) (*Runner, error) {
	cell, err := buildCell(cfg.Battery)
	if err != nil {
		return nil, err
	}

	var model *degradation.Model
	switch cfg.Degradation.Mode {
	case config.DegradationCalendar:
		model = degradation.CalendarOnly(degradation.NewSonyLFPCalendar(), cfg.Battery.StartSoC)
	case config.DegradationCyclic:
		model = degradation.CyclicOnly(degradation.NewSonyLFPCyclic(), cfg.Battery.StartSoC)
	case config.DegradationFull:
		model = degradation.NewModel(degradation.NewSonyLFPCalendar(), degradation.NewSonyLFPCyclic(), cfg.Battery.StartSoC)
	}

	bcfg := battery.Config{
		SoCMin:    cfg.Battery.SoCMin,
		SoCMax:    cfg.Battery.SoCMax,
		StartSoC:  cfg.Battery.StartSoC,
		StartTemp: cfg.Battery.StartTemp,
		StartSoHQ: cfg.Battery.StartSoHQ,
		StartSoHR: cfg.Battery.StartSoHR,
	}
	if model != nil {
		bcfg.Degradation = model
	}

	var bat *battery.Battery
	if cfg.Battery.Serial > 0 && cfg.Battery.Parallel > 0 {
		bcfg.Circuit = battery.Circuit{Serial: cfg.Battery.Serial, Parallel: cfg.Battery.Parallel}
		bat = battery.New(cell, bcfg)
	} else {
		bat = battery.NewFromRatings(cell, cfg.Battery.Voltage, cfg.Battery.EnergyCapacity, bcfg)
	}

	r := &Runner{
		Battery: bat,
		Model:   model,
		DT:      cfg.Sim.DT,
		Steps:   cfg.Sim.Steps,
		Sink:    sink,
		Log:     log,
	}

	if cfg.Converter.Enabled {
		var loss converter.LossModel
		switch cfg.Converter.Model {
		case config.ConverterSinamics:
			loss, err = converter.NewSinamicsS120(cfg.Converter.MaxPower)
			if err != nil {
				return nil, err
			}
		default:
			loss = converter.NewFixedEfficiency(cfg.Converter.EffCharge, cfg.Converter.EffDischarge)
		}
		r.Converter = converter.New(loss, cfg.Converter.MaxPower, bat)
	}

	if cfg.Thermal.Enabled {
		r.Thermal = thermal.NewRoomModel(cfg.Thermal.Ambient, bat)
	}

	r.Profile, err = buildProfile(cfg.Sim.Profile)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func buildCell(cfg config.BatteryConfig) (battery.Cell, error) {
	switch cfg.Cell {
	case config.CellSonyLFP:
		cell, err := cells.NewSonyLFP()
		if err != nil {
			return nil, err
		}
		applyDerate(&cell.Spec.Electrical, cfg)
		return cell, nil
	case config.CellSamsung94AhNMC:
		cell := cells.NewSamsung94AhNMC()
		applyDerate(&cell.Spec.Electrical, cfg)
		return cell, nil
	}
	return nil, fmt.Errorf("unknown cell model %q", cfg.Cell)
}

// applyDerate lets the configuration enable derating on cells that do not
// define thresholds themselves.
func applyDerate(e *battery.ElectricalProperties, cfg config.BatteryConfig) {
	if cfg.ChargeDerateVoltage != nil {
		e.ChargeDerateVoltage = cfg.ChargeDerateVoltage
	}
	if cfg.DischargeDerateVoltage != nil {
		e.DischargeDerateVoltage = cfg.DischargeDerateVoltage
	}
}

func buildProfile(cfg config.ProfileConfig) (Profile, error) {
	switch cfg.Type {
	case config.ProfileConstant:
		return ConstantProfile(cfg.Power), nil
	case config.ProfileCycle:
		return CycleProfile{
			ChargePower:    cfg.ChargePower,
			DischargePower: cfg.DischargePower,
			HalfPeriod:     cfg.HalfPeriod,
		}, nil
	case config.ProfileCSV:
		return LoadScheduleProfile(cfg.Path)
	}
	return nil, fmt.Errorf("unknown profile type %q", cfg.Type)
}
