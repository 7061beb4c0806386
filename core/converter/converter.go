// Package converter models the AC/DC power converter sitting between the
// grid setpoint and a storage unit, including conversion losses and the
// feedback correction applied when the storage curtails the DC request.
package converter

import "math"

// Storage is the contract the converter drives; a battery satisfies it.
type Storage interface {
	Update(powerSetpoint, dt float64)
	Power() float64
}

// LossModel maps power across the converter in W. Positive power flows from
// the AC side into storage.
type LossModel interface {
	ACToDC(powerAC float64) float64
	DCToAC(powerDC float64) float64
}

// State describes the converter at the current simulation instant.
type State struct {
	PowerSetpoint float64 // requested AC power in W
	Power         float64 // achieved AC power in W
	Loss          float64 // conversion loss in W
}

// Converter clamps the AC setpoint to its rating, converts it to a DC
// request, drives the storage and re-derives the achievable AC power when
// the storage curtailed the request by more than 1%.
type Converter struct {
	maxPower float64
	model    LossModel
	storage  Storage

	State State
}

// New creates a converter with the given loss model and AC power rating in W.
func New(model LossModel, maxPower float64, storage Storage) *Converter {
	return &Converter{maxPower: maxPower, model: model, storage: storage}
}

// MaxPower returns the AC power rating in W.
func (c *Converter) MaxPower() float64 { return c.maxPower }

// Update advances the converter and its storage by one timestep of dt
// seconds.
func (c *Converter) Update(powerSetpoint, dt float64) {
	powerAC := math.Min(math.Max(powerSetpoint, -c.maxPower), c.maxPower)
	powerDC := c.model.ACToDC(powerAC)

	c.storage.Update(powerDC, dt)
	achieved := c.storage.Power()

	// The storage may have curtailed the DC request; above 1% deviation the
	// AC side is recomputed from what was actually absorbed or delivered.
	if powerDC != 0 && math.Abs(powerDC-achieved)/math.Abs(powerDC) > 0.01 {
		powerDC = achieved
		powerAC = c.model.DCToAC(powerDC)
	}

	c.State.PowerSetpoint = powerSetpoint
	c.State.Power = powerAC
	c.State.Loss = powerAC - powerDC
}
