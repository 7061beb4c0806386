package battery

// State is the single mutable record describing a battery at the current
// simulation instant. It is owned by its Battery; the electrical fields are
// written by Battery.Update, the state-of-health fields by the attached
// degradation model, and Temp by the thermal model. No other writer is
// allowed.
type State struct {
	SoC           float64 // state of charge in p.u.
	V             float64 // terminal voltage in V
	I             float64 // current in A, positive while charging
	Power         float64 // terminal power in W
	PowerSetpoint float64 // requested power in W
	OCV           float64 // open-circuit voltage in V
	Hys           float64 // hysteresis voltage in V
	Rint          float64 // internal resistance in ohm, SoH-scaled
	SoHQ          float64 // capacity state of health in p.u.
	SoHR          float64 // resistance state of health in p.u.
	IsCharge      bool    // last non-zero current direction
	Loss          float64 // resistive power loss in W
	IMaxCharge    float64 // most recent charge current bound in A, >= 0
	IMaxDischarge float64 // most recent discharge current bound in A, <= 0
	Temp          float64 // temperature in K, owned by the thermal model
}
