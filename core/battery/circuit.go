package battery

// Circuit is the immutable series/parallel cell count of a battery. Voltages
// scale with Serial, capacities with Parallel and resistance with
// Serial/Parallel. Fractional counts are allowed when a circuit is derived
// from system ratings.
type Circuit struct {
	Serial   float64
	Parallel float64
}

// CircuitForRatings derives a circuit from a system nominal voltage (V) and
// energy capacity (Wh) for the given cell.
func CircuitForRatings(cell Cell, voltage, energyCapacity float64) Circuit {
	e := cell.Ratings().Electrical
	serial := voltage / e.NominalVoltage
	parallel := energyCapacity / voltage / e.NominalCapacity
	return Circuit{Serial: serial, Parallel: parallel}
}
