// Package thermal provides a zero-dimensional room model with a constant
// ambient temperature. Each registered component is an independent thermal
// node heated by its own losses and coupled to the room by convection.
package thermal

// Component is a thermal node. Batteries and other heat-generating parts
// satisfy this contract; SetTemperature is reserved for the thermal model.
type Component interface {
	Temperature() float64       // K
	SetTemperature(t float64)   // K
	HeatLoss() float64          // W
	ThermalCapacity() float64   // J/K
	ThermalResistance() float64 // K/W
}

// RoomModel integrates per-component temperatures against a constant ambient
// using forward Euler:
//
//	dT/dt = Q_loss/C_th + (T_ambient - T) / (R_th * C_th)
type RoomModel struct {
	Ambient    float64 // K
	components []Component
}

// NewRoomModel creates a room at the given ambient temperature in K.
func NewRoomModel(ambient float64, components ...Component) *RoomModel {
	return &RoomModel{Ambient: ambient, components: components}
}

// AddComponent registers a component as a thermal node.
func (m *RoomModel) AddComponent(c Component) {
	m.components = append(m.components, c)
}

// Update advances every registered component's temperature by dt seconds.
func (m *RoomModel) Update(dt float64) {
	for _, c := range m.components {
		t := c.Temperature()
		cTh := c.ThermalCapacity()
		rTh := c.ThermalResistance()
		dTdt := c.HeatLoss()/cTh + (m.Ambient-t)/(rTh*cTh)
		c.SetTemperature(t + dTdt*dt)
	}
}
