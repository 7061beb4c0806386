package thermal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockComponent struct {
	temp     float64
	loss     float64
	capacity float64
	resist   float64
}

func (m *mockComponent) Temperature() float64       { return m.temp }
func (m *mockComponent) SetTemperature(t float64)   { m.temp = t }
func (m *mockComponent) HeatLoss() float64          { return m.loss }
func (m *mockComponent) ThermalCapacity() float64   { return m.capacity }
func (m *mockComponent) ThermalResistance() float64 { return m.resist }

func TestRoomEquilibrium(t *testing.T) {
	c := &mockComponent{temp: 298.15, loss: 0, capacity: 1000, resist: 0.1}
	room := NewRoomModel(298.15, c)

	room.Update(60)
	assert.Equal(t, 298.15, c.temp)
}

func TestRoomHeating(t *testing.T) {
	// At ambient temperature the convection term vanishes, so one step heats
	// by exactly Q*dt/C = 500*1/1000 = 0.5 K.
	c := &mockComponent{temp: 298.15, loss: 500, capacity: 1000, resist: 0.1}
	room := NewRoomModel(298.15, c)

	room.Update(1)
	assert.InDelta(t, 298.65, c.temp, 1e-9)
}

func TestRoomCooling(t *testing.T) {
	c := &mockComponent{temp: 320, loss: 0, capacity: 1000, resist: 0.1}
	room := NewRoomModel(298.15, c)

	prev := c.temp
	for range 100 {
		room.Update(10)
		assert.Less(t, c.temp, prev)
		assert.Greater(t, c.temp, room.Ambient)
		prev = c.temp
	}
}

func TestRoomSteadyState(t *testing.T) {
	// With constant loss the temperature settles at T_ambient + Q*R.
	c := &mockComponent{temp: 298.15, loss: 100, capacity: 1000, resist: 0.05}
	room := NewRoomModel(298.15, c)

	for range 100000 {
		room.Update(1)
	}
	want := 298.15 + 100*0.05
	assert.InEpsilon(t, want, c.temp, 1e-3)
}

func TestRoomComponentsAreIndependent(t *testing.T) {
	hot := &mockComponent{temp: 298.15, loss: 500, capacity: 1000, resist: 0.1}
	idle := &mockComponent{temp: 298.15, loss: 0, capacity: 1000, resist: 0.1}
	room := NewRoomModel(298.15)
	room.AddComponent(hot)
	room.AddComponent(idle)

	for range 100 {
		room.Update(1)
	}
	assert.Greater(t, hot.temp, 298.15)
	assert.Equal(t, 298.15, idle.temp)
}
