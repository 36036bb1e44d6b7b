package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// driveAddrPins/driveDataPins simulate an external agent writing a memory
// chip's address/data pins the way the CPU's Port[T] would, without
// pulling in the CPU itself.
func driveAddrPins(m *MemoryChip, addr uint16) {
	for i, pin := range m.addr.Pins() {
		pin.SetLevel((addr>>uint(i))&1 == 1)
	}
}

func driveDataPins(m *MemoryChip, v byte) {
	for i, pin := range m.data.Pins() {
		pin.SetLevel((v>>uint(i))&1 == 1)
	}
}

func readDataPins(m *MemoryChip) byte {
	var v byte
	for i, pin := range m.data.Pins() {
		if pin.Level() {
			v |= 1 << uint(i)
		}
	}
	return v
}

// TestEnablement mirrors the Rust source's test_enablement: the data
// bus is only ever driven (enabled as Output) while the chip is
// selected and in the read half of a cycle.
func TestEnablement(t *testing.T) {
	m := NewHM62256()

	m.Pin("CS").SetLevel(true) // deselected
	m.OnPinStateChange("CS", true)
	assert.False(t, m.canRead())
	assert.False(t, m.canWrite())

	m.Pin("CS").SetLevel(false) // selected
	m.OnPinStateChange("CS", false)
	m.Pin("WE").SetLevel(true)
	m.OnPinStateChange("WE", true)
	m.Pin("OE").SetLevel(false)
	m.OnPinStateChange("OE", false)
	assert.True(t, m.canRead())
	assert.False(t, m.canWrite())

	m.Pin("WE").SetLevel(false)
	m.OnPinStateChange("WE", false)
	assert.True(t, m.canWrite())
	assert.False(t, m.canRead())
}

// TestNoAccessWhenWeAndOeBothHigh exercises the exact row the Rust
// source's OE-direction formula mishandles (see DESIGN.md): WE high,
// OE high must mean no access, not a driven bus.
func TestNoAccessWhenWeAndOeBothHigh(t *testing.T) {
	m := NewHM62256()
	m.Pin("CS").SetLevel(false)
	m.OnPinStateChange("CS", false)
	m.Pin("WE").SetLevel(true)
	m.OnPinStateChange("WE", true)
	m.Pin("OE").SetLevel(true)
	m.OnPinStateChange("OE", true)

	assert.False(t, m.canRead())
	assert.False(t, m.canWrite())
	for _, pin := range m.data.Pins() {
		assert.Equal(t, Input, pin.Direction())
	}
}

func TestMemoryWriteThenRead(t *testing.T) {
	m := NewHM62256()
	m.Pin("CS").SetLevel(false)
	m.OnPinStateChange("CS", false)

	driveAddrPins(m, 0x0010)
	m.OnPinStateChange("A4", true)

	m.Pin("WE").SetLevel(false)
	m.OnPinStateChange("WE", false)
	driveDataPins(m, 0x42)
	m.OnPinStateChange("D1", true) // bit1 of 0x42

	assert.Equal(t, byte(0x42), m.ReadByte(0x0010))

	m.Pin("WE").SetLevel(true)
	m.OnPinStateChange("WE", true)
	m.Pin("OE").SetLevel(false)
	m.OnPinStateChange("OE", false)

	assert.Equal(t, byte(0x42), readDataPins(m))
}

func TestW24512DualChipSelect(t *testing.T) {
	m := NewW24512()

	m.Pin("CS1").SetLevel(false)
	m.OnPinStateChange("CS1", false)
	m.Pin("CS2").SetLevel(false) // CS2 active-high: still deselected
	m.OnPinStateChange("CS2", false)
	assert.False(t, m.canRead())

	m.Pin("CS2").SetLevel(true)
	m.OnPinStateChange("CS2", true)
	m.Pin("WE").SetLevel(true)
	m.OnPinStateChange("WE", true)
	m.Pin("OE").SetLevel(false)
	m.OnPinStateChange("OE", false)
	assert.True(t, m.canRead())
}
