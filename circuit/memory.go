package circuit

// Addressable is a byte-addressable backing store. RAM is the only
// implementation the core needs; ROM is modeled as RAM pre-loaded with
// an image and never subsequently written by a program (spec §1).
type Addressable interface {
	ReadByte(addr uint16) byte
	WriteByte(addr uint16, v byte)
	AddressWidth() int
}

// RAM is a fixed-size byte array indexed by however many address bits
// the owning chip wires up.
type RAM struct {
	data  []byte
	width int
}

func NewRAM(addressWidth int) *RAM {
	return &RAM{data: make([]byte, 1<<uint(addressWidth)), width: addressWidth}
}

func (r *RAM) ReadByte(addr uint16) byte     { return r.data[int(addr)&(len(r.data)-1)] }
func (r *RAM) WriteByte(addr uint16, v byte) { r.data[int(addr)&(len(r.data)-1)] = v }
func (r *RAM) AddressWidth() int             { return r.width }

// Load copies a program/ROM image into memory starting at addr. This
// is the in-scope "program image input" of spec §6 — a byte sequence
// already in hand, not a file loader (out of scope per spec §1).
func (r *RAM) Load(addr uint16, data []byte) {
	base := int(addr)
	for i, b := range data {
		r.data[(base+i)&(len(r.data)-1)] = b
	}
}

// ChipSelectFunc decides whether a memory chip is currently addressed,
// given its own pin set. HM62256B uses a single active-low CS;
// W24512A uses CS1 (active-low) AND CS2 (active-high).
type ChipSelectFunc func(pins *PinSet) bool

// MemoryChip is the address-decoded, CS/WE/OE-gated byte array
// described in spec §4.3. Both documented variants (HM62256B, 32 KiB,
// single chip-select; W24512A, 64 KiB, dual chip-select) are built from
// this one type by supplying a different ChipSelectFunc and pin set —
// spec §9 Open Question 2 singles out the dual-select path as the one
// the Rust source stubs out; this implementation honors the full table
// for both variants.
type MemoryChip struct {
	pins      *PinSet
	addr      *Port[uint16]
	data      *Port[uint8]
	mem       *RAM
	isEnabled ChipSelectFunc

	name   string
	tracer Tracer
}

// SetTracer attaches a Tracer that receives an OnMemCellUpdate event for
// every observed write, named by component. No-op (NopTracer) by default.
func (m *MemoryChip) SetTracer(name string, t Tracer) {
	m.name = name
	m.tracer = t
}

type memoryChipConfig struct {
	addressWidth int
	selectPins   []PinSpec
	enabled      ChipSelectFunc
}

func newMemoryChip(cfg memoryChipConfig) *MemoryChip {
	var specs []PinSpec
	specs = append(specs, RangeSpecs("A", Input, false, cfg.addressWidth)...)
	specs = append(specs, RangeSpecs("D", Output, true, 8)...)
	specs = append(specs, cfg.selectPins...)
	specs = append(specs,
		PinSpec{Name: "WE", Dir: Input},
		PinSpec{Name: "OE", Dir: Input},
	)
	ps := BuildPinSet(specs)

	mc := &MemoryChip{
		pins:      ps,
		addr:      NewPort[uint16](ps.Group("A")),
		data:      NewPort[uint8](ps.Group("D")),
		mem:       NewRAM(cfg.addressWidth),
		isEnabled: cfg.enabled,
		tracer:    NopTracer{},
	}
	// A chip whose select pins are never toggled (e.g. CS tied low) must
	// still start in the enable state its select levels imply.
	mc.setChipEnable(mc.isEnabled(ps))
	return mc
}

// NewHM62256 builds a 32 KiB single-chip-select memory chip (the
// Ben-Eater-machine RAM).
//
//	CS! OE! WE!  STATE
//	 H   x   x   high-Z, no access
//	 L   H   H   high-Z
//	 L   H   L   latch D into memory[addr]
//	 L   L   H   drive memory[addr] onto D
func NewHM62256() *MemoryChip {
	return newMemoryChip(memoryChipConfig{
		addressWidth: 15,
		selectPins:   []PinSpec{{Name: "CS", Dir: Input}},
		enabled: func(ps *PinSet) bool {
			return ps.ByName("CS").Low()
		},
	})
}

// NewW24512 builds a 64 KiB dual-chip-select memory chip: CS1 is
// active-low, CS2 is active-high; both must be asserted.
func NewW24512() *MemoryChip {
	return newMemoryChip(memoryChipConfig{
		addressWidth: 16,
		selectPins:   []PinSpec{{Name: "CS1", Dir: Input}, {Name: "CS2", Dir: Input}},
		enabled: func(ps *PinSet) bool {
			return ps.ByName("CS1").Low() && ps.ByName("CS2").High()
		},
	})
}

func (m *MemoryChip) Pin(name string) *Pin { return m.pins.ByName(name) }

// Load stages a program/ROM image directly into the backing array.
func (m *MemoryChip) Load(addr uint16, data []byte) { m.mem.Load(addr, data) }

// ReadByte/WriteByte expose the backing store directly, bypassing the
// pin protocol — used by Machine to seed the reset vector and by tests
// asserting round-trip behavior without stepping the bus.
func (m *MemoryChip) ReadByte(addr uint16) byte     { return m.mem.ReadByte(addr) }
func (m *MemoryChip) WriteByte(addr uint16, v byte) { m.mem.WriteByte(addr, v) }

func (m *MemoryChip) canWrite() bool {
	return m.isEnabled(m.pins) && m.pins.ByName("WE").Low()
}

func (m *MemoryChip) canRead() bool {
	return m.isEnabled(m.pins) && !m.canWrite() && m.pins.ByName("OE").Low()
}

func (m *MemoryChip) setChipEnable(v bool) {
	for _, pin := range m.data.Pins() {
		pin.SetEnable(v)
	}
}

// recomputeDataDirection implements spec §4.3's table directly (Output
// only when WE is high AND OE is low) rather than the Rust source's OR
// formula, which misclassifies the WE-high/OE-high "no access" state
// as driving — see DESIGN.md.
func (m *MemoryChip) recomputeDataDirection() {
	we := m.pins.ByName("WE").High()
	oe := m.pins.ByName("OE").High()
	if we && !oe {
		_ = m.data.SetDirection(Output)
	} else {
		_ = m.data.SetDirection(Input)
	}
}

func (m *MemoryChip) driveData() {
	if m.canRead() {
		addr := m.addr.Read()
		m.data.Write(m.mem.ReadByte(addr))
	}
}

func (m *MemoryChip) latchData() {
	if m.canWrite() {
		addr := m.addr.Read()
		v := m.data.Read()
		m.mem.WriteByte(addr, v)
		m.tracer.OnMemCellUpdate(MemCellUpdate{Component: m.name, Addr: addr, Value: v})
	}
}

func (m *MemoryChip) OnPinStateChange(name string, val bool) {
	switch name {
	case "CS", "CS1", "CS2":
		m.setChipEnable(m.isEnabled(m.pins))
		m.driveData()
	case "WE", "OE":
		m.recomputeDataDirection()
		m.driveData()
	default:
		pin := m.pins.ByName(name)
		group, _ := pin.GroupName()
		switch group {
		case "A":
			m.driveData()
		case "D":
			m.latchData()
		}
	}
	_ = val
}
