package circuit

import "log"

// Options configures a Machine. Tracer defaults to NopTracer when nil.
// Logger, if set, receives one diagnostic line per decoded instruction
// in the teacher's nes.Cpu6502.Logger style; nil (the default) disables
// this logging path entirely.
type Options struct {
	Tracer Tracer
	Logger *log.Logger
}

// Machine assembles an Oscillator, a CPU and one or two memory chips
// into a working Circuit, and exposes the control surface spec §6
// asks for: load a program, drive reset, and step the clock. Stepping
// rate/policy is left entirely to the caller (spec §9 Open Question
// 1) — Step/Run just advance the oscillator; nothing here imposes
// wall-clock pacing.
type Machine struct {
	circuit *Circuit
	osc     *Oscillator
	cpu     *CPU
	primary *MemoryChip
}

func resolveOptions(opts Options) Options {
	if opts.Tracer == nil {
		opts.Tracer = NopTracer{}
	}
	return opts
}

// NewBenEaterMachine builds the single-chip 32 KiB machine of
// spec §6/§9: oscillator X1, CPU U1, HM62256 RAM U6, wired exactly as
// src/machines/ben_eater.rs does (X1.OUT -> U1.PHI2, U1.RW -> U6.WE,
// the 15-bit address bus, and the bidirectional 8-bit data bus).
func NewBenEaterMachine(opts Options) (*Machine, error) {
	opts = resolveOptions(opts)

	osc := NewOscillator()
	cpu := NewCPU(opts.Tracer, opts.Logger)
	ram := NewHM62256()
	ram.SetTracer("U6", opts.Tracer)

	b := NewCircuitBuilder()
	b.AddComponent("X1", osc)
	b.AddComponent("U1", cpu)
	b.AddComponent("U6", ram)

	b.Link("X1", "OUT", "U1", "PHI2")
	b.Link("U1", "RW", "U6", "WE")
	b.LinkRange("U1", "A", "U6", "A", 15)
	b.LinkRange("U6", "D", "U1", "D", 8)
	b.LinkRange("U1", "D", "U6", "D", 8)

	c, err := b.Build()
	if err != nil {
		return nil, err
	}

	return &Machine{circuit: c, osc: osc, cpu: cpu, primary: ram}, nil
}

// NewSimplifiedC64Machine builds a two-chip 64 KiB machine, mirroring
// src/machines/simplified_c64.rs's shape: a 32 KiB HM62256 bank for
// $0000-$7FFF and a 64 KiB-addressable W24512 bank decoded (via one
// inverter) to respond only above $8000, so the two banks never
// contend for the bus.
func NewSimplifiedC64Machine(opts Options) (*Machine, error) {
	opts = resolveOptions(opts)

	osc := NewOscillator()
	cpu := NewCPU(opts.Tracer, opts.Logger)
	low := NewHM62256()
	low.SetTracer("U6", opts.Tracer)
	high := NewW24512()
	high.SetTracer("U7", opts.Tracer)
	notA15 := NewInverter()

	b := NewCircuitBuilder()
	b.AddComponent("X1", osc)
	b.AddComponent("U1", cpu)
	b.AddComponent("U6", low)
	b.AddComponent("U7", high)
	b.AddComponent("G1", notA15)

	b.Link("X1", "OUT", "U1", "PHI2")
	b.Link("U1", "RW", "U6", "WE")
	b.Link("U1", "RW", "U7", "WE")

	b.LinkRange("U1", "A", "U6", "A", 15)
	b.LinkRange("U1", "A", "U7", "A", 16)

	b.Link("U1", "A15", "U6", "CS") // low bank: selected while A15 is low
	b.Link("U1", "A15", "G1", "IN")
	b.Link("G1", "OUT", "U7", "CS1")
	b.Link("U1", "A15", "U7", "CS2")

	b.LinkRange("U6", "D", "U1", "D", 8)
	b.LinkRange("U1", "D", "U6", "D", 8)
	b.LinkRange("U7", "D", "U1", "D", 8)
	b.LinkRange("U1", "D", "U7", "D", 8)

	c, err := b.Build()
	if err != nil {
		return nil, err
	}

	return &Machine{circuit: c, osc: osc, cpu: cpu, primary: low}, nil
}

// LoadProgram stages bytes into the primary memory bank starting at
// addr, bypassing the pin protocol (spec §1: obtaining program bytes
// is a host concern, not this package's).
func (m *Machine) LoadProgram(addr uint16, data []byte) {
	m.primary.Load(addr, data)
}

// SetResetVector writes the little-endian reset vector at $FFFC/$FFFD
// directly into the primary bank, superseding the reference machines'
// documented FIXME of patching RAM ad hoc: Reset then re-reads it
// through the CPU's own initStepper exactly as real hardware would.
func (m *Machine) SetResetVector(addr uint16) {
	m.primary.WriteByte(0xfffc, byte(addr))
	m.primary.WriteByte(0xfffd, byte(addr>>8))
}

// Reset asserts and releases RST, re-arming the CPU's reset-vector
// stepper. RST isn't wired to any other component in these machines,
// so it's driven directly rather than through Circuit.propagate.
func (m *Machine) Reset() {
	rst := m.cpu.Pin("RST")
	rst.SetLevel(false)
	m.cpu.OnPinStateChange("RST", false)
	rst.SetLevel(true)
}

// Step advances the oscillator by one half-cycle (one PHI2 edge).
func (m *Machine) Step() {
	m.osc.Tick()
}

// StepCycle advances one full clock cycle (both PHI2 edges).
func (m *Machine) StepCycle() {
	m.Step()
	m.Step()
}

// Run advances n full clock cycles.
func (m *Machine) Run(n int) {
	for i := 0; i < n; i++ {
		m.StepCycle()
	}
}

func (m *Machine) CPUState() *CpuState { return m.cpu.State() }
func (m *Machine) Cycles() uint64      { return m.cpu.Cycles() }
func (m *Machine) Circuit() *Circuit   { return m.circuit }
