package circuit

import (
	"fmt"
	"log"
)

// CPUPins is the W65C02's pin-level interface: PHI2 in, PHI1O/PHI2O
// echoed out, RST, SYNC, RW, a 16-bit address bus (always driven) and
// an 8-bit tri-state data bus, per spec §4.1/§4.7.
type CPUPins struct {
	pins *PinSet
	addr *Port[uint16]
	data *Port[uint8]
}

func NewCPUPins() *CPUPins {
	var specs []PinSpec
	specs = append(specs,
		PinSpec{Name: "PHI2", Dir: Input},
		PinSpec{Name: "PHI1O", Dir: Output},
		PinSpec{Name: "PHI2O", Dir: Output},
		PinSpec{Name: "RST", Dir: Input},
		PinSpec{Name: "SYNC", Dir: Output},
		PinSpec{Name: "RW", Dir: Output},
	)
	specs = append(specs, RangeSpecs("A", Output, false, 16)...)
	specs = append(specs, RangeSpecs("D", Input, true, 8)...)

	ps := BuildPinSet(specs)
	return &CPUPins{
		pins: ps,
		addr: NewPort[uint16](ps.Group("A")),
		data: NewPort[uint8](ps.Group("D")),
	}
}

func (p *CPUPins) Pin(name string) *Pin { return p.pins.ByName(name) }

func (p *CPUPins) DriveAddr(addr uint16) { p.addr.Write(addr) }
func (p *CPUPins) ReadData() byte        { return p.data.Read() }
func (p *CPUPins) WriteData(v byte)      { p.data.Write(v) }
func (p *CPUPins) SetSync(v bool)        { _ = p.pins.ByName("SYNC").Write(v) }

// Snapshot captures every named pin's current level, for a tracer that
// wants to render bus state (spec §7).
func (p *CPUPins) Snapshot() map[string]bool {
	levels := make(map[string]bool, len(p.pins.All()))
	for _, pin := range p.pins.All() {
		levels[pin.Name()] = pin.Level()
	}
	return levels
}

// SetDataDirection switches the data port between Input (the CPU is
// reading: D is released and RW goes high) and Output (the CPU is
// writing: D is driven and RW goes low). Wiring RW to a memory chip's
// WE, as the reference machines do, is how the chip learns which half
// of a bus cycle it is in without the CPU touching WE directly — this
// side effect isn't spelled out in the captured Rust source, but is
// the only reading of the Ben Eater machine's U1.RW -> U6.WE link that
// is consistent with the steppers only ever calling set_data_direction.
func (p *CPUPins) SetDataDirection(d Direction) {
	_ = p.data.SetDirection(d)
	p.data.SetEnable(d == Output)
	_ = p.pins.ByName("RW").Write(d == Input)
}

// CPU is the W65C02 component: a PHI2-clocked micro-sequencer built
// from the static OpcodeTable, the stepper templates, and the ALU.
type CPU struct {
	pins    *CPUPins
	state   *CpuState
	stepper *Coroutine
	cycles  uint64
	tracer  Tracer
	Logger  *log.Logger // CPU logging, in the teacher's nes.Cpu6502 style
}

func NewCPU(tracer Tracer, logger *log.Logger) *CPU {
	pins := NewCPUPins()
	return &CPU{
		pins:   pins,
		state:  NewCpuState(pins),
		tracer: tracer,
		Logger: logger,
	}
}

func (c *CPU) Pin(name string) *Pin { return c.pins.Pin(name) }

// Init seeds the reset-vector stepper so the first PHI2 rising edges
// load PC from $FFFC/$FFFD rather than running from whatever garbage
// the register started with (spec §9 Open Question 3).
func (c *CPU) Init() {
	c.stepper = NewCoroutine(initStepper())
}

// Reset re-arms the reset-vector stepper, for hosts that drive reset
// programmatically rather than through the RST pin.
func (c *CPU) Reset() {
	c.stepper = NewCoroutine(initStepper())
}

func (c *CPU) State() *CpuState   { return c.state }
func (c *CPU) Cycles() uint64    { return c.cycles }

func (c *CPU) OnPinStateChange(name string, level bool) {
	switch name {
	case "PHI2":
		_ = c.pins.Pin("PHI1O").Write(!level)
		_ = c.pins.Pin("PHI2O").Write(level)
		if level {
			c.tick()
		}
	case "RST":
		if !level { // active-low: falling edge asserts reset
			c.Reset()
		}
	}
}

// tick resumes the current stepper by one bus cycle, starting a fresh
// instruction stepper whenever none is active, and counts the cycle. It
// runs on PHI2 rising edges only; a falling edge updates PHI1O/PHI2O
// and does not advance the stepper.
func (c *CPU) tick() {
	if c.stepper == nil {
		c.stepper = NewCoroutine(c.nextInstructionStepper)
	}
	result := c.stepper.Resume(c.state)
	c.cycles++
	c.tracer.OnPinsState(PinsState{Component: "U1", Levels: c.pins.Snapshot()})
	if result.Completed {
		c.stepper = nil
	}
}

// nextInstructionStepper fetches and decodes the next opcode, then
// runs its stepper body to completion, all within one coroutine so the
// cycle count spans fetch+decode+execute uniformly.
func (c *CPU) nextInstructionStepper(y *Yielder, cpu *CpuState) {
	pc := cpu.PC()
	opcode := fetchOpcode(y, cpu)
	cpu.SetIR(opcode)

	def, err := Lookup(opcode, pc)
	if err != nil {
		panic(err)
	}

	c.tracer.OnOperation(CpuOperation{PC: pc, Opcode: opcode, Mnemonic: def.Mnemonic, Mode: def.Mode})

	if c.Logger != nil {
		c.Logger.Print(fmt.Sprintf("%04X\t%02X - %s\tA:%02X X:%02X Y:%02X P:%02X SP:%02X\tCYC:%d",
			pc, opcode, def.Mnemonic, cpu.A(), cpu.X(), cpu.Y(), cpu.P(), cpu.SP(), c.cycles))
	}

	GetStepper(def)(y, cpu)
}
