package circuit

// Mnemonic identifies an operation independent of its addressing mode.
// 56 values, matching spec §4.5's documented mnemonic set plus the
// undefined-opcode sentinel XXX (grounded on the teacher's InstLookup,
// nes/cpu.go, which uses the same sentinel for illegal opcodes).
type Mnemonic int

const (
	XXX Mnemonic = iota
	ADC
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA
)

// AddressMode enumerates the 13 modes of spec §4.2: Accumulator is kept
// distinct from Implicit (both use the no-memory stepper template, but
// Accumulator additionally routes the ALU result back into A).
type AddressMode int

const (
	Implicit AddressMode = iota
	Accumulator
	Immediate
	Relative
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
)

// operandBytes is the number of bytes following the opcode byte itself.
func (m AddressMode) operandBytes() int {
	switch m {
	case Implicit, Accumulator:
		return 0
	case Immediate, ZeroPage, ZeroPageX, ZeroPageY, Relative, IndirectX, IndirectY:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 2
	}
	return 0
}

// OperationDef is one entry of the static 256-slot opcode table: the
// decoded identity of an opcode byte, grounded on spec §4.5 and the
// teacher's nes/cpu.go InstLookup matrix (the canonical 6502 opcode
// matrix, here re-expressed with pin-accurate base cycle counts).
type OperationDef struct {
	Opcode     byte
	Mnemonic   Mnemonic
	Mode       AddressMode
	BaseCycles int
}

// OpcodeTable is the static 256-entry decode table. Slots not listed
// below default to the XXX/Implicit/2-cycle sentinel and surface as
// ErrUnknownOpcode when fetched (spec §4.5, undocumented opcodes are a
// Non-goal).
var OpcodeTable [256]OperationDef

func op(code byte, m Mnemonic, mode AddressMode, cycles int) {
	OpcodeTable[code] = OperationDef{Opcode: code, Mnemonic: m, Mode: mode, BaseCycles: cycles}
}

func init() {
	for i := range OpcodeTable {
		OpcodeTable[i] = OperationDef{Opcode: byte(i), Mnemonic: XXX, Mode: Implicit, BaseCycles: 2}
	}

	// Row 0x0_
	op(0x00, BRK, Implicit, 7)
	op(0x01, ORA, IndirectX, 6)
	op(0x05, ORA, ZeroPage, 3)
	op(0x06, ASL, ZeroPage, 5)
	op(0x08, PHP, Implicit, 3)
	op(0x09, ORA, Immediate, 2)
	op(0x0A, ASL, Accumulator, 2)
	op(0x0D, ORA, Absolute, 4)
	op(0x0E, ASL, Absolute, 6)

	// Row 0x1_
	op(0x10, BPL, Relative, 2)
	op(0x11, ORA, IndirectY, 5)
	op(0x15, ORA, ZeroPageX, 4)
	op(0x16, ASL, ZeroPageX, 6)
	op(0x18, CLC, Implicit, 2)
	op(0x19, ORA, AbsoluteY, 4)
	op(0x1D, ORA, AbsoluteX, 4)
	op(0x1E, ASL, AbsoluteX, 7)

	// Row 0x2_
	op(0x20, JSR, Absolute, 6)
	op(0x21, AND, IndirectX, 6)
	op(0x24, BIT, ZeroPage, 3)
	op(0x25, AND, ZeroPage, 3)
	op(0x26, ROL, ZeroPage, 5)
	op(0x28, PLP, Implicit, 4)
	op(0x29, AND, Immediate, 2)
	op(0x2A, ROL, Accumulator, 2)
	op(0x2C, BIT, Absolute, 4)
	op(0x2D, AND, Absolute, 4)
	op(0x2E, ROL, Absolute, 6)

	// Row 0x3_
	op(0x30, BMI, Relative, 2)
	op(0x31, AND, IndirectY, 5)
	op(0x35, AND, ZeroPageX, 4)
	op(0x36, ROL, ZeroPageX, 6)
	op(0x38, SEC, Implicit, 2)
	op(0x39, AND, AbsoluteY, 4)
	op(0x3D, AND, AbsoluteX, 4)
	op(0x3E, ROL, AbsoluteX, 7)

	// Row 0x4_
	op(0x40, RTI, Implicit, 6)
	op(0x41, EOR, IndirectX, 6)
	op(0x45, EOR, ZeroPage, 3)
	op(0x46, LSR, ZeroPage, 5)
	op(0x48, PHA, Implicit, 3)
	op(0x49, EOR, Immediate, 2)
	op(0x4A, LSR, Accumulator, 2)
	op(0x4C, JMP, Absolute, 3)
	op(0x4D, EOR, Absolute, 4)
	op(0x4E, LSR, Absolute, 6)

	// Row 0x5_
	op(0x50, BVC, Relative, 2)
	op(0x51, EOR, IndirectY, 5)
	op(0x55, EOR, ZeroPageX, 4)
	op(0x56, LSR, ZeroPageX, 6)
	op(0x58, CLI, Implicit, 2)
	op(0x59, EOR, AbsoluteY, 4)
	op(0x5D, EOR, AbsoluteX, 4)
	op(0x5E, LSR, AbsoluteX, 7)

	// Row 0x6_
	op(0x60, RTS, Implicit, 6)
	op(0x61, ADC, IndirectX, 6)
	op(0x65, ADC, ZeroPage, 3)
	op(0x66, ROR, ZeroPage, 5)
	op(0x68, PLA, Implicit, 4)
	op(0x69, ADC, Immediate, 2)
	op(0x6A, ROR, Accumulator, 2)
	op(0x6C, JMP, Indirect, 5)
	op(0x6D, ADC, Absolute, 4)
	op(0x6E, ROR, Absolute, 6)

	// Row 0x7_
	op(0x70, BVS, Relative, 2)
	op(0x71, ADC, IndirectY, 5)
	op(0x75, ADC, ZeroPageX, 4)
	op(0x76, ROR, ZeroPageX, 6)
	op(0x78, SEI, Implicit, 2)
	op(0x79, ADC, AbsoluteY, 4)
	op(0x7D, ADC, AbsoluteX, 4)
	op(0x7E, ROR, AbsoluteX, 7)

	// Row 0x8_
	op(0x81, STA, IndirectX, 6)
	op(0x84, STY, ZeroPage, 3)
	op(0x85, STA, ZeroPage, 3)
	op(0x86, STX, ZeroPage, 3)
	op(0x88, DEY, Implicit, 2)
	op(0x8A, TXA, Implicit, 2)
	op(0x8C, STY, Absolute, 4)
	op(0x8D, STA, Absolute, 4)
	op(0x8E, STX, Absolute, 4)

	// Row 0x9_
	op(0x90, BCC, Relative, 2)
	op(0x91, STA, IndirectY, 6)
	op(0x94, STY, ZeroPageX, 4)
	op(0x95, STA, ZeroPageX, 4)
	op(0x96, STX, ZeroPageY, 4)
	op(0x98, TYA, Implicit, 2)
	op(0x99, STA, AbsoluteY, 5)
	op(0x9A, TXS, Implicit, 2)
	op(0x9D, STA, AbsoluteX, 5)

	// Row 0xA_
	op(0xA0, LDY, Immediate, 2)
	op(0xA1, LDA, IndirectX, 6)
	op(0xA2, LDX, Immediate, 2)
	op(0xA4, LDY, ZeroPage, 3)
	op(0xA5, LDA, ZeroPage, 3)
	op(0xA6, LDX, ZeroPage, 3)
	op(0xA8, TAY, Implicit, 2)
	op(0xA9, LDA, Immediate, 2)
	op(0xAA, TAX, Implicit, 2)
	op(0xAC, LDY, Absolute, 4)
	op(0xAD, LDA, Absolute, 4)
	op(0xAE, LDX, Absolute, 4)

	// Row 0xB_
	op(0xB0, BCS, Relative, 2)
	op(0xB1, LDA, IndirectY, 5)
	op(0xB4, LDY, ZeroPageX, 4)
	op(0xB5, LDA, ZeroPageX, 4)
	op(0xB6, LDX, ZeroPageY, 4)
	op(0xB8, CLV, Implicit, 2)
	op(0xB9, LDA, AbsoluteY, 4)
	op(0xBA, TSX, Implicit, 2)
	op(0xBC, LDY, AbsoluteX, 4)
	op(0xBD, LDA, AbsoluteX, 4)
	op(0xBE, LDX, AbsoluteY, 4)

	// Row 0xC_
	op(0xC0, CPY, Immediate, 2)
	op(0xC1, CMP, IndirectX, 6)
	op(0xC4, CPY, ZeroPage, 3)
	op(0xC5, CMP, ZeroPage, 3)
	op(0xC6, DEC, ZeroPage, 5)
	op(0xC8, INY, Implicit, 2)
	op(0xC9, CMP, Immediate, 2)
	op(0xCA, DEX, Implicit, 2)
	op(0xCC, CPY, Absolute, 4)
	op(0xCD, CMP, Absolute, 4)
	op(0xCE, DEC, Absolute, 6)

	// Row 0xD_
	op(0xD0, BNE, Relative, 2)
	op(0xD1, CMP, IndirectY, 5)
	op(0xD5, CMP, ZeroPageX, 4)
	op(0xD6, DEC, ZeroPageX, 6)
	op(0xD8, CLD, Implicit, 2)
	op(0xD9, CMP, AbsoluteY, 4)
	op(0xDD, CMP, AbsoluteX, 4)
	op(0xDE, DEC, AbsoluteX, 7)

	// Row 0xE_
	op(0xE0, CPX, Immediate, 2)
	op(0xE1, SBC, IndirectX, 6)
	op(0xE4, CPX, ZeroPage, 3)
	op(0xE5, SBC, ZeroPage, 3)
	op(0xE6, INC, ZeroPage, 5)
	op(0xE8, INX, Implicit, 2)
	op(0xE9, SBC, Immediate, 2)
	op(0xEA, NOP, Implicit, 2)
	op(0xEC, CPX, Absolute, 4)
	op(0xED, SBC, Absolute, 4)
	op(0xEE, INC, Absolute, 6)

	// Row 0xF_
	op(0xF0, BEQ, Relative, 2)
	op(0xF1, SBC, IndirectY, 5)
	op(0xF5, SBC, ZeroPageX, 4)
	op(0xF6, INC, ZeroPageX, 6)
	op(0xF8, SED, Implicit, 2)
	op(0xF9, SBC, AbsoluteY, 4)
	op(0xFD, SBC, AbsoluteX, 4)
	op(0xFE, INC, AbsoluteX, 7)
}

// Lookup fetches the decode-table entry for opcode, reporting
// ErrUnknownOpcode for any of the 105 undefined slots (undocumented
// opcodes are an explicit Non-goal).
func Lookup(opcode byte, pc uint16) (OperationDef, error) {
	def := OpcodeTable[opcode]
	if def.Mnemonic == XXX {
		return def, &ErrUnknownOpcode{Opcode: opcode, PC: pc}
	}
	return def, nil
}
