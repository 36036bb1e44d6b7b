package circuit

// Steppers are the per-opcode micro-sequencers of spec §4.4, grounded
// almost line-for-line on the Rust source's steppers.rs: each stepper
// template (no-memory, read, write, RMW, branch, push, pull, JSR, JMP,
// RTS/RTI) suspends once per bus cycle via a Yielder instead of a
// corosensei coroutine, and GetStepper's dispatch mirrors get_stepper's
// match over addressing mode and mnemonic.

func requestReadFromAddr(y *Yielder, cpu *CpuState, addr uint16) byte {
	cpu.Pins.SetDataDirection(Input)
	cpu.Pins.DriveAddr(addr)
	cpu = y.Suspend(StepResult{})
	return cpu.Pins.ReadData()
}

// requestWriteToAddr first presents addr in read mode so the data bus
// holds the cell's current value: a memory chip latches only on a data
// pin change, so writing the value already on the bus (e.g. two equal
// stack pushes in a row) would otherwise never reach memory.
func requestWriteToAddr(y *Yielder, cpu *CpuState, addr uint16, v byte) {
	cpu.Pins.SetDataDirection(Input)
	cpu.Pins.DriveAddr(addr)
	cpu.Pins.SetDataDirection(Output)
	cpu.Pins.WriteData(v)
	y.Suspend(StepResult{})
}

func readAndIncPC(y *Yielder, cpu *CpuState) byte {
	v := requestReadFromAddr(y, cpu, cpu.PC())
	cpu.IncPC()
	return v
}

// fetchOpcode drives SYNC high for the opcode fetch half-cycle, per
// spec §4.4 and the Rust source's read_opcode.
func fetchOpcode(y *Yielder, cpu *CpuState) byte {
	cpu.Pins.SetSync(true)
	v := requestReadFromAddr(y, cpu, cpu.PC())
	cpu.Pins.SetSync(false)
	cpu.IncPC()
	return v
}

func pushByte(y *Yielder, cpu *CpuState, v byte) {
	addr := 0x0100 | uint16(cpu.SP())
	requestWriteToAddr(y, cpu, addr, v)
	cpu.DecSP()
}

func pullByte(y *Yielder, cpu *CpuState) byte {
	cpu.IncSP()
	addr := 0x0100 | uint16(cpu.SP())
	return requestReadFromAddr(y, cpu, addr)
}

// decodeAddress computes the effective address for every non-implicit
// addressing mode, suspending once per bus cycle it spends doing so,
// and reports whether an index crossed a page boundary (spec §4.4's
// extra-cycle cases for AbsoluteX/AbsoluteY/IndirectY).
func decodeAddress(y *Yielder, cpu *CpuState, mode AddressMode) (addr uint16, pageCrossed bool) {
	switch mode {
	case ZeroPage:
		lo := readAndIncPC(y, cpu)
		return uint16(lo), false

	case ZeroPageX:
		lo := readAndIncPC(y, cpu)
		// dummy read of the unindexed zero-page address while the
		// index is added, matching real bus timing.
		requestReadFromAddr(y, cpu, uint16(lo))
		return uint16(lo + cpu.X()), false

	case ZeroPageY:
		lo := readAndIncPC(y, cpu)
		requestReadFromAddr(y, cpu, uint16(lo))
		return uint16(lo + cpu.Y()), false

	case Absolute:
		lo := readAndIncPC(y, cpu)
		hi := readAndIncPC(y, cpu)
		return uint16(hi)<<8 | uint16(lo), false

	case AbsoluteX:
		lo := readAndIncPC(y, cpu)
		hi := readAndIncPC(y, cpu)
		base := uint16(hi)<<8 | uint16(lo)
		full := base + uint16(cpu.X())
		return full, (full>>8) != uint16(hi)

	case AbsoluteY:
		lo := readAndIncPC(y, cpu)
		hi := readAndIncPC(y, cpu)
		base := uint16(hi)<<8 | uint16(lo)
		full := base + uint16(cpu.Y())
		return full, (full>>8) != uint16(hi)

	case IndirectX:
		zp := readAndIncPC(y, cpu)
		requestReadFromAddr(y, cpu, uint16(zp))
		ptr := zp + cpu.X()
		lo := requestReadFromAddr(y, cpu, uint16(ptr))
		hi := requestReadFromAddr(y, cpu, uint16(ptr+1))
		return uint16(hi)<<8 | uint16(lo), false

	case IndirectY:
		zp := readAndIncPC(y, cpu)
		lo := requestReadFromAddr(y, cpu, uint16(zp))
		hi := requestReadFromAddr(y, cpu, uint16(zp+1))
		base := uint16(hi)<<8 | uint16(lo)
		full := base + uint16(cpu.Y())
		return full, (full>>8) != uint16(hi)

	case Indirect:
		lo := readAndIncPC(y, cpu)
		hi := readAndIncPC(y, cpu)
		ptr := uint16(hi)<<8 | uint16(lo)
		finalLo := requestReadFromAddr(y, cpu, ptr)
		// The page-wrap bug: the high byte is fetched from
		// (ptr_lo+1, ptr_hi) with no carry into ptr_hi, per spec §4.4.
		wrapped := uint16(hi)<<8 | uint16(lo+1)
		finalHi := requestReadFromAddr(y, cpu, wrapped)
		return uint16(finalHi)<<8 | uint16(finalLo), false
	}
	return 0, false
}

// noMemStepper handles Implicit, Accumulator and Immediate addressing:
// no effective-address decode is needed.
func noMemStepper(def OperationDef) StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		switch def.Mode {
		case Immediate:
			v := readAndIncPC(y, cpu)
			ExecuteRead(def.Mnemonic, cpu, v)
		case Accumulator:
			// one padding read of the next opcode byte's address,
			// discarded, to occupy the second cycle.
			requestReadFromAddr(y, cpu, cpu.PC())
			ExecuteAccumulator(def.Mnemonic, cpu)
		default: // Implicit
			requestReadFromAddr(y, cpu, cpu.PC())
			ExecuteNoMem(def.Mnemonic, cpu)
		}
	}
}

func readStepper(def OperationDef) StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		addr, crossed := decodeAddress(y, cpu, def.Mode)
		if crossed {
			// extra cycle to let the high-byte carry settle, per
			// spec §4.4's page-cross penalty for indexed reads.
			requestReadFromAddr(y, cpu, addr)
		}
		v := requestReadFromAddr(y, cpu, addr)
		ExecuteRead(def.Mnemonic, cpu, v)
	}
}

// indexedStoreOrRMW reports whether mode is one of the indexed modes
// whose store/RMW variants unconditionally spend the page-cross
// settling cycle, whether or not the index actually crossed a page —
// unlike a plain indexed read, which only pays it when the crossing is
// real (decodeAddress's pageCrossed return, used by readStepper).
func indexedStoreOrRMW(mode AddressMode) bool {
	return mode == AbsoluteX || mode == AbsoluteY || mode == IndirectY
}

func writeStepper(def OperationDef) StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		addr, _ := decodeAddress(y, cpu, def.Mode)
		if indexedStoreOrRMW(def.Mode) {
			requestReadFromAddr(y, cpu, addr)
		}
		v := ExecuteWrite(def.Mnemonic, cpu)
		requestWriteToAddr(y, cpu, addr, v)
	}
}

// rmwStepper implements the read-modify-write template, including the
// observable redundant write-back of the original value before the
// modified value is written (spec §4.4).
func rmwStepper(def OperationDef) StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		addr, _ := decodeAddress(y, cpu, def.Mode)
		if indexedStoreOrRMW(def.Mode) {
			requestReadFromAddr(y, cpu, addr)
		}
		v := requestReadFromAddr(y, cpu, addr)
		requestWriteToAddr(y, cpu, addr, v) // redundant write-back
		r := ExecuteRMW(def.Mnemonic, cpu, v)
		requestWriteToAddr(y, cpu, addr, r)
	}
}

// branchStepper evaluates the condition, then spends 0/1/2 extra
// cycles depending on taken/page-cross, per spec §4.4.
func branchStepper(def OperationDef) StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		offset := int8(readAndIncPC(y, cpu))
		if !BranchTaken(def.Mnemonic, cpu) {
			return
		}
		requestReadFromAddr(y, cpu, cpu.PC())
		oldPC := cpu.PC()
		newPC := uint16(int32(oldPC) + int32(offset))
		cpu.SetPCL(byte(newPC))
		if newPC>>8 != oldPC>>8 {
			requestReadFromAddr(y, cpu, (oldPC&0xff00)|(newPC&0x00ff))
			cpu.SetPCH(byte(newPC >> 8))
		}
	}
}

func pushStepper(m Mnemonic) StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		requestReadFromAddr(y, cpu, cpu.PC())
		if m == PHP {
			pushByte(y, cpu, cpu.P()|flagB)
		} else {
			pushByte(y, cpu, cpu.A())
		}
	}
}

func pullStepper(m Mnemonic) StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		requestReadFromAddr(y, cpu, cpu.PC())
		requestReadFromAddr(y, cpu, 0x0100|uint16(cpu.SP()))
		v := pullByte(y, cpu)
		if m == PLP {
			cpu.SetP(v)
		} else {
			cpu.SetA(v)
			setNZ(cpu, cpu.A())
		}
	}
}

// jmpStepper covers JMP Absolute (3 cycles) and JMP Indirect (5 cycles,
// with the page-wrap bug already folded into decodeAddress).
func jmpStepper(def OperationDef) StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		addr, _ := decodeAddress(y, cpu, def.Mode)
		cpu.SetPC(addr)
	}
}

// jsrStepper: fetch ADL, push PCH, push PCL, fetch ADH, jump.
func jsrStepper() StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		lo := readAndIncPC(y, cpu)
		requestReadFromAddr(y, cpu, 0x0100|uint16(cpu.SP()))
		pushByte(y, cpu, cpu.PCH())
		pushByte(y, cpu, cpu.PCL())
		hi := readAndIncPC(y, cpu)
		cpu.SetPC(uint16(hi)<<8 | uint16(lo))
	}
}

// rtsRtiStepper is shared by RTS and RTI; RTI additionally pulls P
// before PC, and does not add the RTS-only extra PC+1 step.
func rtsRtiStepper(isRTI bool) StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		requestReadFromAddr(y, cpu, cpu.PC())
		requestReadFromAddr(y, cpu, 0x0100|uint16(cpu.SP()))
		if isRTI {
			cpu.SetP(pullByte(y, cpu))
		}
		lo := pullByte(y, cpu)
		hi := pullByte(y, cpu)
		cpu.SetPC(uint16(hi)<<8 | uint16(lo))
		if !isRTI {
			requestReadFromAddr(y, cpu, cpu.PC())
			cpu.IncPC()
		}
	}
}

// brkStepper runs the deterministic push+vector-fetch sequence of a
// software break. Full interrupt priority arbitration between BRK, IRQ
// and NMI is a Non-goal; this only models BRK's own 7-cycle sequence.
func brkStepper() StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		readAndIncPC(y, cpu) // padding byte, conventionally ignored
		pushByte(y, cpu, cpu.PCH())
		pushByte(y, cpu, cpu.PCL())
		pushByte(y, cpu, cpu.P()|flagB)
		cpu.SetInterruptDisable(true)
		lo := requestReadFromAddr(y, cpu, 0xfffe)
		hi := requestReadFromAddr(y, cpu, 0xffff)
		cpu.SetPC(uint16(hi)<<8 | uint16(lo))
	}
}

// GetStepper dispatches an opcode definition to its stepper template,
// mirroring steppers.rs's get_stepper match.
func GetStepper(def OperationDef) StepperFunc {
	switch def.Mnemonic {
	case JMP:
		return jmpStepper(def)
	case JSR:
		return jsrStepper()
	case RTS:
		return rtsRtiStepper(false)
	case RTI:
		return rtsRtiStepper(true)
	case PHA, PHP:
		return pushStepper(def.Mnemonic)
	case PLA, PLP:
		return pullStepper(def.Mnemonic)
	case BRK:
		return brkStepper()
	}

	switch def.Mode {
	case Implicit, Accumulator, Immediate:
		return noMemStepper(def)
	case Relative:
		return branchStepper(def)
	}

	switch def.Mnemonic {
	case STA, STX, STY:
		return writeStepper(def)
	case ASL, LSR, ROL, ROR, INC, DEC:
		return rmwStepper(def)
	default:
		return readStepper(def)
	}
}

// initStepper fetches the reset vector ($FFFC/$FFFD) into PC, run once
// when RST is serviced (spec §9 Open Question 3's RST-pin approach,
// replacing the Rust machines' direct-RAM-patch FIXME).
func initStepper() StepperFunc {
	return func(y *Yielder, cpu *CpuState) {
		lo := requestReadFromAddr(y, cpu, 0xfffc)
		hi := requestReadFromAddr(y, cpu, 0xfffd)
		cpu.SetPC(uint16(hi)<<8 | uint16(lo))
	}
}
