package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine(t *testing.T, program []byte) *Machine {
	t.Helper()
	m, err := NewBenEaterMachine(Options{})
	require.NoError(t, err)
	m.SetResetVector(0x0200)
	m.LoadProgram(0x0200, program)
	m.Reset()
	return m
}

func TestLdaImmediate(t *testing.T) {
	m := newTestMachine(t, []byte{0xA9, 0x42}) // LDA #$42
	m.Run(50)
	assert.Equal(t, byte(0x42), m.CPUState().A())
}

func TestLdaAbsolute(t *testing.T) {
	program := []byte{0xAD, 0x00, 0x10} // LDA $1000
	m := newTestMachine(t, program)
	m.LoadProgram(0x1000, []byte{0x99})
	m.Run(50)
	assert.Equal(t, byte(0x99), m.CPUState().A())
}

func TestLdxThenLdaZeroPageX(t *testing.T) {
	program := []byte{
		0xA2, 0x01, // LDX #$01
		0xB5, 0x10, // LDA $10,X
	}
	m := newTestMachine(t, program)
	m.LoadProgram(0x0011, []byte{0x7b})
	m.Run(50)
	assert.Equal(t, byte(0x7b), m.CPUState().A())
}

func TestAdcOverflowIntegration(t *testing.T) {
	program := []byte{
		0xA9, 0x7f, // LDA #$7f
		0x69, 0x01, // ADC #$01
	}
	m := newTestMachine(t, program)
	m.Run(50)
	assert.Equal(t, byte(0x80), m.CPUState().A())
	assert.True(t, m.CPUState().Overflow())
}

func TestSbcBorrowIntegration(t *testing.T) {
	program := []byte{
		0x38,       // SEC
		0xA9, 0x00, // LDA #$00
		0xE9, 0x01, // SBC #$01
	}
	m := newTestMachine(t, program)
	m.Run(50)
	assert.Equal(t, byte(0xff), m.CPUState().A())
	assert.False(t, m.CPUState().Carry())
}

func TestJmpIndirectPageWrapBug(t *testing.T) {
	program := []byte{0x6C, 0xFF, 0x10} // JMP ($10FF)
	m := newTestMachine(t, program)
	// pointer low byte at $10FF, high byte WRONGLY read from $1000 (no
	// carry into the pointer's high byte), per the documented bug.
	m.LoadProgram(0x10FF, []byte{0x00})
	m.LoadProgram(0x1000, []byte{0x03}) // if the bug fires, PC becomes $0300
	m.LoadProgram(0x1100, []byte{0x04}) // (else $0400)
	// 3 cycles of reset plus 6 for the JMP (5 bus cycles and the cycle in
	// which its stepper completes); stop before the target runs.
	m.Run(9)
	assert.Equal(t, uint16(0x0300), m.CPUState().PC())
}

func TestIncWrapToZero(t *testing.T) {
	program := []byte{0xE6, 0x10} // INC $10
	m := newTestMachine(t, program)
	m.primary.WriteByte(0x0010, 0xff)
	m.Run(50)
	assert.Equal(t, byte(0x00), m.primary.ReadByte(0x0010))
	assert.True(t, m.CPUState().Zero())
}

func TestPhaPlaIdentity(t *testing.T) {
	program := []byte{
		0xA9, 0x37, // LDA #$37
		0x48,       // PHA
		0xA9, 0x00, // LDA #$00
		0x68, // PLA
	}
	m := newTestMachine(t, program)
	m.Run(60)
	assert.Equal(t, byte(0x37), m.CPUState().A())
}

func TestJsrRtsRoundTrip(t *testing.T) {
	program := []byte{
		0x20, 0x06, 0x02, // JSR $0206
		0xEA,       // NOP (return lands here)
		0x00, 0x00, // padding
		0xA9, 0x11, // $0206: LDA #$11
		0x60, // RTS
	}
	m := newTestMachine(t, program)
	// reset (3) + JSR (7) + LDA # (3) + RTS (7): stop as RTS completes,
	// before the NOP and the BRK padding after it move PC on.
	m.Run(20)
	assert.Equal(t, byte(0x11), m.CPUState().A())
	assert.Equal(t, uint16(0x0203), m.CPUState().PC())
}

// runStepperAgainstMem drives a stepper to completion against a plain
// byte-addressed map acting as memory, servicing each bus cycle's
// pending request between Resume calls. This exercises the
// stepper templates directly, the way the Rust source's own stepper
// unit tests do, without needing a full Circuit/Machine.
func runStepperAgainstMem(cpu *CpuState, co *Coroutine, mem map[uint16]byte) int {
	steps := 0
	for {
		r := co.Resume(cpu)
		steps++
		if r.Completed {
			return steps
		}
		addr := cpu.Pins.addr.Read()
		if cpu.Pins.data.Pins()[0].Direction() == Input {
			cpu.Pins.data.SetLevels(mem[addr])
		} else {
			mem[addr] = cpu.Pins.data.Read()
		}
	}
}

// TestBranchPageCrossCostsExtraCycle asserts the taken/not-taken and
// page-cross cycle counts of spec §4.4 directly against the branch
// stepper template.
func TestBranchPageCrossCostsExtraCycle(t *testing.T) {
	run := func(pc uint16, offset byte, carry bool) int {
		pins := NewCPUPins()
		cpu := NewCpuState(pins)
		cpu.SetPC(pc)
		cpu.SetCarry(carry)
		mem := map[uint16]byte{pc: offset}
		co := NewCoroutine(branchStepper(OperationDef{Mnemonic: BCC, Mode: Relative}))
		return runStepperAgainstMem(cpu, co, mem)
	}

	notTaken := run(0x0200, 0x02, true) // BCC not taken (carry set)
	takenNoCross := run(0x0200, 0x02, false)
	takenCross := run(0x02F0, 0x7a, false)

	assert.Greater(t, takenNoCross, notTaken)
	assert.Greater(t, takenCross, takenNoCross)
}
