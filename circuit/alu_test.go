package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestState() *CpuState {
	return NewCpuState(NewCPUPins())
}

func TestAdcOverflow(t *testing.T) {
	cpu := newTestState()
	cpu.SetA(0x7f)
	ExecuteRead(ADC, cpu, 0x01)
	assert.Equal(t, byte(0x80), cpu.A())
	assert.True(t, cpu.Overflow())
	assert.True(t, cpu.Negative())
	assert.False(t, cpu.Carry())
}

func TestSbcBorrow(t *testing.T) {
	cpu := newTestState()
	cpu.SetA(0x00)
	cpu.SetCarry(true) // no borrow pending
	ExecuteRead(SBC, cpu, 0x01)
	assert.Equal(t, byte(0xff), cpu.A())
	assert.False(t, cpu.Carry()) // borrow occurred
	assert.True(t, cpu.Negative())
}

func TestCompareSetsCarryWhenRegGreaterOrEqual(t *testing.T) {
	cpu := newTestState()
	cpu.SetA(0x10)
	ExecuteRead(CMP, cpu, 0x10)
	assert.True(t, cpu.Zero())
	assert.True(t, cpu.Carry())

	ExecuteRead(CMP, cpu, 0x20)
	assert.False(t, cpu.Carry())
}

func TestShiftAndRotate(t *testing.T) {
	cpu := newTestState()
	r := ExecuteRMW(ASL, cpu, 0x81)
	assert.Equal(t, byte(0x02), r)
	assert.True(t, cpu.Carry())

	cpu2 := newTestState()
	r2 := ExecuteRMW(LSR, cpu2, 0x01)
	assert.Equal(t, byte(0x00), r2)
	assert.True(t, cpu2.Carry())
	assert.True(t, cpu2.Zero())

	cpu3 := newTestState()
	cpu3.SetCarry(true)
	r3 := ExecuteRMW(ROL, cpu3, 0x80)
	assert.Equal(t, byte(0x01), r3)
	assert.True(t, cpu3.Carry())

	cpu4 := newTestState()
	cpu4.SetCarry(true)
	r4 := ExecuteRMW(ROR, cpu4, 0x01)
	assert.Equal(t, byte(0x80), r4)
	assert.True(t, cpu4.Carry())
	assert.True(t, cpu4.Negative())
}

func TestIncDecWrapAtBoundaries(t *testing.T) {
	cpu := newTestState()
	assert.Equal(t, byte(0x00), ExecuteRMW(INC, cpu, 0xff))
	assert.True(t, cpu.Zero())

	assert.Equal(t, byte(0xff), ExecuteRMW(DEC, cpu, 0x00))
	assert.True(t, cpu.Negative())
}

func TestFlagOpsAndTransfers(t *testing.T) {
	cpu := newTestState()
	ExecuteNoMem(SEC, cpu)
	assert.True(t, cpu.Carry())
	ExecuteNoMem(CLC, cpu)
	assert.False(t, cpu.Carry())

	cpu.SetA(0x55)
	ExecuteNoMem(TAX, cpu)
	assert.Equal(t, byte(0x55), cpu.X())

	cpu.SetX(0x10)
	ExecuteNoMem(TXS, cpu)
	assert.Equal(t, byte(0x10), cpu.SP())
}

func TestBranchConditions(t *testing.T) {
	cpu := newTestState()
	cpu.SetZero(true)
	assert.True(t, BranchTaken(BEQ, cpu))
	assert.False(t, BranchTaken(BNE, cpu))
}

func TestBitOperation(t *testing.T) {
	cpu := newTestState()
	cpu.SetA(0x0f)
	ExecuteRead(BIT, cpu, 0xc0)
	assert.True(t, cpu.Negative())
	assert.True(t, cpu.Overflow())
	assert.True(t, cpu.Zero()) // A & 0xc0 == 0
}
