package circuit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// CpuOperation reports a decoded instruction at the moment its stepper
// begins, for tracer consumers such as an external disassembler or
// debugger display (both out of scope here per spec §1 — only this
// interface is).
type CpuOperation struct {
	PC       uint16
	Opcode   byte
	Mnemonic Mnemonic
	Mode     AddressMode
}

// PinsState is a snapshot of a component's named pin levels, for
// tracers that want to render bus activity.
type PinsState struct {
	Component string
	Levels    map[string]bool
}

// MemCellUpdate reports a write observed on a memory chip's data bus.
type MemCellUpdate struct {
	Component string
	Addr      uint16
	Value     byte
}

// Tracer is the single collaborator surface this package exposes to a
// host debugger/disassembler (spec §7): CPU.nextInstructionStepper and
// MemoryChip call into it, but neither decoding for display nor
// interactive stepping live in this package.
type Tracer interface {
	OnOperation(op CpuOperation)
	OnPinsState(s PinsState)
	OnMemCellUpdate(u MemCellUpdate)
}

// NopTracer discards every event; it's the Machine default when no
// tracer is configured.
type NopTracer struct{}

func (NopTracer) OnOperation(CpuOperation)         {}
func (NopTracer) OnPinsState(PinsState)             {}
func (NopTracer) OnMemCellUpdate(MemCellUpdate)     {}

var mnemonicNames = [...]string{
	"XXX", "ADC", "AND", "ASL", "BCC", "BCS", "BEQ", "BIT", "BMI", "BNE",
	"BPL", "BRK", "BVC", "BVS", "CLC", "CLD", "CLI", "CLV", "CMP", "CPX",
	"CPY", "DEC", "DEX", "DEY", "EOR", "INC", "INX", "INY", "JMP", "JSR",
	"LDA", "LDX", "LDY", "LSR", "NOP", "ORA", "PHA", "PHP", "PLA", "PLP",
	"ROL", "ROR", "RTI", "RTS", "SBC", "SEC", "SED", "SEI", "STA", "STX",
	"STY", "TAX", "TAY", "TSX", "TXA", "TXS", "TYA",
}

func (m Mnemonic) String() string {
	if int(m) < len(mnemonicNames) {
		return mnemonicNames[m]
	}
	return "???"
}

// LineTracer renders each traced event as one styled line, grounded on
// the sibling lipgloss dependency the pack uses for terminal UI
// (hejops/gone's bubbletea+lipgloss stack) rather than on anything in
// the Rust source, whose debugger display is explicitly out of scope.
type LineTracer struct {
	out   *strings.Builder
	opStyle  lipgloss.Style
	memStyle lipgloss.Style
}

func NewLineTracer() *LineTracer {
	return &LineTracer{
		out:      &strings.Builder{},
		opStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		memStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
}

func (t *LineTracer) OnOperation(op CpuOperation) {
	line := t.opStyle.Render(fmt.Sprintf("%04X  %s", op.PC, op.Mnemonic))
	t.out.WriteString(line + "\n")
}

// OnPinsState dumps the snapshot with go-spew, which the pack already
// leans on (paired with testify in hejops/gone) for exactly this kind
// of ad hoc struct rendering.
func (t *LineTracer) OnPinsState(s PinsState) {
	t.out.WriteString(t.memStyle.Render(s.Component) + "\n")
	t.out.WriteString(spew.Sdump(s.Levels))
}

func (t *LineTracer) OnMemCellUpdate(u MemCellUpdate) {
	line := t.memStyle.Render(fmt.Sprintf("  %s[%04X] <- %02X", u.Component, u.Addr, u.Value))
	t.out.WriteString(line + "\n")
}

func (t *LineTracer) String() string { return t.out.String() }
