package cpu

import (
	"fmt"
	"strings"
)

// Trace describes a single step of the CPU.
type Trace struct {
	PC      uint16 // address the instruction was fetched from
	Opcode  uint16 // opcode, 0xCBxx for the extended set
	Name    string // mnemonic, with operand placeholders
	Operand uint16 // immediate operand, or the vector for an interrupt
	Size    uint8
	Cycles  uint

	// Interrupt is set when the step serviced an interrupt
	// rather than executing an instruction.
	Interrupt bool
	// Halted is set when the step was spent waiting in HALT.
	Halted bool
}

// String renders the trace as a line of disassembly, with the
// operand placeholders replaced by the fetched operand:
//
//	0150: LD A, $3E
//	0153: JR NZ, $0150
//	0040: INT $0040
func (t Trace) String() string {
	if t.Interrupt {
		return fmt.Sprintf("%04X: INT $%04X", t.PC, t.Operand)
	}
	return fmt.Sprintf("%04X: %s", t.PC, t.Instruction())
}

// Instruction returns the mnemonic with its operand substituted.
func (t Trace) Instruction() string {
	name := t.Name
	switch {
	case strings.Contains(name, "d16"):
		name = strings.Replace(name, "d16", fmt.Sprintf("$%04X", t.Operand), 1)
	case strings.Contains(name, "a16"):
		name = strings.Replace(name, "a16", fmt.Sprintf("$%04X", t.Operand), 1)
	case strings.Contains(name, "d8"):
		name = strings.Replace(name, "d8", fmt.Sprintf("$%02X", t.Operand), 1)
	case strings.Contains(name, "a8"):
		name = strings.Replace(name, "a8", fmt.Sprintf("$FF%02X", t.Operand), 1)
	case strings.HasPrefix(name, "JR"):
		target := relative(t.PC+uint16(t.Size), uint8(t.Operand))
		name = strings.Replace(name, "r8", fmt.Sprintf("$%04X", target), 1)
	case strings.Contains(name, "r8"):
		name = strings.Replace(name, "+r8", "r8", 1)
		name = strings.Replace(name, "r8", fmt.Sprintf("%+d", int8(t.Operand)), 1)
	}
	return name
}
