package cpu

import (
	"fmt"
)

// InstructionSetCB holds the extended instructions, selected by the
// 0xCB prefix. Each operates on one of the 8 register operands
// encoded in the low 3 bits of the opcode.
var InstructionSetCB = generateCBInstructions()

// cbOperations are the rotate, shift and swap operations of the
// 0x00-0x3F block, in opcode order.
var cbOperations = [8]struct {
	name string
	fn   func(c *CPU, n uint8) uint8
}{
	{"RLC", (*CPU).rotateLeftCarry},
	{"RRC", (*CPU).rotateRightCarry},
	{"RL", (*CPU).rotateLeftThroughCarry},
	{"RR", (*CPU).rotateRightThroughCarry},
	{"SLA", (*CPU).shiftLeftArithmetic},
	{"SRA", (*CPU).shiftRightArithmetic},
	{"SWAP", (*CPU).swap},
	{"SRL", (*CPU).shiftRightLogical},
}

// generateCBInstructions builds the 256 extended instructions. Every
// instruction is 2 bytes including the prefix, and costs 8 cycles, or
// 16 when it reads and writes (HL). BIT n, (HL) only reads, so it
// costs 12.
func generateCBInstructions() [256]Instruction {
	var set [256]Instruction

	cost := func(reg uint8, readOnly bool) uint8 {
		switch {
		case reg != 6:
			return 8
		case readOnly:
			return 12
		default:
			return 16
		}
	}

	for reg := uint8(0); reg < 8; reg++ {
		r := reg

		// 0x00 - 0x3F - rotates, shifts and SWAP
		for op := uint8(0); op < 8; op++ {
			fn := cbOperations[op].fn
			set[op<<3|reg] = Instruction{
				fmt.Sprintf("%s %s", cbOperations[op].name, registerNames[reg]), 2, cost(reg, false), 0,
				func(c *CPU, _ uint16) { c.set8(r, fn(c, c.get8(r))) },
			}
		}

		for bit := uint8(0); bit < 8; bit++ {
			b := bit

			// 0x40 - 0x7F - BIT n, r
			set[0x40|bit<<3|reg] = Instruction{
				fmt.Sprintf("BIT %d, %s", bit, registerNames[reg]), 2, cost(reg, true), 0,
				func(c *CPU, _ uint16) { c.testBit(c.get8(r), b) },
			}

			// 0x80 - 0xBF - RES n, r
			set[0x80|bit<<3|reg] = Instruction{
				fmt.Sprintf("RES %d, %s", bit, registerNames[reg]), 2, cost(reg, false), 0,
				func(c *CPU, _ uint16) { c.set8(r, c.get8(r)&^(1<<b)) },
			}

			// 0xC0 - 0xFF - SET n, r
			set[0xC0|bit<<3|reg] = Instruction{
				fmt.Sprintf("SET %d, %s", bit, registerNames[reg]), 2, cost(reg, false), 0,
				func(c *CPU, _ uint16) { c.set8(r, c.get8(r)|1<<b) },
			}
		}
	}

	return set
}
