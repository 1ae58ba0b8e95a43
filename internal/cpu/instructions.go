package cpu

import (
	"fmt"
)

// Instruction represents a single instruction of the CPU.
type Instruction struct {
	name   string // name of the instruction
	size   uint8  // size in bytes, opcode included
	cycles uint8  // cycles taken, or cycles when a branch is not taken
	taken  uint8  // cycles taken by a conditional when the branch is taken

	// fn is called when executing the instruction, with the
	// immediate operand (if any) already fetched.
	fn func(c *CPU, operand uint16)
}

// Name returns the mnemonic of the instruction.
func (i Instruction) Name() string { return i.name }

// Size returns the size of the instruction in bytes.
func (i Instruction) Size() uint8 { return i.size }

// Cycles returns the cost of the instruction in T-cycles. For
// conditional instructions this is the cost of the branch not
// being taken.
func (i Instruction) Cycles() uint8 { return i.cycles }

// Taken returns the cost of a conditional instruction when its
// branch is taken. It is 0 for every other instruction.
func (i Instruction) Taken() uint8 { return i.taken }

// Defined reports whether the opcode decodes to an instruction.
func (i Instruction) Defined() bool { return i.fn != nil }

// InstructionSet holds the first 256 instructions. The entries
// for 0x40-0xBF follow a regular pattern and are generated in
// init. Opcodes without a handler are illegal on the hardware.
var InstructionSet = [256]Instruction{
	0x00: {"NOP", 1, 4, 0, func(c *CPU, _ uint16) {}},
	0x01: {"LD BC, d16", 3, 12, 0, func(c *CPU, nn uint16) { c.BC.SetUint16(nn) }},
	0x02: {"LD (BC), A", 1, 8, 0, func(c *CPU, _ uint16) { c.bus.Write(c.BC.Uint16(), c.A) }},
	0x03: {"INC BC", 1, 8, 0, func(c *CPU, _ uint16) { c.BC.SetUint16(c.BC.Uint16() + 1) }},
	0x04: {"INC B", 1, 4, 0, func(c *CPU, _ uint16) { c.B = c.increment(c.B) }},
	0x05: {"DEC B", 1, 4, 0, func(c *CPU, _ uint16) { c.B = c.decrement(c.B) }},
	0x06: {"LD B, d8", 2, 8, 0, func(c *CPU, n uint16) { c.B = uint8(n) }},
	0x07: {"RLCA", 1, 4, 0, func(c *CPU, _ uint16) { c.rotateAccumulator((*CPU).rotateLeftCarry) }},
	0x08: {
		"LD (a16), SP", 3, 20, 0,
		func(c *CPU, nn uint16) {
			c.bus.Write(nn, uint8(c.SP))
			c.bus.Write(nn+1, uint8(c.SP>>8))
		},
	},
	0x09: {"ADD HL, BC", 1, 8, 0, func(c *CPU, _ uint16) { c.addHL(c.BC.Uint16()) }},
	0x0A: {"LD A, (BC)", 1, 8, 0, func(c *CPU, _ uint16) { c.A = c.bus.Read(c.BC.Uint16()) }},
	0x0B: {"DEC BC", 1, 8, 0, func(c *CPU, _ uint16) { c.BC.SetUint16(c.BC.Uint16() - 1) }},
	0x0C: {"INC C", 1, 4, 0, func(c *CPU, _ uint16) { c.C = c.increment(c.C) }},
	0x0D: {"DEC C", 1, 4, 0, func(c *CPU, _ uint16) { c.C = c.decrement(c.C) }},
	0x0E: {"LD C, d8", 2, 8, 0, func(c *CPU, n uint16) { c.C = uint8(n) }},
	0x0F: {"RRCA", 1, 4, 0, func(c *CPU, _ uint16) { c.rotateAccumulator((*CPU).rotateRightCarry) }},

	// STOP is followed by a padding byte. Without a joypad to wake
	// it, it behaves like HALT.
	0x10: {"STOP", 2, 4, 0, func(c *CPU, _ uint16) { c.halted = true }},
	0x11: {"LD DE, d16", 3, 12, 0, func(c *CPU, nn uint16) { c.DE.SetUint16(nn) }},
	0x12: {"LD (DE), A", 1, 8, 0, func(c *CPU, _ uint16) { c.bus.Write(c.DE.Uint16(), c.A) }},
	0x13: {"INC DE", 1, 8, 0, func(c *CPU, _ uint16) { c.DE.SetUint16(c.DE.Uint16() + 1) }},
	0x14: {"INC D", 1, 4, 0, func(c *CPU, _ uint16) { c.D = c.increment(c.D) }},
	0x15: {"DEC D", 1, 4, 0, func(c *CPU, _ uint16) { c.D = c.decrement(c.D) }},
	0x16: {"LD D, d8", 2, 8, 0, func(c *CPU, n uint16) { c.D = uint8(n) }},
	0x17: {"RLA", 1, 4, 0, func(c *CPU, _ uint16) { c.rotateAccumulator((*CPU).rotateLeftThroughCarry) }},
	0x18: {"JR r8", 2, 12, 0, func(c *CPU, e uint16) { c.jumpRelative(uint8(e)) }},
	0x19: {"ADD HL, DE", 1, 8, 0, func(c *CPU, _ uint16) { c.addHL(c.DE.Uint16()) }},
	0x1A: {"LD A, (DE)", 1, 8, 0, func(c *CPU, _ uint16) { c.A = c.bus.Read(c.DE.Uint16()) }},
	0x1B: {"DEC DE", 1, 8, 0, func(c *CPU, _ uint16) { c.DE.SetUint16(c.DE.Uint16() - 1) }},
	0x1C: {"INC E", 1, 4, 0, func(c *CPU, _ uint16) { c.E = c.increment(c.E) }},
	0x1D: {"DEC E", 1, 4, 0, func(c *CPU, _ uint16) { c.E = c.decrement(c.E) }},
	0x1E: {"LD E, d8", 2, 8, 0, func(c *CPU, n uint16) { c.E = uint8(n) }},
	0x1F: {"RRA", 1, 4, 0, func(c *CPU, _ uint16) { c.rotateAccumulator((*CPU).rotateRightThroughCarry) }},

	0x20: {
		"JR NZ, r8", 2, 8, 12,
		func(c *CPU, e uint16) { c.jumpRelativeConditional(!c.isFlagSet(FlagZero), uint8(e)) },
	},
	0x21: {"LD HL, d16", 3, 12, 0, func(c *CPU, nn uint16) { c.HL.SetUint16(nn) }},
	0x22: {
		"LD (HL+), A", 1, 8, 0,
		func(c *CPU, _ uint16) {
			c.bus.Write(c.HL.Uint16(), c.A)
			c.HL.SetUint16(c.HL.Uint16() + 1)
		},
	},
	0x23: {"INC HL", 1, 8, 0, func(c *CPU, _ uint16) { c.HL.SetUint16(c.HL.Uint16() + 1) }},
	0x24: {"INC H", 1, 4, 0, func(c *CPU, _ uint16) { c.H = c.increment(c.H) }},
	0x25: {"DEC H", 1, 4, 0, func(c *CPU, _ uint16) { c.H = c.decrement(c.H) }},
	0x26: {"LD H, d8", 2, 8, 0, func(c *CPU, n uint16) { c.H = uint8(n) }},
	0x27: {"DAA", 1, 4, 0, func(c *CPU, _ uint16) { c.decimalAdjust() }},
	0x28: {
		"JR Z, r8", 2, 8, 12,
		func(c *CPU, e uint16) { c.jumpRelativeConditional(c.isFlagSet(FlagZero), uint8(e)) },
	},
	0x29: {"ADD HL, HL", 1, 8, 0, func(c *CPU, _ uint16) { c.addHL(c.HL.Uint16()) }},
	0x2A: {
		"LD A, (HL+)", 1, 8, 0,
		func(c *CPU, _ uint16) {
			c.A = c.bus.Read(c.HL.Uint16())
			c.HL.SetUint16(c.HL.Uint16() + 1)
		},
	},
	0x2B: {"DEC HL", 1, 8, 0, func(c *CPU, _ uint16) { c.HL.SetUint16(c.HL.Uint16() - 1) }},
	0x2C: {"INC L", 1, 4, 0, func(c *CPU, _ uint16) { c.L = c.increment(c.L) }},
	0x2D: {"DEC L", 1, 4, 0, func(c *CPU, _ uint16) { c.L = c.decrement(c.L) }},
	0x2E: {"LD L, d8", 2, 8, 0, func(c *CPU, n uint16) { c.L = uint8(n) }},
	0x2F: {
		"CPL", 1, 4, 0,
		func(c *CPU, _ uint16) {
			c.A = ^c.A
			c.setFlag(FlagSubtract)
			c.setFlag(FlagHalfCarry)
		},
	},

	0x30: {
		"JR NC, r8", 2, 8, 12,
		func(c *CPU, e uint16) { c.jumpRelativeConditional(!c.isFlagSet(FlagCarry), uint8(e)) },
	},
	0x31: {"LD SP, d16", 3, 12, 0, func(c *CPU, nn uint16) { c.SP = nn }},
	0x32: {
		"LD (HL-), A", 1, 8, 0,
		func(c *CPU, _ uint16) {
			c.bus.Write(c.HL.Uint16(), c.A)
			c.HL.SetUint16(c.HL.Uint16() - 1)
		},
	},
	0x33: {"INC SP", 1, 8, 0, func(c *CPU, _ uint16) { c.SP++ }},
	0x34: {
		"INC (HL)", 1, 12, 0,
		func(c *CPU, _ uint16) { c.bus.Write(c.HL.Uint16(), c.increment(c.bus.Read(c.HL.Uint16()))) },
	},
	0x35: {
		"DEC (HL)", 1, 12, 0,
		func(c *CPU, _ uint16) { c.bus.Write(c.HL.Uint16(), c.decrement(c.bus.Read(c.HL.Uint16()))) },
	},
	0x36: {"LD (HL), d8", 2, 12, 0, func(c *CPU, n uint16) { c.bus.Write(c.HL.Uint16(), uint8(n)) }},
	0x37: {
		"SCF", 1, 4, 0,
		func(c *CPU, _ uint16) { c.setFlags(c.isFlagSet(FlagZero), false, false, true) },
	},
	0x38: {
		"JR C, r8", 2, 8, 12,
		func(c *CPU, e uint16) { c.jumpRelativeConditional(c.isFlagSet(FlagCarry), uint8(e)) },
	},
	0x39: {"ADD HL, SP", 1, 8, 0, func(c *CPU, _ uint16) { c.addHL(c.SP) }},
	0x3A: {
		"LD A, (HL-)", 1, 8, 0,
		func(c *CPU, _ uint16) {
			c.A = c.bus.Read(c.HL.Uint16())
			c.HL.SetUint16(c.HL.Uint16() - 1)
		},
	},
	0x3B: {"DEC SP", 1, 8, 0, func(c *CPU, _ uint16) { c.SP-- }},
	0x3C: {"INC A", 1, 4, 0, func(c *CPU, _ uint16) { c.A = c.increment(c.A) }},
	0x3D: {"DEC A", 1, 4, 0, func(c *CPU, _ uint16) { c.A = c.decrement(c.A) }},
	0x3E: {"LD A, d8", 2, 8, 0, func(c *CPU, n uint16) { c.A = uint8(n) }},
	0x3F: {
		"CCF", 1, 4, 0,
		func(c *CPU, _ uint16) { c.setFlags(c.isFlagSet(FlagZero), false, false, !c.isFlagSet(FlagCarry)) },
	},

	0xC0: {"RET NZ", 1, 8, 20, func(c *CPU, _ uint16) { c.retConditional(!c.isFlagSet(FlagZero)) }},
	0xC1: {"POP BC", 1, 12, 0, func(c *CPU, _ uint16) { c.BC.SetUint16(c.pop()) }},
	0xC2: {
		"JP NZ, a16", 3, 12, 16,
		func(c *CPU, nn uint16) { c.jumpAbsoluteConditional(!c.isFlagSet(FlagZero), nn) },
	},
	0xC3: {"JP a16", 3, 16, 0, func(c *CPU, nn uint16) { c.PC = nn }},
	0xC4: {
		"CALL NZ, a16", 3, 12, 24,
		func(c *CPU, nn uint16) { c.callConditional(!c.isFlagSet(FlagZero), nn) },
	},
	0xC5: {"PUSH BC", 1, 16, 0, func(c *CPU, _ uint16) { c.push(c.BC.Uint16()) }},
	0xC6: {"ADD A, d8", 2, 8, 0, func(c *CPU, n uint16) { c.add(uint8(n), false) }},
	0xC7: {"RST 00H", 1, 16, 0, func(c *CPU, _ uint16) { c.call(0x00) }},
	0xC8: {"RET Z", 1, 8, 20, func(c *CPU, _ uint16) { c.retConditional(c.isFlagSet(FlagZero)) }},
	0xC9: {"RET", 1, 16, 0, func(c *CPU, _ uint16) { c.ret() }},
	0xCA: {
		"JP Z, a16", 3, 12, 16,
		func(c *CPU, nn uint16) { c.jumpAbsoluteConditional(c.isFlagSet(FlagZero), nn) },
	},
	// 0xCB selects InstructionSetCB and is resolved by the fetch.
	0xCB: {name: "PREFIX CB", size: 1, cycles: 4},
	0xCC: {
		"CALL Z, a16", 3, 12, 24,
		func(c *CPU, nn uint16) { c.callConditional(c.isFlagSet(FlagZero), nn) },
	},
	0xCD: {"CALL a16", 3, 24, 0, func(c *CPU, nn uint16) { c.call(nn) }},
	0xCE: {"ADC A, d8", 2, 8, 0, func(c *CPU, n uint16) { c.add(uint8(n), true) }},
	0xCF: {"RST 08H", 1, 16, 0, func(c *CPU, _ uint16) { c.call(0x08) }},

	0xD0: {"RET NC", 1, 8, 20, func(c *CPU, _ uint16) { c.retConditional(!c.isFlagSet(FlagCarry)) }},
	0xD1: {"POP DE", 1, 12, 0, func(c *CPU, _ uint16) { c.DE.SetUint16(c.pop()) }},
	0xD2: {
		"JP NC, a16", 3, 12, 16,
		func(c *CPU, nn uint16) { c.jumpAbsoluteConditional(!c.isFlagSet(FlagCarry), nn) },
	},
	0xD4: {
		"CALL NC, a16", 3, 12, 24,
		func(c *CPU, nn uint16) { c.callConditional(!c.isFlagSet(FlagCarry), nn) },
	},
	0xD5: {"PUSH DE", 1, 16, 0, func(c *CPU, _ uint16) { c.push(c.DE.Uint16()) }},
	0xD6: {"SUB d8", 2, 8, 0, func(c *CPU, n uint16) { c.sub(uint8(n), false) }},
	0xD7: {"RST 10H", 1, 16, 0, func(c *CPU, _ uint16) { c.call(0x10) }},
	0xD8: {"RET C", 1, 8, 20, func(c *CPU, _ uint16) { c.retConditional(c.isFlagSet(FlagCarry)) }},
	0xD9: {"RETI", 1, 16, 0, func(c *CPU, _ uint16) { c.retInterrupt() }},
	0xDA: {
		"JP C, a16", 3, 12, 16,
		func(c *CPU, nn uint16) { c.jumpAbsoluteConditional(c.isFlagSet(FlagCarry), nn) },
	},
	0xDC: {
		"CALL C, a16", 3, 12, 24,
		func(c *CPU, nn uint16) { c.callConditional(c.isFlagSet(FlagCarry), nn) },
	},
	0xDE: {"SBC A, d8", 2, 8, 0, func(c *CPU, n uint16) { c.sub(uint8(n), true) }},
	0xDF: {"RST 18H", 1, 16, 0, func(c *CPU, _ uint16) { c.call(0x18) }},

	0xE0: {"LDH (a8), A", 2, 12, 0, func(c *CPU, n uint16) { c.bus.Write(0xFF00|n, c.A) }},
	0xE1: {"POP HL", 1, 12, 0, func(c *CPU, _ uint16) { c.HL.SetUint16(c.pop()) }},
	0xE2: {"LD (C), A", 1, 8, 0, func(c *CPU, _ uint16) { c.bus.Write(0xFF00|uint16(c.C), c.A) }},
	0xE5: {"PUSH HL", 1, 16, 0, func(c *CPU, _ uint16) { c.push(c.HL.Uint16()) }},
	0xE6: {"AND d8", 2, 8, 0, func(c *CPU, n uint16) { c.and(uint8(n)) }},
	0xE7: {"RST 20H", 1, 16, 0, func(c *CPU, _ uint16) { c.call(0x20) }},
	0xE8: {"ADD SP, r8", 2, 16, 0, func(c *CPU, e uint16) { c.SP = c.addSPSigned(uint8(e)) }},
	0xE9: {"JP (HL)", 1, 4, 0, func(c *CPU, _ uint16) { c.PC = c.HL.Uint16() }},
	0xEA: {"LD (a16), A", 3, 16, 0, func(c *CPU, nn uint16) { c.bus.Write(nn, c.A) }},
	0xEE: {"XOR d8", 2, 8, 0, func(c *CPU, n uint16) { c.xor(uint8(n)) }},
	0xEF: {"RST 28H", 1, 16, 0, func(c *CPU, _ uint16) { c.call(0x28) }},

	0xF0: {"LDH A, (a8)", 2, 12, 0, func(c *CPU, n uint16) { c.A = c.bus.Read(0xFF00 | n) }},
	0xF1: {"POP AF", 1, 12, 0, func(c *CPU, _ uint16) { c.AF.SetUint16(c.pop()) }},
	0xF2: {"LD A, (C)", 1, 8, 0, func(c *CPU, _ uint16) { c.A = c.bus.Read(0xFF00 | uint16(c.C)) }},
	0xF3: {
		"DI", 1, 4, 0,
		func(c *CPU, _ uint16) {
			c.IME = false
			c.eiDelay = 0
		},
	},
	0xF5: {"PUSH AF", 1, 16, 0, func(c *CPU, _ uint16) { c.push(c.AF.Uint16()) }},
	0xF6: {"OR d8", 2, 8, 0, func(c *CPU, n uint16) { c.or(uint8(n)) }},
	0xF7: {"RST 30H", 1, 16, 0, func(c *CPU, _ uint16) { c.call(0x30) }},
	0xF8: {"LD HL, SP+r8", 2, 12, 0, func(c *CPU, e uint16) { c.HL.SetUint16(c.addSPSigned(uint8(e))) }},
	0xF9: {"LD SP, HL", 1, 8, 0, func(c *CPU, _ uint16) { c.SP = c.HL.Uint16() }},
	0xFA: {"LD A, (a16)", 3, 16, 0, func(c *CPU, nn uint16) { c.A = c.bus.Read(nn) }},
	0xFB: {
		"EI", 1, 4, 0,
		func(c *CPU, _ uint16) {
			if !c.IME && c.eiDelay == 0 {
				c.eiDelay = 2
			}
		},
	},
	0xFE: {"CP d8", 2, 8, 0, func(c *CPU, n uint16) { c.compare(uint8(n)) }},
	0xFF: {"RST 38H", 1, 16, 0, func(c *CPU, _ uint16) { c.call(0x38) }},
}

// illegalOpcodes have no instruction on the hardware, fetching one
// locks up the CPU.
var illegalOpcodes = []uint8{
	0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD,
}

func init() {
	generateLoadInstructions()
	generateALUInstructions()

	for _, opcode := range illegalOpcodes {
		InstructionSet[opcode] = Instruction{name: fmt.Sprintf("ILLEGAL %02X", opcode), size: 1}
	}
}

// generateLoadInstructions fills 0x40-0x7F, the LD r, r' block,
// and HALT which takes the place of LD (HL), (HL).
func generateLoadInstructions() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 | dst<<3 | src
			if dst == 6 && src == 6 {
				InstructionSet[opcode] = Instruction{
					"HALT", 1, 4, 0,
					func(c *CPU, _ uint16) { c.halted = true },
				}
				continue
			}

			cycles := uint8(4)
			if dst == 6 || src == 6 {
				cycles = 8
			}
			d, s := dst, src
			InstructionSet[opcode] = Instruction{
				fmt.Sprintf("LD %s, %s", registerNames[dst], registerNames[src]), 1, cycles, 0,
				func(c *CPU, _ uint16) { c.set8(d, c.get8(s)) },
			}
		}
	}
}

// aluOperations are the 8 arithmetic and logic operations of the
// 0x80-0xBF block, in opcode order.
var aluOperations = [8]struct {
	name string
	fn   func(c *CPU, n uint8)
}{
	{"ADD A,", func(c *CPU, n uint8) { c.add(n, false) }},
	{"ADC A,", func(c *CPU, n uint8) { c.add(n, true) }},
	{"SUB", func(c *CPU, n uint8) { c.sub(n, false) }},
	{"SBC A,", func(c *CPU, n uint8) { c.sub(n, true) }},
	{"AND", (*CPU).and},
	{"XOR", (*CPU).xor},
	{"OR", (*CPU).or},
	{"CP", (*CPU).compare},
}

// generateALUInstructions fills 0x80-0xBF, every ALU operation
// against every register operand.
func generateALUInstructions() {
	for op := uint8(0); op < 8; op++ {
		for src := uint8(0); src < 8; src++ {
			cycles := uint8(4)
			if src == 6 {
				cycles = 8
			}
			fn, s := aluOperations[op].fn, src
			InstructionSet[0x80|op<<3|src] = Instruction{
				fmt.Sprintf("%s %s", aluOperations[op].name, registerNames[src]), 1, cycles, 0,
				func(c *CPU, _ uint16) { fn(c, c.get8(s)) },
			}
		}
	}
}
