// Package cpu implements the fetch, decode and execute loop of the
// Game Boy's Sharp LR35902 CPU.
package cpu

import (
	"fmt"

	"github.com/thelolagemann/gomeboy-core/internal/interrupts"
	"github.com/thelolagemann/gomeboy-core/internal/types"
	"github.com/thelolagemann/gomeboy-core/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the CPU, in T-cycles per second.
	ClockSpeed = 4194304

	// dispatchCycles is the cost of servicing an interrupt.
	dispatchCycles = 20
	// haltCycles is the cost of a step spent halted.
	haltCycles = 4
)

// Bus is the memory the CPU executes against.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	// ObservePC is called every time the program counter moves,
	// before the memory at the new address is accessed.
	ObservePC(pc uint16)
	// Ready returns an error when the bus cannot be executed
	// against yet.
	Ready() error
}

// CPU represents the Gameboy CPU. It is responsible for executing instructions.
type CPU struct {
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16
	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
	// Registers contains the 8-bit registers, as well as the 16-bit register pairs.
	Registers

	// IME is the interrupt master enable flag.
	IME bool

	// eiDelay counts down the instructions until EI takes effect.
	eiDelay uint8
	halted  bool
	// branched is set by a conditional instruction that took its branch.
	branched bool

	bus Bus
	irq *interrupts.Service
	log log.Logger
}

// NewCPU creates a new CPU instance with the given Bus and interrupt
// service. A nil logger discards all output.
func NewCPU(bus Bus, irq *interrupts.Service, logger log.Logger) *CPU {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	c := &CPU{
		bus: bus,
		irq: irq,
		log: logger,
	}
	// create register pairs
	c.Registers.pairs()

	return c
}

// SkipBoot puts the CPU in the state the DMG boot ROM leaves it in
// when it hands over to the cartridge.
func (c *CPU) SkipBoot() {
	c.AF.SetUint16(0x01B0)
	c.BC.SetUint16(0x0013)
	c.DE.SetUint16(0x00D8)
	c.HL.SetUint16(0x014D)
	c.SP = 0xFFFE
	c.PC = types.EntryPoint
}

// Halted reports whether the CPU is waiting for an interrupt.
func (c *CPU) Halted() bool {
	return c.halted
}

// Step executes a single instruction, or services a single interrupt,
// and returns the number of T-cycles it took along with a trace of
// what was executed.
//
// Interrupts are checked before every fetch. When the IME is set and
// an enabled interrupt is requested, the step pushes PC and jumps to
// the interrupt's vector instead of executing an instruction.
func (c *CPU) Step() (uint, Trace, error) {
	if err := c.bus.Ready(); err != nil {
		return 0, Trace{PC: c.PC}, err
	}
	c.bus.ObservePC(c.PC)

	// any pending interrupt wakes the CPU, regardless of the IME
	if c.halted && c.irq.Pending() {
		c.halted = false
	}
	if c.IME && c.irq.Pending() {
		cycles, trace := c.dispatch()
		return cycles, trace, nil
	}
	if c.halted {
		return haltCycles, Trace{PC: c.PC, Name: "HALT", Cycles: haltCycles, Halted: true}, nil
	}

	pc := c.PC
	opcode := uint16(c.bus.Read(pc))
	instruction := InstructionSet[opcode]
	if opcode == 0xCB {
		opcode = 0xCB00 | uint16(c.bus.Read(pc+1))
		instruction = InstructionSetCB[uint8(opcode)]
	}
	if !instruction.Defined() {
		err := &UnknownOpcodeError{Opcode: opcode, PC: pc}
		c.log.Errorf("%v", err)
		return 0, Trace{PC: pc, Opcode: opcode, Name: instruction.name}, err
	}

	// prefixed instructions carry no immediate operand
	var operand uint16
	if opcode <= 0xFF {
		switch instruction.size {
		case 2:
			operand = uint16(c.bus.Read(pc + 1))
		case 3:
			operand = uint16(c.bus.Read(pc+1)) | uint16(c.bus.Read(pc+2))<<8
		}
	}

	next := pc + uint16(instruction.size)
	c.PC = next
	c.bus.ObservePC(c.PC)

	c.branched = false
	instruction.fn(c, operand)
	if c.PC != next {
		// jumps, calls, returns and restarts
		c.bus.ObservePC(c.PC)
	}

	cycles := uint(instruction.cycles)
	if c.branched {
		cycles = uint(instruction.taken)
	}

	// EI takes effect once the instruction after it has completed
	if c.eiDelay > 0 {
		c.eiDelay--
		if c.eiDelay == 0 {
			c.IME = true
		}
	}

	trace := Trace{
		PC:      pc,
		Opcode:  opcode,
		Name:    instruction.name,
		Operand: operand,
		Size:    instruction.size,
		Cycles:  cycles,
	}
	if err := c.verify(); err != nil {
		return cycles, trace, err
	}
	return cycles, trace, nil
}

// dispatch services the highest priority pending interrupt.
func (c *CPU) dispatch() (uint, Trace) {
	bit, _ := c.irq.Next()
	pc := c.PC

	c.IME = false
	c.eiDelay = 0
	c.irq.Acknowledge(bit)

	c.push(c.PC)
	c.PC = interrupts.Vector(bit)
	c.bus.ObservePC(c.PC)

	return dispatchCycles, Trace{
		PC:        pc,
		Name:      "INT",
		Operand:   c.PC,
		Cycles:    dispatchCycles,
		Interrupt: true,
	}
}

// verify checks the register file after an instruction. The
// register pairs are views over their halves, so the only state
// that can go wrong is the lower nibble of F.
func (c *CPU) verify() error {
	if c.F&0x0F != 0 {
		return &RegisterInvariantError{Register: "F", Value: uint16(c.F)}
	}
	if c.AF.Uint16() != uint16(c.A)<<8|uint16(c.F) {
		return &RegisterInvariantError{Register: "AF", Value: c.AF.Uint16()}
	}
	return nil
}

// Snapshot is a copy of the CPU registers at a point in time.
type Snapshot struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	IME, Halted            bool
}

// Snapshot returns a copy of the registers.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		SP: c.SP, PC: c.PC,
		IME: c.IME, Halted: c.halted,
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("A: %02X F: %02X B: %02X C: %02X D: %02X E: %02X H: %02X L: %02X SP: %04X PC: %04X",
		s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L, s.SP, s.PC)
}

var _ types.Stater = (*CPU)(nil)

// Load implements the types.Stater interface. The interrupt
// registers are restored along with the CPU.
func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = s.Read8() & 0xF0
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.IME = s.ReadBool()
	c.eiDelay = s.Read8()
	c.halted = s.ReadBool()
	c.irq.Load(s)
}

// Save implements the types.Stater interface.
func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.WriteBool(c.IME)
	s.Write8(c.eiDelay)
	s.WriteBool(c.halted)
	c.irq.Save(s)
}
