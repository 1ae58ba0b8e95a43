package cpu

import "github.com/thelolagemann/gomeboy-core/pkg/utils"

// Register represents a GB Register which is used to hold an 8-bit value.
// The CPU has 8 registers: A, B, C, D, E, H, L, and F. The F register is
// special in that it is used to hold the flags.
type Register = uint8

// RegisterPair represents a pair of GB Registers which is used to hold a 16-bit
// value. The CPU has 4 register pairs: AF, BC, DE, and HL.
//
// A RegisterPair holds no value of its own, it is a view over the two
// halves, so a write to either half is immediately visible in the pair.
type RegisterPair struct {
	High *Register
	Low  *Register

	// mask is applied to the low half on writes; the lower
	// nibble of F can never be set.
	mask uint8
}

// Uint16 returns the value of the RegisterPair as an uint16.
func (r *RegisterPair) Uint16() uint16 {
	return utils.JoinUint16(*r.High, *r.Low)
}

// SetUint16 sets the value of the RegisterPair to the given value.
func (r *RegisterPair) SetUint16(value uint16) {
	high, low := utils.SplitUint16(value)
	*r.High = high
	*r.Low = low & r.mask
}

// Registers represents the GB CPU registers.
type Registers struct {
	A Register
	B Register
	C Register
	D Register
	E Register
	F Register
	H Register
	L Register

	BC *RegisterPair
	DE *RegisterPair
	HL *RegisterPair
	AF *RegisterPair
}

// pairs wires the register pair views to their halves.
func (r *Registers) pairs() {
	r.BC = &RegisterPair{High: &r.B, Low: &r.C, mask: 0xFF}
	r.DE = &RegisterPair{High: &r.D, Low: &r.E, mask: 0xFF}
	r.HL = &RegisterPair{High: &r.H, Low: &r.L, mask: 0xFF}
	r.AF = &RegisterPair{High: &r.A, Low: &r.F, mask: 0xF0}
}

// registerNames holds the operand names used by the 3-bit register
// index encoded in most opcodes. Index 6 addresses memory at HL.
var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// registerPointer returns the Register for the given index, or nil
// for index 6, which is memory rather than a register.
func (c *CPU) registerPointer(index uint8) *Register {
	switch index & 7 {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	return nil
}

// get8 reads the operand selected by a 3-bit register index.
func (c *CPU) get8(index uint8) uint8 {
	if r := c.registerPointer(index); r != nil {
		return *r
	}
	return c.bus.Read(c.HL.Uint16())
}

// set8 writes the operand selected by a 3-bit register index.
func (c *CPU) set8(index uint8, value uint8) {
	if r := c.registerPointer(index); r != nil {
		*r = value
		return
	}
	c.bus.Write(c.HL.Uint16(), value)
}
