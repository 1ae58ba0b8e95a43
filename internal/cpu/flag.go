package cpu

import "github.com/thelolagemann/gomeboy-core/pkg/bits"

// Flag is the bit position of a flag in the F register.
type Flag = uint8

const (
	FlagZero      Flag = 7
	FlagSubtract  Flag = 6
	FlagHalfCarry Flag = 5
	FlagCarry     Flag = 4
)

// clearFlag clears a flag from the F register.
func (c *CPU) clearFlag(flag Flag) {
	c.F = bits.Reset(c.F, flag)
}

// setFlag sets a flag in the F register.
func (c *CPU) setFlag(flag Flag) {
	c.F = bits.Set(c.F, flag)
}

// isFlagSet returns true if the given flag is set.
func (c *CPU) isFlagSet(flag Flag) bool {
	return bits.Test(c.F, flag)
}

// shouldZeroFlag sets FlagZero if the given value is 0.
func (c *CPU) shouldZeroFlag(value uint8) {
	c.F = bits.Assign(c.F, FlagZero, value == 0)
}

// setFlags sets all four flags at once. The lower nibble
// of F is always left clear.
func (c *CPU) setFlags(zero, subtract, halfCarry, carry bool) {
	c.F = 0
	c.F = bits.Assign(c.F, FlagZero, zero)
	c.F = bits.Assign(c.F, FlagSubtract, subtract)
	c.F = bits.Assign(c.F, FlagHalfCarry, halfCarry)
	c.F = bits.Assign(c.F, FlagCarry, carry)
}
