package cpu

// push pushes a 16 bit value onto the stack, high byte first.
//
//	PUSH nn
//	nn = AF, BC, DE, HL
func (c *CPU) push(value uint16) {
	c.SP--
	c.bus.Write(c.SP, uint8(value>>8))
	c.SP--
	c.bus.Write(c.SP, uint8(value))
}

// pop pops a 16 bit value off the stack.
//
//	POP nn
//	nn = AF, BC, DE, HL
func (c *CPU) pop() uint16 {
	low := uint16(c.bus.Read(c.SP))
	c.SP++
	high := uint16(c.bus.Read(c.SP))
	c.SP++
	return high<<8 | low
}

// call pushes the address of the next instruction onto the stack and jumps to
// the given address.
//
//	CALL nn
//	nn = 16-bit immediate value
func (c *CPU) call(address uint16) {
	c.push(c.PC)
	c.PC = address
}

// callConditional calls the given address if the given condition is true.
//
//	CALL cc, nn
//	cc = NZ, Z, NC, C
//	nn = 16-bit immediate value
func (c *CPU) callConditional(condition bool, address uint16) {
	if condition {
		c.call(address)
		c.branched = true
	}
}

// jumpRelative jumps to the address relative to the current PC, which
// already points past the operand.
//
//	JR e
//	e = 8-bit signed immediate value
func (c *CPU) jumpRelative(offset uint8) {
	c.PC = relative(c.PC, offset)
}

// jumpRelativeConditional jumps to the address relative to the current PC if
// the given condition is true.
//
//	JR cc, e
//	cc = NZ, Z, NC, C
//	e = 8-bit signed immediate value
func (c *CPU) jumpRelativeConditional(condition bool, offset uint8) {
	if condition {
		c.jumpRelative(offset)
		c.branched = true
	}
}

// jumpAbsoluteConditional jumps to the given address if the given condition is
// true.
//
//	JP cc, nn
//	cc = NZ, Z, NC, C
//	nn = 16-bit immediate value
func (c *CPU) jumpAbsoluteConditional(condition bool, address uint16) {
	if condition {
		c.PC = address
		c.branched = true
	}
}

// ret pops the top two bytes off the stack and jumps to that address.
//
//	RET
func (c *CPU) ret() {
	c.PC = c.pop()
}

// retConditional returns if the given condition is true.
//
//	RET cc
//	cc = NZ, Z, NC, C
func (c *CPU) retConditional(condition bool) {
	if condition {
		c.ret()
		c.branched = true
	}
}

// retInterrupt returns and enables interrupts without the
// delay that EI has.
//
//	RETI
func (c *CPU) retInterrupt() {
	c.ret()
	c.IME = true
	c.eiDelay = 0
}

// relative returns pc offset by the signed value e.
func relative(pc uint16, e uint8) uint16 {
	return uint16(int32(pc) + int32(int8(e)))
}
