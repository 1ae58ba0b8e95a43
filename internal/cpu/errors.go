package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is returned when the CPU fetches an opcode
	// it has no instruction for.
	ErrUnknownOpcode = errors.New("cpu: unknown opcode")
	// ErrRegisterInvariant is returned when the register file is
	// found in a state it can never legally reach.
	ErrRegisterInvariant = errors.New("cpu: register invariant violated")
)

// UnknownOpcodeError records the opcode and the address it was
// fetched from.
type UnknownOpcodeError struct {
	Opcode uint16
	PC     uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("cpu: unknown opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}

func (e *UnknownOpcodeError) Unwrap() error { return ErrUnknownOpcode }

// RegisterInvariantError describes which register violated its
// invariant and the offending value.
type RegisterInvariantError struct {
	Register string
	Value    uint16
}

func (e *RegisterInvariantError) Error() string {
	return fmt.Sprintf("cpu: register %s holds invalid value 0x%04X", e.Register, e.Value)
}

func (e *RegisterInvariantError) Unwrap() error { return ErrRegisterInvariant }
