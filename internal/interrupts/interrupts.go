// Package interrupts provides the interrupt flag (IF) and interrupt
// enable (IE) bookkeeping shared between the CPU and the PPU.
package interrupts

import (
	"github.com/thelolagemann/gomeboy-core/internal/types"
)

const (
	// VBlankFlag is the VBlank interrupt flag (bit 0),
	// which is requested every time the PPU enters
	// VBlank mode (lcd.VBlank).
	VBlankFlag = types.Bit0
	// LCDFlag is the LCD interrupt flag (bit 1), which
	// is requested by the LCD STAT register (types.STAT),
	// when certain conditions are met.
	LCDFlag = types.Bit1
	// TimerFlag is the Timer interrupt flag (bit 2). Nothing
	// requests it in this core, software may still set it
	// through IF.
	TimerFlag = types.Bit2
	// SerialFlag is the Serial interrupt flag (bit 3). Like
	// TimerFlag it has no hardware source here.
	SerialFlag = types.Bit3
	// JoypadFlag is the Joypad interrupt Flag (bit 4). Like
	// TimerFlag it has no hardware source here.
	JoypadFlag = types.Bit4
)

// Service is the interrupt service, used to request
// interrupts and to resolve them to a vector.
//
// When an interrupt is requested, the corresponding bit
// in the Flag register is set. When an interrupt is
// enabled, the corresponding bit in the Enable register
// is set. The interrupt master enable lives on the CPU,
// which consults Pending before every fetch.
type Service struct {
	Flag   uint8 // interrupt Flag (types.IF)
	Enable uint8 // interrupt Enable (types.IE)
}

// NewService returns a new Service.
func NewService() *Service {
	return &Service{}
}

// Request requests the specified interrupt, by setting
// the corresponding bit in the Flag register.
func (s *Service) Request(flag uint8) {
	s.Flag |= flag & 0x1F
}

// Pending returns true if there are any interrupts
// that are requested and enabled.
func (s *Service) Pending() bool {
	return s.Enable&s.Flag&0x1F != 0
}

// Next returns the bit index (0-4) of the highest priority
// interrupt that is both requested and enabled. The lowest
// numbered bit has the highest priority. ok is false when
// nothing is pending.
func (s *Service) Next() (bit uint8, ok bool) {
	pending := s.Enable & s.Flag & 0x1F
	for i := uint8(0); i < 5; i++ {
		if pending&(1<<i) != 0 {
			return i, true
		}
	}
	return 0, false
}

// Vector returns the fixed jump target of the interrupt
// at the given bit index.
//
//	0: VBlank   0x0040
//	1: LCD STAT 0x0048
//	2: Timer    0x0050
//	3: Serial   0x0058
//	4: Joypad   0x0060
func Vector(bit uint8) uint16 {
	return 0x0040 + uint16(bit)*8
}

// Acknowledge clears the Flag bit at the given index.
func (s *Service) Acknowledge(bit uint8) {
	s.Flag &^= 1 << bit
}

// Read returns the value of the IF or IE register. The
// upper 3 bits of IF are always set.
func (s *Service) Read(address uint16) uint8 {
	if address == types.IE {
		return s.Enable
	}
	return s.Flag | 0xE0
}

// Write writes the IF or IE register. Only the first 5
// bits of IF are used.
func (s *Service) Write(address uint16, value uint8) {
	if address == types.IE {
		s.Enable = value
		return
	}
	s.Flag = value & 0x1F
}

var _ types.Stater = (*Service)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Flag (uint8)
//   - Enable (uint8)
func (s *Service) Load(st *types.State) {
	s.Flag = st.Read8()
	s.Enable = st.Read8()
}

// Save implements the types.Stater interface.
//
// The values are saved in the following order:
//   - Flag (uint8)
//   - Enable (uint8)
func (s *Service) Save(st *types.State) {
	st.Write8(s.Flag)
	st.Write8(s.Enable)
}
