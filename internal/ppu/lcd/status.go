package lcd

import (
	"github.com/thelolagemann/gomeboy-core/pkg/bits"
)

// Status represents the LCD status register. It contains information about the
// current state of the LCD controller. Its value is stored in the STAT register
// (0xFF41) as follows:
//
//	Bit 6 - LYC=LY Coincidence Interrupt (1=Enable) (Read/Write)
//	Bit 5 - Mode 2 OAM Interrupt         (1=Enable) (Read/Write)
//	Bit 4 - Mode 1 V-Blank Interrupt     (1=Enable) (Read/Write)
//	Bit 3 - Mode 0 H-Blank Interrupt     (1=Enable) (Read/Write)
//	Bit 2 - Coincidence Flag  (0:LYC<>LY, 1:LYC=LY) (Read Only)
//	Bit 1-0 - Mode Flag       (Mode 0-3, see below) (Read Only)
//		0: During H-Blank
//		1: During V-Blank
//		2: During Searching OAM-RAM
//		3: During Transferring Data to LCD Driver
type Status struct {
	CoincidenceInterrupt bool
	OAMInterrupt         bool
	VBlankInterrupt      bool
	HBlankInterrupt      bool
	Coincidence          bool
	Mode                 Mode
}

// Write writes the interrupt enable bits, the remaining bits
// are read only.
func (s *Status) Write(value uint8) {
	s.CoincidenceInterrupt = bits.Test(value, 6)
	s.OAMInterrupt = bits.Test(value, 5)
	s.VBlankInterrupt = bits.Test(value, 4)
	s.HBlankInterrupt = bits.Test(value, 3)
}

// Read returns the value of the status register.
func (s *Status) Read() uint8 {
	value := uint8(0x80) // bit 7 is always set
	value = bits.Assign(value, 6, s.CoincidenceInterrupt)
	value = bits.Assign(value, 5, s.OAMInterrupt)
	value = bits.Assign(value, 4, s.VBlankInterrupt)
	value = bits.Assign(value, 3, s.HBlankInterrupt)
	value = bits.Assign(value, 2, s.Coincidence)
	return value | uint8(s.Mode)&0x03
}

// InterruptOnEntry reports whether entering the given mode raises
// an LCD STAT interrupt. Pixel transfer has no interrupt source.
func (s *Status) InterruptOnEntry(m Mode) bool {
	switch m {
	case HBlank:
		return s.HBlankInterrupt
	case VBlank:
		return s.VBlankInterrupt
	case OAM:
		return s.OAMInterrupt
	}
	return false
}
