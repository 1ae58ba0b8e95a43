package lcd

// Mode represents a mode of the LCD.
type Mode uint8

const (
	// HBlank is the horizontal blanking mode. The CPU can access both the display RAM and OAM.
	HBlank Mode = iota
	// VBlank is the vertical blanking mode. The CPU can access both the display RAM and OAM.
	VBlank
	// OAM is the OAM scan mode, where the PPU searches OAM for the
	// sprites on the current line.
	OAM
	// VRAM is the pixel transfer mode. The scanline is rendered when
	// the PPU leaves this mode.
	VRAM
)

// Cycles returns how long the PPU stays in the mode on a single
// scanline. The three visible modes add up to a full 456 cycle line.
func (m Mode) Cycles() uint {
	switch m {
	case OAM:
		return 80
	case VRAM:
		return 172
	case HBlank:
		return 204
	default:
		return 456
	}
}

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	case OAM:
		return "OAM Scan"
	case VRAM:
		return "Pixel Transfer"
	}
	return "unknown"
}
