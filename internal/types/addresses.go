// Package types holds definitions shared between the hardware
// components: memory map boundaries, hardware register addresses
// and the save state codec.
package types

const (
	Bit0 = 1 << iota // 0b0000_0001
	Bit1             // 0b0000_0010
	Bit2             // 0b0000_0100
	Bit3             // 0b0000_1000
	Bit4             // 0b0001_0000
	Bit5             // 0b0010_0000
	Bit6             // 0b0100_0000
	Bit7             // 0b1000_0000
)

// Memory map region boundaries. Each region is described by its
// first and last address (inclusive).
const (
	BootStart        uint16 = 0x0000
	BootEnd          uint16 = 0x00FF
	ROMStart         uint16 = 0x0000
	ROMEnd           uint16 = 0x7FFF
	VRAMStart        uint16 = 0x8000
	VRAMEnd          uint16 = 0x9FFF
	ExternalRAMStart uint16 = 0xA000
	ExternalRAMEnd   uint16 = 0xBFFF
	WRAMStart        uint16 = 0xC000
	WRAMEnd          uint16 = 0xDFFF
	EchoStart        uint16 = 0xE000
	EchoEnd          uint16 = 0xFDFF
	OAMStart         uint16 = 0xFE00
	OAMEnd           uint16 = 0xFE9F
	HRAMStart        uint16 = 0xFF80
	HRAMEnd          uint16 = 0xFFFE

	// EntryPoint is the address execution is handed to once the
	// boot ROM has finished.
	EntryPoint uint16 = 0x0100
)

// HardwareAddress represents the address of a hardware
// register of the Game Boy. The hardware IO are mapped
// to memory addresses 0xFF00 - 0xFF7F & 0xFFFF.
type HardwareAddress = uint16

const (
	// IF is the address of the IF hardware register. The IF
	// hardware register is used to request interrupts. Writing a 1
	// to a bit in IF requests an interrupt, and writing a 0 clears
	// the request.
	//
	//  Bit 0: V-Blank Interrupt Request (INT 40h)  (1=Request)
	//  Bit 1: LCD STAT Interrupt Request (INT 48h) (1=Request)
	//  Bit 2: Timer Interrupt Request (INT 50h)    (1=Request)
	//  Bit 3: Serial Interrupt Request (INT 58h)   (1=Request)
	//  Bit 4: Joypad Interrupt Request (INT 60h)   (1=Request)
	IF HardwareAddress = 0xFF0F
	// LCDC is the address of the LCDC hardware register. The LCDC
	// hardware register controls which layers are drawn and where
	// their tile maps and tile data are found.
	LCDC HardwareAddress = 0xFF40
	// STAT is the address of the STAT hardware register. It reports
	// the current PPU mode and the LY=LYC coincidence, and selects
	// which events raise an LCD STAT interrupt.
	STAT HardwareAddress = 0xFF41
	// SCY is the background scroll Y position.
	SCY HardwareAddress = 0xFF42
	// SCX is the background scroll X position.
	SCX HardwareAddress = 0xFF43
	// LY is the scanline currently being processed (0-153). It is
	// read only.
	LY HardwareAddress = 0xFF44
	// LYC is compared against LY, setting the coincidence flag in
	// STAT when they match.
	LYC HardwareAddress = 0xFF45
	// DMA starts an OAM DMA transfer from the page written to it.
	DMA HardwareAddress = 0xFF46
	// BGP is the background palette.
	BGP HardwareAddress = 0xFF47
	// OBP0 is the first object palette.
	OBP0 HardwareAddress = 0xFF48
	// OBP1 is the second object palette.
	OBP1 HardwareAddress = 0xFF49
	// WY is the window Y position.
	WY HardwareAddress = 0xFF4A
	// WX is the window X position plus 7.
	WX HardwareAddress = 0xFF4B
	// BDIS disables the boot ROM when a non-zero value is written.
	BDIS HardwareAddress = 0xFF50
	// IE is the address of the IE hardware register. The IE
	// hardware register is used to enable interrupts. Uses the
	// same bit layout as IF.
	IE HardwareAddress = 0xFFFF
)
