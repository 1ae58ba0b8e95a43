package cartridge

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// HeaderSize is the size of the cartridge header, located at
// 0x0100-0x014F.
const HeaderSize = 0x50

// Flag describes the hardware the cartridge targets.
type Flag uint8

const (
	FlagOnlyDMG Flag = iota
	FlagSupportsCGB
	FlagOnlyCGB
)

var (
	ramMAP = map[uint8]uint{
		0x00: 0,
		0x02: 8 * 1024,
		0x03: 32 * 1024,
		0x04: 128 * 1024,
		0x05: 64 * 1024,
	}
)

// Type is the cartridge type byte at 0x0147, describing the
// memory bank controller and any extra hardware.
type Type uint8

const (
	ROM              Type = 0x00
	MBC1             Type = 0x01
	MBC1RAM          Type = 0x02
	MBC1RAMBATT      Type = 0x03
	MBC2             Type = 0x05
	MBC2BATT         Type = 0x06
	ROMRAM           Type = 0x08
	ROMRAMBATT       Type = 0x09
	MMM01            Type = 0x0B
	MBC3TIMERBATT    Type = 0x0F
	MBC3TIMERRAMBATT Type = 0x10
	MBC3             Type = 0x11
	MBC3RAM          Type = 0x12
	MBC3RAMBATT      Type = 0x13
	MBC5             Type = 0x19
	MBC5RAM          Type = 0x1A
	MBC5RAMBATT      Type = 0x1B
	POCKETCAMERA     Type = 0x1F
	HUDSONHUC1       Type = 0xFF
)

var typeNames = map[Type]string{
	ROM:              "ROM ONLY",
	MBC1:             "MBC1",
	MBC1RAM:          "MBC1+RAM",
	MBC1RAMBATT:      "MBC1+RAM+BATTERY",
	MBC2:             "MBC2",
	MBC2BATT:         "MBC2+BATTERY",
	ROMRAM:           "ROM+RAM",
	ROMRAMBATT:       "ROM+RAM+BATTERY",
	MMM01:            "MMM01",
	MBC3TIMERBATT:    "MBC3+TIMER+BATTERY",
	MBC3TIMERRAMBATT: "MBC3+TIMER+RAM+BATTERY",
	MBC3:             "MBC3",
	MBC3RAM:          "MBC3+RAM",
	MBC3RAMBATT:      "MBC3+RAM+BATTERY",
	MBC5:             "MBC5",
	MBC5RAM:          "MBC5+RAM",
	MBC5RAMBATT:      "MBC5+RAM+BATTERY",
	POCKETCAMERA:     "POCKET CAMERA",
	HUDSONHUC1:       "HuC1",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown (0x%02X)", uint8(t))
}

// Banked reports whether the cartridge type relies on a memory
// bank controller.
func (t Type) Banked() bool {
	return t != ROM && t != ROMRAM && t != ROMRAMBATT
}

// Header represents the header of a cartridge, each cartridge has a header and is
// located at the address space 0x0100-0x014F. The header contains information about
// the cartridge itself, and the hardware it expects to run on.
type Header struct {
	// 0x0134-0x0143 - Title of the game
	Title string

	// 0x0143 - CartridgeGBMode of the game. In older cartridges this byte was part
	// of the title, but the Colour Game Boy and later models interpret this byte
	// to determine if the cartridge is compatible with the Colour Game Boy.
	CartridgeGBMode Flag

	CartridgeType  Type
	ROMSize        uint
	RAMSize        uint
	HeaderChecksum uint8
	GlobalChecksum uint16

	raw [HeaderSize]byte
}

// parseHeader parses the header of the given ROM and returns a Header.
func parseHeader(header []byte) (Header, error) {
	h := Header{}
	if len(header) != HeaderSize {
		return h, fmt.Errorf("cartridge: invalid header length: %d", len(header))
	}
	copy(h.raw[:], header)

	// parse the mode of the cartridge and parse the header accordingly
	switch header[0x43] {
	case 0x80:
		h.CartridgeGBMode = FlagSupportsCGB
	case 0xC0:
		h.CartridgeGBMode = FlagOnlyCGB
	default:
		h.CartridgeGBMode = FlagOnlyDMG
	}

	title := header[0x34:0x44]
	if h.CartridgeGBMode != FlagOnlyDMG {
		title = header[0x34:0x43]
	}
	h.Title = strings.TrimRight(string(title), "\x00 ")

	h.CartridgeType = Type(header[0x47])

	// ROM size is calculated by 32kB x (1 << n)
	h.ROMSize = (32 * 1024) * (1 << (header[0x48] & 0x0F))
	h.RAMSize = ramMAP[header[0x49]]

	h.HeaderChecksum = header[0x4D]
	h.GlobalChecksum = uint16(header[0x4E])<<8 | uint16(header[0x4F])

	return h, nil
}

// computeHeaderChecksum computes the checksum of bytes 0x0134-0x014C
// the same way the boot ROM does.
func (h *Header) computeHeaderChecksum() uint8 {
	var x uint8
	for _, b := range h.raw[0x34:0x4D] {
		x = x - b - 1
	}
	return x
}

// Validate reports every way in which the header describes a
// cartridge this core can not fully emulate. None of the problems
// prevent execution; bank 0 and 1 of the ROM and the first 8kB of
// RAM are always mapped.
func (h *Header) Validate() error {
	var result *multierror.Error

	if sum := h.computeHeaderChecksum(); sum != h.HeaderChecksum {
		result = multierror.Append(result, fmt.Errorf("header checksum mismatch: computed 0x%02X, header 0x%02X", sum, h.HeaderChecksum))
	}
	if h.CartridgeType.Banked() {
		result = multierror.Append(result, fmt.Errorf("cartridge type %s requires bank switching", h.CartridgeType))
	}
	if h.ROMSize > ROMSize {
		result = multierror.Append(result, fmt.Errorf("ROM size %dkB exceeds the %dkB fixed bank", h.ROMSize/1024, ROMSize/1024))
	}
	if h.RAMSize > RAMSize {
		result = multierror.Append(result, fmt.Errorf("RAM size %dkB exceeds the %dkB fixed bank", h.RAMSize/1024, RAMSize/1024))
	}
	if h.CartridgeGBMode == FlagOnlyCGB {
		result = multierror.Append(result, fmt.Errorf("cartridge requires Game Boy Color hardware"))
	}

	return result.ErrorOrNil()
}

func (h *Header) Hardware() string {
	switch h.CartridgeGBMode {
	case FlagOnlyDMG:
		return "DMG"
	case FlagSupportsCGB, FlagOnlyCGB:
		return "CGB"
	default:
		return "Unknown"
	}
}

func (h *Header) String() string {
	return fmt.Sprintf("%s | Type: %s | Mode: %s | ROM Size: %dkB | RAM Size: %dkB", h.Title, h.CartridgeType, h.Hardware(), h.ROMSize/1024, h.RAMSize/1024)
}
