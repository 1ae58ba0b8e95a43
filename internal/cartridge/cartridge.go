// Package cartridge provides the cartridge image as seen by the bus:
// a single fixed 32kB ROM bank pair and a single 8kB external RAM bank.
package cartridge

import (
	"errors"
	"fmt"

	"github.com/thelolagemann/gomeboy-core/internal/types"
)

const (
	// ROMSize is the amount of cartridge ROM mapped at 0x0000-0x7FFF.
	ROMSize = 0x8000
	// RAMSize is the amount of external RAM mapped at 0xA000-0xBFFF.
	RAMSize = 0x2000
)

// ErrTruncated is returned when the image is too short to hold
// a cartridge header.
var ErrTruncated = errors.New("cartridge: image too short to contain a header")

// Cartridge represents a game cartridge without a memory bank
// controller. Images larger than 32kB are truncated to their first
// two banks.
type Cartridge struct {
	rom    [ROMSize]byte
	ram    [RAMSize]byte
	header Header
	size   int
}

// NewCartridge creates a cartridge from a raw image. The image must
// at least cover the header (0x0100-0x014F); anything between the end
// of the image and 0x7FFF reads as 0xFF.
func NewCartridge(rom []byte) (*Cartridge, error) {
	if len(rom) < 0x100+HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(rom))
	}

	header, err := parseHeader(rom[0x100 : 0x100+HeaderSize])
	if err != nil {
		return nil, err
	}

	c := &Cartridge{header: header, size: len(rom)}
	for i := range c.rom {
		c.rom[i] = 0xFF
	}
	copy(c.rom[:], rom)

	return c, nil
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() Header {
	return c.header
}

// Title returns the cartridge title.
func (c *Cartridge) Title() string {
	return c.header.Title
}

// Size returns the size of the image the cartridge was created from.
func (c *Cartridge) Size() int {
	return c.size
}

// Read returns the value at the given address, which must lie in
// the ROM (0x0000-0x7FFF) or external RAM (0xA000-0xBFFF) range.
func (c *Cartridge) Read(address uint16) uint8 {
	if address <= types.ROMEnd {
		return c.rom[address]
	}
	return c.ram[(address-types.ExternalRAMStart)&(RAMSize-1)]
}

// Write writes the value to external RAM. Writes to the ROM range
// would select banks on a banked cartridge and are ignored.
func (c *Cartridge) Write(address uint16, value uint8) {
	if address <= types.ROMEnd {
		return
	}
	c.ram[(address-types.ExternalRAMStart)&(RAMSize-1)] = value
}

var _ types.Stater = (*Cartridge)(nil)

// Load implements the types.Stater interface. Only external RAM
// is restored, the ROM is read-only.
func (c *Cartridge) Load(s *types.State) {
	s.ReadData(c.ram[:])
}

// Save implements the types.Stater interface.
func (c *Cartridge) Save(s *types.State) {
	s.WriteData(c.ram[:])
}
