// Package boot provides the boot ROM overlay image. The boot ROM is
// optional: without one the machine starts directly at the cartridge
// entry point with the register values the boot ROM would have left.
package boot

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Size is the size of a DMG family boot ROM.
const Size = 0x100

// ROM represents a boot ROM for the Game Boy. When the Game Boy first
// powers on, the boot ROM is mapped over memory addresses 0x0000 -
// 0x00FF.
//
// The boot ROM initialises the hardware, sets the stack pointer and
// scrolls the logo. Once execution reaches the cartridge entry point
// (0x0100) the boot ROM is unmapped and cannot be mapped again until
// the machine is reset.
type ROM struct {
	raw      [Size]byte
	checksum string // the MD5 checksum of the boot rom
}

// LoadBootROM loads a boot ROM into a new ROM struct and returns a
// pointer to it. The input must be exactly 256 bytes long.
func LoadBootROM(b []byte) (*ROM, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("boot: invalid boot rom length: %d (expected %d)", len(b), Size)
	}

	r := &ROM{}
	copy(r.raw[:], b)
	sum := md5.Sum(b)
	r.checksum = hex.EncodeToString(sum[:])

	return r, nil
}

// Read returns the byte at the given address. Only the low
// 8 bits of the address are used.
func (b *ROM) Read(addr uint16) byte {
	return b.raw[addr&0xFF]
}

// Checksum returns the MD5 checksum of the boot rom.
func (b *ROM) Checksum() string {
	if b == nil {
		return ""
	}
	return b.checksum
}

// Model returns the model of the boot rom. The model
// is determined by the checksum of the boot rom.
func (b *ROM) Model() string {
	if b == nil {
		return "none"
	}
	if model, ok := knownBootROMChecksums[b.checksum]; ok {
		return model
	}
	return "unknown"
}

// knownBootROMChecksums maps the checksums of known 256 byte
// boot ROMs to the model they shipped in.
var knownBootROMChecksums = map[string]string{
	DMG0:        "Game Boy (DMG-0)",
	DMG:         "Game Boy (DMG-01)",
	MGB:         "Game Boy Pocket",
	SGB:         "Super Game Boy",
	SGB2:        "Super Game Boy 2",
	FORTUNE:     "Fortune/Bitman 3000B",
	GAMEFIGHTER: "Game Fighter",
	MAXSTATION:  "Max Station",
}

const (
	// DMG0 is the checksum of the early DMG boot ROM, only
	// found in the first Japanese units. It flashes the screen
	// on a boot failure instead of hanging after the logo.
	DMG0 = "a8f84a0ac44da5d3f0ee19f9cea80a8c"
	// DMG is the checksum of the boot ROM found in most
	// DMG-01 units.
	DMG = "32fbbd84168d3482956eb3c5051637f5"
	// MGB differs from DMG by a single byte, loading 0xFF into
	// A rather than 0x01.
	MGB = "71a378e71ff30b2d8a1f02bf5c7896aa"
	// SGB sends the cartridge header to the SNES instead of
	// showing the logo animation.
	SGB = "d574d4f9c12f305074798f54c091a8b4"
	// SGB2 is to SGB what MGB is to DMG.
	SGB2 = "e0430bca9925fb9882148fd2dc2418c1"
	// FORTUNE is found in the Fortune/Bitman 3000B clone.
	FORTUNE = "92ed4eca17d61fcd53f8a64c3ce84743"
	// GAMEFIGHTER is found in the Game Fighter clone.
	GAMEFIGHTER = "6a7b8ee12a793f66a969c6a2b8926cc9"
	// MAXSTATION is found in the Maxstation clone.
	MAXSTATION = "77a7021db824010a678791f6d062943d"
)
