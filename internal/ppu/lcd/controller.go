// Package lcd decodes the LCD control (LCDC) and status (STAT)
// registers of the PPU.
package lcd

import (
	"github.com/thelolagemann/gomeboy-core/pkg/bits"
)

// Controller is the LCD controller. It is responsible for controlling various
// aspects of the LCD, such as enabling the background and window display.
//
// Its value is stored in the LCD Control Register (0xFF40) as follows:
//
//	Bit 7 - LCD Enable             (0=Off, 1=On)
//	Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 5 - Window Display Enable          (0=Off, 1=On)
//	Bit 4 - BG & Window Tile Data Select   (0=8800-97FF, 1=8000-8FFF)
//	Bit 3 - BG Tile Map Display Select     (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 2 - OBJ (Sprite) Size              (0=8x8, 1=8x16)
//	Bit 1 - OBJ (Sprite) Display Enable    (0=Off, 1=On)
//	Bit 0 - BG/Window Display/Priority     (0=Off, 1=On)
type Controller struct {
	Enabled bool
	// WindowTileMapAddress is the start of the window tile map,
	// either 0x9800 or 0x9C00.
	WindowTileMapAddress uint16
	WindowEnabled        bool
	// UnsignedTileData is set when tiles are addressed from 0x8000
	// with an unsigned index. Otherwise the index is signed and
	// relative to 0x9000.
	UnsignedTileData bool
	// BackgroundTileMapAddress is the start of the background tile
	// map, either 0x9800 or 0x9C00.
	BackgroundTileMapAddress uint16
	// SpriteSize is the height of a sprite, 8 or 16.
	SpriteSize        uint8
	SpriteEnabled     bool
	BackgroundEnabled bool
}

// NewController returns an LCD controller with every bit
// of the register reset.
func NewController() *Controller {
	c := &Controller{}
	c.Write(0x00)
	return c
}

// Write decodes value into the controller.
func (c *Controller) Write(value uint8) {
	c.Enabled = bits.Test(value, 7)
	c.WindowTileMapAddress = 0x9800 | uint16(bits.Val(value, 6))<<10
	c.WindowEnabled = bits.Test(value, 5)
	c.UnsignedTileData = bits.Test(value, 4)
	c.BackgroundTileMapAddress = 0x9800 | uint16(bits.Val(value, 3))<<10
	c.SpriteSize = 8 + bits.Val(value, 2)*8
	c.SpriteEnabled = bits.Test(value, 1)
	c.BackgroundEnabled = bits.Test(value, 0)
}

// Read encodes the controller back into its register value.
func (c *Controller) Read() uint8 {
	var value uint8
	value = bits.Assign(value, 7, c.Enabled)
	value = bits.Assign(value, 6, c.WindowTileMapAddress == 0x9C00)
	value = bits.Assign(value, 5, c.WindowEnabled)
	value = bits.Assign(value, 4, c.UnsignedTileData)
	value = bits.Assign(value, 3, c.BackgroundTileMapAddress == 0x9C00)
	value = bits.Assign(value, 2, c.SpriteSize == 16)
	value = bits.Assign(value, 1, c.SpriteEnabled)
	value = bits.Assign(value, 0, c.BackgroundEnabled)
	return value
}

// TileIndex resolves a tile number read from a tile map to an
// index into the 384 tiles of VRAM, taking the addressing mode
// into account.
func (c *Controller) TileIndex(id uint8) uint16 {
	if c.UnsignedTileData {
		return uint16(id)
	}
	return uint16(256 + int(int8(id)))
}
