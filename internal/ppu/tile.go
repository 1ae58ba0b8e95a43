package ppu

// TileCount is the number of tiles the tile cache can hold. Only
// the first 384 are backed by tile data in VRAM (0x8000-0x97FF).
const TileCount = 512

// tileDataEnd is the VRAM offset where tile data ends and the
// tile maps begin.
const tileDataEnd = 0x1800

// Tile represents a tile. Each tile has a size of 8x8 pixels and a color
// depth of 4 colors/gray shades. Tiles can be displayed as sprites or as
// background/window tiles. Each entry holds the 2-bit colour index of
// the pixel, before it is translated through a palette.
type Tile [8][8]uint8

// updateRow decodes a single row of the tile from its two bitplanes.
// Bit 7 of each plane is the leftmost pixel, the low plane provides
// bit 0 of the colour index and the high plane bit 1.
func (t *Tile) updateRow(row, lo, hi uint8) {
	for x := uint8(0); x < 8; x++ {
		t[row][x] = (lo>>(7-x))&1 | ((hi>>(7-x))&1)<<1
	}
}

// tileLocation maps a VRAM offset to the cached tile and row
// it belongs to.
func tileLocation(offset uint16) (tile uint16, row uint8) {
	return (offset >> 4) & (TileCount - 1), uint8(offset>>1) & 7
}
