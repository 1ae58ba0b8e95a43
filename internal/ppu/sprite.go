package ppu

// SpriteCount is the number of entries in the sprite attribute table.
const SpriteCount = 40

// maxSpritesPerLine is the number of sprites drawn on a single scanline.
const maxSpritesPerLine = 10

// Sprite is a decoded entry of the sprite attribute table (OAM).
// Each entry occupies 4 bytes:
//
//	Byte 0 - Y position + 16
//	Byte 1 - X position + 8
//	Byte 2 - Tile index (0x8000 addressing)
//	Byte 3 - Attributes
type Sprite struct {
	X      uint8
	Y      uint8
	TileID uint8
	spriteAttributes
}

// spriteAttributes represents the attributes of a sprite.
type spriteAttributes struct {
	// Bit 7 - OBJ-to-BG priority (0=OBJ Above BG, 1=OBJ Behind BG color 1-3)
	// (Used for both BG and Window. BG color 0 is always behind OBJ)
	behindBG bool
	// Bit 6 - Y flip          (0=Normal, 1=Vertically mirrored)
	flipY bool
	// Bit 5 - X flip          (0=Normal, 1=Horizontally mirrored)
	flipX bool
	// Bit 4 - Palette number  (0=OBP0, 1=OBP1)
	palette uint8
}

// Update writes one of the 4 bytes of the entry.
func (s *Sprite) Update(field uint8, value uint8) {
	switch field & 3 {
	case 0:
		s.Y = value
	case 1:
		s.X = value
	case 2:
		s.TileID = value
	case 3:
		s.behindBG = value&0x80 != 0
		s.flipY = value&0x40 != 0
		s.flipX = value&0x20 != 0
		s.palette = value & 0x10 >> 4
	}
}

// covers reports whether the sprite spans the given scanline, for
// sprites of the given height.
func (s *Sprite) covers(ly uint8, height uint8) bool {
	top := int(s.Y) - 16
	return int(ly) >= top && int(ly) < top+int(height)
}
