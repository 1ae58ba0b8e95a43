package ppu

import (
	"sort"
)

// renderScanline composites the background, window and sprites of
// the current line into the frame being built.
func (p *PPU) renderScanline() {
	ly := p.CurrentScanline
	if ly >= ScreenHeight {
		return
	}
	line := &p.frame[ly]

	if p.Controller.BackgroundEnabled {
		p.renderBackground(line, ly)
		if p.Controller.WindowEnabled {
			p.renderWindow(line, ly)
		}
	} else {
		// with BG disabled the background and window are blank
		for x := range line {
			line[x] = p.scheme[0]
			p.bgIndex[x] = 0
		}
	}

	if p.Controller.SpriteEnabled {
		p.renderSprites(line, ly)
	}
}

// renderBackground draws the background layer. The tile map row is
// (LY + SCY) / 8 and the column of each pixel is (x + SCX) / 8, both
// wrapping around the 256x256 background.
func (p *PPU) renderBackground(line *[ScreenWidth][3]uint8, ly uint8) {
	y := ly + p.ScrollY
	mapRow := p.Controller.BackgroundTileMapAddress - 0x8000 + uint16(y/8)*32

	for x := 0; x < ScreenWidth; x++ {
		px := uint8(x) + p.ScrollX
		id := p.mem.VRAM(mapRow + uint16(px/8))
		index := p.tiles[p.Controller.TileIndex(id)][y%8][px%8]

		p.bgIndex[x] = index
		line[x] = p.BackgroundPalette.GetColour(index)
	}
}

// renderWindow draws the window layer over the background. The window
// keeps its own line counter, which only advances on lines where the
// window was visible.
func (p *PPU) renderWindow(line *[ScreenWidth][3]uint8, ly uint8) {
	if ly < p.WindowY {
		return
	}
	left := int(p.WindowX) - 7
	if left >= ScreenWidth {
		return
	}

	y := p.windowLine
	mapRow := p.Controller.WindowTileMapAddress - 0x8000 + uint16(y/8)*32
	for x := max(left, 0); x < ScreenWidth; x++ {
		wx := uint8(x - left)
		id := p.mem.VRAM(mapRow + uint16(wx/8))
		index := p.tiles[p.Controller.TileIndex(id)][y%8][wx%8]

		p.bgIndex[x] = index
		line[x] = p.BackgroundPalette.GetColour(index)
	}
	p.windowLine++
}

// renderSprites draws up to 10 sprites that span the current line.
// Sprites are ordered by X descending, ties broken by OAM index
// descending, so that the sprite with the lowest X (then lowest index)
// is drawn last and ends up on top.
func (p *PPU) renderSprites(line *[ScreenWidth][3]uint8, ly uint8) {
	height := p.Controller.SpriteSize

	p.candidates = p.candidates[:0]
	for i := range p.sprites {
		if p.sprites[i].covers(ly, height) {
			p.candidates = append(p.candidates, i)
		}
	}
	sort.SliceStable(p.candidates, func(a, b int) bool {
		sa, sb := &p.sprites[p.candidates[a]], &p.sprites[p.candidates[b]]
		if sa.X != sb.X {
			return sa.X > sb.X
		}
		return p.candidates[a] > p.candidates[b]
	})
	if len(p.candidates) > maxSpritesPerLine {
		p.candidates = p.candidates[:maxSpritesPerLine]
	}

	for _, i := range p.candidates {
		s := &p.sprites[i]

		row := uint8(int(ly) - (int(s.Y) - 16))
		if s.flipY {
			row = height - 1 - row
		}
		tile := uint16(s.TileID)
		if height == 16 {
			tile &^= 1
		}
		tile += uint16(row / 8)
		row %= 8

		pal := p.SpritePalettes[s.palette]
		for col := uint8(0); col < 8; col++ {
			x := int(s.X) - 8 + int(col)
			if x < 0 || x >= ScreenWidth {
				continue
			}
			tx := col
			if s.flipX {
				tx = 7 - col
			}
			index := p.tiles[tile][row][tx]
			if index == 0 {
				continue // transparent
			}
			if s.behindBG && p.bgIndex[x] != 0 {
				continue
			}
			line[x] = pal.GetColour(index)
		}
	}
}
