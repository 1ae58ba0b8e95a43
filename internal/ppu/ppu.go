// Package ppu implements the (P)ixel (P)rocessing (U)nit: the scanline
// timing state machine, the tile cache and sprite table kept in sync
// with VRAM and OAM, and the compositing of background, window and
// sprites into frames.
package ppu

import (
	"github.com/thelolagemann/gomeboy-core/internal/interrupts"
	"github.com/thelolagemann/gomeboy-core/internal/ppu/lcd"
	"github.com/thelolagemann/gomeboy-core/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-core/internal/types"
	"github.com/thelolagemann/gomeboy-core/pkg/log"
)

const (
	// ScreenWidth is the width of the screen in pixels.
	ScreenWidth = 160
	// ScreenHeight is the height of the screen in pixels.
	ScreenHeight = 144

	// CyclesPerFrame is the number of clock cycles between two
	// frames: 154 lines of 456 cycles.
	CyclesPerFrame = 70224

	// lastLine is the final VBlank line before wrapping to 0.
	lastLine = 153
)

// Each visible scanline passes through 3 modes, and every line after
// the last visible one is spent in VBlank:
//
//	Mode 2 (lcd.OAM)    80 cycles  - sprite search
//	Mode 3 (lcd.VRAM)   172 cycles - pixel transfer, line is rendered on exit
//	Mode 0 (lcd.HBlank) 204 cycles - STAT interrupt available via STAT.3
//	Mode 1 (lcd.VBlank) 456 cycles per line, lines 144-153
//
// Entering VBlank hands the finished frame to the caller and requests
// the VBlank interrupt.

// VideoMemory is a read-only view of the memory the PPU renders from.
// The bus owns VRAM and OAM; every write to them is reported to the
// PPU through WriteVRAM and WriteOAM.
type VideoMemory interface {
	// VRAM returns the byte at the given offset from 0x8000.
	VRAM(offset uint16) uint8
	// OAM returns the byte at the given offset from 0xFE00.
	OAM(offset uint8) uint8
}

// PPU implements the Game Boy's (P)ixel (P)rocessing (U)nit.
//
// References:
//   - [Pan Docs](https://gbdev.io/pandocs/Graphics.html)
//   - [Hacktix GBEDG](https://hacktix.github.io/GBEDG/ppu/)
type PPU struct {
	Controller *lcd.Controller // LCDC
	Status     *lcd.Status     // STAT

	ScrollY         uint8 // SCY
	ScrollX         uint8 // SCX
	CurrentScanline uint8 // LY
	LYCompare       uint8 // LYC
	WindowY         uint8 // WY
	WindowX         uint8 // WX (the window is drawn from WX-7)
	dma             uint8 // last value written to DMA

	BackgroundPalette palette.Palette    // BGP
	SpritePalettes    [2]palette.Palette // OBP0, OBP1
	scheme            palette.Scheme

	tiles   [TileCount]Tile
	sprites [SpriteCount]Sprite

	modeClock  uint  // cycles spent in the current mode
	offClock   uint  // cycles spent with the LCD off
	windowLine uint8 // internal window line counter
	bgIndex    [ScreenWidth]uint8
	candidates []int

	frame *Frame

	mem VideoMemory
	irq *interrupts.Service
	log log.Logger
}

// New returns a PPU rendering from mem and raising interrupts on irq.
// The LCD starts switched off, as it is at power on.
func New(mem VideoMemory, irq *interrupts.Service, logger log.Logger) *PPU {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	p := &PPU{
		Controller: lcd.NewController(),
		Status:     &lcd.Status{Mode: lcd.HBlank},
		scheme:     palette.Greyscale,
		candidates: make([]int, 0, SpriteCount),
		frame:      new(Frame),
		mem:        mem,
		irq:        irq,
		log:        logger,
	}
	p.SetScheme(palette.Greyscale)

	return p
}

// SetScheme changes the shades the palette registers select from.
func (p *PPU) SetScheme(s palette.Scheme) {
	p.scheme = s
	p.BackgroundPalette = palette.ByteToPalette(s, p.BackgroundPalette.ToByte())
	for i := range p.SpritePalettes {
		p.SpritePalettes[i] = palette.ByteToPalette(s, p.SpritePalettes[i].ToByte())
	}
}

// Step advances the PPU by the given number of cycles. If a frame
// was completed during the step it is returned, otherwise nil.
func (p *PPU) Step(cycles uint) *Frame {
	if !p.Controller.Enabled {
		// keep frame driven hosts running while the LCD is off
		p.offClock += cycles
		if p.offClock < CyclesPerFrame {
			return nil
		}
		p.offClock -= CyclesPerFrame
		p.frame.fill(p.scheme[0])
		return p.deliver()
	}

	var completed *Frame
	p.modeClock += cycles
	for p.modeClock >= p.Status.Mode.Cycles() {
		p.modeClock -= p.Status.Mode.Cycles()
		if f := p.advance(); f != nil {
			completed = f
		}
	}

	return completed
}

// advance performs the transition out of the current mode.
func (p *PPU) advance() *Frame {
	switch p.Status.Mode {
	case lcd.OAM:
		p.setMode(lcd.VRAM)
	case lcd.VRAM:
		p.renderScanline()
		p.setMode(lcd.HBlank)
	case lcd.HBlank:
		p.setLine(p.CurrentScanline + 1)
		if p.CurrentScanline == ScreenHeight {
			p.setMode(lcd.VBlank)
			p.irq.Request(interrupts.VBlankFlag)
			return p.deliver()
		}
		p.setMode(lcd.OAM)
	case lcd.VBlank:
		if p.CurrentScanline == lastLine {
			p.windowLine = 0
			p.setLine(0)
			p.setMode(lcd.OAM)
			return nil
		}
		p.setLine(p.CurrentScanline + 1)
	}
	return nil
}

// deliver hands over the current frame and starts a fresh one.
func (p *PPU) deliver() *Frame {
	f := p.frame
	p.frame = new(Frame)
	return f
}

// setMode enters the given mode, raising an LCD STAT interrupt if
// one is enabled for it.
func (p *PPU) setMode(m lcd.Mode) {
	p.Status.Mode = m
	if p.Status.InterruptOnEntry(m) {
		p.irq.Request(interrupts.LCDFlag)
	}
}

// setLine updates LY and the coincidence flag.
func (p *PPU) setLine(ly uint8) {
	p.CurrentScanline = ly
	p.checkCoincidence()
}

// checkCoincidence compares LY with LYC, raising an LCD STAT interrupt
// when they become equal and the interrupt is enabled.
func (p *PPU) checkCoincidence() {
	was := p.Status.Coincidence
	p.Status.Coincidence = p.CurrentScanline == p.LYCompare
	if p.Status.Coincidence && !was && p.Status.CoincidenceInterrupt {
		p.irq.Request(interrupts.LCDFlag)
	}
}

// Read returns the value of the PPU register at address.
func (p *PPU) Read(address uint16) uint8 {
	switch address {
	case types.LCDC:
		return p.Controller.Read()
	case types.STAT:
		return p.Status.Read()
	case types.SCY:
		return p.ScrollY
	case types.SCX:
		return p.ScrollX
	case types.LY:
		return p.CurrentScanline
	case types.LYC:
		return p.LYCompare
	case types.DMA:
		return p.dma
	case types.BGP:
		return p.BackgroundPalette.ToByte()
	case types.OBP0:
		return p.SpritePalettes[0].ToByte()
	case types.OBP1:
		return p.SpritePalettes[1].ToByte()
	case types.WY:
		return p.WindowY
	case types.WX:
		return p.WindowX
	}
	p.log.Debugf("ppu: read from non PPU register 0x%04X", address)
	return 0
}

// Write writes value to the PPU register at address. Writes to LY
// are ignored. Writing DMA only latches the value; the transfer
// itself is performed by the bus, which owns OAM.
func (p *PPU) Write(address uint16, value uint8) {
	switch address {
	case types.LCDC:
		p.writeControl(value)
	case types.STAT:
		p.Status.Write(value)
	case types.SCY:
		p.ScrollY = value
	case types.SCX:
		p.ScrollX = value
	case types.LY:
	case types.LYC:
		p.LYCompare = value
		if p.Controller.Enabled {
			p.checkCoincidence()
		}
	case types.DMA:
		p.dma = value
	case types.BGP:
		p.BackgroundPalette = palette.ByteToPalette(p.scheme, value)
	case types.OBP0:
		p.SpritePalettes[0] = palette.ByteToPalette(p.scheme, value)
	case types.OBP1:
		p.SpritePalettes[1] = palette.ByteToPalette(p.scheme, value)
	case types.WY:
		p.WindowY = value
	case types.WX:
		p.WindowX = value
	default:
		p.log.Debugf("ppu: write 0x%02X to non PPU register 0x%04X", value, address)
	}
}

// writeControl handles LCDC writes, switching the LCD on or off.
func (p *PPU) writeControl(value uint8) {
	was := p.Controller.Enabled
	p.Controller.Write(value)

	switch {
	case was && !p.Controller.Enabled:
		p.CurrentScanline = 0
		p.Status.Mode = lcd.HBlank
		p.Status.Coincidence = false
		p.modeClock, p.offClock = 0, 0
		p.windowLine = 0
	case !was && p.Controller.Enabled:
		p.modeClock, p.offClock = 0, 0
		p.windowLine = 0
		p.setLine(0)
		p.Status.Mode = lcd.OAM
	}
}

// WriteVRAM keeps the tile cache in sync with a write to VRAM at
// the given offset from 0x8000. Only the affected tile row is
// decoded again.
func (p *PPU) WriteVRAM(offset uint16, value uint8) {
	if offset >= tileDataEnd {
		return
	}
	tile, row := tileLocation(offset)
	lo, hi := p.mem.VRAM(offset&^1), p.mem.VRAM(offset|1)
	if offset&1 == 0 {
		lo = value
	} else {
		hi = value
	}
	p.tiles[tile].updateRow(row, lo, hi)
}

// WriteOAM keeps the sprite table in sync with a write to OAM at
// the given offset from 0xFE00.
func (p *PPU) WriteOAM(offset uint8, value uint8) {
	if int(offset) >= SpriteCount*4 {
		return
	}
	p.sprites[offset>>2].Update(offset&3, value)
}

// Rebuild decodes the whole tile cache and sprite table from
// memory, used after memory was replaced wholesale.
func (p *PPU) Rebuild() {
	for offset := uint16(0); offset < tileDataEnd; offset += 2 {
		tile, row := tileLocation(offset)
		p.tiles[tile].updateRow(row, p.mem.VRAM(offset), p.mem.VRAM(offset+1))
	}
	for offset := 0; offset < SpriteCount*4; offset++ {
		p.sprites[offset>>2].Update(uint8(offset&3), p.mem.OAM(uint8(offset)))
	}
}

// Tile returns a copy of the cached tile at index i.
func (p *PPU) Tile(i uint16) Tile {
	return p.tiles[i&(TileCount-1)]
}

// Sprite returns a copy of the decoded sprite table entry i.
func (p *PPU) Sprite(i int) Sprite {
	return p.sprites[i]
}

var _ types.Stater = (*PPU)(nil)

// Load implements the types.Stater interface. The tile cache and
// sprite table are rebuilt from memory, which must be loaded first.
//
// The values are loaded in the following order:
//   - LCDC, STAT, SCY, SCX, LY, LYC, DMA, BGP, OBP0, OBP1, WY, WX (uint8)
//   - Mode (uint8)
//   - modeClock, offClock (uint32)
//   - windowLine (uint8)
func (p *PPU) Load(s *types.State) {
	p.Controller.Write(s.Read8())
	p.Status.Write(s.Read8())
	p.ScrollY = s.Read8()
	p.ScrollX = s.Read8()
	p.CurrentScanline = s.Read8()
	p.LYCompare = s.Read8()
	p.dma = s.Read8()
	p.BackgroundPalette = palette.ByteToPalette(p.scheme, s.Read8())
	p.SpritePalettes[0] = palette.ByteToPalette(p.scheme, s.Read8())
	p.SpritePalettes[1] = palette.ByteToPalette(p.scheme, s.Read8())
	p.WindowY = s.Read8()
	p.WindowX = s.Read8()
	p.Status.Mode = lcd.Mode(s.Read8() & 3)
	p.modeClock = uint(s.Read32())
	p.offClock = uint(s.Read32())
	p.windowLine = s.Read8()

	p.Status.Coincidence = p.CurrentScanline == p.LYCompare
	p.frame = new(Frame)
	p.Rebuild()
}

// Save implements the types.Stater interface.
func (p *PPU) Save(s *types.State) {
	s.Write8(p.Controller.Read())
	s.Write8(p.Status.Read())
	s.Write8(p.ScrollY)
	s.Write8(p.ScrollX)
	s.Write8(p.CurrentScanline)
	s.Write8(p.LYCompare)
	s.Write8(p.dma)
	s.Write8(p.BackgroundPalette.ToByte())
	s.Write8(p.SpritePalettes[0].ToByte())
	s.Write8(p.SpritePalettes[1].ToByte())
	s.Write8(p.WindowY)
	s.Write8(p.WindowX)
	s.Write8(uint8(p.Status.Mode))
	s.Write32(uint32(p.modeClock))
	s.Write32(uint32(p.offClock))
	s.Write8(p.windowLine)
}
