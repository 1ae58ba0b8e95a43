package ppu

import (
	"testing"

	"github.com/thelolagemann/gomeboy-core/internal/interrupts"
	"github.com/thelolagemann/gomeboy-core/internal/ppu/lcd"
	"github.com/thelolagemann/gomeboy-core/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-core/internal/types"
)

// memory is a minimal owner of VRAM and OAM that forwards writes to
// the PPU the same way the bus does.
type memory struct {
	vram [0x2000]uint8
	oam  [0xA0]uint8
	p    *PPU
}

func (m *memory) VRAM(offset uint16) uint8 { return m.vram[offset] }
func (m *memory) OAM(offset uint8) uint8   { return m.oam[offset] }

func (m *memory) writeVRAM(address uint16, value uint8) {
	m.vram[address-0x8000] = value
	m.p.WriteVRAM(address-0x8000, value)
}

func (m *memory) writeOAM(address uint16, value uint8) {
	m.oam[address-0xFE00] = value
	m.p.WriteOAM(uint8(address-0xFE00), value)
}

// setSprite writes all 4 bytes of sprite i.
func (m *memory) setSprite(i int, y, x, tile, attr uint8) {
	base := 0xFE00 + uint16(i)*4
	m.writeOAM(base, y)
	m.writeOAM(base+1, x)
	m.writeOAM(base+2, tile)
	m.writeOAM(base+3, attr)
}

// solidTile fills every row of tile with the given colour index.
func (m *memory) solidTile(tile uint16, index uint8) {
	var lo, hi uint8
	if index&1 != 0 {
		lo = 0xFF
	}
	if index&2 != 0 {
		hi = 0xFF
	}
	for row := uint16(0); row < 8; row++ {
		m.writeVRAM(0x8000+tile*16+row*2, lo)
		m.writeVRAM(0x8000+tile*16+row*2+1, hi)
	}
}

func newTestPPU(lcdc uint8) (*PPU, *memory, *interrupts.Service) {
	mem := &memory{}
	irq := interrupts.NewService()
	p := New(mem, irq, nil)
	mem.p = p
	p.Write(types.BGP, 0xE4)
	p.Write(types.OBP0, 0xE4)
	p.Write(types.OBP1, 0x1B)
	p.Write(types.LCDC, lcdc)
	return p, mem, irq
}

// run steps the PPU 4 cycles at a time, collecting completed frames.
func run(p *PPU, cycles uint) []*Frame {
	var frames []*Frame
	for c := uint(0); c < cycles; c += 4 {
		if f := p.Step(4); f != nil {
			frames = append(frames, f)
		}
	}
	return frames
}

func TestPPU_Timing(t *testing.T) {
	p, _, irq := newTestPPU(0x91)

	if p.Status.Mode != lcd.OAM || p.CurrentScanline != 0 {
		t.Fatalf("expected OAM scan on line 0, got %s on line %d", p.Status.Mode, p.CurrentScanline)
	}
	run(p, 80)
	if p.Status.Mode != lcd.VRAM {
		t.Errorf("expected pixel transfer after 80 cycles, got %s", p.Status.Mode)
	}
	run(p, 172)
	if p.Status.Mode != lcd.HBlank {
		t.Errorf("expected HBlank after 252 cycles, got %s", p.Status.Mode)
	}
	run(p, 204)
	if p.Status.Mode != lcd.OAM || p.CurrentScanline != 1 {
		t.Errorf("expected OAM scan on line 1, got %s on line %d", p.Status.Mode, p.CurrentScanline)
	}

	// the frame is delivered when line 143's HBlank ends
	frames := run(p, 143*456-4)
	if len(frames) != 0 || p.CurrentScanline != 143 {
		t.Fatalf("expected no frame before line 144, got %d on line %d", len(frames), p.CurrentScanline)
	}
	if irq.Flag&interrupts.VBlankFlag != 0 {
		t.Errorf("expected no VBlank request yet")
	}
	frames = run(p, 4)
	if len(frames) != 1 {
		t.Fatalf("expected a frame at the start of VBlank, got %d", len(frames))
	}
	if p.Status.Mode != lcd.VBlank || p.CurrentScanline != 144 {
		t.Errorf("expected VBlank on line 144, got %s on line %d", p.Status.Mode, p.CurrentScanline)
	}
	if irq.Flag&interrupts.VBlankFlag == 0 {
		t.Errorf("expected VBlank request")
	}

	// 10 lines of VBlank, then back to line 0
	run(p, 9*456)
	if p.CurrentScanline != 153 {
		t.Errorf("expected line 153, got %d", p.CurrentScanline)
	}
	run(p, 456)
	if p.Status.Mode != lcd.OAM || p.CurrentScanline != 0 {
		t.Errorf("expected OAM scan on line 0, got %s on line %d", p.Status.Mode, p.CurrentScanline)
	}
}

func TestPPU_FramePeriod(t *testing.T) {
	p, _, _ := newTestPPU(0x91)
	frames := run(p, CyclesPerFrame*3)
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if frames[0] == frames[1] {
		t.Errorf("expected a fresh frame buffer per frame")
	}

	// large steps behave the same as small ones
	q, _, _ := newTestPPU(0x91)
	var n int
	for i := 0; i < 3; i++ {
		if q.Step(CyclesPerFrame) != nil {
			n++
		}
	}
	if n != 3 {
		t.Errorf("expected 3 frames, got %d", n)
	}
}

func TestPPU_BlankBackground(t *testing.T) {
	for _, bgp := range []uint8{0xE4, 0x1B, 0x03} {
		p, _, _ := newTestPPU(0x91)
		p.Write(types.BGP, bgp)
		frames := run(p, CyclesPerFrame)
		if len(frames) != 1 {
			t.Fatalf("expected 1 frame, got %d", len(frames))
		}
		want := p.BackgroundPalette.GetColour(0)
		for y := range frames[0] {
			for x, c := range frames[0][y] {
				if c != want {
					t.Fatalf("BGP 0x%02X: pixel %d,%d expected %v, got %v", bgp, x, y, want, c)
				}
			}
		}
	}
}

func TestPPU_TileCache(t *testing.T) {
	p, mem, _ := newTestPPU(0x91)

	mem.writeVRAM(0x8010, 0xF0) // tile 1, row 0, low plane
	row := p.Tile(1)[0]
	for x, want := range []uint8{1, 1, 1, 1, 0, 0, 0, 0} {
		if row[x] != want {
			t.Errorf("pixel %d: expected %d, got %d", x, want, row[x])
		}
	}
	mem.writeVRAM(0x8011, 0x0F) // high plane
	row = p.Tile(1)[0]
	for x, want := range []uint8{1, 1, 1, 1, 2, 2, 2, 2} {
		if row[x] != want {
			t.Errorf("pixel %d: expected %d, got %d", x, want, row[x])
		}
	}
	if p.Tile(1)[1] != [8]uint8{} || p.Tile(0)[0] != [8]uint8{} {
		t.Errorf("expected neighbouring rows and tiles to be untouched")
	}

	// last row of the last tile in the signed block
	mem.writeVRAM(0x97FE, 0xFF)
	if p.Tile(383)[7][0] != 1 {
		t.Errorf("expected tile 383 row 7 to be updated")
	}

	// tile map writes leave the cache alone
	before := p.Tile(384)
	mem.writeVRAM(0x9800, 0xFF)
	if p.Tile(384) != before {
		t.Errorf("expected tile map write to leave the cache untouched")
	}
}

func TestPPU_BackgroundScroll(t *testing.T) {
	p, mem, _ := newTestPPU(0x91)
	black := palette.Greyscale[3]
	white := palette.Greyscale[0]

	mem.solidTile(1, 3)
	mem.writeVRAM(0x9801, 1) // map row 0, column 1

	f := run(p, CyclesPerFrame)[0]
	for x := 0; x < 24; x++ {
		want := white
		if x >= 8 && x < 16 {
			want = black
		}
		if f[0][x] != want {
			t.Errorf("x=%d: expected %v, got %v", x, want, f[0][x])
		}
	}
	if f[8][8] != white {
		t.Errorf("expected map row 1 to be white")
	}

	p.Write(types.SCX, 8)
	p.Write(types.SCY, 4)
	f = run(p, CyclesPerFrame)[0]
	if f[0][0] != black || f[3][7] != black || f[0][8] != white {
		t.Errorf("expected scrolled tile at x 0-7 lines 0-3")
	}
	if f[4][0] != white {
		t.Errorf("expected line 4 to show map row 1")
	}
}

func TestPPU_SignedTileData(t *testing.T) {
	p, mem, _ := newTestPPU(0x81) // tile data at 0x8800, signed
	mem.solidTile(256, 3)            // tile 0 relative to 0x9000
	mem.solidTile(0, 1)              // unreachable in this mode

	f := run(p, CyclesPerFrame)[0]
	if f[0][0] != palette.Greyscale[3] {
		t.Errorf("expected tile at 0x9000 to be used, got %v", f[0][0])
	}
}

func TestPPU_Window(t *testing.T) {
	p, mem, _ := newTestPPU(0x91 | 0x20 | 0x40) // window on, window map 0x9C00
	mem.solidTile(1, 3)
	for i := uint16(0); i < 0x400; i++ {
		mem.writeVRAM(0x9C00+i, 1)
	}
	p.Write(types.WY, 10)
	p.Write(types.WX, 7+80)

	f := run(p, CyclesPerFrame)[0]
	black, white := palette.Greyscale[3], palette.Greyscale[0]
	if f[9][100] != white {
		t.Errorf("expected window to start at WY")
	}
	if f[10][79] != white || f[10][80] != black || f[143][159] != black {
		t.Errorf("expected window to cover from WX-7 onwards")
	}
}

func TestPPU_SpritePriority(t *testing.T) {
	p, mem, _ := newTestPPU(0x93) // sprites on
	black := palette.Greyscale[3]
	light := palette.Greyscale[1]

	mem.solidTile(1, 3) // black through OBP0 (0xE4)
	mem.solidTile(2, 1) // light grey through OBP0

	// overlapping sprites: lower X is drawn on top
	mem.setSprite(0, 16, 12, 2, 0x00) // x 4..11
	mem.setSprite(1, 16, 8, 1, 0x00)  // x 0..7
	// same X: lower OAM index is drawn on top
	mem.setSprite(2, 32, 40, 1, 0x00)
	mem.setSprite(3, 32, 40, 2, 0x00)

	f := run(p, CyclesPerFrame)[0]
	if f[0][5] != black {
		t.Errorf("expected lower X sprite on top, got %v", f[0][5])
	}
	if f[0][10] != light {
		t.Errorf("expected sprite 0 visible where it does not overlap, got %v", f[0][10])
	}
	if f[16][33] != black {
		t.Errorf("expected lower OAM index on top, got %v", f[16][33])
	}
}

func TestPPU_SpriteTransparencyAndBGPriority(t *testing.T) {
	p, mem, _ := newTestPPU(0x93)
	white := palette.Greyscale[0]
	black := palette.Greyscale[3]
	mid := palette.Greyscale[2]

	mem.solidTile(1, 3)
	mem.solidTile(3, 2)      // background tile, index 2
	mem.writeVRAM(0x9801, 3) // BG x 8..15 on lines 0..7

	mem.solidTile(2, 0)
	mem.setSprite(0, 16, 8, 2, 0x00) // fully transparent, x 0..7
	mem.setSprite(1, 16, 20, 1, 0x80) // behind BG, x 12..19

	f := run(p, CyclesPerFrame)[0]
	if f[0][0] != white {
		t.Errorf("expected transparent sprite to show BG, got %v", f[0][0])
	}
	if f[0][12] != mid {
		t.Errorf("expected non-zero BG to win over a behind-BG sprite, got %v", f[0][12])
	}
	if f[0][16] != black {
		t.Errorf("expected behind-BG sprite over BG index 0, got %v", f[0][16])
	}
}

func TestPPU_SpriteFlipAndPalette(t *testing.T) {
	p, mem, _ := newTestPPU(0x93)

	// tile 1, row 0: only the leftmost pixel set
	mem.writeVRAM(0x8010, 0x80)
	mem.writeVRAM(0x8011, 0x80)
	mem.setSprite(0, 16, 8, 1, 0x20)   // X flip, OBP0
	mem.setSprite(1, 16+7, 16, 1, 0x50) // Y flip, OBP1
	p.Write(types.OBP1, 0x40)           // index 3 -> light grey

	f := run(p, CyclesPerFrame)[0]
	if f[0][7] != palette.Greyscale[3] || f[0][0] != palette.Greyscale[0] {
		t.Errorf("expected X flipped pixel at x=7")
	}
	// sprite 1 spans lines 7..14, flipped so row 0 lands on line 14
	if f[14][8] != palette.Greyscale[1] {
		t.Errorf("expected Y flipped pixel through OBP1 on line 14, got %v", f[14][8])
	}
	if f[7][8] != palette.Greyscale[0] {
		t.Errorf("expected line 7 to be transparent, got %v", f[7][8])
	}
}

func TestPPU_SpriteLimit(t *testing.T) {
	p, mem, _ := newTestPPU(0x93)
	mem.solidTile(1, 3)

	// 12 sprites on line 0, 8 pixels apart
	for i := 0; i < 12; i++ {
		mem.setSprite(i, 16, uint8(8+i*8), 1, 0x00)
	}

	f := run(p, CyclesPerFrame)[0]
	// ordered by X descending, the two lowest X sprites miss the cut
	for x := 0; x < 16; x++ {
		if f[0][x] != palette.Greyscale[0] {
			t.Errorf("x=%d: expected no sprite, got %v", x, f[0][x])
		}
	}
	for x := 16; x < 96; x++ {
		if f[0][x] != palette.Greyscale[3] {
			t.Errorf("x=%d: expected sprite, got %v", x, f[0][x])
		}
	}
}

func TestPPU_TallSprites(t *testing.T) {
	p, mem, _ := newTestPPU(0x97) // 8x16 sprites
	mem.solidTile(4, 3)
	mem.solidTile(5, 1)
	mem.setSprite(0, 16, 8, 5, 0x00) // bit 0 of the tile is ignored

	f := run(p, CyclesPerFrame)[0]
	if f[0][0] != palette.Greyscale[3] || f[15][0] != palette.Greyscale[1] {
		t.Errorf("expected top half from tile 4 and bottom half from tile 5")
	}
}

func TestPPU_StatInterrupts(t *testing.T) {
	p, _, irq := newTestPPU(0x91)
	p.Write(types.STAT, 0x08) // HBlank
	run(p, 248)
	if irq.Flag&interrupts.LCDFlag != 0 {
		t.Errorf("expected no request before HBlank")
	}
	run(p, 4)
	if irq.Flag&interrupts.LCDFlag == 0 {
		t.Errorf("expected request on HBlank entry")
	}

	irq.Flag = 0
	p.Write(types.STAT, 0x40) // LYC
	p.Write(types.LYC, 2)
	run(p, 456-252+456-4)
	if irq.Flag&interrupts.LCDFlag != 0 || p.Read(types.STAT)&0x04 != 0 {
		t.Errorf("expected no coincidence on line 1")
	}
	run(p, 4)
	if p.CurrentScanline != 2 {
		t.Fatalf("expected line 2, got %d", p.CurrentScanline)
	}
	if irq.Flag&interrupts.LCDFlag == 0 {
		t.Errorf("expected coincidence request")
	}
	if got := p.Read(types.STAT); got != 0x80|0x40|0x04|uint8(lcd.OAM) {
		t.Errorf("expected 0xC6, got 0x%02X", got)
	}
}

func TestPPU_Registers(t *testing.T) {
	p, _, _ := newTestPPU(0x91)
	regs := []uint16{types.SCY, types.SCX, types.LYC, types.DMA, types.BGP, types.OBP0, types.OBP1, types.WY, types.WX}
	for _, r := range regs {
		p.Write(r, 0x5A)
		if got := p.Read(r); got != 0x5A {
			t.Errorf("0x%04X: expected 0x5A, got 0x%02X", r, got)
		}
	}

	p.Write(types.LY, 0x20)
	if got := p.Read(types.LY); got != 0 {
		t.Errorf("expected LY to be read only, got 0x%02X", got)
	}

	// only bits 3-6 of STAT are writable
	p.Write(types.STAT, 0xFF)
	if got := p.Read(types.STAT) & 0x78; got != 0x78 {
		t.Errorf("expected enable bits to be set, got 0x%02X", got)
	}
	p.Write(types.STAT, 0x00)
	if got := p.Read(types.STAT); got&0x83 != 0x80|uint8(lcd.OAM) {
		t.Errorf("expected mode bits to survive a write, got 0x%02X", got)
	}
}

func TestPPU_LCDOff(t *testing.T) {
	p, _, irq := newTestPPU(0x91)
	run(p, 1000)
	p.Write(types.LCDC, 0x11)
	if p.CurrentScanline != 0 || p.Status.Mode != lcd.HBlank {
		t.Errorf("expected LY 0 in HBlank with the LCD off")
	}

	p.Write(types.BGP, 0x1B)
	irq.Flag = 0
	frames := run(p, CyclesPerFrame)
	if len(frames) != 1 {
		t.Fatalf("expected a blank frame per period, got %d", len(frames))
	}
	if frames[0][72][80] != palette.Greyscale[0] {
		t.Errorf("expected blank frame to use the lightest shade")
	}
	if irq.Flag != 0 {
		t.Errorf("expected no interrupts with the LCD off")
	}

	p.Write(types.LCDC, 0x91)
	if p.Status.Mode != lcd.OAM || p.CurrentScanline != 0 {
		t.Errorf("expected OAM scan on line 0 after enabling the LCD")
	}
}

func TestPPU_SetScheme(t *testing.T) {
	p, _, _ := newTestPPU(0x91)
	p.SetScheme(palette.Green)
	if p.BackgroundPalette.GetColour(3) != palette.Green[3] {
		t.Errorf("expected palette to switch scheme")
	}
	if p.Read(types.BGP) != 0xE4 {
		t.Errorf("expected BGP to survive a scheme change")
	}
}

func TestPPU_State(t *testing.T) {
	p, mem, _ := newTestPPU(0x93)
	mem.solidTile(1, 3)
	mem.setSprite(0, 16, 8, 1, 0x00)
	p.Write(types.SCX, 3)
	run(p, 5000)

	s := types.NewState()
	p.Save(s)

	q, qmem, _ := newTestPPU(0x00)
	qmem.vram = mem.vram
	qmem.oam = mem.oam
	q.Load(types.StateFromBytes(s.Bytes()))

	if q.CurrentScanline != p.CurrentScanline || q.Status.Mode != p.Status.Mode || q.modeClock != p.modeClock {
		t.Errorf("expected timing to be restored")
	}
	if q.Tile(1) != p.Tile(1) || q.Sprite(0) != p.Sprite(0) {
		t.Errorf("expected caches to be rebuilt from memory")
	}
	// the frame in progress was not saved, compare the one after it
	a, b := run(p, 2*CyclesPerFrame), run(q, 2*CyclesPerFrame)
	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("expected 2 frames each, got %d and %d", len(a), len(b))
	}
	if a[1].Checksum() != b[1].Checksum() {
		t.Errorf("expected identical frames after restoring state")
	}
}
