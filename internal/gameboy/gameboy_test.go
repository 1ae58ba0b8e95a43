package gameboy

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thelolagemann/gomeboy-core/internal/cartridge"
	"github.com/thelolagemann/gomeboy-core/internal/cpu"
	"github.com/thelolagemann/gomeboy-core/internal/mmu"
	"github.com/thelolagemann/gomeboy-core/internal/ppu"
	"github.com/thelolagemann/gomeboy-core/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-core/internal/types"
	"github.com/thelolagemann/gomeboy-core/pkg/log"
)

// newTestROM returns a 32kB cartridge image that jumps from the
// entry point to the given program at 0x0150.
func newTestROM(program ...uint8) []byte {
	rom := make([]byte, cartridge.ROMSize)
	copy(rom[0x100:], []uint8{0x00, 0xC3, 0x50, 0x01}) // NOP; JP $0150
	copy(rom[0x134:], "GAMEBOY TEST")
	var x uint8
	for _, b := range rom[0x134:0x14D] {
		x = x - b - 1
	}
	rom[0x14D] = x
	copy(rom[0x150:], program)
	return rom
}

// drawTile makes tile 1 row 0 colour index 1, and places tile 1 at
// the top left of the background map, before spinning forever.
var drawTile = []uint8{
	0x3E, 0xFF, // LD A, $FF
	0xEA, 0x10, 0x80, // LD ($8010), A
	0x3E, 0x01, // LD A, $01
	0xEA, 0x00, 0x98, // LD ($9800), A
	0x18, 0xFE, // JR $015A
}

func newTestGameBoy(t *testing.T, program []uint8, opts ...Opt) *GameBoy {
	t.Helper()
	g := NewGameBoy(opts...)
	if err := g.Load(newTestROM(program...)); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGameBoy_NotReady(t *testing.T) {
	g := NewGameBoy()
	if _, err := g.Step(); !errors.Is(err, mmu.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
	if _, err := g.RunFrame(); !errors.Is(err, mmu.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
	if _, err := g.SaveState(); !errors.Is(err, mmu.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestGameBoy_Load(t *testing.T) {
	g := NewGameBoy()
	if err := g.Load(make([]byte, 0x100)); !errors.Is(err, cartridge.ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}

	g = NewGameBoy(WithBootROM(make([]byte, 10)))
	if err := g.Load(newTestROM()); err == nil {
		t.Error("expected an invalid boot ROM to fail")
	}
	if err := g.MMU.Ready(); !errors.Is(err, mmu.ErrNotReady) {
		t.Errorf("expected no cartridge after a failed load, got %v", err)
	}

	// a bad header checksum is only a warning
	rom := newTestROM()
	rom[0x14D]++
	g = NewGameBoy()
	if err := g.Load(rom); err != nil {
		t.Errorf("expected header problems to be tolerated, got %v", err)
	}
}

func TestGameBoy_Logger(t *testing.T) {
	var buf bytes.Buffer
	l := log.New()
	l.SetOutput(&buf)

	g := newTestGameBoy(t, nil, WithLogger(l), Debug())
	if !strings.Contains(buf.String(), "loaded cartridge") {
		t.Errorf("expected load to be logged, got %q", buf.String())
	}

	buf.Reset()
	g.MMU.Read(0xFF00)
	if out := buf.String(); !strings.Contains(out, "component=mmu") || !strings.Contains(out, "0xFF00") {
		t.Errorf("expected unmapped read to be logged by the mmu, got %q", out)
	}
}

func TestGameBoy_SkipBoot(t *testing.T) {
	g := newTestGameBoy(t, nil)
	s := g.CPU.Snapshot()
	if s.PC != 0x0100 || s.SP != 0xFFFE {
		t.Errorf("expected PC=0x0100 SP=0xFFFE, got PC=0x%04X SP=0x%04X", s.PC, s.SP)
	}
	if s.A != 0x01 || s.F != 0xB0 {
		t.Errorf("expected A=0x01 F=0xB0, got A=0x%02X F=0x%02X", s.A, s.F)
	}
	if v := g.MMU.Read(types.LCDC); v != 0x91 {
		t.Errorf("expected LCDC 0x91, got 0x%02X", v)
	}
	if v := g.MMU.Read(types.BGP); v != 0xFC {
		t.Errorf("expected BGP 0xFC, got 0x%02X", v)
	}
	if g.MMU.BootActive() {
		t.Error("expected no boot ROM")
	}
}

func TestGameBoy_BootOverlay(t *testing.T) {
	bootROM := make([]byte, 256)
	copy(bootROM, []uint8{0x31, 0xFE, 0xFF, 0xC3, 0x00, 0x01}) // LD SP, $FFFE; JP $0100

	g := newTestGameBoy(t, nil, WithBootROM(bootROM))
	if g.CPU.PC != 0x0000 {
		t.Fatalf("expected to start at 0x0000, got 0x%04X", g.CPU.PC)
	}

	for i := 0; i < 2; i++ {
		if !g.MMU.BootActive() {
			t.Fatalf("step %d: expected boot ROM to be active", i)
		}
		if v := g.MMU.Read(0x0000); v != 0x31 {
			t.Errorf("step %d: expected boot ROM byte 0x31, got 0x%02X", i, v)
		}
		if _, err := g.Step(); err != nil {
			t.Fatal(err)
		}
	}

	if g.CPU.PC != 0x0100 {
		t.Fatalf("expected PC 0x0100, got 0x%04X", g.CPU.PC)
	}
	for i := 0; i < 100; i++ {
		if g.MMU.BootActive() {
			t.Fatalf("step %d: expected boot ROM to be unmapped", i)
		}
		if v := g.MMU.Read(0x0000); v != 0x00 {
			t.Errorf("expected cartridge byte 0x00, got 0x%02X", v)
		}
		if _, err := g.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestGameBoy_BlankFrame(t *testing.T) {
	g := newTestGameBoy(t, []uint8{0x18, 0xFE})

	var frame *ppu.Frame
	var err error
	for i := 0; i < 2; i++ {
		if frame, err = g.RunFrame(); err != nil {
			t.Fatal(err)
		}
	}
	// BGP 0xFC maps colour index 0 to the lightest shade
	for y := range frame {
		for x := range frame[y] {
			if frame[y][x] != palette.Greyscale[0] {
				t.Fatalf("(%d, %d): expected %v, got %v", x, y, palette.Greyscale[0], frame[y][x])
			}
		}
	}
}

func TestGameBoy_DrawTile(t *testing.T) {
	g := newTestGameBoy(t, drawTile)

	var frame *ppu.Frame
	var err error
	for i := 0; i < 2; i++ {
		if frame, err = g.RunFrame(); err != nil {
			t.Fatal(err)
		}
	}
	// BGP 0xFC maps colour index 1 to the darkest shade
	for x := 0; x < 8; x++ {
		if frame[0][x] != palette.Greyscale[3] {
			t.Errorf("(%d, 0): expected %v, got %v", x, palette.Greyscale[3], frame[0][x])
		}
		if frame[1][x] != palette.Greyscale[0] {
			t.Errorf("(%d, 1): expected %v, got %v", x, palette.Greyscale[0], frame[1][x])
		}
	}
	if frame[0][8] != palette.Greyscale[0] {
		t.Errorf("(8, 0): expected %v, got %v", palette.Greyscale[0], frame[0][8])
	}
}

func TestGameBoy_Palette(t *testing.T) {
	g := newTestGameBoy(t, []uint8{0x18, 0xFE}, WithPalette(palette.Green))
	frame, err := g.RunFrame()
	if err != nil {
		t.Fatal(err)
	}
	if frame[72][80] != palette.Green[0] {
		t.Errorf("expected %v, got %v", palette.Green[0], frame[72][80])
	}
}

func TestGameBoy_Deterministic(t *testing.T) {
	run := func() []uint64 {
		g := newTestGameBoy(t, drawTile)
		var sums []uint64
		for i := 0; i < 3; i++ {
			frame, err := g.RunFrame()
			if err != nil {
				t.Fatal(err)
			}
			sums = append(sums, frame.Checksum())
		}
		return sums
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("frame %d: expected checksum %016X, got %016X", i, a[i], b[i])
		}
	}
}

func TestGameBoy_FrameTiming(t *testing.T) {
	g := newTestGameBoy(t, []uint8{0x18, 0xFE})

	if _, err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	start := g.Cycles()
	if _, err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	elapsed := g.Cycles() - start

	// a frame is detected at the end of the step that completed it
	if elapsed < CyclesPerFrame-24 || elapsed > CyclesPerFrame+24 {
		t.Errorf("expected about %d cycles per frame, got %d", CyclesPerFrame, elapsed)
	}
	if g.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", g.Frames())
	}
}

func TestGameBoy_Handlers(t *testing.T) {
	var frames, steps int
	var first cpu.Trace
	g := newTestGameBoy(t, []uint8{0x18, 0xFE},
		WithFrameHandler(func(*ppu.Frame) { frames++ }),
		WithTraceHandler(func(trace cpu.Trace) {
			if steps == 0 {
				first = trace
			}
			steps++
		}),
	)

	for i := 0; i < 2; i++ {
		if _, err := g.RunFrame(); err != nil {
			t.Fatal(err)
		}
	}
	if frames != 2 {
		t.Errorf("expected 2 frames, got %d", frames)
	}
	if steps == 0 {
		t.Fatal("expected traces")
	}
	if first.String() != "0100: NOP" {
		t.Errorf("expected %q, got %q", "0100: NOP", first.String())
	}
}

func TestGameBoy_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames int
	g := newTestGameBoy(t, []uint8{0x18, 0xFE}, WithFrameHandler(func(*ppu.Frame) {
		frames++
		if frames == 3 {
			cancel()
		}
	}))

	if err := g.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if frames != 3 {
		t.Errorf("expected 3 frames, got %d", frames)
	}
}

func TestGameBoy_RunError(t *testing.T) {
	g := newTestGameBoy(t, []uint8{0xD3}) // illegal opcode
	err := g.Run(context.Background())

	var unknown *cpu.UnknownOpcodeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownOpcodeError, got %v", err)
	}
	if unknown.Opcode != 0xD3 || unknown.PC != 0x0150 {
		t.Errorf("expected opcode 0xD3 at 0x0150, got 0x%02X at 0x%04X", unknown.Opcode, unknown.PC)
	}
}

func TestGameBoy_State(t *testing.T) {
	g := newTestGameBoy(t, drawTile)
	if _, err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	state, err := g.SaveState()
	if err != nil {
		t.Fatal(err)
	}

	var expected []uint64
	for i := 0; i < 2; i++ {
		frame, err := g.RunFrame()
		if err != nil {
			t.Fatal(err)
		}
		expected = append(expected, frame.Checksum())
	}

	restored := newTestGameBoy(t, drawTile)
	if err := restored.LoadState(state); err != nil {
		t.Fatal(err)
	}
	if restored.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", restored.Frames())
	}
	for i := 0; i < 2; i++ {
		frame, err := restored.RunFrame()
		if err != nil {
			t.Fatal(err)
		}
		if frame.Checksum() != expected[i] {
			t.Errorf("frame %d: expected checksum %016X, got %016X", i, expected[i], frame.Checksum())
		}
	}

	if err := restored.LoadState(state[:10]); !errors.Is(err, types.ErrShortState) {
		t.Errorf("expected ErrShortState, got %v", err)
	}
}

func TestGameBoy_StateRejected(t *testing.T) {
	g := newTestGameBoy(t, drawTile)
	if _, err := g.RunFrame(); err != nil {
		t.Fatal(err)
	}
	before, err := g.SaveState()
	if err != nil {
		t.Fatal(err)
	}

	if err := g.LoadState(before[:20]); !errors.Is(err, types.ErrShortState) {
		t.Errorf("expected ErrShortState, got %v", err)
	}
	if err := g.LoadState(append(append([]byte{}, before...), 0x00)); err == nil {
		t.Error("expected trailing bytes to be rejected")
	}

	after, err := g.SaveState()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("expected a rejected state to leave the machine unchanged")
	}
	if v := g.MMU.Read(types.LCDC); v != 0x91 {
		t.Errorf("expected LCDC 0x91, got 0x%02X", v)
	}
	if g.Frame() == nil {
		t.Error("expected the last frame to be kept")
	}
}
