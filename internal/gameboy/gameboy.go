// Package gameboy provides an emulation of a Nintendo Game Boy.
//
// A GameBoy is used in two phases: it is constructed with NewGameBoy,
// and then a cartridge image is loaded with Load. Only then can the
// machine be stepped, one instruction at a time with Step, one frame
// at a time with RunFrame, or until cancelled with Run.
package gameboy

import (
	"context"
	"fmt"

	"github.com/thelolagemann/gomeboy-core/internal/boot"
	"github.com/thelolagemann/gomeboy-core/internal/cartridge"
	"github.com/thelolagemann/gomeboy-core/internal/cpu"
	"github.com/thelolagemann/gomeboy-core/internal/interrupts"
	"github.com/thelolagemann/gomeboy-core/internal/mmu"
	"github.com/thelolagemann/gomeboy-core/internal/ppu"
	"github.com/thelolagemann/gomeboy-core/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-core/internal/types"
	"github.com/thelolagemann/gomeboy-core/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = cpu.ClockSpeed // 4.194304 MHz
	// CyclesPerFrame is the number of clock cycles per frame.
	CyclesPerFrame = ppu.CyclesPerFrame // 4194304 / 59.73
)

// GameBoy represents a Game Boy. It contains all the components of the Game Boy.
// It is the main entry point for the emulator.
type GameBoy struct {
	CPU        *cpu.CPU
	MMU        *mmu.MMU
	PPU        *ppu.PPU
	Interrupts *interrupts.Service

	log   log.Logger
	debug bool

	bootROM []byte
	scheme  palette.Scheme
	onFrame func(*ppu.Frame)
	onTrace func(cpu.Trace)

	cycles    uint64
	frames    uint64
	lastFrame *ppu.Frame
}

// NewGameBoy returns a new GameBoy without a cartridge. The options
// are applied before the components are created, so every component
// shares the configured logger.
func NewGameBoy(opts ...Opt) *GameBoy {
	g := &GameBoy{
		log:    log.NewNullLogger(),
		scheme: palette.Greyscale,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.debug {
		log.SetDebug(g.log)
	}

	g.Interrupts = interrupts.NewService()
	g.MMU = mmu.NewMMU(g.Interrupts, log.WithComponent(g.log, "mmu"))
	g.PPU = g.MMU.PPU
	g.PPU.SetScheme(g.scheme)
	g.CPU = cpu.NewCPU(g.MMU, g.Interrupts, log.WithComponent(g.log, "cpu"))

	return g
}

// Load inserts the cartridge image. Problems with the cartridge
// header are logged, as the fixed banks can always be mapped; an
// image too short to hold a header, or an invalid boot ROM, is
// returned as an error and leaves the machine without a cartridge.
//
// Without a boot ROM the machine starts at the cartridge entry point,
// with the registers left as the boot ROM would have left them.
func (g *GameBoy) Load(rom []byte) error {
	cart, err := cartridge.NewCartridge(rom)
	if err != nil {
		return err
	}
	var bootROM *boot.ROM
	if g.bootROM != nil {
		if bootROM, err = boot.LoadBootROM(g.bootROM); err != nil {
			return err
		}
	}

	header := cart.Header()
	if err := header.Validate(); err != nil {
		g.log.Warnf("cartridge: %v", err)
	}
	g.MMU.LoadCartridge(cart)
	g.log.Infof("loaded cartridge %s", header.String())

	if bootROM != nil {
		g.MMU.SetBootROM(bootROM)
		g.log.Infof("using boot ROM %s (%s)", bootROM.Model(), bootROM.Checksum())
		return nil
	}

	g.MMU.SetBootROM(nil)
	g.CPU.SkipBoot()
	g.MMU.Write(types.LCDC, 0x91)
	g.MMU.Write(types.BGP, 0xFC)

	return nil
}

// Step executes a single CPU step, and advances the PPU by the
// cycles it took. A frame completed during the step is passed to
// the frame handler.
func (g *GameBoy) Step() (cpu.Trace, error) {
	cycles, trace, err := g.CPU.Step()
	if err != nil {
		return trace, err
	}
	g.cycles += uint64(cycles)
	if g.onTrace != nil {
		g.onTrace(trace)
	}

	if frame := g.PPU.Step(cycles); frame != nil {
		g.frames++
		g.lastFrame = frame
		if g.onFrame != nil {
			g.onFrame(frame)
		}
	}

	return trace, nil
}

// RunFrame steps the emulation until the PPU has finished the
// current frame, and returns it.
func (g *GameBoy) RunFrame() (*ppu.Frame, error) {
	frames := g.frames
	for g.frames == frames {
		if _, err := g.Step(); err != nil {
			return nil, err
		}
	}
	return g.lastFrame, nil
}

// Run runs frames until ctx is cancelled or a step fails. The
// context is checked between frames, and cancellation is not
// reported as an error.
func (g *GameBoy) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if _, err := g.RunFrame(); err != nil {
			return err
		}
	}
}

// Cycles returns the number of clock cycles executed since Load.
func (g *GameBoy) Cycles() uint64 {
	return g.cycles
}

// Frames returns the number of frames completed since Load.
func (g *GameBoy) Frames() uint64 {
	return g.frames
}

// Frame returns the most recently completed frame, or nil.
func (g *GameBoy) Frame() *ppu.Frame {
	return g.lastFrame
}

// SaveState serialises the whole machine.
//
// The values are saved in the following order:
//   - CPU (and interrupt registers)
//   - MMU (memory, cartridge RAM and PPU)
//   - cycles, frames (uint64)
func (g *GameBoy) SaveState() ([]byte, error) {
	if err := g.MMU.Ready(); err != nil {
		return nil, err
	}
	s := types.NewState()
	g.CPU.Save(s)
	g.MMU.Save(s)
	s.Write64(g.cycles)
	s.Write64(g.frames)
	return s.Bytes(), nil
}

// LoadState restores a state produced by SaveState. The cartridge
// the state was saved with must already be loaded. A state of the
// wrong size is rejected before anything is restored, so a failed
// load leaves the machine untouched.
func (g *GameBoy) LoadState(b []byte) error {
	current, err := g.SaveState()
	if err != nil {
		return err
	}
	// every component saves a fixed number of bytes
	switch {
	case len(b) < len(current):
		return fmt.Errorf("gameboy: loading state: %w: have %d bytes, need %d", types.ErrShortState, len(b), len(current))
	case len(b) > len(current):
		return fmt.Errorf("gameboy: loading state: %d trailing bytes", len(b)-len(current))
	}

	s := types.StateFromBytes(b)
	g.CPU.Load(s)
	g.MMU.Load(s)
	g.cycles = s.Read64()
	g.frames = s.Read64()
	if err := s.Err(); err != nil {
		return fmt.Errorf("gameboy: loading state: %w", err)
	}
	g.lastFrame = nil
	return nil
}
