package gameboy

import (
	"github.com/thelolagemann/gomeboy-core/internal/cpu"
	"github.com/thelolagemann/gomeboy-core/internal/ppu"
	"github.com/thelolagemann/gomeboy-core/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-core/pkg/log"
)

// Opt is a function that modifies a GameBoy
// instance.
type Opt func(gb *GameBoy)

// Debug raises the logger to debug level, which
// reports accesses to unmapped memory.
func Debug() Opt {
	return func(gb *GameBoy) {
		gb.debug = true
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(log log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.log = log
	}
}

// WithBootROM sets the boot ROM for the emulator. The
// image is validated when the cartridge is loaded. With
// a boot ROM, the CPU starts at 0x0000 with all registers
// cleared, instead of at 0x0100 with the registers set to
// the values upon completion of the boot ROM.
func WithBootROM(rom []byte) Opt {
	return func(gb *GameBoy) {
		gb.bootROM = rom
	}
}

// WithFrameHandler registers a function called with every
// completed frame. The frame belongs to the handler.
func WithFrameHandler(fn func(*ppu.Frame)) Opt {
	return func(gb *GameBoy) {
		gb.onFrame = fn
	}
}

// WithTraceHandler registers a function called with the
// trace of every executed step.
func WithTraceHandler(fn func(cpu.Trace)) Opt {
	return func(gb *GameBoy) {
		gb.onTrace = fn
	}
}

// WithPalette sets the shades the palette registers select from.
func WithPalette(s palette.Scheme) Opt {
	return func(gb *GameBoy) {
		gb.scheme = s
	}
}
