package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/thelolagemann/gomeboy-core/internal/cpu"
	"github.com/thelolagemann/gomeboy-core/internal/gameboy"
	"github.com/thelolagemann/gomeboy-core/internal/ppu"
	"github.com/thelolagemann/gomeboy-core/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-core/pkg/emu"
	"github.com/thelolagemann/gomeboy-core/pkg/log"
	"github.com/thelolagemann/gomeboy-core/pkg/utils"
)

func main() {
	romFile := flag.String("rom", "", "The rom file to load (.gb, .gz, .zip or .7z)")
	bootROM := flag.String("boot", "", "The boot rom file to load")
	frames := flag.Int("frames", 60, "The number of frames to run (0 runs until interrupted)")
	trace := flag.Bool("trace", false, "Print every executed instruction")
	out := flag.String("out", "", "Write the final frame to this file (.png or .bmp)")
	scale := flag.Int("scale", 1, "Scale factor for the written frame (1-8)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	state := flag.String("state", "", "Save state directory: resume from the newest state for the cartridge, and save a new one once finished")
	scheme := flag.String("palette", "greyscale", "The palette to render with ("+schemeNames()+")")
	flag.Parse()

	logger := log.New()
	if err := run(logger, options{
		rom:     *romFile,
		boot:    *bootROM,
		frames:  utils.Clamp(0, *frames, 1<<20),
		trace:   *trace,
		out:     *out,
		scale:   utils.Clamp(1, *scale, 8),
		debug:   *debug,
		state:   *state,
		palette: *scheme,
	}); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

type options struct {
	rom, boot    string
	frames       int
	trace, debug bool
	out, state   string
	scale        int
	palette      string
}

func run(logger log.Logger, o options) error {
	if o.rom == "" {
		return fmt.Errorf("no rom file given, use -rom")
	}
	rom, err := utils.LoadFile(o.rom)
	if err != nil {
		return err
	}

	s, ok := palette.Schemes[o.palette]
	if !ok {
		return fmt.Errorf("unknown palette %q (%s)", o.palette, schemeNames())
	}

	var frame int
	opts := []gameboy.Opt{
		gameboy.WithLogger(logger),
		gameboy.WithPalette(s),
		gameboy.WithFrameHandler(func(f *ppu.Frame) {
			frame++
			fmt.Printf("frame %d: %016x\n", frame, f.Checksum())
		}),
	}
	if o.boot != "" {
		b, err := utils.LoadFile(o.boot)
		if err != nil {
			return err
		}
		opts = append(opts, gameboy.WithBootROM(b))
	}
	if o.trace {
		opts = append(opts, gameboy.WithTraceHandler(func(t cpu.Trace) {
			fmt.Println(t.String())
		}))
	}
	if o.debug {
		opts = append(opts, gameboy.Debug())
	}

	gb := gameboy.NewGameBoy(opts...)
	if err := gb.Load(rom); err != nil {
		return err
	}
	if o.state != "" {
		saves, err := emu.LoadSaves(o.state, gb.MMU.Cart.Title())
		if err != nil {
			return err
		}
		if len(saves) > 0 {
			if err := gb.LoadState(saves[0].Bytes()); err != nil {
				return fmt.Errorf("%s: %w", saves[0].Path, err)
			}
			logger.Infof("resumed from %s", saves[0].Path)
		}
	}

	if o.frames == 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := gb.Run(ctx); err != nil {
			return fmt.Errorf("%w\n%s", err, gb.CPU.Snapshot())
		}
	} else {
		for i := 0; i < o.frames; i++ {
			if _, err := gb.RunFrame(); err != nil {
				return fmt.Errorf("%w\n%s", err, gb.CPU.Snapshot())
			}
		}
	}
	logger.Infof("ran %d frames in %d cycles", gb.Frames(), gb.Cycles())

	if o.out != "" && gb.Frame() != nil {
		if err := utils.SaveImage(o.out, utils.ScaleImage(gb.Frame().Image(), o.scale)); err != nil {
			return err
		}
		logger.Infof("wrote %s", o.out)
	}
	if o.state != "" {
		b, err := gb.SaveState()
		if err != nil {
			return err
		}
		save, err := emu.NewSave(o.state, gb.MMU.Cart.Title(), b)
		if err != nil {
			return err
		}
		logger.Infof("wrote %s", save.Path)
	}

	return nil
}

func schemeNames() string {
	names := make([]string, 0, len(palette.Schemes))
	for name := range palette.Schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
