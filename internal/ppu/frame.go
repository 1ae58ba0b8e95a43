package ppu

import (
	"image"
	"image/color"

	"github.com/cespare/xxhash"
	"github.com/thelolagemann/gomeboy-core/internal/ppu/palette"
)

// Frame is a completed 160x144 picture. Once returned by PPU.Step
// the frame belongs to the caller; the PPU never writes to it again.
type Frame [ScreenHeight][ScreenWidth]palette.Colour

// fill sets every pixel of the frame to c.
func (f *Frame) fill(c palette.Colour) {
	for y := range f {
		for x := range f[y] {
			f[y][x] = c
		}
	}
}

// Bytes returns the frame as packed RGB triplets, row by row.
func (f *Frame) Bytes() []byte {
	b := make([]byte, 0, ScreenWidth*ScreenHeight*3)
	for y := range f {
		for x := range f[y] {
			b = append(b, f[y][x][:]...)
		}
	}
	return b
}

// Checksum returns the xxhash of the frame's pixels. Two runs of the
// same cartridge produce identical checksums frame for frame.
func (f *Frame) Checksum() uint64 {
	return xxhash.Sum64(f.Bytes())
}

// Image converts the frame to an image.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	for y := range f {
		for x := range f[y] {
			c := f[y][x]
			img.SetRGBA(x, y, color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xFF})
		}
	}
	return img
}
