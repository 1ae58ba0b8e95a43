// Package palette translates 2-bit colour indices into RGB colours
// through the DMG palette registers (BGP, OBP0, OBP1).
package palette

// Colour is a single RGB colour.
type Colour = [3]uint8

// Scheme is a set of 4 shades, from lightest to darkest, that
// palette registers select from.
type Scheme [4]Colour

var (
	// Greyscale is the default scheme.
	Greyscale = Scheme{
		{0xFF, 0xFF, 0xFF},
		{0xCC, 0xCC, 0xCC},
		{0x77, 0x77, 0x77},
		{0x00, 0x00, 0x00},
	}
	// Green attempts to emulate the colours of the first
	// DMG screen.
	Green = Scheme{
		{0x9B, 0xBC, 0x0F},
		{0x8B, 0xAC, 0x0F},
		{0x30, 0x62, 0x30},
		{0x0F, 0x38, 0x0F},
	}
)

// Schemes maps scheme names to schemes.
var Schemes = map[string]Scheme{
	"greyscale": Greyscale,
	"green":     Green,
}

// Palette represents a palette register. Each of the 4 colour
// indices is mapped to one of the shades of a Scheme.
//
//	Bit 7-6 - Shade for Colour Index 3
//	Bit 5-4 - Shade for Colour Index 2
//	Bit 3-2 - Shade for Colour Index 1
//	Bit 1-0 - Shade for Colour Index 0
type Palette struct {
	Colours [4]Colour
	raw     uint8
}

// ByteToPalette creates a new palette from a register value,
// picking shades from the given scheme.
func ByteToPalette(s Scheme, b byte) Palette {
	p := Palette{raw: b}
	for i := range p.Colours {
		p.Colours[i] = s[(b>>(i*2))&0x03]
	}
	return p
}

// ToByte returns the register value the palette was created from.
func (p Palette) ToByte() byte {
	return p.raw
}

// GetColour returns the colour of the given colour index.
func (p Palette) GetColour(index uint8) Colour {
	return p.Colours[index&0x03]
}
