package palette

import "testing"

func TestByteToPalette(t *testing.T) {
	// 11 10 01 00 maps every index to its own shade
	p := ByteToPalette(Greyscale, 0xE4)
	for i := uint8(0); i < 4; i++ {
		if p.GetColour(i) != Greyscale[i] {
			t.Errorf("index %d: expected %v, got %v", i, Greyscale[i], p.GetColour(i))
		}
	}
	if p.ToByte() != 0xE4 {
		t.Errorf("expected 0xE4, got 0x%02X", p.ToByte())
	}

	// 00 00 00 11 maps index 0 to black and the rest to white
	p = ByteToPalette(Green, 0x03)
	if p.GetColour(0) != Green[3] {
		t.Errorf("expected %v, got %v", Green[3], p.GetColour(0))
	}
	for i := uint8(1); i < 4; i++ {
		if p.GetColour(i) != Green[0] {
			t.Errorf("index %d: expected %v, got %v", i, Green[0], p.GetColour(i))
		}
	}
}
