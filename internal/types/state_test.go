package types

import (
	"bytes"
	"errors"
	"testing"
)

func TestState(t *testing.T) {
	s := NewState()
	s.Write8(0xAB)
	s.Write16(0xBEEF)
	s.Write32(0xDEADC0DE)
	s.Write64(70224 * 60)
	s.WriteBool(true)
	s.WriteData([]byte{1, 2, 3})

	r := StateFromBytes(s.Bytes())
	if v := r.Read8(); v != 0xAB {
		t.Errorf("expected 0xAB, got 0x%02X", v)
	}
	if v := r.Read16(); v != 0xBEEF {
		t.Errorf("expected 0xBEEF, got 0x%04X", v)
	}
	if v := r.Read32(); v != 0xDEADC0DE {
		t.Errorf("expected 0xDEADC0DE, got 0x%08X", v)
	}
	if v := r.Read64(); v != 70224*60 {
		t.Errorf("expected %d, got %d", 70224*60, v)
	}
	if !r.ReadBool() {
		t.Errorf("expected true, got false")
	}
	p := make([]byte, 3)
	r.ReadData(p)
	if !bytes.Equal(p, []byte{1, 2, 3}) {
		t.Errorf("expected 01 02 03, got % X", p)
	}
	if r.Err() != nil {
		t.Errorf("unexpected error: %v", r.Err())
	}

	// reading past the end is reported, not panicked
	r.Read16()
	if !errors.Is(r.Err(), ErrShortState) {
		t.Errorf("expected ErrShortState, got %v", r.Err())
	}
}
