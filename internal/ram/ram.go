// Package ram provides the fixed size memory blocks the bus maps
// into the address space.
package ram

import "github.com/thelolagemann/gomeboy-core/internal/types"

// RAM represents a block of RAM mapped at a base address. Addresses
// past the end of the block wrap around to its start, which is how
// echo RAM mirrors work RAM.
type RAM struct {
	base uint16
	data []uint8
}

// NewRAM returns a new RAM of size bytes mapped at base.
func NewRAM(base uint16, size int) *RAM {
	return &RAM{
		base: base,
		data: make([]uint8, size),
	}
}

// Read returns the value at the given address.
func (r *RAM) Read(address uint16) uint8 {
	return r.data[r.offset(address)]
}

// Write writes the value to the given address.
func (r *RAM) Write(address uint16, value uint8) {
	r.data[r.offset(address)] = value
}

// Get returns the value at the given offset from the base address.
func (r *RAM) Get(offset uint16) uint8 {
	return r.data[int(offset)%len(r.data)]
}

// Size returns the size of the block in bytes.
func (r *RAM) Size() int {
	return len(r.data)
}

func (r *RAM) offset(address uint16) int {
	return int(address-r.base) % len(r.data)
}

var _ types.Stater = (*RAM)(nil)

// Load implements the types.Stater interface.
func (r *RAM) Load(s *types.State) {
	s.ReadData(r.data)
}

// Save implements the types.Stater interface.
func (r *RAM) Save(s *types.State) {
	s.WriteData(r.data)
}
