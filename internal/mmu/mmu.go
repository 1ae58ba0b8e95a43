// Package mmu provides a memory management unit for the Game Boy. The
// MMU owns every memory region of the address space, and forwards
// accesses to hardware registers to the component that implements
// them.
package mmu

import (
	"errors"

	"github.com/thelolagemann/gomeboy-core/internal/boot"
	"github.com/thelolagemann/gomeboy-core/internal/cartridge"
	"github.com/thelolagemann/gomeboy-core/internal/interrupts"
	"github.com/thelolagemann/gomeboy-core/internal/ppu"
	"github.com/thelolagemann/gomeboy-core/internal/ram"
	"github.com/thelolagemann/gomeboy-core/internal/types"
	"github.com/thelolagemann/gomeboy-core/pkg/log"
	"github.com/thelolagemann/gomeboy-core/pkg/utils"
)

var (
	// ErrNotReady is returned (or, for direct memory access, panicked
	// with) when the bus is used before a cartridge is loaded.
	ErrNotReady = errors.New("mmu: no cartridge loaded")
	// ErrUnmappedAddress is logged when an address without a backing
	// region is accessed. Reads return 0 and writes are discarded.
	ErrUnmappedAddress = errors.New("mmu: unmapped address")
)

// handler holds the handlers for a single memory address.
type handler struct {
	Read  func(address uint16) uint8
	Write func(address uint16, value uint8)
}

// MMU is the memory management unit for the Game Boy. It handles all
// memory reads and writes to the Game Boy's 64kB of memory.
//
// The PPU renders from the MMU's VRAM and OAM through the
// ppu.VideoMemory interface, and is told about every write to them so
// its tile cache and sprite table never go stale.
type MMU struct {
	// 64kB address space
	raw [65536]*handler

	// 0x0000 - 0x00FF - BOOT ROM (256B)
	bootROM  *boot.ROM
	bootDone bool

	// 0x0000 - 0x7FFF - ROM (32kB)
	// 0xA000 - 0xBFFF - External RAM (8kB)
	Cart *cartridge.Cartridge

	// 0x8000 - 0x9FFF - Video RAM (8kB)
	vRAM *ram.RAM

	// 0xC000 - 0xDFFF - Work RAM (8kB)
	// 0xE000 - 0xFDFF - Echo RAM (7.5kB)
	wRAM *ram.RAM

	// 0xFE00 - 0xFE9F - Sprite Attribute Table (160B)
	oam *ram.RAM

	// 0xFF80 - 0xFFFE - Zero Page RAM (127B)
	zRAM *ram.RAM

	// 0xFF40 - 0xFF4B - LCD registers
	PPU *ppu.PPU

	// 0xFF0F, 0xFFFF - interrupt flag and enable registers
	irq *interrupts.Service

	Log log.Logger
}

// NewMMU returns a new MMU, along with the PPU it owns. A cartridge
// must be loaded before the CPU can execute against it.
func NewMMU(irq *interrupts.Service, logger log.Logger) *MMU {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	m := &MMU{
		vRAM: ram.NewRAM(types.VRAMStart, 0x2000),
		wRAM: ram.NewRAM(types.WRAMStart, 0x2000),
		oam:  ram.NewRAM(types.OAMStart, 0xA0),
		zRAM: ram.NewRAM(types.HRAMStart, 0x7F),
		irq:  irq,
		Log:  logger,
	}
	m.PPU = ppu.New(m, irq, log.WithComponent(logger, "ppu"))

	m.init()

	return m
}

func (m *MMU) init() {
	addresses := []handler{
		{Read: m.readCart, Write: m.writeCart},
		{Read: m.vRAM.Read, Write: m.writeVRAM},
		{Read: m.wRAM.Read, Write: m.wRAM.Write},
		{Read: m.oam.Read, Write: m.writeOAM},
		{Read: m.readUnmapped, Write: m.writeUnmapped},
		{Read: m.readIO, Write: m.writeIO},
		{Read: m.zRAM.Read, Write: m.zRAM.Write},
		{Read: m.irq.Read, Write: m.irq.Write},
	}

	// 0x0000 - 0x7FFF - ROM (32kB)
	// 0xA000 - 0xBFFF - external RAM (8kB)
	for i := 0x0000; i < 0x8000; i++ {
		m.raw[i] = &addresses[0]
	}
	for i := 0xA000; i < 0xC000; i++ {
		m.raw[i] = &addresses[0]
	}

	// 0x8000 - 0x9FFF - VRAM (8kB)
	for i := 0x8000; i < 0xA000; i++ {
		m.raw[i] = &addresses[1]
	}

	// 0xC000 - 0xFDFF - internal RAM (8kB) + echo RAM (7.5kB)
	for i := 0xC000; i < 0xFE00; i++ {
		m.raw[i] = &addresses[2]
	}

	// 0xFE00 - 0xFE9F - sprite attribute table (OAM) (160B)
	for i := 0xFE00; i < 0xFEA0; i++ {
		m.raw[i] = &addresses[3]
	}

	// 0xFEA0 - 0xFEFF - unusable memory (96B)
	for i := 0xFEA0; i < 0xFF00; i++ {
		m.raw[i] = &addresses[4]
	}

	// 0xFF00 - 0xFF7F - I/O (128B)
	for i := 0xFF00; i < 0xFF80; i++ {
		m.raw[i] = &addresses[5]
	}

	// 0xFF80 - 0xFFFE - Zero Page RAM (127B)
	for i := 0xFF80; i < 0xFFFF; i++ {
		m.raw[i] = &addresses[6]
	}

	// 0xFFFF - interrupt enable register
	m.raw[types.IE] = &addresses[7]
}

// LoadCartridge inserts the cartridge, making the bus ready.
func (m *MMU) LoadCartridge(cart *cartridge.Cartridge) {
	m.Cart = cart
}

// SetBootROM maps the boot ROM over 0x0000 - 0x00FF until the CPU
// reaches the cartridge entry point. A nil ROM removes the overlay.
func (m *MMU) SetBootROM(rom *boot.ROM) {
	m.bootROM = rom
	m.bootDone = rom == nil
}

// BootActive reports whether reads from 0x0000 - 0x00FF are served
// by the boot ROM.
func (m *MMU) BootActive() bool {
	return m.bootROM != nil && !m.bootDone
}

// ObservePC is called by the CPU whenever the program counter moves.
// Reaching the cartridge entry point unmaps the boot ROM for good.
func (m *MMU) ObservePC(pc uint16) {
	if pc == types.EntryPoint && m.BootActive() {
		m.bootDone = true
		m.Log.Infof("boot ROM finished, handing over to cartridge")
	}
}

// Ready returns ErrNotReady until a cartridge is loaded.
func (m *MMU) Ready() error {
	if m.Cart == nil {
		return ErrNotReady
	}
	return nil
}

// Read returns the value at the given address. It handles all the memory
// regions, mirroring, I/O, etc.
func (m *MMU) Read(address uint16) uint8 {
	return m.raw[address].Read(address)
}

// Write writes the value to the given address.
func (m *MMU) Write(address uint16, value uint8) {
	m.raw[address].Write(address, value)
}

// Read16 returns the little endian 16-bit value at the given address.
func (m *MMU) Read16(address uint16) uint16 {
	low := m.Read(address)
	return utils.JoinUint16(m.Read(address+1), low)
}

// Write16 writes value to the given address in little endian order.
func (m *MMU) Write16(address uint16, value uint16) {
	high, low := utils.SplitUint16(value)
	m.Write(address, low)
	m.Write(address+1, high)
}

// VRAM implements ppu.VideoMemory.
func (m *MMU) VRAM(offset uint16) uint8 {
	return m.vRAM.Get(offset)
}

// OAM implements ppu.VideoMemory.
func (m *MMU) OAM(offset uint8) uint8 {
	return m.oam.Get(uint16(offset))
}

func (m *MMU) readCart(address uint16) uint8 {
	// handle the boot ROM (if enabled)
	if address <= types.BootEnd && m.BootActive() {
		return m.bootROM.Read(address)
	}
	if m.Cart == nil {
		panic(ErrNotReady)
	}
	return m.Cart.Read(address)
}

func (m *MMU) writeCart(address uint16, value uint8) {
	if m.Cart == nil {
		panic(ErrNotReady)
	}
	m.Cart.Write(address, value)
}

func (m *MMU) writeVRAM(address uint16, value uint8) {
	m.vRAM.Write(address, value)
	m.PPU.WriteVRAM(address-types.VRAMStart, value)
}

func (m *MMU) writeOAM(address uint16, value uint8) {
	m.oam.Write(address, value)
	m.PPU.WriteOAM(uint8(address-types.OAMStart), value)
}

func (m *MMU) readUnmapped(address uint16) uint8 {
	m.Log.Debugf("%v: read from 0x%04X", ErrUnmappedAddress, address)
	return 0
}

func (m *MMU) writeUnmapped(address uint16, value uint8) {
	m.Log.Debugf("%v: write 0x%02X to 0x%04X", ErrUnmappedAddress, value, address)
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == types.IF:
		return m.irq.Read(address)
	case address >= types.LCDC && address <= types.WX:
		return m.PPU.Read(address)
	}
	return m.readUnmapped(address)
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == types.IF:
		m.irq.Write(address, value)
	case address == types.DMA:
		m.PPU.Write(address, value)
		m.dma(value)
	case address >= types.LCDC && address <= types.WX:
		m.PPU.Write(address, value)
	case address == types.BDIS:
		// any non-zero write unmaps the boot ROM
		if value != 0 && m.BootActive() {
			m.bootDone = true
			m.Log.Infof("boot ROM disabled")
		}
	default:
		m.writeUnmapped(address, value)
	}
}

// dma copies 160 bytes from page<<8 into OAM. The copy is performed
// at once rather than over 160 M-cycles.
func (m *MMU) dma(page uint8) {
	source := uint16(page) << 8
	for i := uint16(0); i < 0xA0; i++ {
		m.writeOAM(types.OAMStart+i, m.Read(source+i))
	}
}

var _ types.Stater = (*MMU)(nil)

// Load implements the types.Stater interface. The PPU is restored
// after memory, so it can rebuild its caches from it.
//
// The values are loaded in the following order:
//   - VRAM, WRAM, OAM, HRAM (data)
//   - bootDone (bool)
//   - external RAM (data)
//   - PPU
func (m *MMU) Load(s *types.State) {
	m.vRAM.Load(s)
	m.wRAM.Load(s)
	m.oam.Load(s)
	m.zRAM.Load(s)
	m.bootDone = s.ReadBool()
	if m.Cart != nil {
		m.Cart.Load(s)
	}
	m.PPU.Load(s)
}

// Save implements the types.Stater interface.
func (m *MMU) Save(s *types.State) {
	m.vRAM.Save(s)
	m.wRAM.Save(s)
	m.oam.Save(s)
	m.zRAM.Save(s)
	s.WriteBool(m.bootDone)
	if m.Cart != nil {
		m.Cart.Save(s)
	}
	m.PPU.Save(s)
}
