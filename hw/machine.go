// Package hw implements the memory subsystem of the machine: the bus decoding
// every processor access into ROM, RAM, video RAM, Map RAM and I/O registers,
// and the register file of the system board.
package hw

import (
	"errors"
	"fmt"

	"pc7300/emu/log"
	"pc7300/hw/fdc"
	"pc7300/hw/hwio"
	"pc7300/hw/mmu"
)

// Host is implemented by the processor core driving the bus.
type Host interface {
	// Supervisor reports whether the processor runs in supervisor mode.
	Supervisor() bool
	// BusError is called when an access has been denied. The fault
	// registers are up to date when it is called.
	BusError()
	// Reschedule asks the processor to end its current timeslice.
	Reschedule()
}

// Address space layout.
const (
	RAMBase    = 0x000000
	ExpRAMBase = 0x200000 // physical address of expansion RAM
	ZoneABase  = 0x400000
	ROMBase    = 0x800000
	ZoneBBase  = 0xC00000

	AddrMask = 0xFFFFFF

	MaxBaseRAM = 2 << 20
	MaxExpRAM  = 2 << 20

	ROMSize  = 32 << 10 // size of an unpopulated ROM socket
	VRAMSize = 32 << 10
)

var ErrBadConfig = errors.New("bad machine configuration")

// Config holds the static configuration of a Machine.
type Config struct {
	ROM         []byte // boot ROM contents, nil for an empty socket
	BaseRAMSize int    // in bytes, up to 2MB
	ExpRAMSize  int    // in bytes, up to 2MB, 0 if not installed
	Host        Host
}

func (cfg *Config) check() error {
	switch {
	case cfg.Host == nil:
		return fmt.Errorf("%w: no host", ErrBadConfig)
	case cfg.BaseRAMSize <= 0 || cfg.BaseRAMSize > MaxBaseRAM || cfg.BaseRAMSize%mmu.PageSize != 0:
		return fmt.Errorf("%w: base RAM size %d", ErrBadConfig, cfg.BaseRAMSize)
	case cfg.ExpRAMSize < 0 || cfg.ExpRAMSize > MaxExpRAM || cfg.ExpRAMSize%mmu.PageSize != 0:
		return fmt.Errorf("%w: expansion RAM size %d", ErrBadConfig, cfg.ExpRAMSize)
	case len(cfg.ROM) > ZoneBBase-ROMBase:
		return fmt.Errorf("%w: ROM too large (%d bytes)", ErrBadConfig, len(cfg.ROM))
	}
	return nil
}

// Machine holds the whole state of the memory subsystem.
type Machine struct {
	host Host
	mmu  mmu.Translator

	ROM     *hwio.Mem
	BaseRAM *hwio.Mem
	ExpRAM  *hwio.Mem
	VRAM    *hwio.Mem
	MapRAM  *hwio.Mem

	FDC *fdc.Controller

	zoneA *hwio.Table
	zoneB *hwio.Table

	overlay bool // ROM mapped over the whole RAM range
	pie     bool // parity interrupt enable

	gsr, bsr0, bsr1 uint16

	dma  DMA
	misc MiscControl
	disc DiscControl
}

// New creates a machine in its power-on state.
func New(cfg Config) (*Machine, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}

	m := &Machine{
		host:    cfg.Host,
		BaseRAM: hwio.NewMem("base ram", cfg.BaseRAMSize, 0),
		ExpRAM:  hwio.NewMem("exp ram", cfg.ExpRAMSize, 0),
		VRAM:    hwio.NewMem("vram", VRAMSize, 0),
		MapRAM:  hwio.NewMem("map ram", mmu.TableSize, 0),
		FDC:     fdc.New(cfg.Host),
	}
	m.ROM = newROM(cfg.ROM)

	pt, err := mmu.NewPageTable(m.MapRAM)
	if err != nil {
		return nil, err
	}
	m.mmu = mmu.Translator{Table: pt, Mode: cfg.Host}

	m.initZoneA()
	m.initZoneB()
	m.Reset()

	log.ModBus.InfoZ("machine created").
		Int("rom", int(m.ROM.Len())).
		Int("base ram", cfg.BaseRAMSize).
		Int("exp ram", cfg.ExpRAMSize).
		End()
	return m, nil
}

// newROM returns the ROM area for the given image, padded with all-ones up
// to the next power of two so that it can be mirrored.
func newROM(img []byte) *hwio.Mem {
	size := ROMSize
	for size < len(img) {
		size <<= 1
	}
	rom := hwio.NewMem("rom", size, 0xFF)
	copy(rom.Data, img)
	rom.ReadOnly = true
	return rom
}

// Reset puts the board back in its power-on state. Memory contents are kept.
func (m *Machine) Reset() {
	m.overlay = true
	m.pie = false
	m.gsr, m.bsr0, m.bsr1 = 0xFFFF, 0xFFFF, 0xFFFF
	m.dma = DMA{}
	m.misc = MiscControl{}
	m.disc = DiscControl{}
	m.FDC.Reset()
}

// Close releases the disc image loaded in the floppy controller.
func (m *Machine) Close() error {
	return m.FDC.Close()
}

// MMU returns the address translator.
func (m *Machine) MMU() *mmu.Translator { return &m.mmu }

// ROMOverlay reports whether the ROM is mapped over the RAM range.
func (m *Machine) ROMOverlay() bool { return m.overlay }

// Fault returns the raw contents of the general status and bus status
// registers.
func (m *Machine) Fault() (gsr, bsr0, bsr1 uint16) {
	return m.gsr, m.bsr0, m.bsr1
}
