package hw

import (
	"pc7300/emu/log"
	"pc7300/hw/hwio"
	"pc7300/hw/mmu"
)

// FaultStatus describes a denied bus access, as latched by the general
// status register (GSR) and the two bus status registers (BSR0, BSR1).
type FaultStatus struct {
	Class mmu.Access
	Write bool
	Width hwio.Width
	Addr  uint32
	PIE   bool // parity interrupt enable, reported in the GSR
}

// General status codes, for reads. Writes clear bit 14.
const (
	gsrPageFault  = 0xCBFF
	gsrUserIOE    = 0xDAFF
	gsrProtection = 0xDBFF

	gsrWrite = 0x4000
	gsrPIE   = 0x0400
)

// BSR0 high byte: access width and lane.
const (
	bsr0Word = 0x7C00
	bsr0Odd  = 0x7D00
	bsr0Even = 0x7E00
)

// pack returns the contents of the three fault registers.
func (f FaultStatus) pack() (gsr, bsr0, bsr1 uint16) {
	switch f.Class {
	case mmu.PageFault:
		gsr = gsrPageFault
	case mmu.UserAddressOutOfRange:
		gsr = gsrUserIOE
	default:
		gsr = gsrProtection
	}
	if f.Write {
		gsr &^= gsrWrite
	}
	if f.PIE {
		gsr |= gsrPIE
	}

	switch {
	case f.Width >= hwio.Width16:
		bsr0 = bsr0Word
	case f.Addr&1 != 0:
		bsr0 = bsr0Odd
	default:
		bsr0 = bsr0Even
	}
	bsr0 |= uint16(f.Addr>>16) & 0xFF
	bsr1 = uint16(f.Addr)
	return gsr, bsr0, bsr1
}

// fault latches f into the fault registers and signals a bus error to the
// host.
func (m *Machine) fault(f FaultStatus) {
	m.gsr, m.bsr0, m.bsr1 = f.pack()

	log.ModBus.DebugZ("bus error").
		Stringer("class", f.Class).
		Bool("write", f.Write).
		Stringer("width", f.Width).
		Addr("addr", f.Addr).
		Hex16("gsr", m.gsr).
		Hex16("bsr0", m.bsr0).
		End()

	m.host.BusError()
}
