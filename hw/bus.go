package hw

import (
	"pc7300/emu/log"
	"pc7300/hw/hwio"
	"pc7300/hw/mmu"
)

// Read performs a processor read of width w at addr. Denied accesses raise a
// bus error and return all-ones.
func (m *Machine) Read(addr uint32, w hwio.Width) uint32 {
	addr = m.decode(addr)
	if acc := m.mmu.CheckAccess(addr, false); acc != mmu.Allowed {
		m.fault(FaultStatus{Class: acc, Width: w, Addr: addr, PIE: m.pie})
		return w.Ones()
	}

	switch {
	case addr < ZoneABase:
		return m.readRAM(m.mmu.Translate(addr, false), w)
	case addr < ROMBase:
		return m.zoneA.Read(addr, w)
	case addr < ZoneBBase:
		v, ok := m.ROM.Read(m.ROM.Mirror(addr-ROMBase), w)
		if !ok {
			log.ModBus.WarnZ("read across end of rom").Addr("addr", addr).Stringer("width", w).End()
		}
		return v
	}
	return m.zoneB.Read(addr, w)
}

// Write performs a processor write of the low w bits of val at addr. Denied
// accesses raise a bus error and are discarded.
func (m *Machine) Write(addr uint32, w hwio.Width, val uint32) {
	addr = m.decode(addr)
	val = w.Truncate(val)
	if acc := m.mmu.CheckAccess(addr, true); acc != mmu.Allowed {
		m.fault(FaultStatus{Class: acc, Write: true, Width: w, Addr: addr, PIE: m.pie})
		return
	}

	switch {
	case addr < ZoneABase:
		m.writeRAM(m.mmu.Translate(addr, true), w, val)
	case addr < ROMBase:
		m.zoneA.Write(addr, w, val)
	case addr < ZoneBBase:
		log.ModBus.DebugZ("write to rom").Addr("addr", addr).Stringer("width", w).Hex32("val", val).End()
	default:
		m.zoneB.Write(addr, w, val)
	}
}

func (m *Machine) Read8(addr uint32) uint8   { return uint8(m.Read(addr, hwio.Width8)) }
func (m *Machine) Read16(addr uint32) uint16 { return uint16(m.Read(addr, hwio.Width16)) }
func (m *Machine) Read32(addr uint32) uint32 { return m.Read(addr, hwio.Width32) }

func (m *Machine) Write8(addr uint32, val uint8)   { m.Write(addr, hwio.Width8, uint32(val)) }
func (m *Machine) Write16(addr uint32, val uint16) { m.Write(addr, hwio.Width16, uint32(val)) }
func (m *Machine) Write32(addr uint32, val uint32) { m.Write(addr, hwio.Width32, val) }

// decode masks addr to the 24-bit bus and applies the ROM overlay.
func (m *Machine) decode(addr uint32) uint32 {
	addr &= AddrMask
	if m.overlay && addr < ZoneABase {
		addr |= ROMBase
	}
	return addr
}

// ram returns the memory area holding the physical address phys, and the
// offset of phys in it.
func (m *Machine) ram(phys uint32) (*hwio.Mem, uint32) {
	if phys < ExpRAMBase {
		return m.BaseRAM, phys
	}
	return m.ExpRAM, phys - ExpRAMBase
}

func (m *Machine) readRAM(phys uint32, w hwio.Width) uint32 {
	mem, off := m.ram(phys)
	v, ok := mem.Read(off, w)
	if !ok {
		log.ModBus.DebugZ("read beyond installed ram").
			String("area", mem.Name).
			Addr("phys", phys).
			Stringer("width", w).
			End()
	}
	return v
}

func (m *Machine) writeRAM(phys uint32, w hwio.Width, val uint32) {
	mem, off := m.ram(phys)
	if !mem.Write(off, w, val) {
		log.ModBus.DebugZ("write beyond installed ram").
			String("area", mem.Name).
			Addr("phys", phys).
			Stringer("width", w).
			Hex32("val", val).
			End()
	}
}
