package hw

import (
	"fmt"

	"pc7300/emu/log"
	"pc7300/hw/hwio"
)

const (
	numSlots = 8
	slotSize = 0x40000
	ctlBase  = 0xE00000

	// FDCBase is the address of the floppy controller registers. Register n
	// is at FDCBase+2n.
	FDCBase = 0xE10000
)

func (m *Machine) expansionSlot(n int) *hwio.Device {
	return &hwio.Device{
		Name: fmt.Sprintf("slot %d", n),
		ReadCb: func(addr uint32, w hwio.Width) uint32 {
			log.ModBus.InfoZ("read from expansion card space").
				Int("slot", n).
				Addr("addr", addr).
				Stringer("width", w).
				End()
			return w.Ones()
		},
		WriteCb: func(addr uint32, w hwio.Width, val uint32) {
			log.ModBus.InfoZ("write to expansion card space").
				Int("slot", n).
				Addr("addr", addr).
				Stringer("width", w).
				Hex32("val", val).
				End()
		},
	}
}

// generalControl returns the 8 registers of the general control block,
// indexed by address bits 12-14. The processor can only write them.
func (m *Machine) generalControl() [8]*hwio.Device {
	wo := func(name string, cb func(uint32, hwio.Width, uint32)) *hwio.Device {
		return &hwio.Device{
			Name:    name,
			Widths:  hwio.Width16,
			Flags:   hwio.WriteOnlyFlag,
			WriteCb: cb,
		}
	}
	return [8]*hwio.Device{
		wo("EE", nil),
		wo("PIE", func(_ uint32, _ hwio.Width, val uint32) {
			m.pie = hwio.GetBit16(uint16(val), 15)
		}),
		wo("BP", nil),
		wo("ROMLMAP", func(_ uint32, _ hwio.Width, val uint32) {
			m.overlay = !hwio.GetBit16(uint16(val), 15)
			log.ModBus.DebugZ("write ROMLMAP").Bool("overlay", m.overlay).End()
		}),
		wo("L1 MODEM", nil),
		wo("L2 MODEM", nil),
		wo("D/N CONNECT", nil),
		stub("REVERSE VIDEO"),
	}
}

func (m *Machine) initZoneB() {
	m.zoneB = hwio.NewTable("zone B")

	for i := range numSlots {
		begin := uint32(ZoneBBase + i*slotSize)
		m.zoneB.MapDevice(begin, begin+slotSize-1, m.expansionSlot(i))
	}

	fdcRegs := &hwio.Device{
		Name:   "FDC",
		Widths: hwio.Width16,
		ReadCb: func(addr uint32, _ hwio.Width) uint32 {
			return uint32(m.FDC.ReadReg(uint8(addr>>1) & 3))
		},
		WriteCb: func(addr uint32, _ hwio.Width, val uint32) {
			m.FDC.WriteReg(uint8(addr>>1)&3, uint8(val))
		},
	}
	gc := m.generalControl()
	regs := [8]*hwio.Device{
		0: stub("HDC"),
		1: fdcRegs,
		2: stub("MCR2"),
		3: stub("RTC DATA"),
		5: stub("8274"),
		6: stub("CONTROL"),
		7: stub("6850"),
	}

	// Registers are decoded by bits 16-18 and repeat every 512KB.
	for base := uint32(ctlBase); base <= AddrMask; base += 0x80000 {
		for sub := range uint32(8) {
			begin := base | sub<<16
			if sub != 4 {
				m.zoneB.MapDevice(begin, begin+0xFFFF, regs[sub])
				continue
			}
			for off := uint32(0); off < 0x10000; off += 0x1000 {
				dev := gc[(off>>12)&7]
				m.zoneB.MapDevice(begin+off, begin+off+0xFFF, dev)
			}
		}
	}
}
