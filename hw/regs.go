package hw

import (
	"pc7300/emu/log"
	"pc7300/hw/hwio"
)

// DMA holds the state of the DMA engine registers.
type DMA struct {
	Count   uint16 // transfer count (14 bits)
	Address uint32 // logical transfer address, bits 1-21
	Reading bool   // IDMARW: transfer from peripheral to memory
	Enabled bool   // DMAEN
}

// MiscControl is the write-only miscellaneous control register.
type MiscControl struct {
	DMAReading bool  // bit 14
	LEDs       uint8 // diagnostic LEDs, bit set when lit (the register is active low)
}

func (mc *MiscControl) unpack(val uint16) {
	mc.DMAReading = hwio.GetBit16(val, 14)
	mc.LEDs = uint8((^val & 0xF00) >> 8)
}

// DiscControl is the write-only disc control register.
type DiscControl struct {
	FDCEnable   bool  // bit 7, low holds the floppy controller in reset
	FloppySel   bool  // bit 6, drive 0 select
	MotorOn     bool  // bit 5
	HDCEnable   bool  // bit 4, low holds the hard disc controller in reset
	HardDiscSel bool  // bit 3, drive 0 select
	Head        uint8 // bits 0-2, hard disc head select
}

func (dc *DiscControl) unpack(val uint16) {
	dc.FDCEnable = hwio.GetBit16(val, 7)
	dc.FloppySel = hwio.GetBit16(val, 6)
	dc.MotorOn = hwio.GetBit16(val, 5)
	dc.HDCEnable = hwio.GetBit16(val, 4)
	dc.HardDiscSel = hwio.GetBit16(val, 3)
	dc.Head = uint8(val & 0x7)
}

// Line printer status: no parity error, no printer error, no pending
// interrupt. The floppy interrupt line is reported in bit 3.
const (
	lpStatusIdle   = 0x00120012
	lpStatusFDCIRQ = 0x00080008
)

// dup returns v in both halves of a 32-bit bus value.
func dup(v uint16) uint32 {
	return uint32(v)<<16 | uint32(v)
}

func stub(name string) *hwio.Device {
	return &hwio.Device{Name: name}
}

// zoneARegs returns the 16 devices of I/O zone A, indexed by address bits
// 16-19. Entries 0 and 2 (Map RAM and video RAM) are nil.
func (m *Machine) zoneARegs() [16]*hwio.Device {
	return [16]*hwio.Device{
		0x1: {
			Name:    "GSR",
			Widths:  hwio.Width8 | hwio.Width16,
			ReadCb:  func(uint32, hwio.Width) uint32 { return dup(m.gsr) },
			WriteCb: m.writeGSR,
		},
		0x3: {
			Name:   "BSR0",
			Widths: hwio.Width16,
			ReadCb: func(uint32, hwio.Width) uint32 { return dup(m.bsr0) },
		},
		0x4: {
			Name:   "BSR1",
			Widths: hwio.Width16,
			ReadCb: func(uint32, hwio.Width) uint32 { return dup(m.bsr1) },
		},
		0x5: stub("PHONE STATUS"),
		0x6: {
			Name:    "DMACOUNT",
			Widths:  hwio.Width16,
			ReadCb:  func(uint32, hwio.Width) uint32 { return uint32(m.dma.Count&0x3FFF) | 0xC000 },
			WriteCb: m.writeDMACount,
		},
		0x7: {
			Name:   "LPSTATUS",
			ReadCb: m.readLPStatus,
		},
		0x8: stub("RTC"),
		0x9: stub("PHONE"),
		0xA: {
			Name:   "MISCCON",
			Widths: hwio.Width16,
			Flags:  hwio.WriteOnlyFlag,
			WriteCb: func(_ uint32, _ hwio.Width, val uint32) {
				m.misc.unpack(uint16(val))
				log.ModBus.DebugZ("write MISCCON").
					Hex16("val", uint16(val)).
					Hex8("leds", m.misc.LEDs).
					End()
			},
		},
		0xB: stub("TM/DIALWR"),
		0xC: {
			Name:  "CLRSTATUS",
			Flags: hwio.WriteOnlyFlag,
			WriteCb: func(uint32, hwio.Width, uint32) {
				m.gsr, m.bsr0, m.bsr1 = 0xFFFF, 0xFFFF, 0xFFFF
			},
		},
		0xD: {
			Name:    "DMAADDR",
			WriteCb: m.writeDMAAddr,
		},
		0xE: {
			Name:    "DISKCON",
			Widths:  hwio.Width16,
			WriteCb: m.writeDiscControl,
		},
		0xF: stub("LPDATA"),
	}
}

func (m *Machine) initZoneA() {
	m.zoneA = hwio.NewTable("zone A")
	regs := m.zoneARegs()

	// Zone A is decoded by bits 16-19 only, and repeats every 1MB.
	for base := uint32(ZoneABase); base < ROMBase; base += 0x100000 {
		for sub := range uint32(16) {
			begin := base | sub<<16
			end := begin + 0xFFFF
			switch sub {
			case 0x0:
				m.zoneA.MapMem(begin, end, m.MapRAM)
			case 0x2:
				m.zoneA.MapMem(begin, end, m.VRAM)
			default:
				m.zoneA.MapDevice(begin, end, regs[sub])
			}
		}
	}
}

func (m *Machine) writeGSR(addr uint32, w hwio.Width, val uint32) {
	switch w {
	case hwio.Width16:
		m.gsr = uint16(val)
	case hwio.Width8:
		if addr&1 != 0 {
			m.gsr = m.gsr&0xFF00 | uint16(val)
		} else {
			m.gsr = m.gsr&0x00FF | uint16(val)<<8
		}
	}
}

func (m *Machine) readLPStatus(uint32, hwio.Width) uint32 {
	v := uint32(lpStatusIdle)
	if m.FDC.IRQ() {
		v |= lpStatusFDCIRQ
	}
	return v
}

func (m *Machine) writeDMACount(_ uint32, _ hwio.Width, val uint32) {
	m.dma.Count = uint16(val & 0x3FFF)
	m.dma.Reading = val&0x4000 != 0
	m.dma.Enabled = val&0x8000 != 0

	// Dummy transfer cycle, performed when the count is loaded for a
	// memory to peripheral transfer.
	if !m.dma.Reading {
		phys := m.mmu.Translate(m.dma.Address, true)
		if !m.BaseRAM.Write(phys, hwio.Width32, 0xDEAD) {
			log.ModBus.WarnZ("dma dummy cycle outside base ram").
				Addr("addr", m.dma.Address).
				Addr("phys", phys).
				End()
		}
	}
	m.dma.Count++
}

// The DMA address is written 8 bits at a time, through the address lines.
func (m *Machine) writeDMAAddr(addr uint32, _ hwio.Width, _ uint32) {
	if addr&0x4000 != 0 {
		m.dma.Address = m.dma.Address&0x1FE | (addr&0x3FFE)<<8
	} else {
		m.dma.Address = m.dma.Address&0x3FFE00 | addr&0x1FE
	}
}

func (m *Machine) writeDiscControl(_ uint32, _ hwio.Width, val uint32) {
	m.disc.unpack(uint16(val))
	if !m.disc.FDCEnable {
		m.FDC.Reset()
	}
}

// DMAState returns the DMA registers.
func (m *Machine) DMAState() DMA { return m.dma }

// Misc returns the last value written to the miscellaneous control register.
func (m *Machine) Misc() MiscControl { return m.misc }

// DiscCtrl returns the last value written to the disc control register.
func (m *Machine) DiscCtrl() DiscControl { return m.disc }
