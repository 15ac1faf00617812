package hw

import (
	"pc7300/hw/mmu"
	"pc7300/hw/snapshot"
)

// Snapshot returns a copy of the machine state. It has no side effects on
// the machine.
func (m *Machine) Snapshot() *snapshot.Machine {
	fs := m.FDC.State()
	s := &snapshot.Machine{
		Version:    snapshot.Version,
		ROMOverlay: m.overlay,
		PIE:        m.pie,
		GSR:        m.gsr,
		BSR0:       m.bsr0,
		BSR1:       m.bsr1,
		DMA:        snapshot.DMA(m.dma),
		Misc:       snapshot.Misc(m.misc),
		Disc:       snapshot.Disc(m.disc),
		FDC: snapshot.FDC{
			Loaded:          fs.Loaded,
			Writable:        fs.Writable,
			SectorSize:      fs.Geometry.SectorSize,
			SectorsPerTrack: fs.Geometry.SectorsPerTrack,
			Heads:           fs.Geometry.Heads,
			Tracks:          fs.Tracks,
			Track:           fs.Track,
			Head:            fs.Head,
			Sector:          fs.Sector,
			TrackReg:        fs.TrackReg,
			DataReg:         fs.DataReg,
			Status:          fs.Status,
			Command:         fs.LastCommand.String(),
			IRQ:             fs.IRQ,
			DRQ:             fs.DRQ,
		},
	}

	for page := range uint16(mmu.NumPages) {
		e := m.mmu.Table.Entry(page)
		if !e.Present() {
			continue
		}
		s.Pages = append(s.Pages, snapshot.Page{
			Logical:     page,
			Physical:    e.Page,
			Status:      uint8(e.Status),
			WriteEnable: e.WriteEnable,
		})
	}
	return s
}
