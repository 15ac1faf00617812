package fdc

import "pc7300/hw/hwio"

// Status holds the condition flags reported by the status register. Bits
// 1, 2 and 4 of the register carry different flags depending on whether the
// last command was a Type I (seek) command or a data transfer command.
type Status struct {
	NotReady     bool // S7
	WriteProtect bool // S6

	// Type I
	HeadLoaded bool // S5
	SeekError  bool // S4
	TrackZero  bool // S2

	// Type II and III
	RecordNotFound bool // S4
	LostData       bool // S2
	DRQ            bool // S1
}

const (
	statusBusy     = 0x01
	statusNotReady = 0x80
)

func (s Status) pack(transfer bool) uint8 {
	var v uint8
	hwio.PutBit8(&v, 7, s.NotReady)
	hwio.PutBit8(&v, 6, s.WriteProtect)
	if transfer {
		hwio.PutBit8(&v, 4, s.RecordNotFound)
		hwio.PutBit8(&v, 2, s.LostData)
		hwio.PutBit8(&v, 1, s.DRQ)
	} else {
		hwio.PutBit8(&v, 5, s.HeadLoaded)
		hwio.PutBit8(&v, 4, s.SeekError)
		hwio.PutBit8(&v, 2, s.TrackZero)
	}
	return v
}
