package emu

import (
	"errors"
	"fmt"

	"pc7300/hw"
)

var (
	ErrNoDisc         = errors.New("no disc in drive")
	ErrSeek           = errors.New("seek error")
	ErrRecordNotFound = errors.New("record not found")
	ErrLostData       = errors.New("lost data")
)

// Floppy controller registers, as seen from the processor.
const (
	fdcStatus  = hw.FDCBase
	fdcCommand = hw.FDCBase
	fdcTrack   = hw.FDCBase + 2
	fdcSector  = hw.FDCBase + 4
	fdcData    = hw.FDCBase + 6
)

// Floppy controller commands and status bits used by the sector reader.
const (
	cmdSeek       = 0x10
	cmdReadSector = 0x80
	flagMulti     = 0x10
	flagHead      = 0x02

	stNotReady = 0x80
	stRNF      = 0x10 // record not found, or seek error for seeks
	stLostData = 0x04
)

// ReadSector reads a sector from the disc in the floppy drive, or a track's
// worth of consecutive sectors when multi is set, the way the boot ROM does: by
// programming the controller registers through the bus and polling the data
// register.
func ReadSector(m *hw.Machine, track, head, sector int, multi bool) ([]byte, error) {
	m.Write16(fdcData, uint16(track))
	m.Write16(fdcCommand, cmdSeek)
	// Type I status: bit 2 is track zero, not lost data.
	if err := fdcError(m.Read16(fdcStatus)&^stLostData, ErrSeek); err != nil {
		return nil, fmt.Errorf("track %d: %w", track, err)
	}

	cmd := uint16(cmdReadSector)
	if multi {
		cmd |= flagMulti
	}
	if head != 0 {
		cmd |= flagHead
	}
	m.Write16(fdcSector, uint16(sector))
	m.Write16(fdcCommand, cmd)

	var buf []byte
	for m.FDC.DRQ() {
		buf = append(buf, uint8(m.Read16(fdcData)))
	}
	if err := fdcError(m.Read16(fdcStatus), ErrRecordNotFound); err != nil {
		return nil, fmt.Errorf("chs %d/%d/%d: %w", track, head, sector, err)
	}
	return buf, nil
}

func fdcError(status uint16, rnf error) error {
	switch {
	case status&stNotReady != 0:
		return ErrNoDisc
	case status&stRNF != 0:
		return rnf
	case status&stLostData != 0:
		return ErrLostData
	}
	return nil
}
