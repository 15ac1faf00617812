package fdc

import (
	"errors"
	"io"

	"pc7300/emu/log"
	"pc7300/hw/hwio"
)

// Read Address returns track, head, sector, size code and two CRC bytes.
const readAddressLen = 6

// ReadReg reads the register at the 2-bit offset reg.
func (c *Controller) ReadReg(reg uint8) uint8 {
	c.resched.Reschedule()

	switch reg & 3 {
	case RegStatus:
		c.irq = false
		return c.statusValue()
	case RegTrack:
		return c.trackReg
	case RegSector:
		return c.sector
	default:
		return c.readData()
	}
}

// WriteReg writes val into the register at the 2-bit offset reg.
func (c *Controller) WriteReg(reg uint8, val uint8) {
	c.resched.Reschedule()

	switch reg & 3 {
	case RegCommand:
		c.command(val)
	case RegTrack:
		c.track = int(val)
		c.trackReg = val
	case RegSector:
		c.sector = val
	default:
		c.writeData(val)
	}
}

// statusValue packs the status register. Bits 0 and 1 follow the transfer
// cursor, so that the register reports busy as long as the host has not
// drained (or filled) the buffer.
func (c *Controller) statusValue() uint8 {
	s := c.status
	drq := c.DRQ()
	s.DRQ = c.drqCapable && drq
	v := s.pack(c.drqCapable)
	if drq {
		v |= statusNotReady | statusBusy
	}
	return v
}

// readData returns the next byte of a read transfer. During write and format
// transfers the buffer is not drained and the data register is returned.
func (c *Controller) readData() uint8 {
	if c.pos >= c.length || c.writePos >= 0 || c.formatting {
		return c.dataReg
	}
	if c.pos == c.length-1 {
		c.irq = true
	}
	b := c.buf[c.pos]
	c.pos++
	return b
}

func (c *Controller) writeData(val uint8) {
	c.dataReg = val
	if c.pos >= c.length || (c.writePos < 0 && !c.formatting) {
		return
	}
	if !c.formatting {
		c.buf[c.pos] = val
	}
	c.pos++
	if c.pos < c.length {
		return
	}

	if !c.formatting {
		c.flush()
	}
	c.irq = true
	c.writePos = -1
	c.formatting = false
}

// flush writes the transfer buffer to the image at the pending offset.
func (c *Controller) flush() {
	data := c.buf[:c.length]
	if _, err := c.img.WriteAt(data, c.writePos); err != nil {
		log.ModFDC.ErrorZ("disc write failed").
			Int("off", int(c.writePos)).
			Int("len", len(data)).
			Error("err", err).
			End()
		return
	}
	if s, ok := c.img.(interface{ Sync() error }); ok {
		if err := s.Sync(); err != nil {
			log.ModFDC.ErrorZ("disc sync failed").Error("err", err).End()
		}
	}
}

func (c *Controller) command(val uint8) {
	cmd := decodeCommand(val)
	c.lastCmd = cmd
	c.irq = false

	log.ModFDC.DebugZ("command").
		Stringer("cmd", cmd).
		Hex8("val", val).
		Int("track", c.track).
		Hex8("sector", c.sector).
		End()

	if c.img == nil {
		c.status = Status{NotReady: true}
		c.irq = true
		return
	}

	if cmd.seek() {
		c.seekCommand(cmd)
		return
	}

	c.drqCapable = true
	if cmd.writes() && !c.writable {
		c.status = Status{WriteProtect: true}
		c.irq = true
		return
	}
	if cmd != ForceInterrupt {
		c.head = int(hwio.GetBiti8(val, flagHeadSelect))
	}

	switch cmd {
	case ReadAddress:
		c.readAddress()
	case ReadSector, ReadSectorMulti:
		c.readSector(cmd.multi())
	case WriteSector, WriteSectorMulti:
		c.writeSector(cmd.multi())
	case ReadTrack:
		c.status = Status{RecordNotFound: true}
		c.irq = true
	case FormatTrack:
		c.abortTransfer()
		c.length = formatTrackLen
		c.formatting = true
		c.status = Status{}
	case ForceInterrupt:
		c.abortTransfer()
		c.drqCapable = false
		c.status = Status{
			HeadLoaded:   true,
			WriteProtect: !c.writable,
			TrackZero:    c.track == 0,
		}
		if hwio.GetBit8(val, flagImmIRQ) {
			c.irq = true
		}
	}
}

func (c *Controller) seekCommand(cmd Command) {
	var seekErr bool

	switch cmd {
	case Restore:
		c.track = 0
		c.trackReg = 0
	case Seek:
		if int(c.dataReg) < c.tracks {
			c.track = int(c.dataReg)
			c.trackReg = c.dataReg
		} else {
			seekErr = true
		}
	default:
		switch cmd {
		case StepIn, StepInUpdate:
			c.stepDir = 1
		case StepOut, StepOutUpdate:
			c.stepDir = -1
		}
		c.track += c.stepDir
		if c.track < 0 {
			c.track = 0
		}
		if c.track >= c.tracks {
			c.track = c.tracks - 1
			seekErr = true
		}
		if cmd.updatesTrackReg() {
			c.trackReg = uint8(c.track)
		}
	}

	c.abortTransfer()
	c.drqCapable = false
	c.status = Status{
		HeadLoaded:   true,
		SeekError:    seekErr,
		TrackZero:    c.track == 0,
		WriteProtect: !c.writable,
	}
	c.irq = true
}

func sizeCode(secsz int) uint8 {
	switch secsz {
	case 128:
		return 0
	case 256:
		return 1
	case 512:
		return 2
	case 1024:
		return 3
	}
	return 0xFF
}

func (c *Controller) readAddress() {
	c.abortTransfer()
	copy(c.buf, []byte{
		uint8(c.track),
		uint8(c.head),
		c.sector,
		sizeCode(c.geom.SectorSize),
		0, 0, // CRC
	})
	c.length = readAddressLen
	c.status = Status{}
}

// validCHS reports whether the current track, head and sector registers
// address a sector of the loaded disc.
func (c *Controller) validCHS() bool {
	g := c.geom
	ok := c.track < c.tracks && c.head < g.Heads &&
		c.sector >= 1 && int(c.sector) <= g.SectorsPerTrack
	if !ok {
		log.ModFDC.WarnZ("sector out of range").
			Int("track", c.track).
			Int("head", c.head).
			Hex8("sector", c.sector).
			Stringer("geom", g).
			Int("tracks", c.tracks).
			End()
	}
	return ok
}

// offset returns the image byte offset of the sector addressed by the
// current track, head and sector registers.
func (c *Controller) offset() int64 {
	g := c.geom
	lba := (c.track*g.Heads+c.head)*g.SectorsPerTrack + int(c.sector) - 1
	return int64(lba) * int64(g.SectorSize)
}

func (c *Controller) notFound() {
	c.abortTransfer()
	c.status = Status{RecordNotFound: true}
	c.irq = true
}

func (c *Controller) readSector(multi bool) {
	if !c.validCHS() {
		c.notFound()
		return
	}

	c.abortTransfer()
	n := 1
	if multi {
		n = c.geom.SectorsPerTrack
	}
	want := n * c.geom.SectorSize
	off := c.offset()

	got, err := c.img.ReadAt(c.buf[:want], off)
	if err != nil && !(errors.Is(err, io.EOF) && got > 0) {
		log.ModFDC.ErrorZ("disc read failed").
			Int("off", int(off)).
			Int("len", want).
			Error("err", err).
			End()
		c.notFound()
		return
	}
	c.length = got
	c.status = Status{}
}

func (c *Controller) writeSector(multi bool) {
	if !c.validCHS() {
		c.notFound()
		return
	}

	c.abortTransfer()
	n := 1
	if multi {
		n = c.geom.SectorsPerTrack
	}
	off := c.offset()
	c.writePos = off
	c.length = int(min(int64(n*c.geom.SectorSize), c.img.Size()-off))
	c.status = Status{}
}
