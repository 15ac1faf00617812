// Package fdc emulates a WD2797 floppy disc controller operating on a disc
// image. Commands execute instantly: a transfer is complete as soon as the
// last byte has gone through the data register.
package fdc

import (
	"errors"
	"fmt"
	"io"

	"pc7300/emu/log"
)

var (
	ErrBadGeometry = errors.New("bad disc geometry")
	ErrNoMemory    = errors.New("track buffer too large")
)

// MaxTrackBuffer is the largest track (sectors per track × sector size) the
// controller accepts.
const MaxTrackBuffer = 1 << 20

// Number of bytes the host sends for a Format Track command.
const formatTrackLen = 7170

// Register offsets.
const (
	RegStatus  = 0 // read
	RegCommand = 0 // write
	RegTrack   = 1
	RegSector  = 2
	RegData    = 3
)

// Image is a random-access disc image.
type Image interface {
	io.ReaderAt
	io.WriterAt
	Size() int64
}

// Geometry describes the layout of a disc image.
type Geometry struct {
	SectorSize      int
	SectorsPerTrack int
	Heads           int
}

func (g Geometry) Valid() bool {
	return g.SectorSize > 0 && g.SectorsPerTrack > 0 && g.Heads > 0
}

// CylinderSize returns the number of bytes per cylinder.
func (g Geometry) CylinderSize() int64 {
	return int64(g.SectorSize) * int64(g.SectorsPerTrack) * int64(g.Heads)
}

// Tracks returns the number of tracks of an image of the given size, or
// ErrBadGeometry if the size is not an exact, non-zero, number of cylinders.
func (g Geometry) Tracks(size int64) (int, error) {
	if !g.Valid() {
		return 0, fmt.Errorf("%w: %+v", ErrBadGeometry, g)
	}
	cyl := g.CylinderSize()
	if size < cyl || size%cyl != 0 {
		return 0, fmt.Errorf("%w: image size %d is not a multiple of %d", ErrBadGeometry, size, cyl)
	}
	return int(size / cyl), nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%dx%d", g.SectorSize, g.SectorsPerTrack, g.Heads)
}

// Rescheduler receives a scheduling hint on every register access.
type Rescheduler interface {
	Reschedule()
}

type nopRescheduler struct{}

func (nopRescheduler) Reschedule() {}

type Controller struct {
	resched Rescheduler

	img      Image
	geom     Geometry
	tracks   int
	writable bool

	track    int // physical head position
	head     int
	sector   uint8
	trackReg uint8
	dataReg  uint8
	stepDir  int // +1 towards the spindle, -1 towards track 0

	buf        []byte
	pos        int   // transfer cursor
	length     int   // transfer length
	writePos   int64 // image offset of a pending write, -1 if none
	formatting bool

	status     Status
	drqCapable bool // last command was a data transfer command
	irq        bool
	lastCmd    Command
}

// New returns a controller with no disc loaded. r may be nil.
func New(r Rescheduler) *Controller {
	if r == nil {
		r = nopRescheduler{}
	}
	c := &Controller{resched: r}
	c.Reset()
	return c
}

// Reset brings the controller back to its power-on state. The loaded disc
// image is kept.
func (c *Controller) Reset() {
	c.track, c.head, c.sector = 0, 0, 0
	c.trackReg = 0
	c.irq = false
	c.pos, c.length = 0, 0
	c.writePos = -1
	c.formatting = false
	c.status = Status{}
	c.dataReg = 0
	c.stepDir = -1
}

// Load inserts a disc image. The controller owns img until it is unloaded.
func (c *Controller) Load(img Image, geom Geometry, writable bool) error {
	tracks, err := geom.Tracks(img.Size())
	if err != nil {
		return err
	}
	bufsz := geom.SectorSize * geom.SectorsPerTrack
	if bufsz > MaxTrackBuffer {
		return fmt.Errorf("%w: %d bytes", ErrNoMemory, bufsz)
	}
	if c.img != nil {
		if err := c.Unload(); err != nil {
			log.ModFDC.WarnZ("failed to close previous disc image").Error("err", err).End()
		}
	}

	c.buf = make([]byte, max(bufsz, readAddressLen))
	c.img = img
	c.geom = geom
	c.tracks = tracks
	c.writable = writable

	log.ModFDC.InfoZ("disc loaded").
		Stringer("geom", geom).
		Int("tracks", tracks).
		Bool("writable", writable).
		End()
	return nil
}

// Unload ejects the disc image, closing it if it implements io.Closer.
func (c *Controller) Unload() error {
	img := c.img
	c.abortTransfer()
	c.buf = nil
	c.img = nil
	c.geom = Geometry{}
	c.tracks = 0
	c.writable = false

	if cl, ok := img.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Close resets the controller and releases the disc image.
func (c *Controller) Close() error {
	c.Reset()
	return c.Unload()
}

func (c *Controller) Loaded() bool       { return c.img != nil }
func (c *Controller) Geometry() Geometry { return c.geom }
func (c *Controller) Tracks() int        { return c.tracks }
func (c *Controller) Writable() bool     { return c.writable }

// IRQ reports the state of the interrupt request line.
func (c *Controller) IRQ() bool { return c.irq }

// DRQ reports the state of the data request line.
func (c *Controller) DRQ() bool { return c.pos < c.length }

// DMAMiss is called by the DMA engine when it failed to service a data
// request in time. The transfer is aborted with a lost data condition.
func (c *Controller) DMAMiss() {
	log.ModFDC.DebugZ("dma miss").Int("pos", c.pos).Int("len", c.length).End()
	c.pos = c.length
	c.writePos = -1
	c.formatting = false
	c.status = Status{LostData: true}
	c.irq = true
}

func (c *Controller) abortTransfer() {
	c.pos, c.length = 0, 0
	c.writePos = -1
	c.formatting = false
}

// State is a snapshot of the controller registers and lines.
type State struct {
	Loaded      bool
	Writable    bool
	Geometry    Geometry
	Tracks      int
	Track       int
	Head        int
	Sector      uint8
	TrackReg    uint8
	DataReg     uint8
	Status      uint8
	StepDir     int
	LastCommand Command
	IRQ         bool
	DRQ         bool
	Pos, Length int
	Formatting  bool
}

// State returns the controller state without side effects.
func (c *Controller) State() State {
	return State{
		Loaded:      c.Loaded(),
		Writable:    c.writable,
		Geometry:    c.geom,
		Tracks:      c.tracks,
		Track:       c.track,
		Head:        c.head,
		Sector:      c.sector,
		TrackReg:    c.trackReg,
		DataReg:     c.dataReg,
		Status:      c.statusValue(),
		StepDir:     c.stepDir,
		LastCommand: c.lastCmd,
		IRQ:         c.irq,
		DRQ:         c.DRQ(),
		Pos:         c.pos,
		Length:      c.length,
		Formatting:  c.formatting,
	}
}
