// Package snapshot holds a serializable copy of the machine state.
package snapshot

import "github.com/go-faster/jx"

const Version = 1

type Machine struct {
	Version int

	ROMOverlay bool
	PIE        bool

	GSR  uint16
	BSR0 uint16
	BSR1 uint16

	DMA  DMA
	Misc Misc
	Disc Disc
	FDC  FDC

	// Present page table entries, in logical page order.
	Pages []Page
}

type DMA struct {
	Count   uint16
	Address uint32
	Reading bool
	Enabled bool
}

type Misc struct {
	DMAReading bool
	LEDs       uint8
}

type Disc struct {
	FDCEnable   bool
	FloppySel   bool
	MotorOn     bool
	HDCEnable   bool
	HardDiscSel bool
	Head        uint8
}

type FDC struct {
	Loaded          bool
	Writable        bool
	SectorSize      int
	SectorsPerTrack int
	Heads           int
	Tracks          int

	Track    int
	Head     int
	Sector   uint8
	TrackReg uint8
	DataReg  uint8
	Status   uint8
	Command  string
	IRQ      bool
	DRQ      bool
}

type Page struct {
	Logical     uint16
	Physical    uint16
	Status      uint8
	WriteEnable bool
}

// Encode writes the snapshot as a JSON object.
func (s *Machine) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("version")
	e.Int(s.Version)
	e.FieldStart("rom_overlay")
	e.Bool(s.ROMOverlay)
	e.FieldStart("pie")
	e.Bool(s.PIE)
	e.FieldStart("gsr")
	e.Int(int(s.GSR))
	e.FieldStart("bsr0")
	e.Int(int(s.BSR0))
	e.FieldStart("bsr1")
	e.Int(int(s.BSR1))

	e.FieldStart("dma")
	e.ObjStart()
	e.FieldStart("count")
	e.Int(int(s.DMA.Count))
	e.FieldStart("address")
	e.Int(int(s.DMA.Address))
	e.FieldStart("reading")
	e.Bool(s.DMA.Reading)
	e.FieldStart("enabled")
	e.Bool(s.DMA.Enabled)
	e.ObjEnd()

	e.FieldStart("misc")
	e.ObjStart()
	e.FieldStart("dma_reading")
	e.Bool(s.Misc.DMAReading)
	e.FieldStart("leds")
	e.Int(int(s.Misc.LEDs))
	e.ObjEnd()

	e.FieldStart("disc")
	e.ObjStart()
	e.FieldStart("fdc_enable")
	e.Bool(s.Disc.FDCEnable)
	e.FieldStart("floppy_sel")
	e.Bool(s.Disc.FloppySel)
	e.FieldStart("motor_on")
	e.Bool(s.Disc.MotorOn)
	e.FieldStart("hdc_enable")
	e.Bool(s.Disc.HDCEnable)
	e.FieldStart("hard_disc_sel")
	e.Bool(s.Disc.HardDiscSel)
	e.FieldStart("head")
	e.Int(int(s.Disc.Head))
	e.ObjEnd()

	e.FieldStart("fdc")
	s.FDC.encode(e)

	e.FieldStart("pages")
	e.ArrStart()
	for _, p := range s.Pages {
		e.ObjStart()
		e.FieldStart("logical")
		e.Int(int(p.Logical))
		e.FieldStart("physical")
		e.Int(int(p.Physical))
		e.FieldStart("status")
		e.Int(int(p.Status))
		e.FieldStart("we")
		e.Bool(p.WriteEnable)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

func (f *FDC) encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("loaded")
	e.Bool(f.Loaded)
	if f.Loaded {
		e.FieldStart("writable")
		e.Bool(f.Writable)
		e.FieldStart("geometry")
		e.ObjStart()
		e.FieldStart("sector_size")
		e.Int(f.SectorSize)
		e.FieldStart("sectors_per_track")
		e.Int(f.SectorsPerTrack)
		e.FieldStart("heads")
		e.Int(f.Heads)
		e.FieldStart("tracks")
		e.Int(f.Tracks)
		e.ObjEnd()
	}
	e.FieldStart("track")
	e.Int(f.Track)
	e.FieldStart("head")
	e.Int(f.Head)
	e.FieldStart("sector")
	e.Int(int(f.Sector))
	e.FieldStart("track_reg")
	e.Int(int(f.TrackReg))
	e.FieldStart("data_reg")
	e.Int(int(f.DataReg))
	e.FieldStart("status")
	e.Int(int(f.Status))
	e.FieldStart("command")
	e.Str(f.Command)
	e.FieldStart("irq")
	e.Bool(f.IRQ)
	e.FieldStart("drq")
	e.Bool(f.DRQ)
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler.
func (s *Machine) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes(), nil
}

// MarshalIndent returns the JSON encoding of s, indented.
func (s *Machine) MarshalIndent() []byte {
	var e jx.Encoder
	e.SetIdent(2)
	s.Encode(&e)
	return e.Bytes()
}
