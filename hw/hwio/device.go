package hwio

import "pc7300/emu/log"

type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota) // writes are silently ignored
	WriteOnlyFlag                       // reads silently return all-ones
)

// Device is a BankIO implementation backed by callbacks, covering a range of
// register addresses. A nil callback means the corresponding direction is not
// emulated: such accesses are reported as unhandled to the Table.
type Device struct {
	Name   string // name of the device (for debugging)
	Widths Width  // accepted access widths, zero means any
	Flags  RWFlags

	ReadCb  func(addr uint32, w Width) uint32
	WriteCb func(addr uint32, w Width, val uint32)
}

func (d *Device) checkWidth(addr uint32, w Width, read bool) {
	if d.Widths == 0 || w.In(d.Widths) {
		return
	}
	op := "write to"
	if read {
		op = "read from"
	}
	log.ModHwIo.WarnZ(op+" register with invalid width").
		String("name", d.Name).
		Addr("addr", addr).
		Stringer("width", w).
		End()
}

func (d *Device) Read(addr uint32, w Width) (uint32, bool) {
	switch {
	case d.Flags&WriteOnlyFlag != 0:
		return w.Ones(), true
	case d.ReadCb == nil:
		return w.Ones(), false
	}
	d.checkWidth(addr, w, true)
	return w.Truncate(d.ReadCb(addr, w)), true
}

func (d *Device) Write(addr uint32, w Width, val uint32) bool {
	switch {
	case d.Flags&ReadOnlyFlag != 0:
		return true
	case d.WriteCb == nil:
		return false
	}
	d.checkWidth(addr, w, false)
	d.WriteCb(addr, w, w.Truncate(val))
	return true
}
