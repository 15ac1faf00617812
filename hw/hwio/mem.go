package hwio

import (
	"encoding/binary"

	"pc7300/emu/log"
)

// Mem is a bounded, big-endian view over a fixed memory buffer. Accesses that
// don't fit inside the buffer are refused rather than wrapped around.
type Mem struct {
	Name     string // name of the memory area (for debugging)
	Data     []byte // actual memory buffer
	ReadOnly bool   // writes are refused
}

// NewMem allocates a memory area of size bytes, filled with fill.
func NewMem(name string, size int, fill byte) *Mem {
	m := &Mem{Name: name, Data: make([]byte, size)}
	if fill != 0 {
		for i := range m.Data {
			m.Data[i] = fill
		}
	}
	return m
}

func (m *Mem) Len() uint32 { return uint32(len(m.Data)) }

func (m *Mem) fits(off uint32, w Width) bool {
	return uint64(off)+uint64(w.Bytes()) <= uint64(len(m.Data))
}

// Read reads a big-endian value of width w at offset off. It returns false if
// the access does not fit in the memory area.
func (m *Mem) Read(off uint32, w Width) (uint32, bool) {
	if !m.fits(off, w) {
		return w.Ones(), false
	}
	switch w {
	case Width8:
		return uint32(m.Data[off]), true
	case Width16:
		return uint32(binary.BigEndian.Uint16(m.Data[off:])), true
	default:
		return binary.BigEndian.Uint32(m.Data[off:]), true
	}
}

// Write writes the low w bits of val in big-endian order at offset off. It
// returns false if the memory is read-only or if the access does not fit.
func (m *Mem) Write(off uint32, w Width, val uint32) bool {
	if m.ReadOnly || !m.fits(off, w) {
		return false
	}
	switch w {
	case Width8:
		m.Data[off] = uint8(val)
	case Width16:
		binary.BigEndian.PutUint16(m.Data[off:], uint16(val))
	default:
		binary.BigEndian.PutUint32(m.Data[off:], val)
	}
	return true
}

// Mirror folds off into the memory area. The memory size must be a power of
// two.
func (m *Mem) Mirror(off uint32) uint32 {
	return off & (m.Len() - 1)
}

func isPow2(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

// memIO adapts a Mem to the BankIO interface, mirroring it over the whole
// mapped range starting at base.
type memIO struct {
	mem  *Mem
	base uint32
}

func (m *Mem) BankIO(base uint32) BankIO {
	if !isPow2(m.Len()) {
		panic("memory buffer size is not pow2")
	}
	return &memIO{mem: m, base: base}
}

func (mio *memIO) offset(addr uint32, w Width, write bool) uint32 {
	off := addr - mio.base
	if off >= mio.mem.Len() {
		log.ModHwIo.DebugZ("access to mirror").
			String("area", mio.mem.Name).
			Addr("addr", addr).
			Stringer("width", w).
			Bool("write", write).
			End()
	}
	return mio.mem.Mirror(off)
}

func (mio *memIO) Read(addr uint32, w Width) (uint32, bool) {
	v, ok := mio.mem.Read(mio.offset(addr, w, false), w)
	if !ok {
		log.ModHwIo.WarnZ("read across end of memory").
			String("area", mio.mem.Name).
			Addr("addr", addr).
			Stringer("width", w).
			End()
	}
	return v, true
}

func (mio *memIO) Write(addr uint32, w Width, val uint32) bool {
	if !mio.mem.Write(mio.offset(addr, w, true), w, val) {
		log.ModHwIo.WarnZ("write refused").
			String("area", mio.mem.Name).
			Addr("addr", addr).
			Stringer("width", w).
			Bool("ro", mio.mem.ReadOnly).
			End()
	}
	return true
}
