package hwio

import (
	"fmt"
	"slices"

	"pc7300/emu/log"
)

// BankIO is implemented by everything that can be mapped into a Table. The
// boolean results report whether the access was handled; unhandled accesses
// are logged by the Table and resolve to all-ones (reads) or are discarded
// (writes).
type BankIO interface {
	Read(addr uint32, w Width) (uint32, bool)
	Write(addr uint32, w Width, val uint32) bool
}

type mapping struct {
	begin, end uint32 // inclusive
	name       string
	io         BankIO
}

// Table decodes addresses into the devices mapped over non-overlapping
// address ranges.
type Table struct {
	Name string

	ranges []mapping // sorted by begin
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

func (t *Table) Reset() {
	t.ranges = nil
}

func (t *Table) insert(m mapping) {
	if m.end < m.begin {
		panic(fmt.Errorf("%s: invalid range [%06x, %06x]", t.Name, m.begin, m.end))
	}
	idx, _ := slices.BinarySearchFunc(t.ranges, m.begin, func(e mapping, addr uint32) int {
		switch {
		case e.begin < addr:
			return -1
		case e.begin > addr:
			return 1
		}
		return 0
	})
	if idx > 0 && t.ranges[idx-1].end >= m.begin {
		panic(fmt.Errorf("%s: %s [%06x, %06x] overlaps %s", t.Name, m.name, m.begin, m.end, t.ranges[idx-1].name))
	}
	if idx < len(t.ranges) && t.ranges[idx].begin <= m.end {
		panic(fmt.Errorf("%s: %s [%06x, %06x] overlaps %s", t.Name, m.name, m.begin, m.end, t.ranges[idx].name))
	}
	t.ranges = slices.Insert(t.ranges, idx, m)
}

// MapDevice maps dev over [begin, end].
func (t *Table) MapDevice(begin, end uint32, dev *Device) {
	log.ModHwIo.DebugZ("mapping device").
		Addr("begin", begin).
		Addr("end", end).
		String("dev", dev.Name).
		String("bus", t.Name).
		End()

	t.insert(mapping{begin: begin, end: end, name: dev.Name, io: dev})
}

// MapMem maps mem over [begin, end], mirroring it if the range is larger than
// the memory area.
func (t *Table) MapMem(begin, end uint32, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Addr("begin", begin).
		Addr("end", end).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.insert(mapping{begin: begin, end: end, name: mem.Name, io: mem.BankIO(begin)})
}

func (t *Table) search(addr uint32) *mapping {
	idx, found := slices.BinarySearchFunc(t.ranges, addr, func(e mapping, addr uint32) int {
		switch {
		case e.end < addr:
			return -1
		case e.begin > addr:
			return 1
		}
		return 0
	})
	if !found {
		return nil
	}
	return &t.ranges[idx]
}

// Lookup returns the name of the device mapped at addr.
func (t *Table) Lookup(addr uint32) (string, bool) {
	if m := t.search(addr); m != nil {
		return m.name, true
	}
	return "", false
}

// Read forwards the read to the device mapped at addr. Unmapped and unhandled
// reads return all-ones.
func (t *Table) Read(addr uint32, w Width) uint32 {
	m := t.search(addr)
	if m != nil {
		if val, ok := m.io.Read(addr, w); ok {
			return val
		}
	}
	t.logUnhandled("unhandled read", m, addr, w).End()
	return w.Ones()
}

// Write forwards the write to the device mapped at addr. Unmapped and
// unhandled writes are discarded.
func (t *Table) Write(addr uint32, w Width, val uint32) {
	m := t.search(addr)
	if m != nil && m.io.Write(addr, w, val) {
		return
	}
	t.logUnhandled("unhandled write", m, addr, w).Hex32("val", val).End()
}

func (t *Table) logUnhandled(msg string, m *mapping, addr uint32, w Width) *log.EntryZ {
	name := "<unmapped>"
	if m != nil {
		name = m.name
	}
	return log.ModHwIo.WarnZ(msg).
		String("bus", t.Name).
		String("dev", name).
		Addr("addr", addr).
		Stringer("width", w)
}
