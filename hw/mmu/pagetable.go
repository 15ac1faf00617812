package mmu

import (
	"fmt"

	"pc7300/hw/hwio"
)

const (
	NumPages  = 1024
	PageSize  = 0x1000
	TableSize = NumPages * 2 // Map RAM size in bytes
)

// PageTable is the Map RAM: one big-endian 16-bit entry per logical page.
// The raw bytes are shared with the bus, which exposes them to the CPU.
type PageTable struct {
	mem *hwio.Mem
}

// NewPageTable wraps mem, which must be exactly TableSize bytes.
func NewPageTable(mem *hwio.Mem) (*PageTable, error) {
	if mem.Len() != TableSize {
		return nil, fmt.Errorf("map ram is %d bytes, want %d", mem.Len(), TableSize)
	}
	return &PageTable{mem: mem}, nil
}

// Mem returns the memory area holding the raw entries.
func (pt *PageTable) Mem() *hwio.Mem { return pt.mem }

func (pt *PageTable) raw(page uint16) uint16 {
	v, _ := pt.mem.Read(uint32(page%NumPages)*2, hwio.Width16)
	return uint16(v)
}

func (pt *PageTable) setRaw(page uint16, v uint16) {
	pt.mem.Write(uint32(page%NumPages)*2, hwio.Width16, uint32(v))
}

// Entry returns the decoded entry for a logical page.
func (pt *PageTable) Entry(page uint16) PTE {
	return unpackPTE(pt.raw(page))
}

// SetEntry replaces the entry for a logical page. Unused bits are cleared.
func (pt *PageTable) SetEntry(page uint16, e PTE) {
	pt.setRaw(page, e.pack())
}

// touch records an access in the status bits of a present page, see PageStatus. Other bits of
// the raw entry are left as they are.
func (pt *PageTable) touch(page uint16, write bool) {
	v := pt.raw(page)
	e := unpackPTE(v)
	if !e.Present() {
		return
	}
	st := Accessed
	if write {
		st |= Present
	}
	pt.setRaw(page, v|uint16(st)<<pteStatusShift)
}
