package mmu

import "pc7300/hw/hwio"

// PageStatus is the 2-bit status field of a page table entry, bits 13 and 14
// of the raw word. Any non-zero value marks the page present. Accesses only
// ever set bits: every access sets Accessed (bit 14) and writes also set
// Present (bit 13). A page loaded as Present thus reads back as Used after
// its first access, read or write; only a page loaded as Accessed tells
// reads (2) from writes (3).
type PageStatus uint8

const (
	NotPresent PageStatus = 0 // any user access faults
	Present    PageStatus = 1 // bit 13, also set by writes
	Accessed   PageStatus = 2 // bit 14, set by every access
	Used                  = Present | Accessed
)

// PTE is a decoded page table entry.
type PTE struct {
	Page        uint16 // physical page number (10 bits)
	Status      PageStatus
	WriteEnable bool
}

const (
	pteStatusShift = 13
	pteWEBit       = 15
	ptePageMask    = 0x3FF
)

func (e PTE) Present() bool { return e.Status != NotPresent }

func (e PTE) pack() uint16 {
	v := e.Page&ptePageMask | uint16(e.Status&3)<<pteStatusShift
	hwio.PutBit16(&v, pteWEBit, e.WriteEnable)
	return v
}

func unpackPTE(v uint16) PTE {
	return PTE{
		Page:        v & ptePageMask,
		Status:      PageStatus(v>>pteStatusShift) & 3,
		WriteEnable: hwio.GetBit16(v, pteWEBit),
	}
}
