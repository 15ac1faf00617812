// Package mmu implements the address translation and protection unit. Logical
// RAM addresses are mapped page by page through the Map RAM, and user mode
// accesses are checked against the page status and write-enable bits.
package mmu

import "pc7300/emu/log"

//go:generate go tool stringer -type=Access

// Access is the result of an access permission check.
type Access int

const (
	Allowed Access = iota
	PageFault
	UserAddressOutOfRange
	KernelAccessViolation
	WriteNotEnabled
)

// RAMLimit is the first logical address past the paged RAM area.
const RAMLimit = 0x400000

// ModeSource reports the processor privilege mode.
type ModeSource interface {
	Supervisor() bool
}

type Translator struct {
	Table *PageTable
	Mode  ModeSource
}

func pageOf(addr uint32) uint16 {
	return uint16(addr>>12) & 0x3FF
}

// Translate maps a logical address to a physical one. Addresses at or above
// RAMLimit are returned unchanged. Present pages get their accessed (and, for
// writes, dirty) status set, whether or not the access is later allowed.
func (t *Translator) Translate(addr uint32, write bool) uint32 {
	if addr >= RAMLimit {
		return addr
	}
	page := pageOf(addr)
	e := t.Table.Entry(page)
	t.Table.touch(page, write)
	return uint32(e.Page)<<12 | addr&0xFFF
}

// CheckAccess decides whether the current privilege mode may access addr.
func (t *Translator) CheckAccess(addr uint32, write bool) Access {
	if t.Mode.Supervisor() {
		return Allowed
	}
	if addr >= RAMLimit {
		return UserAddressOutOfRange
	}

	e := t.Table.Entry(pageOf(addr))
	switch {
	case !e.Present():
		return PageFault
	case (addr>>19)&0x0F == 0:
		// A19-A22 low: the kernel's low window, never reachable from user mode.
		return KernelAccessViolation
	case write && !e.WriteEnable:
		return WriteNotEnabled
	}
	return Allowed
}

// Map checks then translates addr. Denied accesses are not translated.
func (t *Translator) Map(addr uint32, write bool) (uint32, Access) {
	acc := t.CheckAccess(addr, write)
	if acc != Allowed {
		log.ModMMU.DebugZ("access denied").
			Addr("addr", addr).
			Bool("write", write).
			Stringer("reason", acc).
			End()
		return 0, acc
	}
	return t.Translate(addr, write), acc
}
