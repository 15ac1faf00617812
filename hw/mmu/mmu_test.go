package mmu

import (
	"testing"

	"pc7300/hw/hwio"

	"github.com/google/go-cmp/cmp"
)

type cpuMode struct{ super bool }

func (m *cpuMode) Supervisor() bool { return m.super }

func newTestTranslator(t *testing.T, super bool) (*Translator, *cpuMode) {
	t.Helper()

	pt, err := NewPageTable(hwio.NewMem("map", TableSize, 0))
	if err != nil {
		t.Fatal(err)
	}
	mode := &cpuMode{super: super}
	return &Translator{Table: pt, Mode: mode}, mode
}

const userAddr = 0x123456 // page 0x123, outside the kernel window

func TestPTEPacking(t *testing.T) {
	pt, err := NewPageTable(hwio.NewMem("map", TableSize, 0))
	if err != nil {
		t.Fatal(err)
	}

	want := PTE{Page: 0x2AB, Status: Present, WriteEnable: true}
	pt.SetEntry(5, want)

	// big-endian word at offset 2*page
	raw := pt.Mem().Data[10:12]
	if raw[0] != 0xA2 || raw[1] != 0xAB {
		t.Errorf("raw entry = %02X%02X, want A2AB", raw[0], raw[1])
	}
	if diff := cmp.Diff(want, pt.Entry(5)); diff != "" {
		t.Errorf("Entry(5) mismatch (-want +got):\n%s", diff)
	}
}

func TestNewPageTableSize(t *testing.T) {
	if _, err := NewPageTable(hwio.NewMem("map", 0x400, 0)); err == nil {
		t.Errorf("NewPageTable accepted a 1KB map ram")
	}
}

func TestTranslate(t *testing.T) {
	tr, _ := newTestTranslator(t, true)
	tr.Table.SetEntry(0x123, PTE{Page: 0x045, Status: Present})

	got := tr.Translate(userAddr, false)
	if got != 0x045456 {
		t.Fatalf("Translate(%06X) = %06X, want 045456", userAddr, got)
	}
	if st := tr.Table.Entry(0x123).Status; st != Accessed|Present {
		t.Errorf("status after read = %d, want %d", st, Accessed|Present)
	}

	// Same physical address on the second call, side effect visible.
	if got2 := tr.Translate(userAddr, true); got2 != got {
		t.Errorf("second Translate = %06X, want %06X", got2, got)
	}
	if st := tr.Table.Entry(0x123).Status; st != Used {
		t.Errorf("status after write = %d, want %d", st, Used)
	}
}

func TestTranslateStatusBits(t *testing.T) {
	tests := []struct {
		name  string
		from  PageStatus
		write bool
		want  PageStatus
	}{
		{"present read", Present, false, Used},
		{"present write", Present, true, Used},
		{"accessed read", Accessed, false, Accessed},
		{"accessed write", Accessed, true, Used},
		{"used read", Used, false, Used},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := newTestTranslator(t, true)
			tr.Table.SetEntry(0x123, PTE{Page: 0x045, Status: tt.from, WriteEnable: true})
			tr.Translate(userAddr, tt.write)
			if st := tr.Table.Entry(0x123).Status; st != tt.want {
				t.Errorf("status = %d, want %d", st, tt.want)
			}
		})
	}
}

func TestTranslateNotPresentUntouched(t *testing.T) {
	tr, _ := newTestTranslator(t, true)
	tr.Table.SetEntry(0x123, PTE{Page: 0x045, WriteEnable: true})

	tr.Translate(userAddr, true)
	if diff := cmp.Diff(PTE{Page: 0x045, WriteEnable: true}, tr.Table.Entry(0x123)); diff != "" {
		t.Errorf("not present entry modified (-want +got):\n%s", diff)
	}
}

func TestTranslateKeepsUnusedBits(t *testing.T) {
	tr, _ := newTestTranslator(t, true)
	tr.Table.Mem().Write(0x123*2, hwio.Width16, 0x3C45) // status=1, bits 10-12 set

	tr.Translate(userAddr, false)
	raw, _ := tr.Table.Mem().Read(0x123*2, hwio.Width16)
	if raw != 0x7C45 {
		t.Errorf("raw entry = %04X, want 7C45", raw)
	}
}

func TestTranslatePassThrough(t *testing.T) {
	tr, _ := newTestTranslator(t, true)
	for _, addr := range []uint32{RAMLimit, 0x420000, 0x800000, 0xE10000} {
		if got := tr.Translate(addr, false); got != addr {
			t.Errorf("Translate(%06X) = %06X, want unchanged", addr, got)
		}
	}
}

func TestCheckAccessSupervisor(t *testing.T) {
	tr, _ := newTestTranslator(t, true)
	// empty page table: nothing present, nothing write enabled.
	for _, addr := range []uint32{0, 0x7FFFF, userAddr, RAMLimit, 0xFFFFFE} {
		for _, write := range []bool{false, true} {
			if got := tr.CheckAccess(addr, write); got != Allowed {
				t.Errorf("CheckAccess(%06X, %t) = %s, want Allowed", addr, write, got)
			}
		}
	}
}

func TestCheckAccessUser(t *testing.T) {
	tests := []struct {
		name  string
		pte   PTE
		addr  uint32
		write bool
		want  Access
	}{
		{
			name: "out of range pre-empts page table",
			pte:  PTE{Status: Present, WriteEnable: true},
			addr: RAMLimit,
			want: UserAddressOutOfRange,
		},
		{
			name: "io zone b",
			addr: 0xE41000,
			want: UserAddressOutOfRange,
		},
		{
			name: "not present",
			pte:  PTE{Page: 1, WriteEnable: true},
			addr: userAddr,
			want: PageFault,
		},
		{
			name: "not present in kernel window",
			pte:  PTE{Page: 1, WriteEnable: true},
			addr: 0x01000,
			want: PageFault,
		},
		{
			name:  "present write-enabled kernel page",
			pte:   PTE{Page: 1, Status: Present, WriteEnable: true},
			addr:  0x7F000,
			write: false,
			want:  KernelAccessViolation,
		},
		{
			name:  "kernel window checked before write enable",
			pte:   PTE{Page: 1, Status: Present},
			addr:  0x01000,
			write: true,
			want:  KernelAccessViolation,
		},
		{
			name:  "write not enabled",
			pte:   PTE{Page: 1, Status: Present},
			addr:  userAddr,
			write: true,
			want:  WriteNotEnabled,
		},
		{
			name: "read of read-only page",
			pte:  PTE{Page: 1, Status: Present},
			addr: userAddr,
			want: Allowed,
		},
		{
			name:  "write to write-enabled dirty page",
			pte:   PTE{Page: 1, Status: Used, WriteEnable: true},
			addr:  userAddr,
			write: true,
			want:  Allowed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := newTestTranslator(t, false)
			if tt.addr < RAMLimit {
				tr.Table.SetEntry(pageOf(tt.addr), tt.pte)
			} else {
				for p := range uint16(NumPages) {
					tr.Table.SetEntry(p, tt.pte)
				}
			}
			if got := tr.CheckAccess(tt.addr, tt.write); got != tt.want {
				t.Errorf("CheckAccess(%06X, %t) = %s, want %s", tt.addr, tt.write, got, tt.want)
			}
		})
	}
}

func TestMap(t *testing.T) {
	tr, mode := newTestTranslator(t, false)
	tr.Table.SetEntry(0x123, PTE{Page: 0x045, Status: Present})

	if _, acc := tr.Map(userAddr, true); acc != WriteNotEnabled {
		t.Fatalf("Map write = %s, want WriteNotEnabled", acc)
	}
	if st := tr.Table.Entry(0x123).Status; st != Present {
		t.Errorf("denied access touched the page, status = %d", st)
	}

	mode.super = true
	phys, acc := tr.Map(userAddr, true)
	if acc != Allowed || phys != 0x045456 {
		t.Errorf("Map = %06X, %s, want 045456, Allowed", phys, acc)
	}
}

func TestAccessString(t *testing.T) {
	if s := KernelAccessViolation.String(); s != "KernelAccessViolation" {
		t.Errorf("String() = %q", s)
	}
	if s := Access(42).String(); s != "Access(42)" {
		t.Errorf("String() = %q", s)
	}
}
