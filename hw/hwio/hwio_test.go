package hwio_test

import (
	"testing"

	"pc7300/hw/hwio"
)

type testTable struct {
	t   testing.TB
	Bus *hwio.Table

	RAM *hwio.Mem
	Reg uint16

	writes int
}

func newTestTable(tb testing.TB) *testTable {
	tbl := &testTable{t: tb}
	tbl.RAM = hwio.NewMem("ram", 0x100, 0)

	tbl.Bus = hwio.NewTable("bus")
	// 0x1000-0x1FFF, ram mirrored 16 times.
	tbl.Bus.MapMem(0x1000, 0x1FFF, tbl.RAM)
	// 0x2000-0x2FFF, 16-bit register.
	tbl.Bus.MapDevice(0x2000, 0x2FFF, &hwio.Device{
		Name:    "REG",
		Widths:  hwio.Width16,
		ReadCb:  func(addr uint32, w hwio.Width) uint32 { return uint32(tbl.Reg)<<16 | uint32(tbl.Reg) },
		WriteCb: func(addr uint32, w hwio.Width, val uint32) { tbl.Reg = uint16(val); tbl.writes++ },
	})
	// 0x3000-0x3FFF, write-only register.
	tbl.Bus.MapDevice(0x3000, 0x3FFF, &hwio.Device{
		Name:    "WO",
		Flags:   hwio.WriteOnlyFlag,
		WriteCb: func(addr uint32, w hwio.Width, val uint32) { tbl.writes++ },
	})
	// 0x4000-0x4FFF, stub.
	tbl.Bus.MapDevice(0x4000, 0x4FFF, &hwio.Device{Name: "STUB"})
	return tbl
}

func (tbl *testTable) wantRead(addr uint32, w hwio.Width, want uint32) {
	tbl.t.Helper()

	if got := tbl.Bus.Read(addr, w); got != want {
		tbl.t.Errorf("Read%s(%06X) = %X, want %X", w, addr, got, want)
	}
}

func TestTableMem(t *testing.T) {
	tbl := newTestTable(t)

	tbl.Bus.Write(0x1000, hwio.Width32, 0x12345678)
	tbl.wantRead(0x1000, hwio.Width8, 0x12)
	tbl.wantRead(0x1001, hwio.Width8, 0x34)
	tbl.wantRead(0x1002, hwio.Width16, 0x5678)
	tbl.wantRead(0x1000, hwio.Width32, 0x12345678)

	// mirror
	tbl.wantRead(0x1100, hwio.Width32, 0x12345678)
	tbl.wantRead(0x1F00, hwio.Width16, 0x1234)
}

func TestTableMemAcrossEnd(t *testing.T) {
	tbl := newTestTable(t)

	tbl.Bus.Write(0x10FE, hwio.Width16, 0xBEEF)
	tbl.wantRead(0x10FE, hwio.Width16, 0xBEEF)

	// a 32-bit access starting 2 bytes before the end doesn't fit.
	tbl.Bus.Write(0x10FE, hwio.Width32, 0x11223344)
	tbl.wantRead(0x10FE, hwio.Width16, 0xBEEF)
	tbl.wantRead(0x10FE, hwio.Width32, 0xFFFFFFFF)
}

func TestTableRegs(t *testing.T) {
	tbl := newTestTable(t)

	tbl.Bus.Write(0x2000, hwio.Width16, 0xA55A)
	tbl.wantRead(0x2000, hwio.Width16, 0xA55A)
	tbl.wantRead(0x2000, hwio.Width32, 0xA55AA55A)
	tbl.wantRead(0x2000, hwio.Width8, 0x5A)

	// invalid width is logged, not rejected.
	tbl.Bus.Write(0x2002, hwio.Width8, 0x1234)
	if tbl.Reg != 0x34 {
		t.Errorf("Reg = %04X, want 0034", tbl.Reg)
	}
	if tbl.writes != 2 {
		t.Errorf("writes = %d, want 2", tbl.writes)
	}
}

func TestTableWriteOnly(t *testing.T) {
	tbl := newTestTable(t)

	tbl.wantRead(0x3000, hwio.Width16, 0xFFFF)
	tbl.Bus.Write(0x3000, hwio.Width16, 0)
	if tbl.writes != 1 {
		t.Errorf("writes = %d, want 1", tbl.writes)
	}
}

func TestTableUnmapped(t *testing.T) {
	tbl := newTestTable(t)

	tbl.wantRead(0x0000, hwio.Width8, 0xFF)
	tbl.wantRead(0x5000, hwio.Width16, 0xFFFF)
	tbl.wantRead(0x4000, hwio.Width32, 0xFFFFFFFF) // stub
	tbl.Bus.Write(0x4000, hwio.Width32, 0)           // stub, discarded

	if name, ok := tbl.Bus.Lookup(0x4ABC); !ok || name != "STUB" {
		t.Errorf("Lookup(4ABC) = %q, %t, want STUB, true", name, ok)
	}
	if _, ok := tbl.Bus.Lookup(0x5000); ok {
		t.Errorf("Lookup(5000) found a device")
	}
}

func TestTableOverlap(t *testing.T) {
	tbl := newTestTable(t)

	defer func() {
		if recover() == nil {
			t.Errorf("overlapping mapping should panic")
		}
	}()
	tbl.Bus.MapDevice(0x2FF0, 0x300F, &hwio.Device{Name: "overlap"})
}

func TestMemBounds(t *testing.T) {
	mem := hwio.NewMem("rom", 4, 0xFF)
	mem.ReadOnly = true

	if v, ok := mem.Read(0, hwio.Width32); !ok || v != 0xFFFFFFFF {
		t.Errorf("Read32(0) = %X, %t, want FFFFFFFF, true", v, ok)
	}
	if _, ok := mem.Read(1, hwio.Width32); ok {
		t.Errorf("Read32(1) should not fit")
	}
	if ok := mem.Write(0, hwio.Width8, 0); ok {
		t.Errorf("Write8 to read-only memory succeeded")
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		w     hwio.Width
		bytes uint32
		ones  uint32
	}{
		{hwio.Width8, 1, 0xFF},
		{hwio.Width16, 2, 0xFFFF},
		{hwio.Width32, 4, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.w.String(), func(t *testing.T) {
			if got := tt.w.Bytes(); got != tt.bytes {
				t.Errorf("Bytes() = %d, want %d", got, tt.bytes)
			}
			if got := tt.w.Ones(); got != tt.ones {
				t.Errorf("Ones() = %X, want %X", got, tt.ones)
			}
			if !tt.w.In(hwio.AnyWidth) {
				t.Errorf("%s not in AnyWidth", tt.w)
			}
		})
	}
}
