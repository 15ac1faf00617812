package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFieldValue(t *testing.T) {
	tests := []struct {
		f    ZField
		want string
	}{
		{ZField{Type: FieldTypeBool, Integer: 1}, "true"},
		{ZField{Type: FieldTypeHex8, Integer: 0xA}, "0a"},
		{ZField{Type: FieldTypeHex16, Integer: 0xCBFF}, "cbff"},
		{ZField{Type: FieldTypeAddr, Integer: 0xE10000}, "e10000"},
		{ZField{Type: FieldTypeHex32, Integer: 0x7C}, "0000007c"},
		{ZField{Type: FieldTypeInt, Integer: ^uint64(0)}, "-1"},
		{ZField{Type: FieldTypeError}, "<nil>"},
		{ZField{Type: FieldTypeError, Any: errors.New("boom")}, "boom"},
		{ZField{Type: FieldTypeBlob, Blob: []byte{0xDE, 0xAD}}, "dead"},
	}
	for _, tt := range tests {
		if got := tt.f.Value(); got != tt.want {
			t.Errorf("Value(%+v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestModules(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer func() {
		DisableDebugModules(ModuleMaskAll)
		disabled = false
	}()

	ModFDC.DebugZ("hidden").End()
	if buf.Len() != 0 {
		t.Fatalf("debug entry emitted with module disabled: %s", buf.String())
	}

	EnableDebugModules(ModFDC.Mask())
	if ModMMU.DebugZ("other module") != nil {
		t.Errorf("debug entry enabled for mmu")
	}
	ModFDC.DebugZ("seek").Int("track", 3).Addr("addr", 0x1E10006).End()
	out := buf.String()
	for _, s := range []string{"seek", "_mod=fdc", "track=3", "addr=e10006"} {
		if !strings.Contains(out, s) {
			t.Errorf("log output %q lacks %q", out, s)
		}
	}

	buf.Reset()
	Disable()
	ModEmu.WarnZ("muted").End()
	if buf.Len() != 0 {
		t.Errorf("entry emitted after Disable: %s", buf.String())
	}

	if m, ok := ModuleByName("disc"); !ok || m != ModDisc {
		t.Errorf(`ModuleByName("disc") = %v, %t`, m, ok)
	}
	if _, ok := ModuleByName("ppu"); ok {
		t.Errorf(`ModuleByName("ppu") found`)
	}
}
