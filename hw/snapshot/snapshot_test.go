package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testMachine() *Machine {
	return &Machine{
		Version:    Version,
		ROMOverlay: true,
		GSR:        0x8BFF,
		BSR0:       0x7C12,
		BSR1:       0x3456,
		DMA:        DMA{Count: 3, Address: 0x1200},
		Misc:       Misc{LEDs: 0x5},
		FDC: FDC{
			Loaded:          true,
			SectorSize:      512,
			SectorsPerTrack: 10,
			Heads:           2,
			Tracks:          40,
			Track:           3,
			Status:          0x24,
			Command:         "Restore",
			IRQ:             true,
		},
		Pages: []Page{
			{Logical: 0, Physical: 0x10, Status: 1, WriteEnable: true},
			{Logical: 7, Physical: 0x22, Status: 3},
		},
	}
}

func TestMarshalJSON(t *testing.T) {
	buf, err := testMachine().MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(buf) {
		t.Fatalf("invalid JSON: %s", buf)
	}

	var got struct {
		Version    int  `json:"version"`
		ROMOverlay bool `json:"rom_overlay"`
		GSR        int  `json:"gsr"`
		BSR0       int  `json:"bsr0"`
		BSR1       int  `json:"bsr1"`
		DMA        struct {
			Count   int `json:"count"`
			Address int `json:"address"`
		} `json:"dma"`
		FDC struct {
			Loaded   bool `json:"loaded"`
			Geometry struct {
				Tracks int `json:"tracks"`
			} `json:"geometry"`
			Track   int    `json:"track"`
			Status  int    `json:"status"`
			Command string `json:"command"`
			IRQ     bool   `json:"irq"`
		} `json:"fdc"`
		Pages []struct {
			Logical  int  `json:"logical"`
			Physical int  `json:"physical"`
			Status   int  `json:"status"`
			WE       bool `json:"we"`
		} `json:"pages"`
	}
	if err := json.Unmarshal(buf, &got); err != nil {
		t.Fatal(err)
	}

	if got.Version != Version || !got.ROMOverlay {
		t.Errorf("version, overlay = %d, %t", got.Version, got.ROMOverlay)
	}
	if got.GSR != 0x8BFF || got.BSR0 != 0x7C12 || got.BSR1 != 0x3456 {
		t.Errorf("fault registers = %04X %04X %04X", got.GSR, got.BSR0, got.BSR1)
	}
	if got.DMA.Count != 3 || got.DMA.Address != 0x1200 {
		t.Errorf("dma = %+v", got.DMA)
	}
	if !got.FDC.Loaded || got.FDC.Geometry.Tracks != 40 || got.FDC.Track != 3 ||
		got.FDC.Status != 0x24 || got.FDC.Command != "Restore" || !got.FDC.IRQ {
		t.Errorf("fdc = %+v", got.FDC)
	}
	if diff := cmp.Diff(2, len(got.Pages)); diff != "" {
		t.Fatalf("pages count (-want +got):\n%s", diff)
	}
	if p := got.Pages[1]; p.Logical != 7 || p.Physical != 0x22 || p.Status != 3 || p.WE {
		t.Errorf("page = %+v", p)
	}
}

func TestMarshalNoDisc(t *testing.T) {
	m := &Machine{Version: Version}
	for _, buf := range [][]byte{m.MarshalIndent(), must(m.MarshalJSON())} {
		if !json.Valid(buf) {
			t.Fatalf("invalid JSON: %s", buf)
		}
		var got map[string]any
		if err := json.Unmarshal(buf, &got); err != nil {
			t.Fatal(err)
		}
		fdc := got["fdc"].(map[string]any)
		if _, ok := fdc["geometry"]; ok {
			t.Errorf("geometry present without a disc")
		}
		if pages := got["pages"].([]any); len(pages) != 0 {
			t.Errorf("got %d pages, want 0", len(pages))
		}
	}
}

func must(buf []byte, err error) []byte {
	if err != nil {
		panic(err)
	}
	return buf
}
