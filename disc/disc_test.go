package disc

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"pc7300/hw/fdc"
	"pc7300/tests"

	"github.com/google/go-cmp/cmp"
)

var small = Geometry{SectorSize: 256, SectorsPerTrack: 4, Heads: 2}

func TestCreateProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.img")
	if err := Create(path, small, 3); err != nil {
		t.Fatal(err)
	}

	info, err := Probe(path, small)
	if err != nil {
		t.Fatal(err)
	}
	want := Info{Path: path, Size: 256 * 4 * 2 * 3, Geometry: small, Tracks: 3}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("Probe() mismatch (-want +got):\n%s", diff)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, bytes.Repeat([]byte{Filler}, len(buf))) {
		t.Errorf("blank image is not filled with %02X", Filler)
	}

	if err := Create(path, small, 3); !errors.Is(err, os.ErrExist) {
		t.Errorf("Create() on existing file: error = %v, want %v", err, os.ErrExist)
	}
}

func TestCreateBadGeometry(t *testing.T) {
	dir := t.TempDir()
	if err := Create(filepath.Join(dir, "a.img"), small, 0); !errors.Is(err, fdc.ErrBadGeometry) {
		t.Errorf("zero tracks: error = %v, want %v", err, fdc.ErrBadGeometry)
	}
	if err := Create(filepath.Join(dir, "b.img"), Geometry{}, 1); !errors.Is(err, fdc.ErrBadGeometry) {
		t.Errorf("zero geometry: error = %v, want %v", err, fdc.ErrBadGeometry)
	}
}

func TestProbeMismatch(t *testing.T) {
	path := tests.Image(t, small, 2)
	_, err := Probe(path, Floppy)
	if !errors.Is(err, fdc.ErrBadGeometry) {
		t.Errorf("Probe() error = %v, want %v", err, fdc.ErrBadGeometry)
	}
}

func TestFileReadOnly(t *testing.T) {
	path := tests.Image(t, small, 2)
	f, err := Open(path, false)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteAt([]byte{1, 2, 3}, 0); !errors.Is(err, ErrReadOnly) {
		t.Errorf("WriteAt() error = %v, want %v", err, ErrReadOnly)
	}

	p := make([]byte, 16)
	if _, err := f.ReadAt(p, 1000); err != nil {
		t.Fatal(err)
	}
	for i, b := range p {
		if want := tests.Pattern(int64(1000 + i)); b != want {
			t.Fatalf("byte %d = %02X, want %02X", 1000+i, b, want)
		}
	}
}

func TestFileWrite(t *testing.T) {
	path := tests.Image(t, small, 1)
	f, err := Open(path, true)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.WriteAt([]byte("hello"), 256); err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteAt([]byte("overflow"), f.Size()-4); err == nil {
		t.Errorf("WriteAt() beyond end succeeded")
	}
	if err := f.Sync(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(buf[256:261]); got != "hello" {
		t.Errorf("image contains %q, want %q", got, "hello")
	}
	if int64(len(buf)) != small.CylinderSize() {
		t.Errorf("image size changed to %d", len(buf))
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory(make([]byte, 8))
	if _, err := m.WriteAt([]byte{1, 2, 3}, 6); err == nil {
		t.Errorf("WriteAt() beyond end succeeded")
	}
	if _, err := m.WriteAt([]byte{1, 2}, 6); err != nil {
		t.Fatal(err)
	}

	p := make([]byte, 4)
	n, err := m.ReadAt(p, 4)
	if n != 4 || err != nil {
		t.Errorf("ReadAt() = %d, %v, want 4, nil", n, err)
	}
	if diff := cmp.Diff([]byte{0, 0, 1, 2}, p); diff != "" {
		t.Errorf("ReadAt() mismatch (-want +got):\n%s", diff)
	}
	if n, err := m.ReadAt(p, 6); n != 2 || err != io.EOF {
		t.Errorf("ReadAt() at end = %d, %v, want 2, EOF", n, err)
	}

	m.SetReadOnly(true)
	if _, err := m.WriteAt([]byte{0}, 0); !errors.Is(err, ErrReadOnly) {
		t.Errorf("WriteAt() error = %v, want %v", err, ErrReadOnly)
	}
}

func TestMemoryAsControllerImage(t *testing.T) {
	var img Image = NewMemory(make([]byte, small.CylinderSize()*2))
	c := fdc.New(nil)
	if err := c.Load(img, small, true); err != nil {
		t.Fatal(err)
	}
	if got := c.Tracks(); got != 2 {
		t.Errorf("Tracks() = %d, want 2", got)
	}
}
