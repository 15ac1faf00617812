// Package disc provides the disc images backing the floppy controller:
// image files on the host filesystem, in-memory images, creation of blank
// formatted images and geometry probing.
package disc

import (
	"errors"
	"fmt"
	"io"
	"os"

	"pc7300/emu/log"
	"pc7300/hw/fdc"
)

type Geometry = fdc.Geometry

// Floppy is the geometry of the standard 5¼" floppy disc: 512 bytes per
// sector, 10 sectors per track, 2 heads, 40 tracks.
var Floppy = Geometry{SectorSize: 512, SectorsPerTrack: 10, Heads: 2}

const FloppyTracks = 40

// Filler is the value of every byte of a freshly formatted sector.
const Filler = 0xE5

var ErrReadOnly = errors.New("disc image is read-only")

// Image is a random access disc image.
type Image interface {
	fdc.Image
	Sync() error
	Close() error
}

// File is a disc image backed by a host file.
type File struct {
	f        *os.File
	size     int64
	writable bool
}

// Open opens the disc image at path. Images opened with writable set to
// false reject writes with ErrReadOnly.
func Open(path string, writable bool) (*File, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("disc image %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("disc image %s: not a regular file", path)
	}

	log.ModDisc.DebugZ("opened image").
		String("path", path).
		Int("size", int(fi.Size())).
		Bool("writable", writable).
		End()
	return &File{f: f, size: fi.Size(), writable: writable}, nil
}

func (f *File) Name() string                            { return f.f.Name() }
func (f *File) Size() int64                             { return f.size }
func (f *File) Writable() bool                          { return f.writable }
func (f *File) ReadAt(p []byte, off int64) (int, error) { return f.f.ReadAt(p, off) }

// WriteAt implements io.WriterAt. Writes never extend the image.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if !f.writable {
		return 0, ErrReadOnly
	}
	if off < 0 || off+int64(len(p)) > f.size {
		return 0, fmt.Errorf("disc image %s: write of %d bytes at %d beyond end", f.Name(), len(p), off)
	}
	return f.f.WriteAt(p, off)
}

func (f *File) Sync() error {
	if !f.writable {
		return nil
	}
	return f.f.Sync()
}

func (f *File) Close() error {
	return f.f.Close()
}

// Memory is a disc image held in memory.
type Memory struct {
	buf      []byte
	readOnly bool
}

// NewMemory returns a writable image using buf as storage.
func NewMemory(buf []byte) *Memory {
	return &Memory{buf: buf}
}

// SetReadOnly makes the image reject writes with ErrReadOnly.
func (m *Memory) SetReadOnly(ro bool) { m.readOnly = ro }

func (m *Memory) Bytes() []byte { return m.buf }
func (m *Memory) Size() int64   { return int64(len(m.buf)) }
func (m *Memory) Sync() error   { return nil }
func (m *Memory) Close() error  { return nil }

func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= m.Size() {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	if m.readOnly {
		return 0, ErrReadOnly
	}
	if off < 0 || off+int64(len(p)) > m.Size() {
		return 0, fmt.Errorf("write of %d bytes at %d beyond end", len(p), off)
	}
	return copy(m.buf[off:], p), nil
}

// Create creates a blank formatted image at path. It fails if the file
// already exists.
func Create(path string, g Geometry, tracks int) error {
	if !g.Valid() || tracks < 1 {
		return fmt.Errorf("%w: %v, %d tracks", fdc.ErrBadGeometry, g, tracks)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	cyl := make([]byte, g.CylinderSize())
	for i := range cyl {
		cyl[i] = Filler
	}
	for range tracks {
		if _, err := f.Write(cyl); err != nil {
			f.Close()
			os.Remove(path)
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.ModDisc.InfoZ("created image").
		String("path", path).
		Stringer("geom", g).
		Int("tracks", tracks).
		End()
	return nil
}

// Info describes a disc image file.
type Info struct {
	Path     string
	Size     int64
	Geometry Geometry
	Tracks   int
}

// Probe checks that the image at path matches geometry g.
func Probe(path string, g Geometry) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	info := Info{Path: path, Size: fi.Size(), Geometry: g}
	info.Tracks, err = g.Tracks(fi.Size())
	if err != nil {
		return info, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}
