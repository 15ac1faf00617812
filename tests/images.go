// Package tests provides deterministic disc image fixtures.
package tests

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"pc7300/hw/fdc"

	"golang.org/x/sync/errgroup"
)

// Pattern returns the byte stored at offset off of a patterned image. Every
// sector of a patterned image holds different contents.
func Pattern(off int64) byte {
	return byte(off ^ off>>8 ^ off>>16)
}

// Fill fills p with the pattern, starting at image offset off.
func Fill(p []byte, off int64) {
	for i := range p {
		p[i] = Pattern(off + int64(i))
	}
}

// Patterned returns the contents of a patterned image.
func Patterned(g fdc.Geometry, tracks int) []byte {
	buf := make([]byte, g.CylinderSize()*int64(tracks))
	Fill(buf, 0)
	return buf
}

// Image writes a patterned image with the given geometry in a temporary
// directory and returns its path. Tracks are written concurrently.
func Image(tb testing.TB, g fdc.Geometry, tracks int) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), fmt.Sprintf("%v-%d.img", g, tracks))
	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	defer f.Close()

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())

	cylsz := g.CylinderSize()
	for track := range tracks {
		eg.Go(func() error {
			off := int64(track) * cylsz
			buf := make([]byte, cylsz)
			Fill(buf, off)
			_, err := f.WriteAt(buf, off)
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		tb.Fatalf("failed to write disc image: %s", err)
	}
	if err := f.Close(); err != nil {
		tb.Fatal(err)
	}
	return path
}
