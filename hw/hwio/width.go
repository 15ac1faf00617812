package hwio

import "strconv"

// Width is the size in bits of a bus access. Widths are distinct bits so that
// a set of accepted widths can be expressed by OR'ing them.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32

	AnyWidth = Width8 | Width16 | Width32
)

// Bytes returns the number of bytes transferred by an access of width w.
func (w Width) Bytes() uint32 {
	return uint32(w) / 8
}

// Ones returns the all-ones value of width w.
func (w Width) Ones() uint32 {
	switch w {
	case Width8:
		return 0xFF
	case Width16:
		return 0xFFFF
	}
	return 0xFFFFFFFF
}

// Truncate keeps the low w bits of v.
func (w Width) Truncate(v uint32) uint32 {
	return v & w.Ones()
}

// In reports whether w is one of the widths in set.
func (w Width) In(set Width) bool {
	return w&set != 0
}

func (w Width) Valid() bool {
	return w == Width8 || w == Width16 || w == Width32
}

func (w Width) String() string {
	return strconv.Itoa(int(w))
}
