package log

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

type FieldType uint8

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeAddr // 24-bit bus address
	FieldTypeHex32
	FieldTypeInt
	FieldTypeUint
	FieldTypeError
	FieldTypeStringer
	FieldTypeBlob
)

// ZField is a typed log field. Its value is only formatted when the entry is
// emitted.
type ZField struct {
	Type FieldType
	Key  string

	Integer uint64 // bool, integer and hex types
	String  string
	Any     any // error or fmt.Stringer
	Blob    []byte
}

var hexWidth = [...]int{
	FieldTypeHex8:  2,
	FieldTypeHex16: 4,
	FieldTypeAddr:  6,
	FieldTypeHex32: 8,
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.Integer != 0)
	case FieldTypeString:
		return f.String
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldTypeUint:
		return strconv.FormatUint(f.Integer, 10)
	case FieldTypeHex8, FieldTypeHex16, FieldTypeAddr, FieldTypeHex32:
		return fmt.Sprintf("%0*x", hexWidth[f.Type], f.Integer)
	case FieldTypeError, FieldTypeStringer:
		if f.Any == nil {
			return "<nil>"
		}
		return fmt.Sprint(f.Any)
	case FieldTypeBlob:
		// Single line, so that blobs don't break log parsers.
		return hex.EncodeToString(f.Blob)
	}
	return ""
}
