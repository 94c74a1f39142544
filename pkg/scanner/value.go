package scanner

import (
	"encoding/binary"
	"math"
	"strconv"
)

// Integer fields that cannot represent the literal are set to a sentinel
// one below the positive extreme of their width. The sentinel keeps the
// bundle usable for the other widths while making an accidental equality
// match against real process data improbable.
const (
	i32Sentinel = math.MaxInt32 - 1
	i64Sentinel = math.MaxInt64 - 1
)

// Bundle holds one user supplied literal parsed into every supported
// numeric type at once. A single scan evaluates all enabled widths, so
// the parse happens up front and only once.
type Bundle struct {
	I32   int32
	I64   int64
	F32   float32
	F64   float64
	Valid bool
}

// ParseBundle parses value into all four numeric representations.
// Integer parse failures fall back to the sentinels and keep the bundle
// valid. A float or double parse failure invalidates the whole bundle
// and the caller must refuse the operation.
func ParseBundle(value string) Bundle {
	b := Bundle{Valid: true}

	if f, err := strconv.ParseFloat(value, 32); err == nil {
		b.F32 = float32(f)
	} else {
		b.Valid = false
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		b.F64 = f
	} else {
		b.Valid = false
	}

	if i, err := strconv.ParseInt(value, 10, 32); err == nil {
		b.I32 = int32(i)
	} else {
		b.I32 = i32Sentinel
	}

	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		b.I64 = i
	} else {
		b.I64 = i64Sentinel
	}

	return b
}

// bytes serializes the field matching t in host byte order.
func (b Bundle) bytes(t Type) []byte {
	buf := make([]byte, t.Size())
	switch t {
	case I32:
		binary.NativeEndian.PutUint32(buf, uint32(b.I32))
	case I64:
		binary.NativeEndian.PutUint64(buf, uint64(b.I64))
	case F32:
		binary.NativeEndian.PutUint32(buf, math.Float32bits(b.F32))
	case F64:
		binary.NativeEndian.PutUint64(buf, math.Float64bits(b.F64))
	}
	return buf
}
