package scanner

import (
	"fmt"
	"math"

	e "github.com/Toasterbirb/harava/error"
)

// Set overwrites the cell behind result with the matching field of
// value and makes the new bytes the baseline for later change
// refinements. On failure the stored bytes are left untouched.
func (s *Scanner) Set(result *Result, value Bundle) error {
	if !value.Valid {
		return e.ParseInvalid
	}

	region := s.region(result.RegionID)
	if region == nil {
		return fmt.Errorf("%w: unknown region %d", e.WriteFailed, result.RegionID)
	}

	mem, err := s.newMemory()
	if err != nil {
		return err
	}
	defer closeMemory(mem)

	data := value.bytes(result.Type)
	addr := region.Start + uint64(result.Offset)

	n, err := mem.WriteMemory(addr, data)
	if err != nil {
		return fmt.Errorf("%w: %#x: %v", e.WriteFailed, addr, err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: %#x: short write %d of %d bytes", e.WriteFailed, addr, n, len(data))
	}

	copy(result.Value[:], data)

	return nil
}

// scalar constrains the value re-read to the four supported widths.
type scalar interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// ResultValue re-reads the current value of a result from the target.
// The type parameter must match result.Type; Size bytes are read from
// the result's cell and decoded in host byte order.
func ResultValue[T scalar](s *Scanner, result *Result) (T, error) {
	var value T

	region := s.region(result.RegionID)
	if region == nil {
		return value, fmt.Errorf("%w: unknown region %d", e.RegionUnreadable, result.RegionID)
	}

	mem, err := s.newMemory()
	if err != nil {
		return value, err
	}
	defer closeMemory(mem)

	buf := make([]byte, result.Type.Size())
	addr := region.Start + uint64(result.Offset)

	n, err := mem.ReadMemory(buf, addr)
	if err != nil || n != len(buf) {
		return value, fmt.Errorf("%w: %#x: %v", e.RegionUnreadable, addr, err)
	}

	switch v := any(&value).(type) {
	case *int32:
		*v = decodeI32(buf)
	case *int64:
		*v = decodeI64(buf)
	case *float32:
		*v = decodeF32(buf)
	case *float64:
		*v = decodeF64(buf)
	}

	return value, nil
}

// FormatValue renders the current value of a result for listing.
func (s *Scanner) FormatValue(result *Result) (string, error) {
	switch result.Type {
	case I32:
		v, err := ResultValue[int32](s, result)
		return fmt.Sprintf("%d", v), err
	case I64:
		v, err := ResultValue[int64](s, result)
		return fmt.Sprintf("%d", v), err
	case F32:
		v, err := ResultValue[float32](s, result)
		return formatFloat(float64(v)), err
	case F64:
		v, err := ResultValue[float64](s, result)
		return formatFloat(v), err
	}
	return "", fmt.Errorf("unknown result type %#x", uint8(result.Type))
}

func formatFloat(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("%g", v)
}
