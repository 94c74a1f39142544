package scanner

import (
	"encoding/binary"
	"math"
	"testing"

	e "github.com/Toasterbirb/harava/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRoundTrip(t *testing.T) {
	mem, s, results := scan42(t)

	r := results.At(0)
	require.NoError(t, s.Set(r, ParseBundle("100")))

	// The write lands in the target and becomes the new baseline
	// for change refinement.
	assert.Equal(t, []byte{0x64, 0x00, 0x00, 0x00}, mem.data[4:8])
	assert.Equal(t, []byte{0x64, 0x00, 0x00, 0x00}, r.Value[:4])

	value, err := ResultValue[int32](s, r)
	require.NoError(t, err)
	assert.EqualValues(t, 100, value)

	unchanged, err := s.RefineChange(results, true)
	require.NoError(t, err)
	assert.Equal(t, 1, unchanged.Count())
}

func TestSetWritesOnlyTypeWidth(t *testing.T) {
	data := make([]byte, 16)
	copy(data[4:], []byte{0x2a, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff})
	mem, s := singleRegion(data)

	window := []byte{0x2a, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff}
	r := newResult(I32, 0, 4, window)

	require.NoError(t, s.Set(&r, ParseBundle("7")))

	// Only the four i32 bytes move; the neighbours stay put.
	assert.Equal(t, []byte{0x07, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff}, mem.data[4:12])
}

func TestSetFailureKeepsStoredBytes(t *testing.T) {
	mem, s, results := scan42(t)

	mem.failWrites = true

	r := results.At(0)
	err := s.Set(r, ParseBundle("100"))
	assert.ErrorIs(t, err, e.WriteFailed)
	assert.Equal(t, []byte{0x2a, 0x00, 0x00, 0x00}, r.Value[:4])
}

func TestSetInvalidBundle(t *testing.T) {
	_, s, results := scan42(t)

	err := s.Set(results.At(0), ParseBundle("junk"))
	assert.ErrorIs(t, err, e.ParseInvalid)
}

func TestResultValueFloats(t *testing.T) {
	data := make([]byte, 16)

	binary.NativeEndian.PutUint64(data, math.Float64bits(3.5))

	_, s := singleRegion(data)

	window := data[:8]
	r := newResult(F64, 0, 0, window)

	value, err := ResultValue[float64](s, &r)
	require.NoError(t, err)
	assert.Equal(t, 3.5, value)

	formatted, err := s.FormatValue(&r)
	require.NoError(t, err)
	assert.Equal(t, "3.5", formatted)
}

func TestResultValueReadsCurrentValue(t *testing.T) {
	mem, s, results := scan42(t)

	mem.poke(4, 0x2b)

	value, err := ResultValue[int32](s, results.At(0))
	require.NoError(t, err)
	assert.EqualValues(t, 43, value)

	formatted, err := s.FormatValue(results.At(0))
	require.NoError(t, err)
	assert.Equal(t, "43", formatted)
}
