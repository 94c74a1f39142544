package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(typ Type, regionID uint16, offset uint32, value byte) Result {
	window := [maxTypeSize]byte{value}
	return newResult(typ, regionID, offset, window[:])
}

func TestResultsCount(t *testing.T) {
	r := &Results{}
	assert.Equal(t, 0, r.Count())
	assert.EqualValues(t, 0, r.TotalBytes())

	r.i32s = append(r.i32s, testResult(I32, 0, 0, 1), testResult(I32, 0, 4, 2))
	r.f64s = append(r.f64s, testResult(F64, 0, 8, 3))

	assert.Equal(t, 3, r.Count())
	assert.EqualValues(t, 2*4+8, r.TotalBytes())
}

func TestResultsAt(t *testing.T) {
	r := &Results{
		i32s: []Result{testResult(I32, 0, 0, 1), testResult(I32, 0, 4, 2)},
		i64s: []Result{testResult(I64, 0, 8, 3)},
		f32s: []Result{testResult(F32, 0, 16, 4)},
		f64s: []Result{testResult(F64, 0, 24, 5)},
	}

	// The flat index spans the sequences in i32, i64, f32, f64
	// order.
	wantTypes := []Type{I32, I32, I64, F32, F64}
	wantValues := []byte{1, 2, 3, 4, 5}

	for i := 0; i < r.Count(); i++ {
		result := r.At(i)
		require.NotNil(t, result, "index %d", i)
		assert.Equal(t, wantTypes[i], result.Type)
		assert.Equal(t, wantValues[i], result.Value[0])
	}

	assert.Nil(t, r.At(-1))
	assert.Nil(t, r.At(r.Count()))
}

func TestResultsClear(t *testing.T) {
	r := &Results{
		i32s: []Result{testResult(I32, 0, 0, 1)},
		f32s: []Result{testResult(F32, 0, 4, 2)},
	}

	r.Clear()
	assert.Equal(t, 0, r.Count())
	for _, seq := range r.Sequences() {
		assert.Empty(t, *seq.Results)
	}
}

func TestResultsSequences(t *testing.T) {
	r := &Results{}
	seqs := r.Sequences()

	require.Len(t, seqs, 4)
	assert.Equal(t, I32, seqs[0].Type)
	assert.Equal(t, I64, seqs[1].Type)
	assert.Equal(t, F32, seqs[2].Type)
	assert.Equal(t, F64, seqs[3].Type)

	// The sequences alias the underlying storage.
	*seqs[0].Results = append(*seqs[0].Results, testResult(I32, 0, 0, 1))
	assert.Equal(t, 1, r.Count())
}

func TestResultsSplice(t *testing.T) {
	a := &Results{i32s: []Result{testResult(I32, 0, 0, 1)}}
	b := &Results{
		i32s: []Result{testResult(I32, 1, 0, 2)},
		f64s: []Result{testResult(F64, 1, 8, 3)},
	}

	a.splice(b)
	assert.Equal(t, 3, a.Count())
	assert.Equal(t, byte(2), a.i32s[1].Value[0])
}
