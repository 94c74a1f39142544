package scanner

import "bytes"

// Result is one located candidate: a typed offset inside a region
// together with the byte image of the value as it was last observed.
// Results reference their region by id only.
type Result struct {
	Value    [maxTypeSize]byte
	Offset   uint32
	RegionID uint16
	Type     Type
}

func newResult(t Type, regionID uint16, offset uint32, window []byte) Result {
	r := Result{
		Offset:   offset,
		RegionID: regionID,
		Type:     t,
	}
	copy(r.Value[:], window)
	return r
}

// matchesImage reports whether the leading Size bytes of the stored
// value are byte-identical to the region image at the result's offset.
// Byte equality is deliberate: two NaN payloads or two encodings of the
// same mathematical value count as a change.
func (r *Result) matchesImage(image []byte) bool {
	size := r.Type.Size()
	return bytes.Equal(r.Value[:size], image[r.Offset:int(r.Offset)+size])
}

// Sequence pairs one of the four per-type result slices with its tag.
type Sequence struct {
	Type    Type
	Results *[]Result
}

// Results keeps the candidates of a scan in four parallel sequences,
// one per numeric type, in the fixed order i32, i64, f32, f64. Flat
// indices span the sequences in that order.
type Results struct {
	i32s []Result
	i64s []Result
	f32s []Result
	f64s []Result
}

func (r *Results) Sequences() [4]Sequence {
	return [4]Sequence{
		{I32, &r.i32s},
		{I64, &r.i64s},
		{F32, &r.f32s},
		{F64, &r.f64s},
	}
}

func (r *Results) Count() int {
	return len(r.i32s) + len(r.i64s) + len(r.f32s) + len(r.f64s)
}

// TotalBytes is the aggregate width of all stored values, used for
// memory budgeting during the initial scan.
func (r *Results) TotalBytes() uint64 {
	return uint64(len(r.i32s))*uint64(I32.Size()) +
		uint64(len(r.i64s))*uint64(I64.Size()) +
		uint64(len(r.f32s))*uint64(F32.Size()) +
		uint64(len(r.f64s))*uint64(F64.Size())
}

// At addresses a result by its flat index. Out of range indices return
// nil instead of panicking.
func (r *Results) At(index int) *Result {
	if index < 0 {
		return nil
	}

	for _, seq := range r.Sequences() {
		if index < len(*seq.Results) {
			return &(*seq.Results)[index]
		}
		index -= len(*seq.Results)
	}

	return nil
}

func (r *Results) Clear() {
	r.i32s = nil
	r.i64s = nil
	r.f32s = nil
	r.f64s = nil
}

// splice appends all sequences of other to r. Used to join the
// region-local results into the aggregate under the scan mutex.
func (r *Results) splice(other *Results) {
	r.i32s = append(r.i32s, other.i32s...)
	r.i64s = append(r.i64s, other.i64s...)
	r.f32s = append(r.f32s, other.f32s...)
	r.f64s = append(r.f64s, other.f64s...)
}
