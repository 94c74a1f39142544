package scanner

import (
	"encoding/binary"
	"math"
	"sync"

	e "github.com/Toasterbirb/harava/error"
	"golang.org/x/exp/constraints"
)

// RefineRelational re-evaluates every candidate of old against a new
// user value and comparison, reading the target through a snapshot
// cache so each region is read at most once. Survivors carry the
// freshly observed bytes as their new stored value. The four per-type
// streams are independent and run in parallel.
func (s *Scanner) RefineRelational(value Bundle, old *Results, comparison Comparison) (*Results, error) {
	if !value.Valid {
		return nil, e.ParseInvalid
	}

	cache, err := s.snapshotRegions(old)
	if err != nil {
		return nil, err
	}

	results := &Results{}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		refineScalars(old.i32s, &results.i32s, value.I32, decodeI32, cache, comparison)
	}()
	go func() {
		defer wg.Done()
		refineScalars(old.i64s, &results.i64s, value.I64, decodeI64, cache, comparison)
	}()
	go func() {
		defer wg.Done()
		refineScalars(old.f32s, &results.f32s, value.F32, decodeF32, cache, comparison)
	}()
	go func() {
		defer wg.Done()
		refineScalars(old.f64s, &results.f64s, value.F64, decodeF64, cache, comparison)
	}()
	wg.Wait()

	s.trimRegions(results)

	return results, nil
}

// refineScalars walks one per-type sequence and keeps the candidates
// whose current value still satisfies the comparison, refreshing their
// stored bytes from the snapshot.
func refineScalars[T constraints.Ordered](old []Result, dst *[]Result, user T, decode func([]byte) T, cache map[uint16]*regionSnapshot, comparison Comparison) {
	for _, r := range old {
		snapshot := cache[r.RegionID]
		current := snapshot.image[r.Offset : int(r.Offset)+r.Type.Size()]

		if compare(user, decode(current), comparison) {
			copy(r.Value[:], current)
			*dst = append(*dst, r)
		}
	}
}

// RefineChange keeps the candidates whose current bytes are equal
// (expectedUnchanged) or unequal (!expectedUnchanged) to their stored
// bytes, compared byte-exactly. Stored bytes are left alone so that a
// later change refinement still compares against the same baseline.
func (s *Scanner) RefineChange(old *Results, expectedUnchanged bool) (*Results, error) {
	cache, err := s.snapshotRegions(old)
	if err != nil {
		return nil, err
	}

	results := &Results{}
	oldSeqs := old.Sequences()
	newSeqs := results.Sequences()

	var wg sync.WaitGroup
	wg.Add(len(oldSeqs))
	for i := range oldSeqs {
		go func(i int) {
			defer wg.Done()
			for _, r := range *oldSeqs[i].Results {
				if r.matchesImage(cache[r.RegionID].image) == expectedUnchanged {
					*newSeqs[i].Results = append(*newSeqs[i].Results, r)
				}
			}
		}(i)
	}
	wg.Wait()

	s.trimRegions(results)

	return results, nil
}

func decodeI32(b []byte) int32 {
	return int32(binary.NativeEndian.Uint32(b))
}

func decodeI64(b []byte) int64 {
	return int64(binary.NativeEndian.Uint64(b))
}

func decodeF32(b []byte) float32 {
	return math.Float32frombits(binary.NativeEndian.Uint32(b))
}

func decodeF64(b []byte) float64 {
	return math.Float64frombits(binary.NativeEndian.Uint64(b))
}
