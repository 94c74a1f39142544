package scanner

import (
	"bytes"
	"encoding/binary"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	e "github.com/Toasterbirb/harava/error"
)

const gigabyte = 1_000_000_000

// settleDelay is how long a region gets to settle between the two
// snapshots taken in skip-volatile mode.
const settleDelay = 100 * time.Millisecond

// Scan sweeps every enabled region and collects, for each enabled
// type, the offsets whose interpreted value satisfies the comparison
// against the user value. Regions are processed in parallel; when the
// aggregate grows past the memory limit the remaining regions are
// cancelled cooperatively and the partial set is returned.
func (s *Scanner) Scan(opts Options, filter TypeFilter, value Bundle, comparison Comparison) (*Results, error) {
	if !value.Valid {
		return nil, e.ParseInvalid
	}

	aggregate := &Results{}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		cancel  atomic.Bool
		scanErr atomic.Pointer[error]
	)

	fail := func(err error) {
		if scanErr.CompareAndSwap(nil, &err) {
			cancel.Store(true)
		}
	}

	// Buffered so the dispatch below never blocks even if every
	// worker bails out early.
	regionCh := make(chan *Region, len(s.regions))

	workers := runtime.NumCPU()
	if workers > len(s.regions) {
		workers = len(s.regions)
	}
	if workers < 1 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			mem, err := s.newMemory()
			if err != nil {
				fail(err)
				return
			}
			defer closeMemory(mem)

			for region := range regionCh {
				if cancel.Load() {
					continue
				}

				local, err := s.scanRegion(mem, region, opts, filter, value, comparison)
				if err != nil {
					fail(err)
					continue
				}

				if local.Count() == 0 {
					region.Ignored = true
					continue
				}

				mu.Lock()
				aggregate.splice(local)
				over := aggregate.TotalBytes() > opts.MemoryLimit*gigabyte
				mu.Unlock()

				if over && !cancel.Swap(true) {
					s.log.Warnf("memory limit of %dGB has been reached, stopping the scan", opts.MemoryLimit)
				}
			}
		}()
	}

	for _, region := range s.regions {
		if region.Ignored {
			continue
		}
		regionCh <- region
	}
	close(regionCh)
	wg.Wait()

	if errp := scanErr.Load(); errp != nil {
		return nil, *errp
	}

	return aggregate, nil
}

// scanRegion snapshots one region and filters every offset through the
// enabled types. All candidate interpretations are byte copies of the
// 8-byte window at the offset, in host byte order.
func (s *Scanner) scanRegion(mem Memory, region *Region, opts Options, filter TypeFilter, value Bundle, comparison Comparison) (*Results, error) {
	image, err := readRegion(mem, region)
	if err != nil {
		return nil, err
	}

	if opts.SkipNullRegions && allZero(image) {
		return &Results{}, nil
	}

	// A second snapshot after a settling delay exposes the offsets
	// that mutate on their own. Those never hold values the user can
	// reason about, so drop them when asked to.
	var settled []byte
	if opts.SkipVolatile {
		time.Sleep(settleDelay)
		settled, err = readRegion(mem, region)
		if err != nil {
			return nil, err
		}
	}

	local := &Results{}

	for i := 0; i < len(image)-maxTypeSize; i++ {
		window := image[i : i+maxTypeSize]

		if settled != nil && !bytes.Equal(window, settled[i:i+maxTypeSize]) {
			continue
		}

		offset := uint32(i)

		if filter.I32 {
			observed := int32(binary.NativeEndian.Uint32(window))
			if !(opts.SkipZeroes && observed == 0) && compare(value.I32, observed, comparison) {
				local.i32s = append(local.i32s, newResult(I32, region.ID, offset, window))
			}
		}

		if filter.I64 {
			observed := int64(binary.NativeEndian.Uint64(window))
			if !(opts.SkipZeroes && observed == 0) && compare(value.I64, observed, comparison) {
				local.i64s = append(local.i64s, newResult(I64, region.ID, offset, window))
			}
		}

		if filter.F32 {
			observed := math.Float32frombits(binary.NativeEndian.Uint32(window))
			if !(opts.SkipZeroes && observed == 0) && compare(value.F32, observed, comparison) {
				local.f32s = append(local.f32s, newResult(F32, region.ID, offset, window))
			}
		}

		if filter.F64 {
			observed := math.Float64frombits(binary.NativeEndian.Uint64(window))
			if !(opts.SkipZeroes && observed == 0) && compare(value.F64, observed, comparison) {
				local.f64s = append(local.f64s, newResult(F64, region.ID, offset, window))
			}
		}
	}

	return local, nil
}

func allZero(image []byte) bool {
	for _, b := range image {
		if b != 0 {
			return false
		}
	}
	return true
}
