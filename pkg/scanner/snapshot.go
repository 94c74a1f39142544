package scanner

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// regionSnapshot is the full byte image of one region at a single
// instant. Snapshots live only for the duration of a refinement call.
type regionSnapshot struct {
	region *Region
	image  []byte
}

// snapshotRegions reads every region referenced by results exactly
// once and returns the images keyed by region id. Reads run in
// parallel, each worker on its own memory handle. Any failed read
// fails the whole snapshot.
func (s *Scanner) snapshotRegions(results *Results) (map[uint16]*regionSnapshot, error) {
	var ids []uint16
	seen := make(map[uint16]bool)
	for _, seq := range results.Sequences() {
		for i := range *seq.Results {
			id := (*seq.Results)[i].RegionID
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	cache := make(map[uint16]*regionSnapshot, len(ids))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		snapErr atomic.Pointer[error]
	)

	idCh := make(chan uint16, len(ids))
	for _, id := range ids {
		idCh <- id
	}
	close(idCh)

	workers := runtime.NumCPU()
	if workers > len(ids) {
		workers = len(ids)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			mem, err := s.newMemory()
			if err != nil {
				snapErr.CompareAndSwap(nil, &err)
				return
			}
			defer closeMemory(mem)

			for id := range idCh {
				if snapErr.Load() != nil {
					continue
				}

				region := s.region(id)
				image, err := readRegion(mem, region)
				if err != nil {
					snapErr.CompareAndSwap(nil, &err)
					continue
				}

				mu.Lock()
				cache[id] = &regionSnapshot{region: region, image: image}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if errp := snapErr.Load(); errp != nil {
		return nil, *errp
	}

	return cache, nil
}
