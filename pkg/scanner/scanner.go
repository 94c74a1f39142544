package scanner

import (
	"fmt"
	"os"

	e "github.com/Toasterbirb/harava/error"
	"github.com/Toasterbirb/harava/pkg/logflags"
)

// Scanner owns the region map of one target process and performs all
// memory access against it. A scanner is constructed once per target
// and discarded on reset; region ids are stable for its lifetime.
type Scanner struct {
	pid      int
	procPath string
	memPath  string
	regions  []*Region

	// newMemory hands each worker its own handle on the target
	// memory. Swapped out by tests.
	newMemory func() (Memory, error)

	log logflags.Logger
}

// New discovers the scannable regions of pid and returns a scanner
// over them.
func New(pid int, opts Options) (*Scanner, error) {
	s := &Scanner{
		pid:      pid,
		procPath: fmt.Sprintf("/proc/%d", pid),
		log:      logflags.ScannerLogger(),
	}
	s.memPath = s.procPath + "/mem"
	s.newMemory = s.openMemory

	mapsPath := s.procPath + "/maps"
	maps, err := os.Open(mapsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", e.HandleUnopenable, mapsPath, err)
	}
	defer maps.Close()

	regions, err := parseRegions(maps, opts.StackScan)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %v", mapsPath, err)
	}

	if len(regions) == 0 {
		return nil, e.NoSuitableRegions
	}

	s.regions = regions
	s.log.Debugf("found %d suitable regions", len(regions))

	return s, nil
}

func (s *Scanner) RegionCount() int {
	return len(s.regions)
}

// Regions returns the discovered regions in id order. The returned
// slice is shared; callers must treat it as read only.
func (s *Scanner) Regions() []*Region {
	return s.regions
}

// region resolves a region id. Ids are assigned densely from zero, so
// this is an index lookup.
func (s *Scanner) region(id uint16) *Region {
	if int(id) >= len(s.regions) {
		return nil
	}
	return s.regions[id]
}

// openMemory prefers the mem file and falls back to the process_vm
// syscalls when it cannot be opened. Some hardened kernels deny the
// file while still allowing the syscalls for same-uid targets.
func (s *Scanner) openMemory() (Memory, error) {
	m, err := openMemFile(s.memPath)
	if err != nil {
		s.log.Debugf("%v, falling back to process_vm", err)
		return vmMemory{pid: s.pid}, nil
	}
	return m, nil
}

// trimRegions narrows each region referenced by results down to just
// past its highest surviving candidate, so the next snapshot reads
// fewer bytes. Purely an optimisation; every surviving offset stays in
// range.
func (s *Scanner) trimRegions(results *Results) {
	high := make(map[uint16]uint64)
	for _, seq := range results.Sequences() {
		for i := range *seq.Results {
			r := &(*seq.Results)[i]
			if end := uint64(r.Offset) + maxTypeSize; end > high[r.RegionID] {
				high[r.RegionID] = end
			}
		}
	}

	for id, end := range high {
		region := s.region(id)
		if region == nil {
			continue
		}
		if trimmed := region.Start + end; trimmed < region.End {
			region.End = trimmed
		}
	}
}
