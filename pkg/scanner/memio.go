package scanner

import (
	"fmt"
	"io"
	"os"

	e "github.com/Toasterbirb/harava/error"
)

// Memory is an interface for reading or writing the target process
// memory. Implementations must be safe for concurrent positional use;
// scan workers each hold their own instance.
type Memory interface {
	// ReadMemory is just like io.ReaderAt.ReadAt with a uint64
	// offset so that all of 64-bit memory is addressable.
	ReadMemory(buf []byte, addr uint64) (n int, err error)
	WriteMemory(addr uint64, data []byte) (written int, err error)
}

// memFile accesses the target through its /proc/<pid>/mem file. ReadAt
// and WriteAt carry their own offset, so a single descriptor has no
// shared seek position to contend on.
type memFile struct {
	f *os.File
}

func openMemFile(path string) (*memFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", e.HandleUnopenable, path, err)
	}
	return &memFile{f: f}, nil
}

func (m *memFile) ReadMemory(buf []byte, addr uint64) (int, error) {
	return m.f.ReadAt(buf, int64(addr))
}

func (m *memFile) WriteMemory(addr uint64, data []byte) (int, error) {
	return m.f.WriteAt(data, int64(addr))
}

func (m *memFile) Close() error {
	return m.f.Close()
}

func closeMemory(m Memory) {
	if c, ok := m.(io.Closer); ok {
		c.Close()
	}
}

// readRegion reads the full byte image of a region. Anything short of
// the exact region size counts as a failed read.
func readRegion(m Memory, region *Region) ([]byte, error) {
	buf := make([]byte, region.Size())
	n, err := m.ReadMemory(buf, region.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: region %d [%#x-%#x): %v", e.RegionUnreadable, region.ID, region.Start, region.End, err)
	}
	if n != len(buf) {
		return nil, fmt.Errorf("%w: region %d: short read %d of %d bytes", e.RegionUnreadable, region.ID, n, len(buf))
	}
	return buf, nil
}
