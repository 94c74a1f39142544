package scanner

import (
	"errors"
	"io"
	"sync"

	"github.com/Toasterbirb/harava/pkg/logflags"
)

// fakeMemory backs a scanner with an in-process byte slice so scans,
// refinements and writes can run against synthetic regions.
type fakeMemory struct {
	mu         sync.Mutex
	base       uint64
	data       []byte
	failReads  bool
	failWrites bool

	// afterRead mutates data after every successful read, to fake a
	// target that changes between snapshots.
	afterRead func(data []byte)
}

func (m *fakeMemory) ReadMemory(buf []byte, addr uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failReads {
		return 0, errors.New("no such process")
	}

	off := int(addr - m.base)
	if off < 0 || off >= len(m.data) {
		return 0, io.EOF
	}

	n := copy(buf, m.data[off:])

	if m.afterRead != nil {
		m.afterRead(m.data)
	}

	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

func (m *fakeMemory) WriteMemory(addr uint64, data []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrites {
		return 0, errors.New("input/output error")
	}

	off := int(addr - m.base)
	if off < 0 || off+len(data) > len(m.data) {
		return 0, io.ErrShortWrite
	}

	return copy(m.data[off:], data), nil
}

func (m *fakeMemory) poke(offset int, data ...byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.data[offset:], data)
}

// newTestScanner builds a scanner over the given regions whose memory
// access goes through mem instead of a live process.
func newTestScanner(mem Memory, regions ...*Region) *Scanner {
	return &Scanner{
		pid:       1,
		procPath:  "/proc/1",
		memPath:   "/proc/1/mem",
		regions:   regions,
		newMemory: func() (Memory, error) { return mem, nil },
		log:       logflags.ScannerLogger(),
	}
}

const testBase = 0x7f0000000000

// singleRegion wires one region of the given bytes at testBase.
func singleRegion(data []byte) (*fakeMemory, *Scanner) {
	mem := &fakeMemory{base: testBase, data: data}
	region := &Region{ID: 0, Start: testBase, End: testBase + uint64(len(data))}
	return mem, newTestScanner(mem, region)
}

// i32Cells builds a buffer of n int32 cells holding value.
func i32Cells(value int32, n int) []byte {
	cell := Bundle{I32: value, Valid: true}.bytes(I32)

	buf := make([]byte, 0, n*len(cell))
	for i := 0; i < n; i++ {
		buf = append(buf, cell...)
	}
	return buf
}
