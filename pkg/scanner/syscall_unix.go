package scanner

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// vmMemory reads and writes the target through the process_vm
// syscalls. They address remote memory directly by pid, need no open
// descriptor and carry the offset per call, which makes them a drop-in
// fallback when /proc/<pid>/mem cannot be opened.
type vmMemory struct {
	pid int
}

func (m vmMemory) ReadMemory(buf []byte, addr uint64) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	localIov := []unix.Iovec{
		{
			Base: &buf[0],
			Len:  uint64(len(buf)),
		},
	}

	remoteIov := []unix.RemoteIovec{
		{
			Base: uintptr(addr),
			Len:  len(buf),
		},
	}

	return unix.ProcessVMReadv(m.pid, localIov, remoteIov, 0)
}

func (m vmMemory) WriteMemory(addr uint64, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}

	localIov := []unix.Iovec{
		{
			Base: &data[0],
			Len:  uint64(len(data)),
		},
	}

	remoteIov := []unix.RemoteIovec{
		{
			Base: uintptr(addr),
			Len:  len(data),
		},
	}

	return unix.ProcessVMWritev(m.pid, localIov, remoteIov, 0)
}

func (m vmMemory) String() string {
	return fmt.Sprintf("process_vm(%d)", m.pid)
}
