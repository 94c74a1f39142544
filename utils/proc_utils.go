package utils

import (
	"strconv"

	"github.com/shirou/gopsutil/v4/process"
)

// CheckPid reports whether pid names a running process.
func CheckPid(pid string) bool {
	p, err := strconv.ParseInt(pid, 10, 32)
	if err != nil {
		return false
	}

	exists, err := process.PidExists(int32(p))
	return err == nil && exists
}

// ProcessName returns the short name of the process, or an empty
// string when it cannot be resolved.
func ProcessName(pid int) string {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return ""
	}

	name, err := p.Name()
	if err != nil {
		return ""
	}

	return name
}
