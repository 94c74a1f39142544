package scanner

// Options configure region discovery and the initial scan.
type Options struct {
	Pid int

	// MemoryLimit is a soft ceiling in gigabytes on the aggregate
	// size of stored candidate values. When a scan grows past it, no
	// further regions are dispatched.
	MemoryLimit uint64

	// SkipVolatile double-snapshots each region and ignores offsets
	// whose bytes changed between the two reads.
	SkipVolatile bool

	// SkipZeroes ignores offsets whose interpreted value is zero.
	SkipZeroes bool

	// SkipNullRegions skips regions whose image is entirely zero.
	SkipNullRegions bool

	// StackScan restricts region discovery to the [stack] mapping.
	StackScan bool
}

// DefaultOptions returns the options used when no flags are given.
func DefaultOptions(pid int) Options {
	return Options{
		Pid:         pid,
		MemoryLimit: 8,
	}
}

// TypeFilter selects which numeric widths a scan should consider.
type TypeFilter struct {
	I32 bool
	I64 bool
	F32 bool
	F64 bool
}

// AllTypes enables every supported width.
func AllTypes() TypeFilter {
	return TypeFilter{I32: true, I64: true, F32: true, F64: true}
}

// Enabled lists the labels of the enabled types in declaration order.
func (f TypeFilter) Enabled() []string {
	var enabled []string
	if f.I32 {
		enabled = append(enabled, I32.String())
	}
	if f.I64 {
		enabled = append(enabled, I64.String())
	}
	if f.F32 {
		enabled = append(enabled, F32.String())
	}
	if f.F64 {
		enabled = append(enabled, F64.String())
	}
	return enabled
}
