package scanner

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Region is one contiguous writable mapping of the target process.
// Regions are created once during discovery and live for the lifetime
// of the scanner; End may only move downward through trimming.
type Region struct {
	ID    uint16
	Start uint64
	End   uint64

	// Ignored marks regions that produced no results during a scan.
	// Later sweeps skip them.
	Ignored bool
}

func (r *Region) Size() uint64 {
	return r.End - r.Start
}

var (
	libRegex          = regexp.MustCompile(`\.so$`)
	libVersionedRegex = regexp.MustCompile(`\.so\.[.0-9]*$`)
)

// skipPathPrefixes are the canonical shared library, device and
// anonymous fd path families that never hold interesting values.
var skipPathPrefixes = []string{"/lib", "/usr/lib", "/dev", "/memfd"}

// skipLineSuffixes are matched against the full maps line because the
// backing paths can contain whitespace.
var skipLineSuffixes = []string{".dll", "wine64", "wine64-preloader", ".drv"}

// parseRegions reads a /proc/<pid>/maps style listing and keeps the
// writable mappings that are worth scanning. Region ids are assigned
// monotonically per call, so they are scoped to one scanner instance.
// A [stack] region is moved to the front so that a memory budget
// cutoff still covers the stack.
func parseRegions(r io.Reader, stackOnly bool) ([]*Region, error) {
	type mapping struct {
		start, end uint64
		stack      bool
	}

	var mappings []mapping

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		perms := fields[1]
		path := ""
		if len(fields) >= 6 {
			path = fields[5]
		}

		if stackOnly && path != "[stack]" {
			continue
		}

		if !strings.HasPrefix(perms, "rw") {
			continue
		}

		if prefixIn(path, skipPathPrefixes) || suffixIn(line, skipLineSuffixes) {
			continue
		}

		if libRegex.MatchString(path) || libVersionedRegex.MatchString(path) {
			continue
		}

		startStr, endStr, ok := strings.Cut(fields[0], "-")
		if !ok {
			continue
		}

		start, err := strconv.ParseUint(startStr, 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(endStr, 16, 64)
		if err != nil {
			continue
		}

		m := mapping{start: start, end: end, stack: path == "[stack]"}
		if m.stack {
			mappings = append([]mapping{m}, mappings...)
		} else {
			mappings = append(mappings, m)
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	regions := make([]*Region, 0, len(mappings))
	for i, m := range mappings {
		regions = append(regions, &Region{
			ID:    uint16(i),
			Start: m.start,
			End:   m.end,
		})
	}

	return regions, nil
}

func prefixIn(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func suffixIn(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
