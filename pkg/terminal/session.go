package terminal

import (
	"github.com/Toasterbirb/harava/pkg/scanner"
)

// Session is the state the shell commands operate on: the scanner for
// the current target, the enabled type filter and the result set of
// the most recent scan or refinement. The session owns the result set;
// scans and refinements replace it wholesale.
type Session struct {
	opts    scanner.Options
	scan    *scanner.Scanner
	filter  scanner.TypeFilter
	results *scanner.Results

	// first is true until an initial scan has run; relational
	// commands scan on first use and refine afterwards.
	first bool
}

func NewSession(scan *scanner.Scanner, opts scanner.Options) *Session {
	return &Session{
		opts:    opts,
		scan:    scan,
		filter:  scanner.AllTypes(),
		results: &scanner.Results{},
		first:   true,
	}
}

// Reset drops all results and rebuilds the scanner so the region map
// reflects the target's current mappings.
func (s *Session) Reset() error {
	scan, err := scanner.New(s.opts.Pid, s.opts)
	if err != nil {
		return err
	}

	s.scan = scan
	s.results = &scanner.Results{}
	s.first = true

	return nil
}
