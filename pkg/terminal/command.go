package terminal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Toasterbirb/harava/pkg/logflags"
	"github.com/Toasterbirb/harava/pkg/scanner"
	"github.com/google/shlex"
)

const (
	scanDurationStr        = "scan duration: "
	doInitialScanNotifStr  = "do an initial scan first"
	argumentsErr           = "invalid number of arguments, expected %d, actual %d"
	repeatDelay            = 100 * time.Millisecond
	sameResultStreakCutoff = 3
)

type cmdFn func(term *Term, args []string) error

type command struct {
	aliases []string
	argDesc string
	fn      cmdFn
	help    string
}

func (c command) match(cmdstr string) bool {
	for _, v := range c.aliases {
		if v == cmdstr {
			return true
		}
	}
	return false
}

type Commands struct {
	cmds    []command
	session *Session
	log     logflags.Logger
}

func NewCommands(session *Session) *Commands {
	c := &Commands{
		session: session,
		log:     logflags.ShellLogger(),
	}

	c.cmds = []command{
		{
			aliases: []string{"help", "h"},
			fn:      c.help,
			help:    "show help",
		},
		{
			aliases: []string{"quit", "exit", "q"},
			fn:      quit,
			help:    "quit the program",
		},
		{
			aliases: []string{"reset"},
			fn:      c.reset,
			help:    "drop all results and rescan the region map",
		},
		{
			aliases: []string{"="},
			argDesc: "[value]",
			fn:      c.equal,
			help: `find matching values

With a value, finds cells equal to it (the first use scans, later
uses refine). Without a value, keeps the results whose bytes have
not changed since the last scan.`,
		},
		{
			aliases: []string{"!"},
			fn:      c.changed,
			help:    "find values that have changed since last scan",
		},
		{
			aliases: []string{"<"},
			argDesc: "[value]",
			fn:      c.relational(scanner.Lt),
			help:    "find values lower than the given value",
		},
		{
			aliases: []string{"<="},
			argDesc: "[value]",
			fn:      c.relational(scanner.Le),
			help:    "find values lower than or equal to the given value",
		},
		{
			aliases: []string{">"},
			argDesc: "[value]",
			fn:      c.relational(scanner.Gt),
			help:    "find values higher than the given value",
		},
		{
			aliases: []string{">="},
			argDesc: "[value]",
			fn:      c.relational(scanner.Ge),
			help:    "find values higher than or equal to the given value",
		},
		{
			aliases: []string{"repeat"},
			argDesc: "[!|=] [count]",
			fn:      c.repeat,
			help: `repeat a change comparison

With a count, runs the comparison up to count times with a slight
delay and stops early once the result count settles. Without a
count, repeats until the result count stops changing.`,
		},
		{
			aliases: []string{"list", "ls"},
			fn:      c.list,
			help:    "list out all results found so far",
		},
		{
			aliases: []string{"set"},
			argDesc: "[index] [value]",
			fn:      c.set,
			help:    "set a new value for a result",
		},
		{
			aliases: []string{"setall"},
			argDesc: "[value]",
			fn:      c.setall,
			help:    "set a new value for all results",
		},
		{
			aliases: []string{"types"},
			argDesc: "[i32|i64|f32|f64 ...]",
			fn:      c.types,
			help:    "list or specify the types that should be searched for",
		},
	}
	return c
}

// Find will look up the command function for the given command input.
// If it cannot find the command it will default to noCmdAvailable().
func (c *Commands) Find(cmdstr string) command {
	for _, v := range c.cmds {
		if v.match(cmdstr) {
			return v
		}
	}

	return command{aliases: []string{"nocmd"}, fn: noCmdAvailable}
}

func (c *Commands) Call(cmdStr string, t *Term) error {
	name, argStr, _ := strings.Cut(cmdStr, " ")

	args, err := shlex.Split(argStr)
	if err != nil {
		return err
	}

	c.log.Debugf("dispatching %q with %d args", name, len(args))

	return c.Find(name).fn(t, args)
}

func (c *Commands) help(t *Term, args []string) error {
	fmt.Fprintln(t.stdout, "The following commands are available:")
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 2, ' ', 0)
	for _, cmd := range c.cmds {
		h := cmd.help
		if idx := strings.Index(h, "\n"); idx >= 0 {
			h = h[:idx]
		}

		name := cmd.aliases[0]
		if cmd.argDesc != "" {
			name += " " + cmd.argDesc
		}

		if len(cmd.aliases) > 1 {
			fmt.Fprintf(w, "    %s (alias: %s) \t %s\n", name, strings.Join(cmd.aliases[1:], " | "), h)
		} else {
			fmt.Fprintf(w, "    %s \t %s\n", name, h)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(t.stdout)
	return nil
}

func (c *Commands) reset(t *Term, args []string) error {
	if err := c.session.Reset(); err != nil {
		return err
	}

	fmt.Fprintf(t.stdout, "found %d suitable regions\n", c.session.scan.RegionCount())
	return nil
}

// equal doubles as the relational EQ scan and, with no arguments, the
// "kept its bytes" change refinement.
func (c *Commands) equal(t *Term, args []string) error {
	if len(args) == 0 {
		return c.change(t, true)
	}

	return c.relational(scanner.Eq)(t, args)
}

func (c *Commands) changed(t *Term, args []string) error {
	return c.change(t, false)
}

func (c *Commands) relational(comparison scanner.Comparison) cmdFn {
	return func(t *Term, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf(argumentsErr, 1, len(args))
		}

		value := scanner.ParseBundle(args[0])
		if !value.Valid {
			fmt.Fprintf(t.stdout, "invalid value: %s\n", args[0])
			return nil
		}

		s := c.session

		defer newScopeTimer(t.stdout, scanDurationStr).stop()

		var (
			results *scanner.Results
			err     error
		)

		if s.first {
			results, err = s.scan.Scan(s.opts, s.filter, value, comparison)
		} else {
			results, err = s.scan.RefineRelational(value, s.results, comparison)
		}
		if err != nil {
			return err
		}

		s.results = results
		s.first = false
		printResultCount(t, results)

		return nil
	}
}

func (c *Commands) change(t *Term, expectedUnchanged bool) error {
	s := c.session

	if s.first {
		fmt.Fprintln(t.stdout, doInitialScanNotifStr)
		return nil
	}

	defer newScopeTimer(t.stdout, scanDurationStr).stop()

	results, err := s.scan.RefineChange(s.results, expectedUnchanged)
	if err != nil {
		return err
	}

	s.results = results
	printResultCount(t, results)

	return nil
}

func (c *Commands) repeat(t *Term, args []string) error {
	if len(args) != 1 && len(args) != 2 {
		return fmt.Errorf(argumentsErr, 1, len(args))
	}

	s := c.session

	if s.first {
		fmt.Fprintln(t.stdout, doInitialScanNotifStr)
		return nil
	}

	var expectedUnchanged bool
	switch args[0] {
	case "=":
		expectedUnchanged = true
	case "!":
		expectedUnchanged = false
	default:
		fmt.Fprintf(t.stdout, "unimplemented repeat comparison: %s\n", args[0])
		return nil
	}

	refine := func() error {
		defer newScopeTimer(t.stdout, scanDurationStr).stop()

		results, err := s.scan.RefineChange(s.results, expectedUnchanged)
		if err != nil {
			return err
		}

		s.results = results
		printResultCount(t, results)
		return nil
	}

	if len(args) == 2 {
		count, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(t.stdout, "invalid argument: %s\n", args[1])
			return nil
		}
		if count < 1 {
			count = 1
		}

		previousResultCount := s.results.Count()
		sameResultStreak := 0

		for i := 0; i < count; i++ {
			if err := refine(); err != nil {
				return err
			}

			if s.results.Count() == previousResultCount {
				sameResultStreak++
			} else {
				sameResultStreak = 0
			}

			previousResultCount = s.results.Count()

			if sameResultStreak >= sameResultStreakCutoff {
				fmt.Fprintln(t.stdout, "stopping the repeat check as it doesn't seem to help")
				break
			}

			time.Sleep(repeatDelay)
		}

		return nil
	}

	previousResultCount := -1
	for previousResultCount != s.results.Count() {
		previousResultCount = s.results.Count()

		if err := refine(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Commands) list(t *Term, args []string) error {
	s := c.session

	counter := 0
	for _, seq := range s.results.Sequences() {
		for i := range *seq.Results {
			r := &(*seq.Results)[i]

			value, err := s.scan.FormatValue(r)
			if err != nil {
				value = fmt.Sprintf("<%v>", err)
			}

			fmt.Fprintf(t.stdout, "[%d] %5x | %s | %s\n", counter, r.Offset, r.Type, value)
			counter++
		}
	}

	return nil
}

func (c *Commands) set(t *Term, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf(argumentsErr, 2, len(args))
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(t.stdout, "invalid argument: %s\n", args[0])
		return nil
	}

	value := scanner.ParseBundle(args[1])
	if !value.Valid {
		fmt.Fprintf(t.stdout, "invalid value: %s\n", args[1])
		return nil
	}

	result := c.session.results.At(index)
	if result == nil {
		fmt.Fprintf(t.stdout, "no result with index %d\n", index)
		return nil
	}

	if err := c.session.scan.Set(result, value); err != nil {
		fmt.Fprintf(t.stdout, "%v\n", err)
	}

	return nil
}

func (c *Commands) setall(t *Term, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf(argumentsErr, 1, len(args))
	}

	value := scanner.ParseBundle(args[0])
	if !value.Valid {
		fmt.Fprintf(t.stdout, "invalid value: %s\n", args[0])
		return nil
	}

	failed := 0
	for _, seq := range c.session.results.Sequences() {
		for i := range *seq.Results {
			if err := c.session.scan.Set(&(*seq.Results)[i], value); err != nil {
				c.log.Warnf("%v", err)
				failed++
			}
		}
	}

	if failed > 0 {
		fmt.Fprintf(t.stdout, "failed to write %d results\n", failed)
	}

	return nil
}

func (c *Commands) types(t *Term, args []string) error {
	s := c.session

	if len(args) == 0 {
		for _, name := range s.filter.Enabled() {
			fmt.Fprintln(t.stdout, name)
		}
		return nil
	}

	if args[0] == "all" {
		s.filter = scanner.AllTypes()
		return nil
	}

	var filter scanner.TypeFilter
	for _, name := range args {
		enabled := typeFlag(&filter, name)
		if enabled == nil {
			fmt.Fprintf(t.stdout, "invalid type: %s\n", name)
			return nil
		}
		*enabled = true
	}

	s.filter = filter
	return nil
}

// typeFlag maps a type label to its filter field to make the arg
// parsing simpler.
func typeFlag(f *scanner.TypeFilter, name string) *bool {
	switch name {
	case "i32":
		return &f.I32
	case "i64":
		return &f.I64
	case "f32":
		return &f.F32
	case "f64":
		return &f.F64
	}
	return nil
}

func printResultCount(t *Term, results *scanner.Results) {
	fmt.Fprintf(t.stdout, "results: %d\n", results.Count())
}

type ExitRequestError struct{}

func (ere ExitRequestError) Error() string {
	return ""
}

func quit(t *Term, args []string) error {
	return ExitRequestError{}
}

var errNoCmd = errors.New("command not available")

func noCmdAvailable(t *Term, args []string) error {
	return errNoCmd
}
