package cmd

import (
	"fmt"
	"strconv"

	"github.com/Toasterbirb/harava/pkg/logflags"
	"github.com/Toasterbirb/harava/pkg/scanner"
	"github.com/Toasterbirb/harava/pkg/terminal"
	"github.com/Toasterbirb/harava/utils"
	"github.com/urfave/cli"
)

var scan = cli.Command{
	Name:  "scan",
	Usage: "open the interactive scan shell against a process",
	Flags: []cli.Flag{
		cli.Uint64Flag{
			Name:  "memory-limit, m",
			Usage: "rough maximum amount of memory to use in gigabytes",
			Value: scanner.DefaultOptions(0).MemoryLimit,
		},
		cli.BoolFlag{
			Name:  "skip-volatile",
			Usage: "ignore memory addresses that seem to change on their own",
		},
		cli.BoolFlag{
			Name:  "skip-zeroes",
			Usage: "ignore values that are zero during the initial scan",
		},
		cli.BoolFlag{
			Name:  "skip-null-regions",
			Usage: "skip memory regions that contain only zeroes",
		},
		cli.BoolFlag{
			Name:  "stack",
			Usage: "only scan the stack region",
		},
		cli.BoolFlag{
			Name:  "logFlag, f",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "logStr, s",
			Usage: "comma separated list of log layers (scanner,shell)",
			Value: "scanner",
		},
		cli.StringFlag{
			Name:  "logDesc, d",
			Usage: "specify the log file path",
			Value: logflags.DefaultLogDesc,
		},
	},
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 1, utils.ExactArgs, pidArgCheck); err != nil {
			return err
		}

		pid, err := strconv.Atoi(context.Args().First())
		if err != nil {
			return err
		}

		if err := logflags.Setup(context.Bool("logFlag"), context.String("logStr"), context.String("logDesc")); err != nil {
			return err
		}

		opts := scanner.Options{
			Pid:             pid,
			MemoryLimit:     context.Uint64("memory-limit"),
			SkipVolatile:    context.Bool("skip-volatile"),
			SkipZeroes:      context.Bool("skip-zeroes"),
			SkipNullRegions: context.Bool("skip-null-regions"),
			StackScan:       context.Bool("stack"),
		}

		s, err := scanner.New(pid, opts)
		if err != nil {
			return err
		}

		if name := utils.ProcessName(pid); name != "" {
			fmt.Printf("scanning %s (pid %d)\n", name, pid)
		}
		fmt.Printf("found %d suitable regions\n", s.RegionCount())

		term := terminal.New(terminal.NewSession(s, opts))
		return term.Run()
	},
}

func pidArgCheck(args cli.Args) error {
	pid := args.First()
	if !utils.CheckPid(pid) {
		return fmt.Errorf("pid %s does not exist", pid)
	}

	return nil
}
