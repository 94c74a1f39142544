package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/Toasterbirb/harava/pkg/scanner"
	"github.com/Toasterbirb/harava/utils"
	"github.com/urfave/cli"
)

var regions = cli.Command{
	Name:  "regions",
	Usage: "print the scannable memory regions of a process",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "stack",
			Usage: "only list the stack region",
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

		opts := scanner.DefaultOptions(pid)
		opts.StackScan = context.Bool("stack")

		s, err := scanner.New(pid, opts)
		if err != nil {
			return err
		}

		w := new(tabwriter.Writer)
		w.Init(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "id\trange\tsize")
		for _, region := range s.Regions() {
			fmt.Fprintf(w, "%d\t%x-%x\t%d\n", region.ID, region.Start, region.End, region.Size())
		}

		return w.Flush()
	},
}
