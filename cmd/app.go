package cmd

import "github.com/urfave/cli"

const (
	usage = `harava is an interactive memory scanner and editor. it finds numeric
             values in the writable memory of a running process, narrows them down
             through repeated comparisons and can overwrite the located cells`
)

func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "harava"
	app.Usage = usage
	app.Commands = []cli.Command{
		scan,
		regions,
	}

	return app
}
