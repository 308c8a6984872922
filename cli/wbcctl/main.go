package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/wcraigtrader/wbc/internal/cmd"
)

var version = "(unknown)"

func main() {
	var err error

	ctl := cli.App{
		Name:    "wbcctl",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "The path for storage",
				Value: ".",
			},
		},
		Commands: []cli.Command{
			cmd.Build,
			cmd.Publish,
			cmd.DiffCmd,
			cmd.List,
		},
	}

	err = ctl.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
