package cmd

import (
	"github.com/urfave/cli"
)

var Publish = cli.Command{
	Name:   "publish",
	Usage:  "Interprets a schedule file and stores the snapshot for diffing and serving",
	Flags:  scheduleFlags,
	Action: publishSnapshot,
}

func publishSnapshot(c *cli.Context) error {
	l := Logger(c.Bool("debug"))

	out, _, err := buildOutput(c, l)
	if err != nil {
		return err
	}

	st := openStore(c, l)
	if err := st.SaveSnapshot(out.Tag, out.All); err != nil {
		return err
	}
	l.Info("snapshot published", "tag", out.Tag, "entries", len(out.All))
	return nil
}
