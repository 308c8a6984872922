package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/wcraigtrader/wbc/calendar"
)

var DiffCmd = cli.Command{
	Name:  "diff",
	Usage: "Compares two schedule revisions entry by entry",
	Flags: append(scheduleFlags,
		&cli.StringFlag{
			Name:  "old",
			Usage: "The stored snapshot tag to compare against",
		},
		&cli.StringFlag{
			Name:  "new",
			Usage: "A second stored tag; when empty the schedule file is interpreted instead",
		},
	),
	Action: diffSnapshots,
}

func diffSnapshots(c *cli.Context) error {
	l := Logger(c.Bool("debug"))

	oldTag := c.String("old")
	if oldTag == "" {
		return fmt.Errorf("an old snapshot tag is required")
	}

	st := openStore(c, l)
	old, err := st.LoadSnapshot(oldTag)
	if err != nil {
		return err
	}

	var latest []calendar.Entry
	newTag := c.String("new")
	if newTag != "" {
		if latest, err = st.LoadSnapshot(newTag); err != nil {
			return err
		}
	} else {
		out, _, err := buildOutput(c, l)
		if err != nil {
			return err
		}
		newTag, latest = out.Tag, out.All
	}

	d := calendar.Compare(oldTag, old, newTag, latest)
	if d.Empty() {
		l.Info("no changes", "old", oldTag, "new", newTag)
		return nil
	}
	d.Print(os.Stdout)
	return nil
}
