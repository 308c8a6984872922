package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/wcraigtrader/wbc/calendar"
)

var List = cli.Command{
	Name:  "list",
	Usage: "Lists stored snapshots, or the events of one snapshot",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "tag",
			Usage: "The snapshot to list",
		},
		&cli.StringFlag{
			Name:  "code",
			Usage: "Limit listing to one tournament code",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
	},
	Action: listSnapshots,
}

func listSnapshots(c *cli.Context) error {
	l := Logger(c.Bool("debug"))
	st := openStore(c, l)

	tag := c.String("tag")
	if tag == "" {
		tags, err := st.Tags()
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Println("no snapshots stored")
			return nil
		}
		for _, t := range tags {
			fmt.Println(t)
		}
		return nil
	}

	entries, err := st.LoadSnapshot(tag)
	if err != nil {
		return err
	}
	if code := c.String("code"); code != "" {
		if entries, err = st.LoadCode(tag, code); err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		fmt.Println("nothing found")
		return nil
	}
	calendar.SortEntries(entries)
	for _, e := range entries {
		loc := ""
		if e.Location != "" {
			loc = " @ " + e.Location
		}
		fmt.Printf("[%s] %s - %s %s%s\n",
			e.Code,
			e.Start.Format("2006-01-02 15:04"),
			e.End.Format("15:04 MST"),
			e.Summary,
			loc)
	}
	return nil
}
