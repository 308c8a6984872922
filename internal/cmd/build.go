package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli"

	"github.com/wcraigtrader/wbc/calendar"
)

// scheduleFlags are shared by every command that runs the interpretation
// pipeline over a schedule file.
var scheduleFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "schedule",
		Usage: "The schedule spreadsheet (CSV) to interpret",
	},
	&cli.StringFlag{
		Name:  "layout",
		Usage: "The spreadsheet layout profile",
		Value: "modern",
	},
	&cli.StringFlag{
		Name:  "delimiter",
		Usage: "The CSV field delimiter",
	},
	&cli.StringFlag{
		Name:  "codes",
		Usage: "The tournament code table (JSON)",
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "The display configuration (YAML)",
	},
	&cli.StringFlag{
		Name:  "previews",
		Usage: "A saved preview index page (HTML) to link event previews from",
	},
	&cli.StringFlag{
		Name:  "tag",
		Usage: "The snapshot tag, defaults to the schedule file name",
	},
	&cli.BoolFlag{
		Name:  "debug",
		Usage: "Output debug messages",
	},
}

var Build = cli.Command{
	Name:  "build",
	Usage: "Interprets a schedule file and writes the calendar feeds",
	Flags: append(scheduleFlags,
		&cli.StringFlag{
			Name:  "output",
			Usage: "Directory to write the .ics files into",
			Value: ".",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Interpret and report, but write nothing",
		},
	),
	Action: buildCalendars,
}

func buildCalendars(c *cli.Context) error {
	l := Logger(c.Bool("debug"))

	out, rep, err := buildOutput(c, l)
	if err != nil {
		return err
	}
	l.Info("schedule interpreted",
		"tag", out.Tag,
		"events", len(out.All),
		"tournaments", len(out.ByCode),
		"anomalies", rep.Total())

	if c.Bool("dry-run") {
		return nil
	}

	dir := c.String("output")
	if err := MkDirIfNotExists(dir); err != nil {
		return err
	}

	feeds := collectFeeds(out)
	for _, f := range feeds {
		if err := writeFeed(dir, f); err != nil {
			return err
		}
	}
	l.Info("calendars written", "dir", dir, "files", len(feeds))
	return nil
}

type namedFeed struct {
	file string
	feed calendar.Feed
}

// collectFeeds lays out the full calendar set: the two aggregates, one feed
// per tournament code, one per room and one per convention day.
func collectFeeds(out *calendar.Output) []namedFeed {
	feeds := []namedFeed{
		{
			file: calendar.SafeFilename("all-in-one-" + out.Tag),
			feed: calendar.Feed{
				Name:        fmt.Sprintf("WBC %s All-in-One", out.Tag),
				Description: "Every scheduled event",
				Entries:     out.All,
			},
		},
		{
			file: calendar.SafeFilename("tournaments-" + out.Tag),
			feed: calendar.Feed{
				Name:        fmt.Sprintf("WBC %s Tournaments", out.Tag),
				Description: "All tournament events",
				Entries:     out.Tournaments,
			},
		},
	}

	for _, code := range sortedKeys(out.ByCode) {
		name := out.Names[code]
		if name == "" {
			name = code
		}
		feeds = append(feeds, namedFeed{
			file: calendar.SafeFilename(code),
			feed: calendar.Feed{
				Name:        name,
				Description: fmt.Sprintf("%s: %s", code, name),
				Entries:     out.ByCode[code],
			},
		})
	}
	for _, room := range sortedKeys(out.ByLocation) {
		feeds = append(feeds, namedFeed{
			file: calendar.SafeFilename("location-" + room),
			feed: calendar.Feed{
				Name:        room,
				Description: fmt.Sprintf("Events in %s", room),
				Entries:     out.ByLocation[room],
			},
		})
	}
	for _, day := range sortedKeys(out.ByDay) {
		feeds = append(feeds, namedFeed{
			file: calendar.SafeFilename(day),
			feed: calendar.Feed{
				Name:        day,
				Description: fmt.Sprintf("Events on %s", day),
				Entries:     out.ByDay[day],
			},
		})
	}
	return feeds
}

func sortedKeys(m map[string][]calendar.Entry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeFeed(dir string, f namedFeed) error {
	path := filepath.Join(dir, f.file)
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	defer w.Close()
	if err := calendar.Encode(f.feed, AppVersion, w); err != nil {
		return fmt.Errorf("unable to encode %s: %w", path, err)
	}
	return nil
}
