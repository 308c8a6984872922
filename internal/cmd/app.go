package cmd

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli"

	"github.com/wcraigtrader/wbc/calendar"
	"github.com/wcraigtrader/wbc/metadata"
	"github.com/wcraigtrader/wbc/schedule"
	"github.com/wcraigtrader/wbc/spreadsheet"
	"github.com/wcraigtrader/wbc/storage"
	"github.com/wcraigtrader/wbc/storage/boltdb"
)

const (
	AppName    = "wbc"
	AppVersion = "(unknown)"
)

var AppWebsite = "http://boardgamers.org/"

func MkDirIfNotExists(p string) error {
	fi, err := os.Stat(p)
	if err != nil && os.IsNotExist(err) {
		err = os.MkdirAll(p, os.ModeDir|os.ModePerm|0700)
	}
	if err != nil {
		return err
	}
	fi, err = os.Stat(p)
	if err != nil {
		return err
	} else if !fi.IsDir() {
		return fmt.Errorf("path exists, and is not a folder %s", p)
	}
	return nil
}

func DataPath() string {
	homeDir, _ := os.UserHomeDir()
	xdgDataPath := filepath.Join(homeDir, ".local", "share")
	appPath := filepath.Join(xdgDataPath, AppName)

	if _, err := os.Stat(appPath); err != nil && errors.Is(err, os.ErrNotExist) {
		err := MkDirIfNotExists(appPath)
		if err != nil {
			log.Fatalf("Error: %s", err.Error())
		}
	}
	return appPath
}

// Logger builds the shared console logger. Debug flips the level, the rest
// follows the terminal.
func Logger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func storePath(c *cli.Context) string {
	if p := c.GlobalString("path"); p != "" && p != "." {
		return filepath.Join(p, storage.DefaultFile)
	}
	return filepath.Join(DataPath(), storage.DefaultFile)
}

func openStore(c *cli.Context, l *slog.Logger) *boltdb.Repo {
	return boltdb.New(boltdb.Config{Path: storePath(c), Logger: l})
}

// loadMetadata reads the optional code table and configuration files named
// on the command line, falling back to built-in defaults.
func loadMetadata(c *cli.Context) (*metadata.Table, *metadata.Config, error) {
	table := &metadata.Table{}
	if path := c.String("codes"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open code table: %w", err)
		}
		defer f.Close()
		if table, err = metadata.LoadTable(f); err != nil {
			return nil, nil, err
		}
	}

	conf := metadata.DefaultConfig()
	if path := c.String("config"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open config: %w", err)
		}
		defer f.Close()
		if conf, err = metadata.LoadConfig(f); err != nil {
			return nil, nil, err
		}
	}
	return table, conf, nil
}

// buildOutput runs the whole pipeline for one schedule file: read rows,
// normalize, classify, assemble, detect conflicts, synthesize.
func buildOutput(c *cli.Context, l *slog.Logger) (*calendar.Output, *schedule.Report, error) {
	path := c.String("schedule")
	if path == "" {
		return nil, nil, fmt.Errorf("a schedule file is required")
	}
	table, conf, err := loadMetadata(c)
	if err != nil {
		return nil, nil, err
	}
	loc, err := conf.Location()
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open schedule: %w", err)
	}
	defer f.Close()

	src := spreadsheet.NewCSVSource(f)
	if d := c.String("delimiter"); d != "" {
		src = src.WithComma(rune(d[0]))
	}
	rows, err := src.Rows()
	if err != nil {
		return nil, nil, err
	}

	rep := &schedule.Report{}
	norm, err := schedule.NewNormalizer(c.String("layout"),
		schedule.WithTimezone(loc),
		schedule.WithRooms(conf.Rooms),
	)
	if err != nil {
		return nil, nil, err
	}
	raw, err := norm.Normalize(rows, rep)
	if err != nil {
		return nil, nil, err
	}
	l.Debug("schedule normalized", "rows", len(rows), "events", len(raw))

	codes, names := table.Codes(), table.Names()
	cls := schedule.NewClassifier(codes, names)
	events := make([]schedule.ClassifiedEvent, 0, len(raw))
	for _, r := range raw {
		events = append(events, cls.Classify(r, rep))
	}
	normal, grognard := table.Durations()
	events = schedule.ApplyDurations(events, normal, grognard)
	events = schedule.SplitLateSessions(events, table.PlayLate())

	tag := c.String("tag")
	if tag == "" {
		tag = filepath.Base(path)
	}
	snap := schedule.NewAssembler(names).Assemble(tag, events, rep)
	schedule.DetectConflicts(snap, rep)

	opts := []calendar.SynthesizerOption{calendar.WithFeatured(conf.Featured)}
	if path := c.String("previews"); path != "" {
		pf, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open preview index: %w", err)
		}
		urls, err := metadata.ParsePreviewIndex(pf, AppWebsite)
		pf.Close()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, calendar.WithPreviewURLs(urls))
	}

	out := calendar.NewSynthesizer(opts...).Synthesize(snap, rep)
	rep.Log(l)
	return out, rep, nil
}
