package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wcraigtrader/wbc/spreadsheet"
)

// Profile declares the column mapping for one generation of the schedule
// spreadsheet. The layout has changed structurally several times over the
// years; each generation is a registry entry selected by name, never
// inferred by trial and error.
type Profile struct {
	Name string

	// Header names for the canonical fields. Date, Time, Event, Duration
	// and Location are required; the rest are optional per generation.
	Date     string
	Time     string
	Event    string
	Code     string
	Duration string
	Location string
	Format   string
	GM       string

	// Continuous is a header whose 'C'/'Y' value marks continuous events
	// (pre-2018 sheets). Style is a header whose literal value
	// "Continuous" does the same on the newer sheets.
	Continuous string
	Style      string

	// Round is the header holding the round/heat qualifier that newer
	// sheets split out of the event name; its value is re-appended so the
	// classifier sees one grammar for all generations.
	Round string
}

var profiles = map[string]Profile{}

func RegisterProfile(p Profile) {
	profiles[p.Name] = p
}

func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnsupportedLayout, name)
	}
	return p, nil
}

func init() {
	// 2011-2017 sheets: one row per event, round/heat markers embedded in
	// the event name.
	RegisterProfile(Profile{
		Name:       "classic",
		Date:       "Date",
		Time:       "Time",
		Event:      "Event",
		Code:       "Code",
		Duration:   "Duration",
		Location:   "Location",
		Format:     "Format",
		GM:         "GM",
		Continuous: "Continuous",
	})
	// 2018+ sheets: one row per session, event code and round qualifier in
	// their own columns.
	RegisterProfile(Profile{
		Name:     "modern",
		Date:     "Date",
		Time:     "Time",
		Event:    "Event",
		Code:     "Event Code",
		Duration: "Duration",
		Location: "Location",
		Format:   "Format",
		GM:       "GM",
		Style:    "Style",
		Round:    "Round/Heat",
	})
}

// Normalizer converts raw rows into RawEvents using one layout profile.
type Normalizer struct {
	profile Profile
	tz      *time.Location
	rooms   map[string]string
}

type NormalizerOption func(*Normalizer)

// WithTimezone sets the convention clock; events in the sheet are wall
// times in this zone.
func WithTimezone(tz *time.Location) NormalizerOption {
	return func(n *Normalizer) { n.tz = tz }
}

// WithRooms installs the room-name normalization table (typo fixes).
func WithRooms(rooms map[string]string) NormalizerOption {
	return func(n *Normalizer) { n.rooms = rooms }
}

func NewNormalizer(profile string, opts ...NormalizerOption) (*Normalizer, error) {
	p, err := LookupProfile(profile)
	if err != nil {
		return nil, err
	}
	n := &Normalizer{profile: p, tz: time.UTC}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Normalize maps every data row to a RawEvent. Rows that are blank, section
// headers or notes are dropped; rows missing a required field are reported
// as malformed and skipped. Only a missing header row or a source with no
// parseable rows at all is fatal.
func (n *Normalizer) Normalize(rows []spreadsheet.Row, rep *Report) ([]RawEvent, error) {
	header, cols, err := n.headerColumns(rows)
	if err != nil {
		return nil, err
	}

	events := make([]RawEvent, 0, len(rows))
	for _, row := range rows[header+1:] {
		if row.IsBlank() {
			continue
		}
		ev, ok := n.normalizeRow(row, cols, rep)
		if ok {
			events = append(events, ev)
		}
	}
	if len(events) == 0 {
		return nil, ErrNoRows
	}
	return events, nil
}

// headerColumns locates the header row (the first row containing the
// profile's date header) and resolves each mapped field to its position.
func (n *Normalizer) headerColumns(rows []spreadsheet.Row) (int, map[string]int, error) {
	p := n.profile
	for i, row := range rows {
		cols := make(map[string]int)
		for j, cell := range row.Cells {
			if cell.Type == spreadsheet.CellText {
				cols[strings.ToLower(cell.Text)] = j
			}
		}
		if _, ok := cols[strings.ToLower(p.Date)]; !ok {
			continue
		}
		resolved := make(map[string]int)
		for _, h := range []string{p.Date, p.Time, p.Event, p.Code, p.Duration, p.Location, p.Format, p.GM, p.Continuous, p.Style, p.Round} {
			if h == "" {
				continue
			}
			if idx, ok := cols[strings.ToLower(h)]; ok {
				resolved[h] = idx
			}
		}
		for _, required := range []string{p.Date, p.Time, p.Event, p.Duration, p.Location} {
			if _, ok := resolved[required]; !ok {
				return 0, nil, fmt.Errorf("%w: profile %s misses column %q", ErrUnsupportedLayout, p.Name, required)
			}
		}
		return i, resolved, nil
	}
	return 0, nil, fmt.Errorf("%w: no header row for profile %s", ErrUnsupportedLayout, n.profile.Name)
}

func (n *Normalizer) normalizeRow(row spreadsheet.Row, cols map[string]int, rep *Report) (RawEvent, bool) {
	p := n.profile
	cell := func(header string) spreadsheet.Cell {
		idx, ok := cols[header]
		if !ok {
			return spreadsheet.Empty()
		}
		return row.Cell(idx)
	}

	name := cell(p.Event).String()
	timeCell := cell(p.Time)
	if name == "" && timeCell.IsEmpty() {
		// section header or free-text note row
		return RawEvent{}, false
	}

	date, err := n.parseDate(cell(p.Date))
	if err != nil {
		rep.Malformed = append(rep.Malformed, MalformedRow{Line: row.Line, Field: "date", Value: cell(p.Date).String(), Reason: err.Error()})
		return RawEvent{}, false
	}
	start, err := n.parseClock(date, timeCell)
	if err != nil {
		rep.Malformed = append(rep.Malformed, MalformedRow{Line: row.Line, Field: "time", Value: timeCell.String(), Reason: err.Error()})
		return RawEvent{}, false
	}

	ev := RawEvent{
		Line:     row.Line,
		Profile:  p.Name,
		Date:     date,
		Start:    start,
		Location: n.cleanLocation(cell(p.Location).String()),
		Name:     name,
		Code:     cell(p.Code).String(),
		Format:   cell(p.Format).String(),
		GM:       cell(p.GM).String(),
	}

	if p.Round != "" {
		if qualifier := cell(p.Round).String(); qualifier != "" {
			ev.Name = ev.Name + " " + qualifier
		}
	}
	if p.Continuous != "" {
		v := cell(p.Continuous).String()
		ev.Continuous = v == "C" || v == "Y"
	}
	if p.Style != "" && cell(p.Style).String() == "Continuous" {
		ev.Continuous = true
	}

	end, continuous, err := n.parseEnd(start, cell(p.Duration))
	if err != nil {
		rep.Malformed = append(rep.Malformed, MalformedRow{Line: row.Line, Field: "duration", Value: cell(p.Duration).String(), Reason: err.Error()})
		return RawEvent{}, false
	}
	ev.End = end
	ev.Continuous = ev.Continuous || continuous

	return ev, true
}

var dateFormats = []string{"1/2/2006", "1/2/06", "2006-01-02", "Monday, January 2, 2006"}

func (n *Normalizer) parseDate(c spreadsheet.Cell) (time.Time, error) {
	switch c.Type {
	case spreadsheet.CellDate:
		d := c.Date
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, n.tz), nil
	case spreadsheet.CellText:
		for _, f := range dateFormats {
			if d, err := time.ParseInLocation(f, c.Text, n.tz); err == nil {
				return d, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable date %q", c.Text)
	}
	return time.Time{}, fmt.Errorf("missing date")
}

var clockFormats = []string{"15:04", "15", "3:04 PM", "3:04:05 PM"}

// parseClock resolves the start instant. Sheets express times either as a
// clock string or as fractional hours; values of 24 or more roll into the
// next day, which the sources use for past-midnight finishes.
func (n *Normalizer) parseClock(date time.Time, c spreadsheet.Cell) (time.Time, error) {
	switch c.Type {
	case spreadsheet.CellDate:
		t := c.Date
		return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
	case spreadsheet.CellNumber:
		return hoursToClock(date, c.Number), nil
	case spreadsheet.CellText:
		if f, err := strconv.ParseFloat(c.Text, 64); err == nil {
			return hoursToClock(date, f), nil
		}
		for _, f := range clockFormats {
			if t, err := time.Parse(f, c.Text); err == nil {
				return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable time %q", c.Text)
	}
	return time.Time{}, fmt.Errorf("missing start time")
}

func hoursToClock(date time.Time, hours float64) time.Time {
	minutes := int(hours*60 + 0.5)
	for minutes >= 24*60 {
		minutes -= 24 * 60
		date = date.AddDate(0, 0, 1)
	}
	return date.Add(time.Duration(minutes) * time.Minute)
}

var bracketDuration = regexp.MustCompile(`^(\d+(?:\.\d+)?)\[\d+\]$`)

// parseEnd normalizes the duration-or-end-time column to an explicit end
// instant. A trailing 'q' marks the event continuous; 'N[M]' durations keep
// the leading number; a clock value is an absolute end time, rolling to the
// next day when it precedes the start.
func (n *Normalizer) parseEnd(start time.Time, c spreadsheet.Cell) (time.Time, bool, error) {
	continuous := false
	switch c.Type {
	case spreadsheet.CellEmpty:
		return start, false, nil
	case spreadsheet.CellNumber:
		return start.Add(roundUpDuration(c.Number)), false, nil
	case spreadsheet.CellDate:
		t := c.Date
		end := time.Date(start.Year(), start.Month(), start.Day(), t.Hour(), t.Minute(), 0, 0, start.Location())
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
		return end, false, nil
	}

	text := c.Text
	if text == "-" {
		return start, false, nil
	}
	if strings.HasSuffix(text, "q") {
		continuous = true
		text = strings.TrimSuffix(text, "q")
	}
	if m := bracketDuration.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if strings.Contains(text, ":") {
		t, err := time.Parse("15:04", text)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("unparseable end time %q", c.Text)
		}
		end := time.Date(start.Year(), start.Month(), start.Day(), t.Hour(), t.Minute(), 0, 0, start.Location())
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
		return end, continuous, nil
	}
	hours, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unparseable duration %q", c.Text)
	}
	return start.Add(roundUpDuration(hours)), continuous, nil
}

// roundUpDuration converts fractional hours to a duration rounded to the
// nearest minute.
func roundUpDuration(hours float64) time.Duration {
	seconds := hours * 3600
	minutes := int((seconds + 30) / 60)
	return time.Duration(minutes) * time.Minute
}

func (n *Normalizer) cleanLocation(loc string) string {
	loc = strings.Join(strings.Fields(loc), " ")
	if fixed, ok := n.rooms[loc]; ok {
		return fixed
	}
	return loc
}
