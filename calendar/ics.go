package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/soh335/ical"
)

// Feed describes one encodable calendar feed.
type Feed struct {
	Name        string
	Description string
	URL         string
	Color       string
	Entries     []Entry
}

// Encode writes the feed as an iCalendar stream. Entries are expected
// pre-sorted; uids come straight from the entries so clients can reconcile
// revisions.
func Encode(f Feed, version string, w io.Writer) error {
	cal := ical.NewBasicVCalendar()
	cal.PRODID = fmt.Sprintf("-//WBC//%s//%s//EN", f.Name, version)
	cal.VERSION = "2.0"
	cal.URL = f.URL

	cal.NAME = f.Name
	cal.X_WR_CALNAME = f.Name
	cal.DESCRIPTION = f.Description
	cal.X_WR_CALDESC = f.Description

	cal.TIMEZONE_ID = "UTC"
	cal.X_WR_TIMEZONE = "UTC"

	cal.REFRESH_INTERVAL = "PT6H"
	cal.X_PUBLISHED_TTL = "PT6H"

	if f.Color != "" {
		cal.COLOR = f.Color
	}
	cal.CALSCALE = "GREGORIAN"
	cal.METHOD = "PUBLISH"

	now := time.Now().UTC()
	for _, e := range f.Entries {
		desc := e.Description
		if e.Location != "" {
			desc = desc + "\nLocation: " + e.Location
		}
		ev := &ical.VEvent{
			UID:         e.UID,
			DTSTAMP:     now,
			DTSTART:     e.Start,
			DTEND:       e.End,
			SUMMARY:     e.Summary,
			DESCRIPTION: desc,
			TZID:        "UTC",
			AllDay:      e.End.Sub(e.Start) > 24*time.Hour,
		}
		cal.VComponent = append(cal.VComponent, ev)
	}

	return cal.Encode(w)
}
