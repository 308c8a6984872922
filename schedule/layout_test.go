package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/wcraigtrader/wbc/spreadsheet"
)

var eastern = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	return loc
}()

func txtRow(line int, cells ...string) spreadsheet.Row {
	r := spreadsheet.Row{Line: line, Cells: make([]spreadsheet.Cell, len(cells))}
	for i, c := range cells {
		r.Cells[i] = spreadsheet.Txt(c)
	}
	return r
}

var classicHeader = txtRow(1, "Date", "Time", "Event", "Code", "Duration", "Location", "Format", "GM", "Continuous")

func classicNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer("classic", WithTimezone(eastern), WithRooms(map[string]string{"Marieta": "Marietta"}))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return n
}

func TestNormalizeBasicRow(t *testing.T) {
	n := classicNormalizer(t)
	rep := &Report{}

	rows := []spreadsheet.Row{
		classicHeader,
		txtRow(2, "7/22/2023", "9", "Acquire H1", "ACQ", "2", "Lampeter", "Swiss", "K. Trader", ""),
	}
	events, err := n.Normalize(rows, rep)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	ev := events[0]
	wantStart := time.Date(2023, 7, 22, 9, 0, 0, 0, eastern)
	if !ev.Start.Equal(wantStart) {
		t.Errorf("start = %s, expected %s", ev.Start, wantStart)
	}
	if ev.Duration() != 2*time.Hour {
		t.Errorf("duration = %s, expected 2h", ev.Duration())
	}
	if ev.Location != "Lampeter" {
		t.Errorf("location = %q", ev.Location)
	}
	if ev.Code != "ACQ" || ev.GM != "K. Trader" || ev.Format != "Swiss" {
		t.Errorf("fields not carried: %+v", ev)
	}
	if !rep.Empty() {
		t.Errorf("expected clean report, got %d anomalies", rep.Total())
	}
}

func TestNormalizeDurations(t *testing.T) {
	n := classicNormalizer(t)

	tests := []struct {
		name       string
		duration   string
		start      string
		want       time.Duration
		continuous bool
	}{
		{"fractional hours", "1.5", "9", 90 * time.Minute, false},
		{"continuous marker", "2q", "9", 2 * time.Hour, true},
		{"bracketed heat count", "2.5[3]", "9", 150 * time.Minute, false},
		{"absolute end", "18:30", "9", 9*time.Hour + 30*time.Minute, false},
		{"end past midnight", "1:00", "22", 3 * time.Hour, false},
		{"placeholder dash", "-", "9", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rep := &Report{}
			rows := []spreadsheet.Row{
				classicHeader,
				txtRow(2, "7/22/2023", tc.start, "Acquire H1", "ACQ", tc.duration, "Lampeter", "", "", ""),
			}
			events, err := n.Normalize(rows, rep)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			ev := events[0]
			if ev.Duration() != tc.want {
				t.Errorf("duration = %s, expected %s", ev.Duration(), tc.want)
			}
			if ev.Continuous != tc.continuous {
				t.Errorf("continuous = %v, expected %v", ev.Continuous, tc.continuous)
			}
		})
	}
}

func TestNormalizeFractionalTimeRollsDay(t *testing.T) {
	n := classicNormalizer(t)
	rep := &Report{}

	rows := []spreadsheet.Row{
		classicHeader,
		txtRow(2, "7/22/2023", "25.5", "Acquire H1", "ACQ", "1", "Lampeter", "", "", ""),
	}
	events, err := n.Normalize(rows, rep)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := time.Date(2023, 7, 23, 1, 30, 0, 0, eastern)
	if !events[0].Start.Equal(want) {
		t.Errorf("start = %s, expected %s", events[0].Start, want)
	}
}

func TestNormalizeContinuousColumn(t *testing.T) {
	n := classicNormalizer(t)
	rep := &Report{}

	rows := []spreadsheet.Row{
		classicHeader,
		txtRow(2, "7/22/2023", "9", "Acquire H1", "ACQ", "2", "Lampeter", "", "", "C"),
		txtRow(3, "7/22/2023", "11", "Acquire H2", "ACQ", "2", "Lampeter", "", "", "N"),
	}
	events, err := n.Normalize(rows, rep)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !events[0].Continuous {
		t.Errorf("expected 'C' to mark continuous")
	}
	if events[1].Continuous {
		t.Errorf("expected 'N' not to mark continuous")
	}
}

func TestNormalizeRoomFixes(t *testing.T) {
	n := classicNormalizer(t)
	rep := &Report{}

	rows := []spreadsheet.Row{
		classicHeader,
		txtRow(2, "7/22/2023", "9", "Acquire H1", "ACQ", "2", "Marieta", "", "", ""),
	}
	events, err := n.Normalize(rows, rep)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if events[0].Location != "Marietta" {
		t.Errorf("location = %q, expected the typo fixed", events[0].Location)
	}
}

func TestNormalizeSkipsAndReports(t *testing.T) {
	n := classicNormalizer(t)
	rep := &Report{}

	rows := []spreadsheet.Row{
		classicHeader,
		txtRow(2, "Saturday"),
		txtRow(3, "7/22/2023", "9", "Acquire H1", "ACQ", "2", "Lampeter", "", "", ""),
		txtRow(4, "not a date", "9", "Bad Row", "", "2", "Lampeter", "", "", ""),
		txtRow(5, "7/22/2023", "late", "Bad Time", "", "2", "Lampeter", "", "", ""),
	}
	events, err := n.Normalize(rows, rep)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if len(rep.Malformed) != 2 {
		t.Fatalf("expected 2 malformed rows, got %d", len(rep.Malformed))
	}
	if rep.Malformed[0].Line != 4 || rep.Malformed[0].Field != "date" {
		t.Errorf("unexpected first malformed row: %+v", rep.Malformed[0])
	}
	if rep.Malformed[1].Line != 5 || rep.Malformed[1].Field != "time" {
		t.Errorf("unexpected second malformed row: %+v", rep.Malformed[1])
	}
}

func TestNormalizeModernProfile(t *testing.T) {
	n, err := NewNormalizer("modern", WithTimezone(eastern))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	rep := &Report{}

	rows := []spreadsheet.Row{
		txtRow(1, "Date", "Time", "Event", "Event Code", "Duration", "Location", "Format", "GM", "Style", "Round/Heat"),
		txtRow(2, "7/22/2023", "9", "Acquire", "ACQ", "2", "Lampeter", "", "", "Continuous", "H1"),
	}
	events, err := n.Normalize(rows, rep)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	ev := events[0]
	if ev.Name != "Acquire H1" {
		t.Errorf("expected round qualifier appended, got %q", ev.Name)
	}
	if !ev.Continuous {
		t.Errorf("expected Style 'Continuous' to mark continuous")
	}
	if ev.Code != "ACQ" {
		t.Errorf("code = %q", ev.Code)
	}
}

func TestNormalizeErrors(t *testing.T) {
	n := classicNormalizer(t)

	_, err := n.Normalize([]spreadsheet.Row{txtRow(1, "nothing", "useful")}, &Report{})
	if !errors.Is(err, ErrUnsupportedLayout) {
		t.Errorf("expected ErrUnsupportedLayout, got %v", err)
	}

	_, err = n.Normalize([]spreadsheet.Row{classicHeader}, &Report{})
	if !errors.Is(err, ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}

	if _, err = NewNormalizer("ancient"); !errors.Is(err, ErrUnsupportedLayout) {
		t.Errorf("expected unknown profile to fail, got %v", err)
	}
}
