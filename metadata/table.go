// Package metadata holds the externally supplied lookup tables: the
// tournament code registry, display configuration, and the preview-page
// index. None of it is hard-coded into the engine; the files ship next to
// the yearly spreadsheet.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Event is the per-tournament metadata record. Duration and Grognard are
// special whole-event durations in hours for free-format events; PlayLate
// marks events allowed to run past the midnight cutoff ("once" or "all").
type Event struct {
	Code     string   `json:"-"`
	Name     string   `json:"name"`
	Duration int      `json:"duration,omitempty"`
	Grognard int      `json:"grognard,omitempty"`
	PlayLate string   `json:"playlate,omitempty"`
	Altnames []string `json:"altnames,omitempty"`
}

// Table is the loaded code registry.
type Table struct {
	Events map[string]*Event
}

// LoadTable reads the JSON code file: an object keyed by tournament code.
func LoadTable(r io.Reader) (*Table, error) {
	events := map[string]*Event{}
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("unable to decode event code table: %w", err)
	}
	for code, ev := range events {
		ev.Code = code
	}
	return &Table{Events: events}, nil
}

// Codes maps every event name and alternate name to its tournament code,
// the lookup the classifier runs against.
func (t *Table) Codes() map[string]string {
	codes := make(map[string]string)
	for code, ev := range t.Events {
		codes[ev.Name] = code
		for _, alt := range ev.Altnames {
			codes[alt] = code
		}
	}
	return codes
}

// Names maps each code to its display name.
func (t *Table) Names() map[string]string {
	names := make(map[string]string, len(t.Events))
	for code, ev := range t.Events {
		names[code] = ev.Name
	}
	return names
}

// Durations returns the whole-event duration tables in hours: the regular
// one and the grognard (pre-con) one.
func (t *Table) Durations() (normal, grognard map[string]int) {
	normal = make(map[string]int)
	grognard = make(map[string]int)
	for code, ev := range t.Events {
		if ev.Duration > 0 {
			normal[code] = ev.Duration
		}
		if ev.Grognard > 0 {
			grognard[code] = ev.Grognard
		}
	}
	return normal, grognard
}

// PlayLate maps codes to their midnight-cutoff exemption ("once" or "all").
func (t *Table) PlayLate() map[string]string {
	late := make(map[string]string)
	for code, ev := range t.Events {
		if ev.PlayLate != "" {
			late[code] = ev.PlayLate
		}
	}
	return late
}

// TournamentCodes returns the known codes, sorted.
func (t *Table) TournamentCodes() []string {
	codes := make([]string, 0, len(t.Events))
	for code := range t.Events {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Save writes the table back out in the same JSON shape, codes sorted.
func (t *Table) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t.Events)
}
