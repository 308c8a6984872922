package calendar

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// FieldChange reports one field that differs between two revisions of the
// same entry.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// EntryChange is one changed entry with its differing fields.
type EntryChange struct {
	UID     string
	Summary string
	Fields  []FieldChange
}

// Diff is the revision comparison result: three disjoint sets keyed by uid.
type Diff struct {
	OldTag, NewTag string

	Added   []Entry
	Removed []Entry
	Changed []EntryChange
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

func (d Diff) String() string {
	return fmt.Sprintf("%s -> %s: %d added, %d removed, %d changed",
		d.OldTag, d.NewTag, len(d.Added), len(d.Removed), len(d.Changed))
}

// Print writes the full change report: every added and removed entry, and
// for each changed entry the differing fields with their old and new values.
func (d Diff) Print(w io.Writer) {
	fmt.Fprintln(w, d.String())
	for _, e := range d.Added {
		fmt.Fprintf(w, "+ %s @ %s [%s]\n", e.Summary, e.Start.Format("2006-01-02 15:04"), e.UID)
	}
	for _, e := range d.Removed {
		fmt.Fprintf(w, "- %s @ %s [%s]\n", e.Summary, e.Start.Format("2006-01-02 15:04"), e.UID)
	}
	for _, c := range d.Changed {
		fmt.Fprintf(w, "~ %s [%s]\n", c.Summary, c.UID)
		for _, f := range c.Fields {
			fmt.Fprintf(w, "    %s: %q -> %q\n", f.Field, f.Old, f.New)
		}
	}
}

// Compare diffs two synthesized calendar sets. Matching is by uid only, so
// the result is stable under re-ordering of input rows.
func Compare(oldTag string, old []Entry, newTag string, latest []Entry) Diff {
	d := Diff{OldTag: oldTag, NewTag: newTag}

	oldByUID := make(map[string]Entry, len(old))
	for _, e := range old {
		oldByUID[e.UID] = e
	}
	seen := make(map[string]bool, len(latest))

	for _, e := range latest {
		seen[e.UID] = true
		prev, ok := oldByUID[e.UID]
		if !ok {
			d.Added = append(d.Added, e)
			continue
		}
		if fields := fieldChanges(prev, e); len(fields) > 0 {
			d.Changed = append(d.Changed, EntryChange{UID: e.UID, Summary: e.Summary, Fields: fields})
		}
	}
	for _, e := range old {
		if !seen[e.UID] {
			d.Removed = append(d.Removed, e)
		}
	}

	SortEntries(d.Added)
	SortEntries(d.Removed)
	sort.Slice(d.Changed, func(i, j int) bool { return d.Changed[i].UID < d.Changed[j].UID })

	return d
}

func fieldChanges(old, latest Entry) []FieldChange {
	var fields []FieldChange
	str := func(field, o, n string) {
		if o != n {
			fields = append(fields, FieldChange{Field: field, Old: o, New: n})
		}
	}
	instant := func(field string, o, n time.Time) {
		if !o.Equal(n) {
			fields = append(fields, FieldChange{Field: field, Old: o.Format(time.RFC3339), New: n.Format(time.RFC3339)})
		}
	}
	str("summary", old.Summary, latest.Summary)
	str("location", old.Location, latest.Location)
	instant("start", old.Start, latest.Start)
	instant("end", old.End, latest.End)
	str("category", string(old.Category), string(latest.Category))
	str("contact", old.Contact, latest.Contact)
	return fields
}
