package calendar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/wcraigtrader/wbc/schedule"
)

// Output is one synthesized calendar set: the aggregate feed plus the
// per-tournament, per-location and per-day groupings, all sharing the same
// Entry values.
type Output struct {
	Tag         string
	All         []Entry
	Tournaments []Entry
	ByCode      map[string][]Entry
	ByLocation  map[string][]Entry
	ByDay       map[string][]Entry
	Names       map[string]string
}

// Synthesizer maps validated events to calendar entries. Synthesis never
// fails on valid input; flagged events are still emitted, carrying their
// flags as metadata.
type Synthesizer struct {
	featured map[string]bool
	urls     map[string]string
}

type SynthesizerOption func(*Synthesizer)

// WithFeatured marks the marquee tournament codes that get the featured
// palette bucket.
func WithFeatured(codes []string) SynthesizerOption {
	return func(s *Synthesizer) {
		for _, c := range codes {
			s.featured[c] = true
		}
	}
}

// WithPreviewURLs attaches per-code preview page links to descriptions.
func WithPreviewURLs(urls map[string]string) SynthesizerOption {
	return func(s *Synthesizer) { s.urls = urls }
}

func NewSynthesizer(opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{featured: map[string]bool{}, urls: map[string]string{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize produces exactly one entry per event in the snapshot. The
// report supplies per-row flags; a nil report means no flags.
func (s *Synthesizer) Synthesize(snap *schedule.Snapshot, rep *schedule.Report) *Output {
	out := &Output{
		Tag:        snap.Tag,
		ByCode:     map[string][]Entry{},
		ByLocation: map[string][]Entry{},
		ByDay:      map[string][]Entry{},
		Names:      map[string]string{},
	}

	flags := lineFlags(rep)
	seen := map[string]int{}

	for _, t := range snap.Tournaments {
		out.Names[t.Code] = t.Name
		for _, ev := range t.Events {
			e := s.entry(ev, t.Name, flags)
			e.UID = disambiguate(e.UID, seen)
			out.ByCode[t.Code] = append(out.ByCode[t.Code], e)
			out.Tournaments = append(out.Tournaments, e)
			out.All = append(out.All, e)
		}
	}
	for _, ev := range snap.Others {
		e := s.entry(ev, ev.Name, flags)
		e.UID = disambiguate(e.UID, seen)
		if ev.Code != "" {
			out.ByCode[ev.Code] = append(out.ByCode[ev.Code], e)
		}
		out.All = append(out.All, e)
	}

	SortEntries(out.All)
	SortEntries(out.Tournaments)
	for _, group := range out.ByCode {
		SortEntries(group)
	}
	for _, e := range out.All {
		if e.Location != "" {
			out.ByLocation[e.Location] = append(out.ByLocation[e.Location], e)
		}
		day := e.Start.Format("2006-01-02")
		out.ByDay[day] = append(out.ByDay[day], e)
	}

	return out
}

func (s *Synthesizer) entry(ev schedule.ClassifiedEvent, name string, flags map[int][]string) Entry {
	summary := name
	if ev.Kind.IsTournament() {
		summary = strings.TrimSpace(name + " " + ev.Kind.String())
	}

	desc := summary
	if ev.Code != "" {
		desc = ev.Code + ": " + summary
	}
	if ev.Format != "" {
		desc += " (" + ev.Format + ")"
	}
	if ev.Continuous {
		desc += " Continuous"
	}
	if url := s.urls[ev.Code]; url != "" {
		desc += "\nPreview: " + url
	}

	return Entry{
		UID:         EntryUID(ev.Code, ev.Kind, ev.Start),
		Code:        ev.Code,
		Kind:        ev.Kind.String(),
		Summary:     summary,
		Description: desc,
		Location:    ev.Location,
		Start:       ev.Start.UTC(),
		End:         ev.End.UTC(),
		Category:    categorize(ev.Kind, s.featured[ev.Code]),
		URL:         s.urls[ev.Code],
		Contact:     ev.GM,
		Flags:       flags[ev.Line],
	}
}

// disambiguate suffixes repeated uids, so exact duplicates (parallel tables
// of one session share code, kind and start) stay distinct through storage
// and diffing. Snapshot traversal order is deterministic, so the suffix
// assignment is too.
func disambiguate(uid string, seen map[string]int) string {
	n := seen[uid]
	seen[uid] = n + 1
	if n == 0 {
		return uid
	}
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s|%d", uid, n+1))).String()
}

// lineFlags indexes report anomalies by source line so flagged entries can
// carry them through to the output layer.
func lineFlags(rep *schedule.Report) map[int][]string {
	flags := map[int][]string{}
	if rep == nil {
		return flags
	}
	add := func(line int, flag string) {
		for _, f := range flags[line] {
			if f == flag {
				return
			}
		}
		flags[line] = append(flags[line], flag)
	}
	for _, v := range rep.Violations {
		add(v.Line, "order-violation")
	}
	for _, g := range rep.Gaps {
		add(g.Line, "structural-gap")
	}
	for _, c := range rep.Conflicts {
		flag := "room-overlap"
		if c.Kind == schedule.SelfOverlap {
			flag = "self-overlap"
		}
		add(c.LineA, flag)
		add(c.LineB, flag)
	}
	return flags
}

// SortEntries orders entries by start, then summary, then uid, the
// canonical feed order.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Start.Equal(entries[j].Start) {
			return entries[i].Start.Before(entries[j].Start)
		}
		if entries[i].Summary != entries[j].Summary {
			return entries[i].Summary < entries[j].Summary
		}
		return entries[i].UID < entries[j].UID
	})
}

// SafeFilename converts a calendar name to a web-safe .ics file name.
func SafeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "&", "n")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return fmt.Sprintf("%s.ics", name)
}
