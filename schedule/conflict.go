package schedule

import (
	"sort"
)

// DetectConflicts cross-checks the assembled timelines for room overlaps
// (different tournaments, same room) and self overlaps (same tournament).
// Detection is advisory: conflicts accumulate in the report and never block
// synthesis, since the source data contains intentional overlaps.
func DetectConflicts(snap *Snapshot, rep *Report) {
	all := make([]ClassifiedEvent, 0)
	for _, t := range snap.Tournaments {
		all = append(all, t.Events...)
	}

	rep.Conflicts = append(rep.Conflicts, roomOverlaps(all)...)

	for _, t := range snap.Tournaments {
		rep.Conflicts = append(rep.Conflicts, selfOverlaps(t)...)
	}
}

// overlaps is the half-open interval test: [start, end) windows intersect
// iff each starts before the other ends. Zero-duration events never
// overlap anything.
func overlaps(a, b ClassifiedEvent) bool {
	if !a.End.After(a.Start) || !b.End.After(b.Start) {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func roomOverlaps(events []ClassifiedEvent) []Conflict {
	byRoom := make(map[string][]ClassifiedEvent)
	for _, e := range events {
		if e.Location == "" {
			continue
		}
		byRoom[e.Location] = append(byRoom[e.Location], e)
	}

	rooms := make([]string, 0, len(byRoom))
	for room := range byRoom {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)

	var conflicts []Conflict
	for _, room := range rooms {
		in := byRoom[room]
		sort.Slice(in, func(i, j int) bool {
			if !in[i].Start.Equal(in[j].Start) {
				return in[i].Start.Before(in[j].Start)
			}
			return in[i].Line < in[j].Line
		})
		for i := 1; i < len(in); i++ {
			for j := i - 1; j >= 0; j-- {
				if in[i].Code != in[j].Code && overlaps(in[i], in[j]) {
					conflicts = append(conflicts, Conflict{
						Kind:   RoomOverlap,
						Room:   room,
						CodeA:  in[j].Code,
						CodeB:  in[i].Code,
						LineA:  in[j].Line,
						LineB:  in[i].Line,
						StartA: in[j].Start,
						StartB: in[i].Start,
					})
				}
			}
		}
	}
	return conflicts
}

func selfOverlaps(t *Tournament) []Conflict {
	var conflicts []Conflict
	events := t.Events
	for i := 1; i < len(events); i++ {
		for j := 0; j < i; j++ {
			if overlaps(events[i], events[j]) {
				conflicts = append(conflicts, Conflict{
					Kind:   SelfOverlap,
					Room:   events[i].Location,
					CodeA:  t.Code,
					CodeB:  t.Code,
					LineA:  events[j].Line,
					LineB:  events[i].Line,
					StartA: events[j].Start,
					StartB: events[i].Start,
				})
			}
		}
	}
	return conflicts
}
