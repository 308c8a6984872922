package schedule

import (
	"time"
)

// resumeHour is when play resumes after a past-midnight cutoff.
const resumeHour = 9

// ApplyDurations fills in the end time of zero-duration events from the
// metadata duration tables (whole-event hours for free-format events).
// PreCon events prefer the grognard duration when one is declared.
func ApplyDurations(events []ClassifiedEvent, normal, grognard map[string]int) []ClassifiedEvent {
	for i, ev := range events {
		if ev.Code == "" || ev.Duration() != 0 {
			continue
		}
		hours := normal[ev.Code]
		if ev.PreCon && grognard[ev.Code] > 0 {
			hours = grognard[ev.Code]
		}
		if hours > 0 {
			events[i].End = ev.Start.Add(time.Duration(hours) * time.Hour)
		}
	}
	return events
}

// SplitLateSessions enforces the midnight cutoff on continuous events. An
// event running past its start day's midnight is cut there and resumed the
// next morning as a second session, unless the tournament's playlate value
// exempts it: "all" always plays through, "once" plays through when the
// overshoot stays within half the event's length.
func SplitLateSessions(events []ClassifiedEvent, playlate map[string]string) []ClassifiedEvent {
	out := make([]ClassifiedEvent, 0, len(events))
	for _, ev := range events {
		cutoff := midnightAfter(ev.Start)
		if !ev.Continuous || !ev.End.After(cutoff) {
			out = append(out, ev)
			continue
		}
		switch playlate[ev.Code] {
		case "all":
			out = append(out, ev)
			continue
		case "once":
			if ev.End.Sub(cutoff) <= ev.Duration()/2 {
				out = append(out, ev)
				continue
			}
		}

		remainder := ev.End.Sub(cutoff)
		first := ev
		first.End = cutoff

		resumed := ev
		resumed.Start = cutoff.Add(resumeHour * time.Hour)
		resumed.End = resumed.Start.Add(remainder)

		out = append(out, first, resumed)
	}
	return out
}

func midnightAfter(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
