package schedule

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Assembler partitions classified events by tournament code and builds the
// per-tournament timelines. Assembly of one partition is a pure function of
// its events, so partitions are processed concurrently; results are merged
// in code order, keeping the output independent of scheduling.
type Assembler struct {
	names map[string]string
}

// NewAssembler takes the code → display-name table; codes missing from it
// fall back to the most descriptive event name in the partition.
func NewAssembler(names map[string]string) *Assembler {
	if names == nil {
		names = map[string]string{}
	}
	return &Assembler{names: names}
}

type assembled struct {
	tournament *Tournament
	violations []OrderViolation
	gaps       []StructuralGap
}

// Assemble builds a snapshot from the classified events. Order violations
// and structural gaps are recorded in the report but never abort assembly:
// a flagged tournament is still emitted.
func (a *Assembler) Assemble(tag string, events []ClassifiedEvent, rep *Report) *Snapshot {
	partitions := make(map[string][]ClassifiedEvent)
	snap := &Snapshot{Tag: tag}

	for _, ev := range events {
		if !ev.Kind.IsTournament() || ev.Code == "" {
			snap.Others = append(snap.Others, ev)
			continue
		}
		partitions[ev.Code] = append(partitions[ev.Code], ev)
	}

	codes := make([]string, 0, len(partitions))
	for code := range partitions {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	results := make([]assembled, len(codes))
	g := errgroup.Group{}
	for i, code := range codes {
		i, code := i, code
		g.Go(func() error {
			results[i] = a.assembleOne(code, partitions[code])
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		snap.Tournaments = append(snap.Tournaments, res.tournament)
		rep.Violations = append(rep.Violations, res.violations...)
		rep.Gaps = append(rep.Gaps, res.gaps...)
	}

	sort.Slice(snap.Others, func(i, j int) bool {
		a, b := snap.Others[i], snap.Others[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Line < b.Line
	})

	return snap
}

func (a *Assembler) assembleOne(code string, events []ClassifiedEvent) assembled {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if c := a.Kind.Compare(b.Kind); c != 0 {
			return c < 0
		}
		return a.Line < b.Line
	})

	t := &Tournament{
		Code:   code,
		Name:   a.displayName(code, events),
		Events: events,
		Prev:   make([]int, len(events)),
	}

	res := assembled{tournament: t}

	for i := 1; i < len(events); i++ {
		if events[i].Kind.Compare(events[i-1].Kind) < 0 {
			t.Flagged = true
			res.violations = append(res.violations, OrderViolation{
				Code:  code,
				Line:  events[i].Line,
				Kind:  events[i].Kind,
				After: events[i-1].Kind,
			})
		}
	}

	for i := range events {
		t.Prev[i] = a.link(events, i)
	}

	res.gaps = append(res.gaps, a.findGaps(t)...)
	if len(res.gaps) > 0 {
		t.Flagged = true
	}

	return res
}

// link resolves the informational predecessor for elimination stages: the
// nearest preceding event of a strictly earlier kind. Heats, demos and
// mulligans run in parallel groups and carry no link.
func (a *Assembler) link(events []ClassifiedEvent, i int) int {
	if events[i].Kind.Stage < StageRound {
		return -1
	}
	for j := i - 1; j >= 0; j-- {
		if events[j].Kind.Compare(events[i].Kind) < 0 {
			return j
		}
	}
	return -1
}

func (a *Assembler) findGaps(t *Tournament) []StructuralGap {
	var gaps []StructuralGap

	hasLater := false
	lastHeat := -1
	for i, e := range t.Events {
		switch {
		case e.Kind.Stage == StageHeat:
			lastHeat = i
		case e.Kind.Stage >= StageRound:
			hasLater = true
		}
	}
	if lastHeat >= 0 && !hasLater {
		gaps = append(gaps, StructuralGap{
			Code:    t.Code,
			Line:    t.Events[lastHeat].Line,
			Kind:    t.Events[lastHeat].Kind,
			Missing: "following round or final",
		})
	}

	for i, e := range t.Events {
		if e.Kind.Stage != StageRound || e.Kind.Number < 2 {
			continue
		}
		found := false
		for j := 0; j < i; j++ {
			prev := t.Events[j].Kind
			if prev.Stage == StageHeat || (prev.Stage == StageRound && prev.Number == e.Kind.Number-1) {
				found = true
				break
			}
		}
		if !found {
			gaps = append(gaps, StructuralGap{
				Code:    t.Code,
				Line:    e.Line,
				Kind:    e.Kind,
				Missing: fmt.Sprintf("preceding R%d or heat", e.Kind.Number-1),
			})
		}
	}

	return gaps
}

func (a *Assembler) displayName(code string, events []ClassifiedEvent) string {
	if name, ok := a.names[code]; ok {
		return name
	}
	name := ""
	for _, e := range events {
		if len(e.Name) > len(name) {
			name = e.Name
		}
	}
	return name
}

// EquivalentRound maps the terminal QF/SF/F stages onto the round ladder of
// a tournament with total rounds, e.g. with 6 rounds QF=R4, SF=R5, F=R6.
// Returns 0 when the total is unknown or the kind is not a terminal stage.
func EquivalentRound(k Kind, total int) int {
	if total == 0 {
		return 0
	}
	switch k.Stage {
	case StageQuarterfinal:
		return total - 2
	case StageSemifinal:
		return total - 1
	case StageFinal:
		return total
	}
	return 0
}
