package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Stage is the coarse position of an event inside a tournament ladder.
// The order of the constants is the canonical timeline order: demos and
// mulligans come before heats, heats before numbered rounds, and the
// quarterfinal/semifinal/final ladder closes the tournament.
type Stage int

const (
	StageOther Stage = iota
	StageDemo
	StageMulligan
	StageHeat
	StageRound
	StageQuarterfinal
	StageSemifinal
	StageFinal
)

var stageNames = map[Stage]string{
	StageOther:        "Other",
	StageDemo:         "Demo",
	StageMulligan:     "Mulligan",
	StageHeat:         "Heat",
	StageRound:        "Round",
	StageQuarterfinal: "QF",
	StageSemifinal:    "SF",
	StageFinal:        "F",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return "Other"
}

// Kind is the classified role of an event: its stage plus, for heats and
// rounds, the number carried in the spreadsheet name (H2, R3/6).
type Kind struct {
	Stage  Stage
	Number int
	Of     int
}

func Demo() Kind         { return Kind{Stage: StageDemo} }
func Mulligan() Kind     { return Kind{Stage: StageMulligan} }
func Heat(n int) Kind    { return Kind{Stage: StageHeat, Number: n} }
func Round(n, m int) Kind { return Kind{Stage: StageRound, Number: n, Of: m} }
func Quarterfinal() Kind { return Kind{Stage: StageQuarterfinal} }
func Semifinal() Kind    { return Kind{Stage: StageSemifinal} }
func Final() Kind        { return Kind{Stage: StageFinal} }
func Other() Kind        { return Kind{Stage: StageOther} }

func (k Kind) IsTournament() bool {
	return k.Stage != StageOther
}

func (k Kind) String() string {
	switch k.Stage {
	case StageHeat:
		if k.Number > 0 {
			return fmt.Sprintf("H%d", k.Number)
		}
		return "Heat"
	case StageRound:
		if k.Of > 0 {
			return fmt.Sprintf("R%d/%d", k.Number, k.Of)
		}
		return fmt.Sprintf("R%d", k.Number)
	case StageDemo:
		if k.Number > 0 {
			return fmt.Sprintf("Demo %d", k.Number)
		}
	}
	return k.Stage.String()
}

// Compare orders kinds by their place in the tournament timeline. Heats and
// rounds of the same stage order by number; everything else is equal within
// its stage. The result is the total order the assembler validates against.
func (k Kind) Compare(other Kind) int {
	if k.Stage != other.Stage {
		if k.Stage < other.Stage {
			return -1
		}
		return 1
	}
	switch k.Stage {
	case StageHeat, StageRound:
		if k.Number != other.Number {
			if k.Number < other.Number {
				return -1
			}
			return 1
		}
	}
	return 0
}

// RawEvent is one spreadsheet row normalized to the canonical schema. It is
// created once by the row normalizer and never mutated afterwards.
type RawEvent struct {
	Line       int
	Profile    string
	Date       time.Time
	Start      time.Time
	End        time.Time
	Location   string
	Name       string
	Code       string
	Format     string
	GM         string
	Continuous bool
}

func (e RawEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

func (e RawEvent) String() string {
	return fmt.Sprintf("<%s @ %s//%s in %s>", e.Name, e.Start.Format("2006-01-02 15:04"), e.Duration(), e.Location)
}

// ClassifiedEvent is a RawEvent plus the derived kind and tournament code.
// Junior and PreCon mirror the JR and PC markers of the source names.
type ClassifiedEvent struct {
	RawEvent

	Kind   Kind
	Code   string
	Junior bool
	PreCon bool
}

func (e ClassifiedEvent) String() string {
	return fmt.Sprintf("<[%s:%s] %s @ %s//%s>", e.Code, e.Kind, e.Name, e.Start.Format("2006-01-02 15:04"), e.Duration())
}

// Tournament owns the ordered timeline of events sharing one code.
// Prev[i] is the index of the predecessor of Events[i] in the elimination
// ladder, or -1 when there is none; the link is informational only.
type Tournament struct {
	Code    string
	Name    string
	Events  []ClassifiedEvent
	Prev    []int
	Flagged bool
}

// Rounds reports the declared total number of rounds, when any R{n}/{m}
// entry carried one.
func (t *Tournament) Rounds() int {
	total := 0
	for _, e := range t.Events {
		if e.Kind.Stage == StageRound && e.Kind.Of > total {
			total = e.Kind.Of
		}
	}
	return total
}

func (t *Tournament) String() string {
	names := make([]string, len(t.Events))
	for i, e := range t.Events {
		names[i] = e.Kind.String()
	}
	return fmt.Sprintf("%s (%s): %s", t.Code, t.Name, strings.Join(names, " "))
}

// Snapshot is one fully assembled schedule, the unit of comparison for
// revision diffing. Tournaments are sorted by code so that snapshot
// traversal is deterministic.
type Snapshot struct {
	Tag         string
	Tournaments []*Tournament
	Others      []ClassifiedEvent
}

func (s *Snapshot) Tournament(code string) *Tournament {
	for _, t := range s.Tournaments {
		if t.Code == code {
			return t
		}
	}
	return nil
}

// Events returns every event in the snapshot, tournament timelines first,
// then the uncoded leftovers.
func (s *Snapshot) Events() []ClassifiedEvent {
	all := make([]ClassifiedEvent, 0)
	for _, t := range s.Tournaments {
		all = append(all, t.Events...)
	}
	all = append(all, s.Others...)
	return all
}
