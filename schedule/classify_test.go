package schedule

import (
	"regexp"
	"testing"
)

var testCodes = map[string]string{
	"Acquire":        "ACQ",
	"Ticket to Ride": "TTR",
	"Slapshot":       "SLS",
}

func classify(t *testing.T, name string) (ClassifiedEvent, *Report) {
	t.Helper()
	rep := &Report{}
	c := NewClassifier(testCodes, nil)
	ev := c.Classify(RawEvent{Line: 1, Name: name}, rep)
	return ev, rep
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		code   string
		junior bool
	}{
		{"Acquire H1", Heat(1), "ACQ", false},
		{"Acquire Heat 2", Heat(2), "ACQ", false},
		{"Acquire H1/3", Heat(1), "ACQ", false},
		{"Acquire 2/4", Heat(2), "ACQ", false},
		{"Ticket to Ride R2/4", Round(2, 4), "TTR", false},
		{"Ticket to Ride Round 3", Round(3, 0), "TTR", false},
		{"Acquire QF", Quarterfinal(), "ACQ", false},
		{"Acquire Quarterfinal", Quarterfinal(), "ACQ", false},
		{"Acquire SF", Semifinal(), "ACQ", false},
		{"Acquire Semifinals", Semifinal(), "ACQ", false},
		{"Acquire F", Final(), "ACQ", false},
		{"Ticket to Ride Final", Final(), "TTR", false},
		{"Acquire Demo", Demo(), "ACQ", false},
		{"Acquire Demo 2", Kind{Stage: StageDemo, Number: 2}, "ACQ", false},
		{"Acquire D1/2", Kind{Stage: StageDemo, Number: 1}, "ACQ", false},
		{"Acquire Mulligan", Mulligan(), "ACQ", false},
		{"Slapshot Jr H1", Heat(1), "SLS", true},
		{"JR Slapshot H1", Heat(1), "SLS", true},
		{"Slapshot Junior F", Final(), "SLS", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev, rep := classify(t, tc.name)
			if ev.Kind != tc.kind {
				t.Errorf("kind = %s, expected %s", ev.Kind, tc.kind)
			}
			if ev.Code != tc.code {
				t.Errorf("code = %q, expected %q", ev.Code, tc.code)
			}
			if ev.Junior != tc.junior {
				t.Errorf("junior = %v, expected %v", ev.Junior, tc.junior)
			}
			if !rep.Empty() {
				t.Errorf("expected clean report, got %d anomalies", rep.Total())
			}
		})
	}
}

func TestClassifyAmbiguousRules(t *testing.T) {
	// two rules of equal specificity that disagree on the stage
	rules := append([]Rule{
		{
			Name:    "showcase-heat",
			Pattern: regexp.MustCompile(`(?i)\bshowcase$`),
			Kind:    func(m []string) Kind { return Heat(1) },
		},
		{
			Name:    "showcase-final",
			Pattern: regexp.MustCompile(`(?i)\bshowcase$`),
			Kind:    func(m []string) Kind { return Final() },
		},
	}, defaultRules...)

	rep := &Report{}
	c := NewClassifier(testCodes, nil, WithRules(rules))
	ev := c.Classify(RawEvent{Line: 7, Name: "Acquire Showcase"}, rep)

	if ev.Kind != Other() {
		t.Errorf("kind = %s, an ambiguous event must stay Other", ev.Kind)
	}
	if len(rep.Ambiguous) != 1 {
		t.Fatalf("expected 1 ambiguity, got %d", len(rep.Ambiguous))
	}
	a := rep.Ambiguous[0]
	if a.Line != 7 {
		t.Errorf("line = %d, expected the source row", a.Line)
	}
	if len(a.Rules) != 2 || a.Rules[0] != "showcase-heat" || a.Rules[1] != "showcase-final" {
		t.Errorf("rules = %v", a.Rules)
	}
}

func TestClassifySameStageTieResolvesByOrder(t *testing.T) {
	// equal-length matches that agree on the stage take the first rule
	rules := append([]Rule{
		{
			Name:    "showcase-first",
			Pattern: regexp.MustCompile(`(?i)\bshowcase$`),
			Kind:    func(m []string) Kind { return Heat(1) },
		},
		{
			Name:    "showcase-second",
			Pattern: regexp.MustCompile(`(?i)\bshowcase$`),
			Kind:    func(m []string) Kind { return Heat(2) },
		},
	}, defaultRules...)

	rep := &Report{}
	c := NewClassifier(testCodes, nil, WithRules(rules))
	ev := c.Classify(RawEvent{Line: 7, Name: "Acquire Showcase"}, rep)

	if ev.Kind != Heat(1) {
		t.Errorf("kind = %s, expected the first declared rule", ev.Kind)
	}
	if len(rep.Ambiguous) != 0 {
		t.Errorf("same-stage ties are not ambiguous: %+v", rep.Ambiguous)
	}
}

func TestClassifyPreCon(t *testing.T) {
	ev, _ := classify(t, "PC Acquire H1")
	if !ev.PreCon {
		t.Errorf("expected the PC prefix to mark pre-con")
	}
	if ev.Kind != Heat(1) || ev.Code != "ACQ" {
		t.Errorf("unexpected classification: %+v", ev)
	}

	ev, _ = classify(t, "Acquire PC H1")
	if !ev.PreCon || ev.Code != "ACQ" {
		t.Errorf("expected the infix PC marker stripped, got %+v", ev)
	}
}

func TestClassifyUnmatched(t *testing.T) {
	ev, _ := classify(t, "Opening Ceremony")
	if ev.Kind != Other() {
		t.Errorf("kind = %s, expected Other", ev.Kind)
	}
	if ev.Code != "" {
		t.Errorf("code = %q, expected none", ev.Code)
	}
}

func TestClassifyUnknownNameDropsKind(t *testing.T) {
	// a recognizable stage on an unknown tournament name has nothing to
	// attach to
	ev, _ := classify(t, "Secret Prototype H1")
	if ev.Kind != Other() {
		t.Errorf("kind = %s, expected Other", ev.Kind)
	}
}

func TestClassifyExplicitCodeWins(t *testing.T) {
	rep := &Report{}
	c := NewClassifier(testCodes, nil)
	ev := c.Classify(RawEvent{Line: 1, Name: "Acquire H1", Code: "AQR"}, rep)
	if ev.Code != "AQR" {
		t.Errorf("code = %q, expected the spreadsheet value kept", ev.Code)
	}
	if ev.Kind != Heat(1) {
		t.Errorf("kind = %s, expected H1", ev.Kind)
	}
}

func TestClassifyMulliganWinnerRound(t *testing.T) {
	// ' MWR' is scheduling noise; the row stays attached to its tournament
	// but carries no stage
	ev, _ := classify(t, "Acquire MWR")
	if ev.Kind != Other() {
		t.Errorf("kind = %s, expected Other", ev.Kind)
	}
	if ev.Code != "ACQ" {
		t.Errorf("code = %q, expected ACQ", ev.Code)
	}
}

func TestPrepareName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ticket  to   Ride Final", "Ticket to Ride F"},
		{"Acquire MWR", "Acquire"},
		{"Acquire H1", "Acquire H1"},
	}
	for _, tc := range tests {
		if got := prepareName(tc.in); got != tc.want {
			t.Errorf("prepareName(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestKindCompare(t *testing.T) {
	ordered := []Kind{Demo(), Mulligan(), Heat(1), Heat(2), Round(1, 4), Round(2, 4), Quarterfinal(), Semifinal(), Final()}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Compare(ordered[i]) >= 0 {
			t.Errorf("expected %s < %s", ordered[i-1], ordered[i])
		}
		if ordered[i].Compare(ordered[i-1]) <= 0 {
			t.Errorf("expected %s > %s", ordered[i], ordered[i-1])
		}
	}
	if Heat(2).Compare(Heat(2)) != 0 {
		t.Errorf("expected equal heats to compare equal")
	}
}
