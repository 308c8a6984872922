package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule is one declarative classification pattern. Patterns are anchored at
// the end of the event name; the matched text is stripped to leave the
// tournament name for code lookup.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Kind    func(m []string) Kind
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// defaultRules is the ordered rule table. Precedence is explicit: the
// longest match wins, and among equally long matches the declaration order
// decides -- unless the tied rules disagree on the stage, which is flagged
// as ambiguous instead of guessed.
var defaultRules = []Rule{
	{
		Name:    "mulligan",
		Pattern: regexp.MustCompile(`(?i)\bmulligan$`),
		Kind:    func(m []string) Kind { return Mulligan() },
	},
	{
		Name:    "demo",
		Pattern: regexp.MustCompile(`(?i)\bdemo(?:nstration)?(?:\s+(\d+)(?:[-/]\d+)?)?$`),
		Kind:    func(m []string) Kind { return Kind{Stage: StageDemo, Number: atoi(m[1])} },
	},
	{
		Name:    "demo-counter",
		Pattern: regexp.MustCompile(`\bD(\d+)[-/](\d+)$`),
		Kind:    func(m []string) Kind { return Kind{Stage: StageDemo, Number: atoi(m[1])} },
	},
	{
		Name:    "round-counter",
		Pattern: regexp.MustCompile(`\bR(\d+)[-/](\d+)$`),
		Kind:    func(m []string) Kind { return Round(atoi(m[1]), atoi(m[2])) },
	},
	{
		Name:    "round",
		Pattern: regexp.MustCompile(`(?i)\bround\s+(\d+)$`),
		Kind:    func(m []string) Kind { return Round(atoi(m[1]), 0) },
	},
	{
		Name:    "heat-counter",
		Pattern: regexp.MustCompile(`\bH(\d+)(?:[-/]\d+)?$`),
		Kind:    func(m []string) Kind { return Heat(atoi(m[1])) },
	},
	{
		Name:    "heat",
		Pattern: regexp.MustCompile(`(?i)\bheat\s+(\d+)$`),
		Kind:    func(m []string) Kind { return Heat(atoi(m[1])) },
	},
	{
		// bare 'n/m' counters denote heats on the oldest sheets
		Name:    "bare-counter",
		Pattern: regexp.MustCompile(`\b(\d+)[-/](\d+)$`),
		Kind:    func(m []string) Kind { return Heat(atoi(m[1])) },
	},
	{
		Name:    "quarterfinal",
		Pattern: regexp.MustCompile(`(?i)\b(?:QF|quarter-?finals?)$`),
		Kind:    func(m []string) Kind { return Quarterfinal() },
	},
	{
		Name:    "semifinal",
		Pattern: regexp.MustCompile(`(?i)\b(?:SF|semi-?finals?)$`),
		Kind:    func(m []string) Kind { return Semifinal() },
	},
	{
		Name:    "final",
		Pattern: regexp.MustCompile(`(?i)\b(?:F|finals?)$`),
		Kind:    func(m []string) Kind { return Final() },
	},
}

var juniorTokens = []string{"Jr", "Jr.", "Junior", "JR"}

// Classifier derives kind and tournament code from the free-text event
// name using the ordered rule table plus the event-code lookup tables.
type Classifier struct {
	rules []Rule
	codes map[string]string
	names map[string]string
}

type ClassifierOption func(*Classifier)

// WithRules replaces the default rule table. Precedence is unchanged: the
// longest match wins, declaration order breaks same-stage ties.
func WithRules(rules []Rule) ClassifierOption {
	return func(c *Classifier) { c.rules = rules }
}

// NewClassifier builds a classifier over the default rule table. codes maps
// event names (including alternate names) to tournament codes; names maps
// codes back to display names.
func NewClassifier(codes, names map[string]string, opts ...ClassifierOption) *Classifier {
	if codes == nil {
		codes = map[string]string{}
	}
	if names == nil {
		names = map[string]string{}
	}
	c := &Classifier{rules: defaultRules, codes: codes, names: names}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify assigns a kind and tournament code to one raw event. Events that
// match no tournament pattern, or whose name resolves to no known code,
// come back as StageOther and are excluded from assembly but retained for
// the aggregate calendar.
func (c *Classifier) Classify(raw RawEvent, rep *Report) ClassifiedEvent {
	ev := ClassifiedEvent{RawEvent: raw, Kind: Other(), Code: raw.Code}

	name := prepareName(raw.Name)
	name, ev.Junior = stripJunior(name)
	name, ev.PreCon = stripPreCon(name)

	match, ambiguous := c.match(name)
	if ambiguous != nil {
		ambiguous.Line = raw.Line
		rep.Ambiguous = append(rep.Ambiguous, *ambiguous)
		return ev
	}
	remainder := name
	if match != nil {
		ev.Kind = match.kind
		remainder = strings.TrimSpace(name[:match.at])
		// junior and pre-con markers sit between the name and the stage suffix
		var jr, pc bool
		remainder, jr = stripJunior(remainder)
		remainder, pc = stripPreCon(remainder)
		ev.Junior = ev.Junior || jr
		ev.PreCon = ev.PreCon || pc
	}

	if ev.Code == "" {
		if code, ok := c.codes[remainder]; ok {
			ev.Code = code
		}
	}
	if ev.Code == "" {
		// no tournament to attach to
		ev.Kind = Other()
	}
	return ev
}

type ruleMatch struct {
	rule string
	kind Kind
	at   int // offset of the matched suffix in the name
	text string
}

func (c *Classifier) match(name string) (*ruleMatch, *Ambiguity) {
	var best *ruleMatch
	var tied []ruleMatch
	for _, r := range c.rules {
		loc := r.Pattern.FindStringSubmatchIndex(name)
		if loc == nil {
			continue
		}
		m := ruleMatch{
			rule: r.Name,
			kind: r.Kind(submatches(name, loc)),
			at:   loc[0],
			text: name[loc[0]:loc[1]],
		}
		switch {
		case best == nil || len(m.text) > len(best.text):
			best = &m
			tied = tied[:0]
		case len(m.text) == len(best.text):
			tied = append(tied, m)
		}
	}
	if best == nil {
		return nil, nil
	}
	for _, m := range tied {
		if m.kind.Stage != best.kind.Stage {
			rules := []string{best.rule}
			for _, t := range tied {
				rules = append(rules, t.rule)
			}
			return nil, &Ambiguity{Name: name, Rules: rules}
		}
	}
	return best, nil
}

func submatches(name string, loc []int) []string {
	m := make([]string, 0, len(loc)/2)
	for i := 0; i < len(loc); i += 2 {
		if loc[i] < 0 {
			m = append(m, "")
			continue
		}
		m = append(m, name[loc[i]:loc[i+1]])
	}
	return m
}

// prepareName applies the sheet's naming quirks before rule matching: a
// trailing 'Final' is written out on some rows where others use 'F', and
// ' MWR' (mulligan winner round) is noise.
func prepareName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if strings.HasSuffix(name, "Final") {
		name = strings.TrimSuffix(name, "inal")
	}
	name = strings.TrimSuffix(name, " MWR")
	return name
}

// stripPreCon drops the grognard pre-con marker.
func stripPreCon(name string) (string, bool) {
	if strings.HasPrefix(name, "PC ") {
		return strings.TrimSpace(name[3:]), true
	}
	if strings.HasSuffix(name, " PC") {
		return strings.TrimSpace(strings.TrimSuffix(name, " PC")), true
	}
	return name, false
}

func stripJunior(name string) (string, bool) {
	if strings.HasPrefix(name, "JR ") {
		return strings.TrimSpace(name[3:]), true
	}
	for _, tok := range juniorTokens {
		if strings.HasSuffix(name, " "+tok) {
			return strings.TrimSpace(strings.TrimSuffix(name, " "+tok)), true
		}
	}
	return name, false
}
