package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrUnsupportedLayout is fatal: without a known profile there is no
	// safe column mapping to fall back to.
	ErrUnsupportedLayout = errors.New("unsupported layout profile")

	// ErrNoRows is fatal: the source contained no parseable event rows.
	ErrNoRows = errors.New("no parseable rows in source")
)

// MalformedRow records a dropped row: a required field was missing or could
// not be parsed. The run continues without it.
type MalformedRow struct {
	Line   int
	Field  string
	Value  string
	Reason string
}

func (m MalformedRow) String() string {
	return fmt.Sprintf("row %d: bad %s (%q): %s", m.Line, m.Field, m.Value, m.Reason)
}

// Ambiguity records an event name that matched more than one classification
// rule with equal specificity. The event is kept as Other instead of guessing.
type Ambiguity struct {
	Line  int
	Name  string
	Rules []string
}

func (a Ambiguity) String() string {
	return fmt.Sprintf("row %d: %q matches %v equally", a.Line, a.Name, a.Rules)
}

// OrderViolation records a tournament timeline whose kind sequence went
// backwards when sorted by start time.
type OrderViolation struct {
	Code  string
	Line  int
	Kind  Kind
	After Kind
}

func (o OrderViolation) String() string {
	return fmt.Sprintf("%s row %d: %s scheduled after %s", o.Code, o.Line, o.Kind, o.After)
}

// StructuralGap records an expected stage that is missing from a tournament,
// e.g. a Round 2 with no Round 1 or heat before it.
type StructuralGap struct {
	Code    string
	Line    int
	Kind    Kind
	Missing string
}

func (g StructuralGap) String() string {
	return fmt.Sprintf("%s row %d: %s has no %s", g.Code, g.Line, g.Kind, g.Missing)
}

// ConflictKind distinguishes the advisory overlap checks.
type ConflictKind int

const (
	// RoomOverlap: two events from different tournaments share a room for
	// overlapping time windows.
	RoomOverlap ConflictKind = iota
	// SelfOverlap: two events of the same tournament overlap in time.
	SelfOverlap
)

func (k ConflictKind) String() string {
	if k == RoomOverlap {
		return "room overlap"
	}
	return "self overlap"
}

// Conflict is one detected overlap. Conflicts never block synthesis; the
// source data is known to contain intentional overlaps.
type Conflict struct {
	Kind           ConflictKind
	Room           string
	CodeA, CodeB   string
	LineA, LineB   int
	StartA, StartB time.Time
}

func (c Conflict) String() string {
	switch c.Kind {
	case RoomOverlap:
		return fmt.Sprintf("%s in %s: %s row %d vs %s row %d", c.Kind, c.Room, c.CodeA, c.LineA, c.CodeB, c.LineB)
	default:
		return fmt.Sprintf("%s in %s: rows %d, %d", c.Kind, c.CodeA, c.LineA, c.LineB)
	}
}

// Report accumulates every per-row and per-tournament anomaly of one run.
// The engine never aborts on a bounded number of bad rows; callers inspect
// the report alongside the assembled snapshot.
type Report struct {
	Malformed  []MalformedRow
	Ambiguous  []Ambiguity
	Violations []OrderViolation
	Gaps       []StructuralGap
	Conflicts  []Conflict
}

func (r *Report) Empty() bool {
	return r.Total() == 0
}

func (r *Report) Total() int {
	return len(r.Malformed) + len(r.Ambiguous) + len(r.Violations) + len(r.Gaps) + len(r.Conflicts)
}

// FlaggedCodes returns the tournament codes carrying violations, gaps or
// conflicts, for annotating synthesized entries.
func (r *Report) FlaggedCodes() map[string]bool {
	codes := make(map[string]bool)
	for _, v := range r.Violations {
		codes[v.Code] = true
	}
	for _, g := range r.Gaps {
		codes[g.Code] = true
	}
	for _, c := range r.Conflicts {
		codes[c.CodeA] = true
		codes[c.CodeB] = true
	}
	return codes
}

// Log enumerates every anomaly with enough context to locate the source row.
func (r *Report) Log(l *slog.Logger) {
	for _, m := range r.Malformed {
		l.Warn("malformed row", "line", m.Line, "field", m.Field, "value", m.Value, "reason", m.Reason)
	}
	for _, a := range r.Ambiguous {
		l.Warn("ambiguous classification", "line", a.Line, "name", a.Name, "rules", a.Rules)
	}
	for _, v := range r.Violations {
		l.Warn("order violation", "code", v.Code, "line", v.Line, "kind", v.Kind.String(), "after", v.After.String())
	}
	for _, g := range r.Gaps {
		l.Warn("structural gap", "code", g.Code, "line", g.Line, "kind", g.Kind.String(), "missing", g.Missing)
	}
	for _, c := range r.Conflicts {
		l.Warn(c.Kind.String(), "room", c.Room, "a", c.CodeA, "b", c.CodeB, "lineA", c.LineA, "lineB", c.LineB)
	}
}
