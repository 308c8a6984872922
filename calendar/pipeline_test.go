package calendar

import (
	"strings"
	"testing"

	"github.com/wcraigtrader/wbc/schedule"
	"github.com/wcraigtrader/wbc/spreadsheet"
)

// End-to-end run over a small CSV export: rows in, calendar entries out.
func TestPipeline(t *testing.T) {
	csv := strings.Join([]string{
		"Date;Time;Event;Code;Duration;Location;Format;GM;Continuous",
		"2024-08-01;09:00;Acquire H1;ACQ;11:00;Salon A;;;",
		"2024-08-01;13:00;Acquire H2;ACQ;15:00;Salon A;;;",
		"2024-08-01;10:00;Ticket to Ride F;TTR;12:00;Salon B;;;",
	}, "\n")

	rows, err := spreadsheet.NewCSVSource(strings.NewReader(csv)).Rows()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	rep := &schedule.Report{}
	norm, err := schedule.NewNormalizer("classic")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	raw, err := norm.Normalize(rows, rep)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	names := map[string]string{"ACQ": "Acquire", "TTR": "Ticket to Ride"}
	cls := schedule.NewClassifier(nil, names)
	events := make([]schedule.ClassifiedEvent, 0, len(raw))
	for _, r := range raw {
		events = append(events, cls.Classify(r, rep))
	}

	snap := schedule.NewAssembler(names).Assemble("2024", events, rep)
	schedule.DetectConflicts(snap, rep)

	if len(snap.Tournaments) != 2 {
		t.Fatalf("expected 2 tournaments, got %d", len(snap.Tournaments))
	}
	if acq := snap.Tournament("ACQ"); len(acq.Events) != 2 {
		t.Errorf("expected 2 heats for ACQ, got %d", len(acq.Events))
	}
	for _, c := range rep.Conflicts {
		t.Errorf("unexpected conflict: %s", c)
	}

	out := NewSynthesizer().Synthesize(snap, rep)
	if len(out.All) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out.All))
	}
	uids := map[string]bool{}
	for _, e := range out.All {
		uids[e.UID] = true
	}
	if len(uids) != 3 {
		t.Errorf("uids not distinct: %v", uids)
	}
}
