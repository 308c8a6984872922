package spreadsheet

import (
	"strings"
	"testing"
)

func TestCSVSourceRows(t *testing.T) {
	in := strings.Join([]string{
		"Date;Time;Event",
		"7/22/2023;9;Acquire H1",
		";;",
		"7/22/2023;18;--",
	}, "\n")

	rows, err := NewCSVSource(strings.NewReader(in)).Rows()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Line != 1 || rows[3].Line != 4 {
		t.Errorf("line numbers not preserved: %d, %d", rows[0].Line, rows[3].Line)
	}
	if got := rows[1].Cell(2).String(); got != "Acquire H1" {
		t.Errorf("expected event cell, got %q", got)
	}
	if !rows[2].IsBlank() {
		t.Errorf("expected empty row to be blank")
	}
	if !rows[3].Cell(2).IsEmpty() {
		t.Errorf("expected '--' cell to normalize to empty")
	}
}

func TestCSVSourceWithComma(t *testing.T) {
	in := "Date,Time,Event\n7/22/2023,9,Acquire H1\n"

	rows, err := NewCSVSource(strings.NewReader(in)).WithComma(',').Rows()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if got := rows[1].Cell(2).String(); got != "Acquire H1" {
		t.Errorf("expected event cell, got %q", got)
	}
}

func TestCSVSourceRaggedRows(t *testing.T) {
	in := "Date;Time;Event;Location\n7/22/2023;9\n"

	rows, err := NewCSVSource(strings.NewReader(in)).Rows()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got := rows[1].Cell(3); !got.IsEmpty() {
		t.Errorf("expected out of range cell to be empty, got %v", got)
	}
}

func TestTxtNormalization(t *testing.T) {
	tests := []struct {
		in   string
		want Cell
	}{
		{"  Acquire   H1 ", Cell{Type: CellText, Text: "Acquire H1"}},
		{"--", Cell{Type: CellEmpty}},
		{"   ", Cell{Type: CellEmpty}},
	}
	for _, tc := range tests {
		if got := Txt(tc.in); got != tc.want {
			t.Errorf("Txt(%q) = %v, expected %v", tc.in, got, tc.want)
		}
	}
}
