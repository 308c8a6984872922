package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVSource reads the semicolon-delimited CSV exports of the schedule
// spreadsheet. All cells come back as text; the layout profile is
// responsible for interpreting dates, times and numbers.
type CSVSource struct {
	r     io.Reader
	comma rune
}

func NewCSVSource(r io.Reader) *CSVSource {
	return &CSVSource{r: r, comma: ';'}
}

func (s *CSVSource) WithComma(c rune) *CSVSource {
	s.comma = c
	return s
}

func (s *CSVSource) Rows() ([]Row, error) {
	cr := csv.NewReader(s.r)
	cr.Comma = s.comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv rows: %w", err)
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		row := Row{Line: i + 1, Cells: make([]Cell, len(rec))}
		for j, field := range rec {
			row.Cells[j] = Txt(field)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
