package spreadsheet

import (
	"strconv"
	"strings"
	"time"
)

// CellType mirrors the cell types the upstream spreadsheet readers produce.
type CellType int

const (
	CellEmpty CellType = iota
	CellText
	CellNumber
	CellDate
)

// Cell is one typed spreadsheet value. The file readers that produce cells
// live outside this module; the engine only consumes them.
type Cell struct {
	Type   CellType
	Text   string
	Number float64
	Date   time.Time
}

func Empty() Cell {
	return Cell{Type: CellEmpty}
}

// Text cells that hold '--' are placeholders for empty cells in the source
// spreadsheets, and get normalized away here.
func Txt(s string) Cell {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" || s == "--" {
		return Cell{Type: CellEmpty}
	}
	return Cell{Type: CellText, Text: s}
}

func Num(f float64) Cell {
	return Cell{Type: CellNumber, Number: f}
}

func Date(t time.Time) Cell {
	return Cell{Type: CellDate, Date: t}
}

func (c Cell) IsEmpty() bool {
	return c.Type == CellEmpty
}

// String renders the cell the way it would have looked in the sheet.
func (c Cell) String() string {
	switch c.Type {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format("2006-01-02 15:04")
	}
	return ""
}

// Row is one raw spreadsheet row. Line is the 1-based line number in the
// source file, kept for error reporting.
type Row struct {
	Line  int
	Cells []Cell
}

func (r Row) IsBlank() bool {
	for _, c := range r.Cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

func (r Row) Cell(i int) Cell {
	if i < 0 || i >= len(r.Cells) {
		return Empty()
	}
	return r.Cells[i]
}

// Source supplies an ordered sequence of rows, header included. Spreadsheet
// file parsing is an external collaborator; adapters only need to satisfy
// this interface.
type Source interface {
	Rows() ([]Row, error)
}
