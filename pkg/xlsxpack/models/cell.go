// Package models defines data structures for spreadsheet export and inspection.
package models

// CellType tags the value stored in a Cell.
type CellType string

const (
	// CellNumber holds a finite numeric value.
	CellNumber CellType = "n"
	// CellString holds text, written as an inline string.
	CellString CellType = "s"
)

// Cell is a typed spreadsheet value. Exactly one of Num or Str is meaningful,
// selected by Type.
type Cell struct {
	Type CellType `json:"t"`
	Num  float64  `json:"n,omitempty"`
	Str  string   `json:"s,omitempty"`
}

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{Type: CellNumber, Num: v}
}

// StringCell returns a string cell.
func StringCell(s string) Cell {
	return Cell{Type: CellString, Str: s}
}

// CellRow represents a single row of cells read back from a workbook.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// C maps column index (string) to cell value.
	C map[string]interface{} `json:"c"`
}
