package models

// Sheet is a rectangular grid of typed cells. Rows[0] is the header row.
type Sheet struct {
	// Headers holds the column names in column order.
	Headers []string `json:"headers"`
	// Rows holds every row including the header row; each has len(Headers) cells.
	Rows [][]Cell `json:"rows"`
	// Ref is the dimension reference spanning the grid (e.g., "A1:D12").
	Ref string `json:"ref"`
}

// IsEmpty reports whether the sheet is the empty marker produced for input
// without records or fields.
func (s *Sheet) IsEmpty() bool {
	return s == nil || len(s.Headers) == 0 || len(s.Rows) == 0
}

// SheetData represents structured data for a single sheet read back from a file.
type SheetData struct {
	// Part is the worksheet part path inside the package.
	Part string `json:"part,omitempty"`
	// Dimension is the dimension reference declared by the worksheet.
	Dimension string `json:"dimension,omitempty"`
	// UsedRange is the bounding range of non-empty cells.
	UsedRange string `json:"used_range,omitempty"`
	// Rows contains extracted non-empty rows.
	Rows []CellRow `json:"rows,omitempty"`
}
