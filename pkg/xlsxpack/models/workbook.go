package models

import "time"

// Workbook is an ordered collection of named sheets built for a single export.
type Workbook struct {
	// SheetNames lists sheet names in tab order.
	SheetNames []string
	// Sheets maps sheet name to Sheet.
	Sheets map[string]*Sheet
	// CreatedAt is written to the document metadata.
	CreatedAt time.Time
}

// Len returns the number of sheets.
func (wb *Workbook) Len() int {
	if wb == nil {
		return 0
	}
	return len(wb.SheetNames)
}

// WorkbookData represents workbook-level container with per-sheet data.
type WorkbookData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// SheetOrder lists sheet names in tab order.
	SheetOrder []string `json:"sheet_order"`
	// Sheets maps sheet name to SheetData.
	Sheets map[string]SheetData `json:"sheets"`
	// Parts lists the archive entries when requested.
	Parts []PartInfo `json:"parts,omitempty"`
}

// PartInfo describes one file inside an xlsx package.
type PartInfo struct {
	// Path is the part name inside the archive.
	Path string `json:"path"`
	// Size is the uncompressed size in bytes.
	Size uint64 `json:"size"`
	// CRC32 is the checksum recorded in the central directory.
	CRC32 uint32 `json:"crc32"`
	// Stored reports an uncompressed entry.
	Stored bool `json:"stored"`
}
