package ooxml

import (
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/book"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
)

// Worksheet renders one worksheet part. Numbers are written as <v> values and
// text as inline strings capped at maxChars characters.
func Worksheet(sheet *models.Sheet, maxChars int) []byte {
	if maxChars <= 0 {
		maxChars = MaxCellChars
	}
	ref := sheet.Ref
	if ref == "" {
		ref = book.RangeRef(len(sheet.Rows), len(sheet.Headers))
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<worksheet xmlns="` + nsMain + `" xmlns:r="` + nsR + `">`)
	b.WriteString(`<dimension ref="` + ref + `"/>`)
	b.WriteString(`<sheetData>`)
	for r, row := range sheet.Rows {
		rowNum := strconv.Itoa(r + 1)
		b.WriteString(`<row r="` + rowNum + `">`)
		for c, cell := range row {
			writeCell(&b, book.ColumnName(c+1)+rowNum, cell, maxChars)
		}
		b.WriteString(`</row>`)
	}
	b.WriteString(`</sheetData></worksheet>`)
	return []byte(b.String())
}

func writeCell(b *strings.Builder, ref string, cell models.Cell, maxChars int) {
	if cell.Type == models.CellNumber && !math.IsNaN(cell.Num) && !math.IsInf(cell.Num, 0) {
		b.WriteString(`<c r="` + ref + `"><v>` + FormatNumber(cell.Num) + `</v></c>`)
		return
	}

	text := cell.Str
	if cell.Type == models.CellNumber {
		text = FormatNumber(cell.Num)
	}
	text = truncateRunes(text, maxChars)

	b.WriteString(`<c r="` + ref + `" t="inlineStr"><is>`)
	if needsPreserve(text) {
		b.WriteString(`<t xml:space="preserve">`)
	} else {
		b.WriteString(`<t>`)
	}
	b.WriteString(escape(text))
	b.WriteString(`</t></is></c>`)
}

// FormatNumber writes v in plain decimal notation, switching to exponent form
// only for magnitudes plain notation cannot carry compactly.
func FormatNumber(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e21 || abs < 1e-7) {
		return strconv.FormatFloat(v, 'E', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
