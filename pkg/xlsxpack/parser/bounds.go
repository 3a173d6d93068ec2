package parser

import (
	"github.com/xuri/excelize/v2"
)

// bounds is a zero-based, inclusive box of grid positions.
type bounds struct {
	top, left, bottom, right int
	ok                       bool
}

func (b *bounds) include(row, col int) {
	if !b.ok {
		*b = bounds{top: row, left: col, bottom: row, right: col, ok: true}
		return
	}
	b.top = min(b.top, row)
	b.bottom = max(b.bottom, row)
	b.left = min(b.left, col)
	b.right = max(b.right, col)
}

// dataBounds boxes every non-empty value of rows.
func dataBounds(rows [][]string) bounds {
	var b bounds
	for r, row := range rows {
		for c, v := range row {
			if v != "" {
				b.include(r, c)
			}
		}
	}
	return b
}

// ref renders b as an A1 range such as "A1:D10".
func (b bounds) ref() (string, error) {
	if !b.ok {
		return "", nil
	}
	start, err := excelize.CoordinatesToCellName(b.left+1, b.top+1)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(b.right+1, b.bottom+1)
	if err != nil {
		return "", err
	}
	return start + ":" + end, nil
}

// UsedRange returns the range covering the non-empty cells of a sheet, or ""
// when the sheet holds no data.
func UsedRange(f *excelize.File, sheetName string) (string, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", err
	}
	return dataBounds(rows).ref()
}
