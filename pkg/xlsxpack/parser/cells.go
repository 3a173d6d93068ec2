// Package parser reads xlsx files back into inspection models.
package parser

import (
	"strconv"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
	"github.com/xuri/excelize/v2"
)

// ExtractCells returns the non-empty rows of a sheet, keyed by 1-based column
// number. Number cells come back as int64 or float64; text stays text even
// when it looks numeric. An inline string cell counts as data when empty.
func ExtractCells(f *excelize.File, sheetName string) ([]models.CellRow, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	out := make([]models.CellRow, 0, len(rows))
	for r, row := range rows {
		cells := make(map[string]interface{})
		for c, raw := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheetName, ref)
			if err != nil {
				return nil, err
			}
			if raw == "" && typ != excelize.CellTypeInlineString {
				continue
			}
			cells[strconv.Itoa(c+1)] = cellValue(raw, typ)
		}
		if len(cells) > 0 {
			out = append(out, models.CellRow{R: r + 1, C: cells})
		}
	}
	return out, nil
}

func cellValue(raw string, typ excelize.CellType) interface{} {
	if typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset {
		return raw
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
