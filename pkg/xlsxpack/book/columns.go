package book

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxColumns is the widest sheet a spreadsheet reader accepts (XFD).
const MaxColumns = 16384

// ColumnName converts a 1-based column index to its letter form (1 → "A",
// 27 → "AA"). Indexes below 1 yield "".
func ColumnName(n int) string {
	if n < 1 {
		return ""
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}

// ColumnNumber converts column letters back to the 1-based index.
func ColumnNumber(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("invalid column name %q", name)
	}
	n := 0
	for _, r := range strings.ToUpper(name) {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column name %q", name)
		}
		n = n*26 + int(r-'A'+1)
		if n > MaxColumns {
			return 0, fmt.Errorf("column %q out of range", name)
		}
	}
	return n, nil
}

// CellRef returns the A1-style address of a 1-based column and row.
func CellRef(col, row int) string {
	return ColumnName(col) + strconv.Itoa(row)
}

// RangeRef returns the dimension reference covering rows x cols from A1.
// An empty grid is reported as "A1".
func RangeRef(rows, cols int) string {
	if rows <= 0 || cols <= 0 {
		return "A1"
	}
	return "A1:" + CellRef(cols, rows)
}
