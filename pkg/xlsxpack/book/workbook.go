package book

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
	"golang.org/x/text/unicode/norm"
)

// MaxSheetNameLen is the longest sheet name spreadsheet readers accept.
const MaxSheetNameLen = 31

// NewWorkbook returns an empty workbook stamped with the current time.
func NewWorkbook() *models.Workbook {
	return &models.Workbook{
		Sheets:    make(map[string]*models.Sheet),
		CreatedAt: time.Now().UTC(),
	}
}

// SanitizeSheetName returns a name acceptable to spreadsheet readers: NFC
// normalized, without control characters or \ / ? * [ ] :, trimmed, at most
// MaxSheetNameLen characters, never empty.
func SanitizeSheetName(name string) string {
	name = norm.NFC.String(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r <= 0x1F, r == 0x7F:
			return -1
		}
		switch r {
		case '\\', '/', '?', '*', '[', ']', ':':
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "Sheet"
	}
	return strings.TrimSpace(truncateRunes(name, MaxSheetNameLen))
}

// AppendSheet registers sheet under a sanitized, unique name and returns that
// name. The empty marker is skipped and "" is returned.
func AppendSheet(wb *models.Workbook, sheet *models.Sheet, name string) string {
	if wb == nil || sheet.IsEmpty() {
		return ""
	}
	if wb.Sheets == nil {
		wb.Sheets = make(map[string]*models.Sheet)
	}
	if strings.TrimSpace(name) == "" {
		name = "Sheet" + strconv.Itoa(len(wb.SheetNames)+1)
	}

	final := uniqueName(wb.SheetNames, SanitizeSheetName(name))
	wb.SheetNames = append(wb.SheetNames, final)
	wb.Sheets[final] = sheet
	return final
}

// FromSections builds a workbook with one sheet per non-empty section, in order.
func FromSections(sections []models.Section) *models.Workbook {
	wb := NewWorkbook()
	for _, sec := range sections {
		AppendSheet(wb, SheetFromRecords(sec.Records), sec.Name)
	}
	return wb
}

// uniqueName appends _1, _2, ... to base until it differs from every existing
// name without regard to case. The base is shortened so the result still fits.
func uniqueName(existing []string, base string) string {
	if !containsFold(existing, base) {
		return base
	}
	for i := 1; ; i++ {
		suffix := "_" + strconv.Itoa(i)
		stem := truncateRunes(base, MaxSheetNameLen-utf8.RuneCountInString(suffix))
		candidate := stem + suffix
		if !containsFold(existing, candidate) {
			return candidate
		}
	}
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	rs := []rune(s)
	return string(rs[:max])
}
