package book

import "github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"

// keySet is an insertion-ordered set of field names.
type keySet struct {
	order []string
	seen  map[string]struct{}
}

func newKeySet() *keySet {
	return &keySet{seen: make(map[string]struct{})}
}

func (k *keySet) add(key string) {
	if _, ok := k.seen[key]; ok {
		return
	}
	k.seen[key] = struct{}{}
	k.order = append(k.order, key)
}

// EmptySheet returns the marker for a sheet without data. AppendSheet skips it.
func EmptySheet() *models.Sheet {
	return &models.Sheet{Ref: "A1"}
}

// SheetFromRecords builds a sheet from records. The header row is the union of
// all field names in first-seen order; each data row has one cell per header.
// Input with no records or no fields yields EmptySheet.
func SheetFromRecords(records []models.Record) *models.Sheet {
	if len(records) == 0 {
		return EmptySheet()
	}

	keys := newKeySet()
	for _, rec := range records {
		for _, f := range rec {
			keys.add(f.Key)
		}
	}
	if len(keys.order) == 0 {
		return EmptySheet()
	}

	headers := keys.order
	rows := make([][]models.Cell, 0, len(records)+1)

	head := make([]models.Cell, len(headers))
	for i, h := range headers {
		head[i] = models.StringCell(h)
	}
	rows = append(rows, head)

	for _, rec := range records {
		row := make([]models.Cell, len(headers))
		for i, h := range headers {
			v, _ := rec.Get(h)
			row[i] = NormalizeCell(v)
		}
		rows = append(rows, row)
	}

	return &models.Sheet{
		Headers: headers,
		Rows:    rows,
		Ref:     RangeRef(len(rows), len(headers)),
	}
}
