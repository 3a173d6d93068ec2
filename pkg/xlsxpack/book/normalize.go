// Package book converts records into sheets and assembles workbooks.
package book

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
)

// ISOLayout is the layout used for time values: UTC with millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// NormalizeCell converts an arbitrary value into a typed cell.
// It is defined for every input and never fails.
func NormalizeCell(v any) models.Cell {
	switch t := v.(type) {
	case nil:
		return models.StringCell("")
	case models.Cell:
		return t
	case string:
		return models.StringCell(t)
	case bool:
		if t {
			return models.NumberCell(1)
		}
		return models.NumberCell(0)
	case float64:
		return floatCell(t)
	case float32:
		return floatCell(float64(t))
	case int:
		return models.NumberCell(float64(t))
	case int8:
		return models.NumberCell(float64(t))
	case int16:
		return models.NumberCell(float64(t))
	case int32:
		return models.NumberCell(float64(t))
	case int64:
		return models.NumberCell(float64(t))
	case uint:
		return models.NumberCell(float64(t))
	case uint8:
		return models.NumberCell(float64(t))
	case uint16:
		return models.NumberCell(float64(t))
	case uint32:
		return models.NumberCell(float64(t))
	case uint64:
		return models.NumberCell(float64(t))
	case json.Number:
		if f, err := strconv.ParseFloat(string(t), 64); err == nil {
			return floatCell(f)
		}
		return models.StringCell(string(t))
	case time.Time:
		return models.StringCell(t.UTC().Format(ISOLayout))
	case []byte:
		return models.StringCell(string(t))
	case error:
		if isNilPointer(v) {
			return models.StringCell("")
		}
		return models.StringCell(t.Error())
	case fmt.Stringer:
		if isNilPointer(v) {
			return models.StringCell("")
		}
		return models.StringCell(t.String())
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return models.StringCell("")
		}
		return NormalizeCell(rv.Elem().Interface())
	}
	return models.StringCell(fmt.Sprint(v))
}

// floatCell keeps finite values numeric and spells out the others.
func floatCell(f float64) models.Cell {
	switch {
	case math.IsNaN(f):
		return models.StringCell("NaN")
	case math.IsInf(f, 1):
		return models.StringCell("Infinity")
	case math.IsInf(f, -1):
		return models.StringCell("-Infinity")
	}
	return models.NumberCell(f)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
