package xlsxpack

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/book"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/ooxml"
	"github.com/xuri/excelize/v2"
)

type recordingHost struct {
	calls     int
	downloads []Download
	err       error
}

func (h *recordingHost) Emit(d Download) error {
	h.calls++
	h.downloads = append(h.downloads, d)
	return h.err
}

func sampleWorkbook() *models.Workbook {
	return book.FromSections([]models.Section{
		{Name: "Resumen métricas", Records: []models.Record{
			models.R("Métrica", "Asistencia hoy", "Valor", "324", "Cambio %", "+10.0%"),
		}},
		{Name: "Actividades recientes"},
		{Name: "Datos", Records: []models.Record{models.R("a", 1, "b", true)}},
		{Name: "Datos", Records: []models.Record{models.R("c", nil)}},
	})
}

func TestWriteArchiveToDownloadEmptyWorkbook(t *testing.T) {
	wb := book.FromSections([]models.Section{{Name: "Vacío"}, {Name: "Nada", Records: []models.Record{{}}}})
	if wb.Len() != 0 {
		t.Fatalf("Expected no sheets, got %v", wb.SheetNames)
	}

	host := &recordingHost{}
	err := WriteArchiveToDownload(wb, "export.xlsx", host)
	if !errors.Is(err, ErrEmptyWorkbook) {
		t.Errorf("err = %v, expected ErrEmptyWorkbook", err)
	}
	if host.calls != 0 {
		t.Errorf("host called %d times for empty workbook", host.calls)
	}

	if err := WriteArchiveToDownload(nil, "export.xlsx", host); !errors.Is(err, ErrEmptyWorkbook) {
		t.Errorf("nil workbook err = %v, expected ErrEmptyWorkbook", err)
	}
}

func TestWriteArchiveToDownloadNoHost(t *testing.T) {
	if err := WriteArchiveToDownload(sampleWorkbook(), "export.xlsx", nil); !errors.Is(err, ErrNoHost) {
		t.Errorf("err = %v, expected ErrNoHost", err)
	}
}

func TestWriteArchiveToDownloadHostError(t *testing.T) {
	boom := errors.New("disk full")
	err := WriteArchiveToDownload(sampleWorkbook(), "export.xlsx", &recordingHost{err: boom})

	var emitErr *EmitError
	if !errors.As(err, &emitErr) {
		t.Fatalf("err = %v, expected *EmitError", err)
	}
	if emitErr.Filename != "export.xlsx" || !errors.Is(err, boom) {
		t.Errorf("unexpected EmitError %+v", emitErr)
	}
}

func TestWriteArchiveToDownload(t *testing.T) {
	host := &recordingHost{}
	wb := sampleWorkbook()
	if err := WriteArchiveToDownload(wb, "dashboard.xlsx", host); err != nil {
		t.Fatalf("WriteArchiveToDownload failed: %v", err)
	}
	if host.calls != 1 {
		t.Fatalf("host called %d times", host.calls)
	}
	d := host.downloads[0]
	if d.Filename != "dashboard.xlsx" || d.ContentType != ContentType {
		t.Errorf("download = %q %q", d.Filename, d.ContentType)
	}
	if !bytes.HasPrefix(d.Data, []byte("PK\x03\x04")) {
		t.Error("download is not a zip archive")
	}

	expected := []string{"Resumen métricas", "Datos", "Datos_1"}
	if !reflect.DeepEqual(wb.SheetNames, expected) {
		t.Errorf("SheetNames = %v, expected %v", wb.SheetNames, expected)
	}

	f, err := excelize.OpenReader(bytes.NewReader(d.Data))
	if err != nil {
		t.Fatalf("excelize cannot open archive: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); !reflect.DeepEqual(got, expected) {
		t.Errorf("GetSheetList = %v, expected %v", got, expected)
	}
	rows, err := f.GetRows("Resumen métricas")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{{"Métrica", "Valor", "Cambio %"}, {"Asistencia hoy", "324", "+10.0%"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, expected %v", rows, want)
	}
}

func TestEncodeDeterministicWithFixedTimestamp(t *testing.T) {
	opts := DefaultOptions()
	opts.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	a, err := Encode(sampleWorkbook(), opts)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	b, err := Encode(sampleWorkbook(), opts)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Encode output differs between calls")
	}
}

// randomRecords produces records with varying keys and value types.
func randomRecords(rng *rand.Rand, n int) []models.Record {
	keys := []string{"id", "nombre", "valor", "activo", "fecha", "nota", "extra"}
	records := make([]models.Record, n)
	for i := range records {
		var rec models.Record
		for _, k := range keys {
			if rng.Intn(3) == 0 {
				continue
			}
			var v any
			switch rng.Intn(6) {
			case 0:
				v = rng.Intn(10000) - 5000
			case 1:
				v = float64(rng.Intn(1000)) / 8
			case 2:
				v = rng.Intn(2) == 0
			case 3:
				v = time.Unix(rng.Int63n(2e9), 0)
			case 4:
				v = nil
			default:
				v = fmt.Sprintf("texto <%d> & \"más\"", rng.Intn(100))
			}
			rec = append(rec, models.Field{Key: k, Value: v})
		}
		records[i] = rec
	}
	return records
}

func TestRoundTripThroughExcelize(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 20; iter++ {
		records := randomRecords(rng, 1+rng.Intn(30))
		sheet := book.SheetFromRecords(records)
		if sheet.IsEmpty() {
			continue
		}
		wb := book.NewWorkbook()
		book.AppendSheet(wb, sheet, "Datos")

		data, err := Encode(wb, DefaultOptions())
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("excelize.OpenReader failed: %v", err)
		}

		dim, err := f.GetSheetDimension("Datos")
		if err != nil || dim != sheet.Ref {
			t.Errorf("dimension = %q, %v, expected %q", dim, err, sheet.Ref)
		}

		for r, row := range sheet.Rows {
			if len(row) != len(sheet.Headers) {
				t.Fatalf("row %d is not rectangular", r)
			}
			for c, want := range row {
				ref := book.CellRef(c+1, r+1)
				got, err := f.GetCellValue("Datos", ref, excelize.Options{RawCellValue: true})
				if err != nil {
					t.Fatalf("GetCellValue(%s): %v", ref, err)
				}
				typ, err := f.GetCellType("Datos", ref)
				if err != nil {
					t.Fatalf("GetCellType(%s): %v", ref, err)
				}
				switch want.Type {
				case models.CellNumber:
					if typ == excelize.CellTypeInlineString {
						t.Errorf("%s read back as text", ref)
					}
					n, err := strconv.ParseFloat(got, 64)
					if err != nil || n != want.Num {
						t.Errorf("%s = %q, expected %v", ref, got, want.Num)
					}
				case models.CellString:
					if typ != excelize.CellTypeInlineString {
						t.Errorf("%s type = %v, expected inline string", ref, typ)
					}
					if got != want.Str {
						t.Errorf("%s = %q, expected %q", ref, got, want.Str)
					}
				}
			}
		}
		f.Close()
	}
}

func TestExtractBytes(t *testing.T) {
	data, err := Encode(sampleWorkbook(), DefaultOptions())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	wb, err := ExtractBytes("dashboard.xlsx", data, InspectOptions{IncludeParts: true})
	if err != nil {
		t.Fatalf("ExtractBytes failed: %v", err)
	}
	if !reflect.DeepEqual(wb.SheetOrder, []string{"Resumen métricas", "Datos", "Datos_1"}) {
		t.Errorf("SheetOrder = %v", wb.SheetOrder)
	}

	datos := wb.Sheets["Datos"]
	if datos.Part != ooxml.WorksheetPath(2) {
		t.Errorf("Part = %q, expected %q", datos.Part, ooxml.WorksheetPath(2))
	}
	if datos.Dimension != "A1:B2" || datos.UsedRange != "A1:B2" {
		t.Errorf("Dimension/UsedRange = %q/%q, expected A1:B2", datos.Dimension, datos.UsedRange)
	}
	if len(datos.Rows) != 2 || datos.Rows[1].C["1"] != int64(1) || datos.Rows[1].C["2"] != int64(1) {
		t.Errorf("Rows = %+v", datos.Rows)
	}

	if len(wb.Parts) != 7+3 {
		t.Fatalf("Expected 10 parts, got %d", len(wb.Parts))
	}
	for _, p := range wb.Parts {
		if !p.Stored {
			t.Errorf("part %s is not stored", p.Path)
		}
	}
}

func TestExtractBytesInvalid(t *testing.T) {
	if _, err := ExtractBytes("x.xlsx", []byte("not a zip"), InspectOptions{}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("err = %v, expected ErrInvalidFormat", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := Extract(t.TempDir()+"/missing.xlsx", InspectOptions{}); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("err = %v, expected ErrFileNotFound", err)
	}
}
