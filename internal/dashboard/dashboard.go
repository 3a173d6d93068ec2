// Package dashboard turns a dashboard snapshot into an export workbook.
package dashboard

import (
	"time"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/book"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
)

// Sheet names, in the order they are appended.
const (
	SheetInfo       = "Información"
	SheetSummary    = "Resumen métricas"
	SheetWeekly     = "Comparativo semanal"
	SheetActivities = "Actividades recientes"
)

// Dashboard is the snapshot shown on the admin dashboard.
type Dashboard struct {
	SummaryCards     []SummaryCard  `json:"summaryCards" yaml:"summaryCards"`
	WeeklyMetrics    []WeeklyMetric `json:"weeklyMetrics" yaml:"weeklyMetrics"`
	RecentActivities []Activity     `json:"recentActivities" yaml:"recentActivities"`
	GeneratedAt      *time.Time     `json:"generatedAt,omitempty" yaml:"generatedAt,omitempty"`
}

// SummaryCard is one headline metric. Format "percentage" renders Value as a
// percentage; anything else renders it as a number or plain text.
type SummaryCard struct {
	Key    string   `json:"key" yaml:"key"`
	Label  string   `json:"label" yaml:"label"`
	Value  any      `json:"value" yaml:"value"`
	Format string   `json:"format,omitempty" yaml:"format,omitempty"`
	Change *float64 `json:"change,omitempty" yaml:"change,omitempty"`
}

// WeeklyMetric compares this week against the previous one.
type WeeklyMetric struct {
	Key      string   `json:"key" yaml:"key"`
	Label    string   `json:"label" yaml:"label"`
	Current  *float64 `json:"current" yaml:"current"`
	Previous *float64 `json:"previous" yaml:"previous"`
	Change   *float64 `json:"change,omitempty" yaml:"change,omitempty"`
}

// Activity is one row of the recent activities table. Start and End are
// kept as sent and parsed when rendered.
type Activity struct {
	Title           string   `json:"title" yaml:"title"`
	Name            string   `json:"name" yaml:"name"`
	Category        string   `json:"category" yaml:"category"`
	Status          string   `json:"status" yaml:"status"`
	Start           string   `json:"start" yaml:"start"`
	End             string   `json:"end" yaml:"end"`
	Capacity        *float64 `json:"capacity" yaml:"capacity"`
	AvailableSpots  *float64 `json:"availableSpots" yaml:"availableSpots"`
	ActualAttendees *float64 `json:"actualAttendees" yaml:"actualAttendees"`
	Enrollments     *float64 `json:"enrollments" yaml:"enrollments"`
}

// Build assembles the dashboard workbook. Sections without rows get no sheet.
func Build(d Dashboard, f *Formatter) *models.Workbook {
	if f == nil {
		f = DefaultFormatter()
	}
	wb := book.NewWorkbook()
	book.AppendSheet(wb, book.SheetFromRecords(metadataRows(d, f)), SheetInfo)
	book.AppendSheet(wb, book.SheetFromRecords(summaryRows(d.SummaryCards, f)), SheetSummary)
	book.AppendSheet(wb, book.SheetFromRecords(weeklyRows(d.WeeklyMetrics, f)), SheetWeekly)
	book.AppendSheet(wb, book.SheetFromRecords(activityRows(d.RecentActivities, f)), SheetActivities)
	return wb
}

func metadataRows(d Dashboard, f *Formatter) []models.Record {
	rows := make([]models.Record, 0, 4)
	if d.GeneratedAt != nil && !d.GeneratedAt.IsZero() {
		rows = append(rows, models.R("Campo", "Generado el", "Valor", f.DateTime(*d.GeneratedAt)))
	}
	return append(rows,
		models.R("Campo", "Total métricas", "Valor", len(d.SummaryCards)),
		models.R("Campo", "Indicadores semanales", "Valor", len(d.WeeklyMetrics)),
		models.R("Campo", "Actividades recientes", "Valor", len(d.RecentActivities)),
	)
}

func summaryRows(cards []SummaryCard, f *Formatter) []models.Record {
	rows := make([]models.Record, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, models.R(
			"Métrica", firstNonEmpty(c.Label, c.Key, "Métrica"),
			"Valor", f.MetricValue(c.Value, c.Format),
			"Cambio %", f.Percent(c.Change),
		))
	}
	return rows
}

func weeklyRows(metrics []WeeklyMetric, f *Formatter) []models.Record {
	rows := make([]models.Record, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, models.R(
			"Métrica", firstNonEmpty(m.Label, m.Key, "Indicador"),
			"Actual", f.Number(m.Current),
			"Semana anterior", f.Number(m.Previous),
			"Cambio %", f.Percent(m.Change),
		))
	}
	return rows
}

func activityRows(activities []Activity, f *Formatter) []models.Record {
	rows := make([]models.Record, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, models.R(
			"Actividad", firstNonEmpty(a.Title, a.Name, "Actividad"),
			"Categoría", firstNonEmpty(a.Category, Missing),
			"Estado", firstNonEmpty(a.Status, Missing),
			"Fecha inicio", f.DateTimeString(a.Start),
			"Fecha fin", f.DateTimeString(a.End),
			"Cupo total", f.Number(a.Capacity),
			"Cupos disponibles", f.Number(a.AvailableSpots),
			"Asistentes", f.Number(a.ActualAttendees),
			"Inscripciones", f.Number(a.Enrollments),
		))
	}
	return rows
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
