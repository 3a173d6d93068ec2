package dashboard

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Missing is rendered in place of absent values.
const Missing = "–"

// DateTimeLayout renders dates as dd/mm/yy, HH:MM.
const DateTimeLayout = "02/01/06, 15:04"

// inputLayouts are tried in order when parsing activity dates.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Formatter renders dashboard values as display strings.
type Formatter struct {
	printer  *message.Printer
	location *time.Location
}

// NewFormatter returns a Formatter for the given locale and time zone.
// A nil location means UTC.
func NewFormatter(tag language.Tag, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{printer: message.NewPrinter(tag), location: loc}
}

// ParseFormatter builds a Formatter from a BCP 47 locale and an IANA zone name.
func ParseFormatter(locale, zone string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", zone, err)
	}
	return NewFormatter(tag, loc), nil
}

// DefaultFormatter formats for Spanish in UTC.
func DefaultFormatter() *Formatter {
	return NewFormatter(language.Spanish, time.UTC)
}

// Number renders v with locale digit grouping and up to three decimals.
func (f *Formatter) Number(v *float64) string {
	if v == nil || !finite(*v) {
		return Missing
	}
	return f.number(*v)
}

func (f *Formatter) number(v float64) string {
	return f.printer.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}

// Percent renders a signed change with one decimal, e.g. +10.0%.
func (f *Formatter) Percent(v *float64) string {
	if v == nil || !finite(*v) {
		return Missing
	}
	rounded := math.Round(*v*10) / 10
	s := strconv.FormatFloat(math.Abs(rounded), 'f', 1, 64) + "%"
	switch {
	case rounded > 0:
		return "+" + s
	case rounded < 0:
		return "-" + s
	}
	return s
}

// MetricValue renders a summary card value according to format.
func (f *Formatter) MetricValue(v any, format string) string {
	if v == nil {
		return Missing
	}
	n, ok := toFloat(v)
	if !ok || !finite(n) {
		return fmt.Sprint(v)
	}
	if format == "percentage" {
		return strconv.FormatFloat(n, 'f', 1, 64) + "%"
	}
	return f.number(n)
}

// DateTime renders t in the formatter's time zone.
func (f *Formatter) DateTime(t time.Time) string {
	if t.IsZero() {
		return Missing
	}
	return t.In(f.location).Format(DateTimeLayout)
}

// DateTimeString parses s and renders it like DateTime. Unparseable input is
// returned unchanged.
func (f *Formatter) DateTimeString(s string) string {
	if s == "" {
		return Missing
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, f.location); err == nil {
			return f.DateTime(t)
		}
	}
	return s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
