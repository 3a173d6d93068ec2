package dashboard

import (
	"math"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestPercent(t *testing.T) {
	f := DefaultFormatter()
	tests := []struct {
		in   *float64
		want string
	}{
		{ptr(10), "+10.0%"},
		{ptr(-2.54), "-2.5%"},
		{ptr(0), "0.0%"},
		{ptr(-0.01), "0.0%"},
		{ptr(math.NaN()), Missing},
		{ptr(math.Inf(1)), Missing},
		{nil, Missing},
	}
	for _, tt := range tests {
		if got := f.Percent(tt.in); got != tt.want {
			t.Errorf("Percent(%v) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	es := DefaultFormatter()
	en := NewFormatter(language.English, nil)

	if got := es.Number(ptr(324)); got != "324" {
		t.Errorf("es 324 = %q", got)
	}
	if got := es.Number(ptr(1234567.5)); got != "1.234.567,5" {
		t.Errorf("es 1234567.5 = %q", got)
	}
	if got := en.Number(ptr(1234567.5)); got != "1,234,567.5" {
		t.Errorf("en 1234567.5 = %q", got)
	}
	if got := es.Number(nil); got != Missing {
		t.Errorf("nil = %q", got)
	}
}

func TestMetricValue(t *testing.T) {
	f := NewFormatter(language.English, nil)
	tests := []struct {
		v      any
		format string
		want   string
	}{
		{nil, "", Missing},
		{12.5, "percentage", "12.5%"},
		{7, "percentage", "7.0%"},
		{1500, "number", "1,500"},
		{"N/D", "number", "N/D"},
		{math.NaN(), "", "NaN"},
	}
	for _, tt := range tests {
		if got := f.MetricValue(tt.v, tt.format); got != tt.want {
			t.Errorf("MetricValue(%v, %q) = %q, expected %q", tt.v, tt.format, got, tt.want)
		}
	}
}

func TestDateTimeString(t *testing.T) {
	f := NewFormatter(language.Spanish, time.UTC)
	tests := map[string]string{
		"":                     Missing,
		"2025-05-01T14:00:00Z": "01/05/25, 14:00",
		"2025-05-01":           "01/05/25, 00:00",
		"2025-05-01 08:15:00":  "01/05/25, 08:15",
		"mañana":               "mañana",
	}
	for in, want := range tests {
		if got := f.DateTimeString(in); got != want {
			t.Errorf("DateTimeString(%q) = %q, expected %q", in, got, want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	if _, err := ParseFormatter("es-CO", "UTC"); err != nil {
		t.Errorf("ParseFormatter failed: %v", err)
	}
	if _, err := ParseFormatter("es-CO", "Nowhere/City"); err == nil {
		t.Error("Expected error for unknown zone")
	}
}
