package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xlsxpack.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Creator != "Dashboard Exporter" || cfg.Server.MaxBodyBytes != 10<<20 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvAddr, "")
	path := writeConfig(t, `
creator: Bienestar
timezone: UTC
server:
  addr: ":9090"
  read_header_timeout: 3s
database:
  driver: sqlite3
  dsn: "file::memory:"
reports:
  - name: semanal
    filename: comparativo.xlsx
    sections:
      - sheet: Datos
        query: SELECT 1 AS uno
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Creator != "Bienestar" || cfg.Server.Addr != ":9090" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Server.ReadHeaderTimeout != 3*time.Second {
		t.Errorf("ReadHeaderTimeout = %v, expected 3s", cfg.Server.ReadHeaderTimeout)
	}
	if cfg.Application != "xlsxpack" {
		t.Errorf("default Application lost: %q", cfg.Application)
	}
	r, ok := cfg.Report("semanal")
	if !ok || len(r.Sections) != 1 || r.Sections[0].Sheet != "Datos" {
		t.Errorf("Report(semanal) = %+v, %v", r, ok)
	}
	if _, ok := cfg.Report("missing"); ok {
		t.Error("Report(missing) found")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvAddr, ":7070")
	t.Setenv(EnvDSN, "file:test.db")
	t.Setenv(EnvLogLevel, "debug")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":7070" || cfg.Database.DSN != "file:test.db" || cfg.LogLevel != "debug" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		substr string
	}{
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"body size", func(c *Config) { c.Server.MaxBodyBytes = 0 }, "max_body_bytes"},
		{"report without dsn", func(c *Config) {
			c.Reports = []Report{{Name: "r", Sections: []ReportSection{{Query: "SELECT 1"}}}}
		}, "database.dsn"},
		{"report without query", func(c *Config) {
			c.Database.DSN = "x"
			c.Reports = []Report{{Name: "r", Sections: []ReportSection{{Sheet: "s"}}}}
		}, "no query"},
		{"duplicate report", func(c *Config) {
			c.Database.DSN = "x"
			s := []ReportSection{{Query: "SELECT 1"}}
			c.Reports = []Report{{Name: "r", Sections: s}, {Name: "r", Sections: s}}
		}, "duplicate"},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalid) || !strings.Contains(err.Error(), tt.substr) {
			t.Errorf("%s: Validate() = %v, expected error containing %q", tt.name, err, tt.substr)
		}
	}
}

func TestReportFilename(t *testing.T) {
	ts := time.Date(2025, 10, 16, 8, 5, 9, 0, time.UTC)
	tests := []struct {
		report   Report
		expected string
	}{
		{Report{Name: "semanal"}, "semanal_20251016_080509.xlsx"},
		{Report{Name: "x", Filename: "comparativo.xlsx"}, "comparativo_20251016_080509.xlsx"},
	}
	for _, tt := range tests {
		if result := ReportFilename(tt.report, ts); result != tt.expected {
			t.Errorf("ReportFilename(%+v) = %q, expected %q", tt.report, result, tt.expected)
		}
	}
}
