// Package config loads service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid indicates a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid")

// Environment overrides applied after the file is read.
const (
	EnvAddr     = "XLSXPACK_ADDR"
	EnvDSN      = "XLSXPACK_DATABASE_DSN"
	EnvDriver   = "XLSXPACK_DATABASE_DRIVER"
	EnvLogLevel = "XLSXPACK_LOG_LEVEL"
)

// Config is the service configuration.
type Config struct {
	Creator      string `yaml:"creator"`
	Application  string `yaml:"application"`
	Locale       string `yaml:"locale"`
	Timezone     string `yaml:"timezone"`
	MaxCellChars int    `yaml:"max_cell_chars"`
	LogLevel     string `yaml:"log_level"`

	Server struct {
		Addr              string        `yaml:"addr"`
		MaxBodyBytes      int64         `yaml:"max_body_bytes"`
		ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Reports []Report `yaml:"reports"`
}

// Report is a named export whose sheets are filled by SQL queries.
type Report struct {
	Name     string          `yaml:"name"`
	Filename string          `yaml:"filename"`
	Sections []ReportSection `yaml:"sections"`
}

// ReportSection is one sheet of a Report.
type ReportSection struct {
	Sheet string `yaml:"sheet"`
	Query string `yaml:"query"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.Creator = "Dashboard Exporter"
	c.Application = "xlsxpack"
	c.Locale = "es-ES"
	c.Timezone = "Local"
	c.LogLevel = "info"
	c.Server.Addr = ":8080"
	c.Server.MaxBodyBytes = 10 << 20
	c.Server.ReadHeaderTimeout = 10 * time.Second
	c.Database.Driver = "sqlite3"
	return c
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvDriver); ok && v != "" {
		c.Database.Driver = v
	}
	if v, ok := lookup(EnvDSN); ok && v != "" {
		c.Database.DSN = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// Validate checks field values and report definitions.
func (c Config) Validate() error {
	var errs []error
	if c.MaxCellChars < 0 {
		errs = append(errs, fmt.Errorf("%w: max_cell_chars must not be negative", ErrInvalid))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: server.max_body_bytes must be positive", ErrInvalid))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("%w: timezone %q: %v", ErrInvalid, c.Timezone, err))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		errs = append(errs, fmt.Errorf("%w: database.driver %q (must be sqlite3 or postgres)", ErrInvalid, c.Database.Driver))
	}

	seen := make(map[string]bool)
	for i, r := range c.Reports {
		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, fmt.Errorf("%w: reports[%d].name is empty", ErrInvalid, i))
		}
		if seen[r.Name] {
			errs = append(errs, fmt.Errorf("%w: duplicate report %q", ErrInvalid, r.Name))
		}
		seen[r.Name] = true
		if len(r.Sections) == 0 {
			errs = append(errs, fmt.Errorf("%w: report %q has no sections", ErrInvalid, r.Name))
		}
		for j, s := range r.Sections {
			if strings.TrimSpace(s.Query) == "" {
				errs = append(errs, fmt.Errorf("%w: report %q section %d has no query", ErrInvalid, r.Name, j))
			}
		}
	}
	if len(c.Reports) > 0 && c.Database.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: reports need database.dsn", ErrInvalid))
	}
	return errors.Join(errs...)
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Level parses the configured log level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Report returns the report with the given name.
func (c Config) Report(name string) (Report, bool) {
	for _, r := range c.Reports {
		if r.Name == name {
			return r, true
		}
	}
	return Report{}, false
}

// ReportFilename returns the download name of r, stamped with t.
func ReportFilename(r Report, t time.Time) string {
	base := r.Filename
	if base == "" {
		base = r.Name
	}
	base = strings.TrimSuffix(base, ".xlsx")
	return base + "_" + t.Format("20060102_150405") + ".xlsx"
}

// String renders the configuration as YAML.
func (c Config) String() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "config: " + strconv.Quote(err.Error())
	}
	return string(b)
}
