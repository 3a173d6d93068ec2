// Package xlsxpack writes tabular records as xlsx spreadsheet packages.
package xlsxpack

import (
	"time"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/ooxml"
)

// ContentType is the MIME type of an xlsx package.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Options configures archive generation.
type Options struct {
	// Creator is recorded as document author. Defaults to "Dashboard Exporter".
	Creator string
	// Application is recorded as producing application. Defaults to "xlsxpack".
	Application string
	// CreatedAt overrides the workbook timestamp when non-zero.
	CreatedAt time.Time
	// MaxCellChars caps text cells. 0 means the spreadsheet limit (32767).
	MaxCellChars int
}

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	d := ooxml.DefaultOptions()
	return Options{
		Creator:     d.Creator,
		Application: d.Application,
	}
}

func (o Options) parts() ooxml.Options {
	d := ooxml.DefaultOptions()
	out := ooxml.Options{
		Creator:      o.Creator,
		Application:  o.Application,
		CreatedAt:    o.CreatedAt,
		MaxCellChars: o.MaxCellChars,
	}
	if out.Creator == "" {
		out.Creator = d.Creator
	}
	if out.Application == "" {
		out.Application = d.Application
	}
	return out
}
