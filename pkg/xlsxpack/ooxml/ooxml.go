// Package ooxml renders the XML parts of a SpreadsheetML package.
package ooxml

import (
	"errors"
	"fmt"
	"time"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/zipstore"
)

// XML namespaces and relationship types used in the package.
const (
	nsMain          = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsR             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRels       = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsCoreProps     = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsExtendedProps = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsDocPropsVT    = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"

	relOfficeDocument = nsR + "/officeDocument"
	relWorksheet      = nsR + "/worksheet"
	relStyles         = nsR + "/styles"
	relExtendedProps  = nsR + "/extended-properties"
	relCoreProps      = nsPkgRels + "/metadata/core-properties"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// Part paths inside the package.
const (
	PathContentTypes  = "[Content_Types].xml"
	PathRootRels      = "_rels/.rels"
	PathAppProps      = "docProps/app.xml"
	PathCoreProps     = "docProps/core.xml"
	PathWorkbook      = "xl/workbook.xml"
	PathWorkbookRels  = "xl/_rels/workbook.xml.rels"
	PathStyles        = "xl/styles.xml"
	worksheetPathTmpl = "xl/worksheets/sheet%d.xml"
)

// MaxCellChars is the longest text a spreadsheet cell holds.
const MaxCellChars = 32767

// ErrEmptyWorkbook indicates a workbook without sheets.
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// Options configures metadata and limits of the generated parts.
type Options struct {
	// Creator is written as dc:creator and cp:lastModifiedBy.
	Creator string
	// Application is written to the extended properties.
	Application string
	// CreatedAt overrides the workbook timestamp when non-zero.
	CreatedAt time.Time
	// MaxCellChars caps inline string length; 0 or above MaxCellChars means MaxCellChars.
	MaxCellChars int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Creator:     "Dashboard Exporter",
		Application: "xlsxpack",
	}
}

func (o Options) maxCellChars() int {
	if o.MaxCellChars <= 0 || o.MaxCellChars > MaxCellChars {
		return MaxCellChars
	}
	return o.MaxCellChars
}

func (o Options) createdAt(wb *models.Workbook) time.Time {
	switch {
	case !o.CreatedAt.IsZero():
		return o.CreatedAt
	case !wb.CreatedAt.IsZero():
		return wb.CreatedAt
	}
	return time.Now()
}

// WorksheetPath returns the part path of the 1-based sheet index.
func WorksheetPath(index int) string {
	return fmt.Sprintf(worksheetPathTmpl, index)
}

// Parts returns every part of the package in archive order.
func Parts(wb *models.Workbook, opts Options) ([]zipstore.Entry, error) {
	if wb.Len() == 0 {
		return nil, ErrEmptyWorkbook
	}
	names := wb.SheetNames

	entries := []zipstore.Entry{
		{Path: PathContentTypes, Data: ContentTypes(len(names))},
		{Path: PathRootRels, Data: RootRels()},
		{Path: PathAppProps, Data: AppProps(names, opts.Application)},
		{Path: PathCoreProps, Data: CoreProps(opts.Creator, opts.createdAt(wb))},
		{Path: PathWorkbook, Data: WorkbookXML(names)},
		{Path: PathWorkbookRels, Data: WorkbookRels(len(names))},
		{Path: PathStyles, Data: Styles()},
	}

	for i, name := range names {
		sheet, ok := wb.Sheets[name]
		if !ok || sheet == nil {
			return nil, fmt.Errorf("sheet %q listed but not registered", name)
		}
		entries = append(entries, zipstore.Entry{
			Path: WorksheetPath(i + 1),
			Data: Worksheet(sheet, opts.maxCellChars()),
		})
	}
	return entries, nil
}
