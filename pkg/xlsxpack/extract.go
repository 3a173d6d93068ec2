package xlsxpack

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/parser"
	"github.com/xuri/excelize/v2"
)

// InspectOptions configures read-back of a workbook.
type InspectOptions struct {
	// IncludeParts lists the archive entries in the result.
	IncludeParts bool
}

// Extract reads the xlsx file at path into inspection models.
func Extract(path string, opts InspectOptions) (*models.WorkbookData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	return ExtractBytes(filepath.Base(path), data, opts)
}

// ExtractBytes reads an in-memory xlsx package, such as the output of Encode.
func ExtractBytes(bookName string, data []byte, opts InspectOptions) (*models.WorkbookData, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	parts, sheetParts, err := parser.ExtractParts(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	wb, err := extractSheets(f, sheetParts)
	if err != nil {
		return nil, err
	}
	wb.BookName = bookName
	if opts.IncludeParts {
		wb.Parts = parts
	}
	return wb, nil
}

// ExtractReader reads an xlsx package from r.
func ExtractReader(bookName string, r io.Reader, opts InspectOptions) (*models.WorkbookData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ExtractBytes(bookName, data, opts)
}

func extractSheets(f *excelize.File, sheetParts map[string]string) (*models.WorkbookData, error) {
	sheetList := f.GetSheetList()
	sheets := make(map[string]models.SheetData, len(sheetList))

	for _, sheetName := range sheetList {
		rows, err := parser.ExtractCells(f, sheetName)
		if err != nil {
			return nil, NewExtractionError(sheetName, "cells", err)
		}

		dim, err := f.GetSheetDimension(sheetName)
		if err != nil {
			return nil, NewExtractionError(sheetName, "dimension", err)
		}
		used, err := parser.UsedRange(f, sheetName)
		if err != nil {
			return nil, NewExtractionError(sheetName, "used range", err)
		}

		sheets[sheetName] = models.SheetData{
			Part:      sheetParts[sheetName],
			Dimension: dim,
			UsedRange: used,
			Rows:      rows,
		}
	}

	return &models.WorkbookData{
		SheetOrder: sheetList,
		Sheets:     sheets,
	}, nil
}
