package xlsxpack

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/ooxml"
)

// ErrEmptyWorkbook indicates a workbook without sheets was asked to be written.
var ErrEmptyWorkbook = ooxml.ErrEmptyWorkbook

// ErrNoHost indicates no download host is available to receive the archive.
var ErrNoHost = errors.New("no download host available")

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// EmitError represents a failure of the host while delivering a download.
type EmitError struct {
	Filename string
	Err      error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("emit %q: %v", e.Filename, e.Err)
}

func (e *EmitError) Unwrap() error {
	return e.Err
}

// NewEmitError creates a new EmitError.
func NewEmitError(filename string, err error) *EmitError {
	return &EmitError{
		Filename: filename,
		Err:      err,
	}
}

// ExtractionError represents an error while reading a sheet back.
type ExtractionError struct {
	SheetName string
	Component string // "cells", "dimension", "used range"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
