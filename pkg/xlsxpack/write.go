package xlsxpack

import (
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/ooxml"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/zipstore"
)

// Download is a finished archive ready to be handed to a host.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Host delivers a finished archive to its destination: a file, an HTTP
// response, memory. It is the only side effect of writing a workbook.
type Host interface {
	Emit(d Download) error
}

// HostFunc adapts a function to Host.
type HostFunc func(d Download) error

// Emit calls f(d).
func (f HostFunc) Emit(d Download) error {
	return f(d)
}

// Encode renders wb as xlsx bytes. It fails with ErrEmptyWorkbook when wb has
// no sheets.
func Encode(wb *models.Workbook, opts Options) ([]byte, error) {
	if wb.Len() == 0 {
		return nil, ErrEmptyWorkbook
	}
	entries, err := ooxml.Parts(wb, opts.parts())
	if err != nil {
		return nil, err
	}
	return zipstore.Encode(entries)
}

// WriteArchiveToDownload encodes wb with default options and emits it to host
// under filename.
func WriteArchiveToDownload(wb *models.Workbook, filename string, host Host) error {
	return WriteArchive(wb, filename, host, DefaultOptions())
}

// WriteArchive encodes wb and emits it to host under filename. Nothing reaches
// the host unless the whole archive was built.
func WriteArchive(wb *models.Workbook, filename string, host Host, opts Options) error {
	if wb.Len() == 0 {
		return ErrEmptyWorkbook
	}
	if host == nil {
		return ErrNoHost
	}
	data, err := Encode(wb, opts)
	if err != nil {
		return err
	}
	if err := host.Emit(Download{Filename: filename, ContentType: ContentType, Data: data}); err != nil {
		return NewEmitError(filename, err)
	}
	return nil
}
