// Package emit provides hosts that deliver finished archives.
package emit

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack"
)

// ErrInvalidFilename indicates a download name that cannot be used.
var ErrInvalidFilename = errors.New("invalid download filename")

// DirHost writes downloads into Dir. The file appears atomically: data is
// written to a temporary file in the same directory and renamed into place.
type DirHost struct {
	Dir string
	// Perm is the mode of created files. Defaults to 0644.
	Perm os.FileMode
}

// Emit implements xlsxpack.Host.
func (h DirHost) Emit(d xlsxpack.Download) error {
	name, err := BaseName(d.Filename)
	if err != nil {
		return err
	}
	dir := h.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	perm := h.Perm
	if perm == 0 {
		perm = 0644
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(d.Data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, filepath.Join(dir, name))
}

// Path returns where Emit stores filename.
func (h DirHost) Path(filename string) string {
	name, _ := BaseName(filename)
	dir := h.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, name)
}

// HTTPHost answers an HTTP request with the download as an attachment.
type HTTPHost struct {
	W http.ResponseWriter
}

// Emit implements xlsxpack.Host.
func (h HTTPHost) Emit(d xlsxpack.Download) error {
	if h.W == nil {
		return xlsxpack.ErrNoHost
	}
	name, err := BaseName(d.Filename)
	if err != nil {
		return err
	}
	ct := d.ContentType
	if ct == "" {
		ct = xlsxpack.ContentType
	}
	hdr := h.W.Header()
	hdr.Set("Content-Type", ct)
	hdr.Set("Content-Disposition", ContentDisposition(name))
	hdr.Set("Content-Length", strconv.Itoa(len(d.Data)))
	hdr.Set("X-Content-Type-Options", "nosniff")
	h.W.WriteHeader(http.StatusOK)
	_, err = h.W.Write(d.Data)
	return err
}

// ContentDisposition returns an attachment header value for name. Non-ASCII
// names are carried in the RFC 5987 filename* parameter.
func ContentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return fmt.Sprintf("attachment; filename=%q", asciiFallback(name))
}

// MemoryHost keeps downloads in memory.
type MemoryHost struct {
	mu        sync.Mutex
	downloads []xlsxpack.Download
}

// Emit implements xlsxpack.Host.
func (h *MemoryHost) Emit(d xlsxpack.Download) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	d.Data = append([]byte(nil), d.Data...)
	h.downloads = append(h.downloads, d)
	return nil
}

// Downloads returns the captured downloads in emit order.
func (h *MemoryHost) Downloads() []xlsxpack.Download {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]xlsxpack.Download(nil), h.downloads...)
}

// Last returns the most recent download.
func (h *MemoryHost) Last() (xlsxpack.Download, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.downloads) == 0 {
		return xlsxpack.Download{}, false
	}
	return h.downloads[len(h.downloads)-1], true
}

// BaseName strips directories from filename and rejects names that cannot be
// stored.
func BaseName(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	if strings.ContainsFunc(name, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return name, nil
}

func asciiFallback(name string) string {
	return strings.Map(func(r rune) rune {
		if r > 0x7e || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, name)
}
